// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package response defines the result contract returned by command executors.
//
// A Response pairs a Status with an optional message. The zero value is a
// successful response without a message, which is what an executor that has
// nothing to report should return.
package response

import (
	"fmt"
	"strconv"
)

// =============================================================================
// STATUS
// =============================================================================

// Status describes the outcome of a command invocation.
type Status int32

const (
	// Success indicates that the command executed successfully.
	Success Status = 0

	// Failure indicates a general failure with the command.
	Failure Status = 1

	// SyntaxError indicates that no overload matched the raw arguments.
	SyntaxError Status = -2147483648

	// IncorrectArgs indicates syntactically valid input that could not be
	// resolved, such as a selector matching nobody or a permission gate.
	IncorrectArgs Status = -2147352576
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Success:
		return "SUCCESS"
	case Failure:
		return "FAILURE"
	case SyntaxError:
		return "SYNTAX_ERROR"
	case IncorrectArgs:
		return "INCORRECT_ARGS"
	default:
		return "STATUS(" + strconv.FormatInt(int64(s), 10) + ")"
	}
}

// IsError reports whether the status must be rendered with error severity.
func (s Status) IsError() bool {
	return s != Success
}

// Known reports whether s is one of the declared statuses.
func (s Status) Known() bool {
	switch s {
	case Success, Failure, SyntaxError, IncorrectArgs:
		return true
	}
	return false
}

// =============================================================================
// RESPONSE
// =============================================================================

// Response is the result of a command invocation.
type Response struct {
	Status  Status
	Message string
}

// OK returns a successful response carrying msg.
func OK(msg string) Response {
	return Response{Status: Success, Message: msg}
}

// Fail returns a FAILURE response.
func Fail(format string, args ...any) Response {
	return Response{Status: Failure, Message: fmt.Sprintf(format, args...)}
}

// Syntax returns a SYNTAX_ERROR response.
func Syntax(format string, args ...any) Response {
	return Response{Status: SyntaxError, Message: fmt.Sprintf(format, args...)}
}

// Incorrect returns an INCORRECT_ARGS response.
func Incorrect(format string, args ...any) Response {
	return Response{Status: IncorrectArgs, Message: fmt.Sprintf(format, args...)}
}

// Succeeded reports whether the response has status SUCCESS.
func (r Response) Succeeded() bool {
	return r.Status == Success
}

// Validate checks the response contract: every non-SUCCESS status must carry
// a message.
func (r Response) Validate() error {
	if r.Status != Success && r.Message == "" {
		return &ContractError{Status: r.Status}
	}
	return nil
}

// ContractError reports a response that violates the message requirement.
type ContractError struct {
	Status Status
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("response with status %s has no status message", e.Status)
}
