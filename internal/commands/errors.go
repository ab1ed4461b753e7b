// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"

	"github.com/jeranaias/slashcmd/internal/response"
	"github.com/jeranaias/slashcmd/internal/tasks"
)

// =============================================================================
// DECLARATION ERRORS
// =============================================================================

// DeclarationKind classifies a declaration error.
type DeclarationKind int

const (
	// DeclInvalidName is an empty name or one containing whitespace.
	DeclInvalidName DeclarationKind = iota
	// DeclDuplicateName is a command, alias or option name already in use.
	DeclDuplicateName
	// DeclParamOrder is a required parameter after an optional one.
	DeclParamOrder
	// DeclOverloadConflict mixes single-overload and multi-overload calls.
	DeclOverloadConflict
	// DeclUnresolvedType is a parameter type that names no primitive or option.
	DeclUnresolvedType
	// DeclMissingExecutor is a command registered without an executor.
	DeclMissingExecutor
	// DeclFrozen is a mutation of an already registered command.
	DeclFrozen
	// DeclInvalidValue covers other malformed declarations.
	DeclInvalidValue
)

func (k DeclarationKind) String() string {
	switch k {
	case DeclInvalidName:
		return "invalid name"
	case DeclDuplicateName:
		return "duplicate name"
	case DeclParamOrder:
		return "parameter order"
	case DeclOverloadConflict:
		return "overload conflict"
	case DeclUnresolvedType:
		return "unresolved type"
	case DeclMissingExecutor:
		return "missing executor"
	case DeclFrozen:
		return "already registered"
	default:
		return "invalid value"
	}
}

// DeclarationError is raised when a command, overload or option is declared
// or registered incorrectly. It is always fatal to that registration.
type DeclarationError struct {
	Kind    DeclarationKind
	Subject string // command or option the error belongs to
	Reason  string
}

func (e *DeclarationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("declaration error (%s): %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("declaration error (%s) in %q: %s", e.Kind, e.Subject, e.Reason)
}

func declErr(kind DeclarationKind, subject, format string, args ...any) *DeclarationError {
	return &DeclarationError{Kind: kind, Subject: subject, Reason: fmt.Sprintf(format, args...)}
}

// DuplicateNameError reports a name that is already registered.
type DuplicateNameError struct {
	Name  string
	Space string // "command" or "option"
	Owner string // name of the entry that already holds Name
}

func (e *DuplicateNameError) Error() string {
	if e.Owner != "" && e.Owner != e.Name {
		return fmt.Sprintf("duplicate %s name %q (already used by %q)", e.Space, e.Name, e.Owner)
	}
	return fmt.Sprintf("duplicate %s name %q", e.Space, e.Name)
}

// Unwrap exposes the error as a DeclarationError.
func (e *DuplicateNameError) Unwrap() error {
	return &DeclarationError{Kind: DeclDuplicateName, Subject: e.Name, Reason: e.Error()}
}

// =============================================================================
// EXECUTION ERRORS
// =============================================================================

// CommandExecutionError is returned by synchronous re-entry (and rejects
// asynchronous re-entry) when a command does not succeed.
type CommandExecutionError struct {
	Line     string
	Response response.Response
	Err      error // underlying cause, such as ErrUnknownCommand
}

func (e *CommandExecutionError) Error() string {
	return fmt.Sprintf("command %q failed (%s): %s", e.Line, e.Response.Status, e.Response.Message)
}

// Status returns the status the command finished with.
func (e *CommandExecutionError) Status() response.Status {
	return e.Response.Status
}

func (e *CommandExecutionError) Unwrap() error {
	return e.Err
}

// ExecutionError describes an executor that returned an error or panicked.
// It is logged and converted to a FAILURE response at the dispatch boundary.
type ExecutionError struct {
	Command string
	Err     error
	Panic   any
}

func (e *ExecutionError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("executor for /%s panicked: %v", e.Command, e.Panic)
	}
	return fmt.Sprintf("executor for /%s failed: %v", e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

var (
	// ErrNotInitialized is returned when the process registry is used before Init.
	ErrNotInitialized = errors.New("command registry not initialized")

	// ErrNoSender is returned when a command is run without an issuer.
	ErrNoSender = errors.New("command has no sender")

	// ErrUnknownCommand is the cause of a CommandExecutionError for a line
	// naming no registered command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNestingTooDeep is the cause of a CommandExecutionError for re-entry
	// beyond the configured depth.
	ErrNestingTooDeep = errors.New("command nesting too deep")

	// ErrAsyncQueueFull rejects an asynchronous run when this tick's batch is full.
	ErrAsyncQueueFull = tasks.ErrQueueFull
)
