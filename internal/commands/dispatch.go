// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"

	"github.com/jeranaias/slashcmd/internal/response"
	"github.com/jeranaias/slashcmd/internal/sender"
)

// =============================================================================
// DISPATCH
// =============================================================================

// Dispatch runs line for s and sends the response message, if any, back to s
// with error severity for any status other than SUCCESS. It is the host's
// entry point.
func (r *Registry) Dispatch(s sender.Sender, line string) response.Response {
	resp := r.Execute(s, line)
	if s != nil && resp.Message != "" {
		sev := sender.SeverityInfo
		if resp.Status.IsError() {
			sev = sender.SeverityError
		}
		s.SendMessage(sender.Message{Text: resp.Message, Severity: sev})
	}
	return resp
}

// Execute runs line for s and returns the response without surfacing it.
// Resolution failures are reported as responses, never as errors.
func (r *Registry) Execute(s sender.Sender, line string) response.Response {
	resp, _ := r.execute(s, line, true)
	return resp
}

// RunCommand is synchronous re-entry: it runs line with s as the issuer and
// returns a *CommandExecutionError when the command does not succeed.
func (r *Registry) RunCommand(s sender.Sender, line string) (response.Response, error) {
	if s == nil {
		return response.Response{}, ErrNoSender
	}

	origin := sender.Origin(s)
	if !r.enter(origin) {
		resp := response.Fail("Command nesting is deeper than %d levels", r.maxDepth)
		r.logger.Warn("nesting limit reached", "sender", origin.Name(), "line", line)
		return resp, &CommandExecutionError{Line: line, Response: resp, Err: ErrNestingTooDeep}
	}
	defer r.leave(origin)

	resp, cause := r.execute(s, line, false)
	if !resp.Succeeded() {
		return resp, &CommandExecutionError{Line: line, Response: resp, Err: cause}
	}
	return resp, nil
}

// execute returns the response and the cause of a failure when there is
// one: ErrUnknownCommand or the executor's error. Only host entries are
// rate limited; re-entry from a running command is not.
func (r *Registry) execute(s sender.Sender, line string, limited bool) (response.Response, error) {
	if s == nil {
		return response.Fail("No sender for command %q", line), ErrNoSender
	}

	line = TrimSlash(line)
	toks := Tokenize(line)
	if len(toks) == 0 {
		return response.Syntax("Syntax error: empty command"), nil
	}

	cmd, ok := r.Lookup(toks[0].Text)
	if !ok {
		r.logger.Debug("unknown command", "sender", s.Name(), "name", toks[0].Text)
		return response.Syntax("Unknown command: %s. Please check that the command exists and that you have permission to use it.", toks[0].Text), ErrUnknownCommand
	}

	if limited && r.limiter != nil && !r.limiter.allow(s) {
		r.logger.Warn("rate limit exceeded", "sender", s.Name(), "command", cmd.name)
		return response.Fail("You are sending commands too fast"), nil
	}
	if !s.HasSufficientPermission(cmd) {
		return response.Incorrect("You do not have permission to use /%s", cmd.name), nil
	}
	if cmd.requiresCheats && !r.CheatsEnabled() {
		return response.Incorrect("Cheats must be enabled to use /%s", cmd.name), nil
	}

	args, failure, ok := r.resolve(s, cmd, line, toks[1:])
	if !ok {
		return failure, nil
	}
	return r.invoke(s, cmd, line, args)
}

// invoke runs the executor, converting errors, panics and contract
// violations into FAILURE responses. The returned error is the executor's
// failure, if any, for callers that keep a cause chain.
func (r *Registry) invoke(s sender.Sender, cmd *Command, line string, args Args) (resp response.Response, cause error) {
	defer func() {
		if p := recover(); p != nil {
			execErr := &ExecutionError{Command: cmd.name, Panic: p}
			r.logger.Error("executor panicked", "command", cmd.name, "sender", s.Name(), "line", line, "err", execErr)
			resp = response.Fail("An unexpected error occurred while running /%s", cmd.name)
			cause = execErr
		}
	}()

	resp, err := cmd.executor(s, args, cmd)
	if err != nil {
		execErr := &ExecutionError{Command: cmd.name, Err: err}
		r.logger.Error("executor failed", "command", cmd.name, "sender", s.Name(), "line", line, "err", err)
		return response.Fail("An error occurred while running /%s: %v", cmd.name, err), execErr
	}

	if verr := resp.Validate(); verr != nil {
		r.logger.Error("response contract violated", "command", cmd.name, "status", resp.Status, "err", verr)
		return response.Fail("command %s returned %s without a status message", cmd.name, resp.Status), verr
	}
	return resp, nil
}

// =============================================================================
// RESOLUTION
// =============================================================================

// resolve tries each overload in declaration order and binds the first one
// that consumes every token.
func (r *Registry) resolve(s sender.Sender, cmd *Command, line string, toks []Token) (Args, response.Response, bool) {
	furthest := -1
	for _, o := range cmd.overloads {
		args, stop, ok := r.matchOverload(s, o, line, toks)
		if ok {
			return args, response.Response{}, true
		}
		if stop > furthest {
			furthest = stop
		}
	}
	return nil, syntaxError(cmd, line, toks, furthest), false
}

// matchOverload binds toks against o. On failure it returns the index of the
// token it stopped at.
func (r *Registry) matchOverload(s sender.Sender, o *Overload, line string, toks []Token) (Args, int, bool) {
	args := make(Args, 0, len(o.params))
	i := 0
	seenOptional := false
	for _, p := range o.params {
		if p.Optional {
			seenOptional = true
		} else if seenOptional {
			return nil, i, false
		}

		if i >= len(toks) {
			if p.Optional {
				break
			}
			return nil, i, false
		}

		n, value, ok := r.matchParam(s, p, line, toks[i:])
		if !ok {
			return nil, i, false
		}
		args = append(args, Arg{Name: p.Name, Type: p.Type, Value: value, Tokens: Texts(toks[i : i+n])})
		i += n
	}

	if i != len(toks) {
		return nil, i, false
	}
	return args, i, true
}

// matchParam matches one parameter against the tokens starting at it.
func (r *Registry) matchParam(s sender.Sender, p OverloadParam, line string, toks []Token) (int, string, bool) {
	if g, ok := primitives[p.Type]; ok {
		return g.match(line, toks)
	}
	opt, ok := r.Option(string(p.Type))
	if !ok || len(toks) == 0 {
		return 0, "", false
	}
	value, ok := opt.match(s, toks[0].Text)
	if !ok {
		return 0, "", false
	}
	return 1, value, true
}

func syntaxError(cmd *Command, line string, toks []Token, at int) response.Response {
	var b strings.Builder
	if at >= 0 && at < len(toks) {
		tok := toks[at]
		fmt.Fprintf(&b, "Syntax error: Unexpected %q: at \"%s>>%s<<\"", tok.Text, line[:tok.Start], line[tok.Start:tok.End])
	} else {
		fmt.Fprintf(&b, "Syntax error: Missing argument: at \"%s>><<\"", strings.TrimRight(line, " \t")+" ")
	}
	b.WriteString("\nUsage:\n")
	b.WriteString(cmd.UsageMessage())
	return response.Syntax("%s", b.String())
}

// =============================================================================
// NESTING
// =============================================================================

func (r *Registry) enter(origin sender.Sender) bool {
	r.depthMu.Lock()
	defer r.depthMu.Unlock()
	if r.depth[origin] >= r.maxDepth {
		return false
	}
	r.depth[origin]++
	return true
}

func (r *Registry) leave(origin sender.Sender) {
	r.depthMu.Lock()
	defer r.depthMu.Unlock()
	if r.depth[origin] <= 1 {
		delete(r.depth, origin)
		return
	}
	r.depth[origin]--
}
