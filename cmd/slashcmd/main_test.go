// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/slashcmd/internal/commands"
)

const testConfigTOML = `
cheats_enabled = true

[log]
level = "error"

[[players]]
name = "Steve"
permission_level = 2

[[players]]
name = "Alex"
x = 5.0
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigTOML), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	var out, errOut bytes.Buffer
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRunCommand(t *testing.T) {
	path := writeConfig(t)

	out, _, err := execute(t, "run", "--config", path, "--status", "help ?", "say hello")
	require.NoError(t, err)
	assert.Contains(t, out, "help: Provides help for commands")
	assert.Contains(t, out, "SUCCESS help ?")
	assert.Contains(t, out, "[Server] hello")
	assert.Contains(t, out, "(to Alex) [Server] hello")
}

func TestRunCommandReportsFailures(t *testing.T) {
	path := writeConfig(t)

	out, _, err := execute(t, "run", "--config", path, "--status", "help", "nosuch", "tp Alex")
	require.Error(t, err)
	assert.Equal(t, "2 of 3 command(s) did not succeed", err.Error())
	assert.Contains(t, out, "SYNTAX_ERROR nosuch")
	assert.Contains(t, out, "SYNTAX_ERROR tp Alex")
}

func TestRunCommandAsPlayer(t *testing.T) {
	path := writeConfig(t)

	out, _, err := execute(t, "run", "--config", path, "--as", "alex", "say hi")
	require.Error(t, err)
	assert.Contains(t, out, "(to Alex) You do not have permission to use /say")

	out, _, err = execute(t, "run", "--config", path, "--as", "Steve", "async say later")
	require.NoError(t, err)
	assert.Contains(t, out, "[Steve] later", "async work is drained before exit")
}

func TestRunCommandFromFile(t *testing.T) {
	path := writeConfig(t)
	script := filepath.Join(t.TempDir(), "script.txt")
	require.NoError(t, os.WriteFile(script, []byte("# comment\n\nsay one\nsay two\n"), 0o644))

	out, _, err := execute(t, "run", "--config", path, "--file", script)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "[Server] one"), strings.Index(out, "[Server] two"))
}

func TestRunCommandCheatsFlag(t *testing.T) {
	path := writeConfig(t)

	out, _, err := execute(t, "run", "--config", path, "--cheats=false", "tp Alex 0 0 0")
	require.Error(t, err)
	assert.Contains(t, out, "Cheats must be enabled to use /tp")
}

func TestRunCommandNoLines(t *testing.T) {
	_, _, err := execute(t, "run", "--config", writeConfig(t))
	assert.EqualError(t, err, "no command lines given")
}

func TestListCommand(t *testing.T) {
	path := writeConfig(t)

	out, _, err := execute(t, "list", "--config", path, "--usage")
	require.NoError(t, err)
	assert.Contains(t, out, "Built-in\n--------\n")
	assert.Contains(t, out, "Host\n----\n")
	assert.Contains(t, out, "/execute <subcommand: ExecuteAs> <origin: SELECTION> <chainedCommand: ExecuteRun> <command: MESSAGE_ROOT>")
	assert.Less(t, strings.Index(out, "Built-in"), strings.Index(out, "Host"))
}

func TestWriteCommandListAlignment(t *testing.T) {
	cmds := []*commands.Command{
		commands.New("a", "first").SetRequiresCheats(false),
		commands.New("longer", "second", "l").SetPermissionLevel(2),
		commands.New("secret", "third").SetHidden(true),
	}

	var buf bytes.Buffer
	writeCommandList(&buf, cmds, false, false)
	assert.Equal(t, "General\n-------\n"+
		"  a           L0         first\n"+
		"  longer (l)  L2 cheats  second\n", buf.String())

	buf.Reset()
	writeCommandList(&buf, cmds, true, false)
	assert.Contains(t, buf.String(), "secret")
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	out, _, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, _, err = execute(t, "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = execute(t, "config", "init", "--config", path, "--force")
	require.NoError(t, err)

	out, _, err = execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, `name = "Steve"`)
}

func TestReadLinesFromStdin(t *testing.T) {
	lines, err := readLines(strings.NewReader("help\n  # skip\nsay x \n"), "-")
	require.NoError(t, err)
	assert.Equal(t, []string{"help", "say x"}, lines)
}
