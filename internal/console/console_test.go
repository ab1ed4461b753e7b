// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/slashcmd/internal/config"
	"github.com/jeranaias/slashcmd/internal/response"
	"github.com/jeranaias/slashcmd/internal/sender"
)

func intPtr(n int) *int { return &n }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Players = []config.PlayerConfig{
		{Name: "Alex", Dimension: "overworld", X: 1},
		{Name: "Steve", Dimension: "overworld", X: 20, PermissionLevel: intPtr(sender.LevelGameDirectors)},
		{Name: "Herobrine", Dimension: "nether", Y: 5},
	}
	return cfg
}

func newTestConsole(t *testing.T, cfg *config.Config) (*Console, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c, err := New(cfg, nil, &out, termenv.Ascii)
	require.NoError(t, err)
	return c, &out
}

func TestExecAsServer(t *testing.T) {
	c, out := newTestConsole(t, testConfig())

	resp := c.Exec("help say")
	require.Equal(t, response.Success, resp.Status)
	assert.Contains(t, out.String(), "say: Sends a message in the chat to other players")
}

func TestExecAsPlayer(t *testing.T) {
	c, out := newTestConsole(t, testConfig())
	require.NoError(t, c.SetIdentity("steve"))
	assert.Equal(t, "Steve", c.Identity().Name())

	resp := c.Exec("say hi")
	require.Equal(t, response.Success, resp.Status)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"[Steve] hi",
		"(to Alex) [Steve] hi",
		"(to Steve) [Steve] hi",
		"(to Herobrine) [Steve] hi",
	}, lines)
}

func TestExecSuggestsCloseCommand(t *testing.T) {
	c, out := newTestConsole(t, testConfig())

	resp := c.Exec("hepl")
	require.Equal(t, response.SyntaxError, resp.Status)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Unknown command: hepl.")
	assert.Equal(t, "Did you mean /help?", lines[1])
}

func TestSetIdentityUnknown(t *testing.T) {
	c, _ := newTestConsole(t, testConfig())

	assert.ErrorIs(t, c.SetIdentity("Notch"), ErrUnknownPlayer)
	require.NoError(t, c.SetIdentity("Alex"))
	require.NoError(t, c.SetIdentity("server"))
	assert.Equal(t, sender.KindConsole, c.Identity().Kind())
}

func TestErrorsGoToIssuer(t *testing.T) {
	c, out := newTestConsole(t, testConfig())
	require.NoError(t, c.SetIdentity("Alex"))

	resp := c.Exec("say hi")
	assert.Equal(t, response.IncorrectArgs, resp.Status)
	assert.Equal(t, "(to Alex) You do not have permission to use /say\n", out.String())
}

func TestAsyncRunsOnTick(t *testing.T) {
	c, out := newTestConsole(t, testConfig())

	resp := c.Exec("async say later")
	require.Equal(t, response.Success, resp.Status)
	assert.Contains(t, out.String(), "Queued as task ")
	assert.NotContains(t, out.String(), "[Server] later")
	assert.Equal(t, 1, c.Registry().Queue().Pending())

	c.Drain()
	assert.Contains(t, out.String(), "[Server] later")
	assert.Zero(t, c.Registry().Queue().Pending())
}

func TestAsyncFailureIsReported(t *testing.T) {
	c, out := newTestConsole(t, testConfig())

	c.Exec("async nosuch")
	c.Drain()
	assert.Contains(t, out.String(), "Unknown command: nosuch.")
}

func TestAsyncQueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.Async.MaxPendingPerTick = 1
	c, _ := newTestConsole(t, cfg)

	require.Equal(t, response.Success, c.Exec("async help").Status)
	resp := c.Exec("async help")
	assert.Equal(t, response.Failure, resp.Status)
	assert.Contains(t, resp.Message, "Could not queue command")
}

func TestCheatsAndTeleport(t *testing.T) {
	c, _ := newTestConsole(t, testConfig())

	resp := c.Exec("tp Alex 1 2 3")
	assert.Equal(t, response.IncorrectArgs, resp.Status)
	assert.Equal(t, "Cheats must be enabled to use /tp", resp.Message)

	assert.Equal(t, "Cheats are disabled", c.Exec("cheats").Message)
	assert.Equal(t, "Cheats are enabled", c.Exec("cheats true").Message)

	resp = c.Exec("tp Alex 1 2 3")
	require.Equal(t, response.Success, resp.Status, resp.Message)
	alex, ok := c.Directory().Lookup("Alex")
	require.True(t, ok)
	assert.Equal(t, sender.Vector3{X: 1, Y: 2, Z: 3}, alex.Location())

	resp = c.Exec("teleport alex ~1 ~ ~-3")
	require.Equal(t, response.Success, resp.Status, resp.Message)
	assert.Equal(t, sender.Vector3{X: 2, Y: 2, Z: 0}, alex.Location())

	resp = c.Exec("tp Alex Herobrine")
	require.Equal(t, response.Success, resp.Status, resp.Message)
	assert.Equal(t, "Teleported Alex to Herobrine", resp.Message)
	assert.Equal(t, "nether", alex.Dimension().ID())
	assert.Equal(t, sender.Vector3{Y: 5}, alex.Location())
}

func TestApplyReloadsPlayers(t *testing.T) {
	c, _ := newTestConsole(t, testConfig())
	require.NoError(t, c.SetIdentity("Steve"))
	alexBefore, _ := c.Directory().Lookup("Alex")

	cfg := testConfig()
	cfg.CheatsEnabled = true
	cfg.DefaultPermissionLevel = sender.LevelAdmin
	cfg.Players = cfg.Players[:1]
	c.Apply(cfg)

	assert.True(t, c.Registry().CheatsEnabled())
	assert.Equal(t, []string{"Alex"}, c.playerNames())
	alexAfter, ok := c.Directory().Lookup("Alex")
	require.True(t, ok)
	assert.Same(t, alexBefore, alexAfter, "kept players keep their sender")
	assert.Equal(t, sender.LevelAdmin, alexAfter.PermissionLevel())
	assert.Equal(t, sender.KindConsole, c.Identity().Kind(), "removed identity falls back to the console")
}

func TestComplete(t *testing.T) {
	c, _ := newTestConsole(t, testConfig())

	assert.Contains(t, c.Complete("he"), "help ")
	assert.Contains(t, c.Complete("tp A"), "tp Alex")
	assert.Equal(t, []string{":as"}, c.Complete(":a"))
	assert.Equal(t, []string{":as server", ":as Steve"}, c.Complete(":as s"))
	assert.Nil(t, c.Complete(":who x"))
}

func TestDirective(t *testing.T) {
	c, out := newTestConsole(t, testConfig())

	assert.False(t, c.Directive(":as Steve"))
	assert.Contains(t, out.String(), "Now issuing commands as Steve")
	assert.Equal(t, "Steve", c.Identity().Name())

	assert.False(t, c.Directive(":as"))
	assert.Contains(t, out.String(), "Usage: :as <player|server>")

	out.Reset()
	assert.False(t, c.Directive(":who"))
	assert.Contains(t, out.String(), "Herobrine  level=0 op=false nether (0.0, 5.0, 0.0)")

	assert.False(t, c.Directive(":nope"))
	assert.True(t, c.Directive(":quit"))
	assert.True(t, c.Directive(":exit"))
}

func TestPrompt(t *testing.T) {
	c, _ := newTestConsole(t, testConfig())
	assert.Equal(t, "> ", c.prompt())

	require.NoError(t, c.SetIdentity("Alex"))
	assert.Equal(t, "Alex> ", c.prompt())
}

func TestResolvePosition(t *testing.T) {
	origin := sender.Vector3{X: 10, Y: 64, Z: -5}
	tests := []struct {
		value   string
		want    sender.Vector3
		wantErr bool
	}{
		{value: "1 2 3", want: sender.Vector3{X: 1, Y: 2, Z: 3}},
		{value: "~ ~ ~", want: origin},
		{value: "~1.5 ~-4 ~", want: sender.Vector3{X: 11.5, Y: 60, Z: -5}},
		{value: "^ ^1 ^", want: sender.Vector3{X: 10, Y: 65, Z: -5}},
		{value: "1 2", wantErr: true},
		{value: "1 x 3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := resolvePosition(origin, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")

	var buf bytes.Buffer
	assert.Equal(t, termenv.Ascii, ColorProfile("never", &buf))
	assert.Equal(t, termenv.Ascii, ColorProfile("auto", &buf), "a buffer is not a terminal")
	assert.NotEqual(t, termenv.Ascii, ColorProfile("always", &buf))

	t.Setenv("FORCE_COLOR", "1")
	assert.NotEqual(t, termenv.Ascii, ColorProfile("auto", &buf))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, ColorProfile("auto", &buf))
}

func TestRendererAscii(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, termenv.Ascii)

	assert.Equal(t, "oops", r.Message(sender.Error("oops")))
	assert.Equal(t, "fine", r.Message(sender.Text("fine")))
	assert.Equal(t, "(to Alex) hi", r.PlayerMessage("Alex", sender.Text("hi")))
	assert.Contains(t, r.Status(response.Syntax("bad")), "[SYNTAX_ERROR]")
}
