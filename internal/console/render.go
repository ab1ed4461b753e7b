// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/slashcmd/internal/response"
	"github.com/jeranaias/slashcmd/internal/sender"
)

// =============================================================================
// RENDERER
// =============================================================================

// Renderer styles console output. Error-severity messages are red, player
// deliveries are tagged with the recipient.
type Renderer struct {
	info   lipgloss.Style
	err    lipgloss.Style
	tag    lipgloss.Style
	status lipgloss.Style
}

// NewRenderer creates a renderer for w using the given color profile.
func NewRenderer(w io.Writer, profile termenv.Profile) *Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)

	return &Renderer{
		info:   r.NewStyle(),
		err:    r.NewStyle().Foreground(lipgloss.Color("9")),
		tag:    r.NewStyle().Foreground(lipgloss.Color("8")),
		status: r.NewStyle().Bold(true),
	}
}

// Message renders a message addressed to the console.
func (r *Renderer) Message(m sender.Message) string {
	if m.Severity == sender.SeverityError {
		return r.err.Render(m.String())
	}
	return r.info.Render(m.String())
}

// PlayerMessage renders a message delivered to a simulated player.
func (r *Renderer) PlayerMessage(name string, m sender.Message) string {
	return r.tag.Render("(to "+name+")") + " " + r.Message(m)
}

// Status renders a response status tag such as "[SYNTAX_ERROR]".
func (r *Renderer) Status(resp response.Response) string {
	tag := "[" + resp.Status.String() + "]"
	if resp.Status.IsError() {
		return r.err.Inherit(r.status).Render(tag)
	}
	return r.status.Render(tag)
}
