// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package builtin

import (
	"fmt"

	"github.com/jeranaias/slashcmd/internal/commands"
	"github.com/jeranaias/slashcmd/internal/response"
	"github.com/jeranaias/slashcmd/internal/sender"
)

func (s *Set) sayCommand() *commands.Command {
	return commands.New("say", "Sends a message in the chat to other players").
		SetRequiresCheats(false).
		SetPermissionLevel(sender.LevelGameDirectors).
		SetCategory(CategoryBuiltin).
		AddParam(commands.Param("message", commands.TypeMessage)).
		SetExecutor(s.say)
}

func (s *Set) say(who sender.Sender, args commands.Args, _ *commands.Command) (response.Response, error) {
	s.Broadcast(sender.Text(fmt.Sprintf("[%s] %s", who.Name(), args.At(0))))
	return response.Response{}, nil
}

// Broadcast delivers msg to every player in the directory and to the
// broadcast sink.
func (s *Set) Broadcast(msg sender.Message) {
	for _, p := range s.directory.Players() {
		p.SendMessage(msg)
	}
	if s.broadcast != nil {
		s.broadcast.Deliver(msg)
	}
}
