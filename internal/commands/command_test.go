// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireDecl asserts err is a DeclarationError of the given kind.
func requireDecl(t *testing.T, err error, kind DeclarationKind) {
	t.Helper()
	var decl *DeclarationError
	require.True(t, errors.As(err, &decl), "expected a DeclarationError, got %v", err)
	assert.Equal(t, kind, decl.Kind, decl.Error())
}

// =============================================================================
// BUILDER TESTS
// =============================================================================

func TestNewDefaults(t *testing.T) {
	c := New("ping", "Replies with pong")
	require.NoError(t, c.Err())

	assert.Equal(t, "ping", c.Name())
	assert.Equal(t, "Replies with pong", c.Description())
	assert.True(t, c.RequiresCheats())
	assert.Zero(t, c.PermissionLevel())
	assert.Equal(t, DefaultCategory, c.Category())
	assert.Empty(t, c.Aliases())
	assert.Equal(t, "/ping", c.UsageMessage())
}

func TestUsageMessageIsDeterministic(t *testing.T) {
	c := partyCommand(echo)
	want := "/party <create: PartyCreate> <name: MESSAGE_ROOT>\n/party [list: PartyList]"

	assert.Equal(t, want, c.UsageMessage())
	assert.Equal(t, c.UsageMessage(), c.UsageMessage())

	single := New("tp", "Teleports").SetParams(
		Param("target", TypeSelection),
		Param("destination", TypePosition),
		OptionalParam("facing", TypePosition),
	)
	assert.Equal(t, "/tp <target: SELECTION> <destination: POSITION> [facing: POSITION]", single.UsageMessage())
}

func TestRequiredAfterOptionalRejected(t *testing.T) {
	o := NewOverload(OptionalParam("count", TypeInt), Param("item", TypeID))
	requireDecl(t, o.Err(), DeclParamOrder)
	assert.Equal(t, 1, o.Len(), "the offending parameter is not added")

	c := New("give", "Gives items").
		AddParam(OptionalParam("count", TypeInt)).
		AddParam(Param("item", TypeID)).
		SetExecutor(echo)
	requireDecl(t, c.Err(), DeclParamOrder)

	via := New("give2", "Gives items").AddOverload(o).SetExecutor(echo)
	requireDecl(t, via.Err(), DeclParamOrder)

	r := testRegistry()
	requireDecl(t, r.RegisterCommand(c), DeclParamOrder)
	assert.Empty(t, r.CommandList())
}

func TestOverloadModeConflict(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Command
		kind  DeclarationKind
		ok    bool
	}{
		{
			name: "AddOverload after AddParam",
			build: func() *Command {
				return New("a", "d").AddParam(Param("x", TypeInt)).AddOverload(NewOverload())
			},
			kind: DeclOverloadConflict,
		},
		{
			name: "AddParam with two overloads",
			build: func() *Command {
				return New("a", "d").
					AddOverload(NewOverload(Param("x", TypeInt))).
					AddOverload(NewOverload(Param("y", TypeBool))).
					AddParam(Param("z", TypeInt))
			},
			kind: DeclOverloadConflict,
		},
		{
			name: "SetOverloads after SetParams",
			build: func() *Command {
				return New("a", "d").SetParams(Param("x", TypeInt)).SetOverloads(NewOverload())
			},
			kind: DeclOverloadConflict,
		},
		{
			name: "AddParam extends a single explicit overload",
			build: func() *Command {
				return New("a", "d").AddOverload(NewOverload(Param("x", TypeInt))).AddParam(Param("y", TypeInt))
			},
			ok: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.build()
			if tc.ok {
				require.NoError(t, c.Err())
				return
			}
			requireDecl(t, c.Err(), tc.kind)
		})
	}
}

func TestInvalidDeclarations(t *testing.T) {
	requireDecl(t, New("", "d").Err(), DeclInvalidName)
	requireDecl(t, New("two words", "d").Err(), DeclInvalidName)
	requireDecl(t, New("/slash", "d").Err(), DeclInvalidName)
	requireDecl(t, New("ok", "  ").Err(), DeclInvalidValue)
	requireDecl(t, New("ok", "d", "bad alias").Err(), DeclInvalidName)
	requireDecl(t, New("ok", "d", "ok").Err(), DeclDuplicateName)
	requireDecl(t, New("ok", "d").SetPermissionLevel(-1).Err(), DeclInvalidValue)
	requireDecl(t, New("ok", "d").AddParam(Param("", TypeInt)).Err(), DeclInvalidName)
	requireDecl(t, New("ok", "d").AddParam(Param("x", "")).Err(), DeclUnresolvedType)
}

func TestFirstErrorSticks(t *testing.T) {
	c := New("", "").SetPermissionLevel(-1)
	requireDecl(t, c.Err(), DeclInvalidName)
}

func TestRegisteredCommandIsFrozen(t *testing.T) {
	r := testRegistry()
	c := New("ping", "Replies").SetExecutor(reply("pong"))
	require.NoError(t, r.RegisterCommand(c))
	assert.True(t, c.Registered())

	c.SetPermissionLevel(3)
	assert.Zero(t, c.PermissionLevel())
	requireDecl(t, c.Err(), DeclFrozen)
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := New("party", "Manages", "p", "pt").AddOverload(NewOverload(Param("x", TypeInt)))

	aliases := c.Aliases()
	aliases[0] = "changed"
	assert.Equal(t, []string{"p", "pt"}, c.Aliases())

	params := c.Overloads()[0].Params()
	params[0].Name = "changed"
	assert.Equal(t, "x", c.Overloads()[0].Params()[0].Name)
}

// =============================================================================
// ARGS TESTS
// =============================================================================

func TestArgsHelpers(t *testing.T) {
	args := Args{
		{Name: "count", Type: TypeInt, Value: "12", Tokens: []string{"12"}},
		{Name: "silent", Type: TypeBool, Value: "true", Tokens: []string{"true"}},
	}

	assert.Equal(t, 2, args.Len())
	assert.Equal(t, "12", args.At(0))
	assert.Equal(t, "", args.At(5))
	assert.True(t, args.Has(1))
	assert.False(t, args.Has(2))

	n, err := args.Int(0)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	b, err := args.Bool(1)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = args.Int(1)
	assert.Error(t, err)
	_, err = args.Int(7)
	assert.Error(t, err)
}
