// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package response

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusValues(t *testing.T) {
	assert.Equal(t, int32(0), int32(Success))
	assert.Equal(t, int32(1), int32(Failure))
	assert.Equal(t, int32(-2147483648), int32(SyntaxError))
	assert.Equal(t, int32(-2147352576), int32(IncorrectArgs))
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Success, "SUCCESS"},
		{Failure, "FAILURE"},
		{SyntaxError, "SYNTAX_ERROR"},
		{IncorrectArgs, "INCORRECT_ARGS"},
		{Status(7), "STATUS(7)"},
	}

	for _, tc := range tests {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Status(%d).String() = %q, want %q", int32(tc.status), got, tc.want)
		}
	}
}

func TestZeroResponseIsSuccess(t *testing.T) {
	var r Response
	assert.True(t, r.Succeeded())
	assert.False(t, r.Status.IsError())
	assert.NoError(t, r.Validate())
}

func TestValidateRequiresMessageOnError(t *testing.T) {
	for _, status := range []Status{Failure, SyntaxError, IncorrectArgs, Status(42)} {
		err := Response{Status: status}.Validate()
		require.Error(t, err, status.String())

		var contractErr *ContractError
		require.True(t, errors.As(err, &contractErr))
		assert.Equal(t, status, contractErr.Status)

		assert.NoError(t, Response{Status: status, Message: "boom"}.Validate())
	}
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, Response{Status: Failure, Message: "no party 3"}, Fail("no party %d", 3))
	assert.Equal(t, SyntaxError, Syntax("x").Status)
	assert.Equal(t, IncorrectArgs, Incorrect("x").Status)
	assert.Equal(t, Response{Message: "hi"}, OK("hi"))
}
