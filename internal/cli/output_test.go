package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))

	wrapped := fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "bad"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "bad", NewExitError(ExitFailure, "bad").Error())

	inner := errors.New("disk full")
	err := WrapExitError(ExitFailure, "write failed", inner)
	assert.Equal(t, "write failed: disk full", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestOutputFormatter_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(map[string]int{"n": 1}))
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)

	buf.Reset()
	require.NoError(t, f.Error("FORBIDDEN", "no", nil))
	resp = CLIResponse{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	assert.Equal(t, "no", resp.Error.Message)
}

func TestOutputFormatter_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, f.Error("NOT_FOUND", "relay is not set", "details"))
	assert.Equal(t, "Error [NOT_FOUND]: relay is not set\nDetails: details\n", buf.String())
}

func TestOutputFormatter_VerboseLogGoesToErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut}
	f.VerboseLog("hidden")
	assert.Empty(t, errOut.String())

	f.Verbose = true
	f.VerboseLog("step %d", 1)
	assert.Empty(t, out.String())
	assert.Equal(t, "step 1\n", errOut.String())
}
