package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptCID_EmptyInput(t *testing.T) {
	got, err := ScriptCID(nil)
	require.NoError(t, err)
	assert.Equal(t, "bafkreihdwdcefgh4dqkjv67uzcmw7ojee6xedzdetojuzjevtenxquvyku", got)
}

func TestScriptCID_Deterministic(t *testing.T) {
	script := []byte(`(call %init_peer_id% ("peer" "identify") [] info)`)

	a, err := ScriptCID(script)
	require.NoError(t, err)
	b, err := ScriptCID(script)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "bafkrei"), "raw sha2-256 CIDv1 expected, got %s", a)
}

func TestScriptCID_DiffersByContent(t *testing.T) {
	a, err := ScriptCID([]byte("(null)"))
	require.NoError(t, err)
	b, err := ScriptCID([]byte("(null) "))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestChecksum(t *testing.T) {
	sum := Checksum([]byte("script"))
	assert.Len(t, sum, 64)
	assert.Equal(t, sum, Checksum([]byte("script")))
	assert.NotEqual(t, sum, Checksum([]byte("script2")))
}
