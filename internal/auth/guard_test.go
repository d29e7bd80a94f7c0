package auth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/spell/internal/ir"
)

func TestGuardWrite(t *testing.T) {
	spell := callFrom(workerPeer, "spell_spell-id_0")
	worker := callFrom(workerPeer, "particle")
	host := callFrom(hostPeer, "particle")
	outside := callFrom(outsidePeer, "particle")

	keys := []string{"counter", "h_key", "w_key", "hw_key", "wh_key"}

	allowed := map[string]map[string]bool{
		"spell":   {"counter": true, "h_key": true, "w_key": true, "hw_key": true, "wh_key": true},
		"worker":  {"w_key": true, "hw_key": true},
		"host":    {"h_key": true, "hw_key": true},
		"outside": {},
	}
	callers := map[string]ir.CallContext{
		"spell":   spell,
		"worker":  worker,
		"host":    host,
		"outside": outside,
	}

	for who, cc := range callers {
		for _, key := range keys {
			t.Run(fmt.Sprintf("%s/%s", who, key), func(t *testing.T) {
				err := GuardWrite(key, cc)
				if allowed[who][key] {
					assert.NoError(t, err)
				} else {
					require.Error(t, err)
					assert.True(t, IsForbidden(err))
				}
			})
		}
	}
}

func TestForbiddenError_Message(t *testing.T) {
	err := GuardWrite("counter", callFrom(hostPeer, "particle"))
	require.Error(t, err)
	assert.Equal(t, "writing to the `counter` is forbidden for the callers with the role host", err.Error())

	err = GuardWrite("counter", callFrom(outsidePeer, "particle"))
	require.Error(t, err)
	assert.Equal(t, "writing to the `counter` is forbidden for any outside caller", err.Error())
}

func TestIsForbidden_Wrapped(t *testing.T) {
	err := fmt.Errorf("set_string: %w", &ForbiddenError{Key: "k"})
	assert.True(t, IsForbidden(err))
	assert.False(t, IsForbidden(fmt.Errorf("plain")))
}
