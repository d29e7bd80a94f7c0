package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestScenarios_Golden(t *testing.T) {
	files, err := FindScenarioFiles("testdata/scenarios", "")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)
			assert.Equal(t, name, scenario.Name, "scenario name must match its file")

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/journal_bounds.yaml")
	require.NoError(t, err)

	r1, err := Run(scenario)
	require.NoError(t, err)
	r2, err := Run(scenario)
	require.NoError(t, err)

	s1, err := Snapshot(scenario.Name, r1)
	require.NoError(t, err)
	s2, err := Snapshot(scenario.Name, r2)
	require.NoError(t, err)
	assert.Equal(t, string(s1), string(s2))
}

func TestRun_NilScenario(t *testing.T) {
	_, err := Run(nil)
	assert.Error(t, err)
}

func TestRun_FailedExpectationIsReported(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_expectation",
		Description: "host cannot write a worker key",
		Steps: []Step{{
			Call:   "set_string",
			As:     "host",
			Args:   []string{"w_key", "v"},
			Expect: &Expect{Success: boolPtr(true)},
		}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected success=true")
	require.Len(t, result.Trace, 1)
	assert.Equal(t, "FORBIDDEN", result.Trace[0].Code)
}

func TestRun_BadInvocationIsRecorded(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_args",
		Description: "u32 argument does not parse",
		Steps: []Step{{
			Call:   "set_u32",
			As:     "spell",
			Args:   []string{"n", "minus-one"},
			Expect: &Expect{Success: boolPtr(false), ErrorContains: "value"},
		}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.False(t, result.Trace[0].Success)
	assert.Empty(t, result.Trace[0].Code)
}

func TestRun_RepeatExpandsIndex(t *testing.T) {
	scenario := &Scenario{
		Name:        "repeat",
		Description: "push three list items",
		Steps: []Step{
			{Call: "list_push_string", As: "spell", Args: []string{"items", "item-{i}"}, Repeat: 3},
			{Call: "list_get_strings", As: "host", Args: []string{"items"},
				Expect: &Expect{Value: []any{"item-0", "item-1", "item-2"}}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, 3, result.Trace[0].Repeat)
	assert.Zero(t, result.Trace[1].Repeat)
}

func TestRun_CustomContext(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: custom_context
description: "a context where host and worker coincide may write hw_ keys"
contexts:
  colocated:
    caller: 12D3KooWSame
    particle: p-1
    service_id: test-spell
    creator: 12D3KooWOther
    worker: 12D3KooWSame
    host: 12D3KooWSame
steps:
  - call: set_string
    as: colocated
    args: [hw_both, v]
    expect:
      success: true
  - call: set_relay_peer_id
    as: colocated
    args: [relay]
    expect:
      code: FORBIDDEN
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestExpandArgs(t *testing.T) {
	assert.Equal(t, []string{"a-2", "{j}", "22"}, expandArgs([]string{"a-{i}", "{j}", "{i}{i}"}, 2))
	assert.Empty(t, expandArgs(nil, 0))
}

func TestCheckExpect_ValueComparesCanonically(t *testing.T) {
	event := TraceEvent{Success: true, Value: map[string]any{"b": "2", "a": "1"}}

	assert.NoError(t, checkExpect(&Expect{Value: map[string]any{"a": "1", "b": "2"}}, event))

	err := checkExpect(&Expect{Value: map[string]any{"a": "1"}}, event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expected value {"a":"1"}`)
}
