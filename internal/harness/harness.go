package harness

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/roach88/spell/internal/ir"
	"github.com/roach88/spell/internal/spell"
	"github.com/roach88/spell/internal/store"
	"github.com/roach88/spell/internal/testutil"
)

// Harness executes one scenario against a private store.
type Harness struct {
	store    *store.Store
	service  *spell.Service
	clock    *testutil.Clock
	contexts map[string]ir.CallContext
	log      zerolog.Logger
}

// Option configures a harness run.
type Option func(*Harness)

// WithLogger sets the logger handed to the service.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Harness) {
		h.log = l
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with a deterministic
// clock. The returned error reports infrastructure failures only: failed
// expectations and assertions are collected in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is nil")
	}

	h := &Harness{
		clock:    testutil.NewClock(),
		contexts: scenario.contexts(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}

	st, err := store.Open(":memory:", store.Options{
		Capacities: scenario.Capacity.toStore(),
		Clock:      h.clock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	defer st.Close()

	h.store = st
	h.service = spell.New(st, spell.WithLogger(h.log))

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Steps {
		event, err := h.runStep(ctx, i, step)
		if err != nil {
			result.AddError(err.Error())
		}
		result.Trace = append(result.Trace, event)
	}

	for i, a := range scenario.Assertions {
		if err := h.assert(ctx, result.Trace, a); err != nil {
			result.AddError(fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}

	return result, nil
}

func (c *Capacity) toStore() store.Capacities {
	if c == nil {
		return store.Capacities{}
	}
	return store.Capacities{
		Logs:           c.Logs,
		Mailbox:        c.Mailbox,
		ErrorParticles: c.ErrorParticles,
	}
}

// runStep executes every iteration of a step. The event describes the last
// iteration; the error is the first expectation that failed.
func (h *Harness) runStep(ctx context.Context, index int, step Step) (TraceEvent, error) {
	cc := h.contexts[step.As]
	repeat := step.Repeat
	if repeat == 0 {
		repeat = 1
	}

	event := TraceEvent{Step: index, Call: step.Call, As: step.As}
	if repeat > 1 {
		event.Repeat = repeat
	}

	var firstErr error
	for i := 0; i < repeat; i++ {
		args := expandArgs(step.Args, i)

		outcome, err := h.service.Invoke(ctx, cc, step.Call, args)
		if err != nil {
			// Bad invocation: record it the way a failed operation is recorded.
			outcome = spell.Outcome{Error: err.Error()}
		}

		value, err := canonicalValue(outcome.Value)
		if err != nil {
			return event, fmt.Errorf("step %d (%s): %w", index, step.Call, err)
		}
		event.Success = outcome.Success
		event.Absent = outcome.Absent
		event.Value = value
		event.Code = string(outcome.Code)
		event.Error = outcome.Error

		if firstErr == nil && step.Expect != nil {
			if err := checkExpect(step.Expect, event); err != nil {
				firstErr = fmt.Errorf("step %d (%s as %s, iteration %d): %w", index, step.Call, step.As, i, err)
			}
		}
	}
	return event, firstErr
}

// expandArgs substitutes the iteration index for "{i}".
func expandArgs(args []string, i int) []string {
	out := make([]string, len(args))
	idx := strconv.Itoa(i)
	for j, a := range args {
		out[j] = strings.ReplaceAll(a, "{i}", idx)
	}
	return out
}

func canonicalValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return ir.ToCanonicalValue(v)
}

func checkExpect(exp *Expect, event TraceEvent) error {
	if exp.Success != nil && *exp.Success != event.Success {
		return fmt.Errorf("expected success=%t, got %t (error: %q)", *exp.Success, event.Success, event.Error)
	}
	if exp.Absent != nil && *exp.Absent != event.Absent {
		return fmt.Errorf("expected absent=%t, got %t", *exp.Absent, event.Absent)
	}
	if exp.Code != "" && exp.Code != event.Code {
		return fmt.Errorf("expected code %s, got %q", exp.Code, event.Code)
	}
	if exp.ErrorContains != "" && !strings.Contains(event.Error, exp.ErrorContains) {
		return fmt.Errorf("expected error containing %q, got %q", exp.ErrorContains, event.Error)
	}
	if exp.Value != nil {
		equal, err := sameCanonical(exp.Value, event.Value)
		if err != nil {
			return err
		}
		if !equal {
			want, _ := marshalValue(exp.Value)
			got, _ := marshalValue(event.Value)
			return fmt.Errorf("expected value %s, got %s", want, got)
		}
	}
	return nil
}

// sameCanonical compares two values by their canonical JSON encoding.
func sameCanonical(a, b any) (bool, error) {
	ja, err := marshalValue(a)
	if err != nil {
		return false, fmt.Errorf("expected value: %w", err)
	}
	jb, err := marshalValue(b)
	if err != nil {
		return false, fmt.Errorf("actual value: %w", err)
	}
	return string(ja) == string(jb), nil
}

func marshalValue(v any) ([]byte, error) {
	cv, err := ir.ToCanonicalValue(v)
	if err != nil {
		return nil, err
	}
	return ir.MarshalCanonical(cv)
}
