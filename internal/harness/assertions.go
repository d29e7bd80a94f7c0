package harness

import (
	"context"
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  actual: %s", e.Actual)
	return buf.String()
}

func (h *Harness) assert(ctx context.Context, trace []TraceEvent, a Assertion) error {
	switch a.Type {
	case AssertJournalCount:
		return h.assertJournalCount(ctx, a)
	case AssertTraceCount:
		return assertTraceCount(trace, a)
	case AssertKeyValue:
		return h.assertKeyValue(ctx, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// assertJournalCount compares the recorded unit count of a journal.
func (h *Harness) assertJournalCount(ctx context.Context, a Assertion) error {
	stats, err := h.store.Stats(ctx)
	if err != nil {
		return err
	}
	for _, st := range stats {
		if string(st.Journal) != a.Journal {
			continue
		}
		if st.Count != a.Count {
			return &AssertionError{
				Type:     AssertJournalCount,
				Expected: fmt.Sprintf("%s holds %d", a.Journal, a.Count),
				Actual:   fmt.Sprintf("%s holds %d (capacity %d)", a.Journal, st.Count, st.Capacity),
			}
		}
		return nil
	}
	return fmt.Errorf("unknown journal %q", a.Journal)
}

// assertTraceCount counts trace events for a call. With Code set only
// failures with that code are counted. Repeated steps count once per
// iteration.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, e := range trace {
		if e.Call != a.Call {
			continue
		}
		if a.Code != "" && e.Code != a.Code {
			continue
		}
		n := e.Repeat
		if n == 0 {
			n = 1
		}
		count += n
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d %s call(s)%s", a.Count, a.Call, codeSuffix(a.Code)),
			Actual:   fmt.Sprintf("%d", count),
		}
	}
	return nil
}

func codeSuffix(code string) string {
	if code == "" {
		return ""
	}
	return " with code " + code
}

// assertKeyValue reads a string key straight from the store.
func (h *Harness) assertKeyValue(ctx context.Context, a Assertion) error {
	v, ok, err := h.store.GetString(ctx, a.Key)
	if err != nil {
		return err
	}
	switch {
	case a.Absent && ok:
		return &AssertionError{
			Type:     AssertKeyValue,
			Expected: fmt.Sprintf("%s absent", a.Key),
			Actual:   fmt.Sprintf("%s = %q", a.Key, v),
		}
	case !a.Absent && !ok:
		return &AssertionError{
			Type:     AssertKeyValue,
			Expected: fmt.Sprintf("%s = %q", a.Key, a.Value),
			Actual:   fmt.Sprintf("%s absent", a.Key),
		}
	case !a.Absent && v != a.Value:
		return &AssertionError{
			Type:     AssertKeyValue,
			Expected: fmt.Sprintf("%s = %q", a.Key, a.Value),
			Actual:   fmt.Sprintf("%s = %q", a.Key, v),
		}
	}
	return nil
}

