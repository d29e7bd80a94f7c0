package spell

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/spell/internal/ir"
)

// Outcome is a Result with its value type erased, for callers that pick the
// operation by name.
type Outcome struct {
	Value   any       `json:"value"`
	Success bool      `json:"success"`
	Error   string    `json:"error"`
	Absent  bool      `json:"absent"`
	Code    ErrorCode `json:"code,omitempty"`
}

func erase[T any](r Result[T]) Outcome {
	o := Outcome{Success: r.Success, Error: r.Error, Absent: r.Absent, Code: r.Code}
	if r.Success && !r.Absent {
		if _, unit := any(r.Value).(Unit); !unit {
			o.Value = r.Value
		}
	}
	return o
}

type operation struct {
	args []string
	run  func(ctx context.Context, s *Service, cc ir.CallContext, args []string) (Outcome, error)
}

var operations = map[string]operation{
	OpSetString: {[]string{"key", "value"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.SetString(ctx, cc, a[0], a[1])), nil
	}},
	OpGetString: {[]string{"key"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.GetString(ctx, cc, a[0])), nil
	}},
	OpSetU32: {[]string{"key", "value"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		n, err := parseU32("value", a[1])
		if err != nil {
			return Outcome{}, err
		}
		return erase(s.SetU32(ctx, cc, a[0], n)), nil
	}},
	OpGetU32: {[]string{"key"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.GetU32(ctx, cc, a[0])), nil
	}},
	OpRemoveKey: {[]string{"key"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.RemoveKey(ctx, cc, a[0])), nil
	}},
	OpExists: {[]string{"key"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.Exists(ctx, cc, a[0])), nil
	}},
	OpListPushString: {[]string{"key", "value"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.ListPushString(ctx, cc, a[0], a[1])), nil
	}},
	OpListPopString: {[]string{"key"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.ListPopString(ctx, cc, a[0])), nil
	}},
	OpListGetStrings: {[]string{"key"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.ListGetStrings(ctx, cc, a[0])), nil
	}},
	OpListRemoveString: {[]string{"key", "value"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.ListRemoveString(ctx, cc, a[0], a[1])), nil
	}},
	OpSetJSONFields: {[]string{"json"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.SetJSONFields(ctx, cc, a[0])), nil
	}},
	OpSetRelayPeerID: {[]string{"relay"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.SetRelayPeerID(ctx, cc, a[0])), nil
	}},
	OpGetLocation: {nil, func(ctx context.Context, s *Service, cc ir.CallContext, _ []string) (Outcome, error) {
		return erase(s.GetLocation(ctx, cc)), nil
	}},
	OpSetTriggerConfig: {[]string{"config_json"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		var cfg ir.TriggerConfig
		if err := decodeStrict(a[0], &cfg); err != nil {
			return Outcome{}, fmt.Errorf("config_json: %w", err)
		}
		return erase(s.SetTriggerConfig(ctx, cc, cfg)), nil
	}},
	OpGetTriggerConfig: {nil, func(ctx context.Context, s *Service, cc ir.CallContext, _ []string) (Outcome, error) {
		return erase(s.GetTriggerConfig(ctx, cc)), nil
	}},
	OpStoreLog: {[]string{"message"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.StoreLog(ctx, cc, a[0])), nil
	}},
	OpGetLogs: {nil, func(ctx context.Context, s *Service, cc ir.CallContext, _ []string) (Outcome, error) {
		return erase(s.GetLogs(ctx, cc)), nil
	}},
	OpPushMailbox: {[]string{"message"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.PushMailbox(ctx, cc, a[0])), nil
	}},
	OpGetMailbox: {nil, func(ctx context.Context, s *Service, cc ir.CallContext, _ []string) (Outcome, error) {
		return erase(s.GetMailbox(ctx, cc)), nil
	}},
	OpPopMailbox: {nil, func(ctx context.Context, s *Service, cc ir.CallContext, _ []string) (Outcome, error) {
		return erase(s.PopMailbox(ctx, cc)), nil
	}},
	OpStoreError: {[]string{"last_error_json", "error_idx", "particle_timestamp"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		var le ir.LastError
		if err := decodeStrict(a[0], &le); err != nil {
			return Outcome{}, fmt.Errorf("last_error_json: %w", err)
		}
		idx, err := parseU32("error_idx", a[1])
		if err != nil {
			return Outcome{}, err
		}
		ts, err := strconv.ParseUint(a[2], 10, 64)
		if err != nil {
			return Outcome{}, fmt.Errorf("particle_timestamp: %w", err)
		}
		return erase(s.StoreError(ctx, cc, le, idx, ts)), nil
	}},
	OpGetErrors: {[]string{"particle_id"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.GetErrors(ctx, cc, a[0])), nil
	}},
	OpGetAllErrors: {nil, func(ctx context.Context, s *Service, cc ir.CallContext, _ []string) (Outcome, error) {
		return erase(s.GetAllErrors(ctx, cc)), nil
	}},
	OpSetScript: {[]string{"source"}, func(ctx context.Context, s *Service, cc ir.CallContext, a []string) (Outcome, error) {
		return erase(s.SetScript(ctx, cc, a[0])), nil
	}},
	OpGetScript: {nil, func(ctx context.Context, s *Service, cc ir.CallContext, _ []string) (Outcome, error) {
		return erase(s.GetScript(ctx, cc)), nil
	}},
	OpScriptCID: {nil, func(ctx context.Context, s *Service, cc ir.CallContext, _ []string) (Outcome, error) {
		return erase(s.ScriptCID(ctx, cc)), nil
	}},
}

// Operations returns every operation name, sorted.
func Operations() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Usage returns "op <arg> ..." for a known operation.
func Usage(op string) (string, bool) {
	o, ok := operations[op]
	if !ok {
		return "", false
	}
	parts := []string{op}
	for _, a := range o.args {
		parts = append(parts, "<"+a+">")
	}
	return strings.Join(parts, " "), true
}

// Invoke runs the named operation with positional string arguments.
//
// The returned error reports a bad invocation: unknown operation, wrong
// argument count, or an argument that does not parse. Operation failures
// are reported inside the Outcome.
func (s *Service) Invoke(ctx context.Context, cc ir.CallContext, op string, args []string) (Outcome, error) {
	o, ok := operations[op]
	if !ok {
		return Outcome{}, fmt.Errorf("unknown operation %q", op)
	}
	if len(args) != len(o.args) {
		usage, _ := Usage(op)
		return Outcome{}, fmt.Errorf("%s: expected %d argument(s), got %d (usage: %s)", op, len(o.args), len(args), usage)
	}
	return o.run(ctx, s, cc, args)
}

func parseU32(name, v string) (uint32, error) {
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return uint32(n), nil
}

func decodeStrict(data string, v any) error {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
