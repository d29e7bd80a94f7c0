package spell

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/roach88/spell/internal/ir"
	"github.com/roach88/spell/internal/store"
)

// Operation names, as reported in metrics and logs.
const (
	OpSetString        = "set_string"
	OpGetString        = "get_string"
	OpSetU32           = "set_u32"
	OpGetU32           = "get_u32"
	OpRemoveKey        = "remove_key"
	OpExists           = "exists"
	OpListPushString   = "list_push_string"
	OpListPopString    = "list_pop_string"
	OpListGetStrings   = "list_get_strings"
	OpListRemoveString = "list_remove_string"
	OpSetJSONFields    = "set_json_fields"
)

// SetString stores value under key.
func (s *Service) SetString(ctx context.Context, cc ir.CallContext, key, value string) Result[Unit] {
	if err := s.guardWrite(OpSetString, key, cc); err != nil {
		return fail[Unit](s, OpSetString, err)
	}
	return done(s, OpSetString, Unit{}, s.store.SetString(ctx, key, value))
}

// GetString reads the string under key.
func (s *Service) GetString(ctx context.Context, _ ir.CallContext, key string) Result[string] {
	v, ok, err := s.store.GetString(ctx, key)
	return lookup(s, OpGetString, v, ok, err)
}

// SetU32 stores value under key.
func (s *Service) SetU32(ctx context.Context, cc ir.CallContext, key string, value uint32) Result[Unit] {
	if err := s.guardWrite(OpSetU32, key, cc); err != nil {
		return fail[Unit](s, OpSetU32, err)
	}
	return done(s, OpSetU32, Unit{}, s.store.SetU32(ctx, key, value))
}

// GetU32 reads the u32 under key.
func (s *Service) GetU32(ctx context.Context, _ ir.CallContext, key string) Result[uint32] {
	v, ok, err := s.store.GetU32(ctx, key)
	return lookup(s, OpGetU32, v, ok, err)
}

// RemoveKey deletes key, scalar or list.
func (s *Service) RemoveKey(ctx context.Context, cc ir.CallContext, key string) Result[Unit] {
	if err := s.guardWrite(OpRemoveKey, key, cc); err != nil {
		return fail[Unit](s, OpRemoveKey, err)
	}
	return done(s, OpRemoveKey, Unit{}, s.store.Remove(ctx, key))
}

// Exists reports whether key holds anything.
func (s *Service) Exists(ctx context.Context, _ ir.CallContext, key string) Result[bool] {
	v, err := s.store.Exists(ctx, key)
	return done(s, OpExists, v, err)
}

// ListPushString appends value to the list under key.
func (s *Service) ListPushString(ctx context.Context, cc ir.CallContext, key, value string) Result[Unit] {
	if err := s.guardWrite(OpListPushString, key, cc); err != nil {
		return fail[Unit](s, OpListPushString, err)
	}
	return done(s, OpListPushString, Unit{}, s.store.ListPush(ctx, key, value))
}

// ListPopString removes and returns the last pushed element under key.
func (s *Service) ListPopString(ctx context.Context, cc ir.CallContext, key string) Result[string] {
	if err := s.guardWrite(OpListPopString, key, cc); err != nil {
		return fail[string](s, OpListPopString, err)
	}
	v, ok, err := s.store.ListPop(ctx, key)
	return lookup(s, OpListPopString, v, ok, err)
}

// ListGetStrings returns the list under key in push order.
func (s *Service) ListGetStrings(ctx context.Context, _ ir.CallContext, key string) Result[[]string] {
	v, err := s.store.ListGet(ctx, key)
	return done(s, OpListGetStrings, v, err)
}

// ListRemoveString removes every element equal to value from the list under key.
func (s *Service) ListRemoveString(ctx context.Context, cc ir.CallContext, key, value string) Result[Unit] {
	if err := s.guardWrite(OpListRemoveString, key, cc); err != nil {
		return fail[Unit](s, OpListRemoveString, err)
	}
	_, err := s.store.ListRemove(ctx, key, value)
	return done(s, OpListRemoveString, Unit{}, err)
}

// SetJSONFields stores every first-level field of a JSON object as a string.
//
// Each value is stored as its compact canonical JSON text, so "a" keeps its
// quotes. Every key is guarded before anything is written; one forbidden key
// rejects the whole object. Permitted fields are written in one transaction.
func (s *Service) SetJSONFields(ctx context.Context, cc ir.CallContext, payload string) Result[Unit] {
	fields, err := decodeFields(payload)
	if err != nil {
		return fail[Unit](s, OpSetJSONFields, err)
	}

	for _, f := range fields {
		if err := s.guardWrite(OpSetJSONFields, f.Key, cc); err != nil {
			return fail[Unit](s, OpSetJSONFields, err)
		}
	}

	return done(s, OpSetJSONFields, Unit{}, s.store.SetStrings(ctx, fields))
}

// decodeFields parses a JSON object into store fields sorted by key.
func decodeFields(payload string) ([]store.Field, error) {
	v, err := ir.DecodeJSON([]byte(payload))
	if err != nil {
		return nil, malformed(err, "set_json_fields expects a JSON object")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, malformed(errors.New("payload is not an object"), "set_json_fields expects a JSON object")
	}

	fields := make([]store.Field, 0, len(obj))
	for k, raw := range obj {
		text, err := ir.MarshalCanonical(raw)
		if err != nil {
			return nil, malformed(err, "field %q", k)
		}
		fields = append(fields, store.Field{Key: k, Value: string(text)})
	}
	slices.SortFunc(fields, func(a, b store.Field) int {
		return strings.Compare(a.Key, b.Key)
	})
	return fields, nil
}
