// Package ir provides the foundational types shared by every spell package.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal. This keeps the
// data model the bottom layer with no circular dependencies.
//
// Key design constraints:
//   - CallContext is always passed explicitly, never read from global state
//   - All JSON tags use snake_case
//   - Journal timestamps are Unix seconds
//   - Stored JSON field values use one canonical text form (see MarshalCanonical)
package ir
