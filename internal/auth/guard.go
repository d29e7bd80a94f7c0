package auth

import (
	"errors"
	"fmt"

	"github.com/roach88/spell/internal/ir"
)

// ForbiddenError is returned when a caller may not write a key.
type ForbiddenError struct {
	Key   string
	Roles ir.RoleSet
}

// Error implements the error interface.
func (e *ForbiddenError) Error() string {
	if e.Roles.IsEmpty() {
		return fmt.Sprintf("writing to the `%s` is forbidden for any outside caller", e.Key)
	}
	return fmt.Sprintf("writing to the `%s` is forbidden for the callers with the role %s", e.Key, e.Roles)
}

// IsForbidden reports whether err is (or wraps) a ForbiddenError.
func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}

// CheckWrite decides a write to key by a caller holding roles.
// Spell may write anything; other roles need a matching key prefix.
func CheckWrite(key string, roles ir.RoleSet) error {
	if roles.Has(ir.RoleSpell) {
		return nil
	}
	if roles.Intersects(ParsePermission(key)) {
		return nil
	}
	return &ForbiddenError{Key: key, Roles: roles}
}

// GuardWrite resolves the caller's roles and checks the write.
// Callers must not touch storage when it returns an error.
func GuardWrite(key string, cc ir.CallContext) error {
	return CheckWrite(key, Resolve(cc))
}
