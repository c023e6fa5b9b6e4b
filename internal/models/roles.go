// internal/models/roles.go
package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/lib/pq"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleCreator  Role = "creator"
	RoleAdmin    Role = "admin"
)

var validRoles = []Role{RoleCustomer, RoleSeller, RoleCreator, RoleAdmin}

func (r Role) Valid() bool {
	for _, v := range validRoles {
		if r == v {
			return true
		}
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return r, nil
}

// RoleSet is an ordered set of roles that is never empty. Every operation
// returns a new set and leaves the receiver untouched.
type RoleSet []Role

func DefaultRoles() RoleSet {
	return RoleSet{RoleCustomer}
}

// NewRoleSet validates every entry, drops duplicates and falls back to
// customer when nothing is left.
func NewRoleSet(roles ...string) (RoleSet, error) {
	var invalid []string
	set := make(RoleSet, 0, len(roles))
	for _, s := range roles {
		r := Role(s)
		if !r.Valid() {
			invalid = append(invalid, s)
			continue
		}
		if !set.Has(r) {
			set = append(set, r)
		}
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("invalid roles: %v", invalid)
	}
	if len(set) == 0 {
		return DefaultRoles(), nil
	}
	return set, nil
}

func (s RoleSet) Has(r Role) bool {
	for _, v := range s {
		if v == r {
			return true
		}
	}
	return false
}

func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// Add returns the set with r appended. changed is false when r was already present.
func (s RoleSet) Add(r Role) (next RoleSet, changed bool, err error) {
	if !r.Valid() {
		return s, false, fmt.Errorf("invalid role: %s", r)
	}
	if s.Has(r) {
		return s, false, nil
	}
	next = make(RoleSet, 0, len(s)+1)
	next = append(next, s...)
	return append(next, r), true, nil
}

// Remove returns the set without r; removing the last role leaves customer.
func (s RoleSet) Remove(r Role) RoleSet {
	next := make(RoleSet, 0, len(s))
	for _, v := range s {
		if v != r {
			next = append(next, v)
		}
	}
	if len(next) == 0 {
		return DefaultRoles()
	}
	return next
}

func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

func (s RoleSet) Value() (driver.Value, error) {
	return pq.StringArray(s.Strings()).Value()
}

func (s *RoleSet) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	set := make(RoleSet, 0, len(arr))
	for _, v := range arr {
		if r := Role(v); r.Valid() && !set.Has(r) {
			set = append(set, r)
		}
	}
	if len(set) == 0 {
		set = DefaultRoles()
	}
	*s = set
	return nil
}
