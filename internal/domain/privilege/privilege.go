package privilege

import (
	"encoding/json"
	"sort"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// CRUD lists the standard actions
var CRUD = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

// Privilege keys used by the admin routes
const (
	KeyAccounts     = "accounts"
	KeyRoles        = "roles"
	KeyDepartments  = "departments"
	KeyPositions    = "positions"
	KeyTechnologies = "technologies"
	KeyInviteCodes  = "inviteCodes"
	KeyUploads      = "uploads"
)

// Keys lists every privilege key known to the admin routes
var Keys = []string{KeyAccounts, KeyRoles, KeyDepartments, KeyPositions, KeyTechnologies, KeyInviteCodes, KeyUploads}

// Actions holds the action flags under one privilege key, e.g. {"create": true}
type Actions map[Action]bool

// Map is a role's privilege key to action flags mapping
type Map map[string]Actions

// Has reports whether key is present with a non-null value
func (m Map) Has(key string) bool {
	a, ok := m[key]
	return ok && a != nil
}

// Allows reports whether key is present and, when actions are given, at least one is true
func (m Map) Allows(key string, actions ...Action) bool {
	if !m.Has(key) {
		return false
	}
	if len(actions) == 0 {
		return true
	}
	granted := m[key]
	for _, action := range actions {
		if granted[action] {
			return true
		}
	}
	return false
}

// SortedKeys returns the map keys in lexical order
func (m Map) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Requirement is the privilege part of a route capability.
// Keys are OR-ed: the first key satisfying Allows grants access.
type Requirement struct {
	Keys    []string
	Actions []Action
}

// Allows evaluates the requirement against m. A nil map never satisfies.
func (r Requirement) Allows(m Map) bool {
	if m == nil {
		return false
	}
	for _, key := range r.Keys {
		if m.Allows(key, r.Actions...) {
			return true
		}
	}
	return false
}

// Full grants every CRUD action on every known key
func Full() Map {
	m := make(Map, len(Keys))
	for _, key := range Keys {
		actions := make(Actions, len(CRUD))
		for _, a := range CRUD {
			actions[a] = true
		}
		m[key] = actions
	}
	return m
}

func Encode(m Map) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func Decode(s string) (Map, error) {
	var m Map
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}
