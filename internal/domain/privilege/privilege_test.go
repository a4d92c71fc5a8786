package privilege

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirement_NoAction(t *testing.T) {
	m := Map{"createRole": {ActionCreate: false}}

	assert.True(t, Requirement{Keys: []string{"createRole"}}.Allows(m))
	assert.False(t, Requirement{Keys: []string{"deleteRole"}}.Allows(m))
}

func TestRequirement_WithActions(t *testing.T) {
	allowed := Map{"createRole": {ActionCreate: true}}
	denied := Map{"createRole": {ActionCreate: false}}
	req := Requirement{Keys: []string{"createRole"}, Actions: []Action{ActionCreate}}

	assert.True(t, req.Allows(allowed))
	assert.False(t, req.Allows(denied))
}

func TestRequirement_AnyActionSuffices(t *testing.T) {
	m := Map{"roles": {ActionRead: true}}
	req := Requirement{Keys: []string{"roles"}, Actions: []Action{ActionUpdate, ActionRead}}

	assert.True(t, req.Allows(m))
}

func TestRequirement_OrAcrossKeys(t *testing.T) {
	req := Requirement{Keys: []string{"accounts", "roles"}, Actions: []Action{ActionDelete}}

	assert.True(t, req.Allows(Map{"roles": {ActionDelete: true}}))
	assert.True(t, req.Allows(Map{"accounts": {ActionRead: true}, "roles": {ActionDelete: true}}))
	assert.False(t, req.Allows(Map{"accounts": {ActionRead: true}, "roles": {ActionRead: true}}))
	assert.False(t, req.Allows(Map{"positions": {ActionDelete: true}}))
}

func TestRequirement_NilMap(t *testing.T) {
	req := Requirement{Keys: []string{"roles"}}

	assert.False(t, req.Allows(nil))
	assert.False(t, req.Allows(Map{"roles": nil}))
}

func TestFull(t *testing.T) {
	m := Full()

	for _, key := range Keys {
		for _, action := range CRUD {
			assert.True(t, m.Allows(key, action), "%s/%s", key, action)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	encoded, err := Encode(Map{"createRole": {ActionCreate: true}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"createRole":{"create":true}}`, encoded)

	decoded, err := Decode(`{"roles":{"read":true,"approve":true}}`)
	require.NoError(t, err)
	assert.True(t, decoded.Allows("roles", Action("approve")))
	assert.Equal(t, []string{"roles"}, decoded.SortedKeys())

	_, err = Decode("not json")
	assert.Error(t, err)
}
