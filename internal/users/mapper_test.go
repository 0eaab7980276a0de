package users

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestMapUpdateFields_AbsentFieldsExcluded(t *testing.T) {
	fields, err := MapUpdateFields(UpdateUserRequest{Name: strp("Ana")})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"Nombre": "Ana"}, fields)
}

func TestMapUpdateFields_RequiredFieldsRejectEmpty(t *testing.T) {
	_, err := MapUpdateFields(UpdateUserRequest{Name: strp("  ")})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = MapUpdateFields(UpdateUserRequest{LastName: strp("")})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestMapUpdateFields_OptionalFieldsMapEmptyThrough(t *testing.T) {
	// explicit empty clears the column; absence would have excluded it
	fields, err := MapUpdateFields(UpdateUserRequest{Province: strp(""), Locality: strp(" CABA ")})
	require.NoError(t, err)
	assert.Equal(t, "", fields["Provincia"])
	assert.Equal(t, "CABA", fields["Localidad"])
}

func TestMapUpdateFields_EmailNeverMapped(t *testing.T) {
	fields, err := MapUpdateFields(UpdateUserRequest{Email: strp("x@y.com"), Name: strp("Ana")})
	require.NoError(t, err)
	_, ok := fields["Correo Moby"]
	assert.False(t, ok)
}

func TestMapUpdateFields_CurrentTech(t *testing.T) {
	fields, err := MapUpdateFields(UpdateUserRequest{CurrentTech: &TechField{Name: " Go "}})
	require.NoError(t, err)
	assert.Equal(t, "Go", fields["Tecnologia Actual"])

	// empty after trim is dropped, not an error
	fields, err = MapUpdateFields(UpdateUserRequest{CurrentTech: &TechField{Name: "  "}})
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestMapUpdateFields_LinkArrays(t *testing.T) {
	ids := []string{"recA", "recB"}
	empty := []string{}
	fields, err := MapUpdateFields(UpdateUserRequest{Projects: &ids, Referent: &empty})
	require.NoError(t, err)
	assert.Equal(t, []string{"recA", "recB"}, fields["Proyectos"])
	// explicit empty array is an unlink, distinct from absence
	assert.Equal(t, []string{}, fields["Referente"])
	_, ok := fields["Talent Partner"]
	assert.False(t, ok)
}

func TestMapUpdateFields_EmptyRequest(t *testing.T) {
	fields, err := MapUpdateFields(UpdateUserRequest{})
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestTechFieldUnmarshal(t *testing.T) {
	var req UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"currentTech": "Java"}`), &req))
	require.NotNil(t, req.CurrentTech)
	assert.Equal(t, "Java", req.CurrentTech.Name)

	req = UpdateUserRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"currentTech": {"name": "Kotlin"}}`), &req))
	require.NotNil(t, req.CurrentTech)
	assert.Equal(t, "Kotlin", req.CurrentTech.Name)
}

func TestUpdateUserRequestProjectsAlias(t *testing.T) {
	var req UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"projects": ["rec1"]}`), &req))
	require.NotNil(t, req.Projects)
	assert.Equal(t, []string{"rec1"}, *req.Projects)

	req = UpdateUserRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"proyectos": ["rec2"]}`), &req))
	require.NotNil(t, req.Projects)
	assert.Equal(t, []string{"rec2"}, *req.Projects)
}
