package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobyapp/mobyapp/backend/go-services/internal/airtable/airtabletest"
)

func TestLookupLinkedField(t *testing.T) {
	tbl := airtabletest.New()
	tbl.Seed("recP1", map[string]interface{}{"Nombre": "Alpha"})
	tbl.Seed("recP2", map[string]interface{}{"Nombre": "Beta"})
	tbl.Seed("recP3", map[string]interface{}{}) // missing name is filtered out

	names := lookupLinkedField(context.Background(), tbl, []string{"recP1", "recP3", "recP2"}, "Nombre")
	assert.ElementsMatch(t, []string{"Alpha", "Beta"}, names)
}

func TestLookupLinkedField_EmptyInputIssuesNoQuery(t *testing.T) {
	tbl := airtabletest.New()
	names := lookupLinkedField(context.Background(), tbl, nil, "Nombre")
	assert.Empty(t, names)
	assert.Equal(t, 0, tbl.SelectCalls)
}

func TestLookupLinkedField_AbsorbsStoreErrors(t *testing.T) {
	tbl := airtabletest.New()
	tbl.Seed("recP1", map[string]interface{}{"Nombre": "Alpha"})
	tbl.SelectErr = errors.New("rate limited")

	// lossy on error: empty result, no propagated failure
	names := lookupLinkedField(context.Background(), tbl, []string{"recP1"}, "Nombre")
	assert.Empty(t, names)
}

func TestLookupUserReference(t *testing.T) {
	tbl := airtabletest.New()
	tbl.Seed("recU1", map[string]interface{}{
		"Nombre":      "Laura",
		"Apellido":    "Gomez",
		"Correo Moby": "laura@moby.com",
		"Referente":   []interface{}{"recU9"},
	})

	ref := lookupUserReference(context.Background(), tbl, []string{"recU1", "recU2"})
	require.NotNil(t, ref)
	assert.Equal(t, "Laura", ref.Name)
	assert.Equal(t, "Gomez", ref.LastName)
	assert.Equal(t, "laura@moby.com", ref.Email)
	// expansion stops at depth one
	assert.Nil(t, ref.Referent)
	assert.Nil(t, ref.TalentPartner)
	assert.Nil(t, ref.Projects)
}

func TestLookupUserReference_EmptyAndDangling(t *testing.T) {
	tbl := airtabletest.New()
	assert.Nil(t, lookupUserReference(context.Background(), tbl, nil))
	assert.Equal(t, 0, tbl.SelectCalls)

	assert.Nil(t, lookupUserReference(context.Background(), tbl, []string{"recMissing"}))
}
