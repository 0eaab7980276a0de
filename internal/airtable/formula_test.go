package airtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldEquals(t *testing.T) {
	assert.Equal(t, "{Correo Moby} = 'a@b.com'", FieldEquals("Correo Moby", "a@b.com"))
	// single quotes in values must not terminate the literal
	assert.Equal(t, `{Nombre} = 'O\'Brien'`, FieldEquals("Nombre", "O'Brien"))
}

func TestRecordIDAny(t *testing.T) {
	assert.Equal(t, "FALSE()", RecordIDAny(nil))
	assert.Equal(t, "RECORD_ID()='rec1'", RecordIDAny([]string{"rec1"}))
	assert.Equal(t, "OR(RECORD_ID()='rec1', RECORD_ID()='rec2')", RecordIDAny([]string{"rec1", "rec2"}))
}

func TestFieldContainsFold(t *testing.T) {
	assert.Equal(t, "FIND('java', LOWER({Tecnologia Actual})) > 0", FieldContainsFold("Tecnologia Actual", "Java"))
}
