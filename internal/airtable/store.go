package airtable

import "context"

// Record is a row snapshot from an Airtable table: opaque record id plus the
// raw field map as the API returned it. Link columns arrive as []interface{}
// of record ids.
type Record struct {
	ID     string
	Fields map[string]interface{}
}

// SelectQuery narrows a table scan. Zero value means "all records, all fields".
type SelectQuery struct {
	Formula    string
	Fields     []string
	MaxRecords int
}

// Update is a partial field update for one record.
type Update struct {
	ID     string
	Fields map[string]interface{}
}

// Table abstracts the four store primitives every operation in this service
// is expressed in. The real implementation talks to the Airtable REST API;
// tests substitute an in-memory fake.
type Table interface {
	// Select returns all records matching the query, fetching every page.
	// Record order is store-defined.
	Select(ctx context.Context, q SelectQuery) ([]Record, error)
	// Find fetches a single record by id.
	Find(ctx context.Context, id string) (*Record, error)
	// Create inserts one record per field map and returns them with ids assigned.
	Create(ctx context.Context, fields []map[string]interface{}) ([]Record, error)
	// Update applies partial field updates and returns the updated records.
	Update(ctx context.Context, updates []Update) ([]Record, error)
}
