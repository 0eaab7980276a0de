// Package airtabletest provides an in-memory Table for tests. It understands
// the formula shapes the formula helpers produce (field equality, RECORD_ID()
// disjunctions, case-insensitive FIND) and counts calls per operation so
// tests can assert that a code path issued no query.
package airtabletest

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/mobyapp/mobyapp/backend/go-services/internal/airtable"
)

type Table struct {
	mu     sync.Mutex
	recs   []airtable.Record
	nextID int

	SelectCalls int
	FindCalls   int
	CreateCalls int
	UpdateCalls int

	// SelectErr, when set, makes every Select fail.
	SelectErr error
	// FindErr, when set, makes every Find fail.
	FindErr error
}

func New() *Table {
	return &Table{}
}

// Seed inserts a record with a fixed id and returns the id.
func (t *Table) Seed(id string, fields map[string]interface{}) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recs = append(t.recs, airtable.Record{ID: id, Fields: fields})
	return id
}

// Get returns a copy of the stored record, or nil.
func (t *Table) Get(id string) *airtable.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.recs {
		if r.ID == id {
			cp := r
			return &cp
		}
	}
	return nil
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.recs)
}

func (t *Table) Select(ctx context.Context, q airtable.SelectQuery) ([]airtable.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.SelectCalls++
	if t.SelectErr != nil {
		return nil, t.SelectErr
	}
	out := []airtable.Record{}
	for _, r := range t.recs {
		if !match(q.Formula, r) {
			continue
		}
		out = append(out, r)
		if q.MaxRecords > 0 && len(out) >= q.MaxRecords {
			break
		}
	}
	return out, nil
}

func (t *Table) Find(ctx context.Context, id string) (*airtable.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.FindCalls++
	if t.FindErr != nil {
		return nil, t.FindErr
	}
	for _, r := range t.recs {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("record %s not found", id)
}

func (t *Table) Create(ctx context.Context, fields []map[string]interface{}) ([]airtable.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.CreateCalls++
	out := []airtable.Record{}
	for _, f := range fields {
		t.nextID++
		rec := airtable.Record{ID: fmt.Sprintf("rec%03d", t.nextID), Fields: f}
		t.recs = append(t.recs, rec)
		out = append(out, rec)
	}
	return out, nil
}

// Update merges the given fields into the stored record, mirroring the
// adapter's PATCH semantics: omitted fields keep their values.
func (t *Table) Update(ctx context.Context, updates []airtable.Update) ([]airtable.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.UpdateCalls++
	out := []airtable.Record{}
	for _, u := range updates {
		found := false
		for i := range t.recs {
			if t.recs[i].ID != u.ID {
				continue
			}
			for k, v := range u.Fields {
				t.recs[i].Fields[k] = v
			}
			out = append(out, t.recs[i])
			found = true
			break
		}
		if !found {
			return nil, fmt.Errorf("record %s not found", u.ID)
		}
	}
	return out, nil
}

var (
	eqRe   = regexp.MustCompile(`^\{(.+)\} = '(.*)'$`)
	findRe = regexp.MustCompile(`^FIND\('(.*)', LOWER\(\{(.+)\}\)\) > 0$`)
	idRe   = regexp.MustCompile(`^RECORD_ID\(\)='(.+)'$`)
)

func match(formula string, r airtable.Record) bool {
	formula = strings.TrimSpace(formula)
	switch {
	case formula == "":
		return true
	case formula == "FALSE()":
		return false
	case strings.HasPrefix(formula, "OR(") && strings.HasSuffix(formula, ")"):
		inner := formula[3 : len(formula)-1]
		for _, term := range strings.Split(inner, ", ") {
			if match(term, r) {
				return true
			}
		}
		return false
	}
	if m := idRe.FindStringSubmatch(formula); m != nil {
		return r.ID == m[1]
	}
	if m := eqRe.FindStringSubmatch(formula); m != nil {
		return fieldText(r.Fields, m[1]) == m[2]
	}
	if m := findRe.FindStringSubmatch(formula); m != nil {
		return strings.Contains(strings.ToLower(fieldText(r.Fields, m[2])), m[1])
	}
	return false
}

func fieldText(f map[string]interface{}, col string) string {
	switch v := f[col].(type) {
	case string:
		return v
	case []interface{}:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}
