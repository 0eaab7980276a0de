package users

import (
	"context"

	"github.com/mobyapp/mobyapp/backend/go-services/internal/airtable"
	"github.com/mobyapp/mobyapp/backend/go-services/pkg/logger"
)

// Denormalization is presentation enrichment, not authoritative data, so a
// failed lookup degrades to an empty result instead of failing the whole
// operation. Callers must not read an empty result as "no links existed".

// lookupLinkedField expands link ids into the named field's values, in store
// order, filtering records where the field is missing. An empty id list
// returns immediately without a store call.
func lookupLinkedField(ctx context.Context, tbl airtable.Table, ids []string, field string) []string {
	if len(ids) == 0 {
		return []string{}
	}
	recs, err := tbl.Select(ctx, airtable.SelectQuery{
		Formula: airtable.RecordIDAny(ids),
		Fields:  []string{field},
	})
	if err != nil {
		logger.Errorf("denormalize: lookup of %d linked records failed: %v", len(ids), err)
		return []string{}
	}
	out := []string{}
	for _, r := range recs {
		if v := textField(r.Fields, field); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// lookupUserReference expands a single-link user column (first id of the link
// array) into a flattened UserReference, or nil when the link is empty,
// dangling, or the lookup fails.
func lookupUserReference(ctx context.Context, usersTbl airtable.Table, ids []string) *UserReference {
	if len(ids) == 0 {
		return nil
	}
	recs, err := usersTbl.Select(ctx, airtable.SelectQuery{
		Formula: airtable.RecordIDAny(ids[:1]),
		Fields:  []string{colFirstName, colLastName, colEmail},
	})
	if err != nil {
		logger.Errorf("denormalize: user reference lookup for %q failed: %v", ids[0], err)
		return nil
	}
	if len(recs) == 0 {
		return nil
	}
	f := recs[0].Fields
	return &UserReference{
		Name:     textField(f, colFirstName),
		LastName: textField(f, colLastName),
		Email:    textField(f, colEmail),
	}
}
