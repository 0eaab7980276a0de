package airtable

import (
	"context"
	"fmt"
	"time"

	airtable "github.com/mehanizm/airtable"
	"github.com/mobyapp/mobyapp/backend/go-services/pkg/logger"
	"github.com/mobyapp/mobyapp/backend/go-services/pkg/metrics"
)

// Client wraps the Airtable API client for one base. It hands out Table
// handles bound to named tables; the handles are stateless and safe for
// concurrent use.
type Client struct {
	api    *airtable.Client
	baseID string
}

func NewClient(apiKey, baseID string) *Client {
	return &Client{api: airtable.NewClient(apiKey), baseID: baseID}
}

// Table returns a handle for the named table.
func (c *Client) Table(name string) Table {
	return &apiTable{tbl: c.api.GetTable(c.baseID, name), name: name}
}

type apiTable struct {
	tbl  *airtable.Table
	name string
}

// Read calls are retried with backoff because Airtable rate-limits at 5 rps
// per base. Writes are never retried: a timed-out Create may have landed, and
// retrying it would duplicate the record.
const (
	readAttempts = 3
	readBackoff  = 250 * time.Millisecond
)

func (t *apiTable) Select(ctx context.Context, q SelectQuery) ([]Record, error) {
	metrics.StoreRequests.WithLabelValues(t.name, "select").Inc()
	var out []Record
	offset := ""
	for {
		res, err := t.selectPage(ctx, q, offset)
		if err != nil {
			metrics.StoreErrors.WithLabelValues(t.name, "select").Inc()
			return nil, fmt.Errorf("airtable: select %q: %w", t.name, err)
		}
		for _, r := range res.Records {
			out = append(out, Record{ID: r.ID, Fields: r.Fields})
			if q.MaxRecords > 0 && len(out) >= q.MaxRecords {
				return out, nil
			}
		}
		if res.Offset == "" {
			return out, nil
		}
		offset = res.Offset
	}
}

func (t *apiTable) selectPage(ctx context.Context, q SelectQuery, offset string) (*airtable.Records, error) {
	return withReadRetry(ctx, t.name, func() (*airtable.Records, error) {
		cfg := t.tbl.GetRecords()
		if q.Formula != "" {
			cfg = cfg.WithFilterFormula(q.Formula)
		}
		if len(q.Fields) > 0 {
			cfg = cfg.ReturnFields(q.Fields...)
		}
		if offset != "" {
			cfg = cfg.WithOffset(offset)
		}
		return cfg.Do()
	})
}

func (t *apiTable) Find(ctx context.Context, id string) (*Record, error) {
	metrics.StoreRequests.WithLabelValues(t.name, "find").Inc()
	rec, err := withReadRetry(ctx, t.name, func() (*airtable.Record, error) {
		return t.tbl.GetRecord(id)
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues(t.name, "find").Inc()
		return nil, fmt.Errorf("airtable: find %q in %q: %w", id, t.name, err)
	}
	return &Record{ID: rec.ID, Fields: rec.Fields}, nil
}

func (t *apiTable) Create(ctx context.Context, fields []map[string]interface{}) ([]Record, error) {
	metrics.StoreRequests.WithLabelValues(t.name, "create").Inc()
	payload := &airtable.Records{}
	for _, f := range fields {
		payload.Records = append(payload.Records, &airtable.Record{Fields: f})
	}
	res, err := t.tbl.AddRecords(payload)
	if err != nil {
		metrics.StoreErrors.WithLabelValues(t.name, "create").Inc()
		return nil, fmt.Errorf("airtable: create in %q: %w", t.name, err)
	}
	return toRecords(res), nil
}

// Update issues a PATCH so fields absent from the payload keep their stored
// values. The full-update PUT variant would clear every omitted field.
func (t *apiTable) Update(ctx context.Context, updates []Update) ([]Record, error) {
	metrics.StoreRequests.WithLabelValues(t.name, "update").Inc()
	payload := &airtable.Records{}
	for _, u := range updates {
		payload.Records = append(payload.Records, &airtable.Record{ID: u.ID, Fields: u.Fields})
	}
	res, err := t.tbl.UpdateRecordsPartialContext(ctx, payload)
	if err != nil {
		metrics.StoreErrors.WithLabelValues(t.name, "update").Inc()
		return nil, fmt.Errorf("airtable: update in %q: %w", t.name, err)
	}
	return toRecords(res), nil
}

func toRecords(res *airtable.Records) []Record {
	out := make([]Record, 0, len(res.Records))
	for _, r := range res.Records {
		out = append(out, Record{ID: r.ID, Fields: r.Fields})
	}
	return out
}

// withReadRetry runs fn up to readAttempts times with doubling backoff,
// respecting context cancellation between attempts.
func withReadRetry[T any](ctx context.Context, table string, fn func() (T, error)) (T, error) {
	var zero T
	backoff := readBackoff
	var lastErr error
	for attempt := 1; attempt <= readAttempts; attempt++ {
		res, err := fn()
		if err == nil {
			return res, nil
		}
		lastErr = err
		if attempt < readAttempts {
			logger.Warnf("attempt %d/%d: airtable read on %q failed: %v", attempt, readAttempts, table, err)
			metrics.StoreRetries.WithLabelValues(table).Inc()
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return zero, lastErr
}
