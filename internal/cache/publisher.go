package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/back1ply/Catalog-of-BI-tools/internal/facets"
	"github.com/back1ply/Catalog-of-BI-tools/internal/ingest"
)

// Keys written under the client prefix.
const (
	KeyRecords = "records"
	KeyFacets  = "facets"
	KeySummary = "summary"
	KeyMeta    = "meta"
)

// Meta describes a published snapshot.
type Meta struct {
	Source      string    `json:"source"`
	RecordCount int       `json:"recordCount"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Publisher writes a catalog snapshot as a set of JSON documents.
type Publisher struct {
	client Client
	ttl    time.Duration
	now    func() time.Time
}

// NewPublisher creates a publisher. A zero ttl keeps published keys indefinitely.
func NewPublisher(client Client, ttl time.Duration) *Publisher {
	return &Publisher{client: client, ttl: ttl, now: time.Now}
}

// Publish replaces any previous snapshot with records, their facet index and summary.
// The meta key is written last so readers never see it ahead of the data.
func (p *Publisher) Publish(ctx context.Context, source string, records []ingest.Record, summary ingest.Summary) (*Meta, error) {
	if err := p.client.Delete(ctx, KeyMeta); err != nil {
		return nil, err
	}

	docs := []struct {
		key   string
		value interface{}
	}{
		{KeyRecords, records},
		{KeyFacets, facets.Build(records).Snapshot()},
		{KeySummary, summary},
	}
	for _, doc := range docs {
		if err := p.setJSON(ctx, doc.key, doc.value); err != nil {
			return nil, err
		}
	}

	meta := &Meta{Source: source, RecordCount: len(records), PublishedAt: p.now().UTC()}
	if err := p.setJSON(ctx, KeyMeta, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// Records reads back the published record collection.
func (p *Publisher) Records(ctx context.Context) ([]ingest.Record, error) {
	var records []ingest.Record
	if err := p.getJSON(ctx, KeyRecords, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Facets reads back the published facet index.
func (p *Publisher) Facets(ctx context.Context) (*facets.Snapshot, error) {
	var snap facets.Snapshot
	if err := p.getJSON(ctx, KeyFacets, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Meta reads back the description of the current snapshot.
func (p *Publisher) Meta(ctx context.Context) (*Meta, error) {
	var meta Meta
	if err := p.getJSON(ctx, KeyMeta, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Summary reads back the published generation distribution.
func (p *Publisher) Summary(ctx context.Context) (ingest.Summary, error) {
	var summary ingest.Summary
	if err := p.getJSON(ctx, KeySummary, &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (p *Publisher) setJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := p.client.Set(ctx, key, data, p.ttl); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}

func (p *Publisher) getJSON(ctx context.Context, key string, dst interface{}) error {
	data, err := p.client.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
