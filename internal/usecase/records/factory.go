package records

import (
	"fmt"

	"github.com/kailas-cloud/edsapi/internal/domain"
	"github.com/kailas-cloud/edsapi/internal/domain/record"
)

// Envelope keys of the search response.
const (
	keyResponse   = "SearchResponseMessageGet"
	keyResult     = "SearchResult"
	keyData       = "Data"
	keyRecords    = "Records"
	keyStatistics = "Statistics"
	keyTotalHits  = "TotalHits"
	keyRecord     = "Record"
)

// Constructor builds a normalized record from one raw record document.
type Constructor func(raw map[string]any) (record.Record, error)

// Factory turns decoded responses into record collections.
type Factory struct {
	construct Constructor
}

// NewFactory creates a Factory. A nil constructor selects DefaultConstructor.
func NewFactory(c Constructor) *Factory {
	if c == nil {
		c = DefaultConstructor
	}
	return &Factory{construct: c}
}

// Parse builds a collection from a decoded search response. A response
// without the records path yields an empty collection.
func (f *Factory) Parse(raw any) (*record.Collection, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parse response: got %T: %w", raw, domain.ErrUnexpectedType)
	}

	coll := record.NewCollection()

	if hits, ok := dig(m, keyResponse, keyResult, keyStatistics, keyTotalHits).(float64); ok {
		coll.SetTotalHits(int(hits))
	}

	list, ok := dig(m, keyResponse, keyResult, keyData, keyRecords).([]any)
	if !ok {
		return coll, nil
	}

	for i, item := range list {
		doc, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parse record %d: got %T: %w", i, item, domain.ErrUnexpectedType)
		}
		rec, err := f.construct(doc)
		if err != nil {
			return nil, fmt.Errorf("construct record %d: %w", i, err)
		}
		coll.Add(rec)
	}
	return coll, nil
}

// WrapRetrieved places the single record of a retrieve response into the
// search envelope so Parse can read it.
func WrapRetrieved(raw any) (map[string]any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("wrap retrieved record: got %T: %w", raw, domain.ErrUnexpectedType)
	}
	records := []any{}
	if rec, ok := m[keyRecord]; ok && rec != nil {
		records = append(records, rec)
	}
	return map[string]any{
		keyResponse: map[string]any{
			keyResult: map[string]any{
				keyData: map[string]any{
					keyRecords: records,
				},
			},
		},
	}, nil
}

// dig follows keys through nested maps and returns nil at the first gap.
func dig(m map[string]any, keys ...string) any {
	var cur any = m
	for _, k := range keys {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = node[k]
	}
	return cur
}
