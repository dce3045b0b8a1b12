package edsapi

import (
	"github.com/kailas-cloud/edsapi/internal/domain/options"
	domquery "github.com/kailas-cloud/edsapi/internal/domain/query"
	"github.com/kailas-cloud/edsapi/internal/domain/record"
	"github.com/kailas-cloud/edsapi/internal/usecase/backend"
	"github.com/kailas-cloud/edsapi/internal/usecase/request"
)

// Query is a Term or a Group.
type Query = domquery.Query

// Operator joins the members of a Group.
type Operator = domquery.Operator

// Boolean operators.
const (
	And = domquery.And
	Or  = domquery.Or
	Not = domquery.Not
)

// AllFields searches every field.
const AllFields = domquery.AllFields

// Term returns a free-text query on field. An empty field means AllFields.
func Term(field, text string) Query { return domquery.NewTerm(field, text) }

// Group returns a query combining qs with op.
func Group(op Operator, negated bool, qs ...Query) Query {
	return domquery.NewGroup(op, negated, qs...)
}

// Record is one normalized search result.
type Record = record.Record

// Collection is an ordered list of records plus total hits.
type Collection = record.Collection

// NewRecord creates a record, for use in custom constructors.
func NewRecord(databaseID, accessionNumber, title string, raw map[string]any) Record {
	return record.New(databaseID, accessionNumber, title, raw)
}

// RecordConstructor builds a Record from one raw record document.
type RecordConstructor func(raw map[string]any) (Record, error)

// SearchParams are the optional search settings.
type SearchParams = request.SearchParams

// Filter is a facet filter.
type Filter = request.Filter

// Facet requests facet counts for a field.
type Facet = request.Facet

// RetrieveParams are the optional retrieve settings.
type RetrieveParams = backend.RetrieveParams

// Info is the search criteria a profile supports.
type Info = options.Info

// Settings are file-style option overrides.
type Settings = options.Settings

// Options is the effective search options snapshot.
type Options = options.Options
