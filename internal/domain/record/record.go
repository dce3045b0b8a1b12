package record

import (
	"fmt"
	"strings"
)

// Record is one normalized search result. The raw document is kept as
// returned by the service.
type Record struct {
	databaseID       string
	accessionNumber  string
	title            string
	raw              map[string]any
	sourceIdentifier string
}

// New creates a record.
func New(databaseID, accessionNumber, title string, raw map[string]any) Record {
	return Record{
		databaseID:      databaseID,
		accessionNumber: accessionNumber,
		title:           title,
		raw:             raw,
	}
}

// ID returns "<databaseId>,<accessionNumber>", the identifier retrieve accepts.
func (r Record) ID() string {
	if r.databaseID == "" && r.accessionNumber == "" {
		return ""
	}
	return r.databaseID + "," + r.accessionNumber
}

// DatabaseID returns the short code of the database holding the record.
func (r Record) DatabaseID() string { return r.databaseID }

// AccessionNumber returns the record's number within its database.
func (r Record) AccessionNumber() string { return r.accessionNumber }

// Title returns the display title, empty when the service sent none.
func (r Record) Title() string { return r.title }

// Raw returns the record document as decoded from the service.
func (r Record) Raw() map[string]any { return r.raw }

// SourceIdentifier returns the backend identifier stamped on the record.
func (r Record) SourceIdentifier() string { return r.sourceIdentifier }

// SplitID splits "<databaseId>,<accessionNumber>" on the first comma.
func SplitID(id string) (databaseID, accessionNumber string, err error) {
	db, an, ok := strings.Cut(id, ",")
	if !ok {
		return "", "", fmt.Errorf("record id %q: expected <databaseId>,<accessionNumber>", id)
	}
	return db, an, nil
}

// Collection is an ordered list of records plus result metadata.
type Collection struct {
	records          []Record
	sourceIdentifier string
	totalHits        int
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends a record, keeping input order.
func (c *Collection) Add(r Record) {
	c.records = append(c.records, r)
}

// Records returns the records in order.
func (c *Collection) Records() []Record { return c.records }

// Len returns the number of records.
func (c *Collection) Len() int { return len(c.records) }

// TotalHits returns the total result count reported by the service, or the
// number of records when the service did not report one.
func (c *Collection) TotalHits() int {
	if c.totalHits > 0 {
		return c.totalHits
	}
	return len(c.records)
}

// SetTotalHits records the reported total.
func (c *Collection) SetTotalHits(n int) { c.totalHits = n }

// SourceIdentifier returns the backend identifier stamped on the collection.
func (c *Collection) SourceIdentifier() string { return c.sourceIdentifier }

// SetSourceIdentifier stamps id on the collection and on every record.
func (c *Collection) SetSourceIdentifier(id string) {
	c.sourceIdentifier = id
	for i := range c.records {
		c.records[i].sourceIdentifier = id
	}
}
