package records

import (
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/kailas-cloud/edsapi/internal/domain/record"
)

var (
	dbIDQuery  = mustCompile(`.Header.DbId // ""`)
	anQuery    = mustCompile(`.Header.An // ""`)
	titleQuery = mustCompile(`[.RecordInfo.BibRecord.BibEntity.Titles[]?.TitleFull] | first // ""`)
)

func mustCompile(expression string) *gojq.Code {
	q, err := gojq.Parse(expression)
	if err != nil {
		panic(fmt.Sprintf("invalid jq expression %q: %v", expression, err))
	}
	code, err := gojq.Compile(q)
	if err != nil {
		panic(fmt.Sprintf("failed to compile jq expression %q: %v", expression, err))
	}
	return code
}

// DefaultConstructor reads the database id, accession number and title from
// a raw record and keeps the document as is.
func DefaultConstructor(raw map[string]any) (record.Record, error) {
	dbID, err := extract(dbIDQuery, raw)
	if err != nil {
		return record.Record{}, fmt.Errorf("database id: %w", err)
	}
	an, err := extract(anQuery, raw)
	if err != nil {
		return record.Record{}, fmt.Errorf("accession number: %w", err)
	}
	title, err := extract(titleQuery, raw)
	if err != nil {
		return record.Record{}, fmt.Errorf("title: %w", err)
	}
	return record.New(dbID, an, title, raw), nil
}

// extract runs code and renders its first output as a string.
func extract(code *gojq.Code, raw map[string]any) (string, error) {
	iter := code.Run(raw)
	v, ok := iter.Next()
	if !ok {
		return "", nil
	}
	if err, isErr := v.(error); isErr {
		return "", err
	}
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return fmt.Sprint(s), nil
	}
}
