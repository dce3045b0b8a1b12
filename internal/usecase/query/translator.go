package query

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/edsapi/internal/domain/params"
	domquery "github.com/kailas-cloud/edsapi/internal/domain/query"
)

// Translator converts abstract queries into the service's query parameter.
type Translator struct{}

// NewTranslator creates a Translator.
func NewTranslator() *Translator {
	return &Translator{}
}

// Build returns a parameter set holding only the "query" key.
// Groups yield the key with no values until nested boolean syntax is
// confirmed against the service. Unknown query variants panic.
func (t *Translator) Build(q domquery.Query) *params.Set {
	p := params.New()
	switch v := q.(type) {
	case domquery.Term:
		p.Add(params.Query, t.Term(v))
	case domquery.Group:
		p.Set(params.Query)
	default:
		panic(fmt.Sprintf("query: unsupported query type %T", q))
	}
	return p
}

// Term renders one term as "<field>:<escaped>" or "<escaped>" for AllFields.
func (t *Translator) Term(term domquery.Term) string {
	text := norm.NFC.String(term.Text())
	text = domquery.EscapeSpecialCharacters(domquery.StripQuotes(text))
	if term.Field() == domquery.AllFields {
		return text
	}
	return term.Field() + ":" + text
}
