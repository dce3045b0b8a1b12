package request

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/edsapi/internal/domain/options"
	"github.com/kailas-cloud/edsapi/internal/domain/params"
	domquery "github.com/kailas-cloud/edsapi/internal/domain/query"
	trquery "github.com/kailas-cloud/edsapi/internal/usecase/query"
)

// Filter is a facet filter applied to the search.
type Filter struct {
	Field string
	Value string
}

// Facet requests facet counts for a field. Spec may carry inline
// "name,mode,page,limit" parts; missing parts take defaults.
type Facet struct {
	Spec string
	Or   bool
}

// SearchParams are the caller-facing search options.
type SearchParams struct {
	Sort      string
	Mode      string
	Filters   []Filter
	Limiters  []string // "id:value"
	Expanders []string
	Facets    []Facet
	SetupOnly bool
	Profile   string
}

// Builder assembles outbound parameter sets.
type Builder struct {
	translator *trquery.Translator
	opts       options.Options
}

// NewBuilder creates a Builder reading flags from opts.
func NewBuilder(opts options.Options) *Builder {
	return &Builder{translator: trquery.NewTranslator(), opts: opts}
}

// Options returns the snapshot the builder reads.
func (b *Builder) Options() options.Options { return b.opts }

// PageNumber converts an offset into a 1-based page number.
func PageNumber(offset, limit int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}

// Build combines the translated query and paging with extra. Keys defined
// in extra replace the computed ones.
func (b *Builder) Build(q domquery.Query, offset, limit int, extra *params.Set) *params.Set {
	p := b.translator.Build(q)
	p.Set(params.ResultsPerPage, strconv.Itoa(limit))
	p.Set(params.PageNumber, strconv.Itoa(PageNumber(offset, limit)))
	p.MergeWith(extra)
	return p
}

// BackendParams renders sp into wire parameters.
func (b *Builder) BackendParams(sp SearchParams) *params.Set {
	p := params.New()

	sort := sp.Sort
	if sort == "" {
		sort = b.opts.DefaultSort()
	}
	if sort != "" && sort != options.RelevanceSort {
		p.Set(params.Sort, sort)
	}
	if b.opts.Highlight() {
		p.Set(params.Highlight, "y")
	}
	if v := b.opts.View(); v != "" {
		p.Set(params.View, v)
	}
	mode := sp.Mode
	if mode == "" || !b.opts.HasMode(mode) {
		mode = b.opts.DefaultMode()
	}
	if mode != "" {
		p.Set(params.SearchMode, mode)
	}
	if sp.SetupOnly {
		p.Set(params.SetupOnly, "y")
	}
	if b.opts.IncludeFacets() {
		for _, f := range sp.Facets {
			p.Add(params.Facets, b.facet(f))
		}
	}
	for _, f := range sp.Filters {
		p.Add(params.Filters, f.Field+":"+domquery.EscapeSpecialCharacters(f.Value))
	}
	ids, grouped := GroupLimiters(sp.Limiters)
	for _, id := range ids {
		p.Add(params.Limiters, id+":"+grouped[id])
	}
	if exp := b.expanders(sp.Expanders); len(exp) > 0 {
		p.Add(params.Expander, strings.Join(exp, ","))
	}
	if sp.Profile != "" {
		p.Set(params.Profile, sp.Profile)
	}
	return p
}

// expanders drops ids the service does not offer. An empty request falls
// back to the default-on expanders.
func (b *Builder) expanders(ids []string) []string {
	if len(ids) == 0 {
		return b.opts.DefaultExpanders()
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if b.opts.HasExpander(id) {
			out = append(out, id)
		}
	}
	return out
}

func (b *Builder) facet(f Facet) string {
	parts := strings.Split(f.Spec, ",")
	mode := "and"
	if f.Or {
		mode = "or"
	}
	page := "1"
	limit := strconv.Itoa(b.opts.FacetLimit())
	if len(parts) > 1 && parts[1] != "" {
		mode = parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		page = parts[2]
	}
	if len(parts) > 3 && parts[3] != "" {
		limit = parts[3]
	}
	return strings.Join([]string{parts[0], mode, page, limit}, ",")
}

// GroupLimiters groups "id:value" entries by id in first-seen order. Values
// are escaped individually and comma-joined. Entries without a colon are
// skipped.
func GroupLimiters(limiters []string) (ids []string, grouped map[string]string) {
	grouped = make(map[string]string)
	for _, l := range limiters {
		id, value, ok := strings.Cut(l, ":")
		if !ok || id == "" {
			continue
		}
		value = domquery.EscapeSpecialCharacters(value)
		if prev, seen := grouped[id]; seen {
			grouped[id] = prev + "," + value
			continue
		}
		ids = append(ids, id)
		grouped[id] = value
	}
	return ids, grouped
}
