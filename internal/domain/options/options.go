package options

import "slices"

// Defaults applied when neither the service nor the settings provide a value.
const (
	DefaultLimit       = 20
	DefaultView        = "brief"
	DefaultMode        = "all"
	DefaultResultLimit = 100
	DefaultFacetLimit  = 30
	RelevanceSort      = "relevance"
)

// Settings are the file-based overrides. Only recognized keys exist here;
// values the service does not advertise are dropped by Build.
type Settings struct {
	General       GeneralSettings   `yaml:"general"`
	BasicSearches map[string]string `yaml:"basic_searches"`
	Sorting       map[string]string `yaml:"sorting"`
}

// GeneralSettings is the "general" settings group.
type GeneralSettings struct {
	DefaultLimit    int      `yaml:"default_limit"`
	LimitOptions    []int    `yaml:"limit_options"`
	Highlighting    *bool    `yaml:"highlighting"`
	IncludeFacets   *bool    `yaml:"include_facets"`
	FacetLimit      int      `yaml:"facet_limit"`
	DefaultSort     string   `yaml:"default_sort"`
	DefaultMode     string   `yaml:"default_mode"`
	DefaultView     string   `yaml:"default_view"`
	CommonLimiters  []string `yaml:"common_limiters"`
	CommonExpanders []string `yaml:"common_expanders"`
}

// Options is the immutable search configuration snapshot.
type Options struct {
	defaultLimit     int
	limitOptions     []int
	resultLimit      int
	highlight        bool
	includeFacets    bool
	facetLimit       int
	view             string
	defaultMode      string
	defaultSort      string
	sorts            map[string]string
	searchFields     map[string]string
	modes            map[string]string
	limiters         map[string]Limiter
	expanders        map[string]Expander
	defaultExpanders []string
	commonLimiters   []string
	commonExpanders  []string
}

// Default returns options with no service metadata and no overrides.
func Default() Options {
	return Build(Info{}, Settings{})
}

// Build overlays settings onto the service-advertised info.
func Build(info Info, s Settings) Options {
	o := Options{
		defaultLimit:  DefaultLimit,
		resultLimit:   DefaultResultLimit,
		includeFacets: true,
		facetLimit:    DefaultFacetLimit,
		view:          DefaultView,
		defaultMode:   DefaultMode,
		defaultSort:   RelevanceSort,
		sorts:         map[string]string{},
		searchFields:  map[string]string{},
		modes:         map[string]string{},
		limiters:      map[string]Limiter{},
		expanders:     map[string]Expander{},
	}

	vs := info.ViewResultSettings
	if vs.ResultsPerPage > 0 {
		o.defaultLimit = vs.ResultsPerPage
	}
	if vs.ResultListView != "" {
		o.view = vs.ResultListView
	}

	c := info.AvailableSearchCriteria
	for _, srt := range c.AvailableSorts {
		o.sorts[srt.ID] = srt.Label
	}
	for _, f := range c.AvailableSearchFields {
		o.searchFields[f.FieldCode] = f.Label
	}
	for _, m := range c.AvailableSearchModes {
		o.modes[m.Mode] = m.Label
		if isOn(m.DefaultOn) {
			o.defaultMode = m.Mode
		}
	}
	for _, e := range c.AvailableExpanders {
		o.expanders[e.ID] = e
		if isOn(e.DefaultOn) {
			o.defaultExpanders = append(o.defaultExpanders, e.ID)
		}
	}
	for _, l := range c.AvailableLimiters {
		if l.DefaultOn == "" {
			l.DefaultOn = "n"
		}
		o.limiters[l.ID] = l
	}

	g := s.General
	if g.DefaultLimit > 0 {
		o.defaultLimit = g.DefaultLimit
	}
	if len(g.LimitOptions) > 0 {
		o.limitOptions = slices.Clone(g.LimitOptions)
	}
	if g.Highlighting != nil {
		o.highlight = *g.Highlighting
	}
	if g.IncludeFacets != nil {
		o.includeFacets = *g.IncludeFacets
	}
	if g.FacetLimit > 0 {
		o.facetLimit = g.FacetLimit
	}
	if g.DefaultView != "" {
		o.view = g.DefaultView
	}
	o.searchFields = overlay(o.searchFields, s.BasicSearches)
	o.sorts = overlay(o.sorts, s.Sorting)
	if _, ok := o.sorts[g.DefaultSort]; ok {
		o.defaultSort = g.DefaultSort
	}
	if _, ok := o.modes[g.DefaultMode]; ok {
		o.defaultMode = g.DefaultMode
	}
	for _, id := range g.CommonLimiters {
		if _, ok := o.limiters[id]; ok {
			o.commonLimiters = append(o.commonLimiters, id)
		}
	}
	for _, id := range g.CommonExpanders {
		if _, ok := o.expanders[id]; ok {
			o.commonExpanders = append(o.commonExpanders, id)
		}
	}
	return o
}

// overlay keeps only override keys already present in base. If none
// survive, base is returned unchanged.
func overlay(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(override))
	for k, v := range override {
		if _, ok := base[k]; ok {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return base
	}
	return out
}

func (o Options) DefaultLimit() int      { return o.defaultLimit }
func (o Options) LimitOptions() []int    { return slices.Clone(o.limitOptions) }
func (o Options) ResultLimit() int       { return o.resultLimit }
func (o Options) Highlight() bool        { return o.highlight }
func (o Options) IncludeFacets() bool    { return o.includeFacets }
func (o Options) FacetLimit() int        { return o.facetLimit }
func (o Options) View() string           { return o.view }
func (o Options) DefaultMode() string    { return o.defaultMode }
func (o Options) DefaultSort() string    { return o.defaultSort }
func (o Options) CommonLimiters() []string {
	return slices.Clone(o.commonLimiters)
}
func (o Options) CommonExpanders() []string {
	return slices.Clone(o.commonExpanders)
}

// DefaultExpanders returns expanders the service flags as on by default.
func (o Options) DefaultExpanders() []string { return slices.Clone(o.defaultExpanders) }

// SortLabel returns the label of an advertised sort.
func (o Options) SortLabel(id string) (string, bool) {
	l, ok := o.sorts[id]
	return l, ok
}

// SearchFieldLabel returns the label of an advertised search field.
func (o Options) SearchFieldLabel(code string) (string, bool) {
	l, ok := o.searchFields[code]
	return l, ok
}

// Limiter returns an advertised limiter.
func (o Options) Limiter(id string) (Limiter, bool) {
	l, ok := o.limiters[id]
	return l, ok
}

// HasExpander reports whether id is an advertised expander. Any id is
// accepted when the service advertised none.
func (o Options) HasExpander(id string) bool {
	if len(o.expanders) == 0 {
		return true
	}
	_, ok := o.expanders[id]
	return ok
}

// HasMode reports whether mode is an advertised search mode. Any mode is
// accepted when the service advertised none.
func (o Options) HasMode(mode string) bool {
	if len(o.modes) == 0 {
		return true
	}
	_, ok := o.modes[mode]
	return ok
}
