package options

// Info is the subset of the /info response the adapter consumes.
type Info struct {
	AvailableSearchCriteria SearchCriteria     `json:"AvailableSearchCriteria"`
	ViewResultSettings      ViewResultSettings `json:"ViewResultSettings"`
}

// SearchCriteria lists what the profile supports.
type SearchCriteria struct {
	AvailableSorts        []Sort        `json:"AvailableSorts"`
	AvailableSearchFields []SearchField `json:"AvailableSearchFields"`
	AvailableSearchModes  []SearchMode  `json:"AvailableSearchModes"`
	AvailableExpanders    []Expander    `json:"AvailableExpanders"`
	AvailableLimiters     []Limiter     `json:"AvailableLimiters"`
}

// Sort is an available sort order.
type Sort struct {
	ID    string `json:"Id"`
	Label string `json:"Label"`
}

// SearchField is a field code usable in a term.
type SearchField struct {
	FieldCode string `json:"FieldCode"`
	Label     string `json:"Label"`
}

// SearchMode is a boolean/phrase matching mode.
type SearchMode struct {
	Mode      string `json:"Mode"`
	Label     string `json:"Label"`
	DefaultOn string `json:"DefaultOn"`
}

// Expander broadens a search.
type Expander struct {
	ID        string `json:"Id"`
	Label     string `json:"Label"`
	DefaultOn string `json:"DefaultOn"`
}

// Limiter restricts a search. Values nest for hierarchical limiters.
type Limiter struct {
	ID            string         `json:"Id"`
	Label         string         `json:"Label"`
	Type          string         `json:"Type"`
	DefaultOn     string         `json:"DefaultOn"`
	LimiterValues []LimiterValue `json:"LimiterValues"`
}

// LimiterValue is one selectable value of a "select" limiter.
type LimiterValue struct {
	Value         string         `json:"Value"`
	LimiterValues []LimiterValue `json:"LimiterValues"`
}

// ViewResultSettings carries profile display defaults.
type ViewResultSettings struct {
	ResultsPerPage int    `json:"ResultsPerPage"`
	ResultListView string `json:"ResultListView"`
}

func isOn(flag string) bool { return flag == "y" }
