package params

import (
	"reflect"
	"testing"
)

func TestSet_InsertionOrder(t *testing.T) {
	s := New()
	s.Set(Sort, "date")
	s.Add(Query, "dogs")
	s.Set(PageNumber, "2")

	want := []string{Sort, Query, PageNumber}
	if got := s.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestSet_ReplaceKeepsPosition(t *testing.T) {
	s := New()
	s.Set("a", "1")
	s.Set("b", "2")
	s.Set("a", "3")

	if got := s.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Keys() = %v", got)
	}
	if v, _ := s.First("a"); v != "3" {
		t.Errorf("First(a) = %q, want 3", v)
	}
}

func TestSet_Remove(t *testing.T) {
	s := New()
	s.Set("a", "1")
	s.Set("b", "2")
	s.Remove("a")
	s.Remove("missing")

	if s.Has("a") {
		t.Error("a still present")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSet_MergeWith_OtherWins(t *testing.T) {
	base := New()
	base.Add(Query, "dogs")
	base.Set(ResultsPerPage, "10")

	extra := New()
	extra.Set(ResultsPerPage, "50")
	extra.Add(Filters, "LA99:English")

	base.MergeWith(extra)

	if v, _ := base.First(ResultsPerPage); v != "50" {
		t.Errorf("resultsPerPage = %q, want 50", v)
	}
	if got := base.Get(Filters); !reflect.DeepEqual(got, []string{"LA99:English"}) {
		t.Errorf("filters = %v", got)
	}
	if got := base.Get(Query); !reflect.DeepEqual(got, []string{"dogs"}) {
		t.Errorf("query = %v", got)
	}
}

func TestSet_MergeWithNil(t *testing.T) {
	s := New()
	s.Set("a", "1")
	s.MergeWith(nil)
	if s.Len() != 1 {
		t.Errorf("Len() = %d", s.Len())
	}
}

func TestSet_Clone_IsIndependent(t *testing.T) {
	s := New()
	s.Add(Filters, "x")
	c := s.Clone()
	c.Add(Filters, "y")

	if len(s.Get(Filters)) != 1 {
		t.Errorf("original modified: %v", s.Get(Filters))
	}
}

func TestPairs_ScalarSendsFirstValueOnly(t *testing.T) {
	s := New()
	s.Set(Sort, "date", "relevance")
	s.Set(Filters, "a:1", "b:2")
	s.Set(View, "")
	s.Set(Query)

	want := [][2]string{
		{Sort, "date"},
		{Filters, "a:1"},
		{Filters, "b:2"},
	}
	if got := s.Pairs(); !reflect.DeepEqual(got, want) {
		t.Errorf("Pairs() = %v, want %v", got, want)
	}
}

func TestEncode(t *testing.T) {
	s := New()
	s.Add(Query, `TI:a\:b`)
	s.Set(ResultsPerPage, "10")
	s.Set(PageNumber, "3")

	want := "query=TI%3Aa%5C%3Ab&resultsPerPage=10&pageNumber=3"
	if got := s.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestIsMultiValued(t *testing.T) {
	for _, k := range []string{Query, Facets, Filters, Limiters, Expander} {
		if !IsMultiValued(k) {
			t.Errorf("IsMultiValued(%q) = false", k)
		}
	}
	for _, k := range []string{Sort, View, PageNumber, "Query"} {
		if IsMultiValued(k) {
			t.Errorf("IsMultiValued(%q) = true", k)
		}
	}
}
