package query

import (
	"math"
	"net/url"
	"testing"
)

func TestParseExactMatch(t *testing.T) {
	values := url.Values{"bedrooms": {"3"}, "maxGuests": {"6"}}

	f := Parse(values)

	if got := f.Exact["bedrooms"]; got != 3 {
		t.Errorf("expected bedrooms=3, got %v", got)
	}
	if got := f.Exact["max_guests"]; got != 6 {
		t.Errorf("expected max_guests=6, got %v", got)
	}
	if len(f.Ranges) != 0 {
		t.Errorf("expected no range filters, got %v", f.Ranges)
	}
}

func TestParseRangeOperatorsCompose(t *testing.T) {
	values := url.Values{
		"bedrooms[gte]": {"2"},
		"bedrooms[lte]": {"4"},
		"beds[gt]":      {"1"},
	}

	f := Parse(values)

	ranges := f.Ranges["bedrooms"]
	if ranges == nil {
		t.Fatal("expected a bedrooms range filter")
	}
	if ranges["gte"] != 2 || ranges["lte"] != 4 {
		t.Errorf("expected bedrooms gte=2 lte=4, got %v", ranges)
	}
	if f.Ranges["beds"]["gt"] != 1 {
		t.Errorf("expected beds gt=1, got %v", f.Ranges["beds"])
	}
}

func TestParseIgnoresUnknownParams(t *testing.T) {
	values := url.Values{
		"page":        {"2"},
		"title":       {"cabin"},
		"price[gte]":  {"100"},
		"__proto__":   {"1"},
		"maxGuests":   {"4"},
		"sortBy":      {"recent"},
		"order":       {"asc"},
	}

	f := Parse(values)

	if len(f.Exact) != 1 {
		t.Errorf("expected only maxGuests to survive, got %v", f.Exact)
	}
	if len(f.Ranges) != 0 {
		t.Errorf("expected unknown range fields to be dropped, got %v", f.Ranges)
	}
	if f.SortBy != "recent" || f.Order != "asc" {
		t.Errorf("expected sort fields to pass through, got %q %q", f.SortBy, f.Order)
	}
}

func TestParseNonNumericBecomesNaN(t *testing.T) {
	values := url.Values{"bedrooms": {"three"}, "beds[gte]": {"many"}}

	f := Parse(values)

	if !math.IsNaN(f.Exact["bedrooms"]) {
		t.Errorf("expected NaN for malformed exact value, got %v", f.Exact["bedrooms"])
	}
	if !math.IsNaN(f.Ranges["beds"]["gte"]) {
		t.Errorf("expected NaN for malformed range value, got %v", f.Ranges["beds"]["gte"])
	}
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name   string
		sortBy string
		order  string
		want   string
	}{
		{"no sort", "", "asc", ""},
		{"recent maps to created_at", "recent", "", "created_at DESC"},
		{"rating maps to aggregate", "rating", "", "rating_average DESC"},
		{"ascending", "recent", "asc", "created_at ASC"},
		{"literal column", "title", "", "title DESC"},
		{"injection stripped", "title; DROP TABLE properties--", "", "titleDROPTABLEproperties DESC"},
		{"only symbols yields nothing", ";--", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{SortBy: tt.sortBy, Order: tt.order}
			if got := f.OrderClause(); got != tt.want {
				t.Errorf("OrderClause() = %q, want %q", got, tt.want)
			}
		})
	}
}
