// Package query translates listing query parameters into a database
// filter plus optional sort, mirroring the public API contract:
// exact matches (?bedrooms=3), composable range operators
// (?bedrooms[gte]=2&bedrooms[lte]=4) and sortBy/order.
package query

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// rangeKey matches bracket-style parameters like maxGuests[gte]
var rangeKey = regexp.MustCompile(`^(\w+)\[(gte|lte|gt|lt)\]$`)

// fieldColumns are the only fields the listing endpoint filters on.
// Everything else in the query string is ignored.
var fieldColumns = map[string]string{
	"bedrooms":  "bedrooms",
	"beds":      "beds",
	"bathrooms": "bathrooms",
	"maxGuests": "max_guests",
}

var rangeOps = map[string]string{
	"gte": ">=",
	"lte": "<=",
	"gt":  ">",
	"lt":  "<",
}

// Filter is the parsed form of a listing query string.
type Filter struct {
	Exact  map[string]float64            // column -> value
	Ranges map[string]map[string]float64 // column -> operator -> value
	SortBy string
	Order  string
}

// Parse builds a Filter from raw query parameters. Non-numeric values
// coerce to NaN; Apply turns a NaN-bearing filter into an empty
// result.
func Parse(values url.Values) Filter {
	f := Filter{
		Exact:  make(map[string]float64),
		Ranges: make(map[string]map[string]float64),
		SortBy: values.Get("sortBy"),
		Order:  values.Get("order"),
	}

	for param := range values {
		value := values.Get(param)

		if m := rangeKey.FindStringSubmatch(param); m != nil {
			field, op := m[1], m[2]
			column, ok := fieldColumns[field]
			if !ok {
				continue
			}
			if f.Ranges[column] == nil {
				f.Ranges[column] = make(map[string]float64)
			}
			f.Ranges[column][op] = toNumber(value)
			continue
		}

		if column, ok := fieldColumns[param]; ok {
			f.Exact[column] = toNumber(value)
		}
	}

	return f
}

// Apply attaches the filter's WHERE and ORDER BY clauses to a query.
// A filter carrying a malformed number matches no rows; NaN cannot be
// handed to SQL, where its comparison semantics vary per engine.
func (f Filter) Apply(db *gorm.DB) *gorm.DB {
	if f.hasNaN() {
		db = db.Where("1 = 0")
		if clause := f.OrderClause(); clause != "" {
			db = db.Order(clause)
		}
		return db
	}

	for column, value := range f.Exact {
		db = db.Where(fmt.Sprintf("%s = ?", column), value)
	}
	for column, ops := range f.Ranges {
		for op, value := range ops {
			db = db.Where(fmt.Sprintf("%s %s ?", column, rangeOps[op]), value)
		}
	}
	if clause := f.OrderClause(); clause != "" {
		db = db.Order(clause)
	}
	return db
}

func (f Filter) hasNaN() bool {
	for _, value := range f.Exact {
		if math.IsNaN(value) {
			return true
		}
	}
	for _, ops := range f.Ranges {
		for _, value := range ops {
			if math.IsNaN(value) {
				return true
			}
		}
	}
	return false
}

// OrderClause returns the ORDER BY clause for the filter, or "" when
// no sort was requested. sortBy=recent sorts on creation time,
// sortBy=rating on the aggregate average; anything else is taken as a
// literal column name. Descending unless order=asc.
func (f Filter) OrderClause() string {
	if f.SortBy == "" {
		return ""
	}

	var column string
	switch f.SortBy {
	case "recent":
		column = "created_at"
	case "rating":
		column = "rating_average"
	default:
		column = sanitizeColumn(f.SortBy)
		if column == "" {
			return ""
		}
	}

	if f.Order == "asc" {
		return column + " ASC"
	}
	return column + " DESC"
}

// sanitizeColumn strips anything that is not a plain identifier
// character so a caller-supplied sort field cannot smuggle SQL.
func sanitizeColumn(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toNumber(s string) float64 {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}
