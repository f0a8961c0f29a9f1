// Package listing turns list query parameters into filters, search and
// ordering over a gorm query.
package listing

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"silant-backend/internal/apperr"
)

// FilterKind selects how a query parameter is matched.
type FilterKind int

const (
	// FilterID matches an integer column exactly.
	FilterID FilterKind = iota
	// FilterExact matches a text column exactly.
	FilterExact
	// FilterContains matches a case-insensitive substring of a text column.
	FilterContains
)

// Filter maps one query parameter onto a column expression.
type Filter struct {
	Column string
	Kind   FilterKind
}

// Spec describes what a resource can be filtered, searched and ordered by.
type Spec struct {
	// Table is the primary table; rows are selected as Table.*.
	Table string
	// Joins are always applied, so filters and visibility may reference
	// the joined tables.
	Joins    []string
	Filters  map[string]Filter
	Search   []string
	Ordering map[string]string
	// Default ordering terms, e.g. "-shipment_date".
	Default []string
}

// SearchParam and OrderingParam are the reserved parameter names.
const (
	SearchParam   = "search"
	OrderingParam = "ordering"
)

type condition struct {
	expr string
	arg  any
}

type orderTerm struct {
	column string
	desc   bool
}

// Query is a parsed list request.
type Query struct {
	spec       *Spec
	conditions []condition
	terms      []string
	order      []orderTerm
}

// Parse reads filters, search and ordering from values. Malformed
// identifier filters are reported together as a ValidationFailed error.
// Unknown parameters and unknown ordering fields are ignored.
func Parse(spec *Spec, values url.Values) (Query, error) {
	q := Query{spec: spec}
	var fe apperr.FieldErrors

	for _, param := range sortedKeys(spec.Filters) {
		raw := strings.TrimSpace(values.Get(param))
		if raw == "" {
			continue
		}
		f := spec.Filters[param]
		switch f.Kind {
		case FilterID:
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				fe.Add(param, "invalid", fmt.Sprintf("%q is not a valid identifier", raw))
				continue
			}
			q.conditions = append(q.conditions, condition{expr: f.Column + " = ?", arg: id})
		case FilterExact:
			q.conditions = append(q.conditions, condition{expr: f.Column + " = ?", arg: raw})
		case FilterContains:
			q.conditions = append(q.conditions, condition{expr: "LOWER(" + f.Column + ") LIKE LOWER(?)", arg: likePattern(raw)})
		}
	}
	if err := fe.Err(); err != nil {
		return Query{}, err
	}

	if len(spec.Search) > 0 {
		q.terms = strings.Fields(values.Get(SearchParam))
	}

	q.order = parseOrdering(spec, values.Get(OrderingParam))
	if len(q.order) == 0 {
		q.order = parseOrdering(spec, strings.Join(spec.Default, ","))
	}
	return q, nil
}

func parseOrdering(spec *Spec, raw string) []orderTerm {
	var out []orderTerm
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		column, ok := spec.Ordering[field]
		if !ok {
			continue
		}
		out = append(out, orderTerm{column: column, desc: desc})
	}
	return out
}

// Scope applies the query to db. It is meant for db.Scopes.
func (q Query) Scope(db *gorm.DB) *gorm.DB {
	if q.spec == nil {
		return db
	}
	db = db.Select(q.spec.Table + ".*")
	for _, join := range q.spec.Joins {
		db = db.Joins(join)
	}
	for _, c := range q.conditions {
		db = db.Where(c.expr, c.arg)
	}

	// Every term must match at least one search column.
	for _, term := range q.terms {
		pattern := likePattern(term)
		ors := make([]string, len(q.spec.Search))
		args := make([]any, len(q.spec.Search))
		for i, column := range q.spec.Search {
			ors[i] = "LOWER(" + column + ") LIKE LOWER(?)"
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(ors, " OR ")+")", args...)
	}

	for _, o := range q.order {
		if o.desc {
			db = db.Order(o.column + " DESC")
		} else {
			db = db.Order(o.column + " ASC")
		}
	}
	return db.Order(q.spec.Table + ".id ASC")
}

// likePattern wraps s for a substring match. Case folding happens in SQL
// on both sides so the column and the term are folded by the same rules.
func likePattern(s string) string {
	return "%" + s + "%"
}

func sortedKeys(m map[string]Filter) []string {
	return slices.Sorted(maps.Keys(m))
}
