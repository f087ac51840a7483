package search

import "strings"

// The planner classifies each present filter into one of three predicate
// classes and folds them into a pair of executable statements. Values are
// always bound as ? parameters; only structural fragments are composed.
type predicateClass int

const (
	rowPredicate    predicateClass = iota // plain WHERE, no join needed
	joinPredicate                         // WHERE backed by a required INNER JOIN
	havingPredicate                       // post-GROUP BY aggregate filter
)

type predicate struct {
	class predicateClass
	join  string // join fragment, joinPredicate only
	exprs []string
	args  []any
}

// Plan is the assembled query plan for one normalized filter set.
type Plan struct {
	joins      []string
	where      []string
	whereArgs  []any
	having     []string
	havingArgs []any
	sortBy     SortKey
	sortOrder  SortOrder
	limit      int
	offset     int
}

// Every search computes the same aggregates; the review and room joins
// are always present so that HAVING predicates and sort keys can refer
// to them even when no filter does.
const selectBase = `SELECT
  a.id, a.name, a.description, a.address, a.region, a.thumbnail_image,
  a.total_rooms, a.created_at, a.updated_at,
  COALESCE(AVG(r.rating), 0) AS average_rating,
  COUNT(DISTINCT r.id) AS review_count,
  MIN(rt.price_per_night) AS min_price
FROM accommodations a
LEFT JOIN reviews r ON r.accommodation_id = a.id
LEFT JOIN room_types rt ON rt.accommodation_id = a.id`

// BuildPlan classifies the present filters and assembles the plan.
func BuildPlan(f Filters) Plan {
	p := Plan{
		sortBy:    normalizeSortKey(string(f.SortBy)),
		sortOrder: f.SortOrder,
		limit:     f.Limit,
		offset:    (f.Page - 1) * f.Limit,
	}
	if p.limit < 1 {
		p.limit = DefaultLimit
		p.offset = 0
	}
	if p.sortOrder != OrderAsc {
		p.sortOrder = OrderDesc
	}
	for _, pr := range classify(f) {
		switch pr.class {
		case havingPredicate:
			p.having = append(p.having, pr.exprs...)
			p.havingArgs = append(p.havingArgs, pr.args...)
		default:
			if pr.join != "" {
				p.joins = append(p.joins, pr.join)
			}
			p.where = append(p.where, pr.exprs...)
			p.whereArgs = append(p.whereArgs, pr.args...)
		}
	}
	return p
}

func classify(f Filters) []predicate {
	var ps []predicate

	if f.Region != nil {
		ps = append(ps, predicate{
			class: rowPredicate,
			exprs: []string{"a.region = ?"},
			args:  []any{*f.Region},
		})
	}

	if len(f.AmenityIDs) > 0 {
		in := make([]string, len(f.AmenityIDs))
		args := make([]any, len(f.AmenityIDs))
		for i, id := range f.AmenityIDs {
			in[i] = "?"
			args[i] = id
		}
		ps = append(ps, predicate{
			class: joinPredicate,
			join:  "INNER JOIN accommodation_amenities aa ON aa.accommodation_id = a.id",
			exprs: []string{
				"aa.amenity_id IN (" + strings.Join(in, ",") + ")",
				"aa.is_available = TRUE",
			},
			args: args,
		})
	}

	// Age suitability collapses the requested set to its extremes and
	// tests range overlap: an amenity matches unless its range lies
	// entirely below lo or entirely above hi. A NULL bound is unbounded.
	// This matches the shipped behavior; it is not a per-element test.
	if len(f.AgeMonths) > 0 {
		lo, hi := f.AgeMonths[0], f.AgeMonths[0]
		for _, m := range f.AgeMonths[1:] {
			if m < lo {
				lo = m
			}
			if m > hi {
				hi = m
			}
		}
		// Separate aliases from the amenity-id filter: the overlap
		// condition differs, and GROUP BY absorbs the join fan-out.
		ps = append(ps, predicate{
			class: joinPredicate,
			join: "INNER JOIN accommodation_amenities aa2 ON aa2.accommodation_id = a.id\n" +
				"INNER JOIN amenities am ON am.id = aa2.amenity_id",
			exprs: []string{
				"(am.age_month_from IS NULL OR am.age_month_from <= ?)",
				"(am.age_month_to IS NULL OR am.age_month_to >= ?)",
				"aa2.is_available = TRUE",
			},
			args: []any{hi, lo},
		})
	}

	if f.MinPrice != nil {
		ps = append(ps, predicate{
			class: havingPredicate,
			exprs: []string{"MIN(rt.price_per_night) >= ?"},
			args:  []any{*f.MinPrice},
		})
	}
	if f.MaxPrice != nil {
		ps = append(ps, predicate{
			class: havingPredicate,
			exprs: []string{"MIN(rt.price_per_night) <= ?"},
			args:  []any{*f.MaxPrice},
		})
	}
	if f.MinRating != nil {
		ps = append(ps, predicate{
			class: havingPredicate,
			exprs: []string{"COALESCE(AVG(r.rating), 0) >= ?"},
			args:  []any{*f.MinRating},
		})
	}

	return ps
}

// grouped renders the statement up to and including HAVING, shared by
// the count and page queries.
func (p Plan) grouped() (string, []any) {
	var b strings.Builder
	b.WriteString(selectBase)
	for _, j := range p.joins {
		b.WriteString("\n")
		b.WriteString(j)
	}
	if len(p.where) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(p.where, " AND "))
	}
	b.WriteString("\nGROUP BY a.id")
	if len(p.having) > 0 {
		b.WriteString("\nHAVING ")
		b.WriteString(strings.Join(p.having, " AND "))
	}
	args := make([]any, 0, len(p.whereArgs)+len(p.havingArgs))
	args = append(args, p.whereArgs...)
	args = append(args, p.havingArgs...)
	return b.String(), args
}

// CountSQL counts all matching groups before pagination.
func (p Plan) CountSQL() (string, []any) {
	inner, args := p.grouped()
	return "SELECT COUNT(*) FROM (\n" + inner + "\n) AS matches", args
}

// PageSQL fetches one sorted page. Sort column and direction come off
// allow-lists; only the limit and offset bind as trailing parameters.
func (p Plan) PageSQL() (string, []any) {
	inner, args := p.grouped()
	dir := "DESC"
	if p.sortOrder == OrderAsc {
		dir = "ASC"
	}
	sql := inner + "\nORDER BY " + string(p.sortBy) + " " + dir + "\nLIMIT ? OFFSET ?"
	args = append(args, p.limit, p.offset)
	return sql, args
}

// Limit reports the page size the plan was built with.
func (p Plan) Limit() int { return p.limit }

// TotalPages derives the page count for a given total of matching groups.
func (p Plan) TotalPages(total int) int {
	return (total + p.limit - 1) / p.limit
}
