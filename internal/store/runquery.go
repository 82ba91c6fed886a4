package store

import "fmt"

// SortKey is the closed set of columns the run listing may be ordered by.
// Caller-supplied strings are admitted only through ParseSortKey; the enum
// values map to fixed column names below, so no caller string ever reaches
// the ORDER BY clause.
type SortKey string

const (
	SortPlayedAt   SortKey = "played_at"
	SortFinalAnte  SortKey = "final_ante"
	SortFinalScore SortKey = "final_score"
	SortCreatedAt  SortKey = "created_at"
)

var sortKeyColumn = map[SortKey]string{
	SortPlayedAt:   "r.played_at",
	SortFinalAnte:  "r.final_ante",
	SortFinalScore: "r.final_score",
	SortCreatedAt:  "r.created_at",
}

func ParseSortKey(v string) (SortKey, bool) {
	k := SortKey(v)
	_, ok := sortKeyColumn[k]
	return k, ok
}

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

func ParseSortOrder(v string) (SortOrder, bool) {
	switch SortOrder(v) {
	case OrderAsc:
		return OrderAsc, true
	case OrderDesc:
		return OrderDesc, true
	}
	return "", false
}

// RunFilter carries the enumerated filterable fields. Nil/empty means the
// field is not constrained. There is deliberately no free-form predicate.
type RunFilter struct {
	Deck  string
	Stake string
	Won   *bool
}

// RunQuery is a validated listing request.
type RunQuery struct {
	Filter  RunFilter
	Sort    SortKey
	Order   SortOrder
	Page    int
	PerPage int
}

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Valid reports whether the pagination bounds and enums hold. Queries
// built via the Parse helpers and the defaults below always pass.
func (q RunQuery) Valid() bool {
	if _, ok := sortKeyColumn[q.Sort]; !ok {
		return false
	}
	if q.Order != OrderAsc && q.Order != OrderDesc {
		return false
	}
	return q.Page >= 1 && q.PerPage >= 1 && q.PerPage <= MaxPerPage
}

func (q RunQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}

// Pages returns ceil(total/per_page), 0 when total is 0.
func (q RunQuery) Pages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + q.PerPage - 1) / q.PerPage
}

// whereClause builds the parametrized predicate for the enumerated
// filters. Values are always bound as parameters.
func (q RunQuery) whereClause() (string, []any) {
	where := ""
	args := []any{}
	and := func(cond string) {
		if where == "" {
			where = "WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}
	if q.Filter.Deck != "" {
		args = append(args, q.Filter.Deck)
		and(fmt.Sprintf("r.deck = $%d", len(args)))
	}
	if q.Filter.Stake != "" {
		args = append(args, q.Filter.Stake)
		and(fmt.Sprintf("r.stake = $%d", len(args)))
	}
	if q.Filter.Won != nil {
		args = append(args, *q.Filter.Won)
		and(fmt.Sprintf("r.won = $%d", len(args)))
	}
	return where, args
}

func (q RunQuery) orderClause() string {
	dir := "DESC"
	if q.Order == OrderAsc {
		dir = "ASC"
	}
	// NULLS LAST keeps never-finished runs off the top of played_at sorts.
	return fmt.Sprintf("ORDER BY %s %s NULLS LAST", sortKeyColumn[q.Sort], dir)
}

// DefaultRunQuery is the listing request with no filters, newest first.
func DefaultRunQuery() RunQuery {
	return RunQuery{
		Sort:    SortPlayedAt,
		Order:   OrderDesc,
		Page:    1,
		PerPage: DefaultPerPage,
	}
}
