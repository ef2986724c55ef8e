package invoice

import (
	"slices"

	"github.com/samber/lo"
)

const (
	// DefaultFirstPageCapacity is the number of rows that fit below the party blocks.
	DefaultFirstPageCapacity = 7
	// DefaultPageCapacity is the number of rows on each continuation page.
	DefaultPageCapacity = 14
)

// Planner splits an ordered item list into fixed-capacity pages.
type Planner struct {
	FirstPageCapacity int
	PageCapacity      int
}

// DefaultPlanner uses the 7/14 layout of the printed invoice.
var DefaultPlanner = Planner{FirstPageCapacity: DefaultFirstPageCapacity, PageCapacity: DefaultPageCapacity}

// PagePlan is the partition of items into pages. The last page carries the
// grand-total row and the footer clauses.
type PagePlan struct {
	FirstPage  []LineItem   `json:"firstPage"`
	OtherPages [][]LineItem `json:"otherPages"`
}

// PageCount returns the number of pages including the first.
func (p PagePlan) PageCount() int {
	return 1 + len(p.OtherPages)
}

// IsLast reports whether the 1-based page number carries the grand total.
func (p PagePlan) IsLast(pageNumber int) bool {
	return pageNumber == p.PageCount()
}

// Plan keeps the original order and never splits an item. Zero items still yield one
// empty first page. When the final continuation page is filled to capacity an empty
// page is appended so the grand-total row and footer have room; a full first page
// already reserves that room.
func (pl Planner) Plan(items []LineItem) PagePlan {
	first, rest := paginate(items, pl.normalized())
	return PagePlan{FirstPage: first, OtherPages: rest}
}

// PlanPages plans items with DefaultPlanner.
func PlanPages(items []LineItem) PagePlan {
	return DefaultPlanner.Plan(items)
}

func (pl Planner) normalized() Planner {
	if pl.FirstPageCapacity <= 0 {
		pl.FirstPageCapacity = DefaultFirstPageCapacity
	}
	if pl.PageCapacity <= 0 {
		pl.PageCapacity = DefaultPageCapacity
	}
	return pl
}

// StartSerial returns the 1-based serial number of the first row on pageNumber.
func (pl Planner) StartSerial(pageNumber int) int {
	pl = pl.normalized()
	if pageNumber <= 1 {
		return 1
	}
	return 1 + pl.FirstPageCapacity + (pageNumber-2)*pl.PageCapacity
}

func paginate[T any](items []T, pl Planner) ([]T, [][]T) {
	cloned := slices.Clone(items)
	if cloned == nil {
		cloned = []T{}
	}
	cut := min(len(cloned), pl.FirstPageCapacity)
	first := cloned[:cut:cut]
	remaining := cloned[cut:]

	rest := make([][]T, 0)
	if len(remaining) == 0 {
		return first, rest
	}
	rest = append(rest, lo.Chunk(remaining, pl.PageCapacity)...)
	if len(rest[len(rest)-1]) == pl.PageCapacity {
		rest = append(rest, []T{})
	}
	return first, rest
}
