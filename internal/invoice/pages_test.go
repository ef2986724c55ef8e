package invoice

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func makeItems(n int) []LineItem {
	items := make([]LineItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, LineItem{
			ID:       fmt.Sprintf("item-%02d", i+1),
			Name:     fmt.Sprintf("Tile %d", i+1),
			Price:    decimal.NewFromInt(int64(100 + i)),
			Quantity: 1,
			HSNCode:  "6907",
		})
	}
	return items
}

func pageSizes(p PagePlan) []int {
	sizes := []int{len(p.FirstPage)}
	for _, page := range p.OtherPages {
		sizes = append(sizes, len(page))
	}
	return sizes
}

func TestPlanPagesBoundaries(t *testing.T) {
	cases := []struct {
		items int
		want  []int
	}{
		{items: 0, want: []int{0}},
		{items: 1, want: []int{1}},
		{items: 7, want: []int{7}},
		{items: 8, want: []int{7, 1}},
		{items: 20, want: []int{7, 13}},
		{items: 21, want: []int{7, 14, 0}},
		{items: 22, want: []int{7, 14, 1}},
		{items: 35, want: []int{7, 14, 14, 0}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d items", tc.items), func(t *testing.T) {
			plan := PlanPages(makeItems(tc.items))
			require.Equal(t, tc.want, pageSizes(plan))
			require.Equal(t, len(tc.want), plan.PageCount())
			require.True(t, plan.IsLast(len(tc.want)))
		})
	}
}

func TestPlanPagesEmptyYieldsSingleLastPage(t *testing.T) {
	plan := PlanPages(nil)
	require.NotNil(t, plan.FirstPage)
	require.Empty(t, plan.FirstPage)
	require.Empty(t, plan.OtherPages)
	require.True(t, plan.IsLast(1))
}

func TestPlanPagesPreservesOrderWithoutAliasing(t *testing.T) {
	items := makeItems(10)
	plan := PlanPages(items)

	var flat []LineItem
	flat = append(flat, plan.FirstPage...)
	for _, page := range plan.OtherPages {
		flat = append(flat, page...)
	}
	require.Equal(t, items, flat)

	plan.FirstPage[0].Name = "changed"
	require.Equal(t, "Tile 1", items[0].Name)
}

func TestPlannerCustomCapacity(t *testing.T) {
	plan := Planner{FirstPageCapacity: 2, PageCapacity: 3}.Plan(makeItems(6))
	require.Equal(t, []int{2, 3, 1}, pageSizes(plan))

	plan = Planner{}.Plan(makeItems(8))
	require.Equal(t, []int{7, 1}, pageSizes(plan))
}

func TestStartSerial(t *testing.T) {
	require.Equal(t, 1, DefaultPlanner.StartSerial(1))
	require.Equal(t, 8, DefaultPlanner.StartSerial(2))
	require.Equal(t, 22, DefaultPlanner.StartSerial(3))
}
