package pagination_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stocksense/procurebot/pagination"
)

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item-%d", i+1)
	}
	return out
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count int
		pages int
	}{
		{count: 0, pages: 0},
		{count: 1, pages: 1},
		{count: 5, pages: 1},
		{count: 6, pages: 2},
		{count: 7, pages: 2},
		{count: 10, pages: 2},
		{count: 11, pages: 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d items", tt.count), func(t *testing.T) {
			list := pagination.NewList(items(tt.count))
			require.Equal(t, tt.pages, list.TotalPages())
		})
	}
}

func TestRenderFirstPage(t *testing.T) {
	list := pagination.NewList(items(7))
	page := list.Render()

	require.Equal(t, []string{"item-1", "item-2", "item-3", "item-4", "item-5"}, page.Items)
	require.Equal(t, 0, page.StartIndex)
	require.False(t, page.HasPrev)
	require.True(t, page.HasNext)
	require.Equal(t, "1/2", page.Indicator)
}

func TestRenderLastPartialPage(t *testing.T) {
	list := pagination.NewList(items(7))
	list.Next()
	page := list.Render()

	require.Equal(t, []string{"item-6", "item-7"}, page.Items)
	require.Equal(t, 5, page.StartIndex)
	require.True(t, page.HasPrev)
	require.False(t, page.HasNext)
	require.Equal(t, "2/2", page.Indicator)
}

func TestNavigationSaturates(t *testing.T) {
	list := pagination.NewList(items(7))

	list.Prev()
	require.Equal(t, 1, list.Cursor, "back on the first page stays put")

	list.Next()
	list.Next()
	list.Next()
	require.Equal(t, 2, list.Cursor, "forward on the last page stays put")
}

func TestRenderEmptyList(t *testing.T) {
	list := pagination.NewList(nil)
	page := list.Render()

	require.True(t, page.Empty)
	require.Empty(t, page.Items)
	require.Equal(t, "0/0", page.Indicator)
	require.False(t, page.HasPrev)
	require.False(t, page.HasNext)
}

func TestAddGrowsPageCount(t *testing.T) {
	list := pagination.NewList(items(5))
	require.Equal(t, 1, list.TotalPages())

	list.Add("item-6")
	require.Equal(t, 2, list.TotalPages())
	require.Equal(t, 1, list.Cursor)
}

func TestRemoveSoleItemOnLastPageMovesCursorBack(t *testing.T) {
	list := pagination.NewList(items(6))
	list.Next()
	require.Equal(t, 2, list.Cursor)

	require.NoError(t, list.Remove(5))
	require.Equal(t, 1, list.Cursor)
	page := list.Render()
	require.Len(t, page.Items, 5)
	require.Equal(t, "1/1", page.Indicator)
}

func TestRemoveLastItemKeepsValidCursor(t *testing.T) {
	list := pagination.NewList(items(1))
	require.NoError(t, list.Remove(0))

	require.Equal(t, 1, list.Cursor)
	require.True(t, list.Render().Empty)
}

func TestRemoveOutOfRange(t *testing.T) {
	list := pagination.NewList(items(3))
	require.Error(t, list.Remove(3))
	require.Error(t, list.Remove(-1))
}

func TestItem(t *testing.T) {
	list := pagination.NewList(items(7))

	item, err := list.Item(6)
	require.NoError(t, err)
	require.Equal(t, "item-7", item)

	_, err = list.Item(7)
	require.Error(t, err)
}
