// Package pagination implements a generic windowed presentation over an
// ordered list of item names with forward/back navigation. Page size is fixed
// at construction; every dialog branch that shows a selectable list reuses it.
package pagination

import "fmt"

// DefaultPageSize matches the five-item windows used across the dialog flows.
const DefaultPageSize = 5

// List is an ordered sequence of item names with a 1-based page cursor.
type List struct {
	Items    []string
	Cursor   int
	PageSize int
}

// Page is one rendered window into a List.
type Page struct {
	// Items visible in the current window.
	Items []string
	// StartIndex is the zero-based absolute index of the first visible item.
	StartIndex int
	Cursor     int
	TotalPages int
	// Empty selects the distinct render variant for a list with no items.
	Empty bool
	// HasPrev and HasNext drive the back/forward navigation buttons.
	HasPrev bool
	HasNext bool
	// Indicator is the always-shown page position button label ("2/3").
	// Pressing it is a no-op that reports the position without navigating.
	Indicator string
}

// NewList creates a List positioned on the first page.
func NewList(items []string) *List {
	return &List{Items: items, Cursor: 1, PageSize: DefaultPageSize}
}

// TotalPages returns ceil(len/pageSize).
func (l *List) TotalPages() int {
	if len(l.Items) == 0 {
		return 0
	}
	return (len(l.Items) + l.PageSize - 1) / l.PageSize
}

// Render produces the current window and its navigation affordances.
func (l *List) Render() Page {
	total := l.TotalPages()
	if total == 0 {
		return Page{Empty: true, Cursor: 1, Indicator: "0/0"}
	}

	start := (l.Cursor - 1) * l.PageSize
	end := start + l.PageSize
	if end > len(l.Items) {
		end = len(l.Items)
	}

	return Page{
		Items:      l.Items[start:end],
		StartIndex: start,
		Cursor:     l.Cursor,
		TotalPages: total,
		HasPrev:    l.Cursor > 1,
		HasNext:    l.Cursor < total,
		Indicator:  fmt.Sprintf("%d/%d", l.Cursor, total),
	}
}

// Next advances the cursor one page, saturating at the last page.
func (l *List) Next() {
	if l.Cursor < l.TotalPages() {
		l.Cursor++
	}
}

// Prev moves the cursor one page back, saturating at the first page.
func (l *List) Prev() {
	if l.Cursor > 1 {
		l.Cursor--
	}
}

// Add appends an item and recomputes the page count.
func (l *List) Add(item string) {
	l.Items = append(l.Items, item)
	l.clampCursor()
}

// Remove deletes the item at the given absolute index. Removal that empties
// the active page decrements the cursor rather than leaving it pointing past
// the end.
func (l *List) Remove(index int) error {
	if index < 0 || index >= len(l.Items) {
		return fmt.Errorf("index %d out of range for list of %d items", index, len(l.Items))
	}
	l.Items = append(l.Items[:index], l.Items[index+1:]...)
	l.clampCursor()
	return nil
}

// Item returns the item at the given absolute index.
func (l *List) Item(index int) (string, error) {
	if index < 0 || index >= len(l.Items) {
		return "", fmt.Errorf("index %d out of range for list of %d items", index, len(l.Items))
	}
	return l.Items[index], nil
}

// clampCursor keeps the cursor within [1, TotalPages] with a floor of 1.
func (l *List) clampCursor() {
	total := l.TotalPages()
	if total == 0 {
		l.Cursor = 1
		return
	}
	if l.Cursor > total {
		l.Cursor = total
	}
	if l.Cursor < 1 {
		l.Cursor = 1
	}
}
