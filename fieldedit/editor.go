// Package fieldedit implements a sequential walk over the fixed, ordered
// field set of a draft document. The walk allows in-place value replacement
// and forward/back navigation; finishing hands the document back to the
// caller, which owns persistence and export.
package fieldedit

import (
	"fmt"

	"github.com/stocksense/procurebot/document"
)

// View is one rendered editing step.
type View struct {
	Label string
	Value string
	// Filled reports whether the field currently has a value; the prompt copy
	// differs for empty fields.
	Filled bool
	Index  int
	Total  int
	// HasPrev is false at the first field, HasNext false at the last.
	HasPrev bool
	HasNext bool
	// Indicator is the position button label ("3/14"); pressing it reports
	// the position without moving.
	Indicator string
}

// Render produces the editing view for the field at the given index.
func Render(d *document.Draft, index int) (View, error) {
	total := document.FieldCount()
	if index < 0 || index >= total {
		return View{}, fmt.Errorf("[fieldedit.Render] index %d out of range", index)
	}

	label, err := document.FieldLabel(index)
	if err != nil {
		return View{}, err
	}
	value, err := document.FieldValue(d, index)
	if err != nil {
		return View{}, err
	}

	return View{
		Label:     label,
		Value:     value.String(),
		Filled:    value != "",
		Index:     index,
		Total:     total,
		HasPrev:   index > 0,
		HasNext:   index < total-1,
		Indicator: fmt.Sprintf("%d/%d", index+1, total),
	}, nil
}

// Set replaces the value of the field at the given index. The replacement is
// pure: no validation happens here.
func Set(d *document.Draft, index int, value string) error {
	if err := document.SetFieldValue(d, index, value); err != nil {
		return fmt.Errorf("[fieldedit.Set] %w", err)
	}
	return nil
}

// Next returns the index one step forward, saturating at the last field.
func Next(index int) int {
	if index < document.FieldCount()-1 {
		return index + 1
	}
	return index
}

// Prev returns the index one step back, saturating at the first field.
func Prev(index int) int {
	if index > 0 {
		return index - 1
	}
	return index
}
