package conversation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stocksense/procurebot/fieldedit"
	"github.com/stocksense/procurebot/pagination"
)

func mainMenuKeyboard() *Keyboard {
	return keyboard(BtnStock, BtnForecast, BtnTrack)
}

func adminMenuKeyboard() *Keyboard {
	return keyboard(BtnUploadStock, BtnUploadTurnover)
}

func periodKeyboard() *Keyboard {
	return keyboardRows([]int{3}, BtnMonth, BtnQuarter, BtnYear)
}

// mainMenu re-renders the action menu and moves the session back to it.
func (m *Machine) mainMenu(s *Session) []Action {
	s.ResetBranch()
	s.State = StateChoosingAction
	return []Action{clearButtons(), sendText(m.copy.MenuPrompt, mainMenuKeyboard())}
}

// productChoiceText lists the current window of a selection list with
// absolute 1-based numbering.
func productChoiceText(header string, page pagination.Page) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for i, item := range page.Items {
		fmt.Fprintf(&b, "%d. %s\n", page.StartIndex+i+1, item)
	}
	return strings.TrimRight(b.String(), "\n")
}

// productChoiceKeyboard numbers the visible window and appends the
// navigation buttons the page position calls for.
func productChoiceKeyboard(page pagination.Page) *Keyboard {
	buttons := make([]string, 0, page.StartIndex+len(page.Items)+3)
	for i := range page.Items {
		buttons = append(buttons, strconv.Itoa(page.StartIndex+i+1))
	}
	rows := []int{len(page.Items)}

	nav := navButtons(page)
	if len(nav) > 0 {
		buttons = append(buttons, nav...)
		rows = append(rows, len(nav))
	}
	return keyboardRows(rows, buttons...)
}

// navButtons composes the back/indicator/forward row: back shown only past
// the first page, forward only before the last, the indicator always.
func navButtons(page pagination.Page) []string {
	if page.TotalPages <= 1 {
		return nil
	}
	nav := make([]string, 0, 3)
	if page.HasPrev {
		nav = append(nav, BtnPrev)
	}
	nav = append(nav, page.Indicator)
	if page.HasNext {
		nav = append(nav, BtnNext)
	}
	return nav
}

// renderChoice builds the full selection prompt for the list's current page.
func (m *Machine) renderChoice(header string, list *pagination.List) Action {
	page := list.Render()
	return sendText(productChoiceText(header, page), productChoiceKeyboard(page))
}

// trackMenu renders the tracked-products menu over the session's track list,
// selecting the empty variant when nothing is tracked.
func (m *Machine) trackMenu(s *Session) Action {
	s.State = StateTrackMenu
	text, kb := m.trackMenuView(s)
	return sendText(text, kb)
}

func (m *Machine) trackMenuView(s *Session) (string, *Keyboard) {
	page := s.Ctx.TrackList.Render()
	if page.Empty {
		return m.copy.TrackEmpty, keyboard(BtnTrackAdd, BtnBack)
	}

	buttons := []string{BtnTrackAdd, BtnTrackDelete}
	rows := []int{1, 1}
	if nav := navButtons(page); len(nav) > 0 {
		buttons = append(buttons, nav...)
		rows = append(rows, len(nav))
	}
	buttons = append(buttons, BtnBack)
	rows = append(rows, 1)

	return productChoiceText(m.copy.TrackHeader, page), keyboardRows(rows, buttons...)
}

// fieldPrompt renders the field editor's current step.
func (m *Machine) fieldPrompt(view fieldedit.View) (string, *Keyboard) {
	var text string
	if view.Filled {
		text = fmt.Sprintf(m.copy.FieldFilled, view.Label, view.Value)
	} else {
		text = fmt.Sprintf(m.copy.FieldEmpty, view.Label)
	}

	buttons := []string{BtnFinishEditing}
	rows := []int{1}
	nav := make([]string, 0, 3)
	if view.HasPrev {
		nav = append(nav, BtnPrev)
	}
	nav = append(nav, view.Indicator)
	if view.HasNext {
		nav = append(nav, BtnNext)
	}
	buttons = append(buttons, nav...)
	rows = append(rows, len(nav))

	return text, keyboardRows(rows, buttons...)
}

// navigateList handles the shared paging buttons for a selection list.
// Back/forward replace the previous prompt with the adjacent window; pressing
// the position indicator reports the position without moving.
func (m *Machine) navigateList(list *pagination.List, ev Event, header string) (Action, bool) {
	page := list.Render()
	switch ev.Value() {
	case BtnPrev:
		list.Prev()
		next := list.Render()
		return editPrevious(productChoiceText(header, next), productChoiceKeyboard(next)), true
	case BtnNext:
		list.Next()
		next := list.Render()
		return editPrevious(productChoiceText(header, next), productChoiceKeyboard(next)), true
	case page.Indicator:
		return sendText(fmt.Sprintf(m.copy.PagePosition, page.Cursor, page.TotalPages), nil), true
	}
	return Action{}, false
}

// selectionIndex parses a numbered-button press against a list, returning
// the zero-based absolute index.
func selectionIndex(value string, list *pagination.List) (int, bool) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	index := n - 1
	if index < 0 || index >= len(list.Items) {
		return 0, false
	}
	return index, true
}
