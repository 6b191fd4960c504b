package conversation

import (
	"context"
	"fmt"

	"github.com/stocksense/procurebot/pagination"
)

// handleTrackMenu drives the tracked-products overview: add, delete and the
// paging controls over the tracked list.
func (m *Machine) handleTrackMenu(_ context.Context, s *Session, ev Event) ([]Action, error) {
	page := s.Ctx.TrackList.Render()

	switch ev.Value() {
	case BtnBack:
		return m.mainMenu(s), nil

	case BtnTrackAdd:
		s.State = StateTrackAdding
		return []Action{clearButtons(), sendText(m.copy.TrackAddPrompt, keyboard(BtnBack))}, nil

	case BtnTrackDelete:
		if page.Empty {
			return []Action{m.trackMenu(s)}, nil
		}
		s.State = StateTrackDeleting
		s.Ctx.TrackList.Cursor = 1
		text, kb := m.trackDeleteView(s)
		return []Action{clearButtons(), sendText(text, kb)}, nil

	case BtnPrev:
		s.Ctx.TrackList.Prev()
		text, kb := m.trackMenuView(s)
		return []Action{editPrevious(text, kb)}, nil

	case BtnNext:
		s.Ctx.TrackList.Next()
		text, kb := m.trackMenuView(s)
		return []Action{editPrevious(text, kb)}, nil

	case page.Indicator:
		return []Action{sendText(fmt.Sprintf(m.copy.PagePosition, page.Cursor, page.TotalPages), nil)}, nil
	}

	return []Action{sendText(m.copy.Misunderstood, nil), m.trackMenu(s)}, nil
}

// handleTrackAdding waits for the name of a product to start monitoring.
func (m *Machine) handleTrackAdding(ctx context.Context, s *Session, ev Event) ([]Action, error) {
	if ev.Value() == BtnBack {
		return []Action{clearButtons(), m.trackMenu(s)}, nil
	}
	if ev.Kind != EventText || ev.Text == "" {
		return []Action{sendText(m.copy.TrackAddPrompt, keyboard(BtnBack))}, nil
	}

	matches, err := m.backend.SearchProducts(ctx, ev.Text)
	if err != nil {
		return nil, fmt.Errorf("[Machine.handleTrackAdding] search: %w", err)
	}

	switch {
	case len(matches) == 1:
		confirm := []Action{sendText(fmt.Sprintf(m.copy.SingleMatch, matches[0]), nil)}
		actions, err := m.addTracked(ctx, s, matches[0])
		if err != nil {
			return nil, err
		}
		return append(confirm, actions...), nil

	case len(matches) > 1:
		s.Ctx.Products = pagination.NewList(matches)
		s.State = StateTrackChoosingAdd
		return []Action{m.renderChoice(m.copy.ChooseProduct, s.Ctx.Products)}, nil

	default:
		return []Action{sendText(m.copy.ProductNotFound, keyboard(BtnBack))}, nil
	}
}

// handleTrackChoosingAdd resolves the numbered selection of the product to
// start monitoring.
func (m *Machine) handleTrackChoosingAdd(ctx context.Context, s *Session, ev Event) ([]Action, error) {
	if ev.Value() == BtnBack {
		s.Ctx.Products = nil
		return []Action{clearButtons(), m.trackMenu(s)}, nil
	}
	if action, ok := m.navigateList(s.Ctx.Products, ev, m.copy.ChooseProduct); ok {
		return []Action{action}, nil
	}

	index, ok := selectionIndex(ev.Value(), s.Ctx.Products)
	if !ok {
		return []Action{m.renderChoice(m.copy.InvalidChoice+"\n\n"+m.copy.ChooseProduct, s.Ctx.Products)}, nil
	}
	product, err := s.Ctx.Products.Item(index)
	if err != nil {
		return []Action{m.renderChoice(m.copy.InvalidChoice+"\n\n"+m.copy.ChooseProduct, s.Ctx.Products)}, nil
	}

	actions, err := m.addTracked(ctx, s, product)
	if err != nil {
		return nil, err
	}
	return append([]Action{clearButtons()}, actions...), nil
}

// addTracked registers a product for monitoring and returns to the tracked
// menu with the list updated.
func (m *Machine) addTracked(ctx context.Context, s *Session, product string) ([]Action, error) {
	added, err := m.backend.AddTrackedItem(ctx, s.UserID, product)
	if err != nil {
		return nil, fmt.Errorf("[Machine.addTracked] %w", err)
	}

	s.Ctx.Products = nil
	note := m.copy.TrackAdded
	if added {
		s.Ctx.TrackList.Add(product)
	} else {
		note = m.copy.TrackExists
	}
	return []Action{sendText(note, nil), m.trackMenu(s)}, nil
}

// handleTrackDeleting resolves the numbered selection of the tracked product
// to stop monitoring.
func (m *Machine) handleTrackDeleting(ctx context.Context, s *Session, ev Event) ([]Action, error) {
	page := s.Ctx.TrackList.Render()

	switch ev.Value() {
	case BtnBack:
		return []Action{clearButtons(), m.trackMenu(s)}, nil

	case BtnPrev:
		s.Ctx.TrackList.Prev()
		text, kb := m.trackDeleteView(s)
		return []Action{editPrevious(text, kb)}, nil

	case BtnNext:
		s.Ctx.TrackList.Next()
		text, kb := m.trackDeleteView(s)
		return []Action{editPrevious(text, kb)}, nil

	case page.Indicator:
		return []Action{sendText(fmt.Sprintf(m.copy.PagePosition, page.Cursor, page.TotalPages), nil)}, nil
	}

	index, ok := selectionIndex(ev.Value(), s.Ctx.TrackList)
	if !ok {
		text, kb := m.trackDeleteView(s)
		return []Action{sendText(m.copy.InvalidChoice, nil), sendText(text, kb)}, nil
	}
	product, err := s.Ctx.TrackList.Item(index)
	if err != nil {
		text, kb := m.trackDeleteView(s)
		return []Action{sendText(m.copy.InvalidChoice, nil), sendText(text, kb)}, nil
	}

	if _, err := m.backend.RemoveTrackedItem(ctx, s.UserID, product); err != nil {
		return nil, fmt.Errorf("[Machine.handleTrackDeleting] %w", err)
	}
	if err := s.Ctx.TrackList.Remove(index); err != nil {
		return nil, fmt.Errorf("[Machine.handleTrackDeleting] %w", err)
	}
	return []Action{clearButtons(), sendText(m.copy.TrackRemoved, nil), m.trackMenu(s)}, nil
}

// trackDeleteView renders the numbered deletion prompt over the track list.
func (m *Machine) trackDeleteView(s *Session) (string, *Keyboard) {
	page := s.Ctx.TrackList.Render()
	kb := productChoiceKeyboard(page)
	kb.Buttons = append(kb.Buttons, BtnBack)
	kb.Rows = append(kb.Rows, 1)
	return productChoiceText(m.copy.TrackDeletePrompt, page), kb
}
