package conversation

import (
	"context"
	"fmt"

	"github.com/stocksense/procurebot/pagination"
)

// handleStockItemPrompt waits for a product name to look stock up for.
func (m *Machine) handleStockItemPrompt(ctx context.Context, s *Session, ev Event) ([]Action, error) {
	if ev.Value() == BtnBack {
		return m.mainMenu(s), nil
	}
	if ev.Kind != EventText || ev.Text == "" {
		return []Action{sendText(m.copy.StockItemPrompt, keyboard(BtnBack))}, nil
	}
	return m.searchAndShowStock(ctx, s, ev.Text)
}

// searchAndShowStock runs the product search and branches on the match
// count: exactly one match skips selection and shows the snapshot, several
// matches enter the paged selection list, none re-prompts.
func (m *Machine) searchAndShowStock(ctx context.Context, s *Session, query string) ([]Action, error) {
	matches, err := m.backend.SearchProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("[Machine.searchAndShowStock] search: %w", err)
	}

	switch {
	case len(matches) == 1:
		actions := []Action{sendText(fmt.Sprintf(m.copy.SingleMatch, matches[0]), nil)}
		snapshotActions, err := m.showSnapshot(ctx, s, matches[0])
		if err != nil {
			return nil, err
		}
		return append(actions, snapshotActions...), nil

	case len(matches) > 1:
		s.Ctx.Products = pagination.NewList(matches)
		s.State = StateStockChoosingProduct
		return []Action{m.renderChoice(m.copy.ChooseProduct, s.Ctx.Products)}, nil

	default:
		s.State = StateStockItemPrompt
		return []Action{sendText(m.copy.ProductNotFound, keyboard(BtnBack))}, nil
	}
}

// handleStockChoosingProduct resolves a numbered selection or pages through
// the match list.
func (m *Machine) handleStockChoosingProduct(ctx context.Context, s *Session, ev Event) ([]Action, error) {
	if ev.Value() == BtnBack {
		return m.mainMenu(s), nil
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

	actions := []Action{clearButtons(), sendText(fmt.Sprintf(m.copy.ChosenProduct, product), nil)}
	snapshotActions, err := m.showSnapshot(ctx, s, product)
	if err != nil {
		return nil, err
	}
	return append(actions, snapshotActions...), nil
}

// showSnapshot fetches and presents the stock snapshot, then offers the
// forecast follow-up.
func (m *Machine) showSnapshot(ctx context.Context, s *Session, product string) ([]Action, error) {
	snapshot, err := m.backend.StockSnapshot(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("[Machine.showSnapshot] %w", err)
	}

	s.Ctx.ChosenProduct = product
	s.Ctx.Products = nil
	s.State = StateOfferForecast

	actions := make([]Action, 0, 2)
	if snapshot.ImagePath != "" {
		actions = append(actions, sendImage(snapshot.ImagePath, ""))
	}
	actions = append(actions, sendText(snapshot.Message, keyboard(BtnForecast, BtnBack)))
	return actions, nil
}

// handleOfferForecast reacts to the forecast offer shown under a snapshot.
func (m *Machine) handleOfferForecast(_ context.Context, s *Session, ev Event) ([]Action, error) {
	switch ev.Value() {
	case BtnForecast:
		s.State = StateChoosingPeriod
		return []Action{clearButtons(), sendText(m.copy.PeriodPrompt, periodKeyboard())}, nil
	case BtnBack:
		return m.mainMenu(s), nil
	}
	return []Action{sendText(m.copy.MenuPrompt, keyboard(BtnForecast, BtnBack))}, nil
}
