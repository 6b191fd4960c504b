package conversation

import (
	"context"
	"fmt"

	"github.com/stocksense/procurebot/backend"
	"github.com/stocksense/procurebot/pagination"
)

// handleChoosingAction is the main menu. Button presses pick a branch
// directly; free text goes through the intent classifier, and both paths
// converge on the same normalized triple before transitioning.
func (m *Machine) handleChoosingAction(ctx context.Context, s *Session, ev Event) ([]Action, error) {
	switch ev.Value() {
	case BtnStock:
		s.ResetBranch()
		s.State = StateStockItemPrompt
		return []Action{clearButtons(), sendText(m.copy.StockItemPrompt, keyboard(BtnBack))}, nil

	case BtnForecast:
		s.ResetBranch()
		s.State = StateForecastItemPrompt
		return []Action{clearButtons(), sendText(m.copy.ForecastItemPrompt, keyboard(BtnBack))}, nil

	case BtnTrack:
		tracked, err := m.backend.ListTrackedItems(ctx, s.UserID)
		if err != nil {
			return nil, fmt.Errorf("[Machine.handleChoosingAction] list tracked: %w", err)
		}
		s.ResetBranch()
		s.Ctx.TrackList = pagination.NewList(tracked)
		return []Action{clearButtons(), m.trackMenu(s)}, nil
	}

	if ev.Kind != EventText || ev.Text == "" {
		return m.misunderstood(s), nil
	}

	intent, err := m.backend.ClassifyIntent(ctx, ev.Text)
	if err != nil {
		return nil, fmt.Errorf("[Machine.handleChoosingAction] classify intent: %w", err)
	}
	return m.applyIntent(ctx, s, intent)
}

// applyIntent is the shared transition for both menu entry paths: by the
// time it runs, a button press and a classified free-text message look the
// same.
func (m *Machine) applyIntent(ctx context.Context, s *Session, intent *backend.Intent) ([]Action, error) {
	switch intent.Kind {
	case backend.IntentStock:
		if intent.Product == "" && intent.PeriodDays == 0 {
			s.ResetBranch()
			s.State = StateStockItemPrompt
			return []Action{clearButtons(), sendText(m.copy.StockItemPrompt, keyboard(BtnBack))}, nil
		}
		if intent.Product != "" && intent.PeriodDays == 0 {
			s.ResetBranch()
			return m.searchAndShowStock(ctx, s, intent.Product)
		}
		return m.misunderstood(s), nil

	case backend.IntentForecast:
		if intent.Product == "" && intent.PeriodDays == 0 {
			s.ResetBranch()
			s.State = StateForecastItemPrompt
			return []Action{clearButtons(), sendText(m.copy.ForecastItemPrompt, keyboard(BtnBack))}, nil
		}
		if intent.Product != "" && intent.PeriodDays > 0 {
			s.ResetBranch()
			return m.searchAndStartForecast(ctx, s, intent.Product, monthsFromDays(intent.PeriodDays))
		}
		return m.misunderstood(s), nil
	}

	return m.misunderstood(s), nil
}

func (m *Machine) misunderstood(s *Session) []Action {
	s.State = StateChoosingAction
	return []Action{sendText(m.copy.Misunderstood, mainMenuKeyboard())}
}

// monthsFromDays converts an extracted period in days to whole forecast
// months, rounding up.
func monthsFromDays(days int) int {
	months := (days + 29) / 30
	if months < 1 {
		months = 1
	}
	return months
}
