package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/stocksense/procurebot/pagination"
)

// handleForecastItemPrompt waits for the product name to forecast demand for.
func (m *Machine) handleForecastItemPrompt(ctx context.Context, s *Session, ev Event) ([]Action, error) {
	if ev.Value() == BtnBack {
		return m.mainMenu(s), nil
	}
	if ev.Kind != EventText || ev.Text == "" {
		return []Action{sendText(m.copy.ForecastItemPrompt, keyboard(BtnBack))}, nil
	}
	return m.searchForForecast(ctx, s, ev.Text)
}

// searchAndStartForecast enters the forecast branch with the period already
// extracted, so a confirmed product selection runs the forecast without the
// period question.
func (m *Machine) searchAndStartForecast(ctx context.Context, s *Session, product string, months int) ([]Action, error) {
	s.Ctx.PeriodMonths = months
	return m.searchForForecast(ctx, s, product)
}

// searchForForecast mirrors the stock branch's match handling for the
// forecast branch.
func (m *Machine) searchForForecast(ctx context.Context, s *Session, query string) ([]Action, error) {
	matches, err := m.backend.SearchProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("[Machine.searchForForecast] search: %w", err)
	}

	switch {
	case len(matches) == 1:
		actions := []Action{sendText(fmt.Sprintf(m.copy.SingleMatch, matches[0]), nil)}
		followUp, err := m.forecastProductChosen(ctx, s, matches[0])
		if err != nil {
			return nil, err
		}
		return append(actions, followUp...), nil

	case len(matches) > 1:
		s.Ctx.Products = pagination.NewList(matches)
		s.State = StateForecastChoosingProduct
		return []Action{m.renderChoice(m.copy.ChooseProduct, s.Ctx.Products)}, nil

	default:
		s.State = StateForecastItemPrompt
		return []Action{sendText(m.copy.ProductNotFound, keyboard(BtnBack))}, nil
	}
}

// handleForecastChoosingProduct resolves the numbered selection in the
// forecast branch.
func (m *Machine) handleForecastChoosingProduct(ctx context.Context, s *Session, ev Event) ([]Action, error) {
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
	followUp, err := m.forecastProductChosen(ctx, s, product)
	if err != nil {
		return nil, err
	}
	return append(actions, followUp...), nil
}

// forecastProductChosen fixes the product slot and either asks for the
// period or, when the period already arrived with the intent, runs the
// forecast right away.
func (m *Machine) forecastProductChosen(ctx context.Context, s *Session, product string) ([]Action, error) {
	s.Ctx.ChosenProduct = product
	s.Ctx.Products = nil

	if s.Ctx.PeriodMonths > 0 {
		return m.runForecast(ctx, s)
	}
	s.State = StateChoosingPeriod
	return []Action{sendText(m.copy.PeriodPrompt, periodKeyboard())}, nil
}

// handleChoosingPeriod maps the period answer to whole months. Unrecognized
// answers re-prompt with the same three options.
func (m *Machine) handleChoosingPeriod(ctx context.Context, s *Session, ev Event) ([]Action, error) {
	if ev.Value() == BtnBack {
		return m.mainMenu(s), nil
	}

	var months int
	switch strings.ToLower(strings.TrimSpace(ev.Value())) {
	case strings.ToLower(BtnMonth):
		months = 1
	case strings.ToLower(BtnQuarter):
		months = 3
	case strings.ToLower(BtnYear):
		months = 12
	default:
		return []Action{sendText(m.copy.PeriodInvalid, periodKeyboard())}, nil
	}

	s.Ctx.PeriodMonths = months
	actions := []Action{clearButtons(), sendText(fmt.Sprintf(m.copy.PeriodChosen, ev.Value()), nil)}
	followUp, err := m.runForecast(ctx, s)
	if err != nil {
		return nil, err
	}
	return append(actions, followUp...), nil
}

// runForecast fetches the demand forecast for the chosen product and period
// and presents the consumption statistics, the projection and the verdict.
// A verdict that names a purchase quantity offers procurement assembly; a
// stock level already covering the period closes the branch.
func (m *Machine) runForecast(ctx context.Context, s *Session) ([]Action, error) {
	forecast, err := m.backend.Forecast(ctx, s.Ctx.ChosenProduct, s.Ctx.PeriodMonths)
	if err != nil {
		return nil, fmt.Errorf("[Machine.runForecast] %w", err)
	}

	actions := make([]Action, 0, 3)
	if forecast.ConsumptionImagePath != "" {
		actions = append(actions, sendImage(forecast.ConsumptionImagePath, m.copy.ConsumptionCaption))
	}
	if forecast.ForecastImagePath != "" {
		actions = append(actions, sendImage(forecast.ForecastImagePath, m.copy.ForecastCaption))
	}

	s.Ctx.SuggestedQty = suggestedQuantity(forecast.Message, m.copy.SufficientStock)
	if s.Ctx.SuggestedQty == 0 {
		actions = append(actions, sendText(forecast.Message, nil))
		return append(actions, m.mainMenu(s)...), nil
	}

	s.State = StateOfferDocument
	actions = append(actions, sendText(forecast.Message, keyboard(BtnMakePurchase, BtnBack)))
	return actions, nil
}

// suggestedQuantity extracts the purchase quantity named in the forecast
// verdict. The sufficient-stock verdict and a verdict without a number both
// yield zero.
func suggestedQuantity(message, sufficientStock string) int {
	if message == sufficientStock {
		return 0
	}
	for _, field := range strings.Fields(message) {
		if n, err := strconv.Atoi(field); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
