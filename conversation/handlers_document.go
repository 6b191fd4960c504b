package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stocksense/procurebot/fieldedit"
)

// Planning horizon anchor for assembled purchase requests. The delivery
// window starts here and runs for the chosen forecast period.
var draftPeriodStart = time.Date(2022, time.January, 8, 0, 0, 0, 0, time.UTC)

const draftDateLayout = "02.01.2006"

// handleOfferDocument reacts to the purchase offer shown under a forecast.
func (m *Machine) handleOfferDocument(ctx context.Context, s *Session, ev Event) ([]Action, error) {
	switch ev.Value() {
	case BtnMakePurchase:
		return m.assembleDraft(ctx, s)
	case BtnBack:
		return m.mainMenu(s), nil
	}
	return []Action{sendText(m.copy.MenuPrompt, keyboard(BtnMakePurchase, BtnBack))}, nil
}

// assembleDraft asks the backend for a purchase request draft covering the
// forecast period and presents it as a downloadable file.
func (m *Machine) assembleDraft(ctx context.Context, s *Session) ([]Action, error) {
	startDate := draftPeriodStart.Format(draftDateLayout)
	endDate := draftPeriodStart.AddDate(0, s.Ctx.PeriodMonths, 0).Format(draftDateLayout)

	draft, warning, err := m.backend.AssembleDocument(ctx, s.Ctx.ChosenProduct, s.UserID, s.Ctx.SuggestedQty, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("[Machine.assembleDraft] %w", err)
	}
	draft.Normalize()

	s.Ctx.Draft = draft
	s.Ctx.DraftWarning = warning
	s.State = StateReviewDocument

	actions := []Action{clearButtons()}
	fileAction, err := m.draftFileAction(s)
	if err != nil {
		return nil, err
	}
	actions = append(actions, fileAction)
	if warning {
		actions = append(actions, sendText(m.copy.DocumentWarning, nil))
	}
	return actions, nil
}

// draftFileAction serializes the draft into a staged temp file and wraps it
// in a send-document action with the review buttons attached.
func (m *Machine) draftFileAction(s *Session) (Action, error) {
	data, err := json.MarshalIndent(s.Ctx.Draft, "", "    ")
	if err != nil {
		return Action{}, fmt.Errorf("[Machine.draftFileAction] marshal draft: %w", err)
	}

	if err := os.MkdirAll(m.tempDir, 0o755); err != nil {
		return Action{}, fmt.Errorf("[Machine.draftFileAction] temp dir: %w", err)
	}
	path := filepath.Join(m.tempDir, fmt.Sprintf("%d.json", m.nowTime().UnixNano()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Action{}, fmt.Errorf("[Machine.draftFileAction] stage draft: %w", err)
	}

	filename := fmt.Sprintf("Закупка%s.json", s.Ctx.Draft.ID)
	return sendDocument(path, filename, m.copy.DocumentCaption, keyboard(BtnEditFields, BtnBack)), nil
}

// handleReviewDocument reacts to the buttons attached to the draft file.
func (m *Machine) handleReviewDocument(_ context.Context, s *Session, ev Event) ([]Action, error) {
	switch ev.Value() {
	case BtnEditFields:
		s.Ctx.EditIndex = 0
		s.State = StateEditingFields
		view, err := fieldedit.Render(s.Ctx.Draft, s.Ctx.EditIndex)
		if err != nil {
			return nil, fmt.Errorf("[Machine.handleReviewDocument] %w", err)
		}
		text, kb := m.fieldPrompt(view)
		return []Action{clearButtons(), sendText(text, kb)}, nil

	case BtnBack:
		return m.mainMenu(s), nil
	}
	return []Action{sendText(m.copy.MenuPrompt, keyboard(BtnEditFields, BtnBack))}, nil
}

// handleEditingFields drives the sequential field walk over the draft.
// Navigation replaces the previous prompt in place; a text message replaces
// the current field's value and moves the prompt forward.
func (m *Machine) handleEditingFields(_ context.Context, s *Session, ev Event) ([]Action, error) {
	view, err := fieldedit.Render(s.Ctx.Draft, s.Ctx.EditIndex)
	if err != nil {
		return nil, fmt.Errorf("[Machine.handleEditingFields] %w", err)
	}

	switch ev.Value() {
	case BtnFinishEditing:
		s.State = StateReviewDocument
		fileAction, err := m.draftFileAction(s)
		if err != nil {
			return nil, err
		}
		return []Action{editPrevious(m.copy.EditFinished, nil), fileAction}, nil

	case view.Indicator:
		return []Action{sendText(fmt.Sprintf(m.copy.FieldPosition, view.Index+1, view.Total), nil)}, nil

	case BtnPrev:
		s.Ctx.EditIndex = fieldedit.Prev(s.Ctx.EditIndex)
	case BtnNext:
		s.Ctx.EditIndex = fieldedit.Next(s.Ctx.EditIndex)

	default:
		if ev.Kind != EventText || ev.Text == "" {
			text, kb := m.fieldPrompt(view)
			return []Action{sendText(text, kb)}, nil
		}
		if err := fieldedit.Set(s.Ctx.Draft, s.Ctx.EditIndex, ev.Text); err != nil {
			return nil, fmt.Errorf("[Machine.handleEditingFields] %w", err)
		}
		next, err := fieldedit.Render(s.Ctx.Draft, s.Ctx.EditIndex)
		if err != nil {
			return nil, fmt.Errorf("[Machine.handleEditingFields] %w", err)
		}
		text, kb := m.fieldPrompt(next)
		return []Action{editPrevious(m.copy.FieldUpdated, nil), sendText(text, kb)}, nil
	}

	moved, err := fieldedit.Render(s.Ctx.Draft, s.Ctx.EditIndex)
	if err != nil {
		return nil, fmt.Errorf("[Machine.handleEditingFields] %w", err)
	}
	text, kb := m.fieldPrompt(moved)
	return []Action{editPrevious(text, kb)}, nil
}
