package conversation

import (
	"context"

	"github.com/stocksense/procurebot/backend"
)

const xlsxMIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleAdminMenu routes between the two spreadsheet ingestion flows.
func (m *Machine) handleAdminMenu(_ context.Context, s *Session, ev Event) ([]Action, error) {
	switch ev.Value() {
	case BtnUploadStock:
		s.State = StateAdminUploadStock
		return []Action{clearButtons(), sendText(m.copy.UploadStockPrompt, keyboard(BtnBack))}, nil
	case BtnUploadTurnover:
		s.State = StateAdminUploadTurnover
		return []Action{clearButtons(), sendText(m.copy.UploadTurnoverPrompt, keyboard(BtnBack))}, nil
	}
	return []Action{sendText(m.copy.AdminPrompt, adminMenuKeyboard())}, nil
}

func (m *Machine) handleAdminUploadStock(ctx context.Context, s *Session, ev Event) ([]Action, error) {
	return m.handleUpload(ctx, s, ev, backend.UploadStockRemainings, m.copy.UploadStockPrompt)
}

func (m *Machine) handleAdminUploadTurnover(ctx context.Context, s *Session, ev Event) ([]Action, error) {
	return m.handleUpload(ctx, s, ev, backend.UploadAccountTurnovers, m.copy.UploadTurnoverPrompt)
}

// handleUpload accepts one xlsx file for the given ingestion kind. Anything
// but an xlsx attachment re-prompts; a failed ingestion reports the retry
// text and keeps waiting for the file.
func (m *Machine) handleUpload(ctx context.Context, s *Session, ev Event, kind backend.UploadKind, prompt string) ([]Action, error) {
	if ev.Value() == BtnBack {
		return m.adminMenu(s), nil
	}
	if ev.Kind != EventDocument || ev.File == nil {
		return []Action{sendText(prompt, keyboard(BtnBack))}, nil
	}
	if ev.File.MIMEType != xlsxMIMEType {
		return []Action{sendText(m.copy.UploadOnlyXlsx, keyboard(BtnBack))}, nil
	}

	if err := m.backend.UploadSpreadsheet(ctx, kind, ev.File.Filename, ev.File.Data); err != nil {
		m.log.Warn().Err(err).Int64("user_id", s.UserID).Str("filename", ev.File.Filename).Msg("spreadsheet ingestion failed")
		return []Action{sendText(m.copy.UploadFailed, keyboard(BtnBack))}, nil
	}

	actions := []Action{clearButtons(), sendText(m.copy.UploadOK, nil)}
	return append(actions, m.adminMenu(s)...), nil
}

// adminMenu re-renders the admin panel and moves the session back to it.
func (m *Machine) adminMenu(s *Session) []Action {
	s.ResetBranch()
	s.State = StateAdminMenu
	return []Action{clearButtons(), sendText(m.copy.AdminPrompt, adminMenuKeyboard())}
}
