package conversation

import "context"

// handleAuthPending reacts to the "I have authorized" button (or anything
// else) while a login link is outstanding: if the callback already stored a
// token pair the user proceeds to their menu, otherwise a fresh link is
// issued.
func (m *Machine) handleAuthPending(_ context.Context, s *Session, _ Event) ([]Action, error) {
	if !m.gate.Authenticated(s.UserID) {
		actions, err := m.loginPrompt(s, m.copy.NotAuthorized)
		if err != nil {
			return nil, err
		}
		return append([]Action{clearButtons()}, actions...), nil
	}

	s.ResetBranch()
	if m.isAdmin(s.UserID) {
		s.State = StateAdminMenu
		return []Action{
			clearButtons(),
			sendText(m.copy.AdminWelcome+"\n\n"+m.copy.AdminPrompt, adminMenuKeyboard()),
		}, nil
	}

	s.State = StateChoosingAction
	return []Action{
		clearButtons(),
		sendText(m.copy.LoginSuccess+"\n\n"+m.copy.MenuPrompt, mainMenuKeyboard()),
	}, nil
}

// handleLoggedOut waits for the re-login button after an explicit logout.
func (m *Machine) handleLoggedOut(_ context.Context, s *Session, _ Event) ([]Action, error) {
	actions, err := m.loginPrompt(s, m.copy.NotAuthorized)
	if err != nil {
		return nil, err
	}
	return append([]Action{clearButtons()}, actions...), nil
}
