// Package conversation implements the per-user dialog state machine driving
// stock inspection, demand forecasting and procurement request assembly. The
// machine consumes inbound events, consults the auth gate on gated
// transitions, and emits ordered outbound actions for the transport adapter.
package conversation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stocksense/procurebot/authgate"
	"github.com/stocksense/procurebot/backend"
	"github.com/stocksense/procurebot/correlator"
	"github.com/stocksense/procurebot/provider"
)

const (
	cmdStart  = "/start"
	cmdLogout = "/logout"
)

// Recorder counts handled events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveEvent(state, status string)
}

type handlerFunc func(ctx context.Context, s *Session, ev Event) ([]Action, error)

// Machine is the top-level conversation controller: one state per user, a
// transition table keyed by that state, and the auth gate applied before
// every gated transition.
type Machine struct {
	sessions  Store
	gate      *authgate.Gate
	broker    correlator.Broker
	idp       provider.Client
	backend   backend.Client
	copy      *Copy
	tempDir   string
	adminRole string
	recorder  Recorder
	log       zerolog.Logger
	nowTime   func() time.Time

	handlers map[State]handlerFunc

	// userLocks serializes events of the same user; events of different
	// users run unordered and never block on one another.
	userLocks sync.Map
}

// MachineOption defines a function type to modify the Machine instance.
type MachineOption func(*Machine)

// WithCopy overrides the reply text catalog.
func WithCopy(c *Copy) MachineOption {
	return func(m *Machine) {
		m.copy = c
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) MachineOption {
	return func(m *Machine) {
		m.recorder = r
	}
}

// WithLogger sets the machine's logger.
func WithLogger(log zerolog.Logger) MachineOption {
	return func(m *Machine) {
		m.log = log
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) MachineOption {
	return func(m *Machine) {
		m.nowTime = nowFunc
	}
}

// WithAdminRole overrides the realm role that routes a user to the admin menu.
func WithAdminRole(role string) MachineOption {
	return func(m *Machine) {
		m.adminRole = role
	}
}

// NewMachine creates the conversation state machine.
func NewMachine(
	sessions Store,
	gate *authgate.Gate,
	broker correlator.Broker,
	idp provider.Client,
	backendClient backend.Client,
	tempDir string,
	options ...MachineOption,
) (*Machine, error) {
	if sessions == nil {
		return nil, fmt.Errorf("[NewMachine] session store is required")
	}
	if gate == nil {
		return nil, fmt.Errorf("[NewMachine] auth gate is required")
	}
	if broker == nil {
		return nil, fmt.Errorf("[NewMachine] correlation broker is required")
	}
	if idp == nil {
		return nil, fmt.Errorf("[NewMachine] identity provider client is required")
	}
	if backendClient == nil {
		return nil, fmt.Errorf("[NewMachine] backend client is required")
	}

	m := &Machine{
		sessions:  sessions,
		gate:      gate,
		broker:    broker,
		idp:       idp,
		backend:   backendClient,
		copy:      DefaultCopy(),
		tempDir:   tempDir,
		adminRole: "tg_admin",
		log:       zerolog.Nop(),
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(m)
	}

	m.handlers = map[State]handlerFunc{
		StateAuthPending:             m.handleAuthPending,
		StateLoggedOut:               m.handleLoggedOut,
		StateChoosingAction:          m.handleChoosingAction,
		StateStockItemPrompt:         m.handleStockItemPrompt,
		StateStockChoosingProduct:    m.handleStockChoosingProduct,
		StateOfferForecast:           m.handleOfferForecast,
		StateForecastItemPrompt:      m.handleForecastItemPrompt,
		StateForecastChoosingProduct: m.handleForecastChoosingProduct,
		StateChoosingPeriod:          m.handleChoosingPeriod,
		StateOfferDocument:           m.handleOfferDocument,
		StateReviewDocument:          m.handleReviewDocument,
		StateEditingFields:           m.handleEditingFields,
		StateTrackMenu:               m.handleTrackMenu,
		StateTrackAdding:             m.handleTrackAdding,
		StateTrackChoosingAdd:        m.handleTrackChoosingAdd,
		StateTrackDeleting:           m.handleTrackDeleting,
		StateAdminMenu:               m.handleAdminMenu,
		StateAdminUploadStock:        m.handleAdminUploadStock,
		StateAdminUploadTurnover:     m.handleAdminUploadTurnover,
	}
	return m, nil
}

// HandleEvent processes one inbound event for a user and returns the ordered
// outbound actions. Session state and context are only committed after the
// whole handler succeeded; a failed external call leaves the session in its
// pre-event state and reports a generic retry prompt.
func (m *Machine) HandleEvent(ctx context.Context, userID int64, ev Event) ([]Action, error) {
	unlock := m.lockUser(userID)
	defer unlock()

	stored, known := m.sessions.Get(userID)
	if !known {
		stored = NewSession(userID)
	}
	work := stored.Clone()

	// Commands re-enter the dialog regardless of the current state.
	switch {
	case !known, ev.Kind == EventText && ev.Text == cmdStart:
		actions, err := m.handleEntry(ctx, work)
		return m.finish(work, actions, err)
	case ev.Kind == EventText && ev.Text == cmdLogout:
		actions, err := m.handleLogout(work)
		return m.finish(work, actions, err)
	}

	if gatedStates[work.State] {
		status, err := m.gate.EnsureAuthorized(ctx, userID)
		if err != nil {
			m.log.Warn().Err(err).Int64("user_id", userID).Msg("auth gate check failed")
			m.observe(work.State, "upstream_error")
			return []Action{sendText(m.copy.UpstreamFailed, nil)}, nil
		}
		if status == authgate.NeedsReauth {
			actions, err := m.loginPrompt(work, m.copy.NotAuthorized)
			return m.finish(work, actions, err)
		}
	}

	handler, ok := m.handlers[work.State]
	if !ok {
		// Unknown state only happens on a corrupted session; restart the dialog.
		actions, err := m.handleEntry(ctx, work)
		return m.finish(work, actions, err)
	}

	actions, err := handler(ctx, work, ev)
	return m.finish(work, actions, err)
}

// finish commits the session on success; on error it reports the generic
// retry prompt and leaves the stored session untouched.
func (m *Machine) finish(work *Session, actions []Action, err error) ([]Action, error) {
	if err != nil {
		m.log.Warn().Err(err).Int64("user_id", work.UserID).Stringer("state", work.State).Msg("event handling failed")
		m.observe(work.State, "upstream_error")
		return []Action{sendText(m.copy.UpstreamFailed, nil)}, nil
	}
	m.sessions.Put(work)
	m.observe(work.State, "ok")
	return actions, nil
}

// handleEntry is the dialog entry: greeting for authenticated users (admin
// panel when the token carries the admin role), a login link otherwise.
func (m *Machine) handleEntry(_ context.Context, s *Session) ([]Action, error) {
	if !m.gate.Authenticated(s.UserID) {
		actions, err := m.loginPrompt(s, m.copy.Welcome)
		return actions, err
	}

	s.ResetBranch()
	if m.isAdmin(s.UserID) {
		s.State = StateAdminMenu
		return []Action{sendText(m.copy.AdminWelcome+"\n\n"+m.copy.AdminPrompt, adminMenuKeyboard())}, nil
	}
	s.State = StateChoosingAction
	return []Action{sendText(m.copy.Welcome+"\n\n"+m.copy.MenuPrompt, mainMenuKeyboard())}, nil
}

func (m *Machine) handleLogout(s *Session) ([]Action, error) {
	if m.gate.Authenticated(s.UserID) {
		if err := m.gate.Logout(s.UserID); err != nil {
			return nil, fmt.Errorf("[Machine.handleLogout] %w", err)
		}
		s.ResetBranch()
		s.State = StateLoggedOut
		return []Action{sendText(m.copy.LoggedOut, keyboard(BtnLoginAgain))}, nil
	}
	actions, err := m.loginPrompt(s, m.copy.NotAuthorized)
	return actions, err
}

// loginPrompt mints a fresh correlation handle and prompts with the
// provider's login link. The session moves to the authentication-pending
// state with its context cleared.
func (m *Machine) loginPrompt(s *Session, header string) ([]Action, error) {
	handle, err := m.broker.Begin(s.UserID)
	if err != nil {
		return nil, fmt.Errorf("[Machine.loginPrompt] begin correlation: %w", err)
	}
	s.ResetBranch()
	s.State = StateAuthPending
	text := header + "\n" + fmt.Sprintf(m.copy.LoginLink, m.idp.LoginURL(handle))
	return []Action{sendText(text, keyboard(BtnLoggedIn))}, nil
}

func (m *Machine) isAdmin(userID int64) bool {
	for _, role := range m.gate.Roles(userID) {
		if role == m.adminRole {
			return true
		}
	}
	return false
}

func (m *Machine) lockUser(userID int64) func() {
	value, _ := m.userLocks.LoadOrStore(userID, &sync.Mutex{})
	lock := value.(*sync.Mutex)
	lock.Lock()
	return lock.Unlock
}

func (m *Machine) observe(state State, status string) {
	if m.recorder != nil {
		m.recorder.ObserveEvent(state.String(), status)
	}
}
