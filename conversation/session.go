package conversation

import (
	"github.com/stocksense/procurebot/document"
	"github.com/stocksense/procurebot/pagination"
)

// Context holds the dialog slots accumulated along the current branch. Slots
// are only meaningful while the state that declares them is active; entering
// a branch resets what the branch does not declare so stale values cannot
// leak across branches.
type Context struct {
	// ChosenProduct is the exact catalog name selected in the stock or
	// forecast branch.
	ChosenProduct string
	// PeriodMonths is the forecast horizon. Zero means not chosen yet.
	PeriodMonths int
	// SuggestedQty is the purchase quantity derived from the forecast reply;
	// zero when the stock already covers the period.
	SuggestedQty int
	// Products is the paged selection list shown while choosing between
	// multiple search matches.
	Products *pagination.List
	// TrackList is the paged list of the user's monitored products.
	TrackList *pagination.List
	// Draft is the assembled procurement document under review or editing.
	Draft *document.Draft
	// DraftWarning flags a possible procurement-law compliance problem.
	DraftWarning bool
	// EditIndex is the field editor's position within the draft.
	EditIndex int
}

// Session is the per-user conversation state. At most one session exists per
// user identifier; it is created on the first inbound event and mutated on
// every one after that.
type Session struct {
	UserID int64
	State  State
	Ctx    Context
}

// NewSession creates a session positioned at the authentication entry.
func NewSession(userID int64) *Session {
	return &Session{UserID: userID, State: StateAuthPending}
}

// Clone returns a deep copy of the session. Handlers mutate the copy; it only
// replaces the stored session once the whole event handling succeeded.
func (s *Session) Clone() *Session {
	clone := *s
	if s.Ctx.Products != nil {
		products := *s.Ctx.Products
		products.Items = append([]string(nil), s.Ctx.Products.Items...)
		clone.Ctx.Products = &products
	}
	if s.Ctx.TrackList != nil {
		tracked := *s.Ctx.TrackList
		tracked.Items = append([]string(nil), s.Ctx.TrackList.Items...)
		clone.Ctx.TrackList = &tracked
	}
	clone.Ctx.Draft = s.Ctx.Draft.Clone()
	return &clone
}

// ResetBranch clears every branch-scoped slot before entering a new branch.
func (s *Session) ResetBranch() {
	s.Ctx = Context{}
}
