package conversation_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/stocksense/procurebot/authgate"
	"github.com/stocksense/procurebot/backend"
	"github.com/stocksense/procurebot/backend/backendfake"
	"github.com/stocksense/procurebot/conversation"
	"github.com/stocksense/procurebot/correlator"
	"github.com/stocksense/procurebot/document"
	"github.com/stocksense/procurebot/tokenstore"
)

const testUserID int64 = 9001

// fakeIdP stands in for the identity provider. Refresh calls are counted so
// tests can assert the single-refresh invariant.
type fakeIdP struct {
	refreshCalls int
	refreshPair  *tokenstore.Pair
	refreshErr   error
	exchangePair *tokenstore.Pair
}

func (f *fakeIdP) LoginURL(handle string) string {
	return "https://idp.example/authorize?state=" + handle
}

func (f *fakeIdP) Exchange(_ context.Context, _ string) (*tokenstore.Pair, error) {
	if f.exchangePair == nil {
		return nil, errors.New("no exchange pair seeded")
	}
	return f.exchangePair, nil
}

func (f *fakeIdP) Refresh(_ context.Context, _ string) (*tokenstore.Pair, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshPair, nil
}

type machineFixture struct {
	machine  *conversation.Machine
	sessions *conversation.InMemoryStore
	tokens   *tokenstore.InMemoryRepo
	broker   *correlator.InMemoryBroker
	idp      *fakeIdP
	backend  *backendfake.FakeClient
	copy     *conversation.Copy
	now      time.Time
}

func setupMachineFixture(t *testing.T) *machineFixture {
	t.Helper()

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	tokenstore.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { tokenstore.NowTimeFunc = time.Now })

	tokens := tokenstore.NewInMemoryRepo()
	idp := &fakeIdP{}
	gate, err := authgate.New(tokens, idp)
	require.NoError(t, err)

	sessions := conversation.NewInMemoryStore()
	broker := correlator.NewInMemoryBroker()
	fakeBackend := backendfake.NewFakeClient()

	machine, err := conversation.NewMachine(
		sessions,
		gate,
		broker,
		idp,
		fakeBackend,
		t.TempDir(),
		conversation.WithNowTime(func() time.Time { return now }),
	)
	require.NoError(t, err)

	return &machineFixture{
		machine:  machine,
		sessions: sessions,
		tokens:   tokens,
		broker:   broker,
		idp:      idp,
		backend:  fakeBackend,
		copy:     conversation.DefaultCopy(),
		now:      now,
	}
}

func (f *machineFixture) mintToken(t *testing.T, expiresAt time.Time, roles ...string) string {
	t.Helper()

	claims := jwtlib.MapClaims{"exp": float64(expiresAt.Unix())}
	if len(roles) > 0 {
		rawRoles := make([]any, 0, len(roles))
		for _, r := range roles {
			rawRoles = append(rawRoles, r)
		}
		claims["realm_access"] = map[string]any{"roles": rawRoles}
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func (f *machineFixture) authorize(t *testing.T, roles ...string) {
	t.Helper()
	f.authorizeWithExpiry(t, f.now.Add(time.Hour), f.now.Add(24*time.Hour), roles...)
}

func (f *machineFixture) authorizeWithExpiry(t *testing.T, accessExp, refreshExp time.Time, roles ...string) {
	t.Helper()

	pair := &tokenstore.Pair{
		AccessToken:  f.mintToken(t, accessExp, roles...),
		RefreshToken: f.mintToken(t, refreshExp),
		ObtainedAt:   f.now,
	}
	require.NoError(t, f.tokens.Upsert(testUserID, pair))
}

func (f *machineFixture) handle(t *testing.T, ev conversation.Event) []conversation.Action {
	t.Helper()

	actions, err := f.machine.HandleEvent(context.Background(), testUserID, ev)
	require.NoError(t, err)
	return actions
}

// enterMenu drives an authorized user to the main menu.
func (f *machineFixture) enterMenu(t *testing.T) {
	t.Helper()

	f.authorize(t)
	f.handle(t, conversation.TextEvent("/start"))
	require.Equal(t, conversation.StateChoosingAction, f.state(t))
}

func (f *machineFixture) state(t *testing.T) conversation.State {
	t.Helper()

	session, ok := f.sessions.Get(testUserID)
	require.True(t, ok)
	return session.State
}

func allText(actions []conversation.Action) string {
	var b strings.Builder
	for _, a := range actions {
		b.WriteString(a.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func lastKeyboard(t *testing.T, actions []conversation.Action) *conversation.Keyboard {
	t.Helper()

	for i := len(actions) - 1; i >= 0; i-- {
		if actions[i].Keyboard != nil {
			return actions[i].Keyboard
		}
	}
	t.Fatal("no action carries a keyboard")
	return nil
}

func findKind(t *testing.T, actions []conversation.Action, kind conversation.ActionKind) conversation.Action {
	t.Helper()

	for _, a := range actions {
		if a.Kind == kind {
			return a
		}
	}
	t.Fatalf("no action of kind %d", kind)
	return conversation.Action{}
}

func TestFirstEventIssuesLoginLink(t *testing.T) {
	f := setupMachineFixture(t)

	actions := f.handle(t, conversation.TextEvent("привет"))

	text := allText(actions)
	require.Contains(t, text, "https://idp.example/authorize?state=")
	require.Equal(t, []string{conversation.BtnLoggedIn}, lastKeyboard(t, actions).Buttons)
	require.Equal(t, conversation.StateAuthPending, f.state(t))

	// The embedded handle resolves back to the user.
	start := strings.Index(text, "state=") + len("state=")
	handle := strings.TrimSpace(text[start : start+36])
	userID, err := f.broker.Resolve(handle)
	require.NoError(t, err)
	require.Equal(t, testUserID, userID)
}

func TestAuthPendingWithoutTokensReissuesLink(t *testing.T) {
	f := setupMachineFixture(t)
	f.handle(t, conversation.TextEvent("привет"))

	actions := f.handle(t, conversation.ButtonEvent(conversation.BtnLoggedIn))

	require.Contains(t, allText(actions), f.copy.NotAuthorized)
	require.Contains(t, allText(actions), "https://idp.example/authorize?state=")
	require.Equal(t, conversation.StateAuthPending, f.state(t))
}

func TestAuthPendingCompletesAfterCallback(t *testing.T) {
	f := setupMachineFixture(t)
	f.handle(t, conversation.TextEvent("привет"))

	f.authorize(t)
	actions := f.handle(t, conversation.ButtonEvent(conversation.BtnLoggedIn))

	require.Contains(t, allText(actions), f.copy.LoginSuccess)
	require.Equal(t, conversation.StateChoosingAction, f.state(t))
	require.Equal(t, []string{conversation.BtnStock, conversation.BtnForecast, conversation.BtnTrack}, lastKeyboard(t, actions).Buttons)
}

func TestAdminRoleRoutesToAdminMenu(t *testing.T) {
	f := setupMachineFixture(t)
	f.authorize(t, "tg_admin")

	actions := f.handle(t, conversation.TextEvent("/start"))

	require.Contains(t, allText(actions), f.copy.AdminWelcome)
	require.Equal(t, conversation.StateAdminMenu, f.state(t))
	require.Equal(t, []string{conversation.BtnUploadStock, conversation.BtnUploadTurnover}, lastKeyboard(t, actions).Buttons)
}

func TestLogout(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)

	actions := f.handle(t, conversation.TextEvent("/logout"))

	require.Contains(t, allText(actions), f.copy.LoggedOut)
	require.Equal(t, conversation.StateLoggedOut, f.state(t))
	_, err := f.tokens.Get(testUserID)
	require.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestGateReauthMidDialog(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)

	// Token pair disappears while the user sits in the menu.
	require.NoError(t, f.tokens.Delete(testUserID))
	actions := f.handle(t, conversation.ButtonEvent(conversation.BtnStock))

	require.Contains(t, allText(actions), f.copy.NotAuthorized)
	require.Equal(t, conversation.StateAuthPending, f.state(t))
}

func TestGateRefreshesStaleAccessTokenOnce(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)

	f.authorizeWithExpiry(t, f.now.Add(-time.Minute), f.now.Add(24*time.Hour))
	f.idp.refreshPair = &tokenstore.Pair{
		AccessToken:  f.mintToken(t, f.now.Add(time.Hour)),
		RefreshToken: f.mintToken(t, f.now.Add(48*time.Hour)),
		ObtainedAt:   f.now,
	}

	actions := f.handle(t, conversation.ButtonEvent(conversation.BtnStock))

	require.Equal(t, 1, f.idp.refreshCalls)
	require.Contains(t, allText(actions), f.copy.StockItemPrompt, "dialog continues without a re-login")
	require.Equal(t, conversation.StateStockItemPrompt, f.state(t))

	f.handle(t, conversation.ButtonEvent(conversation.BtnBack))
	require.Equal(t, 1, f.idp.refreshCalls, "refreshed pair must satisfy later checks")
}

func TestGateRefreshFailureReportsRetry(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)

	f.authorizeWithExpiry(t, f.now.Add(-time.Minute), f.now.Add(24*time.Hour))
	f.idp.refreshErr = errors.New("provider unavailable")

	actions := f.handle(t, conversation.ButtonEvent(conversation.BtnStock))

	require.Contains(t, allText(actions), f.copy.UpstreamFailed)
	require.Equal(t, conversation.StateChoosingAction, f.state(t), "state stays put on upstream failure")
	_, err := f.tokens.Get(testUserID)
	require.NoError(t, err, "stored pair survives a failed refresh")
}

func TestStockSingleMatchSkipsSelection(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)
	f.backend.Catalog = []string{"Бумага офисная А4"}
	f.backend.Snapshots["Бумага офисная А4"] = &backend.StockSnapshot{
		Message:   "На складе 120 единиц.",
		ImagePath: "/tmp/stock.png",
	}

	f.handle(t, conversation.ButtonEvent(conversation.BtnStock))
	actions := f.handle(t, conversation.TextEvent("бумага"))

	text := allText(actions)
	require.Contains(t, text, fmt.Sprintf(f.copy.SingleMatch, "Бумага офисная А4"))
	require.Contains(t, text, "На складе 120 единиц.")
	require.Equal(t, "/tmp/stock.png", findKind(t, actions, conversation.ActionSendImage).Path)
	require.Equal(t, []string{conversation.BtnForecast, conversation.BtnBack}, lastKeyboard(t, actions).Buttons)
	require.Equal(t, conversation.StateOfferForecast, f.state(t))
}

func TestStockNoMatchReprompts(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)
	f.backend.Catalog = []string{"Бумага офисная А4"}

	f.handle(t, conversation.ButtonEvent(conversation.BtnStock))
	actions := f.handle(t, conversation.TextEvent("кирпич"))

	require.Contains(t, allText(actions), f.copy.ProductNotFound)
	require.Equal(t, conversation.StateStockItemPrompt, f.state(t))
}

func sevenProducts() []string {
	out := make([]string, 7)
	for i := range out {
		out[i] = fmt.Sprintf("Товар %d", i+1)
	}
	return out
}

func TestStockSelectionPagination(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)
	f.backend.Catalog = sevenProducts()
	f.backend.Snapshots["Товар 6"] = &backend.StockSnapshot{Message: "На складе 6 единиц."}

	f.handle(t, conversation.ButtonEvent(conversation.BtnStock))
	actions := f.handle(t, conversation.TextEvent("товар"))

	kb := lastKeyboard(t, actions)
	require.Equal(t, []string{"1", "2", "3", "4", "5", "1/2", conversation.BtnNext}, kb.Buttons, "first page shows forward navigation only")
	require.Equal(t, conversation.StateStockChoosingProduct, f.state(t))

	actions = f.handle(t, conversation.ButtonEvent(conversation.BtnNext))
	edit := findKind(t, actions, conversation.ActionEditPrevious)
	require.Equal(t, []string{"6", "7", conversation.BtnPrev, "2/2"}, edit.Keyboard.Buttons, "last page shows back navigation only")
	require.Contains(t, edit.Text, "6. Товар 6")

	// Indicator press reports the position without navigating.
	actions = f.handle(t, conversation.ButtonEvent("2/2"))
	require.Contains(t, allText(actions), fmt.Sprintf(f.copy.PagePosition, 2, 2))

	actions = f.handle(t, conversation.ButtonEvent("6"))
	require.Contains(t, allText(actions), fmt.Sprintf(f.copy.ChosenProduct, "Товар 6"))
	require.Contains(t, allText(actions), "На складе 6 единиц.")
	require.Equal(t, conversation.StateOfferForecast, f.state(t))
}

func TestStockSelectionInvalidNumber(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)
	f.backend.Catalog = sevenProducts()

	f.handle(t, conversation.ButtonEvent(conversation.BtnStock))
	f.handle(t, conversation.TextEvent("товар"))
	actions := f.handle(t, conversation.TextEvent("12"))

	require.Contains(t, allText(actions), f.copy.InvalidChoice)
	require.Equal(t, conversation.StateStockChoosingProduct, f.state(t))
}

func seedForecast(f *machineFixture, message string) {
	f.backend.Catalog = []string{"Бумага офисная А4"}
	f.backend.Forecasts["Бумага офисная А4"] = &backend.Forecast{
		Message:              message,
		ConsumptionImagePath: "/tmp/consumption.png",
		ForecastImagePath:    "/tmp/forecast.png",
	}
}

func TestForecastFlowOffersPurchase(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)
	seedForecast(f, "Вам необходимо закупить 42 единицы товара.")

	f.handle(t, conversation.ButtonEvent(conversation.BtnForecast))
	require.Equal(t, conversation.StateForecastItemPrompt, f.state(t))

	actions := f.handle(t, conversation.TextEvent("бумага"))
	require.Contains(t, allText(actions), f.copy.PeriodPrompt)
	require.Equal(t, conversation.StateChoosingPeriod, f.state(t))

	actions = f.handle(t, conversation.ButtonEvent(conversation.BtnQuarter))
	require.Contains(t, allText(actions), "Вам необходимо закупить 42")
	require.Equal(t, []string{conversation.BtnMakePurchase, conversation.BtnBack}, lastKeyboard(t, actions).Buttons)
	require.Equal(t, conversation.StateOfferDocument, f.state(t))

	session, ok := f.sessions.Get(testUserID)
	require.True(t, ok)
	require.Equal(t, 42, session.Ctx.SuggestedQty)
	require.Equal(t, 3, session.Ctx.PeriodMonths)
}

func TestForecastSufficientStockClosesBranch(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)
	seedForecast(f, f.copy.SufficientStock)

	f.handle(t, conversation.ButtonEvent(conversation.BtnForecast))
	f.handle(t, conversation.TextEvent("бумага"))
	actions := f.handle(t, conversation.ButtonEvent(conversation.BtnMonth))

	require.Contains(t, allText(actions), f.copy.SufficientStock)
	require.NotContains(t, lastKeyboard(t, actions).Buttons, conversation.BtnMakePurchase)
	require.Equal(t, conversation.StateChoosingAction, f.state(t))

	session, ok := f.sessions.Get(testUserID)
	require.True(t, ok)
	require.Zero(t, session.Ctx.SuggestedQty)
}

func TestPeriodInvalidReprompts(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)
	seedForecast(f, "Вам необходимо закупить 42 единицы товара.")

	f.handle(t, conversation.ButtonEvent(conversation.BtnForecast))
	f.handle(t, conversation.TextEvent("бумага"))
	actions := f.handle(t, conversation.TextEvent("декада"))

	require.Contains(t, allText(actions), f.copy.PeriodInvalid)
	require.Equal(t, conversation.StateChoosingPeriod, f.state(t))

	// Typing the period answer works like pressing its button.
	f.handle(t, conversation.TextEvent("год"))
	session, ok := f.sessions.Get(testUserID)
	require.True(t, ok)
	require.Equal(t, 12, session.Ctx.PeriodMonths)
}

func TestIntentForecastWithBothSlotsSkipsQuestions(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)
	seedForecast(f, "Вам необходимо закупить 42 единицы товара.")
	f.backend.Intents["закажи бумагу на квартал"] = &backend.Intent{
		Kind:       backend.IntentForecast,
		Product:    "бумага",
		PeriodDays: 90,
	}

	actions := f.handle(t, conversation.TextEvent("закажи бумагу на квартал"))

	require.Contains(t, allText(actions), "Вам необходимо закупить 42")
	require.Equal(t, conversation.StateOfferDocument, f.state(t))

	session, ok := f.sessions.Get(testUserID)
	require.True(t, ok)
	require.Equal(t, 3, session.Ctx.PeriodMonths)
}

func TestIntentStockWithProductSkipsPrompt(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)
	f.backend.Catalog = []string{"Бумага офисная А4"}
	f.backend.Snapshots["Бумага офисная А4"] = &backend.StockSnapshot{Message: "На складе 120 единиц."}
	f.backend.Intents["сколько бумаги осталось"] = &backend.Intent{
		Kind:    backend.IntentStock,
		Product: "бумага",
	}

	actions := f.handle(t, conversation.TextEvent("сколько бумаги осталось"))

	require.Contains(t, allText(actions), "На складе 120 единиц.")
	require.Equal(t, conversation.StateOfferForecast, f.state(t))
}

func TestUnclassifiedTextReprompts(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)

	actions := f.handle(t, conversation.TextEvent("абракадабра"))

	require.Contains(t, allText(actions), f.copy.Misunderstood)
	require.Equal(t, conversation.StateChoosingAction, f.state(t))
}

func TestUpstreamFailureKeepsState(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)
	f.backend.Fail = true

	actions := f.handle(t, conversation.ButtonEvent(conversation.BtnTrack))

	require.Contains(t, allText(actions), f.copy.UpstreamFailed)
	require.Equal(t, conversation.StateChoosingAction, f.state(t))
}

func (f *machineFixture) enterReview(t *testing.T) []conversation.Action {
	t.Helper()

	seedForecast(f, "Вам необходимо закупить 42 единицы товара.")
	f.backend.Draft = &document.Draft{ID: "321915", CustomerID: "2304307"}

	f.handle(t, conversation.ButtonEvent(conversation.BtnForecast))
	f.handle(t, conversation.TextEvent("бумага"))
	f.handle(t, conversation.ButtonEvent(conversation.BtnMonth))
	require.Equal(t, conversation.StateOfferDocument, f.state(t))
	return f.handle(t, conversation.ButtonEvent(conversation.BtnMakePurchase))
}

func TestAssembleDocument(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)

	actions := f.enterReview(t)

	doc := findKind(t, actions, conversation.ActionSendDocument)
	require.Equal(t, "Закупка321915.json", doc.Filename)
	require.Equal(t, f.copy.DocumentCaption, doc.Caption)
	require.Equal(t, []string{conversation.BtnEditFields, conversation.BtnBack}, doc.Keyboard.Buttons)
	require.Equal(t, conversation.StateReviewDocument, f.state(t))

	session, ok := f.sessions.Get(testUserID)
	require.True(t, ok)
	require.Equal(t, document.Value("08.01.2022"), session.Ctx.Draft.Rows[0].DeliverySchedule.Dates.StartDate)
	require.Equal(t, document.Value("08.02.2022"), session.Ctx.Draft.Rows[0].DeliverySchedule.Dates.EndDate)
}

func TestAssembleDocumentWarning(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)
	f.backend.Warning = true

	actions := f.enterReview(t)

	require.Contains(t, allText(actions), f.copy.DocumentWarning)
}

func TestFieldEditingWalk(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)
	f.enterReview(t)

	actions := f.handle(t, conversation.ButtonEvent(conversation.BtnEditFields))
	require.Equal(t, conversation.StateEditingFields, f.state(t))
	text := allText(actions)
	require.Contains(t, text, "Идентификатор расчета")
	require.Contains(t, text, "321915")
	kb := lastKeyboard(t, actions)
	require.Equal(t, []string{conversation.BtnFinishEditing, "1/14", conversation.BtnNext}, kb.Buttons, "no back navigation at the first field")

	// Walk forward and replace a value.
	actions = f.handle(t, conversation.ButtonEvent(conversation.BtnNext))
	edit := findKind(t, actions, conversation.ActionEditPrevious)
	require.Contains(t, edit.Text, "Идентификатор лота")
	require.Equal(t, []string{conversation.BtnFinishEditing, conversation.BtnPrev, "2/14", conversation.BtnNext}, edit.Keyboard.Buttons)

	actions = f.handle(t, conversation.TextEvent("777"))
	require.Contains(t, allText(actions), f.copy.FieldUpdated)
	require.Contains(t, allText(actions), "777")

	// The indicator press reports the position without moving.
	actions = f.handle(t, conversation.ButtonEvent("2/14"))
	require.Contains(t, allText(actions), fmt.Sprintf(f.copy.FieldPosition, 2, 14))

	actions = f.handle(t, conversation.ButtonEvent(conversation.BtnFinishEditing))
	require.Contains(t, allText(actions), f.copy.EditFinished)
	doc := findKind(t, actions, conversation.ActionSendDocument)
	require.Equal(t, "Закупка321915.json", doc.Filename)
	require.Equal(t, conversation.StateReviewDocument, f.state(t))

	session, ok := f.sessions.Get(testUserID)
	require.True(t, ok)
	require.Equal(t, document.Value("777"), session.Ctx.Draft.LotEntityID)
}

func TestFieldEditingBackSaturates(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)
	f.enterReview(t)
	f.handle(t, conversation.ButtonEvent(conversation.BtnEditFields))

	actions := f.handle(t, conversation.ButtonEvent(conversation.BtnPrev))

	// Back at the first field stays on the first field.
	edit := findKind(t, actions, conversation.ActionEditPrevious)
	require.Contains(t, edit.Text, "Идентификатор расчета")
}

func TestTrackAddListDelete(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)
	f.backend.Catalog = []string{"Бумага офисная А4"}

	actions := f.handle(t, conversation.ButtonEvent(conversation.BtnTrack))
	require.Contains(t, allText(actions), f.copy.TrackEmpty)
	require.Equal(t, conversation.StateTrackMenu, f.state(t))

	f.handle(t, conversation.ButtonEvent(conversation.BtnTrackAdd))
	require.Equal(t, conversation.StateTrackAdding, f.state(t))

	actions = f.handle(t, conversation.TextEvent("бумага"))
	require.Contains(t, allText(actions), f.copy.TrackAdded)
	require.Contains(t, allText(actions), "1. Бумага офисная А4")
	require.Equal(t, conversation.StateTrackMenu, f.state(t))
	require.Equal(t, []string{"Бумага офисная А4"}, f.backend.Tracked[testUserID])

	// Adding the same product again reports it as already tracked.
	f.handle(t, conversation.ButtonEvent(conversation.BtnTrackAdd))
	actions = f.handle(t, conversation.TextEvent("бумага"))
	require.Contains(t, allText(actions), f.copy.TrackExists)
	require.Equal(t, []string{"Бумага офисная А4"}, f.backend.Tracked[testUserID])

	f.handle(t, conversation.ButtonEvent(conversation.BtnTrackDelete))
	require.Equal(t, conversation.StateTrackDeleting, f.state(t))

	actions = f.handle(t, conversation.ButtonEvent("1"))
	require.Contains(t, allText(actions), f.copy.TrackRemoved)
	require.Contains(t, allText(actions), f.copy.TrackEmpty)
	require.Empty(t, f.backend.Tracked[testUserID])
}

func TestAdminUploadFlow(t *testing.T) {
	f := setupMachineFixture(t)
	f.authorize(t, "tg_admin")
	f.handle(t, conversation.TextEvent("/start"))
	require.Equal(t, conversation.StateAdminMenu, f.state(t))

	f.handle(t, conversation.ButtonEvent(conversation.BtnUploadStock))
	require.Equal(t, conversation.StateAdminUploadStock, f.state(t))

	// Wrong format is rejected and the state keeps waiting for a file.
	actions := f.handle(t, conversation.FileEvent("stock.csv", "text/csv", []byte("a;b")))
	require.Contains(t, allText(actions), f.copy.UploadOnlyXlsx)
	require.Equal(t, conversation.StateAdminUploadStock, f.state(t))

	actions = f.handle(t, conversation.FileEvent(
		"stock.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		[]byte{0x50, 0x4b},
	))
	require.Contains(t, allText(actions), f.copy.UploadOK)
	require.Equal(t, conversation.StateAdminMenu, f.state(t))
	require.Equal(t, []string{"stock.xlsx"}, f.backend.Uploads)
}

func TestAdminUploadBackendFailure(t *testing.T) {
	f := setupMachineFixture(t)
	f.authorize(t, "tg_admin")
	f.handle(t, conversation.TextEvent("/start"))
	f.handle(t, conversation.ButtonEvent(conversation.BtnUploadTurnover))
	f.backend.Fail = true

	// The failing call is inside the handler but the reply is the retry text,
	// not a dead end; the state keeps accepting files.
	actions, err := f.machine.HandleEvent(context.Background(), testUserID, conversation.FileEvent(
		"turnovers.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		[]byte{0x50, 0x4b},
	))
	require.NoError(t, err)
	require.Contains(t, allText(actions), f.copy.UploadFailed)
	require.Equal(t, conversation.StateAdminUploadTurnover, f.state(t))
}

func TestBackButtonsReturnToMenu(t *testing.T) {
	f := setupMachineFixture(t)
	f.enterMenu(t)

	f.handle(t, conversation.ButtonEvent(conversation.BtnStock))
	require.Equal(t, conversation.StateStockItemPrompt, f.state(t))

	actions := f.handle(t, conversation.ButtonEvent(conversation.BtnBack))
	require.Contains(t, allText(actions), f.copy.MenuPrompt)
	require.Equal(t, conversation.StateChoosingAction, f.state(t))
}
