package conversation

// State identifies the user's position in the branching dialog. Every inbound
// event is interpreted against the current state; events a state does not
// declare re-prompt instead of transitioning.
type State int

const (
	// StateAuthPending waits for the user to complete the provider login link.
	StateAuthPending State = iota
	// StateLoggedOut shows the re-login affordance after an explicit logout.
	StateLoggedOut
	// StateChoosingAction is the main menu; free text is routed through the
	// intent classifier from here.
	StateChoosingAction

	// Stock branch.
	StateStockItemPrompt
	StateStockChoosingProduct
	StateOfferForecast

	// Forecast branch.
	StateForecastItemPrompt
	StateForecastChoosingProduct
	StateChoosingPeriod

	// Procurement document branch.
	StateOfferDocument
	StateReviewDocument
	StateEditingFields

	// Tracked-products branch.
	StateTrackMenu
	StateTrackAdding
	StateTrackChoosingAdd
	StateTrackDeleting

	// Admin branch.
	StateAdminMenu
	StateAdminUploadStock
	StateAdminUploadTurnover
)

var stateNames = map[State]string{
	StateAuthPending:             "auth_pending",
	StateLoggedOut:               "logged_out",
	StateChoosingAction:          "choosing_action",
	StateStockItemPrompt:         "stock_item_prompt",
	StateStockChoosingProduct:    "stock_choosing_product",
	StateOfferForecast:           "offer_forecast",
	StateForecastItemPrompt:      "forecast_item_prompt",
	StateForecastChoosingProduct: "forecast_choosing_product",
	StateChoosingPeriod:          "choosing_period",
	StateOfferDocument:           "offer_document",
	StateReviewDocument:          "review_document",
	StateEditingFields:           "editing_fields",
	StateTrackMenu:               "track_menu",
	StateTrackAdding:             "track_adding",
	StateTrackChoosingAdd:        "track_choosing_add",
	StateTrackDeleting:           "track_deleting",
	StateAdminMenu:               "admin_menu",
	StateAdminUploadStock:        "admin_upload_stock",
	StateAdminUploadTurnover:     "admin_upload_turnover",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// gatedStates marks the transitions that require a valid authenticated
// session before their handler runs. The authentication-pending and
// logged-out states bypass the gate by definition.
var gatedStates = map[State]bool{
	StateChoosingAction:          true,
	StateStockItemPrompt:         true,
	StateStockChoosingProduct:    true,
	StateOfferForecast:           true,
	StateForecastItemPrompt:      true,
	StateForecastChoosingProduct: true,
	StateChoosingPeriod:          true,
	StateOfferDocument:           true,
	StateReviewDocument:          true,
	StateEditingFields:           true,
	StateTrackMenu:               true,
	StateTrackAdding:             true,
	StateTrackChoosingAdd:        true,
	StateTrackDeleting:           true,
	StateAdminMenu:               true,
	StateAdminUploadStock:        true,
	StateAdminUploadTurnover:     true,
}
