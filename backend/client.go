// Package backend abstracts the business endpoints consumed by the
// conversation core: product search, stock snapshots, demand forecasts,
// procurement document assembly, intent extraction, tracked-product
// monitoring and admin spreadsheet ingestion. The core treats them as black
// boxes; every call is awaited synchronously within one event's handling.
package backend

import (
	"context"

	"github.com/stocksense/procurebot/document"
)

// IntentKind classifies a free-text message into one of the dialog's entry
// actions.
type IntentKind int

const (
	IntentUnknown IntentKind = iota
	IntentStock
	IntentForecast
)

// Intent is the normalized triple extracted from a free-text message. Product
// and PeriodDays are zero-valued when the classifier could not extract them.
type Intent struct {
	Kind       IntentKind
	Product    string
	PeriodDays int
}

// StockSnapshot is the stock-level report for one product. ImagePath points
// at a locally staged chart file; the transport adapter deletes it after
// delivery.
type StockSnapshot struct {
	Message   string
	ImagePath string
}

// Forecast is the demand forecast for one product over a period. The image
// paths are empty when the backend had too little history to plot them.
type Forecast struct {
	Message              string
	ConsumptionImagePath string
	ForecastImagePath    string
}

// UploadKind selects which admin spreadsheet an upload carries.
type UploadKind int

const (
	UploadStockRemainings UploadKind = iota
	UploadAccountTurnovers
)

type Client interface {
	// SearchProducts returns catalog item names matching the query.
	SearchProducts(ctx context.Context, query string) ([]string, error)

	// StockSnapshot reports current stock for an exact product name.
	StockSnapshot(ctx context.Context, product string) (*StockSnapshot, error)

	// Forecast predicts demand for a product over the given number of months.
	Forecast(ctx context.Context, product string, months int) (*Forecast, error)

	// AssembleDocument builds a draft purchase request. The returned flag
	// warns that the purchase may not comply with procurement law.
	AssembleDocument(ctx context.Context, product string, userID int64, quantity int, startDate, endDate string) (*document.Draft, bool, error)

	// ClassifyIntent extracts the (action, product, period) triple from free text.
	ClassifyIntent(ctx context.Context, text string) (*Intent, error)

	// Tracked-product monitoring.
	AddTrackedItem(ctx context.Context, userID int64, product string) (bool, error)
	RemoveTrackedItem(ctx context.Context, userID int64, product string) (bool, error)
	ListTrackedItems(ctx context.Context, userID int64) ([]string, error)

	// StockAlerts returns low-stock notifications for the user's tracked items.
	StockAlerts(ctx context.Context, userID int64) ([]string, error)

	// UploadSpreadsheet ingests an admin-supplied xlsx file.
	UploadSpreadsheet(ctx context.Context, kind UploadKind, filename string, data []byte) error

	// PollLawUpdates returns a procurement-law news digest, or "" when there
	// is nothing new.
	PollLawUpdates(ctx context.Context) (string, error)
}
