package backendfake

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/stocksense/procurebot/backend"
	"github.com/stocksense/procurebot/document"
)

var _ backend.Client = (*FakeClient)(nil)

// FakeClient is an in-memory stand-in for the business endpoints. Catalog,
// forecasts and intents are seeded by tests; tracked items mutate like the
// real monitoring service.
type FakeClient struct {
	lock sync.Mutex

	Catalog   []string
	Snapshots map[string]*backend.StockSnapshot
	Forecasts map[string]*backend.Forecast
	Intents   map[string]*backend.Intent
	Tracked   map[int64][]string
	Alerts    map[int64][]string
	Draft     *document.Draft
	Warning   bool
	LawNews   string

	Uploads       []string
	ForecastCalls int

	// Fail makes every call return an error, for upstream-failure paths.
	Fail bool
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		Snapshots: make(map[string]*backend.StockSnapshot),
		Forecasts: make(map[string]*backend.Forecast),
		Intents:   make(map[string]*backend.Intent),
		Tracked:   make(map[int64][]string),
		Alerts:    make(map[int64][]string),
	}
}

func (f *FakeClient) SearchProducts(_ context.Context, query string) ([]string, error) {
	if f.Fail {
		return nil, errors.New("backend unavailable")
	}
	var matches []string
	for _, name := range f.Catalog {
		if strings.Contains(strings.ToLower(name), strings.ToLower(query)) {
			matches = append(matches, name)
		}
	}
	return matches, nil
}

func (f *FakeClient) StockSnapshot(_ context.Context, product string) (*backend.StockSnapshot, error) {
	if f.Fail {
		return nil, errors.New("backend unavailable")
	}
	snapshot, ok := f.Snapshots[product]
	if !ok {
		return nil, errors.New("no snapshot for product")
	}
	return snapshot, nil
}

func (f *FakeClient) Forecast(_ context.Context, product string, _ int) (*backend.Forecast, error) {
	f.lock.Lock()
	f.ForecastCalls++
	f.lock.Unlock()
	if f.Fail {
		return nil, errors.New("backend unavailable")
	}
	forecast, ok := f.Forecasts[product]
	if !ok {
		return nil, errors.New("no forecast for product")
	}
	return forecast, nil
}

func (f *FakeClient) AssembleDocument(_ context.Context, _ string, _ int64, _ int, startDate, endDate string) (*document.Draft, bool, error) {
	if f.Fail {
		return nil, false, errors.New("backend unavailable")
	}
	draft := f.Draft.Clone()
	if draft == nil {
		draft = &document.Draft{}
	}
	draft.Normalize()
	draft.Rows[0].DeliverySchedule.Dates.StartDate = document.Value(startDate)
	draft.Rows[0].DeliverySchedule.Dates.EndDate = document.Value(endDate)
	return draft, f.Warning, nil
}

func (f *FakeClient) ClassifyIntent(_ context.Context, text string) (*backend.Intent, error) {
	if f.Fail {
		return nil, errors.New("backend unavailable")
	}
	if intent, ok := f.Intents[text]; ok {
		return intent, nil
	}
	return &backend.Intent{Kind: backend.IntentUnknown}, nil
}

func (f *FakeClient) AddTrackedItem(_ context.Context, userID int64, product string) (bool, error) {
	if f.Fail {
		return false, errors.New("backend unavailable")
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	for _, name := range f.Tracked[userID] {
		if name == product {
			return false, nil
		}
	}
	f.Tracked[userID] = append(f.Tracked[userID], product)
	return true, nil
}

func (f *FakeClient) RemoveTrackedItem(_ context.Context, userID int64, product string) (bool, error) {
	if f.Fail {
		return false, errors.New("backend unavailable")
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	items := f.Tracked[userID]
	for i, name := range items {
		if name == product {
			f.Tracked[userID] = append(items[:i], items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeClient) ListTrackedItems(_ context.Context, userID int64) ([]string, error) {
	if f.Fail {
		return nil, errors.New("backend unavailable")
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.Tracked[userID]...), nil
}

func (f *FakeClient) StockAlerts(_ context.Context, userID int64) ([]string, error) {
	if f.Fail {
		return nil, errors.New("backend unavailable")
	}
	return f.Alerts[userID], nil
}

func (f *FakeClient) UploadSpreadsheet(_ context.Context, _ backend.UploadKind, filename string, _ []byte) error {
	if f.Fail {
		return errors.New("backend unavailable")
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	f.Uploads = append(f.Uploads, filename)
	return nil
}

func (f *FakeClient) PollLawUpdates(_ context.Context) (string, error) {
	if f.Fail {
		return "", errors.New("backend unavailable")
	}
	return f.LawNews, nil
}
