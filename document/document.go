// Package document defines the draft procurement record assembled during the
// conversation. Its fields mirror the purchase-request JSON consumed by the
// procurement endpoint: a handful of top-level identifiers plus one repeated
// line-item block, of which the dialog always edits the first row.
package document

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a scalar document field. The procurement endpoint emits a mix of
// strings and numbers; editing always replaces values with user-entered text,
// so everything is normalized to a string on decode.
type Value string

// UnmarshalJSON accepts any JSON scalar and stores its textual form.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Value(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Value(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = Value(strconv.FormatBool(b))
		return nil
	}
	if string(data) == "null" {
		*v = ""
		return nil
	}
	return fmt.Errorf("unsupported scalar value: %s", string(data))
}

func (v Value) String() string { return string(v) }

type Dates struct {
	StartDate Value `json:"start_date"`
	EndDate   Value `json:"end_date"`
}

type DeliverySchedule struct {
	Dates          Dates `json:"dates"`
	DeliveryAmount Value `json:"deliveryAmount"`
	Year           Value `json:"year"`
}

type Address struct {
	GarID Value `json:"gar_id"`
	Text  Value `json:"text"`
}

// Row is the repeated line-item block of the purchase request.
type Row struct {
	DeliverySchedule DeliverySchedule `json:"DeliverySchedule"`
	Address          Address          `json:"address"`
	EntityID         Value            `json:"entityId"`
	ID               Value            `json:"id"`
	NMC              Value            `json:"nmc"`
	OkeiCode         Value            `json:"okei_code"`
	PurchaseAmount   Value            `json:"purchaseAmount"`
}

// Draft is the in-progress structured procurement record.
type Draft struct {
	ID          Value `json:"id"`
	LotEntityID Value `json:"lotEntityId"`
	CustomerID  Value `json:"CustomerId"`
	Rows        []Row `json:"rows"`
}

// Normalize guarantees the draft carries at least one line-item row so the
// field walk always has a row to address.
func (d *Draft) Normalize() {
	if len(d.Rows) == 0 {
		d.Rows = []Row{{}}
	}
}

// Clone returns a deep copy of the draft.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	clone := *d
	clone.Rows = make([]Row, len(d.Rows))
	copy(clone.Rows, d.Rows)
	return &clone
}
