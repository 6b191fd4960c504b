package document

import "fmt"

// Field is one named, addressable slot of a Draft. Field identity and order
// are fixed at template definition time; editing never adds or removes
// fields, only replaces values.
type Field struct {
	Label string
	get   func(*Draft) Value
	set   func(*Draft, Value)
}

// fields lists the draft's editable slots in presentation order. The first
// three address the document head, the rest the first line-item row.
var fields = []Field{
	{
		Label: "Идентификатор расчета",
		get:   func(d *Draft) Value { return d.ID },
		set:   func(d *Draft, v Value) { d.ID = v },
	},
	{
		Label: "Идентификатор лота",
		get:   func(d *Draft) Value { return d.LotEntityID },
		set:   func(d *Draft, v Value) { d.LotEntityID = v },
	},
	{
		Label: "Идентификатор заказчика",
		get:   func(d *Draft) Value { return d.CustomerID },
		set:   func(d *Draft, v Value) { d.CustomerID = v },
	},
	{
		Label: "Дата начала поставки",
		get:   func(d *Draft) Value { return d.Rows[0].DeliverySchedule.Dates.StartDate },
		set:   func(d *Draft, v Value) { d.Rows[0].DeliverySchedule.Dates.StartDate = v },
	},
	{
		Label: "Дата окончания поставки",
		get:   func(d *Draft) Value { return d.Rows[0].DeliverySchedule.Dates.EndDate },
		set:   func(d *Draft, v Value) { d.Rows[0].DeliverySchedule.Dates.EndDate = v },
	},
	{
		Label: "Объем поставки",
		get:   func(d *Draft) Value { return d.Rows[0].DeliverySchedule.DeliveryAmount },
		set:   func(d *Draft, v Value) { d.Rows[0].DeliverySchedule.DeliveryAmount = v },
	},
	{
		Label: "Год",
		get:   func(d *Draft) Value { return d.Rows[0].DeliverySchedule.Year },
		set:   func(d *Draft, v Value) { d.Rows[0].DeliverySchedule.Year = v },
	},
	{
		Label: "Идентификатор ГАР адреса",
		get:   func(d *Draft) Value { return d.Rows[0].Address.GarID },
		set:   func(d *Draft, v Value) { d.Rows[0].Address.GarID = v },
	},
	{
		Label: "Адрес в текстовой форме",
		get:   func(d *Draft) Value { return d.Rows[0].Address.Text },
		set:   func(d *Draft, v Value) { d.Rows[0].Address.Text = v },
	},
	{
		Label: "Сквозной идентификатор СПГЗ",
		get:   func(d *Draft) Value { return d.Rows[0].EntityID },
		set:   func(d *Draft, v Value) { d.Rows[0].EntityID = v },
	},
	{
		Label: "Идентификатор СПГЗ",
		get:   func(d *Draft) Value { return d.Rows[0].ID },
		set:   func(d *Draft, v Value) { d.Rows[0].ID = v },
	},
	{
		Label: "Сумма спецификации",
		get:   func(d *Draft) Value { return d.Rows[0].NMC },
		set:   func(d *Draft, v Value) { d.Rows[0].NMC = v },
	},
	{
		Label: "Ед. измерения по ОКЕИ",
		get:   func(d *Draft) Value { return d.Rows[0].OkeiCode },
		set:   func(d *Draft, v Value) { d.Rows[0].OkeiCode = v },
	},
	{
		Label: "Объем закупки",
		get:   func(d *Draft) Value { return d.Rows[0].PurchaseAmount },
		set:   func(d *Draft, v Value) { d.Rows[0].PurchaseAmount = v },
	},
}

// FieldCount returns the number of editable fields.
func FieldCount() int {
	return len(fields)
}

// FieldLabel returns the display label of the field at the given index.
func FieldLabel(index int) (string, error) {
	if index < 0 || index >= len(fields) {
		return "", fmt.Errorf("field index %d out of range", index)
	}
	return fields[index].Label, nil
}

// FieldValue returns the current value of the field at the given index.
func FieldValue(d *Draft, index int) (Value, error) {
	if index < 0 || index >= len(fields) {
		return "", fmt.Errorf("field index %d out of range", index)
	}
	d.Normalize()
	return fields[index].get(d), nil
}

// SetFieldValue replaces the value of the field at the given index. No
// validation is performed; structural validation belongs to the endpoint that
// consumes the finished document.
func SetFieldValue(d *Draft, index int, value string) error {
	if index < 0 || index >= len(fields) {
		return fmt.Errorf("field index %d out of range", index)
	}
	d.Normalize()
	fields[index].set(d, Value(value))
	return nil
}
