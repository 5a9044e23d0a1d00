package registry

import (
	"encoding/json"
	"fmt"
)

// ValueKind selects the wikibase datavalue encoding for a Value
type ValueKind string

const (
	KindItem        ValueKind = "item"
	KindString      ValueKind = "string"
	KindMonolingual ValueKind = "monolingualtext"
	KindQuantity    ValueKind = "quantity"
	KindTime        ValueKind = "time"
)

// Value is one statement or qualifier value in a form the edit API accepts
type Value struct {
	Kind ValueKind

	QID string // item

	Text     string // string, monolingualtext
	Language string // monolingualtext

	Amount  string // quantity, decimal as a string
	UnitQID string // quantity, empty means unitless

	Year      int // time
	Month     int
	Day       int
	Precision int
}

// ItemValue points a statement at another item
func ItemValue(qid string) Value {
	return Value{Kind: KindItem, QID: qid}
}

// StringValue holds a plain string (ids, URLs)
func StringValue(s string) Value {
	return Value{Kind: KindString, Text: s}
}

// MonolingualValue holds text tagged with its language
func MonolingualValue(text, language string) Value {
	return Value{Kind: KindMonolingual, Text: text, Language: language}
}

// QuantityValue holds a decimal amount with a unit item
func QuantityValue(amount, unitQID string) Value {
	return Value{Kind: KindQuantity, Amount: amount, UnitQID: unitQID}
}

// YearValue holds a point in time known to the given precision
func YearValue(year, precision int) Value {
	return Value{Kind: KindTime, Year: year, Precision: precision}
}

// DateValue holds a full calendar date
func DateValue(year, month, day int) Value {
	return Value{Kind: KindTime, Year: year, Month: month, Day: day, Precision: PrecisionDay}
}

const (
	calendarGregorian = "http://www.wikidata.org/entity/Q1985727"
	unitEntityPrefix  = "http://www.wikidata.org/entity/"
)

// MarshalDataValue renders the value as the JSON the wbcreateclaim and
// wbsetqualifier APIs expect in their value parameter
func (v Value) MarshalDataValue() (string, error) {
	var payload any
	switch v.Kind {
	case KindItem:
		payload = map[string]any{"entity-type": "item", "id": v.QID}
	case KindString:
		return jsonString(v.Text)
	case KindMonolingual:
		payload = map[string]any{"text": v.Text, "language": v.Language}
	case KindQuantity:
		unit := "1"
		if v.UnitQID != "" {
			unit = unitEntityPrefix + v.UnitQID
		}
		amount := v.Amount
		if amount != "" && amount[0] != '+' && amount[0] != '-' {
			amount = "+" + amount
		}
		payload = map[string]any{"amount": amount, "unit": unit}
	case KindTime:
		payload = map[string]any{
			"time":          fmt.Sprintf("+%04d-%02d-%02dT00:00:00Z", v.Year, v.Month, v.Day),
			"timezone":      0,
			"before":        0,
			"after":         0,
			"precision":     v.Precision,
			"calendarmodel": calendarGregorian,
		}
	default:
		return "", fmt.Errorf("unsupported value kind %q", v.Kind)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal %s value: %w", v.Kind, err)
	}
	return string(data), nil
}

func jsonString(s string) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
