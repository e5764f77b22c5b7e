package client

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/attaboy/slotcheck/internal/domain"
	"github.com/shopspring/decimal"
)

// object is a decoded JSON object whose fields are checked one by one, so a
// schema violation names the offending field. Numbers are parsed from their
// literal text.
type object map[string]json.RawMessage

func (o object) has(key string) bool {
	raw, ok := o[key]
	return ok && !isNull(raw)
}

func (o object) number(op, key string) (decimal.Decimal, error) {
	raw, err := o.field(op, key)
	if err != nil {
		return decimal.Zero, err
	}
	if !isNumber(raw) {
		return decimal.Zero, domain.ErrSchema(op, key, "is not a number")
	}
	v, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, domain.ErrSchema(op, key, "is not a decimal number")
	}
	return v, nil
}

func (o object) integer(op, key string) (int64, error) {
	raw, err := o.field(op, key)
	if err != nil {
		return 0, err
	}
	if !isNumber(raw) {
		return 0, domain.ErrSchema(op, key, "is not a number")
	}
	// 123.0 and 1.23e2 are integral too; some services emit them.
	v, err := decimal.NewFromString(string(raw))
	if err != nil || !v.IsInteger() {
		return 0, domain.ErrSchema(op, key, "is not an integer")
	}
	n := v.BigInt()
	if !n.IsInt64() {
		return 0, domain.ErrSchema(op, key, "overflows int64")
	}
	return n.Int64(), nil
}

func (o object) str(op, key string) (string, error) {
	raw, err := o.field(op, key)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", domain.ErrSchema(op, key, "is not a string")
	}
	return s, nil
}

// identifier accepts a string or a number and returns its text.
func (o object) identifier(op, key string) (string, error) {
	raw, err := o.field(op, key)
	if err != nil {
		return "", err
	}
	if isNumber(raw) {
		return string(raw), nil
	}
	return o.str(op, key)
}

func (o object) array(op, key string) ([]json.RawMessage, error) {
	raw, err := o.field(op, key)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, domain.ErrSchema(op, key, "is not an array")
	}
	return items, nil
}

func (o object) child(op, key string) (object, error) {
	raw, err := o.field(op, key)
	if err != nil {
		return nil, err
	}
	var nested object
	if err := json.Unmarshal(raw, &nested); err != nil || nested == nil {
		return nil, domain.ErrSchema(op, key, "is not an object")
	}
	return nested, nil
}

// expectString checks that key holds exactly want.
func (o object) expectString(op, key, want string) error {
	got, err := o.str(op, key)
	if err != nil {
		return err
	}
	if got != want {
		return domain.ErrSchema(op, key, strconv.Quote(got)+" != "+strconv.Quote(want))
	}
	return nil
}

// expectUser checks that key holds the user id the request was made for.
func (o object) expectUser(op, key string, userID int64) error {
	got, err := o.integer(op, key)
	if err != nil {
		return err
	}
	if got != userID {
		return domain.ErrSchema(op, key, "is "+strconv.FormatInt(got, 10)+", want "+strconv.FormatInt(userID, 10))
	}
	return nil
}

func (o object) field(op, key string) (json.RawMessage, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil, domain.ErrSchema(op, key, "is missing")
	}
	return raw, nil
}

// symbols renders reel entries as strings: JSON strings are unquoted, any
// other value keeps its literal text.
func symbols(items []json.RawMessage) []string {
	out := make([]string, len(items))
	for i, raw := range items {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			out[i] = s
			continue
		}
		out[i] = string(bytes.TrimSpace(raw))
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func isNumber(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9'))
}
