package sdk

import (
	"encoding/json"
	"fmt"
)

// Encode converts a struct (or any JSON-encodable value that encodes to an
// object) into a Record using its json tags.
//
// Example:
//
//	rec, err := sdk.Encode(sdk.Card{CardNumber: "4111111111111111", CVV: "123"})
func Encode(v any) (*Record, error) {
	if rec, ok := v.(*Record); ok {
		return rec.Clone(), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	rec, err := DecodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("%T does not encode to an object: %w", v, err)
	}
	return rec, nil
}

// Decode converts a Record into T using T's json tags.
//
// Example:
//
//	info, err := sdk.Decode[sdk.PlanInfo](plan)
func Decode[T any](rec *Record) (T, error) {
	var out T
	if rec == nil {
		return out, fmt.Errorf("failed to decode %T: %w", out, ErrNotFound)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return out, fmt.Errorf("failed to encode record: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode %T: %w", out, err)
	}
	return out, nil
}

// DecodeAll decodes every record into T.
func DecodeAll[T any](recs []*Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for i, rec := range recs {
		v, err := Decode[T](rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// looseEqual compares filter values the way a form value is compared to a
// stored field: numbers and numeric strings by value, booleans by
// truthiness, and nil against any empty value.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return IsEmpty(a) && IsEmpty(b)
	}
	if ba, ok := a.(bool); ok {
		return ba == !IsEmpty(b)
	}
	if bb, ok := b.(bool); ok {
		return bb == !IsEmpty(a)
	}

	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum && bNum {
		return fa == fb
	}

	_, aStr := a.(string)
	_, bStr := b.(string)
	if aStr || bStr {
		return toString(a) == toString(b)
	}
	return valuesEqual(a, b)
}
