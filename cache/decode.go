package cache

import (
	"encoding/json"
)

// DecodeFunc turns cached or fetched content into the caller's type.
type DecodeFunc[T any] func(content Value) (T, error)

// DecodeJSON returns a decoder that unmarshals the content into T with
// encoding/json.
func DecodeJSON[T any]() DecodeFunc[T] {
	return func(content Value) (T, error) {
		var out T
		data, err := content.MarshalJSON()
		if err != nil {
			return out, err
		}
		if err := json.Unmarshal(data, &out); err != nil {
			return out, err
		}
		return out, nil
	}
}

// DecodeValue returns the content tree unchanged.
func DecodeValue(content Value) (Value, error) {
	return content, nil
}
