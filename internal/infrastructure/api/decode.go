package api

import (
	"encoding/json"
	"fmt"

	"jobdeck/internal/domain"
)

// Some deployments return collections bare, others wrap them in a data
// envelope. Both are accepted; anything else is malformed.

func decodeList[T any](raw json.RawMessage, what string) ([]T, error) {
	if len(raw) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var env struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}
	return nil, fmt.Errorf("%w: decoding %s list", domain.ErrMalformedResponse, what)
}

func decodeObject[T any](raw json.RawMessage, what string) (T, error) {
	var zero T
	if len(raw) == 0 {
		return zero, fmt.Errorf("%w: empty %s body", domain.ErrMalformedResponse, what)
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		// The envelope holds either the object itself or a single-element
		// array of it.
		var out T
		if err := json.Unmarshal(env.Data, &out); err == nil {
			return out, nil
		}
		var list []T
		if err := json.Unmarshal(env.Data, &list); err == nil && len(list) > 0 {
			return list[0], nil
		}
		return zero, fmt.Errorf("%w: decoding %s envelope", domain.ErrMalformedResponse, what)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("%w: decoding %s: %v", domain.ErrMalformedResponse, what, err)
	}
	return out, nil
}
