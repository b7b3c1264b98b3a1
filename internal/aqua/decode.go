package aqua

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The ticketing service answers with whatever field names and nesting
// its current backend happens to produce: bare arrays or wrapped
// objects, several synonyms per field, numbers as strings. Decoders
// here accept the known variants and degrade to empty results on
// anything else; they never fail.

var (
	listWrapperKeys   = []string{"sessions", "tariffs", "data", "items", "result", "response"}
	sessionTimeKeys   = []string{"time", "session", "start", "name", "title"}
	tariffNameKeys    = []string{"name", "title", "tariff"}
	tariffPriceKeys   = []string{"price", "cost", "value", "amount"}
	tariffDescKeys    = []string{"description", "desc", "comment"}
	loadKeys          = []string{"load", "value", "percent", "current", "occupancy"}
)

// DecodeSessions extracts time-slot labels from a sessions response.
func DecodeSessions(data []byte) []string {
	items := unwrapList(data)
	out := make([]string, 0, len(items))
	for _, item := range items {
		var label string
		if err := json.Unmarshal(item, &label); err == nil {
			label = strings.TrimSpace(label)
			if label != "" {
				out = append(out, label)
			}
			continue
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		if label = firstString(obj, sessionTimeKeys); label != "" {
			out = append(out, label)
		}
	}
	return out
}

// DecodeTariffs extracts tariffs from a tariffs response. Entries
// without a recognizable name are dropped.
func DecodeTariffs(data []byte) []Tariff {
	items := unwrapList(data)
	out := make([]Tariff, 0, len(items))
	for _, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		name := firstString(obj, tariffNameKeys)
		if name == "" {
			continue
		}
		price, _ := firstNumber(obj, tariffPriceKeys)
		out = append(out, Tariff{
			Name:        name,
			Price:       price,
			Description: firstString(obj, tariffDescKeys),
		})
	}
	return out
}

// DecodeLoad extracts an occupancy percentage. Accepts a bare number,
// a numeric string, or an object with one of the known keys.
func DecodeLoad(data []byte) (int, bool) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return 0, false
	}

	var num float64
	if err := json.Unmarshal([]byte(trimmed), &num); err == nil {
		return int(num), true
	}
	var str string
	if err := json.Unmarshal([]byte(trimmed), &str); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			return int(v), true
		}
		return 0, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return 0, false
	}
	if v, ok := firstNumber(obj, loadKeys); ok {
		return int(v), true
	}
	return 0, false
}

// unwrapList accepts either a bare JSON array or an object wrapping the
// array under a known key. Anything else yields an empty list.
func unwrapList(data []byte) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err == nil {
		return items
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	for _, key := range listWrapperKeys {
		raw, ok := lookup(obj, key)
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &items); err == nil {
			return items
		}
	}
	return nil
}

func firstString(obj map[string]json.RawMessage, keys []string) string {
	for _, key := range keys {
		raw, ok := lookup(obj, key)
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstNumber(obj map[string]json.RawMessage, keys []string) (float64, bool) {
	for _, key := range keys {
		raw, ok := lookup(obj, key)
		if !ok {
			continue
		}
		var num float64
		if err := json.Unmarshal(raw, &num); err == nil {
			return num, true
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

// lookup matches keys case-insensitively, since the service is not
// consistent about casing either.
func lookup(obj map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	if raw, ok := obj[key]; ok {
		return raw, true
	}
	for k, raw := range obj {
		if strings.EqualFold(k, key) {
			return raw, true
		}
	}
	return nil, false
}
