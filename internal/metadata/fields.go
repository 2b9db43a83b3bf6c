package metadata

import (
	"encoding/json"
	"strconv"
	"strings"
)

// floatField returns the first key present in the bundle that coerces to a
// finite float. Bundles come from JSON columns and EXIF/XMP extraction, so
// numbers arrive as float64, json.Number or decorated strings ("+152.91").
func floatField(bundle map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		v, ok := bundle[key]
		if !ok || v == nil {
			continue
		}
		if f, ok := toFloat(v); ok {
			return &f
		}
	}
	return nil
}

func intField(bundle map[string]any, keys ...string) *int {
	if f := floatField(bundle, keys...); f != nil {
		i := int(*f)
		return &i
	}
	return nil
}

func stringField(bundle map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := bundle[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case json.Number:
		f, err := value.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
