package query

import (
	"strconv"
	"strings"
	"time"
)

// Accepted layouts for date-typed values, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// coerceValue validates raw against the resolved column type and
// returns the typed value to bind. Values are never coerced across
// semantic types: a non-numeric string on an integer column is a
// TypeMismatchError, not a zero.
func coerceValue(field string, colType ColumnType, raw any) (any, error) {
	switch colType {
	case TypeInteger:
		return coerceInteger(field, raw)
	case TypeDecimal:
		return coerceDecimal(field, raw)
	case TypeBoolean:
		return coerceBoolean(field, raw)
	case TypeDate:
		return coerceDate(field, raw)
	case TypeText:
		return coerceText(field, raw)
	default:
		return raw, nil
	}
}

func coerceInteger(field string, raw any) (any, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		// JSON numbers arrive as float64; accept only integral ones.
		if v == float64(int64(v)) {
			return int64(v), nil
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n, nil
		}
	}
	return nil, NewTypeMismatchError(field, TypeInteger, raw)
}

func coerceDecimal(field string, raw any) (any, error) {
	switch v := raw.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, nil
		}
	}
	return nil, NewTypeMismatchError(field, TypeDecimal, raw)
}

func coerceBoolean(field string, raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
	}
	return nil, NewTypeMismatchError(field, TypeBoolean, raw)
}

func coerceDate(field string, raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		trimmed := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t, nil
			}
		}
	}
	return nil, NewTypeMismatchError(field, TypeDate, raw)
}

func coerceText(field string, raw any) (any, error) {
	if s, ok := raw.(string); ok {
		return s, nil
	}
	return nil, NewTypeMismatchError(field, TypeText, raw)
}
