package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Operators understood by Filter.
const (
	OpEqual        = "="
	OpNotEqual     = "!="
	OpGreater      = ">"
	OpGreaterEqual = ">="
	OpLess         = "<"
	OpLessEqual    = "<="
	OpContains     = "contains"
)

// Filter represents a filtering condition
type Filter struct {
	Field    string
	Operator string
	Value    interface{}
}

// NewFilter creates a new filter. "==" and "~=" are accepted as aliases of
// "=" and "contains".
func NewFilter(field, operator string, value interface{}) *Filter {
	switch strings.ToLower(operator) {
	case "==":
		operator = OpEqual
	case "~=", "contains":
		operator = OpContains
	}
	return &Filter{
		Field:    field,
		Operator: operator,
		Value:    value,
	}
}

// Match checks if a record matches the filter. A missing field never matches.
func (f *Filter) Match(record map[string]interface{}) bool {
	value, err := Extract(record, f.Field)
	if err != nil {
		return false
	}
	return f.matchValue(value)
}

func (f *Filter) String() string {
	return fmt.Sprintf("%s %s %v", f.Field, f.Operator, f.Value)
}

func (f *Filter) matchValue(value interface{}) bool {
	// collections match when any element matches
	switch v := value.(type) {
	case map[string]interface{}:
		for _, val := range v {
			if f.matchValue(val) {
				return true
			}
		}
		return false
	case []interface{}:
		for _, val := range v {
			if f.matchValue(val) {
				return true
			}
		}
		return false
	}

	switch f.Operator {
	case OpEqual:
		return compareEqual(value, f.Value)
	case OpNotEqual:
		return !compareEqual(value, f.Value)
	case OpContains:
		return strings.Contains(fmt.Sprint(value), fmt.Sprint(f.Value))
	}

	a, aok := toFloat64(value)
	b, bok := toFloat64(f.Value)
	if !aok || !bok {
		return false
	}
	switch f.Operator {
	case OpGreater:
		return a > b
	case OpGreaterEqual:
		return a >= b
	case OpLess:
		return a < b
	case OpLessEqual:
		return a <= b
	default:
		return false
	}
}

func compareEqual(a, b interface{}) bool {
	if af, ok := toNumber(a); ok {
		if bf, ok := toNumber(b); ok {
			return af == bf
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
	case nil:
		return b == nil
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// toNumber converts only values that already are numbers.
func toNumber(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

// toFloat64 also accepts numeric strings.
func toFloat64(v interface{}) (float64, bool) {
	if f, ok := toNumber(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}
