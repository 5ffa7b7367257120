package query

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func sample() map[string]interface{} {
	return map[string]interface{}{
		"name": "Alice",
		"age":  float64(30),
		"address": map[string]interface{}{
			"city": "Rome",
		},
		"tags": []interface{}{"admin", "ops"},
		"pets": []interface{}{
			map[string]interface{}{"kind": "cat"},
			map[string]interface{}{"kind": "dog"},
		},
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		path    string
		want    interface{}
		wantErr bool
	}{
		{"name", "Alice", false},
		{".address.city", "Rome", false},
		{"tags.1", "ops", false},
		{"pets.*.kind", []interface{}{"cat", "dog"}, false},
		{"tags.7", nil, true},
		{"tags.x", nil, true},
		{"missing", nil, true},
		{"name.first", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Extract(sample(), tt.path)
			if tt.wantErr {
				assert.NotEqual(t, err, nil)
				return
			}
			assert.Equal(t, err, nil)
			assert.Equal(t, got, tt.want)
		})
	}
}

func TestParsePath(t *testing.T) {
	assert.Equal(t, ParsePath(".a..b"), Path{"a", "b"})
	assert.Equal(t, ParsePath("a.b").String(), "a.b")
	assert.Equal(t, len(ParsePath("")), 0)
}

func TestFilterMatch(t *testing.T) {
	tests := []struct {
		name string
		f    *Filter
		want bool
	}{
		{"equal string", NewFilter("name", "=", "Alice"), true},
		{"double equal alias", NewFilter("name", "==", "Alice"), true},
		{"not equal", NewFilter("name", "!=", "Bob"), true},
		{"numeric equal across types", NewFilter("age", "=", 30), true},
		{"numeric string compare", NewFilter("age", ">", "29"), true},
		{"greater equal", NewFilter("age", ">=", float64(30)), true},
		{"less", NewFilter("age", "<", 18), false},
		{"less equal", NewFilter("age", "<=", 30), true},
		{"non numeric order", NewFilter("name", ">", 1), false},
		{"contains", NewFilter("name", "contains", "lic"), true},
		{"tilde alias", NewFilter("address.city", "~=", "om"), true},
		{"any element", NewFilter("tags", "=", "ops"), true},
		{"nested wildcard", NewFilter("pets.*.kind", "=", "dog"), true},
		{"missing field", NewFilter("nope", "!=", "x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.f.Match(sample()), tt.want)
		})
	}
}

func TestExpressions(t *testing.T) {
	alice := &Condition{Filter: NewFilter("name", "=", "Alice")}
	young := &Condition{Filter: NewFilter("age", "<", 20)}

	assert.Equal(t, All(alice, young).Evaluate(sample()), false)
	assert.Equal(t, Any(alice, young).Evaluate(sample()), true)
	assert.Equal(t, (&NotExpression{Operand: young}).Evaluate(sample()), true)
	assert.Equal(t, All(), nil)
	assert.Equal(t, Any(alice), Expression(alice))
}
