package script

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/bisegni/sds/pkg/container"
)

func TestParseMutations(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, s *Statement)
	}{
		{
			input: `INSERT {name: 'Ann', age: 31} AT 0,2`,
			check: func(t *testing.T, s *Statement) {
				assert.Equal(t, s.Kind, Insert)
				assert.Equal(t, s.At, container.Position{Section: 0, Row: 2})
				assert.Equal(t, s.Value, map[string]interface{}{"name": "Ann", "age": float64(31)})
			},
		},
		{
			input: `remove 1,0`,
			check: func(t *testing.T, s *Statement) {
				assert.Equal(t, s.Kind, Remove)
				assert.Equal(t, s.At, container.Position{Section: 1, Row: 0})
			},
		},
		{
			input: `REPLACE "x" AT 0,0 RELOAD`,
			check: func(t *testing.T, s *Statement) {
				assert.Equal(t, s.Kind, Replace)
				assert.Equal(t, s.Value, "x")
				assert.Equal(t, s.Reload, true)
			},
		},
		{
			input: `REPLACE false AT 0,0`,
			check: func(t *testing.T, s *Statement) {
				assert.Equal(t, s.Value, false)
				assert.Equal(t, s.Reload, false)
			},
		},
		{
			input: `INSERT SECTION [1, 2] AT 1 NAMED 'fruit' TITLE 'F'`,
			check: func(t *testing.T, s *Statement) {
				assert.Equal(t, s.Kind, InsertSection)
				assert.Equal(t, s.Section, 1)
				assert.Equal(t, s.Values, []interface{}{float64(1), float64(2)})
				opts := s.SectionOptions()
				assert.Equal(t, opts.Name, "fruit")
				assert.Equal(t, *opts.IndexTitle, "F")
			},
		},
		{
			input: `INSERT SECTION`,
			check: func(t *testing.T, s *Statement) {
				assert.Equal(t, s.Kind, InsertSection)
				assert.Equal(t, s.Section, -1)
				assert.Equal(t, len(s.Values), 0)
				assert.Equal(t, s.Title, nil)
			},
		},
		{
			input: `REPLACE SECTION 0 WITH [null, {title: 'x'}] NAMED 'n'`,
			check: func(t *testing.T, s *Statement) {
				assert.Equal(t, s.Kind, ReplaceSection)
				assert.Equal(t, s.Values, []interface{}{nil, map[string]interface{}{"title": "x"}})
				assert.Equal(t, s.Name, "n")
			},
		},
		{
			input: `APPEND [{a: [1]}] TO 2`,
			check: func(t *testing.T, s *Statement) {
				assert.Equal(t, s.Kind, Append)
				assert.Equal(t, s.Section, 2)
			},
		},
		{
			input: `REMOVE SECTION 3`,
			check: func(t *testing.T, s *Statement) {
				assert.Equal(t, s.Kind, RemoveSection)
				assert.Equal(t, s.Section, 3)
			},
		},
		{
			input: `CLEAR`,
			check: func(t *testing.T, s *Statement) {
				assert.Equal(t, s.Kind, Clear)
				assert.Equal(t, s.Kind.Mutates(), true)
			},
		},
		{
			input: `show`,
			check: func(t *testing.T, s *Statement) {
				assert.Equal(t, s.Kind, Show)
				assert.Equal(t, s.Kind.Mutates(), false)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := ParseStatement(tt.input)
			if err != nil {
				t.Fatalf("ParseStatement(%q) failed: %v", tt.input, err)
			}
			tt.check(t, s)
		})
	}
}

func TestParseConditions(t *testing.T) {
	records := []map[string]interface{}{
		{"name": "apple", "kind": "fruit", "price": float64(3)},
		{"name": "beet", "kind": "veg", "price": float64(1)},
	}

	tests := []struct {
		input string
		want  []bool
	}{
		{`FIND kind = 'fruit'`, []bool{true, false}},
		{`FIND price >= 2`, []bool{true, false}},
		{`FIND kind = 'veg' OR price > 2`, []bool{true, true}},
		{`FIND kind = 'veg' AND price > 2`, []bool{false, false}},
		{`FIND NOT (kind == 'veg')`, []bool{true, false}},
		{`FILTER name contains 'ee'`, []bool{false, true}},
		{`FILTER name ~= 'pp'`, []bool{true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := ParseStatement(tt.input)
			if err != nil {
				t.Fatalf("ParseStatement(%q) failed: %v", tt.input, err)
			}
			for i, r := range records {
				assert.Equal(t, s.Cond.Evaluate(r), tt.want[i])
			}
		})
	}
}

func TestFilterOff(t *testing.T) {
	s, err := ParseStatement("FILTER OFF")
	assert.Equal(t, err, nil)
	assert.Equal(t, s.Kind, FilterOff)
	assert.Equal(t, s.Cond, nil)
}

func TestParseScript(t *testing.T) {
	src := `
# seed
INSERT SECTION NAMED 'a'
INSERT {n: 1} AT 0,0
INSERT {n: 2} AT 0,1; SHOW
REMOVE 0,0
`
	stmts, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(stmts), 5)
	assert.Equal(t, stmts[0].Line, 3)
	assert.Equal(t, stmts[3].Kind, Show)
	assert.Equal(t, stmts[4].Line, 6)
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"INSERT 1",
		"REMOVE 0",
		"APPEND [1] TO",
		"FIND name",
		"SHOW SHOW",
		"INSERT {a: 1} AT 0,1.5",
	} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseStatement(input); err == nil {
				t.Errorf("expected error for %q", input)
			}
		})
	}
}

func TestStatementString(t *testing.T) {
	s, err := ParseStatement(`REPLACE 1 AT 0,1 RELOAD`)
	assert.Equal(t, err, nil)
	assert.Equal(t, s.String(), "REPLACE 1 AT 0,1 RELOAD")
}
