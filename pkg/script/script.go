// Package script parses the container mutation language: one statement per
// line that inserts, removes, replaces or inspects sectioned records.
package script

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/bisegni/sds/pkg/container"
	"github.com/bisegni/sds/pkg/query"
)

// Kind identifies a statement.
type Kind int

const (
	Insert Kind = iota
	Remove
	Replace
	InsertSection
	ReplaceSection
	Append
	RemoveSection
	Clear
	Find
	Filter
	FilterOff
	Show
)

var kindNames = [...]string{
	Insert:         "INSERT",
	Remove:         "REMOVE",
	Replace:        "REPLACE",
	InsertSection:  "INSERT SECTION",
	ReplaceSection: "REPLACE SECTION",
	Append:         "APPEND",
	RemoveSection:  "REMOVE SECTION",
	Clear:          "CLEAR",
	Find:           "FIND",
	Filter:         "FILTER",
	FilterOff:      "FILTER OFF",
	Show:           "SHOW",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Mutates reports whether statements of this kind change the container.
func (k Kind) Mutates() bool {
	return k <= Clear
}

// Statement is one parsed statement (IR).
type Statement struct {
	Kind Kind
	Line int

	// Value is the object of INSERT and REPLACE.
	Value interface{}
	// Values are the objects of the section statements and APPEND.
	Values []interface{}
	At     container.Position
	// Section is the target section index; -1 appends (INSERT SECTION only).
	Section int
	Reload  bool
	Name    string
	Title   *string
	// Cond is the predicate of FIND and FILTER.
	Cond query.Expression
}

// SectionOptions returns the metadata carried by a section statement.
func (s *Statement) SectionOptions() container.SectionOptions {
	opts := container.Named(s.Name)
	if s.Title != nil {
		opts = opts.WithIndexTitle(*s.Title)
	}
	return opts
}

func (s *Statement) String() string {
	var b strings.Builder
	b.WriteString(s.Kind.String())
	switch s.Kind {
	case Insert, Replace:
		fmt.Fprintf(&b, " %v AT %d,%d", s.Value, s.At.Section, s.At.Row)
		if s.Reload {
			b.WriteString(" RELOAD")
		}
	case Remove:
		fmt.Fprintf(&b, " %d,%d", s.At.Section, s.At.Row)
	case InsertSection:
		fmt.Fprintf(&b, " %v", s.Values)
		if s.Section >= 0 {
			fmt.Fprintf(&b, " AT %d", s.Section)
		}
	case ReplaceSection:
		fmt.Fprintf(&b, " %d WITH %v", s.Section, s.Values)
	case Append:
		fmt.Fprintf(&b, " %v TO %d", s.Values, s.Section)
	case RemoveSection:
		fmt.Fprintf(&b, " %d", s.Section)
	}
	if s.Name != "" {
		fmt.Fprintf(&b, " NAMED %q", s.Name)
	}
	if s.Title != nil {
		fmt.Fprintf(&b, " TITLE %q", *s.Title)
	}
	return b.String()
}

func (p *ASTPosition) toPosition() container.Position {
	return container.Position{Section: p.Section, Row: p.Row}
}

// Lexer definition
var (
	scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Keyword", Pattern: `(?i)\b(INSERT|REMOVE|REPLACE|RELOAD|SECTION|APPEND|CLEAR|FIND|FILTER|OFF|SHOW|AT|TO|WITH|NAMED|TITLE|AND|OR|NOT|CONTAINS|TRUE|FALSE|NULL)\b`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Number", Pattern: `[-+]?\d+(\.\d+)?([eE][-+]?\d+)?`},
		{Name: "String", Pattern: `'[^']*'|"(\\.|[^"\\])*"`},
		{Name: "Operator", Pattern: `>=|<=|!=|==|~=|[=<>]`},
		{Name: "Punct", Pattern: `[-+*/,.;:()\[\]{}]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	scriptParser = participle.MustBuild[ASTScript](
		participle.Lexer(scriptLexer),
		participle.Unquote("String"),
		participle.CaseInsensitive("Keyword"),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(2),
	)
)

// Parse parses a whole script.
func Parse(input string) ([]*Statement, error) {
	ast, err := scriptParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	out := make([]*Statement, 0, len(ast.Statements))
	for _, s := range ast.Statements {
		out = append(out, s.ToStatement())
	}
	return out, nil
}

// ParseStatement parses exactly one statement, as typed in the REPL.
func ParseStatement(input string) (*Statement, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty statement")
	}
	stmts, err := Parse(input)
	if err != nil {
		return nil, err
	}
	if len(stmts) != 1 {
		return nil, fmt.Errorf("expected one statement, got %d", len(stmts))
	}
	return stmts[0], nil
}
