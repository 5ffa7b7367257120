package script

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/bisegni/sds/pkg/query"
)

// AST for the participle parser. Each node lowers itself into the
// Statement IR below.

type ASTScript struct {
	Statements []*ASTStatement `parser:"(@@ ';'?)*"`
}

type ASTStatement struct {
	Pos lexer.Position

	InsertSection  *ASTSectionBody        `parser:"  'INSERT' 'SECTION' @@"`
	Insert         *ASTPlacedValue        `parser:"| 'INSERT' @@"`
	RemoveSection  *int                   `parser:"| 'REMOVE' 'SECTION' @Number"`
	Remove         *ASTPosition           `parser:"| 'REMOVE' @@"`
	ReplaceSection *ASTReplaceSectionBody `parser:"| 'REPLACE' 'SECTION' @@"`
	Replace        *ASTPlacedValue        `parser:"| 'REPLACE' @@"`
	Append         *ASTAppendBody         `parser:"| 'APPEND' @@"`
	Clear          bool                   `parser:"| @'CLEAR'"`
	FilterOff      bool                   `parser:"| 'FILTER' @'OFF'"`
	Filter         *ASTExpression         `parser:"| 'FILTER' @@"`
	Find           *ASTExpression         `parser:"| 'FIND' @@"`
	Show           bool                   `parser:"| @'SHOW'"`
}

type ASTPosition struct {
	Section int `parser:"@Number ','"`
	Row     int `parser:"@Number"`
}

type ASTPlacedValue struct {
	Value  *ASTValue    `parser:"@@ 'AT'"`
	At     *ASTPosition `parser:"@@"`
	Reload bool         `parser:"@'RELOAD'?"`
}

type ASTSectionMeta struct {
	Name  *string `parser:"('NAMED' @String)?"`
	Title *string `parser:"('TITLE' @String)?"`
}

type ASTSectionBody struct {
	Values *ASTList        `parser:"@@?"`
	At     *int            `parser:"('AT' @Number)?"`
	Meta   *ASTSectionMeta `parser:"@@"`
}

type ASTReplaceSectionBody struct {
	Index  int             `parser:"@Number 'WITH'"`
	Values *ASTList        `parser:"@@"`
	Meta   *ASTSectionMeta `parser:"@@"`
}

type ASTAppendBody struct {
	Values *ASTList        `parser:"@@ 'TO'"`
	Index  int             `parser:"@Number"`
	Meta   *ASTSectionMeta `parser:"@@"`
}

// Conditions

type ASTExpression struct {
	Or []*ASTOrCondition `parser:"@@ ('OR' @@)*"`
}

type ASTOrCondition struct {
	And []*ASTCondition `parser:"@@ ('AND' @@)*"`
}

type ASTCondition struct {
	Not     *ASTCondition  `parser:"  'NOT' @@"`
	Grouped *ASTExpression `parser:"| '(' @@ ')'"`
	Simple  *ASTComparison `parser:"| @@"`
}

type ASTComparison struct {
	Field *ASTPath  `parser:"@@"`
	Op    string    `parser:"@('=' | '==' | '!=' | '>=' | '<=' | '>' | '<' | '~=' | 'CONTAINS')"`
	Value *ASTValue `parser:"@@"`
}

type ASTPath struct {
	Parts []string `parser:"(@Ident | @Keyword) ('.' (@Ident | @Keyword | @Number | @'*'))*"`
}

func (p *ASTPath) String() string {
	return strings.Join(p.Parts, ".")
}

// Values

type ASTValue struct {
	Object *ASTObject  `parser:"  @@"`
	List   *ASTList    `parser:"| @@"`
	Number *float64    `parser:"| @Number"`
	String *string     `parser:"| @String"`
	Bool   *ASTBoolean `parser:"| @('TRUE' | 'FALSE')"`
	Null   bool        `parser:"| @'NULL'"`
}

type ASTObject struct {
	Entries []*ASTEntry `parser:"'{' (@@ (',' @@)*)? ','? '}'"`
}

type ASTEntry struct {
	Key   string    `parser:"(@Ident | @Keyword | @String) ':'"`
	Value *ASTValue `parser:"@@"`
}

type ASTList struct {
	Items []*ASTValue `parser:"'[' (@@ (',' @@)*)? ','? ']'"`
}

// ASTBoolean captures TRUE/FALSE by value; a plain bool field would be set
// on any match.
type ASTBoolean bool

func (b *ASTBoolean) Capture(values []string) error {
	*b = ASTBoolean(strings.EqualFold(values[0], "true"))
	return nil
}

// Lowering

func (v *ASTValue) Interface() interface{} {
	switch {
	case v == nil:
		return nil
	case v.Object != nil:
		out := make(map[string]interface{}, len(v.Object.Entries))
		for _, e := range v.Object.Entries {
			out[e.Key] = e.Value.Interface()
		}
		return out
	case v.List != nil:
		return v.List.Interface()
	case v.Number != nil:
		return *v.Number
	case v.String != nil:
		return *v.String
	case v.Bool != nil:
		return bool(*v.Bool)
	default:
		return nil
	}
}

func (l *ASTList) Interface() []interface{} {
	if l == nil {
		return nil
	}
	out := make([]interface{}, len(l.Items))
	for i, item := range l.Items {
		out[i] = item.Interface()
	}
	return out
}

func (e *ASTExpression) ToExpression() query.Expression {
	var ors []query.Expression
	for _, or := range e.Or {
		var ands []query.Expression
		for _, c := range or.And {
			ands = append(ands, c.ToExpression())
		}
		ors = append(ors, query.All(ands...))
	}
	return query.Any(ors...)
}

func (c *ASTCondition) ToExpression() query.Expression {
	switch {
	case c.Not != nil:
		return &query.NotExpression{Operand: c.Not.ToExpression()}
	case c.Grouped != nil:
		return c.Grouped.ToExpression()
	default:
		s := c.Simple
		return &query.Condition{Filter: query.NewFilter(s.Field.String(), s.Op, s.Value.Interface())}
	}
}

func (m *ASTSectionMeta) apply(st *Statement) {
	if m == nil {
		return
	}
	if m.Name != nil {
		st.Name = *m.Name
	}
	st.Title = m.Title
}

func (s *ASTStatement) ToStatement() *Statement {
	st := &Statement{Line: s.Pos.Line}
	switch {
	case s.InsertSection != nil:
		st.Kind = InsertSection
		st.Values = s.InsertSection.Values.Interface()
		st.Section = -1
		if s.InsertSection.At != nil {
			st.Section = *s.InsertSection.At
		}
		s.InsertSection.Meta.apply(st)
	case s.Insert != nil:
		st.Kind = Insert
		st.Value = s.Insert.Value.Interface()
		st.At = s.Insert.At.toPosition()
	case s.RemoveSection != nil:
		st.Kind = RemoveSection
		st.Section = *s.RemoveSection
	case s.Remove != nil:
		st.Kind = Remove
		st.At = s.Remove.toPosition()
	case s.ReplaceSection != nil:
		st.Kind = ReplaceSection
		st.Section = s.ReplaceSection.Index
		st.Values = s.ReplaceSection.Values.Interface()
		s.ReplaceSection.Meta.apply(st)
	case s.Replace != nil:
		st.Kind = Replace
		st.Value = s.Replace.Value.Interface()
		st.At = s.Replace.At.toPosition()
		st.Reload = s.Replace.Reload
	case s.Append != nil:
		st.Kind = Append
		st.Section = s.Append.Index
		st.Values = s.Append.Values.Interface()
		s.Append.Meta.apply(st)
	case s.Clear:
		st.Kind = Clear
	case s.FilterOff:
		st.Kind = FilterOff
	case s.Filter != nil:
		st.Kind = Filter
		st.Cond = s.Filter.ToExpression()
	case s.Find != nil:
		st.Kind = Find
		st.Cond = s.Find.ToExpression()
	case s.Show:
		st.Kind = Show
	}
	return st
}
