// Package engine runs mutation-language statements against a record
// container.
package engine

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/golang/glog"

	"github.com/bisegni/sds/pkg/container"
	"github.com/bisegni/sds/pkg/parser"
	"github.com/bisegni/sds/pkg/query"
	"github.com/bisegni/sds/pkg/script"
	"github.com/bisegni/sds/pkg/tableview"
)

// ValueField holds a non-object value inserted by a statement.
const ValueField = "value"

// Executor applies statements to an array of records. Mutations address the
// array; FILTER narrows the View, which SHOW prints.
type Executor struct {
	array *container.Array[parser.Record]
	keyed *container.Keyed[string, parser.Record]
	view  *container.Filtered[parser.Record]
	out   io.Writer

	// HideIDs drops the _id field from SHOW output.
	HideIDs bool

	applied int
}

func NewExecutor(a *container.Array[parser.Record], out io.Writer) *Executor {
	return &Executor{
		array: a,
		keyed: container.NewKeyed(a, parser.Record.ID),
		view:  container.NewFiltered[parser.Record](a),
		out:   out,
	}
}

// Array returns the mutated container.
func (e *Executor) Array() *container.Array[parser.Record] {
	return e.array
}

// View returns the filtered snapshot of the array.
func (e *Executor) View() *container.Filtered[parser.Record] {
	return e.view
}

// Applied counts successfully executed statements.
func (e *Executor) Applied() int {
	return e.applied
}

// RunScript parses and runs src, stopping at the first failing statement.
func (e *Executor) RunScript(src string) error {
	stmts, err := script.Parse(src)
	if err != nil {
		return err
	}
	return e.Run(stmts)
}

func (e *Executor) Run(stmts []*script.Statement) error {
	for _, st := range stmts {
		if err := e.Execute(st); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs one statement. A rejected mutation leaves the container and
// its observers untouched.
func (e *Executor) Execute(st *script.Statement) error {
	if err := e.execute(st); err != nil {
		return fmt.Errorf("line %d: %s: %w", st.Line, st.Kind, err)
	}
	e.applied++
	glog.V(1).Infof("executed line %d: %s", st.Line, st)
	if st.Kind.Mutates() {
		e.view.Refresh()
	}
	return nil
}

func (e *Executor) execute(st *script.Statement) error {
	a := e.array
	switch st.Kind {
	case script.Insert:
		return a.Insert(NewRecord(st.Value), st.At)
	case script.Remove:
		return a.Remove(st.At)
	case script.Replace:
		rec := NewRecord(st.Value)
		if old, ok := a.Object(st.At); ok && !hasID(st.Value) {
			// the replacement keeps the identity of the row it overwrites
			rec[parser.IDField] = old.ID()
		}
		return a.Replace(rec, st.At, st.Reload)
	case script.InsertSection:
		if st.Section < 0 {
			return a.AppendSection(NewRecords(st.Values), st.SectionOptions())
		}
		return a.InsertSection(NewRecords(st.Values), st.Section, st.SectionOptions())
	case script.ReplaceSection:
		return a.ReplaceSection(NewRecords(st.Values), st.Section, st.SectionOptions())
	case script.Append:
		return a.AppendObjects(NewRecords(st.Values), st.Section, st.SectionOptions())
	case script.RemoveSection:
		return a.RemoveSection(st.Section)
	case script.Clear:
		a.RemoveAll()
		return nil
	case script.Find:
		if p, ok := e.Find(st.Cond); ok {
			_, err := fmt.Fprintln(e.out, p)
			return err
		}
		_, err := fmt.Fprintln(e.out, "not found")
		return err
	case script.Filter:
		cond := st.Cond
		e.view.Filter(func(r parser.Record) bool { return cond.Evaluate(r) })
		return nil
	case script.FilterOff:
		e.view.Filter(nil)
		return nil
	case script.Show:
		_, err := fmt.Fprint(e.out, tableview.FormatTree(e.view, e.FormatRecord))
		return err
	default:
		return fmt.Errorf("unsupported statement")
	}
}

// Find returns the first array position whose record satisfies cond. An
// equality test on _id goes through the identity index.
func (e *Executor) Find(cond query.Expression) (container.Position, bool) {
	if c, ok := cond.(*query.Condition); ok && c.Filter.Field == parser.IDField && c.Filter.Operator == query.OpEqual {
		return e.keyed.IndexPathForKey(fmt.Sprint(c.Filter.Value))
	}
	return e.array.Search(func(_ container.Position, r parser.Record) bool {
		return cond.Evaluate(r)
	})
}

// FormatRecord renders one record as compact JSON.
func (e *Executor) FormatRecord(o any) string {
	r, ok := o.(parser.Record)
	if !ok {
		return fmt.Sprint(o)
	}
	if e.HideIDs {
		r = r.Clone()
		delete(r, parser.IDField)
	}
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprint(o)
	}
	return string(b)
}

// NewRecord turns a statement value into a record with an identity. Objects
// are copied; anything else is wrapped under ValueField.
func NewRecord(v interface{}) parser.Record {
	var r parser.Record
	if m, ok := v.(map[string]interface{}); ok {
		r = parser.Record(m).Clone()
	} else {
		r = parser.Record{ValueField: v}
	}
	if r.ID() == "" {
		r[parser.IDField] = parser.NewID()
	}
	return r
}

func NewRecords(values []interface{}) []parser.Record {
	out := make([]parser.Record, len(values))
	for i, v := range values {
		out[i] = NewRecord(v)
	}
	return out
}

func hasID(v interface{}) bool {
	m, ok := v.(map[string]interface{})
	if !ok {
		return false
	}
	_, ok = m[parser.IDField]
	return ok
}
