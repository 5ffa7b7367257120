// Package tableview adapts a container to a scrolling terminal list. A
// TableView is the container's Delegate: it mirrors sections and rows,
// applies each change batch and checks the result against the container
// when the batch closes.
package tableview

import (
	"errors"
	"fmt"

	"github.com/golang/glog"

	"github.com/bisegni/sds/pkg/container"
)

// ErrInconsistentUpdate is recorded when, at the end of a batch, the mirrored
// rows no longer match the container.
var ErrInconsistentUpdate = errors.New("inconsistent update")

// Row is one mirrored cell.
type Row[T any] struct {
	Object   T
	Text     string
	Expanded bool
}

type section[T any] struct {
	name       string
	indexTitle string
	hasTitle   bool
	rows       []*Row[T]
}

// TableView mirrors a Container[T] and redraws after every change batch.
type TableView[T any] struct {
	source container.Container[T]
	mirror []*section[T]

	// Format renders a row; defaults to fmt.Sprint.
	Format func(T) string
	// Detail returns the extra lines shown under an expanded row.
	Detail func(T) []string
	// Header overrides the header title of a section. Returning false falls
	// back to the section name.
	Header func(s container.SectionInfo, index int) (string, bool)
	// RemoveEmptyHeaders collapses headers whose title is empty.
	RemoveEmptyHeaders bool
	// ShowIndexTitles draws the section index column.
	ShowIndexTitles bool
	EmptyText       string
	RefreshingText  string

	// OnRedraw runs after each applied batch.
	OnRedraw func()
	// OnSelect runs when a row is selected.
	OnSelect func(obj T, at container.Position)
	// OnNearEnd runs from Render when the visible window gets within one
	// and a half screens of the last line.
	OnNearEnd func()

	refreshing bool
	inBatch    bool
	batches    int
	err        error
}

// New attaches a view to c, replacing c's delegate, and loads the current
// content.
func New[T any](c container.Container[T]) *TableView[T] {
	v := &TableView[T]{
		source:             c,
		RemoveEmptyHeaders: true,
		EmptyText:          "no data",
		RefreshingText:     "refreshing...",
	}
	c.SetDelegate(v)
	v.ReloadData()
	return v
}

// Container returns the observed container.
func (v *TableView[T]) Container() container.Container[T] {
	return v.source
}

// Err returns the last inconsistency found at the end of a batch.
func (v *TableView[T]) Err() error {
	return v.err
}

// Batches counts the change batches applied so far.
func (v *TableView[T]) Batches() int {
	return v.batches
}

func (v *TableView[T]) BeginRefreshing() { v.refreshing = true }
func (v *TableView[T]) EndRefreshing()   { v.refreshing = false }
func (v *TableView[T]) Refreshing() bool { return v.refreshing }

// ReloadData rebuilds the mirror from the container, dropping expansion state.
func (v *TableView[T]) ReloadData() {
	infos := v.source.Sections()
	v.mirror = make([]*section[T], len(infos))
	for i, info := range infos {
		v.mirror[i] = v.newSection(info)
	}
}

func (v *TableView[T]) newSection(info container.SectionInfo) *section[T] {
	s := &section[T]{name: info.Name()}
	s.indexTitle, s.hasTitle = info.IndexTitle()
	for _, o := range info.Objects() {
		s.rows = append(s.rows, v.newRow(o))
	}
	return s
}

func (v *TableView[T]) newRow(obj any) *Row[T] {
	r := &Row[T]{}
	if t, ok := obj.(T); ok {
		r.Object = t
	}
	r.Text = v.text(r.Object)
	return r
}

func (v *TableView[T]) text(obj T) string {
	if v.Format != nil {
		return v.Format(obj)
	}
	return fmt.Sprint(obj)
}

// NumberOfSections and NumberOfRows report the mirrored layout.
func (v *TableView[T]) NumberOfSections() int {
	return len(v.mirror)
}

func (v *TableView[T]) NumberOfRows(section int) int {
	if section < 0 || section >= len(v.mirror) {
		return 0
	}
	return len(v.mirror[section].rows)
}

// Row returns the mirrored row at p.
func (v *TableView[T]) Row(p container.Position) (*Row[T], bool) {
	if p.Section < 0 || p.Section >= len(v.mirror) {
		return nil, false
	}
	rows := v.mirror[p.Section].rows
	if p.Row < 0 || p.Row >= len(rows) {
		return nil, false
	}
	return rows[p.Row], true
}

// HeaderTitle returns the header text of a section; ok is false when the
// header is collapsed.
func (v *TableView[T]) HeaderTitle(index int) (string, bool) {
	if index < 0 || index >= len(v.mirror) {
		return "", false
	}
	title := v.mirror[index].name
	if v.Header != nil {
		if infos := v.source.Sections(); index < len(infos) {
			if t, ok := v.Header(infos[index], index); ok {
				title = t
			}
		}
	}
	if title == "" && v.RemoveEmptyHeaders {
		return "", false
	}
	return title, true
}

// SectionIndexTitles lists the index titles of sections that have one.
func (v *TableView[T]) SectionIndexTitles() []string {
	var out []string
	for _, s := range v.mirror {
		if s.hasTitle {
			out = append(out, s.indexTitle)
		}
	}
	return out
}

// SectionForIndexTitle maps an index title to the first section carrying it.
func (v *TableView[T]) SectionForIndexTitle(title string) (int, bool) {
	for i, s := range v.mirror {
		if s.hasTitle && s.indexTitle == title {
			return i, true
		}
	}
	return 0, false
}

// Position classifies the row at p.
func (v *TableView[T]) Position(p container.Position) (RowPosition, bool) {
	return PositionOf(v.source, p)
}

// ToggleExpanded flips the expansion of the row at p and returns the new
// state.
func (v *TableView[T]) ToggleExpanded(p container.Position) bool {
	r, ok := v.Row(p)
	if !ok {
		return false
	}
	r.Expanded = !r.Expanded
	v.redraw()
	return r.Expanded
}

// Select reports the row at p to OnSelect.
func (v *TableView[T]) Select(p container.Position) bool {
	obj, ok := v.source.Object(p)
	if !ok {
		return false
	}
	if v.OnSelect != nil {
		v.OnSelect(obj, p)
	}
	return true
}

// Delegate

func (v *TableView[T]) WillChangeContent(c container.ContainerInfo) {
	glog.V(2).Infof("view: begin batch %d", v.batches+1)
	v.inBatch = true
}

func (v *TableView[T]) DidChangeObject(c container.ContainerInfo, obj any, from *container.Position, kind container.ChangeType, to *container.Position) {
	glog.V(2).Infof("view: %s %v -> %v", kind, from, to)
	switch kind {
	case container.Insert:
		if to != nil {
			v.insertRow(*to, v.newRow(obj))
		}
	case container.Delete:
		if from != nil {
			v.deleteRow(*from)
		}
	case container.Move:
		if from != nil && to != nil && *from != *to {
			v.deleteRow(*from)
			v.insertRow(*to, v.newRow(obj))
		}
		if to != nil {
			v.reloadRow(*to, obj)
		}
	case container.Update:
		// reconfigure in place, keeping expansion
		if from != nil {
			if r, ok := v.Row(*from); ok {
				if t, ok := obj.(T); ok {
					r.Object = t
				}
				r.Text = v.text(r.Object)
			}
		}
	case container.Reload:
		if from != nil {
			v.reloadRow(*from, obj)
		}
	case container.ReloadAll:
		v.ReloadData()
	}
	if !v.inBatch {
		v.endBatch(c)
	}
}

func (v *TableView[T]) DidChangeSection(c container.ContainerInfo, info container.SectionInfo, index int, kind container.ChangeType) {
	glog.V(2).Infof("view: section %s at %d", kind, index)
	switch kind {
	case container.Insert:
		if index >= 0 && index <= len(v.mirror) {
			v.mirror = append(v.mirror, nil)
			copy(v.mirror[index+1:], v.mirror[index:])
			v.mirror[index] = v.newSection(info)
		}
	case container.Delete:
		if index >= 0 && index < len(v.mirror) {
			v.mirror = append(v.mirror[:index], v.mirror[index+1:]...)
		}
	case container.Update, container.Reload:
		if index >= 0 && index < len(v.mirror) {
			v.mirror[index] = v.newSection(info)
		}
	default:
		v.ReloadData()
	}
	if !v.inBatch {
		v.endBatch(c)
	}
}

func (v *TableView[T]) DidChangeContent(c container.ContainerInfo) {
	v.endBatch(c)
}

func (v *TableView[T]) endBatch(c container.ContainerInfo) {
	v.inBatch = false
	v.batches++
	if err := v.verify(c); err != nil {
		glog.Warningf("view: %v; reloading", err)
		v.err = err
		v.ReloadData()
	}
	v.redraw()
}

// verify compares mirrored counts with the container, the way a table view
// checks its data source when an update block ends.
func (v *TableView[T]) verify(c container.ContainerInfo) error {
	if n := c.NumberOfSections(); n != len(v.mirror) {
		return fmt.Errorf("%w: %d sections after update, container has %d", ErrInconsistentUpdate, len(v.mirror), n)
	}
	for i, s := range v.mirror {
		if n := c.NumberOfItems(i); n != len(s.rows) {
			return fmt.Errorf("%w: section %d has %d rows after update, container has %d", ErrInconsistentUpdate, i, len(s.rows), n)
		}
	}
	return nil
}

func (v *TableView[T]) insertRow(p container.Position, r *Row[T]) {
	if p.Section < 0 || p.Section >= len(v.mirror) {
		return
	}
	s := v.mirror[p.Section]
	if p.Row < 0 || p.Row > len(s.rows) {
		return
	}
	s.rows = append(s.rows, nil)
	copy(s.rows[p.Row+1:], s.rows[p.Row:])
	s.rows[p.Row] = r
}

func (v *TableView[T]) deleteRow(p container.Position) {
	if _, ok := v.Row(p); !ok {
		return
	}
	s := v.mirror[p.Section]
	s.rows = append(s.rows[:p.Row], s.rows[p.Row+1:]...)
}

func (v *TableView[T]) reloadRow(p container.Position, obj any) {
	if _, ok := v.Row(p); ok {
		v.mirror[p.Section].rows[p.Row] = v.newRow(obj)
	}
}

func (v *TableView[T]) redraw() {
	if v.OnRedraw != nil {
		v.OnRedraw()
	}
}

var _ container.Delegate = (*TableView[int])(nil)
