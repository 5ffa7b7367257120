package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/bisegni/sds/pkg/container"
	"github.com/bisegni/sds/pkg/journal"
	"github.com/bisegni/sds/pkg/parser"
	"github.com/bisegni/sds/pkg/selection"
	"github.com/bisegni/sds/pkg/tableview"
)

var (
	viewSingle  bool
	viewJournal string
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Browse and edit sections in the terminal",
	Long: `Open a record file as a scrolling sectioned list. Deleting rows and
sections goes through the container, and the list follows the change
events.

Keys:
  j, down     next line        k, up      previous line
  space       toggle selection enter      expand / collapse
  d           delete row       D          delete section
  a           select all       q, esc     quit

The selected records are printed on exit. With --journal the change events
are also written to a file while the list follows them.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().BoolVar(&viewSingle, "single", false, "Allow only one selected record")
	viewCmd.Flags().StringVar(&viewJournal, "journal", "", "Write change events to this file")
}

// browser holds the state of the view command between key presses.
type browser struct {
	array   *container.Array[parser.Record]
	view    *tableview.TableView[parser.Record]
	sel     *selection.List[parser.Record]
	journal *journal.Journal
	screen  tcell.Screen

	top    int
	cursor int
	status string
}

func sameRecord(a, b parser.Record) bool {
	return a.ID() == b.ID()
}

// newBrowser attaches a list view to a. When events is set, a journal
// observes the same array next to the view.
func newBrowser(a *container.Array[parser.Record], screen tcell.Screen, multi bool, events io.Writer) *browser {
	b := &browser{array: a, screen: screen}
	b.sel = selection.New[parser.Record](a, sameRecord, multi)

	b.view = tableview.New[parser.Record](a)
	b.view.Format = func(r parser.Record) string {
		mark := "  "
		if b.sel.IsSelected(r) {
			mark = "* "
		}
		return mark + recordLabel(r)
	}
	b.view.Detail = recordDetail
	if settings != nil {
		b.view.ShowIndexTitles = settings.IndexTitles
		b.view.EmptyText = settings.ViewEmptyText
	}
	// rows are texted on insert, so reload once Format is in place
	b.view.ReloadData()
	b.view.OnRedraw = b.draw

	if events != nil {
		b.journal = journal.New(events, eventFormat())
		a.SetDelegate(container.Multicast{b.view, b.journal})
	}
	return b
}

// recordDetail lists the fields of a record one per line.
func recordDetail(r parser.Record) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		if k != parser.IDField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	lines := make([]string, len(keys))
	for i, k := range keys {
		v, err := json.Marshal(r[k])
		if err != nil {
			v = []byte(fmt.Sprint(r[k]))
		}
		lines[i] = k + ": " + string(v)
	}
	return lines
}

// height is the number of list lines; the last screen line is the status bar.
func (b *browser) height() int {
	_, h := b.screen.Size()
	if settings != nil && settings.ViewHeight > 0 && settings.ViewHeight < h {
		h = settings.ViewHeight + 1
	}
	if h < 2 {
		return 1
	}
	return h - 1
}

func (b *browser) clamp() {
	n := len(b.view.Lines())
	if b.cursor >= n {
		b.cursor = n - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	h := b.height()
	if b.cursor < b.top {
		b.top = b.cursor
	}
	if b.cursor >= b.top+h {
		b.top = b.cursor - h + 1
	}
}

func (b *browser) draw() {
	b.clamp()
	b.view.Render(b.screen, b.top, b.cursor)

	w, h := b.screen.Size()
	sections, rows := 0, 0
	for _, s := range b.array.Sections() {
		sections++
		rows += s.NumberOfObjects()
	}
	status := fmt.Sprintf("sections %d  rows %d  selected %d", sections, rows, len(b.sel.Selected()))
	if b.status != "" {
		status += "  " + b.status
	}
	style := tcell.StyleDefault.Reverse(true)
	runes := []rune(status)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		b.screen.SetContent(x, h-1, r, nil, style)
	}
	b.screen.Show()
}

// current returns the row under the cursor, if any.
func (b *browser) current() (container.Position, bool) {
	lines := b.view.Lines()
	if b.cursor < 0 || b.cursor >= len(lines) {
		return container.Position{}, false
	}
	switch l := lines[b.cursor]; l.Kind {
	case tableview.RowLine, tableview.DetailLine:
		return l.At, true
	}
	return container.Position{}, false
}

// currentSection returns the section of the line under the cursor.
func (b *browser) currentSection() (int, bool) {
	lines := b.view.Lines()
	if b.cursor < 0 || b.cursor >= len(lines) || lines[b.cursor].Kind == tableview.MessageLine {
		return 0, false
	}
	return lines[b.cursor].At.Section, true
}

// handleKey applies one key press and reports whether the browser should
// keep running.
func (b *browser) handleKey(ev *tcell.EventKey) bool {
	b.status = ""
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyDown:
		b.cursor++
	case tcell.KeyUp:
		b.cursor--
	case tcell.KeyPgDn:
		b.cursor += b.height()
	case tcell.KeyPgUp:
		b.cursor -= b.height()
	case tcell.KeyEnter:
		if p, ok := b.current(); ok {
			b.view.ToggleExpanded(p)
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'j':
			b.cursor++
		case 'k':
			b.cursor--
		case 'g':
			b.cursor = 0
		case 'G':
			b.cursor = len(b.view.Lines()) - 1
		case ' ':
			b.toggle()
		case 'a':
			b.sel.SelectAll()
			b.view.ReloadData()
		case 'd':
			if p, ok := b.current(); ok {
				b.report(b.array.Remove(p))
			}
		case 'D':
			if s, ok := b.currentSection(); ok {
				b.report(b.array.RemoveSection(s))
			}
		}
	}
	b.draw()
	return true
}

// toggle flips the selection of the current row and replaces it in place so
// the list restyles it without losing its expansion.
func (b *browser) toggle() {
	p, ok := b.current()
	if !ok {
		return
	}
	r, ok := b.array.Object(p)
	if !ok {
		return
	}
	b.sel.Toggle(r)
	b.report(b.array.Replace(r, p, false))
}

// report shows a failed edit in the status bar. After a successful one it
// drops selected records the edit removed.
func (b *browser) report(err error) {
	if err != nil {
		b.status = err.Error()
		glog.Warningf("view: %v", err)
	} else if n := b.sel.Prune(); n > 0 {
		glog.V(1).Infof("view: %d selected record(s) removed", n)
	}
	if err := b.view.Err(); err != nil {
		b.status = err.Error()
	}
	if b.journal != nil && b.journal.Err() != nil {
		b.status = b.journal.Err().Error()
	}
}

func (b *browser) run() {
	b.draw()
	for {
		switch ev := b.screen.PollEvent().(type) {
		case *tcell.EventResize:
			b.screen.Sync()
			b.draw()
		case *tcell.EventKey:
			if !b.handleKey(ev) {
				return
			}
		case nil:
			return
		}
	}
}

func runView(cmd *cobra.Command, args []string) error {
	a, _, err := loadContainer(args[0])
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}

	var events io.Writer
	if viewJournal != "" {
		f, err := os.Create(viewJournal)
		if err != nil {
			screen.Fini()
			return fmt.Errorf("failed to create journal: %w", err)
		}
		defer f.Close()
		events = f
	}

	b := newBrowser(a, screen, !viewSingle, events)
	var chosen []parser.Record
	b.sel.OnDone = func(rs []parser.Record) { chosen = rs }
	b.run()
	screen.Fini()

	b.sel.Done()
	for _, r := range chosen {
		fmt.Fprintln(cmd.OutOrStdout(), recordLabel(r))
	}
	return nil
}
