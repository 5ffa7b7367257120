package tableview

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bisegni/sds/pkg/container"
)

// LineKind tells what a rendered line shows.
type LineKind int

const (
	HeaderLine LineKind = iota
	RowLine
	DetailLine
	MessageLine
)

// Line is one screen line of the laid-out view.
type Line struct {
	Kind LineKind
	Text string
	// At addresses the row for RowLine and DetailLine, and the section
	// (At.Section) for HeaderLine.
	At       container.Position
	Position RowPosition
}

var rowGlyphs = map[RowPosition]string{
	First:   "┌ ",
	Middle:  "│ ",
	Last:    "└ ",
	OnlyOne: "─ ",
}

// Lines lays the mirror out top to bottom. With no rows at all it returns a
// single message line.
func (v *TableView[T]) Lines() []Line {
	var lines []Line
	rows := 0
	for si, s := range v.mirror {
		if title, ok := v.HeaderTitle(si); ok {
			lines = append(lines, Line{Kind: HeaderLine, Text: title, At: container.Position{Section: si}})
		}
		for ri, r := range s.rows {
			rows++
			p := container.Position{Section: si, Row: ri}
			rp := rowPosition(ri, len(s.rows))
			lines = append(lines, Line{Kind: RowLine, Text: rowGlyphs[rp] + r.Text, At: p, Position: rp})
			if r.Expanded && v.Detail != nil {
				for _, d := range v.Detail(r.Object) {
					lines = append(lines, Line{Kind: DetailLine, Text: "│     " + d, At: p, Position: rp})
				}
			}
		}
	}
	if rows == 0 {
		text := v.EmptyText
		if v.refreshing {
			text = v.RefreshingText
		}
		return []Line{{Kind: MessageLine, Text: text}}
	}
	return lines
}

func rowPosition(row, n int) RowPosition {
	switch {
	case n == 1:
		return OnlyOne
	case row == 0:
		return First
	case row == n-1:
		return Last
	default:
		return Middle
	}
}

// Render draws the lines starting at top onto screen, highlighting the line
// at index cursor (-1 for none). The caller shows the screen.
func (v *TableView[T]) Render(screen tcell.Screen, top, cursor int) {
	screen.Clear()
	w, h := screen.Size()
	lines := v.Lines()

	indexWidth := 0
	titles := v.SectionIndexTitles()
	if v.ShowIndexTitles {
		for _, t := range titles {
			if n := len([]rune(t)); n > indexWidth {
				indexWidth = n
			}
		}
	}
	textWidth := w
	if indexWidth > 0 {
		textWidth = w - indexWidth - 1
	}

	for y := 0; y < h && top+y < len(lines); y++ {
		i := top + y
		line := lines[i]
		style := tcell.StyleDefault
		switch line.Kind {
		case HeaderLine:
			style = style.Bold(true)
		case DetailLine, MessageLine:
			style = style.Dim(true)
		}
		if i == cursor {
			style = style.Reverse(true)
		}
		drawText(screen, 0, y, textWidth, line.Text, style)
	}

	if indexWidth > 0 {
		for y, t := range titles {
			if y >= h {
				break
			}
			drawText(screen, w-indexWidth, y, indexWidth, t, tcell.StyleDefault.Foreground(tcell.ColorYellow))
		}
	}

	if v.OnNearEnd != nil && float64(top)+1.5*float64(h) >= float64(len(lines)) {
		v.OnNearEnd()
	}
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		if width <= 0 {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
		width--
	}
}
