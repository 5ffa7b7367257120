package tableview

import "github.com/bisegni/sds/pkg/container"

// RowPosition tells where a row sits inside its section, for drawing
// grouped-style borders.
type RowPosition int

const (
	First RowPosition = iota
	Middle
	Last
	OnlyOne
)

func (p RowPosition) String() string {
	switch p {
	case First:
		return "first"
	case Middle:
		return "middle"
	case Last:
		return "last"
	case OnlyOne:
		return "onlyOne"
	default:
		return "unknown"
	}
}

// PositionOf classifies p against the row count of its section in c. ok is
// false when the section is empty or p is out of range.
func PositionOf(c container.ContainerInfo, p container.Position) (RowPosition, bool) {
	n := c.NumberOfItems(p.Section)
	if n == 0 || p.Row < 0 || p.Row >= n {
		return 0, false
	}
	switch {
	case n == 1:
		return OnlyOne, true
	case p.Row == 0:
		return First, true
	case p.Row == n-1:
		return Last, true
	default:
		return Middle, true
	}
}
