package container

import "fmt"

// Position addresses one object inside a container.
type Position struct {
	Section int
	Row     int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Section, p.Row)
}

// Ptr returns a pointer to a copy of p, for use in change events.
func (p Position) Ptr() *Position {
	return &p
}
