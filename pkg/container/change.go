package container

// ChangeType classifies one reported delta.
type ChangeType int

const (
	Insert ChangeType = iota
	Delete
	Update
	Move
	Reload
	ReloadAll
)

func (c ChangeType) String() string {
	switch c {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Update:
		return "update"
	case Move:
		return "move"
	case Reload:
		return "reload"
	case ReloadAll:
		return "reloadAll"
	default:
		return "unknown"
	}
}
