package watch

// EventKind classifies a change notification
type EventKind int

const (
	EventWrite EventKind = iota
	EventCreate
	EventRemove
	EventRename
)

func (k EventKind) String() string {
	switch k {
	case EventWrite:
		return "write"
	case EventCreate:
		return "create"
	case EventRemove:
		return "remove"
	case EventRename:
		return "rename"
	}
	return "unknown"
}

// Structural reports whether the event can change the set of files to analyze
func (k EventKind) Structural() bool {
	return k != EventWrite
}

// Event is one change notification for a path
type Event struct {
	Path string
	Kind EventKind
}

// Batch is the set of changes collected during one debounce window
type Batch struct {
	// Paths are the affected paths, sorted and without duplicates.
	Paths []string
	// Structural is set when files were created, removed or renamed, or an
	// ignore file changed. The caller should resolve paths again.
	Structural bool
}
