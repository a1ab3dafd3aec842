package domain

// ChangeKind is the type of change reported for a tracked path.
type ChangeKind uint8

const (
	// ChangeAdd indicates a file started being tracked.
	ChangeAdd ChangeKind = iota
	// ChangeEdit indicates a tracked file's content changed.
	ChangeEdit
	// ChangeDelete indicates a file stopped being tracked.
	ChangeDelete
)

// String returns the lowercase name of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdd:
		return "add"
	case ChangeEdit:
		return "edit"
	case ChangeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ChangeEvent is a single change to one tracked path.
type ChangeEvent struct {
	Kind ChangeKind
	Path string
}

// ChangeBatch is one coalesced notification from the file tracker.
// Snapshot is the registry state after every event in the batch.
type ChangeBatch struct {
	Events   []ChangeEvent
	Snapshot *Snapshot
}

// Paths returns the paths named by the batch's events, in order.
func (b ChangeBatch) Paths() []string {
	paths := make([]string, len(b.Events))
	for i, e := range b.Events {
		paths[i] = e.Path
	}
	return paths
}
