package level

import "fmt"

type sourceKind int

const (
	sourceNone sourceKind = iota
	sourceFile
	sourceID
)

// Source names where a level record comes from: a local file or the level
// service by numeric identifier. The choice is resolved once, before the
// pipeline starts, instead of re-checking optional fields at every stage.
// The zero Source selects nothing.
type Source struct {
	kind sourceKind
	path string
	id   int64
}

// FromFile selects a local level file.
func FromFile(path string) Source {
	return Source{kind: sourceFile, path: path}
}

// FromID selects a fetch from the level service.
func FromID(id int64) Source {
	return Source{kind: sourceID, id: id}
}

// File returns the file path when the source is a local file.
func (s Source) File() (string, bool) {
	return s.path, s.kind == sourceFile
}

// ID returns the level identifier when the source is the level service.
func (s Source) ID() (int64, bool) {
	return s.id, s.kind == sourceID
}

// IsZero reports whether no source was selected.
func (s Source) IsZero() bool {
	return s.kind == sourceNone
}

// String describes the source for logs.
func (s Source) String() string {
	switch s.kind {
	case sourceFile:
		return fmt.Sprintf("file %q", s.path)
	case sourceID:
		return fmt.Sprintf("level %d", s.id)
	default:
		return "unset"
	}
}
