package model

// FileMetadata is the best-effort (municipality, year, month) extracted
// from a source file's path and name. Unresolvable parts stay empty.
type FileMetadata struct {
	Municipality string
	Year         string
	Month        string
}
