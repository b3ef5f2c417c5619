package session

// TraceContext captures decisions made while locating and reading session logs.
// When nil is passed to functions, they operate normally without tracing overhead.
type TraceContext struct {
	ProjectPath      string
	EncodedPath      string
	SessionDir       string
	SessionDirExists bool
	FoundFiles       []string

	Files []FileTrace
}

// FileTrace explains what was read from a single session file
type FileTrace struct {
	Path      string
	Lines     int
	Malformed int
	Records   int
	ReadError string

	// Filled in by the analysis pass
	Events         int // user/assistant records with a usable timestamp
	OtherType      int // records that are neither user nor assistant
	NoTimestamp    int
	BadTimestamp   int
	OutsideDay     int // dropped by the day filter
	GenuinePrompts int
}

// FindOrCreateFileTrace finds an existing trace for a file or creates a new one
func (t *TraceContext) FindOrCreateFileTrace(path string) *FileTrace {
	for i := range t.Files {
		if t.Files[i].Path == path {
			return &t.Files[i]
		}
	}
	t.Files = append(t.Files, FileTrace{Path: path})
	return &t.Files[len(t.Files)-1]
}
