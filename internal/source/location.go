package source

import "fmt"

// Location is a position in a source file. Lines and columns are 1-based.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// String formats the location as file:line:column
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsZero reports whether the location is unset
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Column == 0
}

// Less orders locations by file, then line, then column
func (l Location) Less(o Location) bool {
	if l.File != o.File {
		return l.File < o.File
	}
	if l.Line != o.Line {
		return l.Line < o.Line
	}
	return l.Column < o.Column
}

// Compare returns -1, 0 or 1 in Less order
func (l Location) Compare(o Location) int {
	switch {
	case l.Less(o):
		return -1
	case o.Less(l):
		return 1
	}
	return 0
}
