package source

import "fmt"

// FileID identifies a file registered with a Manager. Zero is invalid.
type FileID uint32

// ExpansionID identifies a macro expansion record. Zero means "not a macro
// location".
type ExpansionID uint32

// Location is a point in the translation unit. A file location names a file,
// line and column; a macro location names an expansion record and a column
// offset into the expansion's immediate spelling.
type Location struct {
	File   FileID
	Line   int
	Column int

	Expansion ExpansionID
	Offset    int
}

// FileLoc builds a file location.
func FileLoc(file FileID, line, column int) Location {
	return Location{File: file, Line: line, Column: column}
}

// MacroLoc builds a macro location.
func MacroLoc(exp ExpansionID, offset int) Location {
	return Location{Expansion: exp, Offset: offset}
}

func (l Location) IsValid() bool {
	return l.Expansion != 0 || l.File != 0
}

func (l Location) IsMacroID() bool {
	return l.Expansion != 0
}

func (l Location) IsFileID() bool {
	return l.Expansion == 0 && l.File != 0
}

// Shift moves the location right by n columns.
func (l Location) Shift(n int) Location {
	if l.IsMacroID() {
		l.Offset += n
		return l
	}
	l.Column += n
	return l
}

func (l Location) String() string {
	switch {
	case l.IsMacroID():
		if l.Offset != 0 {
			return fmt.Sprintf("#%d+%d", l.Expansion, l.Offset)
		}
		return fmt.Sprintf("#%d", l.Expansion)
	case l.File != 0:
		return fmt.Sprintf("%d:%d:%d", l.File, l.Line, l.Column)
	}
	return "<invalid>"
}

// Range is a closed source range; End is the location of the last token.
type Range struct {
	Begin Location
	End   Location
}

func (r Range) IsValid() bool {
	return r.Begin.IsValid()
}

// Position is a resolved, human readable file position. Lines and columns
// are 1-based.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) IsValid() bool {
	return p.Filename != "" && p.Line > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}
