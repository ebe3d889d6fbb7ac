package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fortio.org/safecast"
)

// FileFlags classify where a file comes from.
type FileFlags uint8

const (
	FileSystem     FileFlags = 1 << iota // system header, never diagnosed
	FileThirdParty                       // third-party header, diagnosed only via user code
)

// File is one entry of the file table.
type File struct {
	ID    FileID
	Path  string
	Flags FileFlags
	Text  *string // embedded content, if the dump carried it
}

// ExpansionKind tells whether a macro location comes from a macro body or
// from an argument the caller supplied.
type ExpansionKind uint8

const (
	MacroBody ExpansionKind = iota + 1
	MacroArg
)

func (k ExpansionKind) String() string {
	switch k {
	case MacroBody:
		return "body"
	case MacroArg:
		return "arg"
	}
	return "unknown"
}

// Expansion records one macro expansion step. Spelling is where the tokens
// of this step are immediately spelled (a macro definition for body
// expansions, the argument text for argument expansions); Caller is the
// location the expansion appears at in its immediate context.
type Expansion struct {
	ID       ExpansionID
	Kind     ExpansionKind
	Macro    string
	Spelling Location
	Caller   Location
}

// Manager is the file table and macro expansion map of one translation
// unit. It answers the provenance questions the passes ask.
type Manager struct {
	mainFile   FileID
	files      []File
	index      map[string]FileID
	expansions map[ExpansionID]*Expansion

	baseDir string
	mu      sync.Mutex
	lines   map[FileID][]string
	readErr map[FileID]error
}

func NewManager() *Manager {
	return &Manager{
		files:      make([]File, 0),
		index:      make(map[string]FileID),
		expansions: make(map[ExpansionID]*Expansion),
		lines:      make(map[FileID][]string),
		readErr:    make(map[FileID]error),
	}
}

// SetBaseDir sets the directory relative file paths are read from.
func (m *Manager) SetBaseDir(dir string) {
	m.baseDir = dir
}

// AddFile registers path, or updates the flags of an already known path.
func (m *Manager) AddFile(path string, flags FileFlags) FileID {
	path = filepath.ToSlash(filepath.Clean(path))
	if id, ok := m.index[path]; ok {
		m.files[id-1].Flags |= flags
		return id
	}
	n, err := safecast.Conv[uint32](len(m.files) + 1)
	if err != nil {
		panic(fmt.Errorf("file table overflow: %w", err))
	}
	id := FileID(n)
	m.files = append(m.files, File{ID: id, Path: path, Flags: flags})
	m.index[path] = id
	return id
}

// SetFileText embeds the content of a file so that token lookups do not
// need the file system.
func (m *Manager) SetFileText(id FileID, text string) {
	if f := m.file(id); f != nil {
		f.Text = &text
	}
}

// SetMainFile marks the file the translation unit was compiled from.
func (m *Manager) SetMainFile(id FileID) {
	m.mainFile = id
}

func (m *Manager) MainFile() FileID {
	return m.mainFile
}

// Lookup returns the id of a registered path.
func (m *Manager) Lookup(path string) (FileID, bool) {
	id, ok := m.index[filepath.ToSlash(filepath.Clean(path))]
	return id, ok
}

func (m *Manager) file(id FileID) *File {
	if id == 0 || int(id) > len(m.files) {
		return nil
	}
	return &m.files[id-1]
}

// File returns the file table entry for id.
func (m *Manager) File(id FileID) (File, bool) {
	f := m.file(id)
	if f == nil {
		return File{}, false
	}
	return *f, true
}

// Files returns all registered files in registration order.
func (m *Manager) Files() []File {
	out := make([]File, len(m.files))
	copy(out, m.files)
	return out
}

// AddExpansion registers a macro expansion record.
func (m *Manager) AddExpansion(e Expansion) error {
	if e.ID == 0 {
		return fmt.Errorf("expansion id must be positive")
	}
	if _, dup := m.expansions[e.ID]; dup {
		return fmt.Errorf("duplicate expansion #%d", e.ID)
	}
	if e.Kind != MacroBody && e.Kind != MacroArg {
		return fmt.Errorf("expansion #%d: unknown kind", e.ID)
	}
	m.expansions[e.ID] = &e
	return nil
}

// Expansion returns the record behind a macro location.
func (m *Manager) Expansion(loc Location) (*Expansion, bool) {
	if !loc.IsMacroID() {
		return nil, false
	}
	e, ok := m.expansions[loc.Expansion]
	return e, ok
}

// Validate checks that every expansion refers to known expansions and
// files, and that no expansion chain is cyclic.
func (m *Manager) Validate() error {
	for id, e := range m.expansions {
		for _, l := range []Location{e.Spelling, e.Caller} {
			if l.IsMacroID() {
				if _, ok := m.expansions[l.Expansion]; !ok {
					return fmt.Errorf("expansion #%d refers to unknown expansion #%d", id, l.Expansion)
				}
			} else if m.file(l.File) == nil {
				return fmt.Errorf("expansion #%d refers to an unknown file", id)
			}
		}
		seen := map[ExpansionID]bool{id: true}
		for l := e.Caller; l.IsMacroID(); {
			if seen[l.Expansion] {
				return fmt.Errorf("expansion #%d has a cyclic caller chain", id)
			}
			seen[l.Expansion] = true
			l = m.expansions[l.Expansion].Caller
		}
	}
	return nil
}

func (m *Manager) IsMacroBodyExpansion(loc Location) bool {
	e, ok := m.Expansion(loc)
	return ok && e.Kind == MacroBody
}

func (m *Manager) IsMacroArgExpansion(loc Location) bool {
	e, ok := m.Expansion(loc)
	return ok && e.Kind == MacroArg
}

// ImmediateSpellingLoc moves one step towards where the tokens at loc are
// spelled.
func (m *Manager) ImmediateSpellingLoc(loc Location) Location {
	e, ok := m.Expansion(loc)
	if !ok {
		return loc
	}
	return e.Spelling.Shift(loc.Offset)
}

// ImmediateExpansionLoc moves one step towards where loc appears after
// substitution.
func (m *Manager) ImmediateExpansionLoc(loc Location) Location {
	e, ok := m.Expansion(loc)
	if !ok {
		return loc
	}
	return e.Caller
}

// ImmediateMacroCallerLoc returns the location in the immediate caller of
// the macro: the argument text for argument expansions, the expansion point
// for body expansions.
func (m *Manager) ImmediateMacroCallerLoc(loc Location) Location {
	if m.IsMacroArgExpansion(loc) {
		return m.ImmediateSpellingLoc(loc)
	}
	return m.ImmediateExpansionLoc(loc)
}

// SpellingLoc resolves loc to the file location its characters come from.
func (m *Manager) SpellingLoc(loc Location) Location {
	for i := 0; loc.IsMacroID() && i <= len(m.expansions); i++ {
		loc = m.ImmediateSpellingLoc(loc)
	}
	return loc
}

// ExpansionLoc resolves loc to the file location it appears at after all
// macro substitution.
func (m *Manager) ExpansionLoc(loc Location) Location {
	for i := 0; loc.IsMacroID() && i <= len(m.expansions); i++ {
		loc = m.ImmediateExpansionLoc(loc)
	}
	return loc
}

// ImmediateMacroName names the macro whose expansion produced loc.
func (m *Manager) ImmediateMacroName(loc Location) string {
	e, ok := m.Expansion(loc)
	if !ok {
		return ""
	}
	return e.Macro
}

// IsAtStartOfImmediateMacroExpansion reports whether loc is the first token
// of its expansion.
func (m *Manager) IsAtStartOfImmediateMacroExpansion(loc Location) bool {
	return loc.IsMacroID() && loc.Offset == 0
}

// SkipMacroArgs walks argument expansions up to their callers, so that a
// location spelled as a macro argument is treated like the caller's text.
func (m *Manager) SkipMacroArgs(loc Location) Location {
	for i := 0; m.IsMacroArgExpansion(loc) && i <= len(m.expansions); i++ {
		loc = m.ImmediateMacroCallerLoc(loc)
	}
	return loc
}

func (m *Manager) flags(loc Location) FileFlags {
	if f := m.file(loc.File); f != nil {
		return f.Flags
	}
	return 0
}

// IsInSystemHeader tests the expansion location of loc.
func (m *Manager) IsInSystemHeader(loc Location) bool {
	return m.flags(m.ExpansionLoc(loc))&FileSystem != 0
}

// IsInThirdPartyFile tests the expansion location of loc. Callers pass a
// spelling location when they mean the origin of the text.
func (m *Manager) IsInThirdPartyFile(loc Location) bool {
	return m.flags(m.ExpansionLoc(loc))&FileThirdParty != 0
}

// Filename returns the path of the file loc expands into.
func (m *Manager) Filename(loc Location) string {
	if f := m.file(m.ExpansionLoc(loc).File); f != nil {
		return f.Path
	}
	return ""
}

// Position resolves loc to the position a user sees: its expansion
// location.
func (m *Manager) Position(loc Location) Position {
	return m.filePosition(m.ExpansionLoc(loc))
}

// SpellingPosition resolves loc to where its text is spelled.
func (m *Manager) SpellingPosition(loc Location) Position {
	return m.filePosition(m.SpellingLoc(loc))
}

func (m *Manager) filePosition(loc Location) Position {
	f := m.file(loc.File)
	if f == nil {
		return Position{}
	}
	return Position{Filename: f.Path, Line: loc.Line, Column: loc.Column}
}

// Describe renders loc with its macro context for debugging output.
func (m *Manager) Describe(loc Location) string {
	if !loc.IsMacroID() {
		return m.Position(loc).String()
	}
	e, _ := m.Expansion(loc)
	return fmt.Sprintf("%s (%s expansion of %s, spelled at %s)",
		m.Position(loc), e.Kind, e.Macro, m.SpellingPosition(loc))
}

// LineText returns the text of a line of a file, reading the file once.
func (m *Manager) LineText(id FileID, line int) (string, bool) {
	lines, err := m.fileLines(id)
	if err != nil || line < 1 || line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}

// SourceLine returns a line of a registered file by path.
func (m *Manager) SourceLine(filename string, line int) (string, bool) {
	id, ok := m.Lookup(filename)
	if !ok {
		return "", false
	}
	return m.LineText(id, line)
}

// TokenAt measures the identifier-like token spelled at a file location.
func (m *Manager) TokenAt(loc Location) (string, bool) {
	if !loc.IsFileID() {
		return "", false
	}
	text, ok := m.LineText(loc.File, loc.Line)
	if !ok || loc.Column < 1 || loc.Column > len(text) {
		return "", false
	}
	rest := text[loc.Column-1:]
	n := 0
	for n < len(rest) && isIdentByte(rest[n]) {
		n++
	}
	if n == 0 {
		return "", false
	}
	return rest[:n], true
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func (m *Manager) fileLines(id FileID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lines, ok := m.lines[id]; ok {
		return lines, nil
	}
	if err, ok := m.readErr[id]; ok {
		return nil, err
	}
	f := m.file(id)
	if f == nil {
		return nil, fmt.Errorf("unknown file %d", id)
	}
	var text string
	if f.Text != nil {
		text = *f.Text
	} else {
		path := f.Path
		if !filepath.IsAbs(path) && m.baseDir != "" {
			path = filepath.Join(m.baseDir, path)
		}
		// #nosec G304 -- paths come from the dump being analyzed
		data, err := os.ReadFile(path)
		if err != nil {
			m.readErr[id] = err
			return nil, err
		}
		text = string(data)
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	m.lines[id] = lines
	return lines, nil
}

// ResolvePath returns the path a file would be read from.
func (m *Manager) ResolvePath(id FileID) string {
	f := m.file(id)
	if f == nil {
		return ""
	}
	if !filepath.IsAbs(f.Path) && m.baseDir != "" {
		return filepath.Join(m.baseDir, f.Path)
	}
	return f.Path
}
