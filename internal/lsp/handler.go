package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"cxxlint/internal/config"
	"cxxlint/internal/driver"
)

var log = commonlog.GetLogger("cxxlint.lsp")

// Handler implements the language server for AST dump documents. Opening
// or editing a dump analyzes it and publishes diagnostics both on the dump
// and on the C++ sources it describes.
type Handler struct {
	Name    string
	Version string

	mu      sync.RWMutex
	config  *config.Config
	content map[string]string

	// published remembers, per dump, the documents it last published
	// diagnostics for.
	published map[string][]protocol.DocumentUri
}

// NewHandler returns a handler. With a nil cfg each dump uses the
// configuration file found from its directory.
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{
		Name:      "cxxlint",
		config:    cfg,
		content:   make(map[string]string),
		published: make(map[string][]protocol.DocumentUri),
	}
}

// Initialize advertises the server's capabilities.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	info := &protocol.InitializeResultServerInfo{Name: h.Name}
	if h.Version != "" {
		info.Version = ptrString(h.Version)
	}
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
		ServerInfo: info,
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen analyzes the opened dump.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("opened %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.setContent(path, params.TextDocument.Text)
	h.publish(ctx, path, h.Diagnostics(path, params.TextDocument.Text))
	return nil
}

// TextDocumentDidChange applies the changes and analyzes the dump again.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	text, _ := h.text(path)
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case *protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			text = applyChange(text, c.Range, c.Text)
		case *protocol.TextDocumentContentChangeEvent:
			text = applyChange(text, c.Range, c.Text)
		default:
			return fmt.Errorf("unsupported content change %T", change)
		}
	}
	h.setContent(path, text)
	h.publish(ctx, path, h.Diagnostics(path, text))
	return nil
}

// TextDocumentDidSave analyzes the dump again; the sources it names may
// have been saved too.
func (h *Handler) TextDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	text, ok := h.text(path)
	if params.Text != nil {
		text, ok = *params.Text, true
		h.setContent(path, text)
	}
	if !ok {
		return nil
	}
	h.publish(ctx, path, h.Diagnostics(path, text))
	return nil
}

// TextDocumentDidClose forgets the dump and clears what it published.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("closed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.content, path)
	h.mu.Unlock()
	h.publish(ctx, path, nil)
	return nil
}

// TextDocumentSemanticTokensFull highlights a whole dump.
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	text, ok := h.text(path)
	if !ok {
		data, err := os.ReadFile(path) // #nosec G304 -- path of a document the client asked about
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		text = string(data)
	}
	tokens := CollectSemanticTokens(path, text)
	return &protocol.SemanticTokens{Data: EncodeSemanticTokens(tokens)}, nil
}

// Diagnostics analyzes dump text and groups the result by document.
func (h *Handler) Diagnostics(path, text string) map[protocol.DocumentUri][]protocol.Diagnostic {
	return ConvertResult(driver.AnalyzeSource(path, text, h.configFor(path)))
}

func (h *Handler) configFor(path string) *config.Config {
	if h.config != nil {
		return h.config
	}
	cfg, err := config.LoadOrDefault(filepath.Dir(path))
	if err != nil {
		log.Warningf("%s: using default configuration: %v", path, err)
		return config.Default()
	}
	return cfg
}

func (h *Handler) setContent(path, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.content[path] = text
}

func (h *Handler) text(path string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	text, ok := h.content[path]
	return text, ok
}

// publish sends diagnostics for every document in diags and empties the
// documents the dump published to before but no longer does.
func (h *Handler) publish(ctx *glsp.Context, path string, diags map[protocol.DocumentUri][]protocol.Diagnostic) {
	uris := make([]protocol.DocumentUri, 0, len(diags))
	for uri := range diags {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	h.mu.Lock()
	stale := h.published[path]
	if len(uris) == 0 {
		delete(h.published, path)
	} else {
		h.published[path] = uris
	}
	h.mu.Unlock()

	for _, uri := range stale {
		if _, ok := diags[uri]; !ok {
			notify(ctx, uri, []protocol.Diagnostic{})
		}
	}
	for _, uri := range uris {
		notify(ctx, uri, diags[uri])
	}
}

func notify(ctx *glsp.Context, uri protocol.DocumentUri, diags []protocol.Diagnostic) {
	if diags == nil {
		diags = []protocol.Diagnostic{}
	}
	log.Debug(describe(uri, diags))
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

// applyChange replaces the range r of text, or all of it when r is nil.
func applyChange(text string, r *protocol.Range, replacement string) string {
	if r == nil {
		return replacement
	}
	start := offsetOf(text, r.Start)
	end := max(offsetOf(text, r.End), start)
	return text[:start] + replacement + text[end:]
}

// offsetOf converts a position counted in UTF-16 units to a byte offset,
// clamping to the end of its line.
func offsetOf(text string, pos protocol.Position) int {
	off := 0
	for line := uint32(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[off:], '\n')
		if i < 0 {
			return len(text)
		}
		off += i + 1
	}
	units := uint32(0)
	for off < len(text) && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[off:])
		if r == '\n' {
			break
		}
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		units += uint32(n) // #nosec G115 -- one or two
		off += size
	}
	return off
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func pathToURI(path string) protocol.DocumentUri {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
