package lsp

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/mods"
	"src.rho.sh/pkg/parse"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	engine *eval.Engine
	// Names offered for completion, sorted.
	names []string

	mu      sync.Mutex
	content map[lsp.DocumentURI]string
	// Serializes parsing, which interns symbols in the engine.
	parseMu sync.Mutex
}

func newServer() (*server, error) {
	e := eval.NewEngine(eval.Config{Stdout: io.Discard})
	if err := mods.AddTo(e); err != nil {
		e.Close()
		return nil, err
	}
	return &server{
		engine: e, names: completionNames(e),
		content: make(map[lsp.DocumentURI]string)}, nil
}

func (s *server) close() error { return s.engine.Close() }

// Names of functions visible without qualification, and the qualified names
// of the symbols exported by modules.
func completionNames(e *eval.Engine) []string {
	var names []string
	for _, name := range e.FunctionNames() {
		if r := []rune(name); isWordRune(r[0]) {
			names = append(names, name)
		}
	}
	for _, nsName := range e.ModuleNames() {
		ns := e.Symbols().Lookup(nsName)
		if ns == nil {
			continue
		}
		for _, name := range ns.Names(false) {
			names = append(names, nsName+":"+name)
		}
	}
	sort.Strings(names)
	return names
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,

		"initialized": noop,
		"shutdown":    noop,
		"exit":        noop,
		// Called by clients even when server doesn't advertise support:
		// https://microsoft.github.io/language-server-protocol/specification#workspace_didChangeWatchedFiles
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			CompletionProvider: &lsp.CompletionOptions{},
			HoverProvider:      true,
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.setContent(uri, content)
	go s.publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.setContent(uri, content)
	go s.publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) setContent(uri lsp.DocumentURI, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content[uri] = content
}

func (s *server) getContent(uri lsp.DocumentURI) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content[uri]
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	content := s.getContent(params.TextDocument.URI)
	idx := lspPositionToIdx(content, params.Position)
	from, to := wordAround(content, idx)
	word := content[from:to]
	if i := sort.SearchStrings(s.names, word); word == "" || i == len(s.names) || s.names[i] != word {
		return lsp.Hover{}, nil
	}
	rg := lsp.Range{
		Start: lspPositionFromIdx(content, from),
		End:   lspPositionFromIdx(content, to),
	}
	return lsp.Hover{
		Contents: []lsp.MarkedString{{Language: "rho", Value: word}},
		Range:    &rg,
	}, nil
}

func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.getContent(params.TextDocument.URI)
	dot := lspPositionToIdx(content, params.Position)
	from, _ := wordAround(content, dot)
	prefix := content[from:dot]
	lspRange := lsp.Range{
		Start: lspPositionFromIdx(content, from),
		End:   lspPositionFromIdx(content, dot),
	}

	items := []lsp.CompletionItem{}
	for _, name := range s.names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		items = append(items, lsp.CompletionItem{
			Label: name,
			Kind:  lsp.CIKFunction,
			TextEdit: &lsp.TextEdit{
				Range:   lspRange,
				NewText: name,
			},
		})
	}
	return items, nil
}

func (s *server) publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: s.diagnostics(uri, content)})
}

func (s *server) diagnostics(uri lsp.DocumentURI, content string) []lsp.Diagnostic {
	s.parseMu.Lock()
	err := s.engine.Parse(parse.NewStringSource(string(uri), content))
	s.parseMu.Unlock()
	if err == nil {
		return []lsp.Diagnostic{}
	}
	var pos diag.Position
	msg := err.Error()
	if pe := parse.GetError(err); pe != nil {
		pos, msg = pe.Pos, pe.Message
	}
	start := lspPositionFromDiag(content, pos)
	return []lsp.Diagnostic{{
		Range:    lsp.Range{Start: start, End: start},
		Severity: lsp.Error,
		Source:   "parse",
		Message:  msg,
	}}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Returns the byte range of the (possibly qualified) name around idx.
func wordAround(s string, idx int) (from, to int) {
	isNameRune := func(r rune) bool { return r == ':' || isWordRune(r) }
	from = idx
	for from > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:from])
		if !isNameRune(r) {
			break
		}
		from -= size
	}
	to = idx
	for _, r := range s[idx:] {
		if !isNameRune(r) {
			break
		}
		to += len(string(r))
	}
	return from, to
}

// Converts a 1-based line and column counted in runes.
func lspPositionFromDiag(s string, pos diag.Position) lsp.Position {
	if pos.IsZero() {
		return lsp.Position{}
	}
	var idx int
	walkRunes(s, func(i, line, col int) bool {
		idx = i
		return line < pos.Line || (line == pos.Line && col < pos.Col)
	})
	return lspPositionFromIdx(s, idx)
}

// Generates (index, line, col) triples in s with 1-based lines and columns,
// stopping if f returns false.
func walkRunes(s string, f func(i, line, col int) bool) {
	line, col := 1, 1
	for i, r := range s {
		if !f(i, line, col) {
			return
		}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	f(len(s), line, col)
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if lastCR {
				// Ignore \n if it's part of a \r\n sequence
			} else {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
