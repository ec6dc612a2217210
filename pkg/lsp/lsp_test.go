package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.rho.sh/pkg/diag"
	. "src.rho.sh/pkg/prog/progtest"
	"src.rho.sh/pkg/testutil"
	"src.rho.sh/pkg/tt"
)

func TestProgram(t *testing.T) {
	Test(t, &Program{},
		ThatRho("-lsp").DoesNothing(),
		ThatRho().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
	)
}

type client struct {
	conn        *jsonrpc2.Conn
	diagnostics chan lsp.PublishDiagnosticsParams
}

func setup(t *testing.T) *client {
	s, err := newServer()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	serverSide, clientSide := net.Pipe()
	jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(serverSide, jsonrpc2.VSCodeObjectCodec{}),
		handler(s))

	c := &client{diagnostics: make(chan lsp.PublishDiagnosticsParams, 10)}
	c.conn = jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
			if req.Method == "textDocument/publishDiagnostics" && req.Params != nil {
				var params lsp.PublishDiagnosticsParams
				if err := json.Unmarshal(*req.Params, &params); err != nil {
					return nil, err
				}
				c.diagnostics <- params
			}
			return nil, nil
		}))
	t.Cleanup(func() { c.conn.Close() })
	return c
}

func (c *client) call(t *testing.T, method string, params, result any) {
	t.Helper()
	if err := c.conn.Call(context.Background(), method, params, result); err != nil {
		t.Fatalf("call %s: %v", method, err)
	}
}

func (c *client) open(t *testing.T, uri lsp.DocumentURI, text string) lsp.PublishDiagnosticsParams {
	t.Helper()
	c.call(t, "textDocument/didOpen",
		lsp.DidOpenTextDocumentParams{TextDocument: lsp.TextDocumentItem{URI: uri, Text: text}}, nil)
	return c.nextDiagnostics(t)
}

func (c *client) nextDiagnostics(t *testing.T) lsp.PublishDiagnosticsParams {
	t.Helper()
	select {
	case d := <-c.diagnostics:
		return d
	case <-time.After(testutil.Scaled(time.Second)):
		t.Fatal("timed out waiting for diagnostics")
		return lsp.PublishDiagnosticsParams{}
	}
}

func TestInitialize(t *testing.T) {
	c := setup(t)
	var result lsp.InitializeResult
	c.call(t, "initialize", lsp.InitializeParams{}, &result)
	caps := result.Capabilities
	if caps.CompletionProvider == nil || !caps.HoverProvider {
		t.Errorf("capabilities = %+v", caps)
	}
	if caps.TextDocumentSync == nil || caps.TextDocumentSync.Options == nil ||
		caps.TextDocumentSync.Options.Change != lsp.TDSKFull {
		t.Errorf("text document sync = %+v", caps.TextDocumentSync)
	}
}

func TestDiagnostics(t *testing.T) {
	c := setup(t)

	d := c.open(t, "file:///good.rho", "a←1+2\nprintln a")
	if d.URI != "file:///good.rho" || len(d.Diagnostics) != 0 {
		t.Errorf("diagnostics for valid code = %+v", d)
	}

	d = c.open(t, "file:///bad.rho", "1\n(2")
	if len(d.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(d.Diagnostics))
	}
	got := d.Diagnostics[0]
	if got.Source != "parse" || got.Severity != lsp.Error || got.Message == "" {
		t.Errorf("diagnostic = %+v", got)
	}
	if got.Range.Start.Line != 1 {
		t.Errorf("diagnostic on line %d, want 1", got.Range.Start.Line)
	}

	// Fixing the code clears the diagnostics.
	c.call(t, "textDocument/didChange", lsp.DidChangeTextDocumentParams{
		TextDocument:   lsp.VersionedTextDocumentIdentifier{TextDocumentIdentifier: lsp.TextDocumentIdentifier{URI: "file:///bad.rho"}},
		ContentChanges: []lsp.TextDocumentContentChangeEvent{{Text: "1\n(2)"}},
	}, nil)
	if d := c.nextDiagnostics(t); len(d.Diagnostics) != 0 {
		t.Errorf("diagnostics after fix = %+v", d.Diagnostics)
	}
}

func TestCompletion(t *testing.T) {
	c := setup(t)
	c.open(t, "file:///a.rho", "x←math:ro\nprin")

	complete := func(line, char int) []string {
		var items []lsp.CompletionItem
		c.call(t, "textDocument/completion", lsp.CompletionParams{
			TextDocumentPositionParams: lsp.TextDocumentPositionParams{
				TextDocument: lsp.TextDocumentIdentifier{URI: "file:///a.rho"},
				Position:     lsp.Position{Line: line, Character: char},
			}}, &items)
		labels := make([]string, len(items))
		for i, item := range items {
			labels[i] = item.Label
		}
		return labels
	}

	if diff := cmp.Diff([]string{"math:round"}, complete(0, 9)); diff != "" {
		t.Errorf("completion of math:ro (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"print", "println"}, complete(1, 4)); diff != "" {
		t.Errorf("completion of prin (-want +got):\n%s", diff)
	}
}

func TestHover(t *testing.T) {
	c := setup(t)
	c.open(t, "file:///a.rho", "println 1 ◊ foo 2")

	hover := func(char int) lsp.Hover {
		var h lsp.Hover
		c.call(t, "textDocument/hover", lsp.TextDocumentPositionParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: "file:///a.rho"},
			Position:     lsp.Position{Line: 0, Character: char},
		}, &h)
		return h
	}

	h := hover(3)
	if len(h.Contents) != 1 || h.Contents[0].Value != "println" {
		t.Errorf("hover over println = %+v", h)
	}
	if h.Range == nil || h.Range.Start.Character != 0 || h.Range.End.Character != 7 {
		t.Errorf("hover range = %+v", h.Range)
	}
	if h := hover(13); len(h.Contents) != 0 {
		t.Errorf("hover over unknown name = %+v", h)
	}
}

func TestMethodNotFound(t *testing.T) {
	c := setup(t)
	err := c.conn.Call(context.Background(), "textDocument/rename", nil, nil)
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("got error %v, want method not found", err)
	}
}

func TestLSPPositionFromDiag(t *testing.T) {
	pos := func(line, col int) diag.Position { return diag.Position{Line: line, Col: col} }
	tt.Test(t, tt.Fn("lspPositionFromDiag", lspPositionFromDiag), tt.Table{
		tt.Args("abc", pos(1, 1)).Rets(lsp.Position{Line: 0, Character: 0}),
		tt.Args("abc", pos(1, 3)).Rets(lsp.Position{Line: 0, Character: 2}),
		tt.Args("a\nbc", pos(2, 2)).Rets(lsp.Position{Line: 1, Character: 1}),
		tt.Args("⍳⍴x", pos(1, 3)).Rets(lsp.Position{Line: 0, Character: 2}),
		// Runes outside the BMP take two UTF-16 units.
		tt.Args("𝔸x", pos(1, 2)).Rets(lsp.Position{Line: 0, Character: 2}),
		tt.Args("abc", diag.Position{}).Rets(lsp.Position{}),
	})
}

func TestWordAround(t *testing.T) {
	tt.Test(t, tt.Fn("wordAround", wordAround), tt.Table{
		tt.Args("print 1", 2).Rets(0, 5),
		tt.Args("print 1", 5).Rets(0, 5),
		tt.Args("x←math:round", 14).Rets(4, 14),
		tt.Args("⍳ 3", 0).Rets(0, 0),
	})
}
