// Package lsp implements a Language Server Protocol front end over the
// optimizer: on every open/change it parses and runs a fresh transform
// engine, publishing the parse error, the fatal diagnostic, or the
// soft RuntimeFoldError diagnostics of that run as LSP diagnostics so
// an editor can show folding/rewrite failures inline.
package lsp

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"abc/internal/ast"
	"abc/internal/errors"
	"abc/internal/parser"
	"abc/internal/transform"
)

var SemanticTokenTypes = []string{
	"namespace", "type", "typeParameter", "function", "variable",
	"parameter", "property", "keyword", "number", "operator", "modifier",
}

var SemanticTokenModifiers = []string{
	"declaration", "definition", "readonly", "static", "deprecated", "abstract",
}

// Handler implements glsp's server-side callbacks. One Handler serves
// every open document; per-document state lives in content/asts behind
// mu since glsp dispatches callbacks from its own goroutines.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
	asts    map[string][]*ast.Function
	engine  *transform.Engine
}

func NewHandler() *Handler {
	return &Handler{
		content: make(map[string]string),
		asts:    make(map[string][]*ast.Function),
		engine:  transform.New(transform.DefaultOptions()),
	}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("LSP server initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("LSP server shutting down")
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Printf("opened file: %s\n", params.TextDocument.URI)
	diagnostics, err := h.updateAST(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to update AST: %w", err)
	}
	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Printf("closed file: %s\n", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.asts, path)
	return nil
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Printf("changed file: %s\n", params.TextDocument.URI)
	diagnostics, err := h.updateAST(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to update AST: %w", err)
	}
	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

func (h *Handler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        []protocol.CompletionItem{},
	}, nil
}

func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.RLock()
	fns, ok := h.asts[path]
	h.mu.RUnlock()
	if !ok {
		return &protocol.SemanticTokens{Data: nil}, nil
	}

	tokens := collectSemanticTokens(fns)
	var data []uint32
	var prevLine, prevStart uint32
	for _, t := range tokens {
		deltaLine := t.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = t.StartChar - prevStart
		} else {
			deltaStart = t.StartChar
		}
		data = append(data, deltaLine, deltaStart, t.Length, uint32(t.TokenType), uint32(t.TokenModifiers))
		prevLine, prevStart = t.Line, t.StartChar
	}
	return &protocol.SemanticTokens{Data: data}, nil
}

// updateAST reparses and re-optimizes the document at uri, storing the
// optimized tree (or clearing it on failure) and returning diagnostics
// for whatever went wrong. A nil-but-non-error return means the
// document is clean and any previously published diagnostics should be
// cleared.
func (h *Handler) updateAST(rawURI protocol.DocumentUri) ([]protocol.Diagnostic, error) {
	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	fns, err := parser.ParseSource(path, string(content))
	if err != nil {
		h.mu.Lock()
		delete(h.asts, path)
		h.mu.Unlock()
		return convertParseError(err), nil
	}

	engine := transform.New(transform.DefaultOptions())
	optimized, diag := engine.RunProgram(fns)
	if diag != nil {
		h.mu.Lock()
		delete(h.asts, path)
		h.mu.Unlock()
		return []protocol.Diagnostic{diagnosticToProtocol(diag)}, nil
	}

	h.mu.Lock()
	h.content[path] = string(content)
	h.asts[path] = optimized
	h.mu.Unlock()

	var diagnostics []protocol.Diagnostic
	for _, soft := range engine.SoftDiagnostics() {
		diagnostics = append(diagnostics, diagnosticToProtocol(soft))
	}
	return diagnostics, nil
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func convertParseError(err error) []protocol.Diagnostic {
	perr, ok := err.(participle.Error)
	if !ok {
		return []protocol.Diagnostic{{
			Range:    protocol.Range{},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("parser"),
			Message:  err.Error(),
		}}
	}

	p := perr.Position()
	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(maxInt(p.Line-1, 0)), Character: uint32(maxInt(p.Column-1, 0))},
			End:   protocol.Position{Line: uint32(maxInt(p.Line-1, 0)), Character: uint32(p.Column + 5)},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("parser"),
		Message:  perr.Message(),
	}}
}

func diagnosticToProtocol(d *errors.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if d.Severity == errors.SeverityWarning {
		severity = protocol.DiagnosticSeverityWarning
	}
	line := maxInt(d.Pos.Line-1, 0)
	col := maxInt(d.Pos.Column-1, 0)
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(col)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(col + 1)},
		},
		Severity: &severity,
		Code:     string(d.Code),
		Source:   ptrString("optimizer"),
		Message:  d.Error(),
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
