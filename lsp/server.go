package lsp

import (
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "stubgen"

var log = commonlog.GetLogger("stubgen.lsp")

// Server answers completion and hover requests for dotted names found in
// open documents, such as ghidra.app.Foo.bar.
type Server struct {
	catalog *Catalog
	handler protocol.Handler
	server  *server.Server
	version string

	mu        sync.Mutex
	documents map[string]string
}

func NewServer(catalog *Catalog, version string) *Server {
	ls := &Server{
		catalog:   catalog,
		version:   version,
		documents: make(map[string]string),
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentCompletion: ls.textDocumentCompletion,
		TextDocumentHover:      ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)
	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
	}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("serving %d classes", ls.catalog.Len())
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.setDocument(params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.setDocument(params.TextDocument.URI, whole.Text)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.documents, params.TextDocument.URI)
	ls.mu.Unlock()
	return nil
}

func (ls *Server) setDocument(uri, text string) {
	ls.mu.Lock()
	ls.documents[uri] = text
	ls.mu.Unlock()
}

func (ls *Server) line(uri string, line protocol.UInteger) (string, bool) {
	ls.mu.Lock()
	text, ok := ls.documents[uri]
	ls.mu.Unlock()
	if !ok {
		return "", false
	}
	lines := strings.Split(text, "\n")
	if int(line) >= len(lines) {
		return "", false
	}
	return lines[line], true
}

func (ls *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	line, ok := ls.line(params.TextDocument.URI, params.Position.Line)
	if !ok {
		return nil, nil
	}
	expr, ok := ExpressionBefore(line, int(params.Position.Character))
	if !ok {
		return nil, nil
	}

	completions := ls.catalog.Complete(expr)
	if len(completions) == 0 {
		return nil, nil
	}
	items := make([]protocol.CompletionItem, len(completions))
	for i, c := range completions {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		items[i] = protocol.CompletionItem{
			Label:  c.Label,
			Kind:   &kind,
			Detail: &detail,
		}
	}
	return items, nil
}

func (ls *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	line, ok := ls.line(params.TextDocument.URI, params.Position.Line)
	if !ok {
		return nil, nil
	}
	expr, ok := ExpressionAt(line, int(params.Position.Character))
	if !ok {
		return nil, nil
	}
	text, ok := ls.catalog.Hover(expr)
	if !ok {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: text},
	}, nil
}

func isIdent(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// ExpressionBefore returns the dotted name in front of the last '.'
// before col, the receiver of a member access being typed.
func ExpressionBefore(line string, col int) (string, bool) {
	if col > len(line) {
		col = len(line)
	}
	dot := -1
	for i := col - 1; i >= 0; i-- {
		if line[i] == '.' {
			dot = i
			break
		}
		if !isIdent(line[i]) {
			return "", false
		}
	}
	if dot <= 0 {
		return "", false
	}
	start := dot
	for start > 0 && (isIdent(line[start-1]) || line[start-1] == '.') {
		start--
	}
	expr := strings.Trim(line[start:dot], ".")
	return expr, expr != ""
}

// ExpressionAt returns the dotted name under col, up to the end of the
// identifier col is in.
func ExpressionAt(line string, col int) (string, bool) {
	if col > len(line) {
		col = len(line)
	}
	end := col
	for end < len(line) && isIdent(line[end]) {
		end++
	}
	start := col
	for start > 0 && (isIdent(line[start-1]) || line[start-1] == '.') {
		start--
	}
	expr := strings.Trim(line[start:end], ".")
	return expr, expr != ""
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case KindModule:
		return protocol.CompletionItemKindModule
	case KindClass:
		return protocol.CompletionItemKindClass
	case KindMethod:
		return protocol.CompletionItemKindMethod
	case KindField:
		return protocol.CompletionItemKindField
	case KindConstant:
		return protocol.CompletionItemKindConstant
	case KindProperty:
		return protocol.CompletionItemKindProperty
	default:
		return protocol.CompletionItemKindText
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
