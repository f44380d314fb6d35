package lsp

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/yaklabco/mlsense/internal/logging"
	"github.com/yaklabco/mlsense/pkg/complete"
	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/lint"
	"github.com/yaklabco/mlsense/pkg/schema"
	"github.com/yaklabco/mlsense/pkg/source"
)

//nolint:gochecknoglobals // Shared protocol errors.
var (
	errMethodNotFound = &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams  = &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
	errShuttingDown   = &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: "server is shutting down"}
)

// document is the per-URI state. The completer shares obj, so a text
// change is a single SetSource.
type document struct {
	obj       *source.Object
	completer *complete.Completer
}

// Server holds open documents and answers protocol requests.
type Server struct {
	mu       sync.Mutex
	docs     map[protocol.DocumentURI]*document
	schema   *schema.Schema
	engine   *lint.Engine
	cfg      *config.Config
	docFmt   complete.DocFormat
	logger   *log.Logger
	shutdown bool

	exitOnce sync.Once
	exited   chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. It must not write to the protocol stream.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry sets the rule registry used for diagnostics.
func WithRegistry(registry *lint.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.engine = lint.NewEngine(registry, s.schema, lint.WithEngineLogger(s.logger))
		}
	}
}

// NewServer creates a server for documents described by sch. A nil schema
// selects the built-in one and a nil cfg selects defaults.
func NewServer(sch *schema.Schema, cfg *config.Config, opts ...Option) *Server {
	if sch == nil {
		sch = schema.Default()
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}

	s := &Server{
		docs:   make(map[protocol.DocumentURI]*document),
		schema: sch,
		cfg:    cfg,
		docFmt: complete.DocFormat(cfg.Completion.Documentation),
		logger: logging.Default(),
		exited: make(chan struct{}),
	}
	if !s.docFmt.IsValid() {
		s.docFmt = complete.DocMarkdown
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = lint.NewEngine(lint.DefaultRegistry, sch, lint.WithEngineLogger(s.logger))
	}
	return s
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error) {
	return nil, nil
}

// Handler returns the JSON-RPC handler routing protocol methods.
func (s *Server) Handler() jsonrpc2.Handler {
	methods := map[string]method{
		"initialize":              s.initialize,
		"initialized":             noop,
		"shutdown":                s.shutdownRequest,
		"exit":                    s.exit,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/completion": s.completion,

		// Sent by clients even when not advertised.
		"workspace/didChangeWatchedFiles":  noop,
		"workspace/didChangeConfiguration": noop,
		"textDocument/didSave":             noop,
		"$/cancelRequest":                  noop,
		"$/setTrace":                       noop,
	}

	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			s.logger.Debug("unhandled method", logging.FieldMethod, req.Method)
			if req.Notif {
				return nil, nil
			}
			return nil, errMethodNotFound
		}

		if s.isShutdown() && req.Method != "exit" {
			if req.Notif {
				s.logger.Debug("dropped after shutdown", logging.FieldMethod, req.Method)
				return nil, nil
			}
			return nil, errShuttingDown
		}

		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

func (s *Server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, raw json.RawMessage) (any, error) {
	var params protocol.InitializeParams
	if len(raw) > 0 && json.Unmarshal(raw, &params) != nil {
		return nil, errInvalidParams
	}

	triggers := s.cfg.Completion.TriggerCharacters
	if len(triggers) == 0 {
		triggers = config.DefaultTriggerCharacters()
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: triggers,
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name: lint.Source,
		},
	}, nil
}

func (s *Server) shutdownRequest(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error) {
	s.mu.Lock()
	s.shutdown = true
	s.docs = make(map[protocol.DocumentURI]*document)
	s.mu.Unlock()
	return nil, nil
}

func (s *Server) exit(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error) {
	s.exitOnce.Do(func() { close(s.exited) })
	return nil, nil
}

func (s *Server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, raw json.RawMessage) (any, error) {
	var params protocol.DidOpenTextDocumentParams
	if json.Unmarshal(raw, &params) != nil {
		return nil, errInvalidParams
	}

	uri := params.TextDocument.URI
	obj := source.New(params.TextDocument.Text, source.WithLogger(s.logger))
	doc := &document{
		obj:       obj,
		completer: complete.New(obj, s.schema, complete.WithDocFormat(s.docFmt), complete.WithLogger(s.logger)),
	}

	s.mu.Lock()
	s.docs[uri] = doc
	diags := s.diagnose(ctx, uri, doc)
	s.mu.Unlock()

	s.logger.Debug("opened", logging.FieldURI, uri, logging.FieldLength, len(params.TextDocument.Text))
	s.publish(ctx, conn, uri, diags)
	return nil, nil
}

func (s *Server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, raw json.RawMessage) (any, error) {
	var params protocol.DidChangeTextDocumentParams
	if json.Unmarshal(raw, &params) != nil {
		return nil, errInvalidParams
	}
	if len(params.ContentChanges) == 0 {
		return nil, nil
	}

	uri := params.TextDocument.URI

	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("change for unopened document", logging.FieldURI, uri)
		return nil, nil
	}
	// Full sync: the last change carries the whole text.
	doc.obj.SetSource(params.ContentChanges[len(params.ContentChanges)-1].Text)
	diags := s.diagnose(ctx, uri, doc)
	s.mu.Unlock()

	s.publish(ctx, conn, uri, diags)
	return nil, nil
}

func (s *Server) didClose(ctx context.Context, conn jsonrpc2.JSONRPC2, raw json.RawMessage) (any, error) {
	var params protocol.DidCloseTextDocumentParams
	if json.Unmarshal(raw, &params) != nil {
		return nil, errInvalidParams
	}

	uri := params.TextDocument.URI
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()

	s.logger.Debug("closed", logging.FieldURI, uri)
	s.publish(ctx, conn, uri, []protocol.Diagnostic{})
	return nil, nil
}

func (s *Server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, raw json.RawMessage) (any, error) {
	var params protocol.CompletionParams
	if json.Unmarshal(raw, &params) != nil {
		return nil, errInvalidParams
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := &protocol.CompletionList{Items: []protocol.CompletionItem{}}

	doc, ok := s.docs[params.TextDocument.URI]
	if !ok {
		return list, nil
	}

	offset, ok := doc.obj.Index().ProtocolToOffset(params.Position)
	if !ok {
		return list, nil
	}

	if items := doc.completer.Items(offset); items != nil {
		list.Items = items
	}
	s.logger.Debug("completion",
		logging.FieldURI, params.TextDocument.URI,
		logging.FieldOffset, offset,
		logging.FieldItems, len(list.Items))
	return list, nil
}

// diagnose runs the rules over doc. The caller holds s.mu.
func (s *Server) diagnose(ctx context.Context, uri protocol.DocumentURI, doc *document) []protocol.Diagnostic {
	result, err := s.engine.Check(ctx, string(uri), doc.obj, s.cfg)
	if err != nil {
		s.logger.Warn("diagnostics failed", logging.FieldURI, uri, logging.FieldError, err)
		return []protocol.Diagnostic{}
	}

	diags := make([]protocol.Diagnostic, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		diags = append(diags, d.ToProtocol(doc.obj.Index()))
	}
	return diags
}

func (s *Server) publish(ctx context.Context, conn jsonrpc2.JSONRPC2, uri protocol.DocumentURI, diags []protocol.Diagnostic) {
	err := conn.Notify(ctx, "textDocument/publishDiagnostics", &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
	if err != nil {
		s.logger.Warn("publish diagnostics", logging.FieldURI, uri, logging.FieldError, err)
	}
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

// OpenDocuments returns the number of documents currently open.
func (s *Server) OpenDocuments() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
