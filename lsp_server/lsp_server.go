package lsp_server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nedpals/enumcomplete/analysis"
	"github.com/nedpals/enumcomplete/analysis/store"
	"github.com/nedpals/enumcomplete/completion"
	"github.com/nedpals/enumcomplete/logger"
	"github.com/nedpals/enumcomplete/release"
	"github.com/nedpals/enumcomplete/rpc"
	"github.com/nedpals/enumcomplete/types"
	"github.com/sourcegraph/jsonrpc2"
	lsp "go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"
)

type Options struct {
	Logger *zap.Logger

	// Usage receives one entry per answered completion request when set.
	Usage *logger.Logger

	// Target overrides the target read from tsconfig.json when set.
	Target *completion.ScriptTarget

	// Listen serves TCP connections on this address instead of stdio.
	Listen  string
	Verbose bool
}

type LspServer struct {
	conn        *jsonrpc2.Conn
	version     string
	doneChan    chan int
	documents   map[uri.URI]*types.Rope
	store       *store.Store
	plugin      *completion.Plugin
	usage       *logger.Logger
	logger      *zap.Logger
	target      *completion.ScriptTarget
	configPath  string
	closeOnExit bool
}

func New(st *store.Store, opts Options) *LspServer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &LspServer{
		version:   release.ServerVersion(),
		doneChan:  make(chan int, 1),
		documents: map[uri.URI]*types.Rope{},
		store:     st,
		plugin:    completion.New(st, completion.WithLogger(log.Named("completion"))),
		usage:     opts.Usage,
		logger:    log,
		target:    opts.Target,
	}
}

func decodePayload[T any](ctx context.Context, c *jsonrpc2.Conn, r *jsonrpc2.Request) *T {
	var payload *T
	if r.Params != nil {
		if err := json.Unmarshal(*r.Params, &payload); err != nil {
			payload = nil
		}
	}

	if payload == nil {
		if r.Notif {
			return nil
		}
		c.ReplyWithError(ctx, r.ID, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeInvalidParams,
			Message: "Unable to decode params of method " + r.Method,
		})
		return nil
	}
	return payload
}

// filename returns the path of a file:// uri.
func filename(u uri.URI) (string, bool) {
	if !strings.HasPrefix(string(u), uri.FileScheme+"://") {
		return "", false
	}
	return filepath.Clean(u.Filename()), true
}

func (s *LspServer) Handle(ctx context.Context, c *jsonrpc2.Conn, r *jsonrpc2.Request) {
	switch r.Method {
	case lsp.MethodInitialize:
		params := &lsp.InitializeParams{}
		if r.Params != nil && string(*r.Params) != "null" {
			if params = decodePayload[lsp.InitializeParams](ctx, c, r); params == nil {
				return
			}
		}

		s.initialize(ctx, c, params)
		c.Reply(ctx, r.ID, lsp.InitializeResult{
			Capabilities: lsp.ServerCapabilities{
				TextDocumentSync:   lsp.TextDocumentSyncKindIncremental,
				CompletionProvider: &lsp.CompletionOptions{},
			},
			ServerInfo: &lsp.ServerInfo{
				Name:    release.Name,
				Version: s.version,
			},
		})
	case lsp.MethodInitialized:
		return
	case lsp.MethodShutdown:
		c.Reply(ctx, r.ID, json.RawMessage("null"))
	case lsp.MethodExit:
		select {
		case s.doneChan <- 0:
		default:
		}
		if s.closeOnExit {
			c.Close()
		}
	case lsp.MethodTextDocumentDidOpen:
		payload := decodePayload[lsp.DidOpenTextDocumentParams](ctx, c, r)
		if payload == nil {
			return
		}

		path, ok := filename(payload.TextDocument.URI)
		if !ok {
			return
		}

		rope := types.NewRope(payload.TextDocument.Text)
		s.documents[payload.TextDocument.URI] = rope
		s.store.UpdateDocument(path, rope.ToString(), int(payload.TextDocument.Version))
	case lsp.MethodTextDocumentDidChange:
		payload := decodePayload[lsp.DidChangeTextDocumentParams](ctx, c, r)
		if payload == nil {
			return
		}

		path, ok := filename(payload.TextDocument.URI)
		if !ok {
			return
		}

		text, ok := s.documents[payload.TextDocument.URI]
		if !ok {
			s.logger.Warn("change for unopened document", zap.String("file", path))
			return
		}

		// each change applies to the text left by the previous one
		for _, change := range payload.ContentChanges {
			startOffset := text.OffsetFromPosition(change.Range.Start)
			endOffset := text.OffsetFromPosition(change.Range.End)

			if endOffset > startOffset {
				text.Delete(startOffset, endOffset-startOffset)
			}
			text.Insert(startOffset, change.Text)
		}

		s.store.UpdateDocument(path, text.ToString(), int(payload.TextDocument.Version))
	case lsp.MethodTextDocumentDidClose:
		payload := decodePayload[lsp.DidCloseTextDocumentParams](ctx, c, r)
		if payload == nil {
			return
		}

		delete(s.documents, payload.TextDocument.URI)
		if path, ok := filename(payload.TextDocument.URI); ok {
			s.store.DeleteDocument(path)
		}
	case lsp.MethodTextDocumentDidSave:
		payload := decodePayload[lsp.DidSaveTextDocumentParams](ctx, c, r)
		if payload == nil {
			return
		}

		if path, ok := filename(payload.TextDocument.URI); ok && analysis.HasConfigExtension(path) {
			s.reloadCompilerOptions(ctx, c)
		}
	case lsp.MethodWorkspaceDidChangeWatchedFiles:
		payload := decodePayload[lsp.DidChangeWatchedFilesParams](ctx, c, r)
		if payload == nil {
			return
		}

		for _, change := range payload.Changes {
			if path, ok := filename(change.URI); ok && analysis.HasConfigExtension(path) {
				s.reloadCompilerOptions(ctx, c)
				break
			}
		}
	case lsp.MethodTextDocumentCompletion:
		payload := decodePayload[lsp.CompletionParams](ctx, c, r)
		if payload == nil {
			return
		}

		c.Reply(ctx, r.ID, s.complete(payload))
	default:
		if !r.Notif {
			c.ReplyWithError(ctx, r.ID, &jsonrpc2.Error{
				Code:    jsonrpc2.CodeMethodNotFound,
				Message: "Method not found: " + r.Method,
			})
		}
	}
}

func (s *LspServer) initialize(ctx context.Context, c *jsonrpc2.Conn, params *lsp.InitializeParams) {
	root := ""
	if path, ok := filename(uri.URI(params.RootURI)); ok {
		root = path
	} else if len(params.RootPath) != 0 {
		root = params.RootPath
	}

	if len(root) != 0 {
		if configPath, found := analysis.FindConfigFile(root); found {
			s.configPath = configPath
		}
	}

	s.logger.Info("initialized",
		zap.String("root", root),
		zap.String("config", s.configPath))
	s.reloadCompilerOptions(ctx, c)
}

// reloadCompilerOptions reads tsconfig.json again and applies the target
// override on top of it.
func (s *LspServer) reloadCompilerOptions(ctx context.Context, c *jsonrpc2.Conn) {
	options := completion.CompilerOptions{Target: completion.DefaultTarget}

	if len(s.configPath) != 0 {
		loaded, err := analysis.LoadCompilerOptions(s.configPath)
		if err != nil {
			s.logger.Warn("unable to load compiler options", zap.String("config", s.configPath), zap.Error(err))
			c.Notify(ctx, lsp.MethodWindowShowMessage, lsp.ShowMessageParams{
				Type:    lsp.MessageTypeWarning,
				Message: fmt.Sprintf("unable to load %s: %s", s.configPath, err.Error()),
			})
		} else {
			options = loaded
		}
	}

	if s.target != nil {
		options.Target = *s.target
	}

	s.store.SetCompilerOptions(options)
	s.logger.Debug("compiler options", zap.Stringer("target", options.Target))
}

// complete answers a completion request. A nil list serializes to null,
// which tells the client there is nothing to add.
func (s *LspServer) complete(payload *lsp.CompletionParams) *lsp.CompletionList {
	rope, ok := s.documents[payload.TextDocument.URI]
	if !ok {
		return nil
	}

	path, ok := filename(payload.TextDocument.URI)
	if !ok {
		return nil
	}

	offset := rope.OffsetFromPosition(payload.Position)
	info := s.plugin.GetCompletionsAtPosition(path, offset)
	if info == nil {
		return nil
	}

	content := rope.ToString()
	items := make([]lsp.CompletionItem, 0, len(info.Entries))
	inserted := make(logger.Texts, 0, len(info.Entries))
	typed := ""

	for _, entry := range info.Entries {
		span := entry.ReplacementSpan
		if span.Start >= 0 && span.End() <= len(content) {
			typed = content[span.Start:span.End()]
		}

		items = append(items, lsp.CompletionItem{
			Label:            entry.Name,
			Kind:             lsp.CompletionItemKindEnumMember,
			Detail:           string(entry.Kind),
			SortText:         string(entry.SortText),
			FilterText:       typed,
			InsertText:       entry.InsertText,
			InsertTextFormat: lsp.InsertTextFormatPlainText,
			TextEdit: &lsp.TextEdit{
				Range: lsp.Range{
					Start: rope.PositionFromOffset(span.Start),
					End:   rope.PositionFromOffset(span.End()),
				},
				NewText: entry.InsertText,
			},
		})
		inserted = append(inserted, entry.InsertText)
	}

	if s.usage != nil {
		err := s.usage.Log(logger.LogEntry{
			FilePath:      path,
			Offset:        offset,
			TypedText:     typed,
			EntryCount:    len(items),
			InsertedTexts: inserted,
		})
		if err != nil {
			s.logger.Warn("unable to log completion", zap.Error(err))
		}
	}

	return &lsp.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}
}

func newServer(ctx context.Context, opts Options) *LspServer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	st := store.NewStore(store.WithLogger(log.Named("store")))
	if err := st.Watch(ctx); err != nil {
		log.Warn("file watching disabled", zap.Error(err))
	}
	return New(st, opts)
}

// Start serves the language server until the client exits or the process
// is interrupted, and returns the exit code.
func Start(opts Options) (int, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	connOpts := []jsonrpc2.ConnOpt{}
	if opts.Verbose {
		connOpts = append(connOpts, jsonrpc2.LogMessages(zap.NewStdLog(log.Named("jsonrpc2"))))
	}

	if len(opts.Listen) != 0 {
		log.Info("listening", zap.String("addr", opts.Listen))
		err := rpc.StartServer(ctx, opts.Listen, jsonrpc2.VSCodeObjectCodec{}, func() jsonrpc2.Handler {
			srv := newServer(ctx, opts)
			srv.closeOnExit = true
			return srv
		}, connOpts...)
		return 0, err
	}

	lspServer := newServer(ctx, opts)
	lspServer.conn = jsonrpc2.NewConn(
		ctx,
		jsonrpc2.NewBufferedStream(&rpc.CustomStream{
			ReadCloser:  os.Stdin,
			WriteCloser: os.Stdout,
		}, jsonrpc2.VSCodeObjectCodec{}),
		lspServer,
		connOpts...,
	)
	defer lspServer.conn.Close()

	select {
	case eCode := <-lspServer.doneChan:
		return eCode, nil
	case <-lspServer.conn.DisconnectNotify():
		return 1, nil
	case <-ctx.Done():
		return 1, nil
	}
}
