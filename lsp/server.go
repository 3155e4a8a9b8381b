// Package lsp implements a Language Server Protocol server for HLSL.
package lsp

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/hlsl"
	"github.com/rlch/hlsl/completion"
)

// Server implements the LSP Server interface for HLSL.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	// Document state
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document

	// FileLoader gives the completer access to sibling files.
	fileLoader *LSPFileLoader

	// Completer merges built-in symbols with workspace functions.
	completer *completion.Aggregator

	// Configuration: fileConfig comes from .hlsl.yaml, settings from the
	// client; config is the merged result used by requests.
	cfgMu      sync.RWMutex
	fileConfig *hlsl.Config
	settings   any
	config     *hlsl.Config

	// Server state
	initialized   bool
	shutdown      bool
	workspaceRoot string
}

// Document represents an open document in the server.
type Document struct {
	URI     protocol.DocumentURI
	Version int32
	Content string
}

// NewServer creates a new LSP server.
func NewServer(client protocol.Client, logger *zap.Logger) *Server {
	fileLoader := NewLSPFileLoader(logger, "")

	s := &Server{
		client:     client,
		logger:     logger,
		documents:  make(map[protocol.DocumentURI]*Document),
		fileLoader: fileLoader,
		fileConfig: hlsl.DefaultConfig(),
		config:     hlsl.DefaultConfig(),
	}

	s.completer = completion.NewAggregator(fileLoader, logger, completion.WithConfig(s.currentConfig))

	return s
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize", zap.Any("params", params))

	// Extract workspace root from params
	switch {
	case params.RootURI != "":
		s.workspaceRoot = URIToPath(params.RootURI)
	case params.RootPath != "":
		s.workspaceRoot = params.RootPath
	case len(params.WorkspaceFolders) > 0:
		s.workspaceRoot = URIToPath(protocol.DocumentURI(params.WorkspaceFolders[0].URI))
	}

	if s.workspaceRoot != "" {
		s.fileLoader.SetWorkspaceRoot(s.workspaceRoot)
		s.logger.Info("Workspace root", zap.String("root", s.workspaceRoot))
		s.loadFileConfig()
	}

	if params.InitializationOptions != nil {
		s.applySettings(params.InitializationOptions)
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"."},
				ResolveProvider:   false,
			},
			HoverProvider:      true,
			DefinitionProvider: true,
			// Declarations resolve like definitions: HLSL prototypes aren't tracked separately
			DeclarationProvider: true,
			// Identifier occurrences within the document and across the workspace
			DocumentHighlightProvider: true,
			ReferencesProvider:        true,
			// Brace blocks, block comments and #include runs
			FoldingRangeProvider: true,
			// Signature help for calls to intrinsics and workspace functions
			SignatureHelpProvider: &protocol.SignatureHelpOptions{
				TriggerCharacters:   []string{"(", ","},
				RetriggerCharacters: []string{","},
			},
			// Document symbol support for outline view
			DocumentSymbolProvider: true,
			// Workspace symbol search
			WorkspaceSymbolProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "hlsl-lsp",
			Version: "0.1.0",
		},
	}, nil
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")
	s.initialized = true

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")
	s.shutdown = true

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	// The main loop should handle exiting after this
	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(_ context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[params.TextDocument.URI] = &Document{
		URI:     params.TextDocument.URI,
		Version: params.TextDocument.Version,
		Content: params.TextDocument.Text,
	}

	s.fileLoader.SetOverlay(URIToPath(params.TextDocument.URI), params.TextDocument.Text)

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(_ context.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.logger.Info("DidChange",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(params.TextDocument.URI)))

		return nil
	}

	// Full sync - take the last content change (should only be one with full sync).
	// Documents are replaced, never mutated: handlers keep reading the
	// snapshot they got from getDocument after the lock is released.
	if len(params.ContentChanges) > 0 {
		next := &Document{
			URI:     doc.URI,
			Version: params.TextDocument.Version,
			Content: params.ContentChanges[len(params.ContentChanges)-1].Text,
		}
		s.documents[params.TextDocument.URI] = next

		s.fileLoader.SetOverlay(URIToPath(params.TextDocument.URI), next.Content)
	}

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(_ context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, params.TextDocument.URI)
	s.fileLoader.ClearOverlay(URIToPath(params.TextDocument.URI))

	return nil
}

// DidSave handles textDocument/didSave notifications.
func (s *Server) DidSave(_ context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Info("DidSave", zap.String("uri", string(params.TextDocument.URI)))

	return nil
}

// getDocument returns a document by URI (read-locked). The returned
// document is an immutable snapshot.
func (s *Server) getDocument(uri protocol.DocumentURI) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]

	return doc, ok
}

// currentConfig returns the effective configuration.
func (s *Server) currentConfig() *hlsl.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()

	return s.config
}

// loadFileConfig reads .hlsl.yaml from the workspace and re-applies client settings.
func (s *Server) loadFileConfig() {
	cfg, err := hlsl.LoadConfig(s.workspaceRoot)
	switch {
	case errors.Is(err, hlsl.ErrConfigNotFound):
		cfg = hlsl.DefaultConfig()
	case err != nil:
		s.logger.Warn("Failed to load config file", zap.Error(err))

		cfg = hlsl.DefaultConfig()
	default:
		s.logger.Info("Loaded config file", zap.String("root", s.workspaceRoot))
	}

	s.cfgMu.Lock()
	s.fileConfig = cfg
	settings := s.settings
	s.cfgMu.Unlock()

	s.applySettings(settings)
}

// applySettings overlays client settings on the file configuration.
func (s *Server) applySettings(settings any) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	merged, err := s.fileConfig.Merge(settings)
	if err != nil {
		s.logger.Warn("Ignoring invalid settings", zap.Error(err))

		return
	}

	s.settings = settings
	s.config = merged

	s.logger.Debug("Configuration updated",
		zap.Bool("suggest.basic", merged.SuggestEnabled()),
		zap.String("files", merged.FilePattern()))
}

// DidChangeConfiguration handles workspace/didChangeConfiguration notifications.
// The new settings replace the previous ones and take effect on the next request.
func (s *Server) DidChangeConfiguration(_ context.Context, params *protocol.DidChangeConfigurationParams) error {
	s.logger.Info("DidChangeConfiguration")

	s.applySettings(params.Settings)

	return nil
}

// DidChangeWatchedFiles handles workspace/didChangeWatchedFiles notifications.
// Reloads the config file when it changes.
func (s *Server) DidChangeWatchedFiles(_ context.Context, params *protocol.DidChangeWatchedFilesParams) error {
	for _, change := range params.Changes {
		if change == nil || !slices.Contains(hlsl.DefaultConfigNames, filepath.Base(URIToPath(change.URI))) {
			continue
		}

		s.logger.Info("Config file changed", zap.String("uri", string(change.URI)))

		if s.workspaceRoot != "" {
			s.loadFileConfig()
		}

		break
	}

	return nil
}

// DidChangeWorkspaceFolders handles workspace/didChangeWorkspaceFolders notifications.
// Only the first folder is scanned; when it is removed the first added folder takes over.
func (s *Server) DidChangeWorkspaceFolders(_ context.Context, params *protocol.DidChangeWorkspaceFoldersParams) error {
	root := s.workspaceRoot

	for _, removed := range params.Event.Removed {
		if URIToPath(protocol.DocumentURI(removed.URI)) == root {
			root = ""
		}
	}

	if root == "" && len(params.Event.Added) > 0 {
		root = URIToPath(protocol.DocumentURI(params.Event.Added[0].URI))
	}

	if root == s.workspaceRoot {
		return nil
	}

	s.logger.Info("Workspace root changed", zap.String("root", root))

	s.workspaceRoot = root
	s.fileLoader.SetWorkspaceRoot(root)
	s.loadFileConfig()

	return nil
}
