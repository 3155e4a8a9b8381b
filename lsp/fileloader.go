package lsp

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/hlsl/completion"
)

// LSPFileLoader implements completion.Workspace for the LSP server.
// It lists files under the workspace root and reads them from disk, preferring
// the editor's unsaved buffer contents for documents that are open.
type LSPFileLoader struct {
	logger *zap.Logger

	// mu protects workspaceRoot and overlay.
	mu sync.RWMutex

	// workspaceRoot is the root directory of the workspace (from LSP initialize).
	workspaceRoot string

	// overlay maps absolute file paths to the content of open documents.
	overlay map[string]string
}

// NewLSPFileLoader creates a new file loader for the LSP server.
func NewLSPFileLoader(logger *zap.Logger, workspaceRoot string) *LSPFileLoader {
	return &LSPFileLoader{
		logger:        logger,
		workspaceRoot: workspaceRoot,
		overlay:       make(map[string]string),
	}
}

// FindFiles implements completion.Workspace.
// The pattern is matched relative to the workspace root and may use **.
// Without a workspace root there are no files.
func (l *LSPFileLoader) FindFiles(ctx context.Context, pattern string) ([]string, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	root := l.WorkspaceRoot()
	if root == "" {
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(root), filepath.ToSlash(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = filepath.Join(root, filepath.FromSlash(m))
	}

	l.logger.Debug("Found workspace files",
		zap.String("root", root),
		zap.String("pattern", pattern),
		zap.Int("count", len(paths)))

	return paths, nil
}

// ReadFile implements completion.Workspace.
func (l *LSPFileLoader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	content, ok := l.overlay[path]
	l.mu.RUnlock()

	if ok {
		return []byte(content), nil
	}

	return os.ReadFile(filepath.Clean(path))
}

// SetOverlay records the editor content of an open document.
func (l *LSPFileLoader) SetOverlay(path, content string) {
	l.mu.Lock()
	l.overlay[path] = content
	l.mu.Unlock()
}

// ClearOverlay drops the editor content of a closed document.
func (l *LSPFileLoader) ClearOverlay(path string) {
	l.mu.Lock()
	delete(l.overlay, path)
	l.mu.Unlock()
}

// SetWorkspaceRoot updates the workspace root directory.
func (l *LSPFileLoader) SetWorkspaceRoot(root string) {
	l.mu.Lock()
	l.workspaceRoot = root
	l.mu.Unlock()
}

// WorkspaceRoot returns the workspace root directory.
func (l *LSPFileLoader) WorkspaceRoot() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.workspaceRoot
}

// URIToPath converts a document URI to a file system path.
func URIToPath(uri protocol.DocumentURI) string {
	// Parse the URI
	u, err := url.Parse(string(uri))
	if err != nil {
		// Fallback: strip file:// prefix
		return strings.TrimPrefix(string(uri), "file://")
	}

	// For file:// URIs, return the path
	if u.Scheme == "file" {
		return u.Path
	}

	return string(uri)
}

// PathToURI converts a file system path to a document URI.
func PathToURI(path string) protocol.DocumentURI {
	return protocol.DocumentURI("file://" + filepath.ToSlash(path))
}

// Ensure LSPFileLoader implements completion.Workspace.
var _ completion.Workspace = (*LSPFileLoader)(nil)
