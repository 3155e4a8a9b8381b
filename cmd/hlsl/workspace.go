package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rlch/hlsl"
	"github.com/rlch/hlsl/completion"
	"github.com/rlch/hlsl/lsp"
)

// workspaceFlags are shared by the commands that scan workspace files.
func workspaceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "workspace root directory",
			Value:   ".",
			Sources: cli.EnvVars("HLSL_ROOT"),
		},
		&cli.StringFlag{
			Name:  "files",
			Usage: "glob of workspace files to scan, relative to the root (overrides config)",
		},
		&cli.IntFlag{
			Name:  "max-parallel-reads",
			Usage: "bound on concurrent file reads, 0 for none (overrides config)",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "output results as JSON",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log workspace scanning to stderr",
		},
	}
}

// session is the workspace a command operates on.
type session struct {
	root       string
	config     *hlsl.Config
	logger     *zap.Logger
	loader     *lsp.LSPFileLoader
	aggregator *completion.Aggregator
}

// openSession resolves the workspace root, loads .hlsl.yaml and applies flag overrides.
func openSession(cmd *cli.Command) (*session, error) {
	root, err := filepath.Abs(cmd.String("root"))
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", root)
	}

	logger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return nil, err
	}

	cfg, err := hlsl.LoadConfig(root)
	switch {
	case errors.Is(err, hlsl.ErrConfigNotFound):
		cfg = hlsl.DefaultConfig()
	case err != nil:
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := make(map[string]any)
	if cmd.IsSet("files") {
		overrides["files"] = cmd.String("files")
	}

	if cmd.IsSet("max-parallel-reads") {
		overrides["workspace.maxParallelReads"] = cmd.Int("max-parallel-reads")
	}

	cfg, err = cfg.Merge(overrides)
	if err != nil {
		return nil, err
	}

	loader := lsp.NewLSPFileLoader(logger, root)

	return &session{
		root:       root,
		config:     cfg,
		logger:     logger,
		loader:     loader,
		aggregator: completion.NewAggregator(loader, logger, completion.WithConfig(func() *hlsl.Config { return cfg })),
	}, nil
}

// close flushes the logger.
func (s *session) close() {
	_ = s.logger.Sync()
}

// relative returns path relative to the workspace root when it lies inside it.
func (s *session) relative(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}

	return filepath.ToSlash(rel)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}

	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)

	return config.Build()
}
