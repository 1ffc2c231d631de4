// Package cli implements the layercake command-line interface: a thin
// driver over the core engine (pkg/plan, pkg/executor) for running
// Plan DAGs against a file-backed repository and dataset source
// without the HTTP/GraphQL API surface spec §1 places out of scope.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/layercake-project/layercake/pkg/buildinfo"
	"github.com/layercake-project/layercake/pkg/cache"
	"github.com/layercake-project/layercake/pkg/dataset"
	"github.com/layercake-project/layercake/pkg/executor"
	"github.com/layercake-project/layercake/pkg/repository"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "layercake"

	// defaultProjectID is used when the CLI is driving a single local
	// plan file rather than a multi-project server deployment.
	defaultProjectID = "local"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "layercake",
		Short:        "Layercake models and renders labeled-property graphs",
		Long:         `Layercake is a graph-modeling workbench: it ingests node/edge/layer datasets, composes Plan DAGs of transforms/filters/merges over them, and renders the results to diagram and export formats.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.planCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Collaborator Factories
// =============================================================================

// commonOpts are the flags shared by every `plan` subcommand for
// locating a plan's external collaborators: the Graph Repository
// (spec §4.7) and the Dataset Source (spec §6).
type commonOpts struct {
	repoPath    string // bbolt file path; empty uses an in-memory repository
	datasetRoot string
	datasetType string // "csv" (default) or "json"
	projectID   string
	configPath  string
}

func addCommonFlags(cmd *cobra.Command, opts *commonOpts) {
	cmd.Flags().StringVar(&opts.repoPath, "repo", "", "bbolt repository file path (in-memory if empty)")
	cmd.Flags().StringVar(&opts.datasetRoot, "dataset-root", ".", "directory datasets are read from")
	cmd.Flags().StringVar(&opts.datasetType, "dataset-type", "csv", "dataset file convention: csv or json")
	cmd.Flags().StringVar(&opts.projectID, "project", defaultProjectID, "project id the plan belongs to")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "project config file (defaults to ./layercake.toml if present)")
}

// newRepository opens opts.repoPath as a [repository.BBolt], or falls
// back to an in-memory [repository.Memory] when no path is given. The
// returned close func is a no-op for the in-memory repository.
func newRepository(opts commonOpts) (repository.GraphRepository, func() error, error) {
	if opts.repoPath == "" {
		return repository.NewMemory(), func() error { return nil }, nil
	}
	repo, err := repository.OpenBBolt(opts.repoPath)
	if err != nil {
		return nil, nil, err
	}
	return repo, repo.Close, nil
}

// newSource builds the Dataset Source matching opts.datasetType.
func newSource(opts commonOpts) (dataset.Source, error) {
	switch opts.datasetType {
	case "json":
		return dataset.JSONSource{Root: opts.datasetRoot}, nil
	default:
		return dataset.CSVSource{Root: opts.datasetRoot}, nil
	}
}

// newExecutor wires the repository, dataset source, and on-disk
// materialization cache into an [executor.Executor] ready for
// `plan execute`/`plan preview`/`plan export`.
func (c *CLI) newExecutor(opts commonOpts) (*executor.Executor, func() error, error) {
	cfg, err := loadProjectConfig(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg.applyDefaults(&opts)

	repo, closeRepo, err := newRepository(opts)
	if err != nil {
		return nil, nil, err
	}
	src, err := newSource(opts)
	if err != nil {
		_ = closeRepo()
		return nil, nil, err
	}

	cacheImpl, err := newCache(false)
	if err != nil {
		cacheImpl = cache.NewNullCache()
	}

	exec := executor.New(repo, src, executor.WithCache(cacheImpl, cache.NewDefaultKeyer()), executor.WithLogger(c.Logger))
	return exec, closeRepo, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/layercake/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
