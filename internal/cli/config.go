package cli

import (
	"os"

	"github.com/BurntSushi/toml"
)

// projectConfig is the optional on-disk project configuration
// (layercake.toml in the working directory, or --config elsewhere)
// supplying default collaborator locations so commands don't need
// --repo/--dataset-root/--project on every invocation.
type projectConfig struct {
	Repo        string `toml:"repo"`
	DatasetRoot string `toml:"dataset_root"`
	DatasetType string `toml:"dataset_type"`
	Project     string `toml:"project"`
}

const defaultConfigFile = "layercake.toml"

// loadProjectConfig reads path (or defaultConfigFile if path is empty
// and it exists in the working directory). A missing file is not an
// error: every field simply stays at its zero value and the command's
// own flag defaults apply.
func loadProjectConfig(path string) (projectConfig, error) {
	if path == "" {
		path = defaultConfigFile
		if _, err := os.Stat(path); err != nil {
			return projectConfig{}, nil
		}
	}
	var cfg projectConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return projectConfig{}, err
	}
	return cfg, nil
}

// applyDefaults fills in any commonOpts field still at its flag default
// from cfg, giving --flags precedence over the project config file. A
// flag passed explicitly with its default value is still overridden by
// cfg.
func (cfg projectConfig) applyDefaults(opts *commonOpts) {
	if opts.repoPath == "" {
		opts.repoPath = cfg.Repo
	}
	if opts.datasetRoot == "." && cfg.DatasetRoot != "" {
		opts.datasetRoot = cfg.DatasetRoot
	}
	if opts.datasetType == "csv" && cfg.DatasetType != "" {
		opts.datasetType = cfg.DatasetType
	}
	if opts.projectID == defaultProjectID && cfg.Project != "" {
		opts.projectID = cfg.Project
	}
}
