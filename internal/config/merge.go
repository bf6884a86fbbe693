package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog/log"
)

// Merge combines two configs where overlay takes precedence over base.
// This implements the hierarchical merge semantics:
//   - applications: merge by name, keeping base order and appending new ones
//   - profiles: merge by name; same name in overlay replaces base entry entirely
//
// Neither input is modified.
func Merge(base, overlay *Config) *Config {
	if base == nil {
		return overlay
	}
	if overlay == nil {
		return base
	}

	result := NewConfig()
	for name, app := range base.Applications.All() {
		result.Applications.Set(name, cloneApplication(app))
	}

	for appName, app := range overlay.Applications.All() {
		target, ok := result.Applications.Get(appName)
		if !ok {
			result.Applications.Set(appName, cloneApplication(app))
			continue
		}
		for profileName, profile := range app.Profiles.All() {
			if target.Profiles.Has(profileName) {
				log.Warn().
					Str("profile", ProfileReference{Application: appName, Profile: profileName}.String()).
					Msg("Profile is defined in more than one config file, using the closest definition")
			}
			target.Profiles.Set(profileName, profile.Clone())
		}
	}

	return result
}

// MergeAll merges multiple configs in order (lowest precedence first).
func MergeAll(configs []*Config) (*Config, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no configs to merge")
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = Merge(result, configs[i])
	}
	return result, nil
}

func cloneApplication(app *Application) *Application {
	out := NewApplication()
	for name, profile := range app.Profiles.All() {
		out.Profiles.Set(name, profile.Clone())
	}
	return out
}

// HierarchicalOptions controls layered config loading.
type HierarchicalOptions struct {
	// ConfigPath is an explicit config file. When set, discovery is skipped
	// and the file must exist.
	ConfigPath string

	// WorkDir, SystemConfigPath, UserConfigPath and NoGlobal are passed to
	// DiscoverPaths.
	WorkDir          string
	SystemConfigPath string
	UserConfigPath   string
	NoGlobal         bool
}

// HierarchicalResult is a merged, inheritance-resolved config plus metadata
// about every layer that was considered.
type HierarchicalResult struct {
	Config *Config
	Layers []ConfigLayerInfo
}

// LoadHierarchical loads every config layer, merges them from lowest to
// highest precedence and resolves profile inheritance. Missing layers are
// skipped; a layer that exists but fails to load is fatal.
func LoadHierarchical(opts HierarchicalOptions) (*HierarchicalResult, error) {
	var layers []ConfigLayerInfo
	if opts.ConfigPath != "" {
		layers = []ConfigLayerInfo{{Path: opts.ConfigPath, Level: LevelExplicit}}
	} else {
		layers = DiscoverPaths(DiscoverOptions{
			WorkDir:          opts.WorkDir,
			SystemConfigPath: opts.SystemConfigPath,
			UserConfigPath:   opts.UserConfigPath,
			NoGlobal:         opts.NoGlobal,
		})
	}

	configs := []*Config{NewConfig()}
	for i := range layers {
		layer := &layers[i]
		cfg, err := Load(layer.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && layer.Level != LevelExplicit {
				continue
			}
			layer.Err = err
			return nil, fmt.Errorf("loading %s config: %w", layer.Level, err)
		}
		log.Debug().Str("path", layer.Path).Str("level", string(layer.Level)).Msg("Loaded config layer")
		layer.Loaded = true
		configs = append(configs, cfg)
	}

	merged, err := MergeAll(configs)
	if err != nil {
		return nil, err
	}
	if err := Inherit(merged); err != nil {
		return nil, err
	}

	return &HierarchicalResult{Config: merged, Layers: layers}, nil
}
