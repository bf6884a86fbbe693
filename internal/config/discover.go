package config

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
)

// FileName is the per-directory config file name.
const FileName = ".envsel.yaml"

const globalFileName = "config.yaml"
const configDirName = "envsel"

// ConfigLevel represents the precedence level of a configuration file.
type ConfigLevel string

const (
	LevelSystem    ConfigLevel = "system"
	LevelUser      ConfigLevel = "user"
	LevelDirectory ConfigLevel = "directory"
	LevelExplicit  ConfigLevel = "explicit"
)

// ConfigLayerInfo describes a discovered config file and its load status.
type ConfigLayerInfo struct {
	Err    error // non-nil if the file exists but failed to load
	Path   string
	Level  ConfigLevel
	Loaded bool
}

// DiscoverOptions controls how config paths are discovered.
type DiscoverOptions struct {
	// WorkDir is where the directory walk starts. Empty means the process
	// working directory.
	WorkDir string

	// SystemConfigPath overrides the default system config path.
	// Empty means use the OS default. Set to a nonexistent path to skip.
	SystemConfigPath string

	// UserConfigPath overrides the default user config path.
	// Empty means use the OS default. Set to a nonexistent path to skip.
	UserConfigPath string

	// NoGlobal skips the system and user layers.
	NoGlobal bool
}

// DiscoverPaths returns the ordered list of config file paths to check,
// from lowest precedence (system) to highest (the working directory).
// Every .envsel.yaml between the filesystem root and the working directory
// is a layer; the closer to the working directory, the higher its precedence.
// Paths are deduplicated by resolved absolute path.
func DiscoverPaths(opts DiscoverOptions) []ConfigLayerInfo {
	var layers []ConfigLayerInfo
	seen := make(map[string]bool)

	addLayer := func(level ConfigLevel, path string) {
		if path == "" {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		layers = append(layers, ConfigLayerInfo{
			Path:  path,
			Level: level,
		})
	}

	if !opts.NoGlobal {
		sysPath := opts.SystemConfigPath
		if sysPath == "" {
			sysPath = defaultSystemConfigPath()
		}
		addLayer(LevelSystem, sysPath)

		userPath := opts.UserConfigPath
		if userPath == "" {
			userPath = defaultUserConfigPath()
		}
		addLayer(LevelUser, userPath)
	}

	for _, dir := range ancestors(opts.WorkDir) {
		addLayer(LevelDirectory, filepath.Join(dir, FileName))
	}

	return layers
}

// ancestors returns dir and all of its parents, root first.
func ancestors(dir string) []string {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil
	}

	var dirs []string
	for {
		dirs = append(dirs, abs)
		parent := filepath.Dir(abs)
		if parent == abs {
			break
		}
		abs = parent
	}
	slices.Reverse(dirs)
	return dirs
}

// defaultSystemConfigPath returns the platform-standard system config path.
func defaultSystemConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		pd := os.Getenv("ProgramData")
		if pd == "" {
			pd = `C:\ProgramData`
		}
		return filepath.Join(pd, configDirName, globalFileName)
	default: // linux, darwin, etc.
		return filepath.Join("/etc", configDirName, globalFileName)
	}
}

// defaultUserConfigPath returns the platform-standard user config path.
func defaultUserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, globalFileName)
}
