package config

import (
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Qualify makes a config self-contained: unqualified parent references get
// the enclosing application, and relative file paths and working directories
// are resolved against the directory of documentPath, the absolute path of
// the file the config was loaded from.
//
// Qualify is idempotent. It must run before Inherit.
func Qualify(cfg *Config, documentPath string) {
	dir := filepath.Dir(documentPath)
	log.Trace().Str("path", documentPath).Msg("Qualifying config")

	for appName, app := range cfg.Applications.All() {
		for profileName, profile := range app.Profiles.All() {
			log.Trace().Str("profile", appName.String()+"/"+profileName.String()).Msg("Qualifying profile")
			qualifyProfile(profile, appName, dir)
		}
	}
}

func qualifyProfile(profile *Profile, app Name, dir string) {
	for i, parent := range profile.Extends {
		if !parent.IsQualified() {
			parent.Application = app
			log.Trace().Str("from", profile.Extends[i].String()).Str("to", parent.String()).Msg("Qualified profile reference")
			profile.Extends[i] = parent
		}
	}
	// "base" and "app/base" may collapse into the same reference.
	profile.Extends = dedupeReferences(profile.Extends)

	for variable, source := range profile.Variables.All() {
		switch k := source.Kind.(type) {
		case File:
			k.Path = qualifyPath(k.Path, dir)
			source.Kind = k
		case NativeCommand:
			k.Cwd = qualifyPath(k.Cwd, dir)
			source.Kind = k
		case ShellCommand:
			k.Cwd = qualifyPath(k.Cwd, dir)
			source.Kind = k
		default:
			continue
		}
		profile.Variables.Set(variable, source)
	}
}

// qualifyPath joins a relative path onto dir. Empty and absolute paths are
// returned unchanged.
func qualifyPath(path, dir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	qualified := filepath.Join(dir, path)
	log.Trace().Str("from", path).Str("to", qualified).Msg("Qualified path")
	return qualified
}
