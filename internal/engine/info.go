package engine

import (
	"github.com/bianoble/envsel/internal/config"
	"github.com/bianoble/envsel/internal/shell"
)

// Info gathers information about the detected shell and loaded config.
// Either of hr and sh may be nil if they could not be determined.
func Info(version string, hr *config.HierarchicalResult, sh *shell.Shell) *InfoResult {
	r := &InfoResult{Version: version}

	if sh != nil {
		r.Shell = sh.String()
	}

	if hr == nil {
		return r
	}

	for _, l := range hr.Layers {
		r.ConfigChain = append(r.ConfigChain, ConfigLayerStatus{
			Level:  string(l.Level),
			Path:   l.Path,
			Loaded: l.Loaded,
		})
	}

	for appName, app := range hr.Config.Applications.All() {
		ai := ApplicationInfo{Name: appName.String()}
		for profileName := range app.Profiles.All() {
			ai.Profiles = append(ai.Profiles, profileName.String())
		}
		r.Applications = append(r.Applications, ai)
	}

	return r
}
