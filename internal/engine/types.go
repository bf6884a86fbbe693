package engine

import "fmt"

// ExitCodeError carries a non-zero exit code from a command run inside a
// profile's environment.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.Code)
}

// ConfigLayerStatus describes a config layer's load status for display.
type ConfigLayerStatus struct {
	Level  string // "system", "user", "directory", "explicit"
	Path   string
	Loaded bool
}

// ApplicationInfo lists the profiles of one application.
type ApplicationInfo struct {
	Name     string
	Profiles []string
}

// InfoResult holds information for the info command.
type InfoResult struct {
	Version      string
	Shell        string
	ConfigChain  []ConfigLayerStatus
	Applications []ApplicationInfo
}
