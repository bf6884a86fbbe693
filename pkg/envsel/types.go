package envsel

import (
	"github.com/bianoble/envsel/internal/config"
	"github.com/bianoble/envsel/internal/engine"
	"github.com/bianoble/envsel/internal/environment"
)

// Type aliases re-export internal types as the public API.

type Config = config.Config
type Profile = config.Profile
type ProfileReference = config.ProfileReference
type Environment = environment.Environment
type ResolvedValue = environment.ResolvedValue
type ExitCodeError = engine.ExitCodeError
type InfoResult = engine.InfoResult
