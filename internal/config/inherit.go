package config

import (
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/bianoble/envsel/internal/ordered"
)

// Inherit folds every profile's transitive parents into it, in place.
//
// Variables from parents are applied in extends order, later parents
// overwriting earlier ones; the profile's own variables always win. Side
// effect lists of parents are prepended in extends order without
// de-duplication, so an ancestor reachable along two paths contributes its
// effects twice.
//
// The config must already be qualified. Any cycle or unknown reference fails
// the whole config.
func Inherit(cfg *Config) error {
	profiles := make(map[ProfileReference]*Profile)
	unresolved := ordered.New[ProfileReference, []ProfileReference]()

	for appName, app := range cfg.Applications.All() {
		for profileName, profile := range app.Profiles.All() {
			ref := ProfileReference{Application: appName, Profile: profileName}
			profiles[ref] = profile
			if len(profile.Extends) == 0 {
				continue
			}
			for _, parent := range profile.Extends {
				if !parent.IsQualified() {
					return &UnqualifiedReferenceError{Profile: ref, Reference: parent}
				}
			}
			unresolved.Set(ref, slices.Clone(profile.Extends))
		}
	}

	r := &inheritor{profiles: profiles, unresolved: unresolved}
	for unresolved.Len() > 0 {
		ref := unresolved.Keys()[0]
		if err := r.resolve(ref, []ProfileReference{ref}); err != nil {
			return err
		}
	}
	return nil
}

type inheritor struct {
	profiles map[ProfileReference]*Profile
	// unresolved holds the direct parents of every profile that has not been
	// merged yet. Entries are removed once, on first full resolution.
	unresolved *ordered.Map[ProfileReference, []ProfileReference]
}

// resolve merges all parents into ref. visiting is the path from the
// resolution root to ref and is copied, never shared, on each descent.
func (r *inheritor) resolve(ref ProfileReference, visiting []ProfileReference) error {
	parents, ok := r.unresolved.Get(ref)
	if !ok {
		return nil
	}
	log.Trace().Str("profile", ref.String()).Int("parents", len(parents)).Msg("Resolving inheritance")

	child := r.profiles[ref]
	inherited := ordered.New[string, ValueSource]()
	var preExport, postExport []SideEffect

	for _, parent := range parents {
		if i := slices.Index(visiting, parent); i >= 0 {
			chain := append(slices.Clone(visiting[i:]), parent)
			return &InheritanceCycleError{Chain: chain}
		}

		if r.unresolved.Has(parent) {
			branch := append(slices.Clone(visiting), parent)
			if err := r.resolve(parent, branch); err != nil {
				return err
			}
		}

		parentProfile, ok := r.profiles[parent]
		if !ok {
			return &UnknownProfileError{Reference: parent}
		}
		log.Trace().Str("profile", ref.String()).Str("parent", parent.String()).Msg("Merging parent profile")

		p := parentProfile.Clone()
		for variable, source := range p.Variables.All() {
			inherited.Set(variable, source)
		}
		preExport = append(preExport, p.PreExport...)
		postExport = append(postExport, p.PostExport...)
	}

	if child.Variables == nil {
		child.Variables = ordered.New[string, ValueSource]()
	}
	for variable, source := range inherited.All() {
		if !child.Variables.Has(variable) {
			child.Variables.Set(variable, source)
		}
	}
	child.PreExport = append(preExport, child.PreExport...)
	child.PostExport = append(postExport, child.PostExport...)

	r.unresolved.Delete(ref)
	return nil
}
