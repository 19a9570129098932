// =============================================================================
// Receipt Normalizer - Configuration Module
// =============================================================================
//
// This module defines the per-run processing options and the optional YAML
// mapping profile. There is no global or ambient configuration: every option
// travels with the call, and no environment variables are consulted.
//
// CONFIGURATION SOURCES:
//   1. Options: flags resolved by the CLI (or set directly by an embedding
//      caller), one value per run.
//   2. Profile (optional): a landlord-specific YAML file adding extra header
//      aliases on top of the built-in bilingual tables and overriding the
//      file-size warning threshold.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/recibos-tools/receipt-normalizer/internal/types"
)

// =============================================================================
// DEFAULTS
// =============================================================================

// Carried-over product decisions: these thresholds are deliberate and must
// stay overridable rather than hard-coded at the point of use.
const (
	// DefaultFuzzyThreshold is the minimum composite similarity score a
	// header candidate needs to be claimed by fuzzy matching.
	DefaultFuzzyThreshold = 0.6

	// DefaultMaxFileSizeBytes is the size above which a file still processes
	// normally but triggers a size warning (10 MiB).
	DefaultMaxFileSizeBytes = 10 * 1024 * 1024
)

// =============================================================================
// PROCESSING OPTIONS
// =============================================================================

// Options holds the per-run processing configuration.
type Options struct {
	// AutoCorrect enables every repair and defaulting behavior: date regex
	// repair, contract-id cleanup, receipt-type substring matching, and
	// payment-date defaulting. Default: true.
	AutoCorrect bool

	// StrictValidation promotes certain soft concerns: a future payment
	// date becomes a hard error, and rental spans longer than 366 days are
	// flagged. Default: false.
	StrictValidation bool

	// FuzzyThreshold is the minimum score for fuzzy header matching.
	// Zero means DefaultFuzzyThreshold.
	FuzzyThreshold float64

	// MaxFileSizeBytes is the size-warning threshold.
	// Zero means DefaultMaxFileSizeBytes.
	MaxFileSizeBytes int64

	// ExtraAliases adds landlord-specific header aliases per canonical
	// field, consulted after the built-in alias tables. Usually populated
	// from a Profile.
	ExtraAliases map[types.CanonicalField][]string
}

// DefaultOptions returns the options every run starts from.
func DefaultOptions() Options {
	return Options{
		AutoCorrect:      true,
		StrictValidation: false,
		FuzzyThreshold:   DefaultFuzzyThreshold,
		MaxFileSizeBytes: DefaultMaxFileSizeBytes,
	}
}

// ApplyDefaults fills in zero values so downstream code never has to guard
// against an unset threshold.
func (o *Options) ApplyDefaults() {
	if o.FuzzyThreshold <= 0 {
		o.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if o.MaxFileSizeBytes <= 0 {
		o.MaxFileSizeBytes = DefaultMaxFileSizeBytes
	}
}

// =============================================================================
// MAPPING PROFILE
// =============================================================================

// Profile is an optional per-landlord mapping profile. Landlords with
// unusual spreadsheet layouts get a small YAML file instead of code changes.
//
// Example:
//
//	name: quinta-do-lago
//	extra_aliases:
//	  contractId: ["n_contrato_qdl"]
//	  value: ["renda_mensal_eur"]
//	max_file_size_mb: 25
type Profile struct {
	// Name identifies the profile in logs.
	Name string `yaml:"name"`

	// ExtraAliases maps a canonical field name to additional header aliases.
	// Keys must be canonical field names (contractId, fromDate, toDate,
	// receiptType, value, paymentDate).
	ExtraAliases map[string][]string `yaml:"extra_aliases"`

	// MaxFileSizeMB overrides the size-warning threshold, in mebibytes.
	MaxFileSizeMB int64 `yaml:"max_file_size_mb"`
}

// LoadProfile reads and validates a mapping profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	if err := validateProfile(&profile); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	return &profile, nil
}

// validateProfile rejects alias entries for unknown canonical fields early,
// so a typo in a profile fails the run instead of silently matching nothing.
func validateProfile(p *Profile) error {
	for name := range p.ExtraAliases {
		if !types.CanonicalField(name).IsValid() {
			return fmt.Errorf("unknown canonical field '%s' in extra_aliases", name)
		}
	}
	if p.MaxFileSizeMB < 0 {
		return fmt.Errorf("max_file_size_mb must not be negative")
	}
	return nil
}

// Apply merges the profile into the options for one run.
func (o *Options) Apply(p *Profile) {
	if p == nil {
		return
	}

	if len(p.ExtraAliases) > 0 && o.ExtraAliases == nil {
		o.ExtraAliases = make(map[types.CanonicalField][]string, len(p.ExtraAliases))
	}
	for name, aliases := range p.ExtraAliases {
		field := types.CanonicalField(name)
		o.ExtraAliases[field] = append(o.ExtraAliases[field], aliases...)
	}

	if p.MaxFileSizeMB > 0 {
		o.MaxFileSizeBytes = p.MaxFileSizeMB * 1024 * 1024
	}
}
