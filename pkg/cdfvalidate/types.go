package cdfvalidate

import "github.com/bianoble/cdf-validate/internal/engine"

// Type aliases re-export engine result types as the public API.
// Users import "github.com/bianoble/cdf-validate/pkg/cdfvalidate" and use
// cdfvalidate.Result, cdfvalidate.Issue, etc.

type Issue = engine.Issue
type Result = engine.Result
type UpdateResult = engine.UpdateResult

// ValidateOptions configures a validation run.
type ValidateOptions = engine.Options

// UpdateOptions configures a manifest refresh.
type UpdateOptions = engine.UpdateOptions

// Validation statuses reported on the CI output channel.
const (
	StatusPassed  = engine.StatusPassed
	StatusFailed  = engine.StatusFailed
	StatusSkipped = engine.StatusSkipped
)

// Validation levels.
const (
	LevelFull          = engine.LevelFull
	LevelIntegrity     = engine.LevelIntegrity
	LevelAuthorization = engine.LevelAuthorization
)
