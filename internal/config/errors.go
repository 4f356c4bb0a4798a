package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidServerConfigs indicates an unusable listen address, prefix
	// or shutdown timeout.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAuthConfigs indicates invalid token settings, for example a
	// sign key that is too short.
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
	// ErrInvalidRolesConfigs indicates an empty or repeated role level.
	ErrInvalidRolesConfigs = errors.New("invalid roles configuration")
	// ErrInvalidUploadsConfigs indicates uploads enabled without a usable
	// directory or memory limit.
	ErrInvalidUploadsConfigs = errors.New("invalid uploads configuration")
	// ErrInvalidConfigs covers every other rule violation.
	ErrInvalidConfigs = errors.New("invalid configuration")
)
