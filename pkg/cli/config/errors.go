package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound   = goerr.New("configuration file not found")
	ErrInvalidConfig    = goerr.New("invalid configuration")
	ErrDuplicateSubject = goerr.New("duplicate subject ID")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	SubjectIDKey  = "subject_id"
)
