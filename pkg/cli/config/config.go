package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/domain/types"
)

// AppConfig represents the application configuration
type AppConfig struct {
	path     string
	Subjects []Subject `toml:"subject"`
}

// Subject represents a tutoring subject configuration
type Subject struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// Validate checks if the Subject is valid
func (s *Subject) Validate() error {
	id := types.SubjectID(s.ID)
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid subject ID")
	}
	if s.Name == "" {
		return goerr.New("subject name is required", goerr.V(SubjectIDKey, s.ID))
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if len(a.Subjects) == 0 {
		return goerr.Wrap(ErrInvalidConfig, "at least one subject is required")
	}

	subjectIDs := make(map[string]bool)
	for _, s := range a.Subjects {
		if err := s.Validate(); err != nil {
			return goerr.Wrap(err, "invalid subject")
		}
		if subjectIDs[s.ID] {
			return goerr.Wrap(ErrDuplicateSubject, "subject IDs must be unique", goerr.V(SubjectIDKey, s.ID))
		}
		subjectIDs[s.ID] = true
	}

	return nil
}

// Flags returns CLI flags for application configuration
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to subjects TOML configuration file",
			Sources:     cli.EnvVars("HABIB_CONFIG"),
			Destination: &a.path,
		},
	}
}

// defaultSubjects is used when no configuration file is provided
var defaultSubjects = []Subject{
	{ID: "computer_science", Name: "Computer Science"},
	{ID: "math", Name: "Mathematics"},
}

// Configure loads the subject configuration and builds the registry.
// Without a config file the built-in default subjects are used.
func (a *AppConfig) Configure() (*model.SubjectRegistry, error) {
	if a.path != "" {
		loaded, err := LoadAppConfiguration(a.path)
		if err != nil {
			return nil, err
		}
		a.Subjects = loaded.Subjects
	} else if len(a.Subjects) == 0 {
		a.Subjects = defaultSubjects
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}

	registry := model.NewSubjectRegistry()
	for _, s := range a.Subjects {
		registry.Register(&model.SubjectEntry{
			Subject: model.Subject{
				ID:   types.SubjectID(s.ID),
				Name: s.Name,
			},
			Description: s.Description,
		})
	}

	return registry, nil
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(ErrConfigNotFound, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}
