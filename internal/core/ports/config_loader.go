package ports

import "go.trai.ch/precheckout/internal/core/domain"

// ConfigLoader defines the interface for loading controller settings.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves the settings for the given working directory.
	// A non-empty path is used as is; otherwise the settings file is discovered
	// by walking up from cwd. Defaults are returned when no file exists.
	Load(cwd, path string) (*domain.Settings, error)
}
