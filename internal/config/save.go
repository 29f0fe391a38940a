package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/netsentinel/netsentinel/internal/errors"
)

// configHeader is written above the generated YAML.
const configHeader = "# netsentinel configuration\n# Environment variables override these values, e.g. NETSENTINEL_BACKEND_URL.\n\n"

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't encode the config",
			"")
	}
	return out, nil
}

// Save writes cfg to path, creating parent directories. An existing file
// is replaced.
func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create the config directory",
			"Check permissions on "+filepath.Dir(path))
	}

	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write "+path,
			"Check file permissions")
	}
	return nil
}
