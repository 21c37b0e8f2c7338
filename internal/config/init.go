package config

import (
	"os"

	"gopkg.in/yaml.v3"

	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/retry"
)

// Init writes an example configuration to path. An existing file is only
// replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	example := &Config{}
	applyDefaults(example)
	example.Signaturit.Token = "${" + TokenEnv + "}"
	example.Relay.AllowedOrigins = []string{"http://localhost:8788"}
	def := retry.DefaultPolicy()
	example.Signaturit.Retry.Initial = def.Initial
	example.Signaturit.Retry.Max = def.Max

	data, err := yaml.Marshal(example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode configuration").Build()
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write configuration").
			WithContext("path", path).
			Build()
	}
	return nil
}
