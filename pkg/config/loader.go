package config

import (
	_ "embed"
	"errors"
	"path/filepath"
	"strings"

	ktoml "github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	forgeerrors "github.com/pathforge/pathforge/pkg/errors"
	"github.com/pathforge/pathforge/pkg/logging"
	"github.com/pathforge/pathforge/pkg/paths"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix for environment variable overrides,
// eg. PATHFORGE_ROOT overrides the root key.
const EnvPrefix = "PATHFORGE_"

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load reads a job configuration file, layered on top of the embedded
// defaults and below any PATHFORGE_ environment overrides. TOML and
// YAML files are accepted, keyed off the file extension.
func Load(path string) (*Job, error) {
	logger := logging.GetLogger("config")

	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, ktoml.Parser()); err != nil {
		return nil, forgeerrors.Wrap(err, forgeerrors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Job config file
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, forgeerrors.Wrapf(
				err, forgeerrors.ErrConfigLoad, "failed to load config from %s", path)
		}
	}

	// 3. Environment overrides
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, forgeerrors.Wrap(err, forgeerrors.ErrConfigLoad, "failed to load env vars")
	}

	var job Job
	if err := k.Unmarshal("", &job); err != nil {
		return nil, forgeerrors.Wrap(err, forgeerrors.ErrConfigParse, "failed to unmarshal config")
	}
	job.Root = paths.Map(job.Root)

	logger.Debug().
		Str("path", path).
		Str("job", job.Name).
		Int("templates", len(job.Templates)).
		Int("tokens", len(job.Tokens)).
		Msg("Loaded job config")

	return &job, nil
}

// Default returns a job built from the embedded defaults only
func Default() *Job {
	job, err := Load("")
	if err != nil {
		// The embedded defaults are compiled in; failing to parse them
		// is a programming error.
		panic(err)
	}
	return job
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ktoml.Parser(), nil
	case ".yaml", ".yml":
		return kyaml.Parser(), nil
	}
	return nil, forgeerrors.Newf(
		forgeerrors.ErrConfigLoad, "unsupported config format: %s", path)
}
