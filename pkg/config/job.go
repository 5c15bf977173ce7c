package config

import (
	"github.com/pathforge/pathforge/pkg/tokens"
)

// Job is the read-only configuration for one job (ie. one show or
// project). It supplies the raw template table and the token rules that
// template parsing and discovery validate against.
type Job struct {
	// Name identifies the job (eg. the show code)
	Name string `koanf:"name" toml:"name" yaml:"name"`

	// Root is the absolute path to the job on disk. It replaces the
	// {job_path} token when templates are built.
	Root string `koanf:"root" toml:"root" yaml:"root"`

	// Templates maps template name to raw pattern. Names carry the
	// host/profile qualifiers and the _alt<N> priority suffix; patterns
	// carry {token} placeholders and [optional] segments.
	Templates map[string]string `koanf:"templates" toml:"templates" yaml:"templates"`

	// Tokens holds the per-token validation rules
	Tokens tokens.Rules `koanf:"tokens" toml:"tokens" yaml:"tokens"`
}

// Rules returns the job's token rules, never nil
func (j *Job) Rules() tokens.Rules {
	if j == nil || j.Tokens == nil {
		return tokens.Rules{}
	}
	return j.Tokens
}
