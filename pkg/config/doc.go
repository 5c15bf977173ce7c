// Package config loads job configuration: the name → pattern template
// table and the per-token validation rules.
//
// A job config is a static TOML or YAML file. Values can be overridden
// through PATHFORGE_-prefixed environment variables. The package only
// reads configuration; compiling the template table into usable objects
// is the template package's concern.
package config
