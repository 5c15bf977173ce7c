package tokens

// Rule describes the constraints a job places on one token's values.
// A zero Rule accepts everything.
type Rule struct {
	// Whitelist values bypass every other check
	Whitelist []string `koanf:"whitelist" toml:"whitelist,omitempty" yaml:"whitelist,omitempty"`

	// Allowed restricts the value to this closed set
	Allowed []string `koanf:"allowed" toml:"allowed,omitempty" yaml:"allowed,omitempty"`

	// Len lists accepted value lengths, applied only when StrictLen is set
	Len       []int `koanf:"len" toml:"len,omitempty" yaml:"len,omitempty"`
	StrictLen bool  `koanf:"strict_len" toml:"strict_len,omitempty" yaml:"strict_len,omitempty"`

	// IsDigit requires the value to be numeric
	IsDigit bool `koanf:"isdigit" toml:"isdigit,omitempty" yaml:"isdigit,omitempty"`

	// NoSpace / NoUnderscore forbid the respective character
	NoSpace      bool `koanf:"nospace" toml:"nospace,omitempty" yaml:"nospace,omitempty"`
	NoUnderscore bool `koanf:"nounderscore" toml:"nounderscore,omitempty" yaml:"nounderscore,omitempty"`

	// Filter applies a text filter (see PassesFilter)
	Filter string `koanf:"filter" toml:"filter,omitempty" yaml:"filter,omitempty"`
}

// Rules maps token name to its rule. Tokens without an entry are
// unconstrained.
type Rules map[string]Rule

// Expression returns the placeholder expression this rule imposes on a
// pattern, or an empty string if the default expression applies.
func (r Rule) Expression() string {
	if r.NoUnderscore {
		return "[^_]+"
	}
	return ""
}
