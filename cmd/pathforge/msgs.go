package main

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort = "A path-template engine for production pipelines"
	MsgRootLong  = `pathforge compiles a job's path templates into matchers that can
format new paths from token data, parse existing paths back into their
tokens, and discover every matching path on disk without walking the
filesystem once per template.`

	MsgTemplatesShort = "List the compiled templates of the job"
	MsgTokensShort    = "List the job's token rules"
	MsgFormatShort    = "Format a path from token data"
	MsgFormatLong     = `Format resolves a template category into a concrete path.
Token values are given as key=value pairs; every unresolved token of
the template must be supplied.`
	MsgParseShort = "Parse a path back into its token values"
	MsgParseLong  = `Parse matches the path against the job's templates, best match
first, and prints the token values of the first template that parses,
validates, and round-trips cleanly.`
	MsgGlobShort = "Find existing paths matching templates"
	MsgGlobLong  = `Glob discovers every on-disk path matching the named template
categories (all categories when none are given). Directories shared by
several templates are listed only once.`
	MsgTokenShort     = "List the existing values of one token"
	MsgGenConfigShort = "Write a starter job configuration"
	MsgVersionShort   = "Print version information"
	MsgTopicsShort    = "Display available documentation topics"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig  = "Job configuration file (default: embedded defaults + PATHFORGE_* env)"
	MsgFlagOutput  = "Output format: auto, term, text, json, yaml"

	// Error messages
	MsgErrNoCommand   = "no command specified"
	MsgErrNoTemplates = "job has no templates in category %q"
	MsgErrBadPair     = "expected key=value, got %q"
)
