// Package template implements the path-template model at the heart of
// pathforge.
//
// A template is a naming convention: a pattern string with {token}
// placeholders (eg. "{job_path}/{entity}/work/{task}_v{ver}.{extn}")
// plus metadata parsed from the template's name. Templates format token
// data into concrete paths, parse existing paths back into token data,
// and feed the discovery engine in the glob package.
//
// Templates are immutable. Every transform (ApplyData, CropToToken,
// SplitHardened, ToDir, Duplicate) returns a new instance.
package template
