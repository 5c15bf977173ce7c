// Package tokens validates token values against job-supplied rules.
//
// A token is a named placeholder in a path template (eg. task, ver,
// extn). Each job may constrain the values a token can take: character
// restrictions, digit-only values, strict lengths, allow-lists. The
// discovery engine uses these rules to reject candidate paths before
// any expensive object construction happens.
package tokens
