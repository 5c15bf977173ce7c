// Package glob discovers on-disk paths matching compiled templates.
//
// The engine never walks the filesystem once per template. Templates
// are grouped by their literal root directory and traversed level by
// level, so each directory is listed exactly once no matter how many
// templates are still in play there. Candidates are pruned by entry
// kind and token validation before the full parse that confirms a
// match.
package glob
