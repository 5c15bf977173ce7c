package paths

import (
	"os"
	"path"
	"strings"
)

// EnvPathMap configures site-specific path mapping. The format is a
// semicolon-separated list of "source>>>destination" pairs, eg.
//
//	V:/Jobs>>>/mnt/jobs;W:/Assets>>>/mnt/assets
const EnvPathMap = "PATHFORGE_PATH_MAP"

// Norm normalizes a path to forward slashes and collapses redundant
// separators. Trailing slashes are dropped except for the root itself.
func Norm(p string) string {
	if p == "" {
		return ""
	}
	normed := strings.ReplaceAll(p, "\\", "/")
	cleaned := path.Clean(normed)
	if cleaned == "." {
		return ""
	}
	return cleaned
}

// IsAbs reports whether the path is absolute. Windows drive-letter
// prefixes (eg. "V:/Jobs") count as absolute so that patterns authored
// on either platform behave the same.
func IsAbs(p string) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}
	if len(p) >= 3 && p[1] == ':' && (p[2] == '/' || p[2] == '\\') {
		return true
	}
	return false
}

// Dir returns the directory part of the path, normalized
func Dir(p string) string {
	return Norm(path.Dir(Norm(p)))
}

// Base returns the final element of the path
func Base(p string) string {
	return path.Base(Norm(p))
}

// Extn returns the extension of the path without its leading dot, or
// an empty string if there is none
func Extn(p string) string {
	ext := path.Ext(p)
	return strings.TrimPrefix(ext, ".")
}

// Contains reports whether child falls inside dir (or equals it)
func Contains(dir, child string) bool {
	d := Norm(dir)
	c := Norm(child)
	if d == c {
		return true
	}
	return strings.HasPrefix(c, d+"/")
}

// RelPath returns child relative to dir. The child must fall inside dir.
func RelPath(dir, child string) (string, bool) {
	d := Norm(dir)
	c := Norm(child)
	if !strings.HasPrefix(c, d+"/") {
		return "", false
	}
	return c[len(d)+1:], true
}

// Map applies the site path-mapping table to the given path. If the
// map variable is unset the path is returned unchanged (normalized).
func Map(p string) string {
	if p == "" {
		return ""
	}
	normed := Norm(p)
	mapping := os.Getenv(EnvPathMap)
	if mapping == "" {
		return normed
	}
	for _, entry := range strings.Split(mapping, ";") {
		src, dest, ok := strings.Cut(entry, ">>>")
		if !ok {
			continue
		}
		src = Norm(src)
		if len(normed) >= len(src) && strings.EqualFold(normed[:len(src)], src) {
			return Norm(dest) + normed[len(src):]
		}
	}
	return normed
}
