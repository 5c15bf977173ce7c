package template

// extnHosts maps file extensions to the host application whose scenes
// they are. Interchange formats (abc, usd, exr...) belong to no single
// host and are absent.
var extnHosts = map[string]string{
	"blend": "blender",
	"c4d":   "c4d",
	"hip":   "hou",
	"hiplc": "hou",
	"hipnc": "hou",
	"ma":    "maya",
	"mb":    "maya",
	"nk":    "nuke",
	"nknc":  "nuke",
	"spp":   "substance",
	"tgd":   "terragen",
}

// HostForExtn returns the host application that owns files with the
// given extension, or an empty string when no host claims it.
func HostForExtn(extn string) string {
	return extnHosts[extn]
}

// BasicCategory collapses derived categories onto the family they
// belong to: sequence caches report as cache, movs and blasts as
// render. Callers dispatching per family use this instead of
// Category.
func (t *Template) BasicCategory() string {
	switch t.category {
	case "cache_seq":
		return "cache"
	case "mov", "blast":
		return "render"
	}
	return t.category
}
