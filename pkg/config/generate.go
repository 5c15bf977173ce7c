package config

import (
	toml "github.com/pelletier/go-toml/v2"

	"github.com/pathforge/pathforge/pkg/errors"
	"github.com/pathforge/pathforge/pkg/tokens"
)

// GenerateConfigContent renders a starter job config as TOML. The
// template table shows the common conventions; sites trim and extend it.
func GenerateConfigContent(name, root string) (string, error) {
	job := Job{
		Name: name,
		Root: root,
		Templates: map[string]string{
			"work":             "{job_path}/{entity}/work/{task}/{task}[_{tag}]_v{ver}.{extn}",
			"work_dir":         "{job_path}/{entity}/work/{task}",
			"publish":          "{job_path}/{entity}/publish/{task}/{entity}_{task}_v{ver}.{extn}",
			"cache":            "{job_path}/{entity}/cache/{task}/{entity}_{task}_v{ver}.{extn}",
			"render":           "{job_path}/{entity}/render/{task}/v{ver}/{entity}_{task}_v{ver}",
			"entity_path":      "{job_path}/{entity}",
			"shot_entity_path": "{job_path}/{sequence}_{shot}",
		},
		Tokens: tokens.Rules{
			"ver":  {IsDigit: true, StrictLen: true, Len: []int{3}},
			"task": {NoUnderscore: true, NoSpace: true},
			"tag":  {NoUnderscore: true, NoSpace: true},
		},
	}

	out, err := toml.Marshal(job)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to marshal starter config")
	}
	return string(out), nil
}
