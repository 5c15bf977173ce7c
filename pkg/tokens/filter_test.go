package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassesFilter(t *testing.T) {
	tests := []struct {
		value  string
		filter string
		want   bool
	}{
		{"anim_v001", "", true},
		{"anim_v001", "anim", true},
		{"anim_v001", "ANIM", true},
		{"anim_v001", "comp", false},
		{"anim_blocking_v001", "anim -blocking", false},
		{"anim_v001", "anim -blocking", true},
		{"bunny_tmp", "-tmp", false},
		{"bunny", "-tmp", true},
		{"lighting_v002", "light v002", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PassesFilter(tt.value, tt.filter),
			"PassesFilter(%q, %q)", tt.value, tt.filter)
	}
}
