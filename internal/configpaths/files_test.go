package configpaths_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/macropad/internal/configpaths"
)

func TestConfigCandidatePaths(t *testing.T) {
	tests := []struct {
		name     string
		userPath string
		first    func(j, y, tm []string) string
	}{
		{name: "json", userPath: "/tmp/pad.json", first: func(j, _, _ []string) string { return j[0] }},
		{name: "yaml", userPath: "/tmp/pad.yml", first: func(_, y, _ []string) string { return y[0] }},
		{name: "toml", userPath: "/tmp/pad.toml", first: func(_, _, tm []string) string { return tm[0] }},
		{name: "unknown extension goes to json", userPath: "/tmp/pad.conf", first: func(j, _, _ []string) string { return j[0] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, y, tm := configpaths.ConfigCandidatePaths(tt.userPath)
			assert.Equal(t, tt.userPath, tt.first(j, y, tm))
		})
	}
}

func TestDefaultConfigDirUsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := configpaths.DefaultConfigDir()
	if err != nil {
		t.Skip("platform without XDG support")
	}
	if filepath.Separator != '/' {
		t.Skip("unix only")
	}
	assert.Equal(t, "/xdg/macropad", dir)

	p, err := configpaths.DefaultNamedConfigPath("serve", "yml")
	assert.NoError(t, err)
	assert.Equal(t, "/xdg/macropad/serve.yaml", p)
}
