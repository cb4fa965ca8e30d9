package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, int64(500), cfg.LimitMB)
	assert.False(t, cfg.Resume)
	assert.False(t, cfg.Dedup)
	assert.NotEmpty(t, cfg.LogFile)
}

func TestValidate(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing root", func(c *Config) { c.Root = filepath.Join(root, "nope") }, true},
		{"root is a file", func(c *Config) { c.Root = file }, true},
		{"empty root", func(c *Config) { c.Root = "" }, true},
		{"log is a directory", func(c *Config) { c.LogFile = root }, true},
		{"log does not exist yet", func(c *Config) { c.LogFile = filepath.Join(root, "new.log") }, false},
		{"zero limit", func(c *Config) { c.LimitMB = 0 }, true},
		{"negative parser limit", func(c *Config) { c.Parser.MaxDepth = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Root = root
			cfg.LogFile = filepath.Join(root, "errors.log")
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rdfmine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root: /data/datasets
dedup: true
only:
  - "dataset-1*"
parser:
  max_triples: 1000
`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/datasets", cfg.Root)
	assert.True(t, cfg.Dedup)
	assert.Equal(t, []string{"dataset-1*"}, cfg.Only)
	assert.Equal(t, int64(1000), cfg.Parser.MaxTriples)
	assert.Equal(t, int64(DefaultLimitMB), cfg.LimitMB, "unset keys keep defaults")
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("limit_mb: [oops"), 0o644))
	_, err = LoadFromFile(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Root = "/a"
	cfg.Parser.MaxDepth = 10

	cfg.Merge(&Config{Root: "/b", LimitMB: 20, Resume: true, Parser: ParserConfig{MaxTriples: 5}})
	assert.Equal(t, "/b", cfg.Root)
	assert.Equal(t, int64(20), cfg.LimitMB)
	assert.True(t, cfg.Resume)
	assert.Equal(t, 10, cfg.Parser.MaxDepth)
	assert.Equal(t, int64(5), cfg.Parser.MaxTriples)

	cfg.Merge(nil)
	assert.Equal(t, "/b", cfg.Root)
}
