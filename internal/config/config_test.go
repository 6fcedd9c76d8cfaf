package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom(t *testing.T) {
	t.Parallel()

	t.Run("ValidFullConfig", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/valid_full.yaml")
		require.NoError(t, err)

		assert.Equal(t, []string{"build", "*.min.js", "vendor"}, cfg.Ignore)
		assert.Equal(t, []string{".gitignore", ".promptignore"}, cfg.IgnoreFiles)
		assert.True(t, cfg.IncludeHidden)
		assert.False(t, cfg.IgnoreGitignore)
		assert.True(t, cfg.ScopedRules)
		assert.Equal(t, "context.txt", cfg.Output)
		assert.Equal(t, "markdown", cfg.Format)
	})

	t.Run("ValidPartialConfig", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/valid_partial.yaml")
		require.NoError(t, err)

		assert.Equal(t, []string{"node_modules"}, cfg.Ignore)
		assert.False(t, cfg.IncludeHidden)
		assert.Empty(t, cfg.Output)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/empty.yaml")
		require.NoError(t, err)
		assert.True(t, cfg.IsEmpty())
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/invalid.yaml")
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("FileNotExists", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/nonexistent.yaml")
		require.NoError(t, err) // Not an error, returns empty config
		assert.NotNil(t, cfg)
		assert.True(t, cfg.IsEmpty())
	})

	t.Run("ExtraFields", func(t *testing.T) {
		t.Parallel()
		// Should ignore unknown fields without error
		cfg, err := LoadFrom("testdata/extra_fields.yaml")
		require.NoError(t, err)
		assert.Equal(t, []string{"dist"}, cfg.Ignore)
	})

	t.Run("ValidTOML", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/valid.toml")
		require.NoError(t, err)

		assert.Equal(t, []string{"build", "*.log"}, cfg.Ignore)
		assert.True(t, cfg.IncludeHidden)
		assert.Equal(t, "bundle.txt", cfg.Output)
		assert.Equal(t, "xml", cfg.Format)
	})

	t.Run("InvalidTOML", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/invalid.toml")
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("DirectoryInsteadOfFile", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom(t.TempDir())
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})
}

func TestFindAndLoad(t *testing.T) {
	t.Parallel()

	t.Run("FindsInCurrentDir", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, DefaultConfigFileName)
		err := os.WriteFile(configPath, []byte("ignore:\n  - build\n"), 0o644)
		require.NoError(t, err)

		cfg, path, err := FindAndLoad(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, configPath, path)
		assert.Equal(t, []string{"build"}, cfg.Ignore)
	})

	t.Run("FindsInParentDir", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		childDir := filepath.Join(tmpDir, "child")
		require.NoError(t, os.MkdirAll(childDir, 0o755))

		configPath := filepath.Join(tmpDir, DefaultConfigFileName)
		require.NoError(t, os.WriteFile(configPath, []byte("ignore:\n  - parent\n"), 0o644))

		cfg, path, err := FindAndLoad(childDir)
		require.NoError(t, err)
		assert.Equal(t, configPath, path)
		assert.Equal(t, []string{"parent"}, cfg.Ignore)
	})

	t.Run("FindsTOML", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, TOMLConfigFileName)
		require.NoError(t, os.WriteFile(configPath, []byte("output = \"all.txt\"\n"), 0o644))

		cfg, path, err := FindAndLoad(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, configPath, path)
		assert.Equal(t, "all.txt", cfg.Output)
	})

	t.Run("YAMLWinsOverTOML", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, DefaultConfigFileName),
			[]byte("output: from-yaml.txt\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, TOMLConfigFileName),
			[]byte("output = \"from-toml.txt\"\n"), 0o644))

		cfg, _, err := FindAndLoad(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, "from-yaml.txt", cfg.Output)
	})

	t.Run("NotFoundReturnsEmpty", func(t *testing.T) {
		t.Parallel()
		cfg, path, err := FindAndLoad(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.True(t, cfg.IsEmpty())
	})

	t.Run("CloserConfigTakesPrecedence", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		childDir := filepath.Join(tmpDir, "child")
		require.NoError(t, os.MkdirAll(childDir, 0o755))

		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, DefaultConfigFileName),
			[]byte("ignore:\n  - parent\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(childDir, DefaultConfigFileName),
			[]byte("ignore:\n  - child\n"), 0o644))

		cfg, _, err := FindAndLoad(childDir)
		require.NoError(t, err)
		assert.Contains(t, cfg.Ignore, "child")
		assert.NotContains(t, cfg.Ignore, "parent")
	})

	t.Run("InvalidConfigReturnsError", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, DefaultConfigFileName),
			[]byte("ignore: [oops\n"), 0o644))

		_, _, err := FindAndLoad(tmpDir)
		assert.Error(t, err)
	})
}

func TestConfig_IsEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   Config
		expected bool
	}{
		{name: "EmptyConfig", config: Config{}, expected: true},
		{name: "WithIgnore", config: Config{Ignore: []string{"build"}}, expected: false},
		{name: "WithIncludeHidden", config: Config{IncludeHidden: true}, expected: false},
		{name: "WithOutput", config: Config{Output: "out.txt"}, expected: false},
		{name: "WithFormat", config: Config{Format: "xml"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.config.IsEmpty())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "Empty", config: Config{}},
		{name: "KnownFormat", config: Config{Format: "Markdown"}},
		{name: "UnknownFormat", config: Config{Format: "pdf"}, wantErr: "invalid format"},
		{name: "IgnoreFileWithSlash", config: Config{IgnoreFiles: []string{"a/.gitignore"}}, wantErr: "invalid ignore file name"},
		{name: "EmptyIgnoreFile", config: Config{IgnoreFiles: []string{""}}, wantErr: "invalid ignore file name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Run("OverridesValues", func(t *testing.T) {
		t.Setenv("FILES_TO_PROMPT_OUTPUT", "env.txt")
		t.Setenv("FILES_TO_PROMPT_FORMAT", "xml")
		t.Setenv("FILES_TO_PROMPT_INCLUDE_HIDDEN", "true")

		cfg := &Config{Output: "file.txt"}
		require.NoError(t, ApplyEnv(cfg))

		assert.Equal(t, "env.txt", cfg.Output)
		assert.Equal(t, "xml", cfg.Format)
		assert.True(t, cfg.IncludeHidden)
	})

	t.Run("FalseOverridesConfig", func(t *testing.T) {
		t.Setenv("FILES_TO_PROMPT_SCOPED_RULES", "false")

		cfg := &Config{ScopedRules: true}
		require.NoError(t, ApplyEnv(cfg))

		assert.False(t, cfg.ScopedRules)
	})

	t.Run("UnsetLeavesConfig", func(t *testing.T) {
		cfg := &Config{Output: "file.txt", IgnoreGitignore: true}
		require.NoError(t, ApplyEnv(cfg))

		assert.Equal(t, "file.txt", cfg.Output)
		assert.True(t, cfg.IgnoreGitignore)
	})

	t.Run("InvalidBool", func(t *testing.T) {
		t.Setenv("FILES_TO_PROMPT_IGNORE_GITIGNORE", "sometimes")

		err := ApplyEnv(&Config{})
		assert.Error(t, err)
	})
}

func TestEnvKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "include_hidden", envKey("FILES_TO_PROMPT_INCLUDE_HIDDEN"))
	assert.Equal(t, "output", envKey("FILES_TO_PROMPT_OUTPUT"))
}
