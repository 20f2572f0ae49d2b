package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viperFromYAML(t *testing.T, content string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(content)))
	return v
}

func TestLoad_Defaults(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultDataPath, cfg.Data.Path)
	assert.Equal(t, BackendText, cfg.Data.Backend)
	assert.Equal(t, filepath.Join(home, ".local/share/gradebook/gradebook.db"), cfg.Database.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Empty(t, cfg.Weights)
	assert.Equal(t, model.DefaultWeights(), cfg.InitialWeights())
}

func TestLoad_FromYAML(t *testing.T) {
	v := viperFromYAML(t, `
data:
  path: /tmp/class.txt
  backend: SQLite
database:
  path: /tmp/class.db
logging:
  level: debug
  format: json
weights:
  - category: Quizzes
    weight: 0.25
  - category: Final
    weight: 0.75
`)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/class.txt", cfg.Data.Path)
	assert.Equal(t, BackendSQLite, cfg.Data.Backend)
	assert.Equal(t, "/tmp/class.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, model.Weights{"Quizzes": 0.25, "Final": 0.75}, cfg.InitialWeights())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("GRADEBOOK_DATA_PATH", "/srv/grades.txt")

	v := viper.New()
	v.SetEnvPrefix("GRADEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/srv/grades.txt", cfg.Data.Path)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "unknown backend",
			yaml:    "data:\n  backend: postgres\n",
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "empty data path",
			yaml:    "data:\n  path: \"  \"\n",
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "weight out of range",
			yaml:    "weights:\n  - category: Tests\n    weight: 1.5\n",
			wantErr: common.ErrOutOfRange,
		},
		{
			name:    "weight without category",
			yaml:    "weights:\n  - weight: 0.5\n",
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "bad log level",
			yaml:    "logging:\n  level: loud\n",
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(viperFromYAML(t, tt.yaml))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("GRADEBOOK_TEST_DIR", "/data")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/grades.txt", filepath.Join(home, "grades.txt")},
		{"$GRADEBOOK_TEST_DIR/grades.txt", "/data/grades.txt"},
		{"relative/grades.txt", "relative/grades.txt"},
		{"~other/grades.txt", "~other/grades.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
