package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSetsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# scene settings\nPORTFOLIO_VARIANT = studio\n\nPORTFOLIO_LOG='logs/dev.txt'\nbroken line\n=nokey\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("PORTFOLIO_VARIANT", "")
	t.Setenv("PORTFOLIO_LOG", "")

	require.NoError(t, Load(path))
	assert.Equal(t, "studio", os.Getenv("PORTFOLIO_VARIANT"))
	assert.Equal(t, "logs/dev.txt", os.Getenv("PORTFOLIO_LOG"))
}

func TestLoadMissingFile(t *testing.T) {
	assert.NoError(t, Load(filepath.Join(t.TempDir(), "absent.env")))
}

func TestStringAndBool(t *testing.T) {
	t.Setenv("PORTFOLIO_FPS", "Yes")
	t.Setenv("PORTFOLIO_EMPTY", " ")
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"bool set", Bool("PORTFOLIO_FPS", false), true},
		{"bool default", Bool("PORTFOLIO_UNSET_FLAG", true), true},
		{"string default on blank", String("PORTFOLIO_EMPTY", "editor"), "editor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
