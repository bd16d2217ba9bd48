package config

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Telemetry and persistence import config, and the application layer imports
// telemetry. Config must therefore stay free of application and interface packages.
func TestConfig_DoesNotImportUpperLayers(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	fset := token.NewFileSet()
	for _, name := range files {
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err, name)
		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			require.NoError(t, err)
			assert.False(t, strings.Contains(path, "/internal/application/"), "%s imports %s", name, path)
			assert.False(t, strings.Contains(path, "/internal/interfaces/"), "%s imports %s", name, path)
			assert.False(t, strings.Contains(path, "/internal/infrastructure/"), "%s imports %s", name, path)
		}
	}
}
