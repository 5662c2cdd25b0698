package main

import (
	"os"
	"path"
	"path/filepath"
	"testing"
	"time"

	"github.com/2x3systems/goknot/goknot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions(t *testing.T) {
	dir, err := os.MkdirTemp("", "goknot*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	opts, err := loadOptions("")
	require.NoError(t, err)
	assert.Equal(t, goknot.DefaultOptions(), opts)

	pathname := path.Join(dir, "opts.yaml")
	require.NoError(t, os.WriteFile(pathname, []byte("move_budget: 100\nsolve_timeout: 5s\n"), 0600))
	opts, err = loadOptions(pathname)
	require.NoError(t, err)
	assert.Equal(t, 100, opts.MoveBudget)
	assert.Equal(t, 5*time.Second, opts.SolveTimeout)

	require.NoError(t, os.WriteFile(pathname, []byte("epsilon: -1\n"), 0600))
	_, err = loadOptions(pathname)
	assert.ErrorIs(t, err, goknot.ErrBadOptions)

	_, err = loadOptions(path.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestScripts(t *testing.T) {
	scripts, err := filepath.Glob("scripts/*.py")
	require.NoError(t, err)
	require.NotEmpty(t, scripts)

	for _, pyFile := range scripts {
		assert.NoError(t, runScript(pyFile), pyFile)
	}
	assert.NoError(t, runScripts(scripts))
}

func TestRunScriptsStopsOnError(t *testing.T) {
	dir, err := os.MkdirTemp("", "goknot*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	bad := path.Join(dir, "bad.py")
	require.NoError(t, os.WriteFile(bad, []byte("import _pyknot as knot\nknot.analyze_curve(((0, 0, 0), (1, 0, 0)))\n"), 0600))
	good := path.Join(dir, "good.py")
	require.NoError(t, os.WriteFile(good, []byte("import _pyknot as knot\nprint(knot.LIB_VERSION)\n"), 0600))

	assert.NoError(t, runScripts([]string{good}))
	err = runScripts([]string{good, bad, good})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.py")
}
