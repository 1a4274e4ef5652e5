package ciutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, GoModFile), []byte("module example\n"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(root, MigrationsPath), 0o755))
	return root
}

func TestFindProjectRootByTraversal(t *testing.T) {
	root := makeProject(t)
	nested := filepath.Join(root, "internal", "platform", "postgres")

	got, err := findProjectRootByTraversal(nested, nil)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindProjectRootByTraversalAcceptsGitDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, GitDirectory), 0o755))
	nested := filepath.Join(root, "cmd")
	require.NoError(t, os.Mkdir(nested, 0o755))

	got, err := findProjectRootByTraversal(nested, nil)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindProjectRootByTraversalGivesUp(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < maxTraversalDepth+1; i++ {
		dir = filepath.Join(dir, "d")
	}
	require.NoError(t, os.MkdirAll(dir, 0o755))

	_, err := findProjectRootByTraversal(dir, nil)
	assert.True(t, errors.Is(err, ErrProjectRootNotFound))
}

func TestFindProjectRootFromEnvironment(t *testing.T) {
	clearCIEnv(t)
	root := makeProject(t)
	elsewhere := t.TempDir()

	t.Run("explicit override", func(t *testing.T) {
		t.Setenv(EnvProjectRoot, root)
		got, err := findProjectRootFrom(elsewhere, nil)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("override without go.mod", func(t *testing.T) {
		t.Setenv(EnvProjectRoot, elsewhere)
		_, err := findProjectRootFrom(elsewhere, nil)
		assert.True(t, errors.Is(err, ErrInvalidProjectRoot))
	})

	t.Run("github workspace", func(t *testing.T) {
		t.Setenv(EnvGitHubActions, "true")
		t.Setenv(EnvGitHubWorkspace, root)
		got, err := findProjectRootFrom(elsewhere, nil)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("gitlab project dir", func(t *testing.T) {
		t.Setenv(EnvGitLabCI, "true")
		t.Setenv(EnvGitLabProjectDir, root)
		got, err := findProjectRootFrom(elsewhere, nil)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})
}

func TestFindMigrationsDir(t *testing.T) {
	clearCIEnv(t)
	root := makeProject(t)
	t.Setenv(EnvProjectRoot, root)

	got, err := FindMigrationsDir(nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, MigrationsPath), got)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "internal")))
	_, err = FindMigrationsDir(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations directory not found")
}
