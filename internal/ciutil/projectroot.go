package ciutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Project root marker files.
const (
	GoModFile    = "go.mod"
	GitDirectory = ".git"
)

// MigrationsPath is the migrations source directory relative to the project root.
var MigrationsPath = filepath.Join("internal", "platform", "postgres", "migrations")

// maxTraversalDepth bounds the upward search for a project marker.
const maxTraversalDepth = 10

var (
	ErrProjectRootNotFound = errors.New("unable to find project root")
	ErrInvalidProjectRoot  = errors.New("invalid project root: no go.mod file found")
)

// FindProjectRoot returns the absolute path of the project root. It checks,
// in order, POCKETDOC_PROJECT_ROOT, the GitHub Actions workspace, the GitLab
// CI project directory, and finally walks upward from the working directory
// looking for go.mod or .git.
func FindProjectRoot(logger *slog.Logger) (string, error) {
	workingDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return findProjectRootFrom(workingDir, logger)
}

type rootCandidate struct {
	source string
	dir    string
}

func findProjectRootFrom(startDir string, logger *slog.Logger) (string, error) {
	candidates := []rootCandidate{{source: EnvProjectRoot, dir: os.Getenv(EnvProjectRoot)}}
	if IsGitHubActions() {
		candidates = append(candidates, rootCandidate{source: EnvGitHubWorkspace, dir: os.Getenv(EnvGitHubWorkspace)})
	}
	if IsGitLabCI() {
		candidates = append(candidates, rootCandidate{source: EnvGitLabProjectDir, dir: os.Getenv(EnvGitLabProjectDir)})
	}

	for _, c := range candidates {
		if c.dir == "" {
			continue
		}
		if logger != nil {
			logger.Debug("Using project root from environment",
				"source", c.source,
				"project_root", c.dir,
			)
		}
		if !isValidProjectRoot(c.dir) {
			return "", fmt.Errorf("%w at %s", ErrInvalidProjectRoot, c.dir)
		}
		return c.dir, nil
	}

	return findProjectRootByTraversal(startDir, logger)
}

// findProjectRootByTraversal walks upward from startDir until it finds go.mod
// or a .git directory.
func findProjectRootByTraversal(startDir string, logger *slog.Logger) (string, error) {
	currentDir := startDir

	for i := 0; i < maxTraversalDepth; i++ {
		if fileExists(filepath.Join(currentDir, GoModFile)) ||
			dirExists(filepath.Join(currentDir, GitDirectory)) {
			if logger != nil {
				logger.Debug("Found project root", "project_root", currentDir)
			}
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	if logger != nil {
		logger.Warn("Failed to find project root by directory traversal",
			"start_dir", startDir,
			"max_depth", maxTraversalDepth,
		)
	}
	return "", ErrProjectRootNotFound
}

func isValidProjectRoot(dir string) bool {
	return dirExists(dir) && fileExists(filepath.Join(dir, GoModFile))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FindMigrationsDir returns the absolute path of the Postgres migrations
// source directory, where new migration files are created.
func FindMigrationsDir(logger *slog.Logger) (string, error) {
	projectRoot, err := FindProjectRoot(logger)
	if err != nil {
		return "", fmt.Errorf("failed to find project root: %w", err)
	}

	migrationsPath := filepath.Join(projectRoot, MigrationsPath)
	if !dirExists(migrationsPath) {
		return "", fmt.Errorf("migrations directory not found at %s", migrationsPath)
	}
	return migrationsPath, nil
}
