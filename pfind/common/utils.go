package common

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathUtils provides path manipulation utilities used across projfind packages
type PathUtils struct{}

// NewPathUtils creates a new PathUtils instance
func NewPathUtils() *PathUtils {
	return &PathUtils{}
}

// NormalizePath normalizes a file path for cross-platform compatibility
func (pu *PathUtils) NormalizePath(path string) string {
	// Convert to absolute path
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(abs)
}

// IsSubpath checks if child is a subpath of parent
func (pu *PathUtils) IsSubpath(parent, child string) bool {
	parent = pu.NormalizePath(parent)
	child = pu.NormalizePath(child)

	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}

	return !strings.HasPrefix(rel, "..") && rel != "."
}

// ValidatePath validates that a path is non-empty and free of NUL bytes
func (pu *PathUtils) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("path contains invalid characters")
	}
	return nil
}

// DepthUtils provides depth arithmetic shared by the search backends
type DepthUtils struct{}

// NewDepthUtils creates a new DepthUtils instance
func NewDepthUtils() *DepthUtils {
	return &DepthUtils{}
}

// ExceedsDepth reports whether depth lies beyond the configured maximum.
// A negative maxDepth means unlimited. Depth 0 is the search root itself,
// so a maxDepth of k still scans k levels below each root.
func (du *DepthUtils) ExceedsDepth(maxDepth, depth int) bool {
	if maxDepth < 0 {
		return false
	}
	return depth > maxDepth
}

// CalculateDepth calculates the depth of a path relative to a base path
func (du *DepthUtils) CalculateDepth(basePath, targetPath string) (int, error) {
	relPath, err := filepath.Rel(basePath, targetPath)
	if err != nil {
		return 0, fmt.Errorf("failed to calculate relative path: %w", err)
	}

	if relPath == "." {
		return 0, nil
	}

	if strings.HasPrefix(relPath, "..") {
		return 0, fmt.Errorf("target path is not under base path")
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1, nil
}
