// Package provision ensures output directories exist under an explicit base.
//
// Ownership boundary:
// - single-level directory creation under a base path
// - classification of filesystem failures into provision errors
//
// Creation is non-recursive: callers order parents before children.
package provision
