// Package tools provides process helpers shared by build collaborators.
//
// Ownership boundary:
// - command execution helpers
// - exit code classification for spawned processes
package tools
