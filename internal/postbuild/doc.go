// Package postbuild runs the post-build step: ordered directory provisioning
// followed by exactly one shader compile call.
//
// Ownership boundary:
// - pipeline ordering and abort semantics
// - collaborator selection from configuration
// - exit code mapping
package postbuild
