// Package shader holds the shader compilation collaborators invoked after
// output directories are provisioned.
//
// Ownership boundary:
// - in-process WGSL compilation through naga
// - external compiler invocation through tools.CommandRunner
//
// Every failure matches ErrCompileFailure.
package shader
