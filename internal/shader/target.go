package shader

import (
	"fmt"
	"strings"

	"github.com/gogpu/naga/spirv"
)

// Target is a shader output language.
type Target string

const (
	TargetSPIRV Target = "spirv"
	TargetGLSL  Target = "glsl"
	TargetMSL   Target = "msl"
	TargetHLSL  Target = "hlsl"
)

// Extension returns the output file extension for t, including the dot.
func (t Target) Extension() string {
	switch t {
	case TargetSPIRV:
		return ".spv"
	case TargetGLSL:
		return ".glsl"
	case TargetMSL:
		return ".metal"
	case TargetHLSL:
		return ".hlsl"
	default:
		return ""
	}
}

// ParseTarget normalizes a target name.
func ParseTarget(raw string) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(raw))); t {
	case TargetSPIRV, TargetGLSL, TargetMSL, TargetHLSL:
		return t, nil
	case "spv":
		return TargetSPIRV, nil
	case "metal":
		return TargetMSL, nil
	default:
		return "", fmt.Errorf("shader: unknown target %q", raw)
	}
}

// Profile is one build flavor with its own output directory.
type Profile struct {
	Name      string
	OutputDir string
	Debug     bool
}

// ParseSPIRVVersion accepts "1.0" and "1.3" through "1.6". Empty means 1.3.
func ParseSPIRVVersion(raw string) (spirv.Version, error) {
	switch strings.TrimSpace(raw) {
	case "", "1.3":
		return spirv.Version1_3, nil
	case "1.0":
		return spirv.Version1_0, nil
	case "1.4":
		return spirv.Version1_4, nil
	case "1.5":
		return spirv.Version1_5, nil
	case "1.6":
		return spirv.Version1_6, nil
	default:
		return spirv.Version{}, fmt.Errorf("shader: unsupported spirv version %q", raw)
	}
}
