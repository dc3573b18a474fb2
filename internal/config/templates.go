package config

import (
	"fmt"
	"os"
)

func Template() string {
	return postbuildTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(postbuildTemplate), 0o600)
}

const postbuildTemplate = `# Directories are created in order, one level at a time.
directories = ["target", "target/release", "target/debug"]

[shaders]
# naga compiles WGSL in process; exec runs an external compiler once.
backend = "naga"
source_dir = "shaders"
output_subdir = "shaders"
targets = ["spirv"]
validate = true
spirv_version = "1.3"

[[shaders.profiles]]
name = "release"
dir = "target/release"
debug = false

[[shaders.profiles]]
name = "debug"
dir = "target/debug"
debug = true

# [shaders.exec]
# command = "glslc"
# args = ["-o", "target/release/shader.spv", "shaders/shader.frag"]

[log]
level = "info"
timestamp = true
no_color = false
json = false
`
