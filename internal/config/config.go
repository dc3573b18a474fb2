package config

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/postbuild/internal/logging"
	"github.com/danmuck/postbuild/internal/shader"
)

// FileName is looked up in the base directory when no config path is given.
const FileName = "postbuild.toml"

var ErrInvalidConfig = errors.New("config: invalid")

type Backend string

const (
	BackendNaga Backend = "naga"
	BackendExec Backend = "exec"
)

type Config struct {
	Directories []string
	Shaders     ShaderConfig
	Log         LogConfig
}

type ShaderConfig struct {
	Backend      Backend
	SourceDir    string
	OutputSubdir string
	Targets      []string
	Validate     bool
	SPIRVVersion string
	Profiles     []ProfileConfig
	Exec         ExecConfig
}

type ProfileConfig struct {
	Name  string
	Dir   string
	Debug bool
}

type ExecConfig struct {
	Command string
	Args    []string
}

type LogConfig struct {
	Level     string
	Timestamp bool
	NoColor   bool
	JSON      bool
}

// DefaultDirectories is the provisioning order used without a config file.
func DefaultDirectories() []string {
	return []string{"target", "target/release", "target/debug"}
}

func DefaultConfig() Config {
	return Config{
		Directories: DefaultDirectories(),
		Shaders: ShaderConfig{
			Backend:      BackendNaga,
			SourceDir:    "shaders",
			OutputSubdir: "shaders",
			Targets:      []string{string(shader.TargetSPIRV)},
			Validate:     true,
			SPIRVVersion: "1.3",
			Profiles: []ProfileConfig{
				{Name: "release", Dir: "target/release", Debug: false},
				{Name: "debug", Dir: "target/debug", Debug: true},
			},
		},
		Log: LogConfig{
			Level:     "info",
			Timestamp: true,
		},
	}
}

type fileConfig struct {
	Directories []string    `toml:"directories"`
	Shaders     fileShaders `toml:"shaders"`
	Log         fileLog     `toml:"log"`
}

type fileShaders struct {
	Backend      string        `toml:"backend"`
	SourceDir    string        `toml:"source_dir"`
	OutputSubdir string        `toml:"output_subdir"`
	Targets      []string      `toml:"targets"`
	Validate     bool          `toml:"validate"`
	SPIRVVersion string        `toml:"spirv_version"`
	Profiles     []fileProfile `toml:"profiles"`
	Exec         fileExec      `toml:"exec"`
}

type fileProfile struct {
	Name  string `toml:"name"`
	Dir   string `toml:"dir"`
	Debug bool   `toml:"debug"`
}

type fileExec struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

type fileLog struct {
	Level     string `toml:"level"`
	Timestamp bool   `toml:"timestamp"`
	NoColor   bool   `toml:"no_color"`
	JSON      bool   `toml:"json"`
}

// Load reads path over DefaultConfig and validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("%w: load %s: %w", ErrInvalidConfig, path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("directories") {
		cfg.Directories = normalizeList(raw.Directories)
	}

	if meta.IsDefined("shaders", "backend") {
		cfg.Shaders.Backend = Backend(strings.ToLower(strings.TrimSpace(raw.Shaders.Backend)))
	}
	if meta.IsDefined("shaders", "source_dir") {
		cfg.Shaders.SourceDir = strings.TrimSpace(raw.Shaders.SourceDir)
	}
	if meta.IsDefined("shaders", "output_subdir") {
		cfg.Shaders.OutputSubdir = strings.TrimSpace(raw.Shaders.OutputSubdir)
	}
	if meta.IsDefined("shaders", "targets") {
		cfg.Shaders.Targets = normalizeList(raw.Shaders.Targets)
	}
	if meta.IsDefined("shaders", "validate") {
		cfg.Shaders.Validate = raw.Shaders.Validate
	}
	if meta.IsDefined("shaders", "spirv_version") {
		cfg.Shaders.SPIRVVersion = strings.TrimSpace(raw.Shaders.SPIRVVersion)
	}
	if meta.IsDefined("shaders", "profiles") {
		cfg.Shaders.Profiles = make([]ProfileConfig, 0, len(raw.Shaders.Profiles))
		for _, p := range raw.Shaders.Profiles {
			cfg.Shaders.Profiles = append(cfg.Shaders.Profiles, ProfileConfig{
				Name:  strings.TrimSpace(p.Name),
				Dir:   strings.TrimSpace(p.Dir),
				Debug: p.Debug,
			})
		}
	}
	if meta.IsDefined("shaders", "exec", "command") {
		cfg.Shaders.Exec.Command = strings.TrimSpace(raw.Shaders.Exec.Command)
	}
	if meta.IsDefined("shaders", "exec", "args") {
		cfg.Shaders.Exec.Args = append([]string{}, raw.Shaders.Exec.Args...)
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "timestamp") {
		cfg.Log.Timestamp = raw.Log.Timestamp
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}
	if meta.IsDefined("log", "json") {
		cfg.Log.JSON = raw.Log.JSON
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if err := ValidateDirectories(cfg.Directories); err != nil {
		return err
	}
	if err := ValidateShaders(cfg.Shaders); err != nil {
		return err
	}
	if lvl := strings.TrimSpace(cfg.Log.Level); lvl != "" {
		if _, ok := logging.ParseLevel(lvl); !ok {
			return fmt.Errorf("%w: log level %q", ErrInvalidConfig, cfg.Log.Level)
		}
	}
	return nil
}

// ValidateDirectories requires relative, unique entries where every listed
// parent precedes its children.
func ValidateDirectories(dirs []string) error {
	if len(dirs) == 0 {
		return fmt.Errorf("%w: directories must not be empty", ErrInvalidConfig)
	}
	index := make(map[string]int, len(dirs))
	for i, dir := range dirs {
		clean, err := cleanRelative(dir)
		if err != nil {
			return fmt.Errorf("%w: directories[%d]: %w", ErrInvalidConfig, i, err)
		}
		if _, dup := index[clean]; dup {
			return fmt.Errorf("%w: directories[%d]: duplicate %q", ErrInvalidConfig, i, dir)
		}
		index[clean] = i
	}
	for clean, i := range index {
		for parent := path.Dir(clean); parent != "."; parent = path.Dir(parent) {
			if j, ok := index[parent]; ok && j > i {
				return fmt.Errorf("%w: directories: %q must come before %q", ErrInvalidConfig, parent, clean)
			}
		}
	}
	return nil
}

func ValidateShaders(cfg ShaderConfig) error {
	switch cfg.Backend {
	case BackendNaga:
		if _, err := cleanRelative(cfg.SourceDir); err != nil {
			return fmt.Errorf("%w: shaders.source_dir: %w", ErrInvalidConfig, err)
		}
		if cfg.OutputSubdir != "" {
			if _, err := cleanRelative(cfg.OutputSubdir); err != nil {
				return fmt.Errorf("%w: shaders.output_subdir: %w", ErrInvalidConfig, err)
			}
		}
		if len(cfg.Targets) == 0 {
			return fmt.Errorf("%w: shaders.targets must not be empty", ErrInvalidConfig)
		}
		for _, t := range cfg.Targets {
			if _, err := shader.ParseTarget(t); err != nil {
				return fmt.Errorf("%w: shaders.targets: %w", ErrInvalidConfig, err)
			}
		}
		if _, err := shader.ParseSPIRVVersion(cfg.SPIRVVersion); err != nil {
			return fmt.Errorf("%w: shaders.spirv_version: %w", ErrInvalidConfig, err)
		}
		if len(cfg.Profiles) == 0 {
			return fmt.Errorf("%w: shaders.profiles must not be empty", ErrInvalidConfig)
		}
		seen := make(map[string]struct{}, len(cfg.Profiles))
		for i, p := range cfg.Profiles {
			if p.Name == "" {
				return fmt.Errorf("%w: shaders.profiles[%d]: name is required", ErrInvalidConfig, i)
			}
			if _, dup := seen[p.Name]; dup {
				return fmt.Errorf("%w: shaders.profiles[%d]: duplicate name %q", ErrInvalidConfig, i, p.Name)
			}
			seen[p.Name] = struct{}{}
			if _, err := cleanRelative(p.Dir); err != nil {
				return fmt.Errorf("%w: shaders.profiles[%d].dir: %w", ErrInvalidConfig, i, err)
			}
		}
	case BackendExec:
		if cfg.Exec.Command == "" {
			return fmt.Errorf("%w: shaders.exec.command is required for the exec backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: shaders.backend %q (want naga or exec)", ErrInvalidConfig, cfg.Backend)
	}
	return nil
}

// cleanRelative returns p in slash form after rejecting empty, absolute or
// escaping paths.
func cleanRelative(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%q is absolute", p)
	}
	clean := path.Clean(filepath.ToSlash(p))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%q escapes the base directory", p)
	}
	return clean, nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
