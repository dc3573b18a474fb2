package postbuild

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/danmuck/postbuild/internal/config"
)

// ResolveBase returns override as an absolute path, or the directory holding
// the running executable when override is empty.
func ResolveBase(override string) (string, error) {
	if dir := strings.TrimSpace(override); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("postbuild: resolve base %q: %w", dir, err)
		}
		return abs, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("postbuild: locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// LoadConfig reads override when set, else base/postbuild.toml when present,
// else returns defaults. The returned path is empty for defaults.
func LoadConfig(base, override string) (config.Config, string, error) {
	if p := strings.TrimSpace(override); p != "" {
		cfg, err := config.Load(p)
		return cfg, p, err
	}

	p := filepath.Join(base, config.FileName)
	_, err := os.Stat(p)
	switch {
	case err == nil:
		cfg, err := config.Load(p)
		return cfg, p, err
	case errors.Is(err, fs.ErrNotExist):
		return config.DefaultConfig(), "", nil
	default:
		return config.Config{}, p, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
}
