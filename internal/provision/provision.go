package provision

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidBase      = errors.New("provision: base must be an existing absolute directory")
	ErrInvalidPath      = errors.New("provision: invalid relative path")
	ErrPathConflict     = errors.New("provision: path exists and is not a directory")
	ErrPermissionDenied = errors.New("provision: permission denied")
	ErrParentMissing    = errors.New("provision: parent directory missing")
)

// DefaultPerm is applied to every directory the provisioner creates.
const DefaultPerm fs.FileMode = 0o755

// Provisioner creates directories one level at a time under a base path.
type Provisioner struct {
	perm fs.FileMode
}

// New returns a provisioner creating directories with DefaultPerm.
func New() *Provisioner {
	return NewWithPerm(DefaultPerm)
}

// NewWithPerm returns a provisioner creating directories with perm.
func NewWithPerm(perm fs.FileMode) *Provisioner {
	if perm == 0 {
		perm = DefaultPerm
	}
	return &Provisioner{perm: perm}
}

// Ensure makes base/relative exist as a directory. It creates at most one
// directory and never creates missing parents.
func (p *Provisioner) Ensure(base, relative string) error {
	if err := checkBase(base); err != nil {
		return err
	}
	target, err := resolve(base, relative)
	if err != nil {
		return err
	}

	info, err := os.Stat(target)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrPathConflict, target)
		}
		log.Debug().Str("path", target).Msg("directory present")
		return nil
	case errors.Is(err, syscall.ENOTDIR):
		// an ancestor below base is a file
		return fmt.Errorf("%w: %w", ErrPathConflict, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("provision: %w", err)
	}

	if err := os.Mkdir(target, p.perm); err != nil {
		return p.classifyMkdir(target, err)
	}
	log.Info().Str("path", target).Msg("directory created")
	return nil
}

// EnsureAll provisions relatives in order and stops at the first failure.
func (p *Provisioner) EnsureAll(base string, relatives []string) error {
	for _, rel := range relatives {
		if err := p.Ensure(base, rel); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provisioner) classifyMkdir(target string, err error) error {
	switch {
	case errors.Is(err, fs.ErrExist):
		// lost a race with another creator; accept if it made a directory
		info, statErr := os.Stat(target)
		if statErr == nil && info.IsDir() {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrPathConflict, target)
	case errors.Is(err, syscall.ENOTDIR):
		return fmt.Errorf("%w: %w", ErrPathConflict, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrParentMissing, err)
	default:
		return fmt.Errorf("provision: %w", err)
	}
}

func checkBase(base string) error {
	if strings.TrimSpace(base) == "" || !filepath.IsAbs(base) {
		return fmt.Errorf("%w: %q", ErrInvalidBase, base)
	}
	info, err := os.Stat(base)
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w: %w", ErrInvalidBase, ErrPermissionDenied, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBase, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidBase, base)
	}
	return nil
}

func resolve(base, relative string) (string, error) {
	rel := strings.TrimSpace(relative)
	if rel == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s is absolute", ErrInvalidPath, rel)
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s escapes base", ErrInvalidPath, rel)
	}
	return filepath.Join(base, cleaned), nil
}
