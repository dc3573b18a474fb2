package postbuild

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/danmuck/postbuild/internal/config"
	"github.com/danmuck/postbuild/internal/provision"
	"github.com/danmuck/postbuild/internal/shader"
	"github.com/danmuck/postbuild/internal/tools"
	"github.com/rs/zerolog/log"
)

// ShaderCompiler is the single capability invoked after provisioning.
type ShaderCompiler interface {
	CompileShaders() error
}

// DirectoryProvisioner creates one directory level under base.
type DirectoryProvisioner interface {
	EnsureAll(base string, relatives []string) error
}

// Pipeline provisions the output tree under Base and then compiles shaders.
type Pipeline struct {
	Base        string
	Directories []string
	Provisioner DirectoryProvisioner
	Compiler    ShaderCompiler
}

// New wires the pipeline from cfg. The compiler is chosen by cfg.Shaders.Backend.
func New(base string, cfg config.Config, runner tools.CommandRunner) (*Pipeline, error) {
	compiler, err := NewCompiler(base, cfg.Shaders, runner)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		Base:        base,
		Directories: append([]string(nil), cfg.Directories...),
		Provisioner: provision.New(),
		Compiler:    compiler,
	}, nil
}

// NewCompiler builds the configured shader collaborator rooted at base.
func NewCompiler(base string, cfg config.ShaderConfig, runner tools.CommandRunner) (ShaderCompiler, error) {
	switch cfg.Backend {
	case config.BackendExec:
		return shader.NewExecCompiler(base, cfg.Exec.Command, cfg.Exec.Args, runner), nil
	case config.BackendNaga:
		targets := make([]shader.Target, 0, len(cfg.Targets))
		for _, raw := range cfg.Targets {
			t, err := shader.ParseTarget(raw)
			if err != nil {
				return nil, err
			}
			targets = append(targets, t)
		}
		version, err := shader.ParseSPIRVVersion(cfg.SPIRVVersion)
		if err != nil {
			return nil, err
		}
		profiles := make([]shader.Profile, 0, len(cfg.Profiles))
		for _, p := range cfg.Profiles {
			profiles = append(profiles, shader.Profile{
				Name:      p.Name,
				OutputDir: filepath.Join(base, filepath.FromSlash(p.Dir), filepath.FromSlash(cfg.OutputSubdir)),
				Debug:     p.Debug,
			})
		}
		return shader.NewNagaCompiler(shader.NagaOptions{
			SourceDir:    filepath.Join(base, filepath.FromSlash(cfg.SourceDir)),
			Profiles:     profiles,
			Targets:      targets,
			Validate:     cfg.Validate,
			SPIRVVersion: version,
		}), nil
	default:
		return nil, fmt.Errorf("%w: shaders.backend %q", config.ErrInvalidConfig, cfg.Backend)
	}
}

// Run provisions every directory in order, then invokes the compiler once.
// A provisioning failure aborts before compilation; a compile failure is
// returned unchanged.
func (p *Pipeline) Run() error {
	if p.Provisioner == nil || p.Compiler == nil {
		return errors.New("postbuild: pipeline is missing a provisioner or compiler")
	}

	log.Info().Str("base", p.Base).Strs("directories", p.Directories).Msg("provisioning output directories")
	if err := p.Provisioner.EnsureAll(p.Base, p.Directories); err != nil {
		log.Error().Err(err).Str("base", p.Base).Msg("provisioning failed")
		return err
	}

	if err := p.Compiler.CompileShaders(); err != nil {
		log.Error().Err(err).Msg("shader compilation failed")
		return err
	}
	log.Info().Str("base", p.Base).Msg("post-build complete")
	return nil
}
