package shader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"
	"github.com/rs/zerolog/log"
)

const sourceExt = ".wgsl"

// NagaOptions configures in-process WGSL compilation.
type NagaOptions struct {
	SourceDir    string
	Profiles     []Profile
	Targets      []Target
	Validate     bool
	SPIRVVersion spirv.Version
}

// NagaCompiler compiles every WGSL file under SourceDir once per profile and
// target.
type NagaCompiler struct {
	opts NagaOptions
}

// Summary counts the work done by the last CompileShaders call.
type Summary struct {
	Sources int
	Outputs int
}

func NewNagaCompiler(opts NagaOptions) *NagaCompiler {
	if len(opts.Targets) == 0 {
		opts.Targets = []Target{TargetSPIRV}
	}
	if opts.SPIRVVersion == (spirv.Version{}) {
		opts.SPIRVVersion = spirv.Version1_3
	}
	return &NagaCompiler{opts: opts}
}

// CompileShaders compiles all sources and stops at the first failure.
func (c *NagaCompiler) CompileShaders() error {
	_, err := c.Compile()
	return err
}

// Compile is CompileShaders with a summary of written outputs.
func (c *NagaCompiler) Compile() (Summary, error) {
	var sum Summary
	sources, err := c.discover()
	if err != nil {
		return sum, err
	}
	if len(sources) == 0 {
		return sum, nil
	}

	for _, rel := range sources {
		src, err := os.ReadFile(filepath.Join(c.opts.SourceDir, rel))
		if err != nil {
			return sum, &CompileError{Source: rel, Profile: "*", Err: err}
		}
		for _, profile := range c.opts.Profiles {
			n, err := c.compileOne(rel, string(src), profile)
			sum.Outputs += n
			if err != nil {
				return sum, err
			}
		}
		sum.Sources++
	}

	log.Info().
		Int("sources", sum.Sources).
		Int("outputs", sum.Outputs).
		Str("source_dir", c.opts.SourceDir).
		Msg("shaders compiled")
	return sum, nil
}

func (c *NagaCompiler) discover() ([]string, error) {
	info, err := os.Stat(c.opts.SourceDir)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("source_dir", c.opts.SourceDir).Msg("no shader sources; nothing to compile")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailure, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: source %s is not a directory", ErrCompileFailure, c.opts.SourceDir)
	}

	sources := make([]string, 0)
	err = filepath.WalkDir(c.opts.SourceDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), sourceExt) {
			return nil
		}
		rel, err := filepath.Rel(c.opts.SourceDir, path)
		if err != nil {
			return err
		}
		sources = append(sources, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walk %s: %w", ErrCompileFailure, c.opts.SourceDir, err)
	}
	return sources, nil
}

func (c *NagaCompiler) compileOne(rel, src string, profile Profile) (int, error) {
	fail := func(target Target, err error) error {
		return &CompileError{Source: rel, Profile: profile.Name, Target: target, Err: err}
	}

	ast, err := naga.Parse(src)
	if err != nil {
		return 0, fail("", err)
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return 0, fail("", err)
	}
	if c.opts.Validate {
		verrs, err := naga.Validate(module)
		if err != nil {
			return 0, fail("", err)
		}
		if len(verrs) > 0 {
			return 0, fail("", verrs[0])
		}
	}

	written := 0
	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	for _, target := range c.opts.Targets {
		out, err := c.emit(module, target, profile)
		if err != nil {
			return written, fail(target, err)
		}
		dst := filepath.Join(profile.OutputDir, stem+target.Extension())
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return written, fail(target, err)
		}
		if err := os.WriteFile(dst, out, 0o644); err != nil {
			return written, fail(target, err)
		}
		written++
		log.Debug().
			Str("source", rel).
			Str("profile", profile.Name).
			Str("target", string(target)).
			Str("path", dst).
			Int("bytes", len(out)).
			Msg("shader written")
	}
	return written, nil
}

func (c *NagaCompiler) emit(module *ir.Module, target Target, profile Profile) ([]byte, error) {
	switch target {
	case TargetSPIRV:
		return naga.GenerateSPIRV(module, spirv.Options{
			Version: c.opts.SPIRVVersion,
			Debug:   profile.Debug,
		})
	case TargetGLSL:
		code, _, err := glsl.Compile(module, glsl.DefaultOptions())
		return []byte(code), err
	case TargetMSL:
		code, _, err := msl.Compile(module, msl.DefaultOptions())
		return []byte(code), err
	case TargetHLSL:
		code, _, err := hlsl.Compile(module, hlsl.DefaultOptions())
		return []byte(code), err
	default:
		return nil, fmt.Errorf("unknown target %q", target)
	}
}
