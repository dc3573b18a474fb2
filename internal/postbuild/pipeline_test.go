package postbuild

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/postbuild/internal/config"
	"github.com/danmuck/postbuild/internal/provision"
	"github.com/danmuck/postbuild/internal/shader"
	"github.com/danmuck/postbuild/internal/testutil/testlog"
	"github.com/danmuck/postbuild/internal/tools"
)

// recordingCompiler counts calls and checks the tree exists when invoked.
type recordingCompiler struct {
	base    string
	calls   int
	missing []string
	err     error
}

func (c *recordingCompiler) CompileShaders() error {
	c.calls++
	for _, rel := range config.DefaultDirectories() {
		info, err := os.Stat(filepath.Join(c.base, rel))
		if err != nil || !info.IsDir() {
			c.missing = append(c.missing, rel)
		}
	}
	return c.err
}

func newPipeline(base string, compiler ShaderCompiler) *Pipeline {
	return &Pipeline{
		Base:        base,
		Directories: config.DefaultDirectories(),
		Provisioner: provision.New(),
		Compiler:    compiler,
	}
}

func TestRunEmptyBase(t *testing.T) {
	testlog.Start(t)
	base := t.TempDir()
	rec := &recordingCompiler{base: base}

	if err := newPipeline(base, rec).Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("expected one compile call, got %d", rec.calls)
	}
	if len(rec.missing) != 0 {
		t.Fatalf("compile ran before directories existed: %v", rec.missing)
	}
}

func TestRunTwiceIsIdempotent(t *testing.T) {
	testlog.Start(t)
	base := t.TempDir()
	rec := &recordingCompiler{base: base}
	p := newPipeline(base, rec)

	if err := p.Run(); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := p.Run(); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if rec.calls != 2 {
		t.Fatalf("expected one compile call per run, got %d", rec.calls)
	}
}

func TestRunKeepsExistingTarget(t *testing.T) {
	testlog.Start(t)
	base := t.TempDir()
	if err := os.Mkdir(filepath.Join(base, "target"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	keep := filepath.Join(base, "target", "CACHEDIR.TAG")
	if err := os.WriteFile(keep, []byte("Signature: 8a477f597d28d172789f06886806bc55"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rec := &recordingCompiler{base: base}

	if err := newPipeline(base, rec).Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(keep)
	if err != nil || string(data) != "Signature: 8a477f597d28d172789f06886806bc55" {
		t.Fatalf("existing file changed: %q %v", string(data), err)
	}
	if rec.calls != 1 || len(rec.missing) != 0 {
		t.Fatalf("unexpected compiler state: %+v", rec)
	}
}

func TestRunTargetIsFile(t *testing.T) {
	testlog.Start(t)
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "target"), []byte("oops"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rec := &recordingCompiler{base: base}

	err := newPipeline(base, rec).Run()
	if !errors.Is(err, provision.ErrPathConflict) {
		t.Fatalf("expected ErrPathConflict, got %v", err)
	}
	if rec.calls != 0 {
		t.Fatalf("compiler must not run after a provisioning failure")
	}
	if ExitCode(err) != ExitPathConflict {
		t.Fatalf("unexpected exit code: %d", ExitCode(err))
	}
}

func TestRunCompileFailurePropagatesUnchanged(t *testing.T) {
	testlog.Start(t)
	base := t.TempDir()
	want := &shader.CommandError{Command: "glslc", ExitCode: 1, Stderr: "boom"}
	rec := &recordingCompiler{base: base, err: want}

	err := newPipeline(base, rec).Run()
	if err != want {
		t.Fatalf("expected compiler error unchanged, got %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("expected exactly one compile call, got %d", rec.calls)
	}
	if ExitCode(err) != ExitCompileFailure {
		t.Fatalf("unexpected exit code: %d", ExitCode(err))
	}
}

func TestRunRequiresCollaborators(t *testing.T) {
	if err := (&Pipeline{Base: t.TempDir()}).Run(); err == nil {
		t.Fatalf("expected error for unwired pipeline")
	}
}

type fakeRunner struct {
	calls int
	dir   string
}

func (r *fakeRunner) Run(dir string, name string, args ...string) (tools.CommandResult, error) {
	r.calls++
	r.dir = dir
	return tools.CommandResult{}, nil
}

func TestNewWiresExecBackend(t *testing.T) {
	testlog.Start(t)
	base := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Shaders.Backend = config.BackendExec
	cfg.Shaders.Exec = config.ExecConfig{Command: "glslc", Args: []string{"-c", "a.frag"}}
	runner := &fakeRunner{}

	p, err := New(base, cfg, runner)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if runner.calls != 1 || runner.dir != base {
		t.Fatalf("unexpected runner use: %+v", runner)
	}
}

func TestNewWiresNagaBackend(t *testing.T) {
	testlog.Start(t)
	base := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Shaders.Validate = false
	src := filepath.Join(base, "shaders")
	if err := os.Mkdir(src, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	shaderSrc := "@fragment\nfn main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {\n    return color;\n}\n"
	if err := os.WriteFile(filepath.Join(src, "blit.wgsl"), []byte(shaderSrc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	p, err := New(base, cfg, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, profile := range []string{"release", "debug"} {
		out := filepath.Join(base, "target", profile, "shaders", "blit.spv")
		if _, err := os.Stat(out); err != nil {
			t.Fatalf("expected %s: %v", out, err)
		}
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Shaders.Backend = "fxc"
	if _, err := New(t.TempDir(), cfg, nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{errors.New("other"), ExitFailure},
		{provision.ErrPermissionDenied, ExitPermissionDenied},
		{provision.ErrParentMissing, ExitFailure},
		{fmt.Errorf("%w: %w", provision.ErrInvalidBase, provision.ErrPermissionDenied), ExitPermissionDenied},
		{fmt.Errorf("%w: not a directory", provision.ErrPathConflict), ExitPathConflict},
		{&shader.CompileError{Source: "a.wgsl", Err: errors.New("x")}, ExitCompileFailure},
		{config.ErrInvalidConfig, ExitUsage},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
