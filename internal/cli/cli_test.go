package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibd1279/vks-examples/tutorial-bootstrap/internal/bootstrap"
)

type fakeRun struct {
	calls int
	opts  bootstrap.Options
	err   error
	fn    func(opts bootstrap.Options)
}

func (f *fakeRun) run(opts bootstrap.Options) error {
	f.calls++
	f.opts = opts
	if f.fn != nil {
		f.fn(opts)
	}
	return f.err
}

type process struct {
	out *bytes.Buffer
	err *bytes.Buffer
	run *fakeRun
}

func newProcess() *process {
	return &process{out: &bytes.Buffer{}, err: &bytes.Buffer{}, run: &fakeRun{}}
}

func (p *process) execute(args ...string) int {
	cmd := NewRootCmd(Streams{Out: p.out, Err: p.err}, p.run.run)
	cmd.SetArgs(args)
	return Execute(cmd, p.out)
}

func TestExecuteSuccess(t *testing.T) {
	p := newProcess()

	assert.Equal(t, 0, p.execute())
	assert.Equal(t, 1, p.run.calls)
	assert.Empty(t, p.out.String())
	assert.Empty(t, p.err.String())
}

func TestExecuteMissingConfigFile(t *testing.T) {
	p := newProcess()

	code := p.execute("--config", filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Equal(t, 1, code)
	assert.Regexp(t, `^Error: read config: `, p.out.String())
	assert.Zero(t, p.run.calls)
}

func TestExecuteInvalidConfigValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vkbootstrap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("application:\n  api_version: 1.2.3beta\n"), 0o644))
	p := newProcess()

	code := p.execute("--config", path)

	assert.Equal(t, 1, code)
	assert.Contains(t, p.out.String(), "Error: application.api_version")
	assert.Zero(t, p.run.calls)
}

func TestExecuteRunFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "missing validation layer",
			err: errors.Mark(
				errors.Newf("validation layer %q not available", "VK_LAYER_KHRONOS_validation"),
				bootstrap.ErrValidationLayersUnavailable),
			want: "Error: validation layer \"VK_LAYER_KHRONOS_validation\" not available\n",
		},
		{
			name: "loader unavailable",
			err: errors.Mark(
				errors.Wrap(errors.New("VK_ERROR_INITIALIZATION_FAILED"), "load vulkan"),
				bootstrap.ErrGraphicsLoaderUnavailable),
			want: "Error: load vulkan: VK_ERROR_INITIALIZATION_FAILED\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProcess()
			p.run.err = tt.err

			assert.Equal(t, 1, p.execute("--validation"))
			assert.Equal(t, tt.want, p.out.String())
		})
	}
}

func TestExecuteRecoversPanic(t *testing.T) {
	p := newProcess()
	p.run.fn = func(bootstrap.Options) { panic("no vulkan loader") }

	assert.Equal(t, 1, p.execute())
	assert.Equal(t, "Error: no vulkan loader\n", p.out.String())
}

func TestExecuteUnknownFlag(t *testing.T) {
	p := newProcess()

	assert.Equal(t, 1, p.execute("--frobnicate"))
	assert.Contains(t, p.out.String(), "Error: unknown flag: --frobnicate")
	assert.Zero(t, p.run.calls)
}

func TestExecuteInvalidLogLevel(t *testing.T) {
	p := newProcess()

	assert.Equal(t, 1, p.execute("--log-level", "chatty"))
	assert.Contains(t, p.out.String(), "invalid log level")
	assert.Zero(t, p.run.calls)
}

func TestFlagsReachOptions(t *testing.T) {
	p := newProcess()

	require.Equal(t, 0, p.execute("--validation", "--list-layers", "--portability"))

	opts := p.run.opts
	assert.True(t, opts.EnableValidation)
	assert.True(t, opts.ListLayers)
	assert.True(t, opts.Portability)
	assert.Equal(t, bootstrap.DefaultValidationLayers, opts.ValidationLayers)
	assert.Same(t, p.out, opts.Out)
	assert.Same(t, p.err, opts.Diagnostics)
	assert.NotNil(t, opts.Logger)
}

func TestDefaultLoggerIsQuiet(t *testing.T) {
	p := newProcess()
	p.run.fn = func(opts bootstrap.Options) {
		opts.Logger.Debug("window created")
		opts.Logger.Info("creating instance")
	}

	require.Equal(t, 0, p.execute())
	assert.Empty(t, p.err.String())
}

func TestLogLevelFlag(t *testing.T) {
	p := newProcess()
	p.run.fn = func(opts bootstrap.Options) {
		opts.Logger.Info("creating instance")
	}

	require.Equal(t, 0, p.execute("--log-level", "debug"))
	assert.Contains(t, p.err.String(), "creating instance")
	assert.NotContains(t, p.err.String(), "\x1b[")
}

func TestColourNeedsTerminal(t *testing.T) {
	p := newProcess()

	require.Equal(t, 0, p.execute())
	assert.False(t, p.run.opts.Colorize)

	p = newProcess()
	require.Equal(t, 0, p.execute("--no-color"))
	assert.False(t, p.run.opts.Colorize)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.Create(filepath.Join(t.TempDir(), "log"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}
