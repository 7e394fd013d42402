package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/quill"
	"github.com/simonhull/quill/dispatch"
	"github.com/simonhull/quill/internal/config"
	"github.com/simonhull/quill/logger"
)

// captureOutput captures stdout during test execution
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func newTestRoot() *cobra.Command {
	root := RootCmd()
	root.AddCommand(RunCmd(), BuildCmd(), ExecCmd(), ConfigCmd(), VersionCmd())
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root
}

// inProject runs the test from an empty project directory with no user config
func inProject(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newTestRoot()
	root.SetArgs(args)
	var err error
	out := captureOutput(func() {
		err = root.Execute()
	})
	return out, err
}

func skipWithoutSh(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
}

func TestVersionCmd(t *testing.T) {
	root := newTestRoot()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "Quill v"+quill.Version+"\n", buf.String())
}

func TestEditor_RequiresTerminal(t *testing.T) {
	inProject(t)

	_, err := execute(t)
	assert.ErrorIs(t, err, errNotTerminal)
}

func TestExecCmd(t *testing.T) {
	skipWithoutSh(t)
	inProject(t)

	out, err := execute(t, "exec", "echo", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "$ echo hello")
	assert.Contains(t, out, "hello\n")
	assert.NotContains(t, out, "> ", "prompt markers are dropped headlessly")
}

func TestExecCmd_FlagsBelongToCommand(t *testing.T) {
	skipWithoutSh(t)
	inProject(t)

	out, err := execute(t, "exec", "echo", "-n", "x")
	require.NoError(t, err)
	assert.Contains(t, out, "$ echo -n x")
}

func TestExecCmd_NonZeroExit(t *testing.T) {
	skipWithoutSh(t)
	inProject(t)

	out, err := execute(t, "exec", "echo oops >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit code 3")
	assert.Contains(t, out, "Error: oops")
}

func TestExecCmd_CommandNotFound(t *testing.T) {
	skipWithoutSh(t)
	dir := inProject(t)
	cfg := "shell:\n  posix:\n    program: quill-no-such-shell\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quill.yml"), []byte(cfg), 0o644))

	out, err := execute(t, "exec", "true")
	require.Error(t, err)
	assert.Contains(t, out, "Failed to run: ")
}

func TestRunCmd_Unsupported(t *testing.T) {
	dir := inProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	out, err := execute(t, "run", "notes.txt")
	assert.ErrorIs(t, err, dispatch.ErrUnsupported)
	assert.True(t, strings.HasPrefix(out, dispatch.UnsupportedMessage))
	assert.Contains(t, out, "Supported extensions: .go .js .py .rs .sh")
}

func TestRunCmd_ShellScript(t *testing.T) {
	skipWithoutSh(t)
	dir := inProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.sh"), []byte("echo from script\n"), 0o644))

	out, err := execute(t, "run", "hello.sh")
	require.NoError(t, err)
	assert.Contains(t, out, "$ sh hello.sh")
	assert.Contains(t, out, "from script\n")
}

func TestRunCmd_ConfiguredRule(t *testing.T) {
	skipWithoutSh(t)
	dir := inProject(t)
	cfg := `run:
  rules:
    - ext: .txt
      steps:
        - program: cat
          args: ["{path}"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quill.yml"), []byte(cfg), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("plain text\n"), 0o644))

	out, err := execute(t, "run", "notes.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "plain text\n")
}

func TestBuildCmd_Configured(t *testing.T) {
	skipWithoutSh(t)
	dir := inProject(t)
	cfg := "build:\n  program: sh\n  args: [\"-c\", \"echo built\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quill.yml"), []byte(cfg), 0o644))

	out, err := execute(t, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "built\n")
}

func TestBuildCmd_RejectsArguments(t *testing.T) {
	inProject(t)

	_, err := execute(t, "build", "src/main.rs")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	dir := inProject(t)
	path := filepath.Join(dir, "conf", "quill.yml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Build, cfg.Build)
}

func TestConfigInit_AsksBeforeOverwrite(t *testing.T) {
	dir := inProject(t)
	path := filepath.Join(dir, "quill.yml")
	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0o644))

	root := newTestRoot()
	root.SetIn(strings.NewReader("n\n"))
	root.SetArgs([]string{"config", "init", path})
	out := captureOutput(func() {
		require.NoError(t, root.Execute())
	})
	assert.Contains(t, out, "unchanged")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data))

	_, err = execute(t, "config", "init", "--force", path)
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_depth: 3")
}

func TestConfigShow(t *testing.T) {
	dir := inProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quill.yml"), []byte("explorer:\n  max_depth: 7\n"), 0o644))

	root := newTestRoot()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"config", "show"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "max_depth: 7")
	assert.Contains(t, buf.String(), "program: cargo")
}

func TestConfigShow_InvalidConfig(t *testing.T) {
	dir := inProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quill.yml"), []byte("exec:\n  timeout: -1s\n"), 0o644))

	_, err := execute(t, "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exec.timeout")
}

func TestResolveTarget(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(file, []byte("fn main() {}\n"), 0o644))

	root, open, err := resolveTarget(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, root)
	assert.Empty(t, open)

	root, open, err = resolveTarget(file)
	require.NoError(t, err)
	assert.Equal(t, dir, root)
	assert.Equal(t, file, open)

	_, _, err = resolveTarget(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestOpenLogger(t *testing.T) {
	log, closer, err := openLogger("", logger.LevelInfo, false)
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.NoError(t, closer.Close())

	path := filepath.Join(t.TempDir(), "logs", "quill.log")
	log, closer, err = openLogger(path, logger.LevelWarn, false)
	require.NoError(t, err)
	log.Info("dropped")
	log.Warn("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[WARN] hello")
	assert.NotContains(t, string(data), "dropped")
}
