package runner_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	"github.com/chrismacdonaldw/kattis-grind/internal/language"
	"github.com/chrismacdonaldw/kattis-grind/internal/runner"
	"github.com/chrismacdonaldw/kattis-grind/ui/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	msgs []messages.Msg
}

func (r *recorder) Send(msg messages.Msg) {
	r.msgs = append(r.msgs, msg)
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	for _, name := range []string{"bash", "sh", "cp"} {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not installed", name)
		}
	}
}

// problemDir writes samples (input, answer pairs) and returns the directory.
func problemDir(t *testing.T, samples ...[2]string) string {
	t.Helper()
	dir := t.TempDir()
	for i, s := range samples {
		base := filepath.Join(dir, "sample-"+strconv.Itoa(i+1))
		require.NoError(t, os.WriteFile(base+".in", []byte(s[0]), 0o644))
		require.NoError(t, os.WriteFile(base+".ans", []byte(s[1]), 0o644))
	}
	return dir
}

func solution(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	return path
}

func bash(t *testing.T) *language.Language {
	t.Helper()
	lang, ok := language.Default().Lookup("bash")
	require.True(t, ok)
	return lang
}

func TestCompare(t *testing.T) {
	tests := []struct {
		got, want string
		same      bool
	}{
		{"3\n", "3 \n", true},
		{"3\n", "3.0\n", false},
		{"3", "3\n\n\n", true},
		{"a\r\nb\r\n", "a\nb\n", true},
		{"a  b\n", "a b\n", false},
		{"\n3\n", "3\n", false},
		{"", "\n", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.same, runner.Compare(tt.got, tt.want), "%q vs %q", tt.got, tt.want)
	}
}

func TestRunTimeoutContinues(t *testing.T) {
	requireShell(t)
	dir := problemDir(t, [2]string{"1\n", "1\n"}, [2]string{"2\n", "2\n"}, [2]string{"3\n", "3\n"})
	script := solution(t, "echo.sh", "read n\nif [ \"$n\" = \"2\" ]; then sleep 10; fi\necho \"$n\"\n")

	rec := &recorder{}
	start := time.Now()
	report, err := runner.Run(context.Background(), runner.Job{
		Files:    []string{script},
		Language: bash(t),
		Dir:      dir,
		Timeout:  500 * time.Millisecond,
	}, rec)
	require.NoError(t, err)

	assert.Equal(t, []runner.Verdict{runner.Pass, runner.Timeout, runner.Pass}, report.Verdicts())
	assert.False(t, report.AllPassed())
	assert.Equal(t, 2, report.Passed())
	assert.Less(t, time.Since(start), 8*time.Second)

	require.NotEmpty(t, rec.msgs)
	assert.IsType(t, messages.StartRunMsg{}, rec.msgs[0])
	assert.Equal(t, messages.SummaryMsg{Passed: 2, Total: 3}, rec.msgs[len(rec.msgs)-1])
}

func TestRunTrailingWhitespacePasses(t *testing.T) {
	requireShell(t)
	dir := problemDir(t, [2]string{"", "3 \n"})
	script := solution(t, "three.sh", "echo 3\n")

	report, err := runner.Run(context.Background(), runner.Job{Files: []string{script}, Language: bash(t), Dir: dir}, &recorder{})
	require.NoError(t, err)
	assert.True(t, report.AllPassed())
}

func TestRunWrongAnswerAndCrash(t *testing.T) {
	requireShell(t)
	dir := problemDir(t, [2]string{"ok\n", "3.0\n"}, [2]string{"crash\n", "x\n"})
	script := solution(t, "sol.sh", "read s\nif [ \"$s\" = crash ]; then echo boom >&2; exit 3; fi\necho 3\n")

	rec := &recorder{}
	report, err := runner.Run(context.Background(), runner.Job{Files: []string{script}, Language: bash(t), Dir: dir}, rec)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	var samples []messages.ResolveSampleMsg
	for _, m := range rec.msgs {
		if s, ok := m.(messages.ResolveSampleMsg); ok {
			samples = append(samples, s)
		}
	}
	require.Len(t, samples, 2)
	assert.False(t, samples[0].Crashed)
	assert.False(t, samples[0].TimedOut)
	assert.True(t, samples[1].Crashed)
	assert.Equal(t, runner.RuntimeError.String(), samples[1].Verdict)

	assert.Equal(t, runner.Fail, report.Results[0].Verdict)
	assert.Equal(t, "3\n", report.Results[0].Stdout)
	assert.Equal(t, "3.0\n", report.Results[0].Expected)

	assert.Equal(t, runner.RuntimeError, report.Results[1].Verdict)
	assert.Equal(t, 3, report.Results[1].ExitCode)
	assert.Equal(t, "boom\n", report.Results[1].Stderr)
}

func TestRunCompiledLanguage(t *testing.T) {
	requireShell(t)
	catalog, err := language.Parse([]byte(`
[[language]]
name = "Copy"
extensions = [".cp"]
compile = ["cp", "{main}", "{bin}"]
run = ["sh", "{bin}"]
`))
	require.NoError(t, err)
	lang, ok := catalog.Lookup("copy")
	require.True(t, ok)

	dir := problemDir(t, [2]string{"", "built\n"})
	src := solution(t, "main.cp", "echo built\n")

	rec := &recorder{}
	report, err := runner.Run(context.Background(), runner.Job{Files: []string{src}, Language: lang, Dir: dir}, rec)
	require.NoError(t, err)
	assert.True(t, report.AllPassed())

	var compiled bool
	for _, m := range rec.msgs {
		if _, ok := m.(messages.CompileMsg); ok {
			compiled = true
		}
	}
	assert.True(t, compiled)
}

func TestRunCompileError(t *testing.T) {
	requireShell(t)
	catalog, err := language.Parse([]byte(`
[[language]]
name = "Broken"
extensions = [".broken"]
compile = ["sh", "-c", "echo 'main.broken:1: syntax error' >&2; exit 1"]
run = ["{bin}"]
`))
	require.NoError(t, err)
	lang, _ := catalog.Lookup("broken")

	dir := problemDir(t, [2]string{"", "x\n"})
	rec := &recorder{}
	report, err := runner.Run(context.Background(), runner.Job{
		Files:    []string{solution(t, "main.broken", "")},
		Language: lang,
		Dir:      dir,
	}, rec)
	require.ErrorIs(t, err, kgerrors.ErrCompile)
	assert.Contains(t, err.Error(), "syntax error")
	assert.Nil(t, report)

	for _, m := range rec.msgs {
		_, isSample := m.(messages.ResolveSampleMsg)
		assert.False(t, isSample, "no sample may run after a failed compile")
	}
}

func TestRunMissingToolchain(t *testing.T) {
	catalog, err := language.Parse([]byte(`
[[language]]
name = "Ghost"
extensions = [".ghost"]
run = ["kattis-grind-no-such-interpreter", "{main}"]
`))
	require.NoError(t, err)
	lang, _ := catalog.Lookup("ghost")

	dir := problemDir(t, [2]string{"", "x\n"})
	_, err = runner.Run(context.Background(), runner.Job{
		Files:    []string{solution(t, "a.ghost", "")},
		Language: lang,
		Dir:      dir,
	}, &recorder{})
	require.ErrorIs(t, err, kgerrors.ErrCompile)
}

func TestRunWithoutSamples(t *testing.T) {
	_, err := runner.Run(context.Background(), runner.Job{
		Files:    []string{"x.sh"},
		Language: bash(t),
		Dir:      t.TempDir(),
	}, &recorder{})
	require.ErrorIs(t, err, kgerrors.ErrNotFound)
}

func TestRunNotRunnableLocally(t *testing.T) {
	csharp, ok := language.Default().Lookup("C#")
	require.True(t, ok)
	_, err := runner.Run(context.Background(), runner.Job{Language: csharp, Dir: t.TempDir()}, &recorder{})
	require.ErrorIs(t, err, kgerrors.ErrValidation)
}
