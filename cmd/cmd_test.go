package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/chrismacdonaldw/kattis-grind/internal/config"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args after putting every flag back to its
// default, since cobra keeps flag values between executions.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

// sandbox points the config home at a fresh directory holding a .kattisrc
// for a judge at baseURL and moves into an empty working directory.
func sandbox(t *testing.T, baseURL string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Chdir(t.TempDir())

	rc := fmt.Sprintf(`[user]
username = alice
token = secret

[kattis]
hostname = %[1]s
loginurl = %[1]s/login
submissionurl = %[1]s/submit

[settings]
languages = bash
difficulty = 1.0-2.0
test_timeout = 2
`, baseURL)
	require.NoError(t, os.WriteFile(filepath.Join(home, config.FileName), []byte(rc), 0o600))
	return home
}

func fakeJudge(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/problems/hello", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = io.WriteString(w, `<h1>Hello World!</h1><div class="problembody"><table class="sample"><tr><td><pre></pre></td><td><pre>Hello World!
</pre></td></tr></table></div>`)
	})
	mux.HandleFunc("/problems", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		rows := ""
		if r.URL.Query().Get("page") == "0" {
			for _, p := range []struct{ id, diff string }{{"hello", "1.2"}, {"r2", "1.4"}, {"trik", "4.5"}} {
				rows += fmt.Sprintf(`<tr><td><a href="/problems/%s">%s</a></td><td></td><td></td><td></td><td></td><td></td><td><span>%s</span></td></tr>`, p.id, p.id, p.diff)
			}
		}
		_, _ = io.WriteString(w, `<section data-cy="problems-table"><table><tbody>`+rows+`</tbody></table></section>`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestConfigInitKeepsEdits(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Chdir(t.TempDir())
	path := filepath.Join(home, config.FileName)

	require.NoError(t, execute(t, "config", "init"))
	require.FileExists(t, path)

	edited := strings.Replace(config.DefaultContents(), "YOUR_USERNAME_HERE", "alice", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o600))

	require.NoError(t, execute(t, "config", "init"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, edited, string(data))
}

func TestConfigValidateReportsPlaceholders(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Chdir(t.TempDir())

	require.NoError(t, execute(t, "config", "init"))
	err := execute(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issue(s)")
}

func TestMissingConfig(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	err := execute(t, "fetch", "hello")
	require.ErrorIs(t, err, kgerrors.ErrConfigMissing)
}

func TestSubmitUnknownExtensionFailsBeforeNetwork(t *testing.T) {
	srv, hits := fakeJudge(t)
	sandbox(t, srv.URL)
	require.NoError(t, os.WriteFile("solution.xyz", []byte("???"), 0o644))

	err := execute(t, "submit", "solution.xyz", "--force")
	require.ErrorIs(t, err, kgerrors.ErrValidation)
	assert.Zero(t, hits.Load())
}

func TestFetchThenTest(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not installed")
	}
	srv, _ := fakeJudge(t)
	home := sandbox(t, srv.URL)

	require.NoError(t, execute(t, "fetch", "hello"))
	dir := filepath.Join(config.DefaultProblemsDirectory, "hello")
	for _, name := range []string{"hello.html", "sample-1.in", "sample-1.ans"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	seenData, err := os.ReadFile(filepath.Join(home, config.SeenFileName))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(seenData))

	good := filepath.Join(dir, "hello.sh")
	require.NoError(t, os.WriteFile(good, []byte("echo 'Hello World!'\n"), 0o755))
	require.NoError(t, execute(t, "test", good))

	bad := filepath.Join(t.TempDir(), "bad.sh")
	require.NoError(t, os.WriteFile(bad, []byte("echo 'Hello, World!'\n"), 0o755))
	err = execute(t, "test", bad, "--problem", "hello")
	require.ErrorIs(t, err, kgerrors.ErrSamplesFailed)
}

func TestFetchUnknownProblem(t *testing.T) {
	srv, _ := fakeJudge(t)
	sandbox(t, srv.URL)

	err := execute(t, "fetch", "nosuchproblem")
	require.ErrorIs(t, err, kgerrors.ErrNotFound)
}

func TestRandIDOnly(t *testing.T) {
	srv, _ := fakeJudge(t)
	home := sandbox(t, srv.URL)

	require.NoError(t, execute(t, "rand", "--id-only", "--count", "2"))
	data, err := os.ReadFile(filepath.Join(home, config.SeenFileName))
	require.NoError(t, err)
	ids := strings.Fields(string(data))
	assert.ElementsMatch(t, []string{"hello", "r2"}, ids)

	err = execute(t, "rand", "--id-only")
	require.ErrorIs(t, err, kgerrors.ErrEmptyRange)
}

func TestRandInvertedRange(t *testing.T) {
	srv, hits := fakeJudge(t)
	sandbox(t, srv.URL)

	err := execute(t, "rand", "--min", "3", "--max", "1")
	require.ErrorIs(t, err, kgerrors.ErrEmptyRange)
	assert.Zero(t, hits.Load())
}
