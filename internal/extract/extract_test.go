package extract_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/chrismacdonaldw/kattis-grind/internal/extract"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestStatement(t *testing.T) {
	raw := readTestdata(t, "twostones.html")

	p, err := extract.Statement("twostones", raw)
	require.NoError(t, err)

	assert.Equal(t, "twostones", p.ID)
	assert.Equal(t, "Take Two Stones", p.Title)
	assert.Equal(t, raw, p.Raw)
	require.Len(t, p.Samples, 2)
	assert.Equal(t, extract.Sample{Input: "1\n", Output: "Alice\n"}, p.Samples[0])
	assert.Equal(t, extract.Sample{Input: "2\n", Output: "Bob\n"}, p.Samples[1])
}

func TestStatementWithoutBody(t *testing.T) {
	_, err := extract.Statement("x", []byte("<html><body><h1>Oops</h1></body></html>"))
	require.ErrorIs(t, err, kgerrors.ErrParse)
}

func TestStatementTitleFallsBackToID(t *testing.T) {
	p, err := extract.Statement("hello", []byte(`<div class="problembody"><p>Say hi</p></div>`))
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Title)
	assert.Empty(t, p.Samples)
}

func TestProblemList(t *testing.T) {
	entries, found, err := extract.ProblemList(readTestdata(t, "problems.html"))
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, []extract.CatalogEntry{
		{ID: "hello", Name: "Hello World!", Difficulty: 1.2},
		{ID: "twostones", Name: "Take Two Stones", Difficulty: 1.3},
		{ID: "carrots", Name: "Solving for Carrots", Difficulty: 1.5},
	}, entries)
}

func TestProblemListWithoutTable(t *testing.T) {
	entries, found, err := extract.ProblemList([]byte("<html><body>nothing here</body></html>"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, entries)
}

func TestMethodsToSolve(t *testing.T) {
	raw := readTestdata(t, "methodstosolve.html")

	hint, ok, err := extract.MethodsToSolve("twostones", raw)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, &extract.Hint{Type: "Ad Hoc", Text: "parity"}, hint)

	_, ok, err = extract.MethodsToSolve("unknown", raw)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = extract.MethodsToSolve("twostones", []byte("<p>moved</p>"))
	require.ErrorIs(t, err, kgerrors.ErrParse)
}

func TestSubmissionID(t *testing.T) {
	id, err := extract.SubmissionID("Submission received.\nSubmission ID: 1234567.\n")
	require.NoError(t, err)
	assert.Equal(t, "1234567", id)

	_, err = extract.SubmissionID("Problem not found")
	require.ErrorIs(t, err, kgerrors.ErrParse)
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestSampleBundle(t *testing.T) {
	data := buildZip(t, map[string]string{
		"10.in":      "ten\n",
		"10.ans":     "TEN\n",
		"2.in":       "two \n",
		"2.ans":      "TWO\n",
		"1.in":       "one\n",
		"1.ans":      "ONE\n",
		"orphan.in":  "nobody\n",
		"readme.txt": "ignored",
	})

	samples, err := extract.SampleBundle(data)
	require.NoError(t, err)
	assert.Equal(t, []extract.Sample{
		{Input: "one\n", Output: "ONE\n"},
		{Input: "two \n", Output: "TWO\n"},
		{Input: "ten\n", Output: "TEN\n"},
	}, samples)
}

func TestSampleBundleRejectsNonZip(t *testing.T) {
	_, err := extract.SampleBundle([]byte("<html>not found</html>"))
	require.ErrorIs(t, err, kgerrors.ErrParse)
}

func TestSubmissionRow(t *testing.T) {
	row := `<tr><td data-type="cpu">0.01 s</td><td data-type="testcases"><div>` +
		`<i class="is-accepted is-icon" title="Test case 1/4: Accepted"></i>` +
		`<i class="is-rejected is-icon" title="Test case 2/4: Wrong Answer"></i>` +
		`<i class="is-empty is-icon" title="Test case 3/4: not checked"></i>` +
		`<i class="is-empty is-icon" title="Test case 4/4: not checked"></i>` +
		`</div></td></tr>`

	j := extract.SubmissionRow(row)
	assert.Equal(t, ".x", j.Marks)
	assert.Equal(t, 4, j.Total)
	assert.Equal(t, "0.01 s", j.CPUTime)

	assert.Equal(t, extract.Judgement{}, extract.SubmissionRow(""))
}

func TestCompilerOutput(t *testing.T) {
	feedback := `<div><p>Compile error:</p><pre>main.cpp:1: error: expected ';'</pre></div>`
	assert.Equal(t, "main.cpp:1: error: expected ';'", extract.CompilerOutput(feedback))
	assert.Empty(t, extract.CompilerOutput(""))
}
