package tracemanager

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cipollone/trace-dfa/pkg/automata"
)

const xesHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// xesFile renders a minimal XES log with one trace per event-name
// list.
func xesFile(traces [][]string) string {
	out := xesHeader + `<log xes.version="1.0">` + "\n"
	for _, trace := range traces {
		out += "  <trace>\n"
		out += `    <string key="concept:name" value="case"/>` + "\n"
		for _, name := range trace {
			out += "    <event>\n"
			out += `      <string key="concept:name" value="` + name + `"/>` + "\n"
			out += `      <string key="lifecycle:transition" value="complete"/>` + "\n"
			out += "    </event>\n"
		}
		out += "  </trace>\n"
	}
	return out + "</log>\n"
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadTraces(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "log_OK.xes", xesFile([][]string{
		{"open", "work", "close"},
		{"open", "close"},
		{},
	}))

	traces, err := ReadTraces(path)
	require.NoError(t, err)
	require.Len(t, traces, 3)
	assert.Equal(t, []string{"open", "work", "close"}, traces[0])
	assert.Equal(t, []string{"open", "close"}, traces[1])
	assert.Empty(t, traces[2])
}

func TestReadTraces_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.xes", "<log><trace></log>")

	_, err := ReadTraces(path)
	assert.Error(t, err)
}

func TestLoadDirectory_Convention(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "log_OK.xes", xesFile([][]string{{"a", "b"}}))
	writeFile(t, dir, "log_BAD.xes", xesFile([][]string{{"a", "c"}}))
	writeFile(t, dir, "notes.txt", "ignored")

	traces, err := LoadDirectory(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, traces, 2)

	// Files are processed in name order: BAD before OK.
	assert.Equal(t, []string{"a", "c"}, traces[0].Labels)
	assert.False(t, traces[0].Accepted)
	assert.Equal(t, []string{"a", "b"}, traces[1].Labels)
	assert.True(t, traces[1].Accepted)
}

func TestLoadDirectory_Errors(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		_, err := LoadDirectory(context.Background(), t.TempDir())
		assert.ErrorIs(t, err, ErrNoTraces)
	})

	t.Run("not a directory", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "file.xes", xesFile(nil))
		_, err := LoadDirectory(context.Background(), path)
		assert.ErrorIs(t, err, ErrNotADirectory)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := LoadDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
}

func TestBuildAPTA(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "train_OK.xes", xesFile([][]string{{"a"}, {"a", "b"}}))
	writeFile(t, dir, "train_KO.xes", xesFile([][]string{{"b"}}))

	tree, err := BuildAPTA(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, automata.Accept, tree.Parse([]string{"a"}))
	assert.Equal(t, automata.Accept, tree.Parse([]string{"a", "b"}))
	assert.Equal(t, automata.Reject, tree.Parse([]string{"b"}))
	assert.Equal(t, automata.Unknown, tree.Parse([]string{"c"}))
}

func TestCompareOnTraces(t *testing.T) {
	// Reference tree: accepts "a", rejects "b".
	tree := automata.NewAPTA[string]()
	tree.Accept([]string{"a"})
	tree.Reject([]string{"b"})

	// A DFA accepting exactly "a" over alphabet {a, b}.
	b := automata.NewDFABuilder[string]()
	b.SetInitial(0)
	b.SetAccept(1)
	require.NoError(t, b.AddArc(0, "a", 1))
	require.NoError(t, b.AddArc(0, "b", 2))
	require.NoError(t, b.AddArc(1, "a", 2))
	require.NoError(t, b.AddArc(1, "b", 2))
	require.NoError(t, b.AddArc(2, "a", 2))
	require.NoError(t, b.AddArc(2, "b", 2))
	dfa, err := b.Build()
	require.NoError(t, err)

	tests := []struct {
		name   string
		traces [][]string
		want   float64
	}{
		{"full agreement", [][]string{{"a"}, {"b"}}, 1},
		{"no traces", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompareOnTraces(tt.traces, tree, dfa)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	// A model with the same transitions but no accepting state
	// disagrees on "a" and still agrees on "b".
	b2 := automata.NewDFABuilder[string]()
	b2.SetInitial(0)
	require.NoError(t, b2.AddArc(0, "a", 1))
	require.NoError(t, b2.AddArc(0, "b", 1))
	require.NoError(t, b2.AddArc(1, "a", 1))
	require.NoError(t, b2.AddArc(1, "b", 1))
	rejectAll, err := b2.Build()
	require.NoError(t, err)
	got, err := CompareOnTraces([][]string{{"a"}, {"b"}}, tree, rejectAll)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-9)

	// A strict parse falling off any model is fatal to the
	// comparison, not a disagreement.
	_, err = CompareOnTraces([][]string{{"a"}, {"c"}}, tree, dfa)
	assert.ErrorIs(t, err, automata.ErrImpossibleTransition)
}

func TestTestDFA(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "test_OK.xes", xesFile([][]string{{"a"}}))
	writeFile(t, dir, "test_NO.xes", xesFile([][]string{{"b"}}))

	b := automata.NewDFABuilder[string]()
	b.SetInitial(0)
	b.SetAccept(1)
	require.NoError(t, b.AddArc(0, "a", 1))
	require.NoError(t, b.AddArc(0, "b", 2))
	dfa, err := b.Build()
	require.NoError(t, err)

	score, err := TestDFA(context.Background(), dfa, dir)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}
