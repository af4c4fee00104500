package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.challengegame/pkg/report"
)

const testBank = `version: "1"
name: starter
challenges:
  - id: capital
    name: Capital of France
    category: geography
    kind: multiple_choice
    multiple_choice:
      question: Which city?
      options:
        - {id: 1, text: Berlin}
        - {id: 2, text: Paris}
      correct: [2]
  - id: planets
    name: Planet order
    category: science
    kind: sort_table
    dependencies: [capital]
    sort_table:
      prompt: Closest to the sun first
      rows:
        - {id: earth, label: Earth}
        - {id: mercury, label: Mercury}
        - {id: venus, label: Venus}
      solution: [mercury, venus, earth]
  - id: river
    name: Longest river
    category: geography
    kind: custom
    max_attempts: 2
    custom:
      prompt: Name the longest river
      answers: [Nile]
`

const testAchievements = `achievements:
  - id: first
    name: First Steps
    when: ["challenges_solved >= 1"]
  - id: perfect
    name: Perfect Run
    when: ["success_rate >= 1", "challenges_finished >= 3"]
`

type fixture struct {
	dir          string
	bank         string
	achievements string
	store        string
	history      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:          dir,
		bank:         filepath.Join(dir, "bank.yaml"),
		achievements: filepath.Join(dir, "achievements.yaml"),
		store:        filepath.Join(dir, "save.json"),
		history:      filepath.Join(dir, "history.jsonl"),
	}
	require.NoError(t, os.WriteFile(f.bank, []byte(testBank), 0644))
	require.NoError(t, os.WriteFile(f.achievements, []byte(testAchievements), 0644))
	return f
}

// args uses the file store.
func (f *fixture) args(extra ...string) []string {
	return f.argsWithStore([]string{"--store", "file", "--store-path", f.store}, extra...)
}

func (f *fixture) argsWithStore(store []string, extra ...string) []string {
	args := []string{
		"challengegame",
		"--env-file", filepath.Join(f.dir, "none.env"),
		"--bank", f.bank,
		"--achievements", f.achievements,
		"--history", f.history,
		"--map", "starter",
	}
	args = append(args, store...)
	return append(args, extra...)
}

func run(t *testing.T, input string, args []string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := newApp(strings.NewReader(input), &out, &errOut).Run(context.Background(), args)
	return out.String(), errOut.String(), err
}

func TestPlay_FullGame(t *testing.T) {
	f := newFixture(t)

	out, _, err := run(t, strings.Join([]string{
		"help",
		"choose 2",
		"bogus",
		`{"type":"solve_option","data":{"kind":"sort_table","order":["mercury","venus","earth"]}}`,
		"answer nile",
	}, "\n"), f.args("play"))
	require.NoError(t, err)

	assert.Contains(t, out, "Welcome to starter: 3 challenges.")
	assert.Contains(t, out, "[1/3] Capital of France (multiple_choice)")
	assert.Contains(t, out, "  2) Paris")
	assert.Contains(t, out, "-> correct!")
	assert.Contains(t, out, "error: ")
	assert.Contains(t, out, "[2/3] Planet order (sort_table)")
	assert.Contains(t, out, "** achievement unlocked: First Steps **")
	assert.Contains(t, out, "** achievement unlocked: Perfect Run **")
	assert.Contains(t, out, "All challenges finished.")
	assert.Contains(t, out, "Solved 3, failed 0, abandoned 0 of 3 challenges.")

	entries, err := report.ReadHistory(f.history)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "solved", entries[2].Outcome)

	data, err := os.ReadFile(f.store)
	require.NoError(t, err)
	var doc struct {
		State struct {
			Results []json.RawMessage `json:"results"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.State.Results, 3)
}

func TestPlay_ResumesSavedGame(t *testing.T) {
	f := newFixture(t)

	_, _, err := run(t, "choose 2\nquit\n", f.args("play"))
	require.NoError(t, err)

	out, _, err := run(t, "start\nanswer amazon\n", f.args("play"))
	require.NoError(t, err)
	assert.Contains(t, out, "Resuming starter: 1 of 3 challenges finished.")
	assert.Contains(t, out, "[2/3] Planet order")
	assert.Contains(t, out, "error: ", "answer kind does not match sort table")
	assert.NotContains(t, out, "First Steps", "already unlocked before resume")
}

func TestPlay_NoBankNoSave(t *testing.T) {
	f := newFixture(t)
	args := []string{
		"challengegame", "--env-file", filepath.Join(f.dir, "none.env"),
		"--store", "memory", "play",
	}
	_, _, err := run(t, "", args)
	assert.ErrorContains(t, err, "no saved game and no challenge bank")
}

func TestPlay_InvalidConfig(t *testing.T) {
	f := newFixture(t)
	_, _, err := run(t, "", f.argsWithStore([]string{"--store", "redis"}, "play"))
	assert.ErrorContains(t, err, "unknown store kind")
}

func TestPlay_ReportsAndSQLite(t *testing.T) {
	f := newFixture(t)
	reports := filepath.Join(f.dir, "reports")
	sqlite := []string{
		"--store", "sqlite",
		"--store-path", filepath.Join(f.dir, "game.db"),
		"--slot", "alice",
	}
	args := f.argsWithStore(sqlite,
		"--report-dir", reports,
		"--log-format", "json",
		"play",
	)

	out, _, err := run(t, "start\nabandon\n", args)
	require.NoError(t, err)
	assert.Contains(t, out, "-> capital abandoned")
	assert.Contains(t, out, "Solved 0, failed 0, abandoned 1 of 3 challenges.")

	for _, ext := range []string{"json", "md", "html"} {
		_, err := os.Stat(filepath.Join(reports, "latest_summary."+ext))
		assert.NoError(t, err, ext)
	}

	out, _, err = run(t, "", f.argsWithStore(sqlite, "stats"))
	require.NoError(t, err)
	assert.Contains(t, out, "Map starter: 1/3 finished")
	assert.Contains(t, out, "challenges_abandoned")
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	_, _, err := run(t, "choose 1\nchoose 2\nquit\n", f.args("play"))
	require.NoError(t, err)

	out, _, err := run(t, "", f.args("stats"))
	require.NoError(t, err)
	assert.Contains(t, out, "Map starter: 1/3 finished")
	assert.Contains(t, out, "incorrect_answers")
	assert.Contains(t, out, "  * First Steps")
	assert.Contains(t, out, "History: 1 finished challenges recorded")

	out, _, err = run(t, "", f.args("stats", "--format", "json"))
	require.NoError(t, err)
	var summary report.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 1, summary.Solved)
	assert.Equal(t, 3, summary.Total)

	out, _, err = run(t, "", f.args("stats", "--format", "markdown"))
	require.NoError(t, err)
	assert.Contains(t, out, "# Game Summary")

	_, _, err = run(t, "", f.args("stats", "--format", "pdf"))
	assert.ErrorContains(t, err, "unknown format")
}

func TestStats_NoSave(t *testing.T) {
	f := newFixture(t)
	_, _, err := run(t, "", f.args("stats"))
	assert.ErrorContains(t, err, "no saved game")
}

func TestValidate(t *testing.T) {
	f := newFixture(t)

	out, _, err := run(t, "", f.args("validate"))
	require.NoError(t, err)
	assert.Contains(t, out, f.bank+": ok")
	assert.Contains(t, out, "path: 3 challenges")
	assert.Contains(t, out, "2 achievements ok")

	bad := filepath.Join(f.dir, "bad")
	require.NoError(t, os.Mkdir(bad, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(bad, "cycle.json"), []byte(`{
		"version": "1",
		"challenges": [
			{"id": "a", "name": "A", "kind": "custom", "dependencies": ["b"], "custom": {"answers": ["x"]}},
			{"id": "b", "name": "B", "kind": "custom", "dependencies": ["a"], "custom": {"answers": ["x"]}}
		]
	}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(bad, "broken.yaml"), []byte(`challenges:
  - id: c
    name: C
    kind: multiple_choice
`), 0644))

	out, _, err = run(t, "", f.args("validate", bad))
	assert.ErrorIs(t, err, errInvalidBank)
	assert.Contains(t, out, "version: version is required")
	assert.Contains(t, out, "challenge payload missing")
	assert.Contains(t, out, "circular dependency detected")
}

func TestServe(t *testing.T) {
	f := newFixture(t)
	out, _, err := run(t, "choose 2\nquit\n", f.args("serve", "--addr", "127.0.0.1:0"))
	require.NoError(t, err)
	assert.Contains(t, out, "-> correct!")
	assert.Contains(t, out, "Solved 1, failed 0, abandoned 0 of 3 challenges.")
}

// idleStdin is a reader that blocks until the test ends.
func idleStdin(t *testing.T) io.Reader {
	t.Helper()
	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })
	return r
}

func runAsync(ctx context.Context, in io.Reader, args []string) (*bytes.Buffer, <-chan error) {
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- newApp(in, &out, io.Discard).Run(ctx, args)
	}()
	return &out, done
}

func TestServe_BusyPortStopsTheGame(t *testing.T) {
	f := newFixture(t)
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = busy.Close() })

	out, done := runAsync(context.Background(), idleStdin(t),
		f.args("serve", "--addr", busy.Addr().String()))

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "monitor listen")
		assert.Contains(t, out.String(), "Solved 0, failed 0, abandoned 0 of 3 challenges.")
	case <-time.After(5 * time.Second):
		t.Fatal("serve kept waiting for input after the monitor failed")
	}
}

func TestPlay_StopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	_, done := runAsync(ctx, idleStdin(t), f.args("play"))

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("play kept waiting for input after cancellation")
	}
}
