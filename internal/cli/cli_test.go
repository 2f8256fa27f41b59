package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/repeat/internal/codec"
	"github.com/phrazzld/repeat/internal/domain/schedule"
)

const reviewNow = "2024-03-06T10:00:00Z"

// workspace is a temporary config and review log shared by the commands of
// one test.
type workspace struct {
	dir    string
	config string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	content := "revlog:\n  path: " + filepath.Join(dir, "revlog.db") + "\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o600))
	return workspace{dir: dir, config: cfg}
}

func (ws workspace) writeNote(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(ws.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (ws workspace) execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", ws.config, "--now", reviewNow}, args...))

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func (ws workspace) mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := ws.execute(t, args...)
	require.NoError(t, err, out)
	return out
}

func TestParseCommand(t *testing.T) {
	t.Parallel()
	ws := newWorkspace(t)

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		out := ws.mustExecute(t, "parse", "--json", "every", "fri", "&", "mon", "pm")

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "every monday, friday in the evening", got["repeat"])
		assert.Equal(t, "periodic", got["strategy"])
		assert.Equal(t, "PM", got["time_of_day"])
		assert.Equal(t, []any{"monday", "friday"}, got["weekdays"])
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		out := ws.mustExecute(t, "parse", "spaced every 3 weeks")
		assert.Contains(t, out, "spaced every 3 weeks")
		assert.Contains(t, out, "spaced")
		assert.Contains(t, out, "week")
		assert.NotContains(t, out, "weekdays")
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		out := ws.mustExecute(t, "parse", "--json", "off")

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "never", got["repeat"])
		assert.Equal(t, true, got["disabled"])
		assert.NotContains(t, got, "strategy")
	})

	t.Run("requires a phrase", func(t *testing.T) {
		t.Parallel()
		_, err := ws.execute(t, "parse")
		assert.Error(t, err)
	})
}

func TestChoicesCommand(t *testing.T) {
	t.Parallel()
	ws := newWorkspace(t)

	// Subtests share one review log
	t.Run("text table", func(t *testing.T) {
		out := ws.mustExecute(t, "choices", "--repeat", "every 2 days", "--due-at", "2024-03-05T06:00:00Z")
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3, out)
		assert.Contains(t, lines[0], "INDEX")
		assert.Contains(t, lines[1], schedule.SkipLabel)
		assert.Contains(t, lines[2], "2024-03-07T06:00:00Z")
	})

	t.Run("json adaptive", func(t *testing.T) {
		out := ws.mustExecute(t, "choices", "--json", "--repeat", "fsrs", "--due-at", "2024-03-05T06:00:00Z")

		var got struct {
			Choices []struct {
				Label  string `json:"label"`
				Rating int    `json:"rating"`
			} `json:"choices"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got.Choices, 5)
		assert.Equal(t, schedule.SkipLabel, got.Choices[0].Label)
		for i, c := range got.Choices[1:] {
			assert.Equal(t, i+1, c.Rating)
		}
	})

	t.Run("not yet due", func(t *testing.T) {
		out := ws.mustExecute(t, "choices", "--json", "--repeat", "daily", "--due-at", "2024-03-09T06:00:00Z")
		assert.Contains(t, out, `"outcome": "dismiss"`)
		assert.NotContains(t, out, `"repetition"`)
	})

	t.Run("unscheduled note", func(t *testing.T) {
		note := ws.writeNote(t, "plain.md", "# Just a note\n")
		out := ws.mustExecute(t, "choices", "--file", note)
		assert.Equal(t, "Not scheduled for review.\n", out)
	})

	t.Run("invalid --now", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--config", ws.config, "--now", "tomorrow", "choices", "--repeat", "daily"})
		err := cmd.ExecuteContext(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be RFC 3339")
	})
}

func TestReviewCommand(t *testing.T) {
	t.Parallel()

	t.Run("writes the note", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		note := ws.writeNote(t, "verbs.md",
			"---\ntitle: Verbs\nrepeat: every 2 days\ndue_at: 2024-03-05T06:00:00Z\n---\nBody.\n")

		ws.mustExecute(t, "review", "--file", note, "--choice", "1", "--write")

		data, err := os.ReadFile(note)
		require.NoError(t, err)
		fields, found, err := codec.ReadFrontmatter(string(data))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, codec.Scalar("every 2 days"), fields.Repeat)
		assert.Equal(t, codec.Scalar("2024-03-07T06:00:00Z"), fields.DueAt)
		assert.Contains(t, string(data), "title: Verbs\n")
		assert.True(t, strings.HasSuffix(string(data), "---\nBody.\n"))

		// Unrated choices leave the review log empty
		out := ws.mustExecute(t, "stats", "--json")
		assert.Contains(t, out, `"total_reviews": 0`)
	})

	t.Run("dismiss leaves the note alone", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		content := "---\nrepeat: daily\ndue_at: 2024-03-09T06:00:00Z\n---\n"
		note := ws.writeNote(t, "later.md", content)

		out := ws.mustExecute(t, "review", "--file", note, "--choice", "0", "--write")
		assert.Contains(t, out, "Record unchanged.")

		data, err := os.ReadFile(note)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	})

	t.Run("rated choice is logged", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)

		out := ws.mustExecute(t, "review", "--json", "--item", "card-1",
			"--repeat", "fsrs", "--due-at", "2024-03-05T06:00:00Z", "--choice", "3")

		var got struct {
			Write bool         `json:"write"`
			Entry *struct{}    `json:"entry"`
			Field codec.Fields `json:"fields"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.True(t, got.Write)
		assert.NotNil(t, got.Entry)
		assert.NotEmpty(t, got.Field.FSRSStability)
		assert.Equal(t, codec.Scalar("1"), got.Field.FSRSReps)

		stats := ws.mustExecute(t, "stats")
		assert.Contains(t, stats, "Total reviews")
		assert.Contains(t, stats, "100.0%")
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)

		testCases := []struct {
			name    string
			args    []string
			message string
		}{
			{
				name:    "missing choice",
				args:    []string{"review", "--item", "a", "--repeat", "daily"},
				message: "choice",
			},
			{
				name:    "missing item",
				args:    []string{"review", "--repeat", "daily", "--choice", "0"},
				message: "--item is required",
			},
			{
				name:    "write without file",
				args:    []string{"review", "--item", "a", "--repeat", "daily", "--choice", "0", "--write"},
				message: "--write requires --file",
			},
			{
				name:    "choice out of range",
				args:    []string{"review", "--item", "a", "--repeat", "daily", "--due-at", "2024-03-05T06:00:00Z", "--choice", "7"},
				message: "invalid choice",
			},
			{
				name: "review before 1970",
				args: []string{"review", "--now", "1969-12-31T00:00:00Z", "--item", "a",
					"--repeat", "fsrs", "--due-at", "1969-12-01T00:00:00Z", "--choice", "2"},
				message: "review_time",
			},
			{
				name:    "not scheduled",
				args:    []string{"review", "--item", "a", "--repeat", "never", "--choice", "0"},
				message: "no choices",
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := ws.execute(t, tc.args...)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.message)
			})
		}
	})
}

func TestScheduleCommand(t *testing.T) {
	t.Parallel()
	ws := newWorkspace(t)

	t.Run("prints the record", func(t *testing.T) {
		out := ws.mustExecute(t, "schedule", "--json", "--hidden", "every", "3", "days", "in", "the", "evening")

		var fields codec.Fields
		require.NoError(t, json.Unmarshal([]byte(out), &fields))
		assert.Equal(t, codec.Scalar("every 3 days in the evening"), fields.Repeat)
		assert.Equal(t, codec.Scalar("2024-03-09T18:00:00Z"), fields.DueAt)
		assert.Equal(t, codec.Scalar("true"), fields.Hidden)
	})

	t.Run("writes the note", func(t *testing.T) {
		note := ws.writeNote(t, "new.md", "Plain body.\n")
		ws.mustExecute(t, "schedule", "--file", note, "never")

		data, err := os.ReadFile(note)
		require.NoError(t, err)
		assert.Equal(t, "---\nrepeat: never\n---\nPlain body.\n", string(data))
	})
}

func TestExportCommand(t *testing.T) {
	t.Parallel()
	ws := newWorkspace(t)

	for _, item := range []string{"card-1", "card-2"} {
		ws.mustExecute(t, "review", "--item", item, "--repeat", "fsrs",
			"--due-at", "2024-03-05T06:00:00Z", "--choice", "4", "--duration", "2s")
	}

	readCSV := func(t *testing.T, data string) [][]string {
		t.Helper()
		records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
		require.NoError(t, err)
		return records
	}

	t.Run("stdout", func(t *testing.T) {
		records := readCSV(t, ws.mustExecute(t, "export"))
		require.Len(t, records, 3)
		assert.Equal(t, csvHeader, records[0])
		assert.Equal(t, "card-1", records[1][0])
		assert.Equal(t, "1709719200000", records[1][1])
		assert.Equal(t, "4", records[1][2])
		assert.Equal(t, "2000", records[1][4])
	})

	t.Run("filtered to file", func(t *testing.T) {
		path := filepath.Join(ws.dir, "card-2.csv")
		out := ws.mustExecute(t, "export", "--item", "card-2", path)
		assert.Empty(t, out)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		records := readCSV(t, string(data))
		require.Len(t, records, 2)
		assert.Equal(t, "card-2", records[1][0])
	})

	t.Run("since excludes older reviews", func(t *testing.T) {
		records := readCSV(t, ws.mustExecute(t, "export", "--since", "2024-03-07T00:00:00Z"))
		assert.Len(t, records, 1)
	})

	t.Run("invalid since", func(t *testing.T) {
		_, err := ws.execute(t, "export", "--since", "yesterday")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--since")
	})
}
