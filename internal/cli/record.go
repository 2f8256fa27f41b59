package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phrazzld/repeat/internal/codec"
)

// recordFlags selects the repetition record a command works on: the
// frontmatter of a note file, individual field flags, or both, with
// non-empty flags overriding the note.
type recordFlags struct {
	file      string
	createdAt string
	fields    codec.Fields
}

func (f *recordFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.file, "file", "", "Markdown note whose frontmatter holds the record")
	flags.StringVar(&f.createdAt, "created-at", "", "Creation time of the note in RFC 3339 (default: file modification time)")
	flags.StringVar((*string)(&f.fields.Repeat), "repeat", "", "Repeat phrase, e.g. \"every 2 days\"")
	flags.StringVar((*string)(&f.fields.DueAt), "due-at", "", "Due date")
	flags.StringVar((*string)(&f.fields.Hidden), "hidden", "", "Hidden flag (yes/no)")
	flags.StringVar((*string)(&f.fields.FSRSStability), "fsrs-stability", "", "Stored stability")
	flags.StringVar((*string)(&f.fields.FSRSDifficulty), "fsrs-difficulty", "", "Stored difficulty")
	flags.StringVar((*string)(&f.fields.FSRSReps), "fsrs-reps", "", "Stored review count")
	flags.StringVar((*string)(&f.fields.FSRSLapses), "fsrs-lapses", "", "Stored lapse count")
	flags.StringVar((*string)(&f.fields.FSRSLastReview), "fsrs-last-review", "", "Stored last review time")
	flags.StringVar((*string)(&f.fields.FSRSState), "fsrs-state", "", "Stored card state (0-3)")
}

// loadedRecord is a record read from flags and an optional note.
type loadedRecord struct {
	fields    codec.Fields
	createdAt time.Time
	markdown  string // Note contents, empty without --file
	mode      os.FileMode
}

func (f *recordFlags) load() (loadedRecord, error) {
	var rec loadedRecord

	if f.file != "" {
		info, err := os.Stat(f.file)
		if err != nil {
			return rec, fmt.Errorf("read note: %w", err)
		}
		data, err := os.ReadFile(f.file)
		if err != nil {
			return rec, fmt.Errorf("read note: %w", err)
		}
		fields, _, err := codec.ReadFrontmatter(string(data))
		if err != nil {
			return rec, fmt.Errorf("read note %s: %w", f.file, err)
		}
		rec.fields = fields
		rec.createdAt = info.ModTime()
		rec.markdown = string(data)
		rec.mode = info.Mode().Perm()
	}

	overrides := []struct {
		dst *codec.Scalar
		src codec.Scalar
	}{
		{&rec.fields.Repeat, f.fields.Repeat},
		{&rec.fields.DueAt, f.fields.DueAt},
		{&rec.fields.Hidden, f.fields.Hidden},
		{&rec.fields.FSRSStability, f.fields.FSRSStability},
		{&rec.fields.FSRSDifficulty, f.fields.FSRSDifficulty},
		{&rec.fields.FSRSReps, f.fields.FSRSReps},
		{&rec.fields.FSRSLapses, f.fields.FSRSLapses},
		{&rec.fields.FSRSLastReview, f.fields.FSRSLastReview},
		{&rec.fields.FSRSState, f.fields.FSRSState},
	}
	for _, o := range overrides {
		if o.src != "" {
			*o.dst = o.src
		}
	}

	if f.createdAt != "" {
		t, err := time.Parse(time.RFC3339, f.createdAt)
		if err != nil {
			return rec, fmt.Errorf("invalid --created-at %q: must be RFC 3339", f.createdAt)
		}
		rec.createdAt = t
	}
	return rec, nil
}

// writeNote stores fields into the note's frontmatter.
func (f *recordFlags) writeNote(rec loadedRecord, fields codec.Fields) error {
	updated, err := codec.UpdateMarkdown(rec.markdown, fields)
	if err != nil {
		return fmt.Errorf("update note %s: %w", f.file, err)
	}
	mode := rec.mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.WriteFile(f.file, []byte(updated), mode); err != nil {
		return fmt.Errorf("write note: %w", err)
	}
	return nil
}

// printFields writes fields as JSON or as YAML frontmatter lines.
func printFields(w io.Writer, fields codec.Fields, jsonOutput bool) error {
	if jsonOutput {
		return printJSON(w, fields)
	}
	out, err := yaml.Marshal(fields)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
