package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/repeat/internal/domain"
)

const note = `---
title: Spanish verbs
repeat: spaced every 2 days
due_at: 2024-03-05T06:00:00Z
tags:
  - language
---
# Verbs

Body text.
`

func TestSplitFrontmatter(t *testing.T) {
	t.Parallel()

	frontmatter, body, ok := splitFrontmatter(note)
	require.True(t, ok)
	assert.Contains(t, frontmatter, "repeat: spaced every 2 days")
	assert.Equal(t, "# Verbs\n\nBody text.\n", body)

	_, body, ok = splitFrontmatter("# No frontmatter\n")
	assert.False(t, ok)
	assert.Equal(t, "# No frontmatter\n", body)

	_, _, ok = splitFrontmatter("---\nrepeat: daily\nnever closed\n")
	assert.False(t, ok)

	frontmatter, body, ok = splitFrontmatter("---\n---\n")
	require.True(t, ok)
	assert.Empty(t, frontmatter)
	assert.Empty(t, body)
}

func TestDecodeMarkdown(t *testing.T) {
	t.Parallel()

	rec, err := DecodeMarkdown(note, reference)
	require.NoError(t, err)
	assert.Equal(t, domain.StrategySpaced, rec.Strategy)
	assert.Equal(t, 2, rec.Period)
	assert.Equal(t, "2024-03-05T06:00:00Z", rec.DueAt.Format("2006-01-02T15:04:05Z07:00"))

	_, err = DecodeMarkdown("# Plain note\n", reference)
	assert.ErrorIs(t, err, ErrNoRepeat)

	_, err = DecodeMarkdown("---\nrepeat: off\n---\n", reference)
	assert.ErrorIs(t, err, ErrRepeatDisabled)

	_, err = DecodeMarkdown("---\n- just\n- a list\n---\n", reference)
	assert.ErrorIs(t, err, ErrInvalidFrontmatter)
}

func TestUpdateMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("replaces fields and keeps other keys", func(t *testing.T) {
		t.Parallel()
		updated, err := UpdateMarkdown(note, Fields{
			Repeat: "spaced every 36 hours",
			DueAt:  "2024-03-07T22:00:00Z",
			Hidden: "false",
		})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(updated, "---\ntitle: Spanish verbs\nrepeat: spaced every 36 hours\n"))
		assert.Contains(t, updated, "due_at: 2024-03-07T22:00:00Z\n")
		assert.Contains(t, updated, "- language\n")
		assert.True(t, strings.HasSuffix(updated, "hidden: false\n---\n# Verbs\n\nBody text.\n"))

		rec, err := DecodeMarkdown(updated, reference)
		require.NoError(t, err)
		assert.Equal(t, 36, rec.Period)
		assert.Equal(t, domain.UnitHour, rec.Unit)
	})

	t.Run("creates frontmatter", func(t *testing.T) {
		t.Parallel()
		updated, err := UpdateMarkdown("Just a body.\n", Fields{Repeat: "never"})
		require.NoError(t, err)
		assert.Equal(t, "---\nrepeat: never\n---\nJust a body.\n", updated)
	})

	t.Run("rejects non-mapping frontmatter", func(t *testing.T) {
		t.Parallel()
		_, err := UpdateMarkdown("---\n- a\n---\n", Fields{Repeat: "daily"})
		assert.ErrorIs(t, err, ErrInvalidFrontmatter)
	})
}
