package splitter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-rag/internal/errs"
	"pdf-rag/internal/models"
)

func TestNewRejectsBadParameters(t *testing.T) {
	cases := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"zero chunk size", 0, 0},
		{"negative chunk size", -10, 0},
		{"negative overlap", 100, -1},
		{"overlap equal to chunk size", 100, 100},
		{"overlap above chunk size", 100, 150},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.chunkSize, tc.overlap)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrConfiguration)
		})
	}
}

func TestSplitShortInputSingleChunk(t *testing.T) {
	sp, err := New(1000, 150)
	require.NoError(t, err)

	chunks, err := sp.Split([]models.Page{{Text: "just a short page", Number: 1}})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a short page", chunks[0].Text)
	assert.Equal(t, 1, chunks[0].PageNumber)
	assert.Equal(t, 0, chunks[0].Sequence)
}

func TestSplitEmptyInput(t *testing.T) {
	sp, err := New(1000, 150)
	require.NoError(t, err)

	chunks, err := sp.Split(nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplitRoundTrip(t *testing.T) {
	texts := []string{
		strings.Repeat("Paragraph one.\n\nParagraph two is a bit longer than the first one. ", 50),
		strings.Repeat("word ", 2000),
		strings.Repeat("x", 5000), // no natural boundaries at all
		strings.Repeat("A ingestão de documentos está concluída. ", 80),
		"short",
	}
	params := []struct{ size, overlap int }{
		{1000, 150},
		{100, 20},
		{50, 0},
		{64, 63}, // overlap one below the limit
	}
	for _, text := range texts {
		for _, p := range params {
			sp, err := New(p.size, p.overlap)
			require.NoError(t, err)

			chunks, err := sp.Split([]models.Page{{Text: text, Number: 1}})
			require.NoError(t, err)
			require.NotEmpty(t, chunks)

			assert.Equal(t, text, Merge(chunks, p.overlap),
				"round trip failed for size=%d overlap=%d", p.size, p.overlap)
		}
	}
}

func TestSplitChunkSizeBound(t *testing.T) {
	sp, err := New(100, 20)
	require.NoError(t, err)

	text := strings.Repeat("some words in a sentence. ", 100)
	chunks, err := sp.Split([]models.Page{{Text: text, Number: 1}})
	require.NoError(t, err)

	for i, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), 100, "chunk %d exceeds the configured size", i)
		assert.Equal(t, i, c.Sequence)
	}
}

func TestSplitOverlapIsExact(t *testing.T) {
	sp, err := New(80, 15)
	require.NoError(t, err)

	text := strings.Repeat("alpha beta gamma delta epsilon. ", 40)
	chunks, err := sp.Split([]models.Page{{Text: text, Number: 1}})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1].Text, chunks[i].Text
		assert.Equal(t, prev[len(prev)-15:], cur[:15],
			"chunks %d and %d do not share the overlap region", i-1, i)
	}
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	sp, err := New(60, 10)
	require.NoError(t, err)

	text := "First paragraph, fairly short.\n\nSecond paragraph follows here and keeps going for a while longer."
	chunks, err := sp.Split([]models.Page{{Text: text, Number: 1}})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	assert.True(t, strings.HasSuffix(chunks[0].Text, "\n\n"),
		"first cut should land on the paragraph break, got %q", chunks[0].Text)
}

func TestSplitTracksSourcePages(t *testing.T) {
	sp, err := New(50, 10)
	require.NoError(t, err)

	pages := []models.Page{
		{Text: strings.Repeat("page one text. ", 10), Number: 1},
		{Text: strings.Repeat("page two text. ", 10), Number: 2},
	}
	chunks, err := sp.Split(pages)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	assert.Equal(t, 1, chunks[0].PageNumber)
	assert.Equal(t, 2, chunks[len(chunks)-1].PageNumber)
	for i := 1; i < len(chunks); i++ {
		assert.GreaterOrEqual(t, chunks[i].PageNumber, chunks[i-1].PageNumber)
	}
}

func TestSplitKeepsRunesWhole(t *testing.T) {
	sp, err := New(20, 5)
	require.NoError(t, err)

	text := strings.Repeat("ação coração não ", 30)
	chunks, err := sp.Split([]models.Page{{Text: text, Number: 1}})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.True(t, utf8.ValidString(c.Text), "chunk %d breaks a rune: % x", i, c.Text[:min(len(c.Text), 4)])
	}
	assert.Equal(t, text, Merge(chunks, 5))
}

func TestSplitCountsCharactersNotBytes(t *testing.T) {
	sp, err := New(20, 5)
	require.NoError(t, err)

	text := strings.Repeat("ação coração não ", 30)
	chunks, err := sp.Split([]models.Page{{Text: text, Number: 1}})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Text), 20, "chunk %d exceeds the configured size", i)
	}
	for i := 1; i < len(chunks); i++ {
		prev, cur := []rune(chunks[i-1].Text), []rune(chunks[i].Text)
		assert.Equal(t, string(prev[len(prev)-5:]), string(cur[:5]),
			"chunks %d and %d do not share a 5-character overlap", i-1, i)
	}
}
