package splitter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"pdf-rag/internal/errs"
	"pdf-rag/internal/models"
)

const (
	DefaultChunkSize    = 1000 // characters
	DefaultChunkOverlap = 150  // characters
)

// separators in preference order: paragraph, line, sentence, word.
// A hard character cut is the final fallback.
var separators = []string{"\n\n", "\n", ". ", " "}

// Splitter cuts document text into overlapping chunks of bounded size.
// All sizes and offsets count characters (runes), not bytes, so accented
// text gets the configured chunk and overlap lengths.
type Splitter struct {
	chunkSize int
	overlap   int
}

// New validates the chunking parameters. overlap must leave room for the
// chunk to advance, otherwise splitting would never terminate.
func New(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", errs.ErrConfiguration, chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", errs.ErrConfiguration, overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			errs.ErrConfiguration, overlap, chunkSize)
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// Split concatenates the page texts and cuts the result into chunks of at
// most chunkSize characters, consecutive chunks sharing exactly overlap
// characters. Each chunk records the page its first character came from.
//
// Chunks are exact substrings of the concatenated text: joining chunk 0 with
// every following chunk minus its first overlap characters reproduces the
// input exactly.
func (s *Splitter) Split(pages []models.Page) ([]models.Chunk, error) {
	var sb strings.Builder
	type pageSpan struct {
		start  int // rune offset
		number int
	}
	var spans []pageSpan
	runeLen := 0
	for _, p := range pages {
		spans = append(spans, pageSpan{start: runeLen, number: p.Number})
		sb.WriteString(p.Text)
		runeLen += utf8.RuneCountInString(p.Text)
	}
	content := []rune(sb.String())
	if len(content) == 0 {
		return nil, nil
	}

	pageAt := func(offset int) int {
		page := 1
		for _, sp := range spans {
			if sp.start > offset {
				break
			}
			page = sp.number
		}
		return page
	}

	var chunks []models.Chunk
	start := 0
	seq := 0
	for {
		end := start + s.chunkSize
		if end >= len(content) {
			chunks = append(chunks, models.Chunk{
				Text:       string(content[start:]),
				PageNumber: pageAt(start),
				Sequence:   seq,
			})
			break
		}
		end = s.cutPoint(content, start, end)
		chunks = append(chunks, models.Chunk{
			Text:       string(content[start:end]),
			PageNumber: pageAt(start),
			Sequence:   seq,
		})
		seq++
		start = end - s.overlap
	}
	return chunks, nil
}

// cutPoint picks the rune offset where the chunk starting at start should
// end, at most limit. It prefers the latest natural boundary that still
// advances the window past the overlap region; with none available it
// hard-cuts at limit.
func (s *Splitter) cutPoint(content []rune, start, limit int) int {
	// the next chunk starts at end-overlap, so end must clear this floor
	floor := start + s.overlap + 1
	window := string(content[start:limit])
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx >= 0 {
			// separators are ASCII, so len(sep) counts runes as well;
			// the byte index still needs converting to runes
			end := start + utf8.RuneCountInString(window[:idx]) + len(sep)
			if end >= floor {
				return end
			}
		}
	}
	return limit
}

// Merge reverses Split for contiguous chunks: the first chunk is kept whole
// and each following chunk contributes everything after its overlap prefix
// (overlap counted in runes, matching Split).
func Merge(chunks []models.Chunk, overlap int) string {
	var sb strings.Builder
	for i, c := range chunks {
		if i == 0 {
			sb.WriteString(c.Text)
			continue
		}
		runes := []rune(c.Text)
		if len(runes) <= overlap {
			continue
		}
		sb.WriteString(string(runes[overlap:]))
	}
	return sb.String()
}
