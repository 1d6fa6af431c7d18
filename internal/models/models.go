package models

// Page is raw text extracted from one page of a source document.
type Page struct {
	Text   string
	Number int
}

// Chunk represents a split segment of document text with metadata
type Chunk struct {
	Text       string
	PageNumber int
	Sequence   int
}

// ChunkEmbedding pairs a chunk with its vector.
type ChunkEmbedding struct {
	Chunk
	Vector []float32
}

type PromptResponse struct {
	Query   string
	Source  string
	Content string
}
