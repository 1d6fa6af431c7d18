package errs

import "errors"

var (
	// ErrConfiguration signals invalid parameters or missing credentials. Fatal at startup.
	ErrConfiguration = errors.New("configuration error")
	// ErrEmbeddingService signals a failure of the external embedding service.
	ErrEmbeddingService = errors.New("embedding service error")
	// ErrGenerationService signals a failure of the external language-model service.
	ErrGenerationService = errors.New("generation service error")
	// ErrStoreConnection signals an unreachable vector store backend.
	ErrStoreConnection = errors.New("store connection error")
)
