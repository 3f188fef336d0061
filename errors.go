package fundmatch

import (
	"errors"

	"github.com/helixml/fundmatch/application/service"
	"github.com/helixml/fundmatch/domain/fund"
	"github.com/helixml/fundmatch/domain/search"
)

// Exported errors for library consumers.
var (
	// ErrClientClosed indicates the client has been closed.
	ErrClientClosed = service.ErrClientClosed

	// ErrIndexNotReady indicates no catalog has been indexed yet.
	ErrIndexNotReady = service.ErrIndexNotReady

	// ErrInvalidQuery indicates an empty query.
	ErrInvalidQuery = search.ErrInvalidQuery

	// ErrInvalidTopK indicates a top_k below 1.
	ErrInvalidTopK = search.ErrInvalidTopK

	// ErrEmbedding matches every embedding failure.
	ErrEmbedding = search.ErrEmbedding

	// ErrCatalogLoad matches every catalog load failure.
	ErrCatalogLoad = fund.ErrCatalogLoad

	// ErrNoModel indicates no local model is available and no remote
	// provider was configured.
	ErrNoModel = errors.New("fundmatch: no embedding model available")
)
