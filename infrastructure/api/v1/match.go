// Package v1 implements the version 1 HTTP API.
package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/helixml/fundmatch"
	"github.com/helixml/fundmatch/infrastructure/api/jsonapi"
	"github.com/helixml/fundmatch/infrastructure/api/middleware"
	"github.com/helixml/fundmatch/infrastructure/api/v1/dto"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// MatchRouter handles match API endpoints.
type MatchRouter struct {
	client     *fundmatch.Client
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewMatchRouter creates a new MatchRouter.
func NewMatchRouter(client *fundmatch.Client) *MatchRouter {
	return &MatchRouter{
		client:     client,
		serializer: jsonapi.NewSerializer(),
		logger:     client.Logger(),
	}
}

// Routes returns the chi router for match endpoints.
func (r *MatchRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Match)

	return router
}

// Match handles POST /api/v1/match.
//
//	@Summary		Match a fund
//	@Description	Find the catalog fund that best fits a free-text query. Accepts a JSON:API body or the flat {query, top_k} form
//	@Tags			match
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.MatchRequest	true	"Match request"
//	@Success		200		{object}	jsonapi.Document{data=jsonapi.Resource{attributes=jsonapi.MatchAttributes}}
//	@Failure		400		{object}	jsonapi.Document
//	@Failure		500		{object}	jsonapi.Document
//	@Failure		502		{object}	jsonapi.Document
//	@Failure		503		{object}	jsonapi.Document
//	@Failure		504		{object}	jsonapi.Document
//	@Router			/match [post]
func (r *MatchRouter) Match(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.MatchRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := decoder.Decode(&body); err != nil {
		middleware.WriteError(w, req, middleware.BadRequest("invalid request body", err), r.logger)
		return
	}

	attrs := body.Attributes()
	var opts []fundmatch.MatchOption
	if attrs.TopK != nil {
		opts = append(opts, fundmatch.WithTopK(*attrs.TopK))
	}

	result, err := r.client.Match(ctx, attrs.Query, opts...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	id := chimiddleware.GetReqID(ctx)
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(r.serializer.MatchResource(id, result)))
}
