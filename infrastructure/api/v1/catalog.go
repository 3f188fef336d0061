package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/fundmatch"
	"github.com/helixml/fundmatch/infrastructure/api/jsonapi"
	"github.com/helixml/fundmatch/infrastructure/api/middleware"
)

// CatalogRouter reports on and reloads the indexed catalog.
type CatalogRouter struct {
	client     *fundmatch.Client
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewCatalogRouter creates a new CatalogRouter.
func NewCatalogRouter(client *fundmatch.Client) *CatalogRouter {
	return &CatalogRouter{
		client:     client,
		serializer: jsonapi.NewSerializer(),
		logger:     client.Logger(),
	}
}

// Routes returns the chi router for catalog endpoints.
func (r *CatalogRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.Get)
	router.Post("/reload", r.Reload)

	return router
}

// Get handles GET /api/v1/catalog.
//
//	@Summary		Get catalog index
//	@Description	Report the source, size, model and build time of the active index
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	jsonapi.Document{data=jsonapi.Resource{attributes=jsonapi.CatalogAttributes}}
//	@Failure		503	{object}	jsonapi.Document
//	@Router			/catalog [get]
func (r *CatalogRouter) Get(w http.ResponseWriter, req *http.Request) {
	r.writeIndex(w, req)
}

// Reload handles POST /api/v1/catalog/reload. A failed reload keeps serving
// the previous index.
//
//	@Summary		Reload catalog
//	@Description	Re-read the catalog source and swap in a fresh index. A failed reload keeps the previous index
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	jsonapi.Document{data=jsonapi.Resource{attributes=jsonapi.CatalogAttributes}}
//	@Failure		422	{object}	jsonapi.Document
//	@Failure		500	{object}	jsonapi.Document
//	@Failure		502	{object}	jsonapi.Document
//	@Failure		503	{object}	jsonapi.Document
//	@Router			/catalog/reload [post]
func (r *CatalogRouter) Reload(w http.ResponseWriter, req *http.Request) {
	if err := r.client.Reload(req.Context()); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	r.writeIndex(w, req)
}

func (r *CatalogRouter) writeIndex(w http.ResponseWriter, req *http.Request) {
	idx, err := r.client.Matcher.Index()
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(r.serializer.CatalogResource(idx)))
}
