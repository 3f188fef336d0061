package v1

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/fundmatch"
	"github.com/helixml/fundmatch/infrastructure/api/jsonapi"
	"github.com/helixml/fundmatch/infrastructure/api/middleware"
)

// FundsRouter handles catalog browsing endpoints.
type FundsRouter struct {
	client     *fundmatch.Client
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewFundsRouter creates a new FundsRouter.
func NewFundsRouter(client *fundmatch.Client) *FundsRouter {
	return &FundsRouter{
		client:     client,
		serializer: jsonapi.NewSerializer(),
		logger:     client.Logger(),
	}
}

// Routes returns the chi router for fund endpoints.
func (r *FundsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Get("/{name}", r.Get)

	return router
}

// List handles GET /api/v1/funds.
//
//	@Summary		List funds
//	@Description	List every fund in the active catalog
//	@Tags			funds
//	@Produce		json
//	@Success		200	{object}	jsonapi.Document{data=[]jsonapi.Resource{attributes=jsonapi.FundAttributes}}
//	@Failure		503	{object}	jsonapi.Document
//	@Router			/funds [get]
func (r *FundsRouter) List(w http.ResponseWriter, req *http.Request) {
	catalog, err := r.client.Catalog()
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	doc := jsonapi.NewListResponse(r.serializer.FundResources(catalog))
	doc.Meta = &jsonapi.Meta{
		"total":  catalog.Len(),
		"source": catalog.Source(),
	}
	middleware.WriteJSON(w, http.StatusOK, doc)
}

// Get handles GET /api/v1/funds/{name}.
//
//	@Summary		Get fund
//	@Description	Get a fund by its exact name
//	@Tags			funds
//	@Produce		json
//	@Param			name	path		string	true	"Fund name (URL-escaped)"
//	@Success		200		{object}	jsonapi.Document{data=jsonapi.Resource{attributes=jsonapi.FundAttributes}}
//	@Failure		400		{object}	jsonapi.Document
//	@Failure		404		{object}	jsonapi.Document
//	@Failure		503		{object}	jsonapi.Document
//	@Router			/funds/{name} [get]
func (r *FundsRouter) Get(w http.ResponseWriter, req *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(req, "name"))
	if err != nil {
		middleware.WriteError(w, req, middleware.BadRequest("invalid fund name", err), r.logger)
		return
	}

	catalog, err := r.client.Catalog()
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	record, ok := catalog.Find(name)
	if !ok {
		middleware.WriteError(w, req, middleware.NotFound("fund not found: "+name), r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(r.serializer.FundResource(record)))
}
