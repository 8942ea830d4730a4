// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package sentmail

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dangtruong/mailcamp/internal/platform/middleware"
	requestutil "github.com/dangtruong/mailcamp/internal/platform/request"
	"github.com/dangtruong/mailcamp/internal/platform/respond"
	"github.com/dangtruong/mailcamp/internal/platform/sec"
	"github.com/dangtruong/mailcamp/internal/platform/validate"
	"github.com/dangtruong/mailcamp/pkg/pagination"
)

// Handler implements the HTTP layer for delivery tracking.
type Handler struct {
	service *Service
}

// NewHandler constructs a new sentmail [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with delivery endpoints.
// Recording sends is a manager/admin action; reads are open to any
// authenticated user.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth())

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleManager, sec.RoleAdmin))
		r.Post("/", handler.record)
		r.Post("/{id}/bounce", handler.markBounced)
	})

	return router
}

type recordRequest struct {
	CampaignID string `json:"campaign_id"`
	CustomerID string `json:"customer_id"`
}

/*
GET /api/v1/sent-emails.

Description: Lists deliveries for one campaign OR one customer. Exactly one
of the two filters must be provided.

Request:
  - campaign_id: string (UUID)
  - customer_id: string (UUID)
  - limit: int
  - page: int

Response:
  - 200: []SentEmail: Paginated history
  - 400: Validation: Missing or conflicting filters
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	campaignID := queryParams.Get("campaign_id")
	customerID := queryParams.Get("customer_id")

	validator := &validate.Validator{}
	validator.Custom("filter", (campaignID == "") == (customerID == ""),
		"provide exactly one of campaign_id or customer_id")
	if campaignID != "" {
		validator.UUID("campaign_id", campaignID)
	}
	if customerID != "" {
		validator.UUID("customer_id", customerID)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var (
		records []SentEmail
		total   int
		err     error
	)

	if campaignID != "" {
		records, total, err = handler.service.ListByCampaign(request.Context(), campaignID, paginationParams)
	} else {
		records, total, err = handler.service.ListByCustomer(request.Context(), customerID, paginationParams)
	}

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, records, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// GET /api/v1/sent-emails/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	record, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
POST /api/v1/sent-emails.

Description: Records one campaign delivery to one customer.

Request:
  - Body: recordRequest (CampaignID, CustomerID)

Response:
  - 201: SentEmail: Created record
  - 422: ErrUnprocessable: Campaign not active or customer unsubscribed
*/
func (handler *Handler) record(writer http.ResponseWriter, request *http.Request) {
	var input recordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("campaign_id", input.CampaignID).
		UUID("campaign_id", input.CampaignID).
		Required("customer_id", input.CustomerID).
		UUID("customer_id", input.CustomerID)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Record(request.Context(), RecordInput{
		CampaignID: input.CampaignID,
		CustomerID: input.CustomerID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

// POST /api/v1/sent-emails/{id}/bounce. Idempotent bounce flagging.
func (handler *Handler) markBounced(writer http.ResponseWriter, request *http.Request) {
	record, err := handler.service.MarkBounced(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}
