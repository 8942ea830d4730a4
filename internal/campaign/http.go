// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package campaign

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dangtruong/mailcamp/internal/platform/middleware"
	requestutil "github.com/dangtruong/mailcamp/internal/platform/request"
	"github.com/dangtruong/mailcamp/internal/platform/respond"
	"github.com/dangtruong/mailcamp/internal/platform/sec"
	"github.com/dangtruong/mailcamp/internal/platform/validate"
	"github.com/dangtruong/mailcamp/pkg/pagination"
	"github.com/dangtruong/mailcamp/pkg/query"
	"github.com/dangtruong/mailcamp/pkg/slice"
)

// # Handler Implementation

// Handler implements the HTTP layer for campaign operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new campaign [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with campaign endpoints.
// Everything requires authentication; writes additionally require the
// manager or admin role.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth())

	// ## Read
	router.Get("/", handler.list)
	router.Get("/{identifier}", handler.get)

	// ## Write (Manager or Admin)
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleManager, sec.RoleAdmin))
		r.Post("/", handler.create)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type updateRequest struct {
	Name    *string `json:"name"`
	Subject *string `json:"subject"`
	Body    *string `json:"body"`
	Status  *string `json:"status"`
}

/*
GET /api/v1/campaigns.

Description: Retrieves a paginated list of campaigns. Supports text search
and comma-separated status filtering.

Request:
  - q: string (matches name and subject)
  - status: string (e.g. "draft,active")
  - mine: bool (only campaigns owned by the caller)
  - limit: int
  - page: int

Response:
  - 200: []Campaign: Paginated list
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		Query:    queryParams.Get("q"),
		Statuses: query.StringSlice(queryParams.Get("status")),
	}

	if queryParams.Get("mine") == "true" {
		if claims := middleware.GetUser(request); claims != nil {
			filter.OwnerID = claims.UserID
		}
	}

	unknown := slice.Filter(filter.Statuses, func(status string) bool {
		return status != StatusDraft && status != StatusActive && status != StatusArchived
	})
	if len(unknown) > 0 {
		respond.Error(writer, request, validate.RequiredError(FieldStatus, "contains an unknown status"))
		return
	}

	campaigns, total, err := handler.service.List(request.Context(), filter, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, campaigns, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/campaigns/{identifier}.

Description: Retrieves a campaign by UUID or unique slug.

Response:
  - 200: Campaign: Success
  - 404: ErrNotFound: Campaign not found
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Param(request, "identifier")

	campaign, err := handler.service.Get(request.Context(), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, campaign)
}

/*
POST /api/v1/campaigns.

Description: Creates a new draft campaign owned by the caller.

Request:
  - Body: createRequest (Name, Subject, Body)

Response:
  - 201: Campaign: Created entity
  - 409: ErrConflict: Slug already taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 200).
		Required(FieldSubject, input.Subject).
		MaxLen(FieldSubject, input.Subject, 300).
		Required(FieldBody, input.Body)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	campaign, err := handler.service.Create(request.Context(), CreateInput{
		OwnerID: claims.UserID,
		Name:    input.Name,
		Subject: input.Subject,
		Body:    input.Body,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, campaign)
}

/*
PATCH /api/v1/campaigns/{id}.

Description: Partially updates a campaign. Omitted fields stay untouched.
Only the owner or an admin may modify a campaign.

Request:
  - Body: updateRequest (Name?, Subject?, Body?, Status?)

Response:
  - 200: Campaign: Updated entity
  - 403: ErrForbidden: Caller is neither owner nor admin
  - 422: ErrUnprocessable: Invalid status transition
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Status != nil {
		validator.OneOf(FieldStatus, *input.Status, Statuses...)
	}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, 200)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	campaign, err := handler.service.Update(request.Context(), claims, requestutil.ID(request, "id"), UpdateInput{
		Name:    input.Name,
		Subject: input.Subject,
		Body:    input.Body,
		Status:  input.Status,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, campaign)
}

/*
DELETE /api/v1/campaigns/{id}.

Description: Removes a campaign and its send history.

Response:
  - 204: No Content
  - 403: ErrForbidden: Caller is neither owner nor admin
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), claims, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
