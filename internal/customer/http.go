// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package customer

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dangtruong/mailcamp/internal/platform/middleware"
	requestutil "github.com/dangtruong/mailcamp/internal/platform/request"
	"github.com/dangtruong/mailcamp/internal/platform/respond"
	"github.com/dangtruong/mailcamp/internal/platform/sec"
	"github.com/dangtruong/mailcamp/internal/platform/validate"
	"github.com/dangtruong/mailcamp/pkg/convert"
	"github.com/dangtruong/mailcamp/pkg/pagination"
)

// Handler implements the HTTP layer for the customer address book.
type Handler struct {
	service *Service
}

// NewHandler constructs a new customer [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with customer endpoints.
// Destructive removal is reserved for managers and admins.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth())

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Post("/", handler.create)
	router.Patch("/{id}", handler.update)
	router.Post("/{id}/unsubscribe", handler.unsubscribe)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleManager, sec.RoleAdmin))
		r.Delete("/{id}", handler.delete)
	})

	return router
}

type createRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

type updateRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Company    *string `json:"company"`
	Subscribed *bool   `json:"subscribed"`
}

/*
GET /api/v1/customers.

Description: Paginated address book listing.

Request:
  - q: string (matches name, email, company)
  - subscribed: bool (opt-in filter)
  - limit: int
  - page: int

Response:
  - 200: []Customer: Paginated list
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		Query: queryParams.Get("q"),
	}

	if subscribed := queryParams.Get("subscribed"); subscribed != "" {
		value := convert.ToBool(subscribed)
		filter.Subscribed = &value
	}

	customers, total, err := handler.service.List(request.Context(), filter, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, customers, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// GET /api/v1/customers/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	customer, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, customer)
}

/*
POST /api/v1/customers.

Description: Enrolls a new recipient, subscribed by default.

Request:
  - Body: createRequest (Name, Email, Company)

Response:
  - 201: Customer: Created entity
  - 409: ErrConflict: Email already enrolled
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 200).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldCompany, input.Company, 200)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	customer, err := handler.service.Create(request.Context(), CreateInput{
		Name:    input.Name,
		Email:   input.Email,
		Company: input.Company,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, customer)
}

/*
PATCH /api/v1/customers/{id}.

Description: Partially updates a customer. Omitted fields stay untouched.

Request:
  - Body: updateRequest (Name?, Email?, Company?, Subscribed?)

Response:
  - 200: Customer: Updated entity
  - 409: ErrConflict: New email already enrolled
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Email != nil {
		validator.Email(FieldEmail, *input.Email)
	}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, 200)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	customer, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), UpdateInput{
		Name:       input.Name,
		Email:      input.Email,
		Company:    input.Company,
		Subscribed: input.Subscribed,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, customer)
}

// POST /api/v1/customers/{id}/unsubscribe. Idempotent opt-out.
func (handler *Handler) unsubscribe(writer http.ResponseWriter, request *http.Request) {
	customer, err := handler.service.Unsubscribe(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, customer)
}

// DELETE /api/v1/customers/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
