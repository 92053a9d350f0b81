package offer

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Hitarth2510/thrive-backend/internal/common"
	"github.com/Hitarth2510/thrive-backend/internal/org"
	"github.com/Hitarth2510/thrive-backend/internal/pricing"
)

// Handler exposes offer management endpoints.
type Handler struct {
	Service  *Service
	Validate *validator.Validate
}

type offerRequest struct {
	Name      string          `json:"name" validate:"required"`
	Percent   decimal.Decimal `json:"percent"`
	StartDate string          `json:"start_date" validate:"required"`
	EndDate   string          `json:"end_date" validate:"required"`
	StartTime string          `json:"start_time" validate:"required"`
	EndTime   string          `json:"end_time" validate:"required"`
	Scope     string          `json:"scope" validate:"required,oneof=all products combos"`
	Active    *bool           `json:"active"`
}

func (h Handler) decode(w http.ResponseWriter, r *http.Request) (offerRequest, bool) {
	var req offerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return req, false
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return req, false
	}
	return req, true
}

func offerFromRequest(req offerRequest, orgID, id uuid.UUID) Offer {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return Offer{
		ID:      id,
		OrgID:   orgID,
		Name:    req.Name,
		Percent: req.Percent,
		Window: pricing.Window{
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		},
		Scope:  pricing.Scope(req.Scope),
		Active: active,
	}
}

// List handles GET /pos/offers.
func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	offers, err := h.Service.List(r.Context(), org.MustFromContext(r.Context()))
	if err != nil {
		common.WriteError(w, err, nil)
		return
	}
	common.Data(w, http.StatusOK, offers)
}

// Create handles POST /pos/offers.
func (h Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.Service.Create(r.Context(), offerFromRequest(req, org.MustFromContext(r.Context()), uuid.Nil))
	if err != nil {
		common.WriteError(w, err, pricing.ErrInvalidInput)
		return
	}
	common.Data(w, http.StatusCreated, created)
}

// Update handles PUT /pos/offers/{id}.
func (h Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid offer id", nil)
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	updated, err := h.Service.Update(r.Context(), offerFromRequest(req, org.MustFromContext(r.Context()), id))
	if err != nil {
		common.WriteError(w, err, pricing.ErrInvalidInput)
		return
	}
	common.Data(w, http.StatusOK, updated)
}

// Delete handles DELETE /pos/offers/{id}.
func (h Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid offer id", nil)
		return
	}
	if err := h.Service.Delete(r.Context(), org.MustFromContext(r.Context()), id); err != nil {
		common.WriteError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
