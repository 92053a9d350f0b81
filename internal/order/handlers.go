package order

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Hitarth2510/thrive-backend/internal/cart"
	"github.com/Hitarth2510/thrive-backend/internal/common"
	"github.com/Hitarth2510/thrive-backend/internal/org"
)

const maxSalesPerPage = 100

// Handler exposes checkout, draft, and sales-history endpoints.
type Handler struct {
	Service  *Service
	Registry *cart.Registry
	Validate *validator.Validate
}

func (h Handler) session(w http.ResponseWriter, r *http.Request) (*cart.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid session id", nil)
		return nil, false
	}
	s, err := h.Registry.Get(org.MustFromContext(r.Context()), id)
	if err != nil {
		common.WriteError(w, err, nil)
		return nil, false
	}
	return s, true
}

// Checkout handles POST /pos/sessions/{sessionID}/checkout/confirm.
func (h Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
	}
	var cashierID uuid.UUID
	if identity, ok := common.IdentityFromContext(r.Context()); ok {
		cashierID, _ = uuid.Parse(identity.UserID)
	}
	sale, err := h.Service.Checkout(r.Context(), session, req, cashierID)
	if err != nil {
		common.WriteError(w, err, nil)
		return
	}
	common.Data(w, http.StatusCreated, sale)
}

type saveDraftRequest struct {
	Name string `json:"name" validate:"required"`
}

// SaveDraft handles POST /pos/sessions/{sessionID}/draft.
func (h Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var req saveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	draft, err := h.Service.SaveDraft(r.Context(), session, req.Name)
	if err != nil {
		common.WriteError(w, err, nil)
		return
	}
	common.Data(w, http.StatusCreated, draft)
}

// ListDrafts handles GET /pos/drafts.
func (h Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.Service.ListDrafts(r.Context(), org.MustFromContext(r.Context()))
	if err != nil {
		common.WriteError(w, err, nil)
		return
	}
	common.Data(w, http.StatusOK, drafts)
}

// RestoreDraft handles POST /pos/sessions/{sessionID}/draft/{draftID}/restore.
func (h Handler) RestoreDraft(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	draftID, err := uuid.Parse(chi.URLParam(r, "draftID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid draft id", nil)
		return
	}
	if err := h.Service.RestoreDraft(r.Context(), session, draftID); err != nil {
		common.WriteError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteDraft handles DELETE /pos/drafts/{draftID}.
func (h Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	draftID, err := uuid.Parse(chi.URLParam(r, "draftID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid draft id", nil)
		return
	}
	if err := h.Service.DeleteDraft(r.Context(), org.MustFromContext(r.Context()), draftID); err != nil {
		common.WriteError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSales handles GET /pos/sales.
func (h Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20, maxSalesPerPage)
	sales, pagination, err := h.Service.ListSales(r.Context(), org.MustFromContext(r.Context()), page, perPage)
	if err != nil {
		common.WriteError(w, err, nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": sales, "pagination": pagination})
}

// GetSale handles GET /pos/sales/{saleID}.
func (h Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	saleID, err := uuid.Parse(chi.URLParam(r, "saleID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid sale id", nil)
		return
	}
	sale, err := h.Service.GetSale(r.Context(), org.MustFromContext(r.Context()), saleID)
	if err != nil {
		common.WriteError(w, err, nil)
		return
	}
	common.Data(w, http.StatusOK, sale)
}
