package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Hitarth2510/thrive-backend/internal/common"
	"github.com/Hitarth2510/thrive-backend/internal/org"
)

// Handler exposes menu endpoints. Reads are open to any authenticated staff;
// mutations are gated behind the admin role at the router.
type Handler struct {
	Service  *Service
	Validate *validator.Validate
}

type productRequest struct {
	Name      string          `json:"name" validate:"required"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Available *bool           `json:"available"`
}

type comboRequest struct {
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Items     []comboItemReq  `json:"items" validate:"required,min=1,dive"`
	Available *bool           `json:"available"`
}

type comboItemReq struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// Menu handles GET /pos/menu.
func (h Handler) Menu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.Service.Menu(r.Context(), org.MustFromContext(r.Context()))
	if err != nil {
		common.WriteError(w, err, nil)
		return
	}
	common.Data(w, http.StatusOK, menu)
}

func (h Handler) decodeProduct(w http.ResponseWriter, r *http.Request) (productRequest, bool) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return req, false
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return req, false
	}
	if req.Price.IsNegative() {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "price must not be negative", nil)
		return req, false
	}
	return req, true
}

// CreateProduct handles POST /pos/products.
func (h Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	created, err := h.Service.CreateProduct(r.Context(), Product{
		OrgID:     org.MustFromContext(r.Context()),
		Name:      req.Name,
		Category:  req.Category,
		Price:     req.Price,
		Available: available,
	})
	if err != nil {
		common.WriteError(w, err, nil)
		return
	}
	common.Data(w, http.StatusCreated, created)
}

// UpdateProduct handles PUT /pos/products/{id}.
func (h Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	updated, err := h.Service.UpdateProduct(r.Context(), Product{
		ID:        id,
		OrgID:     org.MustFromContext(r.Context()),
		Name:      req.Name,
		Category:  req.Category,
		Price:     req.Price,
		Available: available,
	})
	if err != nil {
		common.WriteError(w, err, nil)
		return
	}
	common.Data(w, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /pos/products/{id}.
func (h Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	if err := h.Service.DeleteProduct(r.Context(), org.MustFromContext(r.Context()), id); err != nil {
		common.WriteError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h Handler) decodeCombo(w http.ResponseWriter, r *http.Request) (comboRequest, bool) {
	var req comboRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return req, false
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return req, false
	}
	if req.Price.IsNegative() {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "price must not be negative", nil)
		return req, false
	}
	return req, true
}

func comboFromRequest(req comboRequest, orgID, id uuid.UUID) Combo {
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	items := make([]ComboItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ComboItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return Combo{ID: id, OrgID: orgID, Name: req.Name, Price: req.Price, Items: items, Available: available}
}

// CreateCombo handles POST /pos/combos.
func (h Handler) CreateCombo(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCombo(w, r)
	if !ok {
		return
	}
	created, err := h.Service.CreateCombo(r.Context(), comboFromRequest(req, org.MustFromContext(r.Context()), uuid.Nil))
	if err != nil {
		common.WriteError(w, err, nil)
		return
	}
	common.Data(w, http.StatusCreated, created)
}

// UpdateCombo handles PUT /pos/combos/{id}.
func (h Handler) UpdateCombo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid combo id", nil)
		return
	}
	req, ok := h.decodeCombo(w, r)
	if !ok {
		return
	}
	updated, err := h.Service.UpdateCombo(r.Context(), comboFromRequest(req, org.MustFromContext(r.Context()), id))
	if err != nil {
		common.WriteError(w, err, nil)
		return
	}
	common.Data(w, http.StatusOK, updated)
}

// DeleteCombo handles DELETE /pos/combos/{id}.
func (h Handler) DeleteCombo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid combo id", nil)
		return
	}
	if err := h.Service.DeleteCombo(r.Context(), org.MustFromContext(r.Context()), id); err != nil {
		common.WriteError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
