package sales

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/Hitarth2510/thrive-backend/internal/common"
	"github.com/Hitarth2510/thrive-backend/internal/org"
)

// Handler exposes reporting endpoints.
type Handler struct {
	Service *Service
}

// Daily handles GET /pos/sales/summary?date=YYYY-MM-DD.
func (h Handler) Daily(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Daily(r.Context(), org.MustFromContext(r.Context()), r.URL.Query().Get("date"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	common.Data(w, http.StatusOK, summary)
}

// ExportCSV handles GET /pos/sales/export?from=YYYY-MM-DD&to=YYYY-MM-DD and
// streams one row per sale line.
func (h Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	salesList, err := h.Service.Export(r.Context(), org.MustFromContext(r.Context()), from, to)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sales.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"sale_id", "created_at", "customer_name", "payment_method",
		"item_name", "kind", "unit_price", "quantity", "line_total",
		"sale_subtotal", "sale_discount", "sale_total",
	})
	for _, sale := range salesList {
		for _, it := range sale.Items {
			_ = cw.Write([]string{
				sale.ID.String(),
				sale.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
				sale.CustomerName,
				sale.PaymentMethod,
				it.Name,
				it.Kind,
				it.UnitPrice.String(),
				fmt.Sprintf("%d", it.Quantity),
				it.LineTotal.String(),
				sale.Subtotal.String(),
				sale.Discount.String(),
				sale.Total.String(),
			})
		}
	}
	cw.Flush()
}
