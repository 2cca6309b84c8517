package invoicing

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/invoicer-app/invoicer/internal/masterdata/stylesheets"
	"github.com/invoicer-app/invoicer/internal/platform/httpx"
	"github.com/invoicer-app/invoicer/internal/shared"
)

// Handler manages invoicing endpoints.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	stylesheets *stylesheets.Service
	perPage     int
}

// NewHandler builds Handler instance. perPage is the configured default
// page size for invoice listings.
func NewHandler(logger *slog.Logger, service *Service, stylesheets *stylesheets.Service, perPage int) *Handler {
	return &Handler{logger: logger, service: service, stylesheets: stylesheets, perPage: perPage}
}

// MountRoutes registers invoicing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/invoices", h.createInvoice)
	r.Get("/invoices/{number}", h.showInvoice)
	r.Delete("/invoices/{number}", h.deleteInvoice)
	r.Post("/invoices/{number}/edit", h.inlineEdit)
	r.Post("/invoices/{number}/lines", h.batchLines)
	r.Post("/invoices/{number}/add_line", h.addLine)
	r.Get("/company/{id}", h.companyOverview)
	r.Get("/company/{id}/invoices/{page}", h.companyInvoices)
	r.Get("/client/{id}", h.clientOverview)
	r.Get("/client/{id}/invoices/{page}", h.clientInvoices)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	inv, err := h.service.CreateInvoice(r.Context(), req)
	if err != nil {
		h.logger.Error("create invoice failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *Handler) showInvoice(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	view, err := h.service.InvoiceByNumber(r.Context(), number)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	// The printable view needs the issuing company's default stylesheet;
	// having none is a configuration error, not an index panic.
	sheet, err := h.stylesheets.DefaultForCompany(r.Context(), view.CompanyID)
	if err != nil {
		h.logger.Error("default stylesheet lookup failed", "error", err, "company_id", view.CompanyID)
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"invoice":    view,
		"stylesheet": sheet,
	})
}

func (h *Handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteInvoice(r.Context(), chi.URLParam(r, "number")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) inlineEdit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ElementID string `json:"element_id"`
		Value     string `json:"value"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	result, err := h.service.InlineEdit(r.Context(), chi.URLParam(r, "number"), req.ElementID, req.Value)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) batchLines(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lines []LineEdit `json:"lines"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	number := chi.URLParam(r, "number")
	if err := h.service.BatchUpsertLines(r.Context(), number, req.Lines); err != nil {
		httpx.RespondError(w, err)
		return
	}
	view, err := h.service.InvoiceByNumber(r.Context(), number)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "success", "invoice": view})
}

func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	var req LineInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	line, err := h.service.AddLine(r.Context(), chi.URLParam(r, "number"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, line)
}

// pageParams parses the owner id and page number from the URL. A page
// segment that is not a positive integer addresses no page at all, so it is
// a missing resource rather than a silent page 1.
func (h *Handler) pageParams(r *http.Request) (int64, int, int, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: id %q", shared.ErrNotFound, chi.URLParam(r, "id"))
	}
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 1 {
		return 0, 0, 0, fmt.Errorf("%w: page %q", shared.ErrNotFound, chi.URLParam(r, "page"))
	}
	perPage, _ := shared.ResolvePerPage(r, h.perPage)
	return id, page, perPage, nil
}

func (h *Handler) setPerPageCookie(w http.ResponseWriter, r *http.Request, perPage int) {
	if _, set := shared.ResolvePerPage(r, h.perPage); set {
		http.SetCookie(w, &http.Cookie{
			Name:  shared.PerPageCookie,
			Value: strconv.Itoa(perPage),
			Path:  "/",
		})
	}
}

func (h *Handler) companyInvoices(w http.ResponseWriter, r *http.Request) {
	id, page, perPage, err := h.pageParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	result, err := h.service.CompanyInvoices(r.Context(), id, page, perPage)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.setPerPageCookie(w, r, perPage)
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) clientInvoices(w http.ResponseWriter, r *http.Request) {
	id, page, perPage, err := h.pageParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	result, err := h.service.ClientInvoices(r.Context(), id, page, perPage)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.setPerPageCookie(w, r, perPage)
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) companyOverview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid company ID")
		return
	}
	company, err := h.service.CompanyByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, company)
}

func (h *Handler) clientOverview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid client ID")
		return
	}
	client, err := h.service.ClientByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	receipts, err := h.service.ClientReceiptsToDate(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"client":           client,
		"receipts_to_date": receipts,
	})
}
