package web

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/artpar/showroom/domain/contact"
	"github.com/artpar/showroom/domain/tracking"
	"github.com/artpar/showroom/ports"
)

// Home serves the storefront landing payload: categories plus company info.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list categories")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	info, err := h.contact.Info(r.Context())
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		h.logger.Error().Err(err).Msg("load contact info")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	h.trackPage(w, r, "Home")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"company":    info.CompanyName,
		"categories": categories,
	})
}

// CategoryPage serves one category and its products.
func (h *Handler) CategoryPage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid category id")
		return
	}

	cat, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "category not found")
			return
		}
		h.logger.Error().Err(err).Int64("category_id", id).Msg("get category")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	products, err := h.catalog.ListProducts(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Int64("category_id", id).Msg("list products")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	h.trackPage(w, r, cat.Name)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"category": cat,
		"products": products,
	})
}

// ProductPage serves one product and records the engagement.
func (h *Handler) ProductPage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid product id")
		return
	}

	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		h.logger.Error().Err(err).Int64("product_id", id).Msg("get product")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	h.trackPage(w, r, p.Name)
	h.trackProduct(r, id, 0, tracking.ViewProduct)
	writeJSON(w, http.StatusOK, p)
}

// ProductPDF serves catalog document metadata and records the open.
func (h *Handler) ProductPDF(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid product id")
		return
	}

	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		h.logger.Error().Err(err).Int64("product_id", id).Msg("get product")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	if p.PDFCatalog == "" {
		writeError(w, http.StatusNotFound, "not_found", "product has no catalog document")
		return
	}

	h.trackPage(w, r, p.Name+" catalog")
	h.trackProduct(r, id, 0, tracking.ViewPDFViewer)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"product_id": p.ID,
		"file":       p.PDFCatalog,
		"pages":      p.PDFPages,
	})
}

// ProductPDFPage records that a single document page was read. The client
// viewer posts one beacon per page turn.
func (h *Handler) ProductPDFPage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid product id")
		return
	}

	var req struct {
		Page int `json:"page"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid body")
		return
	}

	h.trackProduct(r, id, req.Page, tracking.ViewPDFPage)
	w.WriteHeader(http.StatusNoContent)
}

// SiteQR serves a QR code image for the storefront root.
func (h *Handler) SiteQR(w http.ResponseWriter, r *http.Request) {
	uri, err := h.catalog.SiteQR()
	if err != nil {
		h.logger.Error().Err(err).Msg("site qr")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	serveQR(w, uri)
}

// ProductQR serves the stored QR code image for a product.
func (h *Handler) ProductQR(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid product id")
		return
	}
	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		h.logger.Error().Err(err).Int64("product_id", id).Msg("get product")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	serveQR(w, p.QRCode)
}

// CategoryQR serves the stored QR code image for a category.
func (h *Handler) CategoryQR(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid category id")
		return
	}
	c, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "category not found")
			return
		}
		h.logger.Error().Err(err).Int64("category_id", id).Msg("get category")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	serveQR(w, c.QRCode)
}

const pngDataURIPrefix = "data:image/png;base64,"

func serveQR(w http.ResponseWriter, dataURI string) {
	if !strings.HasPrefix(dataURI, pngDataURIPrefix) {
		writeError(w, http.StatusNotFound, "not_found", "no qr code")
		return
	}
	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURI, pngDataURIPrefix))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "corrupt qr code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// ContactPage serves the public contact record.
func (h *Handler) ContactPage(w http.ResponseWriter, r *http.Request) {
	info, err := h.contact.Info(r.Context())
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "contact info not configured")
			return
		}
		h.logger.Error().Err(err).Msg("load contact info")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	h.trackPage(w, r, "Contact")
	writeJSON(w, http.StatusOK, info)
}

// ContactSubmit accepts a contact form submission.
func (h *Handler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid body")
		return
	}

	id, err := h.contact.SubmitMessage(r.Context(), contact.Message{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"id": id})
}
