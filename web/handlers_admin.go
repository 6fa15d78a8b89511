package web

import (
	"errors"
	"net/http"

	"github.com/artpar/showroom/app"
	"github.com/artpar/showroom/domain/catalog"
	"github.com/artpar/showroom/domain/contact"
	"github.com/artpar/showroom/ports"
)

// Login opens a back-office session and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid body")
		return
	}

	sess, err := h.auth.Login(r.Context(), req.Username, req.Password, clientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
			return
		}
		h.logger.Error().Err(err).Msg("login")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	cfg := h.cfg.Get()
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Auth.CookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   cfg.Auth.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"expires_at": sess.ExpiresAt})
}

// Logout closes the session and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cfg := h.cfg.Get()
	if c, err := r.Cookie(cfg.Auth.CookieName); err == nil {
		if err := h.auth.Logout(r.Context(), c.Value); err != nil {
			h.logger.Error().Err(err).Msg("logout")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

// Dashboard returns the headline numbers for the admin landing page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.analytics.SiteAnalytics(ctx, h.cfg.Get().Tracking.WindowDays)
	if err != nil {
		h.logger.Error().Err(err).Msg("site analytics")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	products, err := h.catalog.ListProducts(ctx, 0)
	if err != nil {
		h.logger.Error().Err(err).Msg("list products")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("list categories")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	messages, err := h.contact.MessageCount(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("count messages")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"products":   len(products),
		"categories": len(categories),
		"messages":   messages,
		"analytics":  summary,
	})
}

// SiteAnalytics serves the windowed site aggregate. ?days=N overrides the
// configured window.
func (h *Handler) SiteAnalytics(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", h.cfg.Get().Tracking.WindowDays)
	summary, err := h.analytics.SiteAnalytics(r.Context(), days)
	if err != nil {
		h.logger.Error().Err(err).Msg("site analytics")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ProductAnalytics serves the windowed aggregate for one product.
func (h *Handler) ProductAnalytics(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid product id")
		return
	}
	if _, err := h.catalog.GetProduct(r.Context(), id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		h.logger.Error().Err(err).Int64("product_id", id).Msg("get product")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	days := intQuery(r, "days", h.cfg.Get().Tracking.WindowDays)
	summary, err := h.analytics.ProductAnalytics(r.Context(), id, days)
	if err != nil {
		h.logger.Error().Err(err).Int64("product_id", id).Msg("product analytics")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// -----------------------------------------------------------------------------
// Catalog management
// -----------------------------------------------------------------------------

func (h *Handler) AdminListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list categories")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) AdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req catalog.Category
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid body")
		return
	}
	created, err := h.catalog.CreateCategory(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) AdminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid category id")
		return
	}
	var req catalog.Category
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid body")
		return
	}
	req.ID = id
	if err := h.catalog.UpdateCategory(r.Context(), req); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "category not found")
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid category id")
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "category not found")
			return
		}
		h.logger.Error().Err(err).Int64("category_id", id).Msg("delete category")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	categoryID := int64(intQuery(r, "category", 0))
	products, err := h.catalog.ListProducts(r.Context(), categoryID)
	if err != nil {
		h.logger.Error().Err(err).Msg("list products")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req catalog.Product
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid body")
		return
	}
	created, err := h.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid product id")
		return
	}
	var req catalog.Product
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid body")
		return
	}
	req.ID = id
	if err := h.catalog.UpdateProduct(r.Context(), req); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid product id")
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		h.logger.Error().Err(err).Int64("product_id", id).Msg("delete product")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// -----------------------------------------------------------------------------
// Contact management
// -----------------------------------------------------------------------------

func (h *Handler) AdminGetContactInfo(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) AdminUpdateContactInfo(w http.ResponseWriter, r *http.Request) {
	var req contact.Info
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid body")
		return
	}
	if err := h.contact.UpdateInfo(r.Context(), req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdminListMessages(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 50)
	messages, err := h.contact.Messages(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("list messages")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// -----------------------------------------------------------------------------
// User management
// -----------------------------------------------------------------------------

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list users")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = userResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid body")
		return
	}

	u, err := h.auth.CreateUser(r.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, app.ErrDuplicateUser) {
			writeError(w, http.StatusConflict, "conflict", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role})
}

func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}
	actor, _ := userFrom(r.Context())
	if err := h.auth.DeleteUser(r.Context(), actor.ID, id); err != nil {
		switch {
		case errors.Is(err, app.ErrSelfDelete):
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		case errors.Is(err, ports.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "user not found")
		default:
			h.logger.Error().Err(err).Int64("user_id", id).Msg("delete user")
			writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
