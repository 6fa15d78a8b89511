package web

import (
	"net/http"

	"github.com/artpar/showroom/domain/tracking"
)

// requestMeta captures the tracking attributes of a storefront request.
func (h *Handler) requestMeta(r *http.Request) tracking.RequestMeta {
	meta := tracking.RequestMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}
	if c, err := r.Cookie(h.cfg.Get().Tracking.CookieName); err == nil {
		meta.SessionKey = c.Value
	}
	return meta
}

// trackPage records the page render and refreshes the visitor cookie. A
// disabled engine or a suppressed view leaves the cookie untouched.
func (h *Handler) trackPage(w http.ResponseWriter, r *http.Request, title string) {
	cfg := h.cfg.Get()
	if cfg.Tracking.Disabled {
		return
	}

	meta := h.requestMeta(r)
	key := h.tracker.RecordPageView(r.Context(), r.URL.Path, title, meta)
	if key == "" {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Tracking.CookieName,
		Value:    key,
		Path:     "/",
		MaxAge:   int(cfg.Tracking.CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Auth.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// trackProduct records a product interaction.
func (h *Handler) trackProduct(r *http.Request, productID int64, pageNumber int, viewType tracking.ViewType) {
	if h.cfg.Get().Tracking.Disabled {
		return
	}
	h.tracker.RecordProductView(r.Context(), productID, pageNumber, viewType, h.requestMeta(r))
}
