package api

import (
	"net/http"
	"strings"
	"time"
)

// setSessionCookie binds the token text to the transport cookie.
// SameSite=Strict keeps the browser from attaching it to cross-site
// submissions; HttpOnly keeps it away from page scripts.
func (h *Handler) setSessionCookie(w http.ResponseWriter, tokenText string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    tokenText,
		Path:     "/",
		Expires:  cookieExpiry(exp),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// tokenFromRequest extracts the token text from the session cookie, falling
// back to an Authorization bearer header. Both transports are equivalent.
func (h *Handler) tokenFromRequest(r *http.Request) (string, bool) {
	if c, err := r.Cookie(h.cfg.CookieName); err == nil {
		if v := strings.TrimSpace(c.Value); v != "" {
			return v, true
		}
	}

	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):]), true
	}

	return "", false
}
