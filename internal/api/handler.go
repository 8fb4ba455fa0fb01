package api

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"mime"
	"net/http"
	"strings"
	"time"

	"trend/internal/auth/token"
	"trend/internal/series"
	"trend/internal/work"
)

// CredentialVerifier authenticates submitted (identifier, secret) pairs.
type CredentialVerifier interface {
	Verify(ctx context.Context, identifier, secret string) (bool, error)
}

// TokenManager issues and verifies session tokens.
type TokenManager interface {
	Issue(subject string, now time.Time) (string, time.Time, error)
	Verify(text string, now time.Time) (token.Identity, error)
}

// Handler wires the HTTP measurement endpoints to the auth and series
// subsystems.
type Handler struct {
	log *slog.Logger
	cfg Config

	creds  CredentialVerifier
	tokens TokenManager
	store  series.Store
	pool   *work.Pool

	now func() time.Time
}

// NewHandler constructs the access layer.
func NewHandler(log *slog.Logger, cfg Config, creds CredentialVerifier, tokens TokenManager, store series.Store, pool *work.Pool) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if creds == nil || tokens == nil || store == nil {
		return nil, errors.New("api: nil dependency")
	}

	return &Handler{
		log:    log,
		cfg:    cfg,
		creds:  creds,
		tokens: tokens,
		store:  store,
		pool:   pool,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Register wires the routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/api/current", h.handleCurrent)
	mux.HandleFunc("/api/series", h.handleSeries)
}

// ---- handlers ----

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, secret, ok := h.loginFields(w, r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_body", "could not parse credentials")
		return
	}
	if user == "" || secret == "" {
		// Empty fields are a client error, reported before any
		// credential lookup happens.
		writeError(w, http.StatusBadRequest, "missing_credentials", "user and secret are required")
		return
	}

	authed, err := h.creds.Verify(r.Context(), user, secret)
	if err != nil {
		h.internal(w, "login.verify", err)
		return
	}
	if !authed {
		h.unauthorized(w)
		return
	}

	// Token signing runs on the worker pool, like the hashing above it.
	now := h.now()
	signed, err := work.Run(r.Context(), h.pool, func() (loginResponse, error) {
		text, exp, err := h.tokens.Issue(user, now)
		if err != nil {
			return loginResponse{}, err
		}
		return loginResponse{Token: text, ExpiresAt: exp}, nil
	})
	if err != nil {
		h.internal(w, "login.issue", err)
		return
	}

	h.setSessionCookie(w, signed.Token, signed.ExpiresAt)
	writeJSON(w, http.StatusOK, signed)
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getCurrent(w, r)
	case http.MethodPost:
		h.postCurrent(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) getCurrent(w http.ResponseWriter, r *http.Request) {
	if _, err := h.requireIdentity(r); err != nil {
		h.unauthorized(w)
		return
	}

	m, err := h.store.Current(r.Context())
	if err != nil {
		if errors.Is(err, series.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "no measurement recorded yet")
			return
		}
		h.internal(w, "current.read", err)
		return
	}

	writeJSON(w, http.StatusOK, measurementBody{Weight: m.Weight})
}

func (h *Handler) postCurrent(w http.ResponseWriter, r *http.Request) {
	if _, err := h.requireIdentity(r); err != nil {
		h.unauthorized(w)
		return
	}

	var body measurementBody
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	if math.IsNaN(body.Weight) || math.IsInf(body.Weight, 0) {
		writeError(w, http.StatusBadRequest, "invalid_body", "weight must be a finite number")
		return
	}

	// The date is always the server's UTC today, never client-supplied.
	if err := h.store.Upsert(r.Context(), series.Today(h.now()), body.Weight); err != nil {
		h.internal(w, "current.write", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, err := h.requireIdentity(r); err != nil {
		h.unauthorized(w)
		return
	}

	raw, err := h.store.All(r.Context())
	if err != nil {
		h.internal(w, "series.read", err)
		return
	}

	// Smoothing is O(N) over the full history; run it on the worker pool.
	window := h.cfg.Window
	resp, err := work.Run(r.Context(), h.pool, func() (seriesResponse, error) {
		return seriesResponse{
			Raw:     columns(raw),
			Average: columns(series.Average(raw, window)),
		}, nil
	})
	if err != nil {
		h.internal(w, "series.average", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ---- helpers ----

// requireIdentity gates an operation on a valid session token.
func (h *Handler) requireIdentity(r *http.Request) (token.Identity, error) {
	text, ok := h.tokenFromRequest(r)
	if !ok {
		return token.Identity{}, token.ErrInvalidToken
	}
	return h.tokens.Verify(text, h.now())
}

// unauthorized reports every auth failure identically; whether the token was
// absent, expired, tampered or carried a foreign issuer is not disclosed.
func (h *Handler) unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
}

func (h *Handler) internal(w http.ResponseWriter, op string, err error) {
	h.log.Error("api."+op, "err", err)
	writeError(w, http.StatusInternalServerError, "internal", "internal server error")
}

// loginFields reads credentials from a JSON body, or from form fields for
// plain HTML form posts.
func (h *Handler) loginFields(w http.ResponseWriter, r *http.Request) (user, secret string, ok bool) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if ct == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return "", "", false
		}
		user = strings.TrimSpace(r.PostFormValue("user"))
		secret = r.PostFormValue("secret")
		if secret == "" {
			secret = r.PostFormValue("password")
		}
		return user, secret, true
	}

	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		return "", "", false
	}
	return strings.TrimSpace(req.User), req.secret(), true
}

func columns(ms []series.Measurement) seriesColumns {
	out := seriesColumns{
		Dates:   make([]string, len(ms)),
		Weights: make([]float64, len(ms)),
	}
	for i, m := range ms {
		out.Dates[i] = m.Date
		out.Weights[i] = m.Weight
	}
	return out
}
