package server

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	app "github.com/windowrun/windowrun/internal/store"
)

// Handler serves the sync wire contract.
type Handler struct {
	store  Store
	logger *slog.Logger
}

// NewHandler creates a handler over the given tenant store.
func NewHandler(store Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{store: store, logger: logger}
}

// NewRouter builds the full route table. Each path accepts only its
// documented method; chi answers anything else with 405.
func NewRouter(h *Handler) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Admin-Key"},
	}))

	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Post("/sync-down", h.syncDown)
	router.Post("/sync-up", h.syncUp)
	router.Post("/sync-delete", h.syncDelete)
	router.Post("/change-password", h.changePassword)
	router.Post("/reset-password", h.resetPassword)
	router.Get("/users", h.listUsers)

	return router
}

type registerRequest struct {
	BusinessName string `json:"businessName"`
	Email        string `json:"email"`
	ABN          string `json:"abn"`
	Password     string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t := Tenant{
		BusinessName: req.BusinessName,
		Email:        req.Email,
		ABN:          req.ABN,
		Password:     req.Password,
	}

	if err := h.store.CreateTenant(r.Context(), t); err != nil {
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := h.store.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "Invalid credentials"})
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": t})
}

func (h *Handler) syncDown(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.authenticate(w, r, req.Email, req.Password) {
		return
	}

	customers, quotes, jobs, err := h.store.Collections(r.Context(), req.Email)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"customers": emptyIfNil(customers),
		"quotes":    emptyIfNil(quotes),
		"jobs":      emptyIfNil(jobs),
	})
}

type syncUpRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Type     app.EntityKind  `json:"type"`
	Item     json.RawMessage `json:"item"`
}

func (h *Handler) syncUp(w http.ResponseWriter, r *http.Request) {
	var req syncUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.authenticate(w, r, req.Email, req.Password) {
		return
	}

	var err error

	switch req.Type {
	case app.KindCustomer:
		var c app.Customer
		if err = json.Unmarshal(req.Item, &c); err == nil {
			err = h.store.UpsertCustomer(r.Context(), req.Email, c)
		}
	case app.KindQuote:
		var q app.Quote
		if err = json.Unmarshal(req.Item, &q); err == nil {
			err = h.store.UpsertQuote(r.Context(), req.Email, q)
		}
	case app.KindJob:
		var j app.Job
		if err = json.Unmarshal(req.Item, &j); err == nil {
			err = h.store.UpsertJob(r.Context(), req.Email, j)
		}
	default:
		http.Error(w, fmt.Sprintf("unknown sync type %q", req.Type), http.StatusBadRequest)
		return
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type syncDeleteRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Type     app.EntityKind `json:"type"`
	ID       string         `json:"id"`
}

func (h *Handler) syncDelete(w http.ResponseWriter, r *http.Request) {
	var req syncDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.authenticate(w, r, req.Email, req.Password) {
		return
	}

	switch req.Type {
	case app.KindCustomer, app.KindQuote, app.KindJob:
	default:
		http.Error(w, fmt.Sprintf("unknown sync type %q", req.Type), http.StatusBadRequest)
		return
	}

	if err := h.store.Delete(r.Context(), req.Email, req.Type, req.ID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type changePasswordRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.store.Authenticate(r.Context(), req.Email, req.CurrentPassword); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "Incorrect current password"})
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	if err := h.store.UpdatePassword(r.Context(), req.Email, req.NewPassword); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

// resetPassword generates a temporary password and returns it in the
// response body. Delivering the secret in-band is part of the documented
// contract, not an oversight of this implementation.
func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.store.GetTenant(r.Context(), req.Email); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "Email not found"})
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	temp, err := temporaryPassword(8)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.store.UpdatePassword(r.Context(), req.Email, temp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password reset! Your temporary password is: " + temp,
	})
}

// listUsers returns every tenant row. The X-Admin-Key header is read but
// its value is not validated, matching the documented contract.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	_ = r.Header.Get("X-Admin-Key")

	tenants, err := h.store.ListTenants(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if tenants == nil {
		tenants = []Tenant{}
	}

	h.writeJSON(w, http.StatusOK, tenants)
}

// authenticate re-verifies the bearer credential and writes a 401 when it
// does not match. Returns false when the request has been answered.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, email, password string) bool {
	if _, err := h.store.Authenticate(r.Context(), email, password); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return false
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return false
	}

	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func temporaryPassword(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating temporary password: %w", err)
	}

	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}

	return string(buf), nil
}
