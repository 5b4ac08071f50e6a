package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"matchbook/internal/auth"
	"matchbook/internal/book"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TradeStore reads back journaled trades. The handler works without one;
// history endpoints then report the journal as unavailable.
type TradeStore interface {
	RecentTrades(ctx context.Context, limit int) ([]book.Trade, error)
}

// Handler contains dependencies for the market-data HTTP handlers.
type Handler struct {
	Book  *book.Book
	Auth  *auth.Service
	Store TradeStore
	Log   *zap.Logger
}

// NewHandler creates a new handler. store may be nil.
func NewHandler(b *book.Book, authService *auth.Service, store TradeStore, log *zap.Logger) *Handler {
	return &Handler{Book: b, Auth: authService, Store: store, Log: log}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Login exchanges the API key for a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.APIKey == "" {
		writeError(w, http.StatusBadRequest, "api_key required")
		return
	}

	token, err := h.Auth.Login(req.APIKey)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// AuthMiddleware verifies the bearer token on private endpoints.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			writeError(w, http.StatusUnauthorized, "authorization header required")
			return
		}
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}
		if _, err := h.Auth.Verify(token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetDepth returns both depth ladders, best price first. An optional
// ?limit=N truncates each side to its N most aggressive levels.
func (h *Handler) GetDepth(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": h.Book.Symbol(),
		"bids":   h.Book.Bids(limit),
		"asks":   h.Book.Asks(limit),
	})
}

// GetTrades returns the session trade log in execution order, optionally
// truncated to the most recent ?limit=N entries. limit=0 means the full
// log, same as on the depth endpoint.
func (h *Handler) GetTrades(w http.ResponseWriter, r *http.Request) {
	trades := h.Book.Trades()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		if n > 0 && n < len(trades) {
			trades = trades[len(trades)-n:]
		}
	}
	writeJSON(w, http.StatusOK, trades)
}

// GetTradeHistory serves journaled trades from the trade store.
func (h *Handler) GetTradeHistory(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "trade journal not configured")
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	trades, err := h.Store.RecentTrades(r.Context(), limit)
	if err != nil {
		h.Log.Error("failed to read trade journal", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read trade journal")
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

// GetOrder returns a resting order by id.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	o, ok := h.Book.Order(id)
	if !ok {
		writeError(w, http.StatusNotFound, "order not resting")
		return
	}
	writeJSON(w, http.StatusOK, o)
}
