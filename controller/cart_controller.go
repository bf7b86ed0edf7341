package controller

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"homeland-merchant-backend/model"
	"homeland-merchant-backend/usecase"
)

type CartController struct {
	usecase *usecase.CartUsecase
	logger  *zap.Logger
}

func NewCartController(uc *usecase.CartUsecase, logger *zap.Logger) *CartController {
	return &CartController{usecase: uc, logger: logger}
}

// cartItemRequest covers all three item mutations: POST sends Line, PUT and
// DELETE send the identity key (plus Quantity for PUT).
type cartItemRequest struct {
	UserID   string          `json:"user_id"`
	Line     *model.CartLine `json:"line,omitempty"`
	ItemName string          `json:"item_name,omitempty"`
	SellerID string          `json:"seller_id,omitempty"`
	Quantity int             `json:"quantity,omitempty"`
}

// HandleCart serves /cart: GET the snapshot, DELETE to clear.
func (c *CartController) HandleCart(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case "GET":
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			http.Error(w, "user_id is required", http.StatusBadRequest)
			return
		}
		lines, err := c.usecase.Load(userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeSnapshot(w, lines)
	case "DELETE":
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			http.Error(w, "user_id is required", http.StatusBadRequest)
			return
		}
		lines, err := c.usecase.Clear(userID)
		if err != nil {
			// The in-memory state is cleared even when the durable save
			// failed; report the save error with the snapshot.
			c.logger.Warn("cart clear persisted with error", zap.Error(err))
		}
		writeSnapshot(w, lines)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleCartItems serves /cart/items: POST adds, PUT changes quantity,
// DELETE removes one line. Every response is the full new snapshot.
func (c *CartController) HandleCartItems(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	var lines []model.CartLine
	var err error
	switch r.Method {
	case "POST":
		if req.Line == nil {
			http.Error(w, "line is required", http.StatusBadRequest)
			return
		}
		lines, err = c.usecase.Add(req.UserID, *req.Line)
	case "PUT":
		lines, err = c.usecase.SetQuantity(req.UserID, req.ItemName, req.SellerID, req.Quantity)
	case "DELETE":
		lines, err = c.usecase.Remove(req.UserID, req.ItemName, req.SellerID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil && lines == nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		c.logger.Warn("cart mutation persisted with error", zap.Error(err))
	}
	writeSnapshot(w, lines)
}

func writeSnapshot(w http.ResponseWriter, lines []model.CartLine) {
	w.Header().Set("Content-Type", "application/json")
	if lines == nil {
		w.Write([]byte("[]"))
		return
	}
	json.NewEncoder(w).Encode(lines)
}
