package controller

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"homeland-merchant-backend/model"
	"homeland-merchant-backend/scan"
	"homeland-merchant-backend/usecase"
)

type ListingController struct {
	usecase *usecase.ListingUsecase
	logger  *zap.Logger
}

func NewListingController(uc *usecase.ListingUsecase, logger *zap.Logger) *ListingController {
	return &ListingController{usecase: uc, logger: logger}
}

type listingRequest struct {
	SellerID        string             `json:"seller_id"`
	MerchantKind    string             `json:"merchant_kind"` // "regular" | "special"
	DiscountPercent *int               `json:"discount_percent,omitempty"`
	Items           []model.ItemRecord `json:"items"`
}

type scanRequest struct {
	ImageBase64  string         `json:"image_base64"`
	MimeType     string         `json:"mime_type"`
	MerchantKind string         `json:"merchant_kind"`
	ScanIndex    int            `json:"scan_index"`
	Draft        *model.Listing `json:"draft,omitempty"`
}

func merchantKind(s string) scan.MerchantKind {
	if s == "special" {
		return scan.MerchantSpecial
	}
	return scan.MerchantRegular
}

// HandleListings serves /listings (collection) and /listings/scan.
func (c *ListingController) HandleListings(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case "GET":
		listings, err := c.usecase.GetActiveListings()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if listings == nil {
			w.Write([]byte("[]"))
			return
		}
		json.NewEncoder(w).Encode(listings)
	case "POST":
		var req listingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		l, err := c.usecase.CreateListing(req.SellerID, merchantKind(req.MerchantKind), req.DiscountPercent, req.Items)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(l)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleScan serves POST /listings/scan: one screenshot in, one reviewed
// draft out. An OCR failure still returns a renderable draft alongside the
// error message.
func (c *ListingController) HandleScan(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		http.Error(w, "Invalid image encoding", http.StatusBadRequest)
		return
	}

	res, err := c.usecase.ScanDraft(r.Context(), image, req.MimeType, merchantKind(req.MerchantKind), req.ScanIndex, req.Draft)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		if res == nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// OCR failed but the empty draft is still usable for manual entry.
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   err.Error(),
			"listing": res.Listing,
		})
		return
	}
	json.NewEncoder(w).Encode(res)
}

// HandleListingDetail serves /listings/{id}.
func (c *ListingController) HandleListingDetail(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 3 {
		http.Error(w, "Invalid URL", http.StatusBadRequest)
		return
	}
	id := parts[len(parts)-1]

	switch r.Method {
	case "GET":
		l, err := c.usecase.GetListing(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if l == nil {
			http.Error(w, "Listing not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(l)
	case "PUT":
		var req listingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		l, err := c.usecase.UpdateListing(id, req.SellerID, req.DiscountPercent, req.Items)
		if err != nil {
			writeUsecaseError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(l)
	case "DELETE":
		var req listingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if err := c.usecase.DeleteListing(id, req.SellerID); err != nil {
			writeUsecaseError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrListingNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, usecase.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}
