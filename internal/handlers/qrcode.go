package handlers

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
)

// GetProfileQRCode renders a PNG QR code pointing at a profile's public
// page, for pasting back into WhatsApp groups.
// GET /api/v1/profiles/{no}/qrcode
func GetProfileQRCode(w http.ResponseWriter, r *http.Request) {
	no := chi.URLParam(r, "no")
	if no == "" {
		http.Error(w, "missing profile number", http.StatusBadRequest)
		return
	}

	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	data := trimRightSlash(base) + "/p/" + no

	png, err := qrcode.Encode(data, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
