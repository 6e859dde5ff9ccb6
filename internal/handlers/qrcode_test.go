package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestGetProfileQRCode(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://humsafar.example")

	r := chi.NewRouter()
	r.Get("/api/v1/profiles/{no}/qrcode", GetProfileQRCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/HS-00023/qrcode", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), pngMagic))
}
