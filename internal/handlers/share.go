package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"humsafar/internal/db"
	"humsafar/internal/models"
)

type shareClaims struct {
	ProfileNo string `json:"profile_no"`
	jwt.RegisteredClaims
}

func getShareSecret() ([]byte, error) {
	if s := os.Getenv("SHARE_TOKEN_SECRET"); s != "" {
		return []byte(s), nil
	}
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s), nil
	}
	return nil, errors.New("missing SHARE_TOKEN_SECRET/JWT_SECRET")
}

func makeShareToken(profileNo string, expiresInHours int) (string, error) {
	secret, err := getShareSecret()
	if err != nil {
		return "", err
	}
	exp := time.Now().Add(time.Duration(expiresInHours) * time.Hour)
	claims := shareClaims{
		ProfileNo: profileNo,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseShareToken(tokenStr string) (*shareClaims, error) {
	secret, err := getShareSecret()
	if err != nil {
		return nil, err
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &shareClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid share token")
	}
	claims, ok := parsed.Claims.(*shareClaims)
	if !ok || claims.ProfileNo == "" || claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
		return nil, errors.New("invalid share token")
	}
	return claims, nil
}

// GenerateShareLink creates a short-lived link that reveals a published
// profile's contact details.
// POST /api/v1/profiles/{no}/share-link (protected)
func GenerateShareLink(w http.ResponseWriter, r *http.Request) {
	profile, status, msg := loadManagedProfile(r)
	if profile == nil {
		http.Error(w, msg, status)
		return
	}
	if !profile.Published || profile.GlobalProfileNo == "" {
		http.Error(w, "profile must be published before sharing", http.StatusBadRequest)
		return
	}

	// Be liberal in what we accept from the frontend.
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		payload = map[string]any{}
	}
	parseHours := func(x any) (int, bool) {
		switch t := x.(type) {
		case float64:
			return int(t), true
		case json.Number:
			if i, err := strconv.Atoi(t.String()); err == nil {
				return i, true
			}
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return i, true
			}
		}
		return 0, false
	}
	expires := 0
	for _, key := range []string{"expires_in_hours", "expiresInHours", "duration"} {
		if v, ok := payload[key]; ok {
			if i, ok2 := parseHours(v); ok2 {
				expires = i
				break
			}
		}
	}
	// Enforce 1..168 hours to avoid immediately-expired tokens.
	if expires < 1 || expires > 168 {
		http.Error(w, "expires_in_hours must be between 1 and 168", http.StatusBadRequest)
		return
	}

	signed, err := makeShareToken(profile.GlobalProfileNo, expires)
	if err != nil {
		http.Error(w, "server misconfigured", http.StatusInternalServerError)
		return
	}

	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	url := fmt.Sprintf("%s/p/%s?token=%s", trimRightSlash(base), profile.GlobalProfileNo, signed)
	writeJSONResp(w, http.StatusOK, map[string]any{"shareable_url": url})
}

// GetProfileContact redeems a share token for the withheld contact
// details.
// GET /api/v1/profiles/{no}/contact?token=...
func GetProfileContact(w http.ResponseWriter, r *http.Request) {
	no := chi.URLParam(r, "no")
	if no == "" {
		http.Error(w, "missing profile number", http.StatusBadRequest)
		return
	}
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "This share link is invalid or has expired.", http.StatusUnauthorized)
		return
	}

	claims, err := parseShareToken(tokenStr)
	if err != nil {
		http.Error(w, "This share link is invalid or has expired.", http.StatusUnauthorized)
		return
	}
	if claims.ProfileNo != no {
		http.Error(w, "forbidden: profile mismatch", http.StatusForbidden)
		return
	}

	var profile models.Profile
	dbErr := db.DB.Where("global_profile_no = ?", no).First(&profile).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	} else if dbErr != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	writeJSONResp(w, http.StatusOK, map[string]any{
		"globalProfileNo": profile.GlobalProfileNo,
		"name":            profile.Name,
		"contact":         profile.Contact,
		"valid_until":     claims.ExpiresAt.Time,
	})
}
