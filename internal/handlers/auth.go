package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"humsafar/internal/db"
	"humsafar/internal/middleware"
	"humsafar/internal/models"
	"humsafar/pkg"
)

// Login handles POST /api/v1/auth/login
// Body: { "email": "...", "password": "..." }
func Login(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	var acc models.Account
	err := db.DB.Where("email = ?", email).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	} else if err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	groupID := uint(0)
	if acc.GroupID != nil {
		groupID = *acc.GroupID
	}
	signed, err := pkg.CreateToken(acc.ID, acc.Role, groupID)
	if err != nil {
		http.Error(w, "failed to create token", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"token":   signed,
		"account": acc,
		"authStatus": map[string]any{
			"isAuthenticated": true,
			"accountType":     acc.Role,
		},
	})
}

// RegisterMember handles POST /api/v1/auth/register
// Members self-register; admin accounts are provisioned by the super
// admin instead.
func RegisterMember(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	displayName, _ := body["displayName"].(string)
	managedBy, _ := body["managedBy"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 6 {
		http.Error(w, "email and a password of at least 6 characters are required", http.StatusBadRequest)
		return
	}
	if managedBy != "family" {
		managedBy = "self"
	}

	var existing models.Account
	err := db.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   "account_conflict",
			"message": "An account with this email already exists.",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}
	acc := models.Account{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         models.RoleMember,
		ManagedBy:    managedBy,
	}
	if err := db.DB.Create(&acc).Error; err != nil {
		http.Error(w, "failed to create account", http.StatusInternalServerError)
		return
	}

	signed, err := pkg.CreateToken(acc.ID, acc.Role, 0)
	if err != nil {
		http.Error(w, "failed to create token", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusCreated, map[string]any{
		"token":   signed,
		"account": acc,
	})
}

// AuthMe returns the current account's auth status and role.
// GET /api/v1/auth/me (protected)
func AuthMe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		http.Error(w, "account is missing or invalid", http.StatusBadRequest)
		return
	}

	var acc models.Account
	if err := db.DB.First(&acc, accountID).Error; err != nil {
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}

	var ownProfiles int64
	_ = db.DB.Model(&models.Profile{}).Where("member_account_id = ?", accountID).Count(&ownProfiles).Error

	writeJSONResp(w, http.StatusOK, map[string]any{
		"account":      acc,
		"account_type": acc.Role,
		"has_profile":  ownProfiles > 0,
	})
}
