package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"humsafar/internal/cache"
	"humsafar/internal/db"
	"humsafar/internal/models"
)

// CreateGroupAdmin provisions a new matchmaking group together with its
// admin account. Super admin only.
// POST /api/v1/admin/group-admins
func CreateGroupAdmin(w http.ResponseWriter, r *http.Request) {
	log.Println("CreateGroupAdmin called")
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	groupName, _ := body["groupName"].(string)
	groupCode, _ := body["groupCode"].(string)
	city, _ := body["city"].(string)

	email = strings.ToLower(strings.TrimSpace(email))
	groupName = strings.TrimSpace(groupName)
	groupCode = strings.ToUpper(strings.TrimSpace(groupCode))
	if email == "" || password == "" || groupName == "" {
		http.Error(w, "email, password and groupName are required", http.StatusBadRequest)
		return
	}
	if groupCode == "" {
		// Default the number prefix to the first word of the group name.
		groupCode = strings.ToUpper(strings.Split(groupName, " ")[0])
		if len(groupCode) > 5 {
			groupCode = groupCode[:5]
		}
	}

	var existingAcc models.Account
	if err := db.DB.Where("email = ?", email).First(&existingAcc).Error; err == nil {
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

	var existingGroup models.Group
	if err := db.DB.Where("name = ? OR code = ?", groupName, groupCode).First(&existingGroup).Error; err == nil {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   "group_conflict",
			"message": "A group with this name or code already exists.",
			"group":   existingGroup,
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
		DisplayName:  groupName,
		Role:         models.RoleGroup,
	}
	if err := db.DB.Create(&acc).Error; err != nil {
		http.Error(w, "failed to create admin account", http.StatusInternalServerError)
		return
	}

	group := models.Group{
		Name:           groupName,
		Code:           groupCode,
		City:           city,
		AdminAccountID: acc.ID,
	}
	if err := db.DB.Create(&group).Error; err != nil {
		http.Error(w, "failed to create group", http.StatusInternalServerError)
		return
	}

	acc.GroupID = &group.ID
	if err := db.DB.Save(&acc).Error; err != nil {
		http.Error(w, "failed to link admin to group", http.StatusInternalServerError)
		return
	}

	writeJSONResp(w, http.StatusCreated, map[string]any{
		"message": "Admin for " + groupName + " created successfully.",
		"group":   group,
		"admin":   acc,
	})
}

// AllGroups lists all provisioned groups. Super admin only.
// GET /api/v1/admin/groups
func AllGroups(w http.ResponseWriter, r *http.Request) {
	var groups []models.Group
	if err := db.DB.Order("id").Find(&groups).Error; err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusOK, groups)
}

// DirectoryStats returns directory-wide counts for the super admin
// dashboard.
// GET /api/v1/admin/stats
func DirectoryStats(w http.ResponseWriter, r *http.Request) {
	var groups, admins, members, profiles, published int64
	_ = db.DB.Model(&models.Group{}).Count(&groups).Error
	_ = db.DB.Model(&models.Account{}).Where("role = ?", models.RoleGroup).Count(&admins).Error
	_ = db.DB.Model(&models.Account{}).Where("role = ?", models.RoleMember).Count(&members).Error
	_ = db.DB.Model(&models.Profile{}).Count(&profiles).Error
	_ = db.DB.Model(&models.Profile{}).Where("published = ?", true).Count(&published).Error

	// Best-effort view totals for the published profiles.
	views := int64(0)
	var nos []string
	_ = db.DB.Model(&models.Profile{}).Where("published = ?", true).Pluck("global_profile_no", &nos).Error
	ctx := context.Background()
	for _, no := range nos {
		views += cache.Views(ctx, no)
	}

	writeJSONResp(w, http.StatusOK, map[string]any{
		"groups":             groups,
		"group_admins":       admins,
		"members":            members,
		"profiles":           profiles,
		"published_profiles": published,
		"total_views":        views,
	})
}
