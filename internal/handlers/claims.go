package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"humsafar/internal/db"
	"humsafar/internal/middleware"
	"humsafar/internal/models"
)

// CreateClaim lets a member request ownership of a profile a group
// admin entered for them.
// POST /api/v1/claims (protected, member)
func CreateClaim(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok || middleware.Role(r.Context()) != models.RoleMember {
		http.Error(w, "only members can claim profiles", http.StatusForbidden)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	no, _ := body["global_profile_no"].(string)
	note, _ := body["note"].(string)
	no = strings.TrimSpace(no)
	if no == "" {
		http.Error(w, "global_profile_no is required", http.StatusBadRequest)
		return
	}

	var profile models.Profile
	err := db.DB.Where("global_profile_no = ?", no).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	} else if err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	if profile.MemberAccountID != nil {
		writeError(w, http.StatusConflict, "profile already owned by a member")
		return
	}

	// One open claim per member per profile.
	var existing models.ProfileClaim
	err = db.DB.Where("profile_id = ? AND member_account_id = ? AND status = ?",
		profile.ID, accountID, models.ClaimPending).First(&existing).Error
	if err == nil {
		writeJSONResp(w, http.StatusOK, existing)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	claim := models.ProfileClaim{
		ProfileID:       profile.ID,
		MemberAccountID: accountID,
		GroupID:         profile.GroupID,
		Note:            note,
		Status:          models.ClaimPending,
	}
	if err := db.DB.Create(&claim).Error; err != nil {
		http.Error(w, "failed to create claim", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusCreated, claim)
}

// ListClaimsForGroup shows pending claims for the admin's group.
// GET /api/v1/claims (protected, group admin)
func ListClaimsForGroup(w http.ResponseWriter, r *http.Request) {
	role := middleware.Role(r.Context())
	q := db.DB.Where("status = ?", models.ClaimPending)
	switch role {
	case models.RoleGroup:
		q = q.Where("group_id = ?", middleware.GroupID(r.Context()))
	case models.RoleSuper:
		// all groups
	default:
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var claims []models.ProfileClaim
	if err := q.Order("created_at").Find(&claims).Error; err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusOK, claims)
}

// ApproveClaim resolves a claim. Approval hands the profile to the
// member; ownership is only ever set when the profile has no owner yet.
// PATCH /api/v1/claims/approve (protected, group admin)
// Body: { "claim_id": 1, "approve": true }
func ApproveClaim(w http.ResponseWriter, r *http.Request) {
	role := middleware.Role(r.Context())
	if role != models.RoleGroup && role != models.RoleSuper {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	claimID, _ := body["claim_id"].(float64)
	approve, _ := body["approve"].(bool)
	if claimID <= 0 {
		http.Error(w, "claim_id is required", http.StatusBadRequest)
		return
	}

	var claim models.ProfileClaim
	err := db.DB.First(&claim, uint(claimID)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "claim not found")
		return
	} else if err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	if role == models.RoleGroup && claim.GroupID != middleware.GroupID(r.Context()) {
		http.Error(w, "forbidden: claim belongs to another group", http.StatusForbidden)
		return
	}
	if claim.Status != models.ClaimPending {
		writeError(w, http.StatusConflict, "claim already resolved")
		return
	}

	if !approve {
		claim.Status = models.ClaimRejected
		if err := db.DB.Save(&claim).Error; err != nil {
			http.Error(w, "failed to update claim", http.StatusInternalServerError)
			return
		}
		writeJSONResp(w, http.StatusOK, claim)
		return
	}

	var profile models.Profile
	if err := db.DB.First(&profile, claim.ProfileID).Error; err != nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	if profile.MemberAccountID != nil {
		writeError(w, http.StatusConflict, "profile already owned by a member")
		return
	}
	owner := claim.MemberAccountID
	profile.MemberAccountID = &owner
	if profile.ManagedBy == "admin" {
		profile.ManagedBy = "self"
	}
	if err := db.DB.Save(&profile).Error; err != nil {
		http.Error(w, "failed to assign profile", http.StatusInternalServerError)
		return
	}

	claim.Status = models.ClaimApproved
	if err := db.DB.Save(&claim).Error; err != nil {
		http.Error(w, "failed to update claim", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{"claim": claim, "profile": profile})
}
