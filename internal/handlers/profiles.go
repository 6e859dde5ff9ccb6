package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"humsafar/internal/biodata"
	"humsafar/internal/cache"
	"humsafar/internal/db"
	"humsafar/internal/middleware"
	"humsafar/internal/models"
)

// ParseBiodata runs the heuristic parser over one pasted message.
// POST /api/v1/biodata/parse  Body: { "text": "..." }
func ParseBiodata(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	text, _ := body["text"].(string)
	if strings.TrimSpace(text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{"profile": biodata.Parse(text)})
}

// CreateProfile stores a reviewed profile. Group admins create inside
// their own group; members create their own profile.
// POST /api/v1/profiles (protected)
func CreateProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	role := middleware.Role(r.Context())

	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	// A raw paste without reviewed fields still works: parse it here.
	if profile.Name == "" && strings.TrimSpace(profile.RawText) != "" {
		profile.Profile = biodata.Parse(profile.RawText)
	}

	profile.ID = 0
	profile.Published = false
	profile.GlobalProfileNo = ""
	profile.GroupProfileNo = ""
	profile.AddedByID = accountID

	switch role {
	case models.RoleGroup:
		profile.GroupID = middleware.GroupID(r.Context())
		profile.MemberAccountID = nil
		if profile.ManagedBy == "" {
			profile.ManagedBy = "admin"
		}
	case models.RoleMember:
		id := accountID
		profile.MemberAccountID = &id
		if profile.ManagedBy != "family" {
			profile.ManagedBy = "self"
		}
	case models.RoleSuper:
		// super admin may create anywhere; group comes from the payload
	default:
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if profile.GroupID != 0 {
		var group models.Group
		if err := db.DB.First(&group, profile.GroupID).Error; err != nil {
			http.Error(w, "group not found", http.StatusBadRequest)
			return
		}
		profile.GroupName = group.Name
	}

	dups := findDuplicates(profile.GroupID, profile.Name, profile.Contact, 0)
	if err := db.DB.Create(&profile).Error; err != nil {
		http.Error(w, "failed to create profile", http.StatusInternalServerError)
		return
	}

	writeJSONResp(w, http.StatusCreated, map[string]any{
		"profile":             profile,
		"possible_duplicates": dups,
	})
}

// MyProfiles lists the caller's working set: the whole group for a
// group admin, own profiles for a member.
// GET /api/v1/group/profiles (protected)
func MyProfiles(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var profiles []models.Profile
	var err error
	switch middleware.Role(r.Context()) {
	case models.RoleGroup:
		err = db.DB.Where("group_id = ?", middleware.GroupID(r.Context())).
			Order("created_at desc").Find(&profiles).Error
	case models.RoleMember:
		err = db.DB.Where("member_account_id = ?", accountID).
			Order("created_at desc").Find(&profiles).Error
	case models.RoleSuper:
		err = db.DB.Order("created_at desc").Limit(200).Find(&profiles).Error
	default:
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusOK, profiles)
}

// UpdateProfile edits a profile in place. Admin edits never change
// member ownership.
// PUT /api/v1/profiles/{no} (protected)
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	profile, status, msg := loadManagedProfile(r)
	if profile == nil {
		http.Error(w, msg, status)
		return
	}

	// Fields not present in the body keep their stored value; ownership,
	// numbering and publication state can never be set from the body.
	preservedOwner := profile.MemberAccountID
	preservedGroup := profile.GroupID
	preservedGroupName := profile.GroupName
	preservedGlobal := profile.GlobalProfileNo
	preservedGroupNo := profile.GroupProfileNo
	preservedPublished := profile.Published
	preservedAddedBy := profile.AddedByID

	if err := json.NewDecoder(r.Body).Decode(profile); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	profile.MemberAccountID = preservedOwner
	profile.GroupID = preservedGroup
	profile.GroupName = preservedGroupName
	profile.GlobalProfileNo = preservedGlobal
	profile.GroupProfileNo = preservedGroupNo
	profile.Published = preservedPublished
	profile.AddedByID = preservedAddedBy

	if err := db.DB.Save(profile).Error; err != nil {
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusOK, profile)
}

// DeleteProfile removes a profile permanently.
// DELETE /api/v1/profiles/{no} (protected)
func DeleteProfile(w http.ResponseWriter, r *http.Request) {
	profile, status, msg := loadManagedProfile(r)
	if profile == nil {
		http.Error(w, msg, status)
		return
	}
	if err := db.DB.Delete(profile).Error; err != nil {
		http.Error(w, "failed to delete profile", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{"deleted": profile.ID})
}

// PublishProfile allocates profile numbers (once) and makes the profile
// publicly visible.
// POST /api/v1/profiles/{no}/publish (protected)
func PublishProfile(w http.ResponseWriter, r *http.Request) {
	profile, status, msg := loadManagedProfile(r)
	if profile == nil {
		http.Error(w, msg, status)
		return
	}

	ctx := r.Context()
	if profile.GlobalProfileNo == "" {
		no, err := cache.NextGlobalNumber(ctx)
		if err != nil {
			http.Error(w, "profile numbering unavailable, try again later", http.StatusServiceUnavailable)
			return
		}
		profile.GlobalProfileNo = no
	}
	if profile.GroupProfileNo == "" && profile.GroupID != 0 {
		var group models.Group
		if err := db.DB.First(&group, profile.GroupID).Error; err == nil {
			if no, err := cache.NextGroupNumber(ctx, group.ID, group.Code); err == nil {
				profile.GroupProfileNo = no
			}
		}
	}

	profile.Published = true
	if err := db.DB.Save(profile).Error; err != nil {
		http.Error(w, "failed to publish profile", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusOK, profile)
}

// PublicProfiles lists published profiles with contact withheld.
// GET /api/v1/profiles?q=&gender=
func PublicProfiles(w http.ResponseWriter, r *http.Request) {
	q := db.DB.Where("published = ?", true)
	if gender := r.URL.Query().Get("gender"); gender != "" {
		q = q.Where("gender = ?", gender)
	}
	if term := strings.TrimSpace(r.URL.Query().Get("q")); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ? OR LOWER(caste) LIKE ? OR LOWER(global_profile_no) LIKE ?",
			like, like, like, like)
	}

	var profiles []models.Profile
	if err := q.Order("created_at desc").Limit(50).Find(&profiles).Error; err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	out := make([]models.Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.Redacted())
	}
	writeJSONResp(w, http.StatusOK, out)
}

// PublicProfileByNo returns one published profile by its global number,
// redacted, and counts the view.
// GET /api/v1/profiles/{no}
func PublicProfileByNo(w http.ResponseWriter, r *http.Request) {
	no := chi.URLParam(r, "no")
	if no == "" {
		http.Error(w, "missing profile number", http.StatusBadRequest)
		return
	}

	var profile models.Profile
	err := db.DB.Where("global_profile_no = ? AND published = ?", no, true).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	} else if err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	_ = cache.BumpViews(r.Context(), no)
	writeJSONResp(w, http.StatusOK, map[string]any{
		"profile": profile.Redacted(),
		"views":   cache.Views(r.Context(), no),
	})
}

// CheckDuplicate reports likely existing matches before an admin saves
// a new paste.
// POST /api/v1/profiles/check-duplicate (protected)
func CheckDuplicate(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	name, _ := body["name"].(string)
	contact, _ := body["contact"].(string)
	groupID := middleware.GroupID(r.Context())

	writeJSONResp(w, http.StatusOK, map[string]any{
		"possible_duplicates": findDuplicates(groupID, name, contact, 0),
	})
}

// duplicateScore compares two candidate names with Jaro-Winkler.
func duplicateScore(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	return strutil.Similarity(a, b, metrics.NewJaroWinkler())
}

const duplicateThreshold = 0.85

// findDuplicates scans a group's profiles for near-identical names or
// an identical contact. excludeID skips the profile being edited.
func findDuplicates(groupID uint, name, contact string, excludeID uint) []models.Profile {
	if groupID == 0 || (strings.TrimSpace(name) == "" && strings.TrimSpace(contact) == "") {
		return []models.Profile{}
	}
	var candidates []models.Profile
	if err := db.DB.Where("group_id = ?", groupID).Find(&candidates).Error; err != nil {
		return []models.Profile{}
	}

	dups := []models.Profile{}
	for _, c := range candidates {
		if c.ID == excludeID {
			continue
		}
		sameContact := contact != "" && c.Contact == contact
		if sameContact || duplicateScore(name, c.Name) >= duplicateThreshold {
			dups = append(dups, c.Redacted())
		}
	}
	return dups
}

// loadManagedProfile resolves {no} (a numeric id or a global profile
// number like HS-00023) and checks the caller may manage it. Returns a
// nil profile plus an HTTP status and message on failure.
func loadManagedProfile(r *http.Request) (*models.Profile, int, string) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		return nil, http.StatusUnauthorized, "unauthorized"
	}
	ref := chi.URLParam(r, "no")
	if ref == "" {
		return nil, http.StatusBadRequest, "missing profile reference"
	}

	var profile models.Profile
	var dbErr error
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		dbErr = db.DB.First(&profile, uint(id)).Error
	} else {
		dbErr = db.DB.Where("global_profile_no = ?", ref).First(&profile).Error
	}
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return nil, http.StatusNotFound, "profile not found"
	} else if dbErr != nil {
		return nil, http.StatusInternalServerError, "database error"
	}

	switch middleware.Role(r.Context()) {
	case models.RoleSuper:
		return &profile, 0, ""
	case models.RoleGroup:
		if profile.GroupID != 0 && profile.GroupID == middleware.GroupID(r.Context()) {
			return &profile, 0, ""
		}
	case models.RoleMember:
		if profile.MemberAccountID != nil && *profile.MemberAccountID == accountID {
			return &profile, 0, ""
		}
	}
	return nil, http.StatusForbidden, "forbidden: not allowed to manage this profile"
}
