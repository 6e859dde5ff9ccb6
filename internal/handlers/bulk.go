package handlers

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strings"

	"humsafar/internal/biodata"
	"humsafar/internal/db"
	"humsafar/internal/middleware"
	"humsafar/internal/models"
)

// BulkUploadProfiles imports a CSV of raw biodata messages for a group
// admin: one column named "biodata" (or the first column), one pasted
// message per row. Every row goes through the heuristic parser and is
// stored unpublished for review.
// POST /api/v1/profiles/bulk-upload (protected, group admin)
func BulkUploadProfiles(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok || middleware.Role(r.Context()) != models.RoleGroup {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	groupID := middleware.GroupID(r.Context())

	var group models.Group
	if err := db.DB.First(&group, groupID).Error; err != nil {
		http.Error(w, "group not found", http.StatusForbidden)
		return
	}

	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	file := lookupFile(r, "profilesCsv")
	if file == nil {
		http.Error(w, "missing file field 'profilesCsv'", http.StatusBadRequest)
		return
	}
	defer file.Close()

	parsed, failed, err := parseBiodataCSV(file)
	if err != nil {
		http.Error(w, "failed to read CSV: "+err.Error(), http.StatusBadRequest)
		return
	}

	created := 0
	for i := range parsed {
		parsed[i].GroupID = group.ID
		parsed[i].GroupName = group.Name
		parsed[i].AddedByID = accountID
		parsed[i].ManagedBy = "admin"
		if err := db.DB.Create(&parsed[i]).Error; err != nil {
			failed++
			continue
		}
		created++
	}

	writeJSONResp(w, http.StatusOK, map[string]any{
		"created": created,
		"failed":  failed,
	})
}

// parseBiodataCSV reads rows of raw biodata text and parses each into
// an unpublished profile. Returns the profiles plus a count of rows
// that were skipped (empty or too short to be a biodata).
func parseBiodataCSV(reader io.Reader) ([]models.Profile, int, error) {
	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return nil, 0, errors.New("empty file")
	}

	// Locate the biodata column from the header, defaulting to column 0.
	col := 0
	start := 0
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), "biodata") {
			col = i
			start = 1
			break
		}
	}

	var out []models.Profile
	failed := 0
	for _, row := range rows[start:] {
		if col >= len(row) {
			failed++
			continue
		}
		text := strings.TrimSpace(row[col])
		if len(text) < 10 {
			failed++
			continue
		}
		out = append(out, models.Profile{
			Profile: biodata.Parse(text),
			RawText: text,
		})
	}
	return out, failed, nil
}
