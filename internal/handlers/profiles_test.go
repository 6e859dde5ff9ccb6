package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"humsafar/internal/db"
)

// setupMockDB swaps the package-level GORM handle for a sqlmock-backed
// one and restores it when the test ends.
func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	prev := db.DB
	db.DB = gdb
	t.Cleanup(func() {
		db.DB = prev
		sqlDB.Close()
	})
	return mock
}

func TestParseBiodataEndpoint(t *testing.T) {
	body := `{"text":"Name: Priya Verma\nGender: Female\nContact: 9876543210"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/biodata/parse", strings.NewReader(body))
	rec := httptest.NewRecorder()

	ParseBiodata(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Profile struct {
			Name    string `json:"name"`
			Gender  string `json:"gender"`
			Contact string `json:"contact"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Priya Verma", resp.Profile.Name)
	assert.Equal(t, "Female", resp.Profile.Gender)
	assert.Equal(t, "9876543210", resp.Profile.Contact)
}

func TestParseBiodataEndpointRejectsEmptyText(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/biodata/parse", strings.NewReader(`{"text":"  "}`))
	rec := httptest.NewRecorder()

	ParseBiodata(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublicProfileByNo(t *testing.T) {
	mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "name", "contact", "raw_text", "global_profile_no", "published"}).
		AddRow(7, "Priya Verma", "9876543210", "Name: Priya Verma", "HS-00023", true)
	mock.ExpectQuery(`SELECT (.+) FROM "profiles" WHERE global_profile_no = \$1 AND published = \$2`).
		WithArgs("HS-00023", true, 1).
		WillReturnRows(rows)

	r := chi.NewRouter()
	r.Get("/api/v1/profiles/{no}", PublicProfileByNo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/HS-00023", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Profile struct {
			Name            string `json:"name"`
			Contact         string `json:"contact"`
			GlobalProfileNo string `json:"globalProfileNo"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Priya Verma", resp.Profile.Name)
	assert.Equal(t, "HS-00023", resp.Profile.GlobalProfileNo)
	// contact and raw text stay withheld on the public page
	assert.Empty(t, resp.Profile.Contact)
	assert.NotContains(t, rec.Body.String(), "9876543210")
}

func TestPublicProfileByNoNotFound(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	r := chi.NewRouter()
	r.Get("/api/v1/profiles/{no}", PublicProfileByNo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/HS-99999", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProfileContactWithValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	mock := setupMockDB(t)

	token, err := makeShareToken("HS-00023", 24)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "name", "contact", "global_profile_no", "published"}).
		AddRow(7, "Priya Verma", "9876543210", "HS-00023", true)
	mock.ExpectQuery(`SELECT (.+) FROM "profiles" WHERE global_profile_no = \$1`).
		WithArgs("HS-00023", 1).
		WillReturnRows(rows)

	r := chi.NewRouter()
	r.Get("/api/v1/profiles/{no}/contact", GetProfileContact)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/HS-00023/contact?token="+token, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "9876543210")
}

func TestGetProfileContactRejectsMismatchedProfile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := makeShareToken("HS-00001", 24)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Get("/api/v1/profiles/{no}/contact", GetProfileContact)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/HS-00023/contact?token="+token, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetProfileContactRejectsMissingToken(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/profiles/{no}/contact", GetProfileContact)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/HS-00023/contact", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDuplicateScore(t *testing.T) {
	assert.GreaterOrEqual(t, duplicateScore("Priya Verma", "priya verma"), duplicateThreshold)
	assert.GreaterOrEqual(t, duplicateScore("Priya Verma", "Priya Vermaa"), duplicateThreshold)
	assert.Less(t, duplicateScore("Priya Verma", "Rahul Jain"), duplicateThreshold)
	assert.Equal(t, 0.0, duplicateScore("", "Priya Verma"))
}
