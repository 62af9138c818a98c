package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/MLeorio/FALL/database"
	"github.com/MLeorio/FALL/models"
)

var listingTestColumns = []string{"id", "titre", "description", "details", "actif", "statut", "created_at", "updated_at"}

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	handler := NewListingsHandler(database.NewListingsService(db))

	router := gin.New()
	router.GET("/", handler.Docs)
	router.GET("/health", handler.HealthCheck)
	router.GET("/annonces", handler.GetListings)
	router.GET("/annonces/public", handler.GetPublicListings)
	router.GET("/annonces/private", handler.GetPrivateListings)
	router.POST("/annonce/", handler.CreateListing)
	router.GET("/annonce/:id", handler.GetListing)
	router.PUT("/annonce/:id", handler.UpdateListing)
	router.GET("/annonce/publier/:id", handler.PublishListing)
	router.GET("/annonce/done/:id", handler.ResolveListing)
	router.DELETE("/annonce/:id", handler.DeleteListing)
	router.POST("/installation/", handler.RegisterDevice)

	return router, mock, db
}

func TestGetListings(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM annonces").
		WillReturnRows(sqlmock.NewRows(listingTestColumns).
			AddRow(1, "Portefeuille perdu", "Perdu au campus", nil, 1, "fall", now, now))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/annonces", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var listings []models.Listing
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
	assert.Len(t, listings, 1)
	assert.Equal(t, "Portefeuille perdu", listings[0].Title)
	assert.Equal(t, 1, listings[0].Actif)
}

func TestGetPublicListings(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM annonces WHERE actif = (.+) AND statut = (.+)").
		WithArgs(1, "fall").
		WillReturnRows(sqlmock.NewRows(listingTestColumns))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/annonces/public", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPrivateListings(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM annonces WHERE actif = (.+) AND statut = (.+)").
		WithArgs(0, "fall").
		WillReturnRows(sqlmock.NewRows(listingTestColumns))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/annonces/private", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateListing(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO annonces \\(titre\\) VALUES \\((.+)\\)").
		WithArgs("Lost wallet").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectQuery("SELECT (.+) FROM annonces WHERE id = (.+)").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(listingTestColumns).
			AddRow(4, "Lost wallet", nil, nil, 0, "fall", now, now))

	body, _ := json.Marshal(map[string]any{"title": "Lost wallet"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/annonce/", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var listing models.Listing
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, int64(4), listing.Id)
	assert.Equal(t, 0, listing.Actif)
	assert.Equal(t, "fall", listing.Statut)
	assert.False(t, listing.CreatedAt.IsZero())
}

func TestCreateListingInvalidJSON(t *testing.T) {
	router, _, db := newTestRouter(t)
	defer db.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/annonce/", bytes.NewBuffer([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetListingNotFound(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM annonces WHERE id = (.+)").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(listingTestColumns))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/annonce/42", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "L'annonce 42 n'a pas été trouvée", resp["error"])
}

func TestGetListingBadId(t *testing.T) {
	router, _, db := newTestRouter(t)
	defer db.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/annonce/abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateListing(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE annonces SET description = (.+) WHERE id = (.+)").
		WithArgs("Retrouvé près de la gare", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM annonces WHERE id = (.+)").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(listingTestColumns).
			AddRow(7, "Lost wallet", "Retrouvé près de la gare", nil, 0, "fall", now, now))

	body, _ := json.Marshal(map[string]any{"description": "Retrouvé près de la gare"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/annonce/7", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var listing models.Listing
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, "Retrouvé près de la gare", listing.Description)
}

func TestUpdateListingEmptyBodyIsNoOp(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	// Only the refetch runs; no UPDATE statement is issued.
	mock.ExpectQuery("SELECT (.+) FROM annonces WHERE id = (.+)").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(listingTestColumns).
			AddRow(7, "Lost wallet", "", nil, 0, "fall", now, now))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/annonce/7", bytes.NewBuffer([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	var listing models.Listing
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, "Lost wallet", listing.Title)
}

func TestPublishListing(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	mock.ExpectExec("UPDATE annonces SET actif = 1, updated_at = NOW\\(\\) WHERE id = (.+)").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/annonce/publier/5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.StatusResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "L'annonce à bien été publiée", resp.Message)
}

func TestResolveListing(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	mock.ExpectExec("UPDATE annonces SET statut = (.+), actif = 0, updated_at = NOW\\(\\) WHERE id = (.+)").
		WithArgs("pupa", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/annonce/done/5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.StatusResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Felicitation, objet bien rendu au proprietaire !", resp.Message)
}

func TestDeleteListing(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM annonces WHERE id = (.+)").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/annonce/7", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.StatusResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "L'annonce 7 a été supprimée", resp.Message)
}

func TestDeleteListingNotFound(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM annonces WHERE id = (.+)").
		WithArgs(int64(999999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/annonce/999999", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "L'annonce 999999 n'a pas été trouvée", resp["error"])
}

func TestRegisterDevice(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO devices \\(device_id, details\\) VALUES \\((.+), (.+)\\)").
		WithArgs("A1B2C3", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT id, device_id, details, created_at FROM devices WHERE id = (.+)").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_id", "details", "created_at"}).
			AddRow(1, "A1B2C3", nil, now))

	body, _ := json.Marshal(map[string]any{"device_id": "A1B2C3"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/installation/", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.StatusResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Nous sommes heureux de vous compter parmis nous, utilisateur A1B2C3", resp.Message)
}

func TestHealthCheck(t *testing.T) {
	router, _, db := newTestRouter(t)
	defer db.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "fall-api", resp["service"])
}

func TestDocsPage(t *testing.T) {
	router, _, db := newTestRouter(t)
	defer db.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "TOR API")
	assert.Contains(t, w.Body.String(), "/annonce/publier/{id}")
}
