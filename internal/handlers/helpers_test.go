package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fracas-dev/fracas/db"
	"github.com/fracas-dev/fracas/internal/auth"
	"github.com/fracas-dev/fracas/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupRouter wires the full router against a fresh in-memory SQLite
// database with foreign key enforcement on, so cascade and set-null
// behavior is exercised for real.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase(), "Failed to migrate test database")

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
		db.DB = nil
	})

	return router.NewRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerAndLogin creates an account through the public registration
// endpoint and returns a bearer token plus the new user's id.
func registerAndLogin(t *testing.T, r *gin.Engine, username, email, team string) (string, uint) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":      email,
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password1":  "supersecret",
		"password2":  "supersecret",
		"team":       team,
	})
	require.Equal(t, http.StatusCreated, w.Code, "registration failed: %s", w.Body.String())

	user := decodeBody(t, w)["user"].(map[string]interface{})
	userID := uint(user["user_id"].(float64))

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	token := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)

	return token, userID
}

func createTeam(t *testing.T, r *gin.Engine, token, name string) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/teams", token, gin.H{"team_name": name})
	require.Equal(t, http.StatusCreated, w.Code, "team create failed: %s", w.Body.String())
}

func createSubsystem(t *testing.T, r *gin.Engine, token, name, parentTeam string) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/subsystems", token, gin.H{
		"subsystem_name": name,
		"parent_team":    parentTeam,
	})
	require.Equal(t, http.StatusCreated, w.Code, "subsystem create failed: %s", w.Body.String())
}

func createRecord(t *testing.T, r *gin.Engine, token string, fields gin.H) uint {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/records", token, fields)
	require.Equal(t, http.StatusCreated, w.Code, "record create failed: %s", w.Body.String())

	return uint(decodeBody(t, w)["record_id"].(float64))
}

func createComment(t *testing.T, r *gin.Engine, token string, recordID uint, parentID *uint, text string) uint {
	t.Helper()

	body := gin.H{"record_id": recordID, "comment_text": text}

	if parentID != nil {
		body["parent_comment_id"] = *parentID
	}

	w := doJSON(t, r, http.MethodPost, "/api/comments", token, body)
	require.Equal(t, http.StatusCreated, w.Code, "comment create failed: %s", w.Body.String())

	return uint(decodeBody(t, w)["comment_id"].(float64))
}
