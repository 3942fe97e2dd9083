package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/chimgan/sales/internal/auth"
	"github.com/chimgan/sales/internal/config"
	"github.com/chimgan/sales/internal/utils"
)

const testSecret = "handlers-test-secret"

func testConfig() *config.Config {
	return &config.Config{
		JwtSecret:        testSecret,
		JwtTTL:           time.Hour,
		RegionName:       "Mersin",
		DefaultLanguage:  "ru",
		DefaultCurrency:  "TRY",
		DailyUserAdLimit: 2,
		MinPasswordLen:   6,
		AllowedOrigins:   []string{"*"},
	}
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func userToken(t *testing.T, id utils.SixID) string {
	t.Helper()
	token, err := auth.GenerateJWT(id, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateAdminJWT("admin@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

// do sends body (marshalled unless nil) with an optional bearer token.
func do(r http.Handler, method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
