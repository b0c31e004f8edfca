package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"mentorchat/internal/config"
	"mentorchat/pkg/logger"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

var _ logger.Logger = nopLogger{}

const testSecret = "test-secret"

func signToken(t *testing.T, secret, issuer, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := AccessClaims{
		Name: "Alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(config.JWTConfig{AccessSecret: testSecret, Issuer: "mentorchat"}, nopLogger{})

	router := gin.New()
	router.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{
			"valid token",
			"Bearer " + signToken(t, testSecret, "mentorchat", userID.String(), future),
			http.StatusOK,
		},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc123", http.StatusUnauthorized},
		{
			"wrong secret",
			"Bearer " + signToken(t, "other-secret", "mentorchat", userID.String(), future),
			http.StatusUnauthorized,
		},
		{
			"wrong issuer",
			"Bearer " + signToken(t, testSecret, "someone-else", userID.String(), future),
			http.StatusUnauthorized,
		},
		{
			"expired",
			"Bearer " + signToken(t, testSecret, "mentorchat", userID.String(), time.Now().Add(-time.Hour)),
			http.StatusUnauthorized,
		},
		{
			"non-uuid subject",
			"Bearer " + signToken(t, testSecret, "mentorchat", "bob", future),
			http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRequireAuthSetsIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	m := NewAuthMiddleware(config.JWTConfig{AccessSecret: testSecret, Issuer: "mentorchat"}, nopLogger{})

	var gotUserID uuid.UUID
	var gotName string
	router := gin.New()
	router.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		gotUserID = c.MustGet("user_id").(uuid.UUID)
		gotName = c.GetString("user_name")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "mentorchat", userID.String(), time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if gotUserID != userID {
		t.Errorf("user_id in context = %v, want %v", gotUserID, userID)
	}
	if gotName != "Alice" {
		t.Errorf("user_name in context = %q, want Alice", gotName)
	}
}
