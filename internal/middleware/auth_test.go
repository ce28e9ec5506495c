package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "silvercoin/internal/errors"
	"silvercoin/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testUser() *models.User {
	u := &models.User{Email: "alice@test.com"}
	u.ID = "018f3a4e-7c1a-7b2e-9d4f-0a1b2c3d4e5f"
	return u
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestLogging(), AuthMiddleware())
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID"), "email": c.GetString("email")})
	})
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse error body %q: %v", w.Body.String(), err)
	}
	return body.Error.Code
}

func TestAuthMiddleware(t *testing.T) {
	r := protectedRouter()

	t.Run("accepts_access_token", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser())
		if err != nil {
			t.Fatalf("GenerateAccessToken: %v", err)
		}
		w := get(r, "Bearer "+token)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var body map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["user_id"] != testUser().ID {
			t.Errorf("expected user_id %s, got %s", testUser().ID, body["user_id"])
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Error("expected an X-Request-ID header")
		}
	})

	t.Run("rejects_missing_header", func(t *testing.T) {
		w := get(r, "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "UNAUTHORIZED" {
			t.Errorf("expected UNAUTHORIZED, got %s", code)
		}
	})

	t.Run("rejects_malformed_header", func(t *testing.T) {
		w := get(r, "Token abc")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("rejects_refresh_token", func(t *testing.T) {
		token, err := GenerateRefreshToken(testUser())
		if err != nil {
			t.Fatalf("GenerateRefreshToken: %v", err)
		}
		w := get(r, "Bearer "+token)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("rejects_garbage_token", func(t *testing.T) {
		w := get(r, "Bearer not.a.jwt")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}

func TestValidateRefreshToken(t *testing.T) {
	refresh, err := GenerateRefreshToken(testUser())
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	claims, err := ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if claims.UserID != testUser().ID {
		t.Errorf("expected user id %s, got %s", testUser().ID, claims.UserID)
	}

	access, _ := GenerateAccessToken(testUser())
	if _, err := ValidateRefreshToken(access); err == nil {
		t.Error("access token should not validate as a refresh token")
	}
}

func TestHashToken(t *testing.T) {
	if HashToken("a") == HashToken("b") {
		t.Error("different tokens should hash differently")
	}
	if len(HashToken("a")) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(HashToken("a")))
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperrors.WithFields(apperrors.ErrInvalidInput, map[string]string{"name": "name is required"}))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})

	t.Run("app_error_keeps_code_and_fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app", nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		var body struct {
			Error struct {
				Code   string            `json:"code"`
				Fields map[string]string `json:"fields"`
			} `json:"error"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body.Error.Code != "INVALID_INPUT" {
			t.Errorf("expected INVALID_INPUT, got %s", body.Error.Code)
		}
		if body.Error.Fields["name"] != "name is required" {
			t.Errorf("expected name field message, got %v", body.Error.Fields)
		}
	})

	t.Run("plain_error_is_internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "INTERNAL_ERROR" {
			t.Errorf("expected INTERNAL_ERROR, got %s", code)
		}
	})
}
