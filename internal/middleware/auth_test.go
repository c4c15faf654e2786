package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// Тест: NewToken + WithAuth — user_id попадает в контекст
func TestWithAuth_ValidTokenSetsUserID(t *testing.T) {
	const secret = "test-secret"

	// next-хендлер читает user_id из контекста
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := GetUserIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if uid != 77 {
			t.Fatalf("unexpected user id: %d", uid)
		}
		w.WriteHeader(http.StatusOK)
	})

	h := WithAuth(secret)(next)

	token, err := NewToken(77, secret, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rr.Code)
	}
}

// Тест: отсутствие заголовка — user_id не устанавливается
func TestWithAuth_NoHeaderLeavesAnonymous(t *testing.T) {
	h := WithAuth("any-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); ok {
			t.Fatalf("user id must not be set without token")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

// Тест: токен с чужим секретом — user_id не устанавливается
func TestWithAuth_InvalidToken(t *testing.T) {
	token, err := NewToken(5, "secret-A", time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	h := WithAuth("secret-B")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); ok {
			t.Fatalf("user id must not be set with invalid token")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

// Тест: просроченный токен отклоняется
func TestParseToken_Expired(t *testing.T) {
	token, err := NewToken(5, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if _, err := ParseToken(token, "secret"); err == nil {
		t.Fatalf("expected error for expired token")
	}
}
