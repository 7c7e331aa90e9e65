package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(7, "ayu", "cashier")
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token failed: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "ayu" || claims.Role != "cashier" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.Issuer != "notarich-cafe" {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Fatalf("garbage token accepted")
	}
	if _, err := ValidateToken(""); err == nil {
		t.Fatalf("empty token accepted")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("rahasia123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "rahasia123" {
		t.Fatalf("password stored in plaintext")
	}
	if !CheckPassword(hash, "rahasia123") {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword(hash, "salah") {
		t.Fatalf("wrong password accepted")
	}
}

func TestCookieNameFallback(t *testing.T) {
	if got := CookieName("owner"); got != "owner_token" {
		t.Fatalf("expected owner_token, got %q", got)
	}
	if got := CookieName("intern"); got != "auth_token" {
		t.Fatalf("expected auth_token fallback, got %q", got)
	}
}

func TestTokenFromRequestPrefersCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	r.AddCookie(&http.Cookie{Name: "cashier_token", Value: "cookie-token"})

	if got := TokenFromRequest(r); got != "cookie-token" {
		t.Fatalf("expected cookie token, got %q", got)
	}
}

func TestTokenFromRequestBearerFallback(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.Header.Set("Authorization", "Bearer header-token")

	if got := TokenFromRequest(r); got != "header-token" {
		t.Fatalf("expected bearer token, got %q", got)
	}

	bare := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if got := TokenFromRequest(bare); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}

func TestSetAndClearRoleCookies(t *testing.T) {
	w := httptest.NewRecorder()
	SetRoleCookie(w, "manager", "abc")

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "manager_token" || c.Value != "abc" {
		t.Fatalf("unexpected cookie %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Fatalf("role cookie must be http-only")
	}

	w = httptest.NewRecorder()
	ClearRoleCookies(w)
	cleared := w.Result().Cookies()
	if len(cleared) != len(RoleCookies) {
		t.Fatalf("expected %d cleared cookies, got %d", len(RoleCookies), len(cleared))
	}
	for _, c := range cleared {
		if c.MaxAge != -1 {
			t.Fatalf("cookie %s not expired", c.Name)
		}
	}
}
