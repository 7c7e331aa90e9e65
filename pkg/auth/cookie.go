package auth

import (
	"net/http"
	"time"
)

// RoleCookies lists the cookie name used per role. Each role gets its own
// HTTP-only cookie so a shared tablet can hold several sessions at once.
var RoleCookies = map[string]string{
	"owner":   "owner_token",
	"manager": "manager_token",
	"cashier": "cashier_token",
	"kitchen": "kitchen_token",
}

// CookieName returns the cookie name for a role, falling back to a generic
// name for unknown roles.
func CookieName(role string) string {
	if name, ok := RoleCookies[role]; ok {
		return name
	}
	return "auth_token"
}

// SetRoleCookie writes the token cookie for the given role.
func SetRoleCookie(w http.ResponseWriter, role, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(role),
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearRoleCookies expires every known role cookie.
func ClearRoleCookies(w http.ResponseWriter) {
	for _, name := range RoleCookies {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// TokenFromRequest extracts a token from any known role cookie, falling back
// to the Authorization header.
func TokenFromRequest(r *http.Request) string {
	for _, name := range RoleCookies {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value
		}
	}

	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}

	return ""
}
