package handlers

import (
	"net/http"
	"time"
)

// Cookie names and paths for the cookie-based auth surface. The access
// cookie travels with every API call; the refresh cookie is scoped to the
// auth endpoints so it never rides along on ordinary requests.
const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"

	accessCookiePath  = "/api/v1"
	refreshCookiePath = "/api/v1/auth"
)

// CookieConfig carries the knobs the auth handler needs to mint cookies:
// whether to mark them Secure (disabled only for plain-HTTP development)
// and the refresh-token lifetime, which the token DTOs do not carry.
type CookieConfig struct {
	Secure     bool
	RefreshTTL time.Duration
}

// setAuthCookies attaches the access and refresh tokens as HTTP-only,
// SameSite=Strict cookies. The access cookie expires with the access token;
// the refresh cookie lives as long as the refresh token itself.
func setAuthCookies(w http.ResponseWriter, cfg CookieConfig, access string, accessExpiresAt time.Time, refresh string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    access,
		Path:     accessCookiePath,
		Expires:  accessExpiresAt,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refresh,
		Path:     refreshCookiePath,
		Expires:  time.Now().UTC().Add(cfg.RefreshTTL),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearAuthCookies expires both auth cookies immediately.
func clearAuthCookies(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    "",
		Path:     accessCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// readRefreshCookie returns the presented refresh token, or "" if the
// cookie is absent.
func readRefreshCookie(r *http.Request) string {
	c, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		return ""
	}
	return c.Value
}
