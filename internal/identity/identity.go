// Package identity resolves the requesting user from a signed session cookie.
package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"budgetai/internal/core"
)

// SessionCookie is the cookie carrying the signed user id.
const SessionCookie = "budgetai_session"

// Provider manages the session lifecycle: resolving the authenticated user
// from a request, and issuing or clearing the session on a response.
type Provider interface {
	UserID(r *http.Request) (string, error)
	Issue(w http.ResponseWriter, userID string)
	Clear(w http.ResponseWriter)
}

var _ Provider = (*CookieProvider)(nil)

// CookieProvider signs user ids with HMAC-SHA256. The cookie value is
// base64url(userID) + "." + base64url(signature); tampering with either part
// invalidates the session.
type CookieProvider struct {
	secret []byte
}

func NewCookieProvider(secret string) *CookieProvider {
	return &CookieProvider{secret: []byte(secret)}
}

// UserID returns the user id carried by the session cookie. A missing cookie
// yields ErrNotLoggedIn; a malformed or forged one yields ErrUserIDNotFound.
func (p *CookieProvider) UserID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", core.ErrNotLoggedIn
	}

	encodedID, encodedSig, found := strings.Cut(cookie.Value, ".")
	if !found {
		return "", core.ErrUserIDNotFound
	}
	rawID, err := base64.RawURLEncoding.DecodeString(encodedID)
	if err != nil {
		return "", core.ErrUserIDNotFound
	}
	sig, err := base64.RawURLEncoding.DecodeString(encodedSig)
	if err != nil {
		return "", core.ErrUserIDNotFound
	}
	if len(rawID) == 0 || !hmac.Equal(sig, p.sign(rawID)) {
		return "", core.ErrUserIDNotFound
	}
	return string(rawID), nil
}

// Issue sets the session cookie for userID on the response.
func (p *CookieProvider) Issue(w http.ResponseWriter, userID string) {
	id := []byte(userID)
	value := base64.RawURLEncoding.EncodeToString(id) +
		"." +
		base64.RawURLEncoding.EncodeToString(p.sign(id))
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie.
func (p *CookieProvider) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (p *CookieProvider) sign(id []byte) []byte {
	mac := hmac.New(sha256.New, p.secret)
	mac.Write(id)
	return mac.Sum(nil)
}
