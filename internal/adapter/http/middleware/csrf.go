package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
)

const (
	CSRFCookieName = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"

	csrfMaxAge = 86400
	nonceSize  = 32
)

// CSRF implements signed double-submit tokens: pages get a cookie, and
// unsafe requests must echo it in a header.
type CSRF struct {
	secret []byte
}

func NewCSRF(secret string) *CSRF {
	return &CSRF{secret: []byte(secret)}
}

// Issue sets the token cookie when the client does not carry a valid one.
func (c *CSRF) Issue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(CSRFCookieName); err != nil || !c.Valid(cookie.Value) {
			http.SetCookie(w, &http.Cookie{
				Name:     CSRFCookieName,
				Value:    c.NewToken(),
				Path:     "/",
				MaxAge:   csrfMaxAge,
				Secure:   isTLS(r),
				HttpOnly: false, // read by the rating script
				SameSite: http.SameSiteStrictMode,
			})
		}
		next.ServeHTTP(w, r)
	})
}

// Require rejects unsafe requests whose header token is missing, differs
// from the cookie or carries a bad signature.
func (c *CSRF) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isSafeMethod(r.Method) && !c.validRequest(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"Invalid CSRF token"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewToken returns base64(nonce || HMAC-SHA256(nonce)).
func (c *CSRF) NewToken() string {
	nonce := make([]byte, nonceSize)
	_, _ = rand.Read(nonce)

	token := append(nonce, c.sign(nonce)...)
	return base64.RawURLEncoding.EncodeToString(token)
}

func (c *CSRF) Valid(token string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) != nonceSize+sha256.Size {
		return false
	}
	return hmac.Equal(raw[nonceSize:], c.sign(raw[:nonceSize]))
}

func (c *CSRF) sign(nonce []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(nonce)
	return mac.Sum(nil)
}

func (c *CSRF) validRequest(r *http.Request) bool {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return false
	}
	header := r.Header.Get(CSRFHeaderName)
	if header == "" || !hmac.Equal([]byte(header), []byte(cookie.Value)) {
		return false
	}
	return c.Valid(header)
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
