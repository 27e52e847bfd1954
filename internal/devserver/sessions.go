package devserver

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	platformid "github.com/duynhne/bookstored/internal/platform/id"
)

// sessionCookieName carries the signed session token between requests.
const sessionCookieName = "bookstore_session"

// sessionTTL bounds how long an issued session stays valid.
const sessionTTL = 7 * 24 * time.Hour

// sessionManager mints and verifies the JWT session cookie.
type sessionManager struct {
	secret []byte
	clock  func() time.Time
}

func newSessionManager(secret []byte) *sessionManager {
	return &sessionManager{secret: secret, clock: time.Now}
}

// Issue signs a session token for the user and sets it as a cookie.
func (m *sessionManager) Issue(w http.ResponseWriter, userID int) error {
	now := m.clock()
	tokenID, err := platformid.NewID()
	if err != nil {
		return fmt.Errorf("generate session id: %w", err)
	}
	claims := jwt.RegisteredClaims{
		ID:        tokenID,
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
	return nil
}

// Clear expires the session cookie.
func (m *sessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// UserID extracts and verifies the session cookie, returning the bound user
// id. A missing or invalid cookie reports false.
func (m *sessionManager) UserID(r *http.Request) (int, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return 0, false
	}

	token, err := jwt.ParseWithClaims(cookie.Value, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.clock))
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, false
	}
	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID < 1 {
		return 0, false
	}
	return userID, true
}
