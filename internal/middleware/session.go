package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// SessionCookieName is the signed cookie carrying SessionData.
const SessionCookieName = "OPUS_WEB_SESSION"

const defaultSessionTTL = 30 * 24 * time.Hour

// ErrInvalidSession is returned by Decode for malformed or badly signed cookies.
var ErrInvalidSession = errors.New("session: invalid cookie")

// SessionData is persisted in an HMAC-signed cookie. Nav holds the header
// menu snapshot between progressive-enhancement requests; its shape belongs
// to the menu package.
type SessionData struct {
	ID        string          `json:"id"`
	CSRFToken string          `json:"csrf,omitempty"`
	Nav       json.RawMessage `json:"nav,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool
}

// MarkDirty flags the session for writing at end of request
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

// SetNav replaces the stored menu snapshot.
func (s *SessionData) SetNav(raw json.RawMessage) {
	if string(raw) == string(s.Nav) {
		return
	}
	s.Nav = append(json.RawMessage(nil), raw...)
	s.MarkDirty()
}

// SessionStore signs and verifies session cookies.
type SessionStore struct {
	key    []byte
	secure bool
	ttl    time.Duration
	logger *zap.Logger
}

// SessionOption configures a SessionStore.
type SessionOption func(*SessionStore)

// WithSecureCookies marks cookies Secure (production).
func WithSecureCookies(secure bool) SessionOption {
	return func(s *SessionStore) { s.secure = secure }
}

// WithSessionTTL overrides the cookie lifetime.
func WithSessionTTL(d time.Duration) SessionOption {
	return func(s *SessionStore) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(l *zap.Logger) SessionOption {
	return func(s *SessionStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSessionStore returns a store signing with key. An empty key gets a
// process-ephemeral random key, which is only acceptable in local development.
func NewSessionStore(key []byte, opts ...SessionOption) *SessionStore {
	s := &SessionStore{ttl: defaultSessionTTL, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			s.logger.Error("session: failed to generate signing key", zap.Error(err))
			key = []byte("insecure-dev-key-please-set-OPUS_WEB_SESSION_SIGNING_KEY")
		}
		s.logger.Warn("session: using ephemeral signing key; set OPUS_WEB_SESSION_SIGNING_KEY for production")
	}
	s.key = append([]byte(nil), key...)
	return s
}

// Middleware loads or initializes a session and stores it in request context.
func (s *SessionStore) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sd, fromCookie := s.read(r)
		if sd.ID == "" {
			now := time.Now().UTC()
			sd = &SessionData{
				ID:        ulid.Make().String(),
				CSRFToken: newCSRFToken(),
				CreatedAt: now,
				UpdatedAt: now,
				dirty:     true,
			}
		}
		ctx := context.WithValue(r.Context(), ctxKeySession, sd)

		rw := NewResponseRecorder(w)
		// the cookie must go out with the header
		rw.SetBeforeWrite(func(w http.ResponseWriter) {
			if sd.dirty || !fromCookie {
				s.write(w, sd)
			}
		})
		next.ServeHTTP(rw, r.WithContext(ctx))
		// If nothing was written yet (e.g., HEAD), persist cookie now
		if !rw.Wrote() {
			rw.WriteHeader(http.StatusOK)
		}
	})
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	if v := r.Context().Value(ctxKeySession); v != nil {
		if sd, ok := v.(*SessionData); ok {
			return sd
		}
	}
	return &SessionData{}
}

// Encode signs sd into a cookie value.
func (s *SessionStore) Encode(sd *SessionData) (string, error) {
	b, err := json.Marshal(sd)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(b)
	mac := hmac.New(sha256.New, s.key)
	mac.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return payload + "." + sig, nil
}

// Decode verifies and parses a cookie value.
func (s *SessionStore) Decode(value string) (*SessionData, error) {
	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return nil, ErrInvalidSession
	}
	payloadB, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrInvalidSession
	}
	sigB, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrInvalidSession
	}
	mac := hmac.New(sha256.New, s.key)
	mac.Write(payloadB)
	if !hmac.Equal(sigB, mac.Sum(nil)) {
		return nil, ErrInvalidSession
	}
	var sd SessionData
	if err := json.Unmarshal(payloadB, &sd); err != nil {
		return nil, ErrInvalidSession
	}
	return &sd, nil
}

// Cookie builds the session cookie for sd, used by tests to replay state.
func (s *SessionStore) Cookie(sd *SessionData) (*http.Cookie, error) {
	val, err := s.Encode(sd)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    val,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.ttl),
	}, nil
}

func (s *SessionStore) read(r *http.Request) (*SessionData, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return &SessionData{}, false
	}
	sd, err := s.Decode(c.Value)
	if err != nil {
		s.logger.Debug("session cookie rejected", zap.Error(err))
		return &SessionData{}, false
	}
	return sd, true
}

func (s *SessionStore) write(w http.ResponseWriter, sd *SessionData) {
	c, err := s.Cookie(sd)
	if err != nil {
		s.logger.Error("session encode failed", zap.Error(err))
		return
	}
	http.SetCookie(w, c)
}
