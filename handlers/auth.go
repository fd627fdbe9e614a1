package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meetink/meetink/backend/go-services/internal/config"
	"github.com/meetink/meetink/backend/go-services/internal/oidc"
	"github.com/meetink/meetink/backend/go-services/internal/sessions"
	"github.com/meetink/meetink/backend/go-services/internal/tokens"
	"github.com/meetink/meetink/backend/go-services/internal/users"
	"github.com/meetink/meetink/backend/go-services/pkg/logger"
	"github.com/meetink/meetink/backend/go-services/pkg/metrics"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "access_token"
	// StateCookie carries the OAuth state between login and callback.
	StateCookie = "oauth_state"

	stateMaxAge     = 600
	maxDetailLength = 100
)

// Front-end error codes appended as ?error= to the error page.
const (
	errOAuthExpired = "oauth_expired"
	errAccessDenied = "access_denied"
	errOAuthFailed  = "oauth_failed"
	errServer       = "server_error"
)

// IdentityProvider is the OAuth client the controller drives.
type IdentityProvider interface {
	AuthCodeURL(state string) (string, error)
	CompleteLogin(ctx context.Context, cb oidc.Callback) (*oidc.ProviderUser, error)
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg      *config.Config
	provider IdentityProvider
	users    *users.Service
	sessions *sessions.Service
}

func NewAuthHandler(cfg *config.Config, p IdentityProvider, u *users.Service, s *sessions.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, provider: p, users: u, sessions: s}
}

// Register routes under /auth
func (h *AuthHandler) Register(r gin.IRouter) {
	a := r.Group("/auth")
	a.GET("/login/google", h.BeginLogin)
	a.GET("/callback/google", h.Callback)
	a.GET("/me", h.Me)
	a.POST("/logout", h.Logout)
}

// BeginLogin redirects to the provider consent screen.
func (h *AuthHandler) BeginLogin(c *gin.Context) {
	state := uuid.NewString()
	target, err := h.provider.AuthCodeURL(state)
	if err != nil {
		logger.Errorf("begin login: %v", err)
		metrics.LoginOutcomes.WithLabelValues(oidc.ProviderName, metrics.OutcomeConfig).Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OAuth login is not configured", "details": err.Error()})
		return
	}
	h.setCookie(c, StateCookie, state, stateMaxAge, "/auth")
	c.Redirect(http.StatusFound, target)
}

// Callback completes the authorization-code flow and starts a session.
func (h *AuthHandler) Callback(c *gin.Context) {
	cb := oidc.Callback{
		Code:             c.Query("code"),
		State:            c.Query("state"),
		Error:            c.Query("error"),
		ErrorDescription: c.Query("error_description"),
	}
	expected, _ := c.Cookie(StateCookie)
	h.setCookie(c, StateCookie, "", -1, "/auth")

	if cb.Error == "" && (expected == "" || expected != cb.State) {
		h.fail(c, metrics.OutcomeStateMismatch, errOAuthFailed, "invalid oauth state")
		return
	}

	pu, err := h.provider.CompleteLogin(c.Request.Context(), cb)
	if err != nil {
		h.failExchange(c, err)
		return
	}

	u, created, err := h.users.FindOrCreate(c.Request.Context(), users.Identity{
		Email:      pu.Email,
		Name:       pu.Name,
		Picture:    pu.Picture,
		Provider:   oidc.ProviderName,
		ProviderID: pu.ProviderUserID,
	})
	if err != nil {
		logger.Errorf("login: user directory failure: %v", err)
		h.fail(c, metrics.OutcomeDirectory, errServer, err.Error())
		return
	}

	token, err := h.sessions.Codec().Mint(u.ID.Hex())
	if err != nil {
		logger.Errorf("login: mint session token: %v", err)
		h.fail(c, metrics.OutcomeConfig, errServer, "could not create session")
		return
	}

	h.setCookie(c, SessionCookie, token, 0, "/")
	metrics.LoginOutcomes.WithLabelValues(oidc.ProviderName, metrics.OutcomeSuccess).Inc()
	logger.Infow("login succeeded", "user_id", u.ID.Hex(), "created", created)
	c.Redirect(http.StatusFound, h.cfg.Frontend.URL+"/auth/success")
}

func (h *AuthHandler) failExchange(c *gin.Context, err error) {
	var xe *oidc.ExchangeError
	switch {
	case errors.As(err, &xe) && xe.Kind == oidc.KindExpiredGrant:
		logger.Warnf("login: expired or reused authorization code: %s", xe.Detail)
		h.fail(c, metrics.OutcomeExpiredGrant, errOAuthExpired, "")
	case errors.As(err, &xe) && xe.Kind == oidc.KindAccessDenied:
		logger.Infof("login: user denied consent")
		h.fail(c, metrics.OutcomeAccessDenied, errAccessDenied, "")
	case errors.Is(err, oidc.ErrNotConfigured):
		logger.Errorf("login: %v", err)
		h.fail(c, metrics.OutcomeConfig, errServer, err.Error())
	default:
		logger.Errorf("login: provider exchange failed: %v", err)
		detail := err.Error()
		if xe != nil {
			detail = xe.Detail
		}
		h.fail(c, metrics.OutcomeProviderError, errOAuthFailed, detail)
	}
}

// fail redirects to the front-end error page. No session cookie is set.
func (h *AuthHandler) fail(c *gin.Context, outcome, code, detail string) {
	metrics.LoginOutcomes.WithLabelValues(oidc.ProviderName, outcome).Inc()
	q := url.Values{"error": {code}}
	if detail != "" {
		q.Set("details", truncate(detail, maxDetailLength))
	}
	c.Redirect(http.StatusFound, h.cfg.Frontend.URL+"/auth/error?"+q.Encode())
}

// Me returns the profile of the session owner.
func (h *AuthHandler) Me(c *gin.Context) {
	raw, _ := c.Cookie(SessionCookie)
	p, err := h.sessions.CurrentUser(c.Request.Context(), raw)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, p)
	case errors.Is(err, sessions.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	case errors.Is(err, tokens.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
	case errors.Is(err, sessions.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		logger.Errorf("auth/me: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// Logout revokes the presented token and clears the cookie. Always 200.
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw, err := c.Cookie(SessionCookie); err == nil && raw != "" {
		if err := h.sessions.Revoke(c.Request.Context(), raw); err != nil {
			logger.Warnf("logout: revoke session: %v", err)
		}
	}
	h.setCookie(c, SessionCookie, "", -1, "/")
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// setCookie writes an HttpOnly SameSite=Lax cookie. maxAge 0 omits Max-Age,
// negative deletes. Secure follows config or the request's TLS state.
func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int, path string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, path, h.cfg.Cookie.Domain, h.secure(c), true)
}

func (h *AuthHandler) secure(c *gin.Context) bool {
	if h.cfg.Cookie.Secure || c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
