package oidc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/meetink/meetink/backend/go-services/internal/config"
	"github.com/meetink/meetink/backend/go-services/pkg/logger"
	"golang.org/x/oauth2"
)

// ProviderName labels users and metrics created through this client.
const ProviderName = "google"

// ErrNotConfigured is returned when the OAuth client has no credentials or
// the provider could not be discovered at startup.
var ErrNotConfigured = errors.New("oauth provider not configured")

// Kind classifies a failed authorization-code exchange.
type Kind int

const (
	// KindProvider is any provider failure that is not one of the below.
	KindProvider Kind = iota
	// KindExpiredGrant means the code was expired, already used or otherwise invalid.
	KindExpiredGrant
	// KindAccessDenied means the user declined consent.
	KindAccessDenied
)

func (k Kind) String() string {
	switch k {
	case KindExpiredGrant:
		return "expired_grant"
	case KindAccessDenied:
		return "access_denied"
	default:
		return "provider_error"
	}
}

// ExchangeError is returned by CompleteLogin.
type ExchangeError struct {
	Kind   Kind
	Detail string
}

func (e *ExchangeError) Error() string {
	if e.Detail == "" {
		return "oauth exchange failed: " + e.Kind.String()
	}
	return fmt.Sprintf("oauth exchange failed: %s: %s", e.Kind, e.Detail)
}

// ProviderUser is the identity returned by the provider's userinfo endpoint.
type ProviderUser struct {
	Email          string
	Name           string
	Picture        string
	ProviderUserID string
}

// Callback carries the query parameters the provider redirects back with.
type Callback struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// GoogleClient runs the authorization-code flow against Google.
type GoogleClient struct {
	provider   *oidc.Provider
	oauth      *oauth2.Config
	httpClient *http.Client
}

// NewGoogleClient discovers the issuer and builds the OAuth client.
func NewGoogleClient(ctx context.Context, cfg config.GoogleConfig) (*GoogleClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client id or secret", ErrNotConfigured)
	}
	hc := newHTTPClient(cfg.ConnectTimeout, cfg.Timeout)
	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, hc), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	endpoint := provider.Endpoint()
	endpoint.AuthStyle = oauth2.AuthStyleInParams
	return &GoogleClient{
		provider: provider,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		httpClient: hc,
	}, nil
}

// retryInitialInterval is the first wait between discovery attempts.
var retryInitialInterval = time.Second

// NewGoogleClientWithRetry retries discovery with exponential backoff.
// Missing credentials are not retried.
func NewGoogleClientWithRetry(ctx context.Context, cfg config.GoogleConfig, maxAttempts uint) (*GoogleClient, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval
	b.MaxInterval = 8 * retryInitialInterval

	attempt := 0
	return backoff.Retry(ctx, func() (*GoogleClient, error) {
		attempt++
		c, err := NewGoogleClient(ctx, cfg)
		if errors.Is(err, ErrNotConfigured) {
			return nil, backoff.Permanent(err)
		}
		if err != nil {
			logger.Warnf("attempt %d/%d: %v", attempt, maxAttempts, err)
			return nil, err
		}
		return c, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(maxAttempts))
}

// newHTTPClient bounds connection setup and the whole request separately.
func newHTTPClient(connect, total time.Duration) *http.Client {
	if connect <= 0 {
		connect = 10 * time.Second
	}
	if total <= 0 {
		total = 30 * time.Second
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DialContext = (&net.Dialer{Timeout: connect}).DialContext
	tr.TLSHandshakeTimeout = connect
	return &http.Client{Transport: tr, Timeout: total}
}

// Ready reports whether logins can be served.
func (g *GoogleClient) Ready(ctx context.Context) error { return nil }

// AuthCodeURL returns the provider consent URL carrying state.
func (g *GoogleClient) AuthCodeURL(state string) (string, error) {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// CompleteLogin exchanges the code and fetches the user's profile. Every
// failure is an *ExchangeError.
func (g *GoogleClient) CompleteLogin(ctx context.Context, cb Callback) (*ProviderUser, error) {
	if err := callbackError(cb); err != nil {
		return nil, err
	}
	if cb.Code == "" {
		return nil, &ExchangeError{Kind: KindProvider, Detail: "missing authorization code"}
	}

	ctx = oidc.ClientContext(ctx, g.httpClient)
	tok, err := g.oauth.Exchange(ctx, cb.Code)
	if err != nil {
		return nil, classifyExchange(err)
	}

	info, err := g.provider.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return nil, &ExchangeError{Kind: KindProvider, Detail: "userinfo: " + err.Error()}
	}
	var extra struct {
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := info.Claims(&extra); err != nil {
		return nil, &ExchangeError{Kind: KindProvider, Detail: "userinfo claims: " + err.Error()}
	}
	if info.Email == "" {
		return nil, &ExchangeError{Kind: KindProvider, Detail: "userinfo has no email"}
	}
	return &ProviderUser{
		Email:          info.Email,
		Name:           extra.Name,
		Picture:        extra.Picture,
		ProviderUserID: info.Subject,
	}, nil
}

// callbackError classifies an error the provider redirected back with.
func callbackError(cb Callback) error {
	if cb.Error == "" {
		return nil
	}
	kind := KindProvider
	if cb.Error == "access_denied" {
		kind = KindAccessDenied
	}
	return &ExchangeError{Kind: kind, Detail: joinDetail(cb.Error, cb.ErrorDescription)}
}

func classifyExchange(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		detail := joinDetail(re.ErrorCode, re.ErrorDescription)
		switch re.ErrorCode {
		case "invalid_grant":
			return &ExchangeError{Kind: KindExpiredGrant, Detail: detail}
		case "access_denied":
			return &ExchangeError{Kind: KindAccessDenied, Detail: detail}
		}
		if detail == "" && re.Response != nil {
			detail = fmt.Sprintf("token endpoint returned %d", re.Response.StatusCode)
		}
		return &ExchangeError{Kind: KindProvider, Detail: detail}
	}
	return &ExchangeError{Kind: KindProvider, Detail: err.Error()}
}

func joinDetail(code, desc string) string {
	code, desc = strings.TrimSpace(code), strings.TrimSpace(desc)
	if code == "" || desc == "" {
		return code + desc
	}
	return code + ": " + desc
}

// Unavailable stands in for a client that could not be built. Calls fail
// with ErrNotConfigured wrapping cause, except that errors the provider
// redirected back with are still classified.
type Unavailable struct {
	Cause error
}

func (u Unavailable) err() error {
	switch {
	case u.Cause == nil:
		return ErrNotConfigured
	case errors.Is(u.Cause, ErrNotConfigured):
		return u.Cause
	}
	return fmt.Errorf("%w: %v", ErrNotConfigured, u.Cause)
}

func (u Unavailable) AuthCodeURL(state string) (string, error) { return "", u.err() }

func (u Unavailable) CompleteLogin(ctx context.Context, cb Callback) (*ProviderUser, error) {
	if err := callbackError(cb); err != nil {
		return nil, err
	}
	return nil, u.err()
}

func (u Unavailable) Ready(ctx context.Context) error { return u.err() }
