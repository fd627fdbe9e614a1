package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "meetink", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "meetink", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	LoginOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "meetink", Name: "login_outcomes_total", Help: "OAuth callback results by outcome."},
		[]string{"provider", "outcome"},
	)
	UsersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "meetink", Name: "users_created_total", Help: "Users created on first login by provider."},
		[]string{"provider"},
	)
	SessionChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "meetink", Name: "session_checks_total", Help: "Session cookie resolutions by result."},
		[]string{"result"},
	)
)

// Login outcome label values.
const (
	OutcomeSuccess       = "success"
	OutcomeExpiredGrant  = "expired_grant"
	OutcomeAccessDenied  = "access_denied"
	OutcomeProviderError = "provider_error"
	OutcomeStateMismatch = "state_mismatch"
	OutcomeDirectory     = "directory_error"
	OutcomeConfig        = "config_error"
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(LoginOutcomes)
	reg.MustRegister(UsersCreated)
	reg.MustRegister(SessionChecks)
}
