// Package metrics defines the custom Prometheus metrics of the authgate API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Build one Auth per registry with New. All methods are safe on a nil *Auth so
// handlers and middleware can run without metrics in tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "authgate"

// Outcome labels shared by the auth counters.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeConflict  = "conflict"
	OutcomeThrottled = "throttled"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// Token verification results.
const (
	TokenValid   = "valid"
	TokenExpired = "expired"
	TokenInvalid = "invalid"
	TokenMissing = "missing"
)

// Auth holds the authentication and authorization collectors.
type Auth struct {
	// RegistrationsTotal counts register calls.
	// Label:
	//   - outcome: success, conflict, invalid or error
	RegistrationsTotal *prometheus.CounterVec

	// LoginsTotal counts login calls.
	// Label:
	//   - outcome: success, failure, throttled or error
	LoginsTotal *prometheus.CounterVec

	// TokenVerificationsTotal counts bearer token checks.
	// Label:
	//   - result: valid, expired, invalid or missing
	TokenVerificationsTotal *prometheus.CounterVec

	// AccessDecisionsTotal counts guard decisions.
	// Labels:
	//   - policy: required groups joined with "|" (e.g. "user|admin")
	//   - result: "allowed" or "denied"
	AccessDecisionsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Auth {
	f := promauto.With(reg)
	return &Auth{
		RegistrationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Total number of registration attempts, by outcome.",
			},
			[]string{"outcome"},
		),
		LoginsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logins_total",
				Help:      "Total number of login attempts, by outcome.",
			},
			[]string{"outcome"},
		),
		TokenVerificationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_verifications_total",
				Help:      "Total number of bearer token verifications, by result.",
			},
			[]string{"result"},
		),
		AccessDecisionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "access_decisions_total",
				Help:      "Total number of access guard decisions, by policy and result.",
			},
			[]string{"policy", "result"},
		),
	}
}

// RegisterActivityDropped exposes a counter read from fn, typically the
// activity dispatcher's drop count.
func RegisterActivityDropped(reg prometheus.Registerer, fn func() float64) {
	promauto.With(reg).NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_dropped_total",
			Help:      "Total number of audit events dropped because a dispatcher buffer was full.",
		},
		fn,
	)
}

func (m *Auth) ObserveRegistration(outcome string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Auth) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

func (m *Auth) ObserveToken(result string) {
	if m == nil {
		return
	}
	m.TokenVerificationsTotal.WithLabelValues(result).Inc()
}

func (m *Auth) ObserveAccess(policy string, allowed bool) {
	if m == nil {
		return
	}
	result := "denied"
	if allowed {
		result = "allowed"
	}
	m.AccessDecisionsTotal.WithLabelValues(policy, result).Inc()
}
