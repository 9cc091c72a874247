// Package metrics exposes the Prometheus collectors of the authentication core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

// Login results
const (
	LoginSuccess      = "success"
	LoginInvalid      = "invalid"
	LoginBadRequest   = "bad_request"
	LoginThrottled    = "throttled"
	LoginMisconfigure = "misconfigured"
	LoginError        = "error"
)

// Guard tiers
const (
	TierOrigin    = "origin"
	TierPerimeter = "perimeter"
)

var (
	// LoginAttempts counts login requests by outcome.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "login_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})

	// GuardRejections counts requests turned away by either guard tier.
	GuardRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "guard_rejections_total",
		Help:      "Requests rejected by an authentication guard.",
	}, []string{"tier", "reason"})

	// AutomationCalls counts requests authenticated by the automation secret.
	AutomationCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "automation_requests_total",
		Help:      "Requests admitted with the automation secret.",
	}, []string{"tier"})

	// SessionsCleaned counts session rows removed because they expired.
	SessionsCleaned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sessions",
		Name:      "cleaned_total",
		Help:      "Expired sessions deleted by cleanup sweeps and lazy validation.",
	})
)
