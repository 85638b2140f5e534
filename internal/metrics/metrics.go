package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantauth_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tenantauth_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Authentication metrics
	LoginSuccessTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tenantauth_login_success_total",
		Help: "Total number of successful logins",
	})

	LoginFailureTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tenantauth_login_failure_total",
		Help: "Total number of failed logins",
	})

	AccountLockoutTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tenantauth_account_lockout_total",
		Help: "Total number of login attempts rejected by an active lockout",
	})

	TenantMismatchTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tenantauth_tenant_mismatch_total",
		Help: "Total number of requests rejected because the token tenant differed from the URL tenant",
	})

	TokenRefreshTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tenantauth_token_refresh_total",
		Help: "Total number of successful refresh-token rotations",
	})
)
