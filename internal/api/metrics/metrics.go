// Package metrics defines and registers all custom Prometheus metrics for
// the investor portal API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// LoginsTotal counts login outcomes.
// Labels:
//   - method: "password" (admin) or "otp" (investor)
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// OTPSentTotal counts issued one-time passwords.
// Label:
//   - kind: "initial" or "resend"
var OTPSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_sent_total",
		Help:      "Total number of one-time passwords issued.",
	},
	[]string{"kind"},
)

// CaptchaVerificationsTotal counts CAPTCHA checks.
// Label:
//   - result: "success", "mismatch", or "expired"
var CaptchaVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "captcha_verifications_total",
		Help:      "Total number of CAPTCHA verification attempts, by result.",
	},
	[]string{"result"},
)

// SessionsRevokedTotal counts tokens denylisted through logout.
var SessionsRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of session tokens revoked by logout.",
	},
)

// DocumentDownloadsTotal counts document fetches through the portal.
var DocumentDownloadsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "document_downloads_total",
		Help:      "Total number of document downloads recorded.",
	},
)
