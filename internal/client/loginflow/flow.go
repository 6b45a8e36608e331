package loginflow

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/cdainvest/portal-system/internal/client"
	"github.com/cdainvest/portal-system/internal/core/domain"
)

// State is the flow's position in the login conversation.
type State int

const (
	StateForm State = iota
	StateOTPPending
	StateVerified
)

// Level classifies user feedback the same way the portal's toasts do.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier surfaces user-facing feedback. Implementations must never panic;
// a notification arriving after the owning view closed is dropped, not fatal.
type Notifier interface {
	Notify(level Level, message string)
}

// Kind tags a FlowError so the caller can pattern-match on outcomes.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindCaptchaUnavailable Kind = "captcha_unavailable"
	KindBadCaptcha         Kind = "bad_captcha"
	KindRejected           Kind = "rejected"
	KindTransport          Kind = "transport"
)

// FlowError is the tagged failure result of a flow operation.
type FlowError struct {
	Kind    Kind
	Message string
}

func (e *FlowError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

const resendCooldownSeconds = 30

// Deps wires a Flow to its surroundings. Everything is injected; the flow
// holds no ambient state.
type Deps struct {
	API      AuthAPI
	Sessions *client.SessionStore
	Nav      client.Navigator
	Notifier Notifier
	Log      zerolog.Logger

	// Destination after a successful login. Defaults to the document portal.
	Destination client.Route

	// CooldownInterval shortens the cooldown tick in tests. Zero means 1s.
	CooldownInterval time.Duration
}

// Flow is one pass through the OTP login modal. Create one when the modal
// opens, Reset (or discard) it when the modal closes. Exactly one network
// operation may be in flight at a time; re-invoking a submit while one is
// pending is an ignored no-op.
type Flow struct {
	deps Deps

	mu            sync.Mutex
	gen           int // bumped on Reset so late responses become no-ops
	state         State
	identity      domain.Identity
	captcha       *Captcha
	captchaAnswer string
	otp           *OTPInput
	cooldown      *Countdown

	inFlight atomic.Bool
}

func NewFlow(deps Deps) *Flow {
	if deps.Destination == "" {
		deps.Destination = client.RouteDocuments
	}
	return &Flow{
		deps:     deps,
		otp:      NewOTPInput(),
		cooldown: NewCountdown(deps.CooldownInterval),
	}
}

// Open resets the flow and fetches the first CAPTCHA challenge.
func (f *Flow) Open(ctx context.Context) error {
	f.Reset()
	return f.FetchCaptcha(ctx)
}

// FetchCaptcha loads a fresh challenge; also the handler behind the reload
// button. Failure leaves the flow usable — the user retries explicitly.
func (f *Flow) FetchCaptcha(ctx context.Context) error {
	f.mu.Lock()
	gen := f.gen
	f.mu.Unlock()

	captcha, err := f.deps.API.FetchCaptcha(ctx)
	if err != nil {
		f.notify(LevelError, "Failed to load CAPTCHA. Try again.")
		return &FlowError{Kind: KindCaptchaUnavailable, Message: err.Error()}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return nil
	}
	f.captcha = captcha
	f.captchaAnswer = ""
	return nil
}

// SubmitIdentity validates the form, verifies the CAPTCHA, and requests OTP
// issuance. On success the flow advances to OTPPending and the resend
// cooldown starts.
func (f *Flow) SubmitIdentity(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateForm {
		f.mu.Unlock()
		return nil
	}
	gen := f.gen
	identity := f.identity
	answer := f.captchaAnswer
	var challengeID string
	if f.captcha != nil {
		challengeID = f.captcha.ChallengeID
	}
	f.mu.Unlock()

	// Client-side validation short-circuits on the first failure and never
	// touches the network.
	if verr := validateIdentity(identity, answer); verr != nil {
		f.notify(LevelWarning, verr.Message)
		return verr
	}

	if !f.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer f.inFlight.Store(false)

	captchaResult, err := f.deps.API.VerifyCaptcha(ctx, challengeID, answer)
	if err != nil {
		f.notify(LevelError, "Something went wrong")
		return &FlowError{Kind: KindTransport, Message: err.Error()}
	}
	if !captchaResult.Success {
		f.notify(LevelWarning, "Invalid CAPTCHA")
		f.reissueCaptcha(ctx, gen)
		return &FlowError{Kind: KindBadCaptcha, Message: "Invalid CAPTCHA"}
	}

	sendResult, err := f.deps.API.SendOTP(ctx, identity)
	if err != nil {
		f.notify(LevelError, "Something went wrong")
		return &FlowError{Kind: KindTransport, Message: err.Error()}
	}
	if !sendResult.Success {
		msg := sendResult.Message
		if msg == "" {
			msg = "Failed to send OTP"
		}
		f.notify(LevelError, msg)
		f.reissueCaptcha(ctx, gen)
		return &FlowError{Kind: KindRejected, Message: msg}
	}

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return nil
	}
	f.state = StateOTPPending
	f.cooldown.Start(resendCooldownSeconds)
	f.mu.Unlock()

	f.notify(LevelSuccess, "OTP sent successfully!")
	return nil
}

// SubmitOTP verifies the collected code. On success the session is saved,
// the flow terminates in Verified, and the caller is routed to the
// protected destination. On rejection the digits stay put for correction.
func (f *Flow) SubmitOTP(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateOTPPending {
		f.mu.Unlock()
		return nil
	}
	gen := f.gen
	identity := f.identity
	code := f.otp.Value()
	complete := f.otp.Complete()
	f.mu.Unlock()

	if code == "" {
		f.notify(LevelWarning, "Enter OTP")
		return &FlowError{Kind: KindValidation, Message: "Enter OTP"}
	}
	if !complete {
		f.notify(LevelWarning, "OTP must be 6 digits")
		return &FlowError{Kind: KindValidation, Message: "OTP must be 6 digits"}
	}

	if !f.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer f.inFlight.Store(false)

	reply, err := f.deps.API.VerifyLogin(ctx, identity, code)
	if err != nil {
		f.notify(LevelError, "Server error")
		return &FlowError{Kind: KindTransport, Message: err.Error()}
	}

	if !reply.Status {
		msg := reply.Message
		if msg == "" {
			msg = "Login failed"
		}
		f.notify(LevelWarning, msg)
		return &FlowError{Kind: KindRejected, Message: msg}
	}

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return nil
	}
	f.state = StateVerified
	f.cooldown.Stop()
	f.mu.Unlock()

	if reply.Token != "" && f.deps.Sessions != nil {
		f.deps.Sessions.Save(&domain.Session{
			AccessToken: reply.Token,
			ExpireAt:    reply.ExpireAt,
			User:        reply.User,
		})
	}

	msg := reply.Message
	if msg == "" {
		msg = "Login successful!"
	}
	f.notify(LevelSuccess, msg)

	if f.deps.Nav != nil {
		f.deps.Nav.Navigate(f.deps.Destination, nil)
	}
	return nil
}

// ResendOTP re-requests issuance for the same identity. A no-op while the
// cooldown runs or a request is in flight: no network call, no cooldown
// reset. Success clears the entered digits and restarts the cooldown.
func (f *Flow) ResendOTP(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateOTPPending || f.cooldown.Active() {
		f.mu.Unlock()
		return nil
	}
	gen := f.gen
	identity := f.identity
	f.mu.Unlock()

	if !f.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer f.inFlight.Store(false)

	result, err := f.deps.API.SendOTP(ctx, identity)
	if err != nil {
		f.notify(LevelError, "Error resending OTP")
		return &FlowError{Kind: KindTransport, Message: err.Error()}
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "Failed to resend OTP"
		}
		f.notify(LevelError, msg)
		return &FlowError{Kind: KindRejected, Message: msg}
	}

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return nil
	}
	f.otp.Clear()
	f.cooldown.Start(resendCooldownSeconds)
	f.mu.Unlock()

	f.notify(LevelSuccess, "OTP resent successfully!")
	return nil
}

// Back returns from the OTP step to the form. Digits and cooldown are
// cleared; the CAPTCHA from the form step is preserved, not re-fetched.
func (f *Flow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateOTPPending {
		return
	}
	f.state = StateForm
	f.otp.Clear()
	f.cooldown.Stop()
}

// Reset discards all attempt state. Responses of calls still in flight when
// Reset runs are dropped when they land.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.state = StateForm
	f.identity = domain.Identity{}
	f.captcha = nil
	f.captchaAnswer = ""
	f.otp.Clear()
	f.cooldown.Stop()
}

// ── Field bindings ──

func (f *Flow) SetName(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identity.Name = name
}

func (f *Flow) SetEmail(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identity.Email = email
}

func (f *Flow) SetPhone(phone string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identity.Phone = phone
}

func (f *Flow) SetCaptchaAnswer(answer string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captchaAnswer = answer
}

// ── Read accessors ──

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Captcha returns the challenge currently on display, nil before the first
// successful fetch.
func (f *Flow) Captcha() *Captcha {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.captcha
}

// OTP exposes the digit slots for the verification step's input binding.
func (f *Flow) OTP() *OTPInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.otp
}

// CooldownRemaining returns the resend wait in seconds; zero when resend is
// allowed.
func (f *Flow) CooldownRemaining() int {
	return f.cooldown.Remaining()
}

// Busy reports whether a network operation is in flight, which is when the
// submit controls must be disabled.
func (f *Flow) Busy() bool {
	return f.inFlight.Load()
}

// reissueCaptcha replaces the challenge after a failed attempt. Errors are
// swallowed; the user can still hit reload.
func (f *Flow) reissueCaptcha(ctx context.Context, gen int) {
	captcha, err := f.deps.API.FetchCaptcha(ctx)
	if err != nil {
		f.deps.Log.Debug().Err(err).Msg("captcha reissue failed")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return
	}
	f.captcha = captcha
	f.captchaAnswer = ""
}

func (f *Flow) notify(level Level, message string) {
	if f.deps.Notifier == nil {
		return
	}
	f.deps.Notifier.Notify(level, message)
}

func validateIdentity(identity domain.Identity, captchaAnswer string) *FlowError {
	if strings.TrimSpace(identity.Name) == "" {
		return &FlowError{Kind: KindValidation, Message: "Enter your name"}
	}
	if !emailPattern.MatchString(identity.Email) {
		return &FlowError{Kind: KindValidation, Message: "Invalid email address"}
	}
	if identity.Phone != "" && !phonePattern.MatchString(identity.Phone) {
		return &FlowError{Kind: KindValidation, Message: "Phone must be 10 digits"}
	}
	if strings.TrimSpace(captchaAnswer) == "" {
		return &FlowError{Kind: KindValidation, Message: "Enter CAPTCHA"}
	}
	return nil
}
