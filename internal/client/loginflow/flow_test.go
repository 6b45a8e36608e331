package loginflow

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cdainvest/portal-system/internal/client"
	"github.com/cdainvest/portal-system/internal/core/domain"
)

type stubAuthAPI struct {
	mu sync.Mutex

	captcha       *Captcha
	captchaErr    error
	fetchCalls    int
	verifyCaptcha *APIStatus
	sendOTP       *APIStatus
	sendCalls     int
	loginReply    *LoginReply
	loginCalls    int

	// loginGate, when set, blocks VerifyLogin until released.
	loginGate chan struct{}
}

func (s *stubAuthAPI) FetchCaptcha(_ context.Context) (*Captcha, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchCalls++
	if s.captchaErr != nil {
		return nil, s.captchaErr
	}
	if s.captcha == nil {
		return &Captcha{ChallengeID: "c1", Markup: "<svg/>"}, nil
	}
	return s.captcha, nil
}

func (s *stubAuthAPI) VerifyCaptcha(_ context.Context, _, _ string) (*APIStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.verifyCaptcha == nil {
		return &APIStatus{Success: true}, nil
	}
	return s.verifyCaptcha, nil
}

func (s *stubAuthAPI) SendOTP(_ context.Context, _ domain.Identity) (*APIStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendCalls++
	if s.sendOTP == nil {
		return &APIStatus{Success: true, Message: "OTP sent successfully"}, nil
	}
	return s.sendOTP, nil
}

func (s *stubAuthAPI) VerifyLogin(_ context.Context, _ domain.Identity, _ string) (*LoginReply, error) {
	s.mu.Lock()
	gate := s.loginGate
	s.loginCalls++
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loginReply == nil {
		return &LoginReply{
			Status:   true,
			Message:  "Login successful",
			Token:    "t1",
			ExpireAt: time.Now().Add(time.Hour).Unix(),
			User:     &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com"},
		}, nil
	}
	return s.loginReply, nil
}

func (s *stubAuthAPI) calls() (fetch, send, login int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchCalls, s.sendCalls, s.loginCalls
}

type recordedNote struct {
	level   Level
	message string
}

type stubNotifier struct {
	mu    sync.Mutex
	notes []recordedNote
}

func (n *stubNotifier) Notify(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, recordedNote{level: level, message: message})
}

func (n *stubNotifier) last() (recordedNote, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notes) == 0 {
		return recordedNote{}, false
	}
	return n.notes[len(n.notes)-1], true
}

type stubNav struct {
	mu    sync.Mutex
	calls []client.Route
}

func (n *stubNav) Navigate(route client.Route, _ url.Values) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, route)
}

func (n *stubNav) Reload() {}

func (n *stubNav) CurrentPath() string { return "/" }

type flowFixture struct {
	flow     *Flow
	api      *stubAuthAPI
	notifier *stubNotifier
	nav      *stubNav
	storage  *client.MemoryStorage
	sessions *client.SessionStore
}

func newFlowFixture(api *stubAuthAPI) *flowFixture {
	fx := &flowFixture{
		api:      api,
		notifier: &stubNotifier{},
		nav:      &stubNav{},
		storage:  client.NewMemoryStorage(),
	}
	fx.sessions = client.NewSessionStore(fx.storage)
	fx.flow = NewFlow(Deps{
		API:              api,
		Sessions:         fx.sessions,
		Nav:              fx.nav,
		Notifier:         fx.notifier,
		Log:              zerolog.Nop(),
		CooldownInterval: time.Hour, // never ticks during tests
	})
	return fx
}

func (fx *flowFixture) fillIdentity() {
	fx.flow.SetName("Ada Lovelace")
	fx.flow.SetEmail("ada@example.com")
	fx.flow.SetPhone("5551234567")
	fx.flow.SetCaptchaAnswer("7G3KX")
}

func TestFlowHappyPath(t *testing.T) {
	ctx := context.Background()
	fx := newFlowFixture(&stubAuthAPI{})

	if err := fx.flow.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if fx.flow.Captcha() == nil {
		t.Fatal("expected a challenge after Open")
	}

	fx.fillIdentity()
	if err := fx.flow.SubmitIdentity(ctx); err != nil {
		t.Fatalf("SubmitIdentity: %v", err)
	}
	if fx.flow.State() != StateOTPPending {
		t.Fatalf("state = %v, want OTPPending", fx.flow.State())
	}
	if got := fx.flow.CooldownRemaining(); got != 30 {
		t.Fatalf("cooldown = %d, want 30", got)
	}

	fx.flow.OTP().Paste("482913")
	if err := fx.flow.SubmitOTP(ctx); err != nil {
		t.Fatalf("SubmitOTP: %v", err)
	}
	if fx.flow.State() != StateVerified {
		t.Fatalf("state = %v, want Verified", fx.flow.State())
	}

	sess := fx.sessions.Load()
	if sess == nil || sess.AccessToken != "t1" {
		t.Fatalf("expected the session to be saved, got %+v", sess)
	}
	if sess.User == nil || sess.User.Email != "ada@example.com" {
		t.Fatalf("expected the profile alongside the token, got %+v", sess.User)
	}

	fx.nav.mu.Lock()
	defer fx.nav.mu.Unlock()
	if len(fx.nav.calls) != 1 || fx.nav.calls[0] != client.RouteDocuments {
		t.Fatalf("expected navigation to the document portal, got %v", fx.nav.calls)
	}
}

func TestFlowInvalidEmailNeverTouchesNetwork(t *testing.T) {
	ctx := context.Background()
	fx := newFlowFixture(&stubAuthAPI{})

	fx.flow.SetName("Ada")
	fx.flow.SetEmail("not-an-email")
	fx.flow.SetCaptchaAnswer("7G3KX")

	err := fx.flow.SubmitIdentity(ctx)

	var fe *FlowError
	if !errors.As(err, &fe) || fe.Kind != KindValidation {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if fe.Message != "Invalid email address" {
		t.Fatalf("unexpected message: %q", fe.Message)
	}
	if _, send, _ := fx.api.calls(); send != 0 {
		t.Fatal("validation failures must not reach the network")
	}
	if fx.flow.State() != StateForm {
		t.Fatalf("state = %v, want Form", fx.flow.State())
	}
}

func TestFlowValidationOrder(t *testing.T) {
	ctx := context.Background()
	fx := newFlowFixture(&stubAuthAPI{})

	cases := []struct {
		name    string
		prepare func()
		message string
	}{
		{"missing name", func() {}, "Enter your name"},
		{"bad email", func() {
			fx.flow.SetName("Ada")
			fx.flow.SetEmail("nope")
		}, "Invalid email address"},
		{"bad phone", func() {
			fx.flow.SetEmail("ada@example.com")
			fx.flow.SetPhone("123")
		}, "Phone must be 10 digits"},
		{"missing captcha", func() {
			fx.flow.SetPhone("5551234567")
		}, "Enter CAPTCHA"},
	}

	for _, tc := range cases {
		tc.prepare()
		err := fx.flow.SubmitIdentity(ctx)
		var fe *FlowError
		if !errors.As(err, &fe) || fe.Message != tc.message {
			t.Fatalf("%s: got %v, want %q", tc.name, err, tc.message)
		}
	}
}

func TestFlowBadCaptchaReissuesAndStaysOnForm(t *testing.T) {
	ctx := context.Background()
	api := &stubAuthAPI{verifyCaptcha: &APIStatus{Success: false}}
	fx := newFlowFixture(api)

	if err := fx.flow.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	fx.fillIdentity()

	err := fx.flow.SubmitIdentity(ctx)

	var fe *FlowError
	if !errors.As(err, &fe) || fe.Kind != KindBadCaptcha {
		t.Fatalf("expected a bad-captcha error, got %v", err)
	}
	if fx.flow.State() != StateForm {
		t.Fatalf("state = %v, want Form", fx.flow.State())
	}
	if fetch, send, _ := fx.api.calls(); fetch != 2 || send != 0 {
		t.Fatalf("expected a reissued challenge and no OTP send, got fetch=%d send=%d", fetch, send)
	}
	if note, ok := fx.notifier.last(); !ok || note.message != "Invalid CAPTCHA" {
		t.Fatalf("unexpected notification: %+v", note)
	}
}

func TestFlowIncompleteOTPRejectedLocally(t *testing.T) {
	ctx := context.Background()
	fx := newFlowFixture(&stubAuthAPI{})

	if err := fx.flow.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	fx.fillIdentity()
	if err := fx.flow.SubmitIdentity(ctx); err != nil {
		t.Fatalf("SubmitIdentity: %v", err)
	}

	err := fx.flow.SubmitOTP(ctx)
	var fe *FlowError
	if !errors.As(err, &fe) || fe.Message != "Enter OTP" {
		t.Fatalf("empty code: got %v", err)
	}

	fx.flow.OTP().Paste("123")
	err = fx.flow.SubmitOTP(ctx)
	if !errors.As(err, &fe) || fe.Message != "OTP must be 6 digits" {
		t.Fatalf("partial code: got %v", err)
	}
	if _, _, login := fx.api.calls(); login != 0 {
		t.Fatal("incomplete codes must not reach the network")
	}
}

func TestFlowRejectedOTPKeepsDigits(t *testing.T) {
	ctx := context.Background()
	api := &stubAuthAPI{loginReply: &LoginReply{Status: false, Message: "Invalid OTP"}}
	fx := newFlowFixture(api)

	if err := fx.flow.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	fx.fillIdentity()
	if err := fx.flow.SubmitIdentity(ctx); err != nil {
		t.Fatalf("SubmitIdentity: %v", err)
	}

	fx.flow.OTP().Paste("000000")
	err := fx.flow.SubmitOTP(ctx)

	var fe *FlowError
	if !errors.As(err, &fe) || fe.Kind != KindRejected {
		t.Fatalf("expected a rejection, got %v", err)
	}
	if fx.flow.State() != StateOTPPending {
		t.Fatalf("state = %v, want OTPPending", fx.flow.State())
	}
	if got := fx.flow.OTP().Value(); got != "000000" {
		t.Fatalf("rejected digits must stay for correction, got %q", got)
	}
	if sess := fx.sessions.Load(); sess != nil {
		t.Fatalf("no session on rejection, got %+v", sess)
	}
}

func TestFlowResendBlockedByCooldown(t *testing.T) {
	ctx := context.Background()
	fx := newFlowFixture(&stubAuthAPI{})

	if err := fx.flow.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	fx.fillIdentity()
	if err := fx.flow.SubmitIdentity(ctx); err != nil {
		t.Fatalf("SubmitIdentity: %v", err)
	}
	if _, send, _ := fx.api.calls(); send != 1 {
		t.Fatalf("send calls = %d, want 1", send)
	}

	// Cooldown is running; resend must be a silent no-op.
	if err := fx.flow.ResendOTP(ctx); err != nil {
		t.Fatalf("ResendOTP: %v", err)
	}
	if _, send, _ := fx.api.calls(); send != 1 {
		t.Fatal("resend during cooldown must not issue a request")
	}
	if got := fx.flow.CooldownRemaining(); got != 30 {
		t.Fatalf("cooldown must not reset, got %d", got)
	}
}

func TestFlowResendAfterCooldownClearsDigits(t *testing.T) {
	ctx := context.Background()
	fx := newFlowFixture(&stubAuthAPI{})

	if err := fx.flow.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	fx.fillIdentity()
	if err := fx.flow.SubmitIdentity(ctx); err != nil {
		t.Fatalf("SubmitIdentity: %v", err)
	}

	fx.flow.OTP().Paste("482913")
	fx.flow.cooldown.Stop()

	if err := fx.flow.ResendOTP(ctx); err != nil {
		t.Fatalf("ResendOTP: %v", err)
	}
	if _, send, _ := fx.api.calls(); send != 2 {
		t.Fatalf("send calls = %d, want 2", send)
	}
	if got := fx.flow.OTP().Value(); got != "" {
		t.Fatalf("resend must clear the entered digits, got %q", got)
	}
	if got := fx.flow.CooldownRemaining(); got != 30 {
		t.Fatalf("cooldown must restart, got %d", got)
	}
	if note, ok := fx.notifier.last(); !ok || note.message != "OTP resent successfully!" {
		t.Fatalf("unexpected notification: %+v", note)
	}
}

func TestFlowDoubleSubmitSendsOneRequest(t *testing.T) {
	ctx := context.Background()
	api := &stubAuthAPI{loginGate: make(chan struct{})}
	fx := newFlowFixture(api)

	if err := fx.flow.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	fx.fillIdentity()
	if err := fx.flow.SubmitIdentity(ctx); err != nil {
		t.Fatalf("SubmitIdentity: %v", err)
	}
	fx.flow.OTP().Paste("482913")

	done := make(chan error, 1)
	go func() { done <- fx.flow.SubmitOTP(ctx) }()

	// Wait for the first submit to be in flight, then re-invoke.
	deadline := time.Now().Add(time.Second)
	for !fx.flow.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("first submit never went in flight")
		}
		time.Sleep(time.Millisecond)
	}
	if err := fx.flow.SubmitOTP(ctx); err != nil {
		t.Fatalf("second submit must be a no-op, got %v", err)
	}

	close(api.loginGate)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}

	if _, _, login := fx.api.calls(); login != 1 {
		t.Fatalf("login calls = %d, want exactly 1", login)
	}
	if fx.flow.State() != StateVerified {
		t.Fatalf("state = %v, want Verified", fx.flow.State())
	}
}

func TestFlowBackPreservesCaptcha(t *testing.T) {
	ctx := context.Background()
	fx := newFlowFixture(&stubAuthAPI{})

	if err := fx.flow.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	fx.fillIdentity()
	if err := fx.flow.SubmitIdentity(ctx); err != nil {
		t.Fatalf("SubmitIdentity: %v", err)
	}
	fx.flow.OTP().Paste("482")

	fx.flow.Back()

	if fx.flow.State() != StateForm {
		t.Fatalf("state = %v, want Form", fx.flow.State())
	}
	if fx.flow.OTP().Value() != "" {
		t.Fatal("back must clear the entered digits")
	}
	if fx.flow.CooldownRemaining() != 0 {
		t.Fatal("back must stop the cooldown")
	}
	if fx.flow.Captcha() == nil {
		t.Fatal("back must not discard the challenge")
	}
	if fetch, _, _ := fx.api.calls(); fetch != 1 {
		t.Fatalf("back must not re-fetch the challenge, got %d fetches", fetch)
	}
}

func TestFlowResetDropsLateResponse(t *testing.T) {
	ctx := context.Background()
	api := &stubAuthAPI{loginGate: make(chan struct{})}
	fx := newFlowFixture(api)

	if err := fx.flow.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	fx.fillIdentity()
	if err := fx.flow.SubmitIdentity(ctx); err != nil {
		t.Fatalf("SubmitIdentity: %v", err)
	}
	fx.flow.OTP().Paste("482913")

	done := make(chan error, 1)
	go func() { done <- fx.flow.SubmitOTP(ctx) }()

	deadline := time.Now().Add(time.Second)
	for !fx.flow.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("submit never went in flight")
		}
		time.Sleep(time.Millisecond)
	}

	fx.flow.Reset()
	close(api.loginGate)
	if err := <-done; err != nil {
		t.Fatalf("late completion must be a no-op, got %v", err)
	}

	if fx.flow.State() != StateForm {
		t.Fatalf("state = %v, want Form after Reset", fx.flow.State())
	}
}

func TestFlowCaptchaFetchFailure(t *testing.T) {
	ctx := context.Background()
	api := &stubAuthAPI{captchaErr: errors.New("boom")}
	fx := newFlowFixture(api)

	err := fx.flow.FetchCaptcha(ctx)

	var fe *FlowError
	if !errors.As(err, &fe) || fe.Kind != KindCaptchaUnavailable {
		t.Fatalf("expected a captcha-unavailable error, got %v", err)
	}
	if note, ok := fx.notifier.last(); !ok || note.message != "Failed to load CAPTCHA. Try again." {
		t.Fatalf("unexpected notification: %+v", note)
	}
	if fx.flow.State() != StateForm {
		t.Fatalf("state = %v, want Form", fx.flow.State())
	}
}
