package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cdainvest/portal-system/internal/core/domain"
	"github.com/cdainvest/portal-system/internal/core/ports"
)

type stubAuthService struct {
	adminResult *ports.AuthResult
	adminErr    error
	userResult  *ports.AuthResult
	userErr     error
	loggedOut   []string
}

func (s *stubAuthService) AdminLogin(_ context.Context, _, _ string) (*ports.AuthResult, error) {
	return s.adminResult, s.adminErr
}

func (s *stubAuthService) UserLogin(_ context.Context, _ domain.Identity, _ string) (*ports.AuthResult, error) {
	return s.userResult, s.userErr
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return nil
}

type stubCaptchaService struct {
	challenge *domain.CaptchaChallenge
	issueErr  error
	verifyErr error
}

func (s *stubCaptchaService) Issue(_ context.Context) (*domain.CaptchaChallenge, error) {
	return s.challenge, s.issueErr
}

func (s *stubCaptchaService) Verify(_ context.Context, _, _ string) error {
	return s.verifyErr
}

type stubOTPService struct {
	sendErr error
	sent    int
}

func (s *stubOTPService) Send(_ context.Context, _ domain.Identity) error {
	s.sent++
	return s.sendErr
}

func (s *stubOTPService) Verify(_ context.Context, _, _ string) error {
	return nil
}

func newTestContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
}

func TestGetCaptcha(t *testing.T) {
	captcha := &stubCaptchaService{challenge: &domain.CaptchaChallenge{
		ID:     "c1",
		Markup: "<svg/>",
	}}
	h := NewAuthHandler(&stubAuthService{}, captcha, &stubOTPService{})

	c, rec := newTestContext(http.MethodGet, "/get-captcha", "")
	if err := h.GetCaptcha(c); err != nil {
		t.Fatalf("GetCaptcha returned error: %v", err)
	}

	var resp captchaResponse
	decodeBody(t, rec, &resp)
	if resp.ChallengeID != "c1" || resp.Captcha != "<svg/>" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestVerifyCaptcha_Mismatch(t *testing.T) {
	captcha := &stubCaptchaService{verifyErr: domain.ErrCaptchaMismatch}
	h := NewAuthHandler(&stubAuthService{}, captcha, &stubOTPService{})

	c, rec := newTestContext(http.MethodPost, "/verify-captcha", `{"challenge_id":"c1","captcha":"NOPE"}`)
	if err := h.VerifyCaptcha(c); err != nil {
		t.Fatalf("VerifyCaptcha returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("business failures ride a 200, got %d", rec.Code)
	}

	var resp statusResponse
	decodeBody(t, rec, &resp)
	if resp.Success {
		t.Fatalf("expected success=false")
	}
	if resp.Message != "Invalid CAPTCHA" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestVerifyCaptcha_Success(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubCaptchaService{}, &stubOTPService{})

	c, rec := newTestContext(http.MethodPost, "/verify-captcha", `{"challenge_id":"c1","captcha":"7G3KX"}`)
	if err := h.VerifyCaptcha(c); err != nil {
		t.Fatalf("VerifyCaptcha returned error: %v", err)
	}

	var resp statusResponse
	decodeBody(t, rec, &resp)
	if !resp.Success {
		t.Fatalf("expected success=true, got %+v", resp)
	}
}

func TestSendOTP_ValidationRejectsBadPhone(t *testing.T) {
	otp := &stubOTPService{}
	h := NewAuthHandler(&stubAuthService{}, &stubCaptchaService{}, otp)

	c, _ := newTestContext(http.MethodPost, "/auth/send-otp",
		`{"name":"Ada","email":"ada@example.com","phone":"12345"}`)
	err := h.SendOTP(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if otp.sent != 0 {
		t.Fatalf("invalid payloads must not reach the OTP service")
	}
}

func TestSendOTP_Success(t *testing.T) {
	otp := &stubOTPService{}
	h := NewAuthHandler(&stubAuthService{}, &stubCaptchaService{}, otp)

	c, rec := newTestContext(http.MethodPost, "/auth/send-otp",
		`{"name":"Ada","email":"ada@example.com","phone":"5551234567"}`)
	if err := h.SendOTP(c); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}
	if otp.sent != 1 {
		t.Fatalf("expected one issuance, got %d", otp.sent)
	}

	var resp statusResponse
	decodeBody(t, rec, &resp)
	if !resp.Success {
		t.Fatalf("expected success=true, got %+v", resp)
	}
}

func TestUserLogin_Success(t *testing.T) {
	auth := &stubAuthService{userResult: &ports.AuthResult{
		Token:    "t1",
		ExpireAt: time.Now().Add(time.Hour).Unix(),
		User:     &domain.User{ID: "1", Name: "Ada", Email: "ada@example.com"},
	}}
	h := NewAuthHandler(auth, &stubCaptchaService{}, &stubOTPService{})

	c, rec := newTestContext(http.MethodPost, "/auth/userLogin",
		`{"name":"Ada","email":"ada@example.com","otp":"482913"}`)
	if err := h.UserLogin(c); err != nil {
		t.Fatalf("UserLogin returned error: %v", err)
	}

	var resp userLoginResponse
	decodeBody(t, rec, &resp)
	if !resp.Status || resp.Token != "t1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.User == nil || resp.User.Email != "ada@example.com" {
		t.Fatalf("expected user profile in response")
	}
}

func TestUserLogin_WrongOTP(t *testing.T) {
	auth := &stubAuthService{userErr: domain.ErrOTPMismatch}
	h := NewAuthHandler(auth, &stubCaptchaService{}, &stubOTPService{})

	c, rec := newTestContext(http.MethodPost, "/auth/userLogin",
		`{"name":"Ada","email":"ada@example.com","otp":"000000"}`)
	if err := h.UserLogin(c); err != nil {
		t.Fatalf("UserLogin returned error: %v", err)
	}

	var resp userLoginResponse
	decodeBody(t, rec, &resp)
	if resp.Status {
		t.Fatalf("expected status=false")
	}
	if resp.Message != "Invalid OTP" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if resp.Token != "" {
		t.Fatalf("no token on failure")
	}
}

func TestAdminLogin_Success(t *testing.T) {
	expireAt := time.Now().Add(time.Hour).Unix()
	auth := &stubAuthService{adminResult: &ports.AuthResult{
		Token:    "admin-token",
		ExpireAt: expireAt,
		Role:     domain.RoleAdmin,
	}}
	h := NewAuthHandler(auth, &stubCaptchaService{}, &stubOTPService{})

	c, rec := newTestContext(http.MethodPost, "/auth/login",
		`{"email":"admin@example.com","password":"s3cret"}`)
	if err := h.AdminLogin(c); err != nil {
		t.Fatalf("AdminLogin returned error: %v", err)
	}

	var resp adminLoginResponse
	decodeBody(t, rec, &resp)
	if !resp.Success || resp.Token != "admin-token" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ExpireAt != expireAt || resp.Role != domain.RoleAdmin {
		t.Fatalf("expected expireAt and role on the admin path, got %+v", resp)
	}
}

func TestAdminLogin_BadCredentials(t *testing.T) {
	auth := &stubAuthService{adminErr: domain.ErrInvalidCredentials}
	h := NewAuthHandler(auth, &stubCaptchaService{}, &stubOTPService{})

	c, _ := newTestContext(http.MethodPost, "/auth/login",
		`{"email":"admin@example.com","password":"wrong"}`)
	err := h.AdminLogin(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	auth := &stubAuthService{}
	h := NewAuthHandler(auth, &stubCaptchaService{}, &stubOTPService{})

	c, rec := newTestContext(http.MethodPost, "/auth/logout", "")
	c.Set("email", "ada@example.com")
	c.Set("token", "t1")

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(auth.loggedOut) != 1 || auth.loggedOut[0] != "t1" {
		t.Fatalf("expected token to reach the service, got %v", auth.loggedOut)
	}
}
