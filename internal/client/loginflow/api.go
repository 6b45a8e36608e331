// Package loginflow drives the OTP login modal: CAPTCHA-gated identity
// submission, code issuance and verification, resend with cooldown, and
// session establishment on success.
package loginflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cdainvest/portal-system/internal/core/domain"
)

// Captcha is a challenge as the client sees it: an id plus renderable markup.
// The expected answer stays on the server.
type Captcha struct {
	ChallengeID string `json:"challenge_id"`
	Markup      string `json:"captcha"`
}

// APIStatus is the {success,message} envelope of the CAPTCHA and OTP
// endpoints.
type APIStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginReply is the investor-login wire shape: {status,message,user,token}.
type LoginReply struct {
	Status   bool         `json:"status"`
	Message  string       `json:"message"`
	User     *domain.User `json:"user"`
	Token    string       `json:"token"`
	ExpireAt int64        `json:"expireAt"`
}

// AuthAPI is the flow's view of the pre-authentication endpoints. These
// calls carry no session credential, so they bypass the session gateway the
// same way the original modal used its own bare HTTP instance.
type AuthAPI interface {
	FetchCaptcha(ctx context.Context) (*Captcha, error)
	VerifyCaptcha(ctx context.Context, challengeID, answer string) (*APIStatus, error)
	SendOTP(ctx context.Context, identity domain.Identity) (*APIStatus, error)
	VerifyLogin(ctx context.Context, identity domain.Identity, otp string) (*LoginReply, error)
}

// HTTPAuthAPI implements AuthAPI over plain net/http.
type HTTPAuthAPI struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPAuthAPI(baseURL string) *HTTPAuthAPI {
	return &HTTPAuthAPI{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *HTTPAuthAPI) FetchCaptcha(ctx context.Context) (*Captcha, error) {
	var out Captcha
	if err := a.call(ctx, http.MethodGet, "/get-captcha", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *HTTPAuthAPI) VerifyCaptcha(ctx context.Context, challengeID, answer string) (*APIStatus, error) {
	body := map[string]string{"challenge_id": challengeID, "captcha": answer}
	var out APIStatus
	if err := a.call(ctx, http.MethodPost, "/verify-captcha", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *HTTPAuthAPI) SendOTP(ctx context.Context, identity domain.Identity) (*APIStatus, error) {
	var out APIStatus
	if err := a.call(ctx, http.MethodPost, "/auth/send-otp", identity, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *HTTPAuthAPI) VerifyLogin(ctx context.Context, identity domain.Identity, otp string) (*LoginReply, error) {
	body := struct {
		domain.Identity
		OTP string `json:"otp"`
	}{Identity: identity, OTP: otp}

	var out LoginReply
	if err := a.call(ctx, http.MethodPost, "/auth/userLogin", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *HTTPAuthAPI) call(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&envelope)
		return fmt.Errorf("http %d: %s", resp.StatusCode, envelope.Message)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
