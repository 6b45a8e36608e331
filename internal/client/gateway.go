package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultRequestTimeout = 30 * time.Second

// Config carries the static, configuration-derived request context every
// portal call sends alongside the credential.
type Config struct {
	BaseURL      string
	Language     string // "language" header
	IsEncryption bool   // "isEncryption" header
	Portal       string // "portal" header, e.g. "CDA"

	// HTTPClient overrides the default client; mainly for tests.
	HTTPClient *http.Client
}

// StatusError is the error returned for any non-2xx response. 4xx errors
// outside the gateway's policy propagate to the caller untouched as this type.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("http %d", e.StatusCode)
}

// Gateway is the single chokepoint for portal HTTP traffic. It attaches the
// session credential on the way out and applies the uniform recovery policy
// on the way back; no call site can opt out of either.
type Gateway struct {
	base     *url.URL
	http     *http.Client
	sessions *SessionStore
	nav      Navigator
	log      zerolog.Logger

	language     string
	isEncryption string
	portal       string
}

func NewGateway(cfg Config, sessions *SessionStore, nav Navigator, log zerolog.Logger) (*Gateway, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultRequestTimeout}
	}

	language := cfg.Language
	if language == "" {
		language = "en"
	}
	portal := cfg.Portal
	if portal == "" {
		portal = "CDA"
	}

	return &Gateway{
		base:         base,
		http:         hc,
		sessions:     sessions,
		nav:          nav,
		log:          log,
		language:     language,
		isEncryption: strconv.FormatBool(cfg.IsEncryption),
		portal:       portal,
	}, nil
}

// Do sends the request through the gateway. On 2xx the response is returned
// with its body unread. Any other outcome returns an error after the policy
// has run:
//
//	network failure or ≥500 → server-error page, session untouched
//	401                     → credentials dropped, session-timeout page
//	403                     → storage cleared, permission-denied page
//	other 4xx               → no recovery, error returned as-is
func (g *Gateway) Do(req *http.Request) (*http.Response, error) {
	g.decorate(req)

	resp, err := g.http.Do(req)
	if err != nil {
		g.navigate(RouteServerError, nil)
		return nil, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	msg := drainMessage(resp)

	switch {
	case resp.StatusCode >= 500:
		g.log.Warn().Int("status", resp.StatusCode).Str("path", req.URL.Path).Msg("server failure")
		g.navigate(RouteServerError, nil)
	case resp.StatusCode == http.StatusUnauthorized:
		g.sessions.DropCredentials()
		params := url.Values{}
		if g.nav != nil {
			if p := g.nav.CurrentPath(); p != "" {
				params.Set("redirect", p)
			}
		}
		g.navigate(RouteSessionTimeout, params)
	case resp.StatusCode == http.StatusForbidden:
		g.sessions.Clear()
		g.navigate(RoutePermissionDenied, nil)
	}

	return nil, &StatusError{StatusCode: resp.StatusCode, Message: msg}
}

// GetJSON issues a GET and decodes a 2xx body into out.
func (g *Gateway) GetJSON(ctx context.Context, path string, out any) error {
	req, err := g.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return g.roundTrip(req, out)
}

// PostJSON issues a POST with a JSON body and decodes a 2xx body into out.
// Both body and out may be nil.
func (g *Gateway) PostJSON(ctx context.Context, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := g.newRequest(ctx, http.MethodPost, path, rdr)
	if err != nil {
		return err
	}
	return g.roundTrip(req, out)
}

// Logout notifies the server (best effort), wipes session storage, and
// returns to the landing page — reloading in place when already there.
func (g *Gateway) Logout(ctx context.Context) {
	if err := g.PostJSON(ctx, "/auth/logout", nil, nil); err != nil {
		g.log.Debug().Err(err).Msg("server logout failed, clearing locally anyway")
	}

	g.sessions.Clear()
	if g.nav == nil {
		return
	}
	if g.nav.CurrentPath() == string(RouteLanding) {
		g.nav.Reload()
	} else {
		g.nav.Navigate(RouteLanding, nil)
	}
}

func (g *Gateway) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	u := *g.base
	u.Path = strings.TrimRight(u.Path, "/") + path

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (g *Gateway) roundTrip(req *http.Request, out any) error {
	resp, err := g.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decorate re-reads the session on every request: a token past its expiry
// is dropped and never attached.
func (g *Gateway) decorate(req *http.Request) {
	if sess := g.sessions.Load(); sess != nil {
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	}
	req.Header.Set("language", g.language)
	req.Header.Set("isEncryption", g.isEncryption)
	req.Header.Set("portal", g.portal)
}

func (g *Gateway) navigate(route Route, params url.Values) {
	if g.nav == nil {
		return
	}
	g.nav.Navigate(route, params)
}

// drainMessage pulls the server's message field out of an error body, if any.
func drainMessage(resp *http.Response) string {
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return ""
	}

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		return envelope.Error
	}
	return ""
}
