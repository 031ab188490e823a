package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// HTTPProvider implements Provider against a GoTrue-style identity service:
// POST /otp emails the one-time code, POST /verify exchanges it for an
// access token, POST /logout revokes it. The provider keeps the current
// session in memory; this app has a single local user per process.
type HTTPProvider struct {
	baseURL  string
	client   *http.Client
	verifier TokenVerifier
	logger   *slog.Logger

	mu          sync.Mutex
	session     *Session
	subscribers []Subscriber
}

// Ensure HTTPProvider implements Provider
var _ Provider = (*HTTPProvider)(nil)

// NewHTTPProvider creates a Provider talking to the given issuer URL.
func NewHTTPProvider(issuerURL string, verifier TokenVerifier, logger *slog.Logger) *HTTPProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPProvider{
		baseURL:  strings.TrimRight(issuerURL, "/"),
		client:   &http.Client{Timeout: 10 * time.Second},
		verifier: verifier,
		logger:   logger.With(slog.String("component", "auth_provider")),
	}
}

// RequestMagicLink implements Provider.RequestMagicLink.
func (p *HTTPProvider) RequestMagicLink(ctx context.Context, email string) error {
	body := map[string]any{
		"email":       email,
		"create_user": true,
	}
	resp, err := p.post(ctx, "/otp", body, "")
	if err != nil {
		return fmt.Errorf("failed to request magic link: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Warn("magic link request rejected", "status", resp.StatusCode)
		return fmt.Errorf("magic link request failed with status %d", resp.StatusCode)
	}

	p.logger.Info("magic link requested")
	return nil
}

// VerifyCode implements Provider.VerifyCode.
func (p *HTTPProvider) VerifyCode(ctx context.Context, email, code string) (*Session, error) {
	body := map[string]any{
		"type":  "magiclink",
		"email": email,
		"token": code,
	}
	resp, err := p.post(ctx, "/verify", body, "")
	if err != nil {
		return nil, fmt.Errorf("failed to verify magic link: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Warn("magic link code rejected", "status", resp.StatusCode)
		return nil, ErrVerificationFailed
	}

	var grant struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if grant.AccessToken == "" {
		return nil, ErrVerificationFailed
	}

	claims, err := p.verifier.VerifyToken(ctx, grant.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("issued token failed verification: %w", err)
	}

	session := &Session{
		UserID:      claims.UserID,
		Email:       claims.Email,
		AccessToken: grant.AccessToken,
		ExpiresAt:   claims.ExpiresAt,
	}

	p.mu.Lock()
	p.session = session
	p.mu.Unlock()

	p.logger.Info("signed in", "user_id", session.UserID)
	p.notify(EventSignedIn, session)
	return session, nil
}

// SignOut implements Provider.SignOut. The remote revocation is best effort;
// the local session is cleared regardless.
func (p *HTTPProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	session := p.session
	p.session = nil
	p.mu.Unlock()

	if session == nil {
		return ErrNotSignedIn
	}

	if resp, err := p.post(ctx, "/logout", nil, session.AccessToken); err != nil {
		p.logger.Warn("remote sign-out failed", "error", err)
	} else {
		_ = resp.Body.Close()
	}

	p.logger.Info("signed out", "user_id", session.UserID)
	p.notify(EventSignedOut, nil)
	return nil
}

// Current implements Provider.Current.
func (p *HTTPProvider) Current() (*Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil, false
	}
	s := *p.session
	return &s, true
}

// Subscribe implements Provider.Subscribe.
func (p *HTTPProvider) Subscribe(subscriber Subscriber) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, subscriber)
}

func (p *HTTPProvider) notify(event Event, session *Session) {
	p.mu.Lock()
	subscribers := make([]Subscriber, len(p.subscribers))
	copy(subscribers, p.subscribers)
	p.mu.Unlock()

	for _, subscriber := range subscribers {
		subscriber(event, session)
	}
}

func (p *HTTPProvider) post(ctx context.Context, path string, body any, bearer string) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	return p.client.Do(req)
}
