package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/session-gateway/internal/config"
	"github.com/spec-kit/session-gateway/internal/domain"
)

// ErrInvalidCredentials marks an upstream rejection, as opposed to an
// unreachable upstream.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginResult is what the upstream auth API hands back on success: the
// bearer credential plus an optional profile snapshot for display.
type LoginResult struct {
	Token   string                  `json:"token"`
	Profile *domain.ProfileSnapshot `json:"profile,omitempty"`
}

// SessionService forwards login requests to the external auth API. The
// gateway never mints or verifies credentials itself; it only stores what
// the upstream returns.
type SessionService struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewSessionService builds the service.
func NewSessionService(cfg config.UpstreamConfig, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		baseURL: cfg.AuthBaseURL,
		client:  &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
	}
}

// Login authenticates a regular platform user upstream.
func (s *SessionService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	return s.forward(ctx, "/auth/users/login", email, password)
}

// LoginSuperHotel authenticates a super-hotel administrator upstream.
func (s *SessionService) LoginSuperHotel(ctx context.Context, email, password string) (*LoginResult, error) {
	return s.forward(ctx, "/auth/superhotel/login", email, password)
}

func (s *SessionService) forward(ctx context.Context, path, email, password string) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("upstream auth unreachable", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream auth returned status %d", resp.StatusCode)
	}

	var result LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}
	if result.Token == "" {
		return nil, errors.New("upstream returned no credential")
	}
	return &result, nil
}
