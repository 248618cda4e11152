package ngrok

import (
	"context"
	"fmt"
	"os"

	"breathadmin/internal/config"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.ngrok.com/ngrok/v2"
)

// Service exposes the admin console through an ngrok tunnel so the content
// team can reach it without the server sitting on a public host. Access
// control stays with the console's own session auth; the tunnel only
// provides reachability.
type Service struct {
	cfg    *config.NgrokConfig
	logger *logrus.Logger

	agent     ngrok.Agent
	forwarder ngrok.EndpointForwarder
}

// NewService builds the tunnel service. A disabled config yields a nil
// service; every method is safe to call on nil so callers need no guard.
func NewService(cfg *config.NgrokConfig, logger *logrus.Logger) (*Service, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	token := resolveToken(cfg, logger)
	if token == "" {
		return nil, fmt.Errorf("ngrok enabled but no auth token in config or NGROK_AUTHTOKEN")
	}

	agent, err := ngrok.NewAgent(ngrok.WithAuthtoken(token))
	if err != nil {
		return nil, fmt.Errorf("failed to create ngrok agent: %w", err)
	}

	return &Service{cfg: cfg, logger: logger, agent: agent}, nil
}

// resolveToken prefers the config value and falls back to the environment,
// loading .env first so the token can live outside the committed config.
func resolveToken(cfg *config.NgrokConfig, logger *logrus.Logger) string {
	if cfg.AuthToken != "" {
		return cfg.AuthToken
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			logger.WithError(err).Warn("Could not load .env file")
		}
	}
	return os.Getenv("NGROK_AUTHTOKEN")
}

// StartTunnel forwards a public endpoint to the local listen address.
func (s *Service) StartTunnel(ctx context.Context, localAddress string) error {
	if s == nil {
		return nil
	}

	var opts []ngrok.EndpointOption
	if s.cfg.Domain != "" {
		opts = append(opts, ngrok.WithURL(s.cfg.Domain))
	}

	forwarder, err := s.agent.Forward(ctx, ngrok.WithUpstream(localAddress), opts...)
	if err != nil {
		return fmt.Errorf("failed to start ngrok tunnel: %w", err)
	}
	s.forwarder = forwarder

	s.logger.WithFields(logrus.Fields{
		"public_url": forwarder.URL().String(),
		"upstream":   localAddress,
	}).Info("Ngrok tunnel active")
	return nil
}

// GetPublicURL returns the tunnel's public URL, or "" when no tunnel runs.
func (s *Service) GetPublicURL() string {
	if s == nil || s.forwarder == nil {
		return ""
	}
	return s.forwarder.URL().String()
}

// Stop closes the tunnel.
func (s *Service) Stop() error {
	if s == nil || s.forwarder == nil {
		return nil
	}
	s.logger.Info("Stopping ngrok tunnel")
	return s.forwarder.Close()
}

// Wait blocks until the tunnel closes.
func (s *Service) Wait() {
	if s == nil || s.forwarder == nil {
		return
	}
	<-s.forwarder.Done()
}
