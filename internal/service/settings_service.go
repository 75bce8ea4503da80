package service

import (
	"context"
	"strings"
	"sync"

	"realty-agent-be/internal/config"
	"realty-agent-be/internal/constant"
	"realty-agent-be/internal/dto"
	"realty-agent-be/internal/entity"
	"realty-agent-be/internal/pkg/logger"
	"realty-agent-be/internal/repository/contract"
	"realty-agent-be/pkg/events"
	pkgnats "realty-agent-be/pkg/nats"
	"realty-agent-be/pkg/sensay"

	"github.com/google/uuid"
)

// GatewayProvider hands out the currently configured platform client. Callers
// must fetch the client per operation rather than caching it: a credential
// update swaps the client underneath.
type GatewayProvider interface {
	Gateway() (sensay.API, error)
	UserID() string
}

type ISettingsService interface {
	GatewayProvider

	// Bootstrap loads the persisted credentials and builds the initial client.
	// A missing secret is not an error here; the dashboard starts unconfigured.
	Bootstrap(ctx context.Context) error

	Status() *dto.SettingsResponse
	UpdateCredentials(ctx context.Context, req *dto.UpdateCredentialsRequest) (*dto.SettingsResponse, error)

	// OnCredentialsChanged registers a hook invoked after every successful
	// credential swap. Used to drop caches keyed to the old organization.
	OnCredentialsChanged(hook func())
}

type settingsService struct {
	cfg            config.SensayConfig
	settingRepo    contract.SettingRepository
	eventPublisher *pkgnats.Publisher
	logger         logger.ILogger

	// newClient builds a platform client from a credential set. Tests swap it
	// for a fake.
	newClient func(cfg sensay.Config) (sensay.API, error)

	mu     sync.RWMutex
	client sensay.API
	userID string
	hooks  []func()
}

func NewSettingsService(
	cfg config.SensayConfig,
	settingRepo contract.SettingRepository,
	eventPublisher *pkgnats.Publisher,
	logger logger.ILogger,
) ISettingsService {
	return &settingsService{
		cfg:            cfg,
		settingRepo:    settingRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
		newClient: func(clientCfg sensay.Config) (sensay.API, error) {
			return sensay.NewClient(clientCfg)
		},
	}
}

func (s *settingsService) Bootstrap(ctx context.Context) error {
	secret, err := s.storedValue(ctx, entity.SettingOrganizationSecret)
	if err != nil {
		return err
	}
	if secret == "" && s.cfg.OrganizationSecret != "" {
		// First boot with an env-seeded secret: persist it so later restarts
		// no longer depend on the environment.
		secret = s.cfg.OrganizationSecret
		if err := s.settingRepo.Put(ctx, entity.SettingOrganizationSecret, secret); err != nil {
			return err
		}
	}

	userID, err := s.storedValue(ctx, entity.SettingUserID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()

	if secret == "" {
		s.logger.Warn("settings", "no organization secret configured; dashboard starts in setup mode", nil)
		return nil
	}

	client, err := s.buildClient(secret, userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()

	if userID == "" {
		// Best effort at startup. Chat stays unavailable until an acting user
		// exists, but the server must come up even when the platform is down.
		if err := s.ensureActingUser(ctx, secret); err != nil {
			s.logger.Warn("settings", "could not provision acting user at startup", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return nil
}

func (s *settingsService) Gateway() (sensay.API, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return nil, sensay.ErrMissingSecret
	}
	return s.client, nil
}

func (s *settingsService) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *settingsService) Status() *dto.SettingsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &dto.SettingsResponse{
		Configured: s.client != nil,
		UserID:     s.userID,
	}
}

func (s *settingsService) UpdateCredentials(ctx context.Context, req *dto.UpdateCredentialsRequest) (*dto.SettingsResponse, error) {
	secret := strings.TrimSpace(req.OrganizationSecret)

	if err := s.settingRepo.Put(ctx, entity.SettingOrganizationSecret, secret); err != nil {
		return nil, err
	}

	if err := s.ensureActingUser(ctx, secret); err != nil {
		s.logger.Warn("settings", "credentials saved but acting user provisioning failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	client, err := s.buildClient(secret, s.UserID())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.client = client
	hooks := make([]func(), len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}

	s.publishEvent(ctx, constant.EventCredentialsUpdated, map[string]interface{}{})
	s.logger.Info("settings", "organization credentials updated", nil)
	return s.Status(), nil
}

func (s *settingsService) OnCredentialsChanged(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// ensureActingUser creates the organization-scoped chat identity once and
// persists its id. The id format is stable so the conversation history on the
// platform side survives restarts.
func (s *settingsService) ensureActingUser(ctx context.Context, secret string) error {
	if s.UserID() != "" {
		return nil
	}

	client, err := s.buildClient(secret, "")
	if err != nil {
		return err
	}

	id := "agent_" + uuid.NewString()
	if _, err := client.CreateUser(ctx, id); err != nil {
		return err
	}
	if err := s.settingRepo.Put(ctx, entity.SettingUserID, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.userID = id
	if s.client != nil {
		// Rebuild so the current client carries the new acting user.
		if rebuilt, buildErr := s.buildClient(secret, id); buildErr == nil {
			s.client = rebuilt
		}
	}
	s.mu.Unlock()

	s.logger.Info("settings", "provisioned acting user", map[string]interface{}{"user_id": id})
	return nil
}

func (s *settingsService) buildClient(secret, userID string) (sensay.API, error) {
	return s.newClient(sensay.Config{
		BaseURL:            s.cfg.BaseURL,
		APIVersion:         s.cfg.APIVersion,
		OrganizationSecret: secret,
		UserID:             userID,
	})
}

func (s *settingsService) storedValue(ctx context.Context, key string) (string, error) {
	setting, err := s.settingRepo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if setting == nil {
		return "", nil
	}
	return setting.Value, nil
}

func (s *settingsService) publishEvent(ctx context.Context, typeCode string, payload map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.New(typeCode, payload)); err != nil {
		s.logger.Warn("settings", "failed to publish event", map[string]interface{}{
			"event": typeCode,
			"error": err.Error(),
		})
	}
}
