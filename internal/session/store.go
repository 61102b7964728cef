package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/postgres/v3"

	"openhackathon/internal/api"
	"openhackathon/internal/config"
	"openhackathon/internal/model"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

var ErrSignedOut = errors.New("session: not signed in")

type Config struct {
	CookieName   string
	CookieSecure bool
	Expiration   time.Duration
	// Storage defaults to fiber's in-memory storage when nil.
	Storage fiber.Storage
}

// Store keeps the signed-in user of each browser session and hands out API clients
// acting on their behalf.
type Store struct {
	Logger   *slog.Logger
	Client   *api.Client
	sessions *session.Store
}

func New(logger *slog.Logger, client *api.Client, cfg Config) *Store {
	if cfg.CookieName == "" {
		cfg.CookieName = "session_id"
	}

	return &Store{
		Logger: logger,
		Client: client,
		sessions: session.New(session.Config{
			Storage:        cfg.Storage,
			Expiration:     cfg.Expiration,
			KeyLookup:      "cookie:" + cfg.CookieName,
			CookiePath:     "/",
			CookieSecure:   cfg.CookieSecure,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
		}),
	}
}

// NewStorage returns Postgres session storage, or nil for in-memory sessions.
func NewStorage(cfg config.SessionConfig) fiber.Storage {
	if cfg.StorageURL == "" {
		return nil
	}
	return postgres.New(postgres.Config{
		ConnectionURI: cfg.StorageURL,
		Table:         cfg.Table,
		Reset:         false,
		GCInterval:    10 * time.Second,
	})
}

// User returns the signed-in user, or nil for anonymous visitors.
func (s *Store) User(c *fiber.Ctx) (*model.User, error) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	raw, ok := sess.Get(userKey).(string)
	if !ok || raw == "" {
		return nil, nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.Logger.Warn("session: dropping unreadable user", "error", err)
		return nil, nil
	}
	return &user, nil
}

// SignIn exchanges an identity token for an API user and stores it in a fresh session.
func (s *Store) SignIn(c *fiber.Ctx, token string) (model.User, error) {
	var user model.User
	if err := s.Client.Post(c.UserContext(), "login", fiber.Map{"token": token}, &user); err != nil {
		return model.User{}, fmt.Errorf("failed to sign in: %w", err)
	}
	if user.Token == "" {
		user.Token = token
	}

	sess, err := s.sessions.Get(c)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return model.User{}, fmt.Errorf("failed to regenerate session: %w", err)
	}

	stored := user
	stored.Token = ""
	raw, err := json.Marshal(stored)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to encode user: %w", err)
	}
	sess.Set(userKey, string(raw))
	sess.Set(tokenKey, user.Token)

	if err := sess.Save(); err != nil {
		return model.User{}, fmt.Errorf("failed to save session: %w", err)
	}

	s.Logger.Info("User signed in", "user_id", user.ID)
	return user, nil
}

// SignOut forgets the signed-in user.
func (s *Store) SignOut(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

func (s *Store) token(c *fiber.Ctx) (string, error) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	token, _ := sess.Get(tokenKey).(string)
	return token, nil
}

// ClientOf returns an API client authenticated as the signed-in user. Anonymous
// visitors get ErrSignedOut.
func (s *Store) ClientOf(c *fiber.Ctx) (*api.Client, error) {
	token, err := s.token(c)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrSignedOut
	}
	return s.Client.WithToken(token), nil
}

// ExporterOf binds export links to the signed-in user's token.
func (s *Store) ExporterOf(c *fiber.Ctx) (Exporter, error) {
	token, err := s.token(c)
	if err != nil {
		return Exporter{}, err
	}
	return Exporter{baseURL: s.Client.BaseURL(), token: token}, nil
}

// Exporter builds authenticated download links for API resources.
type Exporter struct {
	baseURL string
	token   string
}

func (e Exporter) ExportURLOf(resource, baseURI string) string {
	query := url.Values{}
	query.Set("type", resource)
	if e.token != "" {
		query.Set("token", e.token)
	}
	return fmt.Sprintf("%s/%s/export?%s", e.baseURL, baseURI, query.Encode())
}
