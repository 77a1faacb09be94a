package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/inventory_system/internal/events"
	"github.com/Skotchmaster/inventory_system/internal/models"
	"github.com/Skotchmaster/inventory_system/internal/repo"
	"github.com/Skotchmaster/inventory_system/internal/transport"
	pkghash "github.com/Skotchmaster/inventory_system/pkg/hash"
	"github.com/Skotchmaster/inventory_system/pkg/logging"
)

type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUserIfNotExists(ctx context.Context, u *models.User) error
}

type TokenIssuer interface {
	Issue(username, role string) (string, error)
}

type AuthService struct {
	Users  UserStore
	Tokens TokenIssuer
	Events events.Publisher
}

func NewAuthService(users UserStore, tokens TokenIssuer, pub events.Publisher) *AuthService {
	if pub == nil {
		pub = events.Noop{}
	}
	return &AuthService{Users: users, Tokens: tokens, Events: pub}
}

// Register stores the role exactly as given. Unknown roles are accepted here
// and simply never authorize anything.
func (svc *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", req.Username)

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"username", req.Username},
		{"email", req.Email},
		{"password", req.Password},
		{"role", req.Role},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}

	pwHash, err := pkghash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         req.Role,
	}
	if err := svc.Users.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		l.Error("register_error", "status", 500, "reason", "internal error", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := svc.Events.Publish(ctx, events.Event{Type: events.UserRegistered, UserID: user.ID, At: timeNow()}); err != nil {
		l.Warn("publish_event_error", "event", events.UserRegistered, "error", err)
	}
	return user, nil
}

// Login answers both unknown user and wrong password with the same error.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := svc.Users.GetUserByUsername(ctx, username)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("login_failed", "status", 401, "reason", "unknown user")
			return "", fmt.Errorf("%w: invalid username or password", ErrUnauthenticated)
		}
		l.Error("login_failed", "status", 500, "error", err)
		return "", fmt.Errorf("load user: %w", err)
	}

	if !pkghash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return "", fmt.Errorf("%w: invalid username or password", ErrUnauthenticated)
	}

	token, err := svc.Tokens.Issue(user.Username, user.Role)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
