package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	repo "github.com/oksasatya/go-account-service/internal/domain/repository"
)

var (
	ErrValidation         = errors.New("please fill all the inputs")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrUserNotFound       = errors.New("user not found")
	ErrCannotDeleteAdmin  = errors.New("cannot delete admin user")
)

// PasswordHasher is the one-way credential transform.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// TokenIssuer mints the session token for an authenticated user.
type TokenIssuer interface {
	IssueToken(userID string) (string, time.Time, error)
}

type Service struct {
	Repo   repo.UserRepository
	Hasher PasswordHasher
	Tokens TokenIssuer
	Logger *logrus.Logger
}

func NewService(repo repo.UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *logrus.Logger) *Service {
	return &Service{Repo: repo, Hasher: hasher, Tokens: tokens, Logger: logger}
}

// Profile is the public view of an account.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

// OwnProfile is what a caller sees about themselves.
type OwnProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserRecord is a stored account including its password hash.
type UserRecord struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserDetail is a stored account without its password hash.
type UserDetail struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Session is a freshly issued token together with the profile it belongs to.
type Session struct {
	Profile   Profile
	Token     string
	ExpiresAt time.Time
}

func toProfile(u *entity.User) Profile {
	return Profile{ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin}
}

func (s *Service) log() *logrus.Logger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a non-admin account and signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, ErrValidation
	}

	if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Username: in.Username, Email: in.Email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	sess, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	s.log().WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	return sess, nil
}

// Login verifies credentials. Unknown email and wrong password fail the same way.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.Hasher.Compare(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	sess, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	s.log().WithField("user_id", u.ID).Info("user logged in")
	return sess, nil
}

func (s *Service) issue(u *entity.User) (*Session, error) {
	tok, exp, err := s.Tokens.IssueToken(u.ID)
	if err != nil {
		s.log().WithError(err).WithField("user_id", u.ID).Error("issue session token failed")
		return nil, err
	}
	return &Session{Profile: toProfile(u), Token: tok, ExpiresAt: exp}, nil
}

// ListUsers returns every stored account, password hashes included.
func (s *Service) ListUsers(ctx context.Context) ([]UserRecord, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserRecord, 0, len(users))
	for _, u := range users {
		out = append(out, UserRecord{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Password:  u.Password,
			IsAdmin:   u.IsAdmin,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		})
	}
	return out, nil
}

// find resolves id to a user; malformed ids are treated as missing.
func (s *Service) find(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) save(ctx context.Context, u *entity.User) error {
	if err := s.Repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateEmail):
			return ErrEmailTaken
		case errors.Is(err, repo.ErrNotFound):
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// GetUser returns the stored account for id; used by the auth middleware.
func (s *Service) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return s.find(ctx, id)
}

func (s *Service) GetOwnProfile(ctx context.Context, callerID string) (*OwnProfile, error) {
	u, err := s.find(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return &OwnProfile{ID: u.ID, Username: u.Username, Email: u.Email}, nil
}

// UpdateProfileInput holds optional changes; empty strings keep current values.
type UpdateProfileInput struct {
	Username string
	Email    string
	Password string
}

func (s *Service) UpdateOwnProfile(ctx context.Context, callerID string, in UpdateProfileInput) (*Profile, error) {
	u, err := s.find(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.Username); v != "" {
		u.Username = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		u.Email = v
	}
	if in.Password != "" {
		hash, err := s.Hasher.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	p := toProfile(u)
	return &p, nil
}

// DeleteUser removes a non-admin account and returns a confirmation message.
func (s *Service) DeleteUser(ctx context.Context, targetID string) (string, error) {
	u, err := s.find(ctx, targetID)
	if err != nil {
		return "", err
	}
	if u.IsAdmin {
		return "", ErrCannotDeleteAdmin
	}
	if err := s.Repo.Delete(ctx, u.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	s.log().WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user deleted")
	return u.Username + " has been deleted", nil
}

func (s *Service) GetUserByID(ctx context.Context, targetID string) (*UserDetail, error) {
	u, err := s.find(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return &UserDetail{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}

// AdminUpdateInput is an admin edit. IsAdmin nil means "not sent" and
// resolves to false.
type AdminUpdateInput struct {
	Username string
	Email    string
	IsAdmin  *bool
}

func (s *Service) UpdateUserByID(ctx context.Context, targetID string, in AdminUpdateInput) (*Profile, error) {
	u, err := s.find(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.Username); v != "" {
		u.Username = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		u.Email = v
	}
	u.IsAdmin = in.IsAdmin != nil && *in.IsAdmin
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	s.log().WithFields(logrus.Fields{"user_id": u.ID, "is_admin": u.IsAdmin}).Info("user updated by admin")
	p := toProfile(u)
	return &p, nil
}
