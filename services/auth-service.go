package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"teamsync-project/backend/workspace-service/logging"
	"teamsync-project/backend/workspace-service/models"
	"teamsync-project/backend/workspace-service/store"
	"teamsync-project/backend/workspace-service/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const personalWorkspaceName = "My Workspace"

type AuthService struct {
	users      store.UserStore
	workspaces *WorkspaceService
	jwt        *JWTService
	revoked    RevocationStore
	blackList  map[string]bool
	now        func() time.Time
}

func NewAuthService(users store.UserStore, workspaces *WorkspaceService, jwtService *JWTService, revoked RevocationStore, blackList map[string]bool) *AuthService {
	if blackList == nil {
		blackList = map[string]bool{}
	}
	return &AuthService{
		users:      users,
		workspaces: workspaces,
		jwt:        jwtService,
		revoked:    revoked,
		blackList:  blackList,
		now:        time.Now,
	}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by every successful sign-in path.
type AuthResult struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) ValidatePassword(password string) error {
	if err := utils.ValidatePassword(password); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if s.blackList[password] {
		return fmt.Errorf("%w: password is too common. Please choose a stronger one", ErrInvalidInput)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if err := s.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("%w: user with this email", ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      in.Name,
		Email:     in.Email,
		Password:  string(hashedPassword),
		Provider:  models.ProviderEmail,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.createWithWorkspace(ctx, user); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered", user.Email)
	return s.issue(user)
}

// createWithWorkspace stores the user and gives them a personal workspace
// that becomes their current one.
func (s *AuthService) createWithWorkspace(ctx context.Context, user *models.User) error {
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("%w: user with this email", ErrConflict)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}

	workspace, err := s.workspaces.Create(ctx, user.ID, WorkspaceInput{Name: personalWorkspaceName})
	if err != nil {
		return err
	}
	user.CurrentWorkspace = &workspace.ID
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to set current workspace: %w", err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Unknown email %s", email)
			return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
		}
		return nil, err
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Wrong password for %s", user.Email)
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is not active", ErrUnauthorized)
	}

	s.touchLogin(ctx, user)
	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: User %s logged in", user.Email)
	return s.issue(user)
}

// Logout revokes the token until its own expiry.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	until := s.now().Add(s.jwt.ttl)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.revoked.Revoke(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	logging.Logger.Infof("Event ID: LOGOUT, Description: Token %s revoked for %s", claims.ID, claims.Email)
	return nil
}

// Authenticate validates a bearer token and rejects revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token has been revoked", ErrUnauthorized)
	}
	return claims, nil
}

// LoginOrCreateGoogle finds the account linked to the Google profile,
// links an existing email account, or creates a new user. Linking and
// creating both require Google to have verified the email.
func (s *AuthService) LoginOrCreateGoogle(ctx context.Context, profile *GoogleProfile) (*AuthResult, error) {
	if profile == nil || profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: incomplete Google profile", ErrUnauthorized)
	}

	user, err := s.users.GetByProvider(ctx, models.ProviderGoogle, profile.ID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		if !profile.VerifiedEmail {
			logging.Logger.Warnf("Event ID: GOOGLE_EMAIL_UNVERIFIED, Description: Google account %s has no verified email", profile.ID)
			return nil, fmt.Errorf("%w: Google email is not verified", ErrUnauthorized)
		}
		user, err = s.users.GetByEmail(ctx, normalizeEmail(profile.Email))
		if err == nil {
			user.Provider = models.ProviderGoogle
			user.ProviderID = profile.ID
			if user.ProfilePicture == "" {
				user.ProfilePicture = profile.Picture
			}
			if err := s.users.Update(ctx, user); err != nil {
				return nil, fmt.Errorf("failed to link Google account: %w", err)
			}
			break
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		now := s.now()
		user = &models.User{
			ID:             primitive.NewObjectID(),
			Name:           strings.TrimSpace(profile.Name),
			Email:          normalizeEmail(profile.Email),
			ProfilePicture: profile.Picture,
			Provider:       models.ProviderGoogle,
			ProviderID:     profile.ID,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.createWithWorkspace(ctx, user); err != nil {
			return nil, err
		}
		logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with Google", user.Email)
	default:
		return nil, err
	}

	s.touchLogin(ctx, user)
	return s.issue(user)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) touchLogin(ctx context.Context, user *models.User) {
	now := s.now()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		logging.Logger.Warnf("Event ID: LAST_LOGIN_UPDATE_FAILED, Description: %v", err)
	}
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, _, err := s.jwt.GenerateAuthToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: token}, nil
}
