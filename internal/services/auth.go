package services

import (
	"errors"
	"fmt"
	"time"

	"bookhaven/internal/models"
	"bookhaven/internal/repositories"
	"bookhaven/internal/utils"

	"github.com/golang-jwt/jwt"
)

// AuthService handles registration, login and token issuance
type AuthService struct {
	users        *repositories.UserRepository
	jwtSecret    []byte
	accessTTL    time.Duration
	anonBuyerTTL time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(users *repositories.UserRepository, jwtSecret string, accessTTL, anonBuyerTTL time.Duration) *AuthService {
	return &AuthService{
		users:        users,
		jwtSecret:    []byte(jwtSecret),
		accessTTL:    accessTTL,
		anonBuyerTTL: anonBuyerTTL,
	}
}

// TokenResponse is returned after a successful login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AccessClaims are the JWT claims of a logged-in user's access token
type AccessClaims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.StandardClaims
}

// AnonBuyerClaims are the JWT claims of a guest purchase token. The token
// itself is the guest's proof of ownership; nothing is persisted for them.
type AnonBuyerClaims struct {
	BookIDs []int `json:"book_ids"`
	jwt.StandardClaims
}

// ErrInvalidCredentials is returned when login fails, without revealing
// whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Register creates a new user account with a hashed password
func (s *AuthService) Register(req *models.UserCreateRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(req.Username, req.Email, hash)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns a bearer token
func (s *AuthService) Login(username, password string) (*TokenResponse, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.CanLogin() {
		return nil, ErrInvalidCredentials
	}

	token, err := s.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// ChangePassword verifies the current password and stores a new hash
func (s *AuthService) ChangePassword(userID int, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}

	ok, err := utils.VerifyPassword(currentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	if len(newPassword) < 8 || len(newPassword) > 128 {
		return errors.New("password must be between 8 and 128 characters")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePasswordHash(userID, hash)
}

// IssueAccessToken signs a JWT for a logged-in user
func (s *AuthService) IssueAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &AccessClaims{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.Username,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.accessTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates a bearer token and returns its claims
func (s *AuthService) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid access token")
	}
	return claims, nil
}

// IssueAnonBuyerToken signs a short-lived token carrying the ids of the
// books a guest just purchased.
func (s *AuthService) IssueAnonBuyerToken(bookIDs []int) (string, error) {
	now := time.Now()
	claims := &AnonBuyerClaims{
		BookIDs: bookIDs,
		StandardClaims: jwt.StandardClaims{
			Subject:   "anon-buyer",
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.anonBuyerTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign buyer token: %w", err)
	}
	return signed, nil
}

// ParseAnonBuyerToken validates a guest purchase token
func (s *AuthService) ParseAnonBuyerToken(tokenString string) (*AnonBuyerClaims, error) {
	claims := &AnonBuyerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("invalid buyer token: %w", err)
	}
	if !token.Valid || claims.Subject != "anon-buyer" {
		return nil, errors.New("invalid buyer token")
	}
	return claims, nil
}

func (s *AuthService) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.jwtSecret, nil
}

// GetUser retrieves a user by id
func (s *AuthService) GetUser(id int) (*models.User, error) {
	return s.users.GetByID(id)
}
