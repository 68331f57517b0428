package auth

import (
	"fmt"
	"time"

	"SaferVault/internal/storage"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Service implements authentication logic
type Service struct {
	jwtSecret string
	store     Store
}

// Store defines the persistence interface
type Store interface {
	CreateUser(username, hashedPassword string) (int64, error)
	GetUserByUsername(username string) (*storage.User, error)
	GetUserByID(userID int64) (*storage.User, error)
}

// Claims represents JWT claims
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.StandardClaims
}

// New creates a new auth service
func New(jwtSecret string, store Store) *Service {
	return &Service{
		jwtSecret: jwtSecret,
		store:     store,
	}
}

// Register creates a new user account
func (s *Service) Register(username, password string) (int64, error) {
	if username == "" || password == "" {
		return 0, fmt.Errorf("username and password cannot be empty")
	}

	// Registration not allowed for existing usernames
	existing, err := s.store.GetUserByUsername(username)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, fmt.Errorf("username already exists")
	}

	userID, err := s.store.CreateUser(username, hashPassword(password))
	if err != nil {
		return 0, err
	}

	return userID, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("username and password cannot be empty")
	}

	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("invalid username or password")
	}

	if !verifyPassword(password, user.HashedPassword) {
		return "", fmt.Errorf("invalid username or password")
	}

	return s.CreateToken(user.ID, user.Username)
}

// CreateToken creates a new JWT token for a user
func (s *Service) CreateToken(userID int64, username string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID:   userID,
		Username: username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates and parses a JWT token
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		// return a value that will fail verification
		return ""
	}
	return string(hash)
}

// verifyPassword verifies a password against its bcrypt hash
func verifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
