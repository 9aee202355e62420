// Package auth issues and validates the JWT tokens that guard the order
// and position endpoints.
package auth

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/mrDinkelman185/FINCo/pkg/response"
)

var (
	ErrInvalidCredentials = errors.New("invalid API credentials")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// Token scopes. Client tokens carry orders+positions; the internal feeds
// authenticate with the same mechanism but are routed separately.
const (
	ScopeOrders    = "orders"
	ScopePositions = "positions"
)

// Test credentials
var (
	TestAPIKey    = "test-api-key"
	TestAPISecret = "test-api-secret"
)

// Credentials represents the API authentication credentials
type Credentials struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
}

// TokenResponse represents the JWT token response
type TokenResponse struct {
	Token      string    `json:"jwt_token"`
	Expiration time.Time `json:"expiration"`
}

// Claims represents the JWT claims structure
type Claims struct {
	jwt.RegisteredClaims
	ClientID string   `json:"client_id"`
	Scopes   []string `json:"scopes"`
}

// Service issues and validates tokens. Credentials live in memory,
// registered at startup; the keyed secret and token lifetime come from
// configuration.
type Service struct {
	jwtSecret []byte
	tokenTTL  time.Duration

	mu             sync.RWMutex
	apiCredentials map[string]string // map[APIKey]APISecret
}

// NewService creates an authentication service with the given JWT secret
// and token lifetime.
func NewService(jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		jwtSecret:      []byte(jwtSecret),
		tokenTTL:       tokenTTL,
		apiCredentials: make(map[string]string),
	}
}

// GenerateToken exchanges valid API credentials for a signed JWT carrying
// the client ID and the trading scopes.
func (s *Service) GenerateToken(creds Credentials) (*TokenResponse, error) {
	if !s.validateCredentials(creds) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	expiration := now.Add(s.tokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		ClientID: creds.APIKey,
		Scopes:   []string{ScopeOrders, ScopePositions},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		log.Error().Err(err).Str("component", "auth").Msg("token signing failed")
		return nil, ErrTokenGeneration
	}

	return &TokenResponse{
		Token:      tokenString,
		Expiration: expiration,
	}, nil
}

// ValidateToken verifies the signature, the HMAC signing method and the
// registered time claims, and returns the parsed claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// validateCredentials compares the supplied secret against the registered
// one in constant time.
func (s *Service) validateCredentials(creds Credentials) bool {
	s.mu.RLock()
	secret, exists := s.apiCredentials[creds.APIKey]
	s.mu.RUnlock()
	return exists && subtle.ConstantTimeCompare([]byte(secret), []byte(creds.APISecret)) == 1
}

// RegisterAPICredentials registers API credentials for a client.
func (s *Service) RegisterAPICredentials(apiKey, apiSecret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiCredentials[apiKey] = apiSecret
}

// GinHandlers contains HTTP handlers for authentication endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for authentication endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

// GenerateTokenHandler handles POST requests to generate JWT tokens
// Request body should contain API credentials
func (h *GinHandlers) GenerateTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds Credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}

		token, err := h.service.GenerateToken(creds)
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.Handle(c, token, err)
	}
}
