package services

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

var ErrInvalidCSRFToken = errors.New("invalid csrf token")

const (
	sessionKeyInfo = "kanso-streaks session v1"
	csrfKeyInfo    = "kanso-streaks csrf v1"
	csrfNonceBytes = 16
)

// TokenService issues session JWTs and the CSRF tokens bound to them.
// Both keys are derived from one configured secret.
type TokenService struct {
	secretKey     []byte
	csrfKey       []byte
	issuer        string
	tokenDuration time.Duration
	userRepo      domain.UserRepository
}

func NewTokenService(secretKey string, issuer string, tokenDuration time.Duration, userRepo domain.UserRepository) *TokenService {
	return &TokenService{
		secretKey:     deriveKey(secretKey, sessionKeyInfo),
		csrfKey:       deriveKey(secretKey, csrfKeyInfo),
		issuer:        issuer,
		tokenDuration: tokenDuration,
		userRepo:      userRepo,
	}
}

func deriveKey(secret, info string) []byte {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	if _, err := io.ReadFull(r, key); err != nil {
		panic(fmt.Sprintf("token service: key derivation failed: %v", err))
	}
	return key
}

func (s *TokenService) TokenDuration() time.Duration {
	return s.tokenDuration
}

func (s *TokenService) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(s.tokenDuration).Unix(),
		"iat": time.Now().Unix(),
		"iss": s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("token service: failed to sign token: %w", err)
	}

	return signedToken, nil
}

func (s *TokenService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if iss, ok := claims["iss"].(string); !ok || iss != s.issuer {
			return "", fmt.Errorf("invalid token issuer")
		}

		userID, ok := claims["sub"].(string)
		if !ok {
			return "", fmt.Errorf("invalid token subject")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("user no longer exists or db error: %w", err)
		}

		return userID, nil
	}

	return "", fmt.Errorf("invalid token claims")
}

// GenerateCSRFToken returns "<nonce>.<mac>" where mac binds the nonce to userID.
func (s *TokenService) GenerateCSRFToken(userID string) (string, error) {
	nonce := make([]byte, csrfNonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("token service: failed to read nonce: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(nonce)
	return encoded + "." + s.csrfMAC(userID, encoded), nil
}

func (s *TokenService) ValidateCSRFToken(userID, token string) error {
	nonce, mac, ok := strings.Cut(token, ".")
	if !ok || nonce == "" || mac == "" {
		return ErrInvalidCSRFToken
	}

	expected := s.csrfMAC(userID, nonce)
	if !hmac.Equal([]byte(mac), []byte(expected)) {
		return ErrInvalidCSRFToken
	}
	return nil
}

func (s *TokenService) csrfMAC(userID, nonce string) string {
	h := hmac.New(sha256.New, s.csrfKey)
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
