package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// TokenService issues and checks room invite tokens. A token lets a
// spectator device join a specific room as a read-only follower.
type TokenService struct {
	inviteSecret string
	inviteIssuer string
	inviteTTL    time.Duration
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		inviteSecret: secret,
		inviteIssuer: issuer,
		inviteTTL:    ttl,
	}
}

func (s *TokenService) IssueToken(name, roomID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("token service is nil")
	}
	if name == "" {
		return "", fmt.Errorf("name is required")
	}
	if roomID == "" {
		return "", fmt.Errorf("room id is required")
	}
	if s.inviteSecret == "" || s.inviteIssuer == "" {
		return "", fmt.Errorf("invite config is incomplete")
	}

	ttl := s.inviteTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	claims := jwt.MapClaims{
		"iss":  s.inviteIssuer,
		"sub":  name,
		"room": roomID,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.inviteSecret))
}

// ValidateToken checks signature, issuer and expiry and returns the invited
// name and room id.
func (s *TokenService) ValidateToken(tokenString string) (name, roomID string, err error) {
	if s == nil {
		return "", "", fmt.Errorf("token service is nil")
	}
	if s.inviteSecret == "" || s.inviteIssuer == "" {
		return "", "", fmt.Errorf("invite config is incomplete")
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.inviteSecret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("invalid invite token: %w", err)
	}
	if iss, _ := claims["iss"].(string); iss != s.inviteIssuer {
		return "", "", fmt.Errorf("invite token has wrong issuer")
	}
	roomID, _ = claims["room"].(string)
	if roomID == "" {
		return "", "", fmt.Errorf("invite token has no room")
	}
	name, _ = claims["sub"].(string)
	return name, roomID, nil
}
