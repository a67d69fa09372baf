package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPasscode = errors.New("invalid passcode")
	ErrInvalidToken    = errors.New("invalid token")
)

const (
	defaultCost     = 12
	defaultTokenTTL = 24 * time.Hour
)

type Service struct {
	jwtSecret []byte
	cost      int
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewService(jwtSecret string) *Service {
	return &Service{
		jwtSecret: []byte(jwtSecret),
		cost:      defaultCost,
		tokenTTL:  defaultTokenTTL,
		now:       time.Now,
	}
}

// Claims identifies a participant of an editing session.
type Claims struct {
	SessionID     string `json:"sessionId"`
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
}

// HashPasscode hashes a session passcode. An empty passcode leaves the session
// open and hashes to "".
func (s *Service) HashPasscode(passcode string) (string, error) {
	if passcode == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash passcode: %w", err)
	}
	return string(hash), nil
}

// CheckPasscode verifies passcode against a hash from HashPasscode.
func (s *Service) CheckPasscode(hash, passcode string) error {
	if hash == "" {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode)); err != nil {
		return ErrInvalidPasscode
	}
	return nil
}

func (s *Service) IssueToken(c Claims) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  c.ParticipantID,
		"sid":  c.SessionID,
		"name": c.DisplayName,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	participantID, _ := claims["sub"].(string)
	sessionID, _ := claims["sid"].(string)
	name, _ := claims["name"].(string)
	if participantID == "" || sessionID == "" {
		return nil, fmt.Errorf("%w: missing subject or session", ErrInvalidToken)
	}

	return &Claims{
		SessionID:     sessionID,
		ParticipantID: participantID,
		DisplayName:   name,
	}, nil
}
