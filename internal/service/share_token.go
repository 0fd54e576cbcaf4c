package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"voiceform/internal/apperr"
)

const shareTokenTTL = 7 * 24 * time.Hour

// ShareClaims is the capability token embedded in assessment report links.
type ShareClaims struct {
	AssessmentID string `json:"assessmentId"`
	jwt.RegisteredClaims
}

// ShareTokenService issues and verifies the signed tokens that gate access
// to shared assessment reports. Possession of a valid token is the only
// credential; there are no accounts on the candidate side.
type ShareTokenService struct {
	secret []byte
}

// NewShareTokenService creates a share token service
func NewShareTokenService(secret string) *ShareTokenService {
	return &ShareTokenService{secret: []byte(secret)}
}

// Issue signs a report token for the assessment, valid for seven days.
func (s *ShareTokenService) Issue(assessmentID string) (string, error) {
	now := time.Now()
	claims := ShareClaims{
		AssessmentID: assessmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(shareTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Decode verifies a report token and returns the assessment ID it grants.
// Expired and malformed tokens come back as distinct error kinds so the
// share page can explain which happened.
func (s *ShareTokenService) Decode(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ShareClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.TokenExpired()
		}
		return "", apperr.TokenInvalid()
	}

	claims, ok := token.Claims.(*ShareClaims)
	if !ok || claims.AssessmentID == "" {
		return "", apperr.TokenInvalid()
	}
	return claims.AssessmentID, nil
}
