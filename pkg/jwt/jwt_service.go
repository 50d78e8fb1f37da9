package jwt

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/internal/utils"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const tokenTTL = 120 * time.Minute

type (
	JWTService interface {
		GenerateTokenUser(userId string, role string) string
		// GenerateTokenGuest mints an identity for someone browsing without an
		// account. The returned id is stable for the life of the token.
		GenerateTokenGuest() (string, string)
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserIDByToken(token string) (string, string, error)
	}

	jwtUserClaim struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
	}
)

func getSecretKey() string {
	utils.LoadConfig()
	secretKey := utils.GetConfig("JWT_SECRET")
	if secretKey == "" {
		log.Warn().Msg("JWT_SECRET is empty, tokens are signed with an empty key")
	}
	return secretKey
}

func NewJWTService() JWTService {
	return NewJWTServiceWithSecret(getSecretKey())
}

func NewJWTServiceWithSecret(secretKey string) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    "FOODSHARE",
	}
}

func (j *jwtService) GenerateTokenUser(userId string, role string) string {
	claims := jwtUserClaim{
		userId,
		role,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tx, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		log.Error().Err(err).Msg("failed to sign token")
	}
	return tx
}

func (j *jwtService) GenerateTokenGuest() (string, string) {
	guestID := uuid.NewString()
	return j.GenerateTokenUser(guestID, domain.RoleGuest), guestID
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

func (j *jwtService) GetUserIDByToken(token string) (string, string, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", domain.ErrTokenExpired
		}
		return "", "", domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return "", "", domain.ErrTokenInvalid
	}

	claims := t_Token.Claims.(*jwtUserClaim)
	if claims.Issuer != j.issuer {
		return "", "", domain.ErrTokenInvalid
	}
	return claims.UserID, claims.Role, nil
}
