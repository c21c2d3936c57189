package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"campusrecords/src/domain"
)

// Claims são as claims aceitas pela API. Roles segue o formato "ROLE_USER", "ROLE_ADMIN".
type Claims struct {
	Roles []string `json:"roles"`
	jwtlib.RegisteredClaims
}

// TokenVerifier valida tokens HS256 emitidos pelo serviço de autenticação.
type TokenVerifier struct {
	secret []byte
	issuer string
}

func NewTokenVerifier(secret string, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}
}

func (v *TokenVerifier) Verify(tokenString string) (domain.Principal, error) {
	claims := &Claims{}

	options := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
	}
	if v.issuer != "" {
		options = append(options, jwtlib.WithIssuer(v.issuer))
	}

	_, err := jwtlib.ParseWithClaims(tokenString, claims, func(token *jwtlib.Token) (interface{}, error) {
		return v.secret, nil
	}, options...)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	if claims.Subject == "" {
		return domain.Principal{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}

	return domain.Principal{Subject: claims.Subject, Roles: claims.Roles}, nil
}

// TokenIssuer assina tokens com o mesmo segredo. A API não emite tokens; só os testes usam.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenIssuer(secret string, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

func (i *TokenIssuer) Issue(subject string, roles ...string) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}

	now := time.Now()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(i.ttl)),
		},
	}

	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(i.secret)
}
