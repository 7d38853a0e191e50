package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired el token fue válido pero ya venció.
	ErrExpired = errors.New("token expirado")
	// ErrInvalid firma, emisor o formato incorrectos.
	ErrInvalid = errors.New("token inválido")
)

const leeway = 30 * time.Second

// Claims claims registrados más la identidad del usuario; Role alimenta el RBAC sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Identity datos del usuario que viajan en el token.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// Manager emite y verifica tokens HS256 de un emisor.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager exige secreto no vacío; ttl es la vigencia de cada token.
func NewManager(secret, issuer string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	return &Manager{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue firma un token para id y devuelve también su vencimiento.
func (m *Manager) Issue(id Identity) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:   id.UserID,
		Username: id.Username,
		Role:     id.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: firmar: %w", err)
	}
	return signed, exp, nil
}

// Verify valida firma, algoritmo, emisor y vigencia. Devuelve ErrExpired o ErrInvalid envueltos.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(leeway),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, fmt.Errorf("%w: %v", ErrExpired, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
