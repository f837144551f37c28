package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/config"
	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// ErrCredencialesInvalidas is returned for any failed login.
var ErrCredencialesInvalidas = errors.New("credenciales invalidas")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type cuenta struct {
	usuario  string
	password string
	rol      string
}

type authService struct {
	cuentas []cuenta
	cfg     *config.Config
}

// NewAuthService builds the login service from the configured accounts.
// The vendedor account is optional.
func NewAuthService(cfg *config.Config) AuthService {
	cuentas := []cuenta{{usuario: cfg.AdminUser, password: cfg.AdminPassword, rol: model.RolAdministrador}}
	if cfg.VendedorUser != "" && cfg.VendedorPassword != "" {
		cuentas = append(cuentas, cuenta{usuario: cfg.VendedorUser, password: cfg.VendedorPassword, rol: model.RolVendedor})
	}
	return &authService{cuentas: cuentas, cfg: cfg}
}

func igualConstante(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *authService) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var match *cuenta
	for i := range s.cuentas {
		c := &s.cuentas[i]
		// Compare both fields of every account so timing does not reveal which user exists.
		okUser := igualConstante(req.Username, c.usuario)
		okPass := igualConstante(req.Password, c.password)
		if okUser && okPass && c.password != "" && match == nil {
			match = c
		}
	}
	if match == nil {
		log.Warn().Str("usuario", req.Username).Msg("login fallido")
		return nil, ErrCredencialesInvalidas
	}

	ttl := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	token, err := s.generateToken(match.usuario, match.rol, ttl)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		Usuario:     match.usuario,
		Rol:         match.rol,
	}, nil
}

func (s *authService) generateToken(usuario, rol string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     usuario,
		"usuario": usuario,
		"rol":     rol,
		"exp":     now.Add(duration).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
