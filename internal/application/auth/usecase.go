// Package auth emite tokens a partir de la frase de acceso compartida del almacén.
package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/pkg/jwt"
)

// ErrNotConfigured no hay hash de frase de acceso; no se emiten tokens.
var ErrNotConfigured = errors.New("autenticación no configurada")

// Config frase de acceso (hash bcrypt), registradores admin y parámetros del JWT.
type Config struct {
	PassphraseHash string
	Admins         []string
	Secret         string
	ExpMinutes     int
	Issuer         string
}

// UseCase caso de uso de emisión de tokens.
type UseCase struct {
	cfg Config
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(cfg Config) *UseCase {
	return &UseCase{cfg: cfg}
}

// IssueToken verifica la frase y firma un token para el registrador.
// El rol es admin si el registrador figura en Admins; si no, registrador.
func (uc *UseCase) IssueToken(in dto.TokenRequest) (*dto.TokenResponse, error) {
	submitter := strings.TrimSpace(in.Submitter)
	if submitter == "" {
		return nil, domain.NewValidationError("submitter", "es obligatorio")
	}
	if in.Passphrase == "" {
		return nil, domain.NewValidationError("passphrase", "es obligatoria")
	}
	if uc.cfg.PassphraseHash == "" {
		return nil, ErrNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.cfg.PassphraseHash), []byte(in.Passphrase)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	role := jwt.RoleRecorder
	if uc.isAdmin(submitter) {
		role = jwt.RoleAdmin
	}
	token, err := jwt.Generate(uc.cfg.Secret, submitter, role, uc.cfg.Issuer, uc.cfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:     token,
		Submitter: submitter,
		Role:      role,
		ExpiresIn: uc.cfg.ExpMinutes * 60,
	}, nil
}

func (uc *UseCase) isAdmin(submitter string) bool {
	for _, a := range uc.cfg.Admins {
		if strings.EqualFold(strings.TrimSpace(a), submitter) {
			return true
		}
	}
	return false
}
