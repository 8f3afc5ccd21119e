package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes é o limite do bcrypt; bytes além disso seriam ignorados
const MaxPasswordBytes = 72

var (
	// ErrPasswordMismatch indica que a senha não confere com o hash
	ErrPasswordMismatch = errors.New("senha não confere")
	// ErrPasswordTooLong indica senha acima de MaxPasswordBytes
	ErrPasswordTooLong = errors.New("senha excede 72 bytes")
)

// PasswordHasher gera e verifica hashes bcrypt. A senha nunca é armazenada nem comparada
// em texto plano.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher cria um hasher com o custo informado (0 usa bcrypt.DefaultCost)
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash gera o hash de uma senha
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("senha vazia")
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("falha ao gerar hash: %w", err)
	}
	return string(hash), nil
}

// Compare confere a senha em texto plano contra o hash armazenado
func (h *PasswordHasher) Compare(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}
	return nil
}
