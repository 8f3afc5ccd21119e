package service

import (
	"errors"
	"fmt"

	"crm-backend/internal/repository"
)

// Taxonomia de erros de negócio. A camada HTTP traduz cada uma para um status.
var (
	ErrUnauthenticated = errors.New("credenciais inválidas")
	ErrForbidden       = errors.New("acesso negado")
	ErrNotFound        = errors.New("não encontrado")
	ErrInvalidInput    = errors.New("dados inválidos")
	ErrConflict        = errors.New("registro já existe")
	ErrUnavailable     = errors.New("recurso não configurado")
)

// fromStore traduz as sentinelas do repositório para a taxonomia do serviço.
// Erros desconhecidos são embrulhados e viram 500 na camada HTTP.
func fromStore(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrConflict, what)
	case errors.Is(err, repository.ErrInvalid):
		return fmt.Errorf("%w: %s", ErrInvalidInput, what)
	default:
		return fmt.Errorf("falha ao acessar %s: %w", what, err)
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
