package service

import (
	"context"
	"errors"
	"fmt"

	"crm-backend/internal/auth"
	"crm-backend/internal/logger"
	"crm-backend/internal/models"
	"crm-backend/internal/repository"
)

// LoginResponse é o payload devolvido no login
type LoginResponse struct {
	ID      int64         `json:"id"`
	Usuario string        `json:"usuario"`
	Perfil  models.Perfil `json:"perfil"`
	Foto    string        `json:"foto"`
	Token   string        `json:"token"`
}

// AccountService lida com a lógica de negócios de contas
type AccountService struct {
	store        repository.AccountStore
	hasher       *auth.PasswordHasher
	tokenService *auth.TokenService

	// hash de uma senha qualquer, comparado quando o login não existe
	// para que as duas falhas custem o mesmo
	dummyHash string
}

// NewAccountService cria um novo serviço de conta
func NewAccountService(store repository.AccountStore, hasher *auth.PasswordHasher, tokenService *auth.TokenService) (*AccountService, error) {
	dummy, err := hasher.Hash("senha-de-comparacao")
	if err != nil {
		return nil, fmt.Errorf("falha ao preparar hasher: %w", err)
	}
	return &AccountService{
		store:        store,
		hasher:       hasher,
		tokenService: tokenService,
		dummyHash:    dummy,
	}, nil
}

// Create valida e cadastra uma nova conta
func (s *AccountService) Create(ctx context.Context, in AccountInput) (*models.PublicAccount, error) {
	in.ID = 0
	if err := ValidateProfile(in, ProfileCreate); err != nil {
		return nil, err
	}
	in.Telefone = NormalizePhone(in.Telefone)

	if err := s.checkUnique(ctx, 0, in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Senha)
	if err != nil {
		return nil, s.hashError(ctx, err)
	}

	account := accountFromInput(in)
	account.SenhaHash = hash

	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, fromStore(err, "conta")
	}

	logger.From(ctx).Info("conta criada",
		logger.AccountID(account.ID),
		logger.Role(string(account.Perfil)),
	)
	pub := account.Public()
	return &pub, nil
}

// Update altera uma conta existente. Só o próprio dono ou um ADMIN podem atualizar,
// e só um ADMIN pode trocar o perfil.
func (s *AccountService) Update(ctx context.Context, caller auth.Identity, in AccountInput) (*models.PublicAccount, error) {
	if err := ValidateProfile(in, ProfileUpdate); err != nil {
		return nil, err
	}
	if !auth.CanActOn(caller, in.ID) {
		return nil, fmt.Errorf("%w: conta %d pertence a outro usuário", ErrForbidden, in.ID)
	}
	in.Telefone = NormalizePhone(in.Telefone)

	existing, err := s.store.GetAccountByID(ctx, in.ID)
	if err != nil {
		return nil, fromStore(err, fmt.Sprintf("conta %d", in.ID))
	}
	if !caller.IsAdmin() && in.Perfil != existing.Perfil {
		return nil, fmt.Errorf("%w: apenas ADMIN pode alterar o perfil", ErrForbidden)
	}

	if err := s.checkUnique(ctx, existing.ID, in); err != nil {
		return nil, err
	}

	hash, err := s.resolveSecret(existing.SenhaHash, in.Senha)
	if err != nil {
		return nil, s.hashError(ctx, err)
	}

	account := accountFromInput(in)
	account.ID = existing.ID
	account.SenhaHash = hash

	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return nil, fromStore(err, fmt.Sprintf("conta %d", in.ID))
	}

	pub := account.Public()
	return &pub, nil
}

// resolveSecret decide o hash a persistir numa atualização. Senha vazia, o próprio hash
// devolvido pelo cliente ou a senha atual em texto mantêm o hash armazenado.
func (s *AccountService) resolveSecret(storedHash, supplied string) (string, error) {
	if supplied == "" || supplied == storedHash {
		return storedHash, nil
	}
	if err := s.hasher.Compare(supplied, storedHash); err == nil {
		return storedHash, nil
	}
	return s.hasher.Hash(supplied)
}

func (s *AccountService) hashError(ctx context.Context, err error) error {
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return invalid("senha excede %d bytes", auth.MaxPasswordBytes)
	}
	logger.From(ctx).Error("erro ao gerar hash bcrypt", logger.Err(err))
	return fmt.Errorf("erro interno ao processar senha")
}

// checkUnique rejeita login, CPF ou telefone que já pertençam a outra conta
func (s *AccountService) checkUnique(ctx context.Context, selfID int64, in AccountInput) error {
	lookups := []struct {
		field string
		value string
		get   func(context.Context, string) (*models.Account, error)
	}{
		{"usuario", in.Usuario, s.store.GetAccountByLogin},
		{"cpf", in.CPF, s.store.GetAccountByCPF},
		{"telefone", in.Telefone, s.store.GetAccountByTelefone},
	}

	for _, l := range lookups {
		if l.value == "" {
			continue
		}
		other, err := l.get(ctx, l.value)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			continue
		case err != nil:
			return fromStore(err, "conta")
		case other.ID != selfID:
			return fmt.Errorf("%w: %s já cadastrado", ErrConflict, l.field)
		}
	}
	return nil
}

// Delete remove a conta id. O próprio dono ou um ADMIN podem remover.
func (s *AccountService) Delete(ctx context.Context, caller auth.Identity, id int64) error {
	if !auth.CanActOn(caller, id) {
		return fmt.Errorf("%w: conta %d pertence a outro usuário", ErrForbidden, id)
	}
	if err := s.store.DeleteAccount(ctx, id); err != nil {
		return fromStore(err, fmt.Sprintf("conta %d", id))
	}
	logger.From(ctx).Info("conta removida", logger.AccountID(id), logger.Role(string(caller.Perfil)))
	return nil
}

// Get busca uma conta pelo ID
func (s *AccountService) Get(ctx context.Context, id int64) (*models.PublicAccount, error) {
	account, err := s.store.GetAccountByID(ctx, id)
	if err != nil {
		return nil, fromStore(err, fmt.Sprintf("conta %d", id))
	}
	pub := account.Public()
	return &pub, nil
}

// List lista todas as contas
func (s *AccountService) List(ctx context.Context) ([]models.PublicAccount, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, fromStore(err, "contas")
	}
	return publicAccounts(accounts), nil
}

// SearchByName busca contas cujo nome contém o termo
func (s *AccountService) SearchByName(ctx context.Context, nome string) ([]models.PublicAccount, error) {
	accounts, err := s.store.SearchAccountsByName(ctx, nome)
	if err != nil {
		return nil, fromStore(err, "contas")
	}
	return publicAccounts(accounts), nil
}

// ValidateCredentials confere login e senha. Conta inexistente e senha errada
// produzem o mesmo ErrUnauthenticated.
func (s *AccountService) ValidateCredentials(ctx context.Context, usuario, senha string) (*models.PublicAccount, error) {
	account, err := s.store.GetAccountByLogin(ctx, usuario)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = s.hasher.Compare(senha, s.dummyHash)
			return nil, ErrUnauthenticated
		}
		return nil, fromStore(err, "conta")
	}

	if err := s.hasher.Compare(senha, account.SenhaHash); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			logger.From(ctx).Warn("hash de senha ilegível", logger.AccountID(account.ID), logger.Err(err))
		}
		return nil, ErrUnauthenticated
	}

	pub := account.Public()
	return &pub, nil
}

// Login autentica uma conta e retorna um token JWT
func (s *AccountService) Login(ctx context.Context, usuario, senha string) (*LoginResponse, error) {
	account, err := s.ValidateCredentials(ctx, usuario, senha)
	if err != nil {
		return nil, err
	}

	token, err := s.tokenService.NewToken(*account)
	if err != nil {
		logger.From(ctx).Error("erro ao gerar token JWT", logger.AccountID(account.ID), logger.Err(err))
		return nil, fmt.Errorf("erro interno ao gerar token")
	}

	return &LoginResponse{
		ID:      account.ID,
		Usuario: account.Usuario,
		Perfil:  account.Perfil,
		Foto:    account.Foto,
		Token:   token,
	}, nil
}

// AdminExists diz se já há alguma conta ADMIN cadastrada
func (s *AccountService) AdminExists(ctx context.Context) (bool, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return false, fromStore(err, "contas")
	}
	for _, a := range accounts {
		if a.Perfil == models.PerfilAdmin {
			return true, nil
		}
	}
	return false, nil
}

// CheckIdentity confirma no store que a conta do token ainda existe com o mesmo perfil
func (s *AccountService) CheckIdentity(ctx context.Context, id auth.Identity) error {
	account, err := s.store.GetAccountByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthenticated
		}
		return fromStore(err, "conta")
	}
	if account.Perfil != id.Perfil {
		return ErrUnauthenticated
	}
	return nil
}

func accountFromInput(in AccountInput) *models.Account {
	return &models.Account{
		ID:       in.ID,
		Nome:     in.Nome,
		Usuario:  in.Usuario,
		Perfil:   in.Perfil,
		CPF:      in.CPF,
		DataNasc: in.DataNasc,
		Telefone: in.Telefone,
		Endereco: in.Endereco,
		Foto:     in.Foto,
	}
}

func publicAccounts(accounts []*models.Account) []models.PublicAccount {
	out := make([]models.PublicAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Public())
	}
	return out
}
