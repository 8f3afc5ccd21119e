package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crm-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Códigos SQLSTATE tratados
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
	pgStringTooLong       = "22001"
)

// PostgresStore é a implementação da interface Store para o PostgreSQL
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore cria uma nova instância do PostgresStore e pool de conexões
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("não foi possível criar pool de conexão: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("não foi possível pingar o banco de dados: %w", err)
	}

	return &PostgresStore{db: pool}, nil
}

// Pool expõe o pool para coletores de métricas
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.db
}

// Close fecha o pool de conexões
func (s *PostgresStore) Close() {
	s.db.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// RunMigrations executa o script SQL de migração
func (s *PostgresStore) RunMigrations(ctx context.Context, migrationSQL string) error {
	_, err := s.db.Exec(ctx, migrationSQL)
	if err != nil {
		return fmt.Errorf("falha ao executar migração: %w", err)
	}
	return nil
}

// translate converte erros do driver nas sentinelas do pacote
func translate(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s (%s)", ErrDuplicate, what, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: referência de %s (%s)", ErrNotFound, what, pgErr.ConstraintName)
		case pgCheckViolation, pgNumericOutOfRange, pgStringTooLong:
			return fmt.Errorf("%w: %s", ErrInvalid, what)
		}
	}
	return fmt.Errorf("falha em %s: %w", what, err)
}

// expectOne transforma "nenhuma linha afetada" em ErrNotFound
func expectOne(tag pgconn.CommandTag, what string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return nil
}

func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// --- AccountStore ---

const accountColumns = `
        id, nome, usuario, senha, perfil,
        COALESCE(cpf, ''), COALESCE(to_char(data_nasc, 'YYYY-MM-DD'), ''),
        COALESCE(telefone, ''), COALESCE(endereco, ''), COALESCE(foto, '')`

func scanAccount(row pgx.Row) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(
		&a.ID,
		&a.Nome,
		&a.Usuario,
		&a.SenhaHash,
		&a.Perfil,
		&a.CPF,
		&a.DataNasc,
		&a.Telefone,
		&a.Endereco,
		&a.Foto,
	)
	return a, err
}

func (s *PostgresStore) CreateAccount(ctx context.Context, account *models.Account) error {
	sql := `
        INSERT INTO tb_usuarios (nome, usuario, senha, perfil, cpf, data_nasc, telefone, endereco, foto)
        VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, '')::date, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''))
        RETURNING id`

	err := s.db.QueryRow(ctx, sql,
		account.Nome,
		account.Usuario,
		account.SenhaHash,
		account.Perfil,
		account.CPF,
		account.DataNasc,
		account.Telefone,
		account.Endereco,
		account.Foto,
	).Scan(&account.ID)
	if err != nil {
		return translate(err, "conta '"+account.Usuario+"'")
	}
	return nil
}

func (s *PostgresStore) UpdateAccount(ctx context.Context, account *models.Account) error {
	sql := `
        UPDATE tb_usuarios SET
            nome = $2, usuario = $3, senha = $4, perfil = $5,
            cpf = NULLIF($6, ''), data_nasc = NULLIF($7, '')::date, telefone = NULLIF($8, ''),
            endereco = NULLIF($9, ''), foto = NULLIF($10, '')
        WHERE id = $1`

	tag, err := s.db.Exec(ctx, sql,
		account.ID,
		account.Nome,
		account.Usuario,
		account.SenhaHash,
		account.Perfil,
		account.CPF,
		account.DataNasc,
		account.Telefone,
		account.Endereco,
		account.Foto,
	)
	if err != nil {
		return translate(err, fmt.Sprintf("conta %d", account.ID))
	}
	return expectOne(tag, fmt.Sprintf("conta %d", account.ID))
}

func (s *PostgresStore) DeleteAccount(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tb_usuarios WHERE id = $1`, id)
	if err != nil {
		return translate(err, fmt.Sprintf("conta %d", id))
	}
	return expectOne(tag, fmt.Sprintf("conta %d", id))
}

func (s *PostgresStore) getAccount(ctx context.Context, where, what string, arg any) (*models.Account, error) {
	sql := `SELECT ` + accountColumns + ` FROM tb_usuarios WHERE ` + where
	a, err := scanAccount(s.db.QueryRow(ctx, sql, arg))
	if err != nil {
		return nil, translate(err, what)
	}
	return a, nil
}

func (s *PostgresStore) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	return s.getAccount(ctx, "id = $1", fmt.Sprintf("conta %d", id), id)
}

func (s *PostgresStore) GetAccountByLogin(ctx context.Context, usuario string) (*models.Account, error) {
	return s.getAccount(ctx, "lower(usuario) = lower($1)", "usuario '"+usuario+"'", usuario)
}

func (s *PostgresStore) GetAccountByCPF(ctx context.Context, cpf string) (*models.Account, error) {
	return s.getAccount(ctx, "cpf = $1", "cpf", cpf)
}

func (s *PostgresStore) GetAccountByTelefone(ctx context.Context, telefone string) (*models.Account, error) {
	return s.getAccount(ctx, "telefone = $1", "telefone", telefone)
}

func (s *PostgresStore) queryAccounts(ctx context.Context, where string, args ...any) ([]*models.Account, error) {
	sql := `SELECT ` + accountColumns + ` FROM tb_usuarios ` + where + ` ORDER BY id`

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar contas: %w", err)
	}
	defer rows.Close()

	// Inicializa como slice vazio para consistência de JSON
	accounts := []*models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao escanear linha de conta: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre as contas: %w", err)
	}
	return accounts, nil
}

func (s *PostgresStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	return s.queryAccounts(ctx, "")
}

func (s *PostgresStore) SearchAccountsByName(ctx context.Context, nome string) ([]*models.Account, error) {
	return s.queryAccounts(ctx, "WHERE nome ILIKE $1", likePattern(nome))
}

// --- CategoryStore ---

func (s *PostgresStore) CreateCategory(ctx context.Context, category *models.Category) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO tb_categorias (nome) VALUES ($1) RETURNING id`,
		category.Nome,
	).Scan(&category.ID)
	if err != nil {
		return translate(err, "categoria")
	}
	return nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	tag, err := s.db.Exec(ctx, `UPDATE tb_categorias SET nome = $2 WHERE id = $1`, category.ID, category.Nome)
	if err != nil {
		return translate(err, fmt.Sprintf("categoria %d", category.ID))
	}
	return expectOne(tag, fmt.Sprintf("categoria %d", category.ID))
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tb_categorias WHERE id = $1`, id)
	if err != nil {
		return translate(err, fmt.Sprintf("categoria %d", id))
	}
	return expectOne(tag, fmt.Sprintf("categoria %d", id))
}

func (s *PostgresStore) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	c := &models.Category{}
	err := s.db.QueryRow(ctx, `SELECT id, nome FROM tb_categorias WHERE id = $1`, id).Scan(&c.ID, &c.Nome)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("categoria %d", id))
	}
	return c, nil
}

func (s *PostgresStore) queryCategories(ctx context.Context, where string, args ...any) ([]*models.Category, error) {
	rows, err := s.db.Query(ctx, `SELECT id, nome FROM tb_categorias `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar categorias: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Nome); err != nil {
			return nil, fmt.Errorf("falha ao escanear linha de categoria: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre as categorias: %w", err)
	}
	return categories, nil
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.queryCategories(ctx, "")
}

func (s *PostgresStore) SearchCategoriesByName(ctx context.Context, nome string) ([]*models.Category, error) {
	return s.queryCategories(ctx, "WHERE nome ILIKE $1", likePattern(nome))
}

// --- ProductStore ---

const productSelect = `
        SELECT p.id, p.nome, p.descricao, p.preco::text, p.carencia, p.status, p.data_atualizacao,
               c.id, c.nome, u.id, u.nome, u.usuario
        FROM tb_produtos p
        JOIN tb_categorias c ON c.id = p.categoria_id
        LEFT JOIN tb_usuarios u ON u.id = p.usuario_id`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var (
		p                  models.Product
		preco              string
		ownerID            *int64
		ownerNome, ownerUs *string
	)
	err := row.Scan(
		&p.ID,
		&p.Nome,
		&p.Descricao,
		&preco,
		&p.Carencia,
		&p.Status,
		&p.DataAtualizacao,
		&p.Categoria.ID,
		&p.Categoria.Nome,
		&ownerID,
		&ownerNome,
		&ownerUs,
	)
	if err != nil {
		return nil, err
	}

	if p.Preco, err = models.ParsePrice(preco); err != nil {
		return nil, fmt.Errorf("preço inválido no banco: %w", err)
	}
	if ownerID != nil {
		ref := &models.AccountRef{ID: *ownerID}
		if ownerNome != nil {
			ref.Nome = *ownerNome
		}
		if ownerUs != nil {
			ref.Usuario = *ownerUs
		}
		p.Usuario = ref
	}
	return &p, nil
}

func ownerParam(p *models.Product) *int64 {
	if p.Usuario == nil {
		return nil
	}
	id := p.Usuario.ID
	return &id
}

func (s *PostgresStore) CreateProduct(ctx context.Context, product *models.Product) error {
	sql := `
        INSERT INTO tb_produtos (nome, descricao, preco, carencia, status, data_atualizacao, categoria_id, usuario_id)
        VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8)
        RETURNING id`

	err := s.db.QueryRow(ctx, sql,
		product.Nome,
		product.Descricao,
		product.Preco.String(),
		product.Carencia,
		product.Status,
		product.DataAtualizacao,
		product.Categoria.ID,
		ownerParam(product),
	).Scan(&product.ID)
	if err != nil {
		return translate(err, "produto")
	}
	return nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	sql := `
        UPDATE tb_produtos SET
            nome = $2, descricao = $3, preco = $4::numeric, carencia = $5, status = $6,
            data_atualizacao = $7, categoria_id = $8, usuario_id = $9
        WHERE id = $1`

	tag, err := s.db.Exec(ctx, sql,
		product.ID,
		product.Nome,
		product.Descricao,
		product.Preco.String(),
		product.Carencia,
		product.Status,
		product.DataAtualizacao,
		product.Categoria.ID,
		ownerParam(product),
	)
	if err != nil {
		return translate(err, fmt.Sprintf("produto %d", product.ID))
	}
	return expectOne(tag, fmt.Sprintf("produto %d", product.ID))
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tb_produtos WHERE id = $1`, id)
	if err != nil {
		return translate(err, fmt.Sprintf("produto %d", id))
	}
	return expectOne(tag, fmt.Sprintf("produto %d", id))
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("produto %d", id))
	}
	return p, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context, filter ProductFilter) ([]*models.Product, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.OwnerID != 0 {
		args = append(args, filter.OwnerID)
		conds = append(conds, fmt.Sprintf("p.usuario_id = $%d", len(args)))
	}
	if filter.NameContains != "" {
		args = append(args, likePattern(filter.NameContains))
		conds = append(conds, fmt.Sprintf("p.nome ILIKE $%d", len(args)))
	}

	sql := productSelect
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += " ORDER BY p.id"

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar produtos: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao escanear linha de produto: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os produtos: %w", err)
	}
	return products, nil
}

// --- ClientStore ---

const clientColumns = `id, nome, rg, cpf, to_char(data_nasc, 'YYYY-MM-DD'), telefone, email, endereco`

func scanClient(row pgx.Row) (*models.Client, error) {
	c := &models.Client{}
	err := row.Scan(&c.ID, &c.Nome, &c.RG, &c.CPF, &c.DataNasc, &c.Telefone, &c.Email, &c.Endereco)
	return c, err
}

func (s *PostgresStore) CreateClient(ctx context.Context, client *models.Client) error {
	sql := `
        INSERT INTO tb_clientes (nome, rg, cpf, data_nasc, telefone, email, endereco)
        VALUES ($1, $2, $3, $4::date, $5, $6, $7)
        RETURNING id`

	err := s.db.QueryRow(ctx, sql,
		client.Nome, client.RG, client.CPF, client.DataNasc, client.Telefone, client.Email, client.Endereco,
	).Scan(&client.ID)
	if err != nil {
		return translate(err, "cliente")
	}
	return nil
}

func (s *PostgresStore) UpdateClient(ctx context.Context, client *models.Client) error {
	sql := `
        UPDATE tb_clientes SET
            nome = $2, rg = $3, cpf = $4, data_nasc = $5::date, telefone = $6, email = $7, endereco = $8
        WHERE id = $1`

	tag, err := s.db.Exec(ctx, sql,
		client.ID, client.Nome, client.RG, client.CPF, client.DataNasc, client.Telefone, client.Email, client.Endereco,
	)
	if err != nil {
		return translate(err, fmt.Sprintf("cliente %d", client.ID))
	}
	return expectOne(tag, fmt.Sprintf("cliente %d", client.ID))
}

func (s *PostgresStore) DeleteClient(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tb_clientes WHERE id = $1`, id)
	if err != nil {
		return translate(err, fmt.Sprintf("cliente %d", id))
	}
	return expectOne(tag, fmt.Sprintf("cliente %d", id))
}

func (s *PostgresStore) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	c, err := scanClient(s.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM tb_clientes WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("cliente %d", id))
	}
	return c, nil
}

func (s *PostgresStore) queryClients(ctx context.Context, where string, args ...any) ([]*models.Client, error) {
	rows, err := s.db.Query(ctx, `SELECT `+clientColumns+` FROM tb_clientes `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar clientes: %w", err)
	}
	defer rows.Close()

	clients := []*models.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao escanear linha de cliente: %w", err)
		}
		clients = append(clients, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os clientes: %w", err)
	}
	return clients, nil
}

func (s *PostgresStore) ListClients(ctx context.Context) ([]*models.Client, error) {
	return s.queryClients(ctx, "")
}

func (s *PostgresStore) SearchClientsByName(ctx context.Context, nome string) ([]*models.Client, error) {
	return s.queryClients(ctx, "WHERE nome ILIKE $1", likePattern(nome))
}
