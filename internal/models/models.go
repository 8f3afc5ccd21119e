package models

import (
	"time"
)

// Perfil é a classificação fixa de uma conta
type Perfil string

const (
	PerfilAdmin   Perfil = "ADMIN"
	PerfilCliente Perfil = "CLIENTE"
)

// IsValid indica se o perfil pertence à enumeração
func (p Perfil) IsValid() bool {
	switch p {
	case PerfilAdmin, PerfilCliente:
		return true
	default:
		return false
	}
}

// Account representa uma conta de usuário (ADMIN ou CLIENTE)
type Account struct {
	ID        int64  `json:"id"`
	Nome      string `json:"nome"`
	Usuario   string `json:"usuario"` // e-mail usado no login, único
	SenhaHash string `json:"-"`       // Nunca expor em JSON
	Perfil    Perfil `json:"perfil"`

	// Campos pessoais: obrigatórios para CLIENTE, proibidos para ADMIN
	CPF      string `json:"cpf,omitempty"`
	DataNasc string `json:"dataNasc,omitempty"` // YYYY-MM-DD
	Telefone string `json:"telefone,omitempty"`
	Endereco string `json:"endereco,omitempty"`
	Foto     string `json:"foto,omitempty"`
}

// PublicAccount é a projeção de Account sem o segredo. É o único formato de conta que sai
// da camada de serviço.
type PublicAccount struct {
	ID       int64  `json:"id"`
	Nome     string `json:"nome"`
	Usuario  string `json:"usuario"`
	Perfil   Perfil `json:"perfil"`
	CPF      string `json:"cpf,omitempty"`
	DataNasc string `json:"dataNasc,omitempty"`
	Telefone string `json:"telefone,omitempty"`
	Endereco string `json:"endereco,omitempty"`
	Foto     string `json:"foto,omitempty"`
}

// Public projeta a conta sem o hash da senha
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:       a.ID,
		Nome:     a.Nome,
		Usuario:  a.Usuario,
		Perfil:   a.Perfil,
		CPF:      a.CPF,
		DataNasc: a.DataNasc,
		Telefone: a.Telefone,
		Endereco: a.Endereco,
		Foto:     a.Foto,
	}
}

// HasPersonalData indica se algum campo pessoal está preenchido
func (a *Account) HasPersonalData() bool {
	return a.CPF != "" || a.DataNasc != "" || a.Telefone != "" || a.Endereco != "" || a.Foto != ""
}

// AccountRef é a referência resumida ao dono de um produto
type AccountRef struct {
	ID      int64  `json:"id"`
	Nome    string `json:"nome,omitempty"`
	Usuario string `json:"usuario,omitempty"`
}

// ProductStatus é o estado de um produto no ciclo comercial
type ProductStatus string

const (
	StatusDisponivel   ProductStatus = "DISPONIVEL"
	StatusEmNegociacao ProductStatus = "EM_NEGOCIACAO"
	StatusFechado      ProductStatus = "FECHADO"
)

// IsValid indica se o status pertence à enumeração
func (s ProductStatus) IsValid() bool {
	switch s {
	case StatusDisponivel, StatusEmNegociacao, StatusFechado:
		return true
	default:
		return false
	}
}

// Category agrupa produtos
type Category struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

// Product é um item de catálogo (DISPONIVEL, sem dono) ou uma oportunidade
// (EM_NEGOCIACAO/FECHADO, com dono)
type Product struct {
	ID              int64         `json:"id"`
	Nome            string        `json:"nome"`
	Descricao       string        `json:"descricao"`
	Preco           Price         `json:"preco"`
	Carencia        *int          `json:"carencia,omitempty"`
	Status          ProductStatus `json:"status"`
	DataAtualizacao time.Time     `json:"dataAtualizacao"`
	Categoria       Category      `json:"categoria"`
	Usuario         *AccountRef   `json:"usuario,omitempty"`
}

// IsCatalogItem indica se o produto é um item de catálogo
func (p *Product) IsCatalogItem() bool {
	return p.Status == StatusDisponivel && p.Usuario == nil
}

// OwnerID retorna o id do dono, ou 0 se não houver
func (p *Product) OwnerID() int64 {
	if p.Usuario == nil {
		return 0
	}
	return p.Usuario.ID
}

// Client é o cadastro de clientes do CRM
type Client struct {
	ID       int64  `json:"id"`
	Nome     string `json:"nome" validate:"required,max=100"`
	RG       string `json:"rg" validate:"required,max=11"`
	CPF      string `json:"cpf" validate:"required,numeric,len=11"`
	DataNasc string `json:"dataNasc" validate:"required,datetime=2006-01-02"`
	Telefone string `json:"telefone" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Endereco string `json:"endereco" validate:"required,max=100"`
}
