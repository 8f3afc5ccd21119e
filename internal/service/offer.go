package service

import (
	"time"

	"crm-backend/internal/models"
)

// NewOpportunity constrói a oportunidade de um cliente a partir de um item de catálogo.
// Copia nome, descrição, preço, carência e categoria; id, status, dono e data de
// atualização são sempre definidos aqui. A origem não é alterada.
func NewOpportunity(source *models.Product, owner *models.Account, now time.Time) *models.Product {
	var carencia *int
	if source.Carencia != nil {
		c := *source.Carencia
		carencia = &c
	}
	return &models.Product{
		ID:              0,
		Nome:            source.Nome,
		Descricao:       source.Descricao,
		Preco:           source.Preco,
		Carencia:        carencia,
		Status:          models.StatusEmNegociacao,
		DataAtualizacao: now,
		Categoria:       source.Categoria,
		Usuario: &models.AccountRef{
			ID:      owner.ID,
			Nome:    owner.Nome,
			Usuario: owner.Usuario,
		},
	}
}

// CanTransition diz se um produto pode ir de from para to numa atualização.
// Manter o status é sempre permitido; a única mudança é EM_NEGOCIACAO → FECHADO.
// A entrada em EM_NEGOCIACAO só acontece por aquisição.
func CanTransition(from, to models.ProductStatus) bool {
	if !to.IsValid() {
		return false
	}
	if from == to {
		return true
	}
	return from == models.StatusEmNegociacao && to == models.StatusFechado
}
