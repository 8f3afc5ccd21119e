package service

import (
	"strings"
	"testing"

	"crm-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateProfile(t *testing.T) {
	cliente := clienteInput("cli@crm.com", "12345678901", "+5511987654321")

	tests := []struct {
		name    string
		mutate  func(in *AccountInput)
		base    AccountInput
		op      ProfileOp
		wantErr bool
	}{
		{name: "admin sem dados pessoais", base: adminInput("adm@crm.com")},
		{name: "admin com telefone", base: adminInput("adm@crm.com"), mutate: func(in *AccountInput) { in.Telefone = "+5511987654321" }, wantErr: true},
		{name: "admin com cpf", base: adminInput("adm@crm.com"), mutate: func(in *AccountInput) { in.CPF = "12345678901" }, wantErr: true},
		{name: "admin com foto", base: adminInput("adm@crm.com"), mutate: func(in *AccountInput) { in.Foto = "https://cdn.crm.com/a.png" }, wantErr: true},
		{name: "cliente completo", base: cliente},
		{name: "cliente com foto", base: cliente, mutate: func(in *AccountInput) { in.Foto = "https://cdn.crm.com/a.png" }},
		{name: "cliente sem cpf", base: cliente, mutate: func(in *AccountInput) { in.CPF = "" }, wantErr: true},
		{name: "cliente sem data", base: cliente, mutate: func(in *AccountInput) { in.DataNasc = "" }, wantErr: true},
		{name: "cliente sem telefone", base: cliente, mutate: func(in *AccountInput) { in.Telefone = "" }, wantErr: true},
		{name: "cliente sem endereço", base: cliente, mutate: func(in *AccountInput) { in.Endereco = "" }, wantErr: true},
		{name: "login não é e-mail", base: cliente, mutate: func(in *AccountInput) { in.Usuario = "cliente" }, wantErr: true},
		{name: "cpf curto", base: cliente, mutate: func(in *AccountInput) { in.CPF = "123" }, wantErr: true},
		{name: "data inválida", base: cliente, mutate: func(in *AccountInput) { in.DataNasc = "12/04/1990" }, wantErr: true},
		{name: "telefone inválido", base: cliente, mutate: func(in *AccountInput) { in.Telefone = "123" }, wantErr: true},
		{name: "senha curta", base: cliente, mutate: func(in *AccountInput) { in.Senha = "curta" }, wantErr: true},
		{name: "senha multibyte acima de 72 bytes", base: cliente, mutate: func(in *AccountInput) { in.Senha = strings.Repeat("é", 40) }, wantErr: true},
		{name: "senha multibyte dentro do limite", base: cliente, mutate: func(in *AccountInput) { in.Senha = strings.Repeat("é", 36) }},
		{name: "senha ausente na criação", base: cliente, mutate: func(in *AccountInput) { in.Senha = "" }, wantErr: true},
		{name: "senha ausente na atualização", base: cliente, op: ProfileUpdate, mutate: func(in *AccountInput) { in.ID = 1; in.Senha = "" }},
		{name: "atualização sem id", base: cliente, op: ProfileUpdate, wantErr: true},
		{name: "perfil desconhecido", base: cliente, mutate: func(in *AccountInput) { in.Perfil = models.Perfil("USER") }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.base
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			err := ValidateProfile(in, tt.op)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+5511987654321", NormalizePhone("(11) 98765-4321"))
	assert.Equal(t, "+5511987654321", NormalizePhone("+55 11 98765-4321"))
	assert.Equal(t, "", NormalizePhone(""))
}
