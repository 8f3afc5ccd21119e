package service

import (
	"errors"
	"fmt"
	"strings"

	"crm-backend/internal/auth"
	"crm-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// Região usada para interpretar telefones sem código de país
const defaultPhoneRegion = "BR"

// AccountInput é o payload de criação e atualização de conta
type AccountInput struct {
	ID       int64         `json:"id"`
	Nome     string        `json:"nome" validate:"required,max=100"`
	Usuario  string        `json:"usuario" validate:"required,email,max=100"`
	Senha    string        `json:"senha" validate:"omitempty,min=8,bcryptlen"`
	Perfil   models.Perfil `json:"perfil" validate:"required,perfil"`
	CPF      string        `json:"cpf" validate:"omitempty,numeric,len=11"`
	DataNasc string        `json:"dataNasc" validate:"omitempty,datetime=2006-01-02"`
	Telefone string        `json:"telefone" validate:"omitempty,phone"`
	Endereco string        `json:"endereco" validate:"omitempty,max=100"`
	Foto     string        `json:"foto" validate:"omitempty,url,max=5000"`
}

// ProfileOp distingue criação de atualização
type ProfileOp int

const (
	ProfileCreate ProfileOp = iota
	ProfileUpdate
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", validatePhone)
	// bcrypt conta bytes, não caracteres
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= auth.MaxPasswordBytes
	})
	_ = v.RegisterValidation("perfil", func(fl validator.FieldLevel) bool {
		return models.Perfil(fl.Field().String()).IsValid()
	})
	return v
}

func validatePhone(fl validator.FieldLevel) bool {
	num, err := phonenumbers.Parse(fl.Field().String(), defaultPhoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// NormalizePhone devolve o telefone em E.164 para que a unicidade não dependa da formatação
func NormalizePhone(raw string) string {
	if raw == "" {
		return ""
	}
	num, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// ValidateStruct roda as tags `validate` de um payload e devolve ErrInvalidInput
// listando os campos rejeitados
func ValidateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return invalid("campos inválidos: %s", strings.Join(fields, ", "))
		}
		return invalid("%v", err)
	}
	return nil
}

// ValidateProfile aplica as regras de formato e as regras por perfil:
// ADMIN não pode ter nenhum dado pessoal, CLIENTE precisa de CPF, data de
// nascimento, telefone e endereço juntos. Foto é opcional para CLIENTE.
func ValidateProfile(in AccountInput, op ProfileOp) error {
	if op == ProfileCreate && in.Senha == "" {
		return invalid("senha é obrigatória")
	}
	if op == ProfileUpdate && in.ID <= 0 {
		return invalid("id da conta é obrigatório")
	}
	if err := ValidateStruct(in); err != nil {
		return err
	}

	switch in.Perfil {
	case models.PerfilAdmin:
		if present := presentPersonalFields(in); len(present) > 0 {
			return invalid("perfil ADMIN não aceita %s", strings.Join(present, ", "))
		}
	case models.PerfilCliente:
		if missing := missingClienteFields(in); len(missing) > 0 {
			return invalid("perfil CLIENTE exige %s", strings.Join(missing, ", "))
		}
	}
	return nil
}

func presentPersonalFields(in AccountInput) []string {
	var present []string
	if in.CPF != "" {
		present = append(present, "cpf")
	}
	if in.DataNasc != "" {
		present = append(present, "dataNasc")
	}
	if in.Telefone != "" {
		present = append(present, "telefone")
	}
	if in.Endereco != "" {
		present = append(present, "endereco")
	}
	if in.Foto != "" {
		present = append(present, "foto")
	}
	return present
}

func missingClienteFields(in AccountInput) []string {
	var missing []string
	if in.CPF == "" {
		missing = append(missing, "cpf")
	}
	if in.DataNasc == "" {
		missing = append(missing, "dataNasc")
	}
	if in.Telefone == "" {
		missing = append(missing, "telefone")
	}
	if in.Endereco == "" {
		missing = append(missing, "endereco")
	}
	return missing
}
