package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Price é um valor monetário em centavos. Na API trafega como número JSON com no máximo
// duas casas decimais.
type Price int64

// MaxPrice é o maior valor que cabe em NUMERIC(10, 2): 99.999.999,99
const MaxPrice Price = 9999999999

// Valid indica se o preço é positivo e cabe na coluna do banco
func (p Price) Valid() bool {
	return p > 0 && p <= MaxPrice
}

// ParsePrice converte "199.9", "199.90" ou "199" em centavos. Rejeita mais de duas casas
// decimais e notação exponencial.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("preço vazio")
	}

	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" || (hasDot && frac == "") {
		return 0, fmt.Errorf("preço malformado: %q", s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("preço com mais de duas casas decimais: %q", s)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("preço malformado: %q", s)
	}

	for len(frac) < 2 {
		frac += "0"
	}

	cents, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("preço fora do intervalo: %w", err)
	}
	if neg {
		cents = -cents
	}
	return Price(cents), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String formata com duas casas decimais
func (p Price) String() string {
	v := int64(p)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	// aceita também o valor entre aspas
	s = strings.Trim(s, `"`)
	v, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
