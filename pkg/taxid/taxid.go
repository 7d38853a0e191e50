// Package taxid valida documentos de identidad tributaria peruanos (RUC y DNI).
package taxid

import (
	"fmt"
	"strings"
	"unicode"
)

// Tipos de documento aceptados para clientes.
const (
	DocDNI = "DNI"
	DocRUC = "RUC"
	DocCE  = "CE"
)

// pesos SUNAT para el dígito verificador del RUC, sobre los 10 primeros dígitos.
var rucWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// prefijos válidos: 10 persona natural, 15/17 no domiciliados y otros, 20 persona jurídica.
var rucPrefixes = []string{"10", "15", "17", "20"}

// ValidateRUC verifica longitud, prefijo y dígito verificador (módulo 11).
func ValidateRUC(ruc string) error {
	digits, ok := onlyDigits(ruc)
	if !ok || len(digits) != 11 {
		return fmt.Errorf("taxid: RUC debe tener 11 dígitos")
	}
	if !hasPrefix(digits) {
		return fmt.Errorf("taxid: prefijo de RUC inválido %s", digits[:2])
	}
	expected := ComputeRUCCheckDigit(digits[:10])
	if digits[10] != expected {
		return fmt.Errorf("taxid: dígito verificador del RUC inválido: esperado %c, recibido %c", expected, digits[10])
	}
	return nil
}

// ComputeRUCCheckDigit calcula el dígito verificador para los 10 primeros dígitos.
// base debe contener solo dígitos.
func ComputeRUCCheckDigit(base string) byte {
	var sum int
	for i := 0; i < len(rucWeights) && i < len(base); i++ {
		sum += int(base[i]-'0') * rucWeights[i]
	}
	d := 11 - sum%11
	switch d {
	case 10:
		d = 0
	case 11:
		d = 1
	}
	return byte('0' + d)
}

// ValidateDNI exige exactamente 8 dígitos.
func ValidateDNI(dni string) error {
	digits, ok := onlyDigits(dni)
	if !ok || len(digits) != 8 {
		return fmt.Errorf("taxid: DNI debe tener 8 dígitos")
	}
	return nil
}

// ValidateDocument valida number según docType. CE solo exige entre 8 y 12 caracteres alfanuméricos.
func ValidateDocument(docType, number string) error {
	switch strings.ToUpper(docType) {
	case DocDNI:
		return ValidateDNI(number)
	case DocRUC:
		return ValidateRUC(number)
	case DocCE:
		n := strings.TrimSpace(number)
		if len(n) < 8 || len(n) > 12 {
			return fmt.Errorf("taxid: carné de extranjería debe tener entre 8 y 12 caracteres")
		}
		for _, r := range n {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return fmt.Errorf("taxid: carné de extranjería con caracteres inválidos")
			}
		}
		return nil
	default:
		return fmt.Errorf("taxid: tipo de documento desconocido %q", docType)
	}
}

func onlyDigits(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return "", false
		}
	}
	return s, true
}

func hasPrefix(digits string) bool {
	for _, p := range rucPrefixes {
		if strings.HasPrefix(digits, p) {
			return true
		}
	}
	return false
}
