// Package validation provides stateless format and checksum validators for
// the customer-facing fields: email, Brazilian tax IDs (CPF/CNPJ), phone
// numbers and postal codes (CEP).
package validation

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail checks basic email address format
func ValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return emailPattern.MatchString(email)
}

// digitsOnly strips every non-digit character
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// allSame reports whether every byte of s equals the first
func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// checkDigit computes a modulo-11 check digit for the given digits and
// weights. Results of 10 or 11 collapse to 0.
func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	d := 11 - sum%11
	if d >= 10 {
		d = 0
	}
	return d
}

// ValidCPF validates an 11-digit individual tax ID using both check digits.
// Repeated-digit sequences are rejected even though the checksum arithmetic
// would accept some of them.
func ValidCPF(cpf string) bool {
	cpf = digitsOnly(cpf)
	if len(cpf) != 11 {
		return false
	}
	if allSame(cpf) {
		return false
	}

	d1 := checkDigit(cpf[:9], []int{10, 9, 8, 7, 6, 5, 4, 3, 2})
	d2 := checkDigit(cpf[:10], []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2})

	return int(cpf[9]-'0') == d1 && int(cpf[10]-'0') == d2
}

// ValidCNPJ validates a 14-digit organization tax ID using both check digits
func ValidCNPJ(cnpj string) bool {
	cnpj = digitsOnly(cnpj)
	if len(cnpj) != 14 {
		return false
	}
	if allSame(cnpj) {
		return false
	}

	d1 := checkDigit(cnpj[:12], []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	d2 := checkDigit(cnpj[:13], []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})

	return int(cnpj[12]-'0') == d1 && int(cnpj[13]-'0') == d2
}

// ValidTaxID validates either tax ID form, auto-selected by digit count
// after stripping formatting: 11 digits → CPF, 14 digits → CNPJ.
func ValidTaxID(doc string) bool {
	switch len(digitsOnly(doc)) {
	case 11:
		return ValidCPF(doc)
	case 14:
		return ValidCNPJ(doc)
	}
	return false
}

// ValidPhone accepts landline (10-digit) and mobile (11-digit) numbers in
// any formatting.
func ValidPhone(phone string) bool {
	if phone == "" {
		return false
	}
	n := len(digitsOnly(phone))
	return n == 10 || n == 11
}

// ValidCEP checks an 8-digit postal code in any formatting
func ValidCEP(cep string) bool {
	if cep == "" {
		return false
	}
	return len(digitsOnly(cep)) == 8
}
