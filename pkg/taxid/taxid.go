// Package taxid validates Brazilian national identifiers (CPF for natural
// persons, CNPJ for organizations) using their modulo-11 check-digit
// algorithms. Both functions are pure and accept formatted input
// (punctuation is stripped before validation).
package taxid

import "strings"

// StripNonDigits removes every non-digit rune from s. Exposed so callers can
// normalize identifiers before storing them.
func StripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSame(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// checkDigitDescending computes a modulo-11 check digit for slice using
// weights descending from len(slice)+1 down to 2 (the CPF scheme).
func checkDigitDescending(slice string) int {
	sum := 0
	multiplier := len(slice) + 1
	for i := 0; i < len(slice); i++ {
		sum += int(slice[i]-'0') * multiplier
		multiplier--
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

// checkDigitWeighted computes a modulo-11 check digit for slice using the
// given fixed weight vector (the CNPJ scheme).
func checkDigitWeighted(slice string, weights []int) int {
	sum := 0
	for i := 0; i < len(slice); i++ {
		sum += int(slice[i]-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

// IsValidCPF reports whether cpf is a structurally valid CPF: exactly 11
// digits after stripping punctuation, not all identical, with both check
// digits matching.
func IsValidCPF(cpf string) bool {
	digits := StripNonDigits(cpf)
	if len(digits) != 11 || allSame(digits) {
		return false
	}

	first := checkDigitDescending(digits[:9])
	if int(digits[9]-'0') != first {
		return false
	}

	second := checkDigitDescending(digits[:10])
	return int(digits[10]-'0') == second
}

var (
	cnpjWeightsFirst  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeightsSecond = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// IsValidCNPJ reports whether cnpj is a structurally valid CNPJ: exactly 14
// digits after stripping punctuation, not all identical, with both check
// digits matching.
func IsValidCNPJ(cnpj string) bool {
	digits := StripNonDigits(cnpj)
	if len(digits) != 14 || allSame(digits) {
		return false
	}

	first := checkDigitWeighted(digits[:12], cnpjWeightsFirst)
	if int(digits[12]-'0') != first {
		return false
	}

	second := checkDigitWeighted(digits[:13], cnpjWeightsSecond)
	return int(digits[13]-'0') == second
}
