package validation

import "testing"

func TestValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@example.com.br",
		"sales+crm@sub.example.org",
		"num3rs@example.io",
	}
	for _, email := range valid {
		if !ValidEmail(email) {
			t.Errorf("expected email %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@example",
		"user @example.com",
	}
	for _, email := range invalid {
		if ValidEmail(email) {
			t.Errorf("expected email %q to be invalid", email)
		}
	}
}

func TestValidCPF(t *testing.T) {
	valid := []string{
		"52998224725",
		"529.982.247-25", // formatting is stripped
		"11144477735",
	}
	for _, cpf := range valid {
		if !ValidCPF(cpf) {
			t.Errorf("expected CPF %q to be valid", cpf)
		}
	}

	invalid := []struct {
		cpf    string
		reason string
	}{
		{"", "empty"},
		{"5299822472", "too short"},
		{"529982247255", "too long"},
		{"52998224724", "wrong second check digit"},
		{"52998224735", "wrong first check digit"},
		{"11111111111", "repeated digits"},
		{"00000000000", "repeated zeros"},
	}
	for _, tc := range invalid {
		if ValidCPF(tc.cpf) {
			t.Errorf("expected CPF %q to be invalid (%s)", tc.cpf, tc.reason)
		}
	}
}

func TestValidCNPJ(t *testing.T) {
	valid := []string{
		"11222333000181",
		"11.222.333/0001-81", // formatting is stripped
	}
	for _, cnpj := range valid {
		if !ValidCNPJ(cnpj) {
			t.Errorf("expected CNPJ %q to be valid", cnpj)
		}
	}

	invalid := []struct {
		cnpj   string
		reason string
	}{
		{"", "empty"},
		{"1122233300018", "too short"},
		{"11222333000180", "wrong check digit"},
		{"11111111111111", "repeated digits"},
	}
	for _, tc := range invalid {
		if ValidCNPJ(tc.cnpj) {
			t.Errorf("expected CNPJ %q to be invalid (%s)", tc.cnpj, tc.reason)
		}
	}
}

func TestValidTaxID_SelectsByDigitCount(t *testing.T) {
	if !ValidTaxID("529.982.247-25") {
		t.Error("expected 11-digit document to validate as CPF")
	}
	if !ValidTaxID("11.222.333/0001-81") {
		t.Error("expected 14-digit document to validate as CNPJ")
	}
	if ValidTaxID("123456789012") {
		t.Error("expected 12-digit document to be invalid")
	}
	if ValidTaxID("") {
		t.Error("expected empty document to be invalid")
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{
		"1133334444",      // landline
		"11999998888",     // mobile
		"(11) 3333-4444",  // formatted landline
		"(11) 99999-8888", // formatted mobile
	}
	for _, phone := range valid {
		if !ValidPhone(phone) {
			t.Errorf("expected phone %q to be valid", phone)
		}
	}

	invalid := []string{"", "12345", "119999988887"}
	for _, phone := range invalid {
		if ValidPhone(phone) {
			t.Errorf("expected phone %q to be invalid", phone)
		}
	}
}

func TestValidCEP(t *testing.T) {
	valid := []string{"01310100", "01310-100"}
	for _, cep := range valid {
		if !ValidCEP(cep) {
			t.Errorf("expected CEP %q to be valid", cep)
		}
	}

	invalid := []string{"", "0131010", "013101000"}
	for _, cep := range invalid {
		if ValidCEP(cep) {
			t.Errorf("expected CEP %q to be invalid", cep)
		}
	}
}
