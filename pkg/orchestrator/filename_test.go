package orchestrator_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-legaldocs/pkg/kinds"
	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
)

func TestSlug(t *testing.T) {
	tests := map[string]string{
		kinds.LoasSicknessAid:        "loas-auxilio-doenca",
		kinds.NonReceiptStatement:    "declaracao-de-nao-recebimento",
		kinds.InssRepresentationTerm: "termo-de-representacao-inss",
		"  ../Contrato  ":            "contrato",
		"":                           "documento",
		"!!!":                        "documento",
	}
	for in, want := range tests {
		if got := orchestrator.Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilePath(t *testing.T) {
	at := time.UnixMilli(1709640000123)

	tests := []struct {
		name   string
		title  string
		client string
		suffix string
		want   string
	}{
		{
			name:   "accents and spaces",
			title:  kinds.FeeAgreement,
			client: "José da Conceição",
			suffix: "9f3a",
			want:   "uploads/contrato-de-honorarios-Jose_da_Conceicao-1709640000123-9f3a.pdf",
		},
		{
			name:   "path characters dropped",
			title:  "Procuração/INSS",
			client: "../etc/passwd",
			suffix: "x",
			want:   "uploads/procuracao-inss-etc_passwd-1709640000123-x.pdf",
		},
		{
			name:   "empty client and suffix",
			title:  kinds.LoasElderlyBenefit,
			client: "  ",
			want:   "uploads/loas-idoso-cliente-1709640000123.pdf",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := orchestrator.FilePath("uploads", tc.title, tc.client, at, tc.suffix); got != tc.want {
				t.Fatalf("FilePath = %q, want %q", got, tc.want)
			}
		})
	}
}
