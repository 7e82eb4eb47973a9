package normalize

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/payload"
	"github.com/goliatone/go-legaldocs/pkg/ptbr"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   payload.Payload
		want payload.Payload
	}{
		{
			name: "lifts identity fields",
			in:   payload.Payload{"rg": "12", "cpf": "34", "other": true},
			want: payload.Payload{"client": payload.Payload{"rg": "12", "cpf": "34"}, "other": true},
		},
		{
			name: "keeps nested identity",
			in:   payload.Payload{"rg": "top", "client": payload.Payload{"rg": "nested"}},
			want: payload.Payload{"rg": "top", "client": payload.Payload{"rg": "nested"}},
		},
		{
			name: "splits document date and renames location",
			in: payload.Payload{"document": payload.Payload{
				"documentDate":     "2024-03-05",
				"documentLocation": "Barueri",
			}},
			want: payload.Payload{"document": payload.Payload{
				"day": "05", "month": "03", "year": "2024", "location": "Barueri",
			}},
		},
		{
			name: "assembles address omitting empty fragments",
			in: payload.Payload{"client": payload.Payload{
				"logradouro": "Rua A", "numero": "10", "complemento": "", "bairro": "Centro",
			}},
			want: payload.Payload{"client": payload.Payload{
				"logradouro": "Rua A", "numero": "10", "complemento": "", "bairro": "Centro",
				"address": "Rua A, 10, Centro",
			}},
		},
		{
			name: "assembles translated address with city and state",
			in: payload.Payload{"client": payload.Payload{
				"street": "Av B", "number": "2", "neighborhood": "Polvilho", "city": "Cajamar", "state": "SP",
			}},
			want: payload.Payload{"client": payload.Payload{
				"street": "Av B", "number": "2", "neighborhood": "Polvilho", "city": "Cajamar", "state": "SP",
				"address": "Av B, 2, Polvilho, Cajamar/SP",
			}},
		},
		{
			name: "keeps existing address",
			in:   payload.Payload{"client": payload.Payload{"address": "Rua X", "street": "Rua Y"}},
			want: payload.Payload{"client": payload.Payload{"address": "Rua X", "street": "Rua Y"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("normalize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := payload.Payload{"cpf": "1", "document": payload.Payload{"documentDate": "2024-03-05"}}
	if _, err := Normalize(in); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if _, ok := in["cpf"]; !ok {
		t.Fatalf("input cpf removed")
	}
	if v, _ := in.Get("document.documentDate"); v != "2024-03-05" {
		t.Fatalf("input document date changed: %v", v)
	}
}

func TestNormalize_IsIdempotent(t *testing.T) {
	in := payload.Payload{
		"cpf":      "1",
		"rg":       "2",
		"document": payload.Payload{"documentDate": "2024-03-05", "documentLocation": "Barueri"},
		"client":   payload.Payload{"street": "Rua A", "number": "1"},
	}
	once, err := Normalize(in)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	twice, err := Normalize(once)
	if err != nil {
		t.Fatalf("normalize twice: %v", err)
	}
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("normalize not idempotent (-once +twice):\n%s", diff)
	}
}

func TestNormalize_MalformedDate(t *testing.T) {
	_, err := Normalize(payload.Payload{"document": payload.Payload{"documentDate": "31/31/31"}})
	if !errors.Is(err, ptbr.ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate, got %v", err)
	}
}
