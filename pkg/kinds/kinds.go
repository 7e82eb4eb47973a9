// Package kinds registers the document kinds the office produces. Each kind
// ties a template title to its field mapper, page layout and the images it
// needs at render time.
package kinds

import (
	"github.com/goliatone/go-legaldocs/pkg/adapters"
	"github.com/goliatone/go-legaldocs/pkg/assets"
)

// Known document titles.
const (
	NonReceiptStatement     = "Declaração de Não Recebimento"
	RuralSelfDeclaration    = "Autodeclaração Rural"
	JudicialPowerOfAttorney = "Procuração e Declaração Judicial"
	PersonalPowerOfAttorney = "Procuração Pessoa Física"
	LoasSicknessAid         = "LOAS - Auxílio-Doença"
	LoasDisabilityBenefit   = "LOAS - Benefício para Deficiente"
	LoasElderlyBenefit      = "LOAS - Idoso"
	InssPowerOfAttorney     = "Procuração INSS"
	FeeAgreement            = "Contrato de Honorários"
	InssRepresentationTerm  = "Termo de Representação INSS"
)

// Builtin returns the kinds bundled with the module.
func Builtin() []Kind {
	return []Kind{
		{Title: NonReceiptStatement, Folder: "declaracao-nao-recebimento", Map: adapters.NonReceiptStatement, Layout: DefaultLayout},
		{
			Title:  RuralSelfDeclaration,
			Folder: "autodeclaracao-rural",
			Map:    adapters.RuralSelfDeclaration,
			Layout: ruralLayout,
			Images: []Image{{Path: "document.brasaoImage", Asset: assets.Brasao}},
		},
		{Title: JudicialPowerOfAttorney, Folder: "procuracao-declaracao-judiciais", Map: adapters.JudicialPowerOfAttorney, Layout: judicialLayout},
		{Title: PersonalPowerOfAttorney, Folder: "procuracao-pp", Map: adapters.PersonalPowerOfAttorney, Layout: personalLayout},
		{Title: LoasSicknessAid, Folder: "loas-auxilio-doenca", Map: adapters.LoasSicknessAid, Layout: DefaultLayout},
		{
			Title:  LoasDisabilityBenefit,
			Folder: "loas-deficiencia",
			Map:    adapters.LoasDisabilityBenefit,
			Layout: plainLayout("1cm"),
			Images: []Image{{Path: "document.logoUrl", Asset: assets.Logo}},
		},
		{Title: LoasElderlyBenefit, Folder: "loas-idoso", Map: adapters.LoasElderlyBenefit, Layout: elderlyLayout},
		{
			Title:  InssPowerOfAttorney,
			Folder: "procuracao-inss",
			Map:    adapters.InssPowerOfAttorney,
			Layout: plainLayout("20px"),
			Images: []Image{{Path: "document.brasaoImage", Asset: assets.Brasao}},
		},
		{Title: FeeAgreement, Folder: "contrato-honorarios", Map: adapters.FeeAgreement, Layout: contractLayout},
		{Title: InssRepresentationTerm, Folder: "termo-representacao-inss", Map: adapters.InssRepresentationTerm, Layout: DefaultLayout},
	}
}

// Default returns a registry holding every builtin kind.
func Default() *Registry {
	r := NewRegistry()
	for _, kind := range Builtin() {
		r.MustRegister(kind)
	}
	return r
}
