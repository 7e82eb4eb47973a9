package adapters

import (
	"github.com/goliatone/go-legaldocs/pkg/payload"
	"github.com/goliatone/go-legaldocs/pkg/ptbr"
)

var feeAgreementMoves = []fieldMove{
	{"judicialSuccessPercentage", "contract.judicialPercentage"},
	{"administrativeSuccessPercentage", "contract.administrativePercentage"},
	{"judicialFutureInstallments", "contract.judicialInstallments"},
	{"administrativeInstallments", "contract.administrativeInstallments"},
	{"administrativeBenefitSalaries", "contract.administrativeSalaries"},
}

// FeeAgreement maps the "Contrato de Honorários" form and spells out the
// salary and installment counts.
func FeeAgreement(in payload.Payload) (payload.Payload, error) {
	return apply(in, feeAgreement)
}

func feeAgreement(data payload.Payload) error {
	if has(data, "clientFullName") {
		client := data.Object("client")
		if v := data["clientNationality"]; payload.Truthy(v) {
			client["nationality"] = v
		}
		drop(data, "clientFullName", "clientCpf", "clientNationality")
	}

	if has(data, "clientStreet") {
		address := joinFields(data, "clientStreet", "clientStreetNumber", "clientNeighborhood", "clientCity", "clientState")
		if client, ok := payload.AsPayload(data["client"]); ok {
			client["address"] = address
		}
		drop(data, "clientStreet", "clientStreetNumber", "clientNeighborhood", "clientCity", "clientState", "clientZipCode")
	}

	if err := documentDateAndLocation(data, "documentDate", "documentLocation"); err != nil {
		return err
	}

	relocate(data, feeAgreementMoves)

	if contract, ok := payload.AsPayload(data["contract"]); ok {
		for _, key := range []string{"administrativeSalaries", "administrativeInstallments", "judicialInstallments"} {
			if v := contract[key]; payload.Truthy(v) {
				contract[key+"InWords"] = ptbr.NumberToWords(v)
			}
		}
	}
	return nil
}

var representationBenefits = []string{
	"retirementAge",
	"retirementAgeUrban",
	"retirementAgeRural",
	"retirementContributionTime",
	"retirementSpecial",
	"pensionDeath",
	"pensionDeathUrban",
	"pensionDeathRural",
	"reclusionAid",
	"reclusionAidUrban",
	"reclusionAidRural",
	"maternityPay",
	"maternityPayUrban",
	"maternityPayRural",
	"cadastralUpdate",
}

var representedFields = []fieldMove{
	{"representedName", "name"},
	{"representedCpf", "cpf"},
	{"representedRg", "rg"},
	{"representedAddress", "address"},
	{"representedCity", "city"},
	{"representedCep", "cep"},
}

var attorneyFields = []fieldMove{
	{"attorneyName", "name"},
	{"attorneyCpf", "cpf"},
	{"attorneyOab", "oab"},
	{"attorneyNit", "nit"},
}

// gather consumes the flat party keys and returns the fields that were sent.
func gather(data payload.Payload, fields []fieldMove) payload.Payload {
	party := payload.Payload{}
	for _, f := range fields {
		moveIfPresent(party, f.to, data, f.from)
	}
	return party
}

// InssRepresentationTerm maps "Termo de Representação INSS": represented
// person, attorney and the fifteen benefit checkboxes (false unless ticked).
func InssRepresentationTerm(in payload.Payload) (payload.Payload, error) {
	return apply(in, func(data payload.Payload) error {
		if err := documentDateAndLocation(data, "documentDate", "location"); err != nil {
			return err
		}

		if has(data, "representedName") {
			data["represented"] = gather(data, representedFields)
		}
		if has(data, "attorneyName") {
			data["attorney"] = gather(data, attorneyFields)
		}

		benefits := data.Object("benefits")
		for _, key := range representationBenefits {
			deriveFlags(data, benefits, key, flag{key, payload.Truthy})
		}
		return nil
	})
}
