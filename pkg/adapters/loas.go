package adapters

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/payload"
)

const (
	DefaultRequestedBenefit = "Auxílio por incapacidade temporária ou Aposentadoria por incapacidade permanente"
	DefaultInconsistencies  = `O perito da Autarquia <span class="bold">NÃO RECONHECE A INCAPACIDADE</span> da Segurado, todavia, tal conclusão é divergente dos documentos médicos apresentados que indicavam a existência de incapacidade laborativa.`
)

var sicknessAidMoves = []fieldMove{
	{"jurisdiction", "document.juizado"},
	{"caseValue", "document.valorCausa"},
	{"caseValueInWords", "document.valorCausaExtenso"},
	{"expertSpecialty", "document.especialidadePericia"},
	{"deniedBenefitNumber", "benefit.number"},
	{"requestedBenefit", "benefit.requested"},
	{"denialDate", "benefit.denialDate"},
	{"der", "benefit.der"},
	{"denialReason", "benefit.denialReason"},
	{"illness", "disease.name"},
	{"medicalDiagnosis", "disease.name"},
	{"mainSymptoms", "disease.symptoms"},
	{"resultingLimitations", "disease.limitations"},
	{"medicalInconsistencies", "disease.inconsistencies"},
	{"occupationDescription", "occupation.description"},
	{"generalWorkConditions", "occupation.conditions"},
}

var disabilityBenefitMoves = []fieldMove{
	{"jurisdiction", "document.juizado"},
	{"caseValue", "document.valorCausa"},
	{"expertSpecialty", "document.especialidadePericia"},
	{"medicalExpertSpecialty", "document.especialidadePericia"},
	{"deniedBenefitNumber", "document.numeroBeneficio"},
	{"denialDate", "document.dataIndeferimento"},
	{"medicalReason", "document.condicaoMedica"},
	{"preliminaries", "document.preliminares"},
	{"familyCompositionDescription", "document.composicaoFamiliar"},
}

var elderlyBenefitMoves = []fieldMove{
	{"jurisdiction", "document.juizado"},
	{"caseValue", "document.valorCausa"},
	{"caseValueForTaxPurposes", "document.valorCausaFiscal"},
	{"benefitNumber", "benefit.number"},
	{"cessationDate", "benefit.cessationDate"},
	{"livingSituation", "benefit.livingArrangement"},
}

// LoasSicknessAid maps "LOAS - Auxílio-Doença". Requested benefit and
// inconsistency wording fall back to the office defaults when absent.
func LoasSicknessAid(in payload.Payload) (payload.Payload, error) {
	return apply(in, func(data payload.Payload) error {
		if has(data, "fullName") {
			client := data.Object("client")
			moveIfPresent(client, "name", data, "fullName")
			if v, _ := take(data, "nationality"); payload.Truthy(v) {
				client["nationality"] = v
			}
		}
		clientAddress(data, "street", "number", "neighborhood", "city", "state")

		if occupation, ok := data["occupation"].(string); ok {
			data["occupation"] = payload.Payload{"title": occupation}
		}
		relocate(data, sicknessAidMoves)

		benefit := data.Object("benefit")
		if !payload.Truthy(benefit["requested"]) {
			benefit["requested"] = DefaultRequestedBenefit
		}
		disease := data.Object("disease")
		if !payload.Truthy(disease["inconsistencies"]) {
			disease["inconsistencies"] = DefaultInconsistencies
		}

		drop(data,
			"waiverClause",
			"legalFoundation",
			"legalRequirements",
			"benefitRequestDate",
			"summaryDescription",
			"workCapacityConclusion",
			"jurisdictionCompetenceClause",
			"requiredBenefitNumber",
		)
		return nil
	})
}

// LoasDisabilityBenefit maps "LOAS - Benefício para Deficiente" and derives
// the satellite map embed for the client's address.
func LoasDisabilityBenefit(in payload.Payload) (payload.Payload, error) {
	return apply(in, func(data payload.Payload) error {
		if has(data, "fullName") {
			client := data.Object("client")
			moveIfPresent(client, "name", data, "fullName")
			if v, _ := take(data, "nationality"); payload.Truthy(v) {
				client["nationality"] = v
			}
			moveIfPresent(client, "dateOfBirth", data, "birthDate")
			if !payload.Truthy(client["cpf"]) && payload.Truthy(data["cpf"]) {
				client["cpf"], _ = take(data, "cpf")
			}
			if payload.Truthy(data["phone"]) {
				client["phone"], _ = take(data, "phone")
			}
		}
		clientAddress(data, "street", "number", "neighborhood", "city", "state")
		relocate(data, disabilityBenefitMoves)

		if address, _ := data.Get("client.address"); payload.Truthy(address) {
			doc := data.Object("document")
			if !payload.Truthy(doc["mapaUrl"]) {
				doc["mapaUrl"] = MapEmbedURL(payload.String(address))
			}
		}
		return nil
	})
}

// LoasElderlyBenefit maps "LOAS - Idoso".
func LoasElderlyBenefit(in payload.Payload) (payload.Payload, error) {
	return apply(in, func(data payload.Payload) error {
		if has(data, "fullName") {
			client := data.Object("client")
			moveIfPresent(client, "name", data, "fullName")
			if v, _ := take(data, "nationality"); payload.Truthy(v) {
				client["nationality"] = v
			}
			moveIfPresent(client, "dateOfBirth", data, "birthDate")
			moveIfPresent(client, "motherName", data, "motherName")
		}
		clientAddress(data, "street", "number", "complement", "neighborhood", "city", "state")
		relocate(data, elderlyBenefitMoves)
		return nil
	})
}

// clientAddress assembles client.address (and client.cep) from top-level
// fragments when the first fragment key is present. Fragments are consumed.
func clientAddress(data payload.Payload, keys ...string) {
	if !has(data, keys[0]) {
		return
	}
	address := joinFields(data, keys...)
	if client, ok := payload.AsPayload(data["client"]); ok {
		client["address"] = address
		setIfPresent(client, "cep", data["zipCode"])
	}
	drop(data, keys...)
	drop(data, "zipCode")
}

// MapEmbedURL builds the satellite map iframe source for an address.
func MapEmbedURL(address string) string {
	q := strings.ReplaceAll(url.QueryEscape(address), "+", "%20")
	return "https://maps.google.com/maps?q=" + q + "&t=k&z=18&ie=UTF8&iwloc=&output=embed"
}
