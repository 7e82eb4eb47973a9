package adapters

import (
	"github.com/goliatone/go-legaldocs/pkg/payload"
)

// JudicialPowerOfAttorney maps the "Procuração e Declaração Judicial" form.
func JudicialPowerOfAttorney(in payload.Payload) (payload.Payload, error) {
	return apply(in, judicialPowerOfAttorney)
}

// PersonalPowerOfAttorney maps "Procuração Pessoa Física", which shares the
// judicial form layout.
func PersonalPowerOfAttorney(in payload.Payload) (payload.Payload, error) {
	return JudicialPowerOfAttorney(in)
}

func judicialPowerOfAttorney(data payload.Payload) error {
	if has(data, "grantorFullName") {
		client := data.Object("client")
		if v := data["grantorNationality"]; payload.Truthy(v) {
			client["nationality"] = v
		}
		drop(data, "grantorFullName", "grantorNationality", "grantorCpf")
	}

	if has(data, "grantorStreet") {
		address := joinFields(data, "grantorStreet", "grantorStreetNumber", "grantorNeighborhood", "grantorCity", "grantorState")
		if client, ok := payload.AsPayload(data["client"]); ok {
			client["address"] = address
		}
		drop(data, "grantorStreet", "grantorStreetNumber", "grantorNeighborhood", "grantorCity", "grantorState", "grantorZipCode")
	}

	return documentDateAndLocation(data, "documentDate", "documentLocation")
}

// InssPowerOfAttorney maps the "Procuração INSS" form: grantor and grantee
// (renamed attorney) records plus the granted powers block.
func InssPowerOfAttorney(in payload.Payload) (payload.Payload, error) {
	return apply(in, inssPowerOfAttorney)
}

var powerSources = []string{
	"registerPasswordInternet",
	"proofOfLifeBanking",
	"receivePaymentsInability",
	"receivePaymentsTravelWithinCountry",
	"travelWithinCountryPeriod",
	"receivePaymentsTravelAbroad",
	"travelAbroadPeriod",
	"receivePaymentsResidenceAbroad",
	"residenceAbroadCountry",
	"requestBenefits",
	"otherRequest",
	"otherRequestDescription",
}

func inssPowerOfAttorney(data payload.Payload) error {
	if err := documentDateAndLocation(data, "date", "location"); err != nil {
		return err
	}

	if grantor, ok := payload.AsPayload(data["grantor"]); ok {
		normalizeParty(grantor)
	}
	if grantee, ok := take(data, "grantee"); ok {
		if attorney, isObject := payload.AsPayload(grantee); isObject {
			normalizeParty(attorney)
			data["attorney"] = attorney
		} else {
			data["attorney"] = grantee
		}
	}

	if !has(data, "powers") && has(data, "registerPasswordInternet", "proofOfLifeBanking", "receivePaymentsInability") {
		data["powers"] = compact(payload.Payload{
			"passwordRegistration": data["registerPasswordInternet"],
			"proofOfLife":          data["proofOfLifeBanking"],
			"receivePayments": payload.Truthy(firstOf(data,
				"receivePaymentsInability",
				"receivePaymentsTravelWithinCountry",
				"receivePaymentsTravelAbroad",
				"receivePaymentsResidenceAbroad",
			)),
			"reasonInability":           data["receivePaymentsInability"],
			"reasonDomesticTravel":      data["receivePaymentsTravelWithinCountry"],
			"domesticTravelPeriod":      text(data, "travelWithinCountryPeriod"),
			"reasonInternationalTravel": data["receivePaymentsTravelAbroad"],
			"internationalTravelPeriod": text(data, "travelAbroadPeriod"),
			"reasonLivingAbroad":        data["receivePaymentsResidenceAbroad"],
			"countryOfResidence":        text(data, "residenceAbroadCountry"),
			"requestBenefits":           data["requestBenefits"],
			"otherRequest":              data["otherRequest"],
			"otherRequestDescription":   text(data, "otherRequestDescription"),
		})
		drop(data, powerSources...)
	}

	drop(data, "templateId")
	return nil
}

// normalizeParty derives cityState and renames identity, profession and
// address to the template names.
func normalizeParty(party payload.Payload) {
	city, state := text(party, "city"), text(party, "state")
	if city != "" && state != "" {
		party["cityState"] = city + "/" + state
	}
	if v, ok := take(party, "identity"); ok && payload.Truthy(v) {
		party["rg"] = v
	}
	if v, ok := take(party, "profession"); ok && payload.Truthy(v) {
		party["occupation"] = v
	}
	if payload.Truthy(party["address"]) && !payload.Truthy(party["street"]) {
		party["street"], _ = take(party, "address")
	}
}
