package adapters

import (
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/payload"
)

// NonReceiptStatement maps the "Declaração de Não Recebimento" form: personal
// data under client, place and date under document, and the pension answers
// as booleans under benefit.
func NonReceiptStatement(in payload.Payload) (payload.Payload, error) {
	return apply(in, nonReceiptStatement)
}

func nonReceiptStatement(data payload.Payload) error {
	client := data.Object("client")
	for _, m := range []fieldMove{{"fullName", "name"}, {"cpf", "cpf"}, {"rg", "rg"}} {
		if v, ok := take(data, m.from); ok {
			client[m.to] = v
		}
	}

	if loc, ok := take(data, "location"); ok {
		data.Object("document")["location"] = loc
	}
	if raw, ok := take(data, "statementDate"); ok {
		if err := setDateParts(data.Object("document"), "statementDate", raw, ""); err != nil {
			return err
		}
	}

	benefit := data.Object("benefit")
	deriveFlags(data, benefit, "receivesRetirementPension", flag{"receives", equals("sim")})
	deriveFlags(data, benefit, "benefitType",
		flag{"isPension", equals("pensao")},
		flag{"isRetirement", equals("aposentadoria")},
	)
	deriveFlags(data, benefit, "relationshipWithProvider",
		flag{"isSpouseRelation", equals("conjuge", "companheiro")},
	)
	deriveFlags(data, benefit, "originatingEntity",
		flag{"originEstadual", contains("estadual")},
		flag{"originMunicipal", contains("municipal")},
		flag{"originFederal", contains("federal")},
	)
	deriveFlags(data, benefit, "serverType",
		flag{"serverCivil", equals("civil")},
		flag{"serverMilitar", equals("militar")},
	)

	if raw, ok := take(data, "benefitStartDate"); ok && payload.Truthy(raw) {
		if err := setDateParts(benefit, "benefitStartDate", raw, "start"); err != nil {
			return err
		}
	}
	if v, ok := take(data, "benefitAgencyName"); ok && payload.Truthy(v) {
		benefit["agencyName"] = v
	}
	if v, ok := take(data, "lastGrossSalary"); ok && payload.Truthy(v) {
		benefit["lastGrossSalary"] = v
	}
	if v, ok := take(data, "monthYearSalary"); ok && payload.Truthy(v) {
		year, month, _ := strings.Cut(payload.String(v), "-")
		benefit["salaryYear"] = year
		benefit["salaryMonth"] = month
	}
	return nil
}
