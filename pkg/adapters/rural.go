package adapters

import (
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/payload"
)

// RuralSelfDeclaration maps the "Autodeclaração Rural" form. Its personal
// fields stay at the top level; matrix answers become lists of named rows and
// each yes/no section becomes an info group.
func RuralSelfDeclaration(in payload.Payload) (payload.Payload, error) {
	return apply(in, ruralSelfDeclaration)
}

func ruralSelfDeclaration(data payload.Payload) error {
	renameIfEmpty(data, "fullName", "name")
	renameIfEmpty(data, "birthDate", "dateOfBirth")
	if has(data, "address") && has(data, "addressNumber") {
		data["address"] = joinFields(data, "address", "addressNumber", "addressNeighborhood")
	}
	renameIfEmpty(data, "addressCity", "city")
	renameIfEmpty(data, "addressState", "state")
	renameIfEmpty(data, "expirationDate", "rgIssuer")

	if rows, ok := take(data, "ruralPeriod"); ok && isList(rows) {
		periods := matrix(rows, "period", "propertyCondition", "situation")
		for _, item := range periods {
			row := item.(payload.Payload)
			situation := strings.ToLower(payload.String(row["situation"]))
			delete(row, "situation")
			row["isIndividual"] = strings.Contains(situation, "individual")
			row["isFamilyEconomy"] = strings.Contains(situation, "economia familiar")
		}
		data["ruralActivityPeriods"] = periods
	}

	if v, ok := take(data, "familyEconomyCondition"); ok {
		condition := strings.ToLower(payload.String(v))
		data["familyEconomy"] = payload.Payload{
			"isHolder":    condition == "titular",
			"isComponent": condition == "componente",
		}
	}

	if members, ok := data["familyMembers"].([]any); ok {
		for i, item := range members {
			member, ok := payload.AsPayload(item)
			if !ok {
				continue
			}
			setIfPresent(member, "dateOfBirth", firstOf(member, "birthDate", "dateOfBirth"))
			members[i] = member
		}
	}

	if rows, ok := take(data, "landCession"); ok && isList(rows) {
		data["landLeases"] = matrix(rows, "leaseType", "period", "leasedAreaInHa")
	}

	if props, ok := data["properties"].([]any); ok {
		for i, item := range props {
			prop, _ := payload.AsPayload(item)
			props[i] = compact(payload.Payload{
				"itrRegistration":  prop["itrRegistration"],
				"propertyName":     firstOf(prop, "name", "propertyName"),
				"municipalityUf":   firstOf(prop, "cityState", "municipalityUf"),
				"totalAreaInHa":    firstOf(prop, "totalArea", "totalAreaInHa"),
				"exploredAreaInHa": firstOf(prop, "exploredArea", "exploredAreaInHa"),
				"ownerName":        prop["ownerName"],
				"ownerCpf":         prop["ownerCpf"],
			})
		}
	}

	if rows, ok := take(data, "ruralExploration"); ok && isList(rows) {
		data["exploredActivities"] = matrix(rows, "activity", "purpose")
	}

	infoGroup(data, "ipiInfo", []string{"hasIpiTax", "ipiPeriod"}, func() payload.Payload {
		periods := []any{}
		if v := data["ipiPeriod"]; payload.Truthy(v) {
			periods = append(periods, payload.Payload{"period": v})
		}
		return payload.Payload{"hasPayment": isTrue(data["hasIpiTax"]), "periods": periods}
	})

	infoGroup(data, "employeeInfo", []string{"hasEmployees", "employeesDetails"}, func() payload.Payload {
		return payload.Payload{
			"hasEmployees": isTrue(data["hasEmployees"]),
			"employees":    rowsOf(data["employeesDetails"], "name", "cpf", "period"),
		}
	})

	infoGroup(data, "otherIncomeInfo", []string{"hasOtherActivityOrIncome", "otherActivitiesIncome"}, func() payload.Payload {
		return payload.Payload{
			"hasOtherIncome": isTrue(data["hasOtherActivityOrIncome"]),
			"incomes":        rowsOf(data["otherActivitiesIncome"], "activity", "location", "period"),
		}
	})

	infoGroup(data, "specialIncomeInfo", []string{"hasSpecificIncomeSources", "specificIncomeSources"}, func() payload.Payload {
		return payload.Payload{
			"hasIncome": isTrue(data["hasSpecificIncomeSources"]),
			"incomes":   rowsOf(data["specificIncomeSources"], "activity", "period", "incomeBrl", "details"),
		}
	})

	infoGroup(data, "cooperativeInfo", []string{"isCooperativeMember", "cooperativeEntity", "cooperativeCnpj", "cooperativeType"}, func() payload.Payload {
		cooperatives := []any{}
		if payload.Truthy(data["cooperativeEntity"]) {
			cooperatives = append(cooperatives, compact(payload.Payload{
				"entity": data["cooperativeEntity"],
				"cnpj":   data["cooperativeCnpj"],
				"type":   data["cooperativeType"],
			}))
		}
		return payload.Payload{"isMember": isTrue(data["isCooperativeMember"]), "cooperatives": cooperatives}
	})

	renameIfEmpty(data, "declarationLocation", "documentLocation")
	renameIfEmpty(data, "declarationDate", "documentDate")

	drop(data, "addressNumber", "addressNeighborhood", "addressZipCode")
	return nil
}

// renameIfEmpty consumes from and copies it to to unless to already holds a
// value.
func renameIfEmpty(data payload.Payload, from, to string) {
	value, ok := take(data, from)
	if !ok {
		return
	}
	if !payload.Truthy(data[to]) {
		data[to] = value
	}
}

// infoGroup rebuilds group from its source keys when any is present, or
// builds the empty default when the group is missing. Source keys are
// consumed.
func infoGroup(data payload.Payload, group string, sources []string, build func() payload.Payload) {
	if has(data, sources...) || !has(data, group) {
		data[group] = build()
	}
	drop(data, sources...)
}

func rowsOf(v any, columns ...string) []any {
	if !isList(v) {
		return []any{}
	}
	return matrix(v, columns...)
}
