// Package normalize applies the conversions shared by every document kind
// before kind-specific field mapping runs.
package normalize

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/payload"
	"github.com/goliatone/go-legaldocs/pkg/ptbr"
)

// Normalize returns a normalized copy of raw:
//   - top-level rg/cpf move under client unless already nested there
//   - document.documentDate becomes document.day/month/year
//   - document.documentLocation becomes document.location
//   - client.address is assembled from its fragments when missing
//
// Keys it does not recognise are left alone. An unparseable documentDate
// fails with an error wrapping ptbr.ErrMalformedDate.
func Normalize(raw payload.Payload) (payload.Payload, error) {
	out := raw.Clone()

	liftIdentity(out, "rg")
	liftIdentity(out, "cpf")

	if err := splitDocumentDate(out); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	if doc, ok := payload.AsPayload(out["document"]); ok {
		if loc := doc["documentLocation"]; payload.Truthy(loc) {
			doc["location"] = loc
			delete(doc, "documentLocation")
		}
	}

	if client, ok := payload.AsPayload(out["client"]); ok {
		if !payload.Truthy(client["address"]) {
			if address := BuildAddress(client); address != "" {
				client["address"] = address
			}
		}
	}

	return out, nil
}

func liftIdentity(p payload.Payload, key string) {
	value, ok := p[key]
	if !ok {
		return
	}
	if client, ok := payload.AsPayload(p["client"]); ok && payload.Truthy(client[key]) {
		return
	}
	p.Object("client")[key] = value
	delete(p, key)
}

func splitDocumentDate(p payload.Payload) error {
	doc, ok := payload.AsPayload(p["document"])
	if !ok || !payload.Truthy(doc["documentDate"]) {
		return nil
	}
	parts, err := ptbr.SplitDate("document.documentDate", payload.String(doc["documentDate"]))
	if err != nil {
		return err
	}
	doc["day"] = parts.Day
	doc["month"] = parts.Month
	doc["year"] = parts.Year
	delete(doc, "documentDate")
	return nil
}

// BuildAddress joins the address fragments found in fields, accepting either
// the localized or the translated key for each fragment. A street fragment is
// required; without one the result is empty.
func BuildAddress(fields payload.Payload) string {
	street := first(fields, "logradouro", "street")
	if street == "" {
		return ""
	}

	cityState := first(fields, "cidadeEstado")
	if cityState == "" {
		city, state := first(fields, "city"), first(fields, "state")
		if city != "" && state != "" {
			cityState = city + "/" + state
		}
	}

	return JoinParts(
		street,
		first(fields, "numero", "number"),
		first(fields, "complemento", "complement"),
		first(fields, "bairro", "neighborhood"),
		cityState,
	)
}

// JoinParts joins the non-blank parts with ", ".
func JoinParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, ", ")
}

func first(fields payload.Payload, keys ...string) string {
	for _, key := range keys {
		if value := payload.String(fields[key]); value != "" {
			return value
		}
	}
	return ""
}
