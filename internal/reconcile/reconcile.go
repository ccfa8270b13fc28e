// Package reconcile merges successive partial server responses for a case's
// collected data with the locally cached record, without losing fields the
// client already knows and the server has not yet echoed back.
//
// The merge is deliberately NOT a generic deep merge. A generic merge would
// resurrect deliberately-cleared fields anywhere in the record. Instead a
// fixed list of designated paths, known to be asymmetric between the client
// form surface and the server's persistence, gets preserve-if-missing
// treatment; everything else follows plain server-wins semantics.
//
// Designated reconciliation paths:
//
//	personal_info.address.{street,city,state,postal_code,country}
//	personal_info.partner_first_name
//	personal_info.partner_last_name
//	personal_info.partner_date_of_birth
//
// Extending the collected-data schema does not extend this list. Any new
// field stays server-wins until a review of the server's echo behavior says
// otherwise.
package reconcile

import (
	"caseflow-be/internal/entity"
)

// Merge combines the previously cached record with a fresh, possibly partial,
// server response.
//
// Rules:
//   - previous == nil (first load): incoming is returned unchanged.
//   - Every non-designated field reflects incoming exactly, including
//     absence.
//   - Every designated leaf is incoming's value when non-empty, else
//     previous's value when present, else absent.
//
// An empty string at a designated leaf is indistinguishable from "not sent",
// so a cleared partner name reappears from cache. Known limitation; do not
// "fix" here without product sign-off.
func Merge(previous *entity.CollectedData, incoming entity.CollectedData) entity.CollectedData {
	if previous == nil {
		return incoming
	}

	result := incoming
	result.PersonalInfo = mergePersonalInfo(previous.PersonalInfo, incoming.PersonalInfo)
	return result
}

// mergePersonalInfo applies the designated-path merge for the personal-info
// section. Incoming may be nil while previous still carries designated
// values; in that case a section is materialized holding only the preserved
// designated leaves, so non-designated fields keep reflecting incoming's
// absence.
func mergePersonalInfo(previous, incoming *entity.PersonalInfo) *entity.PersonalInfo {
	if previous == nil {
		return incoming
	}
	if incoming == nil && !hasDesignatedValues(previous) {
		return nil
	}

	var merged entity.PersonalInfo
	if incoming != nil {
		merged = *incoming
	}

	merged.PartnerFirstName = preferIncoming(merged.PartnerFirstName, previous.PartnerFirstName)
	merged.PartnerLastName = preferIncoming(merged.PartnerLastName, previous.PartnerLastName)
	merged.PartnerDateOfBirth = preferIncoming(merged.PartnerDateOfBirth, previous.PartnerDateOfBirth)

	var incomingAddr *entity.Address
	if incoming != nil {
		incomingAddr = incoming.Address
	}
	merged.Address = mergeAddress(previous.Address, incomingAddr)

	return &merged
}

// mergeAddress merges every address leaf with preserve-if-missing semantics.
func mergeAddress(previous, incoming *entity.Address) *entity.Address {
	if previous == nil {
		return incoming
	}
	if incoming == nil && *previous == (entity.Address{}) {
		return nil
	}

	var merged entity.Address
	if incoming != nil {
		merged = *incoming
	}
	merged.Street = preferIncoming(merged.Street, previous.Street)
	merged.City = preferIncoming(merged.City, previous.City)
	merged.State = preferIncoming(merged.State, previous.State)
	merged.PostalCode = preferIncoming(merged.PostalCode, previous.PostalCode)
	merged.Country = preferIncoming(merged.Country, previous.Country)

	if merged == (entity.Address{}) {
		return nil
	}
	return &merged
}

// preferIncoming keeps the incoming value unless it is empty, in which case
// the previous value survives. Empty means absent at designated leaves.
func preferIncoming(incoming, previous string) string {
	if incoming != "" {
		return incoming
	}
	return previous
}

// hasDesignatedValues reports whether a previous personal-info section holds
// anything worth preserving on the designated paths.
func hasDesignatedValues(p *entity.PersonalInfo) bool {
	if p == nil {
		return false
	}
	if p.PartnerFirstName != "" || p.PartnerLastName != "" || p.PartnerDateOfBirth != "" {
		return true
	}
	return p.Address != nil && *p.Address != (entity.Address{})
}
