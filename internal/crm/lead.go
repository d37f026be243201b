package crm

import "strings"

// Status is the lead's pipeline stage, in the CRM's wire vocabulary.
type Status string

const (
	// StatusIntake marks a first-contact lead awaiting triage.
	StatusIntake Status = "triagem"
	// StatusRegistered marks a lead whose CPF was captured. The upgrade is
	// monotonic: a registered lead never reverts to intake.
	StatusRegistered Status = "cadastro"
)

// Lead is the contact record forwarded to the CRM.
type Lead struct {
	From   string `json:"from"`
	Text   string `json:"text"`
	Unit   string `json:"unit"`
	Status Status `json:"status"`
	CPF    string `json:"cpf,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

// ipirangaNumberFragment appears in the Ipiranga unit's business number.
const ipirangaNumberFragment = "23629360"

// UnitForTarget maps the business number an event was addressed to onto
// the clinic unit label used on the CRM's kanban boards.
func UnitForTarget(targetID string) string {
	if strings.Contains(targetID, ipirangaNumberFragment) {
		return "Ipiranga"
	}
	return "SCS"
}
