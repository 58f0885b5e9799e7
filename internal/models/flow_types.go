// Package models defines flow type definitions to avoid circular imports.
package models

import "strings"

// FlowType represents a specific wizard
type FlowType string

// StateType represents a specific step within a wizard
type StateType string

// Flow type constants.
const (
	FlowTypeAddPet          FlowType = "add_pet"
	FlowTypeAddEntry        FlowType = "add_entry"
	FlowTypeVaccineReminder FlowType = "vaccine_reminder"
	FlowTypeAttachFiles     FlowType = "attach_files"
)

// StateIdle is the zero step: no wizard is active.
const StateIdle StateType = ""

// Add pet wizard steps.
const (
	StateAddPetName    StateType = "add_pet:name"
	StateAddPetSpecies StateType = "add_pet:species"
	StateAddPetBreed   StateType = "add_pet:breed"
)

// Add entry wizard steps.
const (
	StateAddEntryType       StateType = "add_entry:type"
	StateAddEntryDateChoice StateType = "add_entry:date_choice"
	StateAddEntryCustomDate StateType = "add_entry:custom_date"
	StateAddEntryText       StateType = "add_entry:text"
)

// Vaccine reminder wizard steps.
const (
	StateVaccineChooseVaccine StateType = "vaccine_reminder:choose_vaccine"
	StateVaccineChooseDelay   StateType = "vaccine_reminder:choose_delay"
	StateVaccineCustomDelay   StateType = "vaccine_reminder:custom_delay"
)

// Attach files wizard steps.
const (
	StateAttachAdding StateType = "attach_files:adding"
)

// Flow returns the wizard a step belongs to, or "" for the idle step.
func (s StateType) Flow() FlowType {
	flow, _, ok := strings.Cut(string(s), ":")
	if !ok {
		return ""
	}
	return FlowType(flow)
}

// WizardStates lists every step of every wizard.
func WizardStates() []StateType {
	return []StateType{
		StateAddPetName, StateAddPetSpecies, StateAddPetBreed,
		StateAddEntryType, StateAddEntryDateChoice, StateAddEntryCustomDate, StateAddEntryText,
		StateVaccineChooseVaccine, StateVaccineChooseDelay, StateVaccineCustomDelay,
		StateAttachAdding,
	}
}
