// Package clinic holds the read model the reporting engine aggregates over:
// branches, patients, visits and payments.
package clinic

import (
	"time"

	"clinicstats/internal/core/id"
	"clinicstats/internal/core/types"
)

// Condition is the patient's treatment category.
type Condition string

const (
	ConditionAmputee        Condition = "amputee"
	ConditionPhysiotherapy  Condition = "physiotherapy"
	ConditionMedicalSupport Condition = "medical_support"
	ConditionUnknown        Condition = "unknown"
)

// Conditions lists the known conditions in display order.
var Conditions = []Condition{ConditionAmputee, ConditionPhysiotherapy, ConditionMedicalSupport}

// Branch is an independently operated clinic location.
type Branch struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Location  string    `db:"location" json:"location"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Patient is a registered patient. Exactly one condition flag is set.
type Patient struct {
	ID       id.ID  `db:"id" json:"id"`
	BranchID id.ID  `db:"branch_id" json:"branchId"`
	Name     string `db:"name" json:"name"`
	Age      int    `db:"age" json:"age"`
	Gender   string `db:"gender" json:"gender,omitempty"`
	Phone    string `db:"phone" json:"phone,omitempty"`
	Address  string `db:"address" json:"address,omitempty"`

	IsAmputee        bool `db:"is_amputee" json:"isAmputee"`
	IsPhysiotherapy  bool `db:"is_physiotherapy" json:"isPhysiotherapy"`
	IsMedicalSupport bool `db:"is_medical_support" json:"isMedicalSupport"`

	// Amputee details
	AmputationType  string `db:"amputation_type" json:"amputationType,omitempty"`
	AmputationSite  string `db:"amputation_site" json:"amputationSite,omitempty"`
	AmputationCause string `db:"amputation_cause" json:"amputationCause,omitempty"`

	// Physiotherapy details
	DiseaseType string `db:"disease_type" json:"diseaseType,omitempty"`
	TherapyType string `db:"therapy_type" json:"therapyType,omitempty"`

	// Medical support details
	SupportType string `db:"support_type" json:"supportType,omitempty"`

	// TotalCost is the cumulative billable amount; it only grows as services are added.
	TotalCost types.Money `db:"total_cost" json:"totalCost"`
	Notes     string      `db:"notes" json:"notes,omitempty"`

	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	RegistrationDate *time.Time `db:"registration_date" json:"registrationDate,omitempty"`
}

// RegisteredAt is the instant on the registration date axis.
func (p *Patient) RegisteredAt() time.Time {
	if p.RegistrationDate != nil && !p.RegistrationDate.IsZero() {
		return *p.RegistrationDate
	}
	return p.CreatedAt
}

// Condition derives the treatment category from the flags.
func (p *Patient) Condition() Condition {
	switch {
	case p.IsAmputee:
		return ConditionAmputee
	case p.IsPhysiotherapy:
		return ConditionPhysiotherapy
	case p.IsMedicalSupport:
		return ConditionMedicalSupport
	default:
		return ConditionUnknown
	}
}

// Visit is one clinic visit; VisitDate is its own date axis.
type Visit struct {
	ID        id.ID     `db:"id" json:"id"`
	PatientID id.ID     `db:"patient_id" json:"patientId"`
	BranchID  id.ID     `db:"branch_id" json:"branchId"`
	VisitDate time.Time `db:"visit_date" json:"visitDate"`
	Notes     string    `db:"notes" json:"notes,omitempty"`
}

// Payment is money received from a patient; Date is its own date axis.
type Payment struct {
	ID        id.ID       `db:"id" json:"id"`
	PatientID id.ID       `db:"patient_id" json:"patientId"`
	BranchID  id.ID       `db:"branch_id" json:"branchId"`
	Amount    types.Money `db:"amount" json:"amount"`
	Date      time.Time   `db:"date" json:"date"`
	Notes     string      `db:"notes" json:"notes,omitempty"`
}

// Snapshot is the immutable dataset one computation reads.
type Snapshot struct {
	Branches []Branch
	Patients []Patient
	Visits   []Visit
	Payments []Payment
}

// IndexPatients maps patient id to the patient inside the given slice.
func IndexPatients(patients []Patient) map[id.ID]*Patient {
	idx := make(map[id.ID]*Patient, len(patients))
	for i := range patients {
		idx[patients[i].ID] = &patients[i]
	}
	return idx
}

// BranchName resolves a branch name, empty if unknown.
func (s *Snapshot) BranchName(branchID id.ID) string {
	for _, b := range s.Branches {
		if b.ID == branchID {
			return b.Name
		}
	}
	return ""
}
