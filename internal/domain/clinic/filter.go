package clinic

import (
	"strconv"
)

// FilterField names a patient attribute that custom statistics may filter on.
type FilterField string

const (
	FieldIsAmputee        FilterField = "isAmputee"
	FieldIsPhysiotherapy  FilterField = "isPhysiotherapy"
	FieldIsMedicalSupport FilterField = "isMedicalSupport"
	FieldGender           FilterField = "gender"
	FieldAge              FilterField = "age"
	FieldBranchID         FilterField = "branchId"
	FieldAddress          FilterField = "address"
	FieldAmputationType   FilterField = "amputationType"
	FieldAmputationSite   FilterField = "amputationSite"
	FieldAmputationCause  FilterField = "amputationCause"
	FieldDiseaseType      FilterField = "diseaseType"
	FieldTherapyType      FilterField = "therapyType"
	FieldSupportType      FilterField = "supportType"
	FieldCondition        FilterField = "condition"
)

// accessor renders a field as a string. ok=false means the record has no value.
type accessor func(p *Patient) (value string, ok bool)

func boolField(get func(p *Patient) bool) accessor {
	return func(p *Patient) (string, bool) {
		return strconv.FormatBool(get(p)), true
	}
}

func optionalString(get func(p *Patient) string) accessor {
	return func(p *Patient) (string, bool) {
		v := get(p)
		return v, v != ""
	}
}

var accessors = map[FilterField]accessor{
	FieldIsAmputee:        boolField(func(p *Patient) bool { return p.IsAmputee }),
	FieldIsPhysiotherapy:  boolField(func(p *Patient) bool { return p.IsPhysiotherapy }),
	FieldIsMedicalSupport: boolField(func(p *Patient) bool { return p.IsMedicalSupport }),
	FieldAge: func(p *Patient) (string, bool) {
		return strconv.Itoa(p.Age), true
	},
	FieldBranchID: func(p *Patient) (string, bool) {
		return p.BranchID.String(), true
	},
	FieldCondition: func(p *Patient) (string, bool) {
		c := p.Condition()
		return string(c), c != ConditionUnknown
	},
	FieldGender:          optionalString(func(p *Patient) string { return p.Gender }),
	FieldAddress:         optionalString(func(p *Patient) string { return p.Address }),
	FieldAmputationType:  optionalString(func(p *Patient) string { return p.AmputationType }),
	FieldAmputationSite:  optionalString(func(p *Patient) string { return p.AmputationSite }),
	FieldAmputationCause: optionalString(func(p *Patient) string { return p.AmputationCause }),
	FieldDiseaseType:     optionalString(func(p *Patient) string { return p.DiseaseType }),
	FieldTherapyType:     optionalString(func(p *Patient) string { return p.TherapyType }),
	FieldSupportType:     optionalString(func(p *Patient) string { return p.SupportType }),
}

// IsKnownField reports whether name is a filterable field.
func IsKnownField(name string) bool {
	_, ok := accessors[FilterField(name)]
	return ok
}

// FieldValue returns the string form of a patient field.
// Unknown fields and absent values return ok=false.
func FieldValue(p *Patient, name string) (string, bool) {
	get, ok := accessors[FilterField(name)]
	if !ok {
		return "", false
	}
	return get(p)
}

// MatchesField reports whether the patient's field equals value by string comparison.
// Unknown fields and absent values never match.
func MatchesField(p *Patient, name, value string) bool {
	v, ok := FieldValue(p, name)
	return ok && v == value
}

// FilterPatients keeps the patients whose field equals value.
func FilterPatients(patients []Patient, name, value string) []Patient {
	out := make([]Patient, 0, len(patients))
	for i := range patients {
		if MatchesField(&patients[i], name, value) {
			out = append(out, patients[i])
		}
	}
	return out
}
