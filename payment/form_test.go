package payment

import (
	"testing"

	"github.com/heliospay/tuition-api/catalog"
)

func presetForm() *Form {
	return &Form{
		StudentID:     "S1",
		StudentName:   "Alice",
		InstitutionID: "harvard",
		DepartmentID:  "cs",
		Semester:      "Fall 2024",
	}
}

func customForm() *Form {
	return &Form{
		StudentID:         "S2",
		StudentName:       "Bob",
		IsCustom:          true,
		CustomInstitution: "Acme College",
		CustomDepartment:  "Arts",
		CustomSemester:    "Spring 2025",
		CustomAmount:      "12.5",
	}
}

func TestFormValidation(t *testing.T) {
	cat := catalog.Default()

	cases := []struct {
		name   string
		mutate func(f *Form)
		form   *Form
		valid  bool
	}{
		{name: "preset valid", form: presetForm(), valid: true},
		{name: "preset missing student id", form: presetForm(), mutate: func(f *Form) { f.StudentID = "" }},
		{name: "preset whitespace student name", form: presetForm(), mutate: func(f *Form) { f.StudentName = "   " }},
		{name: "preset missing semester", form: presetForm(), mutate: func(f *Form) { f.Semester = "" }},
		{name: "preset unknown institution", form: presetForm(), mutate: func(f *Form) { f.InstitutionID = "oxford" }},
		{name: "preset unknown department", form: presetForm(), mutate: func(f *Form) { f.DepartmentID = "astrology" }},
		{name: "custom valid", form: customForm(), valid: true},
		{name: "custom smallest amount", form: customForm(), mutate: func(f *Form) { f.CustomAmount = "0.01" }, valid: true},
		{name: "custom zero amount", form: customForm(), mutate: func(f *Form) { f.CustomAmount = "0" }},
		{name: "custom negative amount", form: customForm(), mutate: func(f *Form) { f.CustomAmount = "-5" }},
		{name: "custom non-numeric amount", form: customForm(), mutate: func(f *Form) { f.CustomAmount = "abc" }},
		{name: "custom missing institution", form: customForm(), mutate: func(f *Form) { f.CustomInstitution = "" }},
		{name: "custom missing department", form: customForm(), mutate: func(f *Form) { f.CustomDepartment = "" }},
		{name: "custom missing amount", form: customForm(), mutate: func(f *Form) { f.CustomAmount = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.mutate != nil {
				tc.mutate(tc.form)
			}
			if got := tc.form.IsValid(cat); got != tc.valid {
				t.Errorf("IsValid = %v, want %v (err: %v)", got, tc.valid, tc.form.Validate(cat))
			}
		})
	}
}

func TestFormResetKeepsMode(t *testing.T) {
	f := customForm()
	f.Reset()

	if !f.IsCustom {
		t.Error("mode flag should survive a reset")
	}
	if f.StudentID != "" || f.CustomInstitution != "" || f.CustomAmount != "" {
		t.Errorf("expected cleared inputs, got %+v", f)
	}
}
