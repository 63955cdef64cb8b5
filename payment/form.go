package payment

import (
	"errors"
	"strings"

	val "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/heliospay/tuition-api/catalog"
)

// Form is the payment submission input. In preset mode the institution,
// department and semester come from catalog selections; in custom mode they
// are free text plus an explicit amount.
type Form struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`

	IsCustom bool `json:"isCustom"`

	InstitutionID string `json:"institutionId"`
	DepartmentID  string `json:"departmentId"`
	Semester      string `json:"semester"`

	CustomInstitution string `json:"customInstitution"`
	CustomDepartment  string `json:"customDepartment"`
	CustomSemester    string `json:"customSemester"`
	CustomAmount      string `json:"customAmount"`
}

var notBlank = val.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

var positiveAmount = val.By(func(value interface{}) error {
	s, _ := value.(string)
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("must be a decimal number")
	}
	if d.Sign() <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
})

// Validate checks the form against the catalog. Invalid input aborts before
// any wallet interaction.
func (f Form) Validate(cat *catalog.Catalog) error {
	if f.IsCustom {
		return val.ValidateStruct(&f,
			val.Field(&f.StudentID, notBlank),
			val.Field(&f.StudentName, notBlank),
			val.Field(&f.CustomInstitution, notBlank),
			val.Field(&f.CustomDepartment, notBlank),
			val.Field(&f.CustomSemester, notBlank),
			val.Field(&f.CustomAmount, notBlank, positiveAmount),
		)
	}

	if err := val.ValidateStruct(&f,
		val.Field(&f.StudentID, notBlank),
		val.Field(&f.StudentName, notBlank),
		val.Field(&f.InstitutionID, notBlank),
		val.Field(&f.DepartmentID, notBlank),
		val.Field(&f.Semester, notBlank),
	); err != nil {
		return err
	}

	if cat.FindDepartment(f.InstitutionID, f.DepartmentID) == nil {
		return errors.New("institutionId/departmentId: no such catalog entry")
	}
	return nil
}

// IsValid is the boolean projection of Validate.
func (f Form) IsValid(cat *catalog.Catalog) bool {
	return f.Validate(cat) == nil
}

// Reset clears every input except the mode flag, matching the post-payment
// form clear.
func (f *Form) Reset() {
	*f = Form{IsCustom: f.IsCustom}
}
