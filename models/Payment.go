package models

import "gorm.io/gorm"

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusConfirmed PaymentStatus = "confirmed"
	StatusFailed    PaymentStatus = "failed"
)

// Terminal reports whether the status permits no further transition.
func (s PaymentStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// PaymentRecord is one ledger entry. It is created the moment a transaction
// hash is obtained and afterwards mutated exactly once, by transaction-hash
// lookup, into a terminal status. The same struct doubles as the gorm row for
// the write-through archive.
type PaymentRecord struct {
	gorm.Model `json:"-"`

	TokenID uint `json:"-"`

	ReceiptID      string `gorm:"index" json:"id"`
	StudentAddress string `json:"studentAddress"`
	StudentID      string `json:"studentId"`
	StudentName    string `json:"studentName"`

	Institution string `json:"institution"`
	Department  string `json:"department"`
	Semester    string `json:"semester"`

	IsCustom          bool   `json:"isCustom"`
	CustomInstitution string `json:"customInstitution,omitempty"`
	CustomDepartment  string `json:"customDepartment,omitempty"`
	CustomSemester    string `json:"customSemester,omitempty"`

	Amount          string        `json:"amount"`
	TransactionHash string        `gorm:"index" json:"transactionHash"`
	Timestamp       int64         `json:"timestamp"` // unix milliseconds, ground truth for ordering
	Status          PaymentStatus `json:"status"`
}

// DisplayInstitution resolves the institution name a receipt should show,
// honouring the custom/preset split.
func (p *PaymentRecord) DisplayInstitution() string {
	if p.IsCustom {
		return p.CustomInstitution
	}
	return p.Institution
}

func (p *PaymentRecord) DisplayDepartment() string {
	if p.IsCustom {
		return p.CustomDepartment
	}
	return p.Department
}

func (p *PaymentRecord) DisplaySemester() string {
	if p.IsCustom {
		return p.CustomSemester
	}
	return p.Semester
}
