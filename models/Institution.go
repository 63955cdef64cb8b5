package models

// Institution is a static catalog entry. Loaded once at process start and
// never mutated.
type Institution struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Departments []Department `json:"departments"`
}

// Department belongs to exactly one institution. The tuition fee is a decimal
// string in token units.
type Department struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TuitionFee string `json:"tuitionFee"`
}
