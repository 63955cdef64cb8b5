// Package catalog holds the static institution/department/fee table. It is
// pure data: lookups that miss return the zero value, never an error.
package catalog

import "github.com/heliospay/tuition-api/models"

type Catalog struct {
	institutions []models.Institution
}

// Default returns the catalog shipped with the service.
func Default() *Catalog {
	return &Catalog{institutions: defaultInstitutions}
}

// Institutions returns the full institution list in catalog order.
func (c *Catalog) Institutions() []models.Institution {
	out := make([]models.Institution, len(c.institutions))
	copy(out, c.institutions)
	return out
}

// Find returns the institution with the given id, or nil.
func (c *Catalog) Find(institutionID string) *models.Institution {
	for i := range c.institutions {
		if c.institutions[i].ID == institutionID {
			inst := c.institutions[i]
			return &inst
		}
	}
	return nil
}

// FindDepartment returns the department within the given institution, or nil
// when either id misses.
func (c *Catalog) FindDepartment(institutionID, departmentID string) *models.Department {
	inst := c.Find(institutionID)
	if inst == nil {
		return nil
	}
	for i := range inst.Departments {
		if inst.Departments[i].ID == departmentID {
			dept := inst.Departments[i]
			return &dept
		}
	}
	return nil
}

var defaultInstitutions = []models.Institution{
	{
		ID:      "harvard",
		Name:    "Harvard University",
		Address: "0x742d35Cc6634C0532925a3b8D4C9db96590c6C8C",
		Departments: []models.Department{
			{ID: "cs", Name: "Computer Science", TuitionFee: "50.0"},
			{ID: "business", Name: "Business Administration", TuitionFee: "45.0"},
			{ID: "medicine", Name: "Medicine", TuitionFee: "60.0"},
			{ID: "law", Name: "Law", TuitionFee: "55.0"},
		},
	},
	{
		ID:      "mit",
		Name:    "MIT",
		Address: "0x8ba1f109551bD432803012645Hac136c9c1495bF",
		Departments: []models.Department{
			{ID: "engineering", Name: "Engineering", TuitionFee: "52.0"},
			{ID: "physics", Name: "Physics", TuitionFee: "48.0"},
			{ID: "mathematics", Name: "Mathematics", TuitionFee: "46.0"},
		},
	},
	{
		ID:      "stanford",
		Name:    "Stanford University",
		Address: "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
		Departments: []models.Department{
			{ID: "ai", Name: "Artificial Intelligence", TuitionFee: "58.0"},
			{ID: "biotech", Name: "Biotechnology", TuitionFee: "54.0"},
			{ID: "economics", Name: "Economics", TuitionFee: "47.0"},
		},
	},
}
