package catalog

import "testing"

func TestInstitutionsListsCatalogOrder(t *testing.T) {
	c := Default()

	institutions := c.Institutions()
	if len(institutions) != 3 {
		t.Fatalf("expected 3 institutions, got %d", len(institutions))
	}
	if institutions[0].Name != "Harvard University" {
		t.Errorf("expected Harvard University first, got %s", institutions[0].Name)
	}
}

func TestFind(t *testing.T) {
	c := Default()

	inst := c.Find("harvard")
	if inst == nil {
		t.Fatal("expected harvard to be found")
	}
	if inst.Name != "Harvard University" {
		t.Errorf("unexpected name %s", inst.Name)
	}

	if c.Find("oxford") != nil {
		t.Error("expected unknown institution to return nil")
	}
}

func TestFindDepartment(t *testing.T) {
	c := Default()

	dept := c.FindDepartment("harvard", "cs")
	if dept == nil {
		t.Fatal("expected harvard/cs to be found")
	}
	if dept.Name != "Computer Science" {
		t.Errorf("unexpected name %s", dept.Name)
	}
	if dept.TuitionFee != "50.0" {
		t.Errorf("unexpected fee %s", dept.TuitionFee)
	}

	if c.FindDepartment("harvard", "astrology") != nil {
		t.Error("expected unknown department to return nil")
	}
	if c.FindDepartment("oxford", "cs") != nil {
		t.Error("expected unknown institution to return nil")
	}
}
