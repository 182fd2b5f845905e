package app_test

import (
	"testing"

	"assessment-client/internal/app"
)

func TestCatalogLabel(t *testing.T) {
	catalog := app.DefaultCatalog()
	cases := []struct {
		category, subcategory, want string
	}{
		{"coding", "web-development", "Coding - Web Development"},
		{"aptitude-reasoning", "numbers", "Aptitude & Reasoning - Numbers"},
		{"science", "organic-chemistry", "Science - Organic Chemistry"},
		{"courses", "", "Courses"},
	}
	for _, c := range cases {
		if got := catalog.Label(c.category, c.subcategory); got != c.want {
			t.Fatalf("Label(%q, %q) = %q, want %q", c.category, c.subcategory, got, c.want)
		}
	}
}

func TestCatalogAssignmentTables(t *testing.T) {
	catalog := app.DefaultCatalog()
	sems := catalog.Semesters("3rd")
	if len(sems) != 2 || sems[0].Value != "sem5" {
		t.Fatalf("unexpected semesters %+v", sems)
	}
	if len(catalog.Subjects("sem5")) != 10 {
		t.Fatalf("unexpected sem5 subjects %+v", catalog.Subjects("sem5"))
	}
	if catalog.Semesters("1st") != nil {
		t.Fatalf("expected no semesters for unknown year")
	}
	if _, ok := catalog.Category("courses"); !ok {
		t.Fatalf("expected courses category")
	}
}
