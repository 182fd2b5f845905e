package app

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Option is a selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Category is a top-level subject area. Categories without subcategories
// (courses) are browsed through the year/semester tables instead.
type Category struct {
	Option
	Subcategories []Option `json:"subcategories,omitempty"`
}

// Catalog holds the selectable test categories and the assignment tables.
type Catalog struct {
	Categories []Category
	Years      []Option
	semesters  map[string][]Option
	subjects   map[string][]Option
}

// DefaultCatalog returns the categories offered on the student dashboard.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Categories: []Category{
			{
				Option: Option{Value: "coding", Label: "Coding"},
				Subcategories: []Option{
					{Value: "c", Label: "C Programming"},
					{Value: "python", Label: "Python"},
					{Value: "java", Label: "Java"},
					{Value: "web-development", Label: "Web Development"},
				},
			},
			{
				Option: Option{Value: "aptitude-reasoning", Label: "Aptitude & Reasoning"},
				Subcategories: []Option{
					{Value: "numbers", Label: "Numbers"},
					{Value: "series", Label: "Series"},
					{Value: "sequence", Label: "Sequence"},
				},
			},
			{
				Option: Option{Value: "english", Label: "English"},
				Subcategories: []Option{
					{Value: "parts-of-speech", Label: "Parts of Speech"},
					{Value: "article", Label: "Article"},
					{Value: "preposition", Label: "Preposition"},
				},
			},
			{Option: Option{Value: "courses", Label: "Courses"}},
		},
		Years: []Option{
			{Value: "2nd", Label: "2ND YEAR"},
			{Value: "3rd", Label: "3RD YEAR"},
			{Value: "4th", Label: "4TH YEAR"},
		},
		semesters: map[string][]Option{
			"2nd": {{Value: "sem3", Label: "Semester 3"}, {Value: "sem4", Label: "Semester 4"}},
			"3rd": {{Value: "sem5", Label: "Semester 5"}, {Value: "sem6", Label: "Semester 6"}},
			"4th": {{Value: "sem7", Label: "Semester 7"}, {Value: "sem8", Label: "Semester 8"}},
		},
		subjects: map[string][]Option{
			"sem3": {
				{Value: "dmgt", Label: "Discrete Mathematics"},
				{Value: "mefa", Label: "Managerial Economics & Financial Analysis"},
				{Value: "CO", Label: "Computer Organisation"},
				{Value: "adsa", Label: "Advanced Data Structures & Algorithms"},
				{Value: "dbms", Label: "Database Management Systems"},
				{Value: "adsa lab", Label: "Advanced Data Structures & Algorithms Lab"},
				{Value: "dbms lab", Label: "Database Management Systems Lab"},
				{Value: "python", Label: "Python Programming"},
			},
			"sem4": {
				{Value: "chemistry", Label: "Chemistry"},
				{Value: "biology", Label: "Biology"},
				{Value: "history", Label: "History"},
			},
			"sem5": {
				{Value: "ml", Label: "Machine Learning"},
				{Value: "cn", Label: "Computer Networks"},
				{Value: "atcd", Label: "Automata Theory & Compiler Design"},
				{Value: "ooad", Label: "Object Oriented Analysis & Design"},
				{Value: "ai", Label: "Artificial Intelligence"},
				{Value: "mpmc", Label: "Micro Processors & Micro Controllers"},
				{Value: "ml lab", Label: "Machine Learning Lab"},
				{Value: "cn lab", Label: "Computer Networks Lab"},
				{Value: "soft", Label: "Soft Skills"},
				{Value: "flutter", Label: "User Interface Design & Flutter"},
			},
			"sem6": {
				{Value: "geography", Label: "Geography"},
				{Value: "english", Label: "English"},
				{Value: "physics", Label: "Physics"},
			},
			"sem7": {
				{Value: "cns", Label: "Cryptography & Network Security"},
				{Value: "nlp", Label: "Natural Language Processing"},
				{Value: "cv", Label: "Computer Vision"},
				{Value: "app", Label: "Advanced Python Programming"},
			},
			"sem8": {
				{Value: "biology", Label: "Biology"},
				{Value: "history", Label: "History"},
				{Value: "geography", Label: "Geography"},
			},
		},
	}
}

// Semesters lists the semesters of a year ("2nd", "3rd", "4th").
func (c *Catalog) Semesters(year string) []Option {
	return c.semesters[year]
}

// Subjects lists the subjects taught in a semester.
func (c *Catalog) Subjects(semester string) []Option {
	return c.subjects[semester]
}

// Category looks up a category by value.
func (c *Catalog) Category(value string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Value == value {
			return cat, true
		}
	}
	return Category{}, false
}

// Label renders "Category - Subcategory" for display, preferring catalog labels
// and title-casing unknown values ("web-development" -> "Web Development").
func (c *Catalog) Label(category, subcategory string) string {
	catLabel, subLabel := "", ""
	if cat, ok := c.Category(category); ok {
		catLabel = cat.Label
		for _, sub := range cat.Subcategories {
			if sub.Value == subcategory {
				subLabel = sub.Label
			}
		}
	}
	if catLabel == "" {
		catLabel = titleCase(category)
	}
	if subLabel == "" {
		subLabel = titleCase(subcategory)
	}
	if subLabel == "" {
		return catLabel
	}
	return catLabel + " - " + subLabel
}

func titleCase(raw string) string {
	// Casers are stateful, so one per call.
	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(strings.ReplaceAll(raw, "-", " "))
}
