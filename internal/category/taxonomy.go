package category

// The taxonomy is fixed at build time and never mutated: resolution stays
// pure and safe to call redundantly, and ids arriving from stale links
// simply fail to resolve instead of breaking navigation.
var roots = []Category{
	{
		ID:   1,
		Name: "스낵",
		Children: []Subcategory{
			{ID: 2, CategoryID: 1, Name: "과자"},
			{ID: 3, CategoryID: 1, Name: "초콜릿"},
			{ID: 4, CategoryID: 1, Name: "사탕/젤리"},
			{ID: 5, CategoryID: 1, Name: "파이/빵"},
		},
	},
	{
		ID:   6,
		Name: "음료",
		Children: []Subcategory{
			{ID: 7, CategoryID: 6, Name: "커피"},
			{ID: 8, CategoryID: 6, Name: "탄산음료"},
			{ID: 9, CategoryID: 6, Name: "주스"},
			{ID: 10, CategoryID: 6, Name: "차"},
		},
	},
	{
		ID:   11,
		Name: "간편식",
		Children: []Subcategory{
			{ID: 12, CategoryID: 11, Name: "라면"},
			{ID: 13, CategoryID: 11, Name: "시리얼"},
			{ID: 14, CategoryID: 11, Name: "과일"},
		},
	},
}

// Roots returns the root categories with their children, for catalog
// filters and pickers.
func Roots() []Category {
	return roots
}

// ResolvePath maps a category id to its display path. A root id resolves to
// the root name with an empty child; a leaf id resolves to its root's name
// plus its own. Unknown ids report false, not an error, so callers leave
// their selection unset.
func ResolvePath(id int) (Path, bool) {
	for _, root := range roots {
		if root.ID == id {
			return Path{ID: id, Parent: root.Name}, true
		}
	}

	for _, root := range roots {
		for _, child := range root.Children {
			if child.ID == id {
				return Path{ID: id, Parent: root.Name, Child: child.Name}, true
			}
		}
	}

	return Path{}, false
}
