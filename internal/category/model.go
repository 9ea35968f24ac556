package category

// Category is a root of the two-level product taxonomy. Ids are globally
// unique across roots and children.
type Category struct {
	ID       int
	Name     string
	Children []Subcategory
}

type Subcategory struct {
	ID         int
	CategoryID int
	Name       string
}

// Path is a resolved taxonomy position. Child is empty for a root-only
// selection.
type Path struct {
	ID     int
	Parent string
	Child  string
}
