package models

// Validate checks if the group meets all validation requirements
func (g *Group) Validate() error {
	return validate.Struct(g)
}

// String returns the group title.
func (g *Group) String() string {
	return g.Title
}
