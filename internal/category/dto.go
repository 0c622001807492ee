package category

type CategoryResponse struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Priorities []CategoryResponse `json:"priorities"`
}
