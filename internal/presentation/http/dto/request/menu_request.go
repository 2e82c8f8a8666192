package request

// MenuFilterRequest represents menu list query parameters
type MenuFilterRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
