package request

// ReportRequest represents report query parameters. Dates are YYYY-MM-DD and inclusive.
type ReportRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Format    string `form:"format"`
	Limit     int    `form:"limit"`
}
