package models

// DashboardStats is the admin-wide totals block of GET /v1/dashboard/stats.
type DashboardStats struct {
	Users           int64    `json:"users"`
	Posts           int64    `json:"posts"`
	PublishedPosts  int64    `json:"published_posts"`
	PendingComments int64    `json:"pending_comments"`
	Likes           int64    `json:"likes"`
	Topics          int64    `json:"topics"`
	Views           [7]int64 `json:"views"`
	TotalViews      int64    `json:"total_views"`
}

// AuthorStats is the per-author dashboard block returned to non-admins.
type AuthorStats struct {
	Posts          int64    `json:"posts"`
	PublishedPosts int64    `json:"published_posts"`
	Likes          int64    `json:"likes"`
	Followers      int64    `json:"followers"`
	Views          [7]int64 `json:"views"`
	TotalViews     int64    `json:"total_views"`
}
