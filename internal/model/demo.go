package model

// Demo fixtures shown before an account has data of its own. The team roster
// seeds the collection on first read; the analytics snapshot is static.

// DemoTeamMembers returns the stock collaborator roster.
func DemoTeamMembers() []TeamMember {
	return []TeamMember{
		{
			ID:         "1",
			Name:       "Sarah Johnson",
			Email:      "sarah@example.com",
			Role:       RoleAdmin,
			Avatar:     "https://api.dicebear.com/7.x/avataaars/svg?seed=Sarah",
			JoinedDate: "2023-06-15",
		},
		{
			ID:         "2",
			Name:       "Michael Chen",
			Email:      "michael@example.com",
			Role:       RoleEditor,
			Avatar:     "https://api.dicebear.com/7.x/avataaars/svg?seed=Michael",
			JoinedDate: "2023-08-22",
		},
		{
			ID:         "3",
			Name:       "Emma Davis",
			Email:      "emma@example.com",
			Role:       RoleViewer,
			Avatar:     "https://api.dicebear.com/7.x/avataaars/svg?seed=Emma",
			JoinedDate: "2023-11-10",
		},
	}
}

// AnalyticsPage is one row of the top-pages table.
type AnalyticsPage struct {
	Page   string `json:"page"`
	Views  int64  `json:"views"`
	Change string `json:"change"`
}

// AnalyticsSnapshot is the fixed demo analytics payload.
type AnalyticsSnapshot struct {
	TotalVisits        int64           `json:"totalVisits"`
	UniqueVisitors     int64           `json:"uniqueVisitors"`
	PageViews          int64           `json:"pageViews"`
	AvgSessionDuration string          `json:"avgSessionDuration"`
	BounceRate         string          `json:"bounceRate"`
	TopPages           []AnalyticsPage `json:"topPages"`
}

// DemoAnalytics returns the canned analytics figures.
func DemoAnalytics() AnalyticsSnapshot {
	return AnalyticsSnapshot{
		TotalVisits:        45678,
		UniqueVisitors:     32154,
		PageViews:          89234,
		AvgSessionDuration: "3m 24s",
		BounceRate:         "42.3%",
		TopPages: []AnalyticsPage{
			{Page: "/home", Views: 12456, Change: "+12%"},
			{Page: "/products", Views: 8932, Change: "+8%"},
			{Page: "/about", Views: 6543, Change: "-3%"},
			{Page: "/contact", Views: 4321, Change: "+15%"},
		},
	}
}
