package report

// PlanRevenue is the recurring revenue one plan brings in.
type PlanRevenue struct {
	PlanID              int    `db:"plan_id" json:"plan_id"`
	PlanName            string `db:"plan_name" json:"plan_name"`
	Interval            string `db:"billing_interval" json:"interval"`
	PriceCents          int64  `db:"price_cents" json:"price_cents"`
	Currency            string `db:"currency" json:"currency"`
	ActiveSubscriptions int    `db:"active_subscriptions" json:"active_subscriptions"`
	MRRCents            int64  `db:"-" json:"mrr_cents"`
}

type RevenueReport struct {
	MRRCents            int64         `json:"mrr_cents"`
	ActiveSubscriptions int           `json:"active_subscriptions"`
	ByPlan              []PlanRevenue `json:"by_plan"`
}

type DailyCount struct {
	Date  string `db:"day" json:"date"`
	Count int    `db:"count" json:"count"`
}

type DailyBookings struct {
	Date      string `db:"day" json:"date"`
	Confirmed int    `db:"confirmed" json:"confirmed"`
	Cancelled int    `db:"cancelled" json:"cancelled"`
}

type AttendanceReport struct {
	From  string       `json:"from"`
	To    string       `json:"to"`
	Total int          `json:"total"`
	Days  []DailyCount `json:"days"`
}

type BookingsReport struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Confirmed int             `json:"confirmed"`
	Cancelled int             `json:"cancelled"`
	Days      []DailyBookings `json:"days"`
}
