package achievement

import "time"

type Metric string

const (
	MetricCheckIns Metric = "checkins"
	MetricClasses  Metric = "classes"
)

// Definition is a badge a member earns once a counter reaches Threshold.
type Definition struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Metric      Metric `json:"metric"`
	Threshold   int    `json:"threshold"`
}

var Definitions = []Definition{
	{Code: "first_checkin", Name: "First Visit", Description: "Checked in for the first time", Metric: MetricCheckIns, Threshold: 1},
	{Code: "checkins_10", Name: "Regular", Description: "Checked in 10 times", Metric: MetricCheckIns, Threshold: 10},
	{Code: "checkins_50", Name: "Dedicated", Description: "Checked in 50 times", Metric: MetricCheckIns, Threshold: 50},
	{Code: "checkins_100", Name: "Centurion", Description: "Checked in 100 times", Metric: MetricCheckIns, Threshold: 100},
	{Code: "first_class", Name: "Class Act", Description: "Booked a first class", Metric: MetricClasses, Threshold: 1},
	{Code: "classes_25", Name: "Class Regular", Description: "Booked 25 classes", Metric: MetricClasses, Threshold: 25},
}

type MemberAchievement struct {
	ID       int       `db:"id" json:"id"`
	MemberID int       `db:"member_id" json:"member_id"`
	Code     string    `db:"code" json:"code"`
	EarnedAt time.Time `db:"earned_at" json:"earned_at"`
}

// Progress pairs a definition with the member's standing on it.
type Progress struct {
	Definition
	Current  int        `json:"current"`
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

// Counters are the lifetime totals thresholds are compared against.
type Counters struct {
	CheckIns int
	Classes  int
}

func (c Counters) value(m Metric) int {
	switch m {
	case MetricCheckIns:
		return c.CheckIns
	case MetricClasses:
		return c.Classes
	}
	return 0
}

// Reached returns the codes whose threshold c meets.
func Reached(c Counters) []string {
	var codes []string
	for _, d := range Definitions {
		if c.value(d.Metric) >= d.Threshold {
			codes = append(codes, d.Code)
		}
	}
	return codes
}
