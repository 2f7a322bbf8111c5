package streak

type Milestone struct {
	Days  int     `json:"days"`
	Bonus float64 `json:"bonus"`
	Name  string  `json:"name"`
}

// Milestones is the fixed reward table, strictly ascending by Days.
var Milestones = []Milestone{
	{Days: 7, Bonus: 5, Name: "Week Warrior"},
	{Days: 30, Bonus: 25, Name: "Monthly Master"},
	{Days: 100, Bonus: 100, Name: "Century Champion"},
	{Days: 365, Bonus: 500, Name: "Year Legend"},
}

func FindMilestone(days int) *Milestone {
	for _, ms := range Milestones {
		if ms.Days == days {
			return &ms
		}
	}
	return nil
}
