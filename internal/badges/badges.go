package badges

// Counters are the per-user totals badge rules are judged against. They are
// maintained by sibling stores; this package only reads them.
type Counters struct {
	LifePosts     int `json:"lifePosts"`
	DoomPosts     int `json:"doomPosts"`
	BetWins       int `json:"betWins"`
	LongestStreak int `json:"longestStreak"`
}

type Badge struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type rule struct {
	badge Badge
	met   func(c Counters) bool
}

var rules = []rule{
	{
		badge: Badge{ID: "first_light", Name: "First Light"},
		met:   func(c Counters) bool { return c.LifePosts >= 1 },
	},
	{
		badge: Badge{ID: "prophet_of_doom", Name: "Prophet of Doom"},
		met:   func(c Counters) bool { return c.DoomPosts >= 10 },
	},
	{
		badge: Badge{ID: "optimist", Name: "Optimist"},
		met:   func(c Counters) bool { return c.LifePosts >= 50 },
	},
	{
		badge: Badge{ID: "oracle", Name: "Oracle"},
		met:   func(c Counters) bool { return c.BetWins >= 5 },
	},
	{
		badge: Badge{ID: "week_of_light", Name: "Week of Light"},
		met:   func(c Counters) bool { return c.LongestStreak >= 7 },
	},
	{
		badge: Badge{ID: "eternal_flame", Name: "Eternal Flame"},
		met:   func(c Counters) bool { return c.LongestStreak >= 100 },
	},
}

// Evaluate returns the badges newly earned by the given counters, skipping
// any whose IDs are already owned. Badges are one-time awards; callers append
// the result to the owned set themselves.
func Evaluate(c Counters, owned []string) []Badge {
	ownedSet := make(map[string]struct{}, len(owned))
	for _, id := range owned {
		ownedSet[id] = struct{}{}
	}
	var earned []Badge
	for _, r := range rules {
		if _, ok := ownedSet[r.badge.ID]; ok {
			continue
		}
		if r.met(c) {
			earned = append(earned, r.badge)
		}
	}
	return earned
}

// All lists every badge the app can award.
func All() []Badge {
	out := make([]Badge, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.badge)
	}
	return out
}
