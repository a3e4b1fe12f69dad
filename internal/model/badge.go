package model

type BadgeTier string

const (
	TierNovice   BadgeTier = "Novice"
	TierHelper   BadgeTier = "Helper"
	TierChampion BadgeTier = "Champion"
	TierHero     BadgeTier = "Hero"
)

// TierForCount maps a cumulative reports-submitted count to a badge tier.
// Thresholds: 5, 10 and 25. A count of zero still shows Novice.
func TierForCount(n int) BadgeTier {
	switch {
	case n >= 25:
		return TierHero
	case n >= 10:
		return TierChampion
	case n >= 5:
		return TierHelper
	default:
		return TierNovice
	}
}

// Level returns the numeric tier (1-4) the backend and the profile view use.
func (t BadgeTier) Level() int {
	switch t {
	case TierHero:
		return 4
	case TierChampion:
		return 3
	case TierHelper:
		return 2
	default:
		return 1
	}
}

// Badge pairs a tier with the count it was derived from.
type Badge struct {
	Tier             BadgeTier `json:"badge"`
	Level            int       `json:"badge_level"`
	ReportsSubmitted int       `json:"reports_submitted"`
}

func NewBadge(count int) Badge {
	tier := TierForCount(count)
	return Badge{Tier: tier, Level: tier.Level(), ReportsSubmitted: count}
}
