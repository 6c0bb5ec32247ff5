package stats

// RateUnknown is reported for any rate whose denominator is still zero. A
// brand-new player shows sentinels, never NaN.
const RateUnknown = -1.0

// TriBool is the outcome of evaluating one statistic for one player in one
// hand. Impossible means the situation never arose and the hand is excluded
// from both numerator and denominator. Conflating "did not" with "could not"
// would corrupt every conditional rate.
type TriBool int

const (
	TriImpossible TriBool = iota
	TriFalse
	TriTrue
)

func (b TriBool) String() string {
	switch b {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	default:
		return "impossible"
	}
}

// PlayerStats is the running aggregate for one player. Each rate carries its
// own integer denominator so new hands fold in by exact re-averaging without
// retaining hand history.
type PlayerStats struct {
	Name string

	VPIP          float64
	PFR           float64
	AF            float64
	Pre3Bet       float64
	FoldToPre3Bet float64
	CBet          float64
	FoldToCBet    float64
	Squeeze       float64

	Hands            int
	CanPre3Bet       int
	CanFoldToPre3Bet int
	CanCBet          int
	CanFoldToCBet    int
	CanSqueeze       int
	Calls            int
	Bets             int
	Raises           int
}

// NewPlayerStats returns a zero-hand aggregate with every rate at the
// sentinel.
func NewPlayerStats(name string) *PlayerStats {
	return &PlayerStats{
		Name:          name,
		VPIP:          RateUnknown,
		PFR:           RateUnknown,
		AF:            RateUnknown,
		Pre3Bet:       RateUnknown,
		FoldToPre3Bet: RateUnknown,
		CBet:          RateUnknown,
		FoldToCBet:    RateUnknown,
		Squeeze:       RateUnknown,
	}
}

// fold re-averages one conditional rate with a new tri-state outcome. An
// Impossible outcome leaves both rate and denominator untouched. The restored
// numerator is exact because the denominator is an integer count.
func fold(rate *float64, n *int, e TriBool) {
	if e == TriImpossible {
		return
	}
	num := restore(*rate, *n)
	if e == TriTrue {
		num++
	}
	*n++
	*rate = num / float64(*n)
}

func restore(rate float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return rate * float64(n)
}

func divide(num, den float64) float64 {
	if den == 0 {
		return RateUnknown
	}
	return num / den
}
