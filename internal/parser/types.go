package parser

import (
	"strings"
	"time"
)

// MaxSeats is the largest table size the card room deals.
const MaxSeats = 9

// Player is a seated participant of a single hand.
// Identity is by Name; a name is unique within a hand.
type Player struct {
	Name  string
	Seat  int // 1-based seat number as printed in the seat line
	Stack float64
}

// Blind is a forced small- or big-blind post.
type Blind struct {
	Player *Player
	Amount float64
}

// HoleCards are the two private cards of one player, e.g. {"2c", "7d"}.
type HoleCards [2]string

// Street represents a betting round.
type Street int

const (
	StreetPreflop Street = iota
	StreetFlop
	StreetTurn
	StreetRiver
)

func (s Street) String() string {
	switch s {
	case StreetPreflop:
		return "preflop"
	case StreetFlop:
		return "flop"
	case StreetTurn:
		return "turn"
	case StreetRiver:
		return "river"
	default:
		return "unknown"
	}
}

// ActionType enumerates the closed set of betting actions.
// Every consumer switches exhaustively over these values.
type ActionType int

const (
	ActionCall ActionType = iota
	ActionBet
	ActionRaise
	ActionCheck
	ActionFold
	ActionLeave
	ActionUncalledBet
)

func (a ActionType) String() string {
	switch a {
	case ActionCall:
		return "call"
	case ActionBet:
		return "bet"
	case ActionRaise:
		return "raise"
	case ActionCheck:
		return "check"
	case ActionFold:
		return "fold"
	case ActionLeave:
		return "leave"
	case ActionUncalledBet:
		return "uncalled_bet"
	default:
		return "unknown"
	}
}

// Action is one betting action by one seated player.
//
// Amount is the called/bet amount for Call and Bet, the raise increment for
// Raise ("raises Amount to To"), and the returned amount for UncalledBet.
// To is only set for Raise and holds the resulting total facing the table.
type Action struct {
	Type   ActionType
	Player *Player
	Amount float64
	To     float64
	AllIn  bool
}

// End is the final pot award of a hand. When several collected lines occur
// (split pots) the last one wins; see parser docs.
type End struct {
	Pot    float64
	Winner *Player
}

// Hand is the aggregate parse result for one hand-history block.
// It is mutated in place while parsing and must be treated as immutable
// once ParseHand returns.
type Hand struct {
	ID         int64
	Date       time.Time
	Content    string
	RealMoney  bool
	SmallLimit float64
	BigLimit   float64
	TableName  string
	TableSize  int
	ButtonSeat int

	Seats      [MaxSeats]*Player
	SmallBlind Blind
	BigBlind   Blind
	HoleCards  [MaxSeats]*HoleCards

	Preflop []Action
	Flop    []Action
	Turn    []Action
	River   []Action

	FlopCards *[3]string
	TurnCard  string
	RiverCard string

	End End

	// name -> seat index, built once during seating. Avoids a linear scan
	// of Seats on every action line.
	seatIndex map[string]int
}

func newHand(content string) *Hand {
	return &Hand{
		Content:   content,
		seatIndex: make(map[string]int, MaxSeats),
	}
}

func (h *Hand) addPlayer(p Player) error {
	if p.Seat < 1 || p.Seat > MaxSeats {
		return newError(PhaseSeating, "", "seat number out of range")
	}
	idx := p.Seat - 1
	if h.Seats[idx] != nil {
		return newError(PhaseSeating, "", "duplicate seat declaration")
	}
	h.Seats[idx] = &p
	h.seatIndex[p.Name] = idx
	return nil
}

// PlayerByName resolves an exact player name, tolerating the trailing colon
// that action lines carry. An unresolved name is a fatal parse error for the
// enclosing hand.
func (h *Hand) PlayerByName(name string) (*Player, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(name), ":")
	idx, ok := h.seatIndex[trimmed]
	if !ok {
		return nil, newError(PhaseAction, name, "player not seated")
	}
	return h.Seats[idx], nil
}

// Actions returns the chronological action list of one street.
func (h *Hand) Actions(s Street) []Action {
	switch s {
	case StreetPreflop:
		return h.Preflop
	case StreetFlop:
		return h.Flop
	case StreetTurn:
		return h.Turn
	case StreetRiver:
		return h.River
	default:
		return nil
	}
}

// SeatedPlayers returns the players of this hand in seat order.
func (h *Hand) SeatedPlayers() []*Player {
	players := make([]*Player, 0, len(h.seatIndex))
	for _, p := range h.Seats {
		if p != nil {
			players = append(players, p)
		}
	}
	return players
}

// HoleCardsOf returns the known hole cards for a player, or nil.
func (h *Hand) HoleCardsOf(name string) *HoleCards {
	idx, ok := h.seatIndex[name]
	if !ok {
		return nil
	}
	return h.HoleCards[idx]
}
