package stats

import "github.com/PokerZhyte/pokertracker/internal/parser"

// participation is the per-hand evaluation of every tracked statistic for one
// player. Boolean stats are unconditional; the tri-state ones are defined only
// when their situation arose.
type participation struct {
	vpip bool
	pfr  bool

	calls  int
	bets   int
	raises int

	pre3Bet       TriBool
	foldToPre3Bet TriBool
	cBet          TriBool
	foldToCBet    TriBool
	squeeze       TriBool
}

func evaluateHand(h *parser.Hand, name string) participation {
	calls, bets, raises := aggressionCounts(h, name)
	return participation{
		vpip:          vpipFrom(h, name, parser.StreetPreflop),
		pfr:           raisedPreflop(h, name),
		calls:         calls,
		bets:          bets,
		raises:        raises,
		pre3Bet:       pre3BetFind(h, name),
		foldToPre3Bet: foldToPre3BetFind(h, name),
		cBet:          cBetFind(h, name),
		foldToCBet:    foldToCBetFind(h, name),
		squeeze:       squeezeFind(h, name),
	}
}

// vpipFrom reports whether the player voluntarily put money in the pot. A
// big-blind check with no voluntary money in yet is not itself voluntary; it
// defers the question to the next street.
func vpipFrom(h *parser.Hand, name string, street parser.Street) bool {
	isBigBlind := h.BigBlind.Player != nil && h.BigBlind.Player.Name == name
	next := false
	for _, a := range h.Actions(street) {
		switch a.Type {
		case parser.ActionCall, parser.ActionBet, parser.ActionRaise:
			if a.Player.Name == name {
				return true
			}
		case parser.ActionCheck:
			if isBigBlind && a.Player.Name == name {
				next = true
			}
		}
	}
	if next && street < parser.StreetRiver {
		return vpipFrom(h, name, street+1)
	}
	return false
}

func raisedPreflop(h *parser.Hand, name string) bool {
	for _, a := range h.Preflop {
		if a.Type == parser.ActionRaise && a.Player.Name == name {
			return true
		}
	}
	return false
}

// aggressionCounts tallies the player's calls, bets and raises across all
// four streets for the aggression factor.
func aggressionCounts(h *parser.Hand, name string) (calls, bets, raises int) {
	for _, street := range []parser.Street{
		parser.StreetPreflop, parser.StreetFlop, parser.StreetTurn, parser.StreetRiver,
	} {
		for _, a := range h.Actions(street) {
			if a.Player.Name != name {
				continue
			}
			switch a.Type {
			case parser.ActionCall:
				calls++
			case parser.ActionBet:
				bets++
			case parser.ActionRaise:
				raises++
			}
		}
	}
	return calls, bets, raises
}

// pre3BetFind evaluates the preflop 3-bet: the player faces exactly one
// earlier raise when they first act aggressively or decline to.
func pre3BetFind(h *parser.Hand, name string) TriBool {
	raisesBefore := 0
	for _, a := range h.Preflop {
		switch a.Type {
		case parser.ActionRaise:
			if a.Player.Name == name {
				if raisesBefore == 1 {
					return TriTrue
				}
				return TriImpossible
			}
			raisesBefore++
		case parser.ActionCall, parser.ActionFold:
			if a.Player.Name == name && raisesBefore == 1 {
				return TriFalse
			}
		}
	}
	return TriImpossible
}

// foldToPre3BetFind evaluates whether the player surrendered to preflop
// re-aggression. A second re-raise muddies the spot and voids the sample.
func foldToPre3BetFind(h *parser.Hand, name string) TriBool {
	raised := false
	for _, a := range h.Preflop {
		switch a.Type {
		case parser.ActionBet:
			if a.Player.Name != name {
				return TriImpossible
			}
		case parser.ActionRaise:
			if a.Player.Name == name {
				return TriFalse
			}
			if raised {
				return TriImpossible
			}
			raised = true
		case parser.ActionFold:
			if a.Player.Name == name {
				if raised {
					return TriTrue
				}
				return TriImpossible
			}
		case parser.ActionCall:
			if a.Player.Name == name && raised {
				return TriFalse
			}
		}
	}
	return TriImpossible
}

// cBetFind evaluates the continuation bet. Only the last preflop aggressor is
// eligible, and only while nobody has bet into them on the flop.
func cBetFind(h *parser.Hand, name string) TriBool {
	open := false
	for _, a := range h.Preflop {
		if a.Type == parser.ActionRaise || a.Type == parser.ActionBet {
			open = a.Player.Name == name
		}
	}
	if !open {
		return TriImpossible
	}

	for _, a := range h.Flop {
		switch a.Type {
		case parser.ActionCheck:
			if a.Player.Name == name {
				return TriFalse
			}
		case parser.ActionBet:
			if a.Player.Name != name {
				return TriImpossible
			}
			return TriTrue
		}
	}
	// The opener never got to act on the flop, usually an all-in preflop.
	return TriImpossible
}

// foldToCBetFind evaluates folding to the opener's continuation bet. A bet
// from anyone but the identified opener, or a missing flop, voids the sample.
func foldToCBetFind(h *parser.Hand, name string) TriBool {
	opener := ""
	for _, a := range h.Preflop {
		if a.Type == parser.ActionRaise || a.Type == parser.ActionBet {
			opener = a.Player.Name
		}
	}
	if opener == name || opener == "" {
		return TriImpossible
	}

	for _, a := range h.Flop {
		switch a.Type {
		case parser.ActionBet:
			if a.Player.Name != opener {
				return TriImpossible
			}
		case parser.ActionRaise, parser.ActionCall:
			if a.Player.Name == name {
				return TriFalse
			}
		case parser.ActionFold:
			if a.Player.Name == name {
				return TriTrue
			}
		}
	}
	// Everyone checked through, or the player never faced the bet.
	return TriImpossible
}

// squeezeFind evaluates the squeeze: a raise over an open-raise that at least
// one opponent has already flat-called.
func squeezeFind(h *parser.Hand, name string) TriBool {
	caller := false
	open := false
	for _, a := range h.Preflop {
		switch a.Type {
		case parser.ActionRaise:
			if a.Player.Name != name {
				if open {
					return TriImpossible
				}
				open = true
				continue
			}
			if open && caller {
				return TriTrue
			}
			return TriImpossible
		case parser.ActionCall:
			if a.Player.Name == name && open {
				if caller {
					return TriFalse
				}
				return TriImpossible
			}
			if a.Player.Name != name && open {
				caller = true
			}
		case parser.ActionCheck, parser.ActionFold:
			if a.Player.Name == name && open {
				if caller {
					return TriFalse
				}
				return TriImpossible
			}
		}
	}
	// The player never acted after the open, usually a walk or short hand.
	return TriImpossible
}
