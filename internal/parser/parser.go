package parser

import "strings"

// The hand parser walks a hand block through explicit phases. Each phase
// consumes lines until it sees the marker that ends it, then hands control to
// the next phase. A summary marker is a valid exit from every street: hands
// routinely end before the river when everyone folds.

type phase int

const (
	phaseHeader phase = iota
	phasePreflop
	phaseFlop
	phaseTurn
	phaseRiver
	phaseShowdown
	phaseDone
)

type handParser struct {
	hand  *Hand
	lines []string
	pos   int
}

// ParseHand parses one normalized hand block into a Hand. The input must be
// a single block as produced by Split. On failure the whole hand is rejected;
// partial hands are never returned.
func ParseHand(block string) (*Hand, error) {
	p := &handParser{
		hand:  newHand(block),
		lines: splitLines(block),
	}

	for st := phaseHeader; st != phaseDone; {
		var err error
		switch st {
		case phaseHeader:
			st, err = p.header()
		case phasePreflop:
			st, err = p.preflop()
		case phaseFlop:
			st, err = p.street(&p.hand.Flop, PhaseFlop, LineTurnMarker, phaseTurn)
		case phaseTurn:
			st, err = p.street(&p.hand.Turn, PhaseTurn, LineRiverMarker, phaseRiver)
		case phaseRiver:
			st, err = p.street(&p.hand.River, PhaseRiver, LineShowdownMarker, phaseShowdown)
		case phaseShowdown:
			st, err = p.showdown()
		}
		if err != nil {
			return nil, err
		}
	}
	return p.hand, nil
}

func splitLines(block string) []string {
	block = strings.TrimSuffix(block, "\n")
	if block == "" {
		return nil
	}
	return strings.Split(block, "\n")
}

func (p *handParser) next() (string, bool) {
	if p.pos >= len(p.lines) {
		return "", false
	}
	line := p.lines[p.pos]
	p.pos++
	return line, true
}

// header parses the header line, the table line, the seat table and both
// blind posts. It ends on the hole-cards marker, which both blinds must
// precede exactly once.
func (p *handParser) header() (phase, error) {
	line, ok := p.next()
	if !ok {
		return phaseDone, newError(PhaseHeader, "", "empty hand block")
	}
	if err := parseHeader(p.hand, line); err != nil {
		return phaseDone, err
	}

	line, ok = p.next()
	if !ok {
		return phaseDone, newError(PhaseHeader, "", "missing table line")
	}
	if err := parseTableInfo(p.hand, line); err != nil {
		return phaseDone, err
	}

	sawSmall, sawBig := false, false
	for {
		line, ok = p.next()
		if !ok {
			return phaseDone, newError(PhaseSeating, "", "hand ends before hole cards")
		}
		switch Classify(line) {
		case LineSeat:
			player, err := parseSeat(line)
			if err != nil {
				return phaseDone, err
			}
			if err := p.hand.addPlayer(player); err != nil {
				return phaseDone, wrapError(PhaseSeating, line, "seat conflict", err)
			}
		case LineSmallBlind:
			if sawSmall {
				return phaseDone, newError(PhaseSeating, line, "duplicate small blind post")
			}
			blind, err := parseBlind(p.hand, line)
			if err != nil {
				return phaseDone, err
			}
			p.hand.SmallBlind = blind
			sawSmall = true
		case LineBigBlind:
			if sawBig {
				return phaseDone, newError(PhaseSeating, line, "duplicate big blind post")
			}
			blind, err := parseBlind(p.hand, line)
			if err != nil {
				return phaseDone, err
			}
			p.hand.BigBlind = blind
			sawBig = true
		case LineHoleCardsMarker:
			if !sawSmall || !sawBig {
				return phaseDone, newError(PhaseSeating, line, "blind post missing before hole cards")
			}
			return phasePreflop, nil
		}
		// Sit-outs, chat and other noise between seats are ignored.
	}
}

// preflop consumes the dealt line then the preflop betting round. It ends on
// the flop marker, or on the summary marker when the hand never saw a flop.
func (p *handParser) preflop() (phase, error) {
	line, ok := p.next()
	if !ok {
		return phaseDone, newError(PhasePreflop, "", "hand ends at hole cards")
	}
	player, cards, err := parseDealt(p.hand, line)
	if err != nil {
		return phaseDone, err
	}
	p.hand.HoleCards[player.Seat-1] = &cards

	for {
		line, ok = p.next()
		if !ok {
			return phaseDone, nil
		}
		switch Classify(line) {
		case LineSummaryMarker:
			return phaseDone, nil
		case LineFlopMarker:
			cards, err := parseBoardCards(line, PhasePreflop)
			if err != nil {
				return phaseDone, err
			}
			if len(cards) != 3 {
				return phaseDone, newError(PhasePreflop, line, "flop must reveal three cards")
			}
			p.hand.FlopCards = &[3]string{cards[0], cards[1], cards[2]}
			return phaseFlop, nil
		case LineAction:
			action, err := parseAction(p.hand, line)
			if err != nil {
				return phaseDone, wrapError(PhasePreflop, line, "bad preflop action", err)
			}
			p.hand.Preflop = append(p.hand.Preflop, action)
		case LinePotAward:
			end, err := parsePotAward(p.hand, line)
			if err != nil {
				return phaseDone, wrapError(PhasePreflop, line, "bad pot award", err)
			}
			p.hand.End = end
		}
	}
}

// street consumes one postflop betting round. endMarker is the street marker
// that opens the following round; its final bracketed card group is recorded
// before the transition.
func (p *handParser) street(dst *[]Action, errPhase Phase, endMarker LineKind, nextPhase phase) (phase, error) {
	for {
		line, ok := p.next()
		if !ok {
			return phaseDone, nil
		}
		kind := Classify(line)
		switch {
		case kind == LineSummaryMarker:
			return phaseDone, nil
		case kind == endMarker:
			switch endMarker {
			case LineTurnMarker:
				cards, err := parseBoardCards(line, errPhase)
				if err != nil {
					return phaseDone, err
				}
				p.hand.TurnCard = cards[len(cards)-1]
			case LineRiverMarker:
				cards, err := parseBoardCards(line, errPhase)
				if err != nil {
					return phaseDone, err
				}
				p.hand.RiverCard = cards[len(cards)-1]
			case LineShowdownMarker:
				// No cards on the showdown marker.
			}
			return nextPhase, nil
		case kind == LineAction:
			action, err := parseAction(p.hand, line)
			if err != nil {
				return phaseDone, wrapError(errPhase, line, "bad street action", err)
			}
			*dst = append(*dst, action)
		case kind == LinePotAward:
			end, err := parsePotAward(p.hand, line)
			if err != nil {
				return phaseDone, wrapError(errPhase, line, "bad pot award", err)
			}
			p.hand.End = end
		}
	}
}

// showdown records revealed hole cards and the final pot award. Mucked hands
// leave no reveal line and stay unknown.
func (p *handParser) showdown() (phase, error) {
	for {
		line, ok := p.next()
		if !ok {
			return phaseDone, nil
		}
		switch Classify(line) {
		case LineSummaryMarker:
			return phaseDone, nil
		case LineShowdownReveal:
			player, cards, err := parseShows(p.hand, line)
			if err != nil {
				return phaseDone, err
			}
			p.hand.HoleCards[player.Seat-1] = &cards
		case LinePotAward:
			end, err := parsePotAward(p.hand, line)
			if err != nil {
				return phaseDone, wrapError(PhaseShowdown, line, "bad pot award", err)
			}
			p.hand.End = end
		}
	}
}
