package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reHeader    = regexp.MustCompile(`^PokerStars (?:Hand|Game) #(\d+)`)
	reStakes    = regexp.MustCompile(`\((\$?\d+(?:\.\d+)?)/(\$?\d+(?:\.\d+)?)(?: USD)?\)`)
	reDate      = regexp.MustCompile(`\[(\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}) ET\]`)
	reTableInfo = regexp.MustCompile(`^Table '([^']*)' (\d+)-max Seat #(\d+) is the button`)
	reSeat      = regexp.MustCompile(`^Seat (\d+): (.+) \(\$?(\d+(?:\.\d+)?) in chips\)`)
	reDealt     = regexp.MustCompile(`^Dealt to (.+) \[(\S+) (\S+)\]`)
	reBracket   = regexp.MustCompile(`\[.+?\]`)
	reMoney     = regexp.MustCompile(`\$?\d+(?:\.\d+)?`)
	reUncalled  = regexp.MustCompile(`^Uncalled bet \(\$?(\d+(?:\.\d+)?)\) returned to (.+)$`)
	reShows     = regexp.MustCompile(`^(.+): shows \[(\S+) (\S+)\]`)
)

// The card-room clock is logged as a fixed-offset "ET" stamp; the client has
// historically interpreted it at UTC+5 with no DST handling. Downstream only
// needs relative ordering, so the fixed offset is kept.
var etZone = time.FixedZone("ET", 5*3600)

const dateLayout = "2006/01/02 15:04:05"

// LineKind is the semantic category of one line within a hand block.
type LineKind int

const (
	LineUnknown LineKind = iota
	LineHeader
	LineTableInfo
	LineSeat
	LineSmallBlind
	LineBigBlind
	LineHoleCardsMarker
	LineFlopMarker
	LineTurnMarker
	LineRiverMarker
	LineShowdownMarker
	LineSummaryMarker
	LineDealt
	LineAction
	LinePotAward
	LineShowdownReveal
)

// Classify determines the semantic category of a single line. It never fails;
// lines that match no category are LineUnknown and the state machine decides
// whether that is acceptable in its current phase.
func Classify(line string) LineKind {
	switch {
	case strings.HasPrefix(line, handStartMarker):
		return LineHeader
	case strings.HasPrefix(line, "Table '"):
		return LineTableInfo
	case strings.HasPrefix(line, "*** HOLE CARDS ***"):
		return LineHoleCardsMarker
	case strings.HasPrefix(line, "*** FLOP ***"):
		return LineFlopMarker
	case strings.HasPrefix(line, "*** TURN ***"):
		return LineTurnMarker
	case strings.HasPrefix(line, "*** RIVER ***"):
		return LineRiverMarker
	case strings.HasPrefix(line, "*** SHOW DOWN ***"):
		return LineShowdownMarker
	case strings.HasPrefix(line, "*** SUMMARY ***"):
		return LineSummaryMarker
	case strings.HasPrefix(line, "Seat ") && strings.Contains(line, "in chips"):
		return LineSeat
	case strings.HasPrefix(line, "Dealt to "):
		return LineDealt
	case strings.Contains(line, "posts small blind"):
		return LineSmallBlind
	case strings.Contains(line, "posts big blind"):
		return LineBigBlind
	case isActionLine(line):
		return LineAction
	case strings.Contains(line, "collected"):
		return LinePotAward
	case strings.Contains(line, "shows"):
		return LineShowdownReveal
	default:
		return LineUnknown
	}
}

func isActionLine(line string) bool {
	return strings.Contains(line, "calls") ||
		strings.Contains(line, "bets") ||
		strings.Contains(line, "raises") ||
		strings.Contains(line, "check") ||
		strings.Contains(line, "folds") ||
		strings.Contains(line, "leaves") ||
		strings.HasPrefix(line, "Uncalled bet")
}

// parseAmount converts a monetary token to a float rounded to two decimal
// places, which keeps repeated aggregation free of binary drift.
func parseAmount(tok string) (float64, error) {
	tok = strings.TrimPrefix(strings.TrimSpace(tok), "$")
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, err
	}
	return math.Round(v*100) / 100, nil
}

// parseHeader extracts hand id, timestamp, stake pair and the real-money flag
// from the first line of a hand block.
func parseHeader(h *Hand, line string) error {
	m := reHeader.FindStringSubmatch(line)
	if m == nil {
		return newError(PhaseHeader, line, "hand id not found")
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return wrapError(PhaseHeader, line, "malformed hand id", err)
	}
	h.ID = id

	d := reDate.FindStringSubmatch(line)
	if d == nil {
		return newError(PhaseHeader, line, "timestamp not found")
	}
	naive, err := time.Parse(dateLayout, d[1])
	if err != nil {
		return wrapError(PhaseHeader, line, "malformed timestamp", err)
	}
	h.Date = naive.In(etZone)

	s := reStakes.FindStringSubmatch(line)
	if s == nil {
		return newError(PhaseHeader, line, "stakes not found")
	}
	if h.SmallLimit, err = parseAmount(s[1]); err != nil {
		return wrapError(PhaseHeader, line, "malformed small stake", err)
	}
	if h.BigLimit, err = parseAmount(s[2]); err != nil {
		return wrapError(PhaseHeader, line, "malformed big stake", err)
	}
	h.RealMoney = strings.Contains(s[0], "$")
	return nil
}

// parseTableInfo extracts table name, capacity and button seat from the
// second line of a hand block.
func parseTableInfo(h *Hand, line string) error {
	m := reTableInfo.FindStringSubmatch(line)
	if m == nil {
		return newError(PhaseHeader, line, "malformed table line")
	}
	h.TableName = m[1]
	size, err := strconv.Atoi(m[2])
	if err != nil {
		return wrapError(PhaseHeader, line, "malformed table size", err)
	}
	h.TableSize = size
	button, err := strconv.Atoi(m[3])
	if err != nil {
		return wrapError(PhaseHeader, line, "malformed button seat", err)
	}
	h.ButtonSeat = button
	return nil
}

// parseSeat extracts a seat declaration into a Player.
func parseSeat(line string) (Player, error) {
	m := reSeat.FindStringSubmatch(line)
	if m == nil {
		return Player{}, newError(PhaseSeating, line, "malformed seat line")
	}
	seat, err := strconv.Atoi(m[1])
	if err != nil {
		return Player{}, wrapError(PhaseSeating, line, "malformed seat number", err)
	}
	stack, err := parseAmount(m[3])
	if err != nil {
		return Player{}, wrapError(PhaseSeating, line, "malformed stack", err)
	}
	return Player{Name: strings.TrimSpace(m[2]), Seat: seat, Stack: stack}, nil
}

// parseBlind resolves a blind-post line against the seated players. The
// player is the text before the colon, the amount the first monetary token
// after it.
func parseBlind(h *Hand, line string) (Blind, error) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return Blind{}, newError(PhaseSeating, line, "blind post without player")
	}
	player, err := h.PlayerByName(line[:idx])
	if err != nil {
		return Blind{}, wrapError(PhaseSeating, line, "blind poster not seated", err)
	}
	tok := reMoney.FindString(line[idx+1:])
	if tok == "" {
		return Blind{}, newError(PhaseSeating, line, "blind amount not found")
	}
	amount, err := parseAmount(tok)
	if err != nil {
		return Blind{}, wrapError(PhaseSeating, line, "malformed blind amount", err)
	}
	return Blind{Player: player, Amount: amount}, nil
}

// parseDealt extracts the hand owner's hole cards from a "Dealt to" line.
func parseDealt(h *Hand, line string) (*Player, HoleCards, error) {
	m := reDealt.FindStringSubmatch(line)
	if m == nil {
		return nil, HoleCards{}, newError(PhasePreflop, line, "malformed dealt line")
	}
	player, err := h.PlayerByName(m[1])
	if err != nil {
		return nil, HoleCards{}, wrapError(PhasePreflop, line, "dealt player not seated", err)
	}
	return player, HoleCards{m[2], m[3]}, nil
}

// parseBoardCards returns the card group of a street marker. The freshly
// dealt cards are always the last bracketed group: the TURN and RIVER markers
// repeat the running board in a first bracket.
func parseBoardCards(line string, phase Phase) ([]string, error) {
	groups := reBracket.FindAllString(line, -1)
	if len(groups) == 0 {
		return nil, newError(phase, line, "board cards not found")
	}
	last := strings.Trim(groups[len(groups)-1], "[]")
	cards := strings.Fields(last)
	if len(cards) == 0 {
		return nil, newError(phase, line, "empty board card group")
	}
	return cards, nil
}

// parseAction classifies a betting-action line into an Action. The player
// name is everything before the colon, the verb is the first word after it,
// and monetary tokens follow in verb-specific positions. Uncalled-bet lines
// are structurally different and handled first.
func parseAction(h *Hand, line string) (Action, error) {
	if strings.HasPrefix(line, "Uncalled bet") {
		return parseUncalled(h, line)
	}

	idx := strings.Index(line, ":")
	if idx < 0 {
		// Leave lines carry no colon: "somePlayer leaves the table".
		if cut := strings.Index(line, " leaves"); cut > 0 {
			player, err := h.PlayerByName(line[:cut])
			if err != nil {
				return Action{}, err
			}
			return Action{Type: ActionLeave, Player: player}, nil
		}
		return Action{}, newError(PhaseAction, line, "action without player")
	}
	player, err := h.PlayerByName(line[:idx])
	if err != nil {
		return Action{}, err
	}

	rest := strings.TrimSpace(line[idx+1:])
	verb := rest
	if sp := strings.IndexByte(rest, ' '); sp >= 0 {
		verb = rest[:sp]
	}
	allIn := strings.Contains(rest, "all-in")

	amounts := func(n int) ([]float64, error) {
		toks := reMoney.FindAllString(rest, n)
		if len(toks) < n {
			return nil, newError(PhaseAction, line, "action amount not found")
		}
		out := make([]float64, n)
		for i, tok := range toks {
			v, err := parseAmount(tok)
			if err != nil {
				return nil, wrapError(PhaseAction, line, "malformed action amount", err)
			}
			out[i] = v
		}
		return out, nil
	}

	switch verb {
	case "calls":
		a, err := amounts(1)
		if err != nil {
			return Action{}, err
		}
		return Action{Type: ActionCall, Player: player, Amount: a[0], AllIn: allIn}, nil
	case "bets":
		a, err := amounts(1)
		if err != nil {
			return Action{}, err
		}
		return Action{Type: ActionBet, Player: player, Amount: a[0], AllIn: allIn}, nil
	case "raises":
		a, err := amounts(2)
		if err != nil {
			return Action{}, err
		}
		return Action{Type: ActionRaise, Player: player, Amount: a[0], To: a[1], AllIn: allIn}, nil
	case "checks":
		return Action{Type: ActionCheck, Player: player}, nil
	case "folds":
		return Action{Type: ActionFold, Player: player}, nil
	case "leaves":
		return Action{Type: ActionLeave, Player: player}, nil
	default:
		return Action{}, newError(PhaseAction, line, "unrecognized action verb")
	}
}

func parseUncalled(h *Hand, line string) (Action, error) {
	m := reUncalled.FindStringSubmatch(line)
	if m == nil {
		return Action{}, newError(PhaseAction, line, "malformed uncalled-bet line")
	}
	amount, err := parseAmount(m[1])
	if err != nil {
		return Action{}, wrapError(PhaseAction, line, "malformed uncalled amount", err)
	}
	player, err := h.PlayerByName(m[2])
	if err != nil {
		return Action{}, err
	}
	return Action{Type: ActionUncalledBet, Player: player, Amount: amount}, nil
}

// parsePotAward reads a "collected" line: the winner is every token before
// the word collected, the pot the token right after it.
func parsePotAward(h *Hand, line string) (End, error) {
	fields := strings.Fields(line)
	at := -1
	for i, f := range fields {
		if f == "collected" {
			at = i
			break
		}
	}
	if at <= 0 || at+1 >= len(fields) {
		return End{}, newError(PhaseAction, line, "malformed pot-award line")
	}
	name := strings.Join(fields[:at], " ")
	player, err := h.PlayerByName(name)
	if err != nil {
		return End{}, err
	}
	pot, err := parseAmount(fields[at+1])
	if err != nil {
		return End{}, wrapError(PhaseAction, line, "malformed pot amount", err)
	}
	return End{Pot: pot, Winner: player}, nil
}

// parseShows extracts a showdown reveal: player name before the colon, two
// cards in the bracket. Mucked hands produce no such line and are ignored.
func parseShows(h *Hand, line string) (*Player, HoleCards, error) {
	m := reShows.FindStringSubmatch(line)
	if m == nil {
		return nil, HoleCards{}, newError(PhaseShowdown, line, "malformed showdown line")
	}
	player, err := h.PlayerByName(m[1])
	if err != nil {
		return nil, HoleCards{}, wrapError(PhaseShowdown, line, "shown player not seated", err)
	}
	return player, HoleCards{m[2], m[3]}, nil
}
