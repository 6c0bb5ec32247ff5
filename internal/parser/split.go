package parser

import "strings"

// handStartMarker opens every hand record written by the card-room client.
const handStartMarker = "PokerStars "

// Normalize strips carriage returns and byte-order marks from raw history
// text. Split and ParseHand expect normalized input.
func Normalize(raw string) string {
	raw = strings.ReplaceAll(raw, "\r", "")
	return strings.ReplaceAll(raw, "\ufeff", "")
}

// Split cuts normalized history text into per-hand blocks. A block begins at
// every line starting with the hand marker; leading content before the first
// marker is tolerated and kept as its own block. A trailing whitespace-only
// block is discarded. Splitting never fails: garbage in, garbage blocks out,
// and zero hands yield an empty slice.
func Split(content string) []string {
	var (
		hands   []string
		current strings.Builder
	)
	for _, line := range strings.Split(strings.TrimSuffix(content, "\n"), "\n") {
		if strings.HasPrefix(line, handStartMarker) && current.Len() > 0 {
			hands = append(hands, current.String())
			current.Reset()
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	if strings.TrimSpace(current.String()) != "" {
		hands = append(hands, current.String())
	}
	return hands
}
