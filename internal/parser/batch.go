package parser

// BlockError records one hand block that failed to parse during a batch run.
type BlockError struct {
	Block int // zero-based index of the block within the input
	Err   error
}

// ParseAll normalizes raw history text, splits it into hand blocks and parses
// each one. A malformed hand is skipped and reported; it never aborts the
// rest of the batch. Hands are returned in encounter order.
func ParseAll(raw string) ([]*Hand, []BlockError) {
	blocks := Split(Normalize(raw))
	hands := make([]*Hand, 0, len(blocks))
	var failures []BlockError
	for i, block := range blocks {
		h, err := ParseHand(block)
		if err != nil {
			failures = append(failures, BlockError{Block: i, Err: err})
			continue
		}
		hands = append(hands, h)
	}
	return hands, failures
}
