// gen_testlog generates synthetic hand-history files for testing.
//
// It reads real HH*.txt files, splits them into hand blocks, then reassembles
// mutated copies (fresh hand ids, shifted timestamps, consistently remapped
// cards) into new files of configurable size. The output parses like the real
// thing but contains no real session.
//
// Usage:
//
//	go run ./tools/gen_testlog [flags]
//
// Flags:
//
//	--input-dir   directory containing real HH*.txt files (default: ".")
//	--output-dir  where to write generated files (default: "./testdata/generated")
//	--count       number of files to generate (default: 10)
//	--hands       hands per generated file (default: 500)
//	--seed        random seed; 0 = use current time (default: 0)
//	--start-date  base date for generated timestamps, YYYY-MM-DD (default: 2025-01-01)
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PokerZhyte/pokertracker/internal/parser"
)

var (
	reHandID    = regexp.MustCompile(`^(PokerStars (?:Hand|Game) #)\d+`)
	reTimestamp = regexp.MustCompile(`\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}`)
	reBracket   = regexp.MustCompile(`\[[^\]]+\]`)
	reCardTok   = regexp.MustCompile(`^[2-9TJQKA][hdcs]$`)
)

const timeLayout = "2006/01/02 15:04:05"

var allCards []string

func init() {
	for _, r := range "23456789TJQKA" {
		for _, s := range "hdcs" {
			allCards = append(allCards, string(r)+string(s))
		}
	}
}

// extractHands reads one hand-history file and returns every block that
// parses cleanly. Truncated or malformed hands are useless as templates.
func extractHands(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pool []string
	for _, block := range parser.Split(parser.Normalize(string(raw))) {
		if _, err := parser.ParseHand(block); err == nil {
			pool = append(pool, block)
		}
	}
	return pool, nil
}

// collectCards returns every card token found inside bracketed groups.
func collectCards(block string) map[string]bool {
	used := make(map[string]bool)
	for _, group := range reBracket.FindAllString(block, -1) {
		for _, tok := range strings.Fields(strings.Trim(group, "[]")) {
			if reCardTok.MatchString(tok) {
				used[tok] = true
			}
		}
	}
	return used
}

// buildCardMapping picks a bijective replacement for every card in the hand,
// drawing from the cards not currently in use so no card appears twice.
func buildCardMapping(used map[string]bool, rng *rand.Rand) map[string]string {
	var candidates []string
	for _, c := range allCards {
		if !used[c] {
			candidates = append(candidates, c)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	mapping := make(map[string]string, len(used))
	i := 0
	for orig := range used {
		if i >= len(candidates) {
			mapping[orig] = orig
			continue
		}
		mapping[orig] = candidates[i]
		i++
	}
	return mapping
}

func mutateCards(block string, rng *rand.Rand) string {
	used := collectCards(block)
	if len(used) == 0 {
		return block
	}
	mapping := buildCardMapping(used, rng)
	return reBracket.ReplaceAllStringFunc(block, func(group string) string {
		toks := strings.Fields(strings.Trim(group, "[]"))
		for i, tok := range toks {
			if rep, ok := mapping[tok]; ok {
				toks[i] = rep
			}
		}
		return "[" + strings.Join(toks, " ") + "]"
	})
}

// rewriteHand stamps a fresh hand id and timestamp pair onto a block. The
// header carries a local time followed by the bracketed card-room time five
// hours behind it; both are rewritten to keep the line shape intact.
func rewriteHand(block string, id int64, t time.Time) string {
	block = reHandID.ReplaceAllString(block, fmt.Sprintf("${1}%d", id))
	first := true
	return reTimestamp.ReplaceAllStringFunc(block, func(string) string {
		if first {
			first = false
			return t.Add(5 * time.Hour).Format(timeLayout)
		}
		return t.Format(timeLayout)
	})
}

func generateFile(path string, pool []string, hands int, id int64, baseTime time.Time, rng *rand.Rand) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return id, err
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	t := baseTime
	for i := 0; i < hands; i++ {
		block := pool[rng.Intn(len(pool))]
		block = mutateCards(block, rng)
		block = rewriteHand(block, id, t)
		if _, err := w.WriteString(block); err != nil {
			return id, err
		}
		if _, err := w.WriteString("\n\n"); err != nil {
			return id, err
		}
		id++
		t = t.Add(time.Duration(30+rng.Intn(120)) * time.Second)
	}
	return id, w.Flush()
}

func main() {
	inputDir := flag.String("input-dir", ".", "directory with real HH*.txt files")
	outputDir := flag.String("output-dir", "testdata/generated", "output directory")
	count := flag.Int("count", 10, "number of files to generate")
	hands := flag.Int("hands", 500, "hands per generated file")
	seed := flag.Int64("seed", 0, "random seed (0 = use current Unix time)")
	startDate := flag.String("start-date", "2025-01-01", "base date for timestamps, YYYY-MM-DD")
	flag.Parse()

	if *count < 1 || *hands < 1 {
		fmt.Fprintln(os.Stderr, "error: --count and --hands must be >= 1")
		os.Exit(1)
	}

	actualSeed := *seed
	if actualSeed == 0 {
		actualSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(actualSeed))
	fmt.Printf("seed: %d\n", actualSeed)

	baseTime, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid --start-date %q: %v\n", *startDate, err)
		os.Exit(1)
	}

	matches, err := filepath.Glob(filepath.Join(*inputDir, "HH*.txt"))
	if err != nil || len(matches) == 0 {
		fmt.Fprintf(os.Stderr, "error: no HH*.txt files found in %q\n", *inputDir)
		os.Exit(1)
	}

	fmt.Printf("scanning %d input file(s)...\n", len(matches))
	var pool []string
	for _, path := range matches {
		blocks, err := extractHands(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: %v\n", path, err)
			continue
		}
		pool = append(pool, blocks...)
		fmt.Printf("  %s: %d hands\n", filepath.Base(path), len(blocks))
	}
	if len(pool) == 0 {
		fmt.Fprintln(os.Stderr, "error: no hand blocks extracted from input files")
		os.Exit(1)
	}
	fmt.Printf("hand pool: %d blocks\n", len(pool))

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot create output dir %q: %v\n", *outputDir, err)
		os.Exit(1)
	}

	id := int64(100000000000)
	t := baseTime
	for i := 0; i < *count; i++ {
		t = t.Add(time.Duration(30+rng.Intn(150)) * time.Minute)
		fname := fmt.Sprintf("HH%s generated.txt", t.Format("20060102"))
		if *count > 1 {
			fname = fmt.Sprintf("HH%s generated %d.txt", t.Format("20060102"), i+1)
		}
		outPath := filepath.Join(*outputDir, fname)

		id, err = generateFile(outPath, pool, *hands, id, t, rng)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error generating %s: %v\n", fname, err)
			os.Exit(1)
		}
		fmt.Printf("[%3d/%d] %s  %d hands\n", i+1, *count, fname, *hands)
	}

	fmt.Printf("\ndone, %d files written to %s\n", *count, *outputDir)
}
