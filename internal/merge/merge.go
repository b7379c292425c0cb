// Package merge stitches consecutive chunk transcripts together, removing the
// words that were transcribed twice because the audio windows overlap.
//
// Matching is done on whitespace-collapsed text and is conservative: when the
// duplicated region cannot be located with confidence the two transcripts are
// simply joined with a newline, so content is never dropped.
package merge

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Defaults for Options.
const (
	DefaultMinMatch  = 40
	DefaultMaxMatch  = 500
	DefaultScanSlack = 20
)

// Options tunes overlap detection. Lengths are counted in characters of the
// whitespace-collapsed text.
type Options struct {
	// MinMatch is the shortest overlap accepted as a confident match.
	MinMatch int
	// MaxMatch caps the overlap search.
	MaxMatch int
	// ScanSlack bounds how far past the match length the scan over the
	// original text may run before giving up.
	ScanSlack int
}

// DefaultOptions returns the thresholds used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MinMatch:  DefaultMinMatch,
		MaxMatch:  DefaultMaxMatch,
		ScanSlack: DefaultScanSlack,
	}
}

func (o Options) normalized() Options {
	if o.MinMatch < 1 {
		o.MinMatch = 1
	}
	if o.MaxMatch < o.MinMatch {
		o.MaxMatch = o.MinMatch
	}
	if o.ScanSlack < 0 {
		o.ScanSlack = 0
	}
	return o
}

// Outcome records which merge rule produced a Result.
type Outcome int

const (
	// First means prev was empty and next was taken verbatim.
	First Outcome = iota
	// Skipped means next was blank and prev is returned unchanged.
	Skipped
	// Deduplicated means a confident overlap was found and removed from next.
	Deduplicated
	// Appended means no confident overlap was found; both texts were kept.
	Appended
	// ScanAborted means an overlap was found in collapsed form but could not
	// be mapped back onto the original text; both texts were kept.
	ScanAborted
)

func (o Outcome) String() string {
	switch o {
	case First:
		return "first"
	case Skipped:
		return "skipped"
	case Deduplicated:
		return "deduplicated"
	case Appended:
		return "appended"
	case ScanAborted:
		return "scan-aborted"
	default:
		return "unknown"
	}
}

// Result is the merged text plus what happened while producing it.
type Result struct {
	Text    string
	Outcome Outcome
	// Overlap is the collapsed text that was removed from next, if any.
	Overlap string
}

// Merger merges transcripts with a fixed set of options.
type Merger struct {
	opts Options
}

// New creates a Merger. Out-of-range options are clamped.
func New(opts Options) *Merger {
	return &Merger{opts: opts.normalized()}
}

// Options returns the effective options.
func (m *Merger) Options() Options {
	return m.opts
}

// Merge folds next into prev.
func (m *Merger) Merge(prev, next string) Result {
	if prev == "" {
		return Result{Text: next, Outcome: First}
	}
	if strings.TrimSpace(next) == "" {
		return Result{Text: prev, Outcome: Skipped}
	}

	overlap := m.findOverlap([]rune(Collapse(prev)), []rune(Collapse(next)))
	if overlap == nil {
		return Result{Text: prev + "\n" + next, Outcome: Appended}
	}

	cut, ok := m.locatePrefix(next, overlap)
	if !ok {
		return Result{Text: prev + "\n" + next, Outcome: ScanAborted, Overlap: string(overlap)}
	}

	remainder := strings.TrimLeftFunc(next[cut:], unicode.IsSpace)
	return Result{Text: prev + "\n" + remainder, Outcome: Deduplicated, Overlap: string(overlap)}
}

// findOverlap returns the longest suffix of prev that is also a prefix of
// next, within [MinMatch, MaxMatch], or nil.
func (m *Merger) findOverlap(prev, next []rune) []rune {
	maxK := min(m.opts.MaxMatch, len(prev), len(next))
	for k := maxK; k >= m.opts.MinMatch; k-- {
		suffix := prev[len(prev)-k:]
		if equalRunes(suffix, next[:k]) {
			return suffix
		}
	}
	return nil
}

// locatePrefix scans text rune by rune and returns the byte offset just past
// the shortest prefix whose collapsed form equals target.
func (m *Merger) locatePrefix(text string, target []rune) (int, bool) {
	limit := len(target) + m.opts.ScanSlack
	collapsed := make([]rune, 0, len(target)+1)
	pendingSpace := false

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size

		if unicode.IsSpace(r) {
			// a run of whitespace only shows up once more text follows it
			if len(collapsed) > 0 {
				pendingSpace = true
			}
		} else {
			if pendingSpace {
				collapsed = append(collapsed, ' ')
				pendingSpace = false
			}
			collapsed = append(collapsed, r)
		}

		if equalRunes(collapsed, target) {
			return i, true
		}
		if len(collapsed) > limit {
			break
		}
	}
	return 0, false
}

// Merge folds next into prev using DefaultOptions.
func Merge(prev, next string) string {
	return New(DefaultOptions()).Merge(prev, next).Text
}

// Collapse replaces every run of whitespace with a single space and trims
// the ends. It is only used for comparison, never for output.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
