package odds

import (
	"regexp"
	"strconv"

	"github.com/oddscope/surebet/internal/domain"
)

// outcomeSuffix matches a numeric line embedded at the end of an outcome key,
// e.g. "over_5.5" or "spread_-3.5".
var outcomeSuffix = regexp.MustCompile(`_(-?\d+(?:\.\d+)?)$`)

// ExtractLine returns the point/handicap value for a raw quote. Feeds
// populate whichever of Line, Handicap, or Point their upstream uses, or
// embed the value as a suffix on the outcome key; precedence is exactly that
// order and the first non-nil value wins. Returns nil when no line is
// present anywhere; callers must not conflate that with a zero line.
func ExtractLine(q domain.RawQuote) *float64 {
	if q.Line != nil {
		return q.Line
	}
	if q.Handicap != nil {
		return q.Handicap
	}
	if q.Point != nil {
		return q.Point
	}
	if m := outcomeSuffix.FindStringSubmatch(q.OutcomeKey); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &v
		}
	}
	return nil
}
