package gameservice

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var compactTimePattern = regexp.MustCompile(`(\d{1,2})(\d{2})(am|pm)`)

// TimeParser turns natural language tee times into absolute times.
type TimeParser struct {
	TimezoneMap map[string]string
	parser      *when.Parser
}

// NewTimeParser creates a TimeParser with US timezone abbreviations.
func NewTimeParser() *TimeParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	return &TimeParser{
		TimezoneMap: map[string]string{
			"PST": "America/Los_Angeles",
			"PDT": "America/Los_Angeles",
			"MST": "America/Denver",
			"MDT": "America/Denver",
			"CST": "America/Chicago",
			"CDT": "America/Chicago",
			"EST": "America/New_York",
			"EDT": "America/New_York",
			"UTC": "UTC",
		},
		parser: w,
	}
}

// Location resolves an abbreviation or IANA name. Empty means UTC.
func (tp *TimeParser) Location(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return time.UTC, nil
	}
	if full, ok := tp.TimezoneMap[strings.ToUpper(tz)]; ok {
		tz = full
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidTeeTime, tz)
	}
	return loc, nil
}

// Parse interprets input relative to now in tz and returns the time in UTC.
// RFC 3339 input is accepted as is.
func (tp *TimeParser) Parse(input, tz string, now time.Time) (time.Time, error) {
	loc, err := tp.Location(tz)
	if err != nil {
		return time.Time{}, err
	}

	input = strings.TrimSpace(input)
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UTC(), nil
	}

	normalized := strings.ToLower(input)
	normalized = strings.ReplaceAll(normalized, "today ", "today at ")
	normalized = compactTimePattern.ReplaceAllString(normalized, "$1:$2 $3")

	r, err := tp.parser.Parse(normalized, now.In(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTeeTime, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: could not recognize %q", ErrInvalidTeeTime, input)
	}
	return r.Time.In(loc).Truncate(time.Minute).UTC(), nil
}
