package parsers

import (
	"fmt"
	"strconv"
	"strings"
)

// Scorecard is a parsed upload. Pars[i] is the par of hole i+1 and every
// row has exactly len(Pars) scores, 0 meaning the hole was left blank.
type Scorecard struct {
	Pars []int
	Rows []ScoreRow
}

type ScoreRow struct {
	PlayerName string
	Scores     []int
	Total      int
}

// summaryColumns are header names of computed columns that are not holes.
var summaryColumns = []string{"total", "tot", "out", "in", "gross", "net", "+/-", "topar"}

// parseRecords is shared by the CSV and XLSX parsers. The first row is the
// header, the par row is found by label or shape, every other named row is a
// player.
func parseRecords(records [][]string, source string) (*Scorecard, error) {
	records = dropEmpty(records)
	if len(records) == 0 {
		return nil, fmt.Errorf("%s file is empty", source)
	}

	skip := summaryColumnIndexes(records[0])

	parRowIndex, pars, err := findParRow(records, skip)
	if err != nil {
		return nil, err
	}
	if parRowIndex < 0 {
		return nil, fmt.Errorf("no par row found in %s", source)
	}

	rows, err := extractPlayerScores(records, parRowIndex, len(pars), skip)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no player score rows found in %s", source)
	}

	return &Scorecard{Pars: pars, Rows: rows}, nil
}

func dropEmpty(records [][]string) [][]string {
	out := records[:0:0]
	for _, r := range records {
		empty := true
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, r)
		}
	}
	return out
}

// summaryColumnIndexes returns header positions of total-style columns.
func summaryColumnIndexes(header []string) map[int]bool {
	skip := make(map[int]bool)
	for i, col := range header {
		norm := normalize(col)
		for _, name := range summaryColumns {
			if norm == name {
				skip[i] = true
			}
		}
	}
	return skip
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// findParRow identifies the par row and extracts par values. A row labelled
// "Par" wins; otherwise a fully numeric row of at least nine values is taken.
func findParRow(records [][]string, skip map[int]bool) (int, []int, error) {
	for i, record := range records {
		if strings.EqualFold(strings.TrimSpace(record[0]), "Par") {
			pars, err := parseParRow(record[1:], skip)
			if err != nil {
				return -1, nil, fmt.Errorf("invalid par row at line %d: %w", i+1, err)
			}
			return i, pars, nil
		}
	}

	for i, record := range records {
		if isLikelyPlayerName(record[0]) {
			continue
		}
		// an unlabelled par row starts at hole 1 in its first cell
		pars, err := parseParRow(record, skip)
		if err == nil && len(pars) >= 9 {
			return i, pars, nil
		}
	}
	return -1, nil, nil
}

// isLikelyPlayerName reports whether s is not a bare number.
func isLikelyPlayerName(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err != nil
}

// parseParRow reads par values, ignoring summary columns and blanks. cells[i]
// lines up with header column i+1.
func parseParRow(cells []string, skip map[int]bool) ([]int, error) {
	var pars []int
	for i, val := range cells {
		if skip[i+1] {
			continue
		}
		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}
		par, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("non-numeric par value: %q", val)
		}
		if par <= 0 {
			return nil, fmt.Errorf("par must be positive: %d", par)
		}
		pars = append(pars, par)
	}
	return pars, nil
}

// parseScoreRow reads hole scores by position. Blank and "-" cells are
// unplayed holes and keep their position.
func parseScoreRow(cells []string, skip map[int]bool) ([]int, error) {
	var scores []int
	for i, val := range cells {
		if skip[i+1] {
			continue
		}
		val = strings.TrimSpace(val)
		if val == "" || val == "-" {
			scores = append(scores, 0)
			continue
		}
		score, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("non-numeric score value: %q", val)
		}
		if score < 0 {
			return nil, fmt.Errorf("negative score value: %d", score)
		}
		scores = append(scores, score)
	}
	return scores, nil
}

// extractPlayerScores extracts all player score rows. Short rows are padded
// with unplayed holes; extra values beyond the hole count are dropped.
func extractPlayerScores(records [][]string, parRowIndex, numHoles int, skip map[int]bool) ([]ScoreRow, error) {
	var rows []ScoreRow

	for i, record := range records {
		if i == parRowIndex || i == 0 {
			continue
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}

		scores, err := parseScoreRow(record[1:], skip)
		if err != nil {
			return nil, fmt.Errorf("invalid scores for player %q at line %d: %w", name, i+1, err)
		}
		for len(scores) < numHoles {
			scores = append(scores, 0)
		}
		scores = scores[:numHoles]

		total := 0
		for _, s := range scores {
			total += s
		}
		rows = append(rows, ScoreRow{PlayerName: name, Scores: scores, Total: total})
	}
	return rows, nil
}
