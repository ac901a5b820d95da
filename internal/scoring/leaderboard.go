package scoring

import (
	"sort"
	"strings"

	"github.com/AdamBeresnev/bracket-picks/internal/bracket"
	"github.com/google/uuid"
)

// UnknownPlayer is shown for predictors the directory has no name for.
const UnknownPlayer = "Unknown player"

// RoundPoints doubles every round: 1, 2, 4, 8, 16, 32. Anything below round 1 is worth 1.
func RoundPoints(round int) int {
	if round < 1 {
		return 1
	}
	return 1 << (round - 1)
}

// Directory resolves predictor display names.
type Directory interface {
	DisplayName(id uuid.UUID) (string, bool)
}

// Names is a Directory backed by a map.
type Names map[uuid.UUID]string

func (n Names) DisplayName(id uuid.UUID) (string, bool) {
	name, ok := n[id]
	if !ok || strings.TrimSpace(name) == "" {
		return "", false
	}
	return name, true
}

type Row struct {
	UserID       uuid.UUID `json:"userId"`
	DisplayName  string    `json:"displayName"`
	TotalScore   int       `json:"totalScore"`
	CorrectCount int       `json:"correctCount"`
}

// ComputeLeaderboard scores every prediction against the decided matchups. Only predictors with at least one
// correct pick get a row. Rows are ranked by score, then by display name ignoring case.
func ComputeLeaderboard(matchups []bracket.Matchup, predictions []bracket.Prediction, directory Directory) []Row {
	decided := make(map[uuid.UUID]*bracket.Matchup, len(matchups))
	for i := range matchups {
		if matchups[i].IsDecided() {
			decided[matchups[i].ID] = &matchups[i]
		}
	}

	totals := make(map[uuid.UUID]*Row)
	for _, p := range predictions {
		m, ok := decided[p.MatchupID]
		if !ok || !m.IsCorrect(p.ChosenWinner) {
			continue
		}

		row, ok := totals[p.UserID]
		if !ok {
			row = &Row{UserID: p.UserID}
			totals[p.UserID] = row
		}
		row.TotalScore += RoundPoints(m.Round)
		row.CorrectCount++
	}

	rows := make([]Row, 0, len(totals))
	for id, row := range totals {
		row.DisplayName = UnknownPlayer
		if directory != nil {
			if name, ok := directory.DisplayName(id); ok {
				row.DisplayName = name
			}
		}
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalScore != rows[j].TotalScore {
			return rows[i].TotalScore > rows[j].TotalScore
		}
		ni, nj := strings.ToLower(rows[i].DisplayName), strings.ToLower(rows[j].DisplayName)
		if ni != nj {
			return ni < nj
		}
		return rows[i].UserID.String() < rows[j].UserID.String()
	})

	return rows
}

// UserIDs lists the predictors that appear in predictions, for loading only the names that are needed.
func UserIDs(predictions []bracket.Prediction) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0)
	for _, p := range predictions {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}
	return ids
}
