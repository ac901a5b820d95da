package bracket

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func TestSeedPairs(t *testing.T) {
	testCases := []struct {
		name     string
		size     int
		expected [][2]int
	}{
		{name: "0 teams", size: 0, expected: [][2]int{}},
		{name: "2 teams", size: 2, expected: [][2]int{{0, 1}}},
		{name: "4 teams", size: 4, expected: [][2]int{{0, 3}, {1, 2}}},
		{name: "8 teams", size: 8, expected: [][2]int{{0, 7}, {3, 4}, {1, 6}, {2, 5}}},
		{name: "non power of 2 rounds up", size: 7, expected: [][2]int{{0, 7}, {3, 4}, {1, 6}, {2, 5}}},
		{
			name: "16 teams",
			size: 16,
			expected: [][2]int{
				{0, 15}, {7, 8}, {3, 12}, {4, 11}, {1, 14}, {6, 9}, {2, 13}, {5, 10},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SeedPairs(tc.size))
		})
	}
}

func makeTeams(n int, region *Region) []Team {
	teams := make([]Team, 0, n)
	for i := n; i >= 1; i-- {
		teams = append(teams, Team{ID: uuid.New(), Name: fmt.Sprintf("Team %02d", i), Seed: intPtr(i), Region: region})
	}
	return teams
}

func TestGenerateSkeletonDefaultLayout(t *testing.T) {
	var teams []Team
	for _, region := range DefaultLayout.Regions {
		teams = append(teams, makeTeams(16, &region)...)
	}

	tournamentID := uuid.New()
	matches, err := GenerateSkeleton(DefaultLayout, tournamentID, teams, Seeded, nil)
	require.NoError(t, err)

	// 15 per region and 3 in the Final Four
	require.Len(t, matches, 63)

	perRound := map[Region]map[int]int{}
	for _, m := range matches {
		assert.Equal(t, tournamentID, m.TournamentID)
		if perRound[m.Region] == nil {
			perRound[m.Region] = map[int]int{}
		}
		perRound[m.Region][m.Round]++

		if m.Round == 1 {
			assert.NotNil(t, m.TeamA)
			assert.NotNil(t, m.TeamB)
		} else {
			assert.Nil(t, m.TeamA)
			assert.Nil(t, m.TeamB)
		}
	}

	for _, region := range DefaultLayout.Regions {
		assert.Equal(t, map[int]int{1: 8, 2: 4, 3: 2, 4: 1}, perRound[region])
	}
	assert.Equal(t, map[int]int{5: 2, 6: 1}, perRound[FinalFour])

	first := matches[0]
	assert.Equal(t, East, first.Region)
	assert.Equal(t, 1, first.MatchOrder)
	assert.Equal(t, 1, *first.SeedA)
	assert.Equal(t, 16, *first.SeedB)
}

func TestGenerateSkeletonResolvesToChampion(t *testing.T) {
	teams := makeTeams(8, nil)
	matches, err := GenerateSkeleton(DefaultLayout, uuid.New(), teams, Seeded, nil)
	require.NoError(t, err)
	require.Len(t, matches, 7)

	for i := range matches {
		matches[i].Winner = slotPtr(Team1)
	}

	r := NewResolver(DefaultLayout, matches, OfficialWinners())
	champion := r.Champion()
	require.NotNil(t, champion)
	assert.Equal(t, "Team 01", champion.Name)
}

func TestGenerateSkeletonRandomIsPermutation(t *testing.T) {
	teams := makeTeams(8, nil)
	rng := rand.New(rand.NewPCG(1, 2))

	matches, err := GenerateSkeleton(singleRegion, uuid.New(), teams, Random, rng)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, m := range matches {
		if m.Round != 1 {
			continue
		}
		seen[*m.TeamA] = true
		seen[*m.TeamB] = true
	}
	assert.Len(t, seen, 8)
}

func TestGenerateSkeletonErrors(t *testing.T) {
	east := East
	north := Region("North")

	testCases := []struct {
		name   string
		layout Layout
		teams  []Team
	}{
		{name: "no teams", layout: DefaultLayout, teams: nil},
		{name: "not divisible by regions", layout: DefaultLayout, teams: makeTeams(6, nil)},
		{name: "region size not a power of two", layout: DefaultLayout, teams: makeTeams(12, nil)},
		{name: "single team region", layout: DefaultLayout, teams: makeTeams(4, nil)},
		{name: "unknown region", layout: singleRegion, teams: makeTeams(4, &north)},
		{name: "mixed regions", layout: singleRegion, teams: append(makeTeams(2, &east), makeTeams(2, nil)...)},
		{name: "unbalanced regions", layout: DefaultLayout, teams: makeTeams(8, &east)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := GenerateSkeleton(tc.layout, uuid.New(), tc.teams, Seeded, nil)
			assert.ErrorIs(t, err, ErrBracketSize)
		})
	}
}

func TestOrderTeamsSeededUnseededLast(t *testing.T) {
	teams := []Team{
		{Name: "zeta"},
		{Name: "Beta", Seed: intPtr(2)},
		{Name: "alpha"},
		{Name: "Gamma", Seed: intPtr(1)},
	}

	ordered := OrderTeams(teams, Seeded, nil)

	var got []string
	for _, team := range ordered {
		got = append(got, team.Name)
	}
	assert.Equal(t, []string{"Gamma", "Beta", "alpha", "zeta"}, got)
	assert.Equal(t, "zeta", teams[0].Name, "input is left untouched")
}
