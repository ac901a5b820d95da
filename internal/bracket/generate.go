package bracket

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/google/uuid"
)

type GenerateMode string

const (
	Seeded GenerateMode = "seeded"
	Random GenerateMode = "random"
)

var ErrBracketSize = errors.New("teams do not fit the bracket layout")

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func calcBracketSize(count int) int {
	if count <= 0 {
		return 0
	}

	// Log2 -> Ceil -> 2^^log2 to round up
	log2 := math.Ceil(math.Log2(float64(count)))
	return int(math.Pow(2, log2))
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// SeedPairs returns round 1 pairings as zero based seed indexes, in bracket order so that the top seeds
// can only meet late. For 16 that is 1v16, 8v9, 4v13, 5v12, 2v15, 7v10, 3v14, 6v11.
func SeedPairs(size int) [][2]int {
	size = calcBracketSize(size)
	if size < 2 {
		return [][2]int{}
	}

	rounds := []int{0}
	for len(rounds) < size {
		var nextRound []int
		currentCount := len(rounds) * 2

		for _, seed := range rounds {
			nextRound = append(nextRound, seed)
			nextRound = append(nextRound, (currentCount-1)-seed)
		}
		rounds = nextRound
	}

	pairs := make([][2]int, 0, size/2)
	for i := 0; i < len(rounds); i += 2 {
		pairs = append(pairs, [2]int{rounds[i], rounds[i+1]})
	}

	return pairs
}

// OrderTeams sorts by seed with unseeded teams last (name breaks ties), or shuffles in Random mode.
func OrderTeams(teams []Team, mode GenerateMode, rng *rand.Rand) []Team {
	ordered := make([]Team, len(teams))
	copy(ordered, teams)

	if mode == Random {
		swap := func(i, j int) { ordered[i], ordered[j] = ordered[j], ordered[i] }
		if rng != nil {
			rng.Shuffle(len(ordered), swap)
		} else {
			rand.Shuffle(len(ordered), swap)
		}
		return ordered
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := seedOrLast(ordered[i].Seed), seedOrLast(ordered[j].Seed)
		if si != sj {
			return si < sj
		}
		return strings.ToLower(ordered[i].Name) < strings.ToLower(ordered[j].Name)
	})
	return ordered
}

func seedOrLast(seed *int) int {
	if seed == nil {
		return math.MaxInt
	}
	return *seed
}

// GenerateSkeleton builds every matchup of the tournament. Round 1 carries teams, everything after it
// (including the final stage) starts empty and is filled in by the Resolver.
func GenerateSkeleton(layout Layout, tournamentID uuid.UUID, teams []Team, mode GenerateMode, rng *rand.Rand) ([]Matchup, error) {
	regions := len(layout.Regions)
	if regions == 0 {
		return nil, fmt.Errorf("%w: layout has no regions", ErrBracketSize)
	}
	if regions > 1 && regions != 2*len(layout.SemifinalPairs) {
		return nil, fmt.Errorf("%w: %d regions need %d semifinal pairs", ErrBracketSize, regions, regions/2)
	}
	if len(teams) == 0 || len(teams)%regions != 0 {
		return nil, fmt.Errorf("%w: %d teams across %d regions", ErrBracketSize, len(teams), regions)
	}
	size := len(teams) / regions
	if size < 2 || !isPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: %d teams per region is not a power of two", ErrBracketSize, size)
	}

	grouped, err := groupByRegion(layout, teams, mode, rng, size)
	if err != nil {
		return nil, err
	}

	totalRounds := int(math.Log2(float64(size)))
	var matches []Matchup

	for _, region := range layout.Regions {
		regionTeams := grouped[region]

		for i, pair := range SeedPairs(size) {
			a, b := regionTeams[pair[0]], regionTeams[pair[1]]
			matches = append(matches, Matchup{
				ID:           uuid.New(),
				TournamentID: tournamentID,
				Region:       region,
				Round:        1,
				MatchOrder:   i + 1,
				TeamA:        &a.Name,
				TeamB:        &b.Name,
				SeedA:        a.Seed,
				SeedB:        b.Seed,
			})
		}

		for r := 2; r <= totalRounds; r++ {
			matches = append(matches, emptyRound(tournamentID, region, r, size>>r)...)
		}
	}

	if regions > 1 {
		count := len(layout.SemifinalPairs)
		for r := totalRounds + 1; count >= 1; r++ {
			matches = append(matches, emptyRound(tournamentID, layout.Final, r, count)...)
			count /= 2
		}
	}

	return matches, nil
}

func emptyRound(tournamentID uuid.UUID, region Region, round, count int) []Matchup {
	out := make([]Matchup, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, Matchup{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Region:       region,
			Round:        round,
			MatchOrder:   i + 1,
		})
	}
	return out
}

// Teams either all name their region or none do; in the latter case they are dealt out in order.
func groupByRegion(layout Layout, teams []Team, mode GenerateMode, rng *rand.Rand, size int) (map[Region][]Team, error) {
	withRegion := 0
	for _, t := range teams {
		if t.Region != nil && *t.Region != "" {
			withRegion++
		}
	}

	grouped := make(map[Region][]Team, len(layout.Regions))

	switch withRegion {
	case 0:
		ordered := OrderTeams(teams, mode, rng)
		for i, region := range layout.Regions {
			grouped[region] = ordered[i*size : (i+1)*size]
		}
	case len(teams):
		for _, t := range teams {
			if !layout.HasRegion(*t.Region) {
				return nil, fmt.Errorf("%w: team %q has unknown region %q", ErrBracketSize, t.Name, *t.Region)
			}
			grouped[*t.Region] = append(grouped[*t.Region], t)
		}
		for _, region := range layout.Regions {
			if len(grouped[region]) != size {
				return nil, fmt.Errorf("%w: region %s has %d teams, want %d", ErrBracketSize, region, len(grouped[region]), size)
			}
			grouped[region] = OrderTeams(grouped[region], mode, rng)
		}
	default:
		return nil, fmt.Errorf("%w: %d of %d teams have a region", ErrBracketSize, withRegion, len(teams))
	}

	return grouped, nil
}
