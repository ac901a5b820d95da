package bracket

import (
	"sort"

	"github.com/google/uuid"
)

// WinnerSource tells the resolver which slot won a matchup. The official bracket and a single user's
// predicted bracket are the same recursion with a different source.
type WinnerSource interface {
	WinnerSlot(m *Matchup) (Slot, bool)
}

type WinnerSourceFunc func(m *Matchup) (Slot, bool)

func (f WinnerSourceFunc) WinnerSlot(m *Matchup) (Slot, bool) {
	return f(m)
}

// OfficialWinners reads the admin-recorded outcome.
func OfficialWinners() WinnerSource {
	return WinnerSourceFunc(func(m *Matchup) (Slot, bool) {
		if m.Winner == nil {
			return "", false
		}
		return *m.Winner, true
	})
}

// PredictedWinners reads one user's picks. Later rounds follow the user's own earlier picks, so a team
// they picked keeps advancing in their view even after it was knocked out officially.
func PredictedWinners(picks map[uuid.UUID]Slot) WinnerSource {
	return WinnerSourceFunc(func(m *Matchup) (Slot, bool) {
		slot, ok := picks[m.ID]
		if !ok || !slot.Valid() {
			return "", false
		}
		return slot, true
	})
}

type position struct {
	region Region
	round  int
	order  int
}

// Resolver computes the competitors of every matchup for one pass over a tournament.
// It memoises pairings, so build a new one whenever outcomes or picks change.
type Resolver struct {
	layout   Layout
	source   WinnerSource
	matchups []*Matchup

	byPos      map[position]*Matchup
	lastRound  map[Region]int
	firstFinal int

	cache map[position]Pairing
}

func NewResolver(layout Layout, matchups []Matchup, source WinnerSource) *Resolver {
	r := &Resolver{
		layout:    layout,
		source:    source,
		matchups:  make([]*Matchup, 0, len(matchups)),
		byPos:     make(map[position]*Matchup, len(matchups)),
		lastRound: make(map[Region]int),
		cache:     make(map[position]Pairing, len(matchups)),
	}

	for i := range matchups {
		m := &matchups[i]
		r.matchups = append(r.matchups, m)
		r.byPos[posOf(m)] = m

		if m.Round > r.lastRound[m.Region] {
			r.lastRound[m.Region] = m.Round
		}
		if layout.IsFinalStage(m.Region) && (r.firstFinal == 0 || m.Round < r.firstFinal) {
			r.firstFinal = m.Round
		}
	}

	return r
}

func posOf(m *Matchup) position {
	return position{region: m.Region, round: m.Round, order: m.MatchOrder}
}

// Resolve returns the pair of competitors that should appear in m. Either side may be nil (TBD).
func (r *Resolver) Resolve(m *Matchup) Pairing {
	key := posOf(m)
	if p, ok := r.cache[key]; ok {
		return p
	}

	var p Pairing
	switch {
	case m.Round == 1:
		p = storedPairing(m)
	case r.layout.IsFinalStage(m.Region) && m.Round == r.firstFinal:
		p = r.resolveSemifinal(m)
	default:
		// Matchup k is fed by 2k-1 and 2k one round earlier in the same region
		p = Pairing{
			A: r.winnerAt(position{region: m.Region, round: m.Round - 1, order: 2*m.MatchOrder - 1}),
			B: r.winnerAt(position{region: m.Region, round: m.Round - 1, order: 2 * m.MatchOrder}),
		}
	}

	r.cache[key] = p
	return p
}

// Semifinals take regional champions. A side nobody has reached yet falls back to what an admin stored.
func (r *Resolver) resolveSemifinal(m *Matchup) Pairing {
	stored := storedPairing(m)

	idx := m.MatchOrder - 1
	if idx < 0 || idx >= len(r.layout.SemifinalPairs) {
		return stored
	}
	regions := r.layout.SemifinalPairs[idx]

	p := Pairing{A: r.RegionChampion(regions[0]), B: r.RegionChampion(regions[1])}
	if p.A == nil {
		p.A = stored.A
	}
	if p.B == nil {
		p.B = stored.B
	}
	return p
}

// Winner applies the winner source to the resolved pairing of m.
func (r *Resolver) Winner(m *Matchup) *Competitor {
	if m == nil {
		return nil
	}
	slot, ok := r.source.WinnerSlot(m)
	if !ok {
		return nil
	}
	return r.Resolve(m).In(slot)
}

func (r *Resolver) winnerAt(pos position) *Competitor {
	return r.Winner(r.byPos[pos])
}

// RegionChampion is the winner of the region's last round.
func (r *Resolver) RegionChampion(region Region) *Competitor {
	last, ok := r.lastRound[region]
	if !ok {
		return nil
	}
	return r.winnerAt(position{region: region, round: last, order: 1})
}

// Champion is the winner of the championship, or of the single region when there is no final stage.
func (r *Resolver) Champion() *Competitor {
	if _, ok := r.lastRound[r.layout.Final]; ok {
		return r.RegionChampion(r.layout.Final)
	}
	if len(r.lastRound) == 1 {
		for region := range r.lastRound {
			return r.RegionChampion(region)
		}
	}
	return nil
}

type Resolved struct {
	Matchup *Matchup
	Pairing Pairing
	Winner  *Competitor
}

// All resolves every matchup, ordered by layout region, round and position.
func (r *Resolver) All() []Resolved {
	ordered := make([]*Matchup, len(r.matchups))
	copy(ordered, r.matchups)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if ra, rb := r.regionRank(a.Region), r.regionRank(b.Region); ra != rb {
			return ra < rb
		}
		if a.Round != b.Round {
			return a.Round < b.Round
		}
		return a.MatchOrder < b.MatchOrder
	})

	out := make([]Resolved, 0, len(ordered))
	for _, m := range ordered {
		out = append(out, Resolved{Matchup: m, Pairing: r.Resolve(m), Winner: r.Winner(m)})
	}
	return out
}

func (r *Resolver) regionRank(region Region) int {
	for i, known := range r.layout.Regions {
		if known == region {
			return i
		}
	}
	if r.layout.IsFinalStage(region) {
		return len(r.layout.Regions) + 1
	}
	return len(r.layout.Regions)
}
