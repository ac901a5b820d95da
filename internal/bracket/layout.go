package bracket

// Layout describes how regions converge into the cross-region final stage.
type Layout struct {
	Regions []Region
	// Final is the region label used for semifinals and the championship
	Final Region
	// SemifinalPairs[i] feeds semifinal i+1, champion of the first region goes to team1
	SemifinalPairs [][2]Region
}

var DefaultLayout = Layout{
	Regions:        []Region{East, West, South, Midwest},
	Final:          FinalFour,
	SemifinalPairs: [][2]Region{{East, West}, {South, Midwest}},
}

func (l Layout) IsFinalStage(r Region) bool {
	return r == l.Final
}

func (l Layout) HasRegion(r Region) bool {
	for _, region := range l.Regions {
		if region == r {
			return true
		}
	}
	return false
}
