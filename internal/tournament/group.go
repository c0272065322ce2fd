package tournament

import (
	"fmt"
	"sort"

	"github.com/mauv0809/worldcup-sim/internal/results"
)

// roundRobin is the order the six group fixtures are played in, three rounds of two.
var roundRobin = [6][2]int{
	{0, 1}, {2, 3},
	{0, 2}, {1, 3},
	{0, 3}, {1, 2},
}

// Reset clears the group-stage tallies. The rating and tie-break are kept.
func (e *Entrant) Reset() {
	e.Points = 0
	e.Won = 0
	e.Lost = 0
	e.Drawn = 0
}

// PlayGroup plays a round robin between four entrants and ranks them.
//
// Ranking is by points only. Level teams are separated by each entrant's
// tie-break number, not by goal difference or head to head.
func PlayGroup(t *Trial, name string, entrants [teamsInGroup]*Entrant) (*Group, error) {
	for i, e := range entrants {
		if e == nil {
			return nil, fmt.Errorf("%w: group %s slot %d", ErrMissingEntrant, name, i)
		}
		e.Reset()
	}

	detail := "group " + name
	for _, p := range roundRobin {
		if _, err := t.Play(entrants[p[0]], entrants[p[1]], results.StageGroup, detail); err != nil {
			return nil, err
		}
	}

	ranked := entrants
	sort.SliceStable(ranked[:], func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points < ranked[j].Points
		}
		return ranked[i].TieBreak < ranked[j].TieBreak
	})

	return &Group{
		Name:     name,
		Entrants: entrants,
		Winner:   ranked[teamsInGroup-1],
		RunnerUp: ranked[teamsInGroup-2],
	}, nil
}
