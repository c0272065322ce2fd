package tournament

import (
	"errors"
	"fmt"

	"github.com/mauv0809/worldcup-sim/internal/ratings"
)

const (
	numGroups    = 8
	teamsInGroup = 4
)

// Layout is the draw of a 32 team tournament: the fixed groups and the seeding
// pots used when the groups are redrawn.
type Layout struct {
	Name       string
	Host       string
	GroupNames [numGroups]string
	Groups     [numGroups][teamsInGroup]string
	Pots       [teamsInGroup][numGroups]string
}

// Pairing is a round of 16 fixture: the winner of one group against the
// runner-up of another.
type Pairing struct {
	Winner   int
	RunnerUp int
	Detail   string
}

// Tie is a later-round fixture between the winners of two earlier matches.
type Tie struct {
	Home   int
	Away   int
	Detail string
}

// The bracket follows the 2022 World Cup. It is a fixed table rather than a
// rule, since it decides which halves of the draw can meet.
var (
	RoundOf16 = [8]Pairing{
		{Winner: 0, RunnerUp: 1, Detail: "8th1"},
		{Winner: 2, RunnerUp: 3, Detail: "8th2"},
		{Winner: 4, RunnerUp: 5, Detail: "8th3"},
		{Winner: 6, RunnerUp: 7, Detail: "8th4"},
		{Winner: 1, RunnerUp: 0, Detail: "8th5"},
		{Winner: 3, RunnerUp: 2, Detail: "8th6"},
		{Winner: 5, RunnerUp: 4, Detail: "8th7"},
		{Winner: 7, RunnerUp: 6, Detail: "8th8"},
	}
	Quarterfinals = [4]Tie{
		{Home: 0, Away: 1, Detail: "q1"},
		{Home: 2, Away: 3, Detail: "q2"},
		{Home: 4, Away: 5, Detail: "q3"},
		{Home: 6, Away: 7, Detail: "q4"},
	}
	Semifinals = [2]Tie{
		{Home: 0, Away: 2, Detail: "s1"},
		{Home: 1, Away: 3, Detail: "s2"},
	}
)

// WorldCup2022 is the Qatar 2022 draw.
func WorldCup2022() Layout {
	return Layout{
		Name:       "FIFA World Cup 2022",
		Host:       "qatar",
		GroupNames: [numGroups]string{"A", "B", "C", "D", "E", "F", "G", "H"},
		Groups: [numGroups][teamsInGroup]string{
			{"qatar", "ecuador", "senegal", "netherlands"},
			{"england", "iran", "usa", "wales"},
			{"argentina", "saudi_arabia", "mexico", "poland"},
			{"france", "australia", "denmark", "tunisia"},
			{"spain", "costa_rica", "germany", "japan"},
			{"belgium", "canada", "morocco", "croatia"},
			{"brazil", "serbia", "switzerland", "cameroun"},
			{"portugal", "ghana", "uruguay", "south_korea"},
		},
		Pots: [teamsInGroup][numGroups]string{
			{"qatar", "england", "argentina", "france", "spain", "belgium", "brazil", "portugal"},
			{"netherlands", "usa", "mexico", "denmark", "germany", "croatia", "switzerland", "uruguay"},
			{"senegal", "iran", "poland", "tunisia", "japan", "morocco", "serbia", "south_korea"},
			{"ecuador", "wales", "saudi_arabia", "australia", "costa_rica", "canada", "cameroun", "ghana"},
		},
	}
}

// Teams returns every team in group order.
func (l Layout) Teams() []string {
	teams := make([]string, 0, numGroups*teamsInGroup)
	for _, g := range l.Groups {
		teams = append(teams, g[:]...)
	}
	return teams
}

// GroupOf returns the index of the group team is drawn into, or -1.
func (l Layout) GroupOf(team string) int {
	team = ratings.Normalize(team)
	for i, g := range l.Groups {
		for _, name := range g {
			if ratings.Normalize(name) == team {
				return i
			}
		}
	}
	return -1
}

// Validate checks that the groups hold 32 distinct teams and that the pots
// hold exactly the same teams.
func (l Layout) Validate() error {
	inGroups := make(map[string]bool, numGroups*teamsInGroup)
	for _, name := range l.Teams() {
		name = ratings.Normalize(name)
		if name == "" {
			return errors.New("layout has an empty group slot")
		}
		if inGroups[name] {
			return fmt.Errorf("team %q appears in more than one group slot", name)
		}
		inGroups[name] = true
	}

	inPots := make(map[string]bool, len(inGroups))
	for _, pot := range l.Pots {
		for _, name := range pot {
			name = ratings.Normalize(name)
			if !inGroups[name] {
				return fmt.Errorf("pot team %q is not drawn into any group", name)
			}
			if inPots[name] {
				return fmt.Errorf("team %q appears in more than one pot slot", name)
			}
			inPots[name] = true
		}
	}
	return nil
}
