package games

import (
	"fmt"
	"time"

	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/teams"
)

// AbstractCodeFinal is the upstream abstract game code for a completed game.
const AbstractCodeFinal = "F"

// Record is a completed game as returned by a game resolver. It lives for one trigger run.
type Record struct {
	ID          string     `json:"id"`
	CompletedAt time.Time  `json:"completedAt"`
	Away        teams.Team `json:"away"`
	Home        teams.Team `json:"home"`
	Status      string     `json:"status"`
}

// Teams returns the away and home teams in that order.
func (r Record) Teams() [2]teams.Team {
	return [2]teams.Team{r.Away, r.Home}
}

// Completed reports whether the upstream marked the game final.
func (r Record) Completed() bool {
	return r.Status == AbstractCodeFinal
}

// Matchup renders "Away vs Home" for message titles.
func (r Record) Matchup() string {
	return fmt.Sprintf("%s vs %s", r.Away.Label(), r.Home.Label())
}
