package rally

import (
	"fmt"
	"sort"
	"time"
)

type LeaderboardLine struct {
	Entrant   *Entrant
	NumLaps   int
	TotalTime time.Duration
	BestLap   time.Duration
}

func (l *LeaderboardLine) String() string {
	return fmt.Sprintf("%s - %d laps, total: %s, best: %s", l.Entrant.String(), l.NumLaps, l.TotalTime, l.BestLap)
}

// Leaderboard ranks entrants by laps completed, then by total elapsed time.
func (e EntryList) Leaderboard() []*LeaderboardLine {
	leaderboard := make([]*LeaderboardLine, 0, len(e))

	for _, entrant := range e {
		line := &LeaderboardLine{
			Entrant:   entrant,
			NumLaps:   entrant.LapCount(),
			TotalTime: entrant.TotalRaceTime(),
		}

		if best := entrant.BestLap(); best != nil {
			line.BestLap = best.LapTime
		}

		leaderboard = append(leaderboard, line)
	}

	sort.SliceStable(leaderboard, func(i, j int) bool {
		lineI, lineJ := leaderboard[i], leaderboard[j]

		if lineI.NumLaps != lineJ.NumLaps {
			return lineI.NumLaps > lineJ.NumLaps
		}

		return lineI.TotalTime < lineJ.TotalTime
	})

	return leaderboard
}
