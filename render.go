package turborally

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/turborally/turborally/internal/rally"
)

func durationFromMilliseconds(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func formatLapTime(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := d - time.Duration(minutes)*time.Minute

	return fmt.Sprintf("%d:%06.3f", minutes, seconds.Seconds())
}

// renderStageResults prints the player's lap table for a stage, followed by
// their total race time.
func renderStageResults(w io.Writer, results *rally.StageResults, playerGUID string) {
	fmt.Fprintf(w, "\nStage %q on %s (%s)\n", results.StageName, results.TrackName, results.Terrain)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"LAP", "TIME", "WEATHER", "GRIP"})

	for _, lap := range results.Laps {
		if lap.DriverGUID != playerGUID {
			continue
		}

		t.AppendRow(table.Row{
			lap.LapNumber,
			formatLapTime(time.Duration(lap.LapTime) * time.Millisecond),
			lap.Weather,
			fmt.Sprintf("%.2f", lap.Grip),
		})
	}

	t.Render()

	for _, line := range results.Result {
		if line.DriverGUID != playerGUID {
			continue
		}

		total := time.Duration(line.TotalTime) * time.Millisecond

		fmt.Fprintf(w, "Total race time: %s (%s)\n", formatLapTime(total), durafmt.Parse(total.Round(time.Second)).String())
	}
}

func renderLeaderboard(w io.Writer, leaderboard []*rally.LeaderboardLine) {
	fmt.Fprintln(w, "\nFinal standings:")

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"POS", "DRIVER", "VEHICLE", "LAPS", "TOTAL", "BEST LAP"})

	for pos, line := range leaderboard {
		t.AppendRow(table.Row{
			humanize.Ordinal(pos + 1),
			line.Entrant.Driver.Name,
			line.Entrant.Vehicle.Name,
			line.NumLaps,
			formatLapTime(line.TotalTime),
			formatLapTime(line.BestLap),
		})
	}

	t.Render()
}

func renderAllTimeLeaderboard(w io.Writer, trackName string, entries []LeaderboardEntry) {
	if len(entries) == 0 {
		return
	}

	fmt.Fprintf(w, "\nAll-time bests at %s:\n", trackName)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"POS", "DRIVER", "VEHICLE", "WEATHER", "BEST LAP", "SET"})

	for pos, entry := range entries {
		t.AppendRow(table.Row{
			humanize.Ordinal(pos + 1),
			entry.DriverName,
			entry.VehicleName,
			entry.Weather,
			formatLapTime(entry.BestLap),
			humanize.Time(entry.RecordedAt),
		})
	}

	t.Render()
}
