package rally

import (
	"testing"
	"time"
)

func lapOf(d time.Duration) *Lap {
	return &Lap{LapTime: d}
}

func TestLeaderboard(t *testing.T) {
	fast := &Entrant{
		Driver:  Driver{Name: "Fast", GUID: "guid-fast"},
		Vehicle: Vehicle{Name: "Gravel Master", TopSpeed: 150},
	}
	fast.AddLap(lapOf(3 * time.Minute))
	fast.AddLap(lapOf(3*time.Minute + 10*time.Second))

	slow := &Entrant{
		Driver:  Driver{Name: "Slow", GUID: "guid-slow"},
		Vehicle: Vehicle{Name: "Dust Rider", TopSpeed: 140},
	}
	slow.AddLap(lapOf(4 * time.Minute))
	slow.AddLap(lapOf(4*time.Minute + 5*time.Second))

	retired := &Entrant{
		Driver:  Driver{Name: "Retired", GUID: "guid-retired"},
		Vehicle: Vehicle{Name: "Mud Crusher", TopSpeed: 130},
	}
	retired.AddLap(lapOf(3*time.Minute + 30*time.Second))

	entryList := EntryList{slow, retired, fast}

	leaderboard := entryList.Leaderboard()

	expectedOrder := []string{"guid-fast", "guid-slow", "guid-retired"}

	for i, guid := range expectedOrder {
		if leaderboard[i].Entrant.Driver.GUID != guid {
			t.Errorf("Expected %s at position %d, was: %s", guid, i+1, leaderboard[i].Entrant.Driver.GUID)
		}
	}

	if leaderboard[0].BestLap != 3*time.Minute {
		t.Errorf("Expected best lap of 3m, was: %s", leaderboard[0].BestLap)
	}

	if leaderboard[0].TotalTime != 6*time.Minute+10*time.Second {
		t.Errorf("Expected total of 6m10s, was: %s", leaderboard[0].TotalTime)
	}
}

func TestEntrantBestLap(t *testing.T) {
	entrant := &Entrant{
		Driver:  Driver{Name: "Alice", GUID: "guid-alice"},
		Vehicle: Vehicle{Name: "Dust Rider", TopSpeed: 140},
	}

	if entrant.BestLap() != nil {
		t.Error("Expected no best lap before any laps are complete")
	}

	entrant.AddLap(lapOf(4 * time.Minute))
	entrant.AddLap(lapOf(3 * time.Minute))
	entrant.AddLap(lapOf(5 * time.Minute))

	if best := entrant.BestLap(); best.LapTime != 3*time.Minute {
		t.Errorf("Expected best lap of 3m, was: %s", best.LapTime)
	}

	entrant.ClearSessionData()

	if entrant.LapCount() != 0 || entrant.BestLap() != nil {
		t.Error("Expected session data to be cleared")
	}
}

func TestEntryListLookups(t *testing.T) {
	player := &Entrant{
		Driver:  Driver{Name: "Alice", GUID: "guid-alice", IsPlayer: true},
		Vehicle: Vehicle{Name: "Dust Rider", TopSpeed: 140},
	}

	opponent := &Entrant{
		Driver:  Driver{Name: "Bob", GUID: "guid-bob"},
		Vehicle: Vehicle{Name: "Mud Crusher", TopSpeed: 130},
	}

	entryList := EntryList{opponent, player}

	if entryList.Player() != player {
		t.Error("Expected Player to find the player entrant")
	}

	if entryList.FindByGUID("guid-bob") != opponent {
		t.Error("Expected FindByGUID to find the opponent")
	}

	if entryList.FindByGUID("guid-nobody") != nil {
		t.Error("Expected FindByGUID to return nil for unknown GUIDs")
	}
}
