package turborally

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var leaderboardBucketName = []byte("leaderboard")

// LeaderboardStore persists all-time best laps across program runs.
type LeaderboardStore struct {
	db *bolt.DB
}

func OpenLeaderboardStore(path string) (*LeaderboardStore, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: 5 * time.Second})

	if err != nil {
		return nil, errors.Wrapf(err, "could not open leaderboard store: %s", path)
	}

	return &LeaderboardStore{db: db}, nil
}

func (s *LeaderboardStore) Close() error {
	return s.db.Close()
}

type LeaderboardEntry struct {
	TrackName   string        `json:"track_name"`
	DriverName  string        `json:"driver_name"`
	VehicleName string        `json:"vehicle_name"`
	Weather     string        `json:"weather"`
	BestLap     time.Duration `json:"best_lap"`
	TotalTime   time.Duration `json:"total_time"`
	NumLaps     int           `json:"num_laps"`
	RecordedAt  time.Time     `json:"recorded_at"`
}

func (e LeaderboardEntry) key() []byte {
	return []byte(fmt.Sprintf("%s|%s|%s|%s", e.TrackName, e.Weather, e.DriverName, e.VehicleName))
}

// Record stores the entry unless an entry with a faster best lap already
// exists for the same track, weather, driver and vehicle. The stored total
// time and lap count always belong to the fastest-lap run.
func (s *LeaderboardStore) Record(entry LeaderboardEntry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(leaderboardBucketName)

		if err != nil {
			return err
		}

		if existing := bucket.Get(entry.key()); existing != nil {
			var current LeaderboardEntry

			if err := json.Unmarshal(existing, &current); err == nil && current.BestLap <= entry.BestLap {
				return nil
			}
		}

		encoded, err := json.Marshal(entry)

		if err != nil {
			return err
		}

		return bucket.Put(entry.key(), encoded)
	})
}

// TopN returns up to n entries for a track, fastest best lap first.
func (s *LeaderboardStore) TopN(trackName string, n int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(leaderboardBucketName)

		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var entry LeaderboardEntry

			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}

			if entry.TrackName == trackName {
				entries = append(entries, entry)
			}

			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].BestLap < entries[j].BestLap
	})

	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}

	return entries, nil
}
