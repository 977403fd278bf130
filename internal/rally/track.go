package rally

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cj123/ini"
)

type Terrain string

const (
	TerrainMud    Terrain = "mud"
	TerrainGravel Terrain = "gravel"
	TerrainSand   Terrain = "sand"
	TerrainTarmac Terrain = "tarmac"
)

var terrainGrip = map[Terrain]float64{
	TerrainMud:    0.7,
	TerrainGravel: 0.85,
	TerrainSand:   0.8,
}

// GripModifier is the fraction of a vehicle's effective speed which the
// terrain allows. Unknown terrains behave like tarmac.
func (t Terrain) GripModifier() float64 {
	if grip, ok := terrainGrip[t]; ok {
		return grip
	}

	return 1.0
}

type Track struct {
	Name      string   `json:"name" yaml:"name"`
	Terrain   Terrain  `json:"terrain" yaml:"terrain"`
	LengthKm  float64  `json:"length_km" yaml:"length_km"`
	Obstacles []string `json:"obstacles" yaml:"obstacles"`

	// SurfaceGrip overrides the terrain grip modifier when non-zero. It is
	// normally populated from the track's surfaces.ini file.
	SurfaceGrip float64 `json:"-" yaml:"-"`
}

func (t Track) GripModifier() float64 {
	if t.SurfaceGrip > 0 {
		return t.SurfaceGrip
	}

	return t.Terrain.GripModifier()
}

func (t Track) String() string {
	return fmt.Sprintf("%s - terrain: %s, length: %.1fkm, obstacles: %d", t.Name, t.Terrain, t.LengthKm, len(t.Obstacles))
}

func (t Track) DirectoryName() string {
	return strings.ReplaceAll(strings.ToLower(t.Name), " ", "_")
}

// LoadTrackSurfaces reads grip overrides for a track from
// content/tracks/<track>/surfaces.ini. A missing file is not an error, the
// built-in terrain modifiers apply instead.
func LoadTrackSurfaces(baseDirectory string, track *Track, logger Logger) error {
	surfacesPath := filepath.Join(baseDirectory, "content", "tracks", track.DirectoryName(), "surfaces.ini")

	if _, err := os.Stat(surfacesPath); os.IsNotExist(err) {
		logger.Debugf("No surfaces.ini for track: %s, using built-in terrain grip", track.Name)
		return nil
	}

	logger.Debugf("Loading track surfaces from %s", surfacesPath)

	surfacesFile, err := ini.Load(surfacesPath)

	if err != nil {
		return err
	}

	sectionName := strings.ToUpper(string(track.Terrain))

	for _, section := range surfacesFile.Sections() {
		if section.Name() != sectionName {
			continue
		}

		grip, err := section.Key("GRIP").Float64()

		if err != nil {
			logger.WithError(err).Errorf("Could not load GRIP for %s of %s", section.Name(), surfacesPath)
			continue
		}

		track.SurfaceGrip = grip

		logger.Debugf("Surface grip for %s (%s) overridden to %.3f", track.Name, track.Terrain, grip)
	}

	return nil
}

func DefaultTracks() []Track {
	return []Track{
		{
			Name:      "Forest Trail",
			Terrain:   TerrainMud,
			LengthKm:  5.0,
			Obstacles: []string{"log", "puddle", "rock"},
		},
		{
			Name:      "Gravel Pass",
			Terrain:   TerrainGravel,
			LengthKm:  4.5,
			Obstacles: []string{"rock", "ditch"},
		},
		{
			Name:      "Desert Run",
			Terrain:   TerrainSand,
			LengthKm:  6.0,
			Obstacles: []string{"dune", "rock", "cactus"},
		},
	}
}
