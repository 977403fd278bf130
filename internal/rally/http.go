package rally

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi"
	"github.com/gorilla/websocket"
)

// HTTP serves live event data while a race runs: stage info and leaderboard
// as JSON, plus a websocket feed of lap and weather events. It doubles as a
// race plugin so that the engine pushes events to connected clients.
type HTTP struct {
	server *http.Server
	logger Logger

	port uint16
	race *Race

	upgrader websocket.Upgrader

	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
}

func NewHTTP(port uint16, logger Logger) *HTTP {
	return &HTTP{
		port:    port,
		logger:  logger,
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *HTTP) Init(race *Race, logger Logger) error {
	h.race = race

	return h.Listen()
}

func (h *HTTP) Listen() error {
	h.logger.Infof("Live HTTP server listening on port: %d", h.port)

	h.server = &http.Server{
		Handler: h.Router(),
		Addr:    fmt.Sprintf(":%d", h.port),
	}

	go func() {
		err := h.server.ListenAndServe()

		if err == http.ErrServerClosed {
			return
		} else if err != nil {
			h.logger.WithError(err).Errorf("Could not start live HTTP server")
		}
	}()

	return nil
}

func (h *HTTP) Router() http.Handler {
	router := chi.NewRouter()
	router.Get("/INFO", h.Info)
	router.Get("/LEADERBOARD", h.Leaderboard)
	router.Get("/live", h.Live)
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Debugf("Could not find HTTP response for URL: %s", r.URL.String())

		http.NotFound(w, r)
	})

	return router
}

func (h *HTTP) Close() error {
	if h.server == nil {
		return nil
	}

	h.mutex.Lock()

	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}

	h.mutex.Unlock()

	return h.server.Close()
}

func (h *HTTP) Info(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.race.StageInfo())
}

type HTTPLeaderboardLine struct {
	Position    int    `json:"position"`
	DriverName  string `json:"driver_name"`
	VehicleName string `json:"vehicle_name"`
	NumLaps     int    `json:"num_laps"`
	TotalTimeMS int    `json:"total_time_ms"`
	BestLapMS   int    `json:"best_lap_ms"`
}

func (h *HTTP) Leaderboard(w http.ResponseWriter, r *http.Request) {
	lines := make([]*HTTPLeaderboardLine, 0)

	for pos, line := range h.race.Leaderboard() {
		lines = append(lines, &HTTPLeaderboardLine{
			Position:    pos + 1,
			DriverName:  line.Entrant.Driver.Name,
			VehicleName: line.Entrant.Vehicle.Name,
			NumLaps:     line.NumLaps,
			TotalTimeMS: int(line.TotalTime.Milliseconds()),
			BestLapMS:   int(line.BestLap.Milliseconds()),
		})
	}

	w.Header().Add("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lines)
}

func (h *HTTP) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)

	if err != nil {
		h.logger.WithError(err).Error("Could not upgrade live websocket connection")
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()

	h.logger.Debugf("Live websocket client connected: %s", conn.RemoteAddr())
}

type liveMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func (h *HTTP) broadcast(messageType string, data interface{}) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(liveMessage{Type: messageType, Data: data}); err != nil {
			h.logger.WithError(err).Debugf("Dropping live websocket client: %s", conn.RemoteAddr())
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *HTTP) OnNewStage(stage StageInfo) error {
	h.broadcast("stage", stage)

	return nil
}

type liveWeather struct {
	Graphics  string  `json:"graphics"`
	Traction  float64 `json:"traction"`
	Ambient   int     `json:"ambient"`
	Road      int     `json:"road"`
	WindSpeed int     `json:"wind_speed"`
}

func (h *HTTP) OnWeatherChange(weather CurrentWeather) error {
	h.broadcast("weather", liveWeather{
		Graphics:  weather.Graphics,
		Traction:  weather.Traction,
		Ambient:   weather.Ambient,
		Road:      weather.Road,
		WindSpeed: weather.WindSpeed,
	})

	return nil
}

type liveLap struct {
	DriverGUID  string  `json:"driver_guid"`
	DriverName  string  `json:"driver_name"`
	VehicleName string  `json:"vehicle_name"`
	LapNumber   int     `json:"lap_number"`
	LapTimeMS   int     `json:"lap_time_ms"`
	Weather     string  `json:"weather"`
	Grip        float64 `json:"grip"`
}

func (h *HTTP) OnLapCompleted(driverGUID string, lap Lap) error {
	h.broadcast("lap", liveLap{
		DriverGUID:  driverGUID,
		DriverName:  lap.DriverName,
		VehicleName: lap.VehicleName,
		LapNumber:   lap.Number,
		LapTimeMS:   int(lap.LapTime.Milliseconds()),
		Weather:     lap.Weather,
		Grip:        lap.Grip,
	})

	return nil
}

func (h *HTTP) OnStageEnd(results *StageResults) error {
	h.broadcast("results", results)

	return nil
}
