// Package api exposes the engine operations of spec §6 over HTTP, using
// go-chi/chi as the router, grounded in the teacher pack's own
// internal/api handler. It is purely a transport: it never changes core
// engine semantics, only (de)serializes calls onto it.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/engine"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/sessionstore"
)

// Handler holds the shared race-session store and logger for every route.
type Handler struct {
	store *sessionstore.Store
	log   *slog.Logger
}

// NewHandler returns a Handler backed by the given session store.
func NewHandler(store *sessionstore.Store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{store: store, log: log}
}

// Routes wires every endpoint spec.md §6 calls for onto a chi.Router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)

	r.Route("/races", func(r chi.Router) {
		r.Post("/", h.CreateRace)
		r.Route("/{raceID}", func(r chi.Router) {
			r.Get("/", h.GetRace)
			r.Post("/start", h.StartRace)
			r.Post("/tick", h.Tick)
			r.Post("/strategy", h.UpdateStrategy)
			r.Post("/weather-mode", h.SetWeatherMode)
			r.Post("/weather", h.PushWeather)
		})
	})

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createRaceRequest struct {
	Track   domain.Track    `json:"track"`
	Drivers []domain.Driver `json:"drivers"`
	Seed    uint32          `json:"seed"`
}

// CreateRace builds a new engine instance (the §6 `new` operation) from a
// posted track and driver roster and registers it in the session store.
func (h *Handler) CreateRace(w http.ResponseWriter, r *http.Request) {
	var req createRaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	e, err := engine.New(req.Track, req.Drivers, req.Seed, engine.WithLogger(h.log))
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	id := h.store.Create(e)
	respondJSON(w, http.StatusCreated, map[string]any{
		"id":    id,
		"state": e.GetState(),
	})
}

// StartRace transitions a race to racing (the §6 `startRace` operation).
func (h *Handler) StartRace(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	e.StartRace()
	respondJSON(w, http.StatusOK, e.GetState())
}

type tickRequest struct {
	DtSeconds float64 `json:"dtSeconds"`
}

// maxBatchSeconds is the 2.0 s clamp spec §5 assigns to the external game
// loop; since this endpoint IS that external driver, it enforces it here.
const maxBatchSeconds = 2.0

// Tick advances a race by a caller-supplied batch of time (the §6 `update`
// operation), clamping the batch per §5 before handing it to the engine's
// own 0.1 s substep decomposition.
func (h *Handler) Tick(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	dt := req.DtSeconds
	if dt > maxBatchSeconds {
		dt = maxBatchSeconds
	}
	if dt < 0 {
		dt = 0
	}

	respondJSON(w, http.StatusOK, e.Update(dt))
}

// GetRace returns the current published snapshot (the §6 `getState`
// operation).
func (h *Handler) GetRace(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, e.GetState())
}

type strategyRequest struct {
	DriverID string `json:"driverId"`
	Channel  string `json:"channel"`
	Value    string `json:"value"`
}

// UpdateStrategy applies a driver-directed strategy change (the §6
// `updateStrategy` operation).
func (h *Handler) UpdateStrategy(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req strategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	if err := e.UpdateStrategy(req.DriverID, req.Channel, req.Value); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusOK, e.GetState())
}

type weatherModeRequest struct {
	Mode string `json:"mode"`
}

// SetWeatherMode switches between simulation and real weather (the §6
// `setWeatherMode` operation).
func (h *Handler) SetWeatherMode(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req weatherModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	e.SetWeatherMode(domain.WeatherMode(req.Mode))
	respondJSON(w, http.StatusOK, e.GetState())
}

// PushWeather stages an externally supplied weather reading (the §6
// `setRealWeatherData` operation); the engine silently ignores it outside
// real weather mode, per §7.
func (h *Handler) PushWeather(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var data domain.RealWeatherData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	e.SetRealWeatherData(data)
	respondJSON(w, http.StatusAccepted, nil)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*engine.Engine, bool) {
	raw := chi.URLParam(r, "raceID")
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return nil, false
	}
	e, err := h.store.Get(id)
	if errors.Is(err, sessionstore.ErrNotFound) {
		respondError(w, http.StatusNotFound, err)
		return nil, false
	}
	return e, true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
