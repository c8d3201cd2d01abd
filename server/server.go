// Package server exposes trip planning over HTTP: a planning endpoint plus
// health, status and API info routes.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/smarttravel/smarttravel/logging"
	"github.com/smarttravel/smarttravel/travel"
)

// Planner produces an itinerary for a validated trip request. The default
// implementation plans from the deterministic catalogs; an engine-backed
// implementation can route through the concierge agents instead.
type Planner interface {
	PlanTrip(ctx context.Context, req travel.TripRequest) (travel.Itinerary, error)
}

// DomainPlanner plans trips directly from the travel catalogs without
// involving a language model.
type DomainPlanner struct{}

// PlanTrip implements Planner.
func (DomainPlanner) PlanTrip(_ context.Context, req travel.TripRequest) (travel.Itinerary, error) {
	flights := travel.SearchFlights(req.Origin, req.Destination, req.StartDate, req.Travelers)
	hotels := travel.SearchHotels(req.Destination)
	attractions := travel.TopAttractions(travel.DiscoverAttractions(req.Destination, "", 0), 5)

	return travel.AssembleItinerary(req, flights, hotels, attractions)
}

// Options configures the HTTP server.
type Options struct {
	Logger  logging.Logger
	Version string
	Agents  []string
}

// Server is the SmartTravel HTTP API.
type Server struct {
	router  chi.Router
	planner Planner
	logger  logging.Logger
	version string
	agents  []string
	started time.Time
}

// New creates the API server around a planner.
func New(planner Planner, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger:  logging.NoOpLogger{},
		Version: "dev",
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		planner: planner,
		logger:  opts.Logger,
		version: opts.Version,
		agents:  opts.Agents,
		started: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Post("/plan_trip", s.handlePlanTrip)

	s.router = r

	return s
}

// Handler returns the HTTP handler for mounting or serving.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs the API on the given address until the context is
// canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server.listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}

// PlanTripRequest is the JSON body accepted by POST /plan_trip.
type PlanTripRequest struct {
	Destination string            `json:"destination"`
	Origin      string            `json:"origin,omitempty"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Budget      float64           `json:"budget,omitempty"`
	Travelers   int               `json:"travelers,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// Validate enforces the request invariants and fills defaults. Travelers
// defaults to 1 and is capped at 20; dates must be YYYY-MM-DD with the end
// date after the start date.
func (r *PlanTripRequest) Validate() error {
	if r.Destination == "" {
		return fmt.Errorf("destination is required")
	}

	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return fmt.Errorf("start_date must be in YYYY-MM-DD format")
	}

	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return fmt.Errorf("end_date must be in YYYY-MM-DD format")
	}

	if !end.After(start) {
		return fmt.Errorf("end_date must be after start_date")
	}

	if r.Budget < 0 {
		return fmt.Errorf("budget must be positive")
	}

	if r.Travelers == 0 {
		r.Travelers = 1
	}
	if r.Travelers < 1 || r.Travelers > 20 {
		return fmt.Errorf("travelers must be between 1 and 20")
	}

	return nil
}

// TripResponse is the JSON body returned by POST /plan_trip.
type TripResponse struct {
	Destination        string                `json:"destination"`
	DurationDays       int                   `json:"duration_days"`
	Flights            []travel.FlightOption `json:"flights"`
	Accommodations     []travel.HotelOption  `json:"accommodations"`
	Attractions        []travel.Attraction   `json:"attractions"`
	DailySchedule      []travel.DayPlan      `json:"daily_schedule"`
	TotalEstimatedCost float64               `json:"total_estimated_cost"`
	Message            string                `json:"message"`
}

func (s *Server) handlePlanTrip(w http.ResponseWriter, r *http.Request) {
	var req PlanTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	itin, err := s.planner.PlanTrip(r.Context(), travel.TripRequest{
		Destination: req.Destination,
		Origin:      req.Origin,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
		Travelers:   req.Travelers,
		Preferences: req.Preferences,
	})
	if err != nil {
		s.logger.Error("server.plan_trip.failed", "destination", req.Destination, "error", err.Error())
		s.writeError(w, http.StatusInternalServerError, "trip planning failed")

		return
	}

	s.logger.Info("server.plan_trip.ok", "destination", req.Destination, "days", itin.DurationDays)

	s.writeJSON(w, http.StatusOK, TripResponse{
		Destination:        itin.Destination,
		DurationDays:       itin.DurationDays,
		Flights:            itin.Flights,
		Accommodations:     itin.Accommodations,
		Attractions:        itin.Attractions,
		DailySchedule:      itin.DailySchedule,
		TotalEstimatedCost: itin.TotalEstimatedCost,
		Message:            "Trip plan generated successfully",
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "SmartTravel API",
		"version": s.version,
		"docs":    "/docs",
		"health":  "/health",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   s.version,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	agents := s.agents
	if agents == nil {
		agents = []string{}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ready",
		"agents":         agents,
		"uptime_seconds": int(time.Since(s.started).Seconds()),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("server.write_response.failed", "error", err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
