package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Hufung/map/layers"
	"github.com/Hufung/map/speed"
)

type healthResponse struct {
	Status             string `json:"status"`
	DrawnSegments      int    `json:"drawn_segments"`
	SpeedReadings      int    `json:"speed_readings"`
	LatestRefreshEpoch int64  `json:"latest_refresh_epoch"`
}

type statusServer struct {
	server *http.Server
	app    *layers.App
	engine *speed.Engine
}

// startStatusServer exposes a health endpoint while watch mode runs.
func startStatusServer(port int, app *layers.App, engine *speed.Engine) *statusServer {
	s := &statusServer{app: app, engine: engine}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)

	addr := fmt.Sprintf(":%d", port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("status server error: %v", err)
		}
	}()
	log.Printf("status server listening on %s", addr)
	return s
}

func (s *statusServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{
		Status:        "ok",
		DrawnSegments: s.app.DrawnSegmentCount(),
		SpeedReadings: s.engine.ReadingCount(),
	}
	if t := s.engine.LastRefresh(); !t.IsZero() {
		resp.LatestRefreshEpoch = t.Unix()
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *statusServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		log.Printf("status server shutdown error: %v", err)
	} else {
		log.Printf("status server shut down successfully")
	}
}
