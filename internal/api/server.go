// Package api provides the HTTP API for querying simulation state.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/websocket"

	"github.com/geeknik/godels-sky/internal/economy"
	"github.com/geeknik/godels-sky/internal/engine"
	"github.com/geeknik/godels-sky/internal/galaxy"
	"github.com/geeknik/godels-sky/internal/persistence"
	"github.com/geeknik/godels-sky/internal/reputation"
)

const maxStreamConns = 4

// Server serves the simulation state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// Active websocket connection count (atomic).
	streamConns int32

	upgrader websocket.Upgrader
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	newsQuota := newQuota(600, time.Hour)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/systems", s.handleSystems)
	mux.HandleFunc("/api/v1/system/", s.handleSystemDetail)
	mux.HandleFunc("/api/v1/factions", s.handleFactions)
	mux.HandleFunc("/api/v1/faction/", s.handleFactionDetail)
	mux.HandleFunc("/api/v1/economy", s.handleEconomy)
	mux.HandleFunc("/api/v1/news", throttled(newsQuota, s.handleNews))
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/captains", s.handleCaptains)
	mux.HandleFunc("/api/v1/reports", s.handleReports)

	// Websocket stream of events and headlines.
	mux.HandleFunc("/api/v1/stream", s.handleStream)

	// Admin endpoints (POST, bearer token).
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/snapshot", s.adminOnly(s.handleSnapshot))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed
// origins. Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	if s.AdminKey == "" {
		return false
	}
	auth := r.Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	day := s.Sim.CurrentDay()
	status := map[string]any{
		"name":               "Godel's Sky",
		"tick":               s.Sim.CurrentTick(),
		"sim_time":           engine.SimTime(s.Sim.CurrentTick()),
		"day":                day,
		"speed":              s.Eng.Speed,
		"running":            s.Eng.Running,
		"systems":            s.Sim.Galaxy.Count(),
		"factions":           len(s.Sim.Factions.Names()),
		"pending_reports":    s.Sim.Reports.Len(),
		"tracked_economies":  len(s.Sim.Economy.ActiveSystems()),
		"behavior_pattern":   s.Sim.Actions.Pattern(day).String(),
		"known_captains":     s.Sim.Encounters.Len(),
		"actions_journaled":  s.Sim.Actions.Len(),
	}
	writeJSON(w, status)
}

func (s *Server) handleSystems(w http.ResponseWriter, r *http.Request) {
	type systemView struct {
		Name      string   `json:"name"`
		X         float64  `json:"x"`
		Y         float64  `json:"y"`
		Links     []string `json:"links"`
		Danger    float64  `json:"danger"`
		Inhabited bool     `json:"inhabited"`
		Condition string   `json:"condition"`
	}

	result := make([]systemView, 0, s.Sim.Galaxy.Count())
	for _, name := range s.Sim.Galaxy.Names() {
		sys := s.Sim.Galaxy.Get(name)
		condition := economy.Stable.String()
		if eco := s.Sim.Economy.Peek(name); eco != nil {
			condition = eco.Condition().String()
		}
		result = append(result, systemView{
			Name:      sys.Name,
			X:         sys.Position.X,
			Y:         sys.Position.Y,
			Links:     sys.Links,
			Danger:    sys.Danger,
			Inhabited: sys.Inhabited,
			Condition: condition,
		})
	}
	writeJSON(w, result)
}

func (s *Server) handleSystemDetail(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/v1/system/")
	sys := s.Sim.Galaxy.Get(name)
	if sys == nil {
		http.Error(w, "unknown system", http.StatusNotFound)
		return
	}

	eco := s.Sim.Economy.View(name)

	type priceView struct {
		Commodity string `json:"commodity"`
		Buy       string `json:"buy"`
		Sell      string `json:"sell"`
		Illegal   bool   `json:"illegal"`
	}
	prices := make([]priceView, 0, len(galaxy.Commodities()))
	for _, c := range galaxy.Commodities() {
		buy := float64(c.BasePrice) * eco.PriceModifier(c.Name, true)
		sell := float64(c.BasePrice) * eco.PriceModifier(c.Name, false)
		prices = append(prices, priceView{
			Commodity: c.Name,
			Buy:       humanize.Comma(int64(buy)) + " cr",
			Sell:      humanize.Comma(int64(sell)) + " cr",
			Illegal:   c.Illegal,
		})
	}

	writeJSON(w, map[string]any{
		"name":            sys.Name,
		"links":           sys.Links,
		"danger":          sys.Danger,
		"inhabited":       sys.Inhabited,
		"condition":       eco.Condition().String(),
		"condition_name":  eco.Condition().DisplayName(),
		"description":     eco.Description(),
		"strength":        eco.Strength(),
		"commodity":       eco.AffectedCommodity(),
		"trading_allowed": eco.TradingAllowed(),
		"headline":        eco.Headline(),
		"merchant_losses": eco.MerchantLosses(),
		"raider_losses":   eco.RaiderLosses(),
		"trade_volume":    humanize.Comma(int64(eco.TradeVolume())),
		"smuggling":       eco.SmugglingLevel(),
		"prices":          prices,
	})
}

func (s *Server) handleFactions(w http.ResponseWriter, r *http.Request) {
	type factionView struct {
		Name        string  `json:"name"`
		DisplayName string  `json:"display_name"`
		Kind        string  `json:"kind"`
		Standing    float64 `json:"standing"`
		Level       string  `json:"level"`
		Hostile     bool    `json:"hostile"`
	}

	result := make([]factionView, 0, len(s.Sim.Factions.Names()))
	for _, name := range s.Sim.Factions.Names() {
		f := s.Sim.Factions.Get(name)
		result = append(result, factionView{
			Name:        f.Name,
			DisplayName: f.DisplayName,
			Kind:        f.Kind.String(),
			Standing:    f.Standing(),
			Level:       reputation.Classify(f.Standing()).String(),
			Hostile:     s.Sim.Factions.HostileToPlayer(name),
		})
	}
	writeJSON(w, result)
}

func (s *Server) handleFactionDetail(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/v1/faction/")
	f := s.Sim.Factions.Get(name)
	if f == nil {
		http.Error(w, "unknown faction", http.StatusNotFound)
		return
	}

	day := s.Sim.CurrentDay()
	detail := map[string]any{
		"name":          f.Name,
		"display_name":  f.DisplayName,
		"kind":          f.Kind.String(),
		"standing":      f.Standing(),
		"level":         reputation.Classify(f.Standing()).String(),
		"hostile":       s.Sim.Factions.HostileToPlayer(name),
		"enemies":       f.Enemies(),
		"decay_rate":    s.Sim.Reputation.EffectiveDecayRate(name),
		"recovery_rate": s.Sim.Reputation.EffectiveRecoveryRate(name),
		"unforgiven":    s.Sim.Reputation.HasUnforgivenAtrocity(name),
		"hostility":     s.Sim.Actions.HostilityScore(name),
		"escalating":    s.Sim.Actions.HasEscalation(name),
	}
	if state := s.Sim.Reputation.State(name); state != nil {
		detail["peak"] = state.Peak
		detail["trough"] = state.Trough
		detail["good_deeds"] = state.GoodDeeds
		detail["recent_events"] = s.Sim.Reputation.RecentEvents(name, day, 30)
	}
	writeJSON(w, detail)
}

func (s *Server) handleEconomy(w http.ResponseWriter, r *http.Request) {
	type conditionView struct {
		Condition string   `json:"condition"`
		Systems   []string `json:"systems"`
	}

	var result []conditionView
	for _, c := range []economy.Condition{
		economy.Boom, economy.Bust, economy.Shortage, economy.Surplus, economy.Lockdown,
	} {
		systems := s.Sim.Economy.SystemsInCondition(c)
		if len(systems) > 0 {
			result = append(result, conditionView{
				Condition: c.String(),
				Systems:   systems,
			})
		}
	}
	writeJSON(w, map[string]any{
		"tracked":    len(s.Sim.Economy.ActiveSystems()),
		"conditions": result,
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	writeJSON(w, s.Sim.Economy.RecentNews(limit))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= engine.MaxSimEvents {
			limit = n
		}
	}
	events := s.Sim.Events
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	writeJSON(w, events)
}

func (s *Server) handleCaptains(w http.ResponseWriter, r *http.Request) {
	type captainView struct {
		Name        string  `json:"name"`
		Faction     string  `json:"faction"`
		Disposition string  `json:"disposition"`
		Threat      float64 `json:"threat"`
		Encounters  int     `json:"encounters"`
		LastSeen    string  `json:"last_seen"`
	}

	var result []captainView
	for _, rec := range s.Sim.Encounters.Known() {
		if !rec.WouldRecognize() {
			continue
		}
		result = append(result, captainView{
			Name:        rec.CaptainName,
			Faction:     rec.Faction,
			Disposition: rec.Disposition().String(),
			Threat:      rec.PerceivedThreat(),
			Encounters:  rec.Encounters,
			LastSeen:    rec.LastSeenSystem,
		})
	}
	writeJSON(w, result)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	type reportView struct {
		Faction        string  `json:"faction"`
		System         string  `json:"system"`
		TicksRemaining int     `json:"ticks_remaining"`
		Impact         float64 `json:"impact"`
		Suppressible   bool    `json:"suppressible"`
		Witnesses      int     `json:"witnesses"`
	}

	pending := s.Sim.Reports.Pending()
	result := make([]reportView, 0, len(pending))
	for _, rep := range pending {
		result = append(result, reportView{
			Faction:        rep.ReportingFaction,
			System:         rep.System,
			TicksRemaining: rep.TicksRemaining,
			Impact:         rep.Impact,
			Suppressible:   rep.Suppressible,
			Witnesses:      len(rep.Witnesses),
		})
	}
	writeJSON(w, result)
}

// handleStream upgrades to a websocket and pushes new events as they
// land, polling the feed between ticks.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if atomic.LoadInt32(&s.streamConns) >= maxStreamConns {
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	atomic.AddInt32(&s.streamConns, 1)
	slog.Info("stream client connected", "remote", r.RemoteAddr)

	go func() {
		defer func() {
			atomic.AddInt32(&s.streamConns, -1)
			conn.Close()
		}()

		// Drain control frames so pings and close are processed.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		sent := len(s.Sim.Events)
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			events := s.Sim.Events
			if len(events) < sent {
				// Feed was trimmed; resynchronize.
				sent = len(events)
				continue
			}
			for _, e := range events[sent:] {
				if err := conn.WriteJSON(e); err != nil {
					return
				}
			}
			sent = len(events)
		}
	}()
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Speed < 0 || req.Speed > 100 {
		http.Error(w, "speed out of range", http.StatusBadRequest)
		return
	}
	s.Eng.Speed = req.Speed
	slog.Info("simulation speed changed", "speed", req.Speed)
	writeJSON(w, map[string]float64{"speed": s.Eng.Speed})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "persistence disabled", http.StatusServiceUnavailable)
		return
	}
	if err := s.DB.SaveSimulation(s.Sim); err != nil {
		slog.Error("snapshot failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"saved": true,
		"tick":  s.Sim.CurrentTick(),
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
