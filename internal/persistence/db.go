// Package persistence provides SQLite-based simulation state storage.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/geeknik/godels-sky/internal/economy"
	"github.com/geeknik/godels-sky/internal/engine"
	"github.com/geeknik/godels-sky/internal/faction"
	"github.com/geeknik/godels-sky/internal/galaxy"
	"github.com/geeknik/godels-sky/internal/journal"
	"github.com/geeknik/godels-sky/internal/reputation"
	"github.com/geeknik/godels-sky/internal/witness"
)

// DB wraps a SQLite connection for simulation state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS systems (
		name TEXT PRIMARY KEY,
		pos_x REAL NOT NULL,
		pos_y REAL NOT NULL,
		danger REAL NOT NULL,
		inhabited INTEGER NOT NULL,
		links_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS factions (
		name TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		kind INTEGER NOT NULL,
		standing REAL NOT NULL,
		enemies_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reputation_states (
		faction TEXT PRIMARY KEY,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reputation_configs (
		faction TEXT PRIMARY KEY,
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS economies (
		system TEXT PRIMARY KEY,
		condition TEXT NOT NULL,
		commodity TEXT NOT NULL,
		strength INTEGER NOT NULL,
		condition_day INTEGER NOT NULL,
		merchant_losses REAL NOT NULL,
		raider_losses REAL NOT NULL,
		trade_volume REAL NOT NULL,
		smuggling REAL NOT NULL,
		headline TEXT NOT NULL,
		headline_day INTEGER NOT NULL,
		events_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pending_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reporting_faction TEXT NOT NULL,
		victim_faction TEXT NOT NULL,
		kind INTEGER NOT NULL,
		ticks_remaining INTEGER NOT NULL,
		system TEXT NOT NULL,
		impact REAL NOT NULL,
		suppressible INTEGER NOT NULL,
		witnesses_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS action_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		day INTEGER NOT NULL,
		kind INTEGER NOT NULL,
		target_faction TEXT NOT NULL,
		system TEXT NOT NULL,
		crew_killed INTEGER NOT NULL,
		value_destroyed INTEGER NOT NULL,
		witnessed INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS encounters (
		captain_id TEXT PRIMARY KEY,
		record_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sim_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_action_log_day ON action_log(day);
	CREATE INDEX IF NOT EXISTS idx_action_log_faction ON action_log(target_faction);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveGalaxy writes the star map (full replace).
func (db *DB) SaveGalaxy(m *galaxy.Map) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM systems"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO systems
		(name, pos_x, pos_y, danger, inhabited, links_json)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, name := range m.Names() {
		s := m.Get(name)
		linksJSON, _ := json.Marshal(s.Links)

		inhabited := 0
		if s.Inhabited {
			inhabited = 1
		}

		if _, err := stmt.Exec(s.Name, s.Position.X, s.Position.Y,
			s.Danger, inhabited, string(linksJSON)); err != nil {
			return fmt.Errorf("insert system %s: %w", s.Name, err)
		}
	}

	return tx.Commit()
}

// LoadGalaxy reads the star map, or returns an empty map when no
// systems were saved.
func (db *DB) LoadGalaxy() (*galaxy.Map, error) {
	type row struct {
		Name      string  `db:"name"`
		PosX      float64 `db:"pos_x"`
		PosY      float64 `db:"pos_y"`
		Danger    float64 `db:"danger"`
		Inhabited int     `db:"inhabited"`
		LinksJSON string  `db:"links_json"`
	}

	var rows []row
	if err := db.conn.Select(&rows, "SELECT * FROM systems"); err != nil {
		return nil, err
	}

	m := galaxy.NewMap()
	for _, r := range rows {
		var links []string
		if err := json.Unmarshal([]byte(r.LinksJSON), &links); err != nil {
			return nil, fmt.Errorf("system %s links: %w", r.Name, err)
		}
		m.Add(&galaxy.System{
			Name:      r.Name,
			Position:  galaxy.Point{X: r.PosX, Y: r.PosY},
			Links:     links,
			Danger:    r.Danger,
			Inhabited: r.Inhabited != 0,
		})
	}
	return m, nil
}

// SaveFactions writes the faction directory (full replace).
func (db *DB) SaveFactions(dir *faction.Directory) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM factions"); err != nil {
		return err
	}

	for _, name := range dir.Names() {
		f := dir.Get(name)
		enemiesJSON, _ := json.Marshal(f.Enemies())

		if _, err := tx.Exec(`INSERT INTO factions
			(name, display_name, kind, standing, enemies_json)
			VALUES (?, ?, ?, ?, ?)`,
			f.Name, f.DisplayName, f.Kind, f.Standing(), string(enemiesJSON)); err != nil {
			return fmt.Errorf("insert faction %s: %w", f.Name, err)
		}
	}

	return tx.Commit()
}

// LoadFactions reads the faction directory.
func (db *DB) LoadFactions() (*faction.Directory, error) {
	type row struct {
		Name        string  `db:"name"`
		DisplayName string  `db:"display_name"`
		Kind        uint8   `db:"kind"`
		Standing    float64 `db:"standing"`
		EnemiesJSON string  `db:"enemies_json"`
	}

	var rows []row
	if err := db.conn.Select(&rows, "SELECT * FROM factions"); err != nil {
		return nil, err
	}

	dir := faction.NewDirectory()
	enemies := make(map[string][]string)
	for _, r := range rows {
		f := &faction.Faction{
			Name:        r.Name,
			DisplayName: r.DisplayName,
			Kind:        faction.Kind(r.Kind),
		}
		f.SetStanding(r.Standing)
		dir.Add(f)

		var names []string
		if err := json.Unmarshal([]byte(r.EnemiesJSON), &names); err != nil {
			return nil, fmt.Errorf("faction %s enemies: %w", r.Name, err)
		}
		enemies[r.Name] = names
	}
	for name, foes := range enemies {
		for _, foe := range foes {
			dir.SetEnemies(name, foe)
		}
	}
	return dir, nil
}

// SaveReputation writes reputation states and config overrides (full
// replace). The default config goes into sim_meta.
func (db *DB) SaveReputation(m *reputation.Manager) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM reputation_states"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM reputation_configs"); err != nil {
		return err
	}

	for _, name := range m.KnownFactions() {
		stateJSON, _ := json.Marshal(m.State(name))
		if _, err := tx.Exec(
			"INSERT INTO reputation_states (faction, state_json) VALUES (?, ?)",
			name, string(stateJSON)); err != nil {
			return fmt.Errorf("insert reputation state %s: %w", name, err)
		}
	}

	for name, cfg := range m.ConfigOverrides() {
		cfgJSON, _ := json.Marshal(cfg)
		if _, err := tx.Exec(
			"INSERT INTO reputation_configs (faction, config_json) VALUES (?, ?)",
			name, string(cfgJSON)); err != nil {
			return fmt.Errorf("insert reputation config %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	defaultJSON, _ := json.Marshal(m.DefaultConfig())
	return db.SaveMeta("reputation_default_config", string(defaultJSON))
}

// LoadReputation populates a fresh reputation manager from storage.
func (db *DB) LoadReputation() (*reputation.Manager, error) {
	m := reputation.NewManager()

	if raw, err := db.GetMeta("reputation_default_config"); err == nil {
		var cfg reputation.Config
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			return nil, fmt.Errorf("default reputation config: %w", err)
		}
		m.SetDefaultConfig(cfg)
	}

	type row struct {
		Faction string `db:"faction"`
		JSON    string `db:"state_json"`
	}
	var states []row
	if err := db.conn.Select(&states, "SELECT faction, state_json FROM reputation_states"); err != nil {
		return nil, err
	}
	for _, r := range states {
		var s reputation.State
		if err := json.Unmarshal([]byte(r.JSON), &s); err != nil {
			return nil, fmt.Errorf("reputation state %s: %w", r.Faction, err)
		}
		m.RestoreState(r.Faction, &s)
	}

	type cfgRow struct {
		Faction string `db:"faction"`
		JSON    string `db:"config_json"`
	}
	var cfgs []cfgRow
	if err := db.conn.Select(&cfgs, "SELECT faction, config_json FROM reputation_configs"); err != nil {
		return nil, err
	}
	for _, r := range cfgs {
		var cfg reputation.Config
		if err := json.Unmarshal([]byte(r.JSON), &cfg); err != nil {
			return nil, fmt.Errorf("reputation config %s: %w", r.Faction, err)
		}
		m.SetConfig(r.Faction, cfg)
	}

	return m, nil
}

// SaveEconomies writes every tracked system economy (full replace).
// Counters are stored as floats so decay state round-trips exactly.
func (db *DB) SaveEconomies(m *economy.Manager) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM economies"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO economies
		(system, condition, commodity, strength, condition_day,
		 merchant_losses, raider_losses, trade_volume, smuggling,
		 headline, headline_day, events_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, name := range m.ActiveSystems() {
		snap := m.Economy(name).Snapshot()
		eventsJSON, _ := json.Marshal(snap.Events)

		if _, err := stmt.Exec(name, snap.Condition, snap.AffectedCommodity,
			snap.Strength, snap.ConditionDay,
			snap.MerchantLosses, snap.RaiderLosses, snap.TradeVolume, snap.Smuggling,
			snap.Headline, snap.HeadlineDay, string(eventsJSON)); err != nil {
			return fmt.Errorf("insert economy %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// LoadEconomies restores saved system economies into a manager.
func (db *DB) LoadEconomies(m *economy.Manager, cfg economy.Config) error {
	type row struct {
		System         string  `db:"system"`
		Condition      string  `db:"condition"`
		Commodity      string  `db:"commodity"`
		Strength       int     `db:"strength"`
		ConditionDay   int     `db:"condition_day"`
		MerchantLosses float64 `db:"merchant_losses"`
		RaiderLosses   float64 `db:"raider_losses"`
		TradeVolume    float64 `db:"trade_volume"`
		Smuggling      float64 `db:"smuggling"`
		Headline       string  `db:"headline"`
		HeadlineDay    int     `db:"headline_day"`
		EventsJSON     string  `db:"events_json"`
	}

	var rows []row
	if err := db.conn.Select(&rows, "SELECT * FROM economies"); err != nil {
		return err
	}

	for _, r := range rows {
		var events []economy.Event
		if err := json.Unmarshal([]byte(r.EventsJSON), &events); err != nil {
			return fmt.Errorf("economy %s events: %w", r.System, err)
		}
		m.Restore(r.System, economy.FromSnapshot(cfg, economy.Snapshot{
			Condition:         r.Condition,
			AffectedCommodity: r.Commodity,
			Strength:          r.Strength,
			ConditionDay:      r.ConditionDay,
			MerchantLosses:    r.MerchantLosses,
			RaiderLosses:      r.RaiderLosses,
			TradeVolume:       r.TradeVolume,
			Smuggling:         r.Smuggling,
			Events:            events,
			Headline:          r.Headline,
			HeadlineDay:       r.HeadlineDay,
		}))
	}
	return nil
}

// SaveReports writes pending witness reports (full replace).
func (db *DB) SaveReports(q *witness.Queue) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM pending_reports"); err != nil {
		return err
	}

	for _, r := range q.Pending() {
		witnessesJSON, _ := json.Marshal(r.Witnesses)
		suppressible := 0
		if r.Suppressible {
			suppressible = 1
		}

		if _, err := tx.Exec(`INSERT INTO pending_reports
			(reporting_faction, victim_faction, kind, ticks_remaining,
			 system, impact, suppressible, witnesses_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ReportingFaction, r.VictimFaction, r.Kind, r.TicksRemaining,
			r.System, r.Impact, suppressible, string(witnessesJSON)); err != nil {
			return fmt.Errorf("insert report: %w", err)
		}
	}

	return tx.Commit()
}

// LoadReports restores pending witness reports into a fresh queue.
func (db *DB) LoadReports() (*witness.Queue, error) {
	type row struct {
		ReportingFaction string  `db:"reporting_faction"`
		VictimFaction    string  `db:"victim_faction"`
		Kind             int     `db:"kind"`
		TicksRemaining   int     `db:"ticks_remaining"`
		System           string  `db:"system"`
		Impact           float64 `db:"impact"`
		Suppressible     int     `db:"suppressible"`
		WitnessesJSON    string  `db:"witnesses_json"`
	}

	var rows []row
	err := db.conn.Select(&rows,
		"SELECT reporting_faction, victim_faction, kind, ticks_remaining, system, impact, suppressible, witnesses_json FROM pending_reports ORDER BY id")
	if err != nil {
		return nil, err
	}

	q := witness.NewQueue()
	for _, r := range rows {
		var ids []uuid.UUID
		if err := json.Unmarshal([]byte(r.WitnessesJSON), &ids); err != nil {
			return nil, fmt.Errorf("report witnesses: %w", err)
		}
		q.Push(witness.Report{
			ReportingFaction: r.ReportingFaction,
			VictimFaction:    r.VictimFaction,
			Kind:             r.Kind,
			TicksRemaining:   r.TicksRemaining,
			System:           r.System,
			Impact:           r.Impact,
			Suppressible:     r.Suppressible != 0,
			Witnesses:        ids,
		})
	}
	return q, nil
}

// SaveActionLog writes the journaled actions (full replace).
func (db *DB) SaveActionLog(l *journal.ActionLog) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM action_log"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO action_log
		(day, kind, target_faction, system, crew_killed, value_destroyed, witnessed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range l.All() {
		witnessed := 0
		if r.Witnessed {
			witnessed = 1
		}
		if _, err := stmt.Exec(r.Day, int(r.Kind), r.TargetFaction, r.System,
			r.CrewKilled, r.ValueDestroyed, witnessed); err != nil {
			return fmt.Errorf("insert action: %w", err)
		}
	}

	return tx.Commit()
}

// LoadActionLog restores the journaled actions into a fresh log.
func (db *DB) LoadActionLog() (*journal.ActionLog, error) {
	type row struct {
		Day            int    `db:"day"`
		Kind           int    `db:"kind"`
		TargetFaction  string `db:"target_faction"`
		System         string `db:"system"`
		CrewKilled     int    `db:"crew_killed"`
		ValueDestroyed int64  `db:"value_destroyed"`
		Witnessed      int    `db:"witnessed"`
	}

	var rows []row
	err := db.conn.Select(&rows,
		"SELECT day, kind, target_faction, system, crew_killed, value_destroyed, witnessed FROM action_log ORDER BY id")
	if err != nil {
		return nil, err
	}

	records := make([]journal.ActionRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, journal.ActionRecord{
			Day:            r.Day,
			Kind:           journal.ActionKind(r.Kind),
			TargetFaction:  r.TargetFaction,
			System:         r.System,
			CrewKilled:     r.CrewKilled,
			ValueDestroyed: r.ValueDestroyed,
			Witnessed:      r.Witnessed != 0,
		})
	}

	l := journal.NewActionLog()
	l.Restore(records)
	return l, nil
}

// SaveEncounters writes the encounter book (full replace).
func (db *DB) SaveEncounters(b *journal.EncounterBook) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM encounters"); err != nil {
		return err
	}

	for _, r := range b.Known() {
		recordJSON, _ := json.Marshal(r)
		if _, err := tx.Exec(
			"INSERT INTO encounters (captain_id, record_json) VALUES (?, ?)",
			r.CaptainID.String(), string(recordJSON)); err != nil {
			return fmt.Errorf("insert encounter %s: %w", r.CaptainID, err)
		}
	}

	return tx.Commit()
}

// LoadEncounters restores the encounter book.
func (db *DB) LoadEncounters() (*journal.EncounterBook, error) {
	var raws []string
	if err := db.conn.Select(&raws, "SELECT record_json FROM encounters"); err != nil {
		return nil, err
	}

	records := make([]*journal.EncounterRecord, 0, len(raws))
	for _, raw := range raws {
		var r journal.EncounterRecord
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("encounter record: %w", err)
		}
		records = append(records, &r)
	}

	b := journal.NewEncounterBook()
	b.Restore(records)
	return b, nil
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		if _, err := tx.Exec(
			"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
			e.Tick, e.Description, e.Category); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// SaveMeta stores a key-value pair in simulation metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO sim_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM sim_meta WHERE key = ?", key)
	return value, err
}

// SaveSimulation performs a full save of all simulation state.
func (db *DB) SaveSimulation(sim *engine.Simulation) error {
	slog.Info("saving simulation state",
		"systems", sim.Galaxy.Count(),
		"factions", len(sim.Factions.Names()),
		"pending_reports", sim.Reports.Len())

	if err := db.SaveGalaxy(sim.Galaxy); err != nil {
		return fmt.Errorf("save galaxy: %w", err)
	}
	if err := db.SaveFactions(sim.Factions); err != nil {
		return fmt.Errorf("save factions: %w", err)
	}
	if err := db.SaveReputation(sim.Reputation); err != nil {
		return fmt.Errorf("save reputation: %w", err)
	}
	if err := db.SaveEconomies(sim.Economy); err != nil {
		return fmt.Errorf("save economies: %w", err)
	}
	if err := db.SaveReports(sim.Reports); err != nil {
		return fmt.Errorf("save reports: %w", err)
	}
	if err := db.SaveActionLog(sim.Actions); err != nil {
		return fmt.Errorf("save action log: %w", err)
	}
	if err := db.SaveEncounters(sim.Encounters); err != nil {
		return fmt.Errorf("save encounters: %w", err)
	}
	if err := db.SaveEvents(sim.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta("last_tick", fmt.Sprintf("%d", sim.CurrentTick())); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Info("simulation state saved")
	return nil
}
