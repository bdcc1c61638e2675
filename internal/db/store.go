// Package db provides database connectivity and persistence for arena.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/metalagman/arena/internal/model"
)

// ErrNotFound reports a missing record.
var ErrNotFound = errors.New("not found")

// Store provides persistence for agents, runs, and turns.
type Store struct {
	db *sql.DB
}

// NewStore creates a store over an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

func marshalJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(raw), nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CreateAgent inserts a new agent. A missing id and timestamps are
// filled in.
func (s *Store) CreateAgent(ctx context.Context, a model.Agent) (model.Agent, error) {
	if a.AgentID == "" {
		a.AgentID = uuid.New().String()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	personaJSON, err := marshalJSON(a.Persona)
	if err != nil {
		return model.Agent{}, err
	}
	paramsJSON, err := marshalJSON(a.Params)
	if err != nil {
		return model.Agent{}, err
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO agents(agent_id, name, model, persona_json, params_json, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		a.AgentID, a.Name, a.Model, personaJSON, paramsJSON,
		now.Format(time.RFC3339), now.Format(time.RFC3339)); err != nil {
		return model.Agent{}, fmt.Errorf("insert agent: %w", err)
	}
	return a, nil
}

func scanAgent(row interface{ Scan(...any) error }) (model.Agent, error) {
	var (
		a                        model.Agent
		personaJSON, paramsJSON  string
		createdAtStr, updatedStr string
	)
	if err := row.Scan(&a.AgentID, &a.Name, &a.Model, &personaJSON, &paramsJSON, &createdAtStr, &updatedStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Agent{}, ErrNotFound
		}
		return model.Agent{}, fmt.Errorf("scan agent: %w", err)
	}
	if err := json.Unmarshal([]byte(personaJSON), &a.Persona); err != nil {
		return model.Agent{}, fmt.Errorf("decode persona: %w", err)
	}
	if err := json.Unmarshal([]byte(paramsJSON), &a.Params); err != nil {
		return model.Agent{}, fmt.Errorf("decode params: %w", err)
	}
	a.CreatedAt = parseTime(createdAtStr)
	a.UpdatedAt = parseTime(updatedStr)
	return a, nil
}

const agentColumns = `agent_id, name, model, persona_json, params_json, created_at, updated_at`

// GetAgent returns one agent by id.
func (s *Store) GetAgent(ctx context.Context, agentID string) (model.Agent, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+agentColumns+` FROM agents WHERE agent_id=?`, agentID)
	return scanAgent(row)
}

// ListAgents returns all agents, oldest first.
func (s *Store) ListAgents(ctx context.Context) ([]model.Agent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+agentColumns+` FROM agents ORDER BY created_at, agent_id`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return out, nil
}

// UpdateAgent replaces an agent's mutable fields and refreshes
// updated_at.
func (s *Store) UpdateAgent(ctx context.Context, a model.Agent) (model.Agent, error) {
	personaJSON, err := marshalJSON(a.Persona)
	if err != nil {
		return model.Agent{}, err
	}
	paramsJSON, err := marshalJSON(a.Params)
	if err != nil {
		return model.Agent{}, err
	}
	a.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `UPDATE agents SET name=?, model=?, persona_json=?, params_json=?, updated_at=? WHERE agent_id=?`,
		a.Name, a.Model, personaJSON, paramsJSON, a.UpdatedAt.Format(time.RFC3339), a.AgentID)
	if err != nil {
		return model.Agent{}, fmt.Errorf("update agent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Agent{}, fmt.Errorf("agent %s: %w", a.AgentID, ErrNotFound)
	}
	return a, nil
}

// DeleteAgent removes an agent. Agents referenced by runs cannot be
// deleted.
func (s *Store) DeleteAgent(ctx context.Context, agentID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM agents WHERE agent_id=?`, agentID)
	if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	return nil
}

// CloneAgent duplicates an agent under a new id with " (Copy)" appended
// to the name.
func (s *Store) CloneAgent(ctx context.Context, agentID string) (model.Agent, error) {
	src, err := s.GetAgent(ctx, agentID)
	if err != nil {
		return model.Agent{}, err
	}
	src.AgentID = ""
	src.Name = src.Name + " (Copy)"
	return s.CreateAgent(ctx, src)
}
