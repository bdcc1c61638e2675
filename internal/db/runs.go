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

// ErrSamePosition rejects runs where both debaters argue the same side.
var ErrSamePosition = errors.New("debater positions must differ")

// CreateRun inserts a new pending run after validating positions and
// agent references.
func (s *Store) CreateRun(ctx context.Context, run model.Run) (model.Run, error) {
	if run.PositionA == run.PositionB {
		return model.Run{}, ErrSamePosition
	}
	for _, agentID := range []string{run.AgentAID, run.AgentBID, run.AgentJID} {
		if _, err := s.GetAgent(ctx, agentID); err != nil {
			return model.Run{}, fmt.Errorf("agent %s: %w", agentID, err)
		}
	}

	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.Status == "" {
		run.Status = model.StatusPending
	}
	if run.Config == nil {
		run.Config = model.DefaultRunConfig()
	}
	if run.Rubric == nil {
		run.Rubric = model.DefaultRubric()
	}
	run.CreatedAt = time.Now().UTC()
	run.Result = nil
	run.FinishedAt = nil

	configJSON, err := marshalJSON(run.Config)
	if err != nil {
		return model.Run{}, err
	}
	rubricJSON, err := marshalJSON(run.Rubric)
	if err != nil {
		return model.Run{}, err
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO runs(run_id, topic, agent_a_id, agent_b_id, agent_j_id, position_a, position_b, config_json, rubric_json, result_json, status, created_at, finished_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?, NULL)`,
		run.RunID, run.Topic, run.AgentAID, run.AgentBID, run.AgentJID,
		string(run.PositionA), string(run.PositionB), configJSON, rubricJSON,
		string(run.Status), run.CreatedAt.Format(time.RFC3339)); err != nil {
		return model.Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

const runColumns = `run_id, topic, agent_a_id, agent_b_id, agent_j_id, position_a, position_b, config_json, rubric_json, result_json, status, created_at, finished_at`

func scanRun(row interface{ Scan(...any) error }) (model.Run, error) {
	var (
		run                     model.Run
		positionA, positionB    string
		configJSON, rubricJSON  string
		resultJSON, finishedStr sql.NullString
		status, createdStr      string
	)
	if err := row.Scan(&run.RunID, &run.Topic, &run.AgentAID, &run.AgentBID, &run.AgentJID,
		&positionA, &positionB, &configJSON, &rubricJSON, &resultJSON,
		&status, &createdStr, &finishedStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Run{}, ErrNotFound
		}
		return model.Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.PositionA = model.Position(positionA)
	run.PositionB = model.Position(positionB)
	run.Status = model.Status(status)
	run.CreatedAt = parseTime(createdStr)
	if err := json.Unmarshal([]byte(configJSON), &run.Config); err != nil {
		return model.Run{}, fmt.Errorf("decode run config: %w", err)
	}
	if err := json.Unmarshal([]byte(rubricJSON), &run.Rubric); err != nil {
		return model.Run{}, fmt.Errorf("decode run rubric: %w", err)
	}
	if resultJSON.Valid && resultJSON.String != "" {
		var result model.Result
		if err := json.Unmarshal([]byte(resultJSON.String), &result); err != nil {
			return model.Run{}, fmt.Errorf("decode run result: %w", err)
		}
		run.Result = &result
	}
	if finishedStr.Valid && finishedStr.String != "" {
		t := parseTime(finishedStr.String)
		run.FinishedAt = &t
	}
	return run, nil
}

// GetRun returns one run by id.
func (s *Store) GetRun(ctx context.Context, runID string) (model.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id=?`, runID)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Run{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
		}
		return model.Run{}, err
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]model.Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return out, nil
}

// DeleteRun removes a run and, via cascade, its turns.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id=?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return nil
}

// GetRunWithAgents loads a run together with its three agent snapshots.
func (s *Store) GetRunWithAgents(ctx context.Context, runID string) (model.RunBundle, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return model.RunBundle{}, err
	}
	agentA, err := s.GetAgent(ctx, run.AgentAID)
	if err != nil {
		return model.RunBundle{}, fmt.Errorf("agent a: %w", err)
	}
	agentB, err := s.GetAgent(ctx, run.AgentBID)
	if err != nil {
		return model.RunBundle{}, fmt.Errorf("agent b: %w", err)
	}
	agentJ, err := s.GetAgent(ctx, run.AgentJID)
	if err != nil {
		return model.RunBundle{}, fmt.Errorf("judge: %w", err)
	}
	return model.RunBundle{Run: run, AgentA: agentA, AgentB: agentB, AgentJ: agentJ}, nil
}

// UpdateRunStatus writes a new status, the result when given, and a
// finished timestamp when the run completes.
func (s *Store) UpdateRunStatus(ctx context.Context, runID string, status model.Status, result *model.Result) error {
	var resultJSON any
	if result != nil {
		encoded, err := marshalJSON(result)
		if err != nil {
			return err
		}
		resultJSON = encoded
	}
	var finishedAt any
	if status == model.StatusCompleted {
		finishedAt = time.Now().UTC().Format(time.RFC3339)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE runs SET status=?, result_json=COALESCE(?, result_json), finished_at=COALESCE(?, finished_at) WHERE run_id=?`,
		string(status), resultJSON, finishedAt, runID)
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return nil
}

// CreateTurn persists one turn. Inserting the same turn id again is a
// no-op, so a retried write stays idempotent.
func (s *Store) CreateTurn(ctx context.Context, turn model.Turn) error {
	targets := turn.Targets
	if targets == nil {
		targets = []string{}
	}
	targetsJSON, err := marshalJSON(targets)
	if err != nil {
		return err
	}
	metadata := turn.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := marshalJSON(metadata)
	if err != nil {
		return err
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO turns(turn_id, run_id, agent_id, phase, role, content, targets_json, metadata_json, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		turn.TurnID, turn.RunID, turn.AgentID, turn.Phase, string(turn.Role),
		turn.Content, targetsJSON, metadataJSON, turn.CreatedAt.Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return nil
}

// UpdateTurnMetadata merges a partial metadata object into a turn's
// stored metadata. Existing keys are preserved unless overridden.
func (s *Store) UpdateTurnMetadata(ctx context.Context, turnID string, patch map[string]any) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin metadata update: %w", err)
	}

	var metadataJSON string
	row := tx.QueryRowContext(ctx, `SELECT metadata_json FROM turns WHERE turn_id=?`, turnID)
	if err := row.Scan(&metadataJSON); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("turn %s: %w", turnID, ErrNotFound)
		}
		return fmt.Errorf("read turn metadata: %w", err)
	}

	metadata := map[string]any{}
	if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("decode turn metadata: %w", err)
	}
	for k, v := range patch {
		metadata[k] = v
	}
	merged, err := marshalJSON(metadata)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE turns SET metadata_json=? WHERE turn_id=?`, merged, turnID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("update turn metadata: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit metadata update: %w", err)
	}
	return nil
}

// GetTurnsByRun returns a run's turns in creation order.
func (s *Store) GetTurnsByRun(ctx context.Context, runID string) ([]model.Turn, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT turn_id, run_id, agent_id, phase, role, content, targets_json, metadata_json, created_at
		FROM turns WHERE run_id=? ORDER BY created_at, turn_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Turn
	for rows.Next() {
		var (
			turn                      model.Turn
			role                      string
			targetsJSON, metadataJSON string
			createdStr                string
		)
		if err := rows.Scan(&turn.TurnID, &turn.RunID, &turn.AgentID, &turn.Phase, &role,
			&turn.Content, &targetsJSON, &metadataJSON, &createdStr); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turn.Role = model.Role(role)
		turn.CreatedAt = parseTime(createdStr)
		if err := json.Unmarshal([]byte(targetsJSON), &turn.Targets); err != nil {
			return nil, fmt.Errorf("decode turn targets: %w", err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &turn.Metadata); err != nil {
			return nil, fmt.Errorf("decode turn metadata: %w", err)
		}
		out = append(out, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	return out, nil
}

// PruneRuns deletes old runs (and their turns via cascade). keepLast
// protects the newest N runs; keepDays protects runs younger than the
// cutoff. A run is deleted only when protected by neither bound. Zero
// disables a bound; both zero deletes nothing.
func (s *Store) PruneRuns(ctx context.Context, keepLast, keepDays int) (int, error) {
	if keepLast <= 0 && keepDays <= 0 {
		return 0, nil
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		return 0, err
	}

	var cutoff time.Time
	if keepDays > 0 {
		cutoff = time.Now().UTC().AddDate(0, 0, -keepDays)
	}

	deleted := 0
	for i, run := range runs {
		if keepLast > 0 && i < keepLast {
			continue
		}
		if keepDays > 0 && run.CreatedAt.After(cutoff) {
			continue
		}
		if err := s.DeleteRun(ctx, run.RunID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
