package debate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/metalagman/arena/internal/llm"
	"github.com/metalagman/arena/internal/model"
	"github.com/metalagman/arena/internal/prompt"
)

// Executor-level sentinel errors.
var (
	// ErrNotPending rejects execution of a run that already started or
	// finished.
	ErrNotPending = errors.New("run is not pending")
	// ErrStateCorrupt flags a missing required prior turn. The fixed
	// phase order guarantees presence, so absence is never tolerated.
	ErrStateCorrupt = errors.New("debate state corrupt")
)

// Generation parameters for the judge's calls. Debater calls use the
// per-agent params with the configured defaults.
const (
	introTemperature   = 0.5
	introMaxTokens     = 512
	scoringTemperature = 0.3
	scoringMaxTokens   = 512
	verdictTemperature = 0.5
	verdictMaxTokens   = 1024

	// parserFallbackScore seeds the default score structure when the
	// judge response yields no JSON.
	parserFallbackScore = 7
)

// Store is the persistence surface the executor needs. Turn creation
// is durable per phase; metadata updates use merge semantics.
type Store interface {
	GetRunWithAgents(ctx context.Context, runID string) (model.RunBundle, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.Status, result *model.Result) error
	CreateTurn(ctx context.Context, turn model.Turn) error
	UpdateTurnMetadata(ctx context.Context, turnID string, patch map[string]any) error
}

// Options tune the executor's debater generation defaults.
type Options struct {
	DefaultTemperature float64
	DefaultMaxTokens   int
}

func (o Options) temperature() float64 {
	if o.DefaultTemperature <= 0 {
		return 0.7
	}
	return o.DefaultTemperature
}

func (o Options) maxTokens() int {
	if o.DefaultMaxTokens <= 0 {
		return 1024
	}
	return o.DefaultMaxTokens
}

// Executor drives a debate run through the fixed phase pipeline,
// persisting every turn as it is produced and emitting the lifecycle
// event stream to a sink.
type Executor struct {
	store Store
	gen   llm.Generator
	opts  Options
}

// NewExecutor builds an executor over a store and a generation client
// (normally an llm.Retryer).
func NewExecutor(store Store, gen llm.Generator, opts Options) *Executor {
	return &Executor{store: store, gen: gen, opts: opts}
}

// Execute runs the full pipeline for a pending run. On any fatal error
// the run is marked failed (best effort) and a single error event is
// emitted in place of run_complete. The sink sees either a complete
// event sequence ending in run_complete or a truncated one ending in
// error.
func (e *Executor) Execute(ctx context.Context, runID string, sink Sink) error {
	bundle, err := e.store.GetRunWithAgents(ctx, runID)
	if err != nil {
		return fmt.Errorf("load run %s: %w", runID, err)
	}
	if bundle.Run.Status != model.StatusPending {
		return fmt.Errorf("run %s has status %s: %w", runID, bundle.Run.Status, ErrNotPending)
	}

	st := newState(bundle)
	if err := e.run(ctx, st, sink); err != nil {
		log.Error().Err(err).Str("run_id", runID).Str("phase", st.Phase).Msg("debate run failed")
		if uerr := e.store.UpdateRunStatus(ctx, runID, model.StatusFailed, nil); uerr != nil {
			log.Error().Err(uerr).Str("run_id", runID).Msg("failed to persist failed status")
		}
		_ = sink.Emit(Event{Type: EventError, Data: ErrorPayload{
			Code:    errorCode,
			Message: err.Error(),
			Phase:   st.Phase,
		}})
		return err
	}
	return nil
}

func (e *Executor) run(ctx context.Context, st *State, sink Sink) error {
	runID := st.Run.RunID
	if err := e.store.UpdateRunStatus(ctx, runID, model.StatusRunning, nil); err != nil {
		return fmt.Errorf("mark running: %w", err)
	}
	st.Run.Status = model.StatusRunning
	log.Info().Str("run_id", runID).Str("topic", st.Run.Topic).Msg("debate started")

	for _, ps := range phaseOrder {
		st.Phase = ps.Name
		if err := sink.Emit(Event{Type: EventPhaseStart, Data: PhaseStartPayload{
			Phase:   ps.Name,
			AgentID: st.agent(ps.Actor).AgentID,
		}}); err != nil {
			return fmt.Errorf("phase %s: %w", ps.Name, err)
		}

		if err := e.requirePriorTurns(st, ps); err != nil {
			return err
		}

		var (
			turnID string
			err    error
		)
		switch ps.Kind {
		case kindJudgeIntro:
			turnID, err = e.runJudgeIntro(ctx, st, sink)
		case kindOpening, kindRebuttal, kindSummary:
			turnID, err = e.runDebaterPhase(ctx, st, ps, sink)
		case kindScoreOpening, kindScoreRebuttal, kindScoreSummary:
			turnID, err = e.runScoringPhase(ctx, st, ps, sink)
		case kindVerdict:
			turnID, err = e.runVerdict(ctx, st, sink)
		}
		if err != nil {
			return fmt.Errorf("phase %s: %w", ps.Name, err)
		}

		if err := sink.Emit(Event{Type: EventPhaseEnd, Data: PhaseEndPayload{
			Phase:  ps.Name,
			TurnID: turnID,
		}}); err != nil {
			return fmt.Errorf("phase %s: %w", ps.Name, err)
		}
	}

	return sink.Emit(Event{Type: EventRunComplete, Data: RunCompletePayload{
		RunID:  runID,
		Status: model.StatusCompleted,
		Winner: st.Winner,
	}})
}

func (e *Executor) requirePriorTurns(st *State, ps phaseSpec) error {
	for _, req := range ps.Requires {
		if _, ok := st.turnByPhase(req); !ok {
			return fmt.Errorf("phase %s requires turn from %s: %w", ps.Name, req, ErrStateCorrupt)
		}
	}
	return nil
}

func (e *Executor) runJudgeIntro(ctx context.Context, st *State, sink Sink) (string, error) {
	judge := st.AgentJ
	content, err := e.gen.Generate(ctx, llm.GenerateRequest{
		Model:       judge.Model,
		Prompt:      prompt.JudgeIntro(st.Run.Topic, judge.Persona),
		System:      prompt.System(judge.Persona),
		Temperature: introTemperature,
		MaxTokens:   introMaxTokens,
	})
	if err != nil {
		return "", err
	}

	turn := e.newTurn(st, PhaseJudgeIntro, judge, model.RoleJudge, content, nil)
	if err := e.appendTurn(ctx, st, turn); err != nil {
		return "", err
	}
	if err := sink.Emit(Event{Type: EventToken, Data: TokenPayload{
		TurnID:   turn.TurnID,
		Content:  content,
		Complete: true,
	}}); err != nil {
		return "", err
	}
	return turn.TurnID, nil
}

func (e *Executor) runDebaterPhase(ctx context.Context, st *State, ps phaseSpec, sink Sink) (string, error) {
	agent := st.agent(ps.Actor)
	position := st.position(ps.Actor)

	var (
		promptText string
		targets    []string
	)
	switch ps.Kind {
	case kindOpening:
		promptText = prompt.Opening(st.Run.Topic, position, agent.Persona)
	case kindRebuttal:
		opponent := slotA
		if ps.Actor == slotA {
			opponent = slotB
		}
		oppOpening, _ := st.turnByPhase(openingPhase(opponent))
		ownOpening, _ := st.turnByPhase(openingPhase(ps.Actor))
		promptText = prompt.Rebuttal(st.Run.Topic, position, agent.Persona, oppOpening.Content, ownOpening.Content)
		targets = []string{oppOpening.TurnID}
	case kindSummary:
		promptText = prompt.Summary(st.Run.Topic, position, agent.Persona, st.debaterContents())
	}

	turnID := uuid.New().String()
	var content strings.Builder
	err := e.gen.GenerateStream(ctx, llm.GenerateRequest{
		Model:       agent.Model,
		Prompt:      promptText,
		System:      prompt.System(agent.Persona),
		Temperature: agent.Params.TemperatureOr(e.opts.temperature()),
		MaxTokens:   agent.Params.MaxTokensOr(e.opts.maxTokens()),
	}, func(fragment string) error {
		content.WriteString(fragment)
		return sink.Emit(Event{Type: EventToken, Data: TokenPayload{
			TurnID:  turnID,
			Content: fragment,
		}})
	})
	if err != nil {
		return "", err
	}

	turn := e.newTurn(st, ps.Name, agent, model.RoleDebater, content.String(), targets)
	turn.TurnID = turnID
	if err := e.appendTurn(ctx, st, turn); err != nil {
		return "", err
	}
	return turn.TurnID, nil
}

func (e *Executor) runScoringPhase(ctx context.Context, st *State, ps phaseSpec, sink Sink) (string, error) {
	scored, ok := st.turnByPhase(ps.Scores)
	if !ok {
		return "", fmt.Errorf("no turn for %s: %w", ps.Scores, ErrStateCorrupt)
	}
	subject := st.agent(ps.Subject)
	judge := st.AgentJ
	rubric := st.Run.Rubric

	violations := DetectViolations(scored.Content, subject.Persona.ForbiddenPhrases)
	if violations == nil {
		violations = []model.Violation{}
	}
	if len(violations) > 0 {
		log.Info().Str("run_id", st.Run.RunID).Str("phase", ps.Name).
			Int("violations", len(violations)).Msg("forbidden phrases detected")
	}

	var promptText string
	switch ps.Kind {
	case kindScoreOpening:
		promptText = prompt.ScoreOpening(scored.Content, rubric, subject.Name, violations)
	case kindScoreRebuttal:
		opponent := slotA
		if ps.Subject == slotA {
			opponent = slotB
		}
		oppOpening, _ := st.turnByPhase(openingPhase(opponent))
		promptText = prompt.ScoreRebuttal(scored.Content, rubric, subject.Name, oppOpening.Content, violations)
	case kindScoreSummary:
		promptText = prompt.ScoreSummary(scored.Content, rubric, subject.Name,
			st.debaterContentsBefore(scored.TurnID), violations)
	}

	out, err := e.gen.Generate(ctx, llm.GenerateRequest{
		Model:       judge.Model,
		Prompt:      promptText,
		System:      prompt.System(judge.Persona),
		Temperature: scoringTemperature,
		MaxTokens:   scoringMaxTokens,
	})
	if err != nil {
		return "", err
	}

	raw := ParseScores(out, parserFallbackScore)
	card := st.scores(ps.Subject)
	switch ps.Kind {
	case kindScoreOpening:
		*card = openingScores(raw, rubric)
	case kindScoreRebuttal:
		addRebuttalScores(card, raw, rubric)
	case kindScoreSummary:
		addSummaryScores(card, raw, rubric)
	}

	patch := map[string]any{
		"scores":     raw,
		"violations": violations,
	}
	if ps.Kind == kindScoreSummary {
		detected, _ := raw["new_arguments_detected"].(bool)
		patch["new_arguments_detected"] = detected
	}
	if err := e.store.UpdateTurnMetadata(ctx, scored.TurnID, patch); err != nil {
		return "", fmt.Errorf("patch turn metadata: %w", err)
	}
	if scored.Metadata == nil {
		scored.Metadata = map[string]any{}
	}
	for k, v := range patch {
		scored.Metadata[k] = v
	}

	if err := sink.Emit(Event{Type: EventScore, Data: ScorePayload{
		Phase:  ps.Name,
		Scores: raw,
		Agent:  subjectLabel(ps.Subject),
	}}); err != nil {
		return "", err
	}

	if ps.Name == PhaseScoreSummaryB {
		if err := e.store.UpdateRunStatus(ctx, st.Run.RunID, model.StatusJudging, nil); err != nil {
			return "", fmt.Errorf("mark judging: %w", err)
		}
		st.Run.Status = model.StatusJudging
	}
	return scored.TurnID, nil
}

func (e *Executor) runVerdict(ctx context.Context, st *State, sink Sink) (string, error) {
	judge := st.AgentJ
	content, err := e.gen.Generate(ctx, llm.GenerateRequest{
		Model: judge.Model,
		Prompt: prompt.Verdict(st.Run.Topic, st.Run.PositionA, st.Run.PositionB,
			st.AgentA.Name, st.AgentB.Name, st.ScoresA, st.ScoresB, st.debaterContents()),
		System:      prompt.System(judge.Persona),
		Temperature: verdictTemperature,
		MaxTokens:   verdictMaxTokens,
	})
	if err != nil {
		return "", err
	}

	st.Winner = DecideWinner(st.ScoresA.Total, st.ScoresB.Total)
	st.Verdict = content

	turn := e.newTurn(st, PhaseJudgeVerdict, judge, model.RoleJudge, content, nil)
	turn.Metadata["winner"] = st.Winner
	turn.Metadata["scores_a"] = st.ScoresA
	turn.Metadata["scores_b"] = st.ScoresB
	if err := e.appendTurn(ctx, st, turn); err != nil {
		return "", err
	}
	if err := sink.Emit(Event{Type: EventToken, Data: TokenPayload{
		TurnID:   turn.TurnID,
		Content:  content,
		Complete: true,
	}}); err != nil {
		return "", err
	}

	result := &model.Result{
		Winner:  st.Winner,
		ScoresA: st.ScoresA,
		ScoresB: st.ScoresB,
		Verdict: content,
	}
	if err := e.store.UpdateRunStatus(ctx, st.Run.RunID, model.StatusCompleted, result); err != nil {
		return "", fmt.Errorf("mark completed: %w", err)
	}
	st.Run.Status = model.StatusCompleted
	st.Run.Result = result
	log.Info().Str("run_id", st.Run.RunID).Str("winner", string(st.Winner)).
		Float64("total_a", st.ScoresA.Total).Float64("total_b", st.ScoresB.Total).
		Msg("debate completed")

	if err := sink.Emit(Event{Type: EventVerdict, Data: VerdictPayload{
		Winner:      st.Winner,
		FinalScores: FinalScores{A: st.ScoresA, B: st.ScoresB},
		Reasoning:   content,
	}}); err != nil {
		return "", err
	}
	return turn.TurnID, nil
}

func (e *Executor) newTurn(st *State, phase string, agent model.Agent, role model.Role, content string, targets []string) model.Turn {
	now := time.Now().UTC()
	return model.Turn{
		TurnID:  uuid.New().String(),
		RunID:   st.Run.RunID,
		AgentID: agent.AgentID,
		Phase:   phase,
		Role:    role,
		Content: content,
		Targets: targets,
		Metadata: map[string]any{
			"model":        agent.Model,
			"generated_at": now.Format(time.RFC3339),
		},
		CreatedAt: now,
	}
}

func (e *Executor) appendTurn(ctx context.Context, st *State, turn model.Turn) error {
	if err := e.store.CreateTurn(ctx, turn); err != nil {
		return fmt.Errorf("persist turn: %w", err)
	}
	st.Turns = append(st.Turns, turn)
	return nil
}

func openingPhase(sl slot) string {
	if sl == slotB {
		return PhaseOpeningB
	}
	return PhaseOpeningA
}

func subjectLabel(sl slot) string {
	if sl == slotB {
		return "B"
	}
	return "A"
}
