package debate

// Phase names. The executor drives them in the fixed order below; the
// ordering is part of the external streaming contract.
const (
	PhaseJudgeIntro     = "judge_intro"
	PhaseOpeningA       = "opening_a"
	PhaseScoreOpeningA  = "score_opening_a"
	PhaseOpeningB       = "opening_b"
	PhaseScoreOpeningB  = "score_opening_b"
	PhaseRebuttalA      = "rebuttal_a"
	PhaseScoreRebuttalA = "score_rebuttal_a"
	PhaseRebuttalB      = "rebuttal_b"
	PhaseScoreRebuttalB = "score_rebuttal_b"
	PhaseSummaryA       = "summary_a"
	PhaseScoreSummaryA  = "score_summary_a"
	PhaseSummaryB       = "summary_b"
	PhaseScoreSummaryB  = "score_summary_b"
	PhaseJudgeVerdict   = "judge_verdict"
)

type phaseKind int

const (
	kindJudgeIntro phaseKind = iota
	kindOpening
	kindRebuttal
	kindSummary
	kindScoreOpening
	kindScoreRebuttal
	kindScoreSummary
	kindVerdict
)

// slot identifies which of the run's three agents a phase belongs to.
type slot int

const (
	slotA slot = iota
	slotB
	slotJudge
)

// phaseSpec is one row of the phase table. Actor is the agent that
// generates in this phase; Subject is the debater being scored (scoring
// phases only). Scores names the generation phase whose turn a scoring
// phase evaluates. Requires lists phases whose turns must already exist
// before this phase may run; a missing one is state corruption.
type phaseSpec struct {
	Name     string
	Kind     phaseKind
	Actor    slot
	Subject  slot
	Scores   string
	Requires []string
}

// phaseOrder is the complete debate pipeline as data. Clients rely on
// this exact sequence for UI ordering.
var phaseOrder = []phaseSpec{
	{Name: PhaseJudgeIntro, Kind: kindJudgeIntro, Actor: slotJudge},
	{Name: PhaseOpeningA, Kind: kindOpening, Actor: slotA},
	{Name: PhaseScoreOpeningA, Kind: kindScoreOpening, Actor: slotJudge, Subject: slotA,
		Scores: PhaseOpeningA, Requires: []string{PhaseOpeningA}},
	{Name: PhaseOpeningB, Kind: kindOpening, Actor: slotB},
	{Name: PhaseScoreOpeningB, Kind: kindScoreOpening, Actor: slotJudge, Subject: slotB,
		Scores: PhaseOpeningB, Requires: []string{PhaseOpeningB}},
	{Name: PhaseRebuttalA, Kind: kindRebuttal, Actor: slotA,
		Requires: []string{PhaseOpeningA, PhaseOpeningB}},
	{Name: PhaseScoreRebuttalA, Kind: kindScoreRebuttal, Actor: slotJudge, Subject: slotA,
		Scores: PhaseRebuttalA, Requires: []string{PhaseRebuttalA, PhaseOpeningB}},
	{Name: PhaseRebuttalB, Kind: kindRebuttal, Actor: slotB,
		Requires: []string{PhaseOpeningA, PhaseOpeningB}},
	{Name: PhaseScoreRebuttalB, Kind: kindScoreRebuttal, Actor: slotJudge, Subject: slotB,
		Scores: PhaseRebuttalB, Requires: []string{PhaseRebuttalB, PhaseOpeningA}},
	{Name: PhaseSummaryA, Kind: kindSummary, Actor: slotA,
		Requires: []string{PhaseOpeningA, PhaseOpeningB, PhaseRebuttalA, PhaseRebuttalB}},
	{Name: PhaseScoreSummaryA, Kind: kindScoreSummary, Actor: slotJudge, Subject: slotA,
		Scores: PhaseSummaryA, Requires: []string{PhaseSummaryA}},
	{Name: PhaseSummaryB, Kind: kindSummary, Actor: slotB,
		Requires: []string{PhaseOpeningA, PhaseOpeningB, PhaseRebuttalA, PhaseRebuttalB}},
	{Name: PhaseScoreSummaryB, Kind: kindScoreSummary, Actor: slotJudge, Subject: slotB,
		Scores: PhaseSummaryB, Requires: []string{PhaseSummaryB}},
	{Name: PhaseJudgeVerdict, Kind: kindVerdict, Actor: slotJudge},
}

// specFor returns the table row for a phase name.
func specFor(name string) (phaseSpec, bool) {
	for _, ps := range phaseOrder {
		if ps.Name == name {
			return ps, true
		}
	}
	return phaseSpec{}, false
}

// PhaseNames returns the 14 phase names in execution order.
func PhaseNames() []string {
	names := make([]string, len(phaseOrder))
	for i, ps := range phaseOrder {
		names[i] = ps.Name
	}
	return names
}
