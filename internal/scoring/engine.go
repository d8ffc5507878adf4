package scoring

import (
	"github.com/karune-connect/matcher/internal/geo"
	"github.com/karune-connect/matcher/internal/logger"
	"github.com/karune-connect/matcher/internal/needs"
	"go.uber.org/zap"
)

// Scorer turns a (need, profile) pair into a bounded score with reasons.
// Implementations must not mutate their inputs.
type Scorer interface {
	Score(need *needs.Need, profile *needs.Profile) Result
}

// DefaultRole selects the scorer used for roles without a dedicated one.
const DefaultRole = needs.RoleVolunteer

// Engine dispatches scoring by role.
type Engine struct {
	calc    *geo.Calculator
	scorers map[needs.Role]Scorer
	logger  *zap.Logger
}

func NewEngine(calc *geo.Calculator, skills *SkillTable, log *zap.Logger) *Engine {
	return &Engine{
		calc: calc,
		scorers: map[needs.Role]Scorer{
			needs.RoleSponsor:   NewSponsorScorer(calc),
			needs.RoleVolunteer: NewVolunteerScorer(calc, skills),
		},
		logger: logger.WithFields(log),
	}
}

// Calculator exposes the distance calculator the engine scores with.
func (e *Engine) Calculator() *geo.Calculator {
	return e.calc
}

// ScorerFor returns the scorer for role. Roles without a dedicated scorer
// get the DefaultRole scorer and ok=false; this is logged as a degraded case.
func (e *Engine) ScorerFor(role needs.Role) (scorer Scorer, ok bool) {
	if s, found := e.scorers[role]; found {
		return s, true
	}

	msg := "unknown role, falling back to default scorer"
	if role.Known() {
		msg = "no scorer for role, falling back to default scorer"
	}
	e.logger.Warn(msg,
		zap.String(logger.FieldRole, string(role)),
		zap.Bool("known_role", role.Known()),
		zap.String("default_role", string(DefaultRole)),
	)

	return e.scorers[DefaultRole], false
}

// Score evaluates a single need. A nil need or profile scores zero.
func (e *Engine) Score(need *needs.Need, profile *needs.Profile, role needs.Role) Result {
	if need == nil || profile == nil {
		return Result{}
	}
	scorer, _ := e.ScorerFor(role)
	return scorer.Score(need, profile)
}
