package scoring

import (
	"testing"

	"github.com/karune-connect/matcher/internal/logger"
	"github.com/karune-connect/matcher/internal/needs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEngineDispatchesByRole(t *testing.T) {
	engine := NewEngine(testCalculator(t), testSkills(t), nil)

	need := &needs.Need{ID: "n1", Category: "Education", Urgency: needs.UrgencyHigh, SupportType: needs.SupportVolunteer}
	profile := &needs.Profile{PreferredCategories: []string{"Education"}, Skills: []string{"teaching"}}

	sponsor := engine.Score(need, profile, needs.RoleSponsor)
	assert.Equal(t, 60, sponsor.Score)

	volunteer := engine.Score(need, profile, needs.RoleVolunteer)
	assert.Equal(t, 35, volunteer.Score)
}

func TestEngineFallsBackToDefaultRole(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	engine := NewEngine(testCalculator(t), testSkills(t), zap.New(core))

	need := &needs.Need{ID: "n1", Category: "Education", SupportType: needs.SupportVolunteer}
	profile := &needs.Profile{Skills: []string{"teaching"}}
	want := engine.Score(need, profile, DefaultRole)
	require.Zero(t, observed.Len())

	for _, role := range []needs.Role{needs.RoleShelter, "admin", ""} {
		scorer, ok := engine.ScorerFor(role)
		assert.False(t, ok)
		assert.IsType(t, &VolunteerScorer{}, scorer)
		assert.Equal(t, want, engine.Score(need, profile, role))
	}

	entries := observed.FilterField(zap.String(logger.FieldRole, "admin")).All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, string(DefaultRole), entries[0].ContextMap()["default_role"])
	assert.Equal(t, false, entries[0].ContextMap()["known_role"])
	assert.Equal(t, "unknown role, falling back to default scorer", entries[0].Message)

	shelter := observed.FilterField(zap.String(logger.FieldRole, string(needs.RoleShelter))).All()
	require.NotEmpty(t, shelter)
	assert.Equal(t, true, shelter[0].ContextMap()["known_role"])
	assert.Equal(t, "no scorer for role, falling back to default scorer", shelter[0].Message)
}

func TestEngineNilInputs(t *testing.T) {
	engine := NewEngine(testCalculator(t), testSkills(t), nil)

	assert.Equal(t, Result{}, engine.Score(nil, &needs.Profile{}, needs.RoleSponsor))
	assert.Equal(t, Result{}, engine.Score(&needs.Need{ID: "n1"}, nil, needs.RoleSponsor))
	assert.NotNil(t, engine.Calculator())
}
