package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/karune-connect/matcher/internal/geo"
	"github.com/karune-connect/matcher/internal/needs"
	"github.com/karune-connect/matcher/internal/scoring"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testMatch() (*needs.Profile, *needs.Need, *scoring.Result) {
	profile := &needs.Profile{
		ID:                  "s1",
		Name:                "Asha Rao",
		Role:                needs.RoleSponsor,
		City:                "Mumbai",
		Coordinates:         &geo.Coordinates{Lat: 19.07, Lng: 72.87},
		PreferredCategories: []string{"Education"},
	}
	need := &needs.Need{ID: "n1", Title: "School books", Category: "Education", ShelterCity: "Pune"}
	result := &scoring.Result{
		Score: 50,
		Reasons: []scoring.Reason{
			{Factor: scoring.FactorCategory, Points: 40, Params: map[string]string{scoring.ParamCategory: "Education"}},
			{Factor: scoring.FactorProximity, Points: 10, Params: map[string]string{scoring.ParamDistanceKm: "120.2", scoring.ParamLabel: "regional"}},
		},
	}
	return profile, need, result
}

func TestNarratorDraft(t *testing.T) {
	stub := &stubGenerator{response: `{"message": "  Hi Asha, a shelter in Pune needs school books.  "}`}
	narrator := NewNarrator(stub, zap.NewNop(), 0)
	profile, need, result := testMatch()

	draft, err := narrator.Draft(context.Background(), profile, need, result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft != "Hi Asha, a shelter in Pune needs school books." {
		t.Fatalf("unexpected draft: %q", draft)
	}

	prompt := stub.lastPrompt
	if !strings.Contains(prompt, "- matches preferred category: Education\n- regional - 120.2km away") {
		t.Fatalf("expected reasons block in prompt: %s", prompt)
	}
	if !strings.Contains(prompt, `"title": "School books"`) {
		t.Fatalf("expected need payload in prompt: %s", prompt)
	}
	if strings.Contains(prompt, "Asha Rao") || strings.Contains(prompt, "19.07") {
		t.Fatalf("profile name and coordinates must not be sent: %s", prompt)
	}
	if strings.Contains(prompt, "{{") {
		t.Fatalf("unreplaced placeholder in prompt: %s", prompt)
	}
}

func TestNarratorDraftWithoutReasons(t *testing.T) {
	stub := &stubGenerator{response: `{"message": "Hello"}`}
	profile, need, _ := testMatch()

	if _, err := NewNarrator(stub, nil, 0).Draft(context.Background(), profile, need, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stub.lastPrompt, "[Why it matches]\n- none") {
		t.Fatalf("expected empty reasons placeholder: %s", stub.lastPrompt)
	}
}

func TestNarratorDraftErrors(t *testing.T) {
	profile, need, result := testMatch()

	cases := []struct {
		name     string
		stub     *stubGenerator
		profile  *needs.Profile
		need     *needs.Need
		contains string
	}{
		{name: "generator failure", stub: &stubGenerator{err: errors.New("boom")}, profile: profile, need: need, contains: "boom"},
		{name: "not json", stub: &stubGenerator{response: "Sure! Here is a note"}, profile: profile, need: need, contains: "parse gemini response"},
		{name: "no message", stub: &stubGenerator{response: `{"note": "hi"}`}, profile: profile, need: need, contains: "no message"},
		{name: "no profile", stub: &stubGenerator{}, need: need, contains: "profile is required"},
		{name: "no need", stub: &stubGenerator{}, profile: profile, contains: "need is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewNarrator(tc.stub, zap.NewNop(), 10).Draft(context.Background(), tc.profile, tc.need, result)
			if err == nil || !strings.Contains(err.Error(), tc.contains) {
				t.Fatalf("expected error containing %q, got %v", tc.contains, err)
			}
		})
	}
}

func TestParseResponseHandlesCodeBlock(t *testing.T) {
	raw := "```json\n{\"message\": \"Hi\"}\n```"
	message, err := parseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if message != "Hi" {
		t.Fatalf("unexpected message: %s", message)
	}
}
