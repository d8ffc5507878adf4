package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/karune-connect/matcher/internal/ai"
	"github.com/karune-connect/matcher/internal/logger"
	"github.com/karune-connect/matcher/internal/needs"
	"github.com/karune-connect/matcher/internal/scoring"
	"github.com/karune-connect/matcher/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

var _ ai.Narrator = (*Narrator)(nil)

// Narrator drafts outreach notes with Gemini.
type Narrator struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewNarrator(generator contentGenerator, log *zap.Logger, maxLogLength int) *Narrator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Narrator{
		generator: generator,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

func (n *Narrator) Draft(ctx context.Context, profile *needs.Profile, need *needs.Need, result *scoring.Result) (string, error) {
	if profile == nil {
		return "", errors.New("profile is required")
	}
	if need == nil {
		return "", errors.New("need is required")
	}

	// Contact details stay out of the prompt.
	profilePayload := map[string]any{
		"role":                profile.Role,
		"city":                profile.City,
		"preferredCategories": profile.PreferredCategories,
		"skills":              profile.Skills,
	}

	profileJSON, err := json.MarshalIndent(profilePayload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile payload: %w", err)
	}

	needJSON, err := json.MarshalIndent(need, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal need payload: %w", err)
	}

	var reasons []string
	if result != nil {
		reasons = scoring.Texts(result.Reasons)
	}

	prompt := buildPrompt(string(profileJSON), string(needJSON), reasons)

	n.logger.Debug("gemini generate content request",
		zap.String(logger.FieldNeedID, need.ID),
		zap.String(logger.FieldProfileID, profile.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, n.maxLogLen)),
	)

	raw, err := n.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	n.logger.Debug("gemini generate content response",
		zap.String(logger.FieldNeedID, need.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, n.maxLogLen)),
	)

	return parseResponse(raw)
}

func buildPrompt(profileJSON, needJSON string, reasons []string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Supporter:\n{{PROFILE_JSON}}\n\nNeed:\n{{NEED_JSON}}\n\nReasons:\n{{REASONS}}\n\nJSON Response:"
	}

	reasonBlock := "- none"
	if len(reasons) > 0 {
		reasonBlock = "- " + strings.Join(reasons, "\n- ")
	}

	prompt := strings.ReplaceAll(template, "{{PROFILE_JSON}}", profileJSON)
	prompt = strings.ReplaceAll(prompt, "{{NEED_JSON}}", needJSON)
	prompt = strings.ReplaceAll(prompt, "{{REASONS}}", reasonBlock)
	return prompt
}

func parseResponse(raw string) (string, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return "", fmt.Errorf("parse gemini response: %w", err)
	}

	message := coerceString(data["message"])
	if message == "" {
		return "", errors.New("gemini response has no message")
	}
	return message, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
