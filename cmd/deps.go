package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/karune-connect/matcher/internal/ai"
	"github.com/karune-connect/matcher/internal/ai/gemini"
	"github.com/karune-connect/matcher/internal/geo"
	"github.com/karune-connect/matcher/internal/logger"
	"github.com/karune-connect/matcher/internal/needs"
	"github.com/karune-connect/matcher/internal/scoring"
	"github.com/karune-connect/matcher/internal/secrets"
	"github.com/karune-connect/matcher/internal/store"
)

// session bundles what every command needs: config, logger, scoring engine and data source.
type session struct {
	config *Config
	logger *zap.Logger
	engine *scoring.Engine
	source store.Source
}

func newSession() (*session, error) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), zap.String("app", app))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	engine, err := newEngine(config.Tables, logger)
	if err != nil {
		return nil, err
	}

	return &session{config: config, logger: logger, engine: engine}, nil
}

// openSource connects the configured data source. Callers close it through s.close.
func (s *session) openSource() error {
	source, err := store.Open(s.config.Source.Driver, s.config.Source.Path)
	if err != nil {
		return fmt.Errorf("opening %s source: %w", s.config.Source.Driver, err)
	}
	s.source = source
	s.logger.Debug("data source opened",
		zap.String("driver", s.config.Source.Driver),
		zap.String("path", s.config.Source.Path),
	)
	return nil
}

func (s *session) close() {
	if s.source != nil {
		if err := s.source.Close(); err != nil {
			s.logger.Warn("closing data source", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

func newEngine(tables *TablesConfig, log *zap.Logger) (*scoring.Engine, error) {
	var (
		centroids *geo.CentroidTable
		skills    *scoring.SkillTable
		err       error
	)

	if path := strings.TrimSpace(tables.Centroids); path != "" {
		centroids, err = geo.LoadCentroids(path)
	} else {
		centroids, err = geo.DefaultCentroids()
	}
	if err != nil {
		return nil, fmt.Errorf("loading centroid table: %w", err)
	}

	if path := strings.TrimSpace(tables.Skills); path != "" {
		skills, err = scoring.LoadSkills(path)
	} else {
		skills, err = scoring.DefaultSkills()
	}
	if err != nil {
		return nil, fmt.Errorf("loading skill table: %w", err)
	}

	log.Debug("lookup tables loaded", zap.Int("cities", centroids.Len()))

	return scoring.NewEngine(geo.NewCalculator(centroids), skills, log), nil
}

// resolveProfile loads the profile by id, or asks the user to pick one when id is empty.
func (s *session) resolveProfile(ctx context.Context, id string) (*needs.Profile, error) {
	if id = strings.TrimSpace(id); id != "" {
		return s.source.GetProfile(ctx, id)
	}

	profiles, err := s.source.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profiles in source; pass --profile-id")
	}

	items := make([]string, 0, len(profiles))
	for _, p := range profiles {
		items = append(items, fmt.Sprintf("%s [%s] %s", p.Label(), p.Role, p.City))
	}

	profilePrompt := promptui.Select{
		Label: "Choose a profile and press ENTER",
		Items: items,
	}
	idx, _, err := profilePrompt.Run()
	if err != nil {
		return nil, err
	}
	return profiles[idx], nil
}

func roleFor(flag string, profile *needs.Profile) needs.Role {
	if role := needs.ParseRole(flag); role != "" {
		return role
	}
	if profile != nil {
		return needs.ParseRole(string(profile.Role))
	}
	return ""
}

func newNarrator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Narrator, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("ai is disabled; set ai.enabled in the config")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := log.With(
		zap.String("provider", "gemini"),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewNarrator(generator, genLogger, cfg.Gemini.MaxLogLength), nil
}
