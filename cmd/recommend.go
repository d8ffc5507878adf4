package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karune-connect/matcher/internal/ai"
	"github.com/karune-connect/matcher/internal/completeness"
	"github.com/karune-connect/matcher/internal/filtering"
	"github.com/karune-connect/matcher/internal/logger"
	"github.com/karune-connect/matcher/internal/needs"
	"github.com/karune-connect/matcher/internal/ranking"
)

const (
	PromptReportByCity        = "Report by city"
	PromptRecommendationsList = "List recommendations"
	PromptToFile              = "Dump recommendations to file"
	PromptAppendToExcludeFile = "Append a need to exclude file"
	PromptSuggestions         = "Show profile suggestions"
	PromptExit                = "Exit"
	PromptBack                = "back"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReportByCity, PromptRecommendationsList, PromptToFile, PromptAppendToExcludeFile, PromptSuggestions, PromptExit},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank needs for a sponsor or volunteer profile",
	Run: func(cmd *cobra.Command, _ []string) {
		recommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringP("profile-id", "p", "", "profile to rank needs for. Asks interactively when unset.")
	recommendCmd.Flags().StringP("role", "r", "", "scoring role (sponsor, volunteer). Defaults to the profile role.")
	recommendCmd.Flags().IntP("top", "n", 10, "how many recommendations to keep; 0 keeps all")
	recommendCmd.Flags().Int("draft", 0, "ask the AI provider for outreach notes for the first N recommendations")
	recommendCmd.Flags().BoolP("auto-approve", "y", false, "print the report and exit without prompting")
	recommendCmd.Flags().StringSlice("skip-filter", nil, "filter steps to skip (exclude_file, categories, radius)")
}

func recommend(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := newSession()
	if err != nil {
		log.Fatal(err)
	}
	defer s.close()

	if err := s.openSource(); err != nil {
		s.logger.Fatal("opening data source", zap.Error(err))
	}

	s.logger.Info("starting the karune-matcher", zap.String("version", version))

	profileID, _ := cmd.Flags().GetString("profile-id")
	profile, err := s.resolveProfile(ctx, profileID)
	if err != nil {
		s.logger.Fatal("resolving profile", zap.Error(err))
	}

	roleFlag, _ := cmd.Flags().GetString("role")
	role := roleFor(roleFlag, profile)
	log := logger.WithMatchFields(s.logger, string(role), profile.ID)

	skip, _ := cmd.Flags().GetStringSlice("skip-filter")
	recs, err := s.rankFor(ctx, profile, role, skip, log)
	if err != nil {
		log.Fatal("ranking needs", zap.Error(err))
	}

	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		recs = recs.Top(top)
	}

	if recs.Len() == 0 {
		log.Info("exiting", zap.String("reason", "no needs left after filters"))
		return
	}

	if drafts, _ := cmd.Flags().GetInt("draft"); drafts > 0 {
		s.attachDrafts(ctx, profile, recs.Top(drafts), log)
	}

	if auto, _ := cmd.Flags().GetBool("auto-approve"); auto {
		if err := handleAction(PromptReportByCity, s, log, profile, role, recs); err != nil {
			log.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}

		log.Info("current list of recommendations", zap.Int("count", recs.Len()))

		if err := handleAction(action, s, log, profile, role, recs); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			log.Fatal("exiting", zap.Error(err))
		}
	}
}

// rankFor runs the filter pipeline without the skipped steps and ranks what is left.
func (s *session) rankFor(ctx context.Context, profile *needs.Profile, role needs.Role, skip []string, log *zap.Logger) (*ranking.Recommendations, error) {
	all, err := s.source.ListNeeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing needs: %w", err)
	}
	log.Info("getting needs", zap.Int("count", all.Len()))

	steps, err := pipeline(skip)
	if err != nil {
		return nil, err
	}

	deps := filtering.Deps{Logger: log, Calculator: s.engine.Calculator(), Profile: profile}
	filtered, err := filtering.Run(ctx, s.config.Filter, deps, steps, all)
	if err != nil {
		return nil, fmt.Errorf("filtering: %w", err)
	}

	for _, status := range filtering.Describe(steps) {
		log.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	if !completeness.IsComplete(profile, role) {
		log.Info("profile is incomplete, recommendations may be less relevant",
			zap.Strings("suggestions", completeness.Suggestions(profile, role)),
		)
	}

	return ranking.NewRanker(s.engine, log).Rank(filtered.Items, profile, role), nil
}

// pipeline returns the default filter steps with the named ones disabled.
func pipeline(skip []string) ([]filtering.Filter, error) {
	steps := filtering.Default()
	for _, name := range skip {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !slices.ContainsFunc(steps, func(f filtering.Filter) bool { return f.Name() == name }) {
			return nil, fmt.Errorf("unknown filter %q", name)
		}
		filtering.DisableByName(steps, name, "skipped by --skip-filter")
	}
	return steps, nil
}

func (s *session) attachDrafts(ctx context.Context, profile *needs.Profile, recs *ranking.Recommendations, log *zap.Logger) {
	narrator, err := newNarrator(ctx, s.config.AI, log)
	if err != nil {
		log.Warn("skipping outreach drafts", zap.Error(err))
		return
	}
	drafted := ai.AttachDrafts(ctx, narrator, profile, recs, log)
	log.Info("outreach drafts ready", zap.Int("count", drafted))
}

func handleAction(action string, s *session, log *zap.Logger, profile *needs.Profile, role needs.Role, recs *ranking.Recommendations) error {
	switch action {
	case PromptExit:
		log.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptReportByCity:
		pretty, _ := json.MarshalIndent(recs.ReportByCity(), "", "  ")
		log.Info(string(pretty), zap.Int("recommendations count", recs.Len()))
		return nil
	case PromptRecommendationsList:
		log.Info("recommendations\n" + recs.String())
		return nil
	case PromptToFile:
		filename, err := recs.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		log.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return excludeNeeds(s, log, recs)
	case PromptSuggestions:
		log.Info("profile completeness",
			zap.Bool("complete", completeness.IsComplete(profile, role)),
			zap.Strings("suggestions", completeness.Suggestions(profile, role)),
		)
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// excludeNeeds lets the user pick needs to append to the exclude file, removing them from recs.
func excludeNeeds(s *session, log *zap.Logger, recs *ranking.Recommendations) error {
	excludeFile := strings.TrimSpace(s.config.Filter.ExcludeFile)
	if excludeFile == "" {
		log.Warn("exclude file is not configured", zap.String("hint", "set filter.exclude-file in the config"))
		return nil
	}

	for {
		items := make([]string, 0, recs.Len()+1)
		for _, rec := range recs.Items {
			items = append(items, fmt.Sprintf("%s %s / %s", rec.Need.ID, rec.Need.Title, rec.Need.ShelterCity))
		}

		needPrompt := promptui.Select{
			Label: "Choose a need to exclude and press ENTER",
			Items: append(items, PromptBack),
		}

		_, selected, err := needPrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		needID := strings.Split(selected, " ")[0]
		need := recs.Needs().FindByID(needID)
		if need == nil {
			return fmt.Errorf("there is no such need id %s", needID)
		}

		excluded, err := needs.GetExcludedNeedsFromFile(excludeFile)
		if err != nil {
			return err
		}
		excluded.Append((&needs.Needs{Items: []*needs.Need{need}}).ToExcluded("dismissed"))
		if err := excluded.ToFile(excludeFile); err != nil {
			return err
		}

		log.Info("appended to exclude file",
			zap.String("filename", excludeFile),
			zap.String(logger.FieldNeedID, needID),
		)

		recs.Items = deleteNeed(recs.Items, needID)
		if recs.Len() == 0 {
			return nil
		}
	}
}

func deleteNeed(items []*ranking.Recommendation, id string) []*ranking.Recommendation {
	out := items[:0]
	for _, rec := range items {
		if rec.Need.ID != id {
			out = append(out, rec)
		}
	}
	return out
}
