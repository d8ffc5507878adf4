// Package ai holds the optional language-model helpers. None of them affect scores or ordering.
package ai

import (
	"context"

	"go.uber.org/zap"

	"github.com/karune-connect/matcher/internal/logger"
	"github.com/karune-connect/matcher/internal/needs"
	"github.com/karune-connect/matcher/internal/ranking"
	"github.com/karune-connect/matcher/internal/scoring"
)

// Narrator writes a short outreach note for a scored match.
type Narrator interface {
	Draft(ctx context.Context, profile *needs.Profile, need *needs.Need, result *scoring.Result) (string, error)
}

// AttachDrafts asks the narrator for a note on each scored recommendation.
// Failures are logged and the note is left empty.
func AttachDrafts(ctx context.Context, narrator Narrator, profile *needs.Profile, recs *ranking.Recommendations, log *zap.Logger) int {
	log = logger.WithFields(log)
	if narrator == nil || profile == nil {
		return 0
	}

	drafted := 0
	for _, rec := range recs.Items {
		if rec.Result == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			log.Warn("drafting interrupted", zap.Error(err))
			return drafted
		}

		draft, err := narrator.Draft(ctx, profile, rec.Need, rec.Result)
		if err != nil {
			log.Warn("outreach draft failed",
				zap.String(logger.FieldNeedID, rec.Need.ID),
				zap.Error(err),
			)
			continue
		}

		rec.Draft = draft
		drafted++
	}

	return drafted
}
