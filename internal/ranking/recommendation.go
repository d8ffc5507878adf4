package ranking

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/karune-connect/matcher/internal/needs"
	"github.com/karune-connect/matcher/internal/scoring"
)

// Recommendation pairs a need with its score. Result is nil for unscored needs.
type Recommendation struct {
	Need   *needs.Need     `json:"need"`
	Result *scoring.Result `json:"result,omitempty"`
	// Draft is an optional outreach note. It never affects ordering.
	Draft string `json:"draft,omitempty"`
}

// Score returns the match score, or zero when unscored.
func (r *Recommendation) Score() int {
	if r.Result == nil {
		return 0
	}
	return r.Result.Score
}

// DistanceKm returns the resolved distance, or nil when unknown or unscored.
func (r *Recommendation) DistanceKm() *float64 {
	if r.Result == nil {
		return nil
	}
	return r.Result.DistanceKm
}

// ReasonTexts renders the reasons in evaluation order.
func (r *Recommendation) ReasonTexts() []string {
	if r.Result == nil {
		return nil
	}
	return scoring.Texts(r.Result.Reasons)
}

func (r *Recommendation) sortDistance() float64 {
	if d := r.DistanceKm(); d != nil {
		return *d
	}
	return UnknownDistanceKm
}

type Recommendations struct {
	Items []*Recommendation `json:"items"`
}

func (r *Recommendations) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

// Top returns the first n recommendations. n <= 0 returns all of them.
func (r *Recommendations) Top(n int) *Recommendations {
	if n <= 0 || n > r.Len() {
		n = r.Len()
	}
	return &Recommendations{Items: r.Items[:n:n]}
}

// Needs returns the recommended needs in ranked order.
func (r *Recommendations) Needs() *needs.Needs {
	items := make([]*needs.Need, 0, r.Len())
	for _, rec := range r.Items {
		items = append(items, rec.Need)
	}
	return &needs.Needs{Items: items}
}

func (r *Recommendations) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "recommendations_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByCity groups recommendations by shelter city, keeping ranked order inside each city.
func (r *Recommendations) ReportByCity() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, rec := range r.Items {
		key := rec.Need.ShelterCity
		if key == "" {
			key = "unknown"
		}

		score, distance := "-", "unknown"
		if rec.Result != nil {
			score = strconv.Itoa(rec.Result.Score)
		}
		if d := rec.DistanceKm(); d != nil {
			distance = strconv.FormatFloat(*d, 'f', -1, 64) + "km"
		}

		entry := map[string]string{
			"id":       rec.Need.ID,
			"title":    rec.Need.Title,
			"category": rec.Need.Category,
			"urgency":  string(rec.Need.Urgency),
			"score":    score,
			"distance": distance,
			"reasons":  strings.Join(rec.ReasonTexts(), "; "),
		}
		if rec.Draft != "" {
			entry["draft"] = rec.Draft
		}
		report[key] = append(report[key], entry)
	}
	return report
}

func (r *Recommendations) String() string {
	var b strings.Builder
	for i, rec := range r.Items {
		fmt.Fprintf(&b, "%d. [%s] %s (%s)", i+1, rec.Need.ID, rec.Need.Title, rec.Need.ShelterCity)
		if rec.Result != nil {
			fmt.Fprintf(&b, " score=%d", rec.Result.Score)
		}
		b.WriteString("\n")
	}
	return b.String()
}
