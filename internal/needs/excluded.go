package needs

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

// ExcludedNeeds is the on-disk list of needs a supporter dismissed or already helped with.
type ExcludedNeeds struct {
	Items []*ExcludedNeed
}

type ExcludedNeed struct {
	ID          string
	Title       string
	ShelterCity string
	Reason      string `json:",omitempty"`
	ExcludedAt  time.Time
}

// ToExcluded converts the collection to exclude-file entries.
func (n *Needs) ToExcluded(reason string) *ExcludedNeeds {
	excluded := &ExcludedNeeds{}
	for _, need := range n.Items {
		excluded.Items = append(excluded.Items, &ExcludedNeed{
			ID:          need.ID,
			Title:       need.Title,
			ShelterCity: need.ShelterCity,
			Reason:      reason,
			ExcludedAt:  time.Now().UTC(),
		})
	}
	return excluded
}

// GetExcludedNeedsFromFile reads an exclude file. A missing or empty file yields an empty list.
func GetExcludedNeedsFromFile(path string) (*ExcludedNeeds, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedNeeds{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedNeeds{}, nil
	}

	var excluded ExcludedNeeds
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedNeeds) Append(s *ExcludedNeeds) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedNeeds) NeedIDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, need := range e.Items {
		ids = append(ids, need.ID)
	}
	return ids
}

func (e *ExcludedNeeds) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
