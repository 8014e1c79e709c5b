package profile

import (
	"fmt"
	"sort"
	"strings"
)

// Store holds the cleaned founder and investor records for one process run.
// It is read-only after construction, so concurrent matching tasks may share it
// without locking.
type Store struct {
	founders  []*Founder
	investors []*Investor

	foundersByID map[string]*Founder
}

func NewStore(founders []*Founder, investors []*Investor) *Store {
	byID := make(map[string]*Founder, len(founders))
	for _, f := range founders {
		byID[f.StartupID] = f
	}

	return &Store{
		founders:     founders,
		investors:    investors,
		foundersByID: byID,
	}
}

// FindFounder returns the founder with the given startup id, or nil when absent.
func (s *Store) FindFounder(id string) *Founder {
	return s.foundersByID[id]
}

// Investors returns the investor snapshot. Callers must not mutate the records.
func (s *Store) Investors() []*Investor {
	return s.investors
}

func (s *Store) FoundersEmpty() bool {
	return len(s.founders) == 0
}

func (s *Store) InvestorsEmpty() bool {
	return len(s.investors) == 0
}

// FounderOption pairs a founder id with a human-readable selection label.
type FounderOption struct {
	ID    string
	Label string
}

// FounderOptions returns selection entries for every founder with a usable id,
// sorted by label. Founders without a display name are labeled by id alone.
func (s *Store) FounderOptions() []FounderOption {
	options := make([]FounderOption, 0, len(s.founders))

	for _, f := range s.founders {
		id := strings.TrimSpace(f.StartupID)
		if id == "" {
			continue
		}

		name := strings.TrimSpace(f.Name)
		if name == "" {
			name = fmt.Sprintf("Founder %s", id)
		}

		options = append(options, FounderOption{
			ID:    id,
			Label: fmt.Sprintf("%s (%s)", name, id),
		})
	}

	sort.Slice(options, func(i, j int) bool {
		return options[i].Label < options[j].Label
	})

	return options
}
