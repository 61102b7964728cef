package enrollment

import (
	"maps"
	"regexp"
	"strings"

	"openhackathon/internal/model"
)

// LinkBucket collects every extension answer that looks like a URL.
const LinkBucket = "_"

var (
	linkPattern   = regexp.MustCompile(`https?://`)
	wordSeparator = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// Statistic is derived from the loaded enrollments and never persisted.
type Statistic struct {
	Status     map[string]int            `json:"status,omitempty"`
	CreatedAt  map[string]int            `json:"createdAt,omitempty"`
	City       map[string]int            `json:"city,omitempty"`
	Extensions map[string]map[string]int `json:"extensions,omitempty"`
}

// Clone deep-copies s so callers cannot touch the model's snapshot.
func (s Statistic) Clone() Statistic {
	clone := Statistic{
		Status:    maps.Clone(s.Status),
		CreatedAt: maps.Clone(s.CreatedAt),
		City:      maps.Clone(s.City),
	}
	if s.Extensions != nil {
		clone.Extensions = make(map[string]map[string]int, len(s.Extensions))
		for question, answers := range s.Extensions {
			clone.Extensions[question] = maps.Clone(answers)
		}
	}
	return clone
}

// Aggregate derives the creation-date, city and extension histograms of items.
// The status histogram is left to the caller.
func Aggregate(items []model.Enrollment) Statistic {
	statistic := Statistic{
		CreatedAt:  make(map[string]int),
		City:       make(map[string]int),
		Extensions: make(map[string]map[string]int),
	}

	for _, item := range items {
		for _, extension := range item.Extensions {
			answers, ok := statistic.Extensions[extension.Name]
			if !ok {
				answers = make(map[string]int)
				statistic.Extensions[extension.Name] = answers
			}
			for _, answer := range splitAnswer(extension.Value) {
				answers[answer]++
			}
		}

		if day := item.CreatedAt.Date(); day != "" {
			statistic.CreatedAt[day]++
		}

		if city := cityKey(item.User.City); city != "" {
			statistic.City[city]++
		}
	}
	return statistic
}

// splitAnswer turns one form answer into the buckets it counts towards.
func splitAnswer(value string) []string {
	if linkPattern.MatchString(value) {
		return []string{LinkBucket}
	}
	return strings.Split(value, ",")
}

// cityKey is the first word of city, or "" when city does not start with one.
func cityKey(city string) string {
	return wordSeparator.Split(city, 2)[0]
}
