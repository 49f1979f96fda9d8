package category

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"ideascope/internal/vectorindex"
)

// Profile is one market category prepared for vector comparison: a stable
// name, a description synthesized from the keyword and weight tables, and
// the payload stored with its embedding. Profiles are immutable and fully
// re-derivable from the static tables; the vector store copy is a cache.
type Profile struct {
	Name        string
	Description string
	Payload     map[string]any
}

// BuildProfiles derives one profile per category, in priority order. The
// derivation is deterministic: same tables, same profiles.
func BuildProfiles() []Profile {
	profiles := make([]Profile, 0, len(Priority))
	for _, name := range Priority {
		readable := humanName(name)
		description := strings.TrimSpace(fmt.Sprintf(
			"%s startups share similar go-to-market patterns. %s %s",
			readable, keywordsSentence(name), weightsSentence(name),
		))
		keywords := make([]string, 0, len(Keywords[name]))
		for _, kw := range Keywords[name] {
			keywords = append(keywords, kw.Word)
		}
		profiles = append(profiles, Profile{
			Name:        name,
			Description: description,
			Payload: map[string]any{
				"category":     name,
				"display_name": readable,
				"weights":      WeightsFor(name),
				"keywords":     keywords,
			},
		})
	}
	return profiles
}

// ProfileRecords converts the profiles into sync records keyed by a
// name-derived UUID, stable across re-ingestions.
func ProfileRecords() []vectorindex.Record {
	profiles := BuildProfiles()
	records := make([]vectorindex.Record, len(profiles))
	for i, p := range profiles {
		records[i] = vectorindex.Record{
			ID:      uuid.NewSHA1(uuid.NameSpaceDNS, []byte(p.Name)).String(),
			Text:    p.Description,
			Payload: p.Payload,
		}
	}
	return records
}

func humanName(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func keywordsSentence(name string) string {
	keywords := Keywords[name]
	if len(keywords) == 0 {
		return ""
	}
	limit := 8
	if len(keywords) < limit {
		limit = len(keywords)
	}
	words := make([]string, limit)
	for i := 0; i < limit; i++ {
		words[i] = keywords[i].Word
	}
	return fmt.Sprintf("Common signals: %s.", strings.Join(words, ", "))
}

func weightsSentence(name string) string {
	weights := WeightsFor(name)
	labels := make([]string, 0, len(weights))
	for label := range weights {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if weights[labels[i]] != weights[labels[j]] {
			return weights[labels[i]] > weights[labels[j]]
		}
		return labels[i] < labels[j]
	})
	pieces := make([]string, len(labels))
	for i, label := range labels {
		pieces[i] = fmt.Sprintf("%s (%.0f%%)", strings.ReplaceAll(label, "_", " "), weights[label]*100)
	}
	return "Focus areas: " + strings.Join(pieces, ", ")
}
