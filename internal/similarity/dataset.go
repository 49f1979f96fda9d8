package similarity

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ideascope/internal/vectorindex"
)

// Dataset is the static reference dataset of companies, parsed once per
// process behind a lock-guarded lazy cache. A missing or unreadable file
// is not an error: the dataset is simply empty and retrieval degrades.
type Dataset struct {
	path string
	log  *zap.Logger

	once    sync.Once
	records []vectorindex.Record
}

func NewDataset(path string, log *zap.Logger) *Dataset {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dataset{path: path, log: log}
}

// Records returns the parsed reference records, loading the file on first
// call. Invalidated only by process restart.
func (d *Dataset) Records() []vectorindex.Record {
	d.once.Do(func() {
		records, err := d.load()
		if err != nil {
			d.log.Warn("reference dataset unavailable", zap.String("path", d.path), zap.Error(err))
			return
		}
		d.records = records
		d.log.Info("reference dataset loaded", zap.String("path", d.path), zap.Int("records", len(records)))
	})
	return d.records
}

func (d *Dataset) load() ([]vectorindex.Record, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[cleanCell(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	var records []vectorindex.Record
	for _, row := range rows[1:] {
		get := func(keys ...string) string {
			for _, key := range keys {
				if i, ok := header[key]; ok && i < len(row) && row[i] != "" {
					return cleanCell(row[i])
				}
			}
			return ""
		}

		company := get("Company")
		if company == "" {
			continue
		}
		industry := get("Industry")
		if industry == "" {
			industry = "technology"
		}
		country := get("Country")
		city := get("City")
		joined := get("Date Joined")
		investors := get("Investors")
		valuation, hasValuation := parseValuation(get("Valuation ($B)", "Valuation"))

		pitch := buildPitch(company, industry, country, city, joined, investors, valuation, hasValuation)
		payload := map[string]any{
			"company":     company,
			"industry":    industry,
			"country":     country,
			"city":        city,
			"date_joined": joined,
			"investors":   investors,
			"status":      "unicorn",
			"pitch":       pitch,
		}
		if hasValuation {
			payload["valuation_billion"] = valuation
		}

		records = append(records, vectorindex.Record{
			ID:      recordID(company, country, joined),
			Text:    pitch,
			Payload: payload,
		})
	}
	return records, nil
}

// recordID derives a stable point ID from the identifying fields, so
// re-ingesting the same logical company overwrites instead of duplicating.
func recordID(company, country, joined string) string {
	base := strings.ToLower(fmt.Sprintf("%s-%s-%s", company, country, joined))
	return uuid.NewMD5(uuid.NameSpaceOID, []byte(base)).String()
}

func buildPitch(company, industry, country, city, joined, investors string, valuation float64, hasValuation bool) string {
	var parts []string

	location := city
	if country != "" {
		if location != "" {
			location += ", " + country
		} else {
			location = country
		}
	}
	descriptor := fmt.Sprintf("%s operates in the %s space", company, industry)
	if location != "" {
		descriptor += " out of " + location
	}
	parts = append(parts, descriptor+".")

	if joined != "" {
		parts = append(parts, fmt.Sprintf("It reached unicorn status on %s.", joined))
	}
	if hasValuation {
		parts = append(parts, fmt.Sprintf("Latest reported valuation: $%.1fB.", valuation))
	}
	if investors != "" {
		parts = append(parts, fmt.Sprintf("Backed by %s.", investors))
	}
	return strings.Join(parts, " ")
}

func parseValuation(raw string) (float64, bool) {
	cleaned := strings.NewReplacer("$", "", "B", "", "b", "", ",", "").Replace(raw)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func cleanCell(value string) string {
	return strings.TrimSpace(strings.ReplaceAll(value, "\u00a0", " "))
}
