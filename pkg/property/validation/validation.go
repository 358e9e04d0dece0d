// Package validation attaches wwPDB validation summaries to models as a
// custom property. The compute fetches the entry object from the RCSB
// data service and keeps the validation block: clashscore and the
// percent outlier classes.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qqdb/molstar/pkg/ports"
	"github.com/qqdb/molstar/pkg/property"
	"github.com/qqdb/molstar/pkg/registry"
	"github.com/qqdb/molstar/pkg/structure"
	"github.com/qqdb/molstar/pkg/task"
)

// DefaultBaseURL serves the public RCSB entry objects.
const DefaultBaseURL = "https://data.rcsb.org/rest/v1/core/entry"

// Descriptor identifies the property in registries and entity bags.
var Descriptor = property.Descriptor{
	Name:        "rcsb-validation-report",
	DisplayName: "Validation Report",
}

// GeometryQualityTheme colors models by their validation tier. The
// validation report behavior registers it together with the provider.
var GeometryQualityTheme = registry.Theme{
	Name:        "geometry-quality",
	Category:    "color",
	Description: "Colors models by validation issue tier.",
}

// Report summarizes the wwPDB validation data for one entry. The
// outlier fields are percentages in 0..100 as reported by the service.
type Report struct {
	Clashscore           float64
	RamachandranOutliers float64
	RotamerOutliers      float64
	RSRZOutliers         float64
}

// Quality is a coarse tier derived from a report, coarse enough to map
// onto the three colors of the geometry-quality theme.
type Quality int

const (
	QualityGood Quality = iota
	QualityFair
	QualityPoor
)

func (q Quality) String() string {
	switch q {
	case QualityGood:
		return "good"
	case QualityFair:
		return "fair"
	case QualityPoor:
		return "poor"
	default:
		return fmt.Sprintf("quality(%d)", int(q))
	}
}

// GeometryQuality buckets the report. A clashscore above 10 and each
// outlier class above one percent cost one tier step.
func (r Report) GeometryQuality() Quality {
	issues := 0
	if r.Clashscore > 10 {
		issues++
	}
	if r.RamachandranOutliers > 1 {
		issues++
	}
	if r.RotamerOutliers > 1 {
		issues++
	}
	if r.RSRZOutliers > 1 {
		issues++
	}
	switch issues {
	case 0:
		return QualityGood
	case 1:
		return QualityFair
	default:
		return QualityPoor
	}
}

// Provider computes validation reports for models.
type Provider = property.Provider[*structure.Model, Report]

// Option adjusts how the provider queries the data service.
type Option func(*config)

type config struct {
	baseURL string
}

// WithBaseURL points the provider at a different data service.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = strings.TrimRight(url, "/") }
}

// New builds the provider over the given fetcher.
func New(fetcher ports.Fetcher, opts ...Option) *Provider {
	cfg := config{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(&cfg)
	}

	return property.NewProvider(Descriptor, func(rt *task.Runtime, m *structure.Model) (Report, error) {
		entry := strings.ToLower(m.Entry)
		if entry == "" {
			return Report{}, fmt.Errorf("model %q has no source entry", m.Label)
		}

		if err := rt.Checkpoint("fetching validation report"); err != nil {
			return Report{}, err
		}
		url := fmt.Sprintf("%s/%s", cfg.baseURL, entry)
		body, err := fetcher.Fetch(rt.Context(), url)
		if err != nil {
			return Report{}, fmt.Errorf("fetch validation report: %w", err)
		}

		var env struct {
			Summary *struct {
				Clashscore           float64 `json:"clashscore"`
				RamachandranOutliers float64 `json:"percent_ramachandran_outliers"`
				RotamerOutliers      float64 `json:"percent_rotamer_outliers"`
				RSRZOutliers         float64 `json:"percent_RSRZ_outliers"`
			} `json:"pdbx_vrpt_summary"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return Report{}, fmt.Errorf("decode validation report: %w", err)
		}
		if env.Summary == nil {
			return Report{}, fmt.Errorf("entry %q has no validation summary", entry)
		}
		return Report{
			Clashscore:           env.Summary.Clashscore,
			RamachandranOutliers: env.Summary.RamachandranOutliers,
			RotamerOutliers:      env.Summary.RotamerOutliers,
			RSRZOutliers:         env.Summary.RSRZOutliers,
		}, nil
	})
}
