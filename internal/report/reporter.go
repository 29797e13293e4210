// Package report renders analysis results for terminals.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/octobees/presence-audit/internal/entity"
)

// TableConfig sets the column widths of the score table.
type TableConfig struct {
	LabelWidth int
	ScoreWidth int
	BarWidth   int
}

// DefaultTableConfig suits an 80 column terminal.
func DefaultTableConfig() TableConfig {
	return TableConfig{LabelWidth: 28, ScoreWidth: 9, BarWidth: 30}
}

// Reporter writes results as text or JSON.
type Reporter struct {
	writer io.Writer
	config TableConfig
	tmpl   *template.Template
}

// NewReporter builds a reporter writing to w, or stdout when w is nil.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	r := &Reporter{writer: w, config: DefaultTableConfig()}
	r.tmpl = template.Must(template.New("report").Funcs(r.funcs()).Parse(reportTemplate))
	return r
}

// Handle renders one result as text.
func (r *Reporter) Handle(result *entity.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("no result to report")
	}
	if err := r.tmpl.Execute(r.writer, result); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// JSON writes any value as indented JSON.
func (r *Reporter) JSON(v any) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Predictions lists autocomplete suggestions, one per line.
func (r *Reporter) Predictions(predictions []entity.PlacePrediction) error {
	if len(predictions) == 0 {
		_, err := fmt.Fprintln(r.writer, "No matching businesses.")
		return err
	}
	for i, p := range predictions {
		if _, err := fmt.Fprintf(r.writer, "%2d. %s\n    place_id: %s\n", i+1, p.Description, p.PlaceID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) funcs() template.FuncMap {
	return template.FuncMap{
		"scoreRow": func(s entity.CategoryScore) string {
			filled := 0
			if s.Max > 0 {
				filled = r.config.BarWidth * s.Score / s.Max
			}
			filled = min(max(filled, 0), r.config.BarWidth)
			return fmt.Sprintf("%-*s %*s  %s%s",
				r.config.LabelWidth, s.Label,
				r.config.ScoreWidth, fmt.Sprintf("%d/%d", s.Score, s.Max),
				strings.Repeat("#", filled),
				strings.Repeat(".", r.config.BarWidth-filled))
		},
		"separator": func() string {
			return strings.Repeat("-", r.config.LabelWidth+r.config.ScoreWidth+r.config.BarWidth+3)
		},
		"upper": func(p entity.Priority) string {
			return strings.ToUpper(string(p))
		},
		"signed": func(v float64) string {
			return fmt.Sprintf("%+.1f", v)
		},
		"inc": func(i int) int { return i + 1 },
	}
}

const reportTemplate = `{{.BusinessName}} ({{.Tier}} audit)
Generated: {{.GeneratedAt.Format "2006-01-02 15:04"}}
Overall:   {{.OverallScore}}/100  Grade {{.Grade}}

{{separator}}
{{range .Scores}}{{scoreRow .}}
{{end}}{{separator}}
{{with .Benchmarks}}
Benchmarks vs {{.CompetitorCount}} competitors
  Rating:   median {{printf "%.1f" .Medians.Rating}}, gap {{signed .Gaps.Rating}}, rank {{.Rank.Rating}}
  Reviews:  median {{printf "%.0f" .Medians.ReviewCount}}, gap {{signed .Gaps.ReviewCount}}, rank {{.Rank.ReviewCount}}
  Photos:   median {{printf "%.0f" .Medians.PhotoCount}}, gap {{signed .Gaps.PhotoCount}}, rank {{.Rank.PhotoCount}}
{{end}}{{with .NAP}}
Website consistency ({{.Website}}): phone {{.PhoneFound}}, address {{.AddressFound}}
{{end}}{{if .Recommendations}}
Action plan
{{range $i, $r := .Recommendations}}{{inc $i}}. [{{upper $r.Priority}}] {{$r.Title}}{{with $r.ImpactPercent}} (+{{.}}%){{end}}
   {{$r.Rationale}}
{{range $r.Steps}}   - {{.}}
{{end}}{{end}}{{end}}{{if .Notes}}
Notes
{{range .Notes}}  * {{.}}
{{end}}{{end}}{{with .Quota}}
Lookups today: {{.UsedToday}}/{{.DailyLimit}}
{{end}}`
