package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Tier identifies the audit mode that produced a result.
type Tier string

const (
	TierSelf     Tier = "self"
	TierStandard Tier = "standard"
	TierPro      Tier = "pro"
)

// Category tags, in the order they appear in a result.
type Category string

const (
	CategoryProfileCompleteness Category = "profile_completeness"
	CategoryVisualAssets        Category = "visual_assets"
	CategoryReviewPerformance   Category = "review_performance"
	CategoryLocalSEO            Category = "local_seo"
	CategoryPostingActivity     Category = "posting_activity"
	CategoryCompetitorGap       Category = "competitor_gap"
	CategoryCitations           Category = "citations"
)

// CategoryScore is one entry of the fixed five-category breakdown.
type CategoryScore struct {
	Category Category `json:"category"`
	Score    int      `json:"score"`
	Max      int      `json:"max"`
	Label    string   `json:"label"`
}

// MetricTriple holds one value per benchmarked metric.
type MetricTriple struct {
	Rating      float64 `json:"rating"`
	ReviewCount float64 `json:"review_count"`
	PhotoCount  float64 `json:"photo_count"`
}

// RankTriple holds 1-based ranks per metric, 1 being best.
type RankTriple struct {
	Rating      int `json:"rating"`
	ReviewCount int `json:"review_count"`
	PhotoCount  int `json:"photo_count"`
}

// Benchmark compares the subject against the competitor set.
type Benchmark struct {
	CompetitorCount int          `json:"competitor_count"`
	Medians         MetricTriple `json:"medians"`
	Rank            RankTriple   `json:"rank"`
	Gaps            MetricTriple `json:"gaps"`
}

// Priority orders recommendations; lower Rank comes first.
type Priority string

const (
	PriorityCritical    Priority = "critical"
	PriorityImportant   Priority = "important"
	PrioritySuggested   Priority = "suggested"
	PriorityRecommended Priority = "recommended"
)

// Rank returns the sort position of the priority.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityImportant:
		return 1
	default:
		return 2
	}
}

// Recommendation is a titled, prioritized remediation with ordered steps.
type Recommendation struct {
	ID             string   `json:"id"`
	Priority       Priority `json:"priority"`
	Category       Category `json:"category,omitempty"`
	Title          string   `json:"title"`
	Rationale      string   `json:"rationale"`
	ExpectedImpact string   `json:"expected_impact"`
	Steps          []string `json:"steps"`
	ImpactPercent  *int     `json:"impact_percent,omitempty"`
}

// QuotaState is the persisted per-caller daily counter.
type QuotaState struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// QuotaUsage is the read-only snapshot attached to results.
type QuotaUsage struct {
	UsedToday  int `json:"used_today"`
	DailyLimit int `json:"daily_limit"`
}

// Tristate distinguishes "could not verify" from a verified true or false.
type Tristate int8

const (
	Unknown Tristate = iota
	True
	False
)

// TristateOf converts a verified boolean.
func TristateOf(v bool) Tristate {
	if v {
		return True
	}
	return False
}

func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// MarshalJSON renders true, false or "unknown".
func (t Tristate) MarshalJSON() ([]byte, error) {
	switch t {
	case True:
		return []byte("true"), nil
	case False:
		return []byte("false"), nil
	default:
		return []byte(`"unknown"`), nil
	}
}

// UnmarshalJSON accepts the values produced by MarshalJSON.
func (t *Tristate) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*t = True
	case "false":
		*t = False
	case `"unknown"`, "null":
		*t = Unknown
	default:
		return fmt.Errorf("invalid tristate value %s", data)
	}
	return nil
}

// NAPCheck is the outcome of the best-effort website consistency check.
type NAPCheck struct {
	Website      string   `json:"website"`
	Fetched      bool     `json:"fetched"`
	PhoneFound   Tristate `json:"phone_found"`
	AddressFound Tristate `json:"address_found"`
}

// AnalysisResult is the aggregate returned by every tier. It is built once per
// audit and handed to callers complete; nothing mutates it afterwards.
type AnalysisResult struct {
	ID                string              `json:"id"`
	Tier              Tier                `json:"tier"`
	Subject           *PlaceProfile       `json:"subject,omitempty"`
	BusinessName      string              `json:"business_name"`
	Competitors       []CompetitorProfile `json:"competitors"`
	Benchmarks        *Benchmark          `json:"benchmarks,omitempty"`
	Scores            []CategoryScore     `json:"scores"`
	OverallScore      int                 `json:"overall_score"`
	Grade             string              `json:"grade"`
	Recommendations   []Recommendation    `json:"recommendations"`
	GeneratedAt       time.Time           `json:"generated_at"`
	Notes             []string            `json:"notes"`
	Quota             *QuotaUsage         `json:"quota,omitempty"`
	NAP               *NAPCheck           `json:"nap,omitempty"`
	SelfReportedScore *int                `json:"self_reported_score,omitempty"`
}

// MarshalIndent is a helper for CLI and persistence output.
func (r *AnalysisResult) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// AuditSummary is the listing view of a stored result.
type AuditSummary struct {
	ID           string    `json:"id"`
	Tier         Tier      `json:"tier"`
	BusinessName string    `json:"business_name"`
	OverallScore int       `json:"overall_score"`
	Grade        string    `json:"grade"`
	CreatedAt    time.Time `json:"created_at"`
}
