package dto

import "github.com/octobees/presence-audit/internal/entity"

// SelfAuditRequest is the payload of POST /audits/self.
type SelfAuditRequest struct {
	Checklist entity.Checklist       `json:"checklist"`
	Inputs    entity.SelfAuditInputs `json:"inputs"`
}

// StandardAuditRequest is the payload of POST /audits/standard. Exactly one
// of the three references is normally set; place_id wins, then maps_url.
type StandardAuditRequest struct {
	PlaceID string `json:"place_id,omitempty"`
	MapsURL string `json:"maps_url,omitempty"`
	Query   string `json:"query,omitempty"`
}

// ProAuditRequest is the payload of POST /audits/pro. RadiusMiles takes
// precedence over RadiusMeters when both are given.
type ProAuditRequest struct {
	BusinessName string  `json:"business_name"`
	Location     string  `json:"location"`
	PlaceID      string  `json:"place_id,omitempty"`
	RadiusMiles  float64 `json:"radius_miles,omitempty"`
	RadiusMeters float64 `json:"radius_meters,omitempty"`
	LiteScore    *int    `json:"lite_score,omitempty"`
}
