package entity

// Checklist holds the yes/no answers of the self-audit.
type Checklist struct {
	HasHours               bool `json:"has_hours" mapstructure:"has_hours"`
	HasPhone               bool `json:"has_phone" mapstructure:"has_phone"`
	HasWebsite             bool `json:"has_website" mapstructure:"has_website"`
	HasDescription         bool `json:"has_description" mapstructure:"has_description"`
	HasServices            bool `json:"has_services" mapstructure:"has_services"`
	HasPrimaryCategory     bool `json:"has_primary_category" mapstructure:"has_primary_category"`
	HasSecondaryCategories bool `json:"has_secondary_categories" mapstructure:"has_secondary_categories"`
	PostedLast30Days       bool `json:"posted_last_30_days" mapstructure:"posted_last_30_days"`
	NameConsistent         bool `json:"name_consistent" mapstructure:"name_consistent"`
	AddressConsistent      bool `json:"address_consistent" mapstructure:"address_consistent"`
	PhoneConsistent        bool `json:"phone_consistent" mapstructure:"phone_consistent"`
	ListedInDirectories    bool `json:"listed_in_directories" mapstructure:"listed_in_directories"`
}

// SelfAuditInputs holds the range selections of the self-audit.
type SelfAuditInputs struct {
	BusinessName     string `json:"business_name" mapstructure:"business_name"`
	PhotoCountRange  string `json:"photo_count_range" mapstructure:"photo_count_range"`
	ReviewCountRange string `json:"review_count_range" mapstructure:"review_count_range"`
	RatingRange      string `json:"rating_range" mapstructure:"rating_range"`
	PostFrequency    string `json:"post_frequency" mapstructure:"post_frequency"`
}
