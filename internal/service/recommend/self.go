package recommend

import (
	"github.com/octobees/presence-audit/internal/entity"
	"github.com/octobees/presence-audit/internal/service/scoring"
)

// SelfAudit turns unchecked checklist items and weak ranges into actions.
func SelfAudit(c entity.Checklist, a entity.SelfAuditInputs) []entity.Recommendation {
	var items []entity.Recommendation

	missing := []struct {
		ok    bool
		title string
		why   string
	}{
		{c.HasHours, "Add your business hours", "Listings without hours lose searches filtered by \"open now\"."},
		{c.HasPhone, "Add a phone number", "Customers cannot call you directly from search results."},
		{c.HasWebsite, "Link your website", "A website link is one of the strongest trust and ranking signals."},
	}
	for _, m := range missing {
		if !m.ok {
			items = append(items, newItem(entity.PriorityCritical, entity.CategoryProfileCompleteness,
				m.title, m.why, "Higher visibility and more direct actions",
				"Open your business profile dashboard and choose Edit profile.",
				"Fill in the missing field and save."))
		}
	}

	if a.PhotoCountRange == "" || a.PhotoCountRange == scoring.PhotosUnder10 {
		items = append(items, newItem(entity.PriorityCritical, entity.CategoryVisualAssets,
			"Upload more photos",
			"Listings with fewer than 10 photos get noticeably fewer clicks.",
			"Higher engagement on the listing",
			"Upload exterior, interior and team photos.",
			"Plan to add new photos every month."))
	}

	switch a.ReviewCountRange {
	case "", scoring.ReviewsUnder10, scoring.Reviews10To24:
		items = append(items, newItem(entity.PriorityImportant, entity.CategoryReviewPerformance,
			"Grow your review count",
			"A small review count makes first-time customers hesitate.",
			"Stronger ranking and more trust",
			"Create a short review link and share it after every visit.",
			"Reply to every review within a few days."))
	}
	switch a.RatingRange {
	case scoring.RatingBelow4, scoring.Rating40To42:
		items = append(items, newItem(entity.PriorityImportant, entity.CategoryReviewPerformance,
			"Lift your average rating",
			"Ratings under 4.3 fall below what most customers filter for.",
			"More customers choosing you from the results list",
			"Respond publicly and calmly to negative reviews.",
			"Ask happy customers for reviews consistently."))
	}

	if !c.NameConsistent || !c.AddressConsistent || !c.PhoneConsistent {
		items = append(items, newItem(entity.PriorityImportant, entity.CategoryCitations,
			"Fix name, address and phone consistency",
			"Conflicting details across the web weaken local ranking.",
			"Removes conflicting signals",
			"Make sure your website shows the exact name, address and phone of the listing.",
			"Update the major directories to the same details."))
	}
	if !c.ListedInDirectories {
		items = append(items, newItem(entity.PrioritySuggested, entity.CategoryCitations,
			"List your business in major directories",
			"Directory citations confirm your details to search engines.",
			"More trusted citations",
			"Claim your listings on the main local directories for your country.",
			"Use identical name, address and phone everywhere."))
	}

	if a.PostFrequency != scoring.PostWeekly || !c.PostedLast30Days {
		items = append(items, newItem(entity.PrioritySuggested, entity.CategoryPostingActivity,
			"Post updates every week",
			"Regular posts signal an active business.",
			"Fresher activity signals",
			"Publish an offer, event or news post each week."))
	}
	if !c.HasDescription || !c.HasServices {
		items = append(items, newItem(entity.PrioritySuggested, entity.CategoryProfileCompleteness,
			"Describe your business and services",
			"A description and service list help the listing match more searches.",
			"Better keyword relevance",
			"Write 250 or more characters describing what you do and where.",
			"Add each service you offer to the profile."))
	}
	if !c.HasPrimaryCategory || !c.HasSecondaryCategories {
		items = append(items, newItem(entity.PrioritySuggested, entity.CategoryProfileCompleteness,
			"Add secondary categories",
			"Additional categories let the listing appear for more related searches.",
			"Broader search coverage",
			"Pick the most specific primary category, then add accurate secondary ones."))
	}

	items = append(items, newItem(entity.PriorityImportant, "",
		ConsultTitle,
		"A specialist can turn this checklist into a prioritised plan for your market.",
		"A clear roadmap for the next 90 days",
		"Choose a time that suits you.",
		"Bring this report to the call."))

	return Finalize(items, MaxStandardItems)
}
