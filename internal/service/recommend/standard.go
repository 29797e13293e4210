package recommend

import (
	"fmt"
	"time"

	"github.com/octobees/presence-audit/internal/entity"
	"github.com/octobees/presence-audit/internal/service/scoring"
)

// ConsultTitle is the call to action appended to every Standard plan.
const ConsultTitle = "Book a free profile strategy consult"

// Standard evaluates the fixed rule list against the subject and benchmark.
func Standard(p entity.PlaceProfile, b entity.Benchmark, now time.Time) []entity.Recommendation {
	var items []entity.Recommendation

	if !p.HasHours() {
		items = append(items, newItem(entity.PriorityCritical, entity.CategoryProfileCompleteness,
			"Add your business hours",
			"Listings without hours lose searches filtered by \"open now\" and look unmaintained.",
			"More visibility in time-filtered searches",
			"Open your business profile dashboard and choose Edit profile.",
			"Enter regular hours for all seven days, marking closed days explicitly.",
			"Add special hours ahead of holidays.",
		))
	}
	if p.Phone == "" {
		items = append(items, newItem(entity.PriorityCritical, entity.CategoryProfileCompleteness,
			"Add a phone number",
			"Customers cannot call you directly from search results.",
			"Direct calls from the listing",
			"Add a local phone number under Contact in your profile editor.",
			"Use the same number that appears on your website and directories.",
		))
	}
	if p.Website == "" {
		items = append(items, newItem(entity.PriorityCritical, entity.CategoryProfileCompleteness,
			"Link your website",
			"A website link is one of the strongest trust and ranking signals on a listing.",
			"More clicks and stronger local relevance",
			"Add your website URL under Contact in your profile editor.",
			"Make sure the page shows the same name, address and phone as the listing.",
		))
	}

	photos := p.PhotoCount()
	switch {
	case photos < 10:
		items = append(items, newItem(entity.PriorityCritical, entity.CategoryVisualAssets,
			"Upload more photos",
			fmt.Sprintf("You have %d photos; listings with fewer than 10 get noticeably fewer clicks.", photos),
			"Higher engagement on the listing",
			"Upload exterior shots so customers recognise the storefront.",
			"Add interior, team and product or service photos.",
			"Plan to add new photos every month.",
		))
	case b.Gaps.PhotoCount < 0:
		items = append(items, newItem(entity.PriorityImportant, entity.CategoryVisualAssets,
			"Close the photo gap with nearby competitors",
			fmt.Sprintf("Nearby businesses typically show %.0f photos; you show %d.", b.Medians.PhotoCount, photos),
			"Parity with local competitors on visual content",
			"Add photos until you reach the local median.",
			"Prioritise recent, well-lit images of your work.",
		))
	}

	reviews := float64(p.ReviewCount)
	if median := b.Medians.ReviewCount; median > 0 && reviews < median {
		priority := entity.PriorityImportant
		if reviews < median/2 {
			priority = entity.PriorityCritical
		}
		items = append(items, newItem(priority, entity.CategoryReviewPerformance,
			"Grow your review count",
			fmt.Sprintf("Nearby businesses typically have %.0f reviews; you have %d.", median, p.ReviewCount),
			"Stronger ranking and more trust from first-time customers",
			"Create a short review link and share it after every visit.",
			"Add the link to receipts, emails and a counter sign.",
			"Reply to every review within a few days.",
		))
	}

	if p.Rating > 0 && p.Rating < 4.3 {
		items = append(items, newItem(entity.PriorityImportant, entity.CategoryReviewPerformance,
			"Lift your average rating",
			fmt.Sprintf("Your %.1f rating sits below the 4.3 that most customers filter for.", p.Rating),
			"More customers choosing you from the results list",
			"Respond publicly and calmly to negative reviews.",
			"Fix the recurring issues those reviews mention.",
			"Ask happy customers for reviews consistently.",
		))
	}

	if len(scoring.SpecificCategories(p.Categories)) < 4 {
		items = append(items, newItem(entity.PrioritySuggested, entity.CategoryLocalSEO,
			"Add secondary categories",
			"Additional categories let the listing appear for more related searches.",
			"Broader search coverage",
			"Confirm the primary category is the most specific one available.",
			"Add every secondary category that accurately describes a service you offer.",
		))
	}
	if len([]rune(p.Description)) < 100 {
		items = append(items, newItem(entity.PrioritySuggested, entity.CategoryLocalSEO,
			"Expand your business description",
			"A short description wastes space that could mention your services and area.",
			"Better keyword relevance",
			"Write 250 or more characters describing what you do and where.",
			"Mention your main services and neighbourhood naturally.",
		))
	}
	if p.RecentReviewCount(now, scoring.RecentWindow) == 0 {
		items = append(items, newItem(entity.PrioritySuggested, entity.CategoryReviewPerformance,
			"Keep reviews coming in every month",
			"No reviews were found from the last 30 days, which reads as low activity.",
			"Fresher activity signals",
			"Set a weekly reminder to request reviews from recent customers.",
		))
	}

	items = append(items, newItem(entity.PriorityImportant, "",
		ConsultTitle,
		"A specialist can turn this report into a prioritised plan for your market.",
		"A clear roadmap for the next 90 days",
		"Choose a time that suits you.",
		"Bring this report to the call.",
	))

	return Finalize(items, MaxStandardItems)
}
