package scoring

import (
	"time"

	"github.com/octobees/presence-audit/internal/entity"
)

const notePostingInferred = "Posting activity is not exposed by the listing data; it was inferred from review recency."

// FromProfile maps a live profile onto self-audit answers so the point table
// can score it. nap may be nil when no website check ran; an unverified check
// never counts against the profile.
func FromProfile(p entity.PlaceProfile, nap *entity.NAPCheck, now time.Time) (entity.Checklist, entity.SelfAuditInputs, []string) {
	specific := SpecificCategories(p.Categories)
	recent := p.RecentReviewCount(now, RecentWindow)

	phoneOK, addressOK := true, true
	if nap != nil {
		phoneOK = nap.PhoneFound != entity.False
		addressOK = nap.AddressFound != entity.False
	}

	checklist := entity.Checklist{
		HasHours:               p.HasHours(),
		HasPhone:               p.Phone != "",
		HasWebsite:             p.Website != "",
		HasDescription:         p.Description != "",
		HasServices:            keywordMatch(p.Description, p.Categories),
		HasPrimaryCategory:     len(specific) >= 1,
		HasSecondaryCategories: len(specific) >= 2,
		PostedLast30Days:       recent > 0,
		NameConsistent:         p.Website != "",
		AddressConsistent:      p.FormattedAddress != "" && addressOK,
		PhoneConsistent:        p.Phone != "" && phoneOK,
		ListedInDirectories:    true,
	}

	answers := entity.SelfAuditInputs{
		BusinessName:     p.Name,
		PhotoCountRange:  PhotoBucket(p.PhotoCount()),
		ReviewCountRange: ReviewBucket(p.ReviewCount),
		RatingRange:      RatingBucket(p.Rating),
		PostFrequency:    postingFrequency(recent),
	}

	return checklist, answers, []string{notePostingInferred}
}

// PhotoBucket maps a photo count onto its range key.
func PhotoBucket(count int) string {
	switch {
	case count >= 50:
		return Photos50Plus
	case count >= 25:
		return Photos25To49
	case count >= 10:
		return Photos10To24
	default:
		return PhotosUnder10
	}
}

// ReviewBucket maps a review count onto its range key.
func ReviewBucket(count int) string {
	switch {
	case count >= 100:
		return Reviews100Plus
	case count >= 50:
		return Reviews50To99
	case count >= 25:
		return Reviews25To49
	case count >= 10:
		return Reviews10To24
	default:
		return ReviewsUnder10
	}
}

// RatingBucket maps a star rating onto its range key.
func RatingBucket(rating float64) string {
	switch {
	case rating >= 4.9:
		return Rating49To50
	case rating >= 4.6:
		return Rating46To48
	case rating >= 4.3:
		return Rating43To45
	case rating >= 4.0:
		return Rating40To42
	default:
		return RatingBelow4
	}
}

func postingFrequency(recentReviews int) string {
	switch {
	case recentReviews >= 4:
		return PostWeekly
	case recentReviews >= 1:
		return PostMonthly
	default:
		return PostRarely
	}
}
