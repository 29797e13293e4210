package locator

import (
	"context"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
	"go.uber.org/zap"

	"github.com/octobees/presence-audit/internal/entity"
)

const (
	noteNAPUnchecked = "Your website could not be checked for name, address and phone consistency."
	noteNAPPhone     = "Your website does not show the phone number from your listing."
	noteNAPAddress   = "Your website does not show the street address from your listing."
)

// CheckNAP looks for the listing's phone and street line on its website.
// It never fails; anything it cannot verify stays Unknown.
func (l *Locator) CheckNAP(ctx context.Context, subject entity.PlaceProfile) (*entity.NAPCheck, []string) {
	check := &entity.NAPCheck{Website: subject.Website}
	if subject.Website == "" || l.fetcher == nil {
		return check, nil
	}

	text, ok := l.fetcher.FetchText(ctx, subject.Website)
	if !ok {
		l.logger.Info("Website consistency check skipped", zap.String("website", subject.Website))
		return check, []string{noteNAPUnchecked}
	}
	check.Fetched = true

	var notes []string
	if phone := nationalNumber(subject.Phone, l.phoneRegion); phone != "" {
		check.PhoneFound = entity.TristateOf(strings.Contains(digitsOnly(text), phone))
		if check.PhoneFound == entity.False {
			notes = append(notes, noteNAPPhone)
		}
	}
	if street := streetLine(subject.FormattedAddress); street != "" {
		check.AddressFound = entity.TristateOf(strings.Contains(collapse(text), street))
		if check.AddressFound == entity.False {
			notes = append(notes, noteNAPAddress)
		}
	}
	return check, notes
}

// nationalNumber returns the digits a page would show for the number,
// without country code.
func nationalNumber(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err == nil && phonenumbers.IsPossibleNumber(number) {
		return phonenumbers.GetNationalSignificantNumber(number)
	}
	return digitsOnly(raw)
}

// streetLine is the first comma-separated segment of the address.
func streetLine(address string) string {
	segment, _, _ := strings.Cut(address, ",")
	return collapse(segment)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
