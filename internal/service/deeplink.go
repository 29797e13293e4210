package service

import (
	"net/url"
	"strings"

	"github.com/octobees/presence-audit/internal/apperror"
)

// MapsReference is what a shared maps link points at: a place id when the
// link carries one, otherwise a search query.
type MapsReference struct {
	PlaceID string
	Query   string
}

// ResolveMapsURL extracts a usable reference from a shared maps link.
// Short links cannot be expanded offline and are rejected.
func ResolveMapsURL(raw string) (MapsReference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return MapsReference{}, apperror.InvalidReference(raw)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return MapsReference{}, apperror.InvalidReference(raw)
	}

	query := u.Query()
	for _, key := range []string{"place_id", "query_place_id"} {
		if id := strings.TrimSpace(query.Get(key)); id != "" {
			return MapsReference{PlaceID: id}, nil
		}
	}

	if q := strings.TrimSpace(query.Get("q")); q != "" {
		if id, ok := strings.CutPrefix(q, "place_id:"); ok && strings.TrimSpace(id) != "" {
			return MapsReference{PlaceID: strings.TrimSpace(id)}, nil
		}
		return MapsReference{Query: q}, nil
	}

	segments := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] != "place" {
			continue
		}
		name, err := url.PathUnescape(segments[i+1])
		if err != nil {
			break
		}
		name = strings.TrimSpace(strings.ReplaceAll(name, "+", " "))
		if name != "" && !strings.HasPrefix(name, "@") {
			return MapsReference{Query: name}, nil
		}
	}

	if q := strings.TrimSpace(query.Get("query")); q != "" {
		return MapsReference{Query: q}, nil
	}

	return MapsReference{}, apperror.InvalidReference(raw)
}
