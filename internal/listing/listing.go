// Package listing manages the property detail state: which property is
// open in the detail view and which properties the user has favorited.
// Both survive restarts through the local cache; favorites additionally
// survive conversation resets.
package listing

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"righthome-agent/internal/cache"
	"righthome-agent/internal/domain"
)

// ErrPropertyNotFound is returned when an id matches no known property.
var ErrPropertyNotFound = errors.New("listing: property not found")

// Favorite is the persisted favorite record. Only the id is stored; the
// property itself lives in the conversation's listing.
type Favorite struct {
	ID domain.ID `json:"id"`
}

// Service owns the viewed-property and favorites cache entries.
type Service struct {
	cache cache.Cache
	log   *zap.Logger
}

// NewService creates a Service backed by the given cache.
func NewService(c cache.Cache, log *zap.Logger) (*Service, error) {
	if c == nil {
		return nil, errors.New("listing: cache must not be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cache: c, log: log}, nil
}

// Find returns the property with the given id from props.
func Find(props []domain.Property, id domain.ID) (domain.Property, error) {
	for _, p := range props {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Property{}, ErrPropertyNotFound
}

// Remember appends prop to the persisted viewed-property sequence,
// unless a property with the same id is already recorded. Properties
// without an id are not persisted; a restart would have nothing to match
// them against.
func (s *Service) Remember(prop domain.Property) error {
	if prop.ID == "" {
		return nil
	}
	viewed := s.ViewedProperties()
	for _, p := range viewed {
		if p.ID == prop.ID {
			return nil
		}
	}
	viewed = append(viewed, prop)
	raw, err := json.Marshal(viewed)
	if err != nil {
		return err
	}
	return s.cache.Save(cache.KeyPropertyByID, raw)
}

// ViewedProperties returns the persisted viewed-property sequence in
// view order. A missing or unparsable entry yields an empty list.
func (s *Service) ViewedProperties() []domain.Property {
	raw, err := s.cache.Load(cache.KeyPropertyByID)
	if err != nil {
		return nil
	}
	var props []domain.Property
	if err := json.Unmarshal(raw, &props); err != nil {
		s.log.Warn("discarding unparsable viewed properties", zap.Error(err))
		return nil
	}
	return props
}

// Viewed returns the recorded viewed property with the given id.
func (s *Service) Viewed(id domain.ID) (domain.Property, error) {
	return Find(s.ViewedProperties(), id)
}

// ClearViewed drops the viewed-property sequence.
func (s *Service) ClearViewed() error {
	return s.cache.Clear(cache.KeyPropertyByID)
}

// Favorites returns the persisted favorite records. A missing or
// unparsable entry yields an empty list.
func (s *Service) Favorites() []Favorite {
	raw, err := s.cache.Load(cache.KeyFavorites)
	if err != nil {
		return nil
	}
	var favs []Favorite
	if err := json.Unmarshal(raw, &favs); err != nil {
		s.log.Warn("discarding unparsable favorites", zap.Error(err))
		return nil
	}
	return favs
}

// IsFavorite reports whether the id is currently favorited.
func (s *Service) IsFavorite(id domain.ID) bool {
	for _, f := range s.Favorites() {
		if f.ID == id {
			return true
		}
	}
	return false
}

// ToggleFavorite adds or removes the id and reports the new state.
func (s *Service) ToggleFavorite(id domain.ID) (bool, error) {
	if id == "" {
		return false, errors.New("listing: id must not be blank")
	}
	favs := s.Favorites()
	kept := favs[:0]
	removed := false
	for _, f := range favs {
		if f.ID == id {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	if !removed {
		kept = append(kept, Favorite{ID: id})
	}
	raw, err := json.Marshal(kept)
	if err != nil {
		return false, err
	}
	if err := s.cache.Save(cache.KeyFavorites, raw); err != nil {
		return false, err
	}
	return !removed, nil
}
