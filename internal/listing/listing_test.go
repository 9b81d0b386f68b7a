package listing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"righthome-agent/internal/cache"
	"righthome-agent/internal/domain"
)

func newTestService(t *testing.T) (*Service, cache.Cache) {
	t.Helper()
	c := cache.NewMemory()
	s, err := NewService(c, nil)
	require.NoError(t, err)
	return s, c
}

func TestNewService_ValidatesCache(t *testing.T) {
	_, err := NewService(nil, nil)
	require.Error(t, err)
}

func TestFind(t *testing.T) {
	props := []domain.Property{{ID: "1", Name: "Loft"}, {ID: "2", Name: "Villa"}}

	got, err := Find(props, "2")
	require.NoError(t, err)
	require.Equal(t, "Villa", got.Name)

	_, err = Find(props, "9")
	require.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestRemember_RoundTrips(t *testing.T) {
	s, _ := newTestService(t)
	prop := domain.Property{ID: "7", Name: "Penthouse", Location: "Downtown"}

	require.NoError(t, s.Remember(prop))

	got, err := s.Viewed("7")
	require.NoError(t, err)
	require.Equal(t, prop, got)
}

func TestRemember_AppendsSequenceWithoutDuplicates(t *testing.T) {
	s, _ := newTestService(t)

	require.NoError(t, s.Remember(domain.Property{ID: "1", Name: "Loft"}))
	require.NoError(t, s.Remember(domain.Property{ID: "2", Name: "Villa"}))
	require.NoError(t, s.Remember(domain.Property{ID: "1", Name: "Loft revisited"}))

	viewed := s.ViewedProperties()
	require.Len(t, viewed, 2)
	require.Equal(t, domain.ID("1"), viewed[0].ID)
	require.Equal(t, "Loft", viewed[0].Name)
	require.Equal(t, domain.ID("2"), viewed[1].ID)
}

func TestRemember_SkipsBlankID(t *testing.T) {
	s, c := newTestService(t)

	require.NoError(t, s.Remember(domain.Property{Name: "no id"}))

	_, err := c.Load(cache.KeyPropertyByID)
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestViewed_MissingAndCorrupt(t *testing.T) {
	s, c := newTestService(t)

	_, err := s.Viewed("1")
	require.ErrorIs(t, err, ErrPropertyNotFound)

	require.NoError(t, c.Save(cache.KeyPropertyByID, []byte("{broken")))
	_, err = s.Viewed("1")
	require.ErrorIs(t, err, ErrPropertyNotFound)
	require.Empty(t, s.ViewedProperties())
}

func TestClearViewed(t *testing.T) {
	s, _ := newTestService(t)
	require.NoError(t, s.Remember(domain.Property{ID: "1"}))

	require.NoError(t, s.ClearViewed())

	_, err := s.Viewed("1")
	require.ErrorIs(t, err, ErrPropertyNotFound)
	require.Empty(t, s.ViewedProperties())
}

func TestToggleFavorite_AddsAndRemoves(t *testing.T) {
	s, _ := newTestService(t)

	on, err := s.ToggleFavorite("3")
	require.NoError(t, err)
	require.True(t, on)
	require.True(t, s.IsFavorite("3"))

	off, err := s.ToggleFavorite("3")
	require.NoError(t, err)
	require.False(t, off)
	require.False(t, s.IsFavorite("3"))
}

func TestToggleFavorite_RejectsBlankID(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.ToggleFavorite("")
	require.Error(t, err)
}

func TestFavorites_PreservesOrderAcrossToggles(t *testing.T) {
	s, _ := newTestService(t)
	for _, id := range []domain.ID{"1", "2", "3"} {
		_, err := s.ToggleFavorite(id)
		require.NoError(t, err)
	}

	_, err := s.ToggleFavorite("2")
	require.NoError(t, err)

	require.Equal(t, []Favorite{{ID: "1"}, {ID: "3"}}, s.Favorites())
}

func TestFavorites_CorruptEntryYieldsEmpty(t *testing.T) {
	s, c := newTestService(t)
	require.NoError(t, c.Save(cache.KeyFavorites, []byte("not json")))

	require.Empty(t, s.Favorites())
	require.False(t, s.IsFavorite("1"))
}
