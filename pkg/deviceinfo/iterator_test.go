package deviceinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/light-device/pkg/persistence"
)

func newTestProvider(t *testing.T, opts ...ProviderOption) (*Provider, *persistence.MemoryStore) {
	t.Helper()
	store := persistence.NewMemoryStore()
	p, err := NewProvider(store, opts...)
	require.NoError(t, err)
	return p, store
}

// drain collects every entry of it and releases it.
func drain[T any](it Iterator[T]) []T {
	defer it.Release()
	var out []T
	var v T
	for it.Next(&v) {
		out = append(out, v)
	}
	return out
}

func TestFixedLabelIterator(t *testing.T) {
	p, _ := newTestProvider(t)

	want := []Label{
		{Name: "room", Value: "bedroom 2"},
		{Name: "orientation", Value: "North"},
		{Name: "floor", Value: "2"},
		{Name: "direction", Value: "up"},
	}

	for _, ep := range []EndpointID{0, 1, 0xFFFF} {
		it := p.IterateFixedLabel(ep)
		assert.Equal(t, 4, it.Count())
		got := drain[Label](it)
		assert.Equal(t, want, got, "endpoint %d", ep)
		assert.Len(t, got, it.Count())
	}
}

func TestIteratorExhausted(t *testing.T) {
	p, _ := newTestProvider(t)
	it := p.IterateFixedLabel(1)

	var l Label
	for it.Next(&l) {
	}
	assert.False(t, it.Next(&l))
	assert.False(t, it.Next(&l))
}

func TestIteratorRelease(t *testing.T) {
	p, _ := newTestProvider(t)
	it := p.IterateFixedLabel(1)

	var l Label
	require.True(t, it.Next(&l))
	it.Release()
	assert.False(t, it.Next(&l))
	assert.Equal(t, "room", l.Name, "out must not be touched after release")
}

func TestIteratorsIndependent(t *testing.T) {
	p, _ := newTestProvider(t)
	a := p.IterateSupportedLocales()
	b := p.IterateSupportedLocales()

	var s string
	require.True(t, a.Next(&s))
	require.True(t, a.Next(&s))
	assert.Equal(t, "de-DE", s)

	require.True(t, b.Next(&s))
	assert.Equal(t, "en-US", s)
}

func TestSupportedLocales(t *testing.T) {
	p, _ := newTestProvider(t)
	it := p.IterateSupportedLocales()

	assert.Equal(t, 8, it.Count())
	got := drain[string](it)
	assert.Equal(t, []string{"en-US", "de-DE", "fr-FR", "en-GB", "es-ES", "zh-CN", "it-IT", "ja-JP"}, got)
	for _, loc := range got {
		assert.LessOrEqual(t, len(loc), MaxActiveLocaleLength)
	}
}

func TestSupportedCalendarTypes(t *testing.T) {
	p, _ := newTestProvider(t)
	it := p.IterateSupportedCalendarTypes()

	assert.Equal(t, 12, it.Count())
	got := drain[CalendarType](it)
	assert.Equal(t, []CalendarType{
		CalendarBuddhist, CalendarChinese, CalendarCoptic, CalendarEthiopian,
		CalendarGregorian, CalendarHebrew, CalendarIndian, CalendarJapanese,
		CalendarKorean, CalendarPersian, CalendarTaiwanese, CalendarIslamic,
	}, got)
	assert.Equal(t, CalendarType(7), got[len(got)-1])
}

func TestCalendarTypeString(t *testing.T) {
	tests := []struct {
		c    CalendarType
		want string
	}{
		{CalendarBuddhist, "Buddhist"},
		{CalendarGregorian, "Gregorian"},
		{CalendarIslamic, "Islamic"},
		{CalendarTaiwanese, "Taiwanese"},
		{CalendarType(42), "CalendarType(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.String())
		})
	}
}

func TestAll(t *testing.T) {
	p, _ := newTestProvider(t)

	var names []string
	for l := range All[Label](p.IterateFixedLabel(1)) {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"room", "orientation", "floor", "direction"}, names)

	// Breaking out releases the iterator.
	it := p.IterateSupportedCalendarTypes()
	for range All[CalendarType](it) {
		break
	}
	var c CalendarType
	assert.False(t, it.Next(&c))
}

func TestProviderOptions(t *testing.T) {
	custom := []Label{{Name: "zone", Value: "garden"}}
	p, _ := newTestProvider(t, WithFixedLabels(custom...), WithSupportedLocales("en-US", "nl-NL"))

	assert.Equal(t, custom, drain[Label](p.IterateFixedLabel(3)))
	assert.Equal(t, []string{"en-US", "nl-NL"}, drain[string](p.IterateSupportedLocales()))

	// Options copy their input.
	custom[0].Value = "attic"
	assert.Equal(t, "garden", drain[Label](p.IterateFixedLabel(3))[0].Value)
}

func TestProviderOptionsInvalid(t *testing.T) {
	store := persistence.NewMemoryStore()

	_, err := NewProvider(store, WithFixedLabels(Label{Name: "a-name-that-is-far-too-long", Value: "x"}))
	assert.Error(t, err)

	_, err = NewProvider(store, WithSupportedLocales(""))
	assert.ErrorIs(t, err, ErrInvalidLocale)

	_, err = NewProvider(store, WithSupportedLocales("en-US-x-a-private-use-tag-longer-than-allowed"))
	assert.ErrorIs(t, err, ErrInvalidLocale)
}
