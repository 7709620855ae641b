package deviceinfo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/mash-protocol/light-device/pkg/persistence"
	"github.com/mash-protocol/light-device/pkg/wire"
)

// lengthSize is the width of a stored user label count.
const lengthSize = 8

// Provider errors.
var (
	ErrInvalidIndex  = errors.New("invalid user label index")
	ErrInvalidLength = errors.New("invalid user label length")
	ErrInvalidLocale = errors.New("invalid locale")
)

// Provider serves device metadata. Fixed tables are compiled in; user labels
// are read from and written to the KVStore.
type Provider struct {
	store         persistence.KVStore
	fixedLabels   []Label
	locales       []string
	calendarTypes []CalendarType
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider) error

// WithFixedLabels replaces the fixed labels reported for every endpoint.
func WithFixedLabels(labels ...Label) ProviderOption {
	return func(p *Provider) error {
		for _, l := range labels {
			if err := l.Validate(); err != nil {
				return fmt.Errorf("fixed label %q: %w", l.Name, err)
			}
		}
		p.fixedLabels = slices.Clone(labels)
		return nil
	}
}

// WithSupportedLocales replaces the supported locale list.
func WithSupportedLocales(locales ...string) ProviderOption {
	return func(p *Provider) error {
		for _, loc := range locales {
			if loc == "" || len(loc) > MaxActiveLocaleLength {
				return fmt.Errorf("%w: %q", ErrInvalidLocale, loc)
			}
		}
		p.locales = slices.Clone(locales)
		return nil
	}
}

// NewProvider creates a provider backed by store.
func NewProvider(store persistence.KVStore, opts ...ProviderOption) (*Provider, error) {
	p := &Provider{
		store:         store,
		fixedLabels:   defaultFixedLabels,
		locales:       defaultLocales,
		calendarTypes: defaultCalendarTypes,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// IterateFixedLabel returns an iterator over the fixed labels. Every endpoint
// reports the same list.
func (p *Provider) IterateFixedLabel(ep EndpointID) *FixedLabelIterator {
	return &FixedLabelIterator{sliceIterator[Label]{items: p.fixedLabels}}
}

// IterateSupportedLocales returns an iterator over the supported locales.
func (p *Provider) IterateSupportedLocales() *LocaleIterator {
	return &LocaleIterator{sliceIterator[string]{items: p.locales}}
}

// IterateSupportedCalendarTypes returns an iterator over the supported
// calendar types.
func (p *Provider) IterateSupportedCalendarTypes() *CalendarTypeIterator {
	return &CalendarTypeIterator{sliceIterator[CalendarType]{items: p.calendarTypes}}
}

// UserLabelIterator iterates the stored user labels of an endpoint.
//
// Count is the endpoint's label count read when the iterator was created.
// A record that cannot be read or decoded ends the traversal early.
type UserLabelIterator struct {
	store    persistence.KVStore
	endpoint EndpointID
	total    int
	index    int
	done     bool
	buf      [wire.LabelRecordMaxSize]byte
}

// IterateUserLabel returns an iterator over the user labels of ep. An
// endpoint without a stored count has no labels.
func (p *Provider) IterateUserLabel(ep EndpointID) (*UserLabelIterator, error) {
	n, err := p.UserLabelLength(ep)
	if err != nil && !errors.Is(err, persistence.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: endpoint %d: %w", persistence.ErrStorageFailure, ep, err)
	}
	return &UserLabelIterator{store: p.store, endpoint: ep, total: n}, nil
}

func (it *UserLabelIterator) Count() int {
	return it.total
}

func (it *UserLabelIterator) Next(out *Label) bool {
	if it.done || it.index >= it.total {
		return false
	}

	key := persistence.UserLabelIndexKey(uint16(it.endpoint), uint32(it.index))
	n, err := it.store.SyncGetKeyValue(key, it.buf[:])
	if err != nil {
		it.done = true
		return false
	}
	l, err := wire.DecodeLabelRecord(it.buf[:n])
	if err != nil {
		it.done = true
		return false
	}

	*out = l
	it.index++
	return true
}

func (it *UserLabelIterator) Release() {
	it.done = true
}

// UserLabelLength returns the stored user label count of ep. A missing count
// is reported as persistence.ErrKeyNotFound.
func (p *Provider) UserLabelLength(ep EndpointID) (int, error) {
	var buf [lengthSize]byte
	n, err := p.store.SyncGetKeyValue(persistence.UserLabelLengthKey(uint16(ep)), buf[:])
	if err != nil {
		return 0, err
	}
	if n != lengthSize {
		return 0, fmt.Errorf("%w: stored length is %d bytes", ErrInvalidLength, n)
	}
	v := binary.LittleEndian.Uint64(buf[:])
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLength, v)
	}
	return int(v), nil
}

// SetUserLabelLength stores n as the user label count of ep.
func (p *Provider) SetUserLabelLength(ep EndpointID, n int) error {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	var buf [lengthSize]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	return p.store.SyncSetKeyValue(persistence.UserLabelLengthKey(uint16(ep)), buf[:])
}

// SetUserLabelAt validates and stores l at index on ep. The stored count is
// not changed.
func (p *Provider) SetUserLabelAt(ep EndpointID, index int, l Label) error {
	key, err := userLabelKey(ep, index)
	if err != nil {
		return err
	}

	var buf [wire.LabelRecordMaxSize]byte
	n, err := wire.EncodeLabelRecord(buf[:], l)
	if err != nil {
		return err
	}
	return p.store.SyncSetKeyValue(key, buf[:n])
}

// DeleteUserLabelAt removes the record at index on ep. The stored count is
// not changed, so callers removing from the end must also call
// SetUserLabelLength.
func (p *Provider) DeleteUserLabelAt(ep EndpointID, index int) error {
	key, err := userLabelKey(ep, index)
	if err != nil {
		return err
	}
	return p.store.SyncDeleteKeyValue(key)
}

// SetUserLabelList replaces the user labels of ep with labels. Records past
// the new end are deleted.
func (p *Provider) SetUserLabelList(ep EndpointID, labels []Label) error {
	for i, l := range labels {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("label %d: %w", i, err)
		}
	}

	previous, err := p.lengthOrZero(ep)
	if err != nil {
		return err
	}

	if err := p.SetUserLabelLength(ep, len(labels)); err != nil {
		return err
	}
	for i, l := range labels {
		if err := p.SetUserLabelAt(ep, i, l); err != nil {
			return err
		}
	}
	for i := len(labels); i < previous; i++ {
		if err := p.DeleteUserLabelAt(ep, i); err != nil && !errors.Is(err, persistence.ErrKeyNotFound) {
			return err
		}
	}
	return nil
}

// ClearUserLabelList deletes every user label of ep and stores a count of 0.
func (p *Provider) ClearUserLabelList(ep EndpointID) error {
	n, err := p.lengthOrZero(ep)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := p.DeleteUserLabelAt(ep, i); err != nil && !errors.Is(err, persistence.ErrKeyNotFound) {
			return err
		}
	}
	return p.SetUserLabelLength(ep, 0)
}

// AppendUserLabel stores l after the last user label of ep.
func (p *Provider) AppendUserLabel(ep EndpointID, l Label) error {
	n, err := p.lengthOrZero(ep)
	if err != nil {
		return err
	}
	if err := p.SetUserLabelAt(ep, n, l); err != nil {
		return err
	}
	return p.SetUserLabelLength(ep, n+1)
}

func (p *Provider) lengthOrZero(ep EndpointID) (int, error) {
	n, err := p.UserLabelLength(ep)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return 0, nil
	}
	return n, err
}

func userLabelKey(ep EndpointID, index int) (string, error) {
	if index < 0 || uint64(index) > math.MaxUint32 {
		return "", fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	return persistence.UserLabelIndexKey(uint16(ep), uint32(index)), nil
}
