package refdata

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
)

// ErrNotFound is returned for ids the store does not know.
var ErrNotFound = errors.New("reference record not found")

// Record is a configured country or currency entry.
type Record struct {
	ID   string `yaml:"id"`
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Store is an in-memory country and currency repository keyed by host id.
type Store struct {
	mu         sync.RWMutex
	countries  map[string]adapter.Country
	currencies map[string]adapter.Currency
}

// NewStore creates a Store seeded with the given records.
func NewStore(countries, currencies []Record) *Store {
	s := &Store{
		countries:  make(map[string]adapter.Country, len(countries)),
		currencies: make(map[string]adapter.Currency, len(currencies)),
	}
	for _, c := range countries {
		s.AddCountry(adapter.Country{ID: c.ID, Code: c.Code, Name: c.Name})
	}
	for _, c := range currencies {
		s.AddCurrency(adapter.Currency{ID: c.ID, Code: c.Code, Name: c.Name})
	}
	return s
}

func (s *Store) AddCountry(c adapter.Country) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countries[c.ID] = c
}

func (s *Store) AddCurrency(c adapter.Currency) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currencies[c.ID] = c
}

// Country returns the country with the given id.
func (s *Store) Country(id string) (adapter.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.countries[id]
	if !ok {
		return adapter.Country{}, fmt.Errorf("country %q: %w", id, ErrNotFound)
	}
	return c, nil
}

// Currency returns the currency with the given id.
func (s *Store) Currency(id string) (adapter.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.currencies[id]
	if !ok {
		return adapter.Currency{}, fmt.Errorf("currency %q: %w", id, ErrNotFound)
	}
	return c, nil
}

// DefaultCountries and DefaultCurrencies seed a store keyed by the lower-case code.
var (
	DefaultCountries = []Record{
		{ID: "gb", Code: "GB", Name: "United Kingdom"},
		{ID: "us", Code: "US", Name: "United States"},
		{ID: "de", Code: "DE", Name: "Germany"},
		{ID: "fr", Code: "FR", Name: "France"},
		{ID: "ie", Code: "IE", Name: "Ireland"},
	}
	DefaultCurrencies = []Record{
		{ID: "gbp", Code: "GBP", Name: "Pound Sterling"},
		{ID: "usd", Code: "USD", Name: "US Dollar"},
		{ID: "eur", Code: "EUR", Name: "Euro"},
	}
)

// Validate checks every seeded code against the ISO lists.
func (s *Store) Validate(iso adapter.ReferenceData) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, c := range s.countries {
		if !iso.IsISO3166Country(strings.ToUpper(c.Code)) {
			return fmt.Errorf("country %q has non-ISO code %q", id, c.Code)
		}
	}
	for id, c := range s.currencies {
		if !iso.IsISO4217Currency(strings.ToUpper(c.Code)) {
			return fmt.Errorf("currency %q has non-ISO code %q", id, c.Code)
		}
	}
	return nil
}
