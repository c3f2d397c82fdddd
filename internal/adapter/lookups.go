package adapter

// Country is a host country record.
type Country struct {
	ID   string
	Code string // ISO 3166-1 alpha-2
	Name string
}

// Currency is a host currency record.
type Currency struct {
	ID   string
	Code string // ISO 4217 alpha
	Name string
}

// CountryLookup resolves host country ids.
type CountryLookup interface {
	Country(id string) (Country, error)
}

// CurrencyLookup resolves host currency ids.
type CurrencyLookup interface {
	Currency(id string) (Currency, error)
}

// ReferenceData answers whether a code is on the ISO reference lists.
// Codes are expected upper case.
type ReferenceData interface {
	IsISO3166Country(code string) bool
	IsISO4217Currency(code string) bool
}
