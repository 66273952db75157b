package enums

import "fmt"

// ListingDomain distinguishes the two independent listing surfaces.
type ListingDomain string

const (
	ListingDomainRental      ListingDomain = "rental"
	ListingDomainMarketplace ListingDomain = "marketplace"
)

var validListingDomains = []ListingDomain{
	ListingDomainRental,
	ListingDomainMarketplace,
}

// String implements fmt.Stringer.
func (d ListingDomain) String() string {
	return string(d)
}

// IsValid reports whether the value is known.
func (d ListingDomain) IsValid() bool {
	for _, candidate := range validListingDomains {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseListingDomain converts raw input into a ListingDomain.
func ParseListingDomain(value string) (ListingDomain, error) {
	for _, candidate := range validListingDomains {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing domain %q", value)
}
