package enums

import "fmt"

// MarketplaceCategory enumerates the marketplace item variants.
type MarketplaceCategory string

const (
	MarketplaceCategoryElectronics       MarketplaceCategory = "electronics"
	MarketplaceCategoryCars              MarketplaceCategory = "cars"
	MarketplaceCategoryHouseItems        MarketplaceCategory = "house_items"
	MarketplaceCategoryFashion           MarketplaceCategory = "fashion"
	MarketplaceCategoryCosmetics         MarketplaceCategory = "cosmetics"
	MarketplaceCategoryBusinesses        MarketplaceCategory = "businesses"
	MarketplaceCategoryPropertiesForSale MarketplaceCategory = "properties_for_sale"
)

var validMarketplaceCategories = []MarketplaceCategory{
	MarketplaceCategoryElectronics,
	MarketplaceCategoryCars,
	MarketplaceCategoryHouseItems,
	MarketplaceCategoryFashion,
	MarketplaceCategoryCosmetics,
	MarketplaceCategoryBusinesses,
	MarketplaceCategoryPropertiesForSale,
}

// String implements fmt.Stringer.
func (c MarketplaceCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c MarketplaceCategory) IsValid() bool {
	for _, candidate := range validMarketplaceCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseMarketplaceCategory converts raw input into a MarketplaceCategory.
func ParseMarketplaceCategory(value string) (MarketplaceCategory, error) {
	for _, candidate := range validMarketplaceCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid marketplace category %q", value)
}

// MarketplaceCategories returns the known categories in declaration order.
func MarketplaceCategories() []MarketplaceCategory {
	out := make([]MarketplaceCategory, len(validMarketplaceCategories))
	copy(out, validMarketplaceCategories)
	return out
}
