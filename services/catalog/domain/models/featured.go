package models

import "github.com/shopspring/decimal"

// FeaturedLimit is the number of products shown on the homepage.
const FeaturedLimit = 8

// Source tells where a homepage product list came from.
type Source int

const (
	// SourceLive means the products were read from the database.
	SourceLive Source = iota
	// SourceFallback means the database could not provide products and the
	// built-in sample catalog was used.
	SourceFallback
)

func (s Source) String() string {
	if s == SourceFallback {
		return "fallback"
	}
	return "live"
}

// FeaturedResult is the homepage product list. It always holds between 1 and
// FeaturedLimit products. Cause is the error that forced the fallback, nil for
// live results and for the empty-catalog fallback.
type FeaturedResult struct {
	Products []Product
	Source   Source
	Cause    error
}

// Live wraps products read from the database.
func Live(products []Product) FeaturedResult {
	return FeaturedResult{Products: products, Source: SourceLive}
}

// Fallback returns the sample catalog, recording why it was needed.
func Fallback(cause error) FeaturedResult {
	return FeaturedResult{Products: FallbackProducts(), Source: SourceFallback, Cause: cause}
}

// IsFallback reports whether the result is the sample catalog.
func (r FeaturedResult) IsFallback() bool {
	return r.Source == SourceFallback
}

// FallbackProducts returns a fresh copy of the sample catalog shown when the
// product table is unavailable.
func FallbackProducts() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "Teclado Mecánico Razer BlackWidow V3",
			Description: "Teclado mecánico gaming con switches Green clicky y iluminación RGB Chroma",
			Price:       decimal.RequireFromString("1899.00"),
			Image:       "https://assets2.razerzone.com/images/pnx.assets/61e6b001a030d66e792cad0043aa30c5/razer-blackwidow-v3-pro-usp2-mobile.jpg",
			Brand:       "Razer",
			Active:      true,
		},
		{
			ID:          2,
			Name:        "Mouse Logitech G Pro X Superlight",
			Description: "Mouse gaming inalámbrico ultraligero 63g, sensor HERO 25K DPI",
			Price:       decimal.RequireFromString("2499.00"),
			Image:       "https://i.makeagif.com/media/2-18-2024/pdXIms.gif",
			Brand:       "Logitech",
			Active:      true,
		},
		{
			ID:          3,
			Name:        "Audífonos SteelSeries Arctis Nova Pro",
			Description: "Headset gaming con sonido surround, cancelación activa de ruido",
			Price:       decimal.RequireFromString("5499.00"),
			Image:       "https://es.gizmodo.com/app/uploads/2022/05/767895e36bc63addff1093cdb8fc6ce1.gif",
			Brand:       "SteelSeries",
			Active:      true,
		},
		{
			ID:          4,
			Name:        "Monitor ASUS TUF Gaming VG249Q",
			Description: `Monitor gaming 23.8" Full HD 144Hz 1ms, FreeSync y tecnología Eye Care`,
			Price:       decimal.RequireFromString("5299.00"),
			Image:       "https://dlcdnwebimgs.asus.com/gain/0f372e3e-f38e-4a9b-824a-978bc7689a99/w800",
			Brand:       "ASUS",
			Active:      true,
		},
	}
}
