package domain

// Product is a catalog entry. Cart lines and order items reference
// products but never own them; order items copy the fields they need.
type Product struct {
	ID          int64
	Name        string
	Price       Amount
	Category    string
	Description string
	Image       string
	Featured    bool
	Rating      float64
	Reviews     int
	InStock     bool
}

// Categories is the fixed set of catalog categories.
var Categories = []string{
	"Living Room",
	"Bedroom",
	"Dining",
	"Office",
	"Outdoor",
}

// ValidCategory reports whether c is one of the fixed catalog categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
