package models

// Property describes one of the serviced-apartment houses guests can book.
type Property struct {
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Address     string   `json:"address"`
	Description string   `json:"description"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Amenities   []string `json:"amenities"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
}

// Properties is the fixed catalogue of bookable houses, keyed by Apaleo property id.
var Properties = map[string]Property{
	"GBAL": {
		Name:        "Amanthos Living Zurich Airport",
		City:        "Glattbrugg (Opfikon)",
		Address:     "Oberhauserstrasse 30, 8152 Glattbrugg",
		Description: "Business suites with perfect connections to the city and airport.",
		Lat:         47.4325, Lng: 8.5647,
		Amenities: []string{"Free Wi-Fi", "Fully Equipped Kitchen", "Smart TV", "Air Conditioning", "Desk Workspace", "Digital Check-in", "Private Parking", "Lift Access"},
		Rating:    4.4, Reviews: 99,
	},
	"GNBE": {
		Name:        "Amanthos Living Solothurn",
		City:        "Grenchen",
		Address:     "Bettlachstrasse 20, 2540 Grenchen",
		Description: "Spacious serviced apartments in the heart of the watchmaking region.",
		Lat:         47.1942, Lng: 7.3956,
		Amenities: []string{"Free Wi-Fi", "Fully Equipped Kitchen", "Smart TV", "On-Site Parking", "Digital Check-in", "Lift Access", "Work-Friendly Spaces"},
		Rating:    4.0, Reviews: 9,
	},
	"NYAL": {
		Name:        "Amanthos Living Nyon",
		City:        "Duillier",
		Address:     "Rue du Château 11, 1266 Duillier",
		Description: "Modern apartments with stunning Lake Geneva and Alps views.",
		Lat:         46.3865, Lng: 6.2291,
		Amenities: []string{"Free Wi-Fi", "Lake Views", "Kitchenette", "Smart TV", "Parking Available", "Digital Check-in", "Historic Building"},
		Rating:    4.3, Reviews: 50,
	},
}

// IsValidProperty reports whether the given id belongs to the catalogue.
func IsValidProperty(id string) bool {
	_, ok := Properties[id]
	return ok
}
