package galaxy

// Commodity is a tradeable good with a galactic base price in credits
// per ton. Prices quoted in any one system are the base price scaled by
// that system's economic condition and the trader's faction standing.
type Commodity struct {
	Name      string `json:"name"`
	BasePrice int    `json:"base_price"`
	Illegal   bool   `json:"illegal"` // Carrying it risks smuggling detection.
}

// Commodities returns the standard trade goods, cheapest first.
func Commodities() []Commodity {
	return []Commodity{
		{Name: "Food", BasePrice: 100},
		{Name: "Clothing", BasePrice: 140},
		{Name: "Metal", BasePrice: 190},
		{Name: "Plastic", BasePrice: 240},
		{Name: "Equipment", BasePrice: 330},
		{Name: "Medical", BasePrice: 430},
		{Name: "Industrial", BasePrice: 520},
		{Name: "Electronics", BasePrice: 590},
		{Name: "Heavy Metals", BasePrice: 610},
		{Name: "Luxury Goods", BasePrice: 920},
		{Name: "Narcotics", BasePrice: 1380, Illegal: true},
		{Name: "Weapons", BasePrice: 1540, Illegal: true},
	}
}

// BasePrice returns the base price for a commodity by name, or 0 when
// the commodity is unknown.
func BasePrice(name string) int {
	for _, c := range Commodities() {
		if c.Name == name {
			return c.BasePrice
		}
	}
	return 0
}
