package cards

// Entry is one catalog line: a card and the number of copies in the deck
type Entry struct {
	Card  Card `json:"card"`
	Count int  `json:"count"`
}

// Catalog returns the fixed card catalog in a stable order.
func Catalog() []Entry {
	entries := make([]Entry, 0, 64)
	entries = append(entries, moneyCards()...)
	entries = append(entries, propertyCards()...)
	entries = append(entries, wildCards()...)
	entries = append(entries, actionCards()...)
	entries = append(entries, rentCards()...)
	return entries
}

// CatalogTotal returns the number of cards in a full deck
func CatalogTotal() int {
	total := 0
	for _, e := range Catalog() {
		total += e.Count
	}
	return total
}

// CatalogCounts returns copies per card name
func CatalogCounts() map[string]int {
	counts := make(map[string]int)
	for _, e := range Catalog() {
		counts[e.Card.Name] += e.Count
	}
	return counts
}

// Lookup finds a catalog card by name
func Lookup(name string) (Card, bool) {
	for _, e := range Catalog() {
		if e.Card.Name == name {
			return e.Card, true
		}
	}
	return Card{}, false
}

func moneyCards() []Entry {
	return []Entry{
		{NewMoney("1M", 1), 6},
		{NewMoney("2M", 2), 5},
		{NewMoney("3M", 3), 3},
		{NewMoney("4M", 4), 3},
		{NewMoney("5M", 5), 2},
		{NewMoney("10M", 10), 1},
	}
}

func propertyCards() []Entry {
	props := []Card{
		NewProperty("Mediterranean Avenue", 1, Brown),
		NewProperty("Baltic Avenue", 1, Brown),
		NewProperty("Oriental Avenue", 1, LightBlue),
		NewProperty("Vermont Avenue", 1, LightBlue),
		NewProperty("Connecticut Avenue", 1, LightBlue),
		NewProperty("St. Charles Place", 2, Pink),
		NewProperty("States Avenue", 2, Pink),
		NewProperty("Virginia Avenue", 2, Pink),
		NewProperty("St. James Place", 2, Orange),
		NewProperty("Tennessee Avenue", 2, Orange),
		NewProperty("New York Avenue", 2, Orange),
		NewProperty("Kentucky Avenue", 3, Red),
		NewProperty("Indiana Avenue", 3, Red),
		NewProperty("Illinois Avenue", 3, Red),
		NewProperty("Atlantic Avenue", 3, Yellow),
		NewProperty("Ventnor Avenue", 3, Yellow),
		NewProperty("Marvin Gardens", 3, Yellow),
		NewProperty("Pacific Avenue", 4, Green),
		NewProperty("North Carolina Avenue", 4, Green),
		NewProperty("Pennsylvania Avenue", 4, Green),
		NewProperty("Park Place", 4, DarkBlue),
		NewProperty("Boardwalk", 4, DarkBlue),
		NewProperty("Reading Railroad", 2, Railroads),
		NewProperty("Pennsylvania Railroad", 2, Railroads),
		NewProperty("B&O Railroad", 2, Railroads),
		NewProperty("Short Line", 2, Railroads),
		NewProperty("Electric Company", 2, Utilities),
		NewProperty("Water Works", 2, Utilities),
	}

	entries := make([]Entry, len(props))
	for i, p := range props {
		entries[i] = Entry{p, 1}
	}
	return entries
}

func wildCards() []Entry {
	return []Entry{
		{NewWild("Dark Blue/Green Wild", 4, DarkBlue, Green), 1},
		{NewWild("Green/Railroad Wild", 4, Green, Railroads), 1},
		{NewWild("Light Blue/Railroad Wild", 4, LightBlue, Railroads), 1},
		{NewWild("Light Blue/Brown Wild", 1, LightBlue, Brown), 1},
		{NewWild("Railroad/Utility Wild", 2, Railroads, Utilities), 1},
		{NewWild("Pink/Orange Wild", 2, Pink, Orange), 2},
		{NewWild("Red/Yellow Wild", 3, Red, Yellow), 2},
		{NewAnyWild("Property Wild (Any Color)", 0), 2},
	}
}

func actionCards() []Entry {
	return []Entry{
		{NewAction(DealBreaker, 5), 2},
		{NewAction(SlyDeal, 3), 3},
		{NewAction(ForcedDeal, 3), 4},
		{NewAction(DebtCollector, 3), 3},
		{NewAction(Birthday, 2), 3},
		{NewAction(PassGo, 1), 10},
		{NewAction(DoubleTheRent, 1), 3},
		{NewAction(House, 3), 3},
		{NewAction(Hotel, 4), 2},
		{NewAction(JustSayNo, 4), 6},
	}
}

func rentCards() []Entry {
	return []Entry{
		{NewRent(RentBrownLightBlue, 1, Brown, LightBlue), 2},
		{NewRent(RentPinkOrange, 1, Pink, Orange), 2},
		{NewRent(RentRedYellow, 1, Red, Yellow), 2},
		{NewRent(RentGreenDarkBlue, 1, Green, DarkBlue), 2},
		{NewRent(RentRailroadUtility, 1, Railroads, Utilities), 2},
		{NewAnyRent(RentAnyColor, 3), 3},
	}
}
