package domain

import "strings"

// CategoryOther es la etiqueta que se devuelve cuando ningún keyword matchea.
const CategoryOther = "other"

// MarketCategory agrupa los keywords que identifican una temática de mercado.
type MarketCategory struct {
	Key      string
	Name     string
	Keywords []string
}

// marketCategories está en orden fijo: Categorize devuelve las etiquetas en este orden.
// El match es por substring (no por palabra completa): "un" matchea dentro de "sunday".
var marketCategories = []MarketCategory{
	{Key: "politics", Name: "Politics", Keywords: []string{
		"trump", "biden", "election", "president", "congress", "senate", "governor", "vote",
		"democrat", "republican", "political", "cabinet", "administration", "executive order",
		"impeach", "poll",
	}},
	{Key: "crypto", Name: "Crypto", Keywords: []string{
		"bitcoin", "btc", "ethereum", "eth", "crypto", "token", "solana", "sol", "doge",
		"memecoin", "blockchain", "defi", "nft", "altcoin", "binance",
	}},
	{Key: "sports", Name: "Sports", Keywords: []string{
		"nfl", "nba", "mlb", "nhl", "ufc", "soccer", "football", "basketball", "baseball",
		"hockey", "tennis", "golf", "championship", "super bowl", "world series", "playoffs",
		"mvp", "f1", "formula",
	}},
	{Key: "science", Name: "Science & Tech", Keywords: []string{
		"ai", "artificial intelligence", "spacex", "nasa", "climate", "covid", "vaccine", "fda",
		"study", "research", "tech", "apple", "google", "microsoft", "openai", "chatgpt", "agi",
	}},
	{Key: "entertainment", Name: "Entertainment", Keywords: []string{
		"movie", "film", "oscar", "grammy", "emmy", "celebrity", "album", "music",
		"taylor swift", "kanye", "netflix", "disney", "streaming", "box office", "award",
	}},
	{Key: "business", Name: "Business & Finance", Keywords: []string{
		"stock", "market", "s&p", "nasdaq", "fed", "interest rate", "inflation", "gdp",
		"unemployment", "earnings", "ipo", "merger", "acquisition", "recession", "economy",
	}},
	{Key: "world", Name: "Geopolitics/War", Keywords: []string{
		"war", "ukraine", "russia", "china", "israel", "gaza", "iran", "north korea", "nato",
		"un", "treaty", "sanctions", "military", "conflict",
	}},
	{Key: "weather", Name: "Weather", Keywords: []string{
		"weather", "temperature", "hurricane", "storm", "tropical", "rainfall", "snow",
		"celsius", "fahrenheit", "forecast", "tornado", "flood", "drought", "heatwave", "cold",
		"winter", "monsoon", "cyclone", "climate change", "el nino", "la nina",
	}},
}

// MarketCategories devuelve la tabla de categorías en su orden canónico.
func MarketCategories() []MarketCategory {
	out := make([]MarketCategory, len(marketCategories))
	copy(out, marketCategories)
	return out
}

// Categorize devuelve todas las categorías cuyo algún keyword aparece en el título.
// Nunca devuelve un slice vacío: sin match → ["other"].
func Categorize(title string) []string {
	lower := strings.ToLower(title)

	var cats []string
	for _, c := range marketCategories {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				cats = append(cats, c.Key)
				break
			}
		}
	}
	if len(cats) == 0 {
		return []string{CategoryOther}
	}
	return cats
}
