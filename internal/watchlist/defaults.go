package watchlist

import "github.com/alejandrodnm/polywatch/internal/domain"

// defaultTraders es la watchlist inicial cuando el almacén está vacío.
var defaultTraders = []domain.WatchlistEntry{
	{
		ID:          "kch123",
		Name:        "kch123",
		DisplayName: "Aggravating-Grin",
		Wallet:      "0x6a72f61820b26b1fe4d956e17b6dc2a1ea3033ee",
		ProfileURL:  "https://polymarket.com/@kch123",
		JoinDate:    "June 2025",
	},
	{
		ID:          "sovereign2013",
		Name:        "sovereign2013",
		DisplayName: "Ultimate-Locality",
		Wallet:      "0xee613b3fc183ee44f9da9c05f53e2da107e3debf",
		ProfileURL:  "https://polymarket.com/@sovereign2013",
		JoinDate:    "July 2025",
	},
	{
		ID:          "swisstony",
		Name:        "swisstony",
		DisplayName: "prada flip flops",
		Wallet:      "0x204f72f35326db932158cba6adff0b9a1da95e14",
		ProfileURL:  "https://polymarket.com/@swisstony",
		JoinDate:    "July 2025",
	},
	{
		ID:          "RN1",
		Name:        "RN1",
		DisplayName: "Scary-Edible",
		Wallet:      "0x2005d16a84ceefa912d4e380cd32e7ff827875ea",
		ProfileURL:  "https://polymarket.com/@RN1",
		JoinDate:    "December 2024",
	},
	{
		ID:          "SeriouslySirius",
		Name:        "SeriouslySirius",
		DisplayName: "Lumbering-Leisure",
		Wallet:      "0x16b29c50f2439faf627209b2ac0c7bbddaa8a881",
		ProfileURL:  "https://polymarket.com/@SeriouslySirius",
		JoinDate:    "October 2025",
	},
	{
		ID:          "rwo",
		Name:        "rwo",
		DisplayName: "Smart-Compassion",
		Wallet:      "0xd189664c5308903476f9f079820431e4fd7d06f4",
		ProfileURL:  "https://polymarket.com/@rwo",
		JoinDate:    "October 2024",
	},
	{
		ID:          "PurpleThunderBicycleMountain",
		Name:        "PurpleThunderBicycleMountain",
		DisplayName: "PurpleThunder",
		Wallet:      "0x589222a5124a96765443b97a3498d89ffd824ad2",
		ProfileURL:  "https://polymarket.com/@PurpleThunderBicycleMountain",
		JoinDate:    "December 2025",
	},
	{
		ID:          "BoshBashBish",
		Name:        "BoshBashBish",
		DisplayName: "Made-Up-Minion",
		Wallet:      "0x29bc82f761749e67fa00d62896bc6855097b683c",
		ProfileURL:  "https://polymarket.com/@BoshBashBish",
		JoinDate:    "December 2025",
	},
	{
		ID:          "0x8dxd",
		Name:        "0x8dxd",
		DisplayName: "Blushing-Fine",
		Wallet:      "0x63ce342161250d705dc0b16df89036c8e5f9ba9a",
		ProfileURL:  "https://polymarket.com/@0x8dxd",
		JoinDate:    "December 2025",
	},
	{
		ID:          "absol",
		Name:        "absol",
		DisplayName: "Colorless-Fantasy",
		Wallet:      "0x22292decebf2e9146b27fe59404d162447ea6bf8",
		ProfileURL:  "https://polymarket.com/@absol",
		JoinDate:    "December 2025",
	},
	{
		ID:          "securebet",
		Name:        "securebet",
		DisplayName: "Unaware-Scimitar",
		Wallet:      "0xaa7a74b8c754e8aacc1ac2dedb699af0a3224d23",
		ProfileURL:  "https://polymarket.com/@securebet",
		JoinDate:    "July 2024",
	},
	{
		ID:          "1234765",
		Name:        "1234765",
		DisplayName: "Kosher-Goal",
		Wallet:      "0x1ef153afde69f29e7803cafef81a577b8b103713",
		ProfileURL:  "https://polymarket.com/@1234765",
		JoinDate:    "January 2026",
	},
	{
		ID:          "0x594edB9112f526Fa6A80b8F858A6379C8A2c1C11-1762688003124",
		Name:        "0x594e...3124",
		DisplayName: "Fussy-Expedition",
		Wallet:      "0x594edB9112f526Fa6A80b8F858A6379C8A2c1C11",
		ProfileURL:  "https://polymarket.com/@0x594edB9112f526Fa6A80b8F858A6379C8A2c1C11-1762688003124",
		JoinDate:    "November 2025",
	},
	{
		ID:          "TeemuTeemuTeemu",
		Name:        "TeemuTeemuTeemu",
		DisplayName: "Grubby-Segment",
		Wallet:      "0x5388bc8cb72eb19a3bec0e8f3db6a77f7cd54d5a",
		ProfileURL:  "https://polymarket.com/@TeemuTeemuTeemu",
		JoinDate:    "July 2025",
	},
	{
		ID:          "Account88888",
		Name:        "Account88888",
		DisplayName: "Disguised-Duster",
		Wallet:      "0x7f69983eb28245bba0d5083502a78744a8f66162",
		ProfileURL:  "https://polymarket.com/@Account88888",
		JoinDate:    "December 2025",
	},
	{
		ID:          "0x3585558D59C5Ee4A53BB552C2dB9f5C518fE7c02-1768265321304",
		Name:        "0x3585...1304",
		DisplayName: "Oblong-Salsa",
		Wallet:      "0x3585558d59c5ee4a53bb552c2db9f5c518fe7c02",
		ProfileURL:  "https://polymarket.com/@0x3585558D59C5Ee4A53BB552C2dB9f5C518fE7c02-1768265321304",
		JoinDate:    "January 2026",
	},
	{
		ID:          "distinct-baguette",
		Name:        "distinct-baguette",
		DisplayName: "Frozen-Technician",
		Wallet:      "0xe00740bce98a594e26861838885ab310ec3b548c",
		ProfileURL:  "https://polymarket.com/@distinct-baguette",
		JoinDate:    "October 2025",
	},
	{
		ID:          "BK9496",
		Name:        "BK9496",
		DisplayName: "BK9496",
		Wallet:      "0xb3dda8a76f79f132b6f1a4b3c89f47474ea4a7e0",
		ProfileURL:  "https://polymarket.com/@BK9496",
		JoinDate:    "August 2025",
	},
	{
		ID:          "gmanas",
		Name:        "gmanas",
		DisplayName: "Wicked-Rap",
		Wallet:      "0xe90bec87d9ef430f27f9dcfe72c34b76967d5da2",
		ProfileURL:  "https://polymarket.com/@gmanas",
		JoinDate:    "November 2025",
	},
	{
		ID:          "0xf2e346ab",
		Name:        "0xf2e346ab",
		DisplayName: "Firsthand-Advantage",
		Wallet:      "0x8278252ebbf354eca8ce316e680a0eaf02859464",
		ProfileURL:  "https://polymarket.com/@0xf2e346ab",
		JoinDate:    "April 2025",
	},
	{
		ID:          "automatedAItradingbot",
		Name:        "automatedAItradingbot",
		DisplayName: "Smooth-Servitude",
		Wallet:      "0xd8f8c13644ea84d62e1ec88c5d1215e436eb0f11",
		ProfileURL:  "https://polymarket.com/@automatedAItradingbot",
		JoinDate:    "January 2025",
	},
	{
		ID:          "archaic",
		Name:        "archaic",
		DisplayName: "Dull-Universe",
		Wallet:      "0x1f0a343513aa6060488fabe96960e6d1e177f7aa",
		ProfileURL:  "https://polymarket.com/@archaic",
		JoinDate:    "December 2021",
	},
	{
		ID:          "gabagool22",
		Name:        "gabagool22",
		DisplayName: "Grown-Cantaloupe",
		Wallet:      "0x6031b6eed1c97e853c6e0f03ad3ce3529351f96d",
		ProfileURL:  "https://polymarket.com/@gabagool22",
		JoinDate:    "October 2025",
	},
}

// Defaults devuelve una copia de la watchlist inicial.
func Defaults() []domain.WatchlistEntry {
	out := make([]domain.WatchlistEntry, len(defaultTraders))
	copy(out, defaultTraders)
	return out
}
