package catalog

var defaultItems = map[Category][]Item{
	CategoryVegetables: {
		{Name: "Pomidorai", Emoji: "🍅"},
		{Name: "Bulvės", Emoji: "🥔"},
		{Name: "Svogūnai", Emoji: "🧅"},
		{Name: "Morkos", Emoji: "🥕"},
		{Name: "Paprikos", Emoji: "🫑"},
		{Name: "Salotos", Emoji: "🥬"},
		{Name: "Agurkai", Emoji: "🥒"},
		{Name: "Brokoliai", Emoji: "🥦"},
		{Name: "Špinatai", Emoji: "🍃"},
		{Name: "Česnakai", Emoji: "🧄"},
		{Name: "Grybai", Emoji: "🍄"},
		{Name: "Cukinijos", Emoji: "🥒"},
		{Name: "Kopūstai", Emoji: "🥬"},
		{Name: "Salierai", Emoji: "🥬"},
		{Name: "Baklažanai", Emoji: "🍆"},
	},
	CategoryFruits: {
		{Name: "Obuoliai", Emoji: "🍎"},
		{Name: "Bananai", Emoji: "🍌"},
		{Name: "Apelsinai", Emoji: "🍊"},
		{Name: "Citrina", Emoji: "🍋"},
		{Name: "Žalioji citrina", Emoji: "🍋"},
		{Name: "Braškės", Emoji: "🍓"},
		{Name: "Mėlynės", Emoji: "🫐"},
		{Name: "Vynuogės", Emoji: "🍇"},
		{Name: "Ananasai", Emoji: "🍍"},
		{Name: "Mangai", Emoji: "🥭"},
		{Name: "Kriaušės", Emoji: "🍐"},
		{Name: "Slyvos", Emoji: "🫐"},
		{Name: "Persikai", Emoji: "🍑"},
		{Name: "Abrikosai", Emoji: "🍑"},
		{Name: "Avietės", Emoji: "🫐"},
	},
	CategoryProteins: {
		{Name: "Vištiena", Emoji: "🍗"},
		{Name: "Jautiena", Emoji: "🥩"},
		{Name: "Kiauliena", Emoji: "🥓"},
		{Name: "Žuvis", Emoji: "🐟"},
		{Name: "Kiaušiniai", Emoji: "🥚"},
		{Name: "Tofu", Emoji: "🧊"},
		{Name: "Pupelės", Emoji: "🫘"},
		{Name: "Lęšiai", Emoji: "🫘"},
		{Name: "Malta mėsa", Emoji: "🍖"},
		{Name: "Krevetės", Emoji: "🦐"},
		{Name: "Tunas", Emoji: "🐟"},
		{Name: "Lašiša", Emoji: "🐟"},
		{Name: "Kalakutiena", Emoji: "🦃"},
		{Name: "Avinžirniai", Emoji: "🫘"},
		{Name: "Riešutai", Emoji: "🥜"},
	},
	CategoryDairy: {
		{Name: "Pienas", Emoji: "🥛"},
		{Name: "Sūris", Emoji: "🧀"},
		{Name: "Jogurtas", Emoji: "🥛"},
		{Name: "Sviestas", Emoji: "🧈"},
		{Name: "Grietinėlė", Emoji: "🥛"},
		{Name: "Grietinė", Emoji: "🥛"},
		{Name: "Varškė", Emoji: "🧀"},
		{Name: "Plakamoji grietinėlė", Emoji: "🥛"},
		{Name: "Tepamas sūris", Emoji: "🧀"},
		{Name: "Mascarpone", Emoji: "🧀"},
		{Name: "Mocarela", Emoji: "🧀"},
		{Name: "Parmezanas", Emoji: "🧀"},
		{Name: "Feta", Emoji: "🧀"},
		{Name: "Kefyras", Emoji: "🥛"},
	},
	CategoryGrains: {
		{Name: "Ryžiai", Emoji: "🍚"},
		{Name: "Makaronai", Emoji: "🍝"},
		{Name: "Duona", Emoji: "🍞"},
		{Name: "Miltai", Emoji: "🌾"},
		{Name: "Avižos", Emoji: "🌾"},
		{Name: "Bolivinė balanda", Emoji: "🌾"},
		{Name: "Kuskusas", Emoji: "🌾"},
		{Name: "Lakštiniai", Emoji: "🍝"},
		{Name: "Tortilijos", Emoji: "🫓"},
		{Name: "Grikiai", Emoji: "🌾"},
		{Name: "Perlinės kruopos", Emoji: "🌾"},
		{Name: "Manų kruopos", Emoji: "🌾"},
		{Name: "Speltos miltai", Emoji: "🌾"},
	},
	CategoryOther: {
		{Name: "Aliejus", Emoji: "🫗"},
		{Name: "Druska", Emoji: "🧂"},
		{Name: "Pipirai", Emoji: "🌶️"},
		{Name: "Cukrus", Emoji: "🧂"},
		{Name: "Actas", Emoji: "🫗"},
		{Name: "Sojos padažas", Emoji: "🫗"},
		{Name: "Pomidorų padažas", Emoji: "🥫"},
		{Name: "Prieskoniai", Emoji: "🌿"},
		{Name: "Medus", Emoji: "🍯"},
		{Name: "Majonezas", Emoji: "🥚"},
		{Name: "Garstyčios", Emoji: "🟡"},
		{Name: "Kečupas", Emoji: "🥫"},
		{Name: "Džemas", Emoji: "🫐"},
		{Name: "Uogienė", Emoji: "🫐"},
		{Name: "Šokoladas", Emoji: "🍫"},
	},
}
