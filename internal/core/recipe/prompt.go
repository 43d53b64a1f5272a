package recipe

import (
	"fmt"
	"strings"
)

const promptTemplate = `Sukurk receptą naudojant šiuos ingredientus: %s.

Receptas turi būti originalus ir įdomus.
Pateik detalias instrukcijas ir naudingus patarimus.

Atsakymą pateik JSON formatu:
{
    "receptoPavadinimas": "Patiekalo pavadinimas",
    "gaminimoLaikas": "xx min",
    "sudetingumas": "Lengvas/Vidutinis/Sudėtingas",
    "porcijos": "x porcijos",
    "ingredientai": ["ingredientas 1 (kiekis)", "ingredientas 2 (kiekis)"],
    "instrukcijos": ["1 žingsnis", "2 žingsnis"],
    "patarimai": ["patarimas 1", "patarimas 2"],
    "maistoInformacija": {
        "kalorijos": "xxx kcal",
        "baltymai": "xx g",
        "angliavandeniai": "xx g",
        "riebalai": "xx g"
    }
}

Svarbu: pateik tik gryną JSON objektą, be jokio papildomo teksto, komentarų ar markdown formatavimo (be trijų kabučių blokų).`

// BuildPrompt 組合送給模型的立陶宛語提示
func BuildPrompt(ingredients []string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(ingredients, ", "))
}
