package rankmdx

import "strings"

// DefaultCategory is used when the model suggests no known category.
const DefaultCategory = "productos"

// Categories is the closed set of article categories.
var Categories = []string{
	"tecnologia",
	"hogar",
	"cocina",
	"deportes",
	"salud",
	"belleza",
	"jardin",
	"mascotas",
	"bebes",
	"motor",
	"oficina",
	"juguetes",
	"moda",
	DefaultCategory,
}

var categoryAliases = map[string]string{
	"electronica":       "tecnologia",
	"informatica":       "tecnologia",
	"gaming":            "tecnologia",
	"deporte":           "deportes",
	"fitness":           "deportes",
	"bebe":              "bebes",
	"jardineria":        "jardin",
	"mascota":           "mascotas",
	"juguete":           "juguetes",
	"coche":             "motor",
	"coches":            "motor",
	"electrodomesticos": "hogar",
	"cuidado personal":  "belleza",
}

// NormalizeCategory maps a suggested category into the closed set,
// ignoring case and accents. Unknown values fall back to DefaultCategory.
func NormalizeCategory(s string) string {
	key := strings.ToLower(strings.TrimSpace(foldAccents(s)))
	for _, c := range Categories {
		if key == c {
			return c
		}
	}
	if c, ok := categoryAliases[key]; ok {
		return c
	}
	return DefaultCategory
}
