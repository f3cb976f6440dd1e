package estimate

import "github.com/alexanderramin/studioops/internal/domain"

// Term maps one or more phrases in a project description to a catalog item.
type Term struct {
	Aliases  []string
	Category domain.Category
	Name     string // catalog item name
	Title    string // plan line title
	Unit     string
	Role     string // labor only

	// Bundle names the item terms a project noun implies. A bundle term has
	// no category of its own and only applies when no item is named.
	Bundle []string
}

// IsBundle reports whether t is a project noun rather than an item.
func (t Term) IsBundle() bool { return len(t.Bundle) > 0 }

// DefaultVocabulary is the built-in studio/set-building vocabulary.
var DefaultVocabulary = []Term{
	// materials
	{Aliases: []string{"plywood"}, Category: domain.CategoryMaterials, Name: "plywood", Title: "Plywood", Unit: "sheet"},
	{Aliases: []string{"mdf"}, Category: domain.CategoryMaterials, Name: "mdf", Title: "MDF board", Unit: "sheet"},
	{Aliases: []string{"timber", "lumber", "wood", "beam"}, Category: domain.CategoryMaterials, Name: "timber", Title: "Timber", Unit: "meter"},
	{Aliases: []string{"paint"}, Category: domain.CategoryMaterials, Name: "paint", Title: "Paint", Unit: "liter"},
	{Aliases: []string{"screw", "nail"}, Category: domain.CategoryMaterials, Name: "fasteners", Title: "Screws and fasteners", Unit: "box"},
	{Aliases: []string{"glue", "adhesive"}, Category: domain.CategoryMaterials, Name: "wood glue", Title: "Wood glue", Unit: "bottle"},
	{Aliases: []string{"hinge", "handle", "drawer"}, Category: domain.CategoryMaterials, Name: "cabinet hardware", Title: "Cabinet hardware", Unit: "set"},
	{Aliases: []string{"fabric", "curtain", "textile"}, Category: domain.CategoryMaterials, Name: "fabric", Title: "Fabric", Unit: "meter"},
	{Aliases: []string{"led", "lighting", "lamp", "bulb"}, Category: domain.CategoryMaterials, Name: "led lighting", Title: "LED lighting", Unit: "unit"},
	{Aliases: []string{"acrylic", "plexiglass", "perspex"}, Category: domain.CategoryMaterials, Name: "acrylic sheet", Title: "Acrylic sheet", Unit: "sheet"},
	{Aliases: []string{"foam"}, Category: domain.CategoryMaterials, Name: "foam board", Title: "Foam board", Unit: "sheet"},
	{Aliases: []string{"vinyl", "sticker"}, Category: domain.CategoryMaterials, Name: "vinyl print", Title: "Vinyl print", Unit: "sqm"},
	{Aliases: []string{"carpet", "rug"}, Category: domain.CategoryMaterials, Name: "carpet", Title: "Carpet", Unit: "sqm"},
	{Aliases: []string{"drywall", "gypsum"}, Category: domain.CategoryMaterials, Name: "gypsum board", Title: "Gypsum board", Unit: "sheet"},
	{Aliases: []string{"glass", "mirror"}, Category: domain.CategoryMaterials, Name: "glass panel", Title: "Glass panel", Unit: "panel"},
	{Aliases: []string{"steel", "metal", "aluminum", "aluminium"}, Category: domain.CategoryMaterials, Name: "metal profile", Title: "Metal profile", Unit: "meter"},
	{Aliases: []string{"cable", "wiring"}, Category: domain.CategoryMaterials, Name: "electrical cable", Title: "Electrical cable", Unit: "meter"},

	// labor
	{Aliases: []string{"carpenter", "carpentry", "joiner"}, Category: domain.CategoryLabor, Name: "carpenter", Title: "Carpenter", Unit: "hour", Role: "carpenter"},
	{Aliases: []string{"painter"}, Category: domain.CategoryLabor, Name: "painter", Title: "Painter", Unit: "hour", Role: "painter"},
	{Aliases: []string{"electrician"}, Category: domain.CategoryLabor, Name: "electrician", Title: "Electrician", Unit: "hour", Role: "electrician"},
	{Aliases: []string{"installer", "installation"}, Category: domain.CategoryLabor, Name: "installer", Title: "Installer", Unit: "hour", Role: "installer"},
	{Aliases: []string{"designer"}, Category: domain.CategoryLabor, Name: "designer", Title: "Designer", Unit: "hour", Role: "designer"},
	{Aliases: []string{"welder", "welding"}, Category: domain.CategoryLabor, Name: "welder", Title: "Welder", Unit: "hour", Role: "welder"},
	{Aliases: []string{"helper", "assistant"}, Category: domain.CategoryLabor, Name: "helper", Title: "Helper", Unit: "hour", Role: "helper"},
	{Aliases: []string{"technician"}, Category: domain.CategoryLabor, Name: "technician", Title: "Technician", Unit: "hour", Role: "technician"},

	// tools
	{Aliases: []string{"drill"}, Category: domain.CategoryTools, Name: "drill", Title: "Drill", Unit: "day"},
	{Aliases: []string{"saw"}, Category: domain.CategoryTools, Name: "circular saw", Title: "Circular saw", Unit: "day"},
	{Aliases: []string{"sander"}, Category: domain.CategoryTools, Name: "sander", Title: "Sander", Unit: "day"},
	{Aliases: []string{"scaffold", "scaffolding"}, Category: domain.CategoryTools, Name: "scaffolding", Title: "Scaffolding", Unit: "day"},
	{Aliases: []string{"ladder"}, Category: domain.CategoryTools, Name: "ladder", Title: "Ladder", Unit: "day"},
	{Aliases: []string{"generator"}, Category: domain.CategoryTools, Name: "generator", Title: "Generator", Unit: "day"},

	// logistics
	{Aliases: []string{"truck", "van", "delivery", "transport", "shipping"}, Category: domain.CategoryLogistics, Name: "delivery", Title: "Delivery", Unit: "trip"},
	{Aliases: []string{"crane", "forklift"}, Category: domain.CategoryLogistics, Name: "lifting", Title: "Crane / lifting", Unit: "trip"},
	{Aliases: []string{"storage", "warehouse"}, Category: domain.CategoryLogistics, Name: "storage", Title: "Storage", Unit: "month"},

	// project nouns
	{Aliases: []string{"cabinet", "cupboard", "wardrobe"}, Name: "cabinet", Bundle: []string{"plywood", "cabinet hardware", "carpenter"}},
	{Aliases: []string{"shelf", "shelves", "bookcase"}, Name: "shelving", Bundle: []string{"plywood", "fasteners", "carpenter"}},
	{Aliases: []string{"booth"}, Name: "booth", Bundle: []string{"timber", "plywood", "led lighting", "carpenter", "installer", "delivery"}},
	{Aliases: []string{"backdrop"}, Name: "backdrop", Bundle: []string{"timber", "fabric", "carpenter", "painter"}},
}

var numberWords = map[string]int64{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
	"dozen": 12,
}

var (
	hourUnits     = map[string]bool{"hour": true, "hours": true, "hr": true, "hrs": true, "h": true}
	dayUnits      = map[string]bool{"day": true, "days": true}
	distanceUnits = map[string]bool{"km": true, "kms": true, "kilometer": true, "kilometers": true, "kilometre": true, "kilometres": true}
	weightUnits   = map[string]int64{"kg": 1, "kgs": 1, "kilo": 1, "kilos": 1, "kilogram": 1, "kilograms": 1, "ton": 1000, "tons": 1000, "tonne": 1000, "tonnes": 1000}
	urgencyWords  = map[string]bool{"urgent": true, "urgently": true, "asap": true, "rush": true, "express": true}
)

// countWords follow a number to mark it as an item count for any term.
var countWords = map[string]bool{"unit": true, "units": true, "piece": true, "pieces": true, "pcs": true, "pc": true}

// unitSpellings lists other spellings of vocabulary units.
var unitSpellings = map[string][]string{
	"liter": {"litre", "l"},
	"meter": {"metre", "m"},
}

// hoursPerDay converts "N days" of labor into hours.
const hoursPerDay = 8
