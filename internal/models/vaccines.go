package models

// Vaccine is an entry of the vaccine reminder menu.
type Vaccine struct {
	Slug  string
	Title string
}

// VaccineOther is offered for every species.
var VaccineOther = Vaccine{Slug: "other", Title: "Other vaccine"}

var (
	dogVaccines = []Vaccine{
		{Slug: "rabies", Title: "Rabies"},
		{Slug: "dhppi", Title: "DHPPi"},
		{Slug: "lepto", Title: "Leptospirosis"},
		VaccineOther,
	}
	catVaccines = []Vaccine{
		{Slug: "rabies", Title: "Rabies"},
		{Slug: "fvrcp", Title: "Panleukopenia, rhinotracheitis, calicivirus"},
		VaccineOther,
	}
	otherVaccines = []Vaccine{VaccineOther}
)

// VaccinesFor returns the vaccine menu for a species.
func VaccinesFor(species Species) []Vaccine {
	switch species {
	case SpeciesDog:
		return dogVaccines
	case SpeciesCat:
		return catVaccines
	default:
		return otherVaccines
	}
}

// FindVaccine looks up a slug in the species menu. Slugs from another
// species' menu are not accepted.
func FindVaccine(species Species, slug string) (Vaccine, bool) {
	for _, v := range VaccinesFor(species) {
		if v.Slug == slug {
			return v, true
		}
	}
	return Vaccine{}, false
}
