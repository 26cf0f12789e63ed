package types

// The fourteen allergen categories of EU regulation 1169/2011. Codes are
// stored per ingredient; a recipe's allergen set is the union over its
// ingredients and is never persisted denormalized.
const (
  AllergenGluten      = "gluten"
  AllergenCrustaceans = "crustaceans"
  AllergenEggs        = "eggs"
  AllergenFish        = "fish"
  AllergenPeanuts     = "peanuts"
  AllergenSoy         = "soy"
  AllergenMilk        = "milk"
  AllergenNuts        = "nuts"
  AllergenCelery      = "celery"
  AllergenMustard     = "mustard"
  AllergenSesame      = "sesame"
  AllergenSulphites   = "sulphites"
  AllergenLupin       = "lupin"
  AllergenMolluscs    = "molluscs"
)

var AllAllergens = []string{
  AllergenGluten,
  AllergenCrustaceans,
  AllergenEggs,
  AllergenFish,
  AllergenPeanuts,
  AllergenSoy,
  AllergenMilk,
  AllergenNuts,
  AllergenCelery,
  AllergenMustard,
  AllergenSesame,
  AllergenSulphites,
  AllergenLupin,
  AllergenMolluscs,
}

var allergenSet = func() map[string]bool {
  m := make(map[string]bool, len(AllAllergens))
  for _, a := range AllAllergens {
    m[a] = true
  }
  return m
}()

func ValidAllergen(code string) bool {
  return allergenSet[code]
}
