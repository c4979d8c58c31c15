package catalog

import "github.com/abhisek/cermat/internal/profile"

// Default returns the initial lesson catalog of a new account. The first
// lesson of each subject starts unlocked.
func Default() Catalog {
	return Catalog{
		{ID: "cz-1", Title: "Pravopis I/Y", Subject: profile.SubjectCzech, Topic: "pravopis i/y ve vyjmenovaných slovech a koncovkách"},
		{ID: "cz-2", Title: "Větný rozbor", Subject: profile.SubjectCzech, Topic: "větné členy, podmět a přísudek", IsLocked: true},
		{ID: "cz-3", Title: "Literatura", Subject: profile.SubjectCzech, Topic: "čeští autoři 19. a 20. století", IsLocked: true},
		{ID: "cz-4", Title: "Porozumění", Subject: profile.SubjectCzech, Topic: "porozumění textu a stylistika", IsLocked: true},

		{ID: "m-1", Title: "Zlomky", Subject: profile.SubjectMath, Topic: "sčítání, odčítání a krácení zlomků"},
		{ID: "m-2", Title: "Rovnice", Subject: profile.SubjectMath, Topic: "lineární rovnice o jedné neznámé", IsLocked: true},
		{ID: "m-3", Title: "Geometrie", Subject: profile.SubjectMath, Topic: "obvody a obsahy rovinných útvarů", IsLocked: true},
		{ID: "m-4", Title: "Procenta", Subject: profile.SubjectMath, Topic: "výpočty s procenty a trojčlenka", IsLocked: true},
	}
}
