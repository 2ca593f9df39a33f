package domain

// Branch represents a physical retail location. NameEN is the unique key;
// NameAR is the localized display label. Deleting a branch does not cascade
// to tickets or accounts referencing it.
type Branch struct {
	NameEN string `json:"name_en" db:"name_en"`
	NameAR string `json:"name_ar" db:"name_ar"`
}
