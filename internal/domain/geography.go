package domain

type Region struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Location is a resolved point in the city -> district -> region tree.
// Any level may be nil when the anchor (a doctor's home city) is absent.
type Location struct {
	CityID     *int64 `db:"city_id"`
	DistrictID *int64 `db:"district_id"`
	RegionID   *int64 `db:"region_id"`
}

// DoctorLocation is a doctor together with the location of their home city.
type DoctorLocation struct {
	DoctorID int64 `db:"doctor_id"`
	Location
}
