package models

// Company represents a registered company
type Company struct {
	CompID      int64      `json:"comp_id" db:"comp_id"`
	CompName    string     `json:"name" db:"comp_name"`
	CompEmail   string     `json:"email" db:"comp_email"`
	CompAddress NullString `json:"address,omitempty" db:"comp_address"`
	IsVerified  bool       `json:"is_verified" db:"is_verified"`
}

// Location represents a physical site belonging to a company
type Location struct {
	LocID      int64      `json:"loc_id" db:"loc_id"`
	CompID     int64      `json:"comp_id" db:"comp_id"`
	LocName    string     `json:"name" db:"loc_name"`
	LocAddress NullString `json:"address,omitempty" db:"loc_address"`
}
