package entities

import "database/sql"

// ReferenceLocation is one postal code of the configured region.
// City, county and timezone are carried through for logging only.
type ReferenceLocation struct {
	ID       int64          `db:"id"`           // integer
	Zip      string         `db:"zip"`          // varchar(10)
	State    string         `db:"state"`        // varchar(255)
	City     sql.NullString `db:"primary_city"` // nullable varchar(255)
	County   sql.NullString `db:"county"`       // nullable varchar(255)
	Timezone sql.NullString `db:"timezone"`     // nullable varchar(255)
}
