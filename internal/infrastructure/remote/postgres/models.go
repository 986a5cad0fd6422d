package postgres

// The store of record keeps the document hierarchy
// fleets/{code} -> users/{id} -> trips/{tripId} -> locations/{autoId}
// as flat tables keyed the same way. Trip ids and location sample ids are
// allocated server-side as uuids.

type fleetDoc struct {
	Code        string `gorm:"column:code;primaryKey"`
	Name        string `gorm:"column:name"`
	CreatorName string `gorm:"column:creator_name"`
	CreatedAt   int64  `gorm:"column:created_at"`
}

func (fleetDoc) TableName() string {
	return "fleets"
}

type userProfileDoc struct {
	ID        string `gorm:"column:id;primaryKey"`
	FleetCode string `gorm:"column:fleet_code;index"`
	Name      string `gorm:"column:name"`
	Role      string `gorm:"column:role"`
	Vehicle   string `gorm:"column:vehicle"`
}

func (userProfileDoc) TableName() string {
	return "user_profiles"
}

type tripDoc struct {
	TripID                string   `gorm:"column:trip_id;primaryKey"`
	FleetCode             string   `gorm:"column:fleet_code;index"`
	DriverID              string   `gorm:"column:driver_id;index"`
	DriverName            string   `gorm:"column:driver_name"`
	Vehicle               string   `gorm:"column:vehicle"`
	StartedAt             int64    `gorm:"column:started_at"`
	EndedAt               *int64   `gorm:"column:ended_at"`
	IsActive              bool     `gorm:"column:is_active"`
	LastLat               *float64 `gorm:"column:last_lat"`
	LastLng               *float64 `gorm:"column:last_lng"`
	LastLocationTimestamp *int64   `gorm:"column:last_location_timestamp"`
}

func (tripDoc) TableName() string {
	return "trips"
}

type tripLocationDoc struct {
	ID        string  `gorm:"column:id;primaryKey"`
	FleetCode string  `gorm:"column:fleet_code"`
	TripID    string  `gorm:"column:trip_id;index"`
	Lat       float64 `gorm:"column:lat"`
	Lng       float64 `gorm:"column:lng"`
	Timestamp int64   `gorm:"column:timestamp"`
}

func (tripLocationDoc) TableName() string {
	return "trip_locations"
}
