package address

import (
	"time"

	"github.com/google/uuid"

	"recycle-rewards-backend/pkg/location"
)

// Address is a pickup location owned by one user.
// At most one address per user is primary.
type Address struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Street    string    `json:"street"`
	Ward      string    `json:"ward"`
	District  string    `json:"district"`
	City      string    `json:"city"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	IsPrimary bool      `json:"isPrimary"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Point returns the coordinates when both are set.
func (a *Address) Point() (location.Point, bool) {
	if a.Latitude == nil || a.Longitude == nil {
		return location.Point{}, false
	}
	return location.Point{Lat: *a.Latitude, Lng: *a.Longitude}, true
}

func (a *Address) OwnedBy(userID uuid.UUID) bool {
	return a.UserID == userID
}
