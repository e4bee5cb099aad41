package address

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// bothOrNeither requires latitude and longitude to be set together.
func bothOrNeither(lat, lng *float64) validation.Rule {
	return validation.By(func(interface{}) error {
		if (lat == nil) != (lng == nil) {
			return validation.NewError("validation_coordinates", "latitude and longitude must be provided together")
		}
		return nil
	})
}

type CreateRequest struct {
	Street    string   `json:"street"`
	Ward      string   `json:"ward"`
	District  string   `json:"district"`
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	IsPrimary bool     `json:"isPrimary"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Street, validation.Required, validation.Length(3, 255)),
		validation.Field(&r.Ward, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.District, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.City, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Latitude, validation.Min(-90.0), validation.Max(90.0), bothOrNeither(r.Latitude, r.Longitude)),
		validation.Field(&r.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

// UpdateRequest is a partial update; primary is changed through SetPrimary.
type UpdateRequest struct {
	Street    *string  `json:"street,omitempty"`
	Ward      *string  `json:"ward,omitempty"`
	District  *string  `json:"district,omitempty"`
	City      *string  `json:"city,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Street, validation.NilOrNotEmpty, validation.Length(3, 255)),
		validation.Field(&r.Ward, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.District, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.City, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Latitude, validation.Min(-90.0), validation.Max(90.0), bothOrNeither(r.Latitude, r.Longitude)),
		validation.Field(&r.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

// Apply copies the non-nil fields onto a.
func (r UpdateRequest) Apply(a *Address) {
	if r.Street != nil {
		a.Street = *r.Street
	}
	if r.Ward != nil {
		a.Ward = *r.Ward
	}
	if r.District != nil {
		a.District = *r.District
	}
	if r.City != nil {
		a.City = *r.City
	}
	if r.Latitude != nil && r.Longitude != nil {
		a.Latitude, a.Longitude = r.Latitude, r.Longitude
	}
}
