package models

import "time"

// RegisteredUser is a stored registration. Numeric measurements are nil when
// the client left them empty.
type RegisteredUser struct {
	ID          string    `json:"id" bson:"-"`
	Username    string    `json:"username" bson:"username"`
	Gender      string    `json:"gender" bson:"gender"`
	Email       string    `json:"email" bson:"email"`
	Age         *int64    `json:"age" bson:"age"`
	Weight      *float64  `json:"weight" bson:"weight"`
	Height      *float64  `json:"height" bson:"height"`
	PulseRate   *int64    `json:"pulse_rate" bson:"pulse_rate"`
	Temperature *float64  `json:"temperature" bson:"temperature"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
