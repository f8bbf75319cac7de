package domain

import (
	"strings"
	"time"
)

const StaticFilesRoute = "/files"

// User is the provider/customer record owned by the account subsystem. Only
// the fields bookings and notifications refer to are modelled here.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Avatar     string    `json:"-"`
	IsProvider bool      `json:"is_provider"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AvatarURL is derived on read and never stored. serverURL is the public
// base URL of whichever service serves StaticFilesRoute.
func (u User) AvatarURL(serverURL string) string {
	if u.Avatar == "" {
		return ""
	}
	return strings.TrimRight(serverURL, "/") + StaticFilesRoute + "/" + u.Avatar
}
