package domain

import "time"

// Profile is the signed-in administrator's own profile as edited on the settings page.
type Profile struct {
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Credentials is the admin sign-in form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is what a simulated sign-in hands back to the portal.
type Session struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirectTo"`
}
