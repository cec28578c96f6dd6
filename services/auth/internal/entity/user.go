package entity

import "time"

// DefaultImage is the object key every new profile points at until an
// image is uploaded.
const DefaultImage = "no-img.png"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	ImageURL  string    `json:"image_url"`
	Bio       string    `json:"bio"`
	Website   string    `json:"website"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Signup struct {
	Email           string `json:"email" example:"bob@example.com"`
	Username        string `json:"username" example:"bob"`
	Password        string `json:"password" example:"s3cret"`
	ConfirmPassword string `json:"confirmPassword" example:"s3cret"`
}

type Credentials struct {
	Email    string `json:"email" example:"bob@example.com"`
	Password string `json:"password" example:"s3cret"`
}

// Details are the optional profile fields a user edits after signup.
type Details struct {
	Bio      string `json:"bio" example:"Monkey business"`
	Website  string `json:"website" example:"example.com"`
	Location string `json:"location" example:"Berlin"`
}
