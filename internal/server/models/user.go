// Package models defines the User entity served by the API and the partial
// payload used to update it.
package models

// User is the persisted entity. Username is the primary key.
type User struct {
	Gender     string   `json:"gender"`
	Name       Name     `json:"name"`
	Location   Location `json:"location"`
	Email      string   `json:"email"`
	Username   string   `json:"username"`
	Password   string   `json:"password"`
	Salt       string   `json:"salt"`
	MD5        string   `json:"md5"`
	SHA1       string   `json:"sha1"`
	SHA256     string   `json:"sha256"`
	Registered int64    `json:"registered"` // unix seconds
	Dob        int64    `json:"dob"`        // unix seconds
	Phone      string   `json:"phone"`
	Cell       string   `json:"cell"`
	PPS        string   `json:"PPS"`
	Picture    Picture  `json:"picture"`
}

// Name is owned by exactly one User.
type Name struct {
	Title string `json:"title"`
	First string `json:"first"`
	Last  string `json:"last"`
}

// Location is owned by exactly one User.
type Location struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    int64  `json:"zip"`
}

// Picture holds avatar URLs. Owned by exactly one User.
type Picture struct {
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Thumbnail string `json:"thumbnail"`
}
