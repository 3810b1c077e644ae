package models

// User represents a blog author as returned by the backend
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	ImageFile string `json:"image_file"`
	ImagePath string `json:"image_path"` // Resolved by the backend
}

// UserCreate is the body of POST /api/users
type UserCreate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
