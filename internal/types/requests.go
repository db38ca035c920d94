package types

// ------------------------------
// Request Types
// ------------------------------

// LoginRequest holds credentials for password login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RatingRequest is the body for both submit (POST) and update (PUT).
// The backend identifies the caller from the bearer token, so no userId
// travels in the body.
type RatingRequest struct {
	MovieID int     `json:"movieId"`
	Score   float64 `json:"score"`
	Comment string  `json:"comment"`
}

// CheckInRequest records today's check-in for a user.
type CheckInRequest struct {
	UserID string `json:"userId"`
}
