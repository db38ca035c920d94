package types

// ------------------------------
// Response Types
// ------------------------------

// LoginResponse mirrors POST /api/auth/login.
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *UserProfile `json:"user,omitempty"`
}

// RefreshResponse mirrors POST /api/auth/refresh.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// MoviePage is the paginated envelope of the movie endpoints
// (results/page/total_pages/total_results).
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// RatingPage is the paginated envelope of the rating list endpoints
// (content/totalElements/totalPages/number/size).
type RatingPage struct {
	Content       []Rating `json:"content"`
	TotalElements int64    `json:"totalElements"`
	TotalPages    int      `json:"totalPages"`
	Number        int      `json:"number"`
	Size          int      `json:"size"`
}
