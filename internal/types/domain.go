package types

import "time"

// ------------------------------
// Core Domain Entities
// ------------------------------

// UserProfile is a read-only snapshot of the authenticated user.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session holds the credentials and cached profile for the current user.
// Persisted all-or-none by the session store.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	User         *UserProfile `json:"user,omitempty"`
}

// Genre is a movie genre as returned by the detail endpoint.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is a read-only projection of the backend catalog. List endpoints
// populate GenreIDs; the detail endpoint populates Genres, Runtime, Budget
// and Revenue.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
	Genres       []Genre `json:"genres,omitempty"`
	Runtime      *int    `json:"runtime,omitempty"`
	Budget       *int64  `json:"budget,omitempty"`
	Revenue      *int64  `json:"revenue,omitempty"`
}

// Rating is one user's rating of one movie. The backend enforces at most one
// rating per (userId, movieId) pair.
type Rating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	MovieID   int       `json:"movieId"`
	Score     float64   `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RatingStats aggregates ratings for a movie.
type RatingStats struct {
	MovieID      int     `json:"movieId"`
	AverageScore float64 `json:"averageScore"`
	TotalRatings int64   `json:"totalRatings"`
}

// SignInRecord is the result of a daily check-in. SignDate is a calendar date
// in "2006-01-02" form; the backend keys records by (userId, signDate).
type SignInRecord struct {
	ID             int64  `json:"id"`
	UserID         string `json:"userId"`
	SignDate       string `json:"signDate"`
	TotalSignCount int64  `json:"totalSignCount"`
}

// SignHistory summarises a user's check-in record.
type SignHistory struct {
	TodaySigned     bool     `json:"todaySigned"`
	ConsecutiveDays int      `json:"consecutiveDays"`
	TotalDays       int      `json:"totalDays"`
	RecentDates     []string `json:"recentDates,omitempty"`
}

// BadgeType distinguishes which activity counter a badge tracks.
type BadgeType string

const (
	BadgeTypeSign   BadgeType = "SIGN"
	BadgeTypeRating BadgeType = "RATING"
)

// BadgeLevel is the tier of a badge.
type BadgeLevel string

const (
	BadgeLevelBronze   BadgeLevel = "Bronze"
	BadgeLevelSilver   BadgeLevel = "Silver"
	BadgeLevelGold     BadgeLevel = "Gold"
	BadgeLevelPlatinum BadgeLevel = "Platinum"
)

// Badge is a backend-computed achievement. EarnedAt is nil for catalog
// entries the user has not unlocked.
type Badge struct {
	ID          string     `json:"id,omitempty"`
	UserID      string     `json:"userId,omitempty"`
	BadgeName   string     `json:"badgeName"`
	BadgeType   BadgeType  `json:"badgeType"`
	BadgeLevel  BadgeLevel `json:"badgeLevel"`
	Description string     `json:"description"`
	EarnedAt    *time.Time `json:"earnedAt,omitempty"`
}

// SignDateLayout is the wire format of SignInRecord.SignDate.
const SignDateLayout = "2006-01-02"

// TodayUTC returns today's calendar date in UTC, matching the backend's
// check-in day boundary.
func TodayUTC() string {
	return time.Now().UTC().Format(SignDateLayout)
}
