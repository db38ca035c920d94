package cinequest

import (
	"github.com/cinequest/cinequest-go/internal/badges"
	"github.com/cinequest/cinequest-go/internal/session"
	"github.com/cinequest/cinequest-go/internal/types"
)

// Aliases re-exporting the wire and domain types callers work with.
type (
	UserProfile  = types.UserProfile
	Session      = types.Session
	Claims       = session.Claims
	Genre        = types.Genre
	Movie        = types.Movie
	MoviePage    = types.MoviePage
	Rating       = types.Rating
	RatingPage   = types.RatingPage
	RatingStats  = types.RatingStats
	SignInRecord = types.SignInRecord
	SignHistory  = types.SignHistory
	Badge        = types.Badge
	BadgeType    = types.BadgeType
	BadgeLevel   = types.BadgeLevel
	BadgeStatus  = badges.Status

	RatingRequest = types.RatingRequest
)

// Badge taxonomy.
const (
	BadgeTypeSign   = types.BadgeTypeSign
	BadgeTypeRating = types.BadgeTypeRating

	BadgeLevelBronze   = types.BadgeLevelBronze
	BadgeLevelSilver   = types.BadgeLevelSilver
	BadgeLevelGold     = types.BadgeLevelGold
	BadgeLevelPlatinum = types.BadgeLevelPlatinum
)

// Input validation helpers, exported for callers that build requests by
// hand.
var (
	ValidateScore         = types.ValidateScore
	ValidateComment       = types.ValidateComment
	ValidateRatingRequest = types.ValidateRatingRequest
)

// BadgeCatalog returns the full static badge catalog in display order.
func BadgeCatalog() []badges.CatalogEntry { return badges.Catalog }
