package types

import (
	"fmt"
	"math"
)

const maxCommentLen = 500

// ValidateUserID checks that a user ID is present.
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("userId is required")
	}
	return nil
}

// ValidateMovieID checks that a movie ID is a positive catalog ID.
func ValidateMovieID(movieID int) error {
	if movieID <= 0 {
		return fmt.Errorf("movieId must be positive, got %d", movieID)
	}
	return nil
}

// ValidateScore checks that a score is within 0–10 with at most one decimal
// place, the granularity the backend stores.
func ValidateScore(score float64) error {
	if score < 0 || score > 10 {
		return fmt.Errorf("score must be between 0 and 10, got %v", score)
	}
	tenths := score * 10
	if math.Abs(tenths-math.Round(tenths)) > 1e-9 {
		return fmt.Errorf("score must have at most one decimal place, got %v", score)
	}
	return nil
}

// ValidateComment checks the rating comment length limit.
func ValidateComment(comment string) error {
	if len([]rune(comment)) > maxCommentLen {
		return fmt.Errorf("comment exceeds %d characters", maxCommentLen)
	}
	return nil
}

// ValidateRatingRequest checks a submit/update body.
func ValidateRatingRequest(req RatingRequest) error {
	if err := ValidateMovieID(req.MovieID); err != nil {
		return err
	}
	if err := ValidateScore(req.Score); err != nil {
		return err
	}
	return ValidateComment(req.Comment)
}

// ValidatePage checks a 1-based movie page number.
func ValidatePage(page int) error {
	if page < 1 {
		return fmt.Errorf("page must be >= 1, got %d", page)
	}
	return nil
}
