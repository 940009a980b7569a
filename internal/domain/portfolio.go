package domain

import "time"

// DefaultPortfolioImageURL is used when a portfolio entry has no image.
const DefaultPortfolioImageURL = "/placeholder.svg?height=200&width=400"

// PortfolioItem is a single project card shown on the portfolio page.
type PortfolioItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}
