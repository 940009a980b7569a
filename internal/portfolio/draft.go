package portfolio

import (
	"strings"
	"time"

	"portfolio-chat/internal/domain"
)

// Draft is the add-project form state.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"imageUrl"`
}

func NewDraft() Draft {
	return Draft{ImageURL: domain.DefaultPortfolioImageURL}
}

// AddTag appends a trimmed tag. Blank tags are ignored.
func (d *Draft) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	d.Tags = append(d.Tags, tag)
}

// RemoveTag drops the tag at index i. Out-of-range indexes are ignored.
func (d *Draft) RemoveTag(i int) {
	if i < 0 || i >= len(d.Tags) {
		return
	}
	d.Tags = append(d.Tags[:i:i], d.Tags[i+1:]...)
}

func (d Draft) Complete() bool {
	return d.Title != "" && d.Description != ""
}

// Item converts the draft into a portfolio item.
func (d Draft) Item(id string, createdAt time.Time) domain.PortfolioItem {
	tags := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	image := strings.TrimSpace(d.ImageURL)
	if image == "" {
		image = domain.DefaultPortfolioImageURL
	}
	return domain.PortfolioItem{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Tags:        tags,
		ImageURL:    image,
		CreatedAt:   createdAt,
	}
}
