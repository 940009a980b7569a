package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"portfolio-chat/internal/domain"
)

func TestDraft_Tags(t *testing.T) {
	d := NewDraft()
	d.AddTag("React")
	d.AddTag("  ")
	d.AddTag("Go")
	d.AddTag("Postgres")
	require.Equal(t, []string{"React", "Go", "Postgres"}, d.Tags)

	d.RemoveTag(1)
	require.Equal(t, []string{"React", "Postgres"}, d.Tags)

	d.RemoveTag(-1)
	d.RemoveTag(5)
	require.Equal(t, []string{"React", "Postgres"}, d.Tags)
}

func TestDraft_RemoveTagDoesNotAliasItems(t *testing.T) {
	d := Draft{Title: "t", Description: "d", Tags: []string{"a", "b", "c"}}
	item := d.Item("id", time.Time{})
	d.RemoveTag(0)
	require.Equal(t, []string{"a", "b", "c"}, item.Tags)
}

func TestDraft_ItemDefaultsImage(t *testing.T) {
	d := Draft{Title: "t", Description: "d", ImageURL: " "}
	require.Equal(t, domain.DefaultPortfolioImageURL, d.Item("id", time.Time{}).ImageURL)

	d.ImageURL = "https://example.com/a.png"
	require.Equal(t, "https://example.com/a.png", d.Item("id", time.Time{}).ImageURL)
}

func TestDraft_Complete(t *testing.T) {
	require.False(t, NewDraft().Complete())
	require.False(t, Draft{Title: "t"}.Complete())
	require.True(t, Draft{Title: "t", Description: "d"}.Complete())
}
