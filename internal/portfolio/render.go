package portfolio

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"portfolio-chat/internal/domain"
)

// EmptyState is shown when no projects have been added.
const EmptyState = "No projects added yet. Use the assistant to add some!"

var cardsTemplate = template.Must(template.New("cards").Parse(`<section id="portfolio-items">
<h2>Added Projects</h2>
{{- if not .}}
<p class="empty">` + EmptyState + `</p>
{{- else}}
{{- range .}}
<article class="portfolio-card" data-id="{{.ID}}">
  <img src="{{.ImageURL}}" alt="{{.Title}}">
  <h3>{{.Title}}</h3>
  <p>{{.Description}}</p>
  {{- if .Tags}}
  <ul class="tags">{{range .Tags}}<li>{{.}}</li>{{end}}</ul>
  {{- end}}
</article>
{{- end}}
{{- end}}
</section>
`))

// RenderHTML writes the items as escaped HTML cards.
func RenderHTML(w io.Writer, items []domain.PortfolioItem) error {
	if err := cardsTemplate.Execute(w, items); err != nil {
		return fmt.Errorf("portfolio: render html: %w", err)
	}
	return nil
}

// RenderMarkdown returns the items as a markdown list suitable for a terminal.
func RenderMarkdown(items []domain.PortfolioItem) string {
	if len(items) == 0 {
		return EmptyState + "\n"
	}
	var sb strings.Builder
	sb.WriteString("## Added Projects\n")
	for _, it := range items {
		fmt.Fprintf(&sb, "\n### %s\n\n%s\n", it.Title, it.Description)
		if len(it.Tags) > 0 {
			tags := make([]string, len(it.Tags))
			for i, t := range it.Tags {
				tags[i] = "`" + t + "`"
			}
			fmt.Fprintf(&sb, "\n%s\n", strings.Join(tags, " "))
		}
	}
	return sb.String()
}
