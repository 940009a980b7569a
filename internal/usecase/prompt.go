package usecase

import (
	"fmt"
	"strings"

	"portfolio-chat/internal/domain"
)

const (
	userLabel      = "User"
	assistantLabel = "Assistant"
)

// DefaultKeywords trigger the developer-info reply instead of a model call.
var DefaultKeywords = []string{
	"who made you",
	"who created you",
	"who developed you",
	"who built you",
	"developer",
	"creator",
	"author",
	"owner",
	"pritam",
	"modak",
	"contact",
	"phone",
	"email",
	"address",
	"personal details",
}

// DefaultGenerationConfig is sent with every generation request.
var DefaultGenerationConfig = domain.GenerationConfig{
	Temperature:     0.7,
	TopP:            0.95,
	TopK:            40,
	MaxOutputTokens: 1000,
}

// BuildPrompt flattens history and the active utterance into one prompt.
// History entries are replayed verbatim, one paragraph each.
func BuildPrompt(history []domain.Message, utterance string) string {
	var sb strings.Builder
	for _, m := range history {
		sb.WriteString(roleLabel(m))
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n\n")
	}
	sb.WriteString(userLabel)
	sb.WriteString(": ")
	sb.WriteString(utterance)
	sb.WriteString("\n\n")
	sb.WriteString(assistantLabel)
	sb.WriteString(":")
	return sb.String()
}

func roleLabel(m domain.Message) string {
	if m.IsUser() {
		return userLabel
	}
	return assistantLabel
}

// MatchKeyword returns the first keyword contained in utterance, ignoring case.
func MatchKeyword(utterance string, keywords []string) (string, bool) {
	lowered := strings.ToLower(utterance)
	for _, k := range keywords {
		if strings.Contains(lowered, k) {
			return k, true
		}
	}
	return "", false
}

// FormatDeveloperInfo renders the canned intercept reply.
func FormatDeveloperInfo(info domain.DeveloperInfo) string {
	return fmt.Sprintf(
		"This chatbot was developed by %s.\n\nContact Information:\nPhone: %s\nEmail: %s\nAddress: %s",
		info.Name,
		info.Phone,
		info.Email,
		info.Address,
	)
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		out = append(out, k)
	}
	return out
}
