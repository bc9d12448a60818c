package bot

import (
	"fmt"
	"html"
	"strings"

	"userlens-bot/internal/model"
)

// formatUserCaption builds the photo caption for a profile card. Optional
// fields that came back empty are left out entirely.
func formatUserCaption(user *model.User) string {
	lines := []string{fmt.Sprintf("👤 %s (@%s)", user.Name, user.Login)}
	if user.Bio != "" {
		lines = append(lines, "📖 "+user.Bio)
	}
	if user.Company != "" {
		lines = append(lines, "🏢 "+user.Company)
	}
	if user.Location != "" {
		lines = append(lines, "📍 "+user.Location)
	}
	lines = append(lines, fmt.Sprintf("👥 %d followers · 📦 %d public repos",
		user.Followers, user.PublicRepos))

	caption := strings.Join(lines, "\n")
	if len(caption) > telegramCaptionLimit {
		return caption[:telegramCaptionLimit-3] + "..."
	}
	return caption
}

// formatProfileLink renders the profile as an HTML anchor for text messages.
func formatProfileLink(user *model.User) string {
	return fmt.Sprintf(`<a href="%s">%s (@%s)</a>`,
		user.ProfileURL, html.EscapeString(user.Name), html.EscapeString(user.Login))
}
