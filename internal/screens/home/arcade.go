package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/catalog"
	"github.com/abhisek/cermat/internal/profile"
	"github.com/abhisek/cermat/internal/ui/components"
	"github.com/abhisek/cermat/internal/ui/theme"
)

// renderProfileCard shows avatar, level progress and the weekly goal.
func renderProfileCard(p profile.Profile, cw int) string {
	avatar, ok := profile.FindAvatar(p.Avatar)
	if !ok {
		avatar, _ = profile.FindAvatar(profile.DefaultAvatar)
	}

	name := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("%s %s", avatar.Icon, p.Username))
	level := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
		Render(fmt.Sprintf("Úroveň %d", p.Level()))

	into, span := profile.LevelProgress(p.XP)
	barWidth := cw - 4
	xpBar := components.NewMeter("XP   ", into, span, barWidth).View()

	goal := components.NewMeter("Týden", min(p.WeeklyProgress, p.WeeklyGoal), p.WeeklyGoal, barWidth)
	goal.Fill = theme.Success
	goalBar := goal.View()

	lines := []string{name + "   " + level, xpBar, goalBar}
	if p.ActivePowerUp == profile.PowerUpDoubleXP {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render("🧪 2x XP aktivní pro další lekci"))
	}
	return components.Card(strings.Join(lines, "\n"), cw)
}

// renderSubjectTabs highlights the current subject.
func renderSubjectTabs(current profile.Subject, cw int) string {
	var tabs []string
	for _, s := range profile.AllSubjects() {
		label := s.Icon() + " " + s.DisplayName()
		if s == current {
			tabs = append(tabs, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeCyan).
				Bold(true).
				Padding(0, 1).
				Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Padding(0, 1).
				Render(label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(tabs, "  "))
}

// lessonLabel renders one node of the lesson path.
func lessonLabel(l catalog.Lesson) string {
	switch {
	case l.IsLocked:
		return "🔒 " + l.Title
	case l.IsCompleted:
		return fmt.Sprintf("%s %s", starString(l.Stars), l.Title)
	default:
		return "▶ " + l.Title
	}
}

func starString(n int) string {
	return strings.Repeat("★", n) + strings.Repeat("☆", catalog.MaxStars-n)
}

// renderNoHearts is the modal shown when an attempt is refused.
func renderNoHearts(cw int) string {
	title := lipgloss.NewStyle().Foreground(theme.Heart).Bold(true).Render("💔 Došly ti životy!")
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 8).Align(lipgloss.Center).
		Render("Nemůžeš začít novou lekci. Počkej, až se ti doplní zdraví (1 život každých 5 minut).")
	hint := theme.Hint.Render("stiskni libovolnou klávesu")
	return components.Card(title+"\n\n"+body+"\n\n"+hint, cw, components.WithAccent(theme.Heart))
}

// renderOfflineBanner warns that questions come from the built-in set.
func renderOfflineBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Bez AI klíče: otázky jsou z vestavěné sady (viz cermat --help)")
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
