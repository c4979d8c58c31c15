package quiz

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/progression"
	"github.com/abhisek/cermat/internal/quiz"
	"github.com/abhisek/cermat/internal/ui/components"
	"github.com/abhisek/cermat/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (q *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch q.view.Phase {
	case quiz.PhaseLoading:
		frame := spinnerFrames[q.spinner%len(spinnerFrames)]
		body = theme.Subtitle.Width(cw).Render(frame + " Připravuji otázky…")
	case quiz.PhaseAborted:
		body = renderMessage(cw, theme.Error, "Otázky se nepodařilo načíst.", "Zkus to prosím znovu.")
	case quiz.PhaseExhausted:
		body = renderMessage(cw, theme.Heart, "💔 Došly ti životy!",
			"Pokus končí. Počkej, až se ti doplní zdraví.")
	case quiz.PhaseFinished:
		body = q.renderResult(cw)
	default:
		body = q.renderQuestion(cw)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func renderMessage(cw int, fg color.Color, title, text string) string {
	t := lipgloss.NewStyle().Foreground(fg).Bold(true)
	return components.Card(t.Render(title)+"\n\n"+theme.Body.Render(text), cw, components.WithAccent(fg), components.Compact())
}

func (q *QuizScreen) renderQuestion(cw int) string {
	v := q.view
	var b strings.Builder

	info := fmt.Sprintf("Otázka %d/%d   ✓ %d   ⚡ %d XP", v.Index+1, v.Total, v.Correct, v.XP)
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(info))
	if v.Reviewed {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Accent).Render("🔖"))
	}
	b.WriteString("\n\n")

	if v.Question.Type.HasOptions() {
		b.WriteString(q.choice.View())
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(v.Question.Text))
		b.WriteString("\n\n")
		b.WriteString(q.input.View())
		b.WriteString("\n")
	}

	if v.Phase == quiz.PhaseAnswerLocked {
		b.WriteString("\n")
		if v.Outcome.Correct {
			b.WriteString(theme.Correct.Render(fmt.Sprintf("✓ Správně! +%d XP", progression.XPPerCorrect)))
		} else {
			b.WriteString(theme.Incorrect.Render("✗ Špatně, přicházíš o život."))
			b.WriteString("\n")
			b.WriteString(theme.Body.Render("Správná odpověď: " + v.Question.Answer))
		}
		if v.Question.Explanation != "" {
			b.WriteString("\n\n")
			b.WriteString(theme.Hint.Width(cw - 6).Render(v.Question.Explanation))
		}
	}

	if v.HintShown && q.hint != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Width(cw - 6).Render("💡 " + q.hint))
	} else if v.HintAvailable && v.Phase != quiz.PhaseAnswerLocked {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("💡 Nápověda je k dispozici (Tab)"))
	}

	if q.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(q.notice))
	}
	if v.Fallback {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Offline sada otázek"))
	}

	return components.Card(b.String(), cw)
}

func (q *QuizScreen) renderResult(cw int) string {
	v := q.view
	stars := progression.StarsFor(v.Correct)

	title := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("🎉 Hotovo!")
	score := theme.Body.Render(fmt.Sprintf("Správně %d z %d", v.Correct, v.Total))
	starLine := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).
		Render(strings.Repeat("★", stars) + strings.Repeat("☆", 3-stars))
	xp := theme.Body.Render(fmt.Sprintf("Základ: %d XP", v.XP))

	return components.Card(strings.Join([]string{title, "", score, starLine, xp}, "\n"), cw, components.WithAccent(theme.ArcadeYellow))
}
