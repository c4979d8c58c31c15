package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/progression"
	"github.com/abhisek/cermat/internal/router"
	"github.com/abhisek/cermat/internal/screen"
	"github.com/abhisek/cermat/internal/store"
	"github.com/abhisek/cermat/internal/ui/layout"
	"github.com/abhisek/cermat/internal/ui/theme"
)

const attemptLimit = 50

type historyLoadedMsg struct {
	Attempts []store.AttemptEvent
	Rewards  map[int64][]store.RewardEvent // attempt sequence → rewards that followed it
	Err      error
}

// HistoryScreen lists past attempts and the rewards recorded after each.
type HistoryScreen struct {
	eventRepo store.EventRepo
	identity  string
	attempts  []store.AttemptEvent
	rewards   map[int64][]store.RewardEvent
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen for one learner.
func New(eventRepo store.EventRepo, identity string) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		identity:  identity,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, identity := s.eventRepo, s.identity
	return func() tea.Msg {
		ctx := context.Background()

		attempts, err := repo.QueryAttempts(ctx, identity, store.QueryOpts{Limit: attemptLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		if len(attempts) == 0 {
			return historyLoadedMsg{}
		}

		// Rewards share the event sequence with attempts, so everything
		// after the oldest listed attempt is enough.
		oldest := attempts[len(attempts)-1].Sequence
		rewards, err := repo.QueryRewards(ctx, identity, store.QueryOpts{After: oldest})
		if err != nil {
			return historyLoadedMsg{Attempts: attempts, Rewards: map[int64][]store.RewardEvent{}}
		}
		return historyLoadedMsg{Attempts: attempts, Rewards: groupRewards(attempts, rewards)}
	}
}

// groupRewards assigns each reward to the closest attempt before it. Both
// slices are newest first.
func groupRewards(attempts []store.AttemptEvent, rewards []store.RewardEvent) map[int64][]store.RewardEvent {
	out := make(map[int64][]store.RewardEvent)
	for _, r := range rewards {
		for _, a := range attempts {
			if a.Sequence < r.Sequence {
				out[a.Sequence] = append(out[a.Sequence], r)
				break
			}
		}
	}
	return out
}

func (s *HistoryScreen) Title() string {
	return "Historie"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Odměny"},
		{Key: "↑↓", Description: "Pohyb"},
		{Key: "Esc", Description: "Zpět"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.attempts = msg.Attempts
			s.rewards = msg.Rewards
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nChyba: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Načítám historii…")
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Zatím žádné pokusy. Pusť se do lekce!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, a := range s.attempts {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		topic := a.Topic
		if a.LessonID == "" {
			topic = "Procvičování"
		}
		line := fmt.Sprintf("%s%s  %-24s %d/%d  %s  +%d XP",
			prefix, a.Timestamp.Local().Format("02.01.2006 15:04"), truncate(topic, 24),
			a.Correct, a.Questions, stars(a.Stars), a.FinalXP)
		if a.Fallback {
			line += "  (offline)"
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if !s.expanded[i] {
			continue
		}
		rewards := s.rewards[a.Sequence]
		if len(rewards) == 0 {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
					Render("    Žádné odměny")))
			b.WriteString("\n")
			continue
		}
		// Oldest first reads naturally under the attempt.
		for j := len(rewards) - 1; j >= 0; j-- {
			r := rewards[j]
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(rewardColor(r.Kind)).Render("    "+describeReward(r))))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func stars(n int) string {
	n = min(max(n, 0), 3)
	return strings.Repeat("★", n) + strings.Repeat("☆", 3-n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func describeReward(r store.RewardEvent) string {
	switch progression.EventKind(r.Kind) {
	case progression.EventLevelUp:
		return fmt.Sprintf("⬆ Nový level %d", r.Amount)
	case progression.EventBadge:
		if badge, ok := progression.FindBadge(r.Detail); ok {
			return fmt.Sprintf("%s Odznak %s", badge.Icon, badge.Name)
		}
		return "🏅 Odznak " + r.Detail
	case progression.EventPotion:
		return "🧪 Lektvar streaku"
	case progression.EventPowerUpActivated:
		return "⚡ Aktivován dvojnásobek XP"
	case progression.EventPowerUpConsumed:
		return "⚡ Dvojnásobek XP využit"
	case progression.EventLessonCompleted:
		return fmt.Sprintf("✓ Lekce %s: %s", r.Detail, stars(r.Amount))
	case progression.EventLessonUnlocked:
		return "🔓 Odemčena lekce " + r.Detail
	case progression.EventBonus:
		return fmt.Sprintf("🎁 Truhla +%d XP", r.Amount)
	default:
		return r.Kind
	}
}

func rewardColor(kind string) color.Color {
	switch progression.EventKind(kind) {
	case progression.EventLevelUp, progression.EventBonus:
		return theme.ArcadeYellow
	case progression.EventBadge:
		return theme.Accent
	case progression.EventLessonUnlocked:
		return theme.Success
	case progression.EventPotion, progression.EventPowerUpActivated, progression.EventPowerUpConsumed:
		return theme.Secondary
	default:
		return theme.Text
	}
}
