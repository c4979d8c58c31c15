package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/cermat/internal/auth"
	"github.com/abhisek/cermat/internal/catalog"
	"github.com/abhisek/cermat/internal/game"
	"github.com/abhisek/cermat/internal/profile"
	"github.com/abhisek/cermat/internal/progression"
	"github.com/abhisek/cermat/internal/store"
)

const accountTimeout = 30 * time.Second

// accountSession is a logged-in learner for one CLI command.
type accountSession struct {
	backends *backends
	saver    *auth.Saver
	game     *game.Game
}

// credentials reads --user and --password, falling back to CERMAT_PASSWORD.
func credentials(cmd *cobra.Command) (string, string, error) {
	user, _ := cmd.Flags().GetString("user")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("CERMAT_PASSWORD")
	}
	if user == "" || password == "" {
		return "", "", errors.New("--user and --password (or CERMAT_PASSWORD) are required")
	}
	return user, password, nil
}

// login authenticates and builds a game for the learner. Heart regeneration
// is not started; CLI commands are one-shot.
func login(cmd *cobra.Command) (*accountSession, error) {
	user, password, err := credentials(cmd)
	if err != nil {
		return nil, err
	}

	b, err := openBackends(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), accountTimeout)
	defer cancel()

	svc := auth.NewService(b.accounts, auth.WithLogger(logger))
	state, err := svc.Authenticate(ctx, user, password)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("login: %w", err)
	}

	saver := auth.NewSaver(svc, logger)
	g := game.New(user, state.Profile, state.Catalog, nil,
		game.WithSaver(saver),
		game.WithEventLog(b.events()),
		game.WithLogger(logger),
	)
	return &accountSession{backends: b, saver: saver, game: g}, nil
}

// Close flushes pending saves before closing the stores.
func (s *accountSession) Close() error {
	return errors.Join(s.saver.Close(), s.backends.Close())
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a learner account",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, password, err := credentials(cmd)
		if err != nil {
			return err
		}
		b, err := openBackends(cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), accountTimeout)
		defer cancel()

		svc := auth.NewService(b.accounts, auth.WithLogger(logger))
		if _, err := svc.Register(ctx, user, password, catalog.Default()); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		fmt.Printf("Account %q created.\n", user)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a learner's profile and recent attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := login(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		p := s.game.Profile()
		inLevel, span := profile.LevelProgress(p.XP)
		avatar, _ := profile.FindAvatar(p.Avatar)

		fmt.Printf("%s %s\n", avatar.Icon, p.Username)
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("Level:        %d (%d/%d XP)\n", p.Level(), inLevel, span)
		fmt.Printf("XP:           %d\n", p.XP)
		fmt.Printf("Hearts:       %d/%d\n", p.Hearts, profile.MaxHearts)
		fmt.Printf("Streak:       %d days\n", p.Streak)
		fmt.Printf("Weekly goal:  %d/%d XP\n", p.WeeklyProgress, p.WeeklyGoal)
		fmt.Printf("Potions:      %d", p.Inventory.DoubleXPPotions)
		if p.ActivePowerUp != profile.PowerUpNone {
			fmt.Printf(" (%s active)", p.ActivePowerUp)
		}
		fmt.Println()
		fmt.Printf("Lessons:      %d completed\n", p.Stats.LessonsCompleted)
		fmt.Printf("Accuracy:     %d%% of %d questions\n", p.Accuracy(), p.Stats.TotalQuestions)

		if len(p.Badges) > 0 {
			fmt.Println()
			fmt.Println("Badges")
			for _, id := range p.Badges {
				if b, ok := progression.FindBadge(id); ok {
					fmt.Printf("  %s %s — %s\n", b.Icon, b.Name, b.Description)
				}
			}
		}

		limit, _ := cmd.Flags().GetInt("limit")
		attempts, err := s.backends.events().QueryAttempts(cmd.Context(), p.Username, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(attempts) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Printf("%-16s  %-28s  %5s  %5s  %6s\n", "Time", "Topic", "Score", "Stars", "XP")
		fmt.Println(strings.Repeat("─", 70))
		for _, a := range attempts {
			fmt.Printf("%-16s  %-28s  %2d/%-2d  %5d  %6d\n",
				a.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(a.Topic, 28), a.Correct, a.Questions, a.Stars, a.FinalXP)
		}
		return nil
	},
}

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List the lesson path with stars and locks",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := login(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		c := s.game.Catalog()
		for _, subject := range profile.AllSubjects() {
			fmt.Printf("%s (%d/%d ★)\n", subject.DisplayName(), c.StarTotal(subject), c.CountSubject(subject)*catalog.MaxStars)
			for _, l := range c.BySubject(subject) {
				state := strings.Repeat("★", l.Stars) + strings.Repeat("☆", catalog.MaxStars-l.Stars)
				if l.IsLocked {
					state = "🔒 " + c.LockReason(l.ID)
				}
				fmt.Printf("  %-6s %-32s %s\n", l.ID, l.Title, state)
			}
			fmt.Println()
		}
		return nil
	},
}

var potionCmd = &cobra.Command{
	Use:   "potion",
	Short: "Activate a double XP potion for the next attempt",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := login(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.game.ActivatePowerUp(profile.PowerUpDoubleXP); err != nil {
			return fmt.Errorf("activate potion: %w", err)
		}
		fmt.Printf("Double XP active. %d potions left.\n", s.game.Profile().Inventory.DoubleXPPotions)
		return nil
	},
}

var goalCmd = &cobra.Command{
	Use:   "goal <xp>",
	Short: "Set the weekly XP goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		goal, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid goal %q: %w", args[0], err)
		}
		s, err := login(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.game.SetWeeklyGoal(goal); err != nil {
			return fmt.Errorf("set goal: %w", err)
		}
		fmt.Printf("Weekly goal set to %d XP.\n", goal)
		return nil
	},
}

var streakCmd = &cobra.Command{
	Use:   "streak <days>",
	Short: "Set the daily streak",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid streak %q: %w", args[0], err)
		}
		s, err := login(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.game.SetStreak(days); err != nil {
			return fmt.Errorf("set streak: %w", err)
		}
		fmt.Printf("Streak set to %d days.\n", s.game.Profile().Streak)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, statsCmd, lessonsCmd, potionCmd, goalCmd, streakCmd} {
		c.Flags().StringP("user", "u", "", "Learner name")
		c.Flags().String("password", "", "Password (or set CERMAT_PASSWORD)")
	}
	statsCmd.Flags().IntP("limit", "n", 10, "Number of recent attempts to show")
}
