package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/myrjola/gumshoe/internal/casegen"
	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/intent"
	"github.com/myrjola/gumshoe/internal/logging"
	"github.com/myrjola/gumshoe/internal/mystery"
	"github.com/myrjola/gumshoe/internal/realizer"
	"github.com/myrjola/gumshoe/internal/store"
)

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	speakerStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	contradictionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	corroborationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	mutedStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	verdictStyle       = lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.RoundedBorder())
)

func init() {
	playCmd.Flags().Int64("seed", 0, "case seed, 0 picks one from the clock")
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a new case",
	Long:  `Generates a fresh murder case and opens the interrogation shell.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		seed, err := cmd.Flags().GetInt64("seed")
		if err != nil {
			return errors.Wrap(err, "read seed flag")
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return runPlay(cmd.Context(), seed, cmd.OutOrStdout(), cmd.InOrStdin())
	},
}

func runPlay(ctx context.Context, seed int64, out io.Writer, in io.Reader) error {
	logger := newLogger()

	var cfg config
	if err := loadConfig(&cfg); err != nil {
		return err
	}
	genCfg := casegen.DefaultConfig()
	if err := loadConfig(&genCfg); err != nil {
		return err
	}
	sessionCfg := mystery.DefaultSessionConfig()
	if err := loadConfig(&sessionCfg.Policy); err != nil {
		return err
	}
	if err := loadConfig(&sessionCfg.Tracker); err != nil {
		return err
	}

	generator, err := casegen.NewGenerator(genCfg, logger)
	if err != nil {
		return err
	}
	world, err := generator.Generate(seed)
	if err != nil {
		return err
	}
	// Every record logged from the shell carries the case, courtesy of the
	// context handler.
	ctx = logging.WithAttrs(ctx,
		slog.String("case", world.CaseID),
		slog.Int64("seed", seed))

	session, err := mystery.NewSession(world, sessionCfg, logger)
	if err != nil {
		return err
	}

	db, err := store.NewDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("close archive", errors.SlogError(closeErr))
		}
	}()

	s := &shell{
		session:     session,
		parser:      intent.NewParser(world),
		realizer:    realizer.New(world, logger),
		flavour:     realizer.NewFlavourer(cfg.OpenAIKey, logger),
		transcripts: store.NewTranscriptRepository(db, logger),
		seed:        seed,
		current:     world.Suspects()[0].ID,
		in:          bufio.NewScanner(in),
		out:         out,
		logger:      logger.With("source", "shell"),
	}
	return s.run(ctx)
}

type shell struct {
	session     *mystery.Session
	parser      *intent.Parser
	realizer    *realizer.Realizer
	flavour     *realizer.Flavourer
	transcripts *store.TranscriptRepository
	seed        int64
	current     mystery.PersonID
	in          *bufio.Scanner
	out         io.Writer
	logger      *slog.Logger
}

func (s *shell) run(ctx context.Context) error {
	s.intro()

	for !s.session.Done() {
		current, _ := s.session.World().Person(s.current)
		fmt.Fprintf(s.out, "\n%s > ", mutedStyle.Render("questioning "+current.Name))
		if !s.in.Scan() {
			break
		}
		line := strings.TrimSpace(s.in.Text())

		switch {
		case line == "":
			continue
		case line == "quit" || line == "exit":
			fmt.Fprintln(s.out, mutedStyle.Render("The case remains unsolved."))
			return s.in.Err()
		case line == "suspects":
			s.printSuspects()
		case line == "timeline":
			s.printTimeline()
		case line == "analysis":
			s.printAnalysis()
		case strings.HasPrefix(line, "talk to "):
			s.switchSuspect(strings.TrimPrefix(line, "talk to "))
		default:
			if err := s.handle(ctx, line); err != nil {
				return err
			}
		}
	}
	return s.in.Err()
}

func (s *shell) intro() {
	world := s.session.World()
	fmt.Fprintln(s.out, titleStyle.Render("GUMSHOE"))
	fmt.Fprintf(s.out, "%s was found dead at %d:00. Case %s, seed %d.\n",
		world.Victim().Name, world.MurderHour(), world.CaseID, s.seed)
	fmt.Fprintln(s.out, "The suspects are gathered. Type `help` for what you can ask.")
	s.printSuspects()
}

func (s *shell) handle(ctx context.Context, line string) error {
	parsed := s.parser.Parse(line, s.current)

	switch parsed.Kind {
	case intent.KindUnknown:
		fmt.Fprintln(s.out, mutedStyle.Render("That gets you a blank stare. Try `help`."))
		return nil
	case intent.KindHelp:
		s.printHelp()
		return nil
	case intent.KindAccuse:
		return s.accuse(ctx, parsed.Accusation)
	}

	answer, err := s.session.Ask(ctx, s.current, parsed.Topic, parsed.Sensitive)
	if err != nil {
		if errors.Is(err, mystery.ErrUnknownSuspect) {
			fmt.Fprintln(s.out, mutedStyle.Render("Nobody by that name is in the house."))
			return nil
		}
		return err
	}

	speaker, _ := s.session.World().Person(answer.Statement.Speaker)
	spoken := s.realizer.Render(answer.Statement)
	if s.flavour != nil {
		spoken = s.flavour.Rewrite(ctx, speaker, spoken)
	}
	fmt.Fprintf(s.out, "%s: %s\n", speakerStyle.Render(speaker.Name), spoken)

	for _, f := range answer.Findings {
		switch f.Kind {
		case mystery.Contradiction:
			fmt.Fprintln(s.out, contradictionStyle.Render("  ✗ "+f.Detail))
		case mystery.Corroboration:
			fmt.Fprintln(s.out, corroborationStyle.Render("  ✓ "+f.Detail))
		}
	}
	fmt.Fprintln(s.out, mutedStyle.Render(fmt.Sprintf("  suspicion of %s: %.0f%%", speaker.Name, answer.Suspicion*100)))
	return nil
}

func (s *shell) accuse(ctx context.Context, acc intent.Accusation) error {
	if acc.Culprit == "" || acc.Weapon == "" || acc.Location == "" {
		fmt.Fprintln(s.out, mutedStyle.Render("An accusation needs all three: accuse <name> with the <weapon> in the <location>."))
		return nil
	}

	outcome, err := s.session.Accuse(ctx, acc.Culprit, acc.Weapon, acc.Location)
	if err != nil {
		if errors.Is(err, mystery.ErrUnknownSuspect) {
			fmt.Fprintln(s.out, mutedStyle.Render("Nobody by that name is in the house."))
			return nil
		}
		return err
	}

	s.printOutcome(outcome)
	s.archive(ctx, acc.Culprit, outcome)
	return nil
}

func (s *shell) printOutcome(outcome mystery.Outcome) {
	world := s.session.World()
	culprit, _ := world.Person(outcome.Verdict.Solution.Culprit)
	weapon, _ := world.Weapon(outcome.Verdict.Solution.Weapon)
	location, _ := world.Location(outcome.Verdict.Solution.Location)

	headline := "The accusation falls flat."
	if outcome.Verdict.Correct {
		headline = "Case closed. The accusation holds."
	}
	reveal := fmt.Sprintf("%s\n\nIt was %s, with the %s, in the %s.\nMotive: %s.\n\nScore: %.0f (%d questions, %d contradictions uncovered)",
		headline, culprit.Name, strings.ToLower(weapon.Name), strings.ToLower(location.Name),
		outcome.Verdict.Solution.Motive, outcome.Score, outcome.Stats.Questions, outcome.Stats.Contradictions)
	fmt.Fprintln(s.out, verdictStyle.Render(reveal))
}

func (s *shell) archive(ctx context.Context, accused mystery.PersonID, outcome mystery.Outcome) {
	world := s.session.World()
	id, err := s.transcripts.SaveGame(ctx, store.GameRecord{
		CaseID:     world.CaseID,
		Seed:       s.seed,
		PlayedAt:   time.Now(),
		Accused:    accused,
		Correct:    outcome.Verdict.Correct,
		Score:      outcome.Score,
		Stats:      outcome.Stats,
		Statements: s.session.Statements(mystery.Filter{}),
		Findings:   s.session.Findings(),
		Suspicion:  s.session.Suspicion(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "archive game", errors.SlogError(err))
		return
	}
	fmt.Fprintln(s.out, mutedStyle.Render("Archived as "+id+"."))
}

func (s *shell) switchSuspect(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range s.session.World().Suspects() {
		if strings.Contains(strings.ToLower(p.Name), name) {
			s.current = p.ID
			fmt.Fprintf(s.out, "You turn to %s.\n", speakerStyle.Render(p.Name))
			return
		}
	}
	fmt.Fprintln(s.out, mutedStyle.Render("No suspect by that name."))
}

func (s *shell) printSuspects() {
	scores := s.session.Suspicion()
	for _, p := range s.session.World().Suspects() {
		marker := " "
		if p.ID == s.current {
			marker = ">"
		}
		fmt.Fprintf(s.out, "%s %s %s\n", marker, speakerStyle.Render(p.Name),
			mutedStyle.Render(fmt.Sprintf("(suspicion %.0f%%)", scores[p.ID]*100)))
	}
}

// printTimeline shows only the victim's established movements. The suspects'
// own whereabouts are exactly what the interrogation is for.
func (s *shell) printTimeline() {
	world := s.session.World()
	victim := world.Victim()
	fmt.Fprintln(s.out, titleStyle.Render("What the investigation established"))
	for _, e := range world.PublicTimeline() {
		if e.Actor != victim.ID {
			continue
		}
		loc, _ := world.Location(e.Location)
		fmt.Fprintf(s.out, "  %d:00  %s was %s in the %s\n", e.Hour, victim.Name, e.Activity, strings.ToLower(loc.Name))
	}
	fmt.Fprintf(s.out, "  %d:00  %s was murdered\n", world.MurderHour(), victim.Name)
}

func (s *shell) printAnalysis() {
	world := s.session.World()
	scores := s.session.Suspicion()

	suspects := world.Suspects()
	sort.Slice(suspects, func(i, j int) bool { return scores[suspects[i].ID] > scores[suspects[j].ID] })

	fmt.Fprintln(s.out, titleStyle.Render("Case analysis"))
	for _, p := range suspects {
		statements := s.session.Statements(mystery.Filter{Speaker: p.ID})
		evasions := 0
		for _, st := range statements {
			if st.Status == mystery.Evasive {
				evasions++
			}
		}
		fmt.Fprintf(s.out, "%s  %s\n", speakerStyle.Render(p.Name),
			mutedStyle.Render(fmt.Sprintf("suspicion %.0f%%, %d statements, %d evasions",
				scores[p.ID]*100, len(statements), evasions)))
	}

	findings := s.session.Findings()
	if len(findings) == 0 {
		fmt.Fprintln(s.out, mutedStyle.Render("No contradictions on file yet."))
		return
	}
	for _, f := range findings {
		switch f.Kind {
		case mystery.Contradiction:
			fmt.Fprintln(s.out, contradictionStyle.Render("  ✗ "+f.Detail))
		case mystery.Corroboration:
			fmt.Fprintln(s.out, corroborationStyle.Render("  ✓ "+f.Detail))
		}
	}
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.out, titleStyle.Render("Things you can say"))
	for _, suggestion := range s.parser.Suggestions() {
		fmt.Fprintln(s.out, "  "+suggestion)
	}
	fmt.Fprintln(s.out, mutedStyle.Render("Also: `talk to <name>`, `suspects`, `timeline`, `analysis`, `quit`."))
}
