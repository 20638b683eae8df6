package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"fhfa-go/server/internal/config"
	"fhfa-go/server/internal/engine"
	"fhfa-go/server/internal/intake"
	"fhfa-go/server/internal/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	sessionPath  string
	classifyWait time.Duration
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score a recorded session file and print the report as JSON",
	Long: `Loads the subject, raw instrument responses and recorded probe latencies
from a YAML session file, runs them through the assessment engine and prints
the assembled report.

Example:
  fhfa assess -f session.yaml --classify-wait 30s`,
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().StringVarP(&sessionPath, "file", "f", "", "session YAML file")
	assessCmd.Flags().DurationVar(&classifyWait, "classify-wait", 0, "wait this long for AI scripts before reporting (0 skips AI)")
	_ = assessCmd.MarkFlagRequired("file")
}

// sessionFile is the YAML layout read by the assess command.
type sessionFile struct {
	Subject      models.Subject    `yaml:"subject"`
	Sources      intake.RawSources `yaml:"sources"`
	Statements   []manualStatement `yaml:"statements"`
	Measurements []measurement     `yaml:"measurements"`
}

type manualStatement struct {
	Text  string `yaml:"text"`
	Title string `yaml:"title"`
}

// measurement matches a statement by its text, ignoring case.
type measurement struct {
	Statement             string   `yaml:"statement"`
	Context               string   `yaml:"context"`
	Validating            *float64 `yaml:"validating"`
	Challenging           *float64 `yaml:"challenging"`
	ValidatingPrecursors  string   `yaml:"validating_precursors"`
	ChallengingPrecursors string   `yaml:"challenging_precursors"`
}

func loadSessionFile(path string) (*sessionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var f sessionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session YAML: %w", err)
	}
	if strings.TrimSpace(f.Subject.Name) == "" {
		return nil, fmt.Errorf("session file %s: subject name is required", path)
	}
	return &f, nil
}

func runAssess(cmd *cobra.Command, args []string) error {
	f, err := loadSessionFile(sessionPath)
	if err != nil {
		return err
	}
	opts, err := engineOptions(log, projectRoot, config.Conf)
	if err != nil {
		return err
	}
	if classifyWait <= 0 {
		opts.Collaborator = nil
	}

	report, err := runAssessment(cmd.Context(), log, opts, f, classifyWait)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// runAssessment replays a session file through a fresh session. Latencies
// are entered by driving the probe timers, so they follow the same rounding
// as live sessions.
func runAssessment(ctx context.Context, log *zap.Logger, opts engine.Options, f *sessionFile, wait time.Duration) (models.Report, error) {
	s := engine.NewSession(ctx, log, f.Subject, opts)
	defer s.Close()

	s.Extract(f.Sources)
	for _, m := range f.Statements {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		if _, err := s.AddStatement(m.Text, m.Title, models.SourceManual); err != nil {
			return models.Report{}, err
		}
	}

	byText := make(map[string]string)
	for _, st := range s.Statements() {
		key := strings.ToLower(strings.TrimSpace(st.Text))
		if _, ok := byText[key]; !ok {
			byText[key] = st.ID
		}
	}

	for _, m := range f.Measurements {
		id, ok := byText[strings.ToLower(strings.TrimSpace(m.Statement))]
		if !ok {
			log.Warn("Measurement does not match any statement", zap.String("statement", m.Statement))
			continue
		}
		if m.Context != "" {
			if _, err := s.SetContext(id, m.Context); err != nil {
				return models.Report{}, err
			}
		}
		if err := applyProbe(s, id, models.ConditionValidating, m.Validating, m.ValidatingPrecursors); err != nil {
			return models.Report{}, err
		}
		if err := applyProbe(s, id, models.ConditionChallenging, m.Challenging, m.ChallengingPrecursors); err != nil {
			return models.Report{}, err
		}
	}

	if s.CollaboratorEnabled() && wait > 0 {
		if started := s.ClassifyAll(); started > 0 {
			waitForScripts(s, wait, log)
		}
	}
	return s.Report(), nil
}

func applyProbe(s *engine.Session, id string, c models.Condition, seconds *float64, precursors string) error {
	if precursors != "" {
		if _, err := s.SetPrecursors(id, c, precursors); err != nil {
			return err
		}
	}
	if seconds == nil || *seconds <= 0 {
		return nil
	}
	if _, err := s.StartTimer(id, c); err != nil {
		return err
	}
	s.Tick(time.Duration(math.Round(*seconds*10)) * (time.Second / 10))
	if _, err := s.PauseTimer(id, c); err != nil {
		return err
	}
	_, err := s.RecordTimer(id, c)
	return err
}

func waitForScripts(s *engine.Session, wait time.Duration, log *zap.Logger) {
	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(wait):
		log.Warn("Timed out waiting for AI scripts, reporting rule-based scripts", zap.Duration("wait", wait))
	}
}
