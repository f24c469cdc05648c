package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/engine"
	"github.com/kozaktomas/face-attendance/internal/scenario"
	"github.com/kozaktomas/face-attendance/internal/speech"
	"github.com/kozaktomas/face-attendance/internal/store"
	"github.com/kozaktomas/face-attendance/internal/store/mock"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario-file>",
	Short: "Replay a scripted attendance scenario",
	Long: `Replay a YAML scenario of timed observations through a real engine,
without a camera or database. Announcements are printed to the terminal.

Example:
  face-attendance simulate examples/classroom.yaml --speed 4`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Float64("speed", 1.0, "Time compression factor (2 = twice as fast)")
	simulateCmd.Flags().Bool("speak", false, "Play real audio instead of printing")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	sc, err := scenario.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	speed := mustGetFloat64(cmd, "speed")
	if speed <= 0 {
		speed = 1.0
	}

	cfg := config.Load()

	var speaker speech.Speaker = &speech.PrintSpeaker{}
	if mustGetBool(cmd, "speak") {
		speaker = speech.Detect(cfg.Speech.Command)
	}

	// In-memory store seeded from the scenario roster.
	st := mock.New()
	for _, s := range sc.Students {
		err := st.AddStudent(context.Background(), store.Student{
			ID:           s.ID,
			Name:         s.Name,
			RegisteredAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to seed student %s: %w", s.ID, err)
		}
	}

	eng := engine.New(cfg, speaker)
	eng.Start()

	fmt.Printf("Scenario: %s (%d students, %d steps)\n", sc.Name, len(sc.Students), len(sc.Steps))
	eng.StartSession()

	bar := progressbar.Default(int64(len(sc.Steps)), "replaying")
	for _, step := range sc.Steps {
		time.Sleep(time.Duration(float64(step.Wait.Std()) / speed))

		markedNow := false
		if step.IsRecognized() {
			markedNow, err = st.RecordAttendance(context.Background(), step.Person, time.Now())
			if err != nil {
				return fmt.Errorf("recording attendance for %s: %w", step.Person, err)
			}
		}

		eng.Observe(engine.Observation{
			PersonID:         step.Person,
			Name:             sc.NameOf(step.Person),
			Recognized:       step.IsRecognized(),
			AttendanceMarked: markedNow,
		})
		bar.Add(1)
	}

	// Let the playback worker drain what the last steps queued.
	for eng.Info().QueueDepth > 0 {
		time.Sleep(cfg.Engine.PollInterval)
	}
	time.Sleep(cfg.Engine.PollInterval)

	info := eng.Info()
	present, err := st.CountAttendance(context.Background(), time.Now())
	if err != nil {
		return fmt.Errorf("counting attendance: %w", err)
	}

	fmt.Printf("\nSession summary\n")
	fmt.Printf("  Tracked: %d person(s)\n", info.PersonCount)
	fmt.Printf("  Present: %d of %d\n", present, len(sc.Students))
	for id, state := range info.States {
		fmt.Printf("  %s (%s): %s\n", id, sc.NameOf(id), state)
	}

	eng.EndSession()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return eng.Shutdown(shutdownCtx)
}
