package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "face-attendance",
	Short: "A face-recognition attendance tracker with voice announcements",
	Long: `Face Attendance tracks attendance from a face-recognition feed and
announces state changes out loud: new detections, successful marks, and
already-marked reminders. Playback is serialized and rate-limited so
announcements never overlap or spam.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
