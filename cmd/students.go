package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/store"
	"github.com/kozaktomas/face-attendance/internal/store/postgres"
	"github.com/spf13/cobra"
)

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Manage the student roster",
}

var studentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered students",
	RunE:  runStudentsList,
}

var studentsAddCmd = &cobra.Command{
	Use:   "add <id> <name>",
	Short: "Register a student",
	Long: `Register a student in the roster.

Example:
  face-attendance students add 24054-EC-001 "Alice Novak"`,
	Args: cobra.ExactArgs(2),
	RunE: runStudentsAdd,
}

var studentsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a student and their attendance records",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudentsRemove,
}

func init() {
	rootCmd.AddCommand(studentsCmd)
	studentsCmd.AddCommand(studentsListCmd)
	studentsCmd.AddCommand(studentsAddCmd)
	studentsCmd.AddCommand(studentsRemoveCmd)
}

// openStore connects to the configured PostgreSQL store.
func openStore() (*postgres.Repository, *postgres.Pool, error) {
	cfg := config.Load()
	if cfg.Database.URL == "" {
		return nil, nil, errors.New("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Migrate(context.Background()); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return postgres.NewRepository(pool), pool, nil
}

func runStudentsList(cmd *cobra.Command, args []string) error {
	repo, pool, err := openStore()
	if err != nil {
		return err
	}
	defer pool.Close()

	students, err := repo.ListStudents(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list students: %w", err)
	}

	if len(students) == 0 {
		fmt.Println("No students registered")
		return nil
	}
	for _, s := range students {
		fmt.Printf("%s  %s  (registered %s)\n", s.ID, s.Name, s.RegisteredAt.Format("02-01-2006"))
	}
	fmt.Printf("Total: %d\n", len(students))
	return nil
}

func runStudentsAdd(cmd *cobra.Command, args []string) error {
	id, name := args[0], args[1]

	repo, pool, err := openStore()
	if err != nil {
		return err
	}
	defer pool.Close()

	err = repo.AddStudent(context.Background(), store.Student{
		ID:           id,
		Name:         name,
		RegisteredAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to add student: %w", err)
	}

	fmt.Printf("Registered: %s (%s)\n", name, id)
	return nil
}

func runStudentsRemove(cmd *cobra.Command, args []string) error {
	repo, pool, err := openStore()
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := repo.DeleteStudent(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to remove student: %w", err)
	}
	fmt.Printf("Removed: %s\n", args[0])
	return nil
}
