package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/campus-portal-api/internal/dto"
)

func newAddUserCmd(boot bootFunc) *cobra.Command {
	var (
		payload       dto.UserCreateRequest
		studentNumber string
		program       string
		year          int
	)

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Register a student, instructor or administrator",
		Example: `  portalctl adduser --username ada --email ada@example.edu --role instructor
  portalctl adduser --username lin --email lin@example.edu --role student --student-id S-1001 --year 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if studentNumber != "" {
				payload.StudentID = &studentNumber
			}
			if program != "" {
				payload.ProgramOfStudy = &program
			}
			if year > 0 {
				payload.YearOfStudy = &year
			}

			rt, err := boot(cmd)
			if err != nil {
				return err
			}

			user, err := rt.services.Users.Create(cmd.Context(), payload)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %q with id %d\n", user.Role, user.Username, user.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&payload.Username, "username", "", "Unique login name")
	flags.StringVar(&payload.Email, "email", "", "Unique email address")
	flags.StringVar(&payload.FirstName, "first-name", "", "Given name")
	flags.StringVar(&payload.LastName, "last-name", "", "Family name")
	flags.StringVar(&payload.Role, "role", "student", "One of student, instructor, admin")
	flags.StringVar(&studentNumber, "student-id", "", "Institutional student number (students only)")
	flags.StringVar(&program, "program", "", "Program of study (students only)")
	flags.IntVar(&year, "year", 0, "Year of study (students only)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
