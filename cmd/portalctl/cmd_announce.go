package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/campus-portal-api/internal/dto"
	"github.com/noah-isme/campus-portal-api/internal/models"
)

func newAnnounceCmd(boot bootFunc) *cobra.Command {
	var (
		courseID  uint
		title     string
		content   string
		expiresIn time.Duration
	)

	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Post an announcement to a course on behalf of its instructor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := boot(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			course, err := rt.services.Catalog.GetCourse(ctx, courseID)
			if err != nil {
				return fmt.Errorf("load course: %w", err)
			}
			if course.InstructorID == nil {
				return fmt.Errorf("course %s has no instructor to post as", course.Code)
			}

			payload := dto.AnnouncementCreateRequest{CourseID: course.ID, Title: title, Content: content}
			if expiresIn > 0 {
				expires := time.Now().Add(expiresIn)
				payload.ExpiresAt = &expires
			}

			actor := models.Viewer{ID: *course.InstructorID, Role: models.RoleInstructor}
			announcement, err := rt.services.Announcements.Create(ctx, actor, payload)
			if err != nil {
				return fmt.Errorf("create announcement: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "announcement %d posted to %s\n", announcement.ID, course.Code)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.UintVar(&courseID, "course", 0, "Course id")
	flags.StringVar(&title, "title", "", "Announcement title")
	flags.StringVar(&content, "content", "", "Announcement body, HTML allowed")
	flags.DurationVar(&expiresIn, "expires-in", 0, "Hide the announcement after this duration")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}
