package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal-api/internal/dto"
	"github.com/noah-isme/campus-portal-api/internal/models"
)

func TestActivityServiceRecordMasksContactData(t *testing.T) {
	db := setupTestDB(t)
	svc := NewActivityService(newTestRepos(db).activity, testLogger())
	entityID := uint(7)

	entry, err := svc.Record(context.Background(), ActivityEntry{
		Actor:      models.Viewer{ID: 1, Role: models.RoleAdmin},
		Action:     " User.Updated ",
		EntityType: "User",
		EntityID:   &entityID,
		Metadata:   map[string]interface{}{"email": "a@b.c", "Phone_Number": "555", "field": "bio"},
	})
	require.NoError(t, err)
	require.Equal(t, "user.updated", entry.Action)
	require.Equal(t, "user", entry.EntityType)
	require.Equal(t, "***", entry.Metadata["email"])
	require.Equal(t, "***", entry.Metadata["Phone_Number"])
	require.Equal(t, "bio", entry.Metadata["field"])

	_, err = svc.Record(context.Background(), ActivityEntry{EntityType: "user"})
	require.Error(t, err)
}

func TestActivityServiceListFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewActivityService(newTestRepos(db).activity, testLogger())
	ctx := context.Background()

	for _, action := range []string{"course.created", "course.deleted", "grade.recorded"} {
		_, err := svc.Record(ctx, ActivityEntry{Actor: models.Viewer{ID: 2, Role: models.RoleInstructor}, Action: action, EntityType: "course"})
		require.NoError(t, err)
	}
	_, err := svc.Record(ctx, ActivityEntry{Action: "user.created", EntityType: "user"})
	require.NoError(t, err)

	all, err := svc.List(ctx, dto.ActivityListRequest{})
	require.NoError(t, err)
	require.Len(t, all.Items, 4)

	byActor, err := svc.List(ctx, dto.ActivityListRequest{ActorID: 2, Action: "COURSE.DELETED"})
	require.NoError(t, err)
	require.Len(t, byActor.Items, 1)

	system, err := svc.List(ctx, dto.ActivityListRequest{EntityType: "user"})
	require.NoError(t, err)
	require.Len(t, system.Items, 1)
	require.Equal(t, "system", system.Items[0].ActorRole)
}
