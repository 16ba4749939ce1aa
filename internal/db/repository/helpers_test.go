package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/videotube/videotube-api/internal/db/models"
)

func createUser(t *testing.T, repo UserRepository, username string) *models.User {
	t.Helper()
	user := models.NewUser(username, username+"@example.com", "User "+username)
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createVideo(t *testing.T, repo VideoRepository, owner *models.User, title string) *models.Video {
	t.Helper()
	video := models.NewVideo(owner.ID, title, "description of "+title,
		"https://cdn.example.com/"+title+".mp4", "https://cdn.example.com/"+title+".jpg", 42.5)
	require.NoError(t, repo.Create(context.Background(), video))
	return video
}
