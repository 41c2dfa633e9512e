package repository

import (
	"context"
	"testing"

	"exion/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepository_CRUD(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTaskRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing task returns nil", func(t *testing.T) {
		task, err := repo.GetByID(ctx, "nothing_here")
		require.NoError(t, err)
		assert.Nil(t, task)
	})

	t.Run("upsert creates then updates", func(t *testing.T) {
		task := testutil.CreateTestTask("retweet_launch", 75)
		require.NoError(t, repo.Upsert(ctx, task))

		got, err := repo.GetByID(ctx, "retweet_launch")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(75), got.Points)

		task.Points = 100
		task.Title = "Retweet the new launch post"
		require.NoError(t, repo.Upsert(ctx, task))

		got, err = repo.GetByID(ctx, "retweet_launch")
		require.NoError(t, err)
		assert.Equal(t, int64(100), got.Points)
		assert.Equal(t, "Retweet the new launch post", got.Title)
	})

	t.Run("get all", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, testutil.CreateTestTask("join_discord", 50)))

		tasks, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "join_discord"))

		task, err := repo.GetByID(ctx, "join_discord")
		require.NoError(t, err)
		assert.Nil(t, task)

		// Deleting a missing task reports an error
		assert.Error(t, repo.Delete(ctx, "join_discord"))
	})
}
