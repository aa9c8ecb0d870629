package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palpal-apps/work-tracker/internal/remote"
)

func TestInCommand_Execute(t *testing.T) {
	t.Run("should start a tagged session", func(t *testing.T) {
		app := setupTestApp(t, nil)

		require.NoError(t, NewInCommand(app).Execute([]string{"Dev,", "Client"}))

		active := app.entries.Active()
		require.NotNil(t, active)
		assert.Equal(t, []string{"Dev", "Client"}, active.Tags)
	})

	t.Run("should leave a running session untouched", func(t *testing.T) {
		app := setupTestApp(t, nil)
		cmd := NewInCommand(app)

		require.NoError(t, cmd.Execute([]string{"Dev"}))
		first := app.entries.Active()

		require.NoError(t, cmd.Execute([]string{"Other"}))
		assert.Equal(t, first, app.entries.Active())
		assert.Empty(t, app.entries.Entries())
	})
}

func TestOutCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("should record the stopped session", func(t *testing.T) {
		docs := remote.NewMemoryStore(&remote.User{UID: "u1"})
		app := setupTestApp(t, docs)

		require.NoError(t, NewInCommand(app).Execute([]string{"Dev"}))
		require.NoError(t, NewOutCommand(app).Execute(ctx, nil))

		assert.Nil(t, app.entries.Active())
		entries := app.entries.Entries()
		require.Len(t, entries, 1)
		assert.False(t, entries[0].IsOpen())
		assert.Equal(t, 1, docs.Count(remote.SessionsCollection))
	})

	t.Run("should tolerate no running session", func(t *testing.T) {
		app := setupTestApp(t, nil)
		require.NoError(t, NewOutCommand(app).Execute(ctx, nil))
	})

	t.Run("should reject arguments", func(t *testing.T) {
		app := setupTestApp(t, nil)
		err := NewOutCommand(app).Execute(ctx, []string{"unexpected"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usage: wt out")
	})
}

func TestStatusCommand_Execute(t *testing.T) {
	app := setupTestApp(t, nil)
	cmd := NewStatusCommand(app)

	require.NoError(t, cmd.Execute(nil))

	require.NoError(t, NewInCommand(app).Execute([]string{"Dev"}))
	require.NoError(t, cmd.Execute(nil))

	err := cmd.Execute([]string{"unexpected"})
	require.Error(t, err)
}
