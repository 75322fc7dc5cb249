package recipients

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipientStore_GetEndpoint(t *testing.T) {
	ctx := context.Background()

	t.Run("active endpoint resolves to a chat id", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT chat_id FROM recipients").
			WithArgs("U1").
			WillReturnRows(sqlmock.NewRows([]string{"chat_id"}).AddRow(int64(4242)))

		s, err := NewStore(db)
		require.NoError(t, err)

		chatID, ok, err := s.GetEndpoint(ctx, "U1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(4242), chatID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing endpoint is not an error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT chat_id FROM recipients").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"chat_id"}))

		s, err := NewStore(db)
		require.NoError(t, err)

		_, ok, err := s.GetEndpoint(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("query failure is surfaced", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT chat_id FROM recipients").
			WithArgs("U1").
			WillReturnError(fmt.Errorf("connection lost"))

		s, err := NewStore(db)
		require.NoError(t, err)

		_, _, err = s.GetEndpoint(ctx, "U1")
		assert.Error(t, err)
	})
}
