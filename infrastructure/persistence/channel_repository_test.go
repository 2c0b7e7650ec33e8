package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"tube-catalog/domain/model"
)

func testChannel() *model.Channel {
	return &model.Channel{
		ID:              "UCabc123",
		Title:           "Sample Channel",
		Description:     "A channel used in tests",
		CustomURL:       "samplechannel",
		Country:         "ID",
		PublishedAt:     time.Date(2020, 1, 15, 8, 0, 0, 0, time.UTC),
		SubscriberCount: 1200,
		VideoCount:      34,
		ViewCount:       56000,
		UploadsPlaylist: "UUabc123",
	}
}

func TestChannelRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelRepository(db)
	channel := testChannel()

	mock.ExpectExec(regexp.QuoteMeta(channelUpsert)).
		WithArgs(channel.ID, channel.CustomURL, channel.Title, channel.Description, channel.Country,
			channel.PublishedAt, channel.SubscriberCount, channel.VideoCount, channel.ViewCount,
			channel.UploadsPlaylist, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repository.Save(context.Background(), channel)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelRepository_Save_EmptyCustomURLStoredAsNull(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelRepository(db)
	channel := testChannel()
	channel.CustomURL = ""

	mock.ExpectExec(regexp.QuoteMeta(channelUpsert)).
		WithArgs(channel.ID, nil, channel.Title, channel.Description, channel.Country,
			channel.PublishedAt, channel.SubscriberCount, channel.VideoCount, channel.ViewCount,
			channel.UploadsPlaylist, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repository.Save(context.Background(), channel)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelRepository_SaveAll_Transactional(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelRepository(db)
	first := *testChannel()
	second := *testChannel()
	second.ID = "UCdef456"
	second.CustomURL = "otherchannel"

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(channelUpsert))
	prep.ExpectExec().
		WithArgs(first.ID, first.CustomURL, first.Title, first.Description, first.Country,
			first.PublishedAt, first.SubscriberCount, first.VideoCount, first.ViewCount,
			first.UploadsPlaylist, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(second.ID, second.CustomURL, second.Title, second.Description, second.Country,
			second.PublishedAt, second.SubscriberCount, second.VideoCount, second.ViewCount,
			second.UploadsPlaylist, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repository.SaveAll(context.Background(), []model.Channel{first, second})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelRepository(db)
	channel := testChannel()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+channelColumns+` FROM channels WHERE id=$1`)).
		WithArgs(channel.ID).
		WillReturnRows(channelRows(channel))

	res, err := repository.GetByID(context.Background(), channel.ID)
	require.NoError(t, err)
	require.Equal(t, channel, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+channelColumns+` FROM channels WHERE id=$1`)).
		WithArgs("UCmissing").
		WillReturnRows(emptyChannelRows())

	res, err := repository.GetByID(context.Background(), "UCmissing")
	require.NoError(t, err)
	require.Nil(t, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelRepository_GetByCustomURL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelRepository(db)
	channel := testChannel()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+channelColumns+` FROM channels WHERE custom_url=$1`)).
		WithArgs("samplechannel").
		WillReturnRows(channelRows(channel))

	res, err := repository.GetByCustomURL(context.Background(), "samplechannel")
	require.NoError(t, err)
	require.Equal(t, channel, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelRepository_DeleteByID_Idempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewChannelRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM channels WHERE id=$1`)).
		WithArgs("UCmissing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repository.DeleteByID(context.Background(), "UCmissing")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelRepository_NilDB(t *testing.T) {
	repository := NewChannelRepository(nil)

	require.NoError(t, repository.Save(context.Background(), testChannel()))
	res, err := repository.GetByID(context.Background(), "UCabc123")
	require.NoError(t, err)
	require.Nil(t, res)
	require.NoError(t, repository.DeleteByID(context.Background(), "UCabc123"))
}

func channelRows(c *model.Channel) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "custom_url", "title", "description", "country",
		"published_at", "subscriber_count", "video_count", "view_count", "uploads_playlist"}).
		AddRow(c.ID, c.CustomURL, c.Title, c.Description, c.Country,
			c.PublishedAt, c.SubscriberCount, c.VideoCount, c.ViewCount, c.UploadsPlaylist)
}

func emptyChannelRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "custom_url", "title", "description", "country",
		"published_at", "subscriber_count", "video_count", "view_count", "uploads_playlist"})
}
