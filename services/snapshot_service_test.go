package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolside/bracket-pool/models"
	"github.com/poolside/bracket-pool/storage"
)

type fakeUploader struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (f *fakeUploader) Upload(_ context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, err
	}
	f.key = key
	f.contentType = contentType
	f.body = buf.Bytes()
	return &storage.UploadResult{Key: key, Location: "https://cdn.example/" + key}, nil
}

func (f *fakeUploader) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeUploader) GetPublicURL(key string) string { return "https://cdn.example/" + key }

func TestArchiveUploadsPoolSnapshot(t *testing.T) {
	games := testGames()
	games[0].WinningTeamID = intp(1)
	gameRepo := newFakeGameRepo(games)
	pickRepo := newFakePickRepo()
	userRepo := newFakeUserRepo([]*models.User{testUser(10, "Ada")})

	uploader := &fakeUploader{}
	svc := NewSnapshotService(
		gameRepo,
		newFakeTeamRepo(testTeams()),
		newFakeRoundRepo(testRounds()),
		newTestStandingsService(gameRepo, pickRepo, userRepo),
		uploader,
		discardLogger(),
	)

	result, err := svc.Archive(context.Background(), testPoolID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Key, "pools/1/snapshots/"), "key: %s", result.Key)
	assert.Equal(t, "application/json", uploader.contentType)

	var snapshot PoolSnapshot
	require.NoError(t, json.Unmarshal(uploader.body, &snapshot))
	assert.Equal(t, testPoolID, snapshot.PoolID)
	assert.Len(t, snapshot.Games, 7)
	assert.Len(t, snapshot.Teams, 8)
	assert.Len(t, snapshot.Rounds, 3)
	assert.Len(t, snapshot.Standings, 1)
}

func TestArchiveEmptyPool(t *testing.T) {
	svc := NewSnapshotService(
		newFakeGameRepo(nil),
		newFakeTeamRepo(nil),
		newFakeRoundRepo(nil),
		newTestStandingsService(newFakeGameRepo(nil), newFakePickRepo(), newFakeUserRepo(nil)),
		&fakeUploader{},
		discardLogger(),
	)
	_, err := svc.Archive(context.Background(), testPoolID)
	assert.ErrorIs(t, err, ErrBracketNotSeeded)
}
