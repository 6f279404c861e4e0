package remote_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/remote"
)

func TestInsert(t *testing.T) {
	var got []models.UserData
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/UserData", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	user := models.NewUserData()
	user.UserID = "u1"
	err := remote.New(srv.URL, "key", time.Second).Insert(context.Background(), user)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].UserID)
}

func TestUpdateReturnsMergedRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.u1", r.URL.Query().Get("userId"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"progress":{"2025-01-05":{"learnCount":3,"reviewCount":0}}}`, string(body))

		_, _ = w.Write([]byte(`[{"userId":"u1","userName":"taro","progress":{"2025-01-05":{"learnCount":3,"reviewCount":0}}}]`))
	}))
	defer srv.Close()

	merged, err := remote.New(srv.URL, "key", time.Second).Update(context.Background(), "u1", models.UserDataPatch{
		Progress: models.Progress{"2025-01-05": {LearnCount: 3}},
	})

	require.NoError(t, err)
	assert.Equal(t, "taro", merged.UserName)
	assert.Equal(t, 3, merged.Progress["2025-01-05"].LearnCount)
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := remote.New(srv.URL, "key", time.Second).Fetch(context.Background(), "nobody")

	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := remote.New(srv.URL, "key", time.Second).Fetch(context.Background(), "u1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSensesByTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/SensesList", r.URL.Path)
		assert.Equal(t, "like.*toeic*", r.URL.Query().Get("tags"))
		_, _ = w.Write([]byte(`[
			{"id":10,"word_id":1,"pos":"noun","en":"fruit","ja":"りんご","se_en":"I ate an apple.","se_ja":"りんごを食べた。","tags":"toeic","WordList":{"id":1,"word":"apple"}},
			{"id":20,"word_id":2,"pos":"verb","en":"move fast","ja":"走る","se_en":"","se_ja":"","tags":"toeic","WordList":[{"id":2,"word":"run"}]},
			{"id":30,"word_id":3,"pos":"noun","en":"x","ja":"x","se_en":"","se_ja":"","tags":"toeic","WordList":null}
		]`))
	}))
	defer srv.Close()

	rows, err := remote.New(srv.URL, "key", time.Second).SensesByTag(context.Background(), "toeic")

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "apple", rows[0].Word)
	assert.Equal(t, "I ate an apple.", rows[0].ExampleEn)
	assert.Equal(t, "run", rows[1].Word)
	assert.Equal(t, int64(2), rows[1].WordID)
	assert.Equal(t, "", rows[2].Word)
}
