package clerk

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{SecretKey: "sk_test_abc123", APIURL: srv.URL, HTTPClient: srv.Client()})
}

func TestGetUser(t *testing.T) {
	var gotPath, gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "user_2abc", "first_name": "Ada"}`)
	})

	user, err := client.GetUser(context.Background(), "user_2abc")
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", user.ID)
	assert.Equal(t, "/v1/users/user_2abc", gotPath)
	assert.Equal(t, "Bearer sk_test_abc123", gotAuth)
}

func TestGetUserNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetUser(context.Background(), "user_gone")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetUser(context.Background(), "user_2abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestGetUserEmptyRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	_, err := client.GetUser(context.Background(), "user_2abc")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserEscapesID(t *testing.T) {
	var gotRawPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRawPath = r.URL.EscapedPath()
		fmt.Fprint(w, `{"id": "user/2abc"}`)
	})

	_, err := client.GetUser(context.Background(), "user/2abc")
	require.NoError(t, err)
	assert.Equal(t, "/v1/users/user%2F2abc", gotRawPath)
}

func TestNewDefaults(t *testing.T) {
	client := New(Config{SecretKey: "sk_test_abc123"})
	assert.Equal(t, defaultAPIURL, client.config.APIURL)
	assert.Equal(t, http.DefaultClient, client.httpClient)
}
