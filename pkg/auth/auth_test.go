package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func membershipAPI(t *testing.T, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/check_user", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.PostForm.Get("name"))
		assert.Equal(t, "secret", r.PostForm.Get("pass"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}))
}

func TestLogin_Member(t *testing.T) {
	srv := membershipAPI(t, `{"status":"ok","majisemi":true,"group_code":"ORG-A"}`)
	defer srv.Close()

	account, err := New(srv.URL, "").Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.True(t, account.Member)
	assert.Equal(t, "ORG-A", account.GroupCode)
}

func TestLogin_ClubPlan(t *testing.T) {
	srv := membershipAPI(t, `{"status":"ok","majisemi":false,"group_code":"ORG-B","payment":"マジセミ倶楽部"}`)
	defer srv.Close()

	account, err := New(srv.URL, "").Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.False(t, account.Member)
	assert.Equal(t, "ORG-B", account.GroupCode)
}

func TestLogin_NonClubPaymentRejected(t *testing.T) {
	srv := membershipAPI(t, `{"status":"ok","majisemi":false,"group_code":"ORG-B","payment":"無料会員"}`)
	defer srv.Close()

	_, err := New(srv.URL, "").Login(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := membershipAPI(t, `{"status":"ng"}`)
	defer srv.Close()

	_, err := New(srv.URL, "").Login(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").Login(context.Background(), "alice", "secret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
