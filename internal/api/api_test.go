package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	v1 "github.com/jdholdren/microblog/api/v1"
	"github.com/jdholdren/microblog/internal/auth"
	"github.com/jdholdren/microblog/internal/clock"
	"github.com/jdholdren/microblog/internal/database/databasetest"
	"github.com/jdholdren/microblog/internal/feed"
)

type testServer struct {
	*httptest.Server
	clock *clock.Stub
	auth  *auth.Service
}

func newTestApiServer(t *testing.T) testServer {
	t.Helper()
	return newTestApiServerWithOrigin(t, "*")
}

func newTestApiServerWithOrigin(t *testing.T, origin string) testServer {
	t.Helper()

	db := databasetest.SQLite(t)
	clk := clock.NewStub(time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC))

	authSvc, err := auth.NewService(auth.Config{
		SecretKey:  []byte("0123456789abcdef0123456789abcdef"),
		BcryptCost: bcrypt.MinCost,
	}, db.Repo, clk)
	require.NoError(t, err)
	feedSvc := feed.NewService(feed.Config{ProfanityFilter: true}, db.Repo, clk)

	srvr := NewServer(ServerConfig{
		CookieHashKey:  []byte("cookie-hash-key-cookie-hash-key!"),
		CORSOrigin:     origin,
		RequestTimeout: 5 * time.Second,
	}, authSvc, feedSvc, db.Repo, db)

	ts := httptest.NewServer(srvr.Handler)
	t.Cleanup(ts.Close)

	return testServer{Server: ts, clock: clk, auth: authSvc}
}

// Sends a JSON body, with a bearer token when one is given.
func (ts testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		byts, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(byts)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, respBody
}

func (ts testServer) register(t *testing.T, username string) v1.User {
	t.Helper()

	resp, body := ts.do(t, http.MethodPost, "/users", "", v1.CreateUserRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var usr v1.User
	require.NoError(t, json.Unmarshal(body, &usr))
	return usr
}

func (ts testServer) oauthConfig() oauth2.Config {
	return oauth2.Config{
		ClientID: "microblog-tests",
		Endpoint: oauth2.Endpoint{
			TokenURL:  ts.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func (ts testServer) login(t *testing.T, username string) *oauth2.Token {
	t.Helper()

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, ts.Client())
	cfg := ts.oauthConfig()
	tok, err := cfg.PasswordCredentialsToken(ctx, username, "pw")
	require.NoError(t, err)

	return tok
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func postIDs(posts []v1.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestPasswordGrant(t *testing.T) {
	ts := newTestApiServer(t)
	alice := ts.register(t, "alice")

	tok := ts.login(t, "alice")
	assert.NotEmpty(t, tok.AccessToken)
	assert.NotEmpty(t, tok.RefreshToken)
	assert.Equal(t, "Bearer", tok.Type())
	assert.True(t, tok.Valid())

	// The oauth2 client attaches the token itself
	cfg := ts.oauthConfig()
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, ts.Client())
	resp, err := cfg.Client(ctx, tok).Get(ts.URL + "/user/me")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me v1.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, alice.ID, me.ID)
	assert.Equal(t, "alice", me.Username)
}

func TestPasswordGrant_WrongPassword(t *testing.T) {
	ts := newTestApiServer(t)
	ts.register(t, "alice")

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, ts.Client())
	cfg := ts.oauthConfig()
	_, err := cfg.PasswordCredentialsToken(ctx, "alice", "wrong")

	var retrieveErr *oauth2.RetrieveError
	require.ErrorAs(t, err, &retrieveErr)
	assert.Equal(t, http.StatusUnauthorized, retrieveErr.Response.StatusCode)
	assert.Equal(t, "Bearer", retrieveErr.Response.Header.Get("WWW-Authenticate"))
}

func TestToken_MissingFields(t *testing.T) {
	ts := newTestApiServer(t)

	resp, err := ts.Client().PostForm(ts.URL+"/token", url.Values{"username": {"alice"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCreateUser(t *testing.T) {
	ts := newTestApiServer(t)

	resp, body := ts.do(t, http.MethodPost, "/user/", "", v1.CreateUserRequest{
		Email:    "a@x.com",
		Username: "alice",
		Password: "pw",
		Bio:      ptr("<i>hi</i>"),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.NotContains(t, string(body), "password")

	usr := decode[v1.User](t, body)
	assert.Equal(t, "alice", usr.Username)
	assert.Equal(t, "a@x.com", usr.Email)
	require.NotNil(t, usr.Bio)
	assert.Equal(t, "hi", *usr.Bio)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantDetail string
	}{
		{
			name:       "duplicate username",
			body:       v1.CreateUserRequest{Email: "b@x.com", Username: "alice", Password: "pw"},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Email or username already registered",
		},
		{
			name:       "duplicate email",
			body:       v1.CreateUserRequest{Email: "a@x.com", Username: "alice2", Password: "pw"},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Email or username already registered",
		},
		{
			name:       "missing fields",
			body:       v1.CreateUserRequest{Username: "carol"},
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "invalid request",
		},
		{
			name:       "not json",
			body:       "{",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.do(t, http.MethodPost, "/users", "", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, decode[map[string]any](t, body)["detail"])
			}
		})
	}
}

func TestGetUsers(t *testing.T) {
	ts := newTestApiServer(t)
	ts.register(t, "alice")
	ts.clock.Advance(time.Second)
	ts.register(t, "bob")

	resp, body := ts.do(t, http.MethodGet, "/user/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := decode[[]v1.User](t, body)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)

	resp, body = ts.do(t, http.MethodGet, "/user/bob/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bob", decode[v1.User](t, body).Username)

	resp, body = ts.do(t, http.MethodGet, "/user/nobody/", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"User not found","status":404}`, string(body))
}

func TestUnauthenticated(t *testing.T) {
	ts := newTestApiServer(t)
	ts.register(t, "alice")

	resp, body := ts.do(t, http.MethodGet, "/user/timeline", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"detail":"Not authenticated","status":401}`, string(body))

	resp, body = ts.do(t, http.MethodPost, "/post/", "not-a-token", v1.CreatePostRequest{Text: "hi"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"Could not validate credentials","status":401}`, string(body))

	// An Authorization header that isn't a bearer token
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/user/me", nil)
	require.NoError(t, err)
	req.SetBasicAuth("alice", "pw")
	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Expired
	tok := ts.login(t, "alice")
	ts.clock.Advance(16 * time.Minute)
	resp, _ = ts.do(t, http.MethodGet, "/user/me", tok.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionCookie(t *testing.T) {
	ts := newTestApiServer(t)
	ts.register(t, "alice")
	bob := ts.register(t, "bob")

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp, err := client.PostForm(ts.URL+"/token", url.Values{"username": {"alice"}, "password": {"pw"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	getMe := func(bearer string) (int, v1.User) {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/user/me", nil)
		require.NoError(t, err)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		var usr v1.User
		if resp.StatusCode == http.StatusOK {
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&usr))
		}
		return resp.StatusCode, usr
	}

	status, me := getMe("")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", me.Username)

	// The header wins over the cookie
	bobTok := ts.login(t, "bob")
	status, me = getMe(bobTok.AccessToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, bob.ID, me.ID)

	resp, err = client.Post(ts.URL+"/logout", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	status, _ = getMe("")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRefresh(t *testing.T) {
	ts := newTestApiServer(t)
	ts.register(t, "alice")
	tok := ts.login(t, "alice")

	ts.clock.Advance(10 * time.Minute)
	resp, body := ts.do(t, http.MethodPost, "/token/refresh", "", v1.RefreshRequest{RefreshToken: tok.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	pair := decode[v1.TokenResponse](t, body)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.EqualValues(t, 15*60, pair.ExpiresIn)

	resp, _ = ts.do(t, http.MethodGet, "/user/me", pair.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// An access token isn't a refresh token
	resp, _ = ts.do(t, http.MethodPost, "/token/refresh", "", v1.RefreshRequest{RefreshToken: tok.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/token/refresh", "", v1.RefreshRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPatchMe_RequiresFreshToken(t *testing.T) {
	ts := newTestApiServer(t)
	ts.register(t, "alice")
	tok := ts.login(t, "alice")

	resp, body := ts.do(t, http.MethodPatch, "/user/me", tok.AccessToken, v1.UpdateUserRequest{Bio: ptr("updated")})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	usr := decode[v1.User](t, body)
	require.NotNil(t, usr.Bio)
	assert.Equal(t, "updated", *usr.Bio)

	resp, body = ts.do(t, http.MethodPost, "/token/refresh", "", v1.RefreshRequest{RefreshToken: tok.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	refreshed := decode[v1.TokenResponse](t, body)

	resp, _ = ts.do(t, http.MethodPatch, "/user/me", refreshed.AccessToken, v1.UpdateUserRequest{Bio: ptr("again")})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The non-fresh token still reads fine
	resp, _ = ts.do(t, http.MethodGet, "/user/me", refreshed.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFollowAndTimeline(t *testing.T) {
	ts := newTestApiServer(t)
	ts.register(t, "alice")
	bob := ts.register(t, "bob")
	aliceTok := ts.login(t, "alice").AccessToken
	bobTok := ts.login(t, "bob").AccessToken

	resp, body := ts.do(t, http.MethodGet, "/user/timeline", aliceTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, body = ts.do(t, http.MethodPost, "/user/follow/"+bob.ID, aliceTok, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"message":"Now following user bob"}`, string(body))

	resp, _ = ts.do(t, http.MethodPost, "/user/follow/"+bob.ID, aliceTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/user/follow/"+bob.ID, bobTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/user/follow/nope-usr", aliceTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var ids []string
	for _, text := range []string{"first", "second", "third"} {
		ts.clock.Advance(time.Second)
		resp, body := ts.do(t, http.MethodPost, "/posts/", bobTok, v1.CreatePostRequest{Text: text})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		post := decode[v1.Post](t, body)
		assert.Equal(t, text, post.Text)
		assert.Equal(t, bob.ID, post.UserID)
		ids = append(ids, post.ID)
	}

	resp, body = ts.do(t, http.MethodGet, "/user/timeline", aliceTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, postIDs(decode[[]v1.Post](t, body)))

	resp, body = ts.do(t, http.MethodGet, "/user/timeline?limit=1&offset=1", aliceTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{ids[1]}, postIDs(decode[[]v1.Post](t, body)))

	resp, _ = ts.do(t, http.MethodGet, "/user/timeline?limit=-1", aliceTok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPostsAndReplies(t *testing.T) {
	ts := newTestApiServer(t)
	ts.register(t, "alice")
	ts.register(t, "bob")
	aliceTok := ts.login(t, "alice").AccessToken
	bobTok := ts.login(t, "bob").AccessToken

	resp, body := ts.do(t, http.MethodPost, "/post/", aliceTok, v1.CreatePostRequest{Text: "hello"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	hello := decode[v1.Post](t, body)
	assert.Nil(t, hello.ParentID)

	ts.clock.Advance(time.Second)
	resp, body = ts.do(t, http.MethodPost, "/post/", bobTok, v1.CreatePostRequest{Text: "hi back", ParentID: &hello.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	reply := decode[v1.Post](t, body)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, hello.ID, *reply.ParentID)

	resp, body = ts.do(t, http.MethodGet, "/post/"+hello.ID+"/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	thread := decode[v1.PostWithReplies](t, body)
	assert.Equal(t, hello.ID, thread.ID)
	assert.Equal(t, []string{reply.ID}, postIDs(thread.Replies))

	resp, body = ts.do(t, http.MethodGet, "/post/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{hello.ID}, postIDs(decode[[]v1.Post](t, body)))

	resp, body = ts.do(t, http.MethodGet, "/post/user/bob/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]v1.Post](t, body))

	resp, body = ts.do(t, http.MethodGet, "/post/user/bob/?include_replies=true", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{reply.ID}, postIDs(decode[[]v1.Post](t, body)))

	resp, _ = ts.do(t, http.MethodGet, "/post/user/bob/?include_replies=maybe", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/post/user/nobody/", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/post/nope-pst/", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"Post not found","status":404}`, string(body))

	missing := "nope-pst"
	resp, body = ts.do(t, http.MethodPost, "/post/", aliceTok, v1.CreatePostRequest{Text: "orphan", ParentID: &missing})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"Parent post not found","status":404}`, string(body))

	resp, _ = ts.do(t, http.MethodPost, "/post/", aliceTok, v1.CreatePostRequest{Text: ""})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/post/", aliceTok, v1.CreatePostRequest{Text: "f u c k this"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLikes(t *testing.T) {
	ts := newTestApiServer(t)
	ts.register(t, "alice")
	ts.register(t, "bob")
	aliceTok := ts.login(t, "alice").AccessToken
	bobTok := ts.login(t, "bob").AccessToken

	var ids []string
	for _, text := range []string{"one", "two"} {
		ts.clock.Advance(time.Second)
		resp, body := ts.do(t, http.MethodPost, "/post/", bobTok, v1.CreatePostRequest{Text: text})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		ids = append(ids, decode[v1.Post](t, body).ID)
	}

	for _, id := range ids {
		resp, body := ts.do(t, http.MethodPost, "/post/"+id+"/like/", aliceTok, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		assert.JSONEq(t, `{"message":"Post liked successfully"}`, string(body))
	}

	resp, body := ts.do(t, http.MethodPost, "/post/"+ids[0]+"/like/", aliceTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"You already liked this post","status":400}`, string(body))

	resp, _ = ts.do(t, http.MethodPost, "/post/nope-pst/like/", aliceTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/post/likes/alice/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{ids[1], ids[0]}, postIDs(decode[[]v1.Post](t, body)))

	resp, _ = ts.do(t, http.MethodGet, "/post/likes/nobody/", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPagination_Invalid(t *testing.T) {
	ts := newTestApiServer(t)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{name: "offset without limit", query: "?offset=1", field: "offset"},
		{name: "negative limit", query: "?limit=-1", field: "limit"},
		{name: "offset not a number", query: "?limit=1&offset=x", field: "offset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.do(t, http.MethodGet, "/post/"+tt.query, "", nil)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(body))

			var got struct {
				Fields []struct {
					Field string `json:"field"`
				} `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(body, &got))
			require.Len(t, got.Fields, 1)
			assert.Equal(t, tt.field, got.Fields[0].Field)
		})
	}

	resp, _ := ts.do(t, http.MethodGet, "/post/?limit=1&offset=1", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name            string
		configured      string
		wantOrigin      string
		wantCredentials string
	}{
		{name: "named origin gets credentials", configured: "https://app.example", wantOrigin: "https://app.example", wantCredentials: "true"},
		{name: "wildcard without credentials", configured: "*", wantOrigin: "*"},
		{name: "disabled", configured: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestApiServerWithOrigin(t, tt.configured)

			req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", "https://app.example")

			resp, err := ts.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, resp.Header.Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestHealth(t *testing.T) {
	ts := newTestApiServer(t)

	resp, body := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{}`, string(body))
}

func ptr[T any](v T) *T { return &v }
