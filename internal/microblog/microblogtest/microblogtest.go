// Package microblogtest holds a conformance suite every microblog.Repository
// implementation is run against.
package microblogtest

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/microblog/internal/microblog"
)

// Stores differ in time precision, mongo being the coarsest.
var epoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// NewRepoFunc returns a fresh, empty repository for a single test.
type NewRepoFunc func(t *testing.T) microblog.Repository

// RunRepositoryTests runs the shared behaviour checks against a backing store.
func RunRepositoryTests(t *testing.T, newRepo NewRepoFunc) {
	t.Run("users", func(t *testing.T) { testUsers(t, newRepo(t)) })
	t.Run("update user", func(t *testing.T) { testUpdateUser(t, newRepo(t)) })
	t.Run("posts", func(t *testing.T) { testPosts(t, newRepo(t)) })
	t.Run("post listings", func(t *testing.T) { testPostListings(t, newRepo(t)) })
	t.Run("follows", func(t *testing.T) { testFollows(t, newRepo(t)) })
	t.Run("likes", func(t *testing.T) { testLikes(t, newRepo(t)) })
}

// FakeUser returns a user with random credentials created at the given time.
func FakeUser(at time.Time) microblog.User {
	return microblog.User{
		Username:     gofakeit.Username() + gofakeit.DigitN(6),
		Email:        gofakeit.DigitN(6) + gofakeit.Email(),
		PasswordHash: gofakeit.Password(true, true, true, false, false, 24),
		CreatedAt:    at,
		UpdatedAt:    at,
	}
}

func insertUser(t *testing.T, repo microblog.Repository, at time.Time) microblog.User {
	t.Helper()

	usr, err := repo.InsertUser(context.Background(), FakeUser(at))
	require.NoError(t, err)
	return usr
}

func insertPost(t *testing.T, repo microblog.Repository, userID string, parentID *string, at time.Time) microblog.Post {
	t.Helper()

	post, err := repo.InsertPost(context.Background(), microblog.Post{
		UserID:    userID,
		Text:      gofakeit.Sentence(8),
		ParentID:  parentID,
		CreatedAt: at,
	})
	require.NoError(t, err)
	return post
}

func postIDs(posts []microblog.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func testUsers(t *testing.T, repo microblog.Repository) {
	ctx := context.Background()

	want := FakeUser(epoch)
	bio := "hello"
	want.Bio = &bio
	got, err := repo.InsertUser(ctx, want)
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, want.Username, got.Username)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.PasswordHash, got.PasswordHash)
	assert.Equal(t, &bio, got.Bio)
	assert.Nil(t, got.Avatar)
	assert.False(t, got.Superuser)
	assert.WithinDuration(t, epoch, got.CreatedAt, time.Millisecond)

	byID, err := repo.User(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Username, byID.Username)

	byName, err := repo.UserByUsername(ctx, got.Username)
	require.NoError(t, err)
	assert.Equal(t, got.ID, byName.ID)

	_, err = repo.User(ctx, "nope-usr")
	assert.ErrorIs(t, err, microblog.ErrNotFound)
	_, err = repo.UserByUsername(ctx, "nobody-at-all")
	assert.ErrorIs(t, err, microblog.ErrNotFound)

	sameName := FakeUser(epoch)
	sameName.Username = got.Username
	_, err = repo.InsertUser(ctx, sameName)
	assert.ErrorIs(t, err, microblog.ErrConflict)

	sameEmail := FakeUser(epoch)
	sameEmail.Email = got.Email
	_, err = repo.InsertUser(ctx, sameEmail)
	assert.ErrorIs(t, err, microblog.ErrConflict)

	second := insertUser(t, repo, epoch.Add(time.Second))
	all, err := repo.AllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, got.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}

func testUpdateUser(t *testing.T, repo microblog.Repository) {
	ctx := context.Background()

	usr := insertUser(t, repo, epoch)
	other := insertUser(t, repo, epoch)

	bio, avatar := "new bio", "https://example.com/a.png"
	later := epoch.Add(time.Hour)
	updated, err := repo.UpdateUser(ctx, usr.ID, microblog.UpdateUserArgs{
		Bio:       &bio,
		Avatar:    &avatar,
		UpdatedAt: later,
	})
	require.NoError(t, err)
	assert.Equal(t, &bio, updated.Bio)
	assert.Equal(t, &avatar, updated.Avatar)
	assert.Equal(t, usr.Email, updated.Email)
	assert.Equal(t, usr.PasswordHash, updated.PasswordHash)
	assert.WithinDuration(t, later, updated.UpdatedAt, time.Millisecond)

	_, err = repo.UpdateUser(ctx, usr.ID, microblog.UpdateUserArgs{Email: other.Email, UpdatedAt: later})
	assert.ErrorIs(t, err, microblog.ErrConflict)

	_, err = repo.UpdateUser(ctx, "nope-usr", microblog.UpdateUserArgs{Bio: &bio, UpdatedAt: later})
	assert.ErrorIs(t, err, microblog.ErrNotFound)
}

func testPosts(t *testing.T, repo microblog.Repository) {
	ctx := context.Background()

	usr := insertUser(t, repo, epoch)
	root := insertPost(t, repo, usr.ID, nil, epoch)
	assert.NotEmpty(t, root.ID)
	assert.False(t, root.IsReply())

	reply := insertPost(t, repo, usr.ID, &root.ID, epoch.Add(time.Second))
	require.True(t, reply.IsReply())
	assert.Equal(t, root.ID, *reply.ParentID)

	got, err := repo.Post(ctx, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, reply.Text, got.Text)
	assert.Equal(t, usr.ID, got.UserID)

	_, err = repo.Post(ctx, "nope-pst")
	assert.ErrorIs(t, err, microblog.ErrNotFound)

	missing := "nope-pst"
	_, err = repo.InsertPost(ctx, microblog.Post{UserID: usr.ID, Text: "orphan", ParentID: &missing, CreatedAt: epoch})
	assert.ErrorIs(t, err, microblog.ErrNotFound)
}

func testPostListings(t *testing.T, repo microblog.Repository) {
	ctx := context.Background()

	alice := insertUser(t, repo, epoch)
	bob := insertUser(t, repo, epoch)

	a1 := insertPost(t, repo, alice.ID, nil, epoch.Add(1*time.Second))
	b1 := insertPost(t, repo, bob.ID, nil, epoch.Add(2*time.Second))
	a2 := insertPost(t, repo, alice.ID, &b1.ID, epoch.Add(3*time.Second))
	b2 := insertPost(t, repo, bob.ID, &b1.ID, epoch.Add(4*time.Second))
	a3 := insertPost(t, repo, alice.ID, nil, epoch.Add(5*time.Second))

	tests := []struct {
		name string
		args microblog.PostsArgs
		want []string
	}{
		{
			name: "everything newest first",
			args: microblog.PostsArgs{},
			want: []string{a3.ID, b2.ID, a2.ID, b1.ID, a1.ID},
		},
		{
			name: "root only",
			args: microblog.PostsArgs{RootOnly: true},
			want: []string{a3.ID, b1.ID, a1.ID},
		},
		{
			name: "by author oldest first",
			args: microblog.PostsArgs{UserIDs: []string{alice.ID}, Order: microblog.OldestFirst},
			want: []string{a1.ID, a2.ID, a3.ID},
		},
		{
			name: "by author roots only",
			args: microblog.PostsArgs{UserIDs: []string{alice.ID}, RootOnly: true, Order: microblog.OldestFirst},
			want: []string{a1.ID, a3.ID},
		},
		{
			name: "replies to a post",
			args: microblog.PostsArgs{ParentID: b1.ID, Order: microblog.OldestFirst},
			want: []string{a2.ID, b2.ID},
		},
		{
			name: "by ids",
			args: microblog.PostsArgs{IDs: []string{a1.ID, b2.ID}},
			want: []string{b2.ID, a1.ID},
		},
		{
			name: "paged",
			args: microblog.PostsArgs{Limit: 2, Offset: 1},
			want: []string{b2.ID, a2.ID},
		},
		{
			name: "past the end",
			args: microblog.PostsArgs{Limit: 2, Offset: 10},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := repo.Posts(ctx, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, postIDs(posts))
		})
	}
}

func testFollows(t *testing.T, repo microblog.Repository) {
	ctx := context.Background()

	alice := insertUser(t, repo, epoch)
	bob := insertUser(t, repo, epoch)
	carol := insertUser(t, repo, epoch)

	ids, err := repo.FollowedIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	f, err := repo.InsertFollow(ctx, microblog.Follow{FollowerID: alice.ID, FolloweeID: bob.ID, CreatedAt: epoch})
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)

	_, err = repo.InsertFollow(ctx, microblog.Follow{FollowerID: alice.ID, FolloweeID: bob.ID, CreatedAt: epoch})
	assert.ErrorIs(t, err, microblog.ErrConflict)

	_, err = repo.InsertFollow(ctx, microblog.Follow{FollowerID: alice.ID, FolloweeID: alice.ID, CreatedAt: epoch})
	assert.ErrorIs(t, err, microblog.ErrConflict)

	_, err = repo.InsertFollow(ctx, microblog.Follow{FollowerID: alice.ID, FolloweeID: "nope-usr", CreatedAt: epoch})
	assert.ErrorIs(t, err, microblog.ErrNotFound)

	_, err = repo.InsertFollow(ctx, microblog.Follow{FollowerID: alice.ID, FolloweeID: carol.ID, CreatedAt: epoch.Add(time.Second)})
	require.NoError(t, err)

	ok, err := repo.FollowExists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Edges are directed
	ok, err = repo.FollowExists(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ids, err = repo.FollowedIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID, carol.ID}, ids)
}

func testLikes(t *testing.T, repo microblog.Repository) {
	ctx := context.Background()

	alice := insertUser(t, repo, epoch)
	bob := insertUser(t, repo, epoch)
	p1 := insertPost(t, repo, bob.ID, nil, epoch)
	p2 := insertPost(t, repo, bob.ID, nil, epoch.Add(time.Second))

	_, err := repo.InsertLike(ctx, microblog.Like{UserID: alice.ID, PostID: p2.ID, CreatedAt: epoch})
	require.NoError(t, err)
	_, err = repo.InsertLike(ctx, microblog.Like{UserID: alice.ID, PostID: p1.ID, CreatedAt: epoch.Add(time.Second)})
	require.NoError(t, err)

	_, err = repo.InsertLike(ctx, microblog.Like{UserID: alice.ID, PostID: p1.ID, CreatedAt: epoch})
	assert.ErrorIs(t, err, microblog.ErrConflict)

	_, err = repo.InsertLike(ctx, microblog.Like{UserID: alice.ID, PostID: "nope-pst", CreatedAt: epoch})
	assert.ErrorIs(t, err, microblog.ErrNotFound)
	_, err = repo.InsertLike(ctx, microblog.Like{UserID: "nope-usr", PostID: p1.ID, CreatedAt: epoch})
	assert.ErrorIs(t, err, microblog.ErrNotFound)

	ok, err := repo.LikeExists(ctx, alice.ID, p1.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.LikeExists(ctx, bob.ID, p1.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ids, err := repo.LikedPostIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{p2.ID, p1.ID}, ids)
}
