package api

import (
	v1 "github.com/jdholdren/microblog/api/v1"
	"github.com/jdholdren/microblog/internal/microblog"
)

func toUser(usr microblog.User) v1.User {
	return v1.User{
		ID:        usr.ID,
		Username:  usr.Username,
		Email:     usr.Email,
		Avatar:    usr.Avatar,
		Bio:       usr.Bio,
		CreatedAt: usr.CreatedAt,
		UpdatedAt: usr.UpdatedAt,
	}
}

func toPost(post microblog.Post) v1.Post {
	return v1.Post{
		ID:       post.ID,
		Text:     post.Text,
		UserID:   post.UserID,
		ParentID: post.ParentID,
		Date:     post.CreatedAt,
	}
}

func toPosts(posts []microblog.Post) []v1.Post {
	ret := make([]v1.Post, 0, len(posts))
	for _, p := range posts {
		ret = append(ret, toPost(p))
	}
	return ret
}
