package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/cache"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/models"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/store"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/util"

	"github.com/google/uuid"
)

// Posts serves post reads through the cache-aside path and performs post
// writes with their invalidation rules.
type Posts struct {
	store store.Store
	cache *cache.Cache
	ttl   time.Duration

	now func() time.Time
}

func NewPosts(st store.Store, ch *cache.Cache, ttl time.Duration) *Posts {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Posts{store: st, cache: ch, ttl: ttl, now: time.Now}
}

// ByID returns a post joined with its author's public profile.
func (s *Posts) ByID(ctx context.Context, id string) (models.PostWithAuthor, error) {
	return cache.Lookup(s.cache, cache.KeyPost(id), s.ttl, func() (models.PostWithAuthor, error) {
		post, err := s.store.FindPostByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return models.PostWithAuthor{}, util.NotFound("post not found")
			}
			return models.PostWithAuthor{}, err
		}
		return models.PostWithAuthor{
			Post:   *post,
			Author: s.authorProfile(ctx, post.AuthorID),
		}, nil
	})
}

// ByUser returns one page of a user's posts.
func (s *Posts) ByUser(ctx context.Context, authorID string, p util.Pagination) ([]models.Post, error) {
	key := cache.KeyUserPosts(authorID, p.Page())
	return cache.Lookup(s.cache, key, s.ttl, func() ([]models.Post, error) {
		return s.store.FindPosts(ctx, store.PostFilter{
			AuthorID: authorID,
			Order:    p.Order,
			Limit:    p.Limit,
			Offset:   p.Offset,
		})
	})
}

// Feed returns one page of all posts, each joined with its author's
// public profile.
func (s *Posts) Feed(ctx context.Context, p util.Pagination) ([]models.PostWithAuthor, error) {
	key := cache.KeyFeed(p.Page())
	return cache.Lookup(s.cache, key, s.ttl, func() ([]models.PostWithAuthor, error) {
		posts, err := s.store.FindPosts(ctx, store.PostFilter{
			Order:  p.Order,
			Limit:  p.Limit,
			Offset: p.Offset,
		})
		if err != nil {
			return nil, err
		}

		profiles := make(map[string]models.Profile, len(posts))
		out := make([]models.PostWithAuthor, 0, len(posts))
		for i := range posts {
			author, ok := profiles[posts[i].AuthorID]
			if !ok {
				author = s.authorProfile(ctx, posts[i].AuthorID)
				profiles[posts[i].AuthorID] = author
			}
			out = append(out, models.PostWithAuthor{Post: posts[i], Author: author})
		}
		return out, nil
	})
}

// authorProfile resolves an author's public profile. A missing author
// (account soft-deleted after posting) yields a profile holding only the
// id, so the post itself stays readable.
func (s *Posts) authorProfile(ctx context.Context, authorID string) models.Profile {
	user, err := s.store.FindUserByID(ctx, authorID)
	if err != nil {
		return models.Profile{ID: authorID}
	}
	return user.PublicProfile()
}

// Create validates and persists a new post, then invalidates every cached
// read the write affects: the author's pages and all feed pages.
func (s *Posts) Create(ctx context.Context, authorID, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if msgs := util.Validate(util.PostInput{Content: content}); len(msgs) > 0 {
		return nil, util.Validation(strings.Join(msgs, "; "))
	}

	if _, err := s.store.FindUserByID(ctx, authorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, util.NotFound("author not found")
		}
		return nil, err
	}

	post := &models.Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: s.now(),
	}
	err := s.store.InTransaction(ctx, func(tx store.Store) error {
		return tx.CreatePost(ctx, post)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(post.ID, authorID)
	return post, nil
}

// Delete soft-deletes one of the requester's own posts.
func (s *Posts) Delete(ctx context.Context, requesterID, postID string) error {
	post, err := s.store.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return util.NotFound("post not found")
		}
		return err
	}
	if post.AuthorID != requesterID {
		return util.Forbidden("you can only delete your own posts")
	}

	err = s.store.InTransaction(ctx, func(tx store.Store) error {
		return tx.SoftDeletePost(ctx, postID, s.now())
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return util.NotFound("post not found")
		}
		return err
	}

	s.invalidate(postID, post.AuthorID)
	return nil
}

func (s *Posts) invalidate(postID, authorID string) {
	s.cache.Delete(cache.KeyPost(postID))
	s.cache.DeletePrefix(cache.PrefixUserPosts(authorID))
	s.cache.DeletePrefix(cache.PrefixFeed)
}
