package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/models"
)

// Memory is a mutex-guarded in-memory Store. Its transaction support is a
// snapshot of both record slices restored on error; readers running during
// a transaction can observe in-progress writes.
type Memory struct {
	mu    sync.RWMutex
	users []models.User
	posts []models.Post
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.users {
		u := &m.users[i]
		if u.DeletedAt == nil && u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.users {
		u := &m.users[i]
		if u.DeletedAt == nil && u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) FindAllUsers(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.User, 0, len(m.users))
	for i := range m.users {
		if m.users[i].DeletedAt == nil {
			out = append(out, m.users[i])
		}
	}
	return out, nil
}

func (m *Memory) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.users {
		if m.users[i].DeletedAt == nil && m.users[i].Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	m.users = append(m.users, *u)
	return nil
}

func (m *Memory) UpdateUser(ctx context.Context, id string, patch UserPatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.users {
		u := &m.users[i]
		if u.ID != id || u.DeletedAt != nil {
			continue
		}
		applyPatch(u, patch)
		cp := *u
		return &cp, nil
	}
	return nil, ErrNotFound
}

func applyPatch(u *models.User, patch UserPatch) {
	if patch.DisplayName != nil {
		u.DisplayName = *patch.DisplayName
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.Status != nil {
		u.Status = *patch.Status
	}
	if patch.FailedLoginCount != nil {
		u.FailedLoginCount = *patch.FailedLoginCount
	}
	if patch.SetLockedUntil {
		u.LockedUntil = copyTime(patch.LockedUntil)
	}
	if patch.SetDeletedAt {
		u.DeletedAt = copyTime(patch.DeletedAt)
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

func (m *Memory) FindPosts(ctx context.Context, f PostFilter) ([]models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]models.Post, 0)
	for i := range m.posts {
		p := &m.posts[i]
		if p.DeletedAt != nil {
			continue
		}
		if f.AuthorID != "" && p.AuthorID != f.AuthorID {
			continue
		}
		matched = append(matched, *p)
	}

	asc := f.Order == "ASC"
	sort.SliceStable(matched, func(i, j int) bool {
		if asc {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if f.Offset > 0 {
		if f.Offset >= len(matched) {
			return []models.Post{}, nil
		}
		matched = matched[f.Offset:]
	}
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func (m *Memory) FindPostByID(ctx context.Context, id string) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.posts {
		p := &m.posts[i]
		if p.DeletedAt == nil && p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreatePost(ctx context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.posts = append(m.posts, *p)
	return nil
}

func (m *Memory) SoftDeletePost(ctx context.Context, id string, when time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.posts {
		p := &m.posts[i]
		if p.DeletedAt == nil && p.ID == id {
			w := when
			p.DeletedAt = &w
			return nil
		}
	}
	return ErrNotFound
}

// InTransaction snapshots both record slices, runs fn against the store
// itself, and restores the snapshot when fn fails.
func (m *Memory) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	m.mu.Lock()
	usersSnap := append([]models.User(nil), m.users...)
	postsSnap := append([]models.Post(nil), m.posts...)
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.users = usersSnap
		m.posts = postsSnap
		m.mu.Unlock()
		return err
	}
	return nil
}
