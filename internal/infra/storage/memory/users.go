package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainuser "staybook/internal/domain/user"
)

// UserRepository stores users in memory. Not suitable for production.
type UserRepository struct {
	mu       sync.RWMutex
	byID     map[domainuser.ID]*domainuser.User
	byEmail  map[string]domainuser.ID
	byGoogle map[string]domainuser.ID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:     make(map[domainuser.ID]*domainuser.User),
		byEmail:  make(map[string]domainuser.ID),
		byGoogle: make(map[string]domainuser.ID),
	}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if user, ok := r.byID[id]; ok {
		return cloneUser(user), nil
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domainuser.NormalizeEmail(email)]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	if user, ok := r.byID[id]; ok {
		return cloneUser(user), nil
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) ByGoogleID(ctx context.Context, googleID string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byGoogle[strings.TrimSpace(googleID)]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	if user, ok := r.byID[id]; ok {
		return cloneUser(user), nil
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) Save(ctx context.Context, user *domainuser.User) error {
	if user == nil {
		return domainuser.ErrIDRequired
	}
	id := strings.TrimSpace(string(user.ID))
	if id == "" {
		return domainuser.ErrIDRequired
	}
	emailKey := domainuser.NormalizeEmail(user.Email)
	if emailKey == "" {
		return domainuser.ErrEmailRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byEmail[emailKey]; ok && existingID != user.ID {
		return domainuser.ErrEmailAlreadyUsed
	}
	r.byEmail[emailKey] = user.ID
	if gid := strings.TrimSpace(user.GoogleID); gid != "" {
		r.byGoogle[gid] = user.ID
	}
	r.byID[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) List(ctx context.Context, params domainuser.ListParams) (domainuser.ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := strings.TrimSpace(strings.ToLower(params.Query))
	matches := make([]*domainuser.User, 0, len(r.byID))
	for _, user := range r.byID {
		if params.Role != "" && !user.HasRole(params.Role) {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(user.Name + " " + user.Email)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		matches = append(matches, cloneUser(user))
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	total := len(matches)
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	start := params.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return domainuser.ListResult{Items: matches[start:end], Total: total}, nil
}

func cloneUser(u *domainuser.User) *domainuser.User {
	if u == nil {
		return nil
	}
	copyUser := *u
	copyUser.Roles = append([]domainuser.Role(nil), u.Roles...)
	return &copyUser
}

var _ domainuser.Repository = (*UserRepository)(nil)
