package permission

import (
	"context"
	"time"

	"github.com/rongwang/fintrack/internal/models"
)

type pair struct{ group, user string }

// fakeStore keeps groups, memberships and shares in indexed maps
type fakeStore struct {
	groups     map[string]*models.Group
	members    map[pair]bool
	shares     map[pair]models.Permission
	categories map[string]*models.Category
	projects   map[string]*models.Project
	users      map[string]*models.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		groups:     map[string]*models.Group{},
		members:    map[pair]bool{},
		shares:     map[pair]models.Permission{},
		categories: map[string]*models.Category{},
		projects:   map[string]*models.Project{},
		users:      map[string]*models.User{},
	}
}

func (s *fakeStore) addGroup(id, owner string) *models.Group {
	g := &models.Group{ID: id, Name: id, OwnerID: owner}
	s.groups[id] = g
	s.members[pair{id, owner}] = true
	return g
}

func (s *fakeStore) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	g, ok := s.groups[groupID]
	if !ok || g.DeletedAt != nil {
		return nil, nil
	}
	return g, nil
}

func (s *fakeStore) GetGroupShare(_ context.Context, groupID, userID string) (*models.GroupShare, error) {
	p, ok := s.shares[pair{groupID, userID}]
	if !ok {
		return nil, nil
	}
	return &models.GroupShare{GroupID: groupID, UserID: userID, Permission: p}, nil
}

func (s *fakeStore) IsGroupMember(_ context.Context, groupID, userID string) (bool, error) {
	return s.members[pair{groupID, userID}], nil
}

func (s *fakeStore) GetCategory(_ context.Context, kind models.RecordKind, id string) (*models.Category, error) {
	c, ok := s.categories[id]
	if !ok || c.Kind != kind || c.DeletedAt != nil {
		return nil, nil
	}
	return c, nil
}

func (s *fakeStore) GetProject(_ context.Context, id string) (*models.Project, error) {
	p, ok := s.projects[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	return p, nil
}

func (s *fakeStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func deletedAt() *time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &t
}
