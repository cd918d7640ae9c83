package memory

import (
	"context"
	"strings"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"gorm.io/datatypes"
)

func (s *Store) GetUser(_ context.Context, id string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyUser(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := s.userByEmail(email); u != nil {
		return copyUser(u), nil
	}
	return nil, storage.ErrNotFound
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := s.userByUsername(username); u != nil {
		return copyUser(u), nil
	}
	return nil, storage.ErrNotFound
}

func (s *Store) userByEmail(email string) *entity.User {
	for _, u := range s.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			return u
		}
	}
	return nil
}

func (s *Store) userByUsername(username string) *entity.User {
	for _, u := range s.users {
		if u.Username != nil && *u.Username == username {
			return u
		}
	}
	return nil
}

// uniqueUserFields checks email/username against every user except selfID.
func (s *Store) uniqueUserFields(selfID string, email, username *string) error {
	if email != nil {
		if u := s.userByEmail(*email); u != nil && u.ID != selfID {
			return storage.ErrDuplicate
		}
	}
	if username != nil {
		if u := s.userByUsername(*username); u != nil && u.ID != selfID {
			return storage.ErrDuplicate
		}
	}
	return nil
}

func (s *Store) CreateUser(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = entity.NewID()
	}
	if _, exists := s.users[user.ID]; exists {
		return storage.ErrDuplicate
	}
	if err := s.uniqueUserFields(user.ID, user.Email, user.Username); err != nil {
		return err
	}
	if user.AuthProvider == "" {
		user.AuthProvider = entity.AuthProviderEmail
	}
	user.Normalize()
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now

	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *Store) UpsertUser(_ context.Context, in storage.UpsertUserInput) (*entity.User, error) {
	if in.ID == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.uniqueUserFields(in.ID, in.Email, in.Username); err != nil {
		return nil, err
	}

	now := s.now()
	u, exists := s.users[in.ID]
	if !exists {
		u = &entity.User{
			ID:              in.ID,
			AuthProvider:    entity.AuthProviderEmail,
			BlockedChannels: datatypes.JSONSlice[string]{},
			CreatedAt:       now,
		}
		s.users[in.ID] = u
	}

	if in.Email != nil {
		u.Email = strPtr(*in.Email)
	}
	if in.Username != nil {
		u.Username = strPtr(*in.Username)
	}
	if in.FirstName != nil {
		u.FirstName = strPtr(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strPtr(*in.LastName)
	}
	if in.ProfileImageURL != nil {
		u.ProfileImageURL = strPtr(*in.ProfileImageURL)
	}
	if in.AuthProvider != nil {
		u.AuthProvider = *in.AuthProvider
	}
	if in.IsVerified != nil {
		u.IsVerified = *in.IsVerified
	}
	u.UpdatedAt = now

	return copyUser(u), nil
}

func (s *Store) UpdateUser(_ context.Context, id string, upd storage.UserUpdate) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if err := s.uniqueUserFields(id, nil, upd.Username); err != nil {
		return nil, err
	}

	if upd.Username != nil {
		u.Username = strPtr(*upd.Username)
	}
	if upd.FirstName != nil {
		u.FirstName = strPtr(*upd.FirstName)
	}
	if upd.LastName != nil {
		u.LastName = strPtr(*upd.LastName)
	}
	if upd.ProfileImageURL != nil {
		u.ProfileImageURL = strPtr(*upd.ProfileImageURL)
	}
	if upd.PersonalMode != nil {
		u.PersonalMode = *upd.PersonalMode
	}
	u.UpdatedAt = s.now()

	return copyUser(u), nil
}

func (s *Store) BlockChannel(_ context.Context, userID, channelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return false, nil
	}
	if !u.HasBlocked(channelID) {
		u.BlockedChannels = append(jsonSlice(u.BlockedChannels), channelID)
		u.UpdatedAt = s.now()
	}
	return true, nil
}

func (s *Store) UnblockChannel(_ context.Context, userID, channelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return false, nil
	}

	kept := datatypes.JSONSlice[string]{}
	for _, id := range u.BlockedChannels {
		if id != channelID {
			kept = append(kept, id)
		}
	}
	u.BlockedChannels = kept
	u.UpdatedAt = s.now()
	return true, nil
}

func (s *Store) GetBlockedChannels(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return []string{}, nil
	}
	return cloneStrings(u.BlockedChannels), nil
}
