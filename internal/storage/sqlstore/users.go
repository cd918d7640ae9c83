package sqlstore

import (
	"context"
	"errors"
	"time"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) GetUser(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	if err := findOne(s.conn(ctx).Where("id = ?", id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := findOne(s.conn(ctx).Where("LOWER(email) = LOWER(?)", email), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	var u entity.User
	if err := findOne(s.conn(ctx).Where("username = ?", username), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// uniqueUserFields rejects an email or username held by a user other than
// selfID. Email comparison ignores case.
func uniqueUserFields(tx *gorm.DB, selfID string, email, username *string) error {
	if email != nil {
		taken, err := exists(tx, &entity.User{}, "LOWER(email) = LOWER(?) AND id <> ?", *email, selfID)
		if err != nil {
			return err
		}
		if taken {
			return storage.ErrDuplicate
		}
	}
	if username != nil {
		taken, err := exists(tx, &entity.User{}, "username = ? AND id <> ?", *username, selfID)
		if err != nil {
			return err
		}
		if taken {
			return storage.ErrDuplicate
		}
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user *entity.User) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if user.ID == "" {
			user.ID = entity.NewID()
		}
		if err := uniqueUserFields(tx, user.ID, user.Email, user.Username); err != nil {
			return err
		}
		return translate(tx.Create(user).Error)
	})
}

// UpsertUser inserts or, on an id conflict, overwrites only the supplied
// columns in a single statement.
func (s *Store) UpsertUser(ctx context.Context, in storage.UpsertUserInput) (*entity.User, error) {
	if in.ID == "" {
		return nil, storage.ErrInvalidInput
	}

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := uniqueUserFields(tx, in.ID, in.Email, in.Username); err != nil {
			return err
		}

		row := entity.User{
			ID:              in.ID,
			Email:           in.Email,
			Username:        in.Username,
			FirstName:       in.FirstName,
			LastName:        in.LastName,
			ProfileImageURL: in.ProfileImageURL,
			AuthProvider:    entity.AuthProviderEmail,
			BlockedChannels: datatypes.JSONSlice[string]{},
		}
		cols := []string{"updated_at"}
		if in.Email != nil {
			cols = append(cols, "email")
		}
		if in.Username != nil {
			cols = append(cols, "username")
		}
		if in.FirstName != nil {
			cols = append(cols, "first_name")
		}
		if in.LastName != nil {
			cols = append(cols, "last_name")
		}
		if in.ProfileImageURL != nil {
			cols = append(cols, "profile_image_url")
		}
		if in.AuthProvider != nil {
			row.AuthProvider = *in.AuthProvider
			cols = append(cols, "auth_provider")
		}
		if in.IsVerified != nil {
			row.IsVerified = *in.IsVerified
			cols = append(cols, "is_verified")
		}

		return translate(tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).Create(&row).Error)
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, in.ID)
}

func (s *Store) UpdateUser(ctx context.Context, id string, upd storage.UserUpdate) (*entity.User, error) {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := uniqueUserFields(tx, id, nil, upd.Username); err != nil {
			return err
		}

		fields := map[string]any{"updated_at": time.Now()}
		if upd.Username != nil {
			fields["username"] = *upd.Username
		}
		if upd.FirstName != nil {
			fields["first_name"] = *upd.FirstName
		}
		if upd.LastName != nil {
			fields["last_name"] = *upd.LastName
		}
		if upd.ProfileImageURL != nil {
			fields["profile_image_url"] = *upd.ProfileImageURL
		}
		if upd.PersonalMode != nil {
			fields["personal_mode"] = *upd.PersonalMode
		}

		res := tx.Model(&entity.User{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// mutateBlocked rewrites a user's block list under a row lock.
func (s *Store) mutateBlocked(ctx context.Context, userID string, fn func(datatypes.JSONSlice[string]) datatypes.JSONSlice[string]) (bool, error) {
	found := false
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var u entity.User
		err := findOne(forUpdate(tx).Where("id = ?", userID), &u)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		return tx.Model(&entity.User{}).Where("id = ?", userID).Updates(map[string]any{
			"blocked_channels": fn(u.BlockedChannels),
			"updated_at":       time.Now(),
		}).Error
	})
	return found, err
}

func (s *Store) BlockChannel(ctx context.Context, userID, channelID string) (bool, error) {
	return s.mutateBlocked(ctx, userID, func(list datatypes.JSONSlice[string]) datatypes.JSONSlice[string] {
		for _, id := range list {
			if id == channelID {
				return list
			}
		}
		return append(list, channelID)
	})
}

func (s *Store) UnblockChannel(ctx context.Context, userID, channelID string) (bool, error) {
	return s.mutateBlocked(ctx, userID, func(list datatypes.JSONSlice[string]) datatypes.JSONSlice[string] {
		kept := datatypes.JSONSlice[string]{}
		for _, id := range list {
			if id != channelID {
				kept = append(kept, id)
			}
		}
		return kept
	})
}

func (s *Store) GetBlockedChannels(ctx context.Context, userID string) ([]string, error) {
	u, err := s.GetUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []string(u.BlockedChannels), nil
}
