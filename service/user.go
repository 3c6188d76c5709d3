package service

import (
	"context"
	"time"

	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/policy"
	"github.com/ariebrainware/therapist-booking/repository"
	"github.com/ariebrainware/therapist-booking/util"
)

const msgUserHidden = "User not found"

// UserService is account management for admins, plus self read/update.
type UserService struct {
	store    *repository.Store
	tokenTTL time.Duration
}

func NewUserService(store *repository.Store, tokenTTL time.Duration) *UserService {
	return &UserService{store: store, tokenTTL: tokenTTL}
}

// UserPage is one page of ListUsers.
type UserPage struct {
	Users        []model.User `json:"users"`
	Total        int64        `json:"total"`
	TotalFetched int          `json:"total_fetched"`
	HasMore      bool         `json:"has_more"`
	NextCursor   *uint        `json:"next_cursor"`
}

// List pages through active users.
func (s *UserService) List(ctx context.Context, actor policy.Actor, f repository.UserFilter) (*UserPage, error) {
	if !policy.Decide(policy.UserList, actor, policy.Resource{}) {
		return nil, forbidden("Forbidden: admin only")
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	users, total, err := s.store.ListUsers(ctx, f)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	page := &UserPage{Total: total}
	if len(users) > f.Limit {
		users = users[:f.Limit]
		page.HasMore = true
		last := users[len(users)-1].ID
		page.NextCursor = &last
	}
	if users == nil {
		users = []model.User{}
	}
	page.Users = users
	page.TotalFetched = len(users)
	return page, nil
}

// Create adds an account of any role. Therapists get a profile.
func (s *UserService) Create(ctx context.Context, actor policy.Actor, in RegisterInput) (*Account, error) {
	if !policy.Decide(policy.UserCreate, actor, policy.Resource{}) {
		return nil, forbidden("Forbidden: admin only")
	}
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	if !in.Role.Valid() {
		return nil, validationErr("Invalid role")
	}
	return createAccount(ctx, s.store, in)
}

// Get returns user id to an admin or to the user themself.
func (s *UserService) Get(ctx context.Context, actor policy.Actor, id uint) (*model.User, error) {
	if !policy.Decide(policy.UserRead, actor, policy.Resource{OwnerID: id}) {
		return nil, notFoundOrForbidden(msgUserHidden)
	}
	u, err := s.store.FindUser(ctx, id)
	if err != nil {
		return nil, lookupErr("find user", msgUserHidden, err)
	}
	return u, nil
}

// UpdateUserInput holds the optional fields of a user update. Password is plain text.
type UpdateUserInput struct {
	Name     *string
	Phone    *string
	Password *string
}

// Update patches user id. A password change revokes the user's tracked tokens.
func (s *UserService) Update(ctx context.Context, actor policy.Actor, id uint, in UpdateUserInput) (*model.User, error) {
	if !policy.Decide(policy.UserUpdate, actor, policy.Resource{OwnerID: id}) {
		return nil, notFoundOrForbidden(msgUserHidden)
	}

	var patch repository.UserPatch
	if in.Name != nil {
		name := util.NormalizeName(*in.Name)
		if name == "" {
			return nil, validationErr("name must not be empty")
		}
		patch.Name = &name
	}
	patch.Phone = in.Phone
	if in.Password != nil {
		if *in.Password == "" {
			return nil, validationErr("password must not be empty")
		}
		hash, err := util.HashPassword(*in.Password)
		if err != nil {
			return nil, storeErr("hash password", err)
		}
		patch.Password = &hash
	}
	if patch.Empty() {
		return nil, validationErr("At least one field (name, phone, or password) must be provided")
	}

	if err := s.store.UpdateUser(ctx, id, patch); err != nil {
		return nil, lookupErr("update user", msgUserHidden, err)
	}
	if patch.Password != nil {
		if err := util.RevokeUserTokens(ctx, id, s.tokenTTL); err != nil {
			util.Log.WithError(err).WithField("user_id", id).Warn("failed to revoke tokens after password change")
		}
	}
	return s.Get(ctx, actor, id)
}

// SoftDelete deactivates user id, along with the therapist profile it owns.
func (s *UserService) SoftDelete(ctx context.Context, actor policy.Actor, id uint) error {
	if !policy.Decide(policy.UserDelete, actor, policy.Resource{OwnerID: id}) {
		return forbidden("Forbidden: admin only")
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.SoftDeleteUser(ctx, id); err != nil {
			return lookupErr("delete user", msgUserHidden, err)
		}
		if err := tx.SoftDeleteTherapistByUserID(ctx, id); err != nil {
			return storeErr("delete therapist profile", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	util.UserEmailCacheDelete(id)
	if err := util.RevokeUserTokens(ctx, id, s.tokenTTL); err != nil {
		util.Log.WithError(err).WithField("user_id", id).Warn("failed to revoke tokens of deleted user")
	}
	return nil
}
