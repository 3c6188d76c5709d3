package repository

import (
	"context"

	"github.com/ariebrainware/therapist-booking/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserFilter narrows ListUsers. Cursor takes precedence over Offset.
type UserFilter struct {
	Keyword string
	Limit   int
	Cursor  uint
	Offset  int
}

// UserPatch holds the optional columns of a user update. Password must
// already be hashed.
type UserPatch struct {
	Name     *string
	Phone    *string
	Password *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Password == nil
}

func (p UserPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Phone != nil {
		cols["phone"] = *p.Phone
	}
	if p.Password != nil {
		cols["password"] = *p.Password
	}
	return cols
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	if u.Status == 0 {
		u.Status = model.StatusActive
	}
	return s.conn(ctx).Create(u).Error
}

// FindUser returns the active user with id.
func (s *Store) FindUser(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	err := active(s.conn(ctx), "").Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// FindUserByEmail returns the active user registered with email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := active(s.conn(ctx), "").Where("email = ?", email).Order("id ASC").First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// EmailInUse reports whether an active user already owns email. The read
// locks the email index range, so inside a transaction a concurrent sign-up
// for the same address waits until this one commits or rolls back.
func (s *Store) EmailInUse(ctx context.Context, email string) (bool, error) {
	var count int64
	err := active(s.conn(ctx).Model(&model.User{}), "").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// ListUsers returns up to Limit+1 active users ordered by id so the caller can
// detect a further page, plus the total number of matches.
func (s *Store) ListUsers(ctx context.Context, f UserFilter) ([]model.User, int64, error) {
	query := active(s.conn(ctx).Model(&model.User{}), "")
	if f.Keyword != "" {
		kw := "%" + f.Keyword + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", kw, kw)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch {
	case f.Cursor > 0:
		query = query.Where("id > ?", f.Cursor)
	case f.Offset > 0:
		query = query.Offset(f.Offset)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit + 1)
	}

	var users []model.User
	if err := query.Order("id ASC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUser applies the supplied columns of p to the active user id.
func (s *Store) UpdateUser(ctx context.Context, id uint, p UserPatch) error {
	res := active(s.conn(ctx).Model(&model.User{}), "").Where("id = ?", id).Updates(p.columns())
	return expectOne(res)
}

func (s *Store) SoftDeleteUser(ctx context.Context, id uint) error {
	res := active(s.conn(ctx).Model(&model.User{}), "").Where("id = ?", id).Update("status", model.StatusDeleted)
	return expectOne(res)
}
