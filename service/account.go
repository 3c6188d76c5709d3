package service

import (
	"context"
	"errors"
	"time"

	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/policy"
	"github.com/ariebrainware/therapist-booking/repository"
	"github.com/ariebrainware/therapist-booking/util"
	"gorm.io/datatypes"
)

const msgBadCredentials = "Invalid email or password"

// TokenIssuer signs identity tokens. *util.TokenService implements it.
type TokenIssuer interface {
	Issue(userID uint, role string) (util.IssuedToken, error)
	TTL() time.Duration
}

// AccountService handles registration, login and the caller's own profile.
type AccountService struct {
	store  *repository.Store
	tokens TokenIssuer
}

func NewAccountService(store *repository.Store, tokens TokenIssuer) *AccountService {
	return &AccountService{store: store, tokens: tokens}
}

// RegisterInput is a self-service sign-up. Profile fields apply to therapists only.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
	Role     model.Role

	Bio             *string
	ExperienceYears *int
	Specialization  *string
	StatusTherapist *model.TherapistStatus
	WorkingHours    datatypes.JSON
}

// Account is a created user plus the paired profile id for therapists.
type Account struct {
	model.User
	TherapistID *uint `json:"therapist_id,omitempty"`
}

// Register creates a user account. Role defaults to user; therapist sign-ups
// also get a profile. Admin accounts cannot be self-registered.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	switch in.Role {
	case model.RoleUser:
	case model.RoleTherapist:
		return s.RegisterTherapist(ctx, in)
	case model.RoleAdmin:
		return nil, validationErr("Admin accounts cannot be self-registered")
	default:
		return nil, validationErr("Invalid role")
	}
	return createAccount(ctx, s.store, in)
}

// RegisterTherapist creates a therapist account and its profile atomically.
func (s *AccountService) RegisterTherapist(ctx context.Context, in RegisterInput) (*Account, error) {
	in.Role = model.RoleTherapist
	return createAccount(ctx, s.store, in)
}

func normalizeAccount(in *RegisterInput) error {
	in.Name = util.NormalizeName(in.Name)
	in.Email = util.NormalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return validationErr("Name, email and password are required")
	}
	if in.StatusTherapist != nil && !in.StatusTherapist.Valid() {
		return validationErr("Invalid status_therapist")
	}
	if in.ExperienceYears != nil && *in.ExperienceYears < 0 {
		return validationErr("experience_years must not be negative")
	}
	return nil
}

// createAccount is shared by self-registration and admin user creation.
func createAccount(ctx context.Context, store *repository.Store, in RegisterInput) (*Account, error) {
	if err := normalizeAccount(&in); err != nil {
		return nil, err
	}
	hash, err := util.HashPassword(in.Password)
	if err != nil {
		return nil, storeErr("hash password", err)
	}

	acct := &Account{User: model.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Phone:    in.Phone,
		Role:     in.Role,
		Status:   model.StatusActive,
	}}
	err = store.Transaction(ctx, func(tx *repository.Store) error {
		taken, err := tx.EmailInUse(ctx, in.Email)
		if err != nil {
			return storeErr("check email", err)
		}
		if taken {
			return &Error{Kind: KindConflict, Message: "Email already registered"}
		}
		if err := tx.CreateUser(ctx, &acct.User); err != nil {
			return storeErr("create user", err)
		}
		if in.Role != model.RoleTherapist {
			return nil
		}

		profile := model.TherapistProfile{
			UserID:          acct.ID,
			StatusTherapist: model.TherapistAvailable,
			WorkingHours:    in.WorkingHours,
			Status:          model.StatusActive,
		}
		if in.Bio != nil {
			profile.Bio = *in.Bio
		}
		if in.ExperienceYears != nil {
			profile.ExperienceYears = *in.ExperienceYears
		}
		if in.Specialization != nil {
			profile.Specialization = *in.Specialization
		}
		if in.StatusTherapist != nil {
			profile.StatusTherapist = *in.StatusTherapist
		}
		if err := tx.CreateTherapistProfile(ctx, &profile); err != nil {
			return storeErr("create therapist profile", err)
		}
		acct.TherapistID = &profile.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type" example:"Bearer"`
	ExpiresAt   time.Time  `json:"expires_at"`
	UserID      uint       `json:"id_user"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        model.Role `json:"role"`
	TherapistID *uint      `json:"therapist_id,omitempty"`
	tokenID     string
}

// TokenID is the jti of the issued token.
func (r *LoginResult) TokenID() string { return r.tokenID }

// Login checks credentials of an active account and issues a token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = util.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, validationErr("Email and password are required")
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &Error{Kind: KindAuthentication, Message: msgBadCredentials, Err: errors.New("unknown email")}
	}
	if err != nil {
		return nil, storeErr("find user", err)
	}
	ok, err := util.VerifyPassword(password, user.Password)
	if err != nil || !ok {
		return nil, &Error{Kind: KindAuthentication, Message: msgBadCredentials, Err: errors.New("password mismatch")}
	}

	issued, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, storeErr("issue token", err)
	}
	res := &LoginResult{
		AccessToken: issued.Token,
		TokenType:   "Bearer",
		ExpiresAt:   issued.ExpiresAt,
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		tokenID:     issued.ID,
	}
	if user.Role == model.RoleTherapist {
		if p, err := s.store.FindTherapistByUserID(ctx, user.ID); err == nil {
			res.TherapistID = &p.ID
		}
	}
	if err := util.TrackToken(ctx, user.ID, issued.ID, s.tokens.TTL()); err != nil {
		util.Log.WithError(err).Warn("failed to track issued token")
	}
	return res, nil
}

// Logout revokes the token identified by jti until it expires.
func (s *AccountService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return validationErr("Token has no id")
	}
	if err := util.RevokeToken(ctx, jti, time.Until(expiresAt)); err != nil {
		return storeErr("revoke token", err)
	}
	return nil
}

// Profile is the caller's own account.
type Profile struct {
	model.User
	Therapist *model.TherapistProfile `json:"therapist_profile,omitempty"`
}

// Profile returns the active account of actor.
func (s *AccountService) Profile(ctx context.Context, actor policy.Actor) (*Profile, error) {
	user, err := s.store.FindUser(ctx, actor.ID)
	if err != nil {
		return nil, lookupErr("find user", "User not found", err)
	}
	out := &Profile{User: *user}
	if user.Role == model.RoleTherapist {
		p, err := s.store.FindTherapistByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, storeErr("find therapist profile", err)
		}
		out.Therapist = p
	}
	return out, nil
}
