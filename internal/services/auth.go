package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tourism-api/internal/auth"
	"tourism-api/internal/config"
	"tourism-api/internal/models"
	"tourism-api/internal/validate"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	db   *bun.DB
	jwt  *auth.Manager
	cfg  *config.Config
	logr *zap.Logger
}

func NewAuthService(db *bun.DB, jwt *auth.Manager, cfg *config.Config, logr *zap.Logger) *AuthService {
	return &AuthService{db: db, jwt: jwt, cfg: cfg, logr: logr}
}

// HashPassword uses bcrypt
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Phone           string `json:"phone"`
	Bio             string `json:"bio"`
	IsTourOperator  bool   `json:"is_tour_operator"`
}

// Register creates an account. It does not issue tokens; a login call
// follows registration.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	ve := NewValidationError()
	ve.Add("username", validate.Check(in.Username, "required,max=150")...)
	ve.Add("email", validate.Check(in.Email, "required,email")...)
	ve.Add("password", validate.Check(in.Password, "required")...)

	if in.Password != "" && len(in.Password) < s.cfg.MinPasswordLength {
		ve.Add("password", fmt.Sprintf("Ensure this field has at least %d characters.", s.cfg.MinPasswordLength))
	}
	if in.Password != in.PasswordConfirm {
		ve.AddNonField("Passwords do not match")
	}

	if ve.Empty() {
		if taken, err := s.usernameTaken(ctx, in.Username, nil); err != nil {
			return nil, err
		} else if taken {
			ve.Add("username", "A user with that username already exists.")
		}
		if taken, err := s.emailTaken(ctx, in.Email, nil); err != nil {
			return nil, err
		} else if taken {
			ve.Add("email", "A user with that email already exists.")
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		PasswordHash:   hash,
		Phone:          in.Phone,
		Bio:            in.Bio,
		IsTourOperator: in.IsTourOperator,
	}
	if _, err := s.db.NewInsert().Model(user).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}

	s.logr.Info("user registered", zap.String("username", user.Username))
	return user, nil
}

// Login checks credentials and issues a token pair. Unknown username and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*auth.TokenPair, *models.User, error) {
	var user models.User
	err := s.db.NewSelect().Model(&user).Where("username = ?", username).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.jwt.Issue(user.ID.String())
	if err != nil {
		return nil, nil, err
	}
	if err := s.storeRefreshToken(ctx, user.ID, pair); err != nil {
		return nil, nil, err
	}

	return pair, &user, nil
}

// storeRefreshToken stores the refresh token hashed, cleaning up expired
// rows for the user first.
func (s *AuthService) storeRefreshToken(ctx context.Context, userID uuid.UUID, pair *auth.TokenPair) error {
	_, _ = s.db.NewDelete().
		Model((*models.RefreshToken)(nil)).
		Where("user_id = ? AND expires_at < now()", userID).
		Exec(ctx)

	rt := models.RefreshToken{
		UserID:    userID,
		JTI:       pair.RefreshJTI,
		TokenHash: auth.HashToken(pair.RefreshToken),
		Revoked:   false,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: pair.RefreshExp,
	}
	_, err := s.db.NewInsert().Model(&rt).Exec(ctx)
	return err
}

// Refresh verifies a refresh token, finds the stored record by JTI and
// hash, and rotates it for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwt.Verify(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if claims["typ"] != string(auth.RefreshToken) {
		return nil, ErrInvalidCredentials
	}
	jti, ok := claims["jti"].(string)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	hashed := auth.HashToken(refreshToken)
	var rt models.RefreshToken
	err = s.db.NewSelect().
		Model(&rt).
		Where("jti = ? AND token_hash = ? AND revoked = false AND expires_at > now()", jti, hashed).
		Scan(ctx)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.NewSelect().Model(&user).Where("usr.id = ?", rt.UserID).Scan(ctx); err != nil {
		return nil, ErrInvalidCredentials
	}

	// rotate: revoke old record, issue and store a new pair
	_, _ = s.db.NewUpdate().
		Model((*models.RefreshToken)(nil)).
		Set("revoked = true").
		Where("id = ?", rt.ID).
		Exec(ctx)

	pair, err := s.jwt.Issue(user.ID.String())
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, user.ID, pair); err != nil {
		return nil, err
	}
	return pair, nil
}

// Profile returns the caller's own record.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.NewSelect().Model(&user).Where("usr.id = ?", userID).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ProfileInput carries writable profile fields; passwords are only
// validated when being changed.
type ProfileInput struct {
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	Bio             *string `json:"bio"`
	IsTourOperator  *bool   `json:"is_tour_operator"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"password_confirm"`
}

// UpdateProfile applies a full (PUT) or partial (PATCH) update to the
// caller's own record.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput, partial bool) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	ve := NewValidationError()
	if !partial {
		if in.Username == nil {
			ve.Add("username", "This field is required.")
		}
		if in.Email == nil {
			ve.Add("email", "This field is required.")
		}
	}
	if in.Username != nil {
		ve.Add("username", validate.Check(*in.Username, "required,max=150")...)
	}
	if in.Email != nil {
		ve.Add("email", validate.Check(*in.Email, "required,email")...)
	}
	if in.Password != nil {
		if len(*in.Password) < s.cfg.MinPasswordLength {
			ve.Add("password", fmt.Sprintf("Ensure this field has at least %d characters.", s.cfg.MinPasswordLength))
		}
		if in.PasswordConfirm == nil || *in.Password != *in.PasswordConfirm {
			ve.AddNonField("Passwords do not match")
		}
	}

	if ve.Empty() {
		if in.Username != nil && *in.Username != user.Username {
			if taken, err := s.usernameTaken(ctx, *in.Username, &user.ID); err != nil {
				return nil, err
			} else if taken {
				ve.Add("username", "A user with that username already exists.")
			}
		}
		if in.Email != nil && *in.Email != user.Email {
			if taken, err := s.emailTaken(ctx, *in.Email, &user.ID); err != nil {
				return nil, err
			} else if taken {
				ve.Add("email", "A user with that email already exists.")
			}
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.IsTourOperator != nil {
		user.IsTourOperator = *in.IsTourOperator
	}
	if in.Password != nil {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if _, err := s.db.NewUpdate().Model(user).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) usernameTaken(ctx context.Context, username string, excludeID *uuid.UUID) (bool, error) {
	q := s.db.NewSelect().Model((*models.User)(nil)).Where("username = ?", username)
	if excludeID != nil {
		q = q.Where("id != ?", *excludeID)
	}
	return q.Exists(ctx)
}

func (s *AuthService) emailTaken(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	q := s.db.NewSelect().Model((*models.User)(nil)).Where("email = ?", email)
	if excludeID != nil {
		q = q.Where("id != ?", *excludeID)
	}
	return q.Exists(ctx)
}
