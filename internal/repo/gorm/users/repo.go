package usersgorm

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lightgame/panel/internal/auth/users"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
)

type Repo struct{ db *gorm.DB }

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(&UserAccount{}) }

func New(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) CreateUser(ctx context.Context, u *UserAccount) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repo) GetUser(ctx context.Context, id int) (*UserAccount, error) {
	var u UserAccount
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) GetUserByName(ctx context.Context, name string) (*UserAccount, error) {
	var u UserAccount
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) ListUsers(ctx context.Context) ([]*UserAccount, error) {
	var arr []*UserAccount
	if err := r.db.WithContext(ctx).Order("id").Find(&arr).Error; err != nil {
		return nil, err
	}
	return arr, nil
}

func hash(plain string) (string, error) {
	if strings.TrimSpace(plain) == "" {
		return "", errors.New("empty password")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (r *Repo) SetPassword(ctx context.Context, userID int, plain string) error {
	h, err := hash(plain)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&UserAccount{}).Where("id = ?", userID).Update("password_hash", h)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Verify checks a login. An unknown user and a wrong password are reported
// as distinct errors so the API can point at the offending field.
func (r *Repo) Verify(ctx context.Context, name, plain string) (*UserAccount, error) {
	u, err := r.GetUserByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.Active {
		return nil, ErrUserDisabled
	}
	return u, nil
}

// Seed creates the seeded accounts that do not exist yet. Existing accounts
// are left alone so a changed password survives a restart.
func (r *Repo) Seed(ctx context.Context, seeds []users.Seed) (int, error) {
	n := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range seeds {
			var count int64
			if err := tx.Model(&UserAccount{}).Where("name = ?", s.Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			pw := s.Password
			if !s.Hashed() {
				h, err := hash(pw)
				if err != nil {
					return err
				}
				pw = h
			}
			u := &UserAccount{ID: s.ID, Name: s.Name, PasswordHash: pw, Access: s.Access, Active: true}
			if err := tx.Create(u).Error; err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}
