package user_service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/VellaPay/VellaPay-Backend/db"
	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
	"github.com/VellaPay/VellaPay-Backend/utils"
)

const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

type User struct {
	ID             int64
	DisplayName    string
	Email          string
	PhoneNumber    string
	HashedPassword string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateUserParams struct {
	DisplayName string
	Email       string
	PhoneNumber string
	Password    string
}

type UserService struct {
	store  *db.Store
	logger *logging.Logger
}

func NewUserService(store *db.Store, logger *logging.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

const userColumns = "id, display_name, email, phone_number, hashed_password, status, created_at, updated_at"

// CreateUser hashes the password and inserts the account. A duplicate email
// comes back as ErrUserAlreadyExists.
func (u *UserService) CreateUser(ctx context.Context, arg CreateUserParams) (*User, error) {
	hashed, err := utils.GenerateHashValue(arg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := u.store.DB.QueryRowContext(ctx, `
		INSERT INTO users (display_name, email, phone_number, hashed_password)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		arg.DisplayName, arg.Email, arg.PhoneNumber, hashed,
	)

	newUser, err := scanUser(row)
	if err != nil {
		if db.IsDuplicate(err) {
			return nil, NewUserError(ErrUserAlreadyExists, arg.Email, err)
		}
		return nil, err
	}
	return newUser, nil
}

// Authenticate checks the password for the account behind email. Login
// failures are indistinguishable between a missing account and a wrong
// password.
func (u *UserService) Authenticate(ctx context.Context, email string, password string) (*User, error) {
	dbUser, err := u.FetchUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidLogin
		}
		return nil, err
	}

	if err := utils.VerifyHashValue(password, dbUser.HashedPassword); err != nil {
		return nil, ErrInvalidLogin
	}
	if dbUser.Status != StatusActive {
		return nil, NewUserError(ErrUserInactive, fmt.Sprint(dbUser.ID))
	}
	return dbUser, nil
}

func (u *UserService) FetchUserByEmail(ctx context.Context, email string) (*User, error) {
	row := u.store.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	dbUser, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dbUser, nil
}

func (u *UserService) FetchUserByID(ctx context.Context, userID int64) (*User, error) {
	row := u.store.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", userID)
	dbUser, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dbUser, nil
}

func (u *UserService) UpdateUserPhoneNumber(ctx context.Context, userID int64, phoneNumber string) (*User, error) {
	row := u.store.DB.QueryRowContext(ctx, `
		UPDATE users SET phone_number = $1, updated_at = $2
		WHERE id = $3
		RETURNING `+userColumns,
		phoneNumber, time.Now(), userID,
	)
	dbUser, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dbUser, nil
}

func scanUser(row *sql.Row) (*User, error) {
	var dbUser User
	err := row.Scan(
		&dbUser.ID,
		&dbUser.DisplayName,
		&dbUser.Email,
		&dbUser.PhoneNumber,
		&dbUser.HashedPassword,
		&dbUser.Status,
		&dbUser.CreatedAt,
		&dbUser.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &dbUser, nil
}
