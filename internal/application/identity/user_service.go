package identity

import (
	"context"
	"fmt"

	appshared "github.com/gestion/backend/internal/application/shared"
	"github.com/gestion/backend/internal/domain/identity"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/logger"
	"github.com/gestion/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages application users and authors
type UserService struct {
	repos appshared.TransactionalRepositories
	tx    appshared.TransactionScope
}

// NewUserService creates a new UserService
func NewUserService(repos appshared.TransactionalRepositories, tx appshared.TransactionScope) *UserService {
	return &UserService{repos: repos, tx: tx}
}

// List returns users, optionally only active authors
func (s *UserService) List(ctx context.Context, f UserListFilter) ([]UserResponse, error) {
	users, err := s.repos.Users().FindAll(ctx, identity.UserFilter{Keyword: f.Search, AuthorsOnly: f.Author})
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out, nil
}

// GetByID returns a user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	u, err := s.repos.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(u)
	return &resp, nil
}

// Create creates a user
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "user", "create")
	defer span.End()

	u, err := identity.NewUser(req.Email, req.FirstName, req.LastName, req.Password, req.ConfirmPassword)
	if err != nil {
		return nil, err
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	u.SetFlags(active, req.IsStaff, req.IsAuthor)

	err = s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		exists, err := repos.Users().ExistsByEmail(ctx, u.Email)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Email is already registered: "+u.Email)
		}
		return repos.Users().Save(ctx, u)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.Bool("is_author", u.IsAuthor))
	resp := ToUserResponse(u)
	return &resp, nil
}

// Update changes a user. An empty password keeps the current one.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "user", "update")
	defer span.End()

	var u *identity.User
	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		u, err = repos.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}

		previous := u.Email
		if err := u.SetEmail(req.Email); err != nil {
			return err
		}
		if u.Email != previous {
			exists, err := repos.Users().ExistsByEmail(ctx, u.Email)
			if err != nil {
				return err
			}
			if exists {
				return shared.NewDomainError("ALREADY_EXISTS", "Email is already registered: "+u.Email)
			}
		}
		if err := u.SetName(req.FirstName, req.LastName); err != nil {
			return err
		}
		if req.Password != "" || req.ConfirmPassword != "" {
			if err := u.SetPassword(req.Password, req.ConfirmPassword); err != nil {
				return err
			}
		}
		u.SetFlags(req.IsActive, req.IsStaff, req.IsAuthor)
		return repos.Users().Save(ctx, u)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToUserResponse(u)
	return &resp, nil
}

// Delete removes a user that no affaire or invoice references as author
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "user", "delete")
	defer span.End()

	err := s.tx.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		u, err := repos.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}
		affaires, err := repos.Affaires().CountByAuthor(ctx, id)
		if err != nil {
			return err
		}
		invoices, err := repos.Invoices().CountByAuthor(ctx, id)
		if err != nil {
			return err
		}
		if affaires+invoices > 0 {
			return shared.NewDomainError("PROTECTED",
				fmt.Sprintf("User %s is the author of %d affaire(s) and %d invoice(s) and cannot be deleted",
					u.Email, affaires, invoices))
		}
		return repos.Users().Delete(ctx, id)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	logger.L(ctx).Info("user deleted", zap.String("user_id", id.String()))
	return nil
}
