package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dineline-app/dineline-backend/pkg/db/models"
	"github.com/dineline-app/dineline-backend/pkg/enums"
	pkgerrors "github.com/dineline-app/dineline-backend/pkg/errors"
)

// userFinder is the slice of the users repository the authorizer consumes.
type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authorizer answers capability questions for mutating operations. The acting
// user's role is always read from the database; role claims carried in bearer
// tokens are routing hints and never grant anything on their own.
type Authorizer struct {
	users userFinder
}

// NewAuthorizer wires the authorizer to a user lookup source.
func NewAuthorizer(users userFinder) (*Authorizer, error) {
	if users == nil {
		return nil, fmt.Errorf("users repo is required")
	}
	return &Authorizer{users: users}, nil
}

// resolve loads the acting user and rejects unknown or deactivated accounts.
func (a *Authorizer) resolve(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading acting user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "user account is inactive")
	}
	return user, nil
}

// CanCreateRestaurant allows restaurant owners and admins.
func (a *Authorizer) CanCreateRestaurant(ctx context.Context, userID uuid.UUID) error {
	user, err := a.resolve(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == enums.UserRoleRestaurantOwner || user.Role == enums.UserRoleAdmin {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "role cannot create restaurants")
}

// CanManageRestaurant allows the restaurant's owner and admins.
func (a *Authorizer) CanManageRestaurant(ctx context.Context, userID, restaurantOwnerID uuid.UUID) error {
	user, err := a.resolve(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == enums.UserRoleAdmin || user.ID == restaurantOwnerID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "not the restaurant owner")
}

// CanSubmitReview allows any active account.
func (a *Authorizer) CanSubmitReview(ctx context.Context, userID uuid.UUID) error {
	_, err := a.resolve(ctx, userID)
	return err
}

// CanPlaceOrder allows any active account.
func (a *Authorizer) CanPlaceOrder(ctx context.Context, userID uuid.UUID) error {
	_, err := a.resolve(ctx, userID)
	return err
}

// CanModerateReviews allows admins only.
func (a *Authorizer) CanModerateReviews(ctx context.Context, userID uuid.UUID) error {
	user, err := a.resolve(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == enums.UserRoleAdmin {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "review moderation requires admin")
}

// CanDeleteReview allows the review author and admins.
func (a *Authorizer) CanDeleteReview(ctx context.Context, userID, authorID uuid.UUID) error {
	user, err := a.resolve(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == enums.UserRoleAdmin || user.ID == authorID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "not the review author")
}

// CanAdvanceOrder allows the owner of the order's restaurant and admins.
func (a *Authorizer) CanAdvanceOrder(ctx context.Context, userID, restaurantOwnerID uuid.UUID) error {
	user, err := a.resolve(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == enums.UserRoleAdmin || user.ID == restaurantOwnerID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "order can only be updated by the restaurant")
}

// CanCancelOrder allows the ordering customer, the restaurant owner, and admins.
func (a *Authorizer) CanCancelOrder(ctx context.Context, userID, customerID, restaurantOwnerID uuid.UUID) error {
	user, err := a.resolve(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == enums.UserRoleAdmin || user.ID == customerID || user.ID == restaurantOwnerID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "not a party to this order")
}

// CanViewOrder mirrors the cancel audience for read access to a single order.
func (a *Authorizer) CanViewOrder(ctx context.Context, userID, customerID, restaurantOwnerID uuid.UUID) error {
	return a.CanCancelOrder(ctx, userID, customerID, restaurantOwnerID)
}
