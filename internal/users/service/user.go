package service

import (
	"context"
	"errors"

	"voyago/internal/store"
	storeerrors "voyago/internal/store/errors"
	"voyago/internal/users/validator"
	"voyago/pkg/auth"
	"voyago/pkg/config"
	apperrors "voyago/pkg/errors"
	"voyago/pkg/model"
	"voyago/pkg/sanitizer"
	"voyago/pkg/validation"
)

type UserService interface {
	Create(ctx context.Context, input *model.UserSignup) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, id string, update *model.UserUpdate) (*model.User, error)
	Delete(ctx context.Context, id string) error
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	AddToWishlist(ctx context.Context, userID string, item model.WishlistItem) (*model.User, error)
	RemoveFromWishlist(ctx context.Context, userID, itemID string) (*model.User, error)
}

type userService struct {
	store     *store.Store
	validator *validator.UserValidator
	hasher    *auth.Hasher
	signer    auth.TokenSigner
	cfg       *config.Config
}

func NewUserService(
	documents *store.Store,
	userValidator *validator.UserValidator,
	hasher *auth.Hasher,
	signer auth.TokenSigner,
	cfg *config.Config,
) UserService {
	return &userService{
		store:     documents,
		validator: userValidator,
		hasher:    hasher,
		signer:    signer,
		cfg:       cfg,
	}
}

func (s *userService) Create(ctx context.Context, input *model.UserSignup) (*model.User, error) {
	input.FirstName = sanitizer.NormalizeName(input.FirstName)
	input.LastName = sanitizer.NormalizeName(input.LastName)
	input.Email = sanitizer.NormalizeEmail(input.Email)

	if err := s.validator.ValidateSignup(input); err != nil {
		return nil, validation.AsAppError(err)
	}

	// The store never enforces email uniqueness; the convention lives here.
	existing, err := s.GetByEmail(ctx, input.Email)
	if err != nil && !apperrors.HasCode(err, apperrors.CodeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("An account with this email already exists")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	role := input.Role
	if role == "" {
		role = model.RoleUser
	}

	user := &model.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		Phone:        input.Phone,
		Wishlist:     []model.WishlistItem{},
		IsActive:     true,
	}

	doc, err := store.Marshal(user)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode user", err)
	}
	created, err := s.store.Create(ctx, store.CollectionUsers, "", doc)
	if err != nil {
		s.cfg.Log.Error("Failed to create user", "email", user.Email, "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}
	if err := store.Unmarshal(created, user); err != nil {
		return nil, apperrors.Internal("Failed to decode user", err)
	}

	s.cfg.Log.Info("User created successfully", "id", user.ID, "role", user.Role)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	doc, found, err := s.store.FindByID(ctx, store.CollectionUsers, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	if !found {
		return nil, apperrors.NotFoundWithID("User", id)
	}

	var user model.User
	if err := store.Unmarshal(doc, &user); err != nil {
		return nil, apperrors.Internal("Failed to decode user", err)
	}
	return &user, nil
}

// GetByEmail takes the first match: email uniqueness is a convention,
// not a store guarantee.
func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.InvalidInput("Email cannot be empty")
	}

	docs, err := s.store.FindByField(ctx, store.CollectionUsers, "email", email, store.ListOptions{})
	if err != nil {
		return nil, apperrors.Internal("Failed to look up user by email", err)
	}
	if len(docs) == 0 {
		return nil, apperrors.NotFound("User")
	}

	var user model.User
	if err := store.Unmarshal(docs[0], &user); err != nil {
		return nil, apperrors.Internal("Failed to decode user", err)
	}
	return &user, nil
}

func (s *userService) Update(ctx context.Context, id string, update *model.UserUpdate) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	update.FirstName = sanitizer.NormalizeName(update.FirstName)
	update.LastName = sanitizer.NormalizeName(update.LastName)
	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, validation.AsAppError(err)
	}

	patch, err := store.Marshal(update)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode update", err)
	}
	updated, err := s.store.Update(ctx, store.CollectionUsers, id, patch)
	if err != nil {
		if errors.Is(err, storeerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		s.cfg.Log.Error("Failed to update user", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update user", err)
	}

	var user model.User
	if err := store.Unmarshal(updated, &user); err != nil {
		return nil, apperrors.Internal("Failed to decode user", err)
	}
	s.cfg.Log.Info("User updated successfully", "id", id)
	return &user, nil
}

// Delete physically removes the account. Admin-only in the calling
// layer; normal flows never delete users.
func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	if _, err := s.store.Delete(ctx, store.CollectionUsers, id); err != nil {
		if errors.Is(err, storeerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", id)
		}
		return apperrors.Internal("Failed to delete user", err)
	}

	s.cfg.Log.Info("User deleted", "id", id)
	return nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, "", apperrors.Unauthorized("Invalid email or password")
		}
		return nil, "", err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, "", apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.signer.Sign(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to issue auth token", err)
	}

	s.cfg.Log.Info("User authenticated", "id", user.ID)
	return user, token, nil
}

func (s *userService) AddToWishlist(ctx context.Context, userID string, item model.WishlistItem) (*model.User, error) {
	if item.ID == "" {
		return nil, apperrors.InvalidInput("Wishlist item ID cannot be empty")
	}

	return s.patchWishlist(ctx, userID, func(user *model.User) bool {
		return user.AddWishlistItem(item)
	})
}

func (s *userService) RemoveFromWishlist(ctx context.Context, userID, itemID string) (*model.User, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("Wishlist item ID cannot be empty")
	}

	return s.patchWishlist(ctx, userID, func(user *model.User) bool {
		return user.RemoveWishlistItem(itemID)
	})
}

// patchWishlist applies a wishlist mutation under optimistic
// concurrency, retrying when another writer moved the document first.
func (s *userService) patchWishlist(ctx context.Context, userID string, mutate func(*model.User) bool) (*model.User, error) {
	for attempt := 0; attempt < s.cfg.UpdateRetryLimit; attempt++ {
		user, err := s.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !mutate(user) {
			return user, nil
		}

		patch := store.Document{"wishlist": user.Wishlist}
		updated, err := s.store.UpdateWithVersion(ctx, store.CollectionUsers, userID, patch, user.Version)
		if err != nil {
			if errors.Is(err, storeerrors.ErrVersionConflict) {
				s.cfg.Log.Debug("Wishlist update conflicted, retrying", "id", userID, "attempt", attempt+1)
				continue
			}
			return nil, apperrors.Internal("Failed to update wishlist", err)
		}

		if err := store.Unmarshal(updated, user); err != nil {
			return nil, apperrors.Internal("Failed to decode user", err)
		}
		return user, nil
	}
	return nil, apperrors.Conflict("Wishlist is being modified concurrently, retry later")
}
