package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/repos"
  "github.com/chefboard/chefboard-backend/internal/requestdata"
  "github.com/chefboard/chefboard-backend/internal/sse"
  "github.com/chefboard/chefboard-backend/internal/types"
)

type UserService interface {
  GetMe(ctx context.Context, tx *gorm.DB) (*types.User, error)
  ListStaff(ctx context.Context) ([]*types.User, error)
  UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error)
  UpdateRole(ctx context.Context, userID uuid.UUID, role string) (*types.User, error)
  UpdateAvatarFromImage(ctx context.Context, raw []byte) (*types.User, error)
}

type userService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  avatarService AvatarService
  notifier      Notifier
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatarService AvatarService, notifier Notifier) UserService {
  serviceLog := log.With("service", "UserService")
  return &userService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    avatarService: avatarService,
    notifier:      notifier,
  }
}

func (us *userService) currentUser(ctx context.Context, tx *gorm.DB) (*types.User, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No request data found in context")
  }
  users, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{rd.UserID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load user: %w", err)
  }
  if len(users) == 0 {
    return nil, fmt.Errorf("User not found")
  }
  return users[0], nil
}

func (us *userService) GetMe(ctx context.Context, tx *gorm.DB) (*types.User, error) {
  return us.currentUser(ctx, tx)
}

func (us *userService) ListStaff(ctx context.Context) ([]*types.User, error) {
  return us.userRepo.List(ctx, nil)
}

func (us *userService) UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error) {
  firstName = strings.TrimSpace(firstName)
  lastName = strings.TrimSpace(lastName)
  if firstName == "" || lastName == "" {
    return nil, fmt.Errorf("First and last name are required")
  }
  user, err := us.currentUser(ctx, nil)
  if err != nil {
    return nil, err
  }
  if err := us.userRepo.UpdateFields(ctx, nil, user.ID, map[string]interface{}{
    "first_name": firstName,
    "last_name":  lastName,
  }); err != nil {
    return nil, fmt.Errorf("Failed to update user name: %w", err)
  }
  user.FirstName = firstName
  user.LastName = lastName
  us.notifier.NotifyUser(ctx, user.ID, sse.SSEEventUserNameChanged, map[string]any{
    "first_name": firstName,
    "last_name":  lastName,
  })
  return user, nil
}

func (us *userService) UpdateRole(ctx context.Context, userID uuid.UUID, role string) (*types.User, error) {
  if !types.ValidRole(role) {
    return nil, fmt.Errorf("Unknown staff role: %s", role)
  }
  users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load user: %w", err)
  }
  if len(users) == 0 {
    return nil, fmt.Errorf("User not found")
  }
  if err := us.userRepo.UpdateFields(ctx, nil, userID, map[string]interface{}{"role": role}); err != nil {
    return nil, fmt.Errorf("Failed to update role: %w", err)
  }
  users[0].Role = role
  return users[0], nil
}

func (us *userService) UpdateAvatarFromImage(ctx context.Context, raw []byte) (*types.User, error) {
  if len(raw) == 0 {
    return nil, fmt.Errorf("Empty avatar image")
  }
  user, err := us.currentUser(ctx, nil)
  if err != nil {
    return nil, err
  }
  if err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if aErr := us.avatarService.CreateUserAvatarFromImage(ctx, tx, user, raw); aErr != nil {
      return aErr
    }
    return us.userRepo.UpdateFields(ctx, tx, user.ID, map[string]interface{}{
      "avatar_key": user.AvatarKey,
      "avatar_url": user.AvatarURL,
    })
  }); err != nil {
    return nil, fmt.Errorf("Failed to update avatar: %w", err)
  }
  us.notifier.NotifyUser(ctx, user.ID, sse.SSEEventUserAvatarUpdated, map[string]any{
    "avatar_url": user.AvatarURL,
  })
  return user, nil
}
