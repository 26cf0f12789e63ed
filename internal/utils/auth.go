package utils

import (
  "context"
  "fmt"
  "strings"
  "golang.org/x/crypto/bcrypt"
  "github.com/chefboard/chefboard-backend/internal/normalization"
  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/types"
)

// EmailChecker is the slice of the user repo that registration validation
// needs; keeps this package free of a repos import cycle.
type EmailChecker interface {
  Exists(ctx context.Context, email string) (bool, error)
}

func ValidateRegistration(ctx context.Context, emails EmailChecker, log *logger.Logger, user *types.User) error {
  if user == nil {
    return fmt.Errorf("No user given, cannot proceed with registration")
  }
  if user.Email == "" {
    return fmt.Errorf("An email is required to register")
  }
  emailExists, err := emails.Exists(ctx, user.Email)
  if err != nil {
    return fmt.Errorf("Failed to check user email")
  }
  if emailExists {
    return fmt.Errorf("Email is already in use")
  }
  if user.Password == "" {
    return fmt.Errorf("A password is required to register")
  }
  if len(user.Password) < 8 {
    return fmt.Errorf("Password must be at least 8 characters")
  }
  if user.FirstName == "" {
    return fmt.Errorf("A first name is required to register")
  }
  if user.LastName == "" {
    return fmt.Errorf("A last name is required to register")
  }
  if user.Role != "" && !types.ValidRole(user.Role) {
    return fmt.Errorf("Unknown staff role: %s", user.Role)
  }
  return nil
}

func ValidateLogin(email, password string) error {
  if email == "" {
    return fmt.Errorf("Email is required to login")
  }
  if password == "" {
    return fmt.Errorf("Password is required to login")
  }
  return nil
}

func HashPassword(ctx context.Context, log *logger.Logger, user *types.User) error {
  hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
  if err != nil {
    return fmt.Errorf("Failed to hash password")
  }
  user.Password = string(hashedPassword)
  return nil
}

func NormalizeUserFields(ctx context.Context, user *types.User) {
  user.Email = normalization.ParseInputString(user.Email)
  user.FirstName = strings.TrimSpace(user.FirstName)
  user.LastName = strings.TrimSpace(user.LastName)
  user.Role = normalization.ParseInputString(user.Role)
}
