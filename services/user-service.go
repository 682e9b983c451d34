package services

import (
	"context"
	"errors"
	"html"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/logging"
	"trello-project/microservices/planner-service/models"

	"golang.org/x/crypto/bcrypt"
)

const specialChars = "!@#$%^&*.,?-_"

type RegisterInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type UserService struct {
	users     UserStore
	jwt       *JWTService
	blackList map[string]bool
}

func NewUserService(users UserStore, jwtService *JWTService, blackList map[string]bool) *UserService {
	if blackList == nil {
		blackList = map[string]bool{}
	}
	return &UserService{users: users, jwt: jwtService, blackList: blackList}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return nil, apperrors.InvalidArgument("name is required")
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return nil, apperrors.InvalidArgument("invalid email address %q", in.Email)
	}
	if err := s.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	switch in.Role {
	case "":
		in.Role = models.RoleUser
	case models.RoleAdmin:
		return nil, apperrors.Forbidden("the admin role cannot be self-assigned")
	default:
		if !in.Role.Valid() {
			return nil, apperrors.InvalidArgument("invalid role %q", in.Role)
		}
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.Conflict("user with email %s already exists", in.Email)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		Name:      html.EscapeString(in.Name),
		Email:     in.Email,
		Password:  string(hashedPassword),
		Role:      in.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with role %s", user.ID.Hex(), user.Role)
	return user, nil
}

// ValidatePassword enforces length, character classes and the blacklist.
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 8 {
		return apperrors.InvalidArgument("password must be at least 8 characters long")
	}

	var hasUpper, hasDigit, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsDigit(char):
			hasDigit = true
		case strings.ContainsRune(specialChars, char):
			hasSpecial = true
		}
	}
	if !hasUpper {
		return apperrors.InvalidArgument("password must contain at least one uppercase letter")
	}
	if !hasDigit {
		return apperrors.InvalidArgument("password must contain at least one number")
	}
	if !hasSpecial {
		return apperrors.InvalidArgument("password must contain at least one special character (%s)", specialChars)
	}
	if s.blackList[strings.ToLower(password)] {
		return apperrors.InvalidArgument("password is too common, please choose a stronger one")
	}
	return nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password fail the same way.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", nil, apperrors.Unauthorized("invalid email or password")
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Wrong password for user %s", user.ID.Hex())
		return "", nil, apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: User %s logged in", user.ID.Hex())
	return token, user, nil
}

func (s *UserService) Logout(token string) error {
	return s.jwt.RevokeToken(token)
}

func (s *UserService) Me(ctx context.Context, caller Caller) (*models.User, error) {
	return s.users.FindByID(ctx, caller.ID)
}
