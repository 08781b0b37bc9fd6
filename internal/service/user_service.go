package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal-api/internal/dto"
	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/repository"
)

// UserService manages portal identities.
type UserService interface {
	Create(ctx context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error)
	Get(ctx context.Context, id uint) (dto.UserResponse, error)
	List(ctx context.Context, req dto.UserListRequest) (dto.UserListResponse, error)
	UpdateProfile(ctx context.Context, id uint, payload dto.UserProfileUpdateRequest) (dto.UserResponse, error)
}

type userService struct {
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) Create(ctx context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	role, ok := models.ParseRole(payload.Role)
	if !ok {
		return dto.UserResponse{}, ErrInvalidRole
	}

	user := models.User{
		Username:           strings.TrimSpace(payload.Username),
		Email:              strings.ToLower(strings.TrimSpace(payload.Email)),
		FirstName:          strings.TrimSpace(payload.FirstName),
		LastName:           strings.TrimSpace(payload.LastName),
		Role:               role,
		PhoneNumber:        trimmedPtr(payload.PhoneNumber),
		Language:           "en",
		Timezone:           "UTC",
		EmailNotifications: true,
	}
	if role == models.RoleStudent {
		user.StudentNumber = trimmedPtr(payload.StudentID)
		user.ProgramOfStudy = trimmedPtr(payload.ProgramOfStudy)
		user.YearOfStudy = payload.YearOfStudy
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if isDuplicate(err) {
			return dto.UserResponse{}, ErrUserExists
		}
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")

	return dto.NewUserResponse(user), nil
}

func (s *userService) Get(ctx context.Context, id uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return dto.UserResponse{}, translateLookup(err, ErrUserNotFound)
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, req dto.UserListRequest) (dto.UserListResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserListResponse{}, err
	}

	page := maxInt(req.Page, 1)
	pageSize := clampPageSize(req.PageSize)
	filter := repository.UserFilter{Search: req.Search, Page: page, PageSize: pageSize}
	if req.Role != "" {
		role := models.Role(req.Role)
		filter.Role = &role
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return dto.UserListResponse{}, err
	}

	return dto.UserListResponse{
		Items:      dto.NewUserResponseSlice(users),
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uint, payload dto.UserProfileUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return dto.UserResponse{}, translateLookup(err, ErrUserNotFound)
	}

	if payload.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*payload.Email))
	}
	if payload.FirstName != nil {
		user.FirstName = strings.TrimSpace(*payload.FirstName)
	}
	if payload.LastName != nil {
		user.LastName = strings.TrimSpace(*payload.LastName)
	}
	if payload.PhoneNumber != nil {
		user.PhoneNumber = trimmedPtr(payload.PhoneNumber)
	}
	if payload.Bio != nil {
		user.Bio = trimmedPtr(payload.Bio)
	}
	if payload.Language != nil {
		user.Language = strings.ToLower(strings.TrimSpace(*payload.Language))
	}
	if payload.Timezone != nil {
		user.Timezone = strings.TrimSpace(*payload.Timezone)
	}
	if payload.EmailNotifications != nil {
		user.EmailNotifications = *payload.EmailNotifications
	}
	if user.Role == models.RoleStudent {
		if payload.ProgramOfStudy != nil {
			user.ProgramOfStudy = trimmedPtr(payload.ProgramOfStudy)
		}
		if payload.YearOfStudy != nil {
			user.YearOfStudy = payload.YearOfStudy
		}
	}

	if err := s.users.Update(ctx, &user); err != nil {
		if isDuplicate(err) {
			return dto.UserResponse{}, ErrUserExists
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}
