package accounts

import (
	"context"
	"strings"

	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = models.ErrEmailTaken
	ErrAccountNotFound    = models.ErrAccountNotFound
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

type Repository interface {
	CreateAccount(ctx context.Context, in models.AccountCreateInput) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByID(ctx context.Context, id uint64) (*models.Account, error)
}

type RegisterInput struct {
	GivenNames  string `json:"nombres" validate:"required,max=100"`
	FamilyNames string `json:"apellidos" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Country     string `json:"pais" validate:"required,max=60"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Service struct {
	repo     Repository
	validate *validator.Validate
	cost     int
}

// New uses bcrypt.DefaultCost when cost is out of range.
func New(repo Repository, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		cost:     cost,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	in.GivenNames = strings.TrimSpace(in.GivenNames)
	in.FamilyNames = strings.TrimSpace(in.FamilyNames)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Country = strings.ToLower(strings.TrimSpace(in.Country))

	if err := s.validate.Struct(in); err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	return s.repo.CreateAccount(ctx, models.AccountCreateInput{
		GivenNames:   in.GivenNames,
		FamilyNames:  in.FamilyNames,
		Email:        in.Email,
		Country:      in.Country,
		PasswordHash: string(hash),
	})
}

// Login reports ErrInvalidCredentials for both an unknown email and a wrong password.
func (s *Service) Login(ctx context.Context, in LoginInput) (*models.Account, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, ErrInvalidCredentials
	}

	acc, err := s.repo.GetAccountByEmail(ctx, in.Email)
	if errors.Is(err, models.ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return acc, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*models.Account, error) {
	if id == 0 {
		return nil, ErrAccountNotFound
	}
	return s.repo.GetAccountByID(ctx, id)
}
