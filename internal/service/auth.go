package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/logger"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository"
	"github.com/DaniyalGhauri/DriveSmart/internal/security"
)

// ErrInvalidCredentials covers both unknown email and wrong password so the
// login endpoint never reveals which one failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	userRepo     repository.UserRepository
	companyRepo  repository.CompanyRepository
	tokenManager security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, tokenManager security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, companyRepo: companyRepo, tokenManager: tokenManager}
}

func (s *authService) SignupCustomer(ctx context.Context, name, email, phone, cnic, password string) (*domain.User, string, string, error) {
	if err := validateCredentials(name, email, password); err != nil {
		return nil, "", "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	user := &domain.User{
		Name:         name,
		Email:        strings.ToLower(email),
		Phone:        phone,
		CNIC:         cnic,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokenPair(user)
	if err != nil {
		return nil, "", "", err
	}

	logger.Info("Customer signed up", "user_id", user.ID, "email", user.Email)
	return user, access, refresh, nil
}

func (s *authService) RegisterCompany(ctx context.Context, name, email, phone, address, password string, documents []string) (*domain.User, error) {
	if err := validateCredentials(name, email, password); err != nil {
		return nil, err
	}
	if address == "" {
		return nil, domain.NewValidationError("address", "is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        strings.ToLower(email),
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         domain.RoleCompany,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Company profile shares the user's id and starts in pending
	// verification: IsVerified stays nil until an admin decides.
	company := &domain.Company{
		ID:        user.ID,
		Name:      name,
		Email:     user.Email,
		Phone:     phone,
		Address:   address,
		Documents: documents,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}

	logger.Info("Company registered, pending verification", "company_id", company.ID, "email", user.Email)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, refresh, err := s.issueTokenPair(user)
	if err != nil {
		return nil, "", "", err
	}

	logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return user, access, refresh, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokenManager.ValidateToken(refreshToken)
	if err != nil {
		return "", "", err
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", security.ErrWrongTokenType
	}

	// Role is re-read from the user row so a role change invalidates stale
	// refresh tokens' privileges.
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", err
	}
	return s.issueTokenPair(user)
}

func (s *authService) ResolvePrincipal(ctx context.Context, userID int32) (security.Principal, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return security.Principal{}, err
	}
	return s.principalFor(ctx, user)
}

func (s *authService) ResolveFirebasePrincipal(ctx context.Context, email string) (security.Principal, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return security.Principal{}, err
	}
	return s.principalFor(ctx, user)
}

func (s *authService) principalFor(ctx context.Context, user *domain.User) (security.Principal, error) {
	p := security.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}
	if user.Role == domain.RoleCompany {
		company, err := s.companyRepo.GetByID(ctx, user.ID)
		if err != nil {
			return security.Principal{}, err
		}
		p.CompanyVerified = company.Verified()
	}
	return p, nil
}

func (s *authService) issueTokenPair(user *domain.User) (string, string, error) {
	access, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokenManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func validateCredentials(name, email, password string) error {
	if name == "" {
		return domain.NewValidationError("name", "is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return domain.NewValidationError("email", "must be a valid email address")
	}
	if len(password) < 8 {
		return domain.NewValidationError("password", "must be at least 8 characters")
	}
	return nil
}
