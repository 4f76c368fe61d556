package services

import (
	"errors"
	"strings"
	"time"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/middleware"
	"github.com/datescare/amora-be/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	creditService *CreditService
}

func NewAuthService() *AuthService {
	return &AuthService{
		creditService: NewCreditService(),
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func (s *AuthService) CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	claims := middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.App.JWTSecret))
}

func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	var user models.User
	if err := config.DB.Where("email = ? AND is_active = ?", email, true).First(&user).Error; err != nil {
		return nil, "", errors.New("invalid credentials")
	}

	if !s.CheckPassword(password, user.Password) {
		return nil, "", errors.New("invalid credentials")
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// CreateUser registers a user and opens their credit account with the signup
// bonus. Internal-domain emails become staff regardless of the requested
// role; only existing admins can mint admins.
func (s *AuthService) CreateUser(email, password, name string, role models.UserRole) (*models.User, error) {
	if role == "" || role == models.RoleMember {
		role = models.RoleMember
	}
	if strings.HasSuffix(strings.ToLower(email), models.StaffEmailDomain) && role != models.RoleAdmin {
		role = models.RoleStaff
	}

	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    email,
		Password: hashedPassword,
		Name:     name,
		Role:     role,
		IsActive: true,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	if _, err := s.creditService.InitializeAccount(user.ID); err != nil {
		return nil, err
	}

	return &user, nil
}
