package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/ayurcart-backend/internal/users"
	pkgAuth "github.com/angelmondragon/ayurcart-backend/pkg/auth"
	"github.com/angelmondragon/ayurcart-backend/pkg/config"
	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	"github.com/angelmondragon/ayurcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	"github.com/angelmondragon/ayurcart-backend/pkg/security"
	"gorm.io/gorm"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "ayurcart", ExpirationMinutes: 30}

func testHasher() *security.Hasher {
	return security.NewHasher(config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
}

func TestServiceLoginIssuesTokenForAdmin(t *testing.T) {
	hasher := testHasher()
	repo := newStubUserRepo()
	repo.add(t, hasher, &models.User{Name: "Vaidya", Email: "admin@ayur.example", Role: enums.UserRoleAdmin, Status: enums.UserStatusNotBlocked}, "correct-horse")

	fixed := time.Now().UTC().Truncate(time.Second)
	svc := buildTestService(t, repo, hasher, func() time.Time { return fixed })

	resp, err := svc.Login(context.Background(), LoginRequest{Email: " Admin@Ayur.Example ", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User == nil || resp.User.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin user in response, got %+v", resp.User)
	}
	if resp.User.LastLoginAt == nil || !resp.User.LastLoginAt.Equal(fixed) {
		t.Fatalf("expected last login recorded, got %v", resp.User.LastLoginAt)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if !claims.IsAdmin() || claims.Email != "admin@ayur.example" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestServiceLoginRejections(t *testing.T) {
	hasher := testHasher()
	repo := newStubUserRepo()
	repo.add(t, hasher, &models.User{Name: "Asha", Email: "asha@example.com", Role: enums.UserRoleUser, Status: enums.UserStatusNotBlocked}, "password-1")
	repo.add(t, hasher, &models.User{Name: "Blocked", Email: "blocked@example.com", Role: enums.UserRoleUser, Status: enums.UserStatusBlocked}, "password-2")
	svc := buildTestService(t, repo, hasher, nil)

	cases := []struct {
		name string
		req  LoginRequest
		code pkgerrors.Code
	}{
		{"unknown email", LoginRequest{Email: "ghost@example.com", Password: "password-1"}, pkgerrors.CodeUnauthorized},
		{"wrong password", LoginRequest{Email: "asha@example.com", Password: "nope"}, pkgerrors.CodeUnauthorized},
		{"blank email", LoginRequest{Email: " ", Password: "password-1"}, pkgerrors.CodeUnauthorized},
		{"blocked account", LoginRequest{Email: "blocked@example.com", Password: "password-2"}, pkgerrors.CodeForbidden},
		{"blocked account wrong password", LoginRequest{Email: "blocked@example.com", Password: "guess"}, pkgerrors.CodeUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.req)
			if !pkgerrors.IsCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestServiceRegister(t *testing.T) {
	hasher := testHasher()
	repo := newStubUserRepo()
	svc := buildTestService(t, repo, hasher, nil)

	user, err := svc.Register(context.Background(), RegisterRequest{Name: "Ravi", Email: "Ravi@Example.com", Password: "long-enough"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ravi@example.com" || user.Role != enums.UserRoleUser || user.Status != enums.UserStatusNotBlocked {
		t.Fatalf("unexpected registered user %+v", user)
	}
	stored := repo.byEmail["ravi@example.com"]
	if stored == nil || !strings.HasPrefix(stored.PasswordHash, "$argon2id$") {
		t.Fatalf("expected argon2id hash to be stored, got %+v", stored)
	}

	_, err = svc.Register(context.Background(), RegisterRequest{Name: "Ravi", Email: "ravi@example.com", Password: "long-enough"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterRequest{Name: "Short", Email: "short@example.com", Password: "short"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{Hasher: testHasher()}); err == nil {
		t.Fatal("expected error without user repository")
	}
	if _, err := NewService(ServiceParams{UserRepo: newStubUserRepo()}); err == nil {
		t.Fatal("expected error without hasher")
	}
}

func buildTestService(t *testing.T, repo *stubUserRepo, hasher *security.Hasher, now func() time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{UserRepo: repo, Hasher: hasher, JWTConfig: testJWT, Now: now})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubUserRepo struct {
	byEmail map[string]*models.User
	nextID  int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: map[string]*models.User{}}
}

func (s *stubUserRepo) add(t *testing.T, hasher *security.Hasher, user *models.User, password string) {
	t.Helper()
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	s.nextID++
	user.ID = s.nextID
	user.PasswordHash = hash
	s.byEmail[user.Email] = user
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	s.nextID++
	user.ID = s.nextID
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := s.byEmail[email]
	return ok, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	for _, user := range s.byEmail {
		if user.ID == id {
			user.LastLoginAt = &at
		}
	}
	return nil
}
