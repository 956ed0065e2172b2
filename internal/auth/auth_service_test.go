package auth_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-timetrack/internal/auth"
	autherrors "go-timetrack/internal/auth/errors"
	"go-timetrack/internal/company"
	"go-timetrack/internal/rbac"

	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn     func(ctx context.Context, u *auth.User) error
	getByEmailFn func(ctx context.Context, email string) (*auth.User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

func (f *fakeRepo) Create(ctx context.Context, u *auth.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeCompanyRepo struct {
	findByIDFn func(ctx context.Context, id string) (*company.Company, error)
}

func (f *fakeCompanyRepo) WithTx(tx *sql.Tx) company.Repository { return f }
func (f *fakeCompanyRepo) Create(ctx context.Context, c *company.Company) error {
	return nil
}
func (f *fakeCompanyRepo) FindByID(ctx context.Context, id string) (*company.Company, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCompanyRepo) FindByStripeCustomerID(ctx context.Context, customerID string) (*company.Company, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCompanyRepo) Update(ctx context.Context, c *company.Company) error { return nil }
func (f *fakeCompanyRepo) UpdateSubscription(ctx context.Context, id string, fields company.SubscriptionFields) error {
	return nil
}

type fakeRBAC struct {
	loadedCompanies []string
	loadErr         error
}

func (f *fakeRBAC) LoadCompanyPolicy(companyID string) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loadedCompanies = append(f.loadedCompanies, companyID)
	return nil
}

func (f *fakeRBAC) Enforce(req rbac.EnforceRequest) (bool, error) { return true, nil }

func activeUser(t *testing.T, password string) *auth.User {
	t.Helper()
	pw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err)
	return &auth.User{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		Email:     "owner@example.com",
		Name:      "Owner",
		Password:  string(pw),
		Role:      auth.RoleOwner,
		IsActive:  true,
	}
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	user := activeUser(t, "password123")

	t.Run("Success", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		repo := &fakeRepo{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				assert.Equal(t, user.Email, email)
				return user, nil
			},
		}
		rbacSvc := &fakeRBAC{}
		svc := auth.NewService(repo, &fakeCompanyRepo{}, rbacSvc, rdb)

		redisMock.Regexp().ExpectSet("auth:refresh_jti:"+user.ID.String(), `.+`, 7*24*time.Hour).SetVal("OK")

		accessToken, refreshToken, resp, err := svc.Login(ctx, user.Email, "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, user.Email, resp.Email)
		assert.Equal(t, user.CompanyID.String(), resp.CompanyID)
		assert.Equal(t, []string{user.CompanyID.String()}, rbacSvc.loadedCompanies)
		assert.NoError(t, redisMock.ExpectationsWereMet())

		claims := parseClaims(t, accessToken)
		assert.Equal(t, user.ID.String(), claims["user_id"])
		assert.Equal(t, user.CompanyID.String(), claims["company_id"])
		assert.Equal(t, auth.RoleOwner, claims["role"])
	})

	t.Run("Wrong Password", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		repo := &fakeRepo{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return user, nil
			},
		}
		svc := auth.NewService(repo, &fakeCompanyRepo{}, &fakeRBAC{}, rdb)

		_, _, _, err := svc.Login(ctx, user.Email, "wrongpass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		svc := auth.NewService(&fakeRepo{}, &fakeCompanyRepo{}, &fakeRBAC{}, rdb)

		_, _, _, err := svc.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("Inactive User", func(t *testing.T) {
		inactive := activeUser(t, "password123")
		inactive.IsActive = false

		rdb, _ := redismock.NewClientMock()
		repo := &fakeRepo{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return inactive, nil
			},
		}
		svc := auth.NewService(repo, &fakeCompanyRepo{}, &fakeRBAC{}, rdb)

		_, _, _, err := svc.Login(ctx, inactive.Email, "password123")
		assert.ErrorIs(t, err, autherrors.ErrUserInactive)
	})
}

func TestService_RefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	user := activeUser(t, "password123")

	signRefreshToken := func(t *testing.T, jti string, exp time.Time) string {
		t.Helper()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id":    user.ID.String(),
			"company_id": user.CompanyID.String(),
			"jti":        jti,
			"exp":        exp.Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		assert.NoError(t, err)
		return signed
	}

	t.Run("Rotation Re-pins JTI", func(t *testing.T) {
		jti := uuid.NewString()
		refreshToken := signRefreshToken(t, jti, time.Now().Add(time.Hour))

		rdb, redisMock := redismock.NewClientMock()
		repo := &fakeRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
				assert.Equal(t, user.ID, id)
				return user, nil
			},
		}
		svc := auth.NewService(repo, &fakeCompanyRepo{}, &fakeRBAC{}, rdb)

		key := "auth:refresh_jti:" + user.ID.String()
		redisMock.ExpectGet(key).SetVal(jti)
		redisMock.Regexp().ExpectSet(key, `.+`, 7*24*time.Hour).SetVal("OK")

		newAccess, newRefresh, resp, err := svc.RefreshToken(ctx, refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.NotEqual(t, refreshToken, newRefresh)
		assert.Equal(t, user.Email, resp.Email)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("Replayed Token After Rotation", func(t *testing.T) {
		oldJTI := uuid.NewString()
		refreshToken := signRefreshToken(t, oldJTI, time.Now().Add(time.Hour))

		rdb, redisMock := redismock.NewClientMock()
		svc := auth.NewService(&fakeRepo{}, &fakeCompanyRepo{}, &fakeRBAC{}, rdb)

		redisMock.ExpectGet("auth:refresh_jti:" + user.ID.String()).SetVal(uuid.NewString())

		_, _, _, err := svc.RefreshToken(ctx, refreshToken)
		assert.ErrorIs(t, err, autherrors.ErrRefreshTokenRevoked)
	})

	t.Run("Expired Token", func(t *testing.T) {
		refreshToken := signRefreshToken(t, uuid.NewString(), time.Now().Add(-time.Minute))

		rdb, _ := redismock.NewClientMock()
		svc := auth.NewService(&fakeRepo{}, &fakeCompanyRepo{}, &fakeRBAC{}, rdb)

		_, _, _, err := svc.RefreshToken(ctx, refreshToken)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		svc := auth.NewService(&fakeRepo{}, &fakeCompanyRepo{}, &fakeRBAC{}, rdb)

		_, _, _, err := svc.RefreshToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	rdb, redisMock := redismock.NewClientMock()
	svc := auth.NewService(&fakeRepo{}, &fakeCompanyRepo{}, &fakeRBAC{}, rdb)

	redisMock.ExpectDel("auth:refresh_jti:" + userID).SetVal(1)

	assert.NoError(t, svc.Logout(ctx, userID))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()
	companyID := uuid.New()

	companyRepo := &fakeCompanyRepo{
		findByIDFn: func(ctx context.Context, id string) (*company.Company, error) {
			if id == companyID.String() {
				return &company.Company{ID: companyID, Name: "Acme"}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}

	t.Run("Success", func(t *testing.T) {
		var created *auth.User
		repo := &fakeRepo{
			createFn: func(ctx context.Context, u *auth.User) error {
				created = u
				return nil
			},
		}
		rdb, _ := redismock.NewClientMock()
		rbacSvc := &fakeRBAC{}
		svc := auth.NewService(repo, companyRepo, rbacSvc, rdb)

		resp, err := svc.Register(ctx, auth.RegisterRequest{
			CompanyID: companyID.String(),
			Email:     "  New.User@Example.com ",
			Name:      "New User",
			Password:  "password123",
			Role:      "not-a-role",
		})

		assert.NoError(t, err)
		assert.Equal(t, "new.user@example.com", resp.Email)
		assert.Equal(t, auth.RoleEmployee, resp.Role)
		assert.NotNil(t, created)
		assert.True(t, created.IsActive)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password123")))
		assert.Equal(t, []string{companyID.String()}, rbacSvc.loadedCompanies)
	})

	t.Run("Unknown Company", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		svc := auth.NewService(&fakeRepo{}, companyRepo, &fakeRBAC{}, rdb)

		_, err := svc.Register(ctx, auth.RegisterRequest{
			CompanyID: uuid.NewString(),
			Email:     "user@example.com",
			Name:      "User",
			Password:  "password123",
		})
		assert.ErrorIs(t, err, autherrors.ErrInvalidCompanyID)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		repo := &fakeRepo{
			createFn: func(ctx context.Context, u *auth.User) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"}
			},
		}
		rdb, _ := redismock.NewClientMock()
		svc := auth.NewService(repo, companyRepo, &fakeRBAC{}, rdb)

		_, err := svc.Register(ctx, auth.RegisterRequest{
			CompanyID: companyID.String(),
			Email:     "dup@example.com",
			Name:      "Dup",
			Password:  "password123",
		})
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})

	t.Run("Unrelated Create Error Passes Through", func(t *testing.T) {
		dbErr := errors.New("connection reset by peer")
		repo := &fakeRepo{
			createFn: func(ctx context.Context, u *auth.User) error {
				return dbErr
			},
		}
		rdb, _ := redismock.NewClientMock()
		svc := auth.NewService(repo, companyRepo, &fakeRBAC{}, rdb)

		_, err := svc.Register(ctx, auth.RegisterRequest{
			CompanyID: companyID.String(),
			Email:     "user@example.com",
			Name:      "User",
			Password:  "password123",
		})
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}

func parseClaims(t *testing.T, tokenStr string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	return claims
}
