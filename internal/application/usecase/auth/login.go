package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"profile-hub/internal/domain/user"
	"profile-hub/pkg/apperror"
	"profile-hub/pkg/auth"
	"profile-hub/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("email or password is incorrect")
)

const (
	maxFailedAttempts = 5
	attemptWindow     = 15 * time.Minute
)

type LoginUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	rdb      *redis.Client
	logger   logger.Logger
}

// NewLoginUseCase wires the login flow; rdb may be nil, which disables the
// failed-attempt throttle.
func NewLoginUseCase(repo user.Repository, jwtSvc *auth.JWTService, rdb *redis.Client, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		rdb:      rdb,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	AccessToken string
}

var tracer = otel.Tracer("auth_usecase")

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {

	ctx, span := tracer.Start(ctx, "Execute")
	defer span.End()

	if uc.throttled(ctx, input.Email) {
		err := apperror.NewUnauthorized("too many failed login attempts, try again later", nil)
		span.RecordError(err)
		return nil, err
	}

	u, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		uc.recordFailure(ctx, input.Email)
		span.RecordError(err)
		return nil, apperror.NewUnauthorized("unknown email", ErrInvalidCredentials)
	}

	if !auth.CheckPasswordHash(input.Password, u.PasswordHash) {
		uc.recordFailure(ctx, input.Email)
		err := apperror.NewUnauthorized("incorrect password", ErrInvalidCredentials)
		span.RecordError(err)
		return nil, err
	}

	uc.clearFailures(ctx, input.Email)

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		appErr := apperror.NewInternal("failed to generate token", err)
		span.RecordError(appErr)
		return nil, appErr
	}

	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &LoginOutput{AccessToken: token}, nil
}

func attemptKey(email string) string {
	return fmt.Sprintf("login:attempts:%s", email)
}

func (uc *LoginUseCase) throttled(ctx context.Context, email string) bool {
	if uc.rdb == nil {
		return false
	}
	count, err := uc.rdb.Get(ctx, attemptKey(email)).Int()
	if err != nil {
		return false
	}
	return count >= maxFailedAttempts
}

func (uc *LoginUseCase) recordFailure(ctx context.Context, email string) {
	if uc.rdb == nil {
		return
	}
	key := attemptKey(email)
	if err := uc.rdb.Incr(ctx, key).Err(); err != nil {
		uc.logger.Warn("Failed to record login attempt", zap.Error(err))
		return
	}
	uc.rdb.Expire(ctx, key, attemptWindow)
}

func (uc *LoginUseCase) clearFailures(ctx context.Context, email string) {
	if uc.rdb == nil {
		return
	}
	uc.rdb.Del(ctx, attemptKey(email))
}
