package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"profile-hub/adapters/event"
	"profile-hub/internal/application/service"
	"profile-hub/internal/domain/profile"
	"profile-hub/pkg/apperror"
	"profile-hub/pkg/logger"
)

// UploadPictureUseCase stores an uploaded picture on the picture store and
// writes its public URL onto the user record. Unlike the other profile
// operations a missing user is a terminal fault here, not a recoverable
// not-found: the caller already authenticated as that user, so the record
// being gone means a broken environment.
type UploadPictureUseCase struct {
	profileRepo profile.Repository
	pictures    service.PictureStore
	producer    *event.ProfileEventProducer
	logger      logger.Logger
}

func NewUploadPictureUseCase(
	repo profile.Repository,
	pictures service.PictureStore,
	producer *event.ProfileEventProducer,
	log logger.Logger,
) *UploadPictureUseCase {
	return &UploadPictureUseCase{
		profileRepo: repo,
		pictures:    pictures,
		producer:    producer,
		logger:      log,
	}
}

type UploadPictureInput struct {
	UserID   uuid.UUID
	File     io.Reader
	FileName string
	Size     int64
	// BaseURL is scheme://host of the current request; the stored picture
	// URL is absolute.
	BaseURL string
}

type UploadPictureOutput struct {
	PictureURL string
}

func (uc *UploadPictureUseCase) Execute(ctx context.Context, input UploadPictureInput) (*UploadPictureOutput, error) {
	if input.File == nil || input.Size == 0 {
		return nil, apperror.NewInvalidInput("profile picture is required", nil)
	}
	if strings.TrimSpace(input.FileName) == "" {
		return nil, apperror.NewInvalidInput("profile picture file name is invalid", nil)
	}

	agg, err := uc.profileRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewInternal(fmt.Sprintf("user with ID %s not found", input.UserID), err)
		}
		return nil, err
	}

	var previous string
	if agg.ProfilePictureURL != nil {
		previous = path.Base(*agg.ProfilePictureURL)
	}

	storedName, urlPath, err := uc.pictures.Save(ctx, input.File, input.FileName)
	if err != nil {
		return nil, apperror.NewInternal("error uploading profile picture", err)
	}

	pictureURL := strings.TrimRight(input.BaseURL, "/") + urlPath
	agg.ProfilePictureURL = &pictureURL

	if err := uc.profileRepo.Save(ctx, agg); err != nil {
		go uc.pictures.Remove(context.Background(), storedName)
		return nil, apperror.NewInternal("failed to update user with profile picture URL", err)
	}

	if uc.producer != nil && previous != "" && previous != storedName {
		go func() {
			payload := event.ProfileEventPayload{
				EventType:    event.ProfileEventTypePictureReplaced,
				UserID:       input.UserID,
				StoredFile:   storedName,
				PreviousFile: previous,
			}
			if err := uc.producer.Publish(context.Background(), payload); err != nil {
				uc.logger.Error("Failed to publish 'picture_replaced' event", err, zap.String("user_id", input.UserID.String()))
			}
		}()
	}

	return &UploadPictureOutput{PictureURL: pictureURL}, nil
}
