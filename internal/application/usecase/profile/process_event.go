package profile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"profile-hub/adapters/event"
	"profile-hub/internal/application/service"
	"profile-hub/pkg/logger"
)

// ProcessPictureEventUseCase runs in the worker: when a picture is replaced
// it deletes the superseded file from the static root. A file that is
// already gone is not an error.
type ProcessPictureEventUseCase struct {
	pictures service.PictureStore
	logger   logger.Logger
}

func NewProcessPictureEventUseCase(pictures service.PictureStore, log logger.Logger) *ProcessPictureEventUseCase {
	return &ProcessPictureEventUseCase{pictures: pictures, logger: log}
}

func (uc *ProcessPictureEventUseCase) Execute(ctx context.Context, payload event.ProfileEventPayload) error {
	if payload.EventType != event.ProfileEventTypePictureReplaced {
		return nil
	}
	if payload.PreviousFile == "" {
		return nil
	}

	if err := uc.pictures.Remove(ctx, payload.PreviousFile); err != nil {
		return fmt.Errorf("remove superseded picture %q: %w", payload.PreviousFile, err)
	}

	uc.logger.Info("Removed superseded profile picture",
		zap.String("user_id", payload.UserID.String()),
		zap.String("file", payload.PreviousFile))
	return nil
}
