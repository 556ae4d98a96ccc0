package services

import (
	"context"
	"fmt"

	"conferencecentral/internal/domain"
)

// NewTaskHandlers maps background task names to the services that execute them.
func NewTaskHandlers(featured domain.FeaturedSpeakerService, email domain.EmailService) map[string]domain.TaskHandler {
	return map[string]domain.TaskHandler{
		domain.TaskReviewSpeakers: func(ctx context.Context, params map[string]string) error {
			key := params[domain.TaskParamConferenceKey]
			if key == "" {
				return fmt.Errorf("%w: missing %s", domain.ErrInvalidInput, domain.TaskParamConferenceKey)
			}
			_, err := featured.Review(ctx, key)
			return err
		},
		domain.TaskSendConfirmationEmail: func(ctx context.Context, params map[string]string) error {
			return email.SendConferenceCreated(ctx, &domain.ConferenceCreatedEmailData{
				Email:          params[domain.TaskParamEmail],
				ConferenceInfo: params[domain.TaskParamConferenceInfo],
			})
		},
	}
}
