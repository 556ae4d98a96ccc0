package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

type mockMailer struct {
	to, subject, html, text string
	err                     error
}

func (m *mockMailer) Send(ctx context.Context, to, subject, html, text string) error {
	m.to, m.subject, m.html, m.text = to, subject, html, text
	return m.err
}

type mockRenderer struct {
	name string
	data any
}

func (m *mockRenderer) Render(name string, data any) (string, string, string, error) {
	m.name, m.data = name, data
	return "subject", "<p>html</p>", "text", nil
}

func TestTaskHandlers_ReviewSpeakers(t *testing.T) {
	sessions, speakers, confKey := featuredFixture()
	cache := newMockCache()
	handlers := NewTaskHandlers(NewFeaturedSpeakerService(sessions, speakers, cache, discardLogger(), time.Second), nil)

	require.NoError(t, handlers[domain.TaskReviewSpeakers](context.Background(), map[string]string{
		domain.TaskParamConferenceKey: confKey,
	}))
	assert.Contains(t, cache.values[domain.FeaturedSpeakerCacheKey(confKey)], "Ada Lovelace")

	err := handlers[domain.TaskReviewSpeakers](context.Background(), map[string]string{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTaskHandlers_SendConfirmationEmail(t *testing.T) {
	mailer := &mockMailer{}
	renderer := &mockRenderer{}
	handlers := NewTaskHandlers(nil, NewEmailService(mailer, renderer, discardLogger()))

	err := handlers[domain.TaskSendConfirmationEmail](context.Background(), map[string]string{
		domain.TaskParamEmail:          "alice@example.com",
		domain.TaskParamConferenceInfo: "Name: GopherCon",
	})
	require.NoError(t, err)
	assert.Equal(t, "conference_created", renderer.name)
	assert.Equal(t, "alice@example.com", mailer.to)
	assert.Equal(t, "subject", mailer.subject)
	data, ok := renderer.data.(*domain.ConferenceCreatedEmailData)
	require.True(t, ok)
	assert.Equal(t, "Name: GopherCon", data.ConferenceInfo)

	mailer.err = errors.New("ses down")
	err = handlers[domain.TaskSendConfirmationEmail](context.Background(), map[string]string{domain.TaskParamEmail: "a@b.c"})
	assert.Error(t, err)

	err = handlers[domain.TaskSendConfirmationEmail](context.Background(), map[string]string{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
