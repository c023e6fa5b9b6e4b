package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

func receive(t *testing.T, ch <-chan notification) notification {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(time.Second):
		t.Fatal("no notification sent")
		return notification{}
	}
}

func TestSubmitContactMessage(t *testing.T) {
	messages := &fakeContacts{}
	notifier := newFakeNotifier(errors.New("smtp down"))
	svc := NewContactService(messages, notifier)

	msg, err := svc.Submit(context.Background(), &SubmitContactRequest{
		Name:    " Ravi ",
		Email:   "ravi@example.com",
		Message: "Where is my download?",
	})
	// Acknowledgement failures never reach the caller.
	require.NoError(t, err)
	assert.Equal(t, "Ravi", msg.Name)
	assert.Nil(t, msg.Subject)

	assert.Equal(t, notification{kind: "contact_received", to: "ravi@example.com"}, receive(t, notifier.sent))

	list, total, err := svc.List(context.Background(), utils.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, msg.ID, list[0].ID)
}

func TestReplyContactMessage(t *testing.T) {
	messages := &fakeContacts{}
	notifier := newFakeNotifier(nil)
	svc := NewContactService(messages, notifier)
	ctx := context.Background()

	msg, err := svc.Submit(ctx, &SubmitContactRequest{Name: "Ravi", Email: "ravi@example.com", Subject: "Refund", Message: "hi"})
	require.NoError(t, err)
	receive(t, notifier.sent)

	admin := Actor{ID: uuid.New()}
	replied, err := svc.Reply(ctx, admin, msg.ID, &ReplyContactRequest{Reply: "Done"})
	require.NoError(t, err)
	assert.True(t, replied.Replied())
	assert.Equal(t, "Done", replied.ReplyMessage)
	assert.Equal(t, admin.ID, *replied.RepliedBy)
	assert.Equal(t, "contact_replied", receive(t, notifier.sent).kind)

	_, err = svc.Reply(ctx, admin, uuid.New(), &ReplyContactRequest{Reply: "Done"})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "contact", nf.Resource)
}

func TestReplyMailFailureKeepsReply(t *testing.T) {
	messages := &fakeContacts{}
	svc := NewContactService(messages, nil)
	ctx := context.Background()
	msg, err := svc.Submit(ctx, &SubmitContactRequest{Name: "Ravi", Email: "ravi@example.com", Message: "hi"})
	require.NoError(t, err)

	svc.notifier = newFakeNotifier(errors.New("smtp down"))
	replied, err := svc.Reply(ctx, Actor{ID: uuid.New()}, msg.ID, &ReplyContactRequest{Reply: "Done"})
	assert.ErrorIs(t, err, ErrEmailDelivery)
	require.NotNil(t, replied)
	assert.True(t, replied.Replied())
}
