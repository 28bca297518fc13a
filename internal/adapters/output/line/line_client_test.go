package line

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picturedrive/internal/domain"
)

// MockMessagingAPI implements MessagingAPI for testing
type MockMessagingAPI struct {
	ReplyFunc func(req *messaging_api.ReplyMessageRequest) error

	Replies []*messaging_api.ReplyMessageRequest
	Pushes  []*messaging_api.PushMessageRequest
}

func (m *MockMessagingAPI) ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error) {
	m.Replies = append(m.Replies, req)
	if m.ReplyFunc != nil {
		if err := m.ReplyFunc(req); err != nil {
			return nil, err
		}
	}
	return &messaging_api.ReplyMessageResponse{}, nil
}

func (m *MockMessagingAPI) PushMessage(req *messaging_api.PushMessageRequest, _ string) (*messaging_api.PushMessageResponse, error) {
	m.Pushes = append(m.Pushes, req)
	return &messaging_api.PushMessageResponse{}, nil
}

// MockBlobAPI implements BlobAPI for testing
type MockBlobAPI struct {
	Response *http.Response
	Err      error
}

func (m *MockBlobAPI) GetMessageContent(string) (*http.Response, error) {
	return m.Response, m.Err
}

func messages(n int) []domain.OutboundMessage {
	out := make([]domain.OutboundMessage, n)
	for i := range out {
		out[i] = domain.OutboundMessage{Body: "m"}
	}
	return out
}

func TestDeliverRepliesThenPushesOverflow(t *testing.T) {
	api := &MockMessagingAPI{}
	adapter := NewLineClientAdapterWithAPI(api)

	err := adapter.Deliver(context.Background(), domain.Reply{
		To:       domain.ReplyTarget{Platform: domain.PlatformLine, ChatID: "U1", ReplyToken: "token"},
		Messages: messages(12),
	})

	require.NoError(t, err)
	require.Len(t, api.Replies, 1)
	assert.Equal(t, "token", api.Replies[0].ReplyToken)
	assert.Len(t, api.Replies[0].Messages, 5)
	require.Len(t, api.Pushes, 2)
	assert.Equal(t, "U1", api.Pushes[0].To)
	assert.Len(t, api.Pushes[0].Messages, 5)
	assert.Len(t, api.Pushes[1].Messages, 2)
}

func TestDeliverWithoutTokenPushes(t *testing.T) {
	api := &MockMessagingAPI{}

	err := NewLineClientAdapterWithAPI(api).Deliver(context.Background(), domain.Reply{
		To:       domain.ReplyTarget{ChatID: "U1"},
		Messages: messages(1),
	})

	require.NoError(t, err)
	assert.Empty(t, api.Replies)
	assert.Len(t, api.Pushes, 1)
}

func TestDeliverOverflowNeedsChat(t *testing.T) {
	api := &MockMessagingAPI{}

	err := NewLineClientAdapterWithAPI(api).Deliver(context.Background(), domain.Reply{
		To:       domain.ReplyTarget{ReplyToken: "token"},
		Messages: messages(6),
	})

	assert.Error(t, err)
	assert.Len(t, api.Replies, 1)
}

func TestDeliverReplyFailure(t *testing.T) {
	api := &MockMessagingAPI{ReplyFunc: func(*messaging_api.ReplyMessageRequest) error {
		return errors.New("invalid reply token")
	}}

	err := NewLineClientAdapterWithAPI(api).Deliver(context.Background(), domain.Reply{
		To:       domain.ReplyTarget{ChatID: "U1", ReplyToken: "expired"},
		Messages: messages(2),
	})

	assert.Error(t, err)
	assert.Empty(t, api.Pushes)
}

func TestConvertToLineMessage(t *testing.T) {
	msg := convertToLineMessage(domain.OutboundMessage{
		Body:      "✅ *Login successful*\n• my\\_trip",
		Menu:      domain.MenuLoggedIn,
		ParseMode: domain.ParseModeMarkdown,
	})

	text, ok := msg.(*messaging_api.TextMessage)
	require.True(t, ok)
	assert.Equal(t, "✅ Login successful\n• my_trip", text.Text)
	require.NotNil(t, text.QuickReply)
	assert.Len(t, text.QuickReply.Items, 5)
	action := text.QuickReply.Items[0].Action.(*messaging_api.MessageAction)
	assert.Equal(t, domain.LabelMyFolders, action.Text)

	photo := convertToLineMessage(domain.OutboundMessage{Body: "beach.jpg (01-05-2024 10:00)", PhotoFileID: "AgAD"})
	assert.Equal(t, "🖼 beach.jpg (01-05-2024 10:00)", photo.(*messaging_api.TextMessage).Text)
	assert.Nil(t, photo.(*messaging_api.TextMessage).QuickReply)
}

func TestBlobFetcher(t *testing.T) {
	ok := &MockBlobAPI{Response: &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("jpeg")),
	}}
	body, err := NewBlobFetcherWithAPI(ok).Fetch(context.Background(), "m1")
	require.NoError(t, err)
	content, _ := io.ReadAll(body)
	assert.Equal(t, "jpeg", string(content))

	gone := &MockBlobAPI{Response: &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader("")),
	}}
	_, err = NewBlobFetcherWithAPI(gone).Fetch(context.Background(), "m1")
	assert.Error(t, err)

	_, err = NewBlobFetcherWithAPI(&MockBlobAPI{Err: errors.New("401")}).Fetch(context.Background(), "m1")
	assert.Error(t, err)
}
