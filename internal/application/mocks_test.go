package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"picturedrive/internal/adapters/output/memory"
	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
	"picturedrive/pkg/validator"
)

// Mock implementations for testing

// MockMessenger implements output.Messenger for testing
type MockMessenger struct {
	DeliverFunc func(ctx context.Context, reply domain.Reply) error

	mu      sync.Mutex
	Replies []domain.Reply
}

func (m *MockMessenger) Deliver(ctx context.Context, reply domain.Reply) error {
	m.mu.Lock()
	m.Replies = append(m.Replies, reply)
	m.mu.Unlock()
	if m.DeliverFunc != nil {
		return m.DeliverFunc(ctx, reply)
	}
	return nil
}

// Last returns the most recent reply
func (m *MockMessenger) Last() domain.Reply {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Replies) == 0 {
		return domain.Reply{}
	}
	return m.Replies[len(m.Replies)-1]
}

// LastBody returns the body of the first message of the most recent reply
func (m *MockMessenger) LastBody() string {
	last := m.Last()
	if len(last.Messages) == 0 {
		return ""
	}
	return last.Messages[0].Body
}

// MockBlobHost implements output.BlobHost for testing
type MockBlobHost struct {
	RelayFunc func(ctx context.Context, request domain.RelayRequest) (*domain.BlobPointer, error)

	mu       sync.Mutex
	Requests []domain.RelayRequest
	nextID   int64
}

func (m *MockBlobHost) Relay(ctx context.Context, request domain.RelayRequest) (*domain.BlobPointer, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, request)
	m.nextID++
	id := m.nextID
	m.mu.Unlock()
	if m.RelayFunc != nil {
		return m.RelayFunc(ctx, request)
	}
	return &domain.BlobPointer{MessageID: 1000 + id, FileID: "channel-" + request.Image.FileID}, nil
}

// RelayCount returns how many relays were attempted
func (m *MockBlobHost) RelayCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// MockAccountRepository implements output.AccountRepository for testing.
// Unset funcs fall through to the embedded repository.
type MockAccountRepository struct {
	output.AccountRepository

	FindByParticipantFunc func(ctx context.Context, participantID string) (*domain.Account, error)
	SaveFunc              func(ctx context.Context, account *domain.Account) error
}

func (m *MockAccountRepository) FindByParticipant(ctx context.Context, participantID string) (*domain.Account, error) {
	if m.FindByParticipantFunc != nil {
		return m.FindByParticipantFunc(ctx, participantID)
	}
	return m.AccountRepository.FindByParticipant(ctx, participantID)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *domain.Account) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, account)
	}
	return m.AccountRepository.Save(ctx, account)
}

// MockFolderRepository implements output.FolderRepository for testing.
// Unset funcs fall through to the embedded repository.
type MockFolderRepository struct {
	output.FolderRepository

	CreateFileFunc func(ctx context.Context, file *domain.File) error

	CreateFileCalls int
}

func (m *MockFolderRepository) CreateFile(ctx context.Context, file *domain.File) error {
	m.CreateFileCalls++
	if m.CreateFileFunc != nil {
		return m.CreateFileFunc(ctx, file)
	}
	return m.FolderRepository.CreateFile(ctx, file)
}

// testEnv wires the services over in-memory stores
type testEnv struct {
	accounts  *MockAccountRepository
	folders   *MockFolderRepository
	states    *memory.StateStore
	blobHost  *MockBlobHost
	messenger *MockMessenger

	auth         *AuthService
	folderSvc    *FolderService
	uploads      *UploadService
	conversation *ConversationService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithPolicy(t, domain.EvictPrevious)
}

func newTestEnvWithPolicy(t *testing.T, policy domain.EvictionPolicy) *testEnv {
	t.Helper()

	env := &testEnv{
		accounts:  &MockAccountRepository{AccountRepository: memory.NewAccountRepository()},
		folders:   &MockFolderRepository{FolderRepository: memory.NewFolderRepository()},
		states:    memory.NewStateStore(30 * time.Minute),
		blobHost:  &MockBlobHost{},
		messenger: &MockMessenger{},
	}
	env.auth = NewAuthService(env.accounts, validator.New(), AuthConfig{
		BcryptCost:     bcrypt.MinCost,
		EvictionPolicy: policy,
	})
	env.folderSvc = NewFolderService(env.folders, env.accounts)
	env.uploads = NewUploadService(env.auth, env.folderSvc, env.folders, env.blobHost, nil)
	env.conversation = NewConversationService(env.auth, env.folderSvc, env.uploads, env.states, env.messenger, time.UTC)
	return env
}

// loggedIn registers and logs in username under pid
func (e *testEnv) loggedIn(t *testing.T, username, pid string) *domain.Account {
	t.Helper()
	ctx := context.Background()
	if _, err := e.auth.Register(ctx, username, "pw-"+username, pid); err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	account, err := e.auth.Login(ctx, username, "pw-"+username, pid)
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return account
}

// account reloads the stored account
func (e *testEnv) account(t *testing.T, username string) *domain.Account {
	t.Helper()
	account, err := e.accounts.FindByUsername(context.Background(), username)
	if err != nil || account == nil {
		t.Fatalf("find %s: %v", username, err)
	}
	return account
}

// Test helper to create a text message event
func textEvent(pid, text string) domain.InboundEvent {
	return domain.InboundEvent{
		ID:            uuid.NewString(),
		Platform:      domain.PlatformTelegram,
		ParticipantID: pid,
		ReplyTo:       domain.ReplyTarget{Platform: domain.PlatformTelegram, ChatID: pid},
		Text:          &text,
		ReceivedAt:    time.Now(),
	}
}

// Test helper to create a photo event
func photoEvent(pid, caption string) domain.InboundEvent {
	return domain.InboundEvent{
		ID:            uuid.NewString(),
		Platform:      domain.PlatformTelegram,
		ParticipantID: pid,
		ReplyTo:       domain.ReplyTarget{Platform: domain.PlatformTelegram, ChatID: pid},
		Attachment: &domain.Attachment{
			Kind: domain.AttachmentPhoto,
			Photos: []domain.PhotoSize{
				{FileID: "photo-small", Width: 90},
				{FileID: "photo-large", Width: 1280},
			},
		},
		Caption:    caption,
		ReceivedAt: time.Now(),
	}
}
