package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"picturedrive/internal/domain"
	"picturedrive/internal/ports/input"
	"picturedrive/internal/ports/output"
	"picturedrive/pkg/command"
)

// ConversationService struct - Application service running the per-participant
// session state machine
type ConversationService struct {
	auth      input.AuthService
	folders   input.FolderService
	uploads   input.UploadService
	states    output.ConversationStateStore
	messenger output.Messenger
	location  *time.Location
	locks     *keyedMutex
}

// NewConversationService func - Creates new conversation service. location
// renders upload times and defaults to UTC.
func NewConversationService(
	auth input.AuthService,
	folders input.FolderService,
	uploads input.UploadService,
	states output.ConversationStateStore,
	messenger output.Messenger,
	location *time.Location,
) *ConversationService {
	if location == nil {
		location = time.UTC
	}
	return &ConversationService{
		auth:      auth,
		folders:   folders,
		uploads:   uploads,
		states:    states,
		messenger: messenger,
		location:  location,
		locks:     newKeyedMutex(),
	}
}

// HandleEvent func - Use case: handle one inbound chat event. Events of the
// same participant are handled one at a time.
func (s *ConversationService) HandleEvent(ctx context.Context, event domain.InboundEvent) error {
	if event.ParticipantID == "" {
		logrus.Warnf("Ignoring %s event without participant: id=%s", event.Platform, event.ID)
		return nil
	}

	unlock := s.locks.Lock(event.ParticipantID)
	defer unlock()

	r := newReplyBuilder(event.ReplyTo)
	kind := s.dispatchSafely(ctx, event, r)

	logrus.WithFields(logrus.Fields{
		"platform":    event.Platform,
		"participant": event.ParticipantID,
		"event":       event.ID,
	}).Infof("Handled chat event: kind=%s replies=%d", kind, len(r.reply.Messages))
	eventsTotal.WithLabelValues(string(event.Platform), kind).Inc()

	if r.empty() {
		return nil
	}
	if err := s.messenger.Deliver(ctx, r.reply); err != nil {
		return fmt.Errorf("failed to deliver reply: %w", err)
	}
	return nil
}

// dispatchSafely keeps a panic in one participant's handling from escaping
// the event boundary.
func (s *ConversationService) dispatchSafely(ctx context.Context, event domain.InboundEvent, r *replyBuilder) (kind string) {
	defer func() {
		if rec := recover(); rec != nil {
			logrus.WithField("participant", event.ParticipantID).Errorf("Recovered panic while handling event: %v", rec)
			eventErrorsTotal.WithLabelValues("panic").Inc()
			r.reset()
			r.say(msgSomethingWentWrong, domain.MenuNone)
			kind = "panic"
		}
	}()
	return s.dispatch(ctx, event, r)
}

func (s *ConversationService) dispatch(ctx context.Context, event domain.InboundEvent, r *replyBuilder) string {
	account := s.auth.ResolveCurrentAccount(ctx, event.ParticipantID)

	if event.Text != nil {
		intent := Classify(*event.Text)
		s.handleText(ctx, event, account, intent, r)
		return intent.Kind.String()
	}
	if event.Attachment != nil {
		s.handleAttachment(ctx, event, account, r)
		return "attachment"
	}
	return "ignored"
}

func (s *ConversationService) handleText(ctx context.Context, event domain.InboundEvent, account *domain.Account, intent domain.Intent, r *replyBuilder) {
	pid := event.ParticipantID

	switch {
	case intent.Kind == domain.IntentFreeText || intent.Kind == domain.IntentNone:
		if state, ok := s.states.Get(pid); ok {
			s.advance(ctx, event, account, state, intent.Text, r)
			return
		}
	case intent.Recognized():
		_, hadPending := s.states.Take(pid)
		if intent.Kind == domain.IntentCancel {
			if hadPending {
				r.say(msgCancelled, domain.MenuFor(account != nil))
			} else {
				r.say(msgNothingToCancel, domain.MenuFor(account != nil))
			}
			return
		}
	}

	s.route(ctx, event, account, intent, r)
}

// route dispatches an intent while no flow is waiting for input
func (s *ConversationService) route(ctx context.Context, event domain.InboundEvent, account *domain.Account, intent domain.Intent, r *replyBuilder) {
	pid := event.ParticipantID
	loggedIn := account != nil

	switch intent.Kind {
	case domain.IntentStart:
		r.sayMarkdown(startMessage(loggedIn), domain.MenuFor(loggedIn))

	case domain.IntentHelp:
		r.sayMarkdown(helpMessage(loggedIn), domain.MenuFor(loggedIn))

	case domain.IntentRegister:
		if loggedIn {
			r.say(msgAlreadyLoggedIn, domain.MenuLoggedIn)
			return
		}
		if intent.Typed && len(intent.Args) >= 2 {
			s.register(ctx, pid, intent.Args[0], command.JoinArgs(intent.Args[1:]), r)
			return
		}
		s.states.Set(domain.NewConversationState(pid, domain.StepAwaitingRegistrationUsername))
		r.prompt(msgRegisterPrompt)

	case domain.IntentLogin:
		if loggedIn {
			s.dashboard(ctx, pid, account, r)
			return
		}
		if intent.Typed && len(intent.Args) >= 2 {
			s.login(ctx, pid, intent.Args[0], command.JoinArgs(intent.Args[1:]), r)
			return
		}
		s.states.Set(domain.NewConversationState(pid, domain.StepAwaitingLoginUsername))
		r.prompt(msgLoginPrompt)

	case domain.IntentLogout:
		if err := s.auth.Logout(ctx, pid); err != nil {
			s.fail(pid, err, loggedIn, r)
			return
		}
		r.say(msgLoggedOut, domain.MenuLoggedOut)

	case domain.IntentCreateFolder:
		if !loggedIn {
			r.say(msgLoginFirstTap, domain.MenuLoggedOut)
			return
		}
		if name := typedArgs(intent); name != "" {
			s.createFolder(ctx, pid, account, name, r)
			return
		}
		s.states.Set(domain.NewConversationState(pid, domain.StepAwaitingFolderNameForCreate))
		r.prompt(msgCreateFolderPrompt)

	case domain.IntentListFolders:
		if !loggedIn {
			r.say(msgLoginFirstTap, domain.MenuLoggedOut)
			return
		}
		s.listFolders(ctx, pid, account, r)

	case domain.IntentOpenFolder:
		if !loggedIn {
			r.say(msgLoginFirstTap, domain.MenuLoggedOut)
			return
		}
		if name := typedArgs(intent); name != "" {
			s.openFolder(ctx, pid, account, name, r)
			return
		}
		s.states.Set(domain.NewConversationState(pid, domain.StepAwaitingFolderNameForOpen))
		r.prompt(msgOpenFolderPrompt)

	case domain.IntentUnknownCommand:
		r.say(unknownCommandMessage(loggedIn), domain.MenuFor(loggedIn))

	default:
		if loggedIn {
			r.say(unknownCommandMessage(true), domain.MenuLoggedIn)
			return
		}
		r.say(msgUseMenu, domain.MenuLoggedOut)
	}
}

// advance answers the pending prompt with text. Blank or malformed answers
// re-prompt and keep the state; a completed flow returns to idle whatever the
// outcome of its operation.
func (s *ConversationService) advance(ctx context.Context, event domain.InboundEvent, account *domain.Account, state domain.ConversationState, text string, r *replyBuilder) {
	pid := event.ParticipantID

	if state.Step.RequiresAuthentication() && account == nil {
		s.states.Delete(pid)
		r.say(msgLoginFirst, domain.MenuLoggedOut)
		return
	}

	switch state.Step {
	case domain.StepAwaitingRegistrationUsername:
		if err := s.auth.ValidateUsername(text); err != nil {
			r.prompt(msgInvalidUsername)
			return
		}
		s.states.Swap(state.Advance(domain.StepAwaitingRegistrationPassword, text))
		r.prompt(msgRegisterPasswordPrompt)

	case domain.StepAwaitingRegistrationPassword:
		if err := s.auth.ValidatePassword(text); err != nil {
			r.prompt(msgInvalidPassword)
			return
		}
		if claimed, ok := s.states.Take(pid); ok {
			s.register(ctx, pid, claimed.Username, text, r)
		}

	case domain.StepAwaitingLoginUsername:
		if text == "" {
			r.prompt(msgInvalidUsername)
			return
		}
		s.states.Swap(state.Advance(domain.StepAwaitingLoginPassword, text))
		r.prompt(msgLoginPasswordPrompt)

	case domain.StepAwaitingLoginPassword:
		if text == "" {
			r.prompt(msgInvalidPassword)
			return
		}
		if claimed, ok := s.states.Take(pid); ok {
			s.login(ctx, pid, claimed.Username, text, r)
		}

	case domain.StepAwaitingFolderNameForCreate:
		folder, err := s.folders.CreateFolder(ctx, account.ID, text)
		if domain.KindOf(err) == domain.KindValidation {
			r.prompt(msgInvalidFolderName)
			return
		}
		s.states.Delete(pid)
		if err != nil {
			s.fail(pid, err, true, r)
			return
		}
		r.say(folderCreatedMessage(folder), domain.MenuLoggedIn)

	case domain.StepAwaitingFolderNameForOpen:
		if text == "" {
			r.prompt(msgOpenFolderPrompt)
			return
		}
		s.states.Delete(pid)
		s.openFolder(ctx, pid, account, text, r)

	default:
		s.states.Delete(pid)
		s.route(ctx, event, account, domain.Intent{Kind: domain.IntentFreeText, Text: text}, r)
	}
}

func (s *ConversationService) handleAttachment(ctx context.Context, event domain.InboundEvent, account *domain.Account, r *replyBuilder) {
	_, err := s.uploads.Upload(ctx, event.ParticipantID, domain.UploadRequest{
		Platform:   event.Platform,
		Attachment: event.Attachment,
		Caption:    event.Caption,
	})
	if err != nil {
		s.fail(event.ParticipantID, err, account != nil, r)
		return
	}
	r.say(msgUploaded, domain.MenuLoggedIn)
}

func (s *ConversationService) register(ctx context.Context, pid, username, password string, r *replyBuilder) {
	if _, err := s.auth.Register(ctx, username, password, pid); err != nil {
		s.fail(pid, err, false, r)
		return
	}
	r.say(msgRegistered, domain.MenuLoggedOut)
}

func (s *ConversationService) login(ctx context.Context, pid, username, password string, r *replyBuilder) {
	account, err := s.auth.Login(ctx, username, password, pid)
	if err != nil {
		s.fail(pid, err, false, r)
		return
	}
	s.dashboard(ctx, pid, account, r)
}

func (s *ConversationService) dashboard(ctx context.Context, pid string, account *domain.Account, r *replyBuilder) {
	folders, err := s.folders.ListFolders(ctx, account.ID)
	if err != nil {
		s.fail(pid, err, true, r)
		return
	}
	r.sayMarkdown(dashboardMessage(folders), domain.MenuLoggedIn)
}

func (s *ConversationService) createFolder(ctx context.Context, pid string, account *domain.Account, name string, r *replyBuilder) {
	folder, err := s.folders.CreateFolder(ctx, account.ID, name)
	if err != nil {
		s.fail(pid, err, true, r)
		return
	}
	r.say(folderCreatedMessage(folder), domain.MenuLoggedIn)
}

func (s *ConversationService) listFolders(ctx context.Context, pid string, account *domain.Account, r *replyBuilder) {
	folders, err := s.folders.ListFolders(ctx, account.ID)
	if err != nil {
		s.fail(pid, err, true, r)
		return
	}
	if len(folders) == 0 {
		r.say(msgNoFolders, domain.MenuLoggedIn)
		return
	}
	r.say(foldersMessage(folders), domain.MenuLoggedIn)
}

func (s *ConversationService) openFolder(ctx context.Context, pid string, account *domain.Account, name string, r *replyBuilder) {
	opened, err := s.folders.OpenFolder(ctx, account.ID, name)
	if err != nil {
		s.fail(pid, err, true, r)
		return
	}

	r.say(folderOpenedMessage(opened.Folder), domain.MenuLoggedIn)
	if len(opened.Files) == 0 {
		r.say(msgFolderEmpty, domain.MenuLoggedIn)
		return
	}
	for _, file := range opened.Files {
		r.photo(file.BlobFileID, fileCaption(file, s.location))
	}
}

// fail reports err to the participant
func (s *ConversationService) fail(pid string, err error, loggedIn bool, r *replyBuilder) {
	kind := domain.KindOf(err)
	eventErrorsTotal.WithLabelValues(string(kind)).Inc()

	entry := logrus.WithFields(logrus.Fields{"participant": pid, "kind": kind})
	switch kind {
	case domain.KindExternal, domain.KindUnclassified:
		entry.Errorf("Operation failed: %v", err)
	default:
		entry.Infof("Operation rejected: %v", err)
	}

	text, menu := errorReply(err, loggedIn)
	r.say(text, menu)
}

// typedArgs returns the joined arguments of a formal command. Menu taps never
// carry arguments.
func typedArgs(intent domain.Intent) string {
	if !intent.Typed {
		return ""
	}
	return command.JoinArgs(intent.Args)
}
