package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type GmailConfig struct {
	CredentialsFile string
	TokenFile       string
}

// GmailNotifier sends mail through the Gmail API as the authorized account.
type GmailNotifier struct {
	svc    *gmail.Service
	logger *logrus.Logger
}

// NewGmailNotifier builds an OAuth2 client from the OAuth client file and a
// previously authorized token. It never prompts; a missing token is an error.
func NewGmailNotifier(ctx context.Context, cfg GmailConfig, logger *logrus.Logger) (*GmailNotifier, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail credentials: %w", err)
	}
	oauthCfg, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parse gmail credentials: %w", err)
	}
	tok, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail token: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(context.Background(), tok)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return newGmailNotifier(svc, logger), nil
}

func newGmailNotifier(svc *gmail.Service, logger *logrus.Logger) *GmailNotifier {
	if logger == nil {
		logger = logrus.New()
	}
	return &GmailNotifier{svc: svc, logger: logger}
}

func (n *GmailNotifier) Send(ctx context.Context, msg Message) error {
	raw, err := BuildMIME(msg)
	if err != nil {
		return err
	}
	sent, err := n.svc.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	n.logger.WithFields(logrus.Fields{
		"message_id": sent.Id,
		"to":         msg.To,
	}).Info("notification sent via gmail")
	return nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

var _ Notifier = (*GmailNotifier)(nil)
