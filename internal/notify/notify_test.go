package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func writeResume(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume-1-abc.pdf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write resume: %v", err)
	}
	return path
}

func sampleMessage(path string) Message {
	return Message{
		From:    "noreply@example.com",
		To:      "hr@example.com",
		Subject: "New Job Application - Ana Diaz (QA Engineer)",
		Body:    "Name: Ana Diaz\nEmail: ana@example.com\n",
		Attachments: []Attachment{{
			Filename:    "cv.pdf",
			Path:        path,
			ContentType: "application/pdf",
		}},
	}
}

func TestBuildMIMEContainsBodyAndAttachment(t *testing.T) {
	raw, err := BuildMIME(sampleMessage(writeResume(t, "%PDF-1.4 resume bytes")))
	if err != nil {
		t.Fatalf("build mime: %v", err)
	}

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}
	dec := new(mime.WordDecoder)
	subject, err := dec.DecodeHeader(parsed.Header.Get("Subject"))
	if err != nil {
		t.Fatalf("decode subject: %v", err)
	}
	if subject != "New Job Application - Ana Diaz (QA Engineer)" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if parsed.Header.Get("To") != "hr@example.com" {
		t.Fatalf("unexpected recipient %q", parsed.Header.Get("To"))
	}

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/mixed" {
		t.Fatalf("expected multipart/mixed, got %q (%v)", mediaType, err)
	}
	mr := multipart.NewReader(parsed.Body, params["boundary"])

	bodyPart, err := mr.NextPart()
	if err != nil {
		t.Fatalf("read body part: %v", err)
	}
	body := decodePart(t, bodyPart)
	if !strings.Contains(body, "Name: Ana Diaz") {
		t.Fatalf("expected body text, got %q", body)
	}

	attPart, err := mr.NextPart()
	if err != nil {
		t.Fatalf("read attachment part: %v", err)
	}
	if attPart.FileName() != "cv.pdf" {
		t.Fatalf("expected attachment named cv.pdf, got %q", attPart.FileName())
	}
	if got := decodePart(t, attPart); got != "%PDF-1.4 resume bytes" {
		t.Fatalf("unexpected attachment content %q", got)
	}
	if _, err := mr.NextPart(); err != io.EOF {
		t.Fatalf("expected exactly two parts, got err %v", err)
	}
}

func decodePart(t *testing.T, p *multipart.Part) string {
	t.Helper()
	encoded, err := io.ReadAll(p)
	if err != nil {
		t.Fatalf("read part: %v", err)
	}
	cleaned := strings.NewReplacer("\r", "", "\n", "").Replace(string(encoded))
	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		t.Fatalf("decode part: %v", err)
	}
	return string(decoded)
}

func TestBuildMIMEWrapsLongLines(t *testing.T) {
	raw, err := BuildMIME(sampleMessage(writeResume(t, strings.Repeat("x", 4096))))
	if err != nil {
		t.Fatalf("build mime: %v", err)
	}
	for _, line := range strings.Split(string(raw), "\r\n") {
		if len(line) > 998 {
			t.Fatalf("line exceeds RFC 5322 limit: %d", len(line))
		}
	}
}

func TestBuildMIMEMissingAttachment(t *testing.T) {
	msg := sampleMessage(filepath.Join(t.TempDir(), "gone.pdf"))
	if _, err := BuildMIME(msg); err == nil {
		t.Fatalf("expected error for missing attachment")
	}
}

func TestGmailNotifierSend(t *testing.T) {
	var calls int
	var captured gmail.Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/users/me/messages/send") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer srv.Close()

	svc, err := gmail.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("gmail service: %v", err)
	}
	n := newGmailNotifier(svc, quietLogger())

	if err := n.Send(context.Background(), sampleMessage(writeResume(t, "pdf"))); err != nil {
		t.Fatalf("send: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one API call, got %d", calls)
	}
	raw, err := base64.URLEncoding.DecodeString(captured.Raw)
	if err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	if !strings.Contains(string(raw), "To: hr@example.com") {
		t.Fatalf("expected recipient header in raw message")
	}
}

func TestGmailNotifierSendFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"code":403,"message":"forbidden"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	svc, err := gmail.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("gmail service: %v", err)
	}
	n := newGmailNotifier(svc, quietLogger())

	if err := n.Send(context.Background(), sampleMessage(writeResume(t, "pdf"))); err == nil {
		t.Fatalf("expected send error")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestNewGmailNotifierRequiresToken(t *testing.T) {
	dir := t.TempDir()
	creds := filepath.Join(dir, "credentials.json")
	content := `{"installed":{"client_id":"id","client_secret":"secret","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`
	if err := os.WriteFile(creds, []byte(content), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	_, err := NewGmailNotifier(context.Background(), GmailConfig{
		CredentialsFile: creds,
		TokenFile:       filepath.Join(dir, "token.json"),
	}, quietLogger())
	if err == nil {
		t.Fatalf("expected error without token file")
	}
}

func TestLogNotifierWritesSubject(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	n := NewLogNotifier(logger)
	if err := n.Send(context.Background(), sampleMessage("/tmp/unused.pdf")); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(buf.String(), "QA Engineer") {
		t.Fatalf("expected subject in log output, got %q", buf.String())
	}
}
