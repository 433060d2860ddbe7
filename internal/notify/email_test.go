package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "",
		FromEmail: "bookings@example.com",
	}, nil)

	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "bookings@example.com",
	}, nil)

	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != DefaultFromName {
		t.Errorf("expected default from name %q, got %q", DefaultFromName, sender.fromName)
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{client: nil}

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recipient@example.com",
		Subject: "Test",
		Body:    "Test body",
	})
	if err == nil {
		t.Error("expected error when client is nil")
	}
}

func TestPlainToHTML(t *testing.T) {
	got := plainToHTML("Hi <Asha>,\nsee you soon")
	want := "Hi &lt;Asha&gt;,<br>see you soon"
	if got != want {
		t.Errorf("plainToHTML = %q, want %q", got, want)
	}
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recipient@example.com",
		Subject: "Test Subject",
		Body:    "Test body",
	})
	if err != nil {
		t.Errorf("stub sender should not return error, got: %v", err)
	}
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender_Send(t *testing.T) {
	api := &fakeSES{}
	sender := NewSESSender(api, SESConfig{FromEmail: "bookings@example.com"}, nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "asha@example.com",
		Subject: "Booking received",
		Body:    "Thanks",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := aws.ToString(api.input.FromEmailAddress); got != `"Revive 2.0 Underground" <bookings@example.com>` {
		t.Errorf("unexpected from address %q", got)
	}
	if api.input.Destination.ToAddresses[0] != "asha@example.com" {
		t.Errorf("unexpected destination %v", api.input.Destination.ToAddresses)
	}
	if got := aws.ToString(api.input.Content.Simple.Body.Html.Data); got != "Thanks" {
		t.Errorf("expected html derived from text, got %q", got)
	}
	if aws.ToString(api.input.Content.Simple.Body.Text.Data) != "Thanks" {
		t.Error("text body not set")
	}
	if api.input.ReplyToAddresses != nil || api.input.ConfigurationSetName != nil || api.input.EmailTags != nil {
		t.Error("optional fields should be unset")
	}
}

func TestSESSender_BookingOptions(t *testing.T) {
	api := &fakeSES{}
	sender := NewSESSender(api, SESConfig{
		FromEmail:        "bookings@example.com",
		FromName:         "Revive Front Desk",
		ReplyTo:          "desk@example.com",
		ConfigurationSet: "bookings",
	}, nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "asha@example.com",
		ToName:  "Asha Verma",
		Subject: "Booking received",
		Body:    "line one\nline <two>",
		HTML:    "<p>custom</p>",
		Kind:    EmailKindConfirmation,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := aws.ToString(api.input.FromEmailAddress); got != `"Revive Front Desk" <bookings@example.com>` {
		t.Errorf("unexpected from address %q", got)
	}
	if got := api.input.Destination.ToAddresses[0]; got != `"Asha Verma" <asha@example.com>` {
		t.Errorf("unexpected destination %q", got)
	}
	if got := aws.ToString(api.input.Content.Simple.Body.Html.Data); got != "<p>custom</p>" {
		t.Errorf("explicit html should win, got %q", got)
	}
	if len(api.input.ReplyToAddresses) != 1 || api.input.ReplyToAddresses[0] != "desk@example.com" {
		t.Errorf("unexpected reply-to %v", api.input.ReplyToAddresses)
	}
	if aws.ToString(api.input.ConfigurationSetName) != "bookings" {
		t.Error("configuration set not applied")
	}
	if len(api.input.EmailTags) != 1 || aws.ToString(api.input.EmailTags[0].Value) != EmailKindConfirmation {
		t.Errorf("unexpected tags %+v", api.input.EmailTags)
	}
}

func TestSESSender_RequiresRecipient(t *testing.T) {
	api := &fakeSES{}
	sender := NewSESSender(api, SESConfig{FromEmail: "bookings@example.com"}, nil)
	if err := sender.Send(context.Background(), EmailMessage{Subject: "s", Body: "b"}); err == nil {
		t.Fatal("expected error without recipient")
	}
	if api.input != nil {
		t.Error("SES should not be called without a recipient")
	}
}

func TestSESSender_SendError(t *testing.T) {
	sender := NewSESSender(&fakeSES{err: errors.New("throttled")}, SESConfig{FromEmail: "bookings@example.com"}, nil)
	if err := sender.Send(context.Background(), EmailMessage{To: "a@example.com", Subject: "s", Body: "b"}); err == nil {
		t.Error("expected error from SES failure")
	}
}

func TestNewSESSender_NilClient(t *testing.T) {
	if NewSESSender(nil, SESConfig{}, nil) != nil {
		t.Error("expected nil sender without client")
	}
}
