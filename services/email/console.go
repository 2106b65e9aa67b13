package emailsvc

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

var (
	// SentMessages holds every message the console services delivered.
	SentMessages = make([]core.EmailMessage, 0)
	mu           sync.Mutex

	nowFunc = time.Now // mockable
)

// consoleService writes messages to the std logger as raw MIME instead of sending them.
type consoleService struct {
	from       mail.Address
	subjPrefix string
	output     io.Writer // nil: no output
	logger     core.Logger
	pending    *sync.WaitGroup
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) core.EmailService {
	return &consoleService{
		from:       conf.Mail.DefaultFromEmail,
		subjPrefix: "[" + conf.AppName + "] ",
		output:     log.Writer(),
		logger:     core.NopLogger,
		pending:    new(sync.WaitGroup),
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		svc.pending.Add(1)
		go func(msg *core.EmailMessage) {
			defer svc.pending.Done()
			svc.deliver(msg)
		}(msg)
	}
}

func (svc consoleService) Wait() {
	svc.pending.Wait()
}

func (svc consoleService) deliver(msg *core.EmailMessage) {
	if err := msg.Render(); err != nil {
		svc.logger.Error(fmt.Sprintf("rendering email %q: %v", msg.Subject, err), err)
		return
	}
	if !msg.Deliverable() {
		return
	}
	raw, err := svc.mime(*msg)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("writing email %q: %v", msg.Subject, err), err)
		return
	}
	mu.Lock()
	defer mu.Unlock()
	if svc.output != nil {
		_, _ = fmt.Fprintln(svc.output, raw)
	}
	SentMessages = append(SentMessages, *msg)
}

// mime lays the message out as multipart/alternative text and html, wrapped in multipart/mixed
// when there are attachments.
func (svc consoleService) mime(msg core.EmailMessage) (string, error) {
	body := new(strings.Builder)

	header := []struct{ key, value string }{
		{"From", svc.from.String()},
		{"MIME-Version", "1.0"},
		{"Date", nowFunc().Format(time.RFC1123Z)},
		{"Subject", svc.subjPrefix + msg.Subject},
		{"To", joinAddresses(msg.To)},
		{"CC", joinAddresses(msg.Cc)},
		{"BCC", joinAddresses(msg.Bcc)},
	}
	for _, h := range header {
		_, _ = fmt.Fprintf(body, "%s: %s\r\n", h.key, h.value)
	}

	alt := multipart.NewWriter(body)
	var mixed *multipart.Writer
	if msg.HasAttachments() {
		mixed = multipart.NewWriter(body)
		_, _ = fmt.Fprintf(body, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mixed.Boundary())
		if _, err := mixed.CreatePart(textproto.MIMEHeader{"Content-Type": {"multipart/alternative; boundary=" + alt.Boundary()}}); err != nil {
			return "", errors.Wrap(err, "creating multipart/alternative part")
		}
	} else {
		_, _ = fmt.Fprintf(body, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", alt.Boundary())
	}

	parts := []struct{ contentType, content string }{{"text/plain", msg.TextContent}}
	if msg.HTMLContent != "" {
		parts = append(parts, struct{ contentType, content string }{"text/html", msg.HTMLContent})
	}
	for _, p := range parts {
		w, err := alt.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return "", errors.Wrapf(err, "creating %s part", p.contentType)
		}
		_, _ = fmt.Fprintf(w, "%s\r\n", p.content)
	}
	if err := alt.Close(); err != nil {
		return "", err
	}

	if mixed != nil {
		for _, at := range msg.Attachments {
			w, err := mixed.CreatePart(textproto.MIMEHeader{
				"Content-Type":              {at.ContentType},
				"Content-Transfer-Encoding": {"base64"},
				"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", at.Filename)},
			})
			if err != nil {
				return "", errors.Wrapf(err, "attaching %s", at.Filename)
			}
			_, _ = fmt.Fprintf(w, "%s\r\n", at.Content.String())
		}
		if err := mixed.Close(); err != nil {
			return "", err
		}
	}
	return body.String(), nil
}

func joinAddresses(addrs []mail.Address) string {
	toJoin := make([]string, 0, len(addrs))
	for _, a := range addrs {
		toJoin = append(toJoin, a.String())
	}
	return strings.Join(toJoin, ", ")
}

type consoleServiceMock struct {
	consoleService
}

// NewConsoleServiceMock records messages synchronously in SentMessages, without output.
func NewConsoleServiceMock(conf *core.Config) core.EmailService {
	return &consoleServiceMock{
		consoleService: consoleService{
			from:       conf.Mail.DefaultFromEmail,
			subjPrefix: "[" + conf.AppName + "] ",
			logger:     core.NopLogger,
			pending:    new(sync.WaitGroup),
		},
	}
}

func (svc *consoleServiceMock) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		// run synchronously
		svc.deliver(msg)
	}
}

// ResetSentMessages clears SentMessages.
func ResetSentMessages() {
	mu.Lock()
	SentMessages = make([]core.EmailMessage, 0)
	mu.Unlock()
}

// Sent returns a copy of SentMessages.
func Sent() []core.EmailMessage {
	mu.Lock()
	defer mu.Unlock()
	return append([]core.EmailMessage(nil), SentMessages...)
}
