package core

import (
	"bytes"
	"encoding/base64"
	htmltmpl "html/template"
	"io"
	"io/ioutil"
	"net/http"
	"net/mail"
)

var htmlBody = htmltmpl.Must(htmltmpl.New("body").Parse(
	`<html><body><pre style="font-family: monospace">{{ . }}</pre></body></html>`,
))

type (
	Attachment struct {
		Content     *bytes.Buffer // base64 encoded
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain content
		Attachments []Attachment

		TextContent string
		HTMLContent string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
		// Wait blocks until every message handed to SendMessages has been sent or has failed.
		Wait()
	}
)

// Render fills the text and HTML contents from BodyStr.
func (m *EmailMessage) Render() error {
	if m.BodyStr == "" {
		return nil
	}
	m.TextContent = m.BodyStr

	var buff bytes.Buffer
	if err := htmlBody.Execute(&buff, m.BodyStr); err != nil {
		return err
	}
	m.HTMLContent = buff.String()
	return nil
}

// Attach base64-encodes the content of r as a file attachment. The content type is sniffed
// unless given.
func (m *EmailMessage) Attach(r io.Reader, filename string, ct ...string) error {
	content, err := ioutil.ReadAll(r)
	if err != nil {
		return err
	}
	at := Attachment{Filename: filename, Content: new(bytes.Buffer)}

	encoder := base64.NewEncoder(base64.StdEncoding, at.Content)
	if _, err := encoder.Write(content); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	if len(ct) > 0 {
		at.ContentType = ct[0]
	} else {
		at.ContentType = http.DetectContentType(content)
	}
	m.Attachments = append(m.Attachments, at)
	return nil
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return (m.TextContent != "") || (m.HTMLContent != "") }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }

// Deliverable reports whether the message has somebody to go to and something to say.
func (m *EmailMessage) Deliverable() bool {
	return m.HasRecipients() && (m.HasContent() || m.HasAttachments())
}
