/* Copyright 2025 UAVLog Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mailer

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/log"
	"gopkg.in/gomail.v2"
)

// ErrSMTPNotConfigured is an error indicating that SMTP is not configured
var ErrSMTPNotConfigured = errors.New("SMTP is not configured")

// Backend sends a rendered email of the given template type
type Backend interface {
	SendEmail(templateType, from string, to []string, data interface{}) error
}

// EmailDialer delivers built messages. gomail.Dialer satisfies it in
// production; tests substitute a fake.
type EmailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPBackend renders templates and delivers them over SMTP
type SMTPBackend struct {
	Dialer    EmailDialer
	Templates Templates
}

// NewSMTPBackend creates an SMTP backend from the SMTP_* environment
// variables. It returns ErrSMTPNotConfigured when any of them is
// missing.
func NewSMTPBackend() (*SMTPBackend, error) {
	host := os.Getenv("SMTP_HOST")
	portStr := os.Getenv("SMTP_PORT")
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")

	if host == "" || portStr == "" || username == "" || password == "" {
		return nil, ErrSMTPNotConfigured
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, errors.Wrap(err, "parsing SMTP port")
	}

	return &SMTPBackend{
		Dialer:    gomail.NewDialer(host, port, username, password),
		Templates: NewTemplates(),
	}, nil
}

// SendEmail renders the template and sends the message immediately
func (b *SMTPBackend) SendEmail(templateType, from string, to []string, data interface{}) error {
	subject, body, err := b.Templates.Execute(templateType, EmailKindText, data)
	if err != nil {
		return errors.Wrap(err, "executing template")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody(EmailKindText, body)

	if err := b.Dialer.DialAndSend(m); err != nil {
		return errors.Wrap(err, "dialing and sending email")
	}

	return nil
}

// StdoutBackend logs rendered emails instead of sending them. It is
// the fallback when SMTP is not configured, and what development
// setups use.
type StdoutBackend struct {
	Templates Templates
}

// NewStdoutBackend creates a stdout backend
func NewStdoutBackend() *StdoutBackend {
	return &StdoutBackend{
		Templates: NewTemplates(),
	}
}

// SendEmail renders the template and logs the result
func (b *StdoutBackend) SendEmail(templateType, from string, to []string, data interface{}) error {
	subject, body, err := b.Templates.Execute(templateType, EmailKindText, data)
	if err != nil {
		return errors.Wrap(err, "executing template")
	}

	log.WithFields(log.Fields{
		"subject": subject,
		"to":      to,
		"from":    from,
		"body":    body,
	}).Info("Email (not sent, using StdoutBackend)")

	return nil
}
