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

// Package mailer renders and sends the service's notification emails
package mailer

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/pkg/errors"
	"github.com/uavlog/uavlog/pkg/server/mailer/templates"
)

var (
	// EmailTypeWelcome represents a welcome email
	EmailTypeWelcome = "welcome"
	// EmailTypeLicenseExpiry represents a license expiry reminder email
	EmailTypeLicenseExpiry = "license_expiry"
	// EmailTypeMaintenanceDue represents a maintenance due reminder email
	EmailTypeMaintenanceDue = "maintenance_due"
)

// EmailKindText is the MIME type of the plain text emails the service
// sends
var EmailKindText = "text/plain"

type emailTmpl struct {
	tmpl    *template.Template
	subject string
}

// Templates holds the parsed email templates keyed by email type
type Templates map[string]emailTmpl

// subjects maps each email type to its subject line
var subjects = map[string]string{
	EmailTypeWelcome:        "Welcome to UAVLog!",
	EmailTypeLicenseExpiry:  "Your UAV license is about to expire",
	EmailTypeMaintenanceDue: "Aircraft maintenance is due",
}

// NewTemplates parses the embedded email templates. It panics on a
// malformed template because that is a build defect, not a runtime
// condition.
func NewTemplates() Templates {
	T := Templates{}

	for name, subject := range subjects {
		content, err := templates.Files.ReadFile(fmt.Sprintf("%s.txt", name))
		if err != nil {
			panic(errors.Wrapf(err, "reading %s template", name))
		}

		t, err := template.New(name).Parse(string(content))
		if err != nil {
			panic(errors.Wrapf(err, "parsing %s template", name))
		}

		T[name] = emailTmpl{tmpl: t, subject: subject}
	}

	return T
}

// Execute renders the email of the given type and returns its subject
// and body
func (T Templates) Execute(name, kind string, data any) (subject, body string, err error) {
	t, ok := T[name]
	if !ok {
		return "", "", errors.Errorf("unsupported template '%s'", name)
	}

	buf := new(bytes.Buffer)
	if err := t.tmpl.Execute(buf, data); err != nil {
		return "", "", errors.Wrapf(err, "executing the %s template", name)
	}

	return t.subject, buf.String(), nil
}
