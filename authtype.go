// SPDX-FileCopyrightText: The go-smtpauth Authors
//
// SPDX-License-Identifier: MIT

package smtpauth

import (
	"errors"
	"fmt"
	"strings"
)

// AuthType is a type wrapper for the name of an SMTP AUTH mechanism
type AuthType string

// Supported SMTP AUTH types
const (
	// AuthPlain is the "PLAIN" authentication mechanism as described in RFC 4616
	AuthPlain AuthType = "PLAIN"

	// AuthLogin is the "LOGIN" SASL authentication mechanism
	AuthLogin AuthType = "LOGIN"

	// AuthCramMD5 is the "CRAM-MD5" SASL authentication mechanism as described in RFC 4954
	AuthCramMD5 AuthType = "CRAM-MD5"

	// AuthXOAuth2 is the "XOAUTH2" SASL authentication mechanism.
	// https://developers.google.com/gmail/imap/xoauth2-protocol
	AuthXOAuth2 AuthType = "XOAUTH2"

	// AuthNTLM is the "NTLM" SASL authentication mechanism
	AuthNTLM AuthType = "NTLM"

	AuthSCRAMSHA1       AuthType = "SCRAM-SHA-1"
	AuthSCRAMSHA1PLUS   AuthType = "SCRAM-SHA-1-PLUS"
	AuthSCRAMSHA256     AuthType = "SCRAM-SHA-256"
	AuthSCRAMSHA256PLUS AuthType = "SCRAM-SHA-256-PLUS"
)

// SMTP AUTH related static errors
var (
	// ErrNoMechanism is returned when Authenticate is called without an authentication
	// mechanism name
	ErrNoMechanism = errors.New("no authentication mechanism given")

	// ErrMechanismNotSupported is returned when the requested authentication mechanism
	// is not one of the mechanisms the Authenticator can negotiate via its name-based
	// dispatch
	ErrMechanismNotSupported = errors.New("authentication mechanism not supported")
)

// String satisfies the fmt.Stringer interface for the AuthType type
func (t AuthType) String() string {
	return string(t)
}

// UnmarshalString parses the given string into an AuthType. Common alias spellings
// of the mechanism names are accepted.
func (t *AuthType) UnmarshalString(value string) error {
	switch strings.ToLower(value) {
	case "plain":
		*t = AuthPlain
	case "login":
		*t = AuthLogin
	case "cram-md5", "cram", "crammd5":
		*t = AuthCramMD5
	case "xoauth2", "oauth2":
		*t = AuthXOAuth2
	case "ntlm":
		*t = AuthNTLM
	case "scram-sha-1", "scram-sha1", "scramsha1":
		*t = AuthSCRAMSHA1
	case "scram-sha-1-plus", "scram-sha1-plus", "scramsha1plus":
		*t = AuthSCRAMSHA1PLUS
	case "scram-sha-256", "scram-sha256", "scramsha256":
		*t = AuthSCRAMSHA256
	case "scram-sha-256-plus", "scram-sha256-plus", "scramsha256plus":
		*t = AuthSCRAMSHA256PLUS
	default:
		return fmt.Errorf("unsupported SMTP AUTH type %q", value)
	}
	return nil
}
