// SPDX-FileCopyrightText: The go-smtpauth Authors
//
// SPDX-License-Identifier: MIT

// Package sasl implements the client side of the SASL authentication
// mechanisms used by the SMTP AUTH service extension as defined in RFC 4954.
//
// The following mechanisms are provided:
//
//	PLAIN               RFC 4616
//	LOGIN               draft-murchison-sasl-login
//	CRAM-MD5            RFC 2195
//	SCRAM-SHA-1(-PLUS)  RFC 5802
//	SCRAM-SHA-256(-PLUS) RFC 7677
//	NTLM
//	XOAUTH2
package sasl

import "errors"

var (
	// ErrUnencrypted is returned when the underlying connection is not encrypted and the selected
	// mechanism would transmit the credentials in the clear
	ErrUnencrypted = errors.New("unencrypted connection")

	// ErrWrongHostname is returned when the connected server name does not match the hostname the
	// mechanism was configured for
	ErrWrongHostname = errors.New("wrong host name")

	// ErrUnexpectedServerChallenge is returned when the server sends a continuation challenge that
	// the selected mechanism cannot answer
	ErrUnexpectedServerChallenge = errors.New("unexpected server challenge")

	// ErrUnexpectedServerResponse is returned when the server response does not follow the
	// expected format of the selected mechanism
	ErrUnexpectedServerResponse = errors.New("unexpected server response")
)

// Auth is implemented by an SMTP authentication mechanism.
type Auth interface {
	// Start begins an authentication with a server.
	// It returns the name of the authentication protocol
	// and optionally data to include in the initial AUTH message
	// sent to the server.
	// If it returns a non-nil error, the authentication attempt
	// is not started and no command is sent to the server.
	Start(server *ServerInfo) (proto string, toServer []byte, err error)

	// Next continues the authentication. The server has just sent
	// the fromServer data. If more is true, the server expects a
	// response, which Next should return as toServer; otherwise
	// Next should return toServer == nil.
	// If Next returns a non-nil error, the running authentication
	// exchange is cancelled; the session itself stays open.
	Next(fromServer []byte, more bool) (toServer []byte, err error)
}

// ServerInfo records information about the SMTP server that the authentication
// exchange is talking to.
type ServerInfo struct {
	Name string   // SMTP server name
	TLS  bool     // using TLS, with valid certificate for Name
	Auth []string // advertised authentication mechanisms
}

// isLocalhost reports whether name resolves to the local machine.
func isLocalhost(name string) bool {
	return name == "localhost" || name == "127.0.0.1" || name == "::1"
}
