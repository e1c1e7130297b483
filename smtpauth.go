// SPDX-FileCopyrightText: The go-smtpauth Authors
//
// SPDX-License-Identifier: MIT

package smtpauth

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/wneessen/go-smtpauth/log"
	"github.com/wneessen/go-smtpauth/sasl"
)

// SMTP reply codes that drive the AUTH exchange as defined in RFC 4954
const (
	// ReplyCodeContinue indicates that the server expects more authentication data
	ReplyCodeContinue = 334

	// ReplyCodeSuccess indicates that the authentication was successful
	ReplyCodeSuccess = 235
)

// Session is the part of an SMTP client connection that the Authenticator
// operates on. The connection must have completed the EHLO/HELO greeting
// before any authentication is attempted.
type Session interface {
	// Cmd sends a single command line to the server and returns the numeric
	// reply code and the reply message text.
	Cmd(format string, args ...interface{}) (code int, msg string, err error)

	// Extensions returns the ESMTP capability map that was parsed from the
	// EHLO response. A nil map is valid and indicates a pre-ESMTP session.
	Extensions() map[string]string
}

// Authenticator performs SMTP AUTH exchanges on an existing client session.
// It holds no state of its own between calls; a failed attempt leaves the
// session open for a retry with the same or a different mechanism.
type Authenticator struct {
	// session is the SMTP client connection the exchange is performed on
	session Session

	// allowUnencryptedAuth permits credential-transmitting mechanisms on
	// unencrypted connections
	allowUnencryptedAuth bool

	// debug logging is enabled
	debug bool

	// logAuthData indicates that authentication data should be included in the logs
	logAuthData bool

	// logger will be used for warning diagnostics and debug logging
	logger log.Logger

	// serverName denotes the name of the server the session is connected to
	serverName string

	// tls indicates whether the session is using an encrypted connection
	tls bool
}

// Option is a function to override the default Authenticator settings
type Option func(*Authenticator)

// WithLogger overrides the default log.Stdlog with a logger that satisfies
// the log.Logger interface
func WithLogger(l log.Logger) Option {
	return func(a *Authenticator) {
		a.logger = l
	}
}

// WithDebugLog enables debug logging of the incoming and outgoing AUTH exchange
func WithDebugLog() Option {
	return func(a *Authenticator) {
		a.debug = true
	}
}

// WithLogAuthData enables logging of authentication data. By default any
// line exchanged between the AUTH command and the final reply is redacted
// in the debug log.
func WithLogAuthData() Option {
	return func(a *Authenticator) {
		a.logAuthData = true
	}
}

// WithServerName sets the name of the server the session is connected to.
// Mechanisms that verify the peer identity compare against this name.
func WithServerName(name string) Option {
	return func(a *Authenticator) {
		a.serverName = name
	}
}

// WithTLS marks the session's connection as encrypted, which permits the
// mechanisms that transmit credentials
func WithTLS() Option {
	return func(a *Authenticator) {
		a.tls = true
	}
}

// WithUnencryptedAuth allows mechanisms that transmit credentials to run on
// unencrypted connections to servers other than localhost. Intended for test
// setups; production use should rely on an encrypted session instead.
func WithUnencryptedAuth() Option {
	return func(a *Authenticator) {
		a.allowUnencryptedAuth = true
	}
}

// New returns a new Authenticator that operates on the given session
func New(session Session, opts ...Option) *Authenticator {
	a := &Authenticator{session: session}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.logger == nil {
		level := log.LevelWarn
		if a.debug {
			level = log.LevelDebug
		}
		a.logger = log.New(os.Stderr, level)
	}
	return a
}

// Mechanisms returns the authentication mechanisms the server advertised in
// its AUTH capability, in the server's order of preference. The list is
// empty if the session has no capability map or the AUTH extension was not
// advertised.
func (a *Authenticator) Mechanisms() []string {
	return strings.Fields(a.session.Extensions()["AUTH"])
}

// Authenticate performs an SMTP AUTH exchange with the mechanism of the
// given name, using username and password as credentials. The mechanism
// name is case-insensitive; PLAIN, LOGIN and CRAM-MD5 can be negotiated by
// name. Other mechanisms are available through [Authenticator.AuthenticateCustom].
//
// The returned bool reports whether the server accepted the authentication.
// A non-nil error indicates that the exchange could not be driven to a
// server verdict: a usage error, an unsupported mechanism, a mechanism
// failure mid-exchange or a transport error. A server reply code other than
// 334/235 at any step is not an error; it yields false with a nil error and
// the session remains usable for another attempt.
func (a *Authenticator) Authenticate(mechanism, username, password string) (bool, error) {
	if strings.TrimSpace(mechanism) == "" {
		a.warnLog("no authentication mechanism given")
		return false, ErrNoMechanism
	}

	var auth sasl.Auth
	switch AuthType(strings.ToUpper(mechanism)) {
	case AuthPlain:
		auth = sasl.PlainAuth("", username, password, a.serverName, a.allowUnencryptedAuth)
	case AuthLogin:
		auth = sasl.LoginAuth(username, password, a.serverName, a.allowUnencryptedAuth)
	case AuthCramMD5:
		auth = sasl.CRAMMD5Auth(username, password)
	default:
		a.warnLog("unsupported authentication mechanism: %s", mechanism)
		return false, fmt.Errorf("%w: %s", ErrMechanismNotSupported, mechanism)
	}

	return a.AuthenticateCustom(auth)
}

// AuthenticateCustom performs an SMTP AUTH exchange with the provided SASL
// mechanism. This is the entry point for mechanisms that need more than a
// username and a password, such as the SCRAM-PLUS variants (TLS connection
// state), NTLM (workstation name) or XOAUTH2 (access token).
func (a *Authenticator) AuthenticateCustom(auth sasl.Auth) (bool, error) {
	mech, resp, err := auth.Start(&sasl.ServerInfo{
		Name: a.serverName,
		TLS:  a.tls,
		Auth: a.Mechanisms(),
	})
	if err != nil {
		return false, err
	}

	encoding := base64.StdEncoding
	authCmd := "AUTH " + mech
	if resp != nil {
		// Initial response per RFC 4954 section 4, as a single unbroken
		// base64 line.
		authCmd += " " + encoding.EncodeToString(resp)
	}

	code, msg, err := a.cmd(authCmd)
	for err == nil {
		switch code {
		case ReplyCodeSuccess:
			return true, nil
		case ReplyCodeContinue:
			challenge, decErr := encoding.DecodeString(msg)
			if decErr != nil {
				a.abort()
				return false, fmt.Errorf("failed to decode server challenge: %w", decErr)
			}
			var next []byte
			next, err = auth.Next(challenge, true)
			if err != nil {
				a.abort()
				return false, err
			}
			if next == nil {
				a.abort()
				return false, sasl.ErrUnexpectedServerChallenge
			}
			code, msg, err = a.cmd(encoding.EncodeToString(next))
		default:
			return false, nil
		}
	}
	return false, err
}

// cmd sends a single line to the server and returns the reply, logging both
// directions of the exchange
func (a *Authenticator) cmd(line string) (int, string, error) {
	logLine := line
	if !a.logAuthData {
		logLine = "<SMTP auth data redacted>"
	}
	a.debugLog(log.DirClientToServer, "%s", logLine)

	code, msg, err := a.session.Cmd("%s", line)
	if err != nil {
		return code, msg, err
	}

	logMsg := msg
	if !a.logAuthData && code == ReplyCodeContinue {
		logMsg = "<SMTP auth data redacted>"
	}
	a.debugLog(log.DirServerToClient, "%d %s", code, logMsg)
	return code, msg, nil
}

// abort cancels a running AUTH exchange by sending the "*" cancel line from
// RFC 4954 section 4. The server answers the cancel with an error reply,
// which is read and discarded so the session stays usable.
func (a *Authenticator) abort() {
	_, _, _ = a.cmd("*")
}

// debugLog logs the provided message to the log.Logger interface if debug
// logging is enabled
func (a *Authenticator) debugLog(d log.Direction, f string, args ...interface{}) {
	if a.debug {
		a.logger.Debugf(log.Log{Direction: d, Format: f, Messages: args})
	}
}

// warnLog logs a warning-level diagnostic to the log.Logger interface
func (a *Authenticator) warnLog(f string, args ...interface{}) {
	a.logger.Warnf(log.Log{Direction: log.DirClientToServer, Format: f, Messages: args})
}
