// SPDX-FileCopyrightText: The go-smtpauth Authors
//
// SPDX-License-Identifier: MIT

package smtpauth_test

import (
	"fmt"

	"github.com/wneessen/go-smtpauth"
)

// scriptedSession satisfies the smtpauth.Session interface with canned
// server replies for the example below
type scriptedSession struct {
	replies []struct {
		code int
		msg  string
	}
}

func (s *scriptedSession) Cmd(_ string, _ ...interface{}) (int, string, error) {
	next := s.replies[0]
	s.replies = s.replies[1:]
	return next.code, next.msg, nil
}

func (s *scriptedSession) Extensions() map[string]string {
	return map[string]string{"AUTH": "PLAIN LOGIN CRAM-MD5"}
}

// Code example for the Authenticator.Authenticate method. In a real program
// the Session would be backed by a live SMTP client connection that has
// completed its EHLO greeting.
func ExampleAuthenticator_Authenticate() {
	session := &scriptedSession{
		replies: []struct {
			code int
			msg  string
		}{
			{334, ""},
			{235, "2.7.0 Authentication successful"},
		},
	}
	auth := smtpauth.New(session, smtpauth.WithTLS(), smtpauth.WithServerName("mail.example.com"))
	fmt.Println(auth.Mechanisms())
	ok, err := auth.Authenticate("PLAIN", "toni.tester", "V3ryS3cr3t!")
	if err != nil {
		fmt.Printf("failed to authenticate: %s\n", err)
		return
	}
	fmt.Println(ok)
	// Output:
	// [PLAIN LOGIN CRAM-MD5]
	// true
}
