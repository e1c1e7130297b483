// SPDX-FileCopyrightText: The go-smtpauth Authors
//
// SPDX-License-Identifier: MIT

package smtpauth

import (
	"bufio"
	"crypto/hmac"
	"encoding/base64"
	"fmt"
	"hash"
	"io"
	"net"
	"net/textproto"
	"strings"
	"testing"

	"golang.org/x/crypto/pbkdf2"
)

// reply is a single scripted server reply for the fakeSession
type reply struct {
	code int
	msg  string
}

// fakeSession satisfies the Session interface with scripted replies and
// records every line the Authenticator sends
type fakeSession struct {
	replies []reply
	ext     map[string]string
	sent    []string
	cmdErr  error
}

func (s *fakeSession) Cmd(format string, args ...interface{}) (int, string, error) {
	line := fmt.Sprintf(format, args...)
	s.sent = append(s.sent, line)
	if s.cmdErr != nil {
		return 0, "", s.cmdErr
	}
	if len(s.replies) == 0 {
		return 0, "", io.ErrUnexpectedEOF
	}
	next := s.replies[0]
	s.replies = s.replies[1:]
	return next.code, next.msg, nil
}

func (s *fakeSession) Extensions() map[string]string {
	return s.ext
}

// textprotoSession satisfies the Session interface on top of a live
// textproto connection. It performs the EHLO greeting itself so that the
// Authenticator has a post-greeting session to work on.
type textprotoSession struct {
	text *textproto.Conn
	ext  map[string]string
}

func newTextprotoSession(conn net.Conn, helloName string) (*textprotoSession, error) {
	text := textproto.NewConn(conn)
	if _, _, err := text.ReadResponse(220); err != nil {
		_ = text.Close()
		return nil, err
	}
	id, err := text.Cmd("EHLO %s", helloName)
	if err != nil {
		return nil, err
	}
	text.StartResponse(id)
	defer text.EndResponse(id)
	_, msg, err := text.ReadResponse(250)
	if err != nil {
		return nil, err
	}
	ext := make(map[string]string)
	extList := strings.Split(msg, "\n")
	if len(extList) > 1 {
		for _, line := range extList[1:] {
			args := strings.SplitN(line, " ", 2)
			if len(args) > 1 {
				ext[args[0]] = args[1]
			} else {
				ext[args[0]] = ""
			}
		}
	}
	return &textprotoSession{text: text, ext: ext}, nil
}

func (s *textprotoSession) Cmd(format string, args ...interface{}) (int, string, error) {
	id, err := s.text.Cmd(format, args...)
	if err != nil {
		return 0, "", err
	}
	s.text.StartResponse(id)
	defer s.text.EndResponse(id)
	return s.text.ReadResponse(0)
}

func (s *textprotoSession) Extensions() map[string]string {
	return s.ext
}

func (s *textprotoSession) Close() error {
	return s.text.Close()
}

// scramTestServer is a minimal SMTP server that offers and performs SCRAM
// authentication for the account username/password
type scramTestServer struct {
	hostname string
	h        func() hash.Hash
}

// startSCRAMServer starts a scramTestServer on an ephemeral port and returns
// its address
func startSCRAMServer(t *testing.T, h func() hash.Hash) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start test server: %s", err)
	}
	t.Cleanup(func() {
		_ = listener.Close()
	})
	server := &scramTestServer{hostname: "127.0.0.1", h: h}
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go server.handleConnection(conn)
		}
	}()
	return listener.Addr().String()
}

func (s *scramTestServer) handleConnection(conn net.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)
	writeLine := func(data string) error {
		if _, err := writer.WriteString(data + "\r\n"); err != nil {
			return err
		}
		return writer.Flush()
	}

	if err := writeLine("220 go-smtpauth test server ready ESMTP"); err != nil {
		return
	}

	data, err := reader.ReadString('\n')
	if err != nil {
		return
	}
	if !strings.HasPrefix(strings.TrimSpace(data), "EHLO") {
		_ = writeLine("500 Invalid command")
		return
	}
	_ = writeLine(fmt.Sprintf("250-%s", s.hostname))
	_ = writeLine("250-AUTH SCRAM-SHA-1 SCRAM-SHA-256")
	_ = writeLine("250 2.0.0 OK")

	for {
		data, err = reader.ReadString('\n')
		if err != nil {
			return
		}
		data = strings.TrimSpace(data)
		if !strings.HasPrefix(data, "AUTH ") {
			_ = writeLine("500 Invalid command")
			continue
		}
		parts := strings.Split(data, " ")
		mechanism := parts[1]
		if mechanism != "SCRAM-SHA-1" && mechanism != "SCRAM-SHA-256" {
			_ = writeLine("504 Unrecognized authentication mechanism")
			continue
		}
		_ = writeLine("334 ")
		s.handleSCRAMAuth(reader, writeLine)
		return
	}
}

func (s *scramTestServer) handleSCRAMAuth(reader *bufio.Reader, writeLine func(string) error) {
	data, err := reader.ReadString('\n')
	if err != nil {
		return
	}
	clientFirst, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		_ = writeLine("535 Authentication failed")
		return
	}
	splits := strings.Split(string(clientFirst), ",")
	if len(splits) != 4 || splits[0] != "n" || splits[2] != "n=username" ||
		!strings.HasPrefix(splits[3], "r=") {
		_ = writeLine("535 Authentication failed")
		return
	}
	authMsg := splits[2] + "," + splits[3]
	clientNonce := splits[3][2:]

	nonce := clientNonce + "server_nonce"
	serverFirst := fmt.Sprintf("r=%s,s=%s,i=4096", nonce,
		base64.StdEncoding.EncodeToString([]byte("salt")))
	_ = writeLine(fmt.Sprintf("334 %s", base64.StdEncoding.EncodeToString([]byte(serverFirst))))
	authMsg = authMsg + "," + serverFirst

	data, err = reader.ReadString('\n')
	if err != nil {
		return
	}
	clientFinal, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		_ = writeLine("535 Authentication failed")
		return
	}
	splits = strings.Split(string(clientFinal), ",")
	if len(splits) < 3 || splits[0] != "c=biws" || !strings.HasPrefix(splits[1], "r=") ||
		!strings.Contains(splits[1], "server_nonce") || !strings.HasPrefix(splits[2], "p=") {
		_ = writeLine("535 Authentication failed")
		return
	}
	authMsg = authMsg + "," + splits[0] + "," + splits[1]

	saltedPwd := pbkdf2.Key([]byte("password"), []byte("salt"), 4096, s.h().Size(), s.h)
	mac := hmac.New(s.h, saltedPwd)
	mac.Write([]byte("Server Key"))
	serverKey := mac.Sum(nil)
	mac = hmac.New(s.h, serverKey)
	mac.Write([]byte(authMsg))
	serverSignature := mac.Sum(nil)

	serverFinal := fmt.Sprintf("v=%s", base64.StdEncoding.EncodeToString(serverSignature))
	_ = writeLine(fmt.Sprintf("334 %s", base64.StdEncoding.EncodeToString([]byte(serverFinal))))

	if _, err = reader.ReadString('\n'); err != nil {
		return
	}
	_ = writeLine("235 Authentication successful")
}
