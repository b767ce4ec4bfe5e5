/*
 * Copyright 2025 Carver Automation Corporation.
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

package junos

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/netscope/netreport/pkg/fetcher"
)

// Minimal NETCONF 1.0 session over the SSH "netconf" subsystem: hello
// exchange and end-of-message framing (RFC 6242 "]]>]]>"). Just enough to
// issue the two RPCs this adapter needs; this is not a protocol library.

const (
	netconfSubsystem = "netconf"
	endOfMessage     = "]]>]]>"

	helloMessage = `<?xml version="1.0" encoding="UTF-8"?>
<hello xmlns="urn:ietf:params:xml:ns:netconf:base:1.0">
  <capabilities>
    <capability>urn:ietf:params:xml:ns:netconf:base:1.0</capability>
  </capabilities>
</hello>
`
)

type netconfSession struct {
	ssh     *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser
	stdout  *bufio.Reader
}

func dialNetconf(cfg Config) (*netconfSession, error) {
	sshCfg := &ssh.ClientConfig{
		User:            cfg.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // device host keys are not pre-distributed
		Timeout:         cfg.Timeout,
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	conn, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		if strings.Contains(err.Error(), "unable to authenticate") ||
			strings.Contains(err.Error(), "no supported methods remain") {
			return nil, fmt.Errorf("%w: %w", fetcher.ErrAuthFailed, err)
		}

		return nil, fmt.Errorf("%w: connecting to %s: %w", fetcher.ErrFetchFailed, addr, err)
	}

	session, err := conn.NewSession()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: opening session: %w", fetcher.ErrFetchFailed, err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %w", fetcher.ErrFetchFailed, err)
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %w", fetcher.ErrFetchFailed, err)
	}

	if err := session.RequestSubsystem(netconfSubsystem); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: requesting netconf subsystem: %w", fetcher.ErrFetchFailed, err)
	}

	nc := &netconfSession{
		ssh:     conn,
		session: session,
		stdin:   stdin,
		stdout:  bufio.NewReader(stdout),
	}

	// Hello exchange: send ours, drain the peer's.
	if _, err := io.WriteString(stdin, helloMessage+endOfMessage+"\n"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: sending hello: %w", fetcher.ErrFetchFailed, err)
	}

	if _, err := nc.readMessage(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: reading peer hello: %w", fetcher.ErrFetchFailed, err)
	}

	return nc, nil
}

func (nc *netconfSession) close() error {
	_ = nc.session.Close()
	return nc.ssh.Close()
}

// rpc frames one request and returns the reply body with the
// end-of-message delimiter stripped.
func (nc *netconfSession) rpc(ctx context.Context, payload string) (string, error) {
	msg := "<rpc>" + payload + "</rpc>" + endOfMessage + "\n"

	if _, err := io.WriteString(nc.stdin, msg); err != nil {
		return "", fmt.Errorf("%w: sending rpc: %w", fetcher.ErrFetchFailed, err)
	}

	type result struct {
		reply string
		err   error
	}

	done := make(chan result, 1)

	go func() {
		reply, err := nc.readMessage()
		done <- result{reply: reply, err: err}
	}()

	select {
	case <-ctx.Done():
		_ = nc.session.Close()
		return "", fmt.Errorf("%w: %w", fetcher.ErrFetchFailed, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("%w: reading rpc reply: %w", fetcher.ErrFetchFailed, res.err)
		}

		return res.reply, nil
	}
}

// readMessage reads until the end-of-message delimiter.
func (nc *netconfSession) readMessage() (string, error) {
	var buf bytes.Buffer

	delim := []byte(endOfMessage)

	for {
		b, err := nc.stdout.ReadByte()
		if err != nil {
			return "", err
		}

		buf.WriteByte(b)

		if b == '>' && bytes.HasSuffix(buf.Bytes(), delim) {
			msg := buf.Bytes()
			return string(msg[:len(msg)-len(delim)]), nil
		}
	}
}

// defaultTimeout bounds the SSH dial; RPC reads are bounded by the
// caller's context.
const defaultTimeout = 15 * time.Second
