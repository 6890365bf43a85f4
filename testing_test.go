package managesieve

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// defaultGreeting is the capability greeting used by most tests.
const defaultGreeting = "\"IMPLEMENTATION\" \"Example Sieved\"\r\n" +
	"\"SASL\" \"PLAIN LOGIN\"\r\n" +
	"\"SIEVE\" \"fileinto vacation\"\r\n" +
	"\"STARTTLS\"\r\n" +
	"\"VERSION\" \"1.0\"\r\n" +
	"\"MAXSCRIPTSIZE\" \"131072\"\r\n" +
	"OK \"Ready\"\r\n"

func createListener(t testing.TB, handler func(conn net.Conn)) string {
	// Start a simple test server
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start test server: %v", err)
	}

	t.Cleanup(func() {
		listener.Close()
	})

	// Accept connections in background
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}

			go func(c net.Conn) {
				defer c.Close()

				if handler != nil {
					handler(c)
				}
			}(conn)
		}
	}()

	// Give the server time to start
	time.Sleep(10 * time.Millisecond)

	return listener.Addr().String()
}

// sequenceResponder sends the greeting, then answers each received line
// with the next canned response. A response of "" reads the line without
// answering it.
func sequenceResponder(greeting string, responses ...string) func(conn net.Conn) {
	return func(conn net.Conn) {
		if _, err := conn.Write([]byte(greeting)); err != nil {
			return
		}
		reader := bufio.NewReader(conn)
		for _, resp := range responses {
			if _, err := reader.ReadString('\n'); err != nil {
				return
			}
			if resp == "" {
				continue
			}
			if _, err := conn.Write([]byte(resp)); err != nil {
				return
			}
		}
	}
}

// recordingResponder behaves like sequenceResponder but also delivers
// every received line on lines, in order.
func recordingResponder(lines chan<- string, greeting string, responses ...string) func(conn net.Conn) {
	return func(conn net.Conn) {
		if _, err := conn.Write([]byte(greeting)); err != nil {
			return
		}
		reader := bufio.NewReader(conn)
		for _, resp := range responses {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			lines <- line
			if resp == "" {
				continue
			}
			if _, err := conn.Write([]byte(resp)); err != nil {
				return
			}
		}
	}
}

func dialTestClient(t testing.TB, cfg Config, handler func(conn net.Conn)) *Client {
	t.Helper()

	client, err := dialTestServer(t, cfg, handler)
	require.NoError(t, err, "Dial should succeed")

	t.Cleanup(func() {
		client.close()
	})
	return client
}

func dialTestServer(t testing.TB, cfg Config, handler func(conn net.Conn)) (*Client, error) {
	t.Helper()

	addr := createListener(t, handler)
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg.Host = host
	cfg.Port = port
	return Dial(context.Background(), cfg)
}

// receiveLine waits for the next recorded line, failing the test rather
// than hanging when the server never saw one.
func receiveLine(t testing.TB, lines <-chan string) string {
	t.Helper()
	select {
	case line := <-lines:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the server to receive a line")
		return ""
	}
}
