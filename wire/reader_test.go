package wire

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// Test token classification

func TestReadToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Token
	}{
		{
			name:     "bare ok",
			input:    "OK\r\n",
			expected: Token{Kind: TokenStatus, Outcome: "OK"},
		},
		{
			name:     "ok with message",
			input:    "OK \"Listscripts completed\"\r\n",
			expected: Token{Kind: TokenStatus, Outcome: "OK", Message: "Listscripts completed"},
		},
		{
			name:     "ok with unquoted message",
			input:    "OK Done\r\n",
			expected: Token{Kind: TokenStatus, Outcome: "OK", Message: "Done"},
		},
		{
			name:     "ok with code and message",
			input:    "OK (WARNINGS) \"line 3: deprecated\"\r\n",
			expected: Token{Kind: TokenStatus, Outcome: "OK", Code: "WARNINGS", Message: "line 3: deprecated"},
		},
		{
			name:     "no with code",
			input:    "NO (QUOTA/MAXSIZE) \"Script too large\"\r\n",
			expected: Token{Kind: TokenStatus, Outcome: "NO", Code: "QUOTA/MAXSIZE", Message: "Script too large"},
		},
		{
			name:     "bye",
			input:    "BYE \"Too many failed attempts\"\r\n",
			expected: Token{Kind: TokenStatus, Outcome: "BYE", Message: "Too many failed attempts"},
		},
		{
			name:     "single quoted segment",
			input:    "\"vacation\"\r\n",
			expected: Token{Kind: TokenQuoted, Fields: []string{"vacation"}},
		},
		{
			name:     "two quoted segments",
			input:    "\"vacation\" \"ACTIVE\"\r\n",
			expected: Token{Kind: TokenQuoted, Fields: []string{"vacation", "ACTIVE"}},
		},
		{
			name:     "two quoted segments with empty second",
			input:    "\"drafts\" \"\"\r\n",
			expected: Token{Kind: TokenQuoted, Fields: []string{"drafts", ""}},
		},
		{
			name:     "quoted ok is not a status line",
			input:    "\"OK\"\r\n",
			expected: Token{Kind: TokenQuoted, Fields: []string{"OK"}},
		},
		{
			name:     "literal block",
			input:    "{5}\r\nhello\r\n",
			expected: Token{Kind: TokenLiteral, Fields: []string{"hello"}},
		},
		{
			name:     "non-synchronizing literal block",
			input:    "{5+}\r\nhello\r\n",
			expected: Token{Kind: TokenLiteral, Fields: []string{"hello"}},
		},
		{
			name:     "empty literal block",
			input:    "{0}\r\n\r\n",
			expected: Token{Kind: TokenLiteral, Fields: []string{""}},
		},
		{
			name:     "plain line",
			input:    "something unexpected\r\n",
			expected: Token{Kind: TokenPlain, Fields: []string{"something unexpected"}},
		},
		{
			name:     "lf only line",
			input:    "\"vacation\"\n",
			expected: Token{Kind: TokenQuoted, Fields: []string{"vacation"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := ReadToken(bufio.NewReader(strings.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("ReadToken failed: %v", err)
			}
			if tok.Kind != tt.expected.Kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.expected.Kind)
			}
			if len(tok.Fields) != len(tt.expected.Fields) {
				t.Fatalf("Fields = %q, want %q", tok.Fields, tt.expected.Fields)
			}
			for i := range tok.Fields {
				if tok.Fields[i] != tt.expected.Fields[i] {
					t.Errorf("Fields[%d] = %q, want %q", i, tok.Fields[i], tt.expected.Fields[i])
				}
			}
			if tok.Outcome != tt.expected.Outcome {
				t.Errorf("Outcome = %q, want %q", tok.Outcome, tt.expected.Outcome)
			}
			if tok.Code != tt.expected.Code {
				t.Errorf("Code = %q, want %q", tok.Code, tt.expected.Code)
			}
			if tok.Message != tt.expected.Message {
				t.Errorf("Message = %q, want %q", tok.Message, tt.expected.Message)
			}
		})
	}
}

func TestReadTokenLiteralWithLineStructure(t *testing.T) {
	// The payload contains quotes, a CRLF and a status-looking line, none
	// of which may be interpreted as tokens.
	payload := "if header :contains \"subject\" \"hi\" {\r\nOK\r\n}"
	input := fmt.Sprintf("{%d}\r\n%s\r\n", len(payload), payload)

	tok, err := ReadToken(bufio.NewReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("ReadToken failed: %v", err)
	}
	if tok.Kind != TokenLiteral {
		t.Fatalf("Kind = %v, want TokenLiteral", tok.Kind)
	}
	if tok.Fields[0] != payload {
		t.Errorf("payload = %q, want %q", tok.Fields[0], payload)
	}
}

func TestReadTokenLiteralTruncated(t *testing.T) {
	_, err := ReadToken(bufio.NewReader(strings.NewReader("{10}\r\nabc")))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestReadTokenLiteralMissingTerminator(t *testing.T) {
	_, err := ReadToken(bufio.NewReader(strings.NewReader("{3}\r\nabcXY")))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

// Test response assembly

func TestReadResponse(t *testing.T) {
	input := "\"vacation\" \"ACTIVE\"\r\n" +
		"\"drafts\"\r\n" +
		"OK \"Listscripts completed\"\r\n"

	resp, err := ReadResponse(bufio.NewReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("len(Data) = %d, want 2", len(resp.Data))
	}
	if resp.Data[0][0] != "vacation" || resp.Data[0][1] != "ACTIVE" {
		t.Errorf("Data[0] = %q", resp.Data[0])
	}
	if len(resp.Data[1]) != 1 || resp.Data[1][0] != "drafts" {
		t.Errorf("Data[1] = %q", resp.Data[1])
	}
	if resp.Message != "Listscripts completed" {
		t.Errorf("Message = %q", resp.Message)
	}
}

func TestReadResponseEmpty(t *testing.T) {
	resp, err := ReadResponse(bufio.NewReader(strings.NewReader("OK\r\n")))
	if err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if !resp.IsEmpty() {
		t.Errorf("expected empty response, got %q", resp.Data)
	}
	if resp.First() != "" {
		t.Errorf("First() = %q, want empty", resp.First())
	}
}

func TestReadResponseNo(t *testing.T) {
	input := "NO (NONEXISTENT) \"No such script\"\r\n"

	_, err := ReadResponse(bufio.NewReader(strings.NewReader(input)))
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected *ResponseError, got %v", err)
	}
	if respErr.Outcome != OutcomeNo {
		t.Errorf("Outcome = %q, want NO", respErr.Outcome)
	}
	if respErr.Code != "NONEXISTENT" {
		t.Errorf("Code = %q, want NONEXISTENT", respErr.Code)
	}
	if respErr.Message != "No such script" {
		t.Errorf("Message = %q", respErr.Message)
	}
	if respErr.IsBye() {
		t.Error("IsBye() = true for a NO response")
	}
}

func TestReadResponseBye(t *testing.T) {
	input := "\"ignored\"\r\nBYE \"Shutting down\"\r\n"

	_, err := ReadResponse(bufio.NewReader(strings.NewReader(input)))
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected *ResponseError, got %v", err)
	}
	if !respErr.IsBye() {
		t.Error("IsBye() = false for a BYE response")
	}
}

func TestReadResponseConsumesSingleTerminal(t *testing.T) {
	input := "OK \"first\"\r\nOK \"second\"\r\n"
	r := bufio.NewReader(strings.NewReader(input))

	resp, err := ReadResponse(r)
	if err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if resp.Message != "first" {
		t.Errorf("Message = %q, want %q", resp.Message, "first")
	}

	resp, err = ReadResponse(r)
	if err != nil {
		t.Fatalf("second ReadResponse failed: %v", err)
	}
	if resp.Message != "second" {
		t.Errorf("Message = %q, want %q", resp.Message, "second")
	}
}
