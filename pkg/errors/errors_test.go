package errors

import (
	"errors"
	"io/fs"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestAt(t *testing.T) {
	tests := []struct {
		name string
		file string
		line int
		want string
	}{
		{"file and line", "q.graph", 7, "EDGE_OUT_OF_RANGE: q.graph:7: edge endpoint 9 >= vertex count 3"},
		{"file only", "q.graph", 0, "EDGE_OUT_OF_RANGE: q.graph: edge endpoint 9 >= vertex count 3"},
		{"line only", "", 7, "EDGE_OUT_OF_RANGE: line 7: edge endpoint 9 >= vertex count 3"},
		{"neither", "", 0, "EDGE_OUT_OF_RANGE: edge endpoint 9 >= vertex count 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(ErrCodeEdgeOutOfRange, "edge endpoint %d >= vertex count %d", 9, 3).At(tt.file, tt.line)
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeIOWrite, cause, "write target")

	if err.Code != ErrCodeIOWrite {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeIOWrite)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "IO_WRITE: write target: disk full"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeMalformedHeader, "test"),
			code:     ErrCodeMalformedHeader,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeMalformedHeader, "test"),
			code:     ErrCodeTruncatedFile,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeIORead, New(ErrCodeMalformedLine, "inner"), "outer"),
			code:     ErrCodeIORead,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmtWrap(New(ErrCodeTruncatedFile, "inner")),
			code:     ErrCodeTruncatedFile,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func fmtWrap(err error) error {
	return &wrapped{err}
}

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "convert: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeEdgeOutOfRange, "test"),
			expected: ErrCodeEdgeOutOfRange,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "Error with position",
			err:      New(ErrCodeMalformedLine, "expected 'v', found 'x'").At("g.graph", 3),
			expected: "g.graph:3: expected 'v', found 'x'",
		},
		{
			name:     "wrapped OS error",
			err:      Wrap(ErrCodeIOWrite, fs.ErrPermission, "create temporary file").At("/x/y.grf", 0),
			expected: "/x/y.grf: create temporary file: permission denied",
		},
		{
			name:     "nested Error cause",
			err:      Wrap(ErrCodeInvalidInput, New(ErrCodeMalformedLine, "bad label").At("q.graph", 2), "convert query"),
			expected: "convert query: q.graph:2: bad label",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
