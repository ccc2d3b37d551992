package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
)

func getLogger(w io.Writer) Logger {
	logger := New()
	logger.SetOutput(w)
	logger.SetJSONFormatter()
	return logger
}

func assertResult(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if actual != expected {
		t.Fatalf("Expected result %v but got %v", expected, actual)
	}
}

func TestInfo(t *testing.T) {
	var buffer bytes.Buffer
	var fields Fields

	logger := getLogger(&buffer)
	logger.Info("Hello")

	err := json.Unmarshal(buffer.Bytes(), &fields)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}

	assertResult(t, fields["level"], "info")
	assertResult(t, fields["msg"], "Hello")
}

func TestDebug(t *testing.T) {
	var buffer bytes.Buffer
	var fields Fields

	logger := getLogger(&buffer)
	if err := logger.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}

	logger.Debugf("Hello %v", "World")

	err := json.Unmarshal(buffer.Bytes(), &fields)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}

	assertResult(t, fields["level"], "debug")
	assertResult(t, fields["msg"], "Hello World")
}

func TestError(t *testing.T) {
	var buffer bytes.Buffer
	var fields Fields

	logger := getLogger(&buffer)
	if err := logger.SetLevel("error"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}

	logger.Error("Bad Error")

	err := json.Unmarshal(buffer.Bytes(), &fields)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}

	assertResult(t, fields["level"], "error")
	assertResult(t, fields["msg"], "Bad Error")
}

func TestWarn(t *testing.T) {
	var buffer bytes.Buffer
	var fields Fields

	logger := getLogger(&buffer)
	if err := logger.SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}

	logger.Warn("Bad Warning")

	err := json.Unmarshal(buffer.Bytes(), &fields)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}

	assertResult(t, fields["level"], "warning")
	assertResult(t, fields["msg"], "Bad Warning")
}

func TestWithField(t *testing.T) {
	var buffer bytes.Buffer
	var fields Fields

	logger := getLogger(&buffer)
	entry := logger.WithField("foo", "bar")
	entry.Info("Hello")

	err := json.Unmarshal(buffer.Bytes(), &fields)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}

	assertResult(t, fields["foo"], "bar")
}

func TestWithFields(t *testing.T) {
	var buffer bytes.Buffer
	var fields Fields

	logger := getLogger(&buffer)
	entry := logger.WithFields(Fields{
		"foo": "bar",
	})
	entry.Info("Hello")

	err := json.Unmarshal(buffer.Bytes(), &fields)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}

	assertResult(t, fields["foo"], "bar")
}

func TestWithContext(t *testing.T) {
	var buffer bytes.Buffer

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "bar")

	logger := getLogger(&buffer)
	logger = logger.WithContext(ctx)

	entry := logger.WithFields(Fields{
		"baz": "test",
	})
	entry.Info("Hello")

	assertResult(t, entry.Context, ctx)
}

func TestGlobalDefaultsToInfoLevel(t *testing.T) {
	var buffer bytes.Buffer
	var fields Fields

	logger := Global()
	logger.SetOutput(&buffer)
	logger.SetJSONFormatter()

	logger.Debug("Hidden Global")
	if buffer.Len() != 0 {
		t.Fatalf("Debug output %q emitted at the default level", buffer.String())
	}

	logger.Info("Hello Global")

	err := json.Unmarshal(buffer.Bytes(), &fields)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}

	assertResult(t, fields["level"], "info")
	assertResult(t, fields["msg"], "Hello Global")
}
