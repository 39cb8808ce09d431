package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{input: "debug", want: zapcore.DebugLevel},
		{input: "info", want: zapcore.InfoLevel},
		{input: "warn", want: zapcore.WarnLevel},
		{input: "error", want: zapcore.ErrorLevel},
		{input: "", want: zapcore.InfoLevel},
		{input: "verbose", want: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestReplace_RoutesStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Replace(zap.New(core))
	defer Replace(zap.NewNop())

	Debug("dropped below level")
	Info("Friend request sent", "requester", "alice", "requested", "bob")
	Error("Storage failure", "op", "accept")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("logged %d entries, want 2", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["requester"] != "alice" || fields["requested"] != "bob" {
		t.Errorf("fields = %v, want requester=alice requested=bob", fields)
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Errorf("second entry level = %v, want error", entries[1].Level)
	}
}
