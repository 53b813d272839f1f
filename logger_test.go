package xmalloc

import "bytes"
import "strings"
import "testing"

func TestDefaultLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newDefaultLogger(logLevelWarn, &buf)

	l.Debugf("should not appear")
	l.Infof("should not appear either")
	l.Warnf("warn line %v", 1)
	l.Errorf("error line %v", 2)

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("level filtering let a below-threshold line through: %q", out)
	}
	if !strings.Contains(out, "warn line 1") || !strings.Contains(out, "error line 2") {
		t.Errorf("missing expected lines: %q", out)
	}
}

func TestSetLoggerRestoresPrevious(t *testing.T) {
	var buf bytes.Buffer
	custom := newDefaultLogger(logLevelDebug, &buf)

	prev := SetLogger(custom)
	if logger() != Logger(custom) {
		t.Errorf("SetLogger did not take effect")
	}
	SetLogger(prev)
	if logger() != prev {
		t.Errorf("restoring the previous logger did not take effect")
	}
}

func TestString2Level(t *testing.T) {
	cases := map[string]logLevel{
		"fatal":   logLevelFatal,
		"ERROR":   logLevelError,
		"warn":    logLevelWarn,
		"warning": logLevelWarn,
		"debug":   logLevelDebug,
		"bogus":   logLevelInfo,
	}
	for in, want := range cases {
		if got := string2level(in); got != want {
			t.Errorf("string2level(%q) = %v, want %v", in, got, want)
		}
	}
}
