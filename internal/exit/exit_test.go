package exit

import (
	"bytes"
	"testing"
)

func TestResult_Print(t *testing.T) {
	var buf bytes.Buffer

	r := Errorf("Error: %s\n", "boom")
	r.Output = &buf
	r.Print()

	if buf.String() != "Error: boom\n" {
		t.Errorf("Print() wrote %q", buf.String())
	}
	if r.ExitCode != CodeFailure {
		t.Errorf("ExitCode = %d, want %d", r.ExitCode, CodeFailure)
	}

	buf.Reset()
	s := Success("")
	s.Output = &buf
	s.Print()

	if buf.Len() != 0 || s.ExitCode != CodeSuccess {
		t.Errorf("Success(\"\") printed %q with code %d", buf.String(), s.ExitCode)
	}
}

func TestFromFailures(t *testing.T) {
	tests := []struct {
		failed int
		want   int
	}{
		{0, CodeSuccess},
		{1, CodeFailure},
		{10, CodeFailure},
	}

	for _, tt := range tests {
		if got := FromFailures(tt.failed); got != tt.want {
			t.Errorf("FromFailures(%d) = %d, want %d", tt.failed, got, tt.want)
		}
	}
}
