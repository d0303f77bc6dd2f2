package sysexec

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Command
	}{
		{"sudo shutdown -h now", Command{Name: "sudo", Args: []string{"shutdown", "-h", "now"}}},
		{"iwgetid -r", Command{Name: "iwgetid", Args: []string{"-r"}}},
		{`echo "two words"`, Command{Name: "echo", Args: []string{"two words"}}},
		{"reboot", Command{Name: "reboot", Args: []string{}}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got.Name != tt.want.Name || len(got.Args) != len(tt.want.Args) || (len(got.Args) > 0 && !reflect.DeepEqual(got.Args, tt.want.Args)) {
			t.Errorf("Parse(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
	if _, err := Parse("   "); err == nil {
		t.Error("empty command parsed")
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{Output: []byte("ok")}
	out, err := MustParse("sudo systemctl restart dhcpcd").Run(context.Background(), r)
	if err != nil || string(out) != "ok" {
		t.Fatalf("Run = %q, %v", out, err)
	}
	if !reflect.DeepEqual(r.Calls, []string{"sudo systemctl restart dhcpcd"}) {
		t.Fatalf("Calls = %q", r.Calls)
	}
}

func TestExecReportsFailure(t *testing.T) {
	_, err := Exec{}.Run(context.Background(), "pocketdeck-no-such-command")
	if err == nil || !strings.HasPrefix(err.Error(), "pocketdeck-no-such-command: ") {
		t.Fatalf("err = %v", err)
	}
}
