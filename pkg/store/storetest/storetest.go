// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.rho.sh/pkg/store/storedefs"
)

// TestCmd tests the command history functionality of a Store.
func TestCmd(t *testing.T, s storedefs.Store) {
	t.Helper()

	startSeq, err := s.NextCmdSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("NextCmdSeq -> (%v, %v), want (1, nil)", startSeq, err)
	}

	cmds := []string{"+/⍳10", "x←3 ◊ x×2", "+/⍳100"}
	for i, cmd := range cmds {
		wantSeq := startSeq + i
		seq, err := s.AddCmd(cmd)
		if seq != wantSeq || err != nil {
			t.Errorf("AddCmd(%q) -> (%v, %v), want (%v, nil)", cmd, seq, err, wantSeq)
		}
	}
	if seq, err := s.AddCmd("  "); seq != -1 || err != nil {
		t.Errorf("AddCmd of a blank line -> (%v, %v), want (-1, nil)", seq, err)
	}

	endSeq, err := s.NextCmdSeq()
	wantEndSeq := startSeq + len(cmds)
	if endSeq != wantEndSeq || err != nil {
		t.Errorf("NextCmdSeq -> (%v, %v), want (%v, nil)", endSeq, err, wantEndSeq)
	}

	for i, wantCmd := range cmds {
		seq := startSeq + i
		cmd, err := s.Cmd(seq)
		if cmd != wantCmd || err != nil {
			t.Errorf("Cmd(%v) -> (%q, %v), want (%q, nil)", seq, cmd, err, wantCmd)
		}
	}
	if _, err := s.Cmd(endSeq); err != storedefs.ErrNoMatchingCmd {
		t.Errorf("Cmd(%v) -> error %v, want ErrNoMatchingCmd", endSeq, err)
	}

	got, err := s.CmdsWithSeq(startSeq, endSeq)
	want := []storedefs.Cmd{
		{Text: cmds[0], Seq: 1}, {Text: cmds[1], Seq: 2}, {Text: cmds[2], Seq: 3}}
	if err != nil {
		t.Errorf("CmdsWithSeq: %v", err)
	} else if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CmdsWithSeq (-want +got):\n%s", diff)
	}

	prevTests := []struct {
		upto   int
		prefix string
		want   storedefs.Cmd
		err    error
	}{
		{endSeq, "+/", storedefs.Cmd{Text: cmds[2], Seq: 3}, nil},
		{3, "+/", storedefs.Cmd{Text: cmds[0], Seq: 1}, nil},
		{endSeq, "x", storedefs.Cmd{Text: cmds[1], Seq: 2}, nil},
		{1, "", storedefs.Cmd{}, storedefs.ErrNoMatchingCmd},
		{endSeq, "nope", storedefs.Cmd{}, storedefs.ErrNoMatchingCmd},
	}
	for _, tt := range prevTests {
		cmd, err := s.PrevCmd(tt.upto, tt.prefix)
		if cmd != tt.want || err != tt.err {
			t.Errorf("PrevCmd(%v, %q) -> (%v, %v), want (%v, %v)",
				tt.upto, tt.prefix, cmd, err, tt.want, tt.err)
		}
	}
}

// TestValues tests the key-value functionality of a Store.
func TestValues(t *testing.T, s storedefs.Store) {
	t.Helper()

	if _, err := s.Value("a"); err != storedefs.ErrNoValue {
		t.Errorf("Value of a missing key -> error %v, want ErrNoValue", err)
	}
	for _, kv := range [][2]string{{"b", "2"}, {"a", "1"}, {"b", "3"}} {
		if err := s.SetValue(kv[0], []byte(kv[1])); err != nil {
			t.Errorf("SetValue(%q) -> %v", kv[0], err)
		}
	}
	if v, err := s.Value("b"); string(v) != "3" || err != nil {
		t.Errorf("Value(b) -> (%q, %v), want (\"3\", nil)", v, err)
	}
	keys, err := s.Keys()
	if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" || err != nil {
		t.Errorf("Keys -> error %v, diff (-want +got):\n%s", err, diff)
	}
	if err := s.DelValue("a"); err != nil {
		t.Errorf("DelValue(a) -> %v", err)
	}
	if err := s.DelValue("a"); err != nil {
		t.Errorf("DelValue of a missing key -> %v", err)
	}
	if _, err := s.Value("a"); err != storedefs.ErrNoValue {
		t.Errorf("Value of a deleted key -> error %v, want ErrNoValue", err)
	}
}
