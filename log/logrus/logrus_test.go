package logrus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/unkn0wn-root/memocache"
)

func TestLevelsAndFields(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	lg := New(l)

	lg.Debug("d", memocache.Fields{"key": "k1"})
	lg.Info("i", nil)
	lg.Warn("w", memocache.Fields{"n": 2})
	lg.Error("e", nil)

	entries := hook.AllEntries()
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	want := []logrus.Level{logrus.DebugLevel, logrus.InfoLevel, logrus.WarnLevel, logrus.ErrorLevel}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Fatalf("entry %d level %v, want %v", i, e.Level, want[i])
		}
	}
	if entries[0].Data["key"] != "k1" || entries[2].Data["n"] != 2 {
		t.Fatalf("fields not forwarded: %v / %v", entries[0].Data, entries[2].Data)
	}
}
