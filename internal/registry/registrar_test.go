package registry

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// recordingLogger captures Warn calls for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Error(string, ...any) {}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}

func (l *recordingLogger) warnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warns)
}

// awaitDone fails the test if the registrar does not terminate promptly.
func awaitDone(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("registrar did not terminate")
	}
}

func TestRegistrarRegisterReadonly(t *testing.T) {
	h := Start(nil)
	defer func() {
		h.Close()
		awaitDone(t, h)
	}()

	reply := make(chan ReadonlyReply, 1)
	h.Requests() <- AddReadonlyDevice{Name: "furnace.temp", Reply: reply}

	rep := <-reply
	if rep.Err != nil {
		t.Fatalf("registration error = %v", rep.Err)
	}
	if rep.Values == nil {
		t.Fatal("reply carries no value endpoint")
	}
}

func TestRegistrarRegisterReadWrite(t *testing.T) {
	h := Start(nil)
	defer func() {
		h.Close()
		awaitDone(t, h)
	}()

	reply := make(chan ReadWriteReply, 1)
	h.Requests() <- AddReadWriteDevice{Name: "furnace.setpoint", Reply: reply}

	rep := <-reply
	if rep.Err != nil {
		t.Fatalf("registration error = %v", rep.Err)
	}
	if rep.Values == nil || rep.Settings == nil {
		t.Fatal("read-write reply must carry both endpoints together")
	}
}

func TestRegistrarDuplicateName(t *testing.T) {
	h := Start(nil)
	defer func() {
		h.Close()
		awaitDone(t, h)
	}()

	first := make(chan ReadonlyReply, 1)
	h.Requests() <- AddReadonlyDevice{Name: "furnace.temp", Reply: first}
	if rep := <-first; rep.Err != nil {
		t.Fatalf("first registration error = %v", rep.Err)
	}

	// Same name again, as read-write this time: must fail with the
	// device-defined error, naming the device.
	second := make(chan ReadWriteReply, 1)
	h.Requests() <- AddReadWriteDevice{Name: "furnace.temp", Reply: second}

	rep := <-second
	if rep.Err == nil {
		t.Fatal("duplicate registration should fail")
	}
	if !errors.Is(rep.Err, ErrDeviceDefined) {
		t.Errorf("error = %v, want ErrDeviceDefined", rep.Err)
	}
	if !strings.Contains(rep.Err.Error(), "furnace.temp") {
		t.Errorf("error %q should name the device", rep.Err)
	}
}

func TestRegistrarOrderPreservation(t *testing.T) {
	h := Start(nil)
	defer func() {
		h.Close()
		awaitDone(t, h)
	}()

	// Two requests for distinct names arrive sequentially; both succeed.
	firstReply := make(chan ReadonlyReply, 1)
	secondReply := make(chan ReadWriteReply, 1)
	h.Requests() <- AddReadonlyDevice{Name: "furnace.temp", Reply: firstReply}
	h.Requests() <- AddReadWriteDevice{Name: "furnace.setpoint", Reply: secondReply}

	if rep := <-firstReply; rep.Err != nil {
		t.Errorf("first registration error = %v", rep.Err)
	}
	if rep := <-secondReply; rep.Err != nil {
		t.Errorf("second registration error = %v", rep.Err)
	}
}

func TestRegistrarUnreachableCaller(t *testing.T) {
	logger := &recordingLogger{}
	h := Start(logger)

	// An unbuffered reply channel with no reader simulates a driver that
	// vanished before its reply arrived. The actor must log and carry on.
	gone := make(chan ReadonlyReply)
	h.Requests() <- AddReadonlyDevice{Name: "orphan.device", Reply: gone}

	// A later request is still served.
	reply := make(chan ReadonlyReply, 1)
	h.Requests() <- AddReadonlyDevice{Name: "furnace.temp", Reply: reply}
	if rep := <-reply; rep.Err != nil {
		t.Fatalf("registration after dropped reply failed: %v", rep.Err)
	}

	if logger.warnCount() == 0 {
		t.Error("undeliverable reply was not logged")
	}

	h.Close()
	awaitDone(t, h)
}

func TestRegistrarGracefulShutdown(t *testing.T) {
	h := Start(nil)

	// Queue several requests, then close: every request submitted before
	// the close must still be answered.
	replies := make([]chan ReadonlyReply, 5)
	for i := range replies {
		replies[i] = make(chan ReadonlyReply, 1)
		h.Requests() <- AddReadonlyDevice{
			Name:  "device." + string(rune('a'+i)),
			Reply: replies[i],
		}
	}
	h.Close()

	awaitDone(t, h)

	for i, reply := range replies {
		select {
		case rep := <-reply:
			if rep.Err != nil {
				t.Errorf("request %d: error = %v", i, rep.Err)
			}
		default:
			t.Errorf("request %d was lost during shutdown", i)
		}
	}
}
