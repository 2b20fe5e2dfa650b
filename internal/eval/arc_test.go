package eval

import (
	"errors"
	"testing"

	"github.com/ferrolang/ferro/internal/value"
)

func TestArcClonesAlias(t *testing.T) {
	v := evalSrc(t, `
		let counter = Arc::new(0);
		let other = Arc::clone(counter);
		*counter.lock() += 10;
		*other.lock()
	`)
	wantInt(t, v, 10)
}

func TestArcWriteThroughCloneVisibleToOriginal(t *testing.T) {
	v := evalSrc(t, `
		let counter = Arc::new(0);
		let other = Arc::clone(counter);
		*other.lock() += 3;
		*counter.lock()
	`)
	wantInt(t, v, 3)
}

func TestArcMutexPreservesWrapperShape(t *testing.T) {
	v := evalSrc(t, `
		let shared = Arc::new(Mutex::new(1));
		let copy = Arc::clone(shared);
		*shared.lock() += 1;
		*copy.lock() += 1;
		*shared.lock()
	`)
	wantInt(t, v, 3)
}

func TestSeparateMutexesDoNotAlias(t *testing.T) {
	v := evalSrc(t, `
		let first = Mutex::new(5);
		let second = Mutex::new(5);
		*first.lock() += 1;
		*second.lock()
	`)
	wantInt(t, v, 5)
}

func TestLocalMutexWriteBack(t *testing.T) {
	v := evalSrc(t, `
		let m = Mutex::new(0);
		*m.lock() += 7;
		*m.lock()
	`)
	wantInt(t, v, 7)
}

func TestMutexInStructFieldWriteBack(t *testing.T) {
	v := evalSrc(t, `
		struct Cell { m }
		let s = Cell { m: Mutex::new(0) };
		*s.m.lock() += 1;
		*s.m.lock() += 2;
		*s.m.lock()
	`)
	wantInt(t, v, 3)
}

func TestMutexInStructFieldLeavesSiblingsIntact(t *testing.T) {
	v := evalSrc(t, `
		struct Cell { m, tag }
		let s = Cell { m: Mutex::new(0), tag: 9 };
		*s.m.lock() += 1;
		s.tag
	`)
	wantInt(t, v, 9)
}

func TestMutexInVectorElementWriteBack(t *testing.T) {
	v := evalSrc(t, `
		let locks = vec![Mutex::new(5)];
		*locks[0].lock() += 1;
		*locks[0].lock()
	`)
	wantInt(t, v, 6)
}

func TestDerefUnwrapsNestedWrappers(t *testing.T) {
	v := evalSrc(t, `
		let m = Mutex::new(42);
		*m.lock()
	`)
	wantInt(t, v, 42)
}

func TestArcCloneOfNonArcFails(t *testing.T) {
	_, err := New().EvalSource("Arc::clone(5)")
	var tm *value.TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
}

func TestThreadSpawnRunsBody(t *testing.T) {
	v := evalSrc(t, `
		let counter = Arc::new(0);
		let shared = Arc::clone(counter);
		let handle = thread::spawn(move || {
			*shared.lock() += 1;
		});
		handle.join();
		*counter.lock()
	`)
	wantInt(t, v, 1)
}

func TestThreadJoinReturnsResult(t *testing.T) {
	v := evalSrc(t, `
		let handle = thread::spawn(|| { 6 * 7 });
		handle.join()
	`)
	wantInt(t, v, 42)
}

func TestThreadSpawnRequiresClosure(t *testing.T) {
	_, err := New().EvalSource("thread::spawn(5)")
	var uo *UnsupportedOperationError
	if !errors.As(err, &uo) {
		t.Fatalf("expected UnsupportedOperationError, got %v", err)
	}
}

func TestChannelSendRecvInOrder(t *testing.T) {
	v := evalSrc(t, `
		let (tx, rx) = mpsc::channel();
		tx.send(1);
		tx.send(2);
		rx.recv() * 10 + rx.recv()
	`)
	wantInt(t, v, 12)
}

func TestChannelRecvEmptyReturnsNil(t *testing.T) {
	v := evalSrc(t, `
		let (tx, rx) = mpsc::channel();
		rx.recv()
	`)
	if _, ok := v.(value.Nil); !ok {
		t.Fatalf("got %s", v)
	}
}

func TestChannelEndpointsShareBuffer(t *testing.T) {
	v := evalSrc(t, `
		let (tx, rx) = mpsc::channel();
		let handle = thread::spawn(move || {
			tx.send(99);
		});
		handle.join();
		rx.recv()
	`)
	wantInt(t, v, 99)
}

func TestArcStoreIDsAreStable(t *testing.T) {
	e := New()
	v, err := e.EvalSource(`
		let a = Arc::new(1);
		let b = Arc::new(2);
		*a.lock() + *b.lock()
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantInt(t, v, 3)
}
