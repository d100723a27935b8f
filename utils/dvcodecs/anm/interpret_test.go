package anm

import (
	"encoding/binary"
	"testing"
)

func desc(control, param uint16) []byte {
	b := make([]byte, DescriptorSize)
	binary.LittleEndian.PutUint16(b[0:], control)
	binary.LittleEndian.PutUint16(b[2:], param)
	return b
}

func table(descriptors ...[]byte) []byte {
	var data []byte
	for _, d := range descriptors {
		data = append(data, d...)
	}
	return data
}

func TestInterpretEndOnly(t *testing.T) {
	data := table(desc(MarkerEnd, 0))

	seq := Interpret(data, 0, DefaultConfig)
	if seq.Termination != Ended {
		t.Errorf("termination: got %v, want %v", seq.Termination, Ended)
	}
	if len(seq.Steps) != 0 {
		t.Errorf("got %d steps, want 0", len(seq.Steps))
	}
}

func TestInterpretFrameThenEnd(t *testing.T) {
	data := table(
		desc(5, 10),
		desc(MarkerEnd, 0),
	)

	seq := Interpret(data, 0, DefaultConfig)
	if seq.Termination != Ended {
		t.Fatalf("termination: got %v, want %v", seq.Termination, Ended)
	}
	if len(seq.Steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(seq.Steps))
	}
	if step, ok := seq.Steps[0].(FrameStep); !ok || step.ImageID != 5 || step.Duration != 10 {
		t.Errorf("step 0: got %#v, want FrameStep{5, 10}", seq.Steps[0])
	}
}

func TestInterpretSoundAndEventSteps(t *testing.T) {
	data := table(
		desc(MarkerSound, 42),
		desc(MarkerEvent, 7),
		desc(3, 1),
		desc(MarkerEnd, 0xBEEF), // end param is ignored
	)

	seq := Interpret(data, 0, DefaultConfig)
	if seq.Termination != Ended {
		t.Fatalf("termination: got %v, want %v", seq.Termination, Ended)
	}

	want := []Step{
		SoundStep{SoundID: 42},
		EventStep{Code: 7},
		FrameStep{ImageID: 3, Duration: 1},
	}
	if len(seq.Steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(seq.Steps), len(want))
	}
	for i := range want {
		if seq.Steps[i] != want[i] {
			t.Errorf("step %d: got %#v, want %#v", i, seq.Steps[i], want[i])
		}
	}
}

func TestInterpretJumpTargetsDescriptorIndex(t *testing.T) {
	data := table(
		desc(MarkerJump, 2), // index, not byte offset
		desc(1, 1),
		desc(7, 3),
		desc(MarkerEnd, 0),
	)

	seq := Interpret(data, 0, DefaultConfig)
	if seq.Termination != Ended {
		t.Fatalf("termination: got %v, want %v", seq.Termination, Ended)
	}
	if len(seq.Steps) != 1 || seq.Steps[0] != (FrameStep{ImageID: 7, Duration: 3}) {
		t.Errorf("steps: got %#v, want one FrameStep{7, 3}", seq.Steps)
	}
}

func TestInterpretTwoCycleHitsVisitLimit(t *testing.T) {
	data := table(
		desc(MarkerJump, 1),
		desc(MarkerJump, 0),
	)

	for _, tc := range []struct {
		name string
		cfg  Config
	}{
		{"default", DefaultConfig},
		{"lenient", LenientConfig},
		{"strict", StrictConfig},
	} {
		t.Run(tc.name, func(t *testing.T) {
			seq := Interpret(data, 0, tc.cfg)
			if seq.Termination != VisitLimit {
				t.Errorf("termination: got %v, want %v", seq.Termination, VisitLimit)
			}
			if len(seq.Steps) != 0 {
				t.Errorf("got %d steps, want 0 (jumps emit nothing)", len(seq.Steps))
			}
		})
	}
}

func TestInterpretIterationLimit(t *testing.T) {
	data := table(
		desc(MarkerJump, 1),
		desc(MarkerJump, 0),
	)

	// Visit cap loose enough that only the iteration cap can fire.
	seq := Interpret(data, 0, Config{MaxIterations: 5, MaxVisitsPerIndex: 1000})
	if seq.Termination != IterationLimit {
		t.Errorf("termination: got %v, want %v", seq.Termination, IterationLimit)
	}
}

func TestInterpretMalformedData(t *testing.T) {
	t.Run("start beyond region", func(t *testing.T) {
		data := table(desc(MarkerEnd, 0))
		seq := Interpret(data, 64, DefaultConfig)
		if seq.Termination != MalformedData {
			t.Errorf("termination: got %v, want %v", seq.Termination, MalformedData)
		}
	})

	t.Run("jump beyond region", func(t *testing.T) {
		data := table(
			desc(9, 2),
			desc(MarkerJump, 500),
		)
		seq := Interpret(data, 0, DefaultConfig)
		if seq.Termination != MalformedData {
			t.Errorf("termination: got %v, want %v", seq.Termination, MalformedData)
		}
		// The frame before the bad jump is still reported.
		if len(seq.Steps) != 1 {
			t.Errorf("got %d steps, want 1", len(seq.Steps))
		}
	})

	t.Run("empty region", func(t *testing.T) {
		seq := Interpret(nil, 0, DefaultConfig)
		if seq.Termination != MalformedData {
			t.Errorf("termination: got %v, want %v", seq.Termination, MalformedData)
		}
	})
}

func TestInterpretRunLengthBounded(t *testing.T) {
	// A sound instruction that jumps back onto itself through the
	// whole table; total work must never exceed MaxIterations no
	// matter the visit cap.
	data := table(
		desc(MarkerSound, 1),
		desc(MarkerJump, 0),
	)

	cfg := Config{MaxIterations: 100, MaxVisitsPerIndex: 1 << 30}
	seq := Interpret(data, 0, cfg)
	if seq.Termination != IterationLimit {
		t.Fatalf("termination: got %v, want %v", seq.Termination, IterationLimit)
	}
	if len(seq.Steps) > cfg.MaxIterations {
		t.Errorf("emitted %d steps from %d iterations", len(seq.Steps), cfg.MaxIterations)
	}
}
