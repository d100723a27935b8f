package anm

import "encoding/binary"

// Config bounds one interpreter run. MaxIterations caps total work,
// MaxVisitsPerIndex caps revisits of a single descriptor; both are
// needed because a tight cycle can sit far under a loose iteration cap
// while never producing further output.
type Config struct {
	MaxIterations     int
	MaxVisitsPerIndex int
}

// Canonical presets.
var (
	DefaultConfig = Config{MaxIterations: 5000, MaxVisitsPerIndex: 128}
	LenientConfig = Config{MaxIterations: 10000, MaxVisitsPerIndex: 512}
	StrictConfig  = Config{MaxIterations: 1000, MaxVisitsPerIndex: 32}
)

// Termination says why an interpreter run stopped. Only Ended means
// the sequence ran to its end marker; the limit reasons report a
// policy-bounded truncation and MalformedData a descriptor index
// outside the data region. None of them invalidates the steps already
// produced.
type Termination int

const (
	Ended Termination = iota
	IterationLimit
	VisitLimit
	MalformedData
)

func (t Termination) String() string {
	switch t {
	case Ended:
		return "ended"
	case IterationLimit:
		return "iteration-limit"
	case VisitLimit:
		return "visit-limit"
	case MalformedData:
		return "malformed-data"
	}
	return "unknown"
}

// Step is one unit of interpreter output, in execution order.
type Step interface {
	isStep()
}

// FrameStep displays image ImageID for Duration ticks.
type FrameStep struct {
	ImageID  uint16
	Duration uint16
}

// SoundStep triggers sound effect SoundID.
type SoundStep struct {
	SoundID uint16
}

// EventStep raises engine event Code.
type EventStep struct {
	Code uint16
}

func (FrameStep) isStep() {}
func (SoundStep) isStep() {}
func (EventStep) isStep() {}

// Sequence is the result of one run: the ordered steps plus the reason
// the walk stopped.
type Sequence struct {
	Steps       []Step
	Termination Termination
}

// Interpret walks the descriptor table at data starting from the
// descriptor containing startOffset. It never fails: out-of-range
// descriptor indices and runaway loops are reported through the
// termination reason alongside whatever steps were produced first.
func Interpret(data []byte, startOffset int, cfg Config) Sequence {
	var seq Sequence

	frameIndex := startOffset / DescriptorSize
	iterations := 0

	// Sparse on purpose: a jump can target any 16-bit index, and a
	// dense array sized for that would dwarf typical animations.
	visits := make(map[int]int)

	for {
		if iterations >= cfg.MaxIterations {
			seq.Termination = IterationLimit
			return seq
		}
		iterations++

		visits[frameIndex]++
		if visits[frameIndex] > cfg.MaxVisitsPerIndex {
			seq.Termination = VisitLimit
			return seq
		}

		byteOffset := frameIndex * DescriptorSize
		if frameIndex < 0 || byteOffset+DescriptorSize > len(data) {
			seq.Termination = MalformedData
			return seq
		}

		control := binary.LittleEndian.Uint16(data[byteOffset:])
		param := binary.LittleEndian.Uint16(data[byteOffset+2:])

		switch control {
		case MarkerEnd:
			seq.Termination = Ended
			return seq
		case MarkerJump:
			frameIndex = int(param)
		case MarkerSound:
			seq.Steps = append(seq.Steps, SoundStep{SoundID: param})
			frameIndex++
		case MarkerEvent:
			seq.Steps = append(seq.Steps, EventStep{Code: param})
			frameIndex++
		default:
			seq.Steps = append(seq.Steps, FrameStep{ImageID: control, Duration: param})
			frameIndex++
		}
	}
}
