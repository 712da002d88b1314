// ABOUTME: Tests for the real-time render loop
// ABOUTME: Round-trip, exhaustion, splice exactness and concurrent load behavior
package engine

import (
	"sync"
	"testing"

	"github.com/foreverjukebox/fjplay/pkg/audio"
	"go.uber.org/goleak"
)

// renderAll renders total frames in calls of the given frame sizes, cycling
func renderAll(eng *Engine, total int, chunks []int) []int16 {
	ch := eng.Channels()
	out := make([]int16, 0, total*ch)
	for i := 0; len(out) < total*ch; i++ {
		n := chunks[i%len(chunks)]
		if left := total - len(out)/ch; n > left {
			n = left
		}
		buf := make([]int16, n*ch)
		eng.Render(buf)
		out = append(out, buf...)
	}
	return out
}

func TestRenderRoundTrip(t *testing.T) {
	chunkings := map[string][]int{
		"single call":   {1000},
		"one frame":     {1},
		"uneven":        {7, 129, 64, 3},
		"device period": {192},
	}

	for name, chunks := range chunkings {
		t.Run(name, func(t *testing.T) {
			eng := New(stereo44k)
			src := markers(1000, 2)
			eng.Load(src, 1000)

			out := renderAll(eng, 1000, chunks)
			for i := range src {
				if out[i] != src[i] {
					t.Fatalf("sample %d: expected %d, got %d", i, src[i], out[i])
				}
			}
			if eng.Cursor() != 1000 {
				t.Errorf("expected cursor 1000, got %d", eng.Cursor())
			}
		})
	}
}

func TestRenderExhaustionIsSilence(t *testing.T) {
	eng := New(stereo44k)
	eng.Load(markers(100, 2), 100)

	out := make([]int16, 2*250)
	for i := range out {
		out[i] = -1
	}
	eng.Render(out)

	for f := 0; f < 250; f++ {
		for c := 0; c < 2; c++ {
			v := out[f*2+c]
			if f < 100 && v != int16(f+1) {
				t.Fatalf("frame %d: expected %d, got %d", f, f+1, v)
			}
			if f >= 100 && v != 0 {
				t.Fatalf("frame %d: expected silence, got %d", f, v)
			}
		}
	}

	if eng.Cursor() != 250 {
		t.Errorf("expected cursor to keep advancing past the end, got %d", eng.Cursor())
	}
	if eng.Stats().SilentFrames != 150 {
		t.Errorf("expected 150 silent frames, got %d", eng.Stats().SilentFrames)
	}
}

func TestRenderWithoutBuffer(t *testing.T) {
	eng := New(stereo44k)
	out := []int16{5, 5, 5, 5, 5}
	eng.Render(out)

	for i, v := range out {
		if v != 0 {
			t.Errorf("sample %d: expected silence, got %d", i, v)
		}
	}
	if eng.Cursor() != 2 {
		t.Errorf("expected cursor 2, got %d", eng.Cursor())
	}
}

// twoHalves builds 2s at 44.1kHz: first second value A, second value B
func twoHalves(a, b int16) []int16 {
	samples := make([]int16, 88200*2)
	for f := 0; f < 88200; f++ {
		v := a
		if f >= 44100 {
			v = b
		}
		samples[f*2] = v
		samples[f*2+1] = v
	}
	return samples
}

func TestRenderJumpSpliceExact(t *testing.T) {
	const a, b = 1000, 2000

	chunkings := map[string][]int{
		"single call":      {88200},
		"device period":    {256},
		"prime chunks":     {997},
		"one frame":        {1},
		"boundary aligned": {22050},
		"mixed":            {22049, 2, 500},
	}

	for name, chunks := range chunkings {
		t.Run(name, func(t *testing.T) {
			eng := New(stereo44k)
			eng.Load(twoHalves(a, b), 88200)
			eng.ScheduleJump(1.5, 0.5)

			out := renderAll(eng, 88200, chunks)

			for f := 0; f < 88200; f++ {
				var expected int16
				switch {
				case f < 22050:
					expected = a
				case f < 22050+22050:
					// source frames 66150..88199
					expected = b
				default:
					expected = 0
				}
				if out[f*2] != expected || out[f*2+1] != expected {
					t.Fatalf("frame %d: expected %d, got %d/%d", f, expected, out[f*2], out[f*2+1])
				}
			}

			if _, armed := eng.PendingJump(); armed {
				t.Error("expected jump to be disarmed after firing")
			}
			if eng.Stats().JumpsFired != 1 {
				t.Errorf("expected 1 jump fired, got %d", eng.Stats().JumpsFired)
			}
		})
	}
}

func TestRenderJumpLandsOnExactSourceFrame(t *testing.T) {
	eng := New(audio.Format{SampleRate: 1000, Channels: 1})
	src := markers(500, 1)
	eng.Load(src, 500)
	eng.ScheduleJumpFrames(10, 300)

	out := make([]int16, 20)
	eng.Render(out)

	for i := 0; i < 10; i++ {
		if out[i] != src[i] {
			t.Errorf("frame %d: expected %d, got %d", i, src[i], out[i])
		}
	}
	for i := 10; i < 20; i++ {
		if out[i] != src[300+i-10] {
			t.Errorf("frame %d: expected %d, got %d", i, src[300+i-10], out[i])
		}
	}
	if eng.Cursor() != 310 {
		t.Errorf("expected cursor 310, got %d", eng.Cursor())
	}
}

func TestRenderJumpAtEndOfRequest(t *testing.T) {
	eng := New(audio.Format{SampleRate: 1000, Channels: 1})
	eng.Load(markers(500, 1), 500)
	eng.ScheduleJumpFrames(100, 400)

	eng.Render(make([]int16, 100))

	if eng.Cursor() != 400 {
		t.Errorf("expected jump applied at end of request, cursor 400, got %d", eng.Cursor())
	}
	if _, armed := eng.PendingJump(); armed {
		t.Error("expected jump disarmed")
	}
}

func TestRenderJumpInPastFiresOnce(t *testing.T) {
	eng := New(audio.Format{SampleRate: 1000, Channels: 1})
	src := markers(500, 1)
	eng.Load(src, 500)
	eng.SeekFrame(200)

	// Seek disarms, so schedule afterwards with a trigger behind the cursor
	eng.ScheduleJumpFrames(50, 10)

	out := make([]int16, 5)
	eng.Render(out)

	for i := range out {
		if out[i] != src[10+i] {
			t.Errorf("frame %d: expected %d, got %d", i, src[10+i], out[i])
		}
	}
	if eng.Stats().JumpsFired != 1 {
		t.Errorf("expected jump to fire once, got %d", eng.Stats().JumpsFired)
	}

	// Cursor passes frame 50 again without refiring
	eng.Render(make([]int16, 100))
	if eng.Stats().JumpsFired != 1 {
		t.Errorf("expected jump not to refire, got %d", eng.Stats().JumpsFired)
	}
	if eng.Cursor() != 115 {
		t.Errorf("expected cursor 115, got %d", eng.Cursor())
	}
}

func TestRenderJumpAtCursorFiresImmediately(t *testing.T) {
	eng := New(audio.Format{SampleRate: 1000, Channels: 1})
	src := markers(500, 1)
	eng.Load(src, 500)
	eng.ScheduleJumpFrames(0, 250)

	out := make([]int16, 3)
	eng.Render(out)

	if out[0] != src[250] {
		t.Errorf("expected first frame from 250 (%d), got %d", src[250], out[0])
	}
}

func TestRenderLoopRearm(t *testing.T) {
	// A loop is a jump rearmed by the control path after each firing
	eng := New(audio.Format{SampleRate: 1000, Channels: 1})
	src := markers(100, 1)
	eng.Load(src, 100)

	var out []int16
	for i := 0; i < 10; i++ {
		if _, armed := eng.PendingJump(); !armed {
			eng.ScheduleJumpFrames(30, 20)
		}
		buf := make([]int16, 7)
		eng.Render(buf)
		out = append(out, buf...)
	}

	// Frames 0..29 then 20..29 repeating
	for i, v := range out {
		var expected int16
		if i < 30 {
			expected = src[i]
		} else {
			expected = src[20+(i-30)%10]
		}
		if v != expected {
			t.Fatalf("frame %d: expected %d, got %d", i, expected, v)
		}
	}
}

func TestRenderPartialFrameZeroed(t *testing.T) {
	eng := New(stereo44k)
	eng.Load(markers(10, 2), 10)

	out := []int16{9, 9, 9, 9, 9}
	eng.Render(out)

	if out[4] != 0 {
		t.Errorf("expected trailing partial frame zeroed, got %d", out[4])
	}
	if eng.Cursor() != 2 {
		t.Errorf("expected cursor 2, got %d", eng.Cursor())
	}
}

func TestRenderDoesNotAllocate(t *testing.T) {
	eng := New(stereo44k)
	eng.Load(twoHalves(1, 2), 88200)
	out := make([]int16, 512)

	allocs := testing.AllocsPerRun(100, func() {
		eng.ScheduleJumpFrames(eng.Cursor()+100, 0)
		eng.Render(out)
	})
	// ScheduleJumpFrames allocates the Jump on the control path; Render itself must not
	if allocs > 1 {
		t.Errorf("expected at most 1 allocation per run, got %.1f", allocs)
	}
}

func TestConcurrentLoadNeverMixesBuffers(t *testing.T) {
	defer goleak.VerifyNone(t)

	eng := New(stereo44k)
	const frames = 4096
	bufA := make([]int16, frames*2)
	bufB := make([]int16, frames*2)
	for i := range bufA {
		bufA[i] = 1
		bufB[i] = 2
	}
	eng.Load(bufA, frames)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				eng.Load(bufB, frames)
			} else {
				eng.Load(bufA, frames)
			}
		}
	}()

	out := make([]int16, 256*2)
	for i := 0; i < 2000; i++ {
		eng.Render(out)
		first := out[0]
		for j, v := range out {
			// Silence can only trail the data of a single buffer
			if v != first && v != 0 {
				close(stop)
				wg.Wait()
				t.Fatalf("render %d mixed buffers at sample %d: %d vs %d", i, j, first, v)
			}
		}
	}

	close(stop)
	wg.Wait()
}

func TestConcurrentSeekDuringRender(t *testing.T) {
	defer goleak.VerifyNone(t)

	eng := New(stereo44k)
	eng.Load(twoHalves(1, 2), 88200)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			eng.Seek(float64(i%2) * 0.5)
			eng.ScheduleJump(1.0, 1.5)
		}
	}()

	out := make([]int16, 128*2)
	for i := 0; i < 1000; i++ {
		eng.Render(out)
		if c := eng.Cursor(); c < 0 {
			t.Fatalf("cursor went negative: %d", c)
		}
	}
	wg.Wait()
}
