// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Low-latency S16 playback via miniaudio, exclusive mode with shared fallback
package output

import (
	"fmt"
	"log"
	"sync"

	"github.com/foreverjukebox/fjplay/pkg/audio"
	"github.com/gen2brain/malgo"
)

// scratchMs sizes the callback scratch buffer allocated at open time
const scratchMs = 100

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	malgoCtx  *malgo.AllocatedContext
	device    *malgo.Device
	format    audio.Format
	render    RenderFunc
	shareMode string

	// Only touched by the device callback after Open
	scratch []int16

	mu sync.Mutex
}

// NewMalgo creates a new Malgo output
func NewMalgo() Output {
	return &Malgo{}
}

// Open initializes the playback device. It asks for an exclusive stream
// first and falls back once to a shared stream before reporting failure.
func (m *Malgo) Open(format audio.Format, render RenderFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		return fmt.Errorf("output already open")
	}
	if err := format.Validate(); err != nil {
		return err
	}
	if render == nil {
		return fmt.Errorf("render callback is required")
	}

	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return fmt.Errorf("failed to initialize malgo context: %w", err)
		}
		m.malgoCtx = ctx
	}

	m.format = format
	m.render = render
	m.scratch = make([]int16, format.SampleRate*scratchMs/1000*format.Channels)

	device, mode, err := openWithFallback(m.initDevice, m.freeContext)
	if err != nil {
		return err
	}
	m.device = device
	m.shareMode = mode

	log.Printf("Audio output initialized: %s (malgo/%s)", format, m.shareMode)
	return nil
}

// openWithFallback tries an exclusive device, then one shared device. When
// both fail release is called and no device is returned.
func openWithFallback(initDevice func(malgo.ShareMode) (*malgo.Device, error), release func()) (*malgo.Device, string, error) {
	device, err := initDevice(malgo.Exclusive)
	if err == nil {
		return device, "exclusive", nil
	}
	log.Printf("Exclusive playback device unavailable (%v), retrying in shared mode", err)

	device, err = initDevice(malgo.Shared)
	if err != nil {
		release()
		return nil, "", fmt.Errorf("failed to initialize playback device: %w", err)
	}
	return device, "shared", nil
}

// initDevice configures a low-latency S16 playback device (must hold m.mu)
func (m *Malgo) initDevice(mode malgo.ShareMode) (*malgo.Device, error) {
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(m.format.Channels)
	deviceConfig.Playback.ShareMode = mode
	deviceConfig.SampleRate = uint32(m.format.SampleRate)
	deviceConfig.PerformanceProfile = malgo.LowLatency
	deviceConfig.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{
		Data: m.dataCallback,
	}

	return malgo.InitDevice(m.malgoCtx.Context, deviceConfig, callbacks)
}

// dataCallback is called by malgo to fill the audio output buffer
func (m *Malgo) dataCallback(pOutput, _ []byte, frameCount uint32) {
	n := int(frameCount) * m.format.Channels
	if len(m.scratch) < n {
		// Device period larger than expected; grow once
		m.scratch = make([]int16, n)
	}
	samples := m.scratch[:n]
	m.render(samples)
	audio.PutInt16(pOutput, samples)
}

// Start starts the device
func (m *Malgo) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return fmt.Errorf("output not initialized")
	}
	if m.device.IsStarted() {
		return nil
	}
	if err := m.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	return nil
}

// Pause stops the device callback; miniaudio has no separate pause state
func (m *Malgo) Pause() error {
	return m.Stop()
}

// Stop stops the device
func (m *Malgo) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return fmt.Errorf("output not initialized")
	}
	if !m.device.IsStarted() {
		return nil
	}
	if err := m.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop device: %w", err)
	}
	return nil
}

// Close releases output resources
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
		m.device.Uninit()
		m.device = nil
	}
	m.freeContext()
	return nil
}

// freeContext releases the malgo context (must hold m.mu)
func (m *Malgo) freeContext() {
	if m.malgoCtx == nil {
		return
	}
	if err := m.malgoCtx.Uninit(); err != nil {
		log.Printf("Warning: malgo context uninit error: %v", err)
	}
	m.malgoCtx.Free()
	m.malgoCtx = nil
}
