// Package sdlfrontend is the SDL2 host shell for the emulator core: a
// window, a streaming texture for the cropped video frame, a queued audio
// device for the APU's mixed PCM, and keyboard polling into a
// nes.ControllerState. None of this is imported back into pkg/...; the
// core has no notion of SDL.
package sdlfrontend

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/andrewthecodertx/nescore/pkg/apu"
	"github.com/andrewthecodertx/nescore/pkg/bus"
	"github.com/andrewthecodertx/nescore/pkg/nes"
	"github.com/andrewthecodertx/nescore/pkg/ppu"
)

const (
	visibleWidth  = 256
	visibleHeight = 224

	audioFreq = 44100

	// The core emits one sample per CPU cycle; keep every Nth to
	// approximate the audio device rate. Proper resampling is the host's
	// problem, and nearest-sample decimation is good enough for a debug
	// shell.
	audioDecimation = apu.SampleRate / audioFreq
)

// KeyMap assigns SDL keycodes to the eight NES buttons for one controller.
type KeyMap struct {
	Up, Down, Left, Right sdl.Keycode
	Start, Select         sdl.Keycode
	A, B                  sdl.Keycode
}

// DefaultKeyMap is the standard WASD-free layout used by the teacher's own
// sdl-display tool: arrow keys for the d-pad, Z/X for B/A, Enter/RShift
// for Start/Select.
var DefaultKeyMap = KeyMap{
	Up: sdl.K_UP, Down: sdl.K_DOWN, Left: sdl.K_LEFT, Right: sdl.K_RIGHT,
	Start: sdl.K_RETURN, Select: sdl.K_RSHIFT,
	A: sdl.K_x, B: sdl.K_z,
}

// Frontend owns the SDL window, renderer, texture, and audio device for a
// running System.
type Frontend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	audioDev sdl.AudioDeviceID

	scale      int
	pixels     []byte
	keys       KeyMap
	current    nes.ControllerState
	decimPhase int

	// OnKeyDown, when set, receives every key press PollEvents drains in
	// addition to the controller mapping - the caller's hook for
	// pause/reset/save-state keys.
	OnKeyDown func(sdl.Keycode)
}

// New initializes SDL video and audio and creates a window scaled by the
// given integer factor.
func New(title string, scale int, keys KeyMap) (*Frontend, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdlfrontend: sdl.Init: %w", err)
	}

	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(visibleWidth*scale), int32(visibleHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdlfrontend: CreateWindow: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdlfrontend: CreateRenderer: %w", err)
	}

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING,
		visibleWidth, visibleHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdlfrontend: CreateTexture: %w", err)
	}

	want := &sdl.AudioSpec{
		Freq:     audioFreq,
		Format:   sdl.AUDIO_S16SYS,
		Channels: 1,
		Samples:  1024,
	}
	audioDev, err := sdl.OpenAudioDevice("", false, want, nil, 0)
	if err != nil {
		texture.Destroy()
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdlfrontend: OpenAudioDevice: %w", err)
	}
	sdl.PauseAudioDevice(audioDev, false)

	return &Frontend{
		window:   window,
		renderer: renderer,
		texture:  texture,
		audioDev: audioDev,
		scale:    scale,
		pixels:   make([]byte, visibleWidth*visibleHeight*3),
		keys:     keys,
	}, nil
}

// Close tears down SDL resources.
func (f *Frontend) Close() {
	sdl.CloseAudioDevice(f.audioDev)
	f.texture.Destroy()
	f.renderer.Destroy()
	f.window.Destroy()
	sdl.Quit()
}

// PollEvents drains the SDL event queue, updating the live controller
// state and reporting whether the host asked to quit.
func (f *Frontend) PollEvents() (quit bool) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true
		case *sdl.KeyboardEvent:
			pressed := e.Type == sdl.KEYDOWN
			f.setKey(e.Keysym.Sym, pressed)
			if pressed && f.OnKeyDown != nil {
				f.OnKeyDown(e.Keysym.Sym)
			}
			if pressed && e.Keysym.Sym == sdl.K_ESCAPE {
				quit = true
			}
		}
	}
	return quit
}

func (f *Frontend) setKey(sym sdl.Keycode, pressed bool) {
	switch sym {
	case f.keys.Up:
		f.current.Up = pressed
	case f.keys.Down:
		f.current.Down = pressed
	case f.keys.Left:
		f.current.Left = pressed
	case f.keys.Right:
		f.current.Right = pressed
	case f.keys.Start:
		f.current.Start = pressed
	case f.keys.Select:
		f.current.Select = pressed
	case f.keys.A:
		f.current.A = pressed
	case f.keys.B:
		f.current.B = pressed
	}
}

// InputCallback is a nes.Config.InputCallback that serves the polled
// keyboard state for controller 0 and an all-released state for
// controller 1 (no second-controller input device wired).
func (f *Frontend) InputCallback(controllerID int) nes.ControllerState {
	if controllerID == 0 {
		return f.current
	}
	return nes.ControllerState{}
}

// VideoCallback is a nes.Config.VideoCallback that blits the cropped
// frame to the streaming texture and presents it.
func (f *Frontend) VideoCallback(frame bus.VideoFrame) {
	for i, colorOut := range frame.Pixels {
		c := ppu.ColorFromOutput(colorOut)
		f.pixels[i*3+0] = c.R
		f.pixels[i*3+1] = c.G
		f.pixels[i*3+2] = c.B
	}
	f.texture.Update(nil, unsafe.Pointer(&f.pixels[0]), visibleWidth*3)
	f.renderer.Clear()
	f.renderer.Copy(f.texture, nil, nil)
	f.renderer.Present()
}

// AudioCallback is a nes.Config.AudioCallback that decimates the
// CPU-clock-rate sample stream down to the device rate and queues it for
// playback, dropping batches outright if the host falls behind rather
// than growing the queue without bound.
func (f *Frontend) AudioCallback(samples []int16) {
	const maxQueuedBytes = 1024 * 8
	if sdl.GetQueuedAudioSize(f.audioDev) > maxQueuedBytes {
		return
	}
	buf := make([]byte, 0, len(samples)/audioDecimation*2+2)
	for _, s := range samples {
		f.decimPhase++
		if f.decimPhase < audioDecimation {
			continue
		}
		f.decimPhase = 0
		buf = append(buf, byte(s), byte(s>>8))
	}
	sdl.QueueAudio(f.audioDev, buf)
}
