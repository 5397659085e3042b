package engine

import "github.com/gordonklaus/portaudio"

// Stream abstracts a single-direction audio stream for testing, mirroring
// the blocking Read/Write/Start/Stop/Close surface portaudio.Stream exposes.
type Stream interface {
	Start() error
	Stop() error
	Close() error
	Read() error
	Write() error
}

// Device describes one enumerable audio endpoint.
type Device struct {
	Index int
	Name  string
	MaxInputChannels  int
	MaxOutputChannels int
}

// DeviceIO opens capture and playback streams. PortAudioIO is the
// production implementation; FakeIO drives engine tests without a
// real sound card.
type DeviceIO interface {
	Init() error
	Terminate() error
	Devices() ([]Device, error)
	OpenCaptureStream(deviceIdx int, sampleRate float64, channels, framesPerBuffer int, buf []float32) (Stream, error)
	OpenPlaybackStream(deviceIdx int, sampleRate float64, channels, framesPerBuffer int, buf []float32) (Stream, error)
}

// PortAudioIO wraps github.com/gordonklaus/portaudio for real capture
// (via a monitor/loopback-capable input device) and playback.
type PortAudioIO struct{}

func (PortAudioIO) Init() error      { return portaudio.Initialize() }
func (PortAudioIO) Terminate() error { return portaudio.Terminate() }

func (PortAudioIO) Devices() ([]Device, error) {
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	out := make([]Device, len(devs))
	for i, d := range devs {
		out[i] = Device{
			Index:             i,
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			MaxOutputChannels: d.MaxOutputChannels,
		}
	}
	return out, nil
}

func (PortAudioIO) OpenCaptureStream(deviceIdx int, sampleRate float64, channels, framesPerBuffer int, buf []float32) (Stream, error) {
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	dev, err := resolveDevice(devs, deviceIdx, portaudio.DefaultInputDevice)
	if err != nil {
		return nil, err
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: channels,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      sampleRate,
		FramesPerBuffer: framesPerBuffer,
	}
	return portaudio.OpenStream(params, buf)
}

func (PortAudioIO) OpenPlaybackStream(deviceIdx int, sampleRate float64, channels, framesPerBuffer int, buf []float32) (Stream, error) {
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	dev, err := resolveDevice(devs, deviceIdx, portaudio.DefaultOutputDevice)
	if err != nil {
		return nil, err
	}

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: channels,
			Latency:  dev.DefaultLowOutputLatency,
		},
		SampleRate:      sampleRate,
		FramesPerBuffer: framesPerBuffer,
	}
	return portaudio.OpenStream(params, buf)
}

func resolveDevice(devices []*portaudio.DeviceInfo, idx int, fallback func() (*portaudio.DeviceInfo, error)) (*portaudio.DeviceInfo, error) {
	if idx >= 0 && idx < len(devices) {
		return devices[idx], nil
	}
	return fallback()
}
