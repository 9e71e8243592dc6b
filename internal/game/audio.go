package game

import (
	"bytes"
	"math"
	"math/rand"

	"github.com/hajimehoshi/oto/v2"
)

const (
	audioSampleRate   = 44100
	audioChannelCount = 2
	audioBitDepth     = 2 // 16-bit samples
)

// AudioSystem plays short procedural cues for weapon fire and grenade
// detonations. No sample assets: every cue is synthesised on demand.
// When no audio device is available the system stays nil and every call
// degrades to silence.
type AudioSystem struct {
	ctx   *oto.Context
	ready chan struct{}
	rng   *rand.Rand
}

// NewAudioSystem opens the audio device.
func NewAudioSystem() (*AudioSystem, error) {
	ctx, ready, err := oto.NewContext(audioSampleRate, audioChannelCount, audioBitDepth)
	if err != nil {
		return nil, err
	}
	return &AudioSystem{
		ctx:   ctx,
		ready: ready,
		rng:   rand.New(rand.NewSource(1)), // #nosec G404 -- cue variation only
	}, nil
}

func (a *AudioSystem) deviceReady() bool {
	if a == nil {
		return false
	}
	select {
	case <-a.ready:
		return true
	default:
		return false
	}
}

// PlayShot cues one gunshot for the given weapon archetype.
func (a *AudioSystem) PlayShot(id WeaponID) {
	if !a.deviceReady() {
		return
	}
	var freq, dur float64
	switch id {
	case WeaponPistol:
		freq, dur = 320, 0.07
	case WeaponSMG:
		freq, dur = 420, 0.05
	case WeaponRifle:
		freq, dur = 260, 0.08
	case WeaponSniper:
		freq, dur = 150, 0.22
	case WeaponShotgun:
		freq, dur = 110, 0.18
	default:
		freq, dur = 300, 0.07
	}
	a.play(a.burst(freq, dur, 0.55))
}

// PlayBlast cues a detonation; smoke and stun pop softer than a frag.
func (a *AudioSystem) PlayBlast(kind UtilityKind) {
	if !a.deviceReady() {
		return
	}
	switch kind {
	case UtilityFrag:
		a.play(a.burst(60, 0.45, 0.9))
	case UtilitySmoke:
		a.play(a.burst(90, 0.25, 0.4))
	case UtilityStun:
		a.play(a.burst(900, 0.30, 0.6))
	}
}

// burst renders a decaying noise-tinted tone into interleaved 16-bit
// stereo samples.
func (a *AudioSystem) burst(freq, dur, gain float64) []byte {
	n := int(dur * audioSampleRate)
	buf := make([]byte, n*audioChannelCount*audioBitDepth)
	phase := 0.0
	step := 2 * math.Pi * freq / audioSampleRate
	for i := 0; i < n; i++ {
		env := 1.0 - float64(i)/float64(n)
		env *= env
		s := math.Sin(phase) + (a.rng.Float64()*2-1)*0.6
		phase += step
		v := int16(clampF(s*env*gain, -1, 1) * math.MaxInt16)
		for c := 0; c < audioChannelCount; c++ {
			off := (i*audioChannelCount + c) * audioBitDepth
			buf[off] = byte(v)
			buf[off+1] = byte(v >> 8)
		}
	}
	return buf
}

func (a *AudioSystem) play(samples []byte) {
	p := a.ctx.NewPlayer(bytes.NewReader(samples))
	p.Play()
}
