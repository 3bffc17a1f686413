package audio

import (
	"sync"

	"github.com/rs/zerolog"
)

// Player is the opaque playback backend.
type Player interface {
	Play(src string) error
	Pause(src string) error
}

// NopPlayer accepts every call. Servers use it because the client does the
// actual playback and only reports events back.
type NopPlayer struct{}

func (NopPlayer) Play(string) error  { return nil }
func (NopPlayer) Pause(string) error { return nil }

// Control tracks the "is playing" flag of one clip. It never touches grading
// state: completion and errors only clear the flag.
type Control struct {
	mu      sync.Mutex
	src     string
	playing bool
	player  Player
	logger  zerolog.Logger
}

// NewControl binds a clip to a player.
func NewControl(src string, player Player, logger zerolog.Logger) *Control {
	if player == nil {
		player = NopPlayer{}
	}
	return &Control{
		src:    src,
		player: player,
		logger: logger.With().Str("component", "audio").Str("src", src).Logger(),
	}
}

// Source is the clip path.
func (c *Control) Source() string {
	return c.src
}

// Playing reports the current flag.
func (c *Control) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Toggle starts or pauses playback and returns the new flag.
func (c *Control) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playing {
		if err := c.player.Pause(c.src); err != nil {
			c.logger.Warn().Err(err).Msg("pause failed")
		}
		c.playing = false
		return false
	}
	if err := c.player.Play(c.src); err != nil {
		c.logger.Warn().Err(err).Msg("playback failed")
		c.playing = false
		return false
	}
	c.playing = true
	return true
}

// Ended handles natural completion of the clip.
func (c *Control) Ended() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
}

// Failed handles a playback error reported by the client.
func (c *Control) Failed(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Warn().Err(err).Msg("playback error reported")
	c.playing = false
}
