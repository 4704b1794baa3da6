package voice

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"layeh.com/gopus"

	"github.com/latoulicious/Mejiro/pkg/player"
)

const (
	sampleRate = 48000
	channels   = 2
	frameSize  = 960                      // 20ms at 48kHz
	frameBytes = frameSize * channels * 2 // s16le

	bitrate = 128000

	// sendWait bounds a stalled OpusSend; readWait bounds a stalled ffmpeg.
	sendWait = time.Second
	readWait = 10 * time.Second
)

// playback streams one track: ffmpeg decodes the source URL to 48kHz stereo
// PCM, gopus packs 20ms frames, and the frames go out over the voice
// connection's OpusSend channel. Done fires exactly once per playback.
type playback struct {
	vc    *discordgo.VoiceConnection
	track player.Track
	log   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan error
	once   sync.Once

	mu     sync.Mutex
	paused bool
}

func newPlayback(vc *discordgo.VoiceConnection, t player.Track, logger zerolog.Logger) *playback {
	ctx, cancel := context.WithCancel(context.Background())
	return &playback{
		vc:     vc,
		track:  t,
		log:    logger.With().Str("track", t.Title).Logger(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan error, 1),
	}
}

func (p *playback) start() {
	go func() {
		p.finish(p.stream())
	}()
}

// Done implements player.Playback.
func (p *playback) Done() <-chan error { return p.done }

// Stop implements player.Playback; it forces an early, clean end.
func (p *playback) Stop() { p.cancel() }

// SetPaused implements player.Playback. While paused the frame loop simply
// stops reading; ffmpeg blocks on pipe backpressure until resume.
func (p *playback) SetPaused(paused bool) {
	p.mu.Lock()
	p.paused = paused
	p.mu.Unlock()
}

func (p *playback) isPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// finish delivers the end event exactly once. A cancelled context is a forced
// stop, not a failure.
func (p *playback) finish(err error) {
	p.once.Do(func() {
		if p.ctx.Err() != nil {
			err = nil
		}
		p.done <- err
	})
}

func (p *playback) stream() error {
	cmd := exec.CommandContext(p.ctx, "ffmpeg",
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", p.track.StreamURL,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", "48000",
		"-ac", "2",
		"-loglevel", "warning",
		"pipe:1")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to create ffmpeg stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.Wrap(err, "failed to create ffmpeg stderr pipe")
	}
	go p.drainStderr(stderr)

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start ffmpeg")
	}
	defer func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		cmd.Wait()
	}()

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return errors.Wrap(err, "failed to create opus encoder")
	}
	encoder.SetBitrate(bitrate)

	p.vc.Speaking(true)
	defer p.vc.Speaking(false)

	p.log.Debug().Msg("streaming started")
	return p.frameLoop(bufio.NewReaderSize(stdout, frameBytes*8), encoder)
}

func (p *playback) frameLoop(reader io.Reader, encoder *gopus.Encoder) error {
	buffer := make([]byte, frameBytes)
	samples := make([]int16, frameSize*channels)

	for {
		if p.ctx.Err() != nil {
			return nil
		}
		if p.isPaused() {
			select {
			case <-p.ctx.Done():
				return nil
			case <-time.After(20 * time.Millisecond):
			}
			continue
		}

		n, err := p.readFrame(reader, buffer)
		if err == io.EOF {
			p.log.Debug().Msg("stream ended")
			return nil
		}
		if err != nil {
			return err
		}

		// Zero-pad a short trailing frame to a full 20ms.
		for i := n; i < frameBytes; i++ {
			buffer[i] = 0
		}
		for i := 0; i < len(samples); i++ {
			samples[i] = int16(binary.LittleEndian.Uint16(buffer[i*2:]))
		}

		opus, err := encoder.Encode(samples, frameSize, frameBytes)
		if err != nil {
			return errors.Wrap(err, "opus encoding failed")
		}

		select {
		case p.vc.OpusSend <- opus:
		case <-p.ctx.Done():
			return nil
		case <-time.After(sendWait):
			return errors.New("voice send stalled")
		}
	}
}

// readFrame reads one full PCM frame, tolerating a short final read. A read
// that stalls past readWait counts as a dead stream.
func (p *playback) readFrame(reader io.Reader, buffer []byte) (int, error) {
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := io.ReadFull(reader, buffer)
		ch <- result{n, err}
	}()

	select {
	case r := <-ch:
		if r.err == io.ErrUnexpectedEOF && r.n > 0 {
			return r.n, nil
		}
		if r.err == io.ErrUnexpectedEOF {
			return 0, io.EOF
		}
		if r.err != nil && r.err != io.EOF {
			return 0, errors.Wrap(r.err, "error reading PCM data")
		}
		if r.err == io.EOF {
			return 0, io.EOF
		}
		return r.n, nil
	case <-p.ctx.Done():
		return 0, io.EOF
	case <-time.After(readWait):
		return 0, errors.New("timed out reading from ffmpeg")
	}
}

func (p *playback) drainStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.log.Debug().Str("ffmpeg", scanner.Text()).Msg("decoder output")
	}
}
