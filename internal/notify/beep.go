package notify

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

const (
	toneRate = beep.SampleRate(44100)
	toneFreq = 880.0
	toneLen  = 400 * time.Millisecond
)

// Beep plays path (mp3 or wav) and blocks until done. An empty path plays a
// short generated tone.
func Beep(path string) error {
	streamer, format, err := open(path)
	if err != nil {
		return err
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	done := make(chan bool)
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		done <- true
	})))
	<-done
	return nil
}

type nopCloser struct{ beep.Streamer }

func (nopCloser) Close() error { return nil }

func open(path string) (beep.StreamCloser, beep.Format, error) {
	if path == "" {
		format := beep.Format{SampleRate: toneRate, NumChannels: 2, Precision: 2}
		return nopCloser{Tone(toneRate, toneFreq, toneLen)}, format, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open sound: %w", err)
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		s, format, err = wav.Decode(f)
	default:
		s, format, err = mp3.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return s, format, nil
}

// Tone is a sine wave of freq Hz lasting d.
func Tone(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	total := sr.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			v := 0.3 * math.Sin(2*math.Pi*freq*float64(pos)/float64(sr))
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}
