package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ftl/cwplayer/audio"
	"github.com/ftl/cwplayer/morse"
	"github.com/ftl/cwplayer/play"
	"github.com/ftl/cwplayer/scope"
	"github.com/ftl/cwplayer/textio"
	"github.com/ftl/cwplayer/trace"
)

var playFlags = struct {
	file        string
	wpm         int
	pitch       int
	repeat      bool
	interactive bool
}{}

var playCmd = &cobra.Command{
	Use:   "play [text...]",
	Short: "play the given text as CW audio",
	Run:   runWithCtx(runPlay),
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringVar(&playFlags.file, "file", "", "play the content of this file")
	playCmd.Flags().IntVar(&playFlags.wpm, "wpm", play.DefaultWPM, "speed in WpM")
	playCmd.Flags().IntVar(&playFlags.pitch, "pitch", play.DefaultPitch, "pitch in Hz")
	playCmd.Flags().BoolVar(&playFlags.repeat, "repeat", false, "repeat the playback until interrupted")
	playCmd.Flags().BoolVar(&playFlags.interactive, "interactive", false, "read the text to play line by line from stdin")
}

func runPlay(ctx context.Context, s scope.Scope, cmd *cobra.Command, args []string) {
	audioContext := audio.NewContext("CWPlayer")
	defer audioContext.Close()

	indicator := newConsoleIndicator(os.Stdout)
	player := play.NewPlayer(audio.NewSynthesizer(audioContext), indicator, indicator)
	player.SetSettings(play.Settings{
		WPM:    playFlags.wpm,
		Pitch:  playFlags.pitch,
		Repeat: playFlags.repeat,
	})
	if rootFlags.trace != "" {
		player.SetTracer(trace.NewFileTracer("playback", rootFlags.trace))
	}

	monitor := scope.NewMonitor(audioContext.Tap(), audioContext.SampleRate(), s)
	monitor.SetPitchSource(func() float64 {
		return float64(player.Settings().Pitch)
	})
	monitor.Start()
	defer monitor.Stop()

	if playFlags.interactive {
		runInteractive(ctx, player, indicator)
		return
	}

	text, err := loadText(cmd, args)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}

	message := morse.Encode(text)
	indicator.SetMessage(message)
	player.Start(message)

	select {
	case <-player.Done():
	case <-ctx.Done():
		player.Stop()
		player.ResetSettings()
	}
}

// runInteractive plays one line of text at a time. Rapid edits are debounced,
// the encoder only ever sees the most recent line per debounce window. An
// empty line stops the current playback.
func runInteractive(ctx context.Context, player *play.Player, indicator *consoleIndicator) {
	commits := make(chan string)
	debouncer := textio.NewDebouncer(defaultDebounceWindow, func(text string) {
		select {
		case commits <- text:
		case <-ctx.Done():
		}
	})
	defer debouncer.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			player.Stop()
			player.ResetSettings()
			return
		case line, open := <-lines:
			if !open {
				player.Stop()
				return
			}
			debouncer.Update(line)
		case text := <-commits:
			player.Stop()
			if strings.TrimSpace(text) == "" {
				continue
			}
			message := morse.Encode(text)
			indicator.SetMessage(message)
			player.Start(message)
		}
	}
}

func loadText(cmd *cobra.Command, args []string) (string, error) {
	if playFlags.file != "" {
		return textio.Load(playFlags.file)
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return "", fmt.Errorf("nothing to play, give a text argument or use --file")
}
