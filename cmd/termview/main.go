// Command termview runs the particle field headless and draws a density
// map in the terminal.
//
// Keys: space pause, n step, r reset, c/h drag -/+1, C/H -/+10,
// +/- wall damping, q quit.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/pthm-cable/morsefield/config"
	"github.com/pthm-cable/morsefield/game"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	seed := flag.Int64("seed", 0, "Random seed (0 = config seed or time)")
	fps := flag.Int("fps", 20, "Frames drawn per second")
	steps := flag.Int("steps", 4, "Ticks per frame")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after this many ticks (0 = run until q)")
	logPath := flag.String("log", "", "Write JSON logs to this file (empty = discard)")
	flag.Parse()

	logger, closeLog, err := openLog(*logPath)
	if err != nil {
		log.Fatalf("failed to open log: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	if *seed == 0 {
		*seed = cfg.Particles.Seed
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           *seed,
		Headless:       true,
		StepsPerUpdate: *steps,
	})
	if err != nil {
		log.Fatalf("failed to create world: %v", err)
	}
	defer g.Unload()

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			log.Fatalf("failed to enable raw mode: %v", err)
		}
		defer func() {
			_ = term.Restore(fd, oldState)
		}()
	}

	out := bufio.NewWriterSize(os.Stdout, 1<<16)
	fmt.Fprint(out, "\033[?25l\033[H\033[2J")
	defer func() {
		fmt.Fprint(out, "\033[?25h\r\n")
		out.Flush()
	}()

	keys := make(chan byte, 16)
	go readKeys(os.Stdin, keys)

	ticker := time.NewTicker(time.Second / time.Duration(max(*fps, 1)))
	defer ticker.Stop()

	for {
		select {
		case k, ok := <-keys:
			if !ok {
				// stdin closed, keep drawing
				keys = nil
				continue
			}
			if k == 'q' || k == 3 {
				return
			}
			if cmd, ok := keyCommand(k); ok {
				g.Enqueue(cmd)
			}
		case <-ticker.C:
			g.UpdateHeadless()
			draw(out, g)
			if *maxTicks > 0 && g.Tick() >= *maxTicks {
				return
			}
		}
	}
}

// keyCommand maps a key to a game command.
func keyCommand(k byte) (game.Command, bool) {
	switch k {
	case ' ':
		return game.TogglePause(), true
	case 'n':
		return game.StepOnce(), true
	case 'r':
		return game.Reset(), true
	case 'c':
		return game.AdjustGlobalDamping(-1), true
	case 'h':
		return game.AdjustGlobalDamping(1), true
	case 'C':
		return game.AdjustGlobalDamping(-10), true
	case 'H':
		return game.AdjustGlobalDamping(10), true
	case '+', '=':
		return game.AdjustBoundaryDamping(1), true
	case '-':
		return game.AdjustBoundaryDamping(-1), true
	}
	return game.Command{}, false
}

func readKeys(r io.Reader, keys chan<- byte) {
	defer close(keys)
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err != nil {
			return
		}
		keys <- b
	}
}

// draw renders one frame. The last terminal row holds the status line.
func draw(w *bufio.Writer, g *game.Game) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols < 10 || rows < 3 {
		cols, rows = 80, 24
	}
	rows--

	counts := Density(g.Particles(), g.World().Config().Bounds, cols, rows)
	lines := Shade(counts, cols, rows)

	w.WriteString("\033[H")
	w.WriteString(strings.Join(lines, "\r\n"))
	w.WriteString("\r\n")
	w.WriteString(status(g, cols))
	w.Flush()
}

func status(g *game.Game, cols int) string {
	p := g.Params()
	st := g.Stats()
	state := "running"
	if g.Paused() {
		state = "paused"
	}
	s := fmt.Sprintf("tick %d  %s  drag 1/%d  wall %d%%  speed %.1f  resets %d  [q]uit",
		g.Tick(), state, p.GlobalVelocityDamping, p.BoundaryDamping, st.SpeedMean, st.Resets)
	if len(s) > cols {
		s = s[:cols]
	}
	return "\033[7m" + s + strings.Repeat(" ", cols-len(s)) + "\033[0m"
}

func openLog(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewJSONHandler(f, nil)), func() { f.Close() }, nil
}
