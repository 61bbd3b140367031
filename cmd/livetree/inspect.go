package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/livetree"
	"github.com/vango-dev/livetree/internal/config"
	"github.com/vango-dev/livetree/internal/demo"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/inspect"
	"github.com/vango-dev/livetree/pkg/scheduler"
)

func inspectCmd() *cobra.Command {
	var (
		dir  string
		addr string
		play time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve the todo application over the HTTP inspector",
		Long: `Mount the todo application on an event loop and serve it over the
HTTP inspector. Configuration is read from livetree.json or
livetree.yaml in --dir when present.

With --play the scripted session is replayed on the given interval, so
connected websocket clients receive a snapshot after every step.

Examples:
  livetree inspect
  livetree inspect --addr=0.0.0.0:7070 --play=2s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(dir)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspector.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runInspect(ctx, cfg, play)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory holding the configuration file")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from configuration)")
	cmd.Flags().DurationVar(&play, "play", 0, "Replay the scripted session on this interval")
	return cmd
}

func runInspect(ctx context.Context, cfg *config.Config, play time.Duration) error {
	logger := cfg.NewLogger(os.Stderr)
	if cfg.Name != "" {
		logger = logger.With("project", cfg.Name)
	}

	archive, err := newArchive(cfg.Archive)
	if err != nil {
		return err
	}

	loop := scheduler.NewLoop(logger)

	rtConfig := livetree.DefaultConfig()
	rtConfig.Logger = logger
	rtConfig.Queue = loop
	rtConfig.MaxCascade = cfg.MaxCascade()

	var (
		gatherer   prometheus.Gatherer
		registerer prometheus.Registerer
	)
	if cfg.Inspector.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		rtConfig.Metrics = reg
		gatherer, registerer = reg, reg
	}

	rt := livetree.New(rtConfig)
	defer rt.Close()

	sess := &session{rt: rt, doc: dom.NewDocument()}
	sess.reset()

	insp := inspect.New(inspect.Config{
		Runtime:    rt,
		Document:   sess.doc,
		Loop:       loop,
		Cells:      sess.cells(),
		Gatherer:   gatherer,
		Registerer: registerer,
		Archive:    archive,
		Logger:     logger,
	})

	loopCtx, cancelLoop := context.WithCancel(context.Background())
	defer func() {
		cancelLoop()
		<-loop.Done()
		insp.Close()
	}()
	go loop.Run(loopCtx)

	if play > 0 {
		go sess.replay(ctx, loop, play)
	}

	fmt.Println(headerStyle.Render("livetree inspector") + " " + dimStyle.Render("http://"+cfg.Inspector.Addr))
	err = insp.ListenAndServe(ctx, cfg.Inspector.Addr)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// session is the mounted todo application. Its fields are only touched
// on the loop once the loop runs.
type session struct {
	rt   *livetree.Runtime
	doc  *dom.MemoryDocument
	app  *demo.App
	root *livetree.Root
	step int
}

// reset mounts a freshly seeded application in place of the current one.
func (s *session) reset() {
	if s.root != nil {
		s.root.Unmount()
	}
	s.app = demo.New()
	demo.Seed(s.app)
	s.root = s.rt.MountDocument(s.doc, s.app.View())
	s.step = 0
}

// cells reads through to whichever application is mounted.
func (s *session) cells() map[string]func() any {
	cells := make(map[string]func() any)
	for name := range demo.New().Cells() {
		name := name
		cells[name] = func() any { return s.app.Cells()[name]() }
	}
	return cells
}

// advance runs the next scripted step, starting over after the last one.
func (s *session) advance() {
	script := demo.Script()
	if s.step >= len(script) {
		s.reset()
		// Push the reset to subscribers.
		s.rt.Scheduler().ScheduleRevalidate()
		return
	}
	script[s.step].Run(s.app)
	s.step++
}

func (s *session) replay(ctx context.Context, loop *scheduler.Loop, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		err := loop.Do(ctx, func() error {
			s.advance()
			return nil
		})
		if err != nil {
			return
		}
	}
}

func newArchive(cfg config.ArchiveConfig) (inspect.Archive, error) {
	switch cfg.Kind {
	case config.ArchiveNone:
		return nil, nil
	case config.ArchiveDisk:
		return inspect.NewDiskArchive(cfg.Dir)
	case config.ArchiveS3:
		return inspect.NewS3Archive(inspect.NewS3Client(cfg.Region), cfg.Bucket, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown archive kind %q", cfg.Kind)
	}
}
