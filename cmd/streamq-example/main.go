// Headless streamq player: queues the given URLs or files and plays them by
// draining their bytes, prefetching the next stream into the cache.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/streamq/internal/cache"
	"github.com/llehouerou/streamq/internal/config"
	"github.com/llehouerou/streamq/internal/download"
	"github.com/llehouerou/streamq/internal/errmsg"
	"github.com/llehouerou/streamq/internal/logging"
	"github.com/llehouerou/streamq/internal/playback"
	"github.com/llehouerou/streamq/internal/playlist"
)

var (
	repeatFlag     string
	noPrefetchFlag bool
	metricsAddr    string
)

var rootCmd = &cobra.Command{
	Use:   "streamq-example [flags] URL|FILE...",
	Short: "Play a queue of streams and files headlessly",
	Long: `streamq-example queues the given URLs or files and plays them by reading
all of their bytes. While one item plays, the next stream is prefetched into
the audio cache and handed over when the queue reaches it.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(_ *cobra.Command, args []string) error {
		return run(repeatFlag, !noPrefetchFlag, metricsAddr, args)
	},
}

func init() {
	rootCmd.Flags().StringVar(&repeatFlag, "repeat", "off", "repeat mode: off, track or queue")
	rootCmd.Flags().BoolVar(&noPrefetchFlag, "no-prefetch", false, "disable next-track prefetching")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(repeat string, prefetch bool, listen string, sources []string) error {
	mode, err := parseRepeatMode(repeat)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	log, closeLog, err := logging.New(cfg.GetLogConfig())
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer func() { _ = closeLog() }()

	store, err := cache.Open(cfg.Cache.Dir)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpCacheOpen, err))
	}
	log.Info().Str("root", store.Root()).Msg("cache ready")

	dl := cfg.GetDownloadConfig()
	downloader := download.NewHTTP(store,
		download.WithLogger(log.With().Str("component", "download").Logger()),
		download.WithChunkSize(dl.ChunkSize),
		download.WithUserAgent(dl.UserAgent),
		download.WithTimeout(dl.Timeout),
	)

	if listen != "" {
		go serveMetrics(log, listen)
	}

	player := newDrainPlayer(store, log.With().Str("component", "player").Logger())
	svc := playback.New(player, store, downloader,
		playback.WithLogger(log),
		playback.WithRepeatMode(mode),
		playback.WithPrefetch(prefetch && cfg.PrefetchEnabled()),
	)
	player.attach(svc)
	sub := svc.Subscribe()
	defer func() {
		player.Clear()
		_ = svc.Close()
	}()

	items := make([]*playlist.Item, 0, len(sources))
	for _, src := range sources {
		items = append(items, newItem(src))
	}
	svc.Add(items...)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case e := <-sub.TrackChanged:
			if e.Item == nil {
				continue
			}
			log.Info().
				Int("index", e.Index).
				Str("source", e.Item.Source).
				Bool("prefetched", e.Handoff != nil).
				Dur("previous_position", e.PreviousPosition).
				Msg("now playing")
		case e := <-sub.Error:
			log.Warn().Err(e.Err).Str("source", e.Source).Msg(errmsg.Format(e.Operation, e.Err))
		case e := <-sub.Ended:
			log.Info().Stringer("reason", e.Reason).Msg("playback ended")
			return nil
		case <-stop:
			log.Info().Msg("interrupted")
			return nil
		}
	}
}

func serveMetrics(log zerolog.Logger, addr string) {
	r := chi.NewRouter()
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server")
	}
}

func parseRepeatMode(s string) (playlist.RepeatMode, error) {
	switch strings.ToLower(s) {
	case "off", "":
		return playlist.RepeatOff, nil
	case "track":
		return playlist.RepeatTrack, nil
	case "queue":
		return playlist.RepeatQueue, nil
	default:
		return playlist.RepeatOff, fmt.Errorf("unknown repeat mode %q", s)
	}
}

func newItem(src string) *playlist.Item {
	item := &playlist.Item{
		Source: src,
		Kind:   playlist.SourceFile,
		Title:  filepath.Base(src),
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		item.Kind = playlist.SourceStream
	}
	return item
}
