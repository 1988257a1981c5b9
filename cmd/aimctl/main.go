// Command aimctl aims an antenna from a terminal: it reads position and
// heading from an NMEA GPS/compass and beeps faster as the heading closes on
// the target.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldaim/internal/domain"
	"github.com/kailas-cloud/fieldaim/internal/domain/alignment"
	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
	domsite "github.com/kailas-cloud/fieldaim/internal/domain/site"
	logpkg "github.com/kailas-cloud/fieldaim/internal/logger"
	"github.com/kailas-cloud/fieldaim/internal/transport/nmea"
	aiminguc "github.com/kailas-cloud/fieldaim/internal/usecase/aiming"
	"github.com/kailas-cloud/fieldaim/internal/usecase/feedback"
	"github.com/kailas-cloud/fieldaim/internal/version"
)

const targetSiteID = "target"

var (
	portPath  = flag.String("port", "/dev/ttyUSB0", "Serial device of the GPS/compass")
	baud      = flag.Int("baud", nmea.DefaultBaudRate, "Serial baud rate")
	dataBits  = flag.Int("data-bits", 8, "Serial data bits (5-8)")
	stopBits  = flag.Int("stop-bits", 1, "Serial stop bits (1 or 2)")
	parity    = flag.String("parity", "N", "Serial parity (N, E, O)")
	replay    = flag.String("replay", "", "Read sentences from a capture file instead of the serial port")
	siteLat   = flag.Float64("site-lat", math.NaN(), "Target site latitude")
	siteLon   = flag.Float64("site-lon", math.NaN(), "Target site longitude")
	azimuth   = flag.Float64("azimuth", math.NaN(), "Fixed target azimuth in degrees (instead of a site)")
	smoothing = flag.Int("smooth", 3, "Heading samples to average (<= 1 disables)")
	quiet     = flag.Bool("quiet", false, "Do not ring the terminal bell")
	logLevel  = flag.String("log-level", "warn", "Log level")
	showVer   = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("aimctl", version.String())
		return
	}

	logger, err := logpkg.NewLogger("cli", *logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Error("aimctl failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "aimctl:", err)
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	target, err := parseTarget(*siteLat, *siteLon, *azimuth)
	if err != nil {
		return err
	}

	src, err := openSource()
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sites aiminguc.SiteGetter
	if target.site != nil {
		sites = staticSite{site: *target.site}
	}
	svc := aiminguc.New(sites, aiminguc.Config{
		SmoothingWindow: *smoothing,
		Feedback:        true,
	}, logger, aiminguc.WithSinkFactory(func(string) feedback.ToneSink {
		return bellSink{w: os.Stderr, quiet: *quiet}
	}))
	defer svc.Shutdown()

	snap, err := svc.Create(ctx)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	id := snap.ID
	if target.azimuth != nil {
		if _, err := svc.SetTarget(ctx, id, *target.azimuth); err != nil {
			return fmt.Errorf("set target: %w", err)
		}
	}

	var siteSelected sync.Once
	onEvent := func(ev nmea.Event) {
		switch ev.Kind {
		case nmea.KindFix:
			if _, err := svc.UpdatePosition(ctx, id, ev.Position.Lat, ev.Position.Lon); err != nil {
				logger.Debug("Position rejected", zap.Error(err))
				return
			}
			if target.site != nil {
				siteSelected.Do(func() {
					if _, err := svc.SelectSite(ctx, id, targetSiteID); err != nil {
						logger.Warn("Select site failed", zap.Error(err))
					}
				})
			}
		case nmea.KindHeading:
			if _, err := svc.UpdateHeading(ctx, id, ev.Heading); err != nil {
				logger.Debug("Heading rejected", zap.Error(err))
			}
		}
	}

	reader := nmea.NewReader(src, logger)
	readErr := make(chan error, 1)
	go func() { readErr <- reader.Run(ctx, onEvent) }()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if s, err := svc.Snapshot(id); err == nil {
				fmt.Fprint(os.Stdout, "\r"+statusLine(s)+"\033[K")
			}
		case err := <-readErr:
			fmt.Fprintln(os.Stdout)
			st := reader.Stats()
			logger.Info("Reader stopped",
				zap.Uint64("lines", st.Lines),
				zap.Uint64("fixes", st.Fixes),
				zap.Uint64("headings", st.Headings),
				zap.Uint64("errors", st.Errors),
			)
			if err == nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read nmea: %w", err)
		}
	}
}

type target struct {
	site    *domsite.Site
	azimuth *float64
}

// parseTarget accepts either a site coordinate or a fixed azimuth.
func parseTarget(lat, lon, az float64) (target, error) {
	hasSite := !math.IsNaN(lat) || !math.IsNaN(lon)
	hasAz := !math.IsNaN(az)
	switch {
	case hasSite && hasAz:
		return target{}, errors.New("use either -site-lat/-site-lon or -azimuth")
	case hasAz:
		return target{azimuth: &az}, nil
	case hasSite:
		st, err := domsite.New(targetSiteID, "", geo.Coordinate{Lat: lat, Lon: lon}, nil)
		if err != nil {
			return target{}, fmt.Errorf("site: %w", err)
		}
		return target{site: &st}, nil
	default:
		return target{}, errors.New("a target is required: -site-lat/-site-lon or -azimuth")
	}
}

func openSource() (io.ReadCloser, error) {
	if *replay != "" {
		f, err := os.Open(*replay)
		if err != nil {
			return nil, fmt.Errorf("open replay: %w", err)
		}
		return f, nil
	}
	return nmea.OpenPort(*portPath, nmea.PortOptions{
		BaudRate: *baud,
		DataBits: *dataBits,
		StopBits: *stopBits,
		Parity:   *parity,
	})
}

// staticSite serves the one site given on the command line.
type staticSite struct {
	site domsite.Site
}

func (s staticSite) Get(_ context.Context, id string) (domsite.Site, error) {
	if id != s.site.ID() {
		return domsite.Site{}, fmt.Errorf("site %s: %w", id, domain.ErrNotFound)
	}
	return s.site, nil
}

// bellSink rings the terminal bell once per cue.
type bellSink struct {
	w     io.Writer
	quiet bool
}

func (b bellSink) Cue(alignment.Cadence, alignment.State) {
	if !b.quiet {
		_, _ = io.WriteString(b.w, "\a")
	}
}

func statusLine(s aiminguc.Snapshot) string {
	st := s.State
	pos := "no fix"
	if s.Position != nil {
		pos = fmt.Sprintf("%.5f,%.5f", s.Position.Lat, s.Position.Lon)
	}
	heading := "---.-"
	if st.HasHeading {
		heading = fmt.Sprintf("%5.1f", st.Heading)
	}
	if !st.HasTarget() {
		return fmt.Sprintf("pos %s  hdg %s  waiting for target", pos, heading)
	}

	line := fmt.Sprintf("pos %s  hdg %s  tgt %5.1f %-2s", pos, heading, st.Target, geo.CompassPoint(st.Target))
	if s.Solution != nil {
		line += fmt.Sprintf("  %.2f km", s.Solution.Distance/1000)
	}
	if !st.HasHeading {
		return line
	}
	line += fmt.Sprintf("  diff %+6.1f", st.SignedDifference)
	if st.Aligned {
		line += "  ALIGNED"
	} else if st.SignedDifference > 0 {
		line += "  turn left"
	} else {
		line += "  turn right"
	}
	return line
}
