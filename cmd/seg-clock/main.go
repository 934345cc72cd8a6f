// Command seg-clock drives a seven-segment clock with an alarm and a
// countdown timer, and reports its state over MQTT and HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"periph.io/x/host/v3"

	"github.com/sweeney/seg-clock/internal/app"
	"github.com/sweeney/seg-clock/internal/bus"
	"github.com/sweeney/seg-clock/internal/config"
	"github.com/sweeney/seg-clock/internal/expander"
	"github.com/sweeney/seg-clock/internal/gpio"
	"github.com/sweeney/seg-clock/internal/mqtt"
	"github.com/sweeney/seg-clock/internal/sched"
	"github.com/sweeney/seg-clock/internal/serial"
	"github.com/sweeney/seg-clock/internal/status"
	"github.com/sweeney/seg-clock/internal/store"
	"github.com/sweeney/seg-clock/internal/tone"
	"github.com/sweeney/seg-clock/internal/web"
)

// version is set at link time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// flagOverrides are the command-line values that take precedence over the
// configuration file.
type flagOverrides struct {
	configPath string
	serial     string
	broker     string
	httpAddr   string
	storePath  string
	buttons    string
	rtc        string
	heartbeat  time.Duration
}

func newRootCmd() *cobra.Command {
	var fo flagOverrides

	root := &cobra.Command{
		Use:          "seg-clock",
		Short:        "Seven-segment clock, alarm and countdown appliance",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&fo.configPath, "config", "c", "", "YAML configuration file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the appliance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &fo)
			if err != nil {
				return err
			}
			if err := run(cfg); err != nil {
				log.Fatalf("seg-clock: %v", err)
			}
			return nil
		},
	}
	addRunFlags(runCmd.Flags(), &fo)

	printStateCmd := &cobra.Command{
		Use:   "print-state",
		Short: "Print the persisted state and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &fo)
			if err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), store.NewFileBlock(cfg.Store.Path))
		},
	}
	printStateCmd.Flags().StringVar(&fo.storePath, "store", "", "persisted state file")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "seg-clock", version)
		},
	}

	root.AddCommand(runCmd, printStateCmd, versionCmd)
	return root
}

func addRunFlags(f *pflag.FlagSet, fo *flagOverrides) {
	f.StringVar(&fo.serial, "serial", "-", `console device ("-" for stdin/stdout)`)
	f.StringVar(&fo.broker, "broker", "", "MQTT broker address (empty to disable)")
	f.StringVar(&fo.httpAddr, "http", "", "HTTP status address (empty to disable)")
	f.StringVar(&fo.storePath, "store", "", "persisted state file")
	f.StringVar(&fo.buttons, "buttons", "", "button expander (tca6424|pcf8574)")
	f.StringVar(&fo.rtc, "rtc", "", "seconds source for warm resume (pcf8523|system)")
	f.DurationVar(&fo.heartbeat, "heartbeat", 0, "heartbeat interval (0 to disable)")
}

// loadConfig reads the configuration file and applies the flags that were
// set explicitly.
func loadConfig(cmd *cobra.Command, fo *flagOverrides) (*config.Config, error) {
	cfg, err := config.Load(fo.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("serial") {
		cfg.Serial.Device = fo.serial
	}
	if flags.Changed("broker") {
		cfg.MQTT.Broker = fo.broker
	}
	if flags.Changed("http") {
		cfg.HTTP.Addr = fo.httpAddr
	}
	if flags.Changed("store") {
		cfg.Store.Path = fo.storePath
	}
	if flags.Changed("buttons") {
		cfg.I2C.Buttons = fo.buttons
	}
	if flags.Changed("rtc") {
		cfg.I2C.RTC = fo.rtc
	}
	if flags.Changed("heartbeat") {
		cfg.MQTT.Heartbeat = fo.heartbeat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printState(w io.Writer, block store.Block) error {
	s := store.New(block, store.SystemRTC{})
	snap, err := s.Peek()
	if errors.Is(err, store.ErrColdStart) {
		fmt.Fprintln(w, "no persisted state")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}
	fmt.Fprintf(w, "clock: %s\n", snap.Calendar.String())
	fmt.Fprintf(w, "alarm: %s\n", snap.Alarm.String())
	fmt.Fprintf(w, "countdown: %02d:%02d.%03d\n", snap.Countdown.Min, snap.Countdown.Sec, snap.Countdown.Millisec)
	fmt.Fprintf(w, "rtc: %d\n", snap.RTCSeconds)
	return nil
}

// peripherals holds what run opened so that it can be closed on exit.
type peripherals struct {
	hw        app.Hardware
	busErrors func() uint64
	rtc       store.RTC
	async     *tone.AsyncOutput
	closers   []io.Closer
}

func (p *peripherals) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i].Close(); err != nil {
			log.Printf("close: %v", err)
		}
	}
}

func needsBus(cfg *config.Config) bool {
	return cfg.I2C.Expander != config.ExpanderNone ||
		cfg.I2C.Buttons == config.ButtonsPCF8574 ||
		cfg.I2C.RTC == config.RTCPCF8523
}

func openPeripherals(cfg *config.Config) (*peripherals, error) {
	p := &peripherals{rtc: store.SystemRTC{}}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}

	if needsBus(cfg) {
		raw, err := bus.Open(cfg.I2C.Bus)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, raw)
		counting := bus.NewCounting(raw.String(), raw)
		p.busErrors = counting.Errors

		if cfg.I2C.Expander == config.ExpanderTCA6424 {
			tca := expander.NewTCA6424(counting, 0)
			if err := tca.Configure(); err != nil {
				p.Close()
				return nil, fmt.Errorf("configure display expander: %w", err)
			}
			p.hw.Display = tca
			if cfg.I2C.Buttons == config.ButtonsTCA6424 {
				p.hw.Buttons = tca
			}

			leds := expander.NewPCA9557(counting, 0)
			if err := leds.Configure(); err != nil {
				log.Printf("status leds unavailable: %v", err)
			} else {
				p.hw.LEDs = leds
			}
		}

		if cfg.I2C.Buttons == config.ButtonsPCF8574 {
			btn, err := expander.NewPCF8574Buttons(counting, 0)
			if err != nil {
				p.Close()
				return nil, fmt.Errorf("configure button expander: %w", err)
			}
			p.hw.Buttons = btn
		}

		if cfg.I2C.RTC == config.RTCPCF8523 {
			rtc, err := store.NewPCF8523(counting)
			if err != nil {
				log.Printf("rtc unavailable, using system clock: %v", err)
			} else {
				p.rtc = rtc
			}
		}
	}

	if cfg.Panel.Chip != config.PanelNone {
		panel, err := gpio.NewRealReader(cfg.Panel.Chip, cfg.Panel.Line)
		if err != nil {
			log.Printf("panel button unavailable: %v", err)
		} else {
			p.hw.Panel = panel
			p.closers = append(p.closers, panel)
		}
	}

	p.hw.Buzzer = tone.Silent{}
	if cfg.Buzzer.Pin != "" {
		pwm, err := tone.NewPWMOutput(cfg.Buzzer.Pin)
		if err != nil {
			log.Printf("buzzer unavailable: %v", err)
		} else {
			p.closers = append(p.closers, pwm)
			p.async = tone.NewAsync(pwm)
			p.hw.Buzzer = p.async
		}
	}
	return p, nil
}

func run(cfg *config.Config) error {
	p, err := openPeripherals(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	port, err := serial.Open(serial.Config{Device: cfg.Serial.Device, Baud: cfg.Serial.Baud})
	if err != nil {
		return err
	}
	defer port.Close()
	console := serial.NewWriter(port)
	mailbox := serial.NewMailbox()
	reader := serial.NewReader(port, mailbox, func(line string) {
		if err := console.WriteLine("busy, dropped: " + line); err != nil {
			log.Printf("serial: write: %v", err)
		}
	})

	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	} = mqtt.NopPublisher{}
	if cfg.MQTT.Broker != "" {
		rp, err := mqtt.NewRealPublisher(cfg.MQTT.Broker)
		if err != nil {
			log.Printf("mqtt unavailable, events will not be published: %v", err)
		} else {
			publisher = rp
		}
	}
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:      cfg.Timing.Tick.Milliseconds(),
		HeartbeatMs: cfg.MQTT.Heartbeat.Milliseconds(),
		Broker:      cfg.MQTT.Broker,
		HTTPPort:    cfg.HTTP.Addr,
		Serial:      cfg.Serial.Device,
		Buttons:     cfg.I2C.Buttons,
		RTC:         cfg.I2C.RTC,
	})

	s := sched.New(sched.Config{Period: cfg.Timing.Tick, PersistEvery: cfg.Timing.PersistEvery})
	a := app.New(s, p.hw, app.Deps{
		Store:     store.New(store.NewFileBlock(cfg.Store.Path), p.rtc),
		Publisher: publisher,
		MQTT:      publisher,
		Tracker:   tracker,
		Mailbox:   mailbox,
		Console:   console,
		BusErrors: p.busErrors,
	}, app.Config{
		InterDigit:   cfg.Timing.InterDigit,
		Settle:       cfg.Timing.Settle,
		PanelSettle:  cfg.Timing.PanelSettle,
		RingTimeout:  cfg.Timing.RingTimeout,
		Heartbeat:    cfg.MQTT.Heartbeat,
		AlarmEnabled: cfg.Alarm.Enabled,
	})

	log.Printf("started: tick=%v serial=%s broker=%s heartbeat=%v store=%s",
		cfg.Timing.Tick, cfg.Serial.Device, cfg.MQTT.Broker, cfg.MQTT.Heartbeat, cfg.Store.Path)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	reason := "UNKNOWN"
	g.Go(func() error {
		select {
		case sig := <-sigCh:
			log.Printf("received %v, shutting down", sig)
			reason = signalName(sig)
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	g.Go(func() error { return s.Run(gctx) })
	if p.async != nil {
		g.Go(func() error { return p.async.Run(gctx) })
	}

	// The reader blocks in Read and may outlive the group on stdin.
	go func() {
		if err := reader.Run(gctx); err != nil {
			log.Printf("serial: reader stopped: %v", err)
		}
	}()

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server error: %v", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return srv.Shutdown(context.Background())
		})
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	g.Go(func() error {
		a.Boot()
		return a.Run(gctx)
	})

	err = g.Wait()
	a.Shutdown(reason)
	if rp, ok := publisher.(*mqtt.RealPublisher); ok && rp.Buffered() > 0 {
		log.Printf("mqtt: %d messages unsent at exit", rp.Buffered())
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
