package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/itohio/goforce/pkg/board"
	"github.com/itohio/goforce/pkg/config"
	"github.com/itohio/goforce/pkg/feedback"
	"github.com/itohio/goforce/pkg/force"
	"github.com/itohio/goforce/pkg/gauge"
	"github.com/itohio/goforce/pkg/series"
	"github.com/itohio/goforce/pkg/telemetry"
)

func main() {
	var (
		configFlag   = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag     = flag.Bool("mock", false, "Use simulated converters, LED strip and bell")
		headlessFlag = flag.Bool("headless", false, "Run without a window, logging forces to the console")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var hw *board.Board
	if *mockFlag {
		hw = board.OpenMock(cfg)
		log.Println("Using mocked board")
	} else {
		hw, err = board.Open(cfg)
		if err != nil {
			log.Fatalf("Failed to open board: %v", err)
		}
	}
	defer hw.Close()

	sched, err := newScheduler(cfg, hw)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	exporters := startExporters(cfg, sched)
	defer func() {
		for _, e := range exporters {
			e.Close()
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *headlessFlag {
		runHeadless(ctx, sched)
		return
	}

	application := app.NewWithID("com.itohio.goforce")
	window := application.NewWindow("Force Gauge")
	window.Resize(fyne.NewSize(1100, 700))
	window.CenterOnScreen()

	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		sched:      sched,
		window:     window,
	}
	window.SetContent(buildUI(state))
	sched.OnUpdate(state.onUpdate)

	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Scheduler stopped: %v", err)
		}
		fyne.Do(application.Quit)
	}()

	window.SetOnClosed(cancel)
	window.ShowAndRun()
}

// newScheduler assembles the sampling pipeline from the configuration.
func newScheduler(cfg *config.Config, hw *board.Board) (*gauge.Scheduler, error) {
	readers, err := hw.Readers(board.ADCOptions(cfg.ADC))
	if err != nil {
		return nil, err
	}

	renderer := feedback.NewRenderer(hw.Strip, hw.Bell, feedback.Options{
		MaxGreen:          cfg.LED.MaxGreen,
		CelebrationFrames: cfg.LED.CelebrationFrames,
	})

	var sens, shunt [force.NumAxes]float32
	for i, a := range cfg.Axes.All() {
		sens[i] = float32(a.Sensitivity)
		shunt[i] = float32(a.ShuntEquivalent)
	}
	cal := force.NewCalibration(sens, shunt, float32(cfg.Score.Default))

	window := series.New(series.Options{
		WindowSeconds:    float32(cfg.Sampling.WindowSeconds),
		TrimEverySeconds: float32(cfg.Sampling.TrimEverySeconds),
		TrimCount:        cfg.Sampling.TrimCount,
	})

	return gauge.New(readers, renderer, window, cal, gauge.Options{
		TickPeriod: cfg.Sampling.TickPeriod,
	}), nil
}

// startExporters connects the configured telemetry sinks. Failures are logged
// and the sink is skipped.
func startExporters(cfg *config.Config, sched *gauge.Scheduler) []*telemetry.Exporter {
	var exporters []*telemetry.Exporter

	if cfg.Telemetry.MQTT.Broker != "" {
		pub, err := telemetry.NewMQTTPublisher(cfg.Telemetry.MQTT)
		if err != nil {
			log.Printf("MQTT disabled: %v", err)
		} else {
			e := telemetry.NewExporter("MQTT", pub, telemetry.DefaultQueueSize)
			sched.OnUpdate(e.Handle)
			exporters = append(exporters, e)
			log.Printf("Publishing to %s on %s", cfg.Telemetry.MQTT.Topic, cfg.Telemetry.MQTT.Broker)
		}
	}

	if cfg.Telemetry.Serial.Port != "" {
		sink, err := telemetry.NewSerialSink(cfg.Telemetry.Serial)
		if err != nil {
			log.Printf("Serial output disabled: %v", err)
		} else {
			e := telemetry.NewExporter("serial", sink, telemetry.DefaultQueueSize)
			sched.OnUpdate(e.Handle)
			exporters = append(exporters, e)
			log.Printf("Writing lines to %s", cfg.Telemetry.Serial.Port)
		}
	}

	return exporters
}

// runHeadless runs the scheduler until ctx is done, logging once per second.
func runHeadless(ctx context.Context, sched *gauge.Scheduler) {
	var ticks int
	sched.OnUpdate(func(s gauge.Snapshot) {
		ticks++
		if ticks%10 == 0 || s.Celebrated {
			log.Print(telemetry.FormatLine(s))
		}
	})

	if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("Scheduler stopped: %v", err)
	}
}
