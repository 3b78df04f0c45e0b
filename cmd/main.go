package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/urfave/cli/v3"

	_ "net/http/pprof"

	_ "github.com/KimMachineGun/automemlimit"

	"github.com/krish-shahh/time-distortion-map/dataset"
	"github.com/krish-shahh/time-distortion-map/distortion"
	"github.com/krish-shahh/time-distortion-map/pipeline"
	"github.com/krish-shahh/time-distortion-map/server"
)

func main() {
	app := &cli.App{
		Name:        "tdmap",
		Description: "Accessibility distortion engine: warps point grids by travel time",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "serve the distortion api",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "data",
						Aliases:   []string{"d"},
						Usage:     "precomputed dataset for point/cell lookups",
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
					},
				},
				Action: serve,
			},
			{
				Name:    "generate",
				Aliases: []string{"g"},
				Usage:   "run the pipeline once and save the dataset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "out",
						Aliases:   []string{"o"},
						Required:  true,
						TakesFile: true,
					},
					&cli.Float64Flag{
						Name:  "center.lon",
						Value: -71.0589,
					},
					&cli.Float64Flag{
						Name:  "center.lat",
						Value: 42.3601,
					},
					&cli.Float64Flag{
						Name:  "radius",
						Usage: "region radius in miles",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "count",
						Usage: "target grid point count",
						Value: 100,
					},
					&cli.Float64Flag{
						Name:  "factor",
						Usage: "distortion factor, 0-5",
						Value: 1,
					},
					&cli.StringFlag{
						Name:  "algorithm",
						Usage: "heuristic or mds",
						Value: "heuristic",
					},
					&cli.BoolFlag{
						Name:  "poisson",
						Usage: "blue-noise grid instead of a lattice",
					},
					&cli.IntFlag{
						Name:        "threads",
						Aliases:     []string{"t"},
						DefaultText: "max",
					},
					&cli.StringFlag{
						Name:        "pprof.listen",
						DefaultText: "",
					},
					&cli.BoolFlag{
						Name:        "pprof.profile",
						DefaultText: "",
					},
				},
				Action: generate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx *cli.Context) error {
	log := slog.Default()

	threads := ctx.Int("threads")
	if threads == 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	log = log.With("threads", threads)

	if pprofListen := ctx.String("pprof.listen"); pprofListen != "" {
		go func() {
			log.Info("Starting pprof server")
			err := http.ListenAndServe(pprofListen, nil)
			if err != nil {
				log.Error("Error starting pprof server", "error", err)
			}
		}()
	}

	if ctx.Bool("pprof.profile") {
		f, err := os.OpenFile("profile.cpu.pprof", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("error creating pprof file: %w", err)
		}
		err = pprof.StartCPUProfile(f)
		if err != nil {
			return fmt.Errorf("error starting pprof: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	cfg := pipeline.ConfigDefault()
	cfg.Center = [2]float64{ctx.Float64("center.lon"), ctx.Float64("center.lat")}
	cfg.RadiusMiles = ctx.Float64("radius")
	cfg.PointCount = ctx.Int("count")
	cfg.Factor = ctx.Float64("factor")
	cfg.PoissonGrid = ctx.Bool("poisson")
	cfg.Threads = threads
	if ctx.String("algorithm") == "mds" {
		cfg.Algorithm = distortion.ClassicalMDS
	}

	runner := pipeline.NewRunner(cfg, log)

	bar := pb.StartNew(len(pipeline.Stages))
	runner.OnProgress(func(stage string, done, total int) {
		bar.Set("prefix", stage+" ")
		bar.SetCurrent(int64(done))
	})

	res, err := runner.Run(ctx.Context)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}
	bar.Finish()

	saveFile := ctx.String("out")
	if !strings.HasSuffix(saveFile, ".tdm") {
		saveFile = saveFile + ".tdm"
	}

	err = dataset.SaveToFile(saveFile, res, dataset.Metadata{DateCreated: time.Now()}, log)
	if err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			log.Info("Generation complete", "rss", humanize.Bytes(mem.RSS))
		}
	}

	return nil
}

func serve(ctx *cli.Context) error {
	var preloaded *pipeline.Result

	if path := ctx.String("data"); path != "" {
		slog.Info("Loading dataset", "path", path)
		res, _, err := dataset.LoadFromFile(path, slog.Default())
		if err != nil {
			return err
		}
		preloaded = res
	}

	return server.Run(ctx.Context, ctx.String("listen"), preloaded)
}
