// Package server exposes the distortion pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	stdlog "log"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/krish-shahh/time-distortion-map/cellindex"
	"github.com/krish-shahh/time-distortion-map/geomodel"
	"github.com/krish-shahh/time-distortion-map/locator"
	"github.com/krish-shahh/time-distortion-map/pipeline"
	"github.com/krish-shahh/time-distortion-map/traveltime"
)

const MaxBodySize = 32 * 1000 * 1000 // 32MB

var meter = otel.Meter("github.com/krish-shahh/time-distortion-map/server")

// Run serves the API until ctx is cancelled. A preloaded dataset is optional;
// without one the nearest-point and cell endpoints answer 404.
func Run(ctx context.Context, address string, preloaded *pipeline.Result) error {
	if err := setupTelemetry(ctx); err != nil {
		return fmt.Errorf("failed to initialize otel metrics: %w", err)
	}

	log := slog.Default()

	metricComputeCallCount, err := meter.Int64Counter("compute_call_total")
	if err != nil {
		return err
	}
	metricComputeCacheHits, err := meter.Int64Counter("compute_cache_hit_total")
	if err != nil {
		return err
	}
	metricTravelTimeCallCount, err := meter.Int64Counter("traveltime_call_total")
	if err != nil {
		return err
	}

	s := &server{
		log:   log,
		cache: xsync.NewMapOf[uint64, *pipeline.Result](),

		metricComputeCallCount:    metricComputeCallCount,
		metricComputeCacheHits:    metricComputeCacheHits,
		metricTravelTimeCallCount: metricTravelTimeCallCount,
	}
	if preloaded != nil {
		s.loadDataset(preloaded)
	}

	r := router.New()
	r.POST("/distortion/compute", s.ComputeHandler)
	r.POST("/distortion/traveltime", s.TravelTimeHandler)
	r.GET("/distortion/point/{x}/{y}", s.NearestPointHandler)
	r.GET("/distortion/cell/{x}/{y}", s.CellHandler)
	r.Handle(http.MethodGet, "/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))

	httpServer := &fasthttp.Server{
		ReadTimeout:        time.Second,
		MaxRequestBodySize: MaxBodySize,
		Handler:            r.Handler,
	}

	go func() {
		log.Info("Server listening", "address", address)
		if err := httpServer.ListenAndServe(address); err != http.ErrServerClosed {
			stdlog.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	slog.Info("Server started")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return httpServer.ShutdownWithContext(shutdownCtx)
}

type server struct {
	log *slog.Logger

	// cache keyed by request-body hash; identical configs reuse the result
	// since the pipeline is fully deterministic.
	cache *xsync.MapOf[uint64, *pipeline.Result]

	points *locator.Locator
	cells  *cellindex.CellIndex

	metricComputeCallCount    metric.Int64Counter
	metricComputeCacheHits    metric.Int64Counter
	metricTravelTimeCallCount metric.Int64Counter
}

func (s *server) loadDataset(res *pipeline.Result) {
	s.points = locator.New(res.Distorted)
	s.cells = cellindex.FromCells(res.Cells)
}

func (s *server) ComputeHandler(ctx *fasthttp.RequestCtx) {
	s.metricComputeCallCount.Add(ctx, 1)

	requestID := uuid.NewString()
	log := s.log.With("request_id", requestID)

	var cfg pipeline.Config
	if err := json.Unmarshal(ctx.Request.Body(), &cfg); err != nil {
		ctx.Response.SetStatusCode(http.StatusBadRequest)
		ctx.Response.SetBodyString("failed to parse config: " + err.Error())
		return
	}

	key := bodyHash(ctx.Request.Body())
	res, cached := s.cache.Load(key)
	if cached {
		s.metricComputeCacheHits.Add(ctx, 1)
	} else {
		runner := pipeline.NewRunner(cfg, log)
		var err error
		res, err = runner.Run(ctx)
		if err != nil {
			ctx.Response.SetStatusCode(http.StatusInternalServerError)
			ctx.Response.SetBodyString("pipeline failed: " + err.Error())
			return
		}
		s.cache.Store(key, res)
		log.Info("Pipeline computed", "points", len(res.Points), "bands", len(res.Bands))
	}

	body, err := json.Marshal(res)
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusInternalServerError)
		return
	}
	ctx.Response.Header.Set("X-Request-Id", requestID)
	ctx.Response.SetStatusCode(http.StatusOK)
	ctx.Response.SetBody(body)
}

func (s *server) TravelTimeHandler(ctx *fasthttp.RequestCtx) {
	s.metricTravelTimeCallCount.Add(ctx, 1)

	var req [][2]float64
	if err := unmarshalPointsListFast(ctx.Request.Body(), &req); err != nil {
		ctx.Response.SetStatusCode(http.StatusBadRequest)
		ctx.Response.SetBodyString("failed to parse request: " + err.Error())
		return
	}

	points := pointsFromPairs(req)
	matrix := traveltime.Matrix(points)

	body, err := json.Marshal(matrix)
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusInternalServerError)
		return
	}
	ctx.Response.SetStatusCode(http.StatusOK)
	ctx.Response.SetBody(body)
}

func (s *server) NearestPointHandler(ctx *fasthttp.RequestCtx) {
	if s.points == nil {
		ctx.Response.SetStatusCode(http.StatusNotFound)
		return
	}

	x, y, ok := coordArgs(ctx)
	if !ok {
		return
	}

	point, found := s.points.Find(x, y)
	if !found {
		ctx.Response.SetStatusCode(http.StatusNoContent)
		return
	}

	body, err := json.Marshal(point)
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusInternalServerError)
		return
	}
	ctx.Response.SetStatusCode(http.StatusOK)
	ctx.Response.SetBody(body)
}

func (s *server) CellHandler(ctx *fasthttp.RequestCtx) {
	if s.cells == nil {
		ctx.Response.SetStatusCode(http.StatusNotFound)
		return
	}

	x, y, ok := coordArgs(ctx)
	if !ok {
		return
	}

	site, found := s.cells.Query([2]float64{x, y})
	if !found {
		ctx.Response.SetStatusCode(http.StatusNoContent)
		return
	}

	body, err := json.Marshal(map[string]int{"site": site})
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusInternalServerError)
		return
	}
	ctx.Response.SetStatusCode(http.StatusOK)
	ctx.Response.SetBody(body)
}

func coordArgs(ctx *fasthttp.RequestCtx) (x, y float64, ok bool) {
	xS := ctx.UserValue("x").(string)
	yS := ctx.UserValue("y").(string)

	x, err := strconv.ParseFloat(xS, 64)
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusBadRequest)
		return 0, 0, false
	}
	y, err = strconv.ParseFloat(yS, 64)
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusBadRequest)
		return 0, 0, false
	}
	return x, y, true
}

func bodyHash(body []byte) uint64 {
	h := fnv.New64a()
	h.Write(body)
	return h.Sum64()
}

func pointsFromPairs(pairs [][2]float64) []geomodel.GridPoint {
	points := make([]geomodel.GridPoint, len(pairs))
	for i, pair := range pairs {
		p := orb.Point(pair)
		points[i] = geomodel.GridPoint{
			ID:       "p-" + strconv.Itoa(i),
			Point:    p,
			Original: p,
		}
	}
	return points
}
