// File: cmd/hioload-pool/run.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/momentics/hioload-pool/api"
	"github.com/momentics/hioload-pool/control"
	"github.com/momentics/hioload-pool/pool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// workload describes the synthetic tasks pushed through the pool.
type workload struct {
	Tasks        int
	Producers    int
	Repeat       int
	TaskDuration time.Duration
	FailEvery    int
}

var load workload

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a pool and push a synthetic workload through it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := control.FromViper(cfgViper, cfgFile)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runPool(ctx, cfg, load, cmd.OutOrStdout())
	},
}

func init() {
	runCmd.Flags().IntVar(&load.Tasks, "tasks", 1000, "number of tasks to submit")
	runCmd.Flags().IntVar(&load.Producers, "producers", 4, "number of concurrent producers")
	runCmd.Flags().IntVar(&load.Repeat, "repeat", 1, "repeat count of every task")
	runCmd.Flags().DurationVar(&load.TaskDuration, "task-duration", 0, "time each task repetition sleeps")
	runCmd.Flags().IntVar(&load.FailEvery, "fail-every", 0, "make every n-th task fail, 0 disables")
}

func runPool(ctx context.Context, cfg control.Config, w workload, out io.Writer) error {
	if w.Producers < 1 || w.Tasks < 0 || w.Repeat < 1 {
		return fmt.Errorf("invalid workload: %+v", w)
	}
	log, err := control.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	opts, err := cfg.Options(log)
	if err != nil {
		return err
	}
	p := pool.New(opts...)
	defer p.Close()

	dp := control.NewDebugProbes()
	control.RegisterPlatformProbes(dp)
	control.RegisterPoolProbe(dp, p)

	if cfg.Metrics.Enabled {
		srv, err := serveMetrics(cfg.Metrics, p, log)
		if err != nil {
			return err
		}
		defer srv.Shutdown(context.Background())
	}

	if err := p.Start(); err != nil {
		return err
	}

	var done atomic.Int64
	started := time.Now()
	if err := produce(ctx, p, w, &done); err != nil {
		return err
	}
	stopErr := p.Stop()
	elapsed := time.Since(started)

	report := map[string]any{
		"elapsed":        elapsed.String(),
		"tasks_finished": done.Load(),
		"state":          dp.DumpState(),
	}
	if stopErr != nil {
		report["stop_error"] = stopErr.Error()
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

// produce fans the workload out over w.Producers goroutines.
func produce(ctx context.Context, p *pool.Pool, w workload, done *atomic.Int64) error {
	g, ctx := errgroup.WithContext(ctx)
	for id := 0; id < w.Producers; id++ {
		id := id
		g.Go(func() error {
			for i := id; i < w.Tasks; i += w.Producers {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := p.SubmitRepeat(syntheticTask(i, w, done), w.Repeat); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func syntheticTask(i int, w workload, done *atomic.Int64) api.Task {
	var runs int
	return api.TaskFunc(func() error {
		if w.TaskDuration > 0 {
			time.Sleep(w.TaskDuration)
		}
		if w.FailEvery > 0 && i%w.FailEvery == w.FailEvery-1 {
			return fmt.Errorf("synthetic failure of task %d", i)
		}
		runs++
		if runs == w.Repeat {
			done.Add(1)
		}
		return nil
	})
}

func serveMetrics(cfg control.MetricsConfig, p *pool.Pool, log *slog.Logger) (*http.Server, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(control.NewPoolCollector(cfg.Namespace, p)); err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "addr", cfg.Addr, "err", err)
		}
	}()
	log.Info("serving metrics", "addr", cfg.Addr)
	return srv, nil
}
