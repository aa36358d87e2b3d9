// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/digitallib/kramerius-go/kramerius"
)

// processRunner plans batches of admin processes and waits for them to
// finish. Planning is throttled by the configured MaxActiveProcesses
// and failed processes are replanned up to the retry budget.
type processRunner struct {
	client       *kramerius.Client
	log          *zap.Logger
	pollInterval time.Duration
}

func newProcessRunner(client *kramerius.Client) *processRunner {
	return &processRunner{
		client:       client,
		log:          rootLog,
		pollInterval: client.RetryTimeout(),
	}
}

type plannedJob struct {
	uuid    string
	params  kramerius.ProcessParams
	retries int
}

// Run plans one process of type t per entry of jobs and blocks until
// every process has left the queue.
func (r *processRunner) Run(ctx context.Context, t kramerius.ProcessType, jobs []kramerius.ProcessParams) error {
	pending := make(map[string]*plannedJob, len(jobs))
	for _, params := range jobs {
		job := &plannedJob{params: params}
		if err := r.plan(ctx, t, job); err != nil {
			return err
		}
		pending[job.uuid] = job
	}

	for len(pending) > 0 {
		if err := sleepCtx(ctx, r.pollInterval); err != nil {
			return err
		}
		for uuid, job := range pending {
			detail, err := r.client.Processing.GetByUUID(ctx, uuid)
			if err != nil {
				return err
			}
			state := detail.Process.State
			if state.Active() {
				continue
			}
			delete(pending, uuid)

			switch state {
			case kramerius.ProcessStateFinished, kramerius.ProcessStateWarning:
				r.log.Info("process finished",
					zap.String("uuid", uuid), zap.String("state", string(state)))
			case kramerius.ProcessStateFailed, kramerius.ProcessStateKilled:
				if job.retries >= r.client.MaxRetries() {
					return fmt.Errorf("process %s ended %s after %d attempts", uuid, state, job.retries+1)
				}
				job.retries++
				r.log.Warn("process failed, replanning",
					zap.String("uuid", uuid), zap.Int("attempt", job.retries+1))
				if err := r.plan(ctx, t, job); err != nil {
					return err
				}
				pending[job.uuid] = job
			}
		}
	}
	return nil
}

// plan waits for a free queue slot and submits job, recording the uuid
// the server assigned.
func (r *processRunner) plan(ctx context.Context, t kramerius.ProcessType, job *plannedJob) error {
	if err := r.waitForSlot(ctx); err != nil {
		return err
	}
	res, err := r.client.Processing.Plan(ctx, t, job.params)
	if err != nil {
		return err
	}
	job.uuid = res.UUID
	r.log.Info("process planned",
		zap.String("type", string(t)), zap.String("uuid", res.UUID))
	return nil
}

func (r *processRunner) waitForSlot(ctx context.Context) error {
	limit := r.client.MaxActiveProcesses()
	if limit <= 0 {
		return nil
	}
	for {
		active, err := r.client.Processing.NumActive(ctx)
		if err != nil {
			return err
		}
		if active < limit {
			return nil
		}
		r.log.Debug("process queue full, waiting",
			zap.Int("active", active), zap.Int("limit", limit))
		if err := sleepCtx(ctx, r.pollInterval); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
