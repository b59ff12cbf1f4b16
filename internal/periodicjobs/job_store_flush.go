/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package periodicjobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/redhat-data-and-ai/usermgmt/pkg/logger"
)

// StoreFlushJobName is the unique identifier of the store flush job.
const StoreFlushJobName = "usermgmt_store_flush"

// Flusher writes back pending mutations.
type Flusher interface {
	FlushIfDirty(ctx context.Context) error
}

// StoreFlushJob bounds how long mutations below the dirty limit stay unwritten
// in a long running process.
type StoreFlushJob struct {
	flusher  Flusher
	interval time.Duration
}

func NewStoreFlushJob(flusher Flusher, interval time.Duration) *StoreFlushJob {
	return &StoreFlushJob{
		flusher:  flusher,
		interval: interval,
	}
}

// AddToPeriodicTaskManager registers the job with mgr.
func (j *StoreFlushJob) AddToPeriodicTaskManager(mgr *PeriodicTaskManager) {
	mgr.AddTask(j)
}

func (j *StoreFlushJob) GetInterval() time.Duration {
	return j.interval
}

func (j *StoreFlushJob) GetName() string {
	return StoreFlushJobName
}

// Run flushes every entity kind with pending mutations. Each run is logged
// under its own request id.
func (j *StoreFlushJob) Run(ctx context.Context) error {
	ctx = logger.WithRequestId(ctx, uuid.New().String())
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"job": StoreFlushJobName,
	})

	start := time.Now()
	if err := j.flusher.FlushIfDirty(ctx); err != nil {
		log.WithError(err).Error("failed to flush store")
		return err
	}

	log.WithField("duration", time.Since(start).String()).Debug("store flush completed")
	return nil
}
