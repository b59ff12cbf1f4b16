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

// Package periodicjobs runs background jobs of long running usermgmt processes.
package periodicjobs

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/redhat-data-and-ai/usermgmt/pkg/logger"
)

// PeriodicTask is a job executed every GetInterval.
type PeriodicTask interface {
	GetName() string
	GetInterval() time.Duration
	Run(ctx context.Context) error
}

// PeriodicTaskManager runs every registered task on its own ticker.
type PeriodicTaskManager struct {
	mu    sync.Mutex
	tasks []PeriodicTask
}

func NewPeriodicTaskManager() *PeriodicTaskManager {
	return &PeriodicTaskManager{}
}

// AddTask registers task. Tasks added after Start are not run.
func (m *PeriodicTaskManager) AddTask(task PeriodicTask) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
}

// Start runs the registered tasks until ctx is cancelled and waits for
// running tasks to return. Tasks with a non-positive interval are skipped.
func (m *PeriodicTaskManager) Start(ctx context.Context) error {
	m.mu.Lock()
	tasks := make([]PeriodicTask, len(m.tasks))
	copy(tasks, m.tasks)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, task := range tasks {
		log := logger.Logger(ctx).WithFields(logrus.Fields{
			"job":      task.GetName(),
			"interval": task.GetInterval().String(),
		})
		if task.GetInterval() <= 0 {
			log.Info("periodic job disabled")
			continue
		}

		wg.Add(1)
		go func(task PeriodicTask, log *logrus.Entry) {
			defer wg.Done()
			runTask(ctx, task, log)
		}(task, log)
	}

	<-ctx.Done()
	wg.Wait()
	return nil
}

func runTask(ctx context.Context, task PeriodicTask, log *logrus.Entry) {
	ticker := time.NewTicker(task.GetInterval())
	defer ticker.Stop()

	log.Info("periodic job started")
	for {
		select {
		case <-ticker.C:
			if err := task.Run(ctx); err != nil {
				log.WithError(err).Error("periodic job failed")
			}
		case <-ctx.Done():
			log.Info("stopping periodic job")
			return
		}
	}
}
