package common

import "sync"

type Job func() error

// JobQueue runs jobs in the background, in submission order. Used for work which shouldn't block
// an inference call, such as cache writes and dataset prefetching.
type JobQueue struct {
	jobsChannel chan Job
	stopChannel chan struct{}
	waitGroup   sync.WaitGroup
	logger      Logger
}

func NewJobQueue(logger Logger) *JobQueue {
	worker := &JobQueue{
		jobsChannel: make(chan Job, 128),
		stopChannel: make(chan struct{}),
		logger:      logger,
	}
	worker.waitGroup.Add(1)
	go worker.run()
	return worker
}

func (j *JobQueue) Enqueue(job Job) {
	j.jobsChannel <- job
}

// Stop shuts the worker down after running the jobs already enqueued. Callers must not
// Enqueue concurrently with Stop.
func (j *JobQueue) Stop() {
	j.stopChannel <- struct{}{}
	j.waitGroup.Wait()
}

func (j *JobQueue) run() {
	for {
		select {
		case job := <-j.jobsChannel:
			j.process(job)
		case <-j.stopChannel:
			j.drain()
			j.waitGroup.Done()
			return
		}
	}
}

// The select above can take the stop signal while jobs are still buffered; they are flushed
// here so that a shutdown doesn't silently discard pending work.
func (j *JobQueue) drain() {
	for {
		select {
		case job := <-j.jobsChannel:
			j.process(job)
		default:
			return
		}
	}
}

func (j *JobQueue) process(job Job) {
	err := job()
	if err != nil {
		j.logger.Log("failed to process a job: " + err.Error())
	}
}
