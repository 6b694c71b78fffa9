// Package workerpool provides a small fixed-size goroutine pool used to
// fan per-stripe encode/decode work out across CPUs during write, read,
// insert, and delete. Each call creates one Room, submits one task per
// independent stripe, and collects the results once every task in the
// room has run.
package workerpool

import (
	"fmt"
	"runtime"
	"sync"
)

type WorkerPool struct {
	config    Config
	taskQueue chan Task
}

type Config struct {
	WorkerCount  int
	GlobalBuffer int
}

type Room struct {
	resultChan chan interface{}
	wg         sync.WaitGroup
	wp         *WorkerPool
	submitted  int
}

type Task struct {
	run  func() interface{}
	room *Room
}

func NewWorkerPool(config Config) *WorkerPool {
	if config.WorkerCount < 1 {
		config.WorkerCount = runtime.NumCPU()
	}

	if config.GlobalBuffer < 1 {
		config.GlobalBuffer = 10000
	}

	taskQueue := make(chan Task, config.GlobalBuffer)

	wp := &WorkerPool{
		config:    config,
		taskQueue: taskQueue,
	}

	for i := 0; i < config.WorkerCount; i++ {
		go wp.Worker()
	}

	return wp
}

func (wp *WorkerPool) Worker() {
	for t := range wp.taskQueue {
		t.room.resultChan <- t.run()
		t.room.wg.Done()
	}
}

// CreateRoom returns a Room sized for the given number of tasks, e.g. one
// per stripe in the current operation.
func (wp *WorkerPool) CreateRoom(size int) *Room {
	return &Room{
		resultChan: make(chan interface{}, size),
		wp:         wp,
	}
}

func (ro *Room) NewTaskWaitForFreeSlot(job func() interface{}) {
	task := Task{
		run:  job,
		room: ro,
	}
	ro.wg.Add(1)
	ro.submitted++
	ro.wp.taskQueue <- task
}

func (ro *Room) NewTask(job func() interface{}) error {
	if len(ro.wp.taskQueue) == cap(ro.wp.taskQueue) {
		return fmt.Errorf("workerpool: global buffer is full, wait for tasks to finish or increase GlobalBuffer")
	}

	if ro.submitted >= cap(ro.resultChan) {
		return fmt.Errorf("workerpool: room buffer is full, increase the room size")
	}

	ro.NewTaskWaitForFreeSlot(job)

	return nil
}

// Collect blocks until every task submitted to the room has completed and
// returns their results in completion order.
func (ro *Room) Collect() []interface{} {
	go ro.waitAndClose()
	results := make([]interface{}, 0, cap(ro.resultChan))

	for result := range ro.resultChan {
		results = append(results, result)
	}

	return results
}

func (ro *Room) waitAndClose() {
	ro.wg.Wait()
	close(ro.resultChan)
}
