package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background cache warming.
// Example usage:
//
//	scheduler := NewScheduler(store, feedLoad, incidentsLoad, synthesizer)
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
