// Package watch turns a stream of file change events into debounced
// re-analysis batches.
//
// The Scheduler keeps one pending set of paths and a single timer. Every
// event restarts the timer; when the window passes without new events the
// pending set is handed to the trigger as a Batch. A generation counter
// guards the timer so a fire from a replaced timer is ignored.
//
// FSSource adapts fsnotify to the Event channel the Scheduler consumes.
package watch
