package worker

import "github.com/Yhoqw/Kobe-Assist-Estimator-2025/pkg/logger"

// Option configures an InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker's name, used for logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		w.name = name
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		w.logger = l
	}
}
