//go:build cgo && kuzu

package kuzu

// #include <kuzu.h>
import "C"

// DefaultSystemConfig returns the engine's own default configuration,
// including its machine-derived buffer pool size.
func DefaultSystemConfig() SystemConfig {
	c := C.kuzu_default_system_config()
	return SystemConfig{
		BufferPoolSize:      uint64(c.buffer_pool_size),
		MaxNumThreads:       uint64(c.max_num_threads),
		EnableCompression:   bool(c.enable_compression),
		ReadOnly:            bool(c.read_only),
		MaxDBSize:           uint64(c.max_db_size),
		AutoCheckpoint:      bool(c.auto_checkpoint),
		CheckpointThreshold: uint64(c.checkpoint_threshold),
	}
}

func (sc SystemConfig) toC() C.kuzu_system_config {
	return C.kuzu_system_config{
		buffer_pool_size:     C.uint64_t(sc.BufferPoolSize),
		max_num_threads:      C.uint64_t(sc.MaxNumThreads),
		enable_compression:   C.bool(sc.EnableCompression),
		read_only:            C.bool(sc.ReadOnly),
		max_db_size:          C.uint64_t(sc.MaxDBSize),
		auto_checkpoint:      C.bool(sc.AutoCheckpoint),
		checkpoint_threshold: C.uint64_t(sc.CheckpointThreshold),
	}
}
