// Package manager coordinates model residency, admission, and generation
// for the image service. It is structured into small files by concern:
//
//   - manager.go: core Service type, constructor, simple getters.
//   - config.go: ServiceConfig and package defaults.
//   - types.go: internal state types (State, resident).
//   - errors.go: error types and helpers (IsInvalidArgument, IsNoModelLoaded,
//     IsModelLoad, IsGeneration, IsTooBusy).
//   - load.go: model load/switch lifecycle and the residency cache.
//   - admission.go: per-resident single-in-flight generation admission.
//   - generate.go: prompt-only generation orchestration.
//   - scene.go: reference-conditioned ("character consistent") generation.
//   - status.go: status reporting for observability.
//   - metrics.go: prometheus instrumentation.
//
// Residency model: at most Capacity engines stay in memory (1 on cpu, 2 on
// gpu). There is no eviction: once the cache is full, loading a new model
// produces a transient active handle that is torn down on the next switch.
// Switching away and back to an uncached model reconstructs it from scratch.
//
// Concurrency model: generations against one resident engine are serialized
// through a size-1 channel; Load blocks new admission and waits for in-flight
// generations to finish before switching handles.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (New, Load, Generate, GenerateScene, Status, Ready,
// Close). Internal types are subject to change.
package manager
