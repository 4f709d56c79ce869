package search

import (
	"time"

	"go.uber.org/zap"
)

// EventHandler receives search progress events. The core emits them
// synchronously from the algorithm drivers; handlers must not mutate the
// core.
type EventHandler interface {
	// OnStateGenerated fires for every successor handed out by the state
	// repository during search, including duplicates of known states.
	OnStateGenerated(state *State)

	// OnStateExpanded fires when a state's applicable actions have been
	// generated and applied.
	OnStateExpanded(state *State)

	// OnLayerFinished fires when a breadth-first layer is exhausted.
	OnLayerFinished(layer int, expanded, generated int)

	// OnSolved fires once with the extracted plan.
	OnSolved(plan *Plan)

	// OnExhausted fires when the search space was exhausted without a
	// solution under the current pruning (the problem may still be
	// solvable at a higher width).
	OnExhausted()

	// OnUnsolvable fires when the whole space was exhausted without
	// pruning, proving unsolvability.
	OnUnsolvable()
}

// NopEventHandler ignores every event.
type NopEventHandler struct{}

func (NopEventHandler) OnStateGenerated(*State)       {}
func (NopEventHandler) OnStateExpanded(*State)        {}
func (NopEventHandler) OnLayerFinished(int, int, int) {}
func (NopEventHandler) OnSolved(*Plan)                {}
func (NopEventHandler) OnExhausted()                  {}
func (NopEventHandler) OnUnsolvable()                 {}

// StatisticsEventHandler counts search events and reports layer progress
// and the final outcome through a zap logger.
type StatisticsEventHandler struct {
	logger *zap.Logger
	start  time.Time

	Generated int
	Expanded  int
	Layers    int
}

// NewStatisticsEventHandler creates a handler logging to the given
// logger.
func NewStatisticsEventHandler(logger *zap.Logger) *StatisticsEventHandler {
	return &StatisticsEventHandler{logger: logger, start: time.Now()}
}

func (h *StatisticsEventHandler) OnStateGenerated(*State) { h.Generated++ }

func (h *StatisticsEventHandler) OnStateExpanded(*State) { h.Expanded++ }

func (h *StatisticsEventHandler) OnLayerFinished(layer int, expanded, generated int) {
	h.Layers = layer
	h.logger.Info("layer finished",
		zap.Int("layer", layer),
		zap.Int("expanded", expanded),
		zap.Int("generated", generated),
		zap.Duration("elapsed", time.Since(h.start)))
}

func (h *StatisticsEventHandler) OnSolved(plan *Plan) {
	h.logger.Info("solved",
		zap.Int("plan_length", plan.Length()),
		zap.Float64("plan_cost", plan.Cost),
		zap.Int("expanded", h.Expanded),
		zap.Int("generated", h.Generated),
		zap.Duration("elapsed", time.Since(h.start)))
}

func (h *StatisticsEventHandler) OnExhausted() {
	h.logger.Info("exhausted",
		zap.Int("expanded", h.Expanded),
		zap.Int("generated", h.Generated),
		zap.Duration("elapsed", time.Since(h.start)))
}

func (h *StatisticsEventHandler) OnUnsolvable() {
	h.logger.Info("unsolvable",
		zap.Int("expanded", h.Expanded),
		zap.Int("generated", h.Generated),
		zap.Duration("elapsed", time.Since(h.start)))
}
