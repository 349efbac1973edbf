package metrics

import "github.com/kilianp07/evrange/core/factory"

var sinkRegistry = factory.NewRegistry[DecisionSink]()

// RegisterDecisionSink adds a sink factory identified by name.
func RegisterDecisionSink(name string, f factory.Factory[DecisionSink]) error {
	return sinkRegistry.Register(name, f)
}

// RegisteredSinks lists the sink types known to the registry.
func RegisteredSinks() []string { return sinkRegistry.Types() }

// NewDecisionSink creates a DecisionSink from the provided configuration.
// Several configs yield a MultiSink; none yields a NopSink.
func NewDecisionSink(cfgs []factory.ModuleConfig) (DecisionSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]DecisionSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}

func init() {
	_ = RegisterDecisionSink("nop", func(map[string]any) (DecisionSink, error) {
		return NopSink{}, nil
	})
}
