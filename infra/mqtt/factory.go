package mqtt

import (
	"github.com/kilianp07/evrange/core/factory"
	coremetrics "github.com/kilianp07/evrange/core/metrics"
)

func init() {
	_ = coremetrics.RegisterDecisionSink("mqtt", func(conf map[string]any) (coremetrics.DecisionSink, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPublisher(c)
	})
}
