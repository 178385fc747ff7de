package events

import (
	"context"
	"log"
)

// Fanout olayı tüm hedeflere dağıtır. Tek tek hedef hataları loglanır ve
// yutulur; Publish her zaman nil döner.
type Fanout struct {
	targets []Publisher
}

func NewFanout(targets ...Publisher) *Fanout {
	return &Fanout{targets: targets}
}

func (f *Fanout) Publish(ctx context.Context, ev OrderEvent) error {
	for _, t := range f.targets {
		if err := t.Publish(ctx, ev); err != nil {
			log.Printf("sipariş olayı yayınlanamadı (%s, sipariş %s): %v", ev.EventType, ev.OrderID, err)
		}
	}
	return nil
}
