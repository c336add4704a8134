package content

import "github.com/mastermind-creat/techsafi/domain/events"

// Item events describe changes to single entries of list domains. They only
// go to TopicAdmin; public pages follow the domain-level config events.

func (s *Service) ItemCreated(entity events.Entity, id, actor string) {
	if s.events == nil {
		return
	}
	s.events.EmitCreated(entity, id, events.TopicAdmin, &events.Options{Actor: actorOf(actor)})
}

func (s *Service) ItemDeleted(entity events.Entity, id, actor string) {
	if s.events == nil {
		return
	}
	s.events.EmitDeleted(entity, id, events.TopicAdmin, &events.Options{Actor: actorOf(actor)})
}

// ItemsChanged emits one batch event for ids written together.
func (s *Service) ItemsChanged(entity events.Entity, ids []string, actor string) {
	if s.events == nil || len(ids) == 0 {
		return
	}
	s.events.EmitBatch(entity, ids, events.TopicAdmin, map[string]any{"actor": actorOf(actor), "count": len(ids)})
}
